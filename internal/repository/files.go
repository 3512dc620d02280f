package repository

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/maritime-tracker/constants"
	"github.com/joseph-ayodele/maritime-tracker/internal/entity"
)

type DocumentFileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DocumentFile, error)
	GetByHash(ctx context.Context, hash []byte) (*entity.DocumentFile, error)
	Create(ctx context.Context, sourcePath, filename, ext string, kind constants.SourceKind, size int64, hash []byte, uploadedAt time.Time) (*entity.DocumentFile, error)
	UpsertByHash(ctx context.Context, sourcePath, filename, ext string, kind constants.SourceKind, size int64, hash []byte, uploadedAt time.Time) (*entity.DocumentFile, bool, error)
}

type documentFileRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewDocumentFileRepository(db *DB, logger *slog.Logger) DocumentFileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentFileRepo{
		db:     db,
		logger: logger,
	}
}

const fileColumns = `id, source_path, filename, file_ext, source_kind, file_size, content_hash, uploaded_at`

func (r *documentFileRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.DocumentFile, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT `+fileColumns+` FROM document_files WHERE id = ?`), id.String())
	f, err := scanFile(row)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Error("failed to get document file", "file_id", id, "error", err)
		}
		return nil, err
	}
	return f, nil
}

func (r *documentFileRepo) GetByHash(ctx context.Context, hash []byte) (*entity.DocumentFile, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT `+fileColumns+` FROM document_files WHERE content_hash = ?`), hex.EncodeToString(hash))
	f, err := scanFile(row)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Error("failed to get document file by hash", "error", err)
		}
		return nil, err
	}
	return f, nil
}

func (r *documentFileRepo) Create(ctx context.Context, sourcePath, filename, ext string, kind constants.SourceKind, size int64, hash []byte, uploadedAt time.Time) (*entity.DocumentFile, error) {
	f := &entity.DocumentFile{
		ID:          uuid.New(),
		SourcePath:  sourcePath,
		ContentHash: hash,
		Filename:    filename,
		FileExt:     ext,
		SourceKind:  kind,
		FileSize:    size,
		UploadedAt:  uploadedAt.UTC(),
	}
	_, err := r.db.ExecContext(ctx, r.db.rebind(`INSERT INTO document_files (`+fileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		f.ID.String(), f.SourcePath, f.Filename, f.FileExt, string(f.SourceKind), f.FileSize, hex.EncodeToString(hash), formatTime(f.UploadedAt))
	if err != nil {
		r.logger.Error("failed to create document file", "source_path", sourcePath, "filename", filename, "error", err)
		return nil, err
	}
	return f, nil
}

func (r *documentFileRepo) UpsertByHash(ctx context.Context, sourcePath, filename, ext string, kind constants.SourceKind, size int64, hash []byte, uploadedAt time.Time) (*entity.DocumentFile, bool, error) {
	if existing, err := r.GetByHash(ctx, hash); err == nil {
		return existing, true, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	row, err := r.Create(ctx, sourcePath, filename, ext, kind, size, hash, uploadedAt)
	if err != nil {
		// lost a race with a concurrent insert of the same content
		if existing, gerr := r.GetByHash(ctx, hash); gerr == nil {
			return existing, true, nil
		}
		r.logger.Error("failed to upsert document file by hash", "source_path", sourcePath, "filename", filename, "error", err)
		return nil, false, err
	}
	return row, false, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*entity.DocumentFile, error) {
	var (
		f                 entity.DocumentFile
		id, kind, hashHex string
		uploaded          string
	)
	if err := row.Scan(&id, &f.SourcePath, &f.Filename, &f.FileExt, &kind, &f.FileSize, &hashHex, &uploaded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var err error
	if f.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("document file id: %w", err)
	}
	if f.ContentHash, err = hex.DecodeString(hashHex); err != nil {
		return nil, fmt.Errorf("document file hash: %w", err)
	}
	if f.UploadedAt, err = parseTime(uploaded); err != nil {
		return nil, fmt.Errorf("document file uploaded_at: %w", err)
	}
	f.SourceKind = constants.SourceKind(kind)
	return &f, nil
}
