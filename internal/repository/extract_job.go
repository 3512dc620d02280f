package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/maritime-tracker/constants"
	"github.com/joseph-ayodele/maritime-tracker/internal/entity"
)

type ExtractJobRepository interface {
	Start(ctx context.Context, fileID uuid.UUID, format string) (*entity.ExtractJob, error)
	FinishTextSuccess(ctx context.Context, jobID uuid.UUID, rawText, method string, pages int) error
	FinishParseSuccess(ctx context.Context, jobID uuid.UUID, recordJSON string, resolved int, needsReview bool) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
	Get(ctx context.Context, jobID uuid.UUID) (*entity.ExtractJob, error)
	ListByFile(ctx context.Context, fileID uuid.UUID) ([]*entity.ExtractJob, error)
	ListParsed(ctx context.Context, from, to time.Time) ([]entity.ParsedRecord, error)
}

type extractJobRepo struct {
	db  *DB
	log *slog.Logger
}

func NewExtractJobRepository(db *DB, log *slog.Logger) ExtractJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &extractJobRepo{db: db, log: log}
}

const jobColumns = `id, file_id, format, status, started_at, finished_at, error_message, method, pages, raw_text, record_json, resolved_fields, needs_review`

func (r *extractJobRepo) Start(ctx context.Context, fileID uuid.UUID, format string) (*entity.ExtractJob, error) {
	job := &entity.ExtractJob{
		ID:        uuid.New(),
		FileID:    fileID,
		Format:    format,
		Status:    constants.JobStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, r.db.rebind(`INSERT INTO extract_job (id, file_id, format, status, started_at) VALUES (?, ?, ?, ?, ?)`),
		job.ID.String(), fileID.String(), format, string(job.Status), formatTime(job.StartedAt))
	if err != nil {
		r.log.Error("extract_job start failed", "file_id", fileID, "err", err)
		return nil, err
	}
	r.log.Info("extract_job started", "job_id", job.ID, "file_id", fileID, "format", format)
	return job, nil
}

func (r *extractJobRepo) FinishTextSuccess(ctx context.Context, jobID uuid.UUID, rawText, method string, pages int) error {
	err := r.update(ctx, jobID,
		`UPDATE extract_job SET raw_text = ?, method = ?, pages = ?, status = ? WHERE id = ?`,
		rawText, method, pages, string(constants.JobStatusTextOK), jobID.String())
	if err != nil {
		r.log.Error("extract_job finish(TEXT_OK) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("extract_job text stored (TEXT_OK)", "job_id", jobID, "method", method, "pages", pages)
	return nil
}

func (r *extractJobRepo) FinishParseSuccess(ctx context.Context, jobID uuid.UUID, recordJSON string, resolved int, needsReview bool) error {
	err := r.update(ctx, jobID,
		`UPDATE extract_job SET record_json = ?, resolved_fields = ?, needs_review = ?, finished_at = ?, status = ? WHERE id = ?`,
		recordJSON, resolved, boolInt(needsReview), formatTime(time.Now()), string(constants.JobStatusParsed), jobID.String())
	if err != nil {
		r.log.Error("extract_job finish(PARSED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("extract_job finished (PARSED)", "job_id", jobID, "resolved", resolved, "needs_review", needsReview)
	return nil
}

func (r *extractJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	err := r.update(ctx, jobID,
		`UPDATE extract_job SET finished_at = ?, status = ?, error_message = ? WHERE id = ?`,
		formatTime(time.Now()), string(constants.JobStatusFailed), message, jobID.String())
	if err != nil {
		r.log.Error("extract_job finish(FAILED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Warn("extract_job finished (FAILED)", "job_id", jobID, "error", message)
	return nil
}

func (r *extractJobRepo) update(ctx context.Context, jobID uuid.UUID, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(q), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("extract_job %s: %w", jobID, ErrNotFound)
	}
	return nil
}

func (r *extractJobRepo) Get(ctx context.Context, jobID uuid.UUID) (*entity.ExtractJob, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT `+jobColumns+` FROM extract_job WHERE id = ?`), jobID.String())
	job, err := scanJob(row)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.Error("extract_job get failed", "job_id", jobID, "err", err)
		}
		return nil, err
	}
	return job, nil
}

func (r *extractJobRepo) ListByFile(ctx context.Context, fileID uuid.UUID) ([]*entity.ExtractJob, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(`SELECT `+jobColumns+` FROM extract_job WHERE file_id = ? ORDER BY started_at`), fileID.String())
	if err != nil {
		r.log.Error("extract_job list failed", "file_id", fileID, "err", err)
		return nil, err
	}
	defer rows.Close()

	var jobs []*entity.ExtractJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ListParsed returns parsed jobs finished in [from, to). A zero bound is open.
func (r *extractJobRepo) ListParsed(ctx context.Context, from, to time.Time) ([]entity.ParsedRecord, error) {
	q := `SELECT j.id, j.file_id, f.source_path, f.filename, j.finished_at, j.record_json, j.needs_review
		FROM extract_job j JOIN document_files f ON f.id = j.file_id
		WHERE j.status = ?`
	args := []any{string(constants.JobStatusParsed)}
	if !from.IsZero() {
		q += ` AND j.finished_at >= ?`
		args = append(args, formatTime(from))
	}
	if !to.IsZero() {
		q += ` AND j.finished_at < ?`
		args = append(args, formatTime(to))
	}
	q += ` ORDER BY j.finished_at, j.id`

	rows, err := r.db.QueryContext(ctx, r.db.rebind(q), args...)
	if err != nil {
		r.log.Error("extract_job list parsed failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	var out []entity.ParsedRecord
	for rows.Next() {
		var (
			rec              entity.ParsedRecord
			jobID, fileID    string
			finished, record string
			review           int
		)
		if err := rows.Scan(&jobID, &fileID, &rec.SourcePath, &rec.Filename, &finished, &record, &review); err != nil {
			return nil, err
		}
		if rec.JobID, err = uuid.Parse(jobID); err != nil {
			return nil, err
		}
		if rec.FileID, err = uuid.Parse(fileID); err != nil {
			return nil, err
		}
		if rec.FinishedAt, err = parseTime(finished); err != nil {
			return nil, err
		}
		rec.RecordJSON = []byte(record)
		rec.NeedsReview = review != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanJob(row rowScanner) (*entity.ExtractJob, error) {
	var (
		job                         entity.ExtractJob
		id, fileID, status, started string
		finished, errMsg, method    sql.NullString
		rawText, record             sql.NullString
		review                      int
	)
	err := row.Scan(&id, &fileID, &job.Format, &status, &started, &finished, &errMsg, &method,
		&job.Pages, &rawText, &record, &job.ResolvedFields, &review)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if job.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("extract_job id: %w", err)
	}
	if job.FileID, err = uuid.Parse(fileID); err != nil {
		return nil, fmt.Errorf("extract_job file_id: %w", err)
	}
	if job.StartedAt, err = parseTime(started); err != nil {
		return nil, fmt.Errorf("extract_job started_at: %w", err)
	}
	if finished.Valid {
		t, err := parseTime(finished.String)
		if err != nil {
			return nil, fmt.Errorf("extract_job finished_at: %w", err)
		}
		job.FinishedAt = &t
	}
	job.Status = constants.JobStatus(status)
	job.ErrorMessage = nullString(errMsg)
	job.Method = nullString(method)
	job.RawText = nullString(rawText)
	if record.Valid {
		job.RecordJSON = []byte(record.String)
	}
	job.NeedsReview = review != 0
	return &job, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
