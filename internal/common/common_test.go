package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("GRPC_ADDR", "")
	c := LoadConfig()
	assert.Equal(t, ":8080", c.Server.GRPCAddr)
	assert.Equal(t, "native", c.Acquire.PDFEngine)
	assert.Equal(t, 4, c.Queue.Workers)
	assert.Equal(t, 3*time.Minute, c.Queue.ProcessTimeout)

	err := c.Validate()
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeConfig))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("DB_URL", "file:/tmp/maritime.db")
	t.Setenv("QUEUE_WORKERS", "8")
	t.Setenv("PROCESS_TIMEOUT", "90s")
	t.Setenv("WATCH_DIRS", " /data/in , ,/data/drop")
	t.Setenv("MAX_FILE_SIZE", "not-a-number")
	t.Setenv("WATCH_INITIAL_SCAN", "false")

	c := LoadConfig()
	assert.Equal(t, "file:/tmp/maritime.db", c.Database.DSN)
	assert.Equal(t, 8, c.Queue.Workers)
	assert.Equal(t, 90*time.Second, c.Queue.ProcessTimeout)
	assert.Equal(t, []string{"/data/in", "/data/drop"}, c.Watch.Dirs)
	assert.Equal(t, int64(16<<20), c.Acquire.MaxFileSize)
	assert.False(t, c.Watch.InitialScan)
	assert.NoError(t, c.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maritime.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  dsn: postgres://u:p@localhost:5432/maritime
  max_conns: 7
acquire:
  pdf_engine: pdftotext
queue:
  process_timeout: 45s
watch:
  dirs: [/srv/reports]
log:
  level: debug
  format: json
`), 0o644))
	t.Setenv("DB_URL", "")
	t.Setenv("LOG_LEVEL", "warn")

	c, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/maritime", c.Database.DSN)
	assert.Equal(t, int32(7), c.Database.MaxConns)
	assert.Equal(t, int32(5), c.Database.MinConns)
	assert.Equal(t, "pdftotext", c.Acquire.PDFEngine)
	assert.Equal(t, 45*time.Second, c.Queue.ProcessTimeout)
	assert.Equal(t, []string{"/srv/reports"}, c.Watch.Dirs)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.NoError(t, c.Validate())
}

func TestLoadConfigFile_Errors(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, HasCode(err, CodeConfig))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queue: [not, a, map"), 0o644))
	_, err = LoadConfigFile(path)
	assert.Error(t, err)
}

func TestValidate_Engine(t *testing.T) {
	c := DefaultConfig()
	c.Database.DSN = ":memory:"
	c.Acquire.PDFEngine = "ocr"
	assert.Error(t, c.Validate())
	c.Acquire.PDFEngine = "pdftotext"
	c.Log.Level = "loud"
	assert.Error(t, c.Validate())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "warn", "text")
	l.Info("hidden")
	l.Warn("shown", "file_id", "abc")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "file_id=abc")
	assert.NotContains(t, buf.String(), "time=")

	buf.Reset()
	NewLogger(&buf, "debug", "json").Debug("x")
	assert.Contains(t, buf.String(), `"msg":"x"`)

	lvl, err := ParseLevel("ERROR")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, lvl)
}

func TestContextHelpers(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "", RequestIDFromContext(context.Background()))

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, l, LoggerFromContext(WithLogger(ctx, l), nil))
	assert.Same(t, slog.Default(), LoggerFromContext(ctx, nil))
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("job_id", "nope", Required, UUID).
		Field("path", "  ", Required).
		Field("source_kind", "PDF", OneOf("pdf", "csv", "text"))
	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 2)
	assert.Equal(t, "job_id must be a UUID; path is required", v.ErrorMessage())

	err := ValidateAndReturnError(v)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.NoError(t, ValidateAndReturnError(NewValidator()))
}

func TestAppError(t *testing.T) {
	cause := errors.New("disk")
	err := fmt.Errorf("load: %w", NewAppError(CodeConfig, "bad file", cause))
	assert.Equal(t, "load: CONFIG_ERROR: bad file: disk", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, CodeConfig))
	assert.False(t, HasCode(cause, CodeConfig))
	assert.Equal(t, "CONFIG_ERROR: bad file", NewAppError(CodeConfig, "bad file", nil).Error())
}
