package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/maritime-tracker/internal/acquire"
	"github.com/joseph-ayodele/maritime-tracker/internal/common"
)

func TestNew_WiresPipeline(t *testing.T) {
	cfg := common.DefaultConfig()
	cfg.Database.DSN = ":memory:"

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	path := filepath.Join(t.TempDir(), "ops.txt")
	require.NoError(t, os.WriteFile(path, []byte("Vessel Name: GLOVIS SUN\nTotal Drivers: 12"), 0o644))

	r, err := a.Ingestor.IngestPath(context.Background(), path)
	require.NoError(t, err)
	res, err := a.Processor.ProcessFile(context.Background(), uuid.MustParse(r.FileID))
	require.NoError(t, err)
	assert.Equal(t, "GLOVIS SUN", res.Parse.Record["vesselName"])

	xlsx, err := a.Export.ExportRecordsXLSX(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, xlsx)
	assert.NotNil(t, a.ExtractionService())
}

func TestAcquireConfig(t *testing.T) {
	got := AcquireConfig(common.AcquireConfig{PDFEngine: "pdftotext", PdftotextBin: "/usr/bin/pdftotext", MaxFileSize: 10, MaxPages: 2})
	assert.Equal(t, acquire.Config{PDFEngine: acquire.EnginePdftotext, Pdftotext: "/usr/bin/pdftotext", MaxFileSize: 10, MaxPages: 2}, got)
}
