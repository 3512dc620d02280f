package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/maritime-tracker/constants"
	"github.com/joseph-ayodele/maritime-tracker/internal/maritime"
	"github.com/joseph-ayodele/maritime-tracker/internal/repository"
)

func seed(t *testing.T) repository.ExtractJobRepository {
	t.Helper()
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(db, nil) })

	files := repository.NewDocumentFileRepository(db, nil)
	jobs := repository.NewExtractJobRepository(db, nil)

	f, err := files.Create(ctx, "/data/gironde.txt", "gironde.txt", "txt", constants.TEXT, 10, []byte{1, 2, 3}, time.Now())
	require.NoError(t, err)
	job, err := jobs.Start(ctx, f.ID, "text")
	require.NoError(t, err)
	require.NoError(t, jobs.FinishTextSuccess(ctx, job.ID, "Vessel Name: MAERSK GIRONDE", "plain", 1))
	require.NoError(t, jobs.FinishParseSuccess(ctx, job.ID, `{"vesselName":"MAERSK GIRONDE","totalDrivers":30,"expectedRate":45.5}`, 3, false))

	// a running job is not exported
	_, err = jobs.Start(ctx, f.ID, "text")
	require.NoError(t, err)
	return jobs
}

func open(t *testing.T, b []byte) *excelize.File {
	t.Helper()
	x, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = x.Close() })
	return x
}

func TestExportRecordsXLSX(t *testing.T) {
	svc := NewService(seed(t), nil)

	b, err := svc.ExportRecordsXLSX(context.Background(), nil, nil)
	require.NoError(t, err)

	rows, err := open(t, b).GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Headers(), rows[0])
	assert.Len(t, rows[0], 2+len(maritime.Vocabulary()))

	col := func(name string) int {
		for i, h := range rows[0] {
			if h == name {
				return i
			}
		}
		t.Fatalf("missing header %s", name)
		return -1
	}
	assert.Equal(t, "/data/gironde.txt", rows[1][0])
	assert.Equal(t, "MAERSK GIRONDE", rows[1][col(maritime.FieldVesselName)])
	assert.Equal(t, "30", rows[1][col(maritime.FieldTotalDrivers)])
	assert.Equal(t, "45.5", rows[1][col(maritime.FieldExpectedRate)])
}

func TestExportRecordsXLSX_DateWindow(t *testing.T) {
	svc := NewService(seed(t), nil)

	past := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	b, err := svc.ExportRecordsXLSX(context.Background(), nil, &past)
	require.NoError(t, err)
	rows, err := open(t, b).GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	today := time.Now()
	b, err = svc.ExportRecordsXLSX(context.Background(), &today, nil)
	require.NoError(t, err)
	rows, err = open(t, b).GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestExportRecordsXLSX_Empty(t *testing.T) {
	db, err := repository.Open(context.Background(), repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	defer repository.Close(db, nil)

	b, err := NewService(repository.NewExtractJobRepository(db, nil), nil).ExportRecordsXLSX(context.Background(), nil, nil)
	require.NoError(t, err)
	rows, err := open(t, b).GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
