package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/joseph-ayodele/maritime-tracker/constants"
	"github.com/joseph-ayodele/maritime-tracker/internal/acquire"
	"github.com/joseph-ayodele/maritime-tracker/internal/common"
	"github.com/joseph-ayodele/maritime-tracker/internal/extract"
	"github.com/joseph-ayodele/maritime-tracker/internal/ingest"
	"github.com/joseph-ayodele/maritime-tracker/internal/maritime"
	processor "github.com/joseph-ayodele/maritime-tracker/internal/pipeline"
	"github.com/joseph-ayodele/maritime-tracker/internal/repository"
	"github.com/joseph-ayodele/maritime-tracker/internal/schema"
)

const report = "Vessel Name: MAERSK GIRONDE\nPort: Colonel Island\nBerth Location: 2\nTotal Drivers: 30\nExpected Rate: 45.5 cars/hour"

type harness struct {
	client *Client
	conn   *grpc.ClientConn
	dir    string
}

func newHarness(t *testing.T) harness {
	t.Helper()
	ctx := context.Background()
	db, err := ConnectDB(ctx, common.DatabaseConfig{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { CloseDB(db, nil) })
	require.NoError(t, PingDB(ctx, db, nil, 0))

	files := repository.NewDocumentFileRepository(db, nil)
	jobs := repository.NewExtractJobRepository(db, nil)
	validator, err := schema.NewValidator()
	require.NoError(t, err)
	engine := maritime.NewEngine(nil)
	proc := processor.NewProcessor(nil,
		processor.NewTextStage(files, jobs, extract.NewTextAdapter(acquire.NewExtractor(acquire.Config{}, nil), nil), nil),
		processor.NewParseStage(files, jobs, engine, validator, nil),
	)
	svc := NewExtractionService(engine, ingest.NewFSIngestor(files, nil), proc, jobs, nil)

	lis := bufconn.Listen(1 << 20)
	srv, _ := NewGRPCServer(svc, nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return harness{client: NewClient(conn), conn: conn, dir: t.TempDir()}
}

func (h harness) write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestExtract(t *testing.T) {
	h := newHarness(t)

	res, err := h.client.Extract(context.Background(), ExtractRequest{Text: report, SourceKind: "text"})
	require.NoError(t, err)
	assert.Equal(t, "MAERSK GIRONDE", res.Record[maritime.FieldVesselName])
	assert.Equal(t, 30, res.Record[maritime.FieldTotalDrivers])
	assert.Equal(t, 45.5, res.Record[maritime.FieldExpectedRate])
	assert.Equal(t, "Berth 2", res.Record[maritime.FieldBerthLocation])
	assert.Equal(t, len(res.Record), res.ResolvedFields)
	assert.Equal(t, report, res.Preview)
}

func TestExtract_EmptyText(t *testing.T) {
	h := newHarness(t)

	res, err := h.client.Extract(context.Background(), ExtractRequest{Text: "  \n "})
	require.NoError(t, err)
	assert.Empty(t, res.Record)
	assert.Zero(t, res.ResolvedFields)
}

func TestExtract_BadSourceKind(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.Extract(context.Background(), ExtractRequest{Text: report, SourceKind: "docx"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestExtractFile_AndGetJob(t *testing.T) {
	h := newHarness(t)
	path := h.write(t, "gironde.txt", report)

	res, err := h.client.ExtractFile(context.Background(), ExtractFileRequest{Path: path})
	require.NoError(t, err)
	assert.Empty(t, res.Error)
	assert.False(t, res.Deduplicated)
	assert.False(t, res.NeedsReview)
	assert.Len(t, res.ContentHashHex, 64)
	assert.Equal(t, constants.PortColonelIsland, res.Record[maritime.FieldPort])
	assert.Contains(t, res.Preview, "Vessel Name: MAERSK GIRONDE")

	job, err := h.client.GetJob(context.Background(), GetJobRequest{JobID: res.JobID})
	require.NoError(t, err)
	assert.Equal(t, res.JobID, job.JobID)
	assert.Equal(t, res.FileID, job.FileID)
	assert.Equal(t, string(constants.JobStatusParsed), job.Status)
	assert.Equal(t, acquire.MethodPlain, job.Method)
	assert.Equal(t, 1, job.Pages)
	assert.Equal(t, res.Record, job.Record)
	assert.NotEmpty(t, job.FinishedAt)
}

func TestExtractFile_SkipDuplicates(t *testing.T) {
	h := newHarness(t)
	first, err := h.client.ExtractFile(context.Background(), ExtractFileRequest{Path: h.write(t, "a.txt", report)})
	require.NoError(t, err)

	copyPath := h.write(t, "b.txt", report)
	again, err := h.client.ExtractFile(context.Background(), ExtractFileRequest{Path: copyPath, SkipDuplicates: true})
	require.NoError(t, err)
	assert.True(t, again.Deduplicated)
	assert.Equal(t, first.FileID, again.FileID)
	assert.Equal(t, first.JobID, again.JobID)
	assert.Equal(t, first.Record, again.Record)

	rerun, err := h.client.ExtractFile(context.Background(), ExtractFileRequest{Path: copyPath})
	require.NoError(t, err)
	assert.True(t, rerun.Deduplicated)
	assert.NotEqual(t, first.JobID, rerun.JobID)
}

func TestExtractFile_Errors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.client.ExtractFile(ctx, ExtractFileRequest{Path: " "})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.ExtractFile(ctx, ExtractFileRequest{Path: h.write(t, "scan.jpg", "x")})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.ExtractFile(ctx, ExtractFileRequest{Path: filepath.Join(h.dir, "gone.pdf")})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = h.client.ExtractFile(ctx, ExtractFileRequest{Path: h.write(t, "blank.csv", "   ")})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Equal(t, "CSV file is empty or contains only whitespace.", status.Convert(err).Message())
}

func TestGetJob_Errors(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.GetJob(context.Background(), GetJobRequest{JobID: "nope"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.GetJob(context.Background(), GetJobRequest{JobID: uuid.NewString()})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	hc := healthpb.NewHealthClient(h.conn)

	resp, err := hc.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestStatusFromError(t *testing.T) {
	assert.NoError(t, statusFromError(nil))
	assert.Equal(t, codes.NotFound, status.Code(statusFromError(repository.ErrNotFound)))
	assert.Equal(t, codes.Canceled, status.Code(statusFromError(context.Canceled)))
	assert.Equal(t, codes.Internal, status.Code(statusFromError(assert.AnError)))

	already := status.Error(codes.Unavailable, "down")
	assert.Equal(t, already, statusFromError(already))
}
