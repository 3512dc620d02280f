package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/maritime-tracker/internal/common"
)

const (
	ServiceName = "maritime.v1.ExtractionService"

	methodExtract     = "/" + ServiceName + "/Extract"
	methodExtractFile = "/" + ServiceName + "/ExtractFile"
	methodGetJob      = "/" + ServiceName + "/GetJob"
)

// ExtractionServiceServer is the server API for maritime.v1.ExtractionService.
type ExtractionServiceServer interface {
	Extract(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExtractFile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(method string, call func(ExtractionServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ExtractionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ExtractionServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ExtractionServiceDesc describes the service for grpc.ServiceRegistrar.
var ExtractionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExtractionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: unaryHandler(methodExtract, ExtractionServiceServer.Extract)},
		{MethodName: "ExtractFile", Handler: unaryHandler(methodExtractFile, ExtractionServiceServer.ExtractFile)},
		{MethodName: "GetJob", Handler: unaryHandler(methodGetJob, ExtractionServiceServer.GetJob)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "maritime/v1/extraction.proto",
}

func RegisterExtractionServiceServer(s grpc.ServiceRegistrar, srv ExtractionServiceServer) {
	s.RegisterService(&ExtractionServiceDesc, srv)
}

// NewGRPCServer builds a server with the extraction and health services registered.
// The health server reports SERVING for "" and ServiceName.
func NewGRPCServer(svc ExtractionServiceServer, logger *slog.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(loggingInterceptor(logger))}, opts...)
	s := grpc.NewServer(opts...)
	RegisterExtractionServiceServer(s, svc)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return s, hs
}

// loggingInterceptor tags each call with a request id (from x-request-id metadata
// or a new UUID) and logs its outcome.
func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		reqID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get("x-request-id"); len(v) > 0 {
				reqID = v[0]
			}
		}
		if reqID == "" {
			reqID = uuid.NewString()
		}
		l := logger.With("request_id", reqID, "method", info.FullMethod)
		ctx = common.WithLogger(common.WithRequestID(ctx, reqID), l)

		resp, err := handler(ctx, req)
		if err != nil {
			l.Warn("rpc failed", "code", status.Code(err).String(), "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		} else {
			l.Debug("rpc ok", "elapsed_ms", time.Since(start).Milliseconds())
		}
		return resp, err
	}
}

// Client is a typed client for maritime.v1.ExtractionService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Extract(ctx context.Context, req ExtractRequest, opts ...grpc.CallOption) (ExtractResponse, error) {
	in, err := req.toStruct()
	if err != nil {
		return ExtractResponse{}, err
	}
	out, err := c.invoke(ctx, methodExtract, in, opts...)
	if err != nil {
		return ExtractResponse{}, err
	}
	return extractResponseFrom(out)
}

func (c *Client) ExtractFile(ctx context.Context, req ExtractFileRequest, opts ...grpc.CallOption) (ExtractFileResponse, error) {
	in, err := req.toStruct()
	if err != nil {
		return ExtractFileResponse{}, err
	}
	out, err := c.invoke(ctx, methodExtractFile, in, opts...)
	if err != nil {
		return ExtractFileResponse{}, err
	}
	return extractFileResponseFrom(out)
}

func (c *Client) GetJob(ctx context.Context, req GetJobRequest, opts ...grpc.CallOption) (JobSummary, error) {
	in, err := req.toStruct()
	if err != nil {
		return JobSummary{}, err
	}
	out, err := c.invoke(ctx, methodGetJob, in, opts...)
	if err != nil {
		return JobSummary{}, err
	}
	return jobSummaryFrom(out)
}
