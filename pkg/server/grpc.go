package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inventario/inventario/pkg/web"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// RegistrationFunc registers a grpc service with the server.
type RegistrationFunc func(*grpc.Server)

// NewGRPCServer creates a new gRPC server instance with optional reflection and service registration.
func NewGRPCServer(enableReflection bool, opts []grpc.ServerOption, registerFunc ...RegistrationFunc) *grpc.Server {
	grpcServer := grpc.NewServer(opts...)

	if enableReflection {
		reflection.Register(grpcServer)
	}

	for _, regFunc := range registerFunc {
		regFunc(grpcServer)
	}

	return grpcServer
}

// UnaryRequestIDInterceptor puts the request id from incoming metadata (or a new one) into the context.
func UnaryRequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		reqID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get(web.RequestIDMetadataKey); len(values) > 0 {
				reqID = values[0]
			}
		}
		if reqID == "" {
			reqID = uuid.NewString()
		}
		return handler(web.WithRequestID(ctx, reqID), req)
	}
}

// UnaryLoggingInterceptor logs every completed unary call with its status code and duration.
func UnaryLoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.InfoContext(ctx, "gRPC call completed",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration_ms", float64(time.Since(start).Nanoseconds())/1e6,
		)
		return resp, err
	}
}
