package interceptors

import (
	"context"

	"github.com/inventario/inventario/pkg/web"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// UnaryClientRequestIDInterceptor forwards the request id found in ctx as outgoing metadata.
func UnaryClientRequestIDInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if reqID, ok := web.GetRequestID(ctx); ok {
			ctx = metadata.AppendToOutgoingContext(ctx, web.RequestIDMetadataKey, reqID)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}
