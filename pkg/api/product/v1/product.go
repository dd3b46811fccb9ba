package productv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName        = "inventario.product.v1.ProductService"
	GetProductMethod   = "/" + ServiceName + "/GetProduct"
	GetProductsMethod  = "/" + ServiceName + "/GetProducts"
	ListProductsMethod = "/" + ServiceName + "/ListProducts"
)

type Product struct {
	Id     int64  `json:"id"`
	Active bool   `json:"active"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Stock  int32  `json:"stock"`
	Brand  string `json:"brand"`
}

type GetProductRequest struct {
	Id int64 `json:"id"`
}

type GetProductResponse struct {
	Product *Product `json:"product"`
}

type GetProductsRequest struct {
	Ids []int64 `json:"ids"`
}

type GetProductsResponse struct {
	Products []*Product `json:"products"`
}

type ListProductsRequest struct{}

type ListProductsResponse struct {
	Products []*Product `json:"products"`
}

// ProductServiceServer is the server API of the product read service.
type ProductServiceServer interface {
	GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error)
	GetProducts(context.Context, *GetProductsRequest) (*GetProductsResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
}

// UnimplementedProductServiceServer answers every call with codes.Unimplemented.
type UnimplementedProductServiceServer struct{}

func (UnimplementedProductServiceServer) GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProduct not implemented")
}

func (UnimplementedProductServiceServer) GetProducts(context.Context, *GetProductsRequest) (*GetProductsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProducts not implemented")
}

func (UnimplementedProductServiceServer) ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListProducts not implemented")
}

// RegisterProductServiceServer registers srv on s.
func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductServiceDesc, srv)
}

// ProductServiceDesc describes the product service for grpc.Server.RegisterService.
var ProductServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProduct",
			Handler: unaryHandler(GetProductMethod, func(s ProductServiceServer, ctx context.Context, in *GetProductRequest) (*GetProductResponse, error) {
				return s.GetProduct(ctx, in)
			}),
		},
		{
			MethodName: "GetProducts",
			Handler: unaryHandler(GetProductsMethod, func(s ProductServiceServer, ctx context.Context, in *GetProductsRequest) (*GetProductsResponse, error) {
				return s.GetProducts(ctx, in)
			}),
		},
		{
			MethodName: "ListProducts",
			Handler: unaryHandler(ListProductsMethod, func(s ProductServiceServer, ctx context.Context, in *ListProductsRequest) (*ListProductsResponse, error) {
				return s.ListProducts(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "product/v1/product.go",
}

// unaryHandler decodes the request and runs call through the server interceptor chain.
func unaryHandler[Req, Resp any](fullMethod string, call func(ProductServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProductServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ProductServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ProductServiceClient is the client API of the product read service.
type ProductServiceClient interface {
	GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*GetProductResponse, error)
	GetProducts(ctx context.Context, in *GetProductsRequest, opts ...grpc.CallOption) (*GetProductsResponse, error)
	ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error)
}

type productServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProductServiceClient(cc grpc.ClientConnInterface) ProductServiceClient {
	return &productServiceClient{cc: cc}
}

func (c *productServiceClient) GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*GetProductResponse, error) {
	out := new(GetProductResponse)
	if err := c.cc.Invoke(ctx, GetProductMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *productServiceClient) GetProducts(ctx context.Context, in *GetProductsRequest, opts ...grpc.CallOption) (*GetProductsResponse, error) {
	out := new(GetProductsResponse)
	if err := c.cc.Invoke(ctx, GetProductsMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *productServiceClient) ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	out := new(ListProductsResponse)
	if err := c.cc.Invoke(ctx, ListProductsMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
