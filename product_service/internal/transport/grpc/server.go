// Package grpc provides a gRPC server for the product service.
package grpc

import (
	"context"
	"errors"
	"log/slog"

	productv1 "github.com/inventario/inventario/pkg/api/product/v1"
	perrors "github.com/inventario/inventario/product_service/internal/errors"
	"github.com/inventario/inventario/product_service/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ProductService is the read side of service.ProductService used by the server.
type ProductService interface {
	FindAll(ctx context.Context) ([]service.ProductDto, error)
	FindByID(ctx context.Context, id int64) (*service.ProductDto, error)
	FindAllByID(ctx context.Context, ids []int64) ([]service.ProductDto, error)
}

type Server struct {
	// Embed the unimplemented server for forward compatibility
	productv1.UnimplementedProductServiceServer
	service ProductService
	logger  *slog.Logger
}

func NewServer(service ProductService, logger *slog.Logger) *Server {
	return &Server{service: service, logger: logger.With("component", "grpc")}
}

func (s *Server) GetProduct(ctx context.Context, req *productv1.GetProductRequest) (*productv1.GetProductResponse, error) {
	if req.Id < 1 {
		return nil, status.Errorf(codes.InvalidArgument, "invalid product ID: %d", req.Id)
	}
	found, err := s.service.FindByID(ctx, req.Id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil, status.Errorf(codes.NotFound, "product %d not found", req.Id)
		}
		s.logger.ErrorContext(ctx, "service.FindByID failed", "ID", req.Id, "error", err)
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return &productv1.GetProductResponse{Product: toProto(*found)}, nil
}

// GetProducts returns the products found among the ids. Missing ids are skipped.
func (s *Server) GetProducts(ctx context.Context, req *productv1.GetProductsRequest) (*productv1.GetProductsResponse, error) {
	if len(req.Ids) == 0 {
		return nil, status.Error(codes.InvalidArgument, "at least one product ID is required")
	}
	for _, id := range req.Ids {
		if id < 1 {
			return nil, status.Errorf(codes.InvalidArgument, "invalid product ID: %d", id)
		}
	}
	found, err := s.service.FindAllByID(ctx, req.Ids)
	if err != nil {
		s.logger.ErrorContext(ctx, "service.FindAllByID failed", "IDs", req.Ids, "error", err)
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return &productv1.GetProductsResponse{Products: toProtoList(found)}, nil
}

func (s *Server) ListProducts(ctx context.Context, _ *productv1.ListProductsRequest) (*productv1.ListProductsResponse, error) {
	found, err := s.service.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "service.FindAll failed", "error", err)
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return &productv1.ListProductsResponse{Products: toProtoList(found)}, nil
}

func toProto(p service.ProductDto) *productv1.Product {
	return &productv1.Product{
		Id:     p.ID,
		Active: p.Active,
		Name:   p.Name,
		Price:  p.Price,
		Stock:  p.Stock,
		Brand:  p.Brand,
	}
}

func toProtoList(list []service.ProductDto) []*productv1.Product {
	products := make([]*productv1.Product, 0, len(list))
	for _, p := range list {
		products = append(products, toProto(p))
	}
	return products
}
