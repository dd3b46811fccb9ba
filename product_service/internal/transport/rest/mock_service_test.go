package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/inventario/inventario/product_service/internal/service"
	"github.com/stretchr/testify/mock"
)

// mockProductService is a testify mock of service.ProductService.
type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) FindAll(ctx context.Context) ([]service.ProductDto, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]service.ProductDto)
	return list, args.Error(1)
}

func (m *mockProductService) FindByID(ctx context.Context, id int64) (*service.ProductDto, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*service.ProductDto)
	return p, args.Error(1)
}

func (m *mockProductService) FindAllByID(ctx context.Context, ids []int64) ([]service.ProductDto, error) {
	args := m.Called(ctx, ids)
	list, _ := args.Get(0).([]service.ProductDto)
	return list, args.Error(1)
}

func (m *mockProductService) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductService) Save(ctx context.Context, product service.ProductDto) (*service.ProductDto, error) {
	args := m.Called(ctx, product)
	p, _ := args.Get(0).(*service.ProductDto)
	return p, args.Error(1)
}

func (m *mockProductService) Update(ctx context.Context, id int64, product service.ProductDto) (*service.ProductDto, error) {
	args := m.Called(ctx, id, product)
	p, _ := args.Get(0).(*service.ProductDto)
	return p, args.Error(1)
}

func (m *mockProductService) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var (
	playstation    = service.ProductDto{ID: 1, Active: true, Name: "Playstation 3", Price: 1200, Stock: 10, Brand: "Sony"}
	playstationPro = service.ProductDto{ID: 1, Active: true, Name: "Playstation 3 Pro", Price: 1200, Stock: 10, Brand: "Sony"}
)

const (
	playstationJSON    = `{"id":1,"active":true,"name":"Playstation 3","price":1200,"stock":10,"brand":"Sony"}`
	playstationProJSON = `{"id":1,"active":true,"name":"Playstation 3 Pro","price":1200,"stock":10,"brand":"Sony"}`
)

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serve routes one request through a fresh router holding only h.
func serve(h routeRegistrar, method, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

