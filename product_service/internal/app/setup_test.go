package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inventario/inventario/pkg/messaging"
	"github.com/inventario/inventario/product_service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryHandler(t *testing.T) http.Handler {
	t.Helper()
	deps := NewDependencies(store.NewMemoryStore(), messaging.NoopPublisher{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	deps.MetricsPath = "/metrics"
	return SetupHttpHandler(deps)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSetupHttpHandler_Routes(t *testing.T) {
	h := newMemoryHandler(t)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/readyz", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusNoContent, do(h, http.MethodGet, "/api/v1/products", "").Code)
	assert.Equal(t, http.StatusNoContent, do(h, http.MethodGet, "/api/v2/products", "").Code)
}

func TestSetupHttpHandler_VersionsShareTheStore(t *testing.T) {
	// given
	h := newMemoryHandler(t)
	created := do(h, http.MethodPost, "/api/v1/products", `{"id":1,"active":true,"name":"Playstation 3","price":1200,"stock":10,"brand":"Sony"}`)
	require.Equal(t, http.StatusOK, created.Code)

	// when
	rr := do(h, http.MethodGet, "/api/v2/products/id/1", "")

	// then
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/hal+json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `"_links"`)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"), "request id middleware must run")
}
