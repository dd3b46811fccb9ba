package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	producterrors "github.com/inventario/inventario/product_service/internal/errors"
	"github.com/inventario/inventario/product_service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const playstationModelJSON = `{
	"id":1,"active":true,"name":"Playstation 3","price":1200,"stock":10,"brand":"Sony",
	"_links":{
		"self":{"href":"http://example.com/api/v2/products/id/1"},
		"update":{"href":"http://example.com/api/v2/products/id/1"},
		"delete":{"href":"http://example.com/api/v2/products/id/1"},
		"all-products":{"href":"http://example.com/api/v2/products"}
	}
}`

func Test_HALHandler_FindAll(t *testing.T) {
	// given
	svc := new(mockProductService)
	svc.On("FindAll", mock.Anything).Return([]service.ProductDto{playstation}, nil)

	// when
	rr := serve(NewHALHandler(svc, discardLogger()), http.MethodGet, "/api/v2/products", "")

	// then
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/hal+json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"_embedded":{"productList":[`+playstationModelJSON+`]},
		"_links":{
			"self":{"href":"http://example.com/api/v2/products"},
			"create":{"href":"http://example.com/api/v2/products"}
		}
	}`, rr.Body.String())
}

func Test_HALHandler_FindAll_Empty(t *testing.T) {
	svc := new(mockProductService)
	svc.On("FindAll", mock.Anything).Return([]service.ProductDto{}, nil)

	rr := serve(NewHALHandler(svc, discardLogger()), http.MethodGet, "/api/v2/products", "")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func Test_HALHandler_FindByID(t *testing.T) {
	testCases := []struct {
		name         string
		id           int64
		found        *service.ProductDto
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product found",
			id:           1,
			found:        &playstation,
			expectedCode: http.StatusOK,
			expectedBody: playstationModelJSON,
		},
		{
			name:         "Error - product not found",
			id:           99,
			err:          fmt.Errorf("failed to fetch product by ID 99: %w", producterrors.ErrProductNotFound),
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product with ID 99 not found"}`,
		},
		{
			name:         "Error - service error",
			id:           2,
			err:          errors.New("boom"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to retrieve product with ID 2"}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(mockProductService)
			svc.On("FindByID", mock.Anything, tc.id).Return(tc.found, tc.err)

			// when
			rr := serve(NewHALHandler(svc, discardLogger()), http.MethodGet, fmt.Sprintf("/api/v2/products/id/%d", tc.id), "")

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			svc.AssertNotCalled(t, "ExistsByID", mock.Anything, mock.Anything)
		})
	}
}

func Test_HALHandler_FindAllByID_PlainArray(t *testing.T) {
	// given
	svc := new(mockProductService)
	svc.On("FindAllByID", mock.Anything, []int64{1, 2}).Return([]service.ProductDto{playstation}, nil)

	// when
	rr := serve(NewHALHandler(svc, discardLogger()), http.MethodGet, "/api/v2/products/by-id/?ids=1,2", "")

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `[`+playstationJSON+`]`, rr.Body.String())
}

func Test_HALHandler_Create(t *testing.T) {
	t.Run("Success - model with links", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("ExistsByID", mock.Anything, int64(1)).Return(false, nil)
		svc.On("Save", mock.Anything, playstation).Return(&playstation, nil)

		rr := serve(NewHALHandler(svc, discardLogger()), http.MethodPost, "/api/v2/products", playstationJSON)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/hal+json", rr.Header().Get("Content-Type"))
		assert.JSONEq(t, playstationModelJSON, rr.Body.String())
	})
	t.Run("Error - conflict", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("ExistsByID", mock.Anything, int64(1)).Return(true, nil)

		rr := serve(NewHALHandler(svc, discardLogger()), http.MethodPost, "/api/v2/products", playstationJSON)

		assert.Equal(t, http.StatusConflict, rr.Code)
		svc.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func Test_HALHandler_Update(t *testing.T) {
	t.Run("Success - model with links", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("ExistsByID", mock.Anything, int64(1)).Return(true, nil)
		svc.On("Update", mock.Anything, int64(1), playstationPro).Return(&playstationPro, nil)

		rr := serve(NewHALHandler(svc, discardLogger()), http.MethodPut, "/api/v2/products/id/1", playstationProJSON)

		require.Equal(t, http.StatusOK, rr.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Playstation 3 Pro", body["name"])
		assert.Contains(t, body, "_links")
	})
	t.Run("Error - not found", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("ExistsByID", mock.Anything, int64(99)).Return(false, nil)

		rr := serve(NewHALHandler(svc, discardLogger()), http.MethodPut, "/api/v2/products/id/99", playstationProJSON)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func Test_HALHandler_DeleteByID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("ExistsByID", mock.Anything, int64(1)).Return(true, nil)
		svc.On("DeleteByID", mock.Anything, int64(1)).Return(nil)

		rr := serve(NewHALHandler(svc, discardLogger()), http.MethodDelete, "/api/v2/products/id/1", "")

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
	t.Run("Error - not found", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("ExistsByID", mock.Anything, int64(99)).Return(false, nil)

		rr := serve(NewHALHandler(svc, discardLogger()), http.MethodDelete, "/api/v2/products/id/99", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		svc.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	})
}

func Test_HALHandler_LinksFollowForwardedProto(t *testing.T) {
	// given
	svc := new(mockProductService)
	svc.On("FindByID", mock.Anything, int64(1)).Return(&playstation, nil)
	r := chi.NewRouter()
	NewHALHandler(svc, discardLogger()).RegisterRoutes(r)
	req := httptest.NewRequest(http.MethodGet, "/api/v2/products/id/1", nil)
	req.Host = "shop.example.org"
	req.Header.Set("X-Forwarded-Proto", "https")
	rr := httptest.NewRecorder()

	// when
	r.ServeHTTP(rr, req)

	// then
	var body ProductModel
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "https://shop.example.org/api/v2/products/id/1", body.Links["self"].Href)
	assert.Equal(t, "https://shop.example.org/api/v2/products", body.Links["all-products"].Href)
}
