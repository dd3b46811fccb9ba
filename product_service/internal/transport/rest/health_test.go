package rest

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func Test_HealthHandler(t *testing.T) {
	testCases := []struct {
		name         string
		target       string
		pingErr      error
		expectedCode int
	}{
		{name: "liveness", target: "/healthz", expectedCode: http.StatusOK},
		{name: "ready", target: "/readyz", expectedCode: http.StatusOK},
		{name: "not ready", target: "/readyz", pingErr: errors.New("no db"), expectedCode: http.StatusServiceUnavailable},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			h := NewHealthHandler(pingerFunc(func(context.Context) error { return tc.pingErr }), time.Second, discardLogger())

			// when
			rr := serve(h, http.MethodGet, tc.target, "")

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}
