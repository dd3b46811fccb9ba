package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParsePathID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	testCases := []struct {
		name         string
		pathValue    string
		expectedID   int64
		expectedOK   bool
		expectedBody string
	}{
		{name: "valid", pathValue: "42", expectedID: 42, expectedOK: true},
		{name: "zero", pathValue: "0", expectedBody: `{"error":"Invalid ID: 0"}`},
		{name: "negative", pathValue: "-3", expectedBody: `{"error":"Invalid ID: -3"}`},
		{name: "not a number", pathValue: "abc", expectedBody: `{"error":"Invalid ID: abc"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products/id/"+tc.pathValue, nil)
			req.SetPathValue("id", tc.pathValue)
			rr := httptest.NewRecorder()

			// when
			id, ok := ParsePathID(rr, req, logger)

			// then
			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expectedID, id)
			if !tc.expectedOK {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func Test_ParseIDList(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	testCases := []struct {
		name        string
		query       string
		expectedIDs []int64
		expectedOK  bool
	}{
		{name: "comma separated", query: "?ids=1,2,3", expectedIDs: []int64{1, 2, 3}, expectedOK: true},
		{name: "repeated", query: "?ids=3&ids=1", expectedIDs: []int64{3, 1}, expectedOK: true},
		{name: "mixed with spaces", query: "?ids=1,%202&ids=5", expectedIDs: []int64{1, 2, 5}, expectedOK: true},
		{name: "trailing comma", query: "?ids=7,", expectedIDs: []int64{7}, expectedOK: true},
		{name: "missing", query: "", expectedOK: false},
		{name: "empty", query: "?ids=", expectedOK: false},
		{name: "invalid element", query: "?ids=1,x", expectedOK: false},
		{name: "non positive element", query: "?ids=0", expectedOK: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products/by-id/"+tc.query, nil)
			rr := httptest.NewRecorder()

			// when
			ids, ok := ParseIDList(rr, req, logger, "ids")

			// then
			assert.Equal(t, tc.expectedOK, ok)
			if tc.expectedOK {
				assert.Equal(t, tc.expectedIDs, ids)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)
		})
	}
}
