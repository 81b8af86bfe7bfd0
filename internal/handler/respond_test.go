package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/shoplist/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestWriteErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", apperr.NotFound("shopping list %d not found", 3), http.StatusNotFound, `{"error":"shopping list 3 not found","code":"not_found"}`},
		{"forbidden", fmt.Errorf("wrapped: %w", apperr.Forbidden("no access")), http.StatusForbidden, `{"error":"no access","code":"forbidden"}`},
		{"validation", apperr.Validation("quantity must be at least 1"), http.StatusBadRequest, `{"error":"quantity must be at least 1","code":"validation_failed"}`},
		{"conflict", apperr.Conflict("email already in use"), http.StatusConflict, `{"error":"email already in use","code":"conflict"}`},
		{"unavailable hides cause", apperr.Unavailable("failed to load list", errors.New("disk I/O error")), http.StatusServiceUnavailable, `{"error":"failed to load list","code":"unavailable"}`},
		{"unauthenticated", apperr.Unauthenticated("authentication required"), http.StatusUnauthorized, `{"error":"authentication required","code":"unauthenticated"}`},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, `{"error":"internal error","code":"internal"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, discard, tt.err)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Groceries"}`))
	require.NoError(t, decodeJSON(httptest.NewRecorder(), req, &v))
	assert.Equal(t, "Groceries", v.Name)

	req = httptest.NewRequest("POST", "/", http.NoBody)
	assert.NoError(t, decodeJSON(httptest.NewRecorder(), req, &v), "empty body is allowed")

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
	err := decodeJSON(httptest.NewRecorder(), req, &v)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		value string
		want  int64
		ok    bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		req.SetPathValue("id", tt.value)
		got, err := parseIDParam(req, "id")
		if tt.ok {
			require.NoError(t, err, tt.value)
			assert.Equal(t, tt.want, got)
		} else {
			assert.True(t, apperr.Is(err, apperr.KindValidation), tt.value)
		}
	}
}
