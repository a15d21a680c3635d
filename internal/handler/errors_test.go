package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"clipbridge/internal/model"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"not found", http.MethodPost, echo.ErrNotFound, http.StatusNotFound, "Not Found"},
		{"method not allowed", http.MethodGet, echo.ErrMethodNotAllowed, http.StatusNotFound, "Not Found"},
		{"too large", http.MethodPost, echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "Request Entity Too Large"},
		{"rate limited", http.MethodPost, echo.ErrTooManyRequests, http.StatusTooManyRequests, "Too Many Requests"},
		{"plain error", http.MethodPost, errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	handler := HTTPErrorHandler(discard)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(tt.method, "/clip", http.NoBody), rec)

			handler(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp model.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v (%s)", err, rec.Body)
			}
			if resp.Status != model.StatusError || resp.Message != tt.wantMessage {
				t.Errorf("response = %+v, want message %q", resp, tt.wantMessage)
			}
		})
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/clip", http.NoBody), rec)

	HTTPErrorHandler(discard)(echo.ErrNotFound, c)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD response has body %q", rec.Body)
	}
}

func TestHTTPErrorHandler_Committed(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/clip", http.NoBody), rec)
	_ = c.String(http.StatusOK, "done")

	HTTPErrorHandler(discard)(errors.New("late"), c)

	if rec.Body.String() != "done" {
		t.Errorf("body = %q, want untouched %q", rec.Body, "done")
	}
}
