package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func run(t *testing.T, mw echo.MiddlewareFunc, h echo.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := mw(h)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	var seen string
	rec := run(t, RequestID(), func(c echo.Context) error {
		seen, _ = c.Get("request_id").(string)
		return c.NoContent(http.StatusOK)
	}, req)

	if seen == "" {
		t.Fatal("no request id stored on context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("response header %q, context value %q", got, seen)
	}
}

func TestRequestID_HonoursCallerSupplied(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := run(t, RequestID(), func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want the caller's abc-123", got)
	}
}

func TestLogger_EmitsRequestLine(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodGet, "/views/patients", nil)
	run(t, Logger(logger), func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, req)

	line := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/views/patients"`, `"status":200`, `"request completed"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %s missing %s", line, want)
		}
	}
}

func TestRecovery_TurnsPanicInto500(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := run(t, Recovery(zerolog.Nop()), func(echo.Context) error {
		panic("boom")
	}, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestBodyLimit(t *testing.T) {
	handler := func(c echo.Context) error {
		if _, err := io.ReadAll(c.Request().Body); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	}

	small := httptest.NewRequest(http.MethodPost, "/views/patients", strings.NewReader(`{"name":"x"}`))
	if rec := run(t, BodyLimit(1024), handler, small); rec.Code != http.StatusOK {
		t.Errorf("small body rejected with %d", rec.Code)
	}

	big := httptest.NewRequest(http.MethodPost, "/views/patients", strings.NewReader(strings.Repeat("x", 2048)))
	if rec := run(t, BodyLimit(1024), handler, big); rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body passed with %d", rec.Code)
	}

	// Chunked transfer has no Content-Length; the reader must still trip.
	chunked := httptest.NewRequest(http.MethodPost, "/views/patients", strings.NewReader(strings.Repeat("x", 2048)))
	chunked.ContentLength = -1
	if rec := run(t, BodyLimit(1024), handler, chunked); rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("chunked oversized body passed with %d", rec.Code)
	}
}
