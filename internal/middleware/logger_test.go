package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newLoggerRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequestLoggerEchoesClientID(t *testing.T) {
	router := newLoggerRouter()

	tests := []struct {
		name     string
		headerID string
	}{
		{name: "short id", headerID: "abc"},
		{name: "empty id", headerID: ""},
		{name: "single byte", headerID: "x"},
		{name: "uuid length", headerID: "4b3f2b1a-0000-4000-8000-000000000000"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.headerID != "" {
				req.Header.Set("X-Request-ID", tc.headerID)
			}
			rec := httptest.NewRecorder()

			// Must not panic regardless of the header length.
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
			}
			got := rec.Header().Get("X-Request-ID")
			if tc.headerID != "" && got != tc.headerID {
				t.Errorf("X-Request-ID = %q, want %q", got, tc.headerID)
			}
			if tc.headerID == "" && got == "" {
				t.Error("expected a generated request id when none supplied")
			}
		})
	}
}
