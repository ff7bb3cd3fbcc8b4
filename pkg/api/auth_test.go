package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"asin-scout/pkg/api"

	"github.com/stretchr/testify/assert"
)

func TestBearerAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	handler := api.BearerAuth("s3cret-token", next)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic czNjcmV0", http.StatusUnauthorized},
		{"bearer without token", "Bearer ", http.StatusUnauthorized},
		{"wrong token", "Bearer wrong-token", http.StatusUnauthorized},
		{"token is a prefix of the secret", "Bearer s3cret", http.StatusUnauthorized},
		{"exact token", "Bearer s3cret-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/product/B0TEST1234", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
				assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
			} else {
				assert.Equal(t, "ok", rr.Body.String())
			}
		})
	}
}
