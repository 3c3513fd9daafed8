package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name              string
		existingRequestID string
		expectNewID       bool
	}{
		{
			name:              "generates new request ID when not present",
			existingRequestID: "",
			expectNewID:       true,
		},
		{
			name:              "propagates existing request ID",
			existingRequestID: "client-req-42",
			expectNewID:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured string

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = GetRequestID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "http://localhost/mcp", nil)
			if tt.existingRequestID != "" {
				req.Header.Set(RequestIDHeader, tt.existingRequestID)
			}
			w := httptest.NewRecorder()

			RequestID(handler).ServeHTTP(w, req)

			responseID := w.Header().Get(RequestIDHeader)
			if responseID == "" {
				t.Fatal("expected X-Request-ID header in response")
			}
			if captured != responseID {
				t.Errorf("context request ID %q does not match header %q", captured, responseID)
			}

			if tt.expectNewID {
				if _, err := uuid.Parse(responseID); err != nil {
					t.Errorf("expected generated UUID, got %q: %v", responseID, err)
				}
			} else if responseID != tt.existingRequestID {
				t.Errorf("expected %q, got %q", tt.existingRequestID, responseID)
			}
		})
	}
}

func TestGetRequestID(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}

	ctx := WithRequestID(context.Background(), "abc")
	if got := GetRequestID(ctx); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}

	ctx = context.WithValue(context.Background(), RequestIDKey, 12)
	if got := GetRequestID(ctx); got != "" {
		t.Errorf("expected non-string value to be ignored, got %q", got)
	}
}
