package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubValidator accepts exactly one token.
type stubValidator struct {
	accept  string
	subject string
}

func (s *stubValidator) ValidateSubject(tokenString string) (string, error) {
	if tokenString == s.accept {
		return s.subject, nil
	}
	return "", errors.New("invalid token")
}

func protectedHandler(t *testing.T, wantSubject string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := GetSubject(r)
		if err != nil {
			t.Errorf("GetSubject failed: %v", err)
		}
		if subject != wantSubject {
			t.Errorf("subject = %q, want %q", subject, wantSubject)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mw := AuthMiddleware(&stubValidator{accept: "good-token", subject: "alice"})
	handler := mw(protectedHandler(t, "alice"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthMiddleware_CaseInsensitiveBearer(t *testing.T) {
	mw := AuthMiddleware(&stubValidator{accept: "good-token", subject: "alice"})
	handler := mw(protectedHandler(t, "alice"))

	for _, prefix := range []string{"bearer", "BEARER", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", prefix+" good-token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("prefix %q: expected 200, got %d", prefix, w.Code)
		}
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	mw := AuthMiddleware(&stubValidator{accept: "good-token", subject: "alice"})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for rejected requests")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "good-token"},
		{"wrong scheme", "Basic good-token"},
		{"empty token", "Bearer "},
		{"invalid token", "Bearer bad-token"},
		{"extra parts", "Bearer good-token extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestGetSubject_MissingContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := GetSubject(req); err == nil {
		t.Error("expected error for request without auth context")
	}
}
