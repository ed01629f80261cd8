package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"folio/internal/session"
)

// newTestSession creates a session.Data value suitable for testing.
func newTestSession(role string) *session.Data {
	return &session.Data{
		UserID:      uuid.NewString(),
		Email:       "test@folio.local",
		DisplayName: "Test User",
		Role:        role,
	}
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

// fakeSessions implements SessionReader without Valkey.
type fakeSessions struct {
	data *session.Data
	err  error
}

func (f fakeSessions) Get(context.Context, *http.Request) (*session.Data, error) {
	return f.data, f.err
}

// ---------- SessionFromCtx ----------

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession("admin")
		got := SessionFromCtx(WithSession(context.Background(), sess))
		if got == nil {
			t.Fatal("expected non-nil session, got nil")
		}
		if got.Email != sess.Email {
			t.Errorf("Email: got %q, want %q", got.Email, sess.Email)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

// ---------- LoadSession ----------

func TestLoadSession(t *testing.T) {
	tests := []struct {
		name    string
		reader  fakeSessions
		wantNil bool
	}{
		{"session found", fakeSessions{data: newTestSession("editor")}, false},
		{"no session", fakeSessions{}, true},
		{"store error", fakeSessions{err: errors.New("valkey down")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *session.Data
			handler := LoadSession(tt.reader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = SessionFromCtx(r.Context())
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			if (got == nil) != tt.wantNil {
				t.Errorf("session nil = %v, want %v", got == nil, tt.wantNil)
			}
		})
	}
}

// ---------- RequireAuth / RequireRole ----------

func TestRequireAuth(t *testing.T) {
	t.Run("no session returns 401", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if *called {
			t.Error("next handler should not be called")
		}
	})

	t.Run("any role passes", func(t *testing.T) {
		next, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req = req.WithContext(WithSession(req.Context(), newTestSession("author")))
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, req)

		if !*called {
			t.Error("next handler should be called")
		}
	})
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		mw         func(http.Handler) http.Handler
		role       string
		noSession  bool
		wantStatus int
	}{
		{"editor route admin", RequireEditor, "admin", false, http.StatusOK},
		{"editor route editor", RequireEditor, "editor", false, http.StatusOK},
		{"editor route author", RequireEditor, "author", false, http.StatusForbidden},
		{"editor route anonymous", RequireEditor, "", true, http.StatusUnauthorized},
		{"admin route admin", RequireAdmin, "admin", false, http.StatusOK},
		{"admin route editor", RequireAdmin, "editor", false, http.StatusForbidden},
		{"admin route unknown role", RequireAdmin, "root", false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := okHandler()
			req := httptest.NewRequest(http.MethodDelete, "/api/admin/author-applications/x", nil)
			if !tt.noSession {
				req = req.WithContext(WithSession(req.Context(), newTestSession(tt.role)))
			}
			rr := httptest.NewRecorder()
			tt.mw(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK && rr.Header().Get("Content-Type") != "application/json" {
				t.Errorf("expected JSON error body, got Content-Type %q", rr.Header().Get("Content-Type"))
			}
		})
	}
}
