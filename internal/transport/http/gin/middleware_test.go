package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/propflow/maintgo/internal/domain"
)

func TestActorMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		id, role   string
		wantStatus int
	}{
		{"landlord", "7", "landlord", http.StatusOK},
		{"vendor", "42", "vendor", http.StatusOK},
		{"admin", "1", "admin", http.StatusOK},
		{"missing id", "", "landlord", http.StatusUnauthorized},
		{"missing role", "7", "", http.StatusUnauthorized},
		{"bad id", "seven", "landlord", http.StatusUnauthorized},
		{"zero id", "0", "landlord", http.StatusUnauthorized},
		{"unknown role", "7", "superuser", http.StatusUnauthorized},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ActorMiddleware())

			var got domain.Actor
			r.GET("/x", func(c *gin.Context) {
				got = actorFrom(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.id != "" {
				req.Header.Set("X-Actor-ID", tt.id)
			}
			if tt.role != "" {
				req.Header.Set("X-Actor-Role", tt.role)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if got.Role != domain.Role(tt.role) {
					t.Errorf("actor role = %q, want %q", got.Role, tt.role)
				}
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	// generated when absent
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID")
	}

	// echoed when present
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q, want req-123", got)
	}
}
