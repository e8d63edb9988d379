package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notebase/notebase/internal/auth"
)

const testSecret = "test-secret-0123456789abcdef0123456789abcdef"

func newAuthRouter(tokens *auth.TokenService) *gin.Engine {
	r := gin.New()
	r.Use(RequireAuth(tokens))
	r.GET("/protected", func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id":         identity.UserID,
			"organization_id": identity.OrgID,
			"role":            string(identity.Role),
		})
	})
	return r
}

func doAuthRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := auth.NewTokenService(testSecret, time.Hour)
	r := newAuthRouter(tokens)

	token, _, err := tokens.Issue("user-1", "org-1", auth.RoleWriter)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := doAuthRequest(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", w.Code, w.Body.String())
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	tokens := auth.NewTokenService(testSecret, time.Hour)
	r := newAuthRouter(tokens)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer   "},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAuthRequest(r, tt.header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	tokens := auth.NewTokenService(testSecret, time.Hour)
	other := auth.NewTokenService("another-secret-0123456789abcdef01234567", time.Hour)
	r := newAuthRouter(tokens)

	token, _, err := other.Issue("user-1", "org-1", auth.RoleReader)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := doAuthRequest(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for token signed with different secret", w.Code)
	}
}

func TestRequireAuth_ExpiredTokenMessage(t *testing.T) {
	tokens := auth.NewTokenService(testSecret, -time.Hour)
	r := newAuthRouter(auth.NewTokenService(testSecret, time.Hour))

	token, _, err := tokens.Issue("user-1", "org-1", auth.RoleReader)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := doAuthRequest(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "Token expired") {
		t.Errorf("body = %s, want Token expired message", body)
	}
}

func TestRequireAuth_SetsContextValues(t *testing.T) {
	tokens := auth.NewTokenService(testSecret, time.Hour)

	var gotUserID, gotOrgID string
	var gotRole auth.Role

	r := gin.New()
	r.Use(RequireAuth(tokens))
	r.GET("/", func(c *gin.Context) {
		gotUserID = c.GetString(UserIDKey)
		gotOrgID = c.GetString(OrgIDKey)
		gotRole, _ = c.MustGet(RoleKey).(auth.Role)
		c.Status(http.StatusNoContent)
	})

	token, _, err := tokens.Issue("user-9", "org-7", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if gotUserID != "user-9" || gotOrgID != "org-7" || gotRole != auth.RoleAdmin {
		t.Errorf("context = (%s, %s, %s), want (user-9, org-7, admin)", gotUserID, gotOrgID, gotRole)
	}
}
