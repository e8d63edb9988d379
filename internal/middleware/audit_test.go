package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// captureAudit routes slog.Default through a buffer for the test's duration.
func captureAudit(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return buf
}

func newAuditRouter() *gin.Engine {
	r := gin.New()
	r.Use(Audit())
	r.POST("/things", func(c *gin.Context) {
		c.Set(UserIDKey, "user-1")
		c.Set(OrgIDKey, "org-1")
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	r.GET("/things", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/fail", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nope"})
	})
	return r
}

func TestAudit_LogsSuccessfulMutation(t *testing.T) {
	buf := captureAudit(t)
	r := newAuditRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/things", nil)
	r.ServeHTTP(w, req)

	out := buf.String()
	if !strings.Contains(out, "POST /things") {
		t.Errorf("audit log missing action, got: %s", out)
	}
	if !strings.Contains(out, "user-1") || !strings.Contains(out, "org-1") {
		t.Errorf("audit log missing identity fields, got: %s", out)
	}
}

func TestAudit_SkipsReads(t *testing.T) {
	buf := captureAudit(t)
	r := newAuditRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/things", nil)
	r.ServeHTTP(w, req)

	if buf.Len() != 0 {
		t.Errorf("expected no audit entry for GET, got: %s", buf.String())
	}
}

func TestAudit_SkipsFailures(t *testing.T) {
	buf := captureAudit(t)
	r := newAuditRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/fail", nil)
	r.ServeHTTP(w, req)

	if buf.Len() != 0 {
		t.Errorf("expected no audit entry for failed request, got: %s", buf.String())
	}
}
