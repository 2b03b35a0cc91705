package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/login-lab/internal/auth"
	"github.com/yourusername/login-lab/internal/flash"
	"github.com/yourusername/login-lab/internal/session"
	"github.com/yourusername/login-lab/internal/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	publicDir := t.TempDir()
	hiddenDir := filepath.Join(publicDir, ".hidden-files")
	if err := os.MkdirAll(hiddenDir, 0o755); err != nil {
		t.Fatalf("failed to create hidden dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(hiddenDir, "creds.txt"), []byte("admin:hunter2\n"), 0o644); err != nil {
		t.Fatalf("failed to write hidden file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(publicDir, "style.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatalf("failed to write style: %v", err)
	}
	if err := os.WriteFile(filepath.Join(publicDir, ".env"), []byte("SESSION_SECRET=x"), 0o644); err != nil {
		t.Fatalf("failed to write dotfile: %v", err)
	}

	hidden, err := storage.NewLocalDir(hiddenDir)
	if err != nil {
		t.Fatalf("NewLocalDir returned error: %v", err)
	}
	tmpl, err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates returned error: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(hidden, logger)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(sessions.Sessions(auth.SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	router.Use(flash.Consume())
	router.GET("/", h.Index)
	router.GET("/about", h.About)
	router.GET("/login", h.LoginForm)
	router.GET("/admin", h.Admin)
	router.GET("/secret", h.Secret)
	router.GET("/.hidden-files/*filepath", h.HiddenFile)
	router.GET("/seed", func(c *gin.Context) {
		flash.FromContext(c).Add(flash.CategoryError, "seeded error")
		_ = sessions.Default(c).Save()
		c.Status(http.StatusNoContent)
	})
	router.GET("/as-user", func(c *gin.Context) {
		c.Set(auth.ContextUserKey, &session.Record{UserID: 1, Username: "testuser", CreatedAt: time.Now()})
		h.Dashboard(c)
	})
	router.NoRoute(NewPublicFS(publicDir).Handler())
	return router, publicDir
}

func serve(router *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPagesRender(t *testing.T) {
	router, _ := newTestRouter(t)

	for path, want := range map[string]string{
		"/":      "<h1>Welcome</h1>",
		"/about": "<h1>About</h1>",
		"/login": `name="password"`,
	} {
		rec := serve(router, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("%s body missing %q:\n%s", path, want, rec.Body.String())
		}
	}
}

func TestNoticeRenderedOnce(t *testing.T) {
	router, _ := newTestRouter(t)

	seed := serve(router, "/seed", nil)
	rec := serve(router, "/login", seed.Result().Cookies())
	if !strings.Contains(rec.Body.String(), "seeded error") {
		t.Fatalf("expected notice in first render:\n%s", rec.Body.String())
	}

	rec = serve(router, "/login", rec.Result().Cookies())
	if strings.Contains(rec.Body.String(), "seeded error") {
		t.Fatal("notice rendered twice")
	}
}

func TestDashboardShowsUser(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "/as-user", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Hello, testuser (id 1)") {
		t.Fatalf("unexpected dashboard body:\n%s", body)
	}
	if !strings.Contains(body, `action="/logout"`) {
		t.Fatal("expected logout form for signed-in user")
	}
}

func TestDecoyEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "/admin", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "<h1>Admin Panel</h1><p>Restricted area. (Lab only)</p>" {
		t.Fatalf("/admin = %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(router, "/secret", nil)
	if rec.Code != http.StatusForbidden || rec.Body.String() != "Forbidden" {
		t.Fatalf("/secret = %d %q", rec.Code, rec.Body.String())
	}
}

func TestHiddenFiles(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "/.hidden-files/creds.txt", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "admin:hunter2\n" {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("Content-Type = %q", ct)
	}

	rec = serve(router, "/.hidden-files/missing.txt", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing file status = %d", rec.Code)
	}
}

func TestStaticServedFromRoot(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "/style.css", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "body{}" {
		t.Fatalf("/style.css = %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Fatalf("Content-Type = %q", ct)
	}

	for _, path := range []string{"/.env", "/missing.css", "/.hidden-files/.git/config"} {
		if rec := serve(router, path, nil); rec.Code != http.StatusNotFound {
			t.Fatalf("%s status = %d, want 404", path, rec.Code)
		}
	}
}
