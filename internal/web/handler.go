// Package web は画面の描画と公開エンドポイントのハンドラーを提供します。
package web

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/login-lab/internal/auth"
	"github.com/yourusername/login-lab/internal/flash"
	"github.com/yourusername/login-lab/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates は埋め込みテンプレートを読み込みます。
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// Handler は画面系のハンドラーをまとめた構造体です。
type Handler struct {
	hidden *storage.LocalDir
	logger *slog.Logger
}

// NewHandler は Handler を作成します。
func NewHandler(hidden *storage.LocalDir, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{hidden: hidden, logger: logger}
}

// Index は GET / のハンドラーです。
func (h *Handler) Index(c *gin.Context) {
	h.render(c, "index.html", "Home")
}

// About は GET /about のハンドラーです。
func (h *Handler) About(c *gin.Context) {
	h.render(c, "about.html", "About")
}

// LoginForm は GET /login のハンドラーです。
func (h *Handler) LoginForm(c *gin.Context) {
	h.render(c, "login.html", "Log in")
}

// Dashboard は GET /dashboard のハンドラーです。RequireLogin の後ろに置くこと。
func (h *Handler) Dashboard(c *gin.Context) {
	h.render(c, "dashboard.html", "Dashboard")
}

// Admin はスキャン練習用の囮エンドポイントです。認証はしません。
func (h *Handler) Admin(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<h1>Admin Panel</h1><p>Restricted area. (Lab only)</p>"))
}

// Secret は常に 403 を返す囮エンドポイントです。
func (h *Handler) Secret(c *gin.Context) {
	c.String(http.StatusForbidden, "Forbidden")
}

// HiddenFile は GET /.hidden-files/*filepath のハンドラーです。
// ディレクトリ内のファイルをそのまま返します。
func (h *Handler) HiddenFile(c *gin.Context) {
	f, err := h.hidden.Open(c.Param("filepath"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.String(http.StatusNotFound, "Not Found")
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "failed to open hidden file", "error", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	defer f.Close()

	c.DataFromReader(http.StatusOK, f.Size, f.ContentType, f, nil)
}

// render はこのリクエストで取り出した通知と一緒にテンプレートを描画します。
// 取り出した通知を消すため、本文を書く前にセッションを保存します。
func (h *Handler) render(c *gin.Context, name, title string) {
	notices := flash.Current(c)
	// 未ログインの閲覧だけで Cookie を発行しない
	if len(notices) > 0 {
		if err := sessions.Default(c).Save(); err != nil {
			h.logger.ErrorContext(c.Request.Context(), "failed to save session cookie", "error", err)
		}
	}

	data := gin.H{
		"Title":  title,
		"Errors": flash.Messages(notices, flash.CategoryError),
		"Infos":  flash.Messages(notices, flash.CategoryInfo),
		"User":   nil,
	}
	if user, ok := auth.UserFromContext(c); ok {
		data["User"] = user
	}
	c.HTML(http.StatusOK, name, data)
}
