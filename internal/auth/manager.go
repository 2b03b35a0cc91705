// Package auth は認証・認可機能を提供します。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/login-lab/internal/flash"
	"github.com/yourusername/login-lab/internal/metrics"
	"github.com/yourusername/login-lab/internal/session"
)

const (
	// SessionCookieName はセッションCookieの名前です。
	SessionCookieName = "lab_session"
	sessionKeyToken   = "auth_token"
)

// ContextUserKey は、ハンドラー間でログイン済みユーザーを共有するためのキーです。
const ContextUserKey = "auth.user"

// 遷移先のパス
const (
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
	PathHome      = "/"
)

// Manager は認証処理と状態をまとめた構造体です。
type Manager struct {
	verifier *Verifier
	store    session.Store
	logger   *slog.Logger
}

// NewManager は認証マネージャーを作成します。
func NewManager(verifier *Verifier, store session.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		verifier: verifier,
		store:    store,
		logger:   logger,
	}
}

// CurrentUser は Cookie のトークンに対応するセッションレコードを返します。
// 未ログインの場合は nil, nil を返します。
func (m *Manager) CurrentUser(c *gin.Context) (*session.Record, error) {
	if v, ok := c.Get(ContextUserKey); ok {
		if record, ok := v.(*session.Record); ok {
			return record, nil
		}
	}

	sess := sessions.Default(c)
	token, ok := sess.Get(sessionKeyToken).(string)
	if !ok || token == "" {
		c.Set(ContextUserKey, (*session.Record)(nil))
		return nil, nil
	}

	record, err := m.store.Get(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	if record == nil {
		// 期限切れやログアウト済みのトークンは Cookie からも外す
		sess.Delete(sessionKeyToken)
		c.Set(ContextUserKey, (*session.Record)(nil))
		return nil, nil
	}

	c.Set(ContextUserKey, record)
	return record, nil
}

// LoadUser はログイン済みであればユーザーをコンテキストに載せるミドルウェアです。
// 未ログインでもリクエストは止めません。
func (m *Manager) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := m.CurrentUser(c); err != nil {
			m.logger.WarnContext(c.Request.Context(), "failed to load session", "error", err)
		}
		c.Next()
	}
}

// UserFromContext は LoadUser / RequireLogin が設定したユーザーを返します。
func UserFromContext(c *gin.Context) (*session.Record, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	record, ok := v.(*session.Record)
	return record, ok && record != nil
}

// redirect はセッション（通知を含む）を保存してから 303 でリダイレクトします。
func (m *Manager) redirect(c *gin.Context, path string) {
	if err := sessions.Default(c).Save(); err != nil {
		m.logger.ErrorContext(c.Request.Context(), "failed to save session cookie", "error", err)
	}
	c.Redirect(http.StatusSeeOther, path)
}

// destroy はサーバー側のセッションを破棄します。失敗した場合セッションは有効なまま残ります。
func (m *Manager) destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, ErrAuthentication):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}

func addNotice(c *gin.Context, category flash.Category, message string) {
	flash.FromContext(c).Add(category, message)
}
