package auth

import (
	"errors"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/login-lab/internal/flash"
	"github.com/yourusername/login-lab/internal/metrics"
	"github.com/yourusername/login-lab/internal/session"
)

// Login は POST /login のハンドラーです。
// フォーム値 username / password を検証し、成功時のみセッションを発行します。
func (m *Manager) Login(c *gin.Context) {
	started := time.Now()
	ctx := c.Request.Context()
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := m.verifier.Verify(ctx, username, password)
	if err != nil {
		outcome := outcomeOf(err)
		metrics.RecordLogin(outcome, time.Since(started).Seconds())
		m.logger.InfoContext(ctx, "login rejected",
			"outcome", outcome,
			"ip", c.ClientIP(),
		)

		if errors.Is(err, ErrValidation) {
			addNotice(c, flash.CategoryError, MessageMissingFields)
		} else {
			addNotice(c, flash.CategoryError, MessageInvalid)
		}
		m.redirect(c, PathLogin)
		return
	}

	sess := sessions.Default(c)
	// 既存のトークンは使い回さず破棄する（セッション固定化対策）
	if old, ok := sess.Get(sessionKeyToken).(string); ok {
		if err := m.destroy(ctx, old); err != nil {
			m.internalError(c, started, err)
			return
		}
		sess.Delete(sessionKeyToken)
	}

	token, err := m.store.Create(ctx, session.Record{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		m.internalError(c, started, err)
		return
	}

	sess.Set(sessionKeyToken, token)
	addNotice(c, flash.CategoryInfo, MessageLoginSuccess)
	metrics.RecordLogin(metrics.OutcomeSuccess, time.Since(started).Seconds())
	m.logger.InfoContext(ctx, "login succeeded", "user_id", user.ID, "ip", c.ClientIP())
	m.redirect(c, PathDashboard)
}

// Logout は POST /logout のハンドラーです。
// セッションが無い状態で呼ばれてもエラーにはしません。
// サーバー側の破棄に失敗した場合はトークンを残したまま通知を出します。
func (m *Manager) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	sess := sessions.Default(c)
	if token, ok := sess.Get(sessionKeyToken).(string); ok {
		if err := m.destroy(ctx, token); err != nil {
			m.logger.ErrorContext(ctx, "logout failed", "error", err, "ip", c.ClientIP())
			addNotice(c, flash.CategoryError, MessageInternal)
			m.redirect(c, PathHome)
			return
		}
	}
	c.Set(ContextUserKey, (*session.Record)(nil))
	sess.Clear()
	metrics.RecordLogout()
	m.redirect(c, PathHome)
}

// internalError はストア障害時のログイン失敗を処理します。
func (m *Manager) internalError(c *gin.Context, started time.Time, err error) {
	ctx := c.Request.Context()
	metrics.RecordLogin(metrics.OutcomeError, time.Since(started).Seconds())
	m.logger.ErrorContext(ctx, "failed to issue session", "error", err)
	addNotice(c, flash.CategoryError, MessageInternal)
	m.redirect(c, PathLogin)
}
