package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/login-lab/internal/flash"
	"github.com/yourusername/login-lab/internal/metrics"
)

// RequireLogin はセッションを検証するミドルウェアを返します。
// 未ログインの場合は ErrAuthorization 扱いとし、通知を積んで /login へ戻します。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := m.CurrentUser(c)
		if err != nil {
			m.logger.WarnContext(c.Request.Context(), "failed to load session", "error", err)
		}
		if record == nil {
			metrics.RecordGateDenied()
			m.logger.InfoContext(c.Request.Context(), "gated resource denied",
				"error", ErrAuthorization,
				"path", c.Request.URL.Path,
				"ip", c.ClientIP(),
			)
			addNotice(c, flash.CategoryError, MessageLoginRequired)
			m.redirect(c, PathLogin)
			c.Abort()
			return
		}

		c.Next()
	}
}
