package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader はリクエストIDを受け渡すヘッダーです。
	RequestIDHeader = "X-Request-ID"
	// ContextRequestIDKey はリクエストIDを保持するコンテキストキーです。
	ContextRequestIDKey = "request_id"
)

// RequestID は受け取った X-Request-ID が UUID ならそれを使い、そうでなければ新しく採番します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger はリクエスト完了ごとに構造化ログを1行出力します。
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		ctx := c.Request.Context()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(started).Milliseconds(),
			"request_id", c.GetString(ContextRequestIDKey),
		}
		if len(c.Errors) > 0 {
			logger.ErrorContext(ctx, "request failed", append(attrs, "error", c.Errors.String())...)
			return
		}
		logger.InfoContext(ctx, "request completed", attrs...)
	}
}
