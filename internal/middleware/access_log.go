package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// AccessLogFile はアクセスログディレクトリ内のファイル名です。
const AccessLogFile = "access.log"

// AccessLog はリクエストごとに1行をファイルへ追記します。
// 書き込みに失敗してもリクエストは失敗させません。
type AccessLog struct {
	mu     sync.Mutex
	w      io.WriteCloser
	logger *slog.Logger
	now    func() time.Time
}

// OpenAccessLog は必要ならディレクトリを作成し、access.log を追記モードで開きます。
func OpenAccessLog(dir string, logger *slog.Logger) (*AccessLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create access log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, AccessLogFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open access log: %w", err)
	}
	return NewAccessLog(f, logger), nil
}

// NewAccessLog は既存の Writer をラップします。
func NewAccessLog(w io.WriteCloser, logger *slog.Logger) *AccessLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessLog{w: w, logger: logger, now: time.Now}
}

// Middleware はハンドラーの実行前にリクエストを記録します。
func (a *AccessLog) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		line := fmt.Sprintf("%s %s %s %s\n",
			a.now().UTC().Format(time.RFC3339Nano),
			c.ClientIP(),
			c.Request.Method,
			c.Request.URL.RequestURI(),
		)
		a.mu.Lock()
		_, err := io.WriteString(a.w, line)
		a.mu.Unlock()
		if err != nil {
			a.logger.WarnContext(c.Request.Context(), "failed to write access log", "error", err)
		}
		c.Next()
	}
}

// Close は出力先を閉じます。
func (a *AccessLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.w.Close()
}
