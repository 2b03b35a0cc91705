// Package logging はプロセス全体で使う構造化ロガーを用意します。
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init は標準出力への JSON ロガーを作成し、slog のデフォルトに設定します。
func Init(level string) *slog.Logger {
	return New(os.Stdout, level)
}

// New は w に書き出す JSON ロガーを作成します。
func New(w io.Writer, level string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel は LOG_LEVEL の値を slog のレベルに変換します。不明な値は info になります。
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
