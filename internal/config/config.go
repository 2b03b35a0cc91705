// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// InsecureDefaultSecret はラボ用途でのみ許容されるセッション署名鍵のデフォルト値です。
const InsecureDefaultSecret = "change_this_secret"

// セッションバックエンドの種類
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // HTTPサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// セッション設定
	SessionSecret     string // セッションCookie署名用の秘密鍵
	SessionBackend    string // サーバー側セッションの保存先 (memory, redis)
	SessionRedisURL   string // redis バックエンド用の接続URL
	SessionTTLMinutes int    // サーバー側セッションの有効期限（分）

	// デモユーザー設定
	DemoUsername     string // 固定ユーザーのユーザー名
	DemoPasswordHash string // bcryptでハッシュ化されたパスワード（空なら起動時に生成）

	// ログイン失敗時の遅延（ミリ秒）
	LoginFailureDelayMS int

	// ファイル配置
	AccessLogDir   string // アクセスログの出力ディレクトリ
	PublicDir      string // 静的ファイルのディレクトリ
	HiddenFilesDir string // /.hidden-files で公開するディレクトリ

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// 運用設定
	LogLevel       string // slog のログレベル
	MetricsEnabled bool   // /metrics を公開するかどうか
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		Port:    getEnv("PORT", "3000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		SessionSecret:     getEnv("SESSION_SECRET", InsecureDefaultSecret),
		SessionBackend:    strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
		SessionRedisURL:   getEnv("SESSION_REDIS_URL", "redis://127.0.0.1:6379/0"),
		SessionTTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 120),

		DemoUsername:     getEnv("DEMO_USERNAME", "testuser"),
		DemoPasswordHash: getEnv("DEMO_PASSWORD_HASH", ""),

		LoginFailureDelayMS: getEnvAsInt("LOGIN_FAILURE_DELAY_MS", 500),

		AccessLogDir:   getEnv("ACCESS_LOG_DIR", "/var/log/node-nginx-demo"),
		PublicDir:      getEnv("PUBLIC_DIR", "public"),
		HiddenFilesDir: getEnv("HIDDEN_FILES_DIR", filepath.Join("public", ".hidden-files")),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", false),
	}

	// 必須設定のバリデーション
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	switch c.SessionBackend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", SessionBackendMemory, SessionBackendRedis, c.SessionBackend)
	}
	if c.SessionBackend == SessionBackendRedis && c.SessionRedisURL == "" {
		return fmt.Errorf("SESSION_REDIS_URL is required when SESSION_BACKEND=redis")
	}
	if c.DemoUsername == "" {
		return fmt.Errorf("DEMO_USERNAME must not be empty")
	}
	if c.LoginFailureDelayMS < 0 {
		return fmt.Errorf("LOGIN_FAILURE_DELAY_MS must not be negative")
	}
	for _, origin := range c.AllowedOrigins() {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS contains invalid origin %q", origin)
		}
	}

	// 本番モードではラボ用のデフォルト鍵を許可しない
	if c.GinMode == "release" {
		if c.SessionSecret == "" || c.SessionSecret == InsecureDefaultSecret {
			return fmt.Errorf("SESSION_SECRET must be set to a non-default value in release mode")
		}
	}

	return nil
}

// UsesInsecureSecret はラボ用のデフォルト署名鍵が使われているかを返します。
func (c *Config) UsesInsecureSecret() bool {
	return c.SessionSecret == InsecureDefaultSecret
}

// LoginFailureDelay はログイン失敗時に挟む遅延時間を返します。
func (c *Config) LoginFailureDelay() time.Duration {
	return time.Duration(c.LoginFailureDelayMS) * time.Millisecond
}

// SessionTTL はサーバー側セッションの有効期限を返します。
func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 120 * time.Minute
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// AllowedOrigins は CORS 許可オリジンを配列で返します。
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool は環境変数を真偽値として取得します。
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
