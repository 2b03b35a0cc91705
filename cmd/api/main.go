// Package main はWebサーバーのエントリーポイントです。
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourusername/login-lab/internal/auth"
	"github.com/yourusername/login-lab/internal/config"
	"github.com/yourusername/login-lab/internal/flash"
	"github.com/yourusername/login-lab/internal/identity"
	"github.com/yourusername/login-lab/internal/logging"
	"github.com/yourusername/login-lab/internal/middleware"
	"github.com/yourusername/login-lab/internal/session"
	"github.com/yourusername/login-lab/internal/storage"
	"github.com/yourusername/login-lab/internal/web"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init(cfg.LogLevel)
	if cfg.UsesInsecureSecret() {
		logger.Warn("SESSION_SECRET is not set; using the insecure lab default")
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()
	store, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open session store", "backend", cfg.SessionBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	users, err := identity.NewDemoStore(cfg.DemoUsername, cfg.DemoPasswordHash)
	if err != nil {
		logger.Error("failed to prepare demo identity", "error", err)
		os.Exit(1)
	}

	// アクセスログは書けなくても起動は続ける
	var accessLog *middleware.AccessLog
	if accessLog, err = middleware.OpenAccessLog(cfg.AccessLogDir, logger); err != nil {
		logger.Warn("access log disabled", "dir", cfg.AccessLogDir, "error", err)
		accessLog = nil
	} else {
		defer accessLog.Close()
	}

	router, err := newRouter(cfg, logger, store, users, accessLog)
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting web server", "addr", srv.Addr, "mode", cfg.GinMode, "session_backend", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// newRouter はミドルウェアとルーティングを組み立てます。
func newRouter(cfg *config.Config, logger *slog.Logger, store session.Store, users identity.Lookup, accessLog *middleware.AccessLog) (*gin.Engine, error) {
	tmpl, err := web.LoadTemplates()
	if err != nil {
		return nil, err
	}
	hidden, err := storage.NewLocalDir(cfg.HiddenFilesDir)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	router.Use(middleware.RequestID(), middleware.RequestLogger(logger))
	if accessLog != nil {
		router.Use(accessLog.Middleware())
	}
	router.Use(middleware.SecurityHeaders(cfg.GinMode == gin.ReleaseMode))

	// セッションCookieの設定（中身は不透明トークンと通知のみ）
	cookieStore := cookie.NewStore([]byte(cfg.SessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, cookieStore))
	router.Use(flash.Consume())

	// CORSミドルウェアの設定
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
		router.Use(cors.New(corsConfig))
	}

	authManager := auth.NewManager(auth.NewVerifier(users, cfg.LoginFailureDelay()), store, logger)
	router.Use(authManager.LoadUser())

	setupRoutes(router, cfg, authManager, web.NewHandler(hidden, logger))
	return router, nil
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "login-lab",
		"version": "0.1.0",
	})
}

// setupRoutes は画面と認証周りの配線を行います。
func setupRoutes(router *gin.Engine, cfg *config.Config, authManager *auth.Manager, pages *web.Handler) {
	router.GET("/health", handleHealth)
	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.GET("/", pages.Index)
	router.GET("/about", pages.About)
	router.GET(auth.PathLogin, pages.LoginForm)
	router.POST(auth.PathLogin, authManager.Login)
	router.POST("/logout", authManager.Logout)
	router.GET(auth.PathDashboard, authManager.RequireLogin(), pages.Dashboard)

	// スキャン練習用の囮エンドポイント
	router.GET("/admin", pages.Admin)
	router.GET("/secret", pages.Secret)
	router.GET("/.hidden-files/*filepath", pages.HiddenFile)

	// 上記以外はルート直下の静的ファイルとして扱う
	router.NoRoute(web.NewPublicFS(cfg.PublicDir).Handler())
}
