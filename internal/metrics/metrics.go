// Package metrics は Prometheus メトリクスを提供します。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ログイン結果の種別
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeInvalid    = "invalid"
	OutcomeError      = "error"
)

var (
	// LoginAttemptsTotal は POST /login を結果別に数えます。
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loginlab",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	// LoginDuration はログイン処理にかかった時間です（失敗時の遅延を含む）。
	LoginDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loginlab",
			Name:      "login_duration_seconds",
			Help:      "Duration of login handling in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 0.75, 1, 2},
		},
		[]string{"outcome"},
	)

	// GateDeniedTotal は未ログインで保護ページへ来たリクエスト数です。
	GateDeniedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "loginlab",
			Name:      "gate_denied_total",
			Help:      "Total number of unauthenticated requests to gated resources",
		},
	)

	// LogoutTotal はログアウト要求の数です。
	LogoutTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "loginlab",
			Name:      "logout_total",
			Help:      "Total number of logout requests",
		},
	)
)

// RecordLogin はログイン試行を記録します。
func RecordLogin(outcome string, seconds float64) {
	LoginAttemptsTotal.WithLabelValues(outcome).Inc()
	LoginDuration.WithLabelValues(outcome).Observe(seconds)
}

// RecordGateDenied は保護ページへのアクセス拒否を記録します。
func RecordGateDenied() {
	GateDeniedTotal.Inc()
}

// RecordLogout はログアウト要求を記録します。
func RecordLogout() {
	LogoutTotal.Inc()
}

// RegisterActiveSessions はプロセス内セッションストアの件数をゲージとして公開します。
func RegisterActiveSessions(reg prometheus.Registerer, count func() int) error {
	return reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "loginlab",
			Name:      "sessions_active",
			Help:      "Number of sessions held by the in-memory store",
		},
		func() float64 { return float64(count()) },
	))
}
