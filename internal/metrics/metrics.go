package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"neftit_waitlist/internal/model"
	"neftit_waitlist/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "neftit_waitlist"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	signups            prometheus.Counter
	referrals          prometheus.Counter
	verifications      *prometheus.CounterVec
	forcedVerification *prometheus.CounterVec
	leaderboardRefresh prometheus.Histogram
	leaderboardSize    prometheus.Gauge
	sessions           prometheus.Gauge
	exports            *prometheus.CounterVec
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Waitlist entries created.",
		}),
		referrals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "referrals_total",
			Help:      "Referral relationships recorded.",
		}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_attempts_total",
			Help:      "Social task write attempts by task and outcome.",
		}, []string{"task", "outcome"}),
		forcedVerification: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_forced_total",
			Help:      "Social tasks reported as verified although the write failed.",
		}, []string{"task"}),
		leaderboardRefresh: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "leaderboard_refresh_seconds",
			Help:      "Time spent reloading the leaderboard.",
			Buckets:   prometheus.DefBuckets,
		}),
		leaderboardSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "leaderboard_entries",
			Help:      "Entries in the last leaderboard snapshot.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Live sessions after the last purge.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Waitlist exports by outcome.",
		}, []string{"outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.signups,
		m.referrals,
		m.verifications,
		m.forcedVerification,
		m.leaderboardRefresh,
		m.leaderboardSize,
		m.sessions,
		m.exports,
		m.requests,
		m.requestDuration,
	)

	return m
}

func (m *Metrics) SignedUp() {
	m.signups.Inc()
}

func (m *Metrics) ReferralRecorded() {
	m.referrals.Inc()
}

func (m *Metrics) VerificationAttempt(task model.Task, ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.verifications.WithLabelValues(string(task), outcome).Inc()
}

func (m *Metrics) ForcedVerification(task model.Task) {
	m.forcedVerification.WithLabelValues(string(task)).Inc()
}

func (m *Metrics) LeaderboardRefreshed(duration time.Duration, entries int) {
	m.leaderboardRefresh.Observe(duration.Seconds())
	m.leaderboardSize.Set(float64(entries))
}

func (m *Metrics) SessionsLive(n int) {
	m.sessions.Set(float64(n))
}

func (m *Metrics) Exported(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.exports.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latency labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      errorLog{},
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// errorLog implements promhttp.Logger on top of zap.
type errorLog struct{}

func (errorLog) Println(v ...interface{}) {
	logger.Logger().Error(fmt.Sprint(v...))
}
