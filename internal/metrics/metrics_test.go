package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"neftit_waitlist/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainCounters(t *testing.T) {
	m := New()

	m.SignedUp()
	m.SignedUp()
	m.ReferralRecorded()
	m.VerificationAttempt(model.TaskTwitter, false)
	m.VerificationAttempt(model.TaskTwitter, false)
	m.VerificationAttempt(model.TaskTwitter, true)
	m.ForcedVerification(model.TaskDiscord)
	m.LeaderboardRefreshed(20*time.Millisecond, 42)
	m.Exported(nil)
	m.Exported(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.signups))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.referrals))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.verifications.WithLabelValues("twitter", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("twitter", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.forcedVerification.WithLabelValues("discord")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.leaderboardSize))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("failure")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/ping/:id", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/7", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/ping/:id", "200")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "neftit_waitlist_http_requests_total"))
}
