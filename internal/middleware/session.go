package middleware

import (
	"net/http"
	"strings"

	"neftit_waitlist/internal/session"
	"neftit_waitlist/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sessionKey  = "session_id"
	sessionsKey = "sessions"
)

type Sessions struct {
	store *session.Store
	cfg   session.Config
}

func NewSessions(store *session.Store, cfg session.Config) *Sessions {
	if cfg.CookieName == "" {
		cfg.CookieName = "waitlist_session"
	}
	return &Sessions{
		store: store,
		cfg:   cfg,
	}
}

// Attach resolves the session cookie. Nothing is created here; a session
// only comes into existence when a handler writes to it via EnsureSession.
func (s *Sessions) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionsKey, s)
		if id, err := c.Cookie(s.cfg.CookieName); err == nil {
			if _, ok := s.store.Get(id); ok {
				c.Set(sessionKey, id)
			}
		}
		c.Next()
	}
}

// CaptureReferral keeps a ?ref=<code> query parameter as the pending
// referral code of the session until signup consumes it.
func (s *Sessions) CaptureReferral() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.Query("ref"))
		if code == "" {
			c.Next()
			return
		}

		if _, err := s.store.Apply(s.ensure(c), session.ReferralCaptured(code)); err != nil {
			logger.Logger().Warn("failed to capture referral code", zap.String("ref", code), zap.Error(err))
		}
		c.Next()
	}
}

func (s *Sessions) ensure(c *gin.Context) string {
	if id := SessionID(c); id != "" {
		return id
	}

	created := s.store.Create()
	s.setCookie(c, created.ID)
	c.Set(sessionKey, created.ID)
	return created.ID
}

func (s *Sessions) setCookie(c *gin.Context, id string) {
	maxAge := int(s.cfg.TTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.CookieName, id, maxAge, "/", "", s.cfg.Secure, true)
}

// SessionID returns the id of the request's session, or "" when the visitor
// has none yet.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// EnsureSession returns the request's session id, creating the session and
// its cookie on first use. Outside Attach it falls back to SessionID.
func EnsureSession(c *gin.Context) string {
	s, ok := c.Get(sessionsKey)
	if !ok {
		return SessionID(c)
	}
	return s.(*Sessions).ensure(c)
}
