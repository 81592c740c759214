package api

import (
	"net/http"

	"neftit_waitlist/internal/middleware"
	"neftit_waitlist/internal/session"
	"neftit_waitlist/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// signedIn returns the session of the request if it carries an email. It
// writes 401 otherwise.
func signedIn(c *gin.Context, store *session.Store) (session.Snapshot, bool) {
	snapshot, ok := store.Get(middleware.SessionID(c))
	if !ok || !snapshot.SignedIn() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please sign up or sign in first"})
		return session.Snapshot{}, false
	}
	return snapshot, true
}

// applyPatch updates the session, creating it on first write, and logs
// failures. The request outcome does
// not depend on it.
func applyPatch(c *gin.Context, store *session.Store, patches ...session.Patch) session.Snapshot {
	snapshot, err := store.Apply(middleware.EnsureSession(c), patches...)
	if err != nil {
		names := make([]string, len(patches))
		for i, p := range patches {
			names[i] = p.Name
		}
		logger.Logger().Warn("failed to update session", zap.Strings("patches", names), zap.Error(err))
	}
	return snapshot
}
