package api

import (
	"neftit_waitlist/internal/content"
	"neftit_waitlist/internal/middleware"
	"neftit_waitlist/internal/service"
	"neftit_waitlist/internal/session"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Waitlist      service.WaitlistServiceI
	Verification  service.VerificationServiceI
	Leaderboard   service.LeaderboardServiceI
	Sessions      *session.Store
	SessionConfig session.Config
	Links         content.Links
	DashboardSize int
}

// Register mounts every waitlist route on handler behind the session
// middleware.
func Register(handler *gin.RouterGroup, d Deps) {
	sessions := middleware.NewSessions(d.Sessions, d.SessionConfig)
	handler.Use(sessions.Attach(), sessions.CaptureReferral())

	NewInfoRoutes(handler, d.Waitlist, d.Links)
	NewWaitlistRoutes(handler, d.Waitlist, d.Sessions, d.Links)
	NewAuthRoutes(handler, d.Waitlist, d.Sessions, d.Links)
	NewTaskRoutes(handler, d.Waitlist, d.Verification, d.Sessions, d.Links)
	NewLeaderboardRoutes(handler, d.Waitlist, d.Leaderboard, d.Sessions, d.Links, d.DashboardSize)
}
