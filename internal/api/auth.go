package api

import (
	"net/http"

	"neftit_waitlist/internal/content"
	"neftit_waitlist/internal/middleware"
	"neftit_waitlist/internal/service"
	"neftit_waitlist/internal/session"
	"neftit_waitlist/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type authRoutes struct {
	ws    service.WaitlistServiceI
	store *session.Store
	links content.Links
}

func NewAuthRoutes(handler *gin.RouterGroup, ws service.WaitlistServiceI, store *session.Store, links content.Links) {
	r := &authRoutes{ws: ws, store: store, links: links}
	h := handler.Group("/auth")
	{
		h.POST("/signin", r.SignIn)
		h.POST("/signout", r.SignOut)
	}
	handler.GET("/session", r.GetSession)
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *authRoutes) SignIn(c *gin.Context) {
	log := logger.Logger()

	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, err := r.ws.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, "failed to sign in", err)
		return
	}

	snapshot := applyPatch(c, r.store, session.SignedIn(entry))

	c.JSON(http.StatusOK, gin.H{
		"entry":   newEntryResponse(entry, r.links),
		"session": snapshot,
	})
}

// SignOut forgets the signed-in entry but keeps the session, so a captured
// referral code survives.
func (r *authRoutes) SignOut(c *gin.Context) {
	if middleware.SessionID(c) == "" {
		c.JSON(http.StatusOK, gin.H{"signed_in": false, "session": session.Blank()})
		return
	}
	snapshot := applyPatch(c, r.store, session.SignedOut())

	c.JSON(http.StatusOK, gin.H{
		"signed_in": false,
		"session":   snapshot,
	})
}

func (r *authRoutes) GetSession(c *gin.Context) {
	snapshot, ok := r.store.Get(middleware.SessionID(c))
	if !ok {
		snapshot = session.Blank()
	}

	c.JSON(http.StatusOK, gin.H{
		"signed_in": snapshot.SignedIn(),
		"session":   snapshot,
	})
}
