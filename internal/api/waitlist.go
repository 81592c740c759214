package api

import (
	"net/http"
	"strings"

	"neftit_waitlist/internal/content"
	"neftit_waitlist/internal/middleware"
	"neftit_waitlist/internal/service"
	"neftit_waitlist/internal/session"
	"neftit_waitlist/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type waitlistRoutes struct {
	ws    service.WaitlistServiceI
	store *session.Store
	links content.Links
}

func NewWaitlistRoutes(handler *gin.RouterGroup, ws service.WaitlistServiceI, store *session.Store, links content.Links) {
	r := &waitlistRoutes{ws: ws, store: store, links: links}
	h := handler.Group("/waitlist")
	{
		h.POST("", r.Join)
		h.GET("/count", r.Count)
		h.GET("/exists", r.Exists)
		h.GET("/me", r.GetMe)
		h.PATCH("/me", r.UpdateMe)
	}
}

type JoinRequest struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

func (r *waitlistRoutes) Join(c *gin.Context) {
	log := logger.Logger()

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	referralCode := req.ReferralCode
	if referralCode == "" {
		if snapshot, ok := r.store.Get(middleware.SessionID(c)); ok {
			referralCode = snapshot.PendingReferralCode
		}
	}

	entry, err := r.ws.Join(c.Request.Context(), service.JoinRequest{
		Email:        req.Email,
		Name:         req.Name,
		Password:     req.Password,
		ReferralCode: referralCode,
	})
	if err != nil {
		abortWithError(c, "failed to join waitlist", err)
		return
	}

	snapshot := applyPatch(c, r.store, session.SignedUp(entry))

	c.JSON(http.StatusCreated, gin.H{
		"entry":   newEntryResponse(entry, r.links),
		"session": snapshot,
	})
}

func (r *waitlistRoutes) Count(c *gin.Context) {
	count, err := r.ws.Count(c.Request.Context())
	if err != nil {
		abortWithError(c, "failed to count waitlist", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   count,
		"display": content.FormatCount(count),
	})
}

// Exists lets the signup form warn about a taken email before submitting.
func (r *waitlistRoutes) Exists(c *gin.Context) {
	email := c.Query("email")
	if !service.ValidateEmail(strings.TrimSpace(email)) {
		abortWithError(c, "failed to check email", service.ErrInvalidEmail)
		return
	}

	exists, err := r.ws.UserExists(c.Request.Context(), email)
	if err != nil {
		abortWithError(c, "failed to check email", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (r *waitlistRoutes) GetMe(c *gin.Context) {
	snapshot, ok := signedIn(c, r.store)
	if !ok {
		return
	}

	entry, err := r.ws.Get(c.Request.Context(), snapshot.Email)
	if err != nil {
		abortWithError(c, "failed to get waitlist entry", err)
		return
	}

	applyPatch(c, r.store, session.EntrySynced(entry))

	c.JSON(http.StatusOK, newEntryResponse(entry, r.links))
}

type UpdateEntryRequest struct {
	Name            *string `json:"name"`
	WalletAddress   *string `json:"wallet_address"`
	TwitterUsername *string `json:"twitter_username"`
	TwitterFollowed *bool   `json:"twitter_followed"`
	DiscordUsername *string `json:"discord_username"`
	DiscordJoined   *bool   `json:"discord_joined"`
}

func (r *waitlistRoutes) UpdateMe(c *gin.Context) {
	log := logger.Logger()

	snapshot, ok := signedIn(c, r.store)
	if !ok {
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, err := r.ws.Update(c.Request.Context(), snapshot.Email, service.EntryUpdate{
		Name:            req.Name,
		WalletAddress:   req.WalletAddress,
		TwitterUsername: req.TwitterUsername,
		TwitterFollowed: req.TwitterFollowed,
		DiscordUsername: req.DiscordUsername,
		DiscordJoined:   req.DiscordJoined,
	})
	if err != nil {
		abortWithError(c, "failed to update waitlist entry", err)
		return
	}

	applyPatch(c, r.store, session.EntrySynced(entry))

	c.JSON(http.StatusOK, newEntryResponse(entry, r.links))
}
