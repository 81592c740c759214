package api

import (
	"net/http"

	"neftit_waitlist/internal/content"
	"neftit_waitlist/internal/service"
	"neftit_waitlist/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type infoRoutes struct {
	ws    service.WaitlistServiceI
	links content.Links
}

func NewInfoRoutes(handler *gin.RouterGroup, ws service.WaitlistServiceI, links content.Links) {
	r := &infoRoutes{ws: ws, links: links}
	handler.GET("/health", r.Health)
	handler.GET("/landing", r.Landing)
	handler.GET("/faq", r.FAQ)
}

func (r *infoRoutes) Health(c *gin.Context) {
	if err := r.ws.CheckConnection(c.Request.Context()); err != nil {
		abortWithError(c, "health check failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Landing degrades to a zero counter when storage is unreachable.
func (r *infoRoutes) Landing(c *gin.Context) {
	count, err := r.ws.Count(c.Request.Context())
	if err != nil {
		logger.Logger().Warn("failed to count waitlist for landing", zap.Error(err))
		count = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"waitlist_count":   count,
		"waitlist_display": content.FormatCount(count),
		"faq":              content.FAQs,
		"links": gin.H{
			"twitter_follow": r.links.TwitterFollow,
			"discord_invite": r.links.DiscordInvite,
			"signup":         r.links.SiteURL + "/waitlist",
		},
	})
}

func (r *infoRoutes) FAQ(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"faq": content.FAQs})
}
