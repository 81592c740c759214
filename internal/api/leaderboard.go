package api

import (
	"net/http"
	"strconv"
	"time"

	"neftit_waitlist/internal/content"
	"neftit_waitlist/internal/middleware"
	"neftit_waitlist/internal/service"
	"neftit_waitlist/internal/session"
	"neftit_waitlist/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type leaderboardRoutes struct {
	ws            service.WaitlistServiceI
	ls            service.LeaderboardServiceI
	store         *session.Store
	links         content.Links
	dashboardSize int
}

func NewLeaderboardRoutes(
	handler *gin.RouterGroup,
	ws service.WaitlistServiceI,
	ls service.LeaderboardServiceI,
	store *session.Store,
	links content.Links,
	dashboardSize int,
) {
	if dashboardSize < 1 {
		dashboardSize = 10
	}
	r := &leaderboardRoutes{ws: ws, ls: ls, store: store, links: links, dashboardSize: dashboardSize}
	h := handler.Group("/leaderboard")
	{
		h.GET("", r.GetLeaderboard)
		h.GET("/ws", r.handleWebSocket)
	}
	handler.GET("/dashboard", r.GetDashboard)
}

func (r *leaderboardRoutes) viewerEmail(c *gin.Context) string {
	snapshot, ok := r.store.Get(middleware.SessionID(c))
	if !ok {
		return ""
	}
	return snapshot.Email
}

func (r *leaderboardRoutes) GetLeaderboard(c *gin.Context) {
	log := logger.Logger()

	number := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			log.Error("failed to parse page", zap.String("page", raw), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		number = n
	}

	page, err := r.ls.Page(c.Request.Context(), number)
	if err != nil {
		abortWithError(c, "failed to get leaderboard", err)
		return
	}

	email := r.viewerEmail(c)
	out := gin.H{
		"page":          page.Number,
		"page_size":     page.Size,
		"total_pages":   page.TotalPages,
		"total_entries": page.TotalEntries,
		"entries":       newLeaderboardRows(page.Entries, email),
		"refreshed_at":  page.RefreshedAt,
	}

	if own := page.Find(email); email != "" && own != nil {
		out["your_rank"] = own.Rank
	}

	c.JSON(http.StatusOK, out)
}

type profileResponse struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Wallet        string `json:"wallet"`
	JoinedAt      string `json:"joined_at"`
	Rank          int    `json:"rank"`
	DisplayRank   string `json:"display_rank"`
	ReferralCount int    `json:"referral_count"`
}

func (r *leaderboardRoutes) GetDashboard(c *gin.Context) {
	snapshot, ok := signedIn(c, r.store)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	entry, err := r.ws.Get(ctx, snapshot.Email)
	if err != nil {
		abortWithError(c, "failed to get waitlist entry", err)
		return
	}

	// rebuilt per visit so a fresh signup or referral shows up at once
	board, err := r.ls.Refresh(ctx)
	if err != nil {
		abortWithError(c, "failed to get leaderboard", err)
		return
	}

	name := ""
	if entry.Name != nil {
		name = *entry.Name
	}
	wallet := ""
	if entry.WalletAddress != nil {
		wallet = content.MaskWallet(*entry.WalletAddress)
	}

	profile := profileResponse{
		Name:     content.DisplayName(name),
		Email:    entry.Email,
		Wallet:   wallet,
		JoinedAt: entry.CreatedAt.Format(service.JoinedDateLayout),
	}
	if own := board.Find(entry.Email); own != nil {
		profile.Rank = own.Rank
		profile.DisplayRank = content.FormatRank(own.Rank)
		profile.ReferralCount = own.ReferralCount
	}

	link := r.links.ReferralLink(entry.ReferralCode)

	c.JSON(http.StatusOK, gin.H{
		"profile":       profile,
		"referral_code": entry.ReferralCode,
		"referral_link": link,
		"share_url":     r.links.TweetIntent(link),
		"leaderboard":   newLeaderboardRows(board.Top(r.dashboardSize), entry.Email),
		"total_entries": len(board.Entries),
		"refreshed_at":  board.RefreshedAt,
	})
}

type leaderboardFrame struct {
	Type         string           `json:"type"`
	Entries      []leaderboardRow `json:"entries"`
	TotalEntries int              `json:"total_entries"`
	RefreshedAt  time.Time        `json:"refreshed_at"`
}

// handleWebSocket streams the top of the leaderboard: once on connect and
// again after every refresh.
func (r *leaderboardRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()
	email := r.viewerEmail(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, unsubscribe := r.ls.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn("websocket unexpected close", zap.Error(err))
				}
				return
			}
		}
	}()

	if snapshot, err := r.ls.Snapshot(c.Request.Context()); err == nil {
		if err := r.writeFrame(conn, snapshot, email); err != nil {
			log.Error("error sending leaderboard", zap.Error(err))
			return
		}
	}

	for {
		select {
		case <-closed:
			return
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := r.writeFrame(conn, snapshot, email); err != nil {
				log.Error("error sending leaderboard", zap.Error(err))
				return
			}
		}
	}
}

func (r *leaderboardRoutes) writeFrame(conn *websocket.Conn, snapshot *service.Snapshot, email string) error {
	out, err := json.Marshal(leaderboardFrame{
		Type:         "leaderboard",
		Entries:      newLeaderboardRows(snapshot.Top(r.dashboardSize), email),
		TotalEntries: len(snapshot.Entries),
		RefreshedAt:  snapshot.RefreshedAt,
	})
	if err != nil {
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, out)
}
