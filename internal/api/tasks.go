package api

import (
	"context"
	"net/http"
	"strings"

	"neftit_waitlist/internal/content"
	"neftit_waitlist/internal/middleware"
	"neftit_waitlist/internal/model"
	"neftit_waitlist/internal/service"
	"neftit_waitlist/internal/session"
	"neftit_waitlist/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type taskRoutes struct {
	ws    service.WaitlistServiceI
	vs    service.VerificationServiceI
	store *session.Store
	links content.Links
}

func NewTaskRoutes(handler *gin.RouterGroup, ws service.WaitlistServiceI, vs service.VerificationServiceI, store *session.Store, links content.Links) {
	r := &taskRoutes{ws: ws, vs: vs, store: store, links: links}
	h := handler.Group("/tasks")
	{
		h.GET("", r.GetTasks)
		h.POST("/wallet", r.LinkWallet)
		h.GET("/wallet/validate", r.ValidateWallet)
		h.POST("/twitter/start", r.StartTwitter)
		h.POST("/twitter/confirm", r.ConfirmTwitter)
		h.POST("/discord/start", r.StartDiscord)
		h.POST("/discord/confirm", r.ConfirmDiscord)
	}
}

type taskStatus struct {
	Task  model.Task        `json:"task"`
	State session.TaskState `json:"state"`
	URL   string            `json:"url,omitempty"`
}

func (r *taskRoutes) taskURL(task model.Task) string {
	switch task {
	case model.TaskTwitter:
		return r.links.TwitterFollow
	case model.TaskDiscord:
		return r.links.DiscordInvite
	default:
		return ""
	}
}

func (r *taskRoutes) GetTasks(c *gin.Context) {
	snapshot, ok := r.store.Get(middleware.SessionID(c))
	if !ok {
		snapshot = session.Blank()
	}

	tasks := make([]taskStatus, 0, len(model.Tasks))
	for _, t := range model.Tasks {
		tasks = append(tasks, taskStatus{Task: t, State: snapshot.TaskState(t), URL: r.taskURL(t)})
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":         tasks,
		"all_completed": snapshot.AllTasksCompleted(),
	})
}

type LinkWalletRequest struct {
	WalletAddress string `json:"wallet_address"`
}

func (r *taskRoutes) LinkWallet(c *gin.Context) {
	log := logger.Logger()

	snapshot, ok := signedIn(c, r.store)
	if !ok {
		return
	}

	var req LinkWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, err := r.ws.LinkWallet(c.Request.Context(), snapshot.Email, req.WalletAddress)
	if err != nil {
		abortWithError(c, "failed to link wallet", err)
		return
	}

	updated := applyPatch(c, r.store, session.WalletLinked(*entry.WalletAddress))

	c.JSON(http.StatusOK, gin.H{
		"task":           model.TaskWallet,
		"state":          updated.TaskState(model.TaskWallet),
		"wallet_address": entry.WalletAddress,
		"masked":         content.MaskWallet(*entry.WalletAddress),
	})
}

func (r *taskRoutes) ValidateWallet(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if !r.ws.ValidateWalletAddress(address) {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": service.ErrInvalidWallet.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "masked": content.MaskWallet(address)})
}

func (r *taskRoutes) StartTwitter(c *gin.Context) {
	r.start(c, model.TaskTwitter)
}

func (r *taskRoutes) StartDiscord(c *gin.Context) {
	r.start(c, model.TaskDiscord)
}

// start records that the user was sent to the external page of the task.
func (r *taskRoutes) start(c *gin.Context, task model.Task) {
	if _, ok := signedIn(c, r.store); !ok {
		return
	}

	snapshot := applyPatch(c, r.store, session.TaskStarted(task))

	c.JSON(http.StatusOK, taskStatus{
		Task:  task,
		State: snapshot.TaskState(task),
		URL:   r.taskURL(task),
	})
}

type ConfirmTaskRequest struct {
	Username string `json:"username"`
}

func (r *taskRoutes) ConfirmTwitter(c *gin.Context) {
	r.confirm(c, model.TaskTwitter, r.vs.ConfirmTwitter, session.TwitterVerified)
}

func (r *taskRoutes) ConfirmDiscord(c *gin.Context) {
	r.confirm(c, model.TaskDiscord, r.vs.ConfirmDiscord, session.DiscordVerified)
}

func (r *taskRoutes) confirm(
	c *gin.Context,
	task model.Task,
	verify func(ctx context.Context, email, username string) (*service.Confirmation, error),
	verified func(username string) session.Patch,
) {
	log := logger.Logger()

	snapshot, ok := signedIn(c, r.store)
	if !ok {
		return
	}

	var req ConfirmTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	switch snapshot.TaskState(task) {
	case session.TaskInitial:
		c.JSON(http.StatusConflict, gin.H{"error": "open the link before confirming", "task": task})
		return
	case session.TaskCompleted:
		c.JSON(http.StatusOK, gin.H{"task": task, "state": session.TaskCompleted, "verified": true})
		return
	}

	confirmation, err := verify(c.Request.Context(), snapshot.Email, req.Username)
	if err != nil {
		abortWithError(c, "failed to confirm task", err)
		return
	}

	updated := applyPatch(c, r.store, verified(confirmation.Username))

	c.JSON(http.StatusOK, gin.H{
		"task":      task,
		"state":     updated.TaskState(task),
		"verified":  confirmation.Verified,
		"persisted": confirmation.Persisted,
		"attempts":  confirmation.Attempts,
		"username":  confirmation.Username,
	})
}
