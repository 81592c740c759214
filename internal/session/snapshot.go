package session

import (
	"time"

	"neftit_waitlist/internal/model"
)

type TaskState string

const (
	TaskInitial              TaskState = "initial"
	TaskAwaitingConfirmation TaskState = "awaiting_confirmation"
	TaskCompleted            TaskState = "completed"
)

// Snapshot mirrors the signed-in entry for one browser session.
type Snapshot struct {
	ID                  string                  `json:"-"`
	Email               string                  `json:"email,omitempty"`
	Name                string                  `json:"name,omitempty"`
	ReferralCode        string                  `json:"referral_code,omitempty"`
	WalletAddress       string                  `json:"wallet_address,omitempty"`
	TwitterUsername     string                  `json:"twitter_username,omitempty"`
	TwitterFollowed     bool                    `json:"twitter_followed"`
	DiscordUsername     string                  `json:"discord_username,omitempty"`
	DiscordJoined       bool                    `json:"discord_joined"`
	PendingReferralCode string                  `json:"pending_referral_code,omitempty"`
	Tasks               map[model.Task]TaskState `json:"tasks"`
	Version             int64                   `json:"version"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
	lastSeen            time.Time
}

func newSnapshot(id string, now time.Time) *Snapshot {
	s := &Snapshot{
		ID:        id,
		Tasks:     make(map[model.Task]TaskState, len(model.Tasks)),
		CreatedAt: now,
		UpdatedAt: now,
		lastSeen:  now,
	}
	for _, t := range model.Tasks {
		s.Tasks[t] = TaskInitial
	}
	return s
}

func (s *Snapshot) SignedIn() bool {
	return s.Email != ""
}

func (s *Snapshot) TaskState(task model.Task) TaskState {
	if state, ok := s.Tasks[task]; ok {
		return state
	}
	return TaskInitial
}

func (s *Snapshot) AllTasksCompleted() bool {
	for _, t := range model.Tasks {
		if s.TaskState(t) != TaskCompleted {
			return false
		}
	}
	return true
}

func (s *Snapshot) clone() Snapshot {
	c := *s
	c.Tasks = make(map[model.Task]TaskState, len(s.Tasks))
	for k, v := range s.Tasks {
		c.Tasks[k] = v
	}
	return c
}

// setTask moves a task forward. Completed is terminal.
func (s *Snapshot) setTask(task model.Task, state TaskState) {
	if s.TaskState(task) == TaskCompleted {
		return
	}
	s.Tasks[task] = state
}

// Blank is the view of a visitor who has no session yet.
func Blank() Snapshot {
	return newSnapshot("", time.Time{}).clone()
}
