package service

import (
	"context"
	"time"

	"neftit_waitlist/internal/model"
)

type Service struct {
	*WaitlistService
	*VerificationService
	*LeaderboardService
}

func NewService(
	waitlistService *WaitlistService,
	verificationService *VerificationService,
	leaderboardService *LeaderboardService,
) *Service {
	return &Service{
		WaitlistService:     waitlistService,
		VerificationService: verificationService,
		LeaderboardService:  leaderboardService,
	}
}

type WaitlistServiceI interface {
	CheckConnection(ctx context.Context) error
	UserExists(ctx context.Context, email string) (bool, error)
	ValidateWalletAddress(address string) bool
	Join(ctx context.Context, req JoinRequest) (*model.WaitlistEntry, error)
	SignIn(ctx context.Context, email, password string) (*model.WaitlistEntry, error)
	Get(ctx context.Context, email string) (*model.WaitlistEntry, error)
	Update(ctx context.Context, email string, update EntryUpdate) (*model.WaitlistEntry, error)
	LinkWallet(ctx context.Context, email, address string) (*model.WaitlistEntry, error)
	Count(ctx context.Context) (int, error)
}

type VerificationServiceI interface {
	ConfirmTwitter(ctx context.Context, email, username string) (*Confirmation, error)
	ConfirmDiscord(ctx context.Context, email, username string) (*Confirmation, error)
}

type LeaderboardServiceI interface {
	Refresh(ctx context.Context) (*Snapshot, error)
	Snapshot(ctx context.Context) (*Snapshot, error)
	Page(ctx context.Context, number int) (*Page, error)
	Subscribe() (<-chan *Snapshot, func())
}

type WaitlistRepository interface {
	CheckConnection(ctx context.Context) error
	UserExists(ctx context.Context, email string) (bool, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	CreateEntry(ctx context.Context, entry *model.WaitlistEntry) (*model.WaitlistEntry, error)
	GetEntryByEmail(ctx context.Context, email string) (*model.WaitlistEntry, error)
	GetEntryByReferralCode(ctx context.Context, code string) (*model.WaitlistEntry, error)
	UpdateEntry(ctx context.Context, email string, patch model.EntryPatch) (*model.WaitlistEntry, error)
	CountEntries(ctx context.Context) (int, error)
}

type ReferralRepository interface {
	CreateReferral(ctx context.Context, referral *model.Referral) error
	ListReferralCounts(ctx context.Context) ([]*model.ReferralCount, error)
}

// SocialVerifier persists self-attested social tasks.
type SocialVerifier interface {
	VerifyTwitterFollow(ctx context.Context, email, username string) (*model.WaitlistEntry, error)
	VerifyDiscordJoin(ctx context.Context, email, username string) (*model.WaitlistEntry, error)
}

// Metrics receives domain events. internal/metrics provides the Prometheus
// implementation.
type Metrics interface {
	SignedUp()
	ReferralRecorded()
	VerificationAttempt(task model.Task, ok bool)
	ForcedVerification(task model.Task)
	LeaderboardRefreshed(duration time.Duration, entries int)
}

type nopMetrics struct{}

func (nopMetrics) SignedUp() {}
func (nopMetrics) ReferralRecorded() {}
func (nopMetrics) VerificationAttempt(model.Task, bool) {}
func (nopMetrics) ForcedVerification(model.Task) {}
func (nopMetrics) LeaderboardRefreshed(time.Duration, int) {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

func utcNow() time.Time {
	return time.Now().UTC()
}
