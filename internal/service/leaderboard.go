package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"neftit_waitlist/internal/model"
	"neftit_waitlist/pkg/logger"

	"go.uber.org/zap"
)

const JoinedDateLayout = "Jan 2, 2006"

type LeaderboardConfig struct {
	PageSize        int           `mapstructure:"pageSize"`
	DashboardSize   int           `mapstructure:"dashboardSize"`
	RefreshInterval time.Duration `mapstructure:"refreshInterval"`
}

// Snapshot is a ranked view of every entry taken at RefreshedAt.
type Snapshot struct {
	Entries     []*model.LeaderboardEntry
	RefreshedAt time.Time
}

// Find returns the ranked row of email, or nil.
func (s *Snapshot) Find(email string) *model.LeaderboardEntry {
	for _, e := range s.Entries {
		if e.Email == email {
			return e
		}
	}
	return nil
}

func (s *Snapshot) Top(n int) []*model.LeaderboardEntry {
	if n > len(s.Entries) {
		n = len(s.Entries)
	}
	return s.Entries[:n]
}

type Page struct {
	Number       int
	Size         int
	TotalPages   int
	TotalEntries int
	Entries      []*model.LeaderboardEntry
	RefreshedAt  time.Time

	snapshot *Snapshot
}

// Find looks email up in the snapshot the page was cut from, so a rank found
// here always agrees with the page rows.
func (p *Page) Find(email string) *model.LeaderboardEntry {
	if p.snapshot == nil {
		return nil
	}
	return p.snapshot.Find(email)
}

type LeaderboardService struct {
	repo     ReferralRepository
	metrics  Metrics
	now      func() time.Time
	pageSize int

	mu          sync.RWMutex
	snapshot    *Snapshot
	subscribers map[chan *Snapshot]struct{}
}

func NewLeaderboardService(repo ReferralRepository, metrics Metrics, cfg LeaderboardConfig) *LeaderboardService {
	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	return &LeaderboardService{
		repo:        repo,
		metrics:     metricsOrNop(metrics),
		now:         utcNow,
		pageSize:    pageSize,
		subscribers: make(map[chan *Snapshot]struct{}),
	}
}

// RankEntries orders counts by referral count descending, then id ascending,
// and assigns 1-based ranks.
func RankEntries(counts []*model.ReferralCount) []*model.LeaderboardEntry {
	sorted := make([]*model.ReferralCount, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ReferralCount != sorted[j].ReferralCount {
			return sorted[i].ReferralCount > sorted[j].ReferralCount
		}
		return sorted[i].ID < sorted[j].ID
	})

	ranked := make([]*model.LeaderboardEntry, len(sorted))
	for i, c := range sorted {
		ranked[i] = &model.LeaderboardEntry{
			Rank:          i + 1,
			ID:            c.ID,
			Email:         c.Email,
			Name:          c.Name,
			ReferralCount: c.ReferralCount,
			CreatedAt:     c.CreatedAt,
			JoinedAt:      c.CreatedAt.Format(JoinedDateLayout),
		}
	}
	return ranked
}

// Refresh reloads the leaderboard from storage and pushes it to subscribers.
func (s *LeaderboardService) Refresh(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	counts, err := s.repo.ListReferralCounts(ctx)
	if err != nil {
		return nil, newError(ErrUnavailable, err)
	}

	snapshot := &Snapshot{
		Entries:     RankEntries(counts),
		RefreshedAt: s.now(),
	}
	s.metrics.LeaderboardRefreshed(time.Since(start), len(snapshot.Entries))

	s.mu.Lock()
	s.snapshot = snapshot
	for ch := range s.subscribers {
		select {
		case ch <- snapshot:
		default:
			logger.Logger().Debug("Leaderboard subscriber is behind, dropping update")
		}
	}
	s.mu.Unlock()

	return snapshot, nil
}

// Snapshot returns the cached leaderboard, loading it on first use.
func (s *LeaderboardService) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()

	if snapshot != nil {
		return snapshot, nil
	}
	return s.Refresh(ctx)
}

// Page returns one page of the leaderboard. Pages are 1-based and clamped to
// the available range.
func (s *LeaderboardService) Page(ctx context.Context, number int) (*Page, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	total := len(snapshot.Entries)
	totalPages := (total + s.pageSize - 1) / s.pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * s.pageSize
	end := start + s.pageSize
	if end > total {
		end = total
	}

	return &Page{
		Number:       number,
		Size:         s.pageSize,
		TotalPages:   totalPages,
		TotalEntries: total,
		Entries:      snapshot.Entries[start:end],
		RefreshedAt:  snapshot.RefreshedAt,
		snapshot:     snapshot,
	}, nil
}

// Subscribe registers for snapshots produced by Refresh. The returned func
// unregisters and closes the channel.
func (s *LeaderboardService) Subscribe() (<-chan *Snapshot, func()) {
	ch := make(chan *Snapshot, 1)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			close(ch)
			s.mu.Unlock()
		})
	}
}

func (s *LeaderboardService) RefreshJob(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil {
		logger.Logger().Error("Failed to refresh leaderboard", zap.Error(err))
	}
}
