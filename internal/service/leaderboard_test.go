package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"neftit_waitlist/internal/model"
	"neftit_waitlist/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRankEntries(t *testing.T) {
	joined := time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)
	counts := []*model.ReferralCount{
		{ID: 10, Email: "a@example.com", ReferralCount: 3, CreatedAt: joined},
		{ID: 20, Email: "b@example.com", ReferralCount: 1, CreatedAt: joined},
		{ID: 5, Email: "c@example.com", ReferralCount: 3, CreatedAt: joined},
		{ID: 30, Email: "d@example.com", ReferralCount: 0, CreatedAt: joined},
	}

	ranked := RankEntries(counts)

	require.Len(t, ranked, 4)
	var ids []int64
	for i, e := range ranked {
		ids = append(ids, e.ID)
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, "Jan 5, 2025", e.JoinedAt)
	}
	assert.Equal(t, []int64{5, 10, 20, 30}, ids)

	// input is left untouched
	assert.Equal(t, int64(10), counts[0].ID)
}

func referralCounts(n int) []*model.ReferralCount {
	counts := make([]*model.ReferralCount, n)
	for i := range counts {
		counts[i] = &model.ReferralCount{
			ID:            int64(i + 1),
			Email:         fmt.Sprintf("user%d@example.com", i+1),
			ReferralCount: n - i,
		}
	}
	return counts
}

func TestLeaderboardService_Page(t *testing.T) {
	refs := &mocks.MockReferralRepository{}
	refs.On("ListReferralCounts", mock.Anything).Return(referralCounts(23), nil).Once()

	service := NewLeaderboardService(refs, nil, LeaderboardConfig{PageSize: 10})

	tests := []struct {
		name       string
		page       int
		wantNumber int
		wantLen    int
		wantFirst  int
	}{
		{name: "first page", page: 1, wantNumber: 1, wantLen: 10, wantFirst: 1},
		{name: "last partial page", page: 3, wantNumber: 3, wantLen: 3, wantFirst: 21},
		{name: "zero clamps to first", page: 0, wantNumber: 1, wantLen: 10, wantFirst: 1},
		{name: "beyond range clamps to last", page: 9, wantNumber: 3, wantLen: 3, wantFirst: 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := service.Page(context.Background(), tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNumber, page.Number)
			assert.Equal(t, 3, page.TotalPages)
			assert.Equal(t, 23, page.TotalEntries)
			require.Len(t, page.Entries, tt.wantLen)
			assert.Equal(t, tt.wantFirst, page.Entries[0].Rank)
		})
	}

	// snapshot is cached after the first load
	refs.AssertNumberOfCalls(t, "ListReferralCounts", 1)
}

func TestLeaderboardService_PageFindUsesItsOwnSnapshot(t *testing.T) {
	refs := &mocks.MockReferralRepository{}
	refs.On("ListReferralCounts", mock.Anything).Return(referralCounts(3), nil).Once()
	// after the second load user3 leads
	reordered := referralCounts(3)
	reordered[2].ReferralCount = 10
	refs.On("ListReferralCounts", mock.Anything).Return(reordered, nil).Once()

	service := NewLeaderboardService(refs, nil, LeaderboardConfig{PageSize: 10})

	page, err := service.Page(context.Background(), 1)
	require.NoError(t, err)

	_, err = service.Refresh(context.Background())
	require.NoError(t, err)

	own := page.Find("user3@example.com")
	require.NotNil(t, own)
	assert.Equal(t, 3, own.Rank)
	assert.Equal(t, "user3@example.com", page.Entries[2].Email)
	assert.Nil(t, page.Find("ghost@example.com"))

	current, err := service.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, current.Find("user3@example.com").Rank)
}

func TestLeaderboardService_EmptyPage(t *testing.T) {
	refs := &mocks.MockReferralRepository{}
	refs.On("ListReferralCounts", mock.Anything).Return([]*model.ReferralCount{}, nil)

	service := NewLeaderboardService(refs, nil, LeaderboardConfig{})

	page, err := service.Page(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Entries)
}

func TestLeaderboardService_RefreshNotifiesSubscribers(t *testing.T) {
	refs := &mocks.MockReferralRepository{}
	refs.On("ListReferralCounts", mock.Anything).Return(referralCounts(2), nil)

	service := NewLeaderboardService(refs, nil, LeaderboardConfig{PageSize: 10})

	updates, unsubscribe := service.Subscribe()

	snapshot, err := service.Refresh(context.Background())
	require.NoError(t, err)

	select {
	case got := <-updates:
		assert.Same(t, snapshot, got)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	unsubscribe()
	unsubscribe()

	_, ok := <-updates
	assert.False(t, ok)

	_, err = service.Refresh(context.Background())
	assert.NoError(t, err)

	assert.NotNil(t, snapshot.Find("user1@example.com"))
	assert.Nil(t, snapshot.Find("ghost@example.com"))
	assert.Len(t, snapshot.Top(10), 2)
}

func TestLeaderboardService_RefreshFailure(t *testing.T) {
	refs := &mocks.MockReferralRepository{}
	refs.On("ListReferralCounts", mock.Anything).Return(nil, assert.AnError)

	service := NewLeaderboardService(refs, nil, LeaderboardConfig{})

	_, err := service.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrConnectivity)
}
