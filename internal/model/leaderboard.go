package model

import "time"

type LeaderboardEntry struct {
	Rank          int
	ID            int64
	Email         string
	Name          *string
	ReferralCount int
	CreatedAt     time.Time
	JoinedAt      string
}

// ReferralCount is the aggregated referral count of a single entry as read
// from storage, before ranking.
type ReferralCount struct {
	ID            int64
	Email         string
	Name          *string
	ReferralCount int
	CreatedAt     time.Time
}
