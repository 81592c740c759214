package api

import (
	"time"

	"neftit_waitlist/internal/content"
	"neftit_waitlist/internal/model"
)

type entryResponse struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	Name            *string   `json:"name"`
	WalletAddress   *string   `json:"wallet_address"`
	TwitterUsername *string   `json:"twitter_username"`
	TwitterFollowed bool      `json:"twitter_followed"`
	DiscordUsername *string   `json:"discord_username"`
	DiscordJoined   bool      `json:"discord_joined"`
	ReferralCode    string    `json:"referral_code"`
	ReferredByCode  *string   `json:"referred_by_code"`
	ReferralLink    string    `json:"referral_link"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newEntryResponse(e *model.WaitlistEntry, links content.Links) entryResponse {
	return entryResponse{
		ID:              e.ID,
		Email:           e.Email,
		Name:            e.Name,
		WalletAddress:   e.WalletAddress,
		TwitterUsername: e.TwitterUsername,
		TwitterFollowed: e.TwitterFollowed,
		DiscordUsername: e.DiscordUsername,
		DiscordJoined:   e.DiscordJoined,
		ReferralCode:    e.ReferralCode,
		ReferredByCode:  e.ReferredByCode,
		ReferralLink:    links.ReferralLink(e.ReferralCode),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

type leaderboardRow struct {
	Rank          int    `json:"rank"`
	DisplayRank   string `json:"display_rank"`
	Name          string `json:"name"`
	ReferralCount int    `json:"referral_count"`
	JoinedAt      string `json:"joined_at"`
	IsYou         bool   `json:"is_you"`
}

func newLeaderboardRows(entries []*model.LeaderboardEntry, email string) []leaderboardRow {
	rows := make([]leaderboardRow, len(entries))
	for i, e := range entries {
		name := ""
		if e.Name != nil {
			name = *e.Name
		}
		rows[i] = leaderboardRow{
			Rank:          e.Rank,
			DisplayRank:   content.FormatRank(e.Rank),
			Name:          content.DisplayName(name),
			ReferralCount: e.ReferralCount,
			JoinedAt:      e.JoinedAt,
			IsYou:         email != "" && e.Email == email,
		}
	}
	return rows
}
