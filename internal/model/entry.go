package model

import "time"

type WaitlistEntry struct {
	ID              int64
	Email           string
	Name            *string
	PasswordHash    *string
	WalletAddress   *string
	TwitterUsername *string
	TwitterFollowed bool
	DiscordUsername *string
	DiscordJoined   bool
	ReferralCode    string
	ReferredByCode  *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasPassword reports whether the entry was registered with a credential.
func (e *WaitlistEntry) HasPassword() bool {
	return e.PasswordHash != nil && *e.PasswordHash != ""
}

// EntryPatch is a partial update of a waitlist entry. Nil fields are left untouched.
type EntryPatch struct {
	Name            *string
	WalletAddress   *string
	TwitterUsername *string
	TwitterFollowed *bool
	DiscordUsername *string
	DiscordJoined   *bool
	UpdatedAt       time.Time
}

func (p EntryPatch) IsEmpty() bool {
	return p.Name == nil &&
		p.WalletAddress == nil &&
		p.TwitterUsername == nil &&
		p.TwitterFollowed == nil &&
		p.DiscordUsername == nil &&
		p.DiscordJoined == nil
}
