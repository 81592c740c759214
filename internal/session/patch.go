package session

import (
	"neftit_waitlist/internal/model"
)

// Patch is a named change applied to a session under the store lock.
type Patch struct {
	Name  string
	apply func(s *Snapshot)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mergeEntry(s *Snapshot, entry *model.WaitlistEntry) {
	s.Email = entry.Email
	s.Name = deref(entry.Name)
	s.ReferralCode = entry.ReferralCode
	s.WalletAddress = deref(entry.WalletAddress)
	s.TwitterUsername = deref(entry.TwitterUsername)
	s.DiscordUsername = deref(entry.DiscordUsername)
	// self-attested flags only ever move forward in the session
	s.TwitterFollowed = s.TwitterFollowed || entry.TwitterFollowed
	s.DiscordJoined = s.DiscordJoined || entry.DiscordJoined

	s.setTask(model.TaskEmail, TaskCompleted)
	if s.WalletAddress != "" {
		s.setTask(model.TaskWallet, TaskCompleted)
	}
	if s.TwitterFollowed {
		s.setTask(model.TaskTwitter, TaskCompleted)
	}
	if s.DiscordJoined {
		s.setTask(model.TaskDiscord, TaskCompleted)
	}
}

// SignedUp records a fresh signup and consumes any pending referral code.
func SignedUp(entry *model.WaitlistEntry) Patch {
	return Patch{Name: "signed_up", apply: func(s *Snapshot) {
		mergeEntry(s, entry)
		s.PendingReferralCode = ""
	}}
}

func SignedIn(entry *model.WaitlistEntry) Patch {
	return Patch{Name: "signed_in", apply: func(s *Snapshot) {
		if s.Email != entry.Email {
			s.TwitterFollowed = false
			s.DiscordJoined = false
			for _, t := range model.Tasks {
				s.Tasks[t] = TaskInitial
			}
		}
		mergeEntry(s, entry)
	}}
}

// EntrySynced refreshes the mirrored fields from storage.
func EntrySynced(entry *model.WaitlistEntry) Patch {
	return Patch{Name: "entry_synced", apply: func(s *Snapshot) {
		if s.Email != entry.Email {
			return
		}
		mergeEntry(s, entry)
	}}
}

func WalletLinked(address string) Patch {
	return Patch{Name: "wallet_linked", apply: func(s *Snapshot) {
		s.WalletAddress = address
		s.setTask(model.TaskWallet, TaskCompleted)
	}}
}

// TaskStarted marks that the user opened the external link of a task.
func TaskStarted(task model.Task) Patch {
	return Patch{Name: "task_started", apply: func(s *Snapshot) {
		s.setTask(task, TaskAwaitingConfirmation)
	}}
}

func TwitterVerified(username string) Patch {
	return Patch{Name: "twitter_verified", apply: func(s *Snapshot) {
		s.TwitterUsername = username
		s.TwitterFollowed = true
		s.Tasks[model.TaskTwitter] = TaskCompleted
	}}
}

func DiscordVerified(username string) Patch {
	return Patch{Name: "discord_verified", apply: func(s *Snapshot) {
		s.DiscordUsername = username
		s.DiscordJoined = true
		s.Tasks[model.TaskDiscord] = TaskCompleted
	}}
}

func ReferralCaptured(code string) Patch {
	return Patch{Name: "referral_captured", apply: func(s *Snapshot) {
		s.PendingReferralCode = code
	}}
}

func ReferralConsumed() Patch {
	return Patch{Name: "referral_consumed", apply: func(s *Snapshot) {
		s.PendingReferralCode = ""
	}}
}

// SignedOut clears everything except the pending referral code.
func SignedOut() Patch {
	return Patch{Name: "signed_out", apply: func(s *Snapshot) {
		pending := s.PendingReferralCode
		fresh := newSnapshot(s.ID, s.CreatedAt)
		fresh.PendingReferralCode = pending
		fresh.Version = s.Version
		fresh.UpdatedAt = s.UpdatedAt
		fresh.lastSeen = s.lastSeen
		*s = *fresh
	}}
}
