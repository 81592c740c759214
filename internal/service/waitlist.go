package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"neftit_waitlist/internal/model"
	"neftit_waitlist/internal/repository"
	"neftit_waitlist/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type JoinRequest struct {
	Email        string
	Name         string
	ReferralCode string
	Password     string
}

// EntryUpdate holds the user editable fields of an entry. Empty pointers are
// left untouched.
type EntryUpdate struct {
	Name            *string
	WalletAddress   *string
	TwitterUsername *string
	TwitterFollowed *bool
	DiscordUsername *string
	DiscordJoined   *bool
}

type WaitlistService struct {
	entries   WaitlistRepository
	referrals ReferralRepository
	metrics   Metrics
	now       func() time.Time
	codes     CodeGenerator
	hashCost  int
}

type WaitlistOption func(*WaitlistService)

func WithClock(now func() time.Time) WaitlistOption {
	return func(s *WaitlistService) { s.now = now }
}

func WithCodeGenerator(gen CodeGenerator) WaitlistOption {
	return func(s *WaitlistService) { s.codes = gen }
}

func WithHashCost(cost int) WaitlistOption {
	return func(s *WaitlistService) { s.hashCost = cost }
}

func NewWaitlistService(entries WaitlistRepository, referrals ReferralRepository, metrics Metrics, opts ...WaitlistOption) *WaitlistService {
	s := &WaitlistService{
		entries:   entries,
		referrals: referrals,
		metrics:   metricsOrNop(metrics),
		now:       utcNow,
		codes:     RandomReferralCode,
		hashCost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WaitlistService) CheckConnection(ctx context.Context) error {
	if err := s.entries.CheckConnection(ctx); err != nil {
		return newError(ErrUnavailable, err)
	}
	return nil
}

func (s *WaitlistService) UserExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.entries.UserExists(ctx, strings.TrimSpace(email))
	if err != nil {
		return false, newError(ErrUnavailable, err)
	}
	return exists, nil
}

func (s *WaitlistService) ValidateWalletAddress(address string) bool {
	return ValidateWalletAddress(address)
}

// Join registers a new entry. Invalid input is rejected before any storage
// call is made. Referral attribution is best effort and never fails the signup.
func (s *WaitlistService) Join(ctx context.Context, req JoinRequest) (*model.WaitlistEntry, error) {
	log := logger.Logger()

	email := strings.TrimSpace(req.Email)
	if !ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	if req.Password != "" && !ValidatePassword(req.Password) {
		return nil, ErrPasswordTooShort
	}

	exists, err := s.entries.UserExists(ctx, email)
	if err != nil {
		return nil, newError(ErrUnavailable, err)
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	code, err := s.uniqueReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := &model.WaitlistEntry{
		Email:        email,
		ReferralCode: code,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		entry.Name = &name
	}
	referredBy := strings.TrimSpace(req.ReferralCode)
	if referredBy != "" {
		entry.ReferredByCode = &referredBy
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
		if err != nil {
			return nil, &Error{Kind: KindInternal, Message: "failed to hash password", Err: err}
		}
		hashed := string(hash)
		entry.PasswordHash = &hashed
	}

	created, err := s.entries.CreateEntry(ctx, entry)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrAlreadyRegistered
		}
		return nil, newError(ErrUnavailable, err)
	}
	s.metrics.SignedUp()

	log.Info("New waitlist entry", zap.String("email", created.Email), zap.String("referral_code", created.ReferralCode))

	if referredBy != "" {
		s.recordReferral(ctx, referredBy, created)
	}

	return created, nil
}

func (s *WaitlistService) recordReferral(ctx context.Context, code string, referred *model.WaitlistEntry) {
	log := logger.Logger().With(zap.String("referral_code", code), zap.String("email", referred.Email))

	referrer, err := s.entries.GetEntryByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("Referral code does not match any entry")
			return
		}
		log.Warn("Failed to look up referrer", zap.Error(err))
		return
	}
	if referrer.Email == referred.Email {
		return
	}

	err = s.referrals.CreateReferral(ctx, &model.Referral{
		ReferrerEmail: referrer.Email,
		ReferredEmail: referred.Email,
		CreatedAt:     s.now(),
	})
	if err != nil {
		log.Warn("Failed to create referral", zap.Error(err))
		return
	}
	s.metrics.ReferralRecorded()
}

func (s *WaitlistService) uniqueReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := s.codes()
		if err != nil {
			return "", &Error{Kind: KindInternal, Message: "failed to generate referral code", Err: err}
		}
		taken, err := s.entries.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", newError(ErrUnavailable, err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", &Error{Kind: KindInternal, Message: "failed to generate a unique referral code"}
}

// SignIn looks the entry up by email. Entries registered with a password must
// present it; legacy entries without one are matched on email alone.
func (s *WaitlistService) SignIn(ctx context.Context, email, password string) (*model.WaitlistEntry, error) {
	email = strings.TrimSpace(email)
	if !ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}

	entry, err := s.entries.GetEntryByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, newError(ErrUnavailable, err)
	}

	if entry.HasPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(*entry.PasswordHash), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	return entry, nil
}

// Get fetches a single entry after probing the connection.
func (s *WaitlistService) Get(ctx context.Context, email string) (*model.WaitlistEntry, error) {
	if err := s.CheckConnection(ctx); err != nil {
		return nil, err
	}

	entry, err := s.entries.GetEntryByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, newError(ErrUnavailable, err)
	}
	return entry, nil
}

func (s *WaitlistService) Count(ctx context.Context) (int, error) {
	count, err := s.entries.CountEntries(ctx)
	if err != nil {
		return 0, newError(ErrUnavailable, err)
	}
	return count, nil
}

// Update validates and applies a partial update in one conditional write.
// Social task flags only move forward: false is rejected.
func (s *WaitlistService) Update(ctx context.Context, email string, update EntryUpdate) (*model.WaitlistEntry, error) {
	if isFalse(update.TwitterFollowed) || isFalse(update.DiscordJoined) {
		return nil, ErrTaskUndo
	}

	patch := model.EntryPatch{
		TwitterFollowed: update.TwitterFollowed,
		DiscordJoined:   update.DiscordJoined,
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		patch.Name = &name
	}
	if update.WalletAddress != nil {
		wallet := strings.TrimSpace(*update.WalletAddress)
		if !ValidateWalletAddress(wallet) {
			return nil, ErrInvalidWallet
		}
		patch.WalletAddress = &wallet
	}
	if update.TwitterUsername != nil {
		username := NormalizeTwitterUsername(*update.TwitterUsername)
		if !ValidateTwitterUsername(username) {
			return nil, ErrInvalidTwitter
		}
		patch.TwitterUsername = &username
	}
	if update.DiscordUsername != nil {
		username := strings.TrimSpace(*update.DiscordUsername)
		if !ValidateDiscordUsername(username) {
			return nil, ErrInvalidDiscord
		}
		patch.DiscordUsername = &username
	}

	if patch.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	patch.UpdatedAt = s.now()

	entry, err := s.entries.UpdateEntry(ctx, email, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrAlreadyExists):
			return nil, ErrWalletTaken
		default:
			return nil, newError(ErrUnavailable, fmt.Errorf("failed to update entry: %w", err))
		}
	}
	return entry, nil
}

func isFalse(b *bool) bool {
	return b != nil && !*b
}

func (s *WaitlistService) LinkWallet(ctx context.Context, email, address string) (*model.WaitlistEntry, error) {
	return s.Update(ctx, email, EntryUpdate{WalletAddress: &address})
}

// VerifyTwitterFollow records the handle and marks the follow as done. No
// call is made to Twitter; the user's word is taken.
func (s *WaitlistService) VerifyTwitterFollow(ctx context.Context, email, username string) (*model.WaitlistEntry, error) {
	followed := true
	return s.Update(ctx, email, EntryUpdate{TwitterUsername: &username, TwitterFollowed: &followed})
}

func (s *WaitlistService) VerifyDiscordJoin(ctx context.Context, email, username string) (*model.WaitlistEntry, error) {
	joined := true
	return s.Update(ctx, email, EntryUpdate{DiscordUsername: &username, DiscordJoined: &joined})
}
