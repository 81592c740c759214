package mocks

import (
	"context"

	"neftit_waitlist/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockWaitlistRepository struct {
	mock.Mock
}

func (m *MockWaitlistRepository) CheckConnection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWaitlistRepository) UserExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockWaitlistRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockWaitlistRepository) CreateEntry(ctx context.Context, entry *model.WaitlistEntry) (*model.WaitlistEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WaitlistEntry), args.Error(1)
}

func (m *MockWaitlistRepository) GetEntryByEmail(ctx context.Context, email string) (*model.WaitlistEntry, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WaitlistEntry), args.Error(1)
}

func (m *MockWaitlistRepository) GetEntryByReferralCode(ctx context.Context, code string) (*model.WaitlistEntry, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WaitlistEntry), args.Error(1)
}

func (m *MockWaitlistRepository) UpdateEntry(ctx context.Context, email string, patch model.EntryPatch) (*model.WaitlistEntry, error) {
	args := m.Called(ctx, email, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WaitlistEntry), args.Error(1)
}

func (m *MockWaitlistRepository) CountEntries(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) CreateReferral(ctx context.Context, referral *model.Referral) error {
	args := m.Called(ctx, referral)
	return args.Error(0)
}

func (m *MockReferralRepository) ListReferralCounts(ctx context.Context) ([]*model.ReferralCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ReferralCount), args.Error(1)
}

type MockSocialVerifier struct {
	mock.Mock
}

func (m *MockSocialVerifier) VerifyTwitterFollow(ctx context.Context, email, username string) (*model.WaitlistEntry, error) {
	args := m.Called(ctx, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WaitlistEntry), args.Error(1)
}

func (m *MockSocialVerifier) VerifyDiscordJoin(ctx context.Context, email, username string) (*model.WaitlistEntry, error) {
	args := m.Called(ctx, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WaitlistEntry), args.Error(1)
}
