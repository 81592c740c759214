package service

import (
	"context"
	"testing"

	"neftit_waitlist/internal/model"
	"neftit_waitlist/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVerificationService_ConfirmTwitter(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		setupMocks    func(verifier *mocks.MockSocialVerifier)
		expectedError error
		check         func(t *testing.T, c *Confirmation, verifier *mocks.MockSocialVerifier)
	}{
		{
			name:     "Saved on first attempt",
			username: "@neftit_fan",
			setupMocks: func(verifier *mocks.MockSocialVerifier) {
				verifier.On("VerifyTwitterFollow", mock.Anything, "alice@example.com", "neftit_fan").
					Return(&model.WaitlistEntry{Email: "alice@example.com", TwitterFollowed: true}, nil).Once()
			},
			check: func(t *testing.T, c *Confirmation, _ *mocks.MockSocialVerifier) {
				assert.True(t, c.Verified)
				assert.True(t, c.Persisted)
				assert.False(t, c.Forced)
				assert.Equal(t, 1, c.Attempts)
				assert.True(t, c.Entry.TwitterFollowed)
			},
		},
		{
			name:     "Saved after a retry",
			username: "neftit_fan",
			setupMocks: func(verifier *mocks.MockSocialVerifier) {
				verifier.On("VerifyTwitterFollow", mock.Anything, "alice@example.com", "neftit_fan").
					Return(nil, ErrUnavailable).Once()
				verifier.On("VerifyTwitterFollow", mock.Anything, "alice@example.com", "neftit_fan").
					Return(&model.WaitlistEntry{Email: "alice@example.com", TwitterFollowed: true}, nil).Once()
			},
			check: func(t *testing.T, c *Confirmation, _ *mocks.MockSocialVerifier) {
				assert.True(t, c.Persisted)
				assert.Equal(t, 2, c.Attempts)
			},
		},
		{
			name:     "Forced success after three failures",
			username: "neftit_fan",
			setupMocks: func(verifier *mocks.MockSocialVerifier) {
				verifier.On("VerifyTwitterFollow", mock.Anything, "alice@example.com", "neftit_fan").
					Return(nil, ErrUnavailable)
			},
			check: func(t *testing.T, c *Confirmation, verifier *mocks.MockSocialVerifier) {
				assert.True(t, c.Verified)
				assert.False(t, c.Persisted)
				assert.True(t, c.Forced)
				assert.Equal(t, 3, c.Attempts)
				assert.Nil(t, c.Entry)
				verifier.AssertNumberOfCalls(t, "VerifyTwitterFollow", 3)
			},
		},
		{
			name:          "Invalid handle is not retried",
			username:      "not a handle",
			setupMocks:    func(*mocks.MockSocialVerifier) {},
			expectedError: ErrInvalidTwitter,
			check: func(t *testing.T, _ *Confirmation, verifier *mocks.MockSocialVerifier) {
				assert.Empty(t, verifier.Calls)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &mocks.MockSocialVerifier{}
			tt.setupMocks(verifier)
			service := NewVerificationService(verifier, nil, VerificationConfig{Attempts: 3})

			c, err := service.ConfirmTwitter(context.Background(), "alice@example.com", tt.username)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
			}

			if tt.check != nil {
				tt.check(t, c, verifier)
			}
		})
	}
}

func TestVerificationService_ConfirmDiscord(t *testing.T) {
	verifier := &mocks.MockSocialVerifier{}
	verifier.On("VerifyDiscordJoin", mock.Anything, "alice@example.com", "legacy#1234").
		Return(nil, assert.AnError)

	service := NewVerificationService(verifier, nil, VerificationConfig{Attempts: 2})

	c, err := service.ConfirmDiscord(context.Background(), "alice@example.com", " legacy#1234 ")
	require.NoError(t, err)
	assert.True(t, c.Verified)
	assert.True(t, c.Forced)
	assert.Equal(t, model.TaskDiscord, c.Task)
	assert.Equal(t, "legacy#1234", c.Username)
	verifier.AssertNumberOfCalls(t, "VerifyDiscordJoin", 2)
}

func TestVerificationService_Canceled(t *testing.T) {
	verifier := &mocks.MockSocialVerifier{}
	verifier.On("VerifyDiscordJoin", mock.Anything, "alice@example.com", "neftit").
		Return(nil, assert.AnError)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service := NewVerificationService(verifier, nil, VerificationConfig{Attempts: 3})
	_, err := service.ConfirmDiscord(ctx, "alice@example.com", "neftit")
	assert.ErrorIs(t, err, context.Canceled)
}
