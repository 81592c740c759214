package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"neftit_waitlist/internal/model"
	"neftit_waitlist/pkg/logger"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

type VerificationConfig struct {
	Attempts   int           `mapstructure:"attempts"`
	RetryDelay time.Duration `mapstructure:"retryDelay"`
}

// Confirmation is the outcome of a social task confirmation. Verified is
// always true once input validation passes; Persisted tells whether the
// flag actually reached storage.
type Confirmation struct {
	Task      model.Task
	Username  string
	Verified  bool
	Persisted bool
	Forced    bool
	Attempts  int
	Entry     *model.WaitlistEntry
}

type VerificationService struct {
	verifier SocialVerifier
	metrics  Metrics
	attempts int
	delay    time.Duration
}

func NewVerificationService(verifier SocialVerifier, metrics Metrics, cfg VerificationConfig) *VerificationService {
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}
	return &VerificationService{
		verifier: verifier,
		metrics:  metricsOrNop(metrics),
		attempts: attempts,
		delay:    cfg.RetryDelay,
	}
}

func (s *VerificationService) ConfirmTwitter(ctx context.Context, email, username string) (*Confirmation, error) {
	username = NormalizeTwitterUsername(username)
	if !ValidateTwitterUsername(username) {
		return nil, ErrInvalidTwitter
	}
	return s.confirm(ctx, model.TaskTwitter, email, username, s.verifier.VerifyTwitterFollow)
}

func (s *VerificationService) ConfirmDiscord(ctx context.Context, email, username string) (*Confirmation, error) {
	username = strings.TrimSpace(username)
	if !ValidateDiscordUsername(username) {
		return nil, ErrInvalidDiscord
	}
	return s.confirm(ctx, model.TaskDiscord, email, username, s.verifier.VerifyDiscordJoin)
}

// confirm retries the write a fixed number of times. When every attempt
// fails the task is still reported as verified.
func (s *VerificationService) confirm(
	ctx context.Context,
	task model.Task,
	email, username string,
	write func(ctx context.Context, email, username string) (*model.WaitlistEntry, error),
) (*Confirmation, error) {
	log := logger.Logger().With(zap.String("task", string(task)), zap.String("email", email))

	attempts := 0
	operation := func() (*model.WaitlistEntry, error) {
		attempts++
		entry, err := write(ctx, email, username)
		s.metrics.VerificationAttempt(task, err == nil)
		if err != nil {
			if errors.Is(err, ErrValidation) {
				return nil, backoff.Permanent(err)
			}
			log.Warn("Verification attempt failed", zap.Int("attempt", attempts), zap.Error(err))
			return nil, err
		}
		return entry, nil
	}

	entry, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(s.delay)),
		backoff.WithMaxTries(uint(s.attempts)),
	)

	confirmation := &Confirmation{
		Task:     task,
		Username: username,
		Verified: true,
		Attempts: attempts,
	}

	switch {
	case err == nil:
		confirmation.Persisted = true
		confirmation.Entry = entry
	case errors.Is(err, ErrValidation):
		return nil, err
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		confirmation.Forced = true
		s.metrics.ForcedVerification(task)
		log.Warn("Verification could not be saved, reporting success anyway",
			zap.Int("attempts", attempts), zap.Error(err))
	}

	return confirmation, nil
}
