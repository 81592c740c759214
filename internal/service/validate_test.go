package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"a.b+c@sub.domain.io", true},
		{"", false},
		{"alice", false},
		{"alice@example", false},
		{"alice @example.com", false},
		{"alice@@example.com", false},
		{"@example.com", false},
		{"a\vb@example.com", false},
		{"a\u00a0b@example.com", false},
		{"a\u2028b@example.com", false},
		{"alice@exa\u3000mple.com", false},
		{"alice@example.\ufeffcom", false},
		{"jos\u00e9@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

func TestValidateWalletAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"forty hex chars", "0x" + strings.Repeat("a", 40), true},
		{"mixed case", "0xAbCdEf0123456789abcdef0123456789ABCDEF01", true},
		{"too short", "0x123", false},
		{"missing prefix", "abc" + strings.Repeat("a", 39), false},
		{"too long", "0x" + strings.Repeat("a", 41), false},
		{"non hex", "0x" + strings.Repeat("g", 40), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateWalletAddress(tt.address))
		})
	}
}

func TestTwitterUsername(t *testing.T) {
	tests := []struct {
		input      string
		normalized string
		valid      bool
	}{
		{"@neftitxyz", "neftitxyz", true},
		{"  jack_ ", "jack_", true},
		{"a", "a", true},
		{"@", "", false},
		{"this_is_too_long_for_x", "this_is_too_long_for_x", false},
		{"bad-dash", "bad-dash", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeTwitterUsername(tt.input)
			assert.Equal(t, tt.normalized, got)
			assert.Equal(t, tt.valid, ValidateTwitterUsername(got))
		})
	}
}

func TestValidateDiscordUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"neftit_fan", true},
		{"legacy#1234", true},
		{"ab", true},
		{"a", false},
		{"legacy#12", false},
		{"with space", false},
		{strings.Repeat("x", 33), false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateDiscordUsername(tt.username))
		})
	}
}

func TestRandomReferralCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := RandomReferralCode()
		assert.NoError(t, err)
		assert.Len(t, code, ReferralCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(referralAlphabet, r))
		}
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, 200)
}

func TestErrorKinds(t *testing.T) {
	wrapped := newError(ErrUnavailable, assert.AnError)

	assert.ErrorIs(t, wrapped, ErrConnectivity)
	assert.ErrorIs(t, wrapped, ErrUnavailable)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.NotErrorIs(t, wrapped, ErrNotFound)

	assert.ErrorIs(t, ErrInvalidEmail, ErrValidation)
	assert.NotErrorIs(t, ErrInvalidEmail, ErrInvalidWallet)

	assert.Equal(t, KindConflict, KindOf(ErrAlreadyRegistered))
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
	assert.Equal(t, "user not found", Message(ErrUserNotFound))
	assert.Equal(t, "something went wrong, please try again", Message(assert.AnError))
}
