package service

import (
	"regexp"
	"strings"
)

const MinPasswordLength = 8

// jsSpace matches what an ECMAScript \s matches; RE2's \s only covers ASCII.
const jsSpace = `\s\x{0B}\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	emailRegex   = regexp.MustCompile(`^[^` + jsSpace + `@]+@[^` + jsSpace + `@]+\.[^` + jsSpace + `@]+$`)
	walletRegex  = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	twitterRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{1,15}$`)
	discordRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{2,32}(#\d{4})?$`)
)

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidateWalletAddress(address string) bool {
	return walletRegex.MatchString(address)
}

func ValidatePassword(password string) bool {
	return len(password) >= MinPasswordLength
}

// NormalizeTwitterUsername trims the handle and drops a single leading "@".
func NormalizeTwitterUsername(username string) string {
	return strings.TrimPrefix(strings.TrimSpace(username), "@")
}

func ValidateTwitterUsername(username string) bool {
	return twitterRegex.MatchString(username)
}

func ValidateDiscordUsername(username string) bool {
	return discordRegex.MatchString(username)
}
