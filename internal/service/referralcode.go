package service

import (
	"crypto/rand"
	"math/big"
)

const (
	ReferralCodeLength = 8
	referralAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	maxCodeAttempts    = 5
)

// CodeGenerator returns a candidate referral code.
type CodeGenerator func() (string, error)

func RandomReferralCode() (string, error) {
	max := big.NewInt(int64(len(referralAlphabet)))
	code := make([]byte, ReferralCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = referralAlphabet[n.Int64()]
	}
	return string(code), nil
}
