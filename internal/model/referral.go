package model

import "time"

type Referral struct {
	ReferrerEmail string
	ReferredEmail string
	CreatedAt     time.Time
}
