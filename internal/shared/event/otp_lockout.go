package event

import "time"

const OTPLockoutDestination string = "otp_lockout"

// OTPLockoutMessage is emitted when too many wrong codes lock an identity.
type OTPLockoutMessage struct {
	Role             string    `json:"role"`
	Email            string    `json:"email"`
	Purpose          string    `json:"purpose"`
	LockedForSeconds int64     `json:"locked_for_seconds"`
	OccurredAt       time.Time `json:"occurred_at"`
}
