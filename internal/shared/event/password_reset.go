package event

import "time"

const PasswordResetDestination string = "password_reset"

type PasswordResetMessage struct {
	AccountID  int64     `json:"account_id,string"`
	Role       string    `json:"role"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
