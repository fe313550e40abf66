package event

import "time"

const AccountRegisteredDestination string = "account_registered"

type AccountRegisteredMessage struct {
	AccountID  int64     `json:"account_id,string"`
	Role       string    `json:"role"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}
