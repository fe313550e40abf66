package entity

import "time"

type AccountStatus int16

const (
	// AccountStatusUnknown is mean status is not known / not set.
	AccountStatusUnknown AccountStatus = 0

	// AccountStatusActive mean the account completed verification and may sign in.
	AccountStatusActive AccountStatus = 1

	// AccountStatusBanned mean the account is blocked (policy/abuse/etc).
	AccountStatusBanned AccountStatus = 2
)

func (as AccountStatus) String() string {
	switch as {
	case AccountStatusActive:
		return "Active"
	case AccountStatusBanned:
		return "Banned"
	default:
		return "Unknown"
	}
}

func (as AccountStatus) Ensure() AccountStatus {
	switch as {
	case AccountStatusActive, AccountStatusBanned:
		return as
	default:
		return AccountStatusUnknown
	}
}

// Account is a verified identity of one role.
type Account struct {
	ID          int64
	Role        Role
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Country     string
	Status      AccountStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAccount is the data needed to insert an account once its email is verified.
type NewAccount struct {
	ID          int64
	Role        Role
	Name        string
	Email       string
	PhoneNumber string
	Country     string
}
