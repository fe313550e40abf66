package entity

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

var ErrRoleUnknown = errors.New("identity: role is unknown")

// Role partitions accounts. The same email may hold one account per role.
type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

var roles = []Role{RoleUser, RoleSeller, RoleAdmin}

// ParseRole normalizes raw and returns the matching Role.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !lo.Contains(roles, r) {
		return "", ErrRoleUnknown
	}

	return r, nil
}

func (r Role) String() string {
	return string(r)
}

// CanSelfRegister reports whether accounts of this role may be created through sign up.
// Admins are provisioned out of band.
func (r Role) CanSelfRegister() bool {
	return r == RoleUser || r == RoleSeller
}

// ActivationTemplate is the mail template used for registration codes.
func (r Role) ActivationTemplate() string {
	return string(r) + "-activation-mail"
}

// ForgotPasswordTemplate is the mail template used for password recovery codes.
func (r Role) ForgotPasswordTemplate() string {
	return "forgot-password-" + string(r) + "-mail"
}
