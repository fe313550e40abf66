package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/tradeport/internal/identity/entity"
	"github.com/shandysiswandi/tradeport/internal/pkg/clock"
	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/goroutine"
	"github.com/shandysiswandi/tradeport/internal/pkg/hash"
	"github.com/shandysiswandi/tradeport/internal/pkg/instrument"
	"github.com/shandysiswandi/tradeport/internal/pkg/jwt"
	"github.com/shandysiswandi/tradeport/internal/pkg/otp"
	"github.com/shandysiswandi/tradeport/internal/pkg/uid"
	"github.com/shandysiswandi/tradeport/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const keyResetGrantPrefix = "otp_reset_grant:"

type AccountRegisteredEvent struct {
	AccountID int64
	Role      entity.Role
	Email     string
	Name      string
}

type OTPLockoutEvent struct {
	Role      entity.Role
	Email     string
	Purpose   string
	LockedFor time.Duration
}

type PasswordResetEvent struct {
	AccountID int64
	Role      entity.Role
	Email     string
}

type repoMessaging interface {
	PublishAccountRegistered(ctx context.Context, msg AccountRegisteredEvent) error
	PublishOTPLockout(ctx context.Context, msg OTPLockoutEvent) error
	PublishPasswordReset(ctx context.Context, msg PasswordResetEvent) error
}

type repoDB interface {
	GetAccountByEmail(ctx context.Context, role entity.Role, email string) (*entity.Account, error)
	CreateAccount(ctx context.Context, acc entity.NewAccount, hash string) error
	UpdateAccountPassword(ctx context.Context, id int64, hash string) error
}

type otpEngine interface {
	Request(ctx context.Context, identity string, d otp.Delivery) (*otp.IssueResult, error)
	Verify(ctx context.Context, identity, code string) error
	Status(ctx context.Context, identity string) (*otp.Status, error)
	Config() otp.Config
}

// grantStore keeps single-use password reset grants.
type grantStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	otp           otpEngine
	grants        grantStore
	validator     validator.Validator
	bcrypt        hash.Hasher
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	OTP           otpEngine
	Grants        grantStore
	Validator     validator.Validator
	Bcrypt        hash.Hasher
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		otp:           dep.OTP,
		grants:        dep.Grants,
		validator:     dep.Validator,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) parseRole(raw string) (entity.Role, error) {
	role, err := entity.ParseRole(raw)
	if err != nil {
		return "", goerror.NewBusiness("unknown account role", goerror.CodeNotFound)
	}

	return role, nil
}

func (s *Usecase) ensureAccountStatusAllowed(ctx context.Context, acc *entity.Account) error {
	switch acc.Status.Ensure() {
	case entity.AccountStatusActive:
		return nil

	case entity.AccountStatusBanned:
		slog.WarnContext(ctx, "account is banned", "account_id", acc.ID)
		return goerror.NewBusiness("account is banned", goerror.CodeForbidden)

	default:
		slog.WarnContext(ctx, "account status is unrecognized", "account_id", acc.ID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)
	}
}

// publish hands event publishing to the goroutine manager so the request never waits on the broker.
func (s *Usecase) publish(ctx context.Context, name string, f func(ctx context.Context) error) {
	s.goroutine.Go(ctx, name, func(ctx context.Context) error {
		if err := f(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to publish event", "event", name, "error", err)
			return err
		}
		return nil
	})
}
