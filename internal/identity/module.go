package identity

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/tradeport/internal/identity/inbound"
	"github.com/shandysiswandi/tradeport/internal/identity/outbound/db"
	"github.com/shandysiswandi/tradeport/internal/identity/outbound/email"
	"github.com/shandysiswandi/tradeport/internal/identity/outbound/mq"
	"github.com/shandysiswandi/tradeport/internal/identity/usecase"
	"github.com/shandysiswandi/tradeport/internal/pkg/clock"
	"github.com/shandysiswandi/tradeport/internal/pkg/config"
	"github.com/shandysiswandi/tradeport/internal/pkg/goroutine"
	"github.com/shandysiswandi/tradeport/internal/pkg/hash"
	"github.com/shandysiswandi/tradeport/internal/pkg/instrument"
	"github.com/shandysiswandi/tradeport/internal/pkg/jwt"
	"github.com/shandysiswandi/tradeport/internal/pkg/kvstore"
	"github.com/shandysiswandi/tradeport/internal/pkg/mail"
	"github.com/shandysiswandi/tradeport/internal/pkg/messaging"
	"github.com/shandysiswandi/tradeport/internal/pkg/otp"
	"github.com/shandysiswandi/tradeport/internal/pkg/router"
	"github.com/shandysiswandi/tradeport/internal/pkg/uid"
	"github.com/shandysiswandi/tradeport/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	KVStore    kvstore.Store              `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Templates  *mail.Renderer             `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Bcrypt     hash.Hasher                `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

// OTPConfig reads engine lifetimes and thresholds from modules.identity.otp.*.
// Missing keys keep the engine defaults.
func OTPConfig(cfg config.Config) otp.Config {
	return otp.Config{
		CodeTTL:           cfg.GetSecond("modules.identity.otp.code_ttl_seconds"),
		CooldownTTL:       cfg.GetSecond("modules.identity.otp.cooldown_ttl_seconds"),
		RequestWindow:     cfg.GetSecond("modules.identity.otp.request_window_seconds"),
		SpamLockTTL:       cfg.GetSecond("modules.identity.otp.spam_lock_ttl_seconds"),
		FailedAttemptsTTL: cfg.GetSecond("modules.identity.otp.failed_attempts_ttl_seconds"),
		LockTTL:           cfg.GetSecond("modules.identity.otp.lock_ttl_seconds"),
		MaxRequests:       cfg.GetInt64("modules.identity.otp.max_requests"),
		MaxFailedAttempts: cfg.GetInt64("modules.identity.otp.max_failed_attempts"),
	}
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	engine, err := otp.New(otp.Dependency{
		Store:      dep.KVStore,
		Sender:     email.New(dep.Mail, dep.Templates, dep.Clock, dep.Instrument),
		Instrument: dep.Instrument,
		Config:     OTPConfig(dep.Config),
	})
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:        db.NewDB(dep.DBConn, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Clock, dep.Instrument),
		OTP:           engine,
		Grants:        dep.KVStore,
		Validator:     dep.Validator,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
