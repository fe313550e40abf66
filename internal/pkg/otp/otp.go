package otp

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/tradeport/internal/pkg/instrument"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Store is the expiring key-value contract the engine needs.
// Get and TTL must report absent keys as goerror.ErrNotFound.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	CompareAndDelete(ctx context.Context, key, value string) (bool, error)
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Delivery describes how a freshly generated code reaches its owner.
// Code is filled in by the engine before Sender.Send is called.
type Delivery struct {
	To       string
	Name     string
	Subject  string
	Template string
	Data     map[string]any
	Code     string
}

// Sender delivers a code, usually by email.
type Sender interface {
	Send(ctx context.Context, d Delivery) error
}

// Config holds lifetimes and thresholds. Zero fields fall back to DefaultConfig.
type Config struct {
	CodeTTL           time.Duration
	CooldownTTL       time.Duration
	RequestWindow     time.Duration
	SpamLockTTL       time.Duration
	FailedAttemptsTTL time.Duration
	LockTTL           time.Duration

	// MaxRequests is how many tracked requests fit in one window; the next one escalates.
	MaxRequests int64
	// MaxFailedAttempts is how many wrong guesses are tolerated; the next one locks.
	MaxFailedAttempts int64
}

// DefaultConfig returns the production lifetimes and thresholds.
func DefaultConfig() Config {
	return Config{
		CodeTTL:           300 * time.Second,
		CooldownTTL:       60 * time.Second,
		RequestWindow:     3600 * time.Second,
		SpamLockTTL:       3600 * time.Second,
		FailedAttemptsTTL: 300 * time.Second,
		LockTTL:           1800 * time.Second,
		MaxRequests:       2,
		MaxFailedAttempts: 2,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.CodeTTL <= 0 {
		c.CodeTTL = def.CodeTTL
	}
	if c.CooldownTTL <= 0 {
		c.CooldownTTL = def.CooldownTTL
	}
	if c.RequestWindow <= 0 {
		c.RequestWindow = def.RequestWindow
	}
	if c.SpamLockTTL <= 0 {
		c.SpamLockTTL = def.SpamLockTTL
	}
	if c.FailedAttemptsTTL <= 0 {
		c.FailedAttemptsTTL = def.FailedAttemptsTTL
	}
	if c.LockTTL <= 0 {
		c.LockTTL = def.LockTTL
	}
	if c.MaxRequests <= 0 {
		c.MaxRequests = def.MaxRequests
	}
	if c.MaxFailedAttempts <= 0 {
		c.MaxFailedAttempts = def.MaxFailedAttempts
	}

	return c
}

// Dependency wires an Engine.
type Dependency struct {
	Store  Store
	Sender Sender
	// Generator defaults to a crypto-random code in [1000, 9999].
	Generator CodeGenerator
	// Instrument defaults to a noop implementation.
	Instrument instrument.Instrumentation
	Config     Config
}

// Engine runs the OTP lifecycle. It holds no per-identity state and is safe
// for concurrent use; the Store is the single source of truth.
type Engine struct {
	store  Store
	sender Sender
	gen    CodeGenerator
	ins    instrument.Instrumentation
	cfg    Config

	issued         metric.Int64Counter
	deliveryFailed metric.Int64Counter
	blocked        metric.Int64Counter
	verifyFailed   metric.Int64Counter
	lockouts       metric.Int64Counter
	spamLocks      metric.Int64Counter
}

// New builds an Engine. Store and Sender are required.
func New(dep Dependency) (*Engine, error) {
	if dep.Store == nil {
		return nil, errors.New("otp: store is required")
	}
	if dep.Sender == nil {
		return nil, errors.New("otp: sender is required")
	}
	if dep.Generator == nil {
		dep.Generator = NewRandomCode(1000, 9999)
	}
	if dep.Instrument == nil {
		dep.Instrument = instrument.NewNoop()
	}

	e := &Engine{
		store:  dep.Store,
		sender: dep.Sender,
		gen:    dep.Generator,
		ins:    dep.Instrument,
		cfg:    dep.Config.withDefaults(),
	}

	meter := e.ins.Meter("otp.engine")
	e.issued = counter(meter, "otp.issued", "OTP codes stored for verification")
	e.deliveryFailed = counter(meter, "otp.delivery.failed", "OTP codes whose delivery failed")
	e.blocked = counter(meter, "otp.blocked", "OTP requests refused by a restriction")
	e.verifyFailed = counter(meter, "otp.verify.failed", "Wrong OTP guesses")
	e.lockouts = counter(meter, "otp.lockouts", "Verification locks applied")
	e.spamLocks = counter(meter, "otp.spam_locks", "Request locks applied")

	return e, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

func counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Error("failed to create otp counter", "name", name, "error", err)
		return nil
	}
	return c
}

func add(ctx context.Context, c metric.Int64Counter, opts ...metric.AddOption) {
	if c != nil {
		c.Add(ctx, 1, opts...)
	}
}

func (e *Engine) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return e.ins.Tracer("otp.engine").Start(ctx, name)
}

// ScopedIdentity builds the identity string for an email inside a scope such as
// an account role, so counters for different scopes never collide.
func ScopedIdentity(scope, email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	scope = strings.ToLower(strings.TrimSpace(scope))
	if scope == "" {
		return email
	}
	return scope + ":" + email
}
