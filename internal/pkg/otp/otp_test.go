package otp

import (
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/tradeport/internal/pkg/kvstore"
)

func TestNew(t *testing.T) {
	store := kvstore.NewMemory(nil)

	tests := []struct {
		name    string
		dep     Dependency
		wantErr bool
	}{
		{name: "missing store", dep: Dependency{Sender: &recordingSender{}}, wantErr: true},
		{name: "missing sender", dep: Dependency{Store: store}, wantErr: true},
		{name: "defaults", dep: Dependency{Store: store, Sender: &recordingSender{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.dep)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if e.Config() != DefaultConfig() {
				t.Fatalf("Config() = %+v, want defaults", e.Config())
			}
		})
	}
}

func TestConfig_withDefaults_KeepsOverrides(t *testing.T) {
	cfg := Config{CodeTTL: time.Minute, MaxFailedAttempts: 5}.withDefaults()

	if cfg.CodeTTL != time.Minute || cfg.MaxFailedAttempts != 5 {
		t.Fatalf("overrides lost: %+v", cfg)
	}
	if cfg.LockTTL != 30*time.Minute || cfg.MaxRequests != 2 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestScopedIdentity(t *testing.T) {
	tests := []struct {
		scope, email, want string
	}{
		{scope: "user", email: "a@b.com", want: "user:a@b.com"},
		{scope: " Seller ", email: " A@B.com ", want: "seller:a@b.com"},
		{scope: "", email: "a@b.com", want: "a@b.com"},
	}

	for _, tt := range tests {
		if got := ScopedIdentity(tt.scope, tt.email); got != tt.want {
			t.Fatalf("ScopedIdentity(%q, %q) = %q, want %q", tt.scope, tt.email, got, tt.want)
		}
	}
}

func TestHumanDuration(t *testing.T) {
	tests := map[time.Duration]string{
		30 * time.Minute: "30 minutes",
		time.Hour:        "1 hour",
		2 * time.Hour:    "2 hours",
		time.Minute:      "1 minute",
		90 * time.Second: "90 seconds",
	}

	for d, want := range tests {
		if got := humanDuration(d); got != want {
			t.Fatalf("humanDuration(%s) = %q, want %q", d, got, want)
		}
	}
}

func TestEmptyIdentity(t *testing.T) {
	f := memoryFixture(t, "1234")
	ctx := t.Context()

	if err := f.engine.CheckRestrictions(ctx, " "); !errors.Is(err, ErrEmptyIdentity) {
		t.Fatalf("CheckRestrictions() = %v", err)
	}
	if err := f.engine.TrackRequest(ctx, ""); !errors.Is(err, ErrEmptyIdentity) {
		t.Fatalf("TrackRequest() = %v", err)
	}
	if _, err := f.engine.Issue(ctx, "", Delivery{}); !errors.Is(err, ErrEmptyIdentity) {
		t.Fatalf("Issue() = %v", err)
	}
	if err := f.engine.Verify(ctx, "", "1234"); !errors.Is(err, ErrEmptyIdentity) {
		t.Fatalf("Verify() = %v", err)
	}
	if _, err := f.engine.Status(ctx, ""); !errors.Is(err, ErrEmptyIdentity) {
		t.Fatalf("Status() = %v", err)
	}
}

func TestStoreUnavailable(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:6379: connection refused")
	e, err := New(Dependency{Store: brokenStore{err: cause}, Sender: &recordingSender{}, Generator: StaticCode("1234")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := t.Context()

	checks := map[string]error{
		"CheckRestrictions": e.CheckRestrictions(ctx, "a@b.com"),
		"TrackRequest":      e.TrackRequest(ctx, "a@b.com"),
		"Verify":            e.Verify(ctx, "a@b.com", "1234"),
	}
	_, checks["Issue"] = e.Issue(ctx, "a@b.com", Delivery{To: "a@b.com"})
	_, checks["Status"] = e.Status(ctx, "a@b.com")

	for name, err := range checks {
		if !errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("%s: expected ErrStoreUnavailable, got %v", name, err)
		}
		if !errors.Is(err, cause) {
			t.Fatalf("%s: expected cause to be wrapped, got %v", name, err)
		}
	}
}
