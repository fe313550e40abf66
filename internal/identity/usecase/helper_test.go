package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/tradeport/internal/identity/entity"
	"github.com/shandysiswandi/tradeport/internal/pkg/clock"
	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/goroutine"
	"github.com/shandysiswandi/tradeport/internal/pkg/hash"
	"github.com/shandysiswandi/tradeport/internal/pkg/instrument"
	"github.com/shandysiswandi/tradeport/internal/pkg/jwt"
	"github.com/shandysiswandi/tradeport/internal/pkg/kvstore"
	"github.com/shandysiswandi/tradeport/internal/pkg/otp"
	"github.com/shandysiswandi/tradeport/internal/pkg/uid"
	"github.com/shandysiswandi/tradeport/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

const (
	testCode     = "4821"
	testPassword = "s3cret-pass"
)

type fakeDB struct {
	mu       sync.Mutex
	accounts map[string]entity.Account
	err      error
}

func newFakeDB() *fakeDB {
	return &fakeDB{accounts: map[string]entity.Account{}}
}

func (f *fakeDB) key(role entity.Role, email string) string {
	return role.String() + "|" + email
}

func (f *fakeDB) GetAccountByEmail(_ context.Context, role entity.Role, email string) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	acc, ok := f.accounts[f.key(role, email)]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &acc, nil
}

func (f *fakeDB) CreateAccount(_ context.Context, acc entity.NewAccount, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := f.key(acc.Role, acc.Email)
	if _, ok := f.accounts[k]; ok {
		return goerror.ErrConflict
	}
	f.accounts[k] = entity.Account{
		ID:          acc.ID,
		Role:        acc.Role,
		Name:        acc.Name,
		Email:       acc.Email,
		Password:    hash,
		PhoneNumber: acc.PhoneNumber,
		Country:     acc.Country,
		Status:      entity.AccountStatusActive,
	}
	return nil
}

func (f *fakeDB) UpdateAccountPassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for k, acc := range f.accounts {
		if acc.ID == id {
			acc.Password = hash
			f.accounts[k] = acc
			return nil
		}
	}
	return goerror.ErrNotFound
}

func (f *fakeDB) put(acc entity.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[f.key(acc.Role, acc.Email)] = acc
}

type fakeMessaging struct {
	mu         sync.Mutex
	registered []AccountRegisteredEvent
	lockouts   []OTPLockoutEvent
	resets     []PasswordResetEvent
	err        error
}

func (f *fakeMessaging) PublishAccountRegistered(_ context.Context, msg AccountRegisteredEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, msg)
	return f.err
}

func (f *fakeMessaging) PublishOTPLockout(_ context.Context, msg OTPLockoutEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lockouts = append(f.lockouts, msg)
	return f.err
}

func (f *fakeMessaging) PublishPasswordReset(_ context.Context, msg PasswordResetEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, msg)
	return f.err
}

type recordingSender struct {
	mu   sync.Mutex
	sent []otp.Delivery
	err  error
}

func (s *recordingSender) Send(_ context.Context, d otp.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, d)
	return s.err
}

func (s *recordingSender) last(t *testing.T) otp.Delivery {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		t.Fatalf("no otp was sent")
	}
	return s.sent[len(s.sent)-1]
}

type fixture struct {
	uc     *Usecase
	db     *fakeDB
	mq     *fakeMessaging
	sender *recordingSender
	store  *kvstore.Memory
	clock  *clock.Fake
	gor    *goroutine.Manager
	jwt    *jwt.Symmetric
	hasher *hash.Bcrypt
}

// events waits for background publishing to finish.
func (f *fixture) events(t *testing.T) *fakeMessaging {
	t.Helper()
	_ = f.gor.Wait()
	return f.mq
}

func (f *fixture) seed(t *testing.T, role entity.Role, email string) entity.Account {
	t.Helper()

	hashed, err := f.hasher.Hash(testPassword)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	acc := entity.Account{
		ID:       int64(len(f.db.accounts) + 100),
		Role:     role,
		Name:     "Jane Doe",
		Email:    email,
		Password: string(hashed),
		Status:   entity.AccountStatusActive,
	}
	f.db.put(acc)
	return acc
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fc := clock.NewFake(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	store := kvstore.NewMemory(fc)
	sender := &recordingSender{}

	engine, err := otp.New(otp.Dependency{Store: store, Sender: sender, Generator: otp.StaticCode(testCode)})
	if err != nil {
		t.Fatalf("otp.New() error = %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	sf, err := uid.NewSnowflake(1)
	if err != nil {
		t.Fatalf("NewSnowflake() error = %v", err)
	}

	tokens, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "tradeport",
		Audiences: []string{"tradeport"},
		TTL: map[jwt.Purpose]time.Duration{
			jwt.PurposeAccess:        time.Hour,
			jwt.PurposeRefresh:       7 * 24 * time.Hour,
			jwt.PurposePasswordReset: 10 * time.Minute,
		},
		Clock: fc,
		UUID:  uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}

	f := &fixture{
		db:     newFakeDB(),
		mq:     &fakeMessaging{},
		sender: sender,
		store:  store,
		clock:  fc,
		gor:    goroutine.NewManager(10, time.Second),
		jwt:    tokens,
		hasher: hash.NewBcrypt(bcrypt.MinCost, ""),
	}

	f.uc = New(Dependency{
		RepoDB:        f.db,
		RepoMessaging: f.mq,
		OTP:           engine,
		Grants:        store,
		Validator:     v,
		Bcrypt:        f.hasher,
		UID:           sf,
		Clock:         fc,
		JWT:           tokens,
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.gor,
	})

	return f
}

func assertCode(t *testing.T, err error, want goerror.Code) *goerror.Error {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T (%v)", err, err)
	}
	if gerr.Code() != want {
		t.Fatalf("Code() = %s, want %s (msg %q)", gerr.Code(), want, gerr.Msg())
	}
	return gerr
}
