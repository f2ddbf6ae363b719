package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ledgerpad/ledgerpad/internal/auth/domain"
	"github.com/ledgerpad/ledgerpad/internal/clock"
	"github.com/ledgerpad/ledgerpad/pkg/blobstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	keyCredentials = "auth_credentials"
	keySession     = "auth_session"
	keyReset       = "password_reset"
)

const minPasswordLen = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Params struct {
	fx.In

	Blob  *blobstore.Store
	Log   *zap.Logger
	Clock clock.Clock
}

// Service keeps the credential, session and reset records in memory,
// mirrored to the blob store. Nil pointers mean no record stored.
type Service struct {
	blob  *blobstore.Store
	log   *zap.Logger
	clock clock.Clock

	mu          sync.Mutex
	credentials *domain.Credentials
	session     *domain.Session
	reset       *domain.PasswordReset
}

func New(p Params) domain.Service {
	return &Service{
		blob:  p.Blob,
		log:   p.Log.Named("auth.service"),
		clock: p.Clock,
	}
}

func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentials = loadRecord[domain.Credentials](ctx, s.blob, s.log, keyCredentials)
	s.session = loadRecord[domain.Session](ctx, s.blob, s.log, keySession)
	s.reset = loadRecord[domain.PasswordReset](ctx, s.blob, s.log, keyReset)

	s.log.Info("auth state loaded",
		zap.Bool("has_credentials", s.credentials != nil),
		zap.Bool("has_session", s.session != nil),
	)
	return nil
}

func loadRecord[T any](ctx context.Context, blob *blobstore.Store, log *zap.Logger, key string) *T {
	var record T
	err := blob.Load(ctx, key, &record)
	switch {
	case errors.Is(err, blobstore.ErrNotFound):
		return nil
	case err != nil:
		log.Error("loading auth record failed, treating as absent",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil
	}
	return &record
}

func (s *Service) State(ctx context.Context) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.State{
		Authenticated:  s.session != nil,
		HasCredentials: s.credentials != nil,
	}
}

// CreateCredentials is the first-run setup. It stores the account and
// opens a session in one step.
func (s *Service) CreateCredentials(ctx context.Context, email, password string) (domain.Session, error) {
	email = normalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return domain.Session{}, domain.ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return domain.Session{}, domain.ErrWeakPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	credentials := domain.Credentials{Email: email, Password: password}
	session := s.newSession(email)

	err := s.blob.SaveAll(ctx, map[string]any{
		keyCredentials: credentials,
		keySession:     session,
	})
	if err != nil {
		return domain.Session{}, err
	}
	s.credentials = &credentials
	s.session = &session

	return session, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.credentials == nil {
		return domain.Session{}, domain.ErrNoCredentials
	}
	if s.credentials.Email != normalizeEmail(email) || s.credentials.Password != password {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	session := s.newSession(s.credentials.Email)
	if err := s.blob.Save(ctx, keySession, session); err != nil {
		return domain.Session{}, err
	}
	s.session = &session

	return session, nil
}

func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.blob.Delete(ctx, keySession); err != nil {
		return err
	}
	s.session = nil

	return nil
}

// ValidateSession accepts the token handed out at login. Sessions never
// expire; a token stays valid until logout replaces or removes it.
func (s *Service) ValidateSession(ctx context.Context, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil && token != "" && s.session.Token == token
}

func (s *Service) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.credentials == nil {
		return domain.ErrNoCredentials
	}
	if s.credentials.Password != currentPassword {
		return domain.ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLen {
		return domain.ErrWeakPassword
	}

	updated := *s.credentials
	updated.Password = newPassword
	if err := s.blob.Save(ctx, keyCredentials, updated); err != nil {
		return err
	}
	s.credentials = &updated

	return nil
}

// GenerateResetCode issues a 6-digit code valid for 15 minutes. A new
// request replaces any pending one.
func (s *Service) GenerateResetCode(ctx context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = normalizeEmail(email)
	if s.credentials == nil || s.credentials.Email != email {
		return "", domain.ErrNoCredentials
	}

	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
	reset := domain.PasswordReset{
		Email:     email,
		ResetCode: code,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.blob.Save(ctx, keyReset, reset); err != nil {
		return "", err
	}
	s.reset = &reset

	return code, nil
}

func (s *Service) ResetPasswordWithCode(ctx context.Context, email, resetCode, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reset == nil {
		return domain.ErrNoResetRequest
	}
	if s.clock.Now().After(s.reset.CreatedAt.Add(domain.ResetCodeTTL)) {
		// Expired requests are discarded so the code cannot be retried.
		if err := s.blob.Delete(ctx, keyReset); err != nil {
			return err
		}
		s.reset = nil
		return domain.ErrResetCodeExpired
	}
	if s.reset.Email != normalizeEmail(email) || s.reset.ResetCode != resetCode {
		return domain.ErrInvalidResetCode
	}
	if len(newPassword) < minPasswordLen {
		return domain.ErrWeakPassword
	}
	if s.credentials == nil {
		return domain.ErrNoCredentials
	}

	updated := *s.credentials
	updated.Password = newPassword
	if err := s.blob.Save(ctx, keyCredentials, updated); err != nil {
		return err
	}
	if err := s.blob.Delete(ctx, keyReset); err != nil {
		return err
	}
	s.credentials = &updated
	s.reset = nil

	return nil
}

func (s *Service) UserEmail(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.credentials == nil {
		return "", domain.ErrNoCredentials
	}
	return s.credentials.Email, nil
}

// ResetAuth wipes the account entirely.
func (s *Service) ResetAuth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{keyCredentials, keySession, keyReset} {
		if err := s.blob.Delete(ctx, key); err != nil {
			return err
		}
	}
	s.credentials = nil
	s.session = nil
	s.reset = nil

	return nil
}

func (s *Service) newSession(email string) domain.Session {
	return domain.Session{
		Token:     uuid.NewString(),
		Email:     email,
		CreatedAt: s.clock.Now().UTC(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
