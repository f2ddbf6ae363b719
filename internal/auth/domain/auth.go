// Package domain contains the single-user credential and session
// models. This is a local tool: one account, plain-text password, one
// session record at a time.
package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoCredentials      = errors.New("no_credentials")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrWeakPassword       = errors.New("weak_password")
	ErrNoResetRequest     = errors.New("no_reset_request")
	ErrResetCodeExpired   = errors.New("reset_code_expired")
	ErrInvalidResetCode   = errors.New("invalid_reset_code")
	ErrNotAuthenticated   = errors.New("not_authenticated")
)

// Credentials is the stored account record.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the active login. Sessions do not expire; only an explicit
// logout ends one.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// PasswordReset is a pending reset request. Valid for ResetCodeTTL from
// CreatedAt.
type PasswordReset struct {
	Email     string    `json:"email"`
	ResetCode string    `json:"resetCode"`
	CreatedAt time.Time `json:"createdAt"`
}

const ResetCodeTTL = 15 * time.Minute

// State summarizes the account for the login screen.
type State struct {
	Authenticated  bool `json:"authenticated"`
	HasCredentials bool `json:"hasCredentials"`
}

type Service interface {
	Load(ctx context.Context) error
	State(ctx context.Context) State

	CreateCredentials(ctx context.Context, email, password string) (Session, error)
	Login(ctx context.Context, email, password string) (Session, error)
	Logout(ctx context.Context) error
	ValidateSession(ctx context.Context, token string) bool

	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	GenerateResetCode(ctx context.Context, email string) (string, error)
	ResetPasswordWithCode(ctx context.Context, email, resetCode, newPassword string) error
	UserEmail(ctx context.Context) (string, error)
	ResetAuth(ctx context.Context) error
}
