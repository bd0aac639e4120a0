package ports

import (
	"context"

	"github.com/torneoops/matchday/internal/core/domain"
)

// LoginInput carries the credentials for an authentication attempt.
// ContextToken is an optional token-scoped re-authentication credential
// (e.g. a match-official invite); it travels as the X-Context-Token header,
// never in the JSON body.
type LoginInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	ContextToken string `json:"-"`
}

// RegisterInput carries a new account request. Registration never
// authenticates; it only reports an outcome. ContextToken rides the
// X-Context-Token header, as in LoginInput.
type RegisterInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Role         string `json:"role" validate:"required,oneof=superadmin league team official"`
	ContextToken string `json:"-"`
}

// RegisterOutcome reports the result of a registration attempt.
type RegisterOutcome struct {
	Success bool
	UserID  string
	Email   string
}

// AuthPayload is a successful credential acquisition: the bearer token and,
// when issued, a refresh token.
type AuthPayload struct {
	Token        string
	RefreshToken string
}

// AuthAPI is the remote authentication server boundary.
type AuthAPI interface {
	Login(ctx context.Context, in LoginInput) (AuthPayload, error)
	Register(ctx context.Context, in RegisterInput) (RegisterOutcome, error)
	VerifyCode(ctx context.Context, email, code string) (AuthPayload, error)
	ResendCode(ctx context.Context, email, templateType string) error
	ResetPassword(ctx context.Context, email string) error
}

// ProfileService loads the extended operator profile after login. A failure
// here must never affect session validity.
type ProfileService interface {
	LoadProfile(ctx context.Context) (domain.Profile, error)
}

// TournamentService is the thin read-only surface the CLI exposes once a
// session is established.
type TournamentService interface {
	ListTournaments(ctx context.Context) ([]domain.Tournament, error)
	ListMatches(ctx context.Context, tournamentID string) ([]domain.Match, error)
}
