package ports

import (
	"context"

	"github.com/torneoops/matchday/internal/core/domain"
)

// Unsubscribe detaches a session state subscriber. Idempotent.
type Unsubscribe func()

// SessionService is the surface the rest of the application consumes from
// the session core.
type SessionService interface {
	// CurrentState returns a synchronous snapshot of the session state.
	CurrentState() domain.AuthState
	// Subscribe replays the current state to fn immediately, then forwards
	// every subsequent transition.
	Subscribe(fn func(domain.AuthState)) Unsubscribe

	Login(ctx context.Context, in LoginInput) error
	Register(ctx context.Context, in RegisterInput) (RegisterOutcome, error)
	// VerifyCode confirms a one-time code. autoLogin adopts the issued token
	// as the current session; autoRedirect additionally navigates to the
	// role landing route after adoption.
	VerifyCode(ctx context.Context, email, code string, autoRedirect, autoLogin bool) (string, error)
	ResendCode(ctx context.Context, email, templateType string) error
	ResetPassword(ctx context.Context, email string) error
	Logout(ctx context.Context, notify bool)
}
