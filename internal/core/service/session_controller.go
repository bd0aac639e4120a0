package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/torneoops/matchday/internal/core/domain"
	"github.com/torneoops/matchday/internal/core/ports"
	"github.com/torneoops/matchday/internal/observability/metrics"
)

// SessionController is the orchestrator of the session lifecycle. It
// exclusively owns the current AuthState and the active expiration schedule;
// every state-changing operation coordinates the token inspector, the
// credential store, and the scheduler, then publishes the new state to
// subscribers through the feed.
//
// The source model is one turn at a time: the mutex serializes state
// mutation, and re-entrant login/logout while a network call is in flight is
// rejected rather than queued.
type SessionController struct {
	mu sync.Mutex

	clock     ports.Clock
	inspector *TokenInspector
	creds     *CredentialStore
	scheduler *ExpirationScheduler
	api       ports.AuthAPI
	profiles  ports.ProfileService
	notifier  ports.Notifier
	navigator ports.Navigator
	feed      *StateFeed
	log       zerolog.Logger

	// epoch identifies the current session. Async completions (profile
	// refresh, in-flight logins) compare epochs before applying side
	// effects; a mismatch means the session they were issued for is gone.
	epoch uint64
	state domain.AuthState
}

// SessionControllerDeps wires the controller's collaborators. All fields are
// required except Profiles, which may be nil when no profile service exists.
type SessionControllerDeps struct {
	Clock     ports.Clock
	Inspector *TokenInspector
	Creds     *CredentialStore
	Scheduler *ExpirationScheduler
	API       ports.AuthAPI
	Profiles  ports.ProfileService
	Notifier  ports.Notifier
	Navigator ports.Navigator
	Log       zerolog.Logger
}

func NewSessionController(d SessionControllerDeps) *SessionController {
	return &SessionController{
		clock:     d.Clock,
		inspector: d.Inspector,
		creds:     d.Creds,
		scheduler: d.Scheduler,
		api:       d.API,
		profiles:  d.Profiles,
		notifier:  d.Notifier,
		navigator: d.Navigator,
		feed:      NewStateFeed(domain.Anonymous()),
		log:       d.Log,
		state:     domain.Anonymous(),
	}
}

// CurrentState returns a snapshot of the session state.
func (c *SessionController) CurrentState() domain.AuthState {
	return c.feed.Current()
}

// Subscribe replays the current state and forwards future transitions.
func (c *SessionController) Subscribe(fn func(domain.AuthState)) ports.Unsubscribe {
	return c.feed.Subscribe(fn)
}

// Bootstrap rehydrates the session from persisted credentials at cold boot.
// A live token transitions straight to Authenticated without a network call;
// an expired one is cleaned up silently, with no user-facing notification.
func (c *SessionController) Bootstrap(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, ok := c.creds.Token(ctx)
	if !ok {
		c.setStateLocked(domain.Anonymous())
		return
	}

	if c.inspector.IsExpired(token, c.clock.Now()) {
		c.log.Info().Msg("persisted token expired, cleaning up")
		metrics.SessionsExpiredTotal.WithLabelValues("cold_boot").Inc()
		c.clearSessionLocked(ctx)
		return
	}

	user, ok := c.creds.User(ctx)
	if !ok {
		// cached record lost or corrupt; rebuild from token claims
		user, ok = c.inspector.ExtractUserInfo(token)
		if !ok {
			c.clearSessionLocked(ctx)
			return
		}
	}

	c.installSessionLocked(token, user)
	c.log.Info().Str("user_id", user.ID).Msg("session rehydrated from storage")
}

// Login authenticates against the remote API. On success the token is
// decoded, persisted, scheduled for expiry, and announced; the extended
// profile is refreshed in the background and cannot undo authentication.
// A second login while one is in flight returns ErrOperationInFlight.
func (c *SessionController) Login(ctx context.Context, in ports.LoginInput) error {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return domain.ErrOperationInFlight
	}
	epoch := c.epoch
	st := c.state
	st.Loading = true
	st.Err = ""
	st.Phase = domain.PhaseAuthenticating
	c.setStateLocked(st)
	c.mu.Unlock()

	payload, err := c.api.Login(ctx, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		// session changed while the call was in flight; discard the result
		c.log.Warn().Msg("stale login response discarded")
		return domain.ErrSessionSuperseded
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginFailureLabel(err)).Inc()
		c.failOperationLocked(err)
		return err
	}
	return c.adoptTokenLocked(ctx, payload, true)
}

// Register creates an account. It never authenticates; it only reports the
// outcome.
func (c *SessionController) Register(ctx context.Context, in ports.RegisterInput) (ports.RegisterOutcome, error) {
	release, err := c.beginOperation()
	if err != nil {
		return ports.RegisterOutcome{}, err
	}

	outcome, err := c.api.Register(ctx, in)
	release(err)
	if err != nil {
		return ports.RegisterOutcome{}, err
	}
	return outcome, nil
}

// VerifyCode confirms a one-time code. On success it returns the issued
// token; when autoLogin is set the token is also adopted as the current
// session, exactly as a successful login would be. autoRedirect controls
// whether adoption navigates to the role landing route; verification flows
// embedded in another screen keep the user where they are.
func (c *SessionController) VerifyCode(ctx context.Context, email, code string, autoRedirect, autoLogin bool) (string, error) {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return "", domain.ErrOperationInFlight
	}
	epoch := c.epoch
	st := c.state
	st.Loading = true
	st.Err = ""
	c.setStateLocked(st)
	c.mu.Unlock()

	payload, err := c.api.VerifyCode(ctx, email, code)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return "", domain.ErrSessionSuperseded
	}
	if err != nil {
		c.failOperationLocked(err)
		return "", err
	}
	if autoLogin {
		if err := c.adoptTokenLocked(ctx, payload, autoRedirect); err != nil {
			return "", err
		}
		return payload.Token, nil
	}

	st = c.state
	st.Loading = false
	c.setStateLocked(st)
	return payload.Token, nil
}

// ResendCode requests a fresh one-time code. Server-side refusals and
// transport failures are normalized into one error path.
func (c *SessionController) ResendCode(ctx context.Context, email, templateType string) error {
	release, err := c.beginOperation()
	if err != nil {
		return err
	}
	err = c.api.ResendCode(ctx, email, templateType)
	release(err)
	if err == nil {
		c.notifier.ShowSuccess("A new verification code is on its way.")
	}
	return err
}

// ResetPassword asks the server to start a password reset for email.
func (c *SessionController) ResetPassword(ctx context.Context, email string) error {
	release, err := c.beginOperation()
	if err != nil {
		return err
	}
	err = c.api.ResetPassword(ctx, email)
	release(err)
	if err == nil {
		c.notifier.ShowSuccess("Password reset instructions sent.")
	}
	return err
}

// Logout tears the session down. Always safe to call, even from Anonymous:
// storage is cleared defensively either way. Cleanup order is fixed: cancel
// timers, drop the profile cache, clear storage, publish Anonymous,
// navigate.
func (c *SessionController) Logout(ctx context.Context, notify bool) {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		c.log.Warn().Msg("logout ignored while an operation is in flight")
		return
	}
	wasAuthenticated := c.state.Authenticated
	if wasAuthenticated {
		st := c.state
		st.Phase = domain.PhaseLoggingOut
		c.setStateLocked(st)
	}
	c.clearSessionLocked(ctx)
	c.navigator.NavigateTo(domain.RouteLanding)
	c.mu.Unlock()

	if notify && wasAuthenticated {
		c.notifier.ShowInfo("You have been signed out.")
	}
}

// beginOperation flips the loading flag for a non-transition operation
// (register, resend, reset) and returns a release func that clears it and
// surfaces a failure notification at most once.
func (c *SessionController) beginOperation() (func(error), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Loading {
		return nil, domain.ErrOperationInFlight
	}
	st := c.state
	st.Loading = true
	st.Err = ""
	c.setStateLocked(st)

	return func(opErr error) {
		c.mu.Lock()
		st := c.state
		st.Loading = false
		if opErr != nil {
			st.Err = opErr.Error()
		}
		c.setStateLocked(st)
		c.mu.Unlock()
		if opErr != nil {
			c.notifier.ShowError(opErr.Error())
		}
	}, nil
}

// adoptTokenLocked installs a freshly acquired credential as the current
// session. The token is decoded first: an unreadable token is a hard failure
// and forces a full logout, never a half-applied state. Persistence
// completes before the Authenticated state is published. redirect decides
// whether the caller is taken to the role landing route afterwards.
func (c *SessionController) adoptTokenLocked(ctx context.Context, payload ports.AuthPayload, redirect bool) error {
	user, ok := c.inspector.ExtractUserInfo(payload.Token)
	if !ok {
		c.log.Error().Msg("server returned an undecodable token")
		metrics.LoginsTotal.WithLabelValues("decode_error").Inc()
		c.clearSessionLocked(ctx)
		c.notifier.ShowError("Sign-in failed: the server returned an unreadable credential.")
		return domain.ErrMalformedToken
	}

	if err := c.creds.SaveSession(ctx, payload.Token, payload.RefreshToken, user); err != nil {
		c.log.Error().Err(err).Msg("persisting credentials failed")
		c.clearSessionLocked(ctx)
		c.notifier.ShowError("Sign-in failed: credentials could not be saved.")
		return err
	}

	c.epoch++
	epoch := c.epoch
	c.installSessionLocked(payload.Token, user)
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	if c.profiles != nil {
		go c.refreshProfile(epoch)
	}
	if redirect {
		c.navigator.NavigateTo(domain.LandingRoute(user.Role))
	}
	return nil
}

// installSessionLocked programs the expiration schedule for token and
// publishes the Authenticated state. The schedule replaces any previous one
// before the new state is visible. The callbacks capture the token they were
// armed for: the scheduler's generation check runs before the controller
// lock is taken, so the handlers re-verify identity themselves.
func (c *SessionController) installSessionLocked(token string, user domain.User) {
	c.scheduler.Schedule(token,
		func() { c.handleWarn(token) },
		func() { c.handleExpire(token) })
	u := user
	c.setStateLocked(domain.AuthState{
		Phase:         domain.PhaseAuthenticated,
		Authenticated: true,
		User:          &u,
		Token:         token,
	})
}

// clearSessionLocked performs the shared teardown: cancel timers, drop the
// profile cache, clear storage, publish Anonymous. Reordering the last two
// would let a guard observe stale storage.
func (c *SessionController) clearSessionLocked(ctx context.Context) {
	c.scheduler.Cancel()
	c.creds.RemoveProfile(ctx)
	if err := c.creds.Clear(ctx); err != nil {
		c.log.Error().Err(err).Msg("clearing credential storage failed")
	}
	c.epoch++
	c.setStateLocked(domain.Anonymous())
}

// failOperationLocked resolves a failed transition attempt: loading is
// cleared, the previous phase is restored, and the failure is surfaced
// through the notifier exactly once.
func (c *SessionController) failOperationLocked(err error) {
	st := c.state
	st.Loading = false
	st.Err = err.Error()
	if st.Authenticated {
		st.Phase = domain.PhaseAuthenticated
	} else {
		st.Phase = domain.PhaseAnonymous
	}
	c.setStateLocked(st)
	c.notifier.ShowError(err.Error())
}

// handleWarn runs at the warn instant of the token it was armed for. A
// re-login may have replaced the session between the timer firing and this
// callback acquiring the lock, so the token is compared against the live
// state; a mismatch means the warning belongs to a session that no longer
// exists.
func (c *SessionController) handleWarn(token string) {
	c.mu.Lock()
	current := c.state.Authenticated && c.state.Token == token
	c.mu.Unlock()
	if !current {
		return
	}
	c.log.Info().Msg("session close to expiry")
	metrics.ExpiryWarningsTotal.Inc()
	c.notifier.ShowWarning("Your session is about to expire. Save your work and sign in again.")
}

// handleExpire runs when a timer declares token dead. The cleanup matches an
// explicit logout, plus the mandatory expiry notification. The token check
// under the lock is what stops a superseded token's timer from tearing down
// the session that replaced it.
func (c *SessionController) handleExpire(token string) {
	ctx := context.Background()
	c.mu.Lock()
	if !c.state.Authenticated || c.state.Token != token {
		c.mu.Unlock()
		return
	}
	metrics.SessionsExpiredTotal.WithLabelValues("timer").Inc()
	c.clearSessionLocked(ctx)
	c.navigator.NavigateTo(domain.RouteLanding)
	c.mu.Unlock()

	c.notifier.ShowWarning("Your session has expired. Please sign in again.")
}

// refreshProfile loads the extended profile after login. Failure is logged
// and counted, never surfaced: it must not undo authentication. The epoch
// check discards results that arrive after the session they belong to ended.
func (c *SessionController) refreshProfile(epoch uint64) {
	ctx := context.Background()
	profile, err := c.profiles.LoadProfile(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("profile refresh failed")
		metrics.ProfileRefreshFailuresTotal.Inc()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		c.log.Debug().Msg("stale profile response discarded")
		return
	}
	if err := c.creds.SaveProfile(ctx, profile); err != nil {
		c.log.Warn().Err(err).Msg("caching profile failed")
	}
}

// setStateLocked records and publishes the new state. Phase transitions
// outside the state machine and invariant violations are logged, not
// papered over.
func (c *SessionController) setStateLocked(st domain.AuthState) {
	prev := c.state
	if st.Phase != prev.Phase && !prev.Phase.CanTransitionTo(st.Phase) {
		c.log.Warn().
			Str("from", string(prev.Phase)).
			Str("to", string(st.Phase)).
			Msg("unexpected session phase transition")
	}
	if !st.Valid() {
		c.log.Error().Str("phase", string(st.Phase)).Msg("auth state invariant violated")
	}
	c.state = st
	c.feed.Publish(st)
}

func loginFailureLabel(err error) string {
	if errors.Is(err, domain.ErrUnreachable) {
		return "network_error"
	}
	return "rejected"
}
