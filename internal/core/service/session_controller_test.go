package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/torneoops/matchday/internal/core/domain"
	"github.com/torneoops/matchday/internal/core/ports"
	"github.com/torneoops/matchday/internal/infrastructure/storage"
)

// stubAuthAPI scripts the remote authentication server. When gate is set,
// Login blocks until the gate closes, which lets tests exercise in-flight
// behavior.
type stubAuthAPI struct {
	payload    ports.AuthPayload
	err        error
	gate       chan struct{}
	loginCalls int

	verifyPayload ports.AuthPayload
	verifyErr     error

	registerOutcome ports.RegisterOutcome
	registerErr     error

	resendErr error
	resetErr  error
}

func (s *stubAuthAPI) Login(ctx context.Context, in ports.LoginInput) (ports.AuthPayload, error) {
	s.loginCalls++
	if s.gate != nil {
		<-s.gate
	}
	return s.payload, s.err
}

func (s *stubAuthAPI) Register(ctx context.Context, in ports.RegisterInput) (ports.RegisterOutcome, error) {
	return s.registerOutcome, s.registerErr
}

func (s *stubAuthAPI) VerifyCode(ctx context.Context, email, code string) (ports.AuthPayload, error) {
	return s.verifyPayload, s.verifyErr
}

func (s *stubAuthAPI) ResendCode(ctx context.Context, email, templateType string) error {
	return s.resendErr
}

func (s *stubAuthAPI) ResetPassword(ctx context.Context, email string) error {
	return s.resetErr
}

// stubProfiles scripts the extended-profile service. done receives one value
// per LoadProfile return; gate, when set, blocks the call first.
type stubProfiles struct {
	profile domain.Profile
	err     error
	gate    chan struct{}
	done    chan struct{}
}

func (s *stubProfiles) LoadProfile(ctx context.Context) (domain.Profile, error) {
	if s.gate != nil {
		<-s.gate
	}
	if s.done != nil {
		defer func() { s.done <- struct{}{} }()
	}
	return s.profile, s.err
}

type controllerFixture struct {
	clock      *fakeClock
	kv         *storage.MemoryStore
	creds      *CredentialStore
	api        *stubAuthAPI
	profiles   *stubProfiles
	notifier   *recordingNotifier
	navigator  *recordingNavigator
	controller *SessionController
}

func newFixture(t *testing.T) *controllerFixture {
	t.Helper()
	clock := newFakeClock(testEpoch)
	kv := storage.NewMemoryStore()
	creds := NewCredentialStore(kv, nopLogger())
	inspector := NewTokenInspector()
	api := &stubAuthAPI{}
	profiles := &stubProfiles{}
	notifier := &recordingNotifier{}
	navigator := &recordingNavigator{}

	controller := NewSessionController(SessionControllerDeps{
		Clock:     clock,
		Inspector: inspector,
		Creds:     creds,
		Scheduler: NewExpirationScheduler(clock, inspector, warnLead, nopLogger()),
		API:       api,
		Profiles:  profiles,
		Notifier:  notifier,
		Navigator: navigator,
		Log:       nopLogger(),
	})

	return &controllerFixture{
		clock:      clock,
		kv:         kv,
		creds:      creds,
		api:        api,
		profiles:   profiles,
		notifier:   notifier,
		navigator:  navigator,
		controller: controller,
	}
}

func (f *controllerFixture) login(t *testing.T, lifetime time.Duration) {
	t.Helper()
	f.api.payload = ports.AuthPayload{Token: mintExpiringToken(t, f.clock.Now().Add(lifetime))}
	f.api.err = nil
	err := f.controller.Login(context.Background(), ports.LoginInput{
		Email:    "keeper@club.example",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestController_Login_Success(t *testing.T) {
	f := newFixture(t)

	// whoever reacts to the authenticated announcement must already find a
	// persisted token
	var tokenAtAnnounce string
	f.controller.Subscribe(func(st domain.AuthState) {
		if st.Authenticated {
			tokenAtAnnounce, _ = f.creds.Token(context.Background())
		}
	})

	f.login(t, time.Hour)

	st := f.controller.CurrentState()
	if !st.Authenticated || st.Phase != domain.PhaseAuthenticated {
		t.Fatalf("expected authenticated state, got %+v", st)
	}
	if st.Loading {
		t.Fatalf("loading stuck true after login")
	}
	if st.User == nil || st.User.Email != "keeper@club.example" {
		t.Fatalf("user not derived from token claims: %+v", st.User)
	}
	if tokenAtAnnounce == "" {
		t.Fatalf("persistence must complete before the authenticated state is published")
	}
	if f.navigator.last() != domain.RouteTeamHome {
		t.Fatalf("expected role-based navigation to %s, got %s", domain.RouteTeamHome, f.navigator.last())
	}
}

func TestController_Login_Rejected(t *testing.T) {
	f := newFixture(t)
	f.api.err = errors.New("invalid credentials")

	err := f.controller.Login(context.Background(), ports.LoginInput{Email: "x@y.z", Password: "wrong"})
	if err == nil {
		t.Fatalf("expected error")
	}

	st := f.controller.CurrentState()
	if st.Authenticated || st.Phase != domain.PhaseAnonymous {
		t.Fatalf("failed login must return to anonymous: %+v", st)
	}
	if st.Loading {
		t.Fatalf("loading stuck true after failure")
	}
	if st.Err == "" {
		t.Fatalf("error not surfaced on state")
	}
	if f.notifier.errorCount() != 1 {
		t.Fatalf("exactly one error toast per failed operation, got %d", f.notifier.errorCount())
	}
}

func TestController_Login_NetworkFailure(t *testing.T) {
	f := newFixture(t)
	f.api.err = domain.ErrUnreachable

	err := f.controller.Login(context.Background(), ports.LoginInput{Email: "x@y.z", Password: "pw"})
	if !errors.Is(err, domain.ErrUnreachable) {
		t.Fatalf("expected unreachable error, got %v", err)
	}
	if st := f.controller.CurrentState(); st.Authenticated || st.Loading {
		t.Fatalf("state must be anonymous and settled, got %+v", st)
	}
}

func TestController_Login_UndecodableToken_NeverAuthenticates(t *testing.T) {
	f := newFixture(t)
	f.api.payload = ports.AuthPayload{Token: "complete-garbage"}

	err := f.controller.Login(context.Background(), ports.LoginInput{Email: "x@y.z", Password: "pw"})
	if !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}

	st := f.controller.CurrentState()
	if st.Authenticated {
		t.Fatalf("an undecodable token must never authenticate")
	}
	if _, ok := f.creds.Token(context.Background()); ok {
		t.Fatalf("storage must be cleared after a decode failure")
	}
	if f.notifier.errorCount() != 1 {
		t.Fatalf("decode failure must surface exactly one error, got %d", f.notifier.errorCount())
	}
}

func TestController_Login_ReentrantRejected(t *testing.T) {
	f := newFixture(t)
	f.api.gate = make(chan struct{})
	f.api.payload = ports.AuthPayload{Token: mintExpiringToken(t, testEpoch.Add(time.Hour))}

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- f.controller.Login(context.Background(), ports.LoginInput{Email: "a@b.c", Password: "pw123456"})
	}()

	// wait for the first login to flip loading
	deadline := time.After(2 * time.Second)
	for !f.controller.CurrentState().Loading {
		select {
		case <-deadline:
			t.Fatalf("first login never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := f.controller.Login(context.Background(), ports.LoginInput{Email: "a@b.c", Password: "pw123456"}); !errors.Is(err, domain.ErrOperationInFlight) {
		t.Fatalf("expected ErrOperationInFlight, got %v", err)
	}

	close(f.api.gate)
	if err := <-firstDone; err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	if st := f.controller.CurrentState(); st.Loading || !st.Authenticated {
		t.Fatalf("first login must settle authenticated: %+v", st)
	}
	if f.api.loginCalls != 1 {
		t.Fatalf("the rejected call must not reach the network, got %d calls", f.api.loginCalls)
	}
}

func TestController_Bootstrap_RehydratesWithoutNetwork(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := mintExpiringToken(t, testEpoch.Add(time.Hour))
	user := domain.User{ID: "u1", Email: "keeper@club.example", Role: domain.RoleTeam}
	if err := f.creds.SaveSession(ctx, token, "", user); err != nil {
		t.Fatalf("seed storage: %v", err)
	}

	f.controller.Bootstrap(ctx)

	st := f.controller.CurrentState()
	if !st.Authenticated {
		t.Fatalf("expected rehydrated session, got %+v", st)
	}
	if st.User == nil || st.User.ID != "u1" {
		t.Fatalf("user not restored from cached record: %+v", st.User)
	}
	if f.api.loginCalls != 0 {
		t.Fatalf("rehydration must not touch the network, got %d calls", f.api.loginCalls)
	}
	if f.clock.PendingTimers() != 2 {
		t.Fatalf("rehydration must install the expiration schedule, %d timers pending", f.clock.PendingTimers())
	}
}

func TestController_Bootstrap_ExpiredToken_SilentCleanup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := mintExpiringToken(t, testEpoch.Add(-time.Minute))
	if err := f.creds.SaveSession(ctx, token, "r", domain.User{ID: "u1"}); err != nil {
		t.Fatalf("seed storage: %v", err)
	}

	f.controller.Bootstrap(ctx)

	if st := f.controller.CurrentState(); st.Authenticated {
		t.Fatalf("expired token must not rehydrate: %+v", st)
	}
	if _, ok := f.creds.Token(ctx); ok {
		t.Fatalf("persisted entries must be removed")
	}
	// silent: no user-facing notification of any kind
	if f.notifier.errorCount() != 0 || f.notifier.warningCount() != 0 {
		t.Fatalf("cold-boot cleanup must be silent")
	}
}

func TestController_Bootstrap_CorruptUserRecord_RebuiltFromClaims(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := mintExpiringToken(t, testEpoch.Add(time.Hour))
	if err := f.kv.Set(ctx, "auth.token", token); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	if err := f.kv.Set(ctx, "auth.user", "{broken"); err != nil {
		t.Fatalf("seed corrupt user: %v", err)
	}

	f.controller.Bootstrap(ctx)

	st := f.controller.CurrentState()
	if !st.Authenticated {
		t.Fatalf("valid token must still rehydrate: %+v", st)
	}
	if st.User == nil || st.User.Email != "keeper@club.example" {
		t.Fatalf("user must be rebuilt from token claims: %+v", st.User)
	}
}

func TestController_ExpiryLifecycle(t *testing.T) {
	f := newFixture(t)
	f.login(t, time.Hour)
	ctx := context.Background()

	// warn at expiry minus the lead time
	f.clock.Advance(55 * time.Minute)
	if f.notifier.warningCount() != 1 {
		t.Fatalf("expected exactly one near-expiry warning, got %d", f.notifier.warningCount())
	}
	if !f.controller.CurrentState().Authenticated {
		t.Fatalf("warning must not change the session state")
	}

	// teardown at expiry
	f.clock.Advance(5 * time.Minute)
	st := f.controller.CurrentState()
	if st.Authenticated || st.Phase != domain.PhaseAnonymous {
		t.Fatalf("session must end at expiry: %+v", st)
	}
	if f.notifier.warningCount() != 2 {
		t.Fatalf("expiry must notify exactly once, warnings=%d", f.notifier.warningCount())
	}
	if _, ok := f.creds.Token(ctx); ok {
		t.Fatalf("storage must be cleared at expiry")
	}
	if f.navigator.last() != domain.RouteLanding {
		t.Fatalf("expiry must navigate to the landing route, got %s", f.navigator.last())
	}

	// nothing left to fire
	f.clock.Advance(24 * time.Hour)
	if f.notifier.warningCount() != 2 {
		t.Fatalf("timers fired after teardown")
	}
}

func TestController_ReloginSupersedesOldTimers(t *testing.T) {
	f := newFixture(t)
	f.login(t, time.Hour)

	f.clock.Advance(1_000 * time.Second)
	f.login(t, 2*time.Hour)

	// the first token's warn (55m) and expire (60m) instants pass
	f.clock.Advance(time.Hour)
	if f.notifier.warningCount() != 0 {
		t.Fatalf("superseded schedule fired a warning")
	}
	if !f.controller.CurrentState().Authenticated {
		t.Fatalf("second session must survive the first token's lifetime")
	}

	// the second token's own schedule completes
	f.clock.Advance(time.Hour)
	if f.controller.CurrentState().Authenticated {
		t.Fatalf("second session must end at its own expiry")
	}
}

func TestController_StaleTimerCallbacks_CannotTouchReplacementSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, time.Hour)
	first := f.controller.CurrentState().Token

	// re-login half way through the first token's lifetime
	f.clock.Advance(30 * time.Minute)
	f.login(t, 3*time.Hour)
	second := f.controller.CurrentState().Token

	// a timer armed for the first token may have fired concurrently with the
	// re-login and only now reaches the controller; it must recognize the
	// session changed underneath it
	f.controller.handleExpire(first)
	f.controller.handleWarn(first)

	st := f.controller.CurrentState()
	if !st.Authenticated || st.Token != second {
		t.Fatalf("a superseded token's timer ended the replacement session: %+v", st)
	}
	if tok, ok := f.creds.Token(ctx); !ok || tok != second {
		t.Fatalf("storage for the live session was disturbed: %q ok=%t", tok, ok)
	}
	if f.notifier.warningCount() != 0 {
		t.Fatalf("no expiry notice may be shown for a token that is no longer current, got %d", f.notifier.warningCount())
	}

	// the second session still runs its own schedule to completion
	f.clock.Advance(3 * time.Hour)
	if f.controller.CurrentState().Authenticated {
		t.Fatalf("second session must end at its own expiry")
	}
}

func TestController_Logout_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, time.Hour)

	f.controller.Logout(ctx, true)
	f.controller.Logout(ctx, true) // second call must be harmless

	st := f.controller.CurrentState()
	if st.Authenticated || st.Phase != domain.PhaseAnonymous {
		t.Fatalf("expected anonymous terminal state: %+v", st)
	}
	if _, ok := f.creds.Token(ctx); ok {
		t.Fatalf("storage must be cleared")
	}
	if len(f.notifier.infos) != 1 {
		t.Fatalf("only the first logout should notify, got %d", len(f.notifier.infos))
	}
	if f.clock.PendingTimers() != 0 {
		t.Fatalf("timers survived logout")
	}
}

func TestController_Logout_FromAnonymous_ClearsDefensively(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.kv.Set(ctx, "auth.token", "orphaned"); err != nil {
		t.Fatalf("seed orphan: %v", err)
	}

	f.controller.Logout(ctx, true)

	if _, present, _ := f.kv.Get(ctx, "auth.token"); present {
		t.Fatalf("logout from anonymous must still clear storage")
	}
	if len(f.notifier.infos) != 0 {
		t.Fatalf("no sign-out toast without a session")
	}
}

func TestController_ProfileRefresh_FailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.profiles.err = errors.New("profile service down")
	f.profiles.done = make(chan struct{}, 1)

	f.login(t, time.Hour)

	select {
	case <-f.profiles.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("profile refresh never ran")
	}

	if !f.controller.CurrentState().Authenticated {
		t.Fatalf("profile failure must not undo authentication")
	}
	if f.notifier.errorCount() != 0 {
		t.Fatalf("profile failure is logged, not toasted")
	}
}

func TestController_ProfileRefresh_StaleResponseDiscarded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.profiles.gate = make(chan struct{})
	f.profiles.done = make(chan struct{}, 1)
	f.profiles.profile = domain.Profile{UserID: "u1", TeamID: "t-9"}

	f.login(t, time.Hour)
	f.controller.Logout(ctx, false)

	// the in-flight profile call completes after logout
	close(f.profiles.gate)
	select {
	case <-f.profiles.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("profile refresh never completed")
	}

	// give the goroutine a moment to (wrongly) apply the result
	for i := 0; i < 100; i++ {
		time.Sleep(time.Millisecond)
		if _, ok := f.creds.Profile(ctx); ok {
			t.Fatalf("stale profile response must be discarded after logout")
		}
	}
}

func TestController_ProfileRefresh_CachesOnSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.profiles.profile = domain.Profile{UserID: "u1", TeamID: "t-9"}
	f.profiles.done = make(chan struct{}, 1)

	f.login(t, time.Hour)

	select {
	case <-f.profiles.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("profile refresh never ran")
	}

	deadline := time.After(2 * time.Second)
	for {
		if p, ok := f.creds.Profile(ctx); ok {
			if p.TeamID != "t-9" {
				t.Fatalf("wrong profile cached: %+v", p)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("profile never cached")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestController_VerifyCode_AutoLogin(t *testing.T) {
	f := newFixture(t)
	f.api.verifyPayload = ports.AuthPayload{Token: mintExpiringToken(t, testEpoch.Add(time.Hour))}

	token, err := f.controller.VerifyCode(context.Background(), "keeper@club.example", "123456", true, true)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if token == "" {
		t.Fatalf("expected the issued token back")
	}
	if !f.controller.CurrentState().Authenticated {
		t.Fatalf("autoLogin must behave like a successful login")
	}
	if f.navigator.last() != domain.RouteTeamHome {
		t.Fatalf("autoRedirect must land on the role route, got %s", f.navigator.last())
	}
}

func TestController_VerifyCode_AutoLoginWithoutRedirect(t *testing.T) {
	f := newFixture(t)
	f.api.verifyPayload = ports.AuthPayload{Token: mintExpiringToken(t, testEpoch.Add(time.Hour))}

	_, err := f.controller.VerifyCode(context.Background(), "keeper@club.example", "123456", false, true)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !f.controller.CurrentState().Authenticated {
		t.Fatalf("the session must still be adopted")
	}
	if f.navigator.last() != "" {
		t.Fatalf("autoRedirect=false must stay on the current screen, navigated to %s", f.navigator.last())
	}
}

func TestController_VerifyCode_NoAutoLogin(t *testing.T) {
	f := newFixture(t)
	f.api.verifyPayload = ports.AuthPayload{Token: mintExpiringToken(t, testEpoch.Add(time.Hour))}

	token, err := f.controller.VerifyCode(context.Background(), "keeper@club.example", "123456", true, false)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if token == "" {
		t.Fatalf("expected the issued token back")
	}
	st := f.controller.CurrentState()
	if st.Authenticated {
		t.Fatalf("verification without autoLogin must not authenticate")
	}
	if st.Loading {
		t.Fatalf("loading stuck after verification")
	}
}

func TestController_Register_DoesNotAuthenticate(t *testing.T) {
	f := newFixture(t)
	f.api.registerOutcome = ports.RegisterOutcome{Success: true, UserID: "u77", Email: "new@club.example"}

	outcome, err := f.controller.Register(context.Background(), ports.RegisterInput{
		Email: "new@club.example", Password: "pw123456", FirstName: "N", LastName: "O", Role: "team",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if outcome.UserID != "u77" {
		t.Fatalf("outcome not reported: %+v", outcome)
	}
	st := f.controller.CurrentState()
	if st.Authenticated || st.Loading {
		t.Fatalf("registration must not authenticate or leave loading set: %+v", st)
	}
}

func TestController_Register_FailureResolvesLoading(t *testing.T) {
	f := newFixture(t)
	f.api.registerErr = errors.New("email already taken")

	_, err := f.controller.Register(context.Background(), ports.RegisterInput{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if st := f.controller.CurrentState(); st.Loading {
		t.Fatalf("loading stuck after failed registration")
	}
	if f.notifier.errorCount() != 1 {
		t.Fatalf("exactly one error toast, got %d", f.notifier.errorCount())
	}
}

func TestController_ResendCode_NormalizedFailure(t *testing.T) {
	f := newFixture(t)
	f.api.resendErr = errors.New("mail backend refused")

	if err := f.controller.ResendCode(context.Background(), "keeper@club.example", "verification"); err == nil {
		t.Fatalf("expected error")
	}
	if f.notifier.errorCount() != 1 {
		t.Fatalf("exactly one error toast, got %d", f.notifier.errorCount())
	}
	if st := f.controller.CurrentState(); st.Loading {
		t.Fatalf("loading stuck after resend failure")
	}
}

func TestController_LoginWithExpiredToken_ExpiresNextTick(t *testing.T) {
	f := newFixture(t)
	f.api.payload = ports.AuthPayload{Token: mintExpiringToken(t, testEpoch.Add(-time.Second))}

	err := f.controller.Login(context.Background(), ports.LoginInput{Email: "x@y.z", Password: "pw123456"})
	if err != nil {
		t.Fatalf("login itself succeeds, expiry is the scheduler's call: %v", err)
	}

	f.clock.Advance(0)
	if f.controller.CurrentState().Authenticated {
		t.Fatalf("a dead token must be expired on the next tick")
	}
	if f.clock.PendingTimers() != 0 {
		t.Fatalf("no timers may remain for a dead token")
	}
}
