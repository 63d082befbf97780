package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/translation-desk/internal/adapter/eventchannel"
	"github.com/heartmarshall/translation-desk/internal/adapter/localstate"
	"github.com/heartmarshall/translation-desk/internal/adapter/remote"
	"github.com/heartmarshall/translation-desk/internal/auth"
	"github.com/heartmarshall/translation-desk/internal/config"
	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/metrics"
	"github.com/heartmarshall/translation-desk/internal/service/reconciler"
	"github.com/heartmarshall/translation-desk/internal/service/upload"
	"github.com/heartmarshall/translation-desk/internal/service/workspace"
	"github.com/heartmarshall/translation-desk/internal/store"
)

// App is the root of the desk. It owns every component and their
// lifecycle; the push channel lives exactly as long as the App is started.
type App struct {
	cfg      *config.Config
	log      *slog.Logger
	metrics  *metrics.Metrics
	clock    clockwork.Clock
	validate *validator.Validate
	hc       *http.Client
	state    *localstate.Store

	Store      *store.Store
	Remote     *remote.Client
	Channel    *eventchannel.Channel
	Reconciler *reconciler.Service
	Uploads    *upload.Service
	Workspace  *workspace.Service

	// authFlows counts sign-in/sign-up calls in progress. A 401 seen while
	// one runs belongs to the auth flow and must not end the session.
	authFlows atomic.Int32

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
}

// Option configures an App.
type Option func(*App)

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithClock replaces the clock used for token expiry and polling.
func WithClock(c clockwork.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithHTTPClient replaces the REST client's HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) { a.hc = hc }
}

// New opens the local state and wires all components. Nothing talks to
// the backend until Bootstrap or Start.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	a := &App{
		cfg:      cfg,
		log:      logger,
		clock:    clockwork.NewRealClock(),
		validate: domain.NewValidator(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = metrics.New()
	}

	state, err := localstate.Open(ctx, cfg.State, logger)
	if err != nil {
		return nil, fmt.Errorf("app: open local state: %w", err)
	}
	a.state = state

	a.Store = store.New(logger, store.WithNotificationTTL(cfg.UI.NotificationTTL))

	remoteOpts := []remote.Option{
		remote.WithTokenSource(a),
		remote.WithUnauthorizedHandler(a.onUnauthorized),
		remote.WithMetrics(a.metrics),
	}
	if a.hc != nil {
		remoteOpts = append(remoteOpts, remote.WithHTTPClient(a.hc))
	}
	a.Remote = remote.New(cfg.API, logger, remoteOpts...)

	a.Channel = eventchannel.New(cfg.EventsURL(), cfg.Events, logger,
		eventchannel.WithTokenSource(a),
		eventchannel.WithMetrics(a.metrics),
	)

	a.Reconciler = reconciler.NewService(logger, a.Store, a.Channel, a.Remote,
		reconciler.WithMetrics(a.metrics),
	)
	a.Uploads = upload.NewService(logger, a.Store, a.Remote, cfg.Upload,
		upload.WithClock(a.clock),
		upload.WithValidator(a.validate),
		upload.WithMetrics(a.metrics),
	)
	a.Workspace = workspace.NewService(logger, a.Store, a.Remote, a.Remote,
		workspace.WithValidator(a.validate),
		workspace.WithMetrics(a.metrics),
	)
	return a, nil
}

// Token returns the bearer token of the current session.
func (a *App) Token() string {
	if s := a.Store.Snapshot().Session; s != nil {
		return s.Token
	}
	return ""
}

// Logger returns the root logger.
func (a *App) Logger() *slog.Logger {
	return a.log
}

// Authenticated reports whether somebody is signed in.
func (a *App) Authenticated() bool {
	return a.Store.Snapshot().Authenticated()
}

// Ping checks the local state database.
func (a *App) Ping(ctx context.Context) error {
	return a.state.Ping(ctx)
}

// Metrics returns the collector shared by all components.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// Bootstrap restores the theme and, when a persisted token is still
// valid, the session. An expired token is discarded.
func (a *App) Bootstrap(ctx context.Context) error {
	theme, err := a.state.LoadTheme(ctx)
	if err != nil {
		return fmt.Errorf("app: load theme: %w", err)
	}
	a.Store.Dispatch(store.SetTheme{Theme: theme})

	ps, err := a.state.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("app: load session: %w", err)
	}
	if ps == nil {
		return nil
	}

	claims, err := auth.Inspect(ps.Token, a.clock.Now())
	switch {
	case errors.Is(err, auth.ErrExpired):
		a.log.InfoContext(ctx, "persisted session expired", slog.Time("expired_at", claims.ExpiresAt))
		if err := a.state.ClearSession(ctx); err != nil {
			return fmt.Errorf("app: clear expired session: %w", err)
		}
		return nil
	case err != nil:
		// Opaque tokens are kept; the backend decides with a 401.
		a.log.DebugContext(ctx, "session token not inspectable", slog.String("error", err.Error()))
	}

	user := ps.User
	if user == nil {
		user = claims.User()
	}
	a.Store.Dispatch(store.SetSession{Session: &domain.Session{
		User:          user,
		Authenticated: true,
		Token:         ps.Token,
	}})
	a.log.InfoContext(ctx, "session restored", slog.String("user", displayName(user)))
	return nil
}

// Start begins push reconciliation and connects the channel when a
// session exists. Calling Start twice is a no-op.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return
	}
	a.started = true
	a.mu.Unlock()

	a.Reconciler.Start(ctx)
	if a.Store.Snapshot().Authenticated() {
		a.connect(ctx)
	}
	a.log.InfoContext(ctx, "desk started", slog.String("version", BuildVersion()))
}

func (a *App) connect(ctx context.Context) {
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	if !started {
		return
	}
	a.Channel.Connect(ctx)
	a.Reconciler.Rejoin()
}

// Close tears everything down in reverse order of Start.
func (a *App) Close() error {
	a.Reconciler.Stop()
	a.Uploads.Stop()
	a.Channel.Disconnect()
	a.wg.Wait()

	a.mu.Lock()
	a.started = false
	a.mu.Unlock()

	if err := a.state.Close(); err != nil {
		return fmt.Errorf("app: close local state: %w", err)
	}
	return nil
}

type signInInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignUpInput holds the registration form.
type SignUpInput struct {
	Username        string `json:"username"         validate:"required,min=3,max=50"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// SignIn authenticates, persists the session and connects the channel.
// Input is validated before any request is made.
func (a *App) SignIn(ctx context.Context, username, password string) (*domain.User, error) {
	in := signInInput{Username: strings.TrimSpace(username), Password: password}
	if err := a.validate.Struct(in); err != nil {
		err = domain.FromValidator(err)
		a.Store.NotifyError("无法登录", err)
		return nil, err
	}

	a.authFlows.Add(1)
	defer a.authFlows.Add(-1)

	res, err := a.Remote.SignIn(ctx, in.Username, in.Password)
	if err != nil {
		a.Store.NotifyError("登录失败", err)
		return nil, fmt.Errorf("app: sign in: %w", err)
	}
	if err := a.establish(ctx, res); err != nil {
		return nil, err
	}
	a.Store.Notify(domain.NotificationSuccess, "登录成功", "欢迎回来，"+res.User.DisplayName())
	return &res.User, nil
}

// SignUp registers an account and signs in with it.
func (a *App) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := a.validate.Struct(in); err != nil {
		err = domain.FromValidator(err)
		a.Store.NotifyError("无法注册", err)
		return nil, err
	}

	a.authFlows.Add(1)
	defer a.authFlows.Add(-1)

	res, err := a.Remote.SignUp(ctx, remote.SignUpRequest{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		a.Store.NotifyError("注册失败", err)
		return nil, fmt.Errorf("app: sign up: %w", err)
	}
	if err := a.establish(ctx, res); err != nil {
		return nil, err
	}
	a.Store.Notify(domain.NotificationSuccess, "注册成功", "欢迎，"+res.User.DisplayName())
	return &res.User, nil
}

func (a *App) establish(ctx context.Context, res *remote.AuthResult) error {
	if err := a.state.SaveSession(ctx, res.Token, res.User); err != nil {
		a.Store.NotifyError("登录失败", err)
		return fmt.Errorf("app: persist session: %w", err)
	}
	user := res.User
	a.Store.Dispatch(store.SetSession{Session: &domain.Session{
		User:          &user,
		Authenticated: true,
		Token:         res.Token,
	}})
	a.log.InfoContext(ctx, "signed in", slog.String("user", user.Username))
	a.connect(ctx)
	return nil
}

// Logout ends the session locally even when the backend call fails.
func (a *App) Logout(ctx context.Context) error {
	if err := a.Remote.Logout(ctx); err != nil {
		a.log.WarnContext(ctx, "remote logout failed", slog.String("error", err.Error()))
	}

	a.Uploads.Stop()
	a.Channel.Disconnect()
	if err := a.endSession(ctx); err != nil {
		return err
	}
	a.Store.Notify(domain.NotificationInfo, "已退出登录", "")
	return nil
}

func (a *App) endSession(ctx context.Context) error {
	a.Store.Logout()
	if err := a.state.ClearSession(ctx); err != nil {
		return fmt.Errorf("app: clear session: %w", err)
	}
	return nil
}

// onUnauthorized runs on every 401 outside the auth endpoints. The session
// state is cleared at once; transport teardown happens in the background
// because the failing call may come from a goroutine that teardown waits on.
func (a *App) onUnauthorized(path string) {
	if a.authFlows.Load() > 0 || !a.Store.Snapshot().Authenticated() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.log.Warn("session rejected by backend", slog.String("path", path))
	if err := a.endSession(ctx); err != nil {
		a.log.Error("clear rejected session", slog.String("error", err.Error()))
	}
	a.Store.NotifyError("会话已失效", domain.ErrUnauthorized)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.Uploads.Stop()
		a.Channel.Disconnect()
	}()
}

type themeInput struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

// SetTheme switches and persists the theme.
func (a *App) SetTheme(ctx context.Context, theme string) error {
	if err := a.validate.Struct(themeInput{Theme: theme}); err != nil {
		return domain.FromValidator(err)
	}
	if err := a.state.SaveTheme(ctx, theme); err != nil {
		return fmt.Errorf("app: save theme: %w", err)
	}
	a.Store.Dispatch(store.SetTheme{Theme: theme})
	return nil
}

func displayName(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.DisplayName()
}
