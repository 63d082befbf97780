package eventchannel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/heartmarshall/translation-desk/internal/config"
	"github.com/heartmarshall/translation-desk/internal/metrics"
)

// Handler receives the data of one push event. Handlers run sequentially
// on the channel's read goroutine in delivery order.
type Handler func(ctx context.Context, data json.RawMessage)

// Subscription identifies one On registration.
type Subscription struct {
	event string
	id    uint64
}

// TokenSource supplies the bearer token used during the handshake.
type TokenSource interface {
	Token() string
}

type registration struct {
	id uint64
	fn Handler
}

// Channel is the single push connection to the backend. Transport failures
// are logged and never returned: callers treat it as best-effort.
type Channel struct {
	url     string
	cfg     config.EventsConfig
	tokens  TokenSource
	dialer  *websocket.Dialer
	metrics *metrics.Metrics
	log     *slog.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	writeMu sync.Mutex

	hmu            sync.RWMutex
	handlers       map[string][]registration
	reconnectHooks map[uint64]func()
	nextID         atomic.Uint64
}

// Option configures a Channel.
type Option func(*Channel)

func WithTokenSource(ts TokenSource) Option {
	return func(c *Channel) { c.tokens = ts }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Channel) { c.metrics = m }
}

// New creates a disconnected Channel for the given websocket URL.
func New(wsURL string, cfg config.EventsConfig, logger *slog.Logger, opts ...Option) *Channel {
	c := &Channel{
		url:            wsURL,
		cfg:            cfg,
		dialer:         &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		log:            logger.With("adapter", "eventchannel"),
		handlers:       make(map[string][]registration),
		reconnectHooks: make(map[uint64]func()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect opens the connection. It is a no-op while a connection (or a
// reconnect cycle) is already active. The first dial happens before Connect
// returns; if it fails, reconnection continues in the background.
func (c *Channel) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.running = true
	c.cancel = cancel
	c.done = make(chan struct{})
	c.mu.Unlock()

	conn, err := c.dial(ctx)
	if err != nil {
		c.log.WarnContext(ctx, "push channel connect failed", slog.String("error", err.Error()))
	} else {
		c.setConn(conn)
	}

	go c.run(runCtx, conn)
}

// Disconnect closes the connection and stops reconnecting. Idempotent.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel, done, conn := c.cancel, c.done, c.conn
	c.mu.Unlock()

	cancel()
	if conn != nil {
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = conn.Close()
	}
	<-done
}

// Connected reports whether a live connection exists right now.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// JoinClient scopes event delivery to the room of clientID.
// It is a silent no-op while disconnected; nothing is queued.
func (c *Channel) JoinClient(clientID string) {
	if clientID == "" {
		return
	}
	if !c.emit(EventJoinClient, roomPayload{ClientID: clientID}) {
		c.log.Debug("join skipped", slog.String("client_id", clientID))
	}
}

// LeaveClient leaves the room of clientID. No-op while disconnected.
func (c *Channel) LeaveClient(clientID string) {
	if clientID == "" {
		return
	}
	if !c.emit(EventLeaveClient, roomPayload{ClientID: clientID}) {
		c.log.Debug("leave skipped", slog.String("client_id", clientID))
	}
}

// On registers fn for event. Several handlers per event are allowed.
func (c *Channel) On(event string, fn Handler) Subscription {
	id := c.nextID.Add(1)
	c.hmu.Lock()
	c.handlers[event] = append(c.handlers[event], registration{id: id, fn: fn})
	c.hmu.Unlock()
	return Subscription{event: event, id: id}
}

// Off removes exactly the registration identified by sub.
func (c *Channel) Off(sub Subscription) {
	c.hmu.Lock()
	defer c.hmu.Unlock()

	regs := c.handlers[sub.event]
	for i, r := range regs {
		if r.id == sub.id {
			next := make([]registration, 0, len(regs)-1)
			next = append(next, regs[:i]...)
			next = append(next, regs[i+1:]...)
			if len(next) == 0 {
				delete(c.handlers, sub.event)
			} else {
				c.handlers[sub.event] = next
			}
			return
		}
	}
}

// OnReconnect registers fn to run after every connection that was
// re-established in the background. The returned func unregisters it.
func (c *Channel) OnReconnect(fn func()) func() {
	id := c.nextID.Add(1)
	c.hmu.Lock()
	c.reconnectHooks[id] = fn
	c.hmu.Unlock()
	return func() {
		c.hmu.Lock()
		delete(c.reconnectHooks, id)
		c.hmu.Unlock()
	}
}

func (c *Channel) run(ctx context.Context, conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		c.running = false
		c.conn = nil
		close(c.done)
		c.mu.Unlock()
		c.metrics.ChannelConnected(false)
	}()

	for {
		if conn == nil {
			conn = c.reconnect(ctx)
			if conn == nil {
				return
			}
			c.setConn(conn)
			c.runReconnectHooks()
		}

		stop := make(chan struct{})
		go c.keepalive(ctx, conn, stop)

		err := c.readLoop(ctx, conn)
		close(stop)
		c.clearConn(conn)
		_ = conn.Close()
		conn = nil

		if ctx.Err() != nil {
			return
		}
		c.log.Warn("push channel lost", slog.String("error", err.Error()))
	}
}

// reconnect dials up to ReconnectAttempts times with a constant delay
// before each attempt. Returns nil when attempts are exhausted or ctx ends.
func (c *Channel) reconnect(ctx context.Context) *websocket.Conn {
	if c.cfg.ReconnectAttempts <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(c.cfg.ReconnectDelay):
	}

	var conn *websocket.Conn
	attempt := 0
	b := retry.WithMaxRetries(uint64(c.cfg.ReconnectAttempts-1), retry.NewConstant(c.cfg.ReconnectDelay))

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		cn, err := c.dial(ctx)
		if err != nil {
			c.metrics.Reconnect(false)
			c.log.Warn("push channel reconnect failed",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			return retry.RetryableError(err)
		}
		c.metrics.Reconnect(true)
		conn = cn
		return nil
	})
	if err != nil {
		if ctx.Err() == nil {
			c.log.Error("push channel gave up reconnecting", slog.Int("attempts", attempt))
		}
		return nil
	}

	c.log.Info("push channel reconnected", slog.Int("attempt", attempt))
	return conn
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	target := c.url
	header := http.Header{}

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			header.Set("Authorization", "Bearer "+token)
			u, err := url.Parse(c.url)
			if err != nil {
				return nil, fmt.Errorf("parse url: %w", err)
			}
			q := u.Query()
			q.Set("token", token)
			u.RawQuery = q.Encode()
			target = u.String()
		}
	}

	conn, _, err := c.dialer.DialContext(ctx, target, header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.url, err)
	}
	return conn, nil
}

func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		messageType, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		env, err := decodeFrame(messageType, raw)
		if err != nil {
			c.log.Debug("push frame dropped", slog.String("error", err.Error()))
			continue
		}
		if env.Event == "" {
			continue
		}

		c.metrics.EventReceived(env.Event)
		c.dispatch(ctx, env)
	}
}

func (c *Channel) dispatch(ctx context.Context, env Envelope) {
	c.hmu.RLock()
	regs := c.handlers[env.Event]
	c.hmu.RUnlock()

	for _, r := range regs {
		c.invoke(ctx, env, r.fn)
	}
}

func (c *Channel) invoke(ctx context.Context, env Envelope, fn Handler) {
	defer func() {
		if rec := recover(); rec != nil {
			c.log.Error("push handler panicked",
				slog.String("event", env.Event),
				slog.Any("panic", rec),
			)
		}
	}()
	fn(ctx, env.Data)
}

// keepalive pings the server and closes conn when ctx ends so that a
// blocked ReadMessage returns.
func (c *Channel) keepalive(ctx context.Context, conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			_ = conn.Close()
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.log.Debug("push ping failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (c *Channel) emit(event string, data any) bool {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return false
	}

	raw, err := encodeFrame(event, data)
	if err != nil {
		c.log.Error("push encode failed", slog.String("event", event), slog.String("error", err.Error()))
		return false
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		c.log.Warn("push emit failed", slog.String("event", event), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *Channel) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.metrics.ChannelConnected(true)
}

func (c *Channel) clearConn(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	c.metrics.ChannelConnected(false)
}

func (c *Channel) runReconnectHooks() {
	c.hmu.RLock()
	hooks := make([]func(), 0, len(c.reconnectHooks))
	for _, fn := range c.reconnectHooks {
		hooks = append(hooks, fn)
	}
	c.hmu.RUnlock()

	for _, fn := range hooks {
		fn()
	}
}
