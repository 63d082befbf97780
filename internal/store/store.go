// Package store holds the single authoritative in-memory state of the desk.
//
// All mutations go through Dispatch and produce a new immutable State.
// Listeners receive snapshots in dispatch order, outside the store's lock,
// so they may dispatch again.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

const (
	notificationKey        = "current"
	defaultNotificationTTL = 4 * time.Second
)

// Listener observes published snapshots.
type Listener func(State)

// Store is safe for concurrent use.
type Store struct {
	log *slog.Logger
	ttl time.Duration

	mu       sync.Mutex
	state    State
	pending  []State
	draining bool

	listeners map[uint64]Listener
	order     []uint64
	nextID    uint64

	notes *cache.Cache

	projVersion uint64
	projection  []domain.ProjectedItem
	projected   bool
}

// Option configures a Store.
type Option func(*Store)

// WithNotificationTTL sets how long a notification stays visible.
func WithNotificationTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithInitialState seeds the store, mainly for tests.
func WithInitialState(st State) Option {
	return func(s *Store) { s.state = st }
}

// New creates an empty store.
func New(logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		log:       logger.With("service", "store"),
		ttl:       defaultNotificationTTL,
		state:     State{Upload: domain.ClosedUpload()},
		listeners: make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	cleanup := s.ttl / 4
	if cleanup < 10*time.Millisecond {
		cleanup = 10 * time.Millisecond
	}
	s.notes = cache.New(s.ttl, cleanup)
	s.notes.OnEvicted(func(string, any) { s.republish() })

	return s
}

// Dispatch applies a and returns the resulting snapshot. Unknown actions
// leave the state untouched and are logged.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	next, res := reduce(s.state, a)
	switch res {
	case applied:
		next.Version = s.state.Version + 1
		s.state = next
		s.pending = append(s.pending, next)
	case unknown:
		next = s.state
		kind := "<nil>"
		if a != nil {
			kind = a.Kind()
		}
		s.log.Warn("unknown store action ignored", slog.String("kind", kind))
	default:
		next = s.state
	}
	drain := s.claimDrain()
	s.mu.Unlock()

	if drain {
		s.drain()
	}
	return s.decorate(next)
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()
	return s.decorate(st)
}

// Subscribe registers fn for every published snapshot. The returned func
// removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.listeners[id]; !ok {
			return
		}
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Projection returns the PDF session view of the current material list,
// recomputed only when the state version changes.
func (s *Store) Projection() []domain.ProjectedItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.projected || s.projVersion != s.state.Version {
		s.projection = ProjectPDFSessions(s.state.Materials)
		s.projVersion = s.state.Version
		s.projected = true
	}
	return s.projection
}

// UpdateMaterial merges patch into the material with the given ID.
func (s *Store) UpdateMaterial(id string, patch domain.MaterialPatch) State {
	return s.Dispatch(UpdateMaterial{ID: id, Patch: patch})
}

// SetCurrentClient selects c and clears the current material.
func (s *Store) SetCurrentClient(c *domain.Client) State {
	return s.Dispatch(SetCurrentClient{Client: c})
}

// Logout clears the session and everything that belongs to it in one step.
func (s *Store) Logout() State {
	s.notes.Delete(notificationKey)
	return s.Dispatch(Logout{})
}

// Notify shows a notification, replacing the visible one. It expires after
// the configured TTL.
func (s *Store) Notify(typ domain.NotificationType, title, message string) domain.Notification {
	n := domain.Notification{
		ID:      uuid.NewString(),
		Title:   title,
		Message: message,
		Type:    typ,
	}
	s.notes.SetDefault(notificationKey, n)

	s.mu.Lock()
	next := s.state
	next.NotificationSeq++
	next.Version++
	s.state = next
	s.pending = append(s.pending, next)
	drain := s.claimDrain()
	s.mu.Unlock()

	if drain {
		s.drain()
	}
	return n
}

// NotifyError shows err as a human-readable error notification.
func (s *Store) NotifyError(title string, err error) domain.Notification {
	return s.Notify(domain.NotificationError, title, domain.UserMessage(err))
}

// ClearNotification hides the visible notification, if any.
func (s *Store) ClearNotification() {
	s.notes.Delete(notificationKey)
}

// Confirm opens a confirmation dialog, replacing any open one.
func (s *Store) Confirm(req domain.ConfirmDialogRequest) {
	s.Dispatch(OpenConfirm{Request: req})
}

// ResolveConfirm closes the open dialog and runs its callback for the
// operator's answer. It reports false when no dialog was open.
func (s *Store) ResolveConfirm(accepted bool) bool {
	req := s.Snapshot().Confirm
	if !req.IsOpen {
		return false
	}
	s.Dispatch(CloseConfirm{})

	switch {
	case accepted && req.OnConfirm != nil:
		req.OnConfirm()
	case !accepted && req.OnCancel != nil:
		req.OnCancel()
	}
	return true
}

// claimDrain must be called with mu held.
func (s *Store) claimDrain() bool {
	if s.draining || len(s.pending) == 0 {
		return false
	}
	s.draining = true
	return true
}

// drain delivers queued snapshots one at a time. Only one goroutine drains
// at any moment, which keeps delivery in dispatch order.
func (s *Store) drain() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		st := s.pending[0]
		s.pending = s.pending[1:]
		fns := make([]Listener, 0, len(s.order))
		for _, id := range s.order {
			fns = append(fns, s.listeners[id])
		}
		s.mu.Unlock()

		st = s.decorate(st)
		for _, fn := range fns {
			fn(st)
		}
	}
}

// republish re-sends the current state, used when a notification expires.
func (s *Store) republish() {
	s.mu.Lock()
	s.pending = append(s.pending, s.state)
	drain := s.claimDrain()
	s.mu.Unlock()

	if drain {
		s.drain()
	}
}

func (s *Store) decorate(st State) State {
	st.Notification = nil
	if v, ok := s.notes.Get(notificationKey); ok {
		if n, ok := v.(domain.Notification); ok {
			st.Notification = &n
		}
	}
	return st
}
