// Package reconciler turns push events into store mutations for the client
// room that is currently joined.
package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/translation-desk/internal/adapter/eventchannel"
	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/metrics"
	"github.com/heartmarshall/translation-desk/internal/store"
	"github.com/heartmarshall/translation-desk/pkg/ctxutil"
)

const (
	refreshWait     = 50 * time.Millisecond
	refreshMaxBatch = 16
)

type eventSource interface {
	On(event string, fn eventchannel.Handler) eventchannel.Subscription
	Off(sub eventchannel.Subscription)
	JoinClient(clientID string)
	LeaveClient(clientID string)
	OnReconnect(fn func()) func()
}

type materialFetcher interface {
	GetMaterials(ctx context.Context, clientID string) ([]domain.Material, error)
}

// Service applies push events to the store and keeps the channel joined to
// the room of the current client.
type Service struct {
	log     *slog.Logger
	store   *store.Store
	events  eventSource
	remote  materialFetcher
	metrics *metrics.Metrics
	loader  *dataloader.Loader[string, []domain.Material]

	// roomMu serializes room moves so Leave and Join reach the channel in
	// the same order as the room updates. Taken before mu.
	roomMu sync.Mutex

	mu          sync.Mutex
	room        string
	running     bool
	subs        []eventchannel.Subscription
	unsubscribe func()
	unhook      func()
	ctx         context.Context
	cancel      context.CancelFunc

	wg sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a reconciler. It does nothing until Start.
func NewService(
	log *slog.Logger,
	st *store.Store,
	events eventSource,
	remote materialFetcher,
	opts ...Option,
) *Service {
	s := &Service{
		log:    log.With("service", "reconciler"),
		store:  st,
		events: events,
		remote: remote,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.loader = dataloader.NewBatchedLoader(
		s.batchRefresh,
		dataloader.WithWait[string, []domain.Material](refreshWait),
		dataloader.WithBatchCapacity[string, []domain.Material](refreshMaxBatch),
		dataloader.WithCache[string, []domain.Material](&dataloader.NoCache[string, []domain.Material]{}),
	)
	return s
}

// Start registers event handlers, joins the current client's room and
// follows client switches. Calling Start twice is a no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}
	for _, event := range Events {
		s.subs = append(s.subs, s.events.On(event, s.handler(event)))
	}
	s.unhook = s.events.OnReconnect(s.Rejoin)
	s.mu.Unlock()

	unsubscribe := s.store.Subscribe(func(st store.State) { s.follow(st.CurrentClientID()) })
	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
	s.follow(s.store.Snapshot().CurrentClientID())

	s.log.InfoContext(ctx, "reconciler started")
}

// Stop leaves the joined room, removes handlers and waits for in-flight
// refreshes to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	subs, unhook, unsubscribe := s.subs, s.unhook, s.unsubscribe
	s.subs, s.unhook, s.unsubscribe = nil, nil, nil
	s.cancel()
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if unhook != nil {
		unhook()
	}
	for _, sub := range subs {
		s.events.Off(sub)
	}

	s.roomMu.Lock()
	s.mu.Lock()
	room := s.room
	s.room = ""
	s.mu.Unlock()
	if room != "" {
		s.events.LeaveClient(room)
	}
	s.roomMu.Unlock()
	s.wg.Wait()
}

// Wait blocks until background refreshes started so far have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Room returns the client room currently joined.
func (s *Service) Room() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

func (s *Service) handler(event string) eventchannel.Handler {
	return func(ctx context.Context, data json.RawMessage) {
		if err := s.Apply(ctx, event, data); err != nil {
			s.log.WarnContext(ctx, "push event dropped",
				slog.String("event", event),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Apply reconciles one event into the store.
func (s *Service) Apply(ctx context.Context, event string, raw json.RawMessage) error {
	switch event {
	case EventMaterialUpdated:
		u, err := decodeMaterialUpdated(raw)
		if err != nil {
			return err
		}
		s.store.UpdateMaterial(u.MaterialID, u.Patch())
		s.log.DebugContext(ctx, "material updated",
			slog.String("material_id", u.MaterialID),
			slog.String("kind", u.Kind.String()),
		)

	case EventTranslationStarted:
		p, err := decodeInto[TranslationProgress](raw, nil)
		if err != nil {
			return err
		}
		s.store.Notify(domain.NotificationInfo, "翻译已开始", orDefault(p.Message, "正在翻译材料，请稍候"))

	case EventTranslationCompleted:
		p, err := decodeInto[TranslationProgress](raw, nil)
		if err != nil {
			return err
		}
		s.store.Notify(domain.NotificationSuccess, "翻译完成", orDefault(p.Message, "材料翻译已完成"))
		if clientID := s.store.Snapshot().CurrentClientID(); clientID != "" {
			s.refreshAsync(clientID, "translation_completed")
		}

	case EventMaterialError, EventLLMError:
		p, err := decodeInto(raw, func(p MaterialFailed) string { return p.MaterialID })
		if err != nil {
			return err
		}
		st := s.store.UpdateMaterial(p.MaterialID, domain.MaterialPatch{
			Status:           domain.Ptr(domain.StatusFailed),
			TranslationError: domain.Ptr(p.Error),
		})
		s.store.Notify(domain.NotificationError, "翻译失败", failureMessage(st, p))

	case EventLLMStarted:
		p, err := decodeInto(raw, func(p MaterialRef) string { return p.MaterialID })
		if err != nil {
			return err
		}
		s.store.UpdateMaterial(p.MaterialID, domain.MaterialPatch{
			ProcessingStep:     domain.Ptr(domain.StepLLMTranslating),
			ProcessingProgress: domain.Ptr(llmStartedProgress),
		})

	case EventLLMCompleted:
		p, err := decodeInto(raw, func(p LLMCompleted) string { return p.MaterialID })
		if err != nil {
			return err
		}
		s.store.UpdateMaterial(p.MaterialID, domain.MaterialPatch{
			Status:             domain.Ptr(domain.StatusLLMTranslated),
			ProcessingStep:     domain.Ptr(domain.StepLLMTranslated),
			ProcessingProgress: domain.Ptr(llmCompletedProgress),
			LLMTranslations:    nonNull(p.Translations),
		})
		s.store.Notify(domain.NotificationSuccess, "LLM翻译完成",
			fmt.Sprintf("已翻译 %d 个区域", p.RegionCount()))

	default:
		return fmt.Errorf("%w: unhandled event %q", errMalformed, event)
	}
	return nil
}

// Refresh reloads the material list of clientID. Concurrent refreshes of
// the same client share one request.
func (s *Service) Refresh(ctx context.Context, clientID string) error {
	materials, err := s.loader.Load(ctx, clientID)()
	if err != nil {
		return fmt.Errorf("reconciler: refresh %s: %w", clientID, err)
	}
	s.store.Dispatch(store.SetMaterials{ClientID: clientID, Materials: materials})
	return nil
}

func (s *Service) refreshAsync(clientID, trigger string) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	s.metrics.Refresh(trigger)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, _ := ctxutil.EnsureRequestID(ctx)
		if err := s.Refresh(ctx, clientID); err != nil && !errors.Is(err, context.Canceled) {
			s.log.WarnContext(ctx, "material refresh failed",
				slog.String("client_id", clientID),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// batchRefresh fetches each distinct client once per batch.
func (s *Service) batchRefresh(ctx context.Context, keys []string) []*dataloader.Result[[]domain.Material] {
	fetched := make(map[string]*dataloader.Result[[]domain.Material], len(keys))
	results := make([]*dataloader.Result[[]domain.Material], len(keys))
	for i, clientID := range keys {
		r, ok := fetched[clientID]
		if !ok {
			materials, err := s.remote.GetMaterials(ctx, clientID)
			r = &dataloader.Result[[]domain.Material]{Data: materials, Error: err}
			fetched[clientID] = r
		}
		results[i] = r
	}
	return results
}

// follow keeps the joined room equal to the current client.
func (s *Service) follow(clientID string) {
	s.roomMu.Lock()
	defer s.roomMu.Unlock()

	s.mu.Lock()
	if !s.running || clientID == s.room {
		s.mu.Unlock()
		return
	}
	prev := s.room
	s.room = clientID
	s.mu.Unlock()

	if prev != "" {
		s.events.LeaveClient(prev)
	}
	if clientID != "" {
		s.events.JoinClient(clientID)
	}
	s.log.Debug("room switched", slog.String("from", prev), slog.String("to", clientID))
}

// Rejoin sends the join for the current room again. The channel forgets
// rooms when a connection is replaced.
func (s *Service) Rejoin() {
	s.roomMu.Lock()
	defer s.roomMu.Unlock()
	if room := s.Room(); room != "" {
		s.events.JoinClient(room)
	}
}

func failureMessage(st store.State, p MaterialFailed) string {
	name := p.MaterialID
	if m, ok := st.Material(p.MaterialID); ok && m.Name != "" {
		name = m.Name
	}
	if p.Error == "" {
		return name
	}
	return name + ": " + p.Error
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
