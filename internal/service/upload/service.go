// Package upload orchestrates upload batches and the translation polling
// that follows them.
//
// A batch moves through the phases of domain.UploadPhase. Only one batch is
// active at a time; preparing a new one abandons the previous batch.
package upload

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/translation-desk/internal/adapter/remote"
	"github.com/heartmarshall/translation-desk/internal/config"
	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/metrics"
	"github.com/heartmarshall/translation-desk/internal/store"
)

type remoteAPI interface {
	UploadMaterials(ctx context.Context, clientID string, files []remote.UploadFile) ([]domain.Material, error)
	AddURLs(ctx context.Context, clientID string, urls []string) ([]domain.Material, error)
	GetMaterials(ctx context.Context, clientID string) ([]domain.Material, error)
	DeleteMaterial(ctx context.Context, id string) error
	TranslateMaterials(ctx context.Context, clientID string, ids []string) (*remote.TranslateResult, error)
}

// Service is the upload orchestrator.
type Service struct {
	log       *slog.Logger
	store     *store.Store
	remote    remoteAPI
	cfg       config.UploadConfig
	clock     clockwork.Clock
	validate  *validator.Validate
	metrics   *metrics.Metrics
	tickDelay func(n int) time.Duration

	mu         sync.Mutex
	active     *batch
	pollCancel context.CancelFunc

	wg sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the real clock, mostly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithTickDelay overrides AnimationDelay.
func WithTickDelay(fn func(n int) time.Duration) Option {
	return func(s *Service) { s.tickDelay = fn }
}

func WithValidator(v *validator.Validate) Option {
	return func(s *Service) { s.validate = v }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates an upload orchestrator.
func NewService(
	log *slog.Logger,
	st *store.Store,
	api remoteAPI,
	cfg config.UploadConfig,
	opts ...Option,
) *Service {
	s := &Service{
		log:       log.With("service", "upload"),
		store:     st,
		remote:    api,
		cfg:       cfg,
		clock:     clockwork.NewRealClock(),
		tickDelay: AnimationDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validate == nil {
		s.validate = domain.NewValidator()
	}
	return s
}

// Stop cancels the active batch and any translation polling. It waits for
// background polling to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if s.active != nil && s.active.cancel != nil {
		s.active.cancel()
	}
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Wait blocks until background translation polling has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) clearActive(batchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil && s.active.id == batchID {
		if s.active.cancel != nil {
			s.active.cancel()
		}
		s.active = nil
	}
}
