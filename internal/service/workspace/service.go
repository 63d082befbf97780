// Package workspace holds the pass-through client and material operations:
// each one validates its input, calls the backend and mirrors the result
// into the store. Failures become notifications.
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/heartmarshall/translation-desk/internal/adapter/remote"
	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/metrics"
	"github.com/heartmarshall/translation-desk/internal/store"
)

type clientAPI interface {
	ListClients(ctx context.Context, includeArchived bool) ([]domain.Client, error)
	CreateClient(ctx context.Context, in remote.ClientInput) (*domain.Client, error)
	UpdateClient(ctx context.Context, id string, in remote.ClientInput) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
	ArchiveClient(ctx context.Context, id, reason string) error
	UnarchiveClient(ctx context.Context, id string) error
}

type materialAPI interface {
	GetMaterials(ctx context.Context, clientID string) ([]domain.Material, error)
	ConfirmMaterial(ctx context.Context, id string) (*domain.Material, error)
	UnconfirmMaterial(ctx context.Context, id string) (*domain.Material, error)
	SelectResult(ctx context.Context, id, result string) (*domain.Material, error)
	SaveRegions(ctx context.Context, id string, regions json.RawMessage) (*domain.Material, error)
	SaveFinalImage(ctx context.Context, id, imageData string) (*domain.Material, error)
	RetranslateMaterial(ctx context.Context, id string) (*domain.Material, error)
	RotateMaterial(ctx context.Context, id, direction string) (*domain.Material, error)
	DeleteMaterial(ctx context.Context, id string) error
	Export(ctx context.Context, clientID string, w io.Writer) (int64, error)
}

// Service provides client and material operations for the current session.
type Service struct {
	log       *slog.Logger
	store     *store.Store
	clients   clientAPI
	materials materialAPI
	validate  *validator.Validate
	metrics   *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithValidator(v *validator.Validate) Option {
	return func(s *Service) { s.validate = v }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a workspace service.
func NewService(
	log *slog.Logger,
	st *store.Store,
	clients clientAPI,
	materials materialAPI,
	opts ...Option,
) *Service {
	s := &Service{
		log:       log.With("service", "workspace"),
		store:     st,
		clients:   clients,
		materials: materials,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validate == nil {
		s.validate = domain.NewValidator()
	}
	return s
}

// fail shows err to the operator and returns it wrapped for the caller.
// Validation errors are returned as is.
func (s *Service) fail(ctx context.Context, op, title string, err error) error {
	s.store.NotifyError(title, err)
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNoActiveClient) {
		return err
	}
	s.log.WarnContext(ctx, "operation failed", slog.String("op", op), slog.String("error", err.Error()))
	return fmt.Errorf("workspace: %s: %w", op, err)
}

func (s *Service) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return domain.FromValidator(err)
	}
	return nil
}

func (s *Service) currentClientID() (string, error) {
	id := s.store.Snapshot().CurrentClientID()
	if id == "" {
		return "", domain.ErrNoActiveClient
	}
	return id, nil
}

func (s *Service) loading(on bool) {
	s.store.Dispatch(store.SetLoading{Loading: on})
}
