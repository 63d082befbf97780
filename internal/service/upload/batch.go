package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/translation-desk/internal/adapter/remote"
	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/store"
)

type batch struct {
	id       string
	clientID string
	kind     domain.UploadItemKind
	files    []FileInput
	urls     []string
	items    []domain.UploadItem
	hasPDF   bool
	cancel   context.CancelFunc

	// pagesBefore holds the PDF session pages the client already had when
	// the batch opened; nil when they could not be observed.
	pagesBefore map[string]struct{}
}

func (b *batch) tempIDs() []string {
	ids := make([]string, len(b.items))
	for i, it := range b.items {
		ids[i] = it.TempID
	}
	return ids
}

// UploadFiles prepares and runs a file batch. It returns once the batch
// is complete or failed.
func (s *Service) UploadFiles(ctx context.Context, clientID string, files []FileInput) error {
	if err := s.Prepare(clientID, files); err != nil {
		return err
	}
	return s.Start(ctx)
}

// AddURLs prepares and runs a batch of webpage URLs.
func (s *Service) AddURLs(ctx context.Context, clientID string, urls []string) error {
	if err := s.PrepareURLs(clientID, urls); err != nil {
		return err
	}
	return s.Start(ctx)
}

// Prepare validates files and opens a new batch in the preparing phase,
// where it can still be cancelled. Nothing is sent yet.
func (s *Service) Prepare(clientID string, files []FileInput) error {
	if err := s.validateFiles(clientID, files); err != nil {
		s.store.NotifyError("无法上传", err)
		return err
	}

	b := &batch{
		id:       uuid.NewString(),
		clientID: clientID,
		kind:     domain.UploadItemFile,
		files:    files,
	}
	placeholders := make([]domain.Material, 0, len(files))
	for _, f := range files {
		typ := domain.MaterialTypeForFile(f.Name)
		if typ == domain.MaterialTypePDF {
			b.hasPDF = true
		}
		item := newItem(f.Name, domain.UploadItemFile, domain.StatusUploading)
		b.items = append(b.items, item)
		placeholders = append(placeholders, placeholder(item, clientID, typ))
	}

	s.open(b, placeholders)
	return nil
}

// PrepareURLs validates urls and opens a new URL batch.
func (s *Service) PrepareURLs(clientID string, urls []string) error {
	if err := s.validateURLs(clientID, urls); err != nil {
		s.store.NotifyError("无法添加网页", err)
		return err
	}

	b := &batch{
		id:       uuid.NewString(),
		clientID: clientID,
		kind:     domain.UploadItemURL,
		urls:     urls,
	}
	placeholders := make([]domain.Material, 0, len(urls))
	for _, u := range urls {
		item := newItem(u, domain.UploadItemURL, domain.StatusAdding)
		b.items = append(b.items, item)
		m := placeholder(item, clientID, domain.MaterialTypeWebpage)
		m.URL = u
		placeholders = append(placeholders, m)
	}

	s.open(b, placeholders)
	return nil
}

func newItem(name string, kind domain.UploadItemKind, status domain.MaterialStatus) domain.UploadItem {
	return domain.UploadItem{
		TempID: "tmp-" + uuid.NewString(),
		Name:   name,
		Kind:   kind,
		Status: status,
	}
}

func placeholder(it domain.UploadItem, clientID string, typ domain.MaterialType) domain.Material {
	return domain.Material{
		ID:       it.TempID,
		ClientID: clientID,
		Name:     it.Name,
		Type:     typ,
		Status:   it.Status,
	}
}

// open makes b the active batch, abandoning any previous one.
func (s *Service) open(b *batch, placeholders []domain.Material) {
	if snap := s.store.Snapshot(); b.hasPDF && snap.CurrentClientID() == b.clientID {
		b.pagesBefore = sessionPages(snap.Materials)
	}

	s.mu.Lock()
	prev := s.active
	s.active = b
	s.mu.Unlock()

	if prev != nil {
		if prev.cancel != nil {
			prev.cancel()
			s.log.Info("previous upload batch abandoned", slog.String("batch_id", prev.id))
		}
		s.store.Dispatch(store.RemoveMaterials{IDs: prev.tempIDs()})
	}

	s.store.Dispatch(store.SetUploadStatus{Status: domain.UploadStatus{
		BatchID:     b.id,
		Phase:       domain.UploadPreparing,
		IsUploading: true,
		ShowModal:   true,
		Files:       b.items,
		Total:       len(b.items),
		Message:     fmt.Sprintf("准备上传 %d 个项目", len(b.items)),
		CanCancel:   true,
		ClientID:    b.clientID,
	}})
	if s.store.Snapshot().CurrentClientID() == b.clientID {
		s.store.Dispatch(store.AddMaterials{Materials: placeholders})
	}
}

// Start sends the prepared batch. The real request runs alongside the
// cosmetic progress ticker; the real result always wins.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	b := s.active
	if b == nil || b.cancel != nil {
		s.mu.Unlock()
		return domain.ErrNoBatch
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	ok := s.advance(b.id, domain.UploadUploading, func(u *domain.UploadStatus) {
		u.CanCancel = false
		u.Message = fmt.Sprintf("正在上传 %d 个项目", len(b.items))
	})
	if !ok {
		return domain.ErrNoBatch
	}

	s.log.InfoContext(ctx, "upload started",
		slog.String("batch_id", b.id),
		slog.String("client_id", b.clientID),
		slog.Int("items", len(b.items)),
	)
	return s.run(ctx, b)
}

func (s *Service) run(ctx context.Context, b *batch) error {
	var (
		result  []domain.Material
		callErr error
		done    = make(chan struct{})
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		result, callErr = s.send(gctx, b)
		return nil
	})
	g.Go(func() error {
		s.animate(gctx, b, done)
		return nil
	})
	_ = g.Wait()

	if callErr != nil {
		s.fail(ctx, b, callErr)
		return fmt.Errorf("upload: send batch: %w", callErr)
	}
	return s.succeed(ctx, b, result)
}

func (s *Service) send(ctx context.Context, b *batch) ([]domain.Material, error) {
	if b.kind == domain.UploadItemURL {
		return s.remote.AddURLs(ctx, b.clientID, b.urls)
	}
	files := make([]remote.UploadFile, len(b.files))
	for i, f := range b.files {
		files[i] = remote.UploadFile{Name: f.Name, Content: f.Content}
	}
	return s.remote.UploadMaterials(ctx, b.clientID, files)
}

// animate advances the displayed counter one item per tick until either
// all ticks are shown or the real result is in.
func (s *Service) animate(ctx context.Context, b *batch, done <-chan struct{}) {
	delay := s.tickDelay(len(b.items))
	for i := 1; i <= len(b.items); i++ {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-s.clock.After(delay):
		}
		s.update(b.id, domain.UploadUploading, func(u *domain.UploadStatus) {
			if i > u.Current && i <= u.Total {
				u.Current = i
			}
		})
	}

	select {
	case <-done:
		return
	default:
	}
	s.advance(b.id, domain.UploadAwaitingConfirm, func(u *domain.UploadStatus) {
		u.Message = MessageAwaitingConfirm
	})
}

func (s *Service) fail(ctx context.Context, b *batch, err error) {
	msg := domain.UserMessage(err)
	ok := s.advance(b.id, domain.UploadFailed, func(u *domain.UploadStatus) {
		u.IsUploading = false
		u.CanCancel = false
		u.Message = MessageFailed
		for i := range u.Files {
			u.Files[i].Status = domain.StatusPendingSync
			u.Files[i].Error = msg
		}
	})

	// Placeholders never stay in an in-flight status, even when the batch
	// lost its slot to a newer one.
	for _, id := range b.tempIDs() {
		s.store.UpdateMaterial(id, domain.MaterialPatch{
			Status:           domain.Ptr(domain.StatusPendingSync),
			TranslationError: domain.Ptr(msg),
		})
	}
	if !ok {
		return
	}
	s.metrics.UploadFinished(string(domain.UploadFailed))

	if errors.Is(err, context.Canceled) {
		return
	}
	s.log.WarnContext(ctx, "upload failed",
		slog.String("batch_id", b.id),
		slog.String("error", err.Error()),
	)
	s.store.NotifyError("上传失败", err)
}

func (s *Service) succeed(ctx context.Context, b *batch, result []domain.Material) error {
	matched := matchResults(b.items, result)

	var replacing, pending []string
	for i, it := range b.items {
		if matched[i] != nil {
			replacing = append(replacing, it.TempID)
		} else {
			pending = append(pending, it.TempID)
		}
	}
	if s.store.Snapshot().CurrentClientID() == b.clientID {
		s.store.Dispatch(store.AddMaterials{Replacing: replacing, Materials: result})
		for _, id := range pending {
			s.store.UpdateMaterial(id, domain.MaterialPatch{Status: domain.Ptr(domain.StatusPendingSync)})
		}
	}

	uploaded := make([]string, 0, len(result))
	for _, m := range result {
		uploaded = append(uploaded, m.ID)
	}
	settle := func(u *domain.UploadStatus) {
		u.Current = u.Total
		u.UploadedMaterialIDs = slices.Clone(uploaded)
		for i := range u.Files {
			if i >= len(matched) {
				break
			}
			if m := matched[i]; m != nil {
				u.Files[i].MaterialID = m.ID
				u.Files[i].Status = orStatus(m.Status, domain.StatusUploaded)
			} else {
				u.Files[i].Status = domain.StatusPendingSync
			}
		}
	}

	if b.hasPDF {
		ok := s.advance(b.id, domain.UploadSplittingWait, func(u *domain.UploadStatus) {
			settle(u)
			u.Message = MessageSplitting
		})
		if !ok {
			return nil
		}
		latest, err := s.splitWait(ctx, b.clientID)
		if err != nil {
			s.log.InfoContext(ctx, "split wait stopped", slog.String("batch_id", b.id))
			return fmt.Errorf("upload: split wait: %w", err)
		}
		if final, ok := s.refresh(ctx, b.clientID); ok {
			latest = final
		}
		uploaded = append(uploaded, splitPages(b, latest, uploaded)...)
	}

	ok := s.advance(b.id, domain.UploadComplete, func(u *domain.UploadStatus) {
		settle(u)
		u.IsUploading = false
		u.CanCancel = false
		u.ShowModal = true
		u.Files = nil
		u.Message = MessageComplete
	})
	if !ok {
		return nil
	}

	s.metrics.UploadFinished(string(domain.UploadComplete))
	msg := fmt.Sprintf("成功上传 %d 个项目", len(result))
	if len(pending) > 0 {
		msg += fmt.Sprintf("，%d 个待同步", len(pending))
	}
	s.store.Notify(domain.NotificationSuccess, "上传完成", msg)
	s.log.InfoContext(ctx, "upload complete",
		slog.String("batch_id", b.id),
		slog.Int("uploaded", len(result)),
		slog.Int("pending", len(pending)),
	)
	return nil
}

// matchResults pairs server records with batch items: by position when
// the counts agree, otherwise by name.
func matchResults(items []domain.UploadItem, result []domain.Material) []*domain.Material {
	matched := make([]*domain.Material, len(items))
	if len(result) == len(items) {
		for i := range items {
			matched[i] = &result[i]
		}
		return matched
	}

	used := make([]bool, len(result))
	for i, it := range items {
		for j := range result {
			if !used[j] && (result[j].Name == it.Name || result[j].URL == it.Name) {
				used[j] = true
				matched[i] = &result[j]
				break
			}
		}
	}
	return matched
}

// splitWait polls the material list until the number of PDF session pages
// has been observed unchanged SplitStablePolls times in a row, or
// SplitMaxPolls polls have been made. It returns the last list fetched.
func (s *Service) splitWait(ctx context.Context, clientID string) ([]domain.Material, error) {
	var latest []domain.Material
	last, same := -1, 0
	for poll := 1; poll <= s.cfg.SplitMaxPolls; poll++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.clock.After(s.cfg.SplitPollInterval):
		}

		materials, err := s.remote.GetMaterials(ctx, clientID)
		s.metrics.Poll("split", err == nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.WarnContext(ctx, "split poll failed", slog.Int("poll", poll), slog.String("error", err.Error()))
			continue
		}
		s.store.Dispatch(store.SetMaterials{ClientID: clientID, Materials: materials})
		latest = materials

		n := countSessionPages(materials)
		if n == last {
			same++
		} else {
			last, same = n, 1
		}
		if same >= s.cfg.SplitStablePolls {
			s.log.DebugContext(ctx, "split stable", slog.Int("pages", n), slog.Int("polls", poll))
			return latest, nil
		}
	}
	s.log.WarnContext(ctx, "split wait timed out", slog.Int("polls", s.cfg.SplitMaxPolls))
	return latest, nil
}

func (s *Service) refresh(ctx context.Context, clientID string) ([]domain.Material, bool) {
	materials, err := s.remote.GetMaterials(ctx, clientID)
	if err != nil {
		s.log.WarnContext(ctx, "final refresh failed", slog.String("error", err.Error()))
		return nil, false
	}
	s.metrics.Refresh("upload")
	s.store.Dispatch(store.SetMaterials{ClientID: clientID, Materials: materials})
	return materials, true
}

// splitPages returns the session pages in materials that the batch
// created: pages unknown before the batch opened and not yet recorded.
func splitPages(b *batch, materials []domain.Material, recorded []string) []string {
	if b.pagesBefore == nil {
		return nil
	}
	var ids []string
	for _, m := range materials {
		if !m.InPDFSession() || slices.Contains(recorded, m.ID) {
			continue
		}
		if _, ok := b.pagesBefore[m.ID]; !ok {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func sessionPages(materials []domain.Material) map[string]struct{} {
	pages := make(map[string]struct{})
	for _, m := range materials {
		if m.InPDFSession() {
			pages[m.ID] = struct{}{}
		}
	}
	return pages
}

func countSessionPages(materials []domain.Material) int {
	n := 0
	for _, m := range materials {
		if m.InPDFSession() {
			n++
		}
	}
	return n
}

func orStatus(s, def domain.MaterialStatus) domain.MaterialStatus {
	if s == "" {
		return def
	}
	return s
}
