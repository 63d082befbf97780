package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/store"
)

// LoadMaterials replaces the material list of the current client.
func (s *Service) LoadMaterials(ctx context.Context) ([]domain.Material, error) {
	clientID, err := s.currentClientID()
	if err != nil {
		return nil, s.fail(ctx, "load materials", "无法加载材料", err)
	}

	s.loading(true)
	defer s.loading(false)

	materials, err := s.materials.GetMaterials(ctx, clientID)
	if err != nil {
		return nil, s.fail(ctx, "load materials", "加载材料失败", err)
	}
	s.store.Dispatch(store.SetMaterials{ClientID: clientID, Materials: materials})
	s.metrics.Refresh("manual")
	return materials, nil
}

// SelectMaterial opens a material. An empty id closes it.
func (s *Service) SelectMaterial(id string) {
	s.store.Dispatch(store.SetCurrentMaterial{ID: id})
}

// apply merges the server's record, or fallback when the response carried
// no material.
func (s *Service) apply(id string, m *domain.Material, fallback domain.MaterialPatch) {
	if m != nil {
		s.store.UpdateMaterial(m.ID, domain.PatchFromMaterial(*m))
		return
	}
	s.store.UpdateMaterial(id, fallback)
}

func (s *Service) ConfirmMaterial(ctx context.Context, id string) error {
	if err := s.check(idInput{ID: id}); err != nil {
		return s.fail(ctx, "confirm", "无法确认", err)
	}
	m, err := s.materials.ConfirmMaterial(ctx, id)
	if err != nil {
		return s.fail(ctx, "confirm", "确认失败", err)
	}
	s.apply(id, m, domain.MaterialPatch{
		Confirmed: domain.Ptr(true),
		Status:    domain.Ptr(domain.StatusConfirmed),
	})
	return nil
}

// UnconfirmMaterial withdraws a confirmation. Without a server record the
// material falls back to 已翻译.
func (s *Service) UnconfirmMaterial(ctx context.Context, id string) error {
	if err := s.check(idInput{ID: id}); err != nil {
		return s.fail(ctx, "unconfirm", "无法取消确认", err)
	}
	m, err := s.materials.UnconfirmMaterial(ctx, id)
	if err != nil {
		return s.fail(ctx, "unconfirm", "取消确认失败", err)
	}
	s.apply(id, m, domain.MaterialPatch{
		Confirmed: domain.Ptr(false),
		Status:    domain.Ptr(domain.StatusTranslated),
	})
	return nil
}

// ConfirmSession confirms every unconfirmed page of a PDF session.
func (s *Service) ConfirmSession(ctx context.Context, sessionID string) error {
	pages := store.SessionPages(s.store.Snapshot().Materials, sessionID)
	if len(pages) == 0 {
		return s.fail(ctx, "confirm session", "无法确认", fmt.Errorf("pdf session %s: %w", sessionID, domain.ErrNotFound))
	}

	var errs []error
	for _, p := range pages {
		if p.Confirmed {
			continue
		}
		m, err := s.materials.ConfirmMaterial(ctx, p.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("page %d: %w", p.PDFPageNumber, err))
			continue
		}
		s.apply(p.ID, m, domain.MaterialPatch{
			Confirmed: domain.Ptr(true),
			Status:    domain.Ptr(domain.StatusConfirmed),
		})
	}
	if err := errors.Join(errs...); err != nil {
		return s.fail(ctx, "confirm session", "部分页面确认失败", err)
	}
	return nil
}

// SelectResult chooses which engine output is used for the material.
func (s *Service) SelectResult(ctx context.Context, id, result string) error {
	if err := s.check(selectInput{ID: id, Result: result}); err != nil {
		return s.fail(ctx, "select result", "无法选择结果", err)
	}
	m, err := s.materials.SelectResult(ctx, id, result)
	if err != nil {
		return s.fail(ctx, "select result", "选择结果失败", err)
	}
	s.apply(id, m, domain.MaterialPatch{SelectedResult: domain.Ptr(result)})
	return nil
}

// SaveRegions stores the edited text regions of a material.
func (s *Service) SaveRegions(ctx context.Context, id string, regions json.RawMessage) error {
	if err := s.check(regionsInput{ID: id, Regions: regions}); err != nil {
		return s.fail(ctx, "save regions", "无法保存", err)
	}
	if !json.Valid(regions) {
		return s.fail(ctx, "save regions", "无法保存", domain.NewValidationError("regions", "不是有效的JSON"))
	}
	m, err := s.materials.SaveRegions(ctx, id, regions)
	if err != nil {
		return s.fail(ctx, "save regions", "保存失败", err)
	}
	s.apply(id, m, domain.MaterialPatch{TranslationTextInfo: regions})
	s.store.Notify(domain.NotificationSuccess, "已保存", "")
	return nil
}

// SaveFinalImage uploads the edited image of a material.
func (s *Service) SaveFinalImage(ctx context.Context, id, imageData string) error {
	if err := s.check(imageInput{ID: id, ImageData: imageData}); err != nil {
		return s.fail(ctx, "save image", "无法保存图片", err)
	}
	m, err := s.materials.SaveFinalImage(ctx, id, imageData)
	if err != nil {
		return s.fail(ctx, "save image", "保存图片失败", err)
	}
	if m != nil {
		s.store.UpdateMaterial(m.ID, domain.PatchFromMaterial(*m))
	}
	s.store.Notify(domain.NotificationSuccess, "图片已保存", "")
	return nil
}

// RotateMaterial rotates the source image left or right.
func (s *Service) RotateMaterial(ctx context.Context, id, direction string) error {
	if err := s.check(rotateInput{ID: id, Direction: direction}); err != nil {
		return s.fail(ctx, "rotate", "无法旋转", err)
	}
	m, err := s.materials.RotateMaterial(ctx, id, direction)
	if err != nil {
		return s.fail(ctx, "rotate", "旋转失败", err)
	}
	if m != nil {
		s.store.UpdateMaterial(m.ID, domain.PatchFromMaterial(*m))
	}
	return nil
}

// RetranslateMaterial asks the backend to run the material through
// translation again. Progress then arrives through push events.
func (s *Service) RetranslateMaterial(ctx context.Context, id string) error {
	if err := s.check(idInput{ID: id}); err != nil {
		return s.fail(ctx, "retranslate", "无法重新翻译", err)
	}
	m, err := s.materials.RetranslateMaterial(ctx, id)
	if err != nil {
		return s.fail(ctx, "retranslate", "重新翻译失败", err)
	}
	s.apply(id, m, domain.MaterialPatch{
		Status:           domain.Ptr(domain.StatusTranslating),
		TranslationError: domain.Ptr(""),
	})
	s.store.Notify(domain.NotificationInfo, "已开始重新翻译", "")
	return nil
}

// RetryTranslation only tells the operator that retrying from the
// comparison view is not available yet. No request is sent.
func (s *Service) RetryTranslation(id string) {
	s.log.Debug("retry translation requested", slog.String("material_id", id))
	s.store.Notify(domain.NotificationInfo, "重试翻译", "该功能即将推出，请使用重新翻译")
}

// DeleteMaterial deletes a single material, or every page of a PDF session
// when id names a session. Pages leave the store in one step.
func (s *Service) DeleteMaterial(ctx context.Context, id string) error {
	if err := s.check(idInput{ID: id}); err != nil {
		return s.fail(ctx, "delete material", "无法删除", err)
	}

	snap := s.store.Snapshot()
	if _, ok := snap.Material(id); ok {
		if err := s.materials.DeleteMaterial(ctx, id); err != nil {
			return s.fail(ctx, "delete material", "删除失败", err)
		}
		s.store.Dispatch(store.RemoveMaterials{IDs: []string{id}})
		s.store.Notify(domain.NotificationSuccess, "已删除", "")
		return nil
	}

	pages := store.SessionPages(snap.Materials, id)
	if len(pages) == 0 {
		return s.fail(ctx, "delete material", "无法删除", fmt.Errorf("material %s: %w", id, domain.ErrNotFound))
	}

	var (
		deleted []string
		errs    []error
	)
	for _, p := range pages {
		if err := s.materials.DeleteMaterial(ctx, p.ID); err != nil {
			errs = append(errs, fmt.Errorf("page %d: %w", p.PDFPageNumber, err))
			continue
		}
		deleted = append(deleted, p.ID)
	}

	if len(errs) == 0 {
		s.store.Dispatch(store.RemoveMaterials{PDFSessionID: id})
		s.store.Notify(domain.NotificationSuccess, "已删除", fmt.Sprintf("已删除 %d 页", len(deleted)))
		return nil
	}
	if len(deleted) > 0 {
		s.store.Dispatch(store.RemoveMaterials{IDs: deleted})
	}
	return s.fail(ctx, "delete session", "部分页面删除失败", errors.Join(errs...))
}

// ConfirmDeleteMaterial asks the operator before deleting a material or
// a whole PDF session.
func (s *Service) ConfirmDeleteMaterial(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)
	s.store.Confirm(domain.ConfirmDialogRequest{
		Title:       "删除材料",
		Message:     "确定要删除该材料吗？此操作不可撤销。",
		Type:        "danger",
		ConfirmText: "删除",
		CancelText:  "取消",
		OnConfirm:   func() { _ = s.DeleteMaterial(ctx, id) },
	})
}

// Export streams the current client's deliverable package into w.
func (s *Service) Export(ctx context.Context, w io.Writer) (int64, error) {
	snap := s.store.Snapshot()
	clientID := snap.CurrentClientID()
	if clientID == "" {
		return 0, s.fail(ctx, "export", "无法导出", domain.ErrNoActiveClient)
	}
	if n := store.ConfirmableCount(snap.Materials); n > 0 {
		s.log.InfoContext(ctx, "exporting with unconfirmed translations", slog.Int("unconfirmed", n))
	}

	n, err := s.materials.Export(ctx, clientID, w)
	if err != nil {
		return n, s.fail(ctx, "export", "导出失败", err)
	}
	s.store.Notify(domain.NotificationSuccess, "导出完成", humanBytes(n))
	return n, nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
