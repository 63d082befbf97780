package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/store"
)

// Cancel abandons a batch that has not been sent yet. Once the request is
// in flight it returns domain.ErrNotCancellable and leaves state untouched;
// use UndoUpload after completion instead.
func (s *Service) Cancel() error {
	st := s.store.Snapshot().Upload
	if st.Phase != domain.UploadPreparing || !st.CanCancel {
		return domain.ErrNotCancellable
	}

	var (
		cancelled bool
		batchID   string
	)
	s.store.Dispatch(store.PatchUploadStatus{Fn: func(u domain.UploadStatus) domain.UploadStatus {
		if !u.CanCancel || u.Phase != domain.UploadPreparing {
			return u
		}
		cancelled, batchID = true, u.BatchID
		u.Phase = domain.UploadCancelled
		u.CanCancel = false
		u.IsUploading = false
		return u
	}})
	if !cancelled {
		return domain.ErrNotCancellable
	}

	ids := make([]string, 0, len(st.Files))
	for _, it := range st.Files {
		ids = append(ids, it.TempID)
	}
	s.store.Dispatch(store.RemoveMaterials{IDs: ids})
	s.store.Dispatch(store.ResetUpload{})
	s.clearActive(batchID)

	s.metrics.UploadFinished(string(domain.UploadCancelled))
	s.log.Info("upload cancelled", slog.String("batch_id", batchID))
	return nil
}

// CancelUpload is the single "cancel" action of the upload modal: it
// cancels a batch that is still preparing and undoes a completed one.
func (s *Service) CancelUpload(ctx context.Context) error {
	if s.store.Snapshot().Upload.Phase == domain.UploadComplete {
		return s.UndoUpload(ctx)
	}
	return s.Cancel()
}

// UndoUpload deletes every material the completed batch created. Failed
// deletions are reported together; the modal is closed either way.
func (s *Service) UndoUpload(ctx context.Context) error {
	st := s.store.Snapshot().Upload
	if st.Phase != domain.UploadComplete {
		return domain.ErrNoBatch
	}

	var (
		errs            []error
		removed, failed []string
	)
	for _, id := range st.UploadedMaterialIDs {
		if err := s.remote.DeleteMaterial(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "undo delete failed",
				slog.String("material_id", id),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("delete %s: %w", id, err))
			failed = append(failed, id)
			continue
		}
		removed = append(removed, id)
	}

	if len(removed) > 0 {
		s.removeWithSessions(removed, failed)
	}
	s.store.Dispatch(store.ResetUpload{})
	s.clearActive(st.BatchID)

	if err := errors.Join(errs...); err != nil {
		s.store.Notify(domain.NotificationError, "撤销上传失败",
			fmt.Sprintf("%d 个项目未能删除: %s", len(errs), domain.UserMessage(errs[0])))
		return fmt.Errorf("upload: undo: %w", err)
	}
	s.store.Notify(domain.NotificationSuccess, "已撤销上传", fmt.Sprintf("已删除 %d 个项目", len(removed)))
	return nil
}

// removeWithSessions drops ids locally together with every page that
// shares a PDF session with one of them. Sessions holding a page whose
// delete failed are left alone.
func (s *Service) removeWithSessions(ids, kept []string) {
	snap := s.store.Snapshot()
	sessions := make(map[string]struct{})
	for _, id := range ids {
		if m, ok := snap.Material(id); ok && m.InPDFSession() {
			sessions[m.PDFSessionID] = struct{}{}
		}
	}
	for _, id := range kept {
		if m, ok := snap.Material(id); ok && m.InPDFSession() {
			delete(sessions, m.PDFSessionID)
		}
	}
	s.store.Dispatch(store.RemoveMaterials{IDs: ids})
	for sid := range sessions {
		s.store.Dispatch(store.RemoveMaterials{PDFSessionID: sid})
	}
}

// FinishAndTranslate closes a completed batch and starts translating the
// materials it created.
func (s *Service) FinishAndTranslate(ctx context.Context) error {
	st := s.store.Snapshot().Upload
	if st.Phase != domain.UploadComplete {
		return domain.ErrNoBatch
	}
	ids := append([]string(nil), st.UploadedMaterialIDs...)

	s.store.Dispatch(store.ResetUpload{})
	s.clearActive(st.BatchID)

	if len(ids) == 0 {
		return nil
	}
	return s.StartTranslation(ctx, st.ClientID, ids)
}

// Dismiss closes the modal of a finished batch.
func (s *Service) Dismiss() {
	st := s.store.Snapshot().Upload
	if !st.Phase.IsTerminal() {
		return
	}
	s.store.Dispatch(store.ResetUpload{})
	s.clearActive(st.BatchID)
}
