package upload

import (
	"log/slog"
	"slices"
	"time"

	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/store"
)

// Progress messages shown in the upload modal.
const (
	MessageAwaitingConfirm = "等待服务器确认"
	MessageSplitting       = "正在拆分PDF页面，请稍候"
	MessageComplete        = "上传完成"
	MessageFailed          = "上传失败，已标记为待同步"
)

var transitions = map[domain.UploadPhase][]domain.UploadPhase{
	domain.UploadIdle:            {domain.UploadPreparing},
	domain.UploadPreparing:       {domain.UploadUploading, domain.UploadCancelled},
	domain.UploadUploading:       {domain.UploadAwaitingConfirm, domain.UploadSplittingWait, domain.UploadComplete, domain.UploadFailed},
	domain.UploadAwaitingConfirm: {domain.UploadSplittingWait, domain.UploadComplete, domain.UploadFailed},
	domain.UploadSplittingWait:   {domain.UploadComplete},
	domain.UploadComplete:        {domain.UploadIdle},
	domain.UploadCancelled:       {domain.UploadIdle},
	domain.UploadFailed:          {domain.UploadIdle},
}

// canTransition reports whether a batch may move from one phase to another.
// A new batch may be prepared from any phase.
func canTransition(from, to domain.UploadPhase) bool {
	if to == domain.UploadPreparing {
		return true
	}
	return slices.Contains(transitions[from], to)
}

// AnimationDelay is the pause between cosmetic progress ticks for a batch
// of n items.
func AnimationDelay(n int) time.Duration {
	const (
		step = 300 * time.Millisecond
		lo   = 300 * time.Millisecond
		hi   = 800 * time.Millisecond
	)
	switch {
	case n <= 1:
		return lo
	case n <= 3:
		return 500 * time.Millisecond
	}
	return min(max(time.Duration(n)*step, lo), hi)
}

// advance moves batch batchID to phase to and applies mutate in the same
// store transaction. It reports false when the batch is no longer active
// or the transition is not allowed.
func (s *Service) advance(batchID string, to domain.UploadPhase, mutate func(*domain.UploadStatus)) bool {
	var (
		ok   bool
		from domain.UploadPhase
	)
	s.store.Dispatch(store.PatchUploadStatus{Fn: func(u domain.UploadStatus) domain.UploadStatus {
		from = u.Phase
		if u.BatchID != batchID || !canTransition(u.Phase, to) {
			return u
		}
		u.Phase = to
		if mutate != nil {
			mutate(&u)
		}
		ok = true
		return u
	}})
	if !ok {
		s.log.Debug("upload transition rejected",
			slog.String("batch_id", batchID),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	}
	return ok
}

// update mutates batch batchID while it stays in phase.
func (s *Service) update(batchID string, phase domain.UploadPhase, mutate func(*domain.UploadStatus)) bool {
	var ok bool
	s.store.Dispatch(store.PatchUploadStatus{Fn: func(u domain.UploadStatus) domain.UploadStatus {
		if u.BatchID != batchID || u.Phase != phase {
			return u
		}
		mutate(&u)
		ok = true
		return u
	}})
	return ok
}
