package upload

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/store"
)

// StartTranslation asks the backend to translate ids. Inline results are
// applied at once; otherwise the material list is polled in the background
// until nothing is awaiting translation.
func (s *Service) StartTranslation(ctx context.Context, clientID string, ids []string) error {
	if clientID == "" {
		return domain.ErrNoActiveClient
	}
	if len(ids) == 0 {
		return domain.NewValidationError("material_ids", "至少需要 1 项")
	}

	res, err := s.remote.TranslateMaterials(ctx, clientID, ids)
	if err != nil {
		s.store.NotifyError("启动翻译失败", err)
		return fmt.Errorf("upload: translate: %w", err)
	}

	if res != nil && res.HasInline() {
		for _, m := range res.TranslatedMaterials {
			s.store.UpdateMaterial(m.ID, domain.PatchFromMaterial(m))
		}
		typ := domain.NotificationSuccess
		if res.FailedCount > 0 {
			typ = domain.NotificationWarning
		}
		s.store.Notify(typ, "翻译完成",
			fmt.Sprintf("成功 %d 个，失败 %d 个", res.TranslatedCount, res.FailedCount))
		return nil
	}

	s.store.Notify(domain.NotificationInfo, "翻译已开始", fmt.Sprintf("正在翻译 %d 个项目", len(ids)))
	s.startPolling(clientID)
	return nil
}

// startPolling replaces any running translation poll.
func (s *Service) startPolling(clientID string) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.pollCancel != nil {
		s.pollCancel()
	}
	s.pollCancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()
		s.pollTranslation(ctx, clientID)
	}()
}

// pollTranslation refreshes the material list every TranslatePollInterval
// for at most TranslateMaxAttempts rounds. It gives up early after
// TranslateMaxFailures consecutive failed refreshes.
func (s *Service) pollTranslation(ctx context.Context, clientID string) {
	log := s.log.With(slog.String("client_id", clientID))
	failures := 0

	for attempt := 1; attempt <= s.cfg.TranslateMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(s.cfg.TranslatePollInterval):
		}

		materials, err := s.remote.GetMaterials(ctx, clientID)
		s.metrics.Poll("translate", err == nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			log.Warn("translation poll failed",
				slog.Int("attempt", attempt),
				slog.Int("consecutive_failures", failures),
				slog.String("error", err.Error()),
			)
			if failures >= s.cfg.TranslateMaxFailures {
				s.store.Notify(domain.NotificationWarning, "无法获取翻译进度", "请手动刷新查看翻译结果")
				return
			}
			continue
		}
		failures = 0

		s.store.Dispatch(store.SetMaterials{ClientID: clientID, Materials: materials})
		if !awaiting(materials) {
			log.Debug("translation settled", slog.Int("attempt", attempt))
			return
		}
	}
	log.Info("translation poll ended", slog.Int("attempts", s.cfg.TranslateMaxAttempts))
}

func awaiting(materials []domain.Material) bool {
	for _, m := range materials {
		if m.Status.IsAwaitingTranslation() {
			return true
		}
	}
	return false
}
