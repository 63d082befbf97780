package workspace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/store"
)

// LoadClients replaces the client list. Archived clients are included only
// when asked for.
func (s *Service) LoadClients(ctx context.Context, includeArchived bool) ([]domain.Client, error) {
	s.loading(true)
	defer s.loading(false)

	clients, err := s.clients.ListClients(ctx, includeArchived)
	if err != nil {
		return nil, s.fail(ctx, "list clients", "加载客户失败", err)
	}
	s.store.Dispatch(store.SetClients{Clients: clients})
	return clients, nil
}

// AddClient creates a client and reloads the list so the store reflects the
// server's ordering. The current client is left alone.
func (s *Service) AddClient(ctx context.Context, in ClientInput) (*domain.Client, error) {
	in = in.normalized()
	if err := s.check(in); err != nil {
		return nil, s.fail(ctx, "add client", "无法添加客户", err)
	}

	created, err := s.clients.CreateClient(ctx, in.toRemote())
	if err != nil {
		return nil, s.fail(ctx, "add client", "添加客户失败", err)
	}

	clients, err := s.clients.ListClients(ctx, false)
	if err != nil {
		s.log.WarnContext(ctx, "reload after add failed", slog.String("error", err.Error()))
		s.store.Dispatch(store.AddClient{Client: *created})
	} else {
		s.store.Dispatch(store.SetClients{Clients: clients})
	}

	s.store.Notify(domain.NotificationSuccess, "客户已添加", created.Name)
	return created, nil
}

// EditClient updates the client's details in place.
func (s *Service) EditClient(ctx context.Context, id string, in ClientInput) (*domain.Client, error) {
	in = in.normalized()
	if err := s.check(idInput{ID: id}); err != nil {
		return nil, s.fail(ctx, "edit client", "无法保存客户", err)
	}
	if err := s.check(in); err != nil {
		return nil, s.fail(ctx, "edit client", "无法保存客户", err)
	}

	updated, err := s.clients.UpdateClient(ctx, id, in.toRemote())
	if err != nil {
		return nil, s.fail(ctx, "edit client", "保存客户失败", err)
	}
	s.store.Dispatch(store.UpdateClient{Client: *updated})
	s.store.Notify(domain.NotificationSuccess, "客户已更新", updated.Name)
	return updated, nil
}

// ArchiveClient archives a client and drops it from the list. Archiving the
// current client deselects it.
func (s *Service) ArchiveClient(ctx context.Context, id, reason string) error {
	if err := s.check(archiveInput{ID: id, Reason: reason}); err != nil {
		return s.fail(ctx, "archive client", "无法归档客户", err)
	}
	if err := s.clients.ArchiveClient(ctx, id, reason); err != nil {
		return s.fail(ctx, "archive client", "归档客户失败", err)
	}
	s.store.Dispatch(store.RemoveClient{ID: id})
	s.store.Notify(domain.NotificationSuccess, "客户已归档", "")
	return nil
}

// UnarchiveClient restores a client and reloads the active list.
func (s *Service) UnarchiveClient(ctx context.Context, id string) error {
	if err := s.check(idInput{ID: id}); err != nil {
		return s.fail(ctx, "unarchive client", "无法恢复客户", err)
	}
	if err := s.clients.UnarchiveClient(ctx, id); err != nil {
		return s.fail(ctx, "unarchive client", "恢复客户失败", err)
	}
	if _, err := s.LoadClients(ctx, false); err != nil {
		return err
	}
	s.store.Notify(domain.NotificationSuccess, "客户已恢复", "")
	return nil
}

// DeleteClient deletes a client together with its materials on the server.
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if err := s.check(idInput{ID: id}); err != nil {
		return s.fail(ctx, "delete client", "无法删除客户", err)
	}
	if err := s.clients.DeleteClient(ctx, id); err != nil {
		return s.fail(ctx, "delete client", "删除客户失败", err)
	}
	s.store.Dispatch(store.RemoveClient{ID: id})
	s.store.Notify(domain.NotificationSuccess, "客户已删除", "")
	return nil
}

// ConfirmDeleteClient asks the operator before deleting a client.
func (s *Service) ConfirmDeleteClient(ctx context.Context, id string) {
	name := id
	if c, ok := s.store.Snapshot().Client(id); ok {
		name = c.Name
	}
	ctx = context.WithoutCancel(ctx)
	s.store.Confirm(domain.ConfirmDialogRequest{
		Title:       "删除客户",
		Message:     fmt.Sprintf("确定要删除客户「%s」及其全部材料吗？此操作不可撤销。", name),
		Type:        "danger",
		ConfirmText: "删除",
		CancelText:  "取消",
		OnConfirm:   func() { _ = s.DeleteClient(ctx, id) },
	})
}

// SelectClient makes id the current client and loads its materials.
func (s *Service) SelectClient(ctx context.Context, id string) error {
	c, ok := s.store.Snapshot().Client(id)
	if !ok {
		return s.fail(ctx, "select client", "无法选择客户", fmt.Errorf("client %s: %w", id, domain.ErrNotFound))
	}
	s.store.SetCurrentClient(&c)
	_, err := s.LoadMaterials(ctx)
	return err
}

// ClearClient deselects the current client.
func (s *Service) ClearClient() {
	s.store.SetCurrentClient(nil)
}
