package workspace

import (
	"context"
	"sync"

	"github.com/heartmarshall/translation-desk/internal/adapter/remote"
	"github.com/heartmarshall/translation-desk/internal/domain"
)

var _ clientAPI = &clientAPIMock{}

type clientAPIMock struct {
	ArchiveClientFunc   func(ctx context.Context, id string, reason string) error
	CreateClientFunc    func(ctx context.Context, in remote.ClientInput) (*domain.Client, error)
	DeleteClientFunc    func(ctx context.Context, id string) error
	ListClientsFunc     func(ctx context.Context, includeArchived bool) ([]domain.Client, error)
	UnarchiveClientFunc func(ctx context.Context, id string) error
	UpdateClientFunc    func(ctx context.Context, id string, in remote.ClientInput) (*domain.Client, error)

	calls struct {
		ArchiveClient []struct {
			Ctx    context.Context
			ID     string
			Reason string
		}
		CreateClient []struct {
			Ctx context.Context
			In  remote.ClientInput
		}
		DeleteClient []struct {
			Ctx context.Context
			ID  string
		}
		ListClients []struct {
			Ctx             context.Context
			IncludeArchived bool
		}
		UnarchiveClient []struct {
			Ctx context.Context
			ID  string
		}
		UpdateClient []struct {
			Ctx context.Context
			ID  string
			In  remote.ClientInput
		}
	}
	lockArchiveClient   sync.RWMutex
	lockCreateClient    sync.RWMutex
	lockDeleteClient    sync.RWMutex
	lockListClients     sync.RWMutex
	lockUnarchiveClient sync.RWMutex
	lockUpdateClient    sync.RWMutex
}

func (mock *clientAPIMock) ArchiveClient(ctx context.Context, id string, reason string) error {
	if mock.ArchiveClientFunc == nil {
		panic("clientAPIMock.ArchiveClientFunc: method is nil but clientAPI.ArchiveClient was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     string
		Reason string
	}{Ctx: ctx, ID: id, Reason: reason}
	mock.lockArchiveClient.Lock()
	mock.calls.ArchiveClient = append(mock.calls.ArchiveClient, callInfo)
	mock.lockArchiveClient.Unlock()
	return mock.ArchiveClientFunc(ctx, id, reason)
}

func (mock *clientAPIMock) ArchiveClientCalls() []struct {
	Ctx    context.Context
	ID     string
	Reason string
} {
	mock.lockArchiveClient.RLock()
	calls := mock.calls.ArchiveClient
	mock.lockArchiveClient.RUnlock()
	return calls
}

func (mock *clientAPIMock) CreateClient(ctx context.Context, in remote.ClientInput) (*domain.Client, error) {
	if mock.CreateClientFunc == nil {
		panic("clientAPIMock.CreateClientFunc: method is nil but clientAPI.CreateClient was just called")
	}
	callInfo := struct {
		Ctx context.Context
		In  remote.ClientInput
	}{Ctx: ctx, In: in}
	mock.lockCreateClient.Lock()
	mock.calls.CreateClient = append(mock.calls.CreateClient, callInfo)
	mock.lockCreateClient.Unlock()
	return mock.CreateClientFunc(ctx, in)
}

func (mock *clientAPIMock) CreateClientCalls() []struct {
	Ctx context.Context
	In  remote.ClientInput
} {
	mock.lockCreateClient.RLock()
	calls := mock.calls.CreateClient
	mock.lockCreateClient.RUnlock()
	return calls
}

func (mock *clientAPIMock) DeleteClient(ctx context.Context, id string) error {
	if mock.DeleteClientFunc == nil {
		panic("clientAPIMock.DeleteClientFunc: method is nil but clientAPI.DeleteClient was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{Ctx: ctx, ID: id}
	mock.lockDeleteClient.Lock()
	mock.calls.DeleteClient = append(mock.calls.DeleteClient, callInfo)
	mock.lockDeleteClient.Unlock()
	return mock.DeleteClientFunc(ctx, id)
}

func (mock *clientAPIMock) DeleteClientCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockDeleteClient.RLock()
	calls := mock.calls.DeleteClient
	mock.lockDeleteClient.RUnlock()
	return calls
}

func (mock *clientAPIMock) ListClients(ctx context.Context, includeArchived bool) ([]domain.Client, error) {
	if mock.ListClientsFunc == nil {
		panic("clientAPIMock.ListClientsFunc: method is nil but clientAPI.ListClients was just called")
	}
	callInfo := struct {
		Ctx             context.Context
		IncludeArchived bool
	}{Ctx: ctx, IncludeArchived: includeArchived}
	mock.lockListClients.Lock()
	mock.calls.ListClients = append(mock.calls.ListClients, callInfo)
	mock.lockListClients.Unlock()
	return mock.ListClientsFunc(ctx, includeArchived)
}

func (mock *clientAPIMock) ListClientsCalls() []struct {
	Ctx             context.Context
	IncludeArchived bool
} {
	mock.lockListClients.RLock()
	calls := mock.calls.ListClients
	mock.lockListClients.RUnlock()
	return calls
}

func (mock *clientAPIMock) UnarchiveClient(ctx context.Context, id string) error {
	if mock.UnarchiveClientFunc == nil {
		panic("clientAPIMock.UnarchiveClientFunc: method is nil but clientAPI.UnarchiveClient was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{Ctx: ctx, ID: id}
	mock.lockUnarchiveClient.Lock()
	mock.calls.UnarchiveClient = append(mock.calls.UnarchiveClient, callInfo)
	mock.lockUnarchiveClient.Unlock()
	return mock.UnarchiveClientFunc(ctx, id)
}

func (mock *clientAPIMock) UnarchiveClientCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockUnarchiveClient.RLock()
	calls := mock.calls.UnarchiveClient
	mock.lockUnarchiveClient.RUnlock()
	return calls
}

func (mock *clientAPIMock) UpdateClient(ctx context.Context, id string, in remote.ClientInput) (*domain.Client, error) {
	if mock.UpdateClientFunc == nil {
		panic("clientAPIMock.UpdateClientFunc: method is nil but clientAPI.UpdateClient was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
		In  remote.ClientInput
	}{Ctx: ctx, ID: id, In: in}
	mock.lockUpdateClient.Lock()
	mock.calls.UpdateClient = append(mock.calls.UpdateClient, callInfo)
	mock.lockUpdateClient.Unlock()
	return mock.UpdateClientFunc(ctx, id, in)
}

func (mock *clientAPIMock) UpdateClientCalls() []struct {
	Ctx context.Context
	ID  string
	In  remote.ClientInput
} {
	mock.lockUpdateClient.RLock()
	calls := mock.calls.UpdateClient
	mock.lockUpdateClient.RUnlock()
	return calls
}
