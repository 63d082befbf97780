package reconciler

import (
	"context"
	"sync"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

var _ materialFetcher = &materialFetcherMock{}

type materialFetcherMock struct {
	GetMaterialsFunc func(ctx context.Context, clientID string) ([]domain.Material, error)

	calls struct {
		GetMaterials []struct {
			Ctx      context.Context
			ClientID string
		}
	}
	lockGetMaterials sync.RWMutex
}

func (mock *materialFetcherMock) GetMaterials(ctx context.Context, clientID string) ([]domain.Material, error) {
	if mock.GetMaterialsFunc == nil {
		panic("materialFetcherMock.GetMaterialsFunc: method is nil but materialFetcher.GetMaterials was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		ClientID string
	}{Ctx: ctx, ClientID: clientID}
	mock.lockGetMaterials.Lock()
	mock.calls.GetMaterials = append(mock.calls.GetMaterials, callInfo)
	mock.lockGetMaterials.Unlock()
	return mock.GetMaterialsFunc(ctx, clientID)
}

func (mock *materialFetcherMock) GetMaterialsCalls() []struct {
	Ctx      context.Context
	ClientID string
} {
	mock.lockGetMaterials.RLock()
	calls := mock.calls.GetMaterials
	mock.lockGetMaterials.RUnlock()
	return calls
}
