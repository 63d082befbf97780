package upload

import (
	"context"
	"sync"

	"github.com/heartmarshall/translation-desk/internal/adapter/remote"
	"github.com/heartmarshall/translation-desk/internal/domain"
)

var _ remoteAPI = &remoteAPIMock{}

type remoteAPIMock struct {
	AddURLsFunc            func(ctx context.Context, clientID string, urls []string) ([]domain.Material, error)
	DeleteMaterialFunc     func(ctx context.Context, id string) error
	GetMaterialsFunc       func(ctx context.Context, clientID string) ([]domain.Material, error)
	TranslateMaterialsFunc func(ctx context.Context, clientID string, ids []string) (*remote.TranslateResult, error)
	UploadMaterialsFunc    func(ctx context.Context, clientID string, files []remote.UploadFile) ([]domain.Material, error)

	calls struct {
		AddURLs []struct {
			Ctx      context.Context
			ClientID string
			Urls     []string
		}
		DeleteMaterial []struct {
			Ctx context.Context
			ID  string
		}
		GetMaterials []struct {
			Ctx      context.Context
			ClientID string
		}
		TranslateMaterials []struct {
			Ctx      context.Context
			ClientID string
			Ids      []string
		}
		UploadMaterials []struct {
			Ctx      context.Context
			ClientID string
			Files    []remote.UploadFile
		}
	}
	lockAddURLs            sync.RWMutex
	lockDeleteMaterial     sync.RWMutex
	lockGetMaterials       sync.RWMutex
	lockTranslateMaterials sync.RWMutex
	lockUploadMaterials    sync.RWMutex
}

func (mock *remoteAPIMock) AddURLs(ctx context.Context, clientID string, urls []string) ([]domain.Material, error) {
	if mock.AddURLsFunc == nil {
		panic("remoteAPIMock.AddURLsFunc: method is nil but remoteAPI.AddURLs was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		ClientID string
		Urls     []string
	}{Ctx: ctx, ClientID: clientID, Urls: urls}
	mock.lockAddURLs.Lock()
	mock.calls.AddURLs = append(mock.calls.AddURLs, callInfo)
	mock.lockAddURLs.Unlock()
	return mock.AddURLsFunc(ctx, clientID, urls)
}

func (mock *remoteAPIMock) AddURLsCalls() []struct {
	Ctx      context.Context
	ClientID string
	Urls     []string
} {
	mock.lockAddURLs.RLock()
	calls := mock.calls.AddURLs
	mock.lockAddURLs.RUnlock()
	return calls
}

func (mock *remoteAPIMock) DeleteMaterial(ctx context.Context, id string) error {
	if mock.DeleteMaterialFunc == nil {
		panic("remoteAPIMock.DeleteMaterialFunc: method is nil but remoteAPI.DeleteMaterial was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{Ctx: ctx, ID: id}
	mock.lockDeleteMaterial.Lock()
	mock.calls.DeleteMaterial = append(mock.calls.DeleteMaterial, callInfo)
	mock.lockDeleteMaterial.Unlock()
	return mock.DeleteMaterialFunc(ctx, id)
}

func (mock *remoteAPIMock) DeleteMaterialCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockDeleteMaterial.RLock()
	calls := mock.calls.DeleteMaterial
	mock.lockDeleteMaterial.RUnlock()
	return calls
}

func (mock *remoteAPIMock) GetMaterials(ctx context.Context, clientID string) ([]domain.Material, error) {
	if mock.GetMaterialsFunc == nil {
		panic("remoteAPIMock.GetMaterialsFunc: method is nil but remoteAPI.GetMaterials was just called")
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

func (mock *remoteAPIMock) GetMaterialsCalls() []struct {
	Ctx      context.Context
	ClientID string
} {
	mock.lockGetMaterials.RLock()
	calls := mock.calls.GetMaterials
	mock.lockGetMaterials.RUnlock()
	return calls
}

func (mock *remoteAPIMock) TranslateMaterials(ctx context.Context, clientID string, ids []string) (*remote.TranslateResult, error) {
	if mock.TranslateMaterialsFunc == nil {
		panic("remoteAPIMock.TranslateMaterialsFunc: method is nil but remoteAPI.TranslateMaterials was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		ClientID string
		Ids      []string
	}{Ctx: ctx, ClientID: clientID, Ids: ids}
	mock.lockTranslateMaterials.Lock()
	mock.calls.TranslateMaterials = append(mock.calls.TranslateMaterials, callInfo)
	mock.lockTranslateMaterials.Unlock()
	return mock.TranslateMaterialsFunc(ctx, clientID, ids)
}

func (mock *remoteAPIMock) TranslateMaterialsCalls() []struct {
	Ctx      context.Context
	ClientID string
	Ids      []string
} {
	mock.lockTranslateMaterials.RLock()
	calls := mock.calls.TranslateMaterials
	mock.lockTranslateMaterials.RUnlock()
	return calls
}

func (mock *remoteAPIMock) UploadMaterials(ctx context.Context, clientID string, files []remote.UploadFile) ([]domain.Material, error) {
	if mock.UploadMaterialsFunc == nil {
		panic("remoteAPIMock.UploadMaterialsFunc: method is nil but remoteAPI.UploadMaterials was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		ClientID string
		Files    []remote.UploadFile
	}{Ctx: ctx, ClientID: clientID, Files: files}
	mock.lockUploadMaterials.Lock()
	mock.calls.UploadMaterials = append(mock.calls.UploadMaterials, callInfo)
	mock.lockUploadMaterials.Unlock()
	return mock.UploadMaterialsFunc(ctx, clientID, files)
}

func (mock *remoteAPIMock) UploadMaterialsCalls() []struct {
	Ctx      context.Context
	ClientID string
	Files    []remote.UploadFile
} {
	mock.lockUploadMaterials.RLock()
	calls := mock.calls.UploadMaterials
	mock.lockUploadMaterials.RUnlock()
	return calls
}
