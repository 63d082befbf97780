package workspace

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

var _ materialAPI = &materialAPIMock{}

type materialAPIMock struct {
	ConfirmMaterialFunc     func(ctx context.Context, id string) (*domain.Material, error)
	DeleteMaterialFunc      func(ctx context.Context, id string) error
	ExportFunc              func(ctx context.Context, clientID string, w io.Writer) (int64, error)
	GetMaterialsFunc        func(ctx context.Context, clientID string) ([]domain.Material, error)
	RetranslateMaterialFunc func(ctx context.Context, id string) (*domain.Material, error)
	RotateMaterialFunc      func(ctx context.Context, id string, direction string) (*domain.Material, error)
	SaveFinalImageFunc      func(ctx context.Context, id string, imageData string) (*domain.Material, error)
	SaveRegionsFunc         func(ctx context.Context, id string, regions json.RawMessage) (*domain.Material, error)
	SelectResultFunc        func(ctx context.Context, id string, result string) (*domain.Material, error)
	UnconfirmMaterialFunc   func(ctx context.Context, id string) (*domain.Material, error)

	calls struct {
		ConfirmMaterial []struct {
			Ctx context.Context
			ID  string
		}
		DeleteMaterial []struct {
			Ctx context.Context
			ID  string
		}
		Export []struct {
			Ctx      context.Context
			ClientID string
			W        io.Writer
		}
		GetMaterials []struct {
			Ctx      context.Context
			ClientID string
		}
		RetranslateMaterial []struct {
			Ctx context.Context
			ID  string
		}
		RotateMaterial []struct {
			Ctx       context.Context
			ID        string
			Direction string
		}
		SaveFinalImage []struct {
			Ctx       context.Context
			ID        string
			ImageData string
		}
		SaveRegions []struct {
			Ctx     context.Context
			ID      string
			Regions json.RawMessage
		}
		SelectResult []struct {
			Ctx    context.Context
			ID     string
			Result string
		}
		UnconfirmMaterial []struct {
			Ctx context.Context
			ID  string
		}
	}
	lockConfirmMaterial     sync.RWMutex
	lockDeleteMaterial      sync.RWMutex
	lockExport              sync.RWMutex
	lockGetMaterials        sync.RWMutex
	lockRetranslateMaterial sync.RWMutex
	lockRotateMaterial      sync.RWMutex
	lockSaveFinalImage      sync.RWMutex
	lockSaveRegions         sync.RWMutex
	lockSelectResult        sync.RWMutex
	lockUnconfirmMaterial   sync.RWMutex
}

func (mock *materialAPIMock) ConfirmMaterial(ctx context.Context, id string) (*domain.Material, error) {
	if mock.ConfirmMaterialFunc == nil {
		panic("materialAPIMock.ConfirmMaterialFunc: method is nil but materialAPI.ConfirmMaterial was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{Ctx: ctx, ID: id}
	mock.lockConfirmMaterial.Lock()
	mock.calls.ConfirmMaterial = append(mock.calls.ConfirmMaterial, callInfo)
	mock.lockConfirmMaterial.Unlock()
	return mock.ConfirmMaterialFunc(ctx, id)
}

func (mock *materialAPIMock) ConfirmMaterialCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockConfirmMaterial.RLock()
	calls := mock.calls.ConfirmMaterial
	mock.lockConfirmMaterial.RUnlock()
	return calls
}

func (mock *materialAPIMock) DeleteMaterial(ctx context.Context, id string) error {
	if mock.DeleteMaterialFunc == nil {
		panic("materialAPIMock.DeleteMaterialFunc: method is nil but materialAPI.DeleteMaterial was just called")
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

func (mock *materialAPIMock) DeleteMaterialCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockDeleteMaterial.RLock()
	calls := mock.calls.DeleteMaterial
	mock.lockDeleteMaterial.RUnlock()
	return calls
}

func (mock *materialAPIMock) Export(ctx context.Context, clientID string, w io.Writer) (int64, error) {
	if mock.ExportFunc == nil {
		panic("materialAPIMock.ExportFunc: method is nil but materialAPI.Export was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		ClientID string
		W        io.Writer
	}{Ctx: ctx, ClientID: clientID, W: w}
	mock.lockExport.Lock()
	mock.calls.Export = append(mock.calls.Export, callInfo)
	mock.lockExport.Unlock()
	return mock.ExportFunc(ctx, clientID, w)
}

func (mock *materialAPIMock) ExportCalls() []struct {
	Ctx      context.Context
	ClientID string
	W        io.Writer
} {
	mock.lockExport.RLock()
	calls := mock.calls.Export
	mock.lockExport.RUnlock()
	return calls
}

func (mock *materialAPIMock) GetMaterials(ctx context.Context, clientID string) ([]domain.Material, error) {
	if mock.GetMaterialsFunc == nil {
		panic("materialAPIMock.GetMaterialsFunc: method is nil but materialAPI.GetMaterials was just called")
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

func (mock *materialAPIMock) GetMaterialsCalls() []struct {
	Ctx      context.Context
	ClientID string
} {
	mock.lockGetMaterials.RLock()
	calls := mock.calls.GetMaterials
	mock.lockGetMaterials.RUnlock()
	return calls
}

func (mock *materialAPIMock) RetranslateMaterial(ctx context.Context, id string) (*domain.Material, error) {
	if mock.RetranslateMaterialFunc == nil {
		panic("materialAPIMock.RetranslateMaterialFunc: method is nil but materialAPI.RetranslateMaterial was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{Ctx: ctx, ID: id}
	mock.lockRetranslateMaterial.Lock()
	mock.calls.RetranslateMaterial = append(mock.calls.RetranslateMaterial, callInfo)
	mock.lockRetranslateMaterial.Unlock()
	return mock.RetranslateMaterialFunc(ctx, id)
}

func (mock *materialAPIMock) RetranslateMaterialCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockRetranslateMaterial.RLock()
	calls := mock.calls.RetranslateMaterial
	mock.lockRetranslateMaterial.RUnlock()
	return calls
}

func (mock *materialAPIMock) RotateMaterial(ctx context.Context, id string, direction string) (*domain.Material, error) {
	if mock.RotateMaterialFunc == nil {
		panic("materialAPIMock.RotateMaterialFunc: method is nil but materialAPI.RotateMaterial was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ID        string
		Direction string
	}{Ctx: ctx, ID: id, Direction: direction}
	mock.lockRotateMaterial.Lock()
	mock.calls.RotateMaterial = append(mock.calls.RotateMaterial, callInfo)
	mock.lockRotateMaterial.Unlock()
	return mock.RotateMaterialFunc(ctx, id, direction)
}

func (mock *materialAPIMock) RotateMaterialCalls() []struct {
	Ctx       context.Context
	ID        string
	Direction string
} {
	mock.lockRotateMaterial.RLock()
	calls := mock.calls.RotateMaterial
	mock.lockRotateMaterial.RUnlock()
	return calls
}

func (mock *materialAPIMock) SaveFinalImage(ctx context.Context, id string, imageData string) (*domain.Material, error) {
	if mock.SaveFinalImageFunc == nil {
		panic("materialAPIMock.SaveFinalImageFunc: method is nil but materialAPI.SaveFinalImage was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ID        string
		ImageData string
	}{Ctx: ctx, ID: id, ImageData: imageData}
	mock.lockSaveFinalImage.Lock()
	mock.calls.SaveFinalImage = append(mock.calls.SaveFinalImage, callInfo)
	mock.lockSaveFinalImage.Unlock()
	return mock.SaveFinalImageFunc(ctx, id, imageData)
}

func (mock *materialAPIMock) SaveFinalImageCalls() []struct {
	Ctx       context.Context
	ID        string
	ImageData string
} {
	mock.lockSaveFinalImage.RLock()
	calls := mock.calls.SaveFinalImage
	mock.lockSaveFinalImage.RUnlock()
	return calls
}

func (mock *materialAPIMock) SaveRegions(ctx context.Context, id string, regions json.RawMessage) (*domain.Material, error) {
	if mock.SaveRegionsFunc == nil {
		panic("materialAPIMock.SaveRegionsFunc: method is nil but materialAPI.SaveRegions was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		ID      string
		Regions json.RawMessage
	}{Ctx: ctx, ID: id, Regions: regions}
	mock.lockSaveRegions.Lock()
	mock.calls.SaveRegions = append(mock.calls.SaveRegions, callInfo)
	mock.lockSaveRegions.Unlock()
	return mock.SaveRegionsFunc(ctx, id, regions)
}

func (mock *materialAPIMock) SaveRegionsCalls() []struct {
	Ctx     context.Context
	ID      string
	Regions json.RawMessage
} {
	mock.lockSaveRegions.RLock()
	calls := mock.calls.SaveRegions
	mock.lockSaveRegions.RUnlock()
	return calls
}

func (mock *materialAPIMock) SelectResult(ctx context.Context, id string, result string) (*domain.Material, error) {
	if mock.SelectResultFunc == nil {
		panic("materialAPIMock.SelectResultFunc: method is nil but materialAPI.SelectResult was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     string
		Result string
	}{Ctx: ctx, ID: id, Result: result}
	mock.lockSelectResult.Lock()
	mock.calls.SelectResult = append(mock.calls.SelectResult, callInfo)
	mock.lockSelectResult.Unlock()
	return mock.SelectResultFunc(ctx, id, result)
}

func (mock *materialAPIMock) SelectResultCalls() []struct {
	Ctx    context.Context
	ID     string
	Result string
} {
	mock.lockSelectResult.RLock()
	calls := mock.calls.SelectResult
	mock.lockSelectResult.RUnlock()
	return calls
}

func (mock *materialAPIMock) UnconfirmMaterial(ctx context.Context, id string) (*domain.Material, error) {
	if mock.UnconfirmMaterialFunc == nil {
		panic("materialAPIMock.UnconfirmMaterialFunc: method is nil but materialAPI.UnconfirmMaterial was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{Ctx: ctx, ID: id}
	mock.lockUnconfirmMaterial.Lock()
	mock.calls.UnconfirmMaterial = append(mock.calls.UnconfirmMaterial, callInfo)
	mock.lockUnconfirmMaterial.Unlock()
	return mock.UnconfirmMaterialFunc(ctx, id)
}

func (mock *materialAPIMock) UnconfirmMaterialCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockUnconfirmMaterial.RLock()
	calls := mock.calls.UnconfirmMaterial
	mock.lockUnconfirmMaterial.RUnlock()
	return calls
}
