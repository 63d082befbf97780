package reconciler

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

// Push events handled by the reconciler.
const (
	EventMaterialUpdated      = "material_updated"
	EventTranslationStarted   = "translation_started"
	EventTranslationCompleted = "translation_completed"
	EventMaterialError        = "material_error"
	EventLLMStarted           = "llm_started"
	EventLLMCompleted         = "llm_completed"
	EventLLMError             = "llm_error"
)

// Events lists every event the reconciler subscribes to.
var Events = []string{
	EventMaterialUpdated,
	EventTranslationStarted,
	EventTranslationCompleted,
	EventMaterialError,
	EventLLMStarted,
	EventLLMCompleted,
	EventLLMError,
}

const (
	llmStartedProgress   = 70
	llmCompletedProgress = 100
)

var errMalformed = errors.New("malformed event payload")

// UpdateKind tells which branch of a material_updated payload is used.
type UpdateKind int

const (
	// UpdateFull carries the complete server record.
	UpdateFull UpdateKind = iota + 1
	// UpdateLegacy carries loose top-level fields only.
	UpdateLegacy
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateFull:
		return "full"
	case UpdateLegacy:
		return "legacy"
	}
	return "unknown"
}

// MaterialUpdated is a decoded material_updated event. The branch is
// chosen once at decode time: a full record always wins.
type MaterialUpdated struct {
	MaterialID string
	Kind       UpdateKind
	Material   *domain.Material
	Legacy     domain.MaterialPatch
}

// Patch returns the merge to apply to the stored material.
func (u MaterialUpdated) Patch() domain.MaterialPatch {
	if u.Kind == UpdateFull && u.Material != nil {
		return domain.PatchFromMaterial(*u.Material)
	}
	return u.Legacy
}

type materialUpdatedWire struct {
	MaterialID          string                 `json:"material_id"`
	Material            *domain.Material       `json:"material"`
	Status              *domain.MaterialStatus `json:"status"`
	Confirmed           *bool                  `json:"confirmed"`
	TranslatedImagePath *string                `json:"translated_image_path"`
	TranslationTextInfo json.RawMessage        `json:"translation_text_info"`
	TranslationError    *string                `json:"translation_error"`
	ProcessingStep      *domain.ProcessingStep `json:"processing_step"`
	ProcessingProgress  *int                   `json:"processing_progress"`
	SelectedResult      *string                `json:"selected_result"`
	UpdatedAt           *string                `json:"updated_at"`
}

func decodeMaterialUpdated(raw json.RawMessage) (MaterialUpdated, error) {
	var w materialUpdatedWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return MaterialUpdated{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if w.MaterialID == "" && w.Material != nil {
		w.MaterialID = w.Material.ID
	}
	if w.MaterialID == "" {
		return MaterialUpdated{}, fmt.Errorf("%w: missing material_id", errMalformed)
	}

	if w.Material != nil {
		return MaterialUpdated{MaterialID: w.MaterialID, Kind: UpdateFull, Material: w.Material}, nil
	}
	return MaterialUpdated{
		MaterialID: w.MaterialID,
		Kind:       UpdateLegacy,
		Legacy: domain.MaterialPatch{
			Status:              w.Status,
			Confirmed:           w.Confirmed,
			TranslatedImagePath: w.TranslatedImagePath,
			TranslationTextInfo: nonNull(w.TranslationTextInfo),
			TranslationError:    w.TranslationError,
			ProcessingStep:      w.ProcessingStep,
			ProcessingProgress:  w.ProcessingProgress,
			SelectedResult:      w.SelectedResult,
			UpdatedAt:           w.UpdatedAt,
		},
	}, nil
}

// MaterialFailed is a decoded material_error or llm_error event.
type MaterialFailed struct {
	MaterialID string `json:"material_id"`
	Error      string `json:"error"`
}

// MaterialRef is the payload of llm_started.
type MaterialRef struct {
	MaterialID string `json:"material_id"`
}

// LLMCompleted is a decoded llm_completed event.
type LLMCompleted struct {
	MaterialID   string          `json:"material_id"`
	Translations json.RawMessage `json:"translations"`
}

// RegionCount returns the number of translated regions: the array length,
// or the length of a "regions" array inside an object.
func (p LLMCompleted) RegionCount() int {
	var list []json.RawMessage
	if err := json.Unmarshal(p.Translations, &list); err == nil {
		return len(list)
	}
	var obj struct {
		Regions []json.RawMessage `json:"regions"`
	}
	if err := json.Unmarshal(p.Translations, &obj); err == nil {
		return len(obj.Regions)
	}
	return 0
}

// TranslationProgress is the payload of translation_started and
// translation_completed. All fields are optional.
type TranslationProgress struct {
	ClientID        string `json:"client_id"`
	Message         string `json:"message"`
	TranslatedCount int    `json:"translated_count"`
	FailedCount     int    `json:"failed_count"`
}

func decodeInto[T any](raw json.RawMessage, requireMaterial func(T) string) (T, error) {
	var v T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			return v, fmt.Errorf("%w: %v", errMalformed, err)
		}
	}
	if requireMaterial != nil && requireMaterial(v) == "" {
		return v, fmt.Errorf("%w: missing material_id", errMalformed)
	}
	return v, nil
}

func nonNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}
