package domain

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Material is one uploaded document, page, or registered webpage.
//
// Materials sharing a non-empty PDFSessionID are pages of one logical PDF.
// ClientID never changes after creation; MaterialPatch cannot touch it.
// JSON-valued fields are treated as immutable once stored.
type Material struct {
	ID                  string          `json:"id"`
	ClientID            string          `json:"client_id"`
	Name                string          `json:"name"`
	Type                MaterialType    `json:"type"`
	Status              MaterialStatus  `json:"status"`
	Confirmed           bool            `json:"confirmed"`
	TranslatedImagePath string          `json:"translated_image_path,omitempty"`
	TranslationTextInfo json.RawMessage `json:"translation_text_info,omitempty"`
	TranslationError    string          `json:"translation_error,omitempty"`
	PDFSessionID        string          `json:"pdf_session_id,omitempty"`
	PDFPageNumber       int             `json:"pdf_page_number,omitempty"`
	PDFTotalPages       int             `json:"pdf_total_pages,omitempty"`
	ProcessingStep      ProcessingStep  `json:"processing_step,omitempty"`
	ProcessingProgress  int             `json:"processing_progress,omitempty"`
	LLMTranslations     json.RawMessage `json:"llm_translation_result,omitempty"`
	SelectedResult      string          `json:"selected_result,omitempty"`
	URL                 string          `json:"url,omitempty"`
	CreatedAt           string          `json:"created_at,omitempty"`
	UpdatedAt           string          `json:"updated_at,omitempty"`
}

// InPDFSession reports whether the material is a page of a split PDF.
func (m Material) InPDFSession() bool { return m.PDFSessionID != "" }

// MaterialPatch is a partial update. Nil fields are left untouched.
type MaterialPatch struct {
	Name                *string
	Type                *MaterialType
	Status              *MaterialStatus
	Confirmed           *bool
	TranslatedImagePath *string
	TranslationTextInfo json.RawMessage
	TranslationError    *string
	PDFSessionID        *string
	PDFPageNumber       *int
	PDFTotalPages       *int
	ProcessingStep      *ProcessingStep
	ProcessingProgress  *int
	LLMTranslations     json.RawMessage
	SelectedResult      *string
	URL                 *string
	UpdatedAt           *string
}

// Apply returns m with the patch merged in. Apply is pure and idempotent:
// p.Apply(p.Apply(m)) equals p.Apply(m).
func (p MaterialPatch) Apply(m Material) Material {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Confirmed != nil {
		m.Confirmed = *p.Confirmed
	}
	if p.TranslatedImagePath != nil {
		m.TranslatedImagePath = *p.TranslatedImagePath
	}
	if p.TranslationTextInfo != nil {
		m.TranslationTextInfo = p.TranslationTextInfo
	}
	if p.TranslationError != nil {
		m.TranslationError = *p.TranslationError
	}
	if p.PDFSessionID != nil {
		m.PDFSessionID = *p.PDFSessionID
	}
	if p.PDFPageNumber != nil {
		m.PDFPageNumber = *p.PDFPageNumber
	}
	if p.PDFTotalPages != nil {
		m.PDFTotalPages = *p.PDFTotalPages
	}
	if p.ProcessingStep != nil {
		m.ProcessingStep = *p.ProcessingStep
	}
	if p.ProcessingProgress != nil {
		m.ProcessingProgress = *p.ProcessingProgress
	}
	if p.LLMTranslations != nil {
		m.LLMTranslations = p.LLMTranslations
	}
	if p.SelectedResult != nil {
		m.SelectedResult = *p.SelectedResult
	}
	if p.URL != nil {
		m.URL = *p.URL
	}
	if p.UpdatedAt != nil {
		m.UpdatedAt = *p.UpdatedAt
	}
	return m
}

// PatchFromMaterial builds a patch that overwrites every mutable field
// with the values of an authoritative server record.
func PatchFromMaterial(m Material) MaterialPatch {
	return MaterialPatch{
		Name:                &m.Name,
		Type:                &m.Type,
		Status:              &m.Status,
		Confirmed:           &m.Confirmed,
		TranslatedImagePath: &m.TranslatedImagePath,
		TranslationTextInfo: m.TranslationTextInfo,
		TranslationError:    &m.TranslationError,
		PDFSessionID:        &m.PDFSessionID,
		PDFPageNumber:       &m.PDFPageNumber,
		PDFTotalPages:       &m.PDFTotalPages,
		ProcessingStep:      &m.ProcessingStep,
		ProcessingProgress:  &m.ProcessingProgress,
		LLMTranslations:     m.LLMTranslations,
		SelectedResult:      &m.SelectedResult,
		URL:                 &m.URL,
		UpdatedAt:           &m.UpdatedAt,
	}
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T { return &v }

// MaterialTypeForFile guesses the material type from a file name.
func MaterialTypeForFile(name string) MaterialType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MaterialTypePDF
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif", ".tif", ".tiff":
		return MaterialTypeImage
	default:
		return MaterialTypeDocument
	}
}
