package domain

// MaterialType classifies the source document of a material.
type MaterialType string

const (
	MaterialTypePDF      MaterialType = "pdf"
	MaterialTypeImage    MaterialType = "image"
	MaterialTypeWebpage  MaterialType = "webpage"
	MaterialTypeDocument MaterialType = "document"
)

func (t MaterialType) String() string { return string(t) }

func (t MaterialType) IsValid() bool {
	switch t {
	case MaterialTypePDF, MaterialTypeImage, MaterialTypeWebpage, MaterialTypeDocument:
		return true
	}
	return false
}

// MaterialStatus is the backend's status label for a material.
// Values are the exact strings exchanged on the wire.
type MaterialStatus string

const (
	StatusUploading     MaterialStatus = "上传中"
	StatusAdding        MaterialStatus = "添加中"
	StatusUploaded      MaterialStatus = "已上传"
	StatusAdded         MaterialStatus = "已添加"
	StatusTranslating   MaterialStatus = "翻译中"
	StatusProcessing    MaterialStatus = "处理中"
	StatusTranslated    MaterialStatus = "已翻译"
	StatusLLMTranslated MaterialStatus = "llm_translated"
	StatusFailed        MaterialStatus = "翻译失败"
	StatusConfirmed     MaterialStatus = "已确认"
	StatusPendingSync   MaterialStatus = "待同步"

	// StatusPartiallyFailed only appears on aggregated PDF sessions.
	StatusPartiallyFailed MaterialStatus = "部分失败"
)

func (s MaterialStatus) String() string { return string(s) }

// IsTranslated reports whether s is a terminal translated status.
func (s MaterialStatus) IsTranslated() bool {
	switch s {
	case StatusTranslated, StatusLLMTranslated, StatusConfirmed:
		return true
	}
	return false
}

// IsProcessing reports whether work on the material is still in flight.
func (s MaterialStatus) IsProcessing() bool {
	switch s {
	case StatusUploading, StatusAdding, StatusTranslating, StatusProcessing:
		return true
	}
	return false
}

func (s MaterialStatus) IsFailed() bool {
	return s == StatusFailed || s == StatusPartiallyFailed
}

// IsAwaitingTranslation reports whether a translation poll should keep
// waiting on a material in this status.
func (s MaterialStatus) IsAwaitingTranslation() bool {
	switch s {
	case StatusUploaded, StatusAdded, StatusTranslating, StatusProcessing:
		return true
	}
	return false
}

// ProcessingStep is the fine-grained step reported by push events.
type ProcessingStep string

const (
	StepLLMTranslating ProcessingStep = "llm_translating"
	StepLLMTranslated  ProcessingStep = "llm_translated"
	StepTranslated     ProcessingStep = "translated"
	StepFailed         ProcessingStep = "failed"
)

func (s ProcessingStep) String() string { return string(s) }

// NotificationType selects the visual tone of a notification.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
)

func (t NotificationType) String() string { return string(t) }

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationSuccess, NotificationError, NotificationInfo, NotificationWarning:
		return true
	}
	return false
}

// UploadPhase is the state of the single active upload batch.
type UploadPhase string

const (
	UploadIdle            UploadPhase = "idle"
	UploadPreparing       UploadPhase = "preparing"
	UploadUploading       UploadPhase = "uploading"
	UploadAwaitingConfirm UploadPhase = "awaiting_confirm"
	UploadSplittingWait   UploadPhase = "splitting_wait"
	UploadComplete        UploadPhase = "complete"
	UploadCancelled       UploadPhase = "cancelled"
	UploadFailed          UploadPhase = "failed"
)

func (p UploadPhase) String() string { return string(p) }

// IsTerminal reports whether the batch has finished one way or another.
func (p UploadPhase) IsTerminal() bool {
	switch p {
	case UploadComplete, UploadCancelled, UploadFailed:
		return true
	}
	return false
}

// UploadItemKind distinguishes uploaded files from registered URLs.
type UploadItemKind string

const (
	UploadItemFile UploadItemKind = "file"
	UploadItemURL  UploadItemKind = "url"
)
