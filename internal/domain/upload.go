package domain

// UploadItem is one file or URL of the active upload batch.
type UploadItem struct {
	TempID     string
	Name       string
	Kind       UploadItemKind
	Status     MaterialStatus
	MaterialID string
	Error      string
}

// UploadStatus is the progress record of the single active upload batch.
// Starting a new batch overwrites it.
type UploadStatus struct {
	BatchID             string
	Phase               UploadPhase
	IsUploading         bool
	ShowModal           bool
	Files               []UploadItem
	Current             int
	Total               int
	Message             string
	CanCancel           bool
	ClientID            string
	UploadedMaterialIDs []string
}

// ClosedUpload is the idle shape both completion paths reset to.
func ClosedUpload() UploadStatus {
	return UploadStatus{Phase: UploadIdle}
}
