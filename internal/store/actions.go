package store

import "github.com/heartmarshall/translation-desk/internal/domain"

// Action is a named mutation understood by the reducer.
type Action interface {
	Kind() string
}

// SetSession stores the signed-in session. Nil signs out without clearing data.
type SetSession struct{ Session *domain.Session }

// Logout clears the session together with everything owned by it.
type Logout struct{}

// SetClients replaces the client list and refreshes CurrentClient from it.
type SetClients struct{ Clients []domain.Client }

// AddClient appends a client. The current client is not affected.
type AddClient struct{ Client domain.Client }

// UpdateClient replaces the client with the same ID, mirroring the change
// into CurrentClient when it is selected.
type UpdateClient struct{ Client domain.Client }

// RemoveClient drops a client. Removing the current one clears its materials.
type RemoveClient struct{ ID string }

// SetCurrentClient selects a client (nil clears) and drops the material
// selection.
type SetCurrentClient struct{ Client *domain.Client }

// SetMaterials replaces the material list of ClientID. It is ignored when
// ClientID is no longer the current client.
type SetMaterials struct {
	ClientID  string
	Materials []domain.Material
}

// AddMaterials appends materials. Entries listed in Replacing and entries
// with an ID already present are dropped first, so server records
// supersede placeholders in one step.
type AddMaterials struct {
	Materials []domain.Material
	Replacing []string
}

// UpdateMaterial merges Patch into the material with ID. Unknown IDs are a no-op.
type UpdateMaterial struct {
	ID    string
	Patch domain.MaterialPatch
}

// RemoveMaterials deletes by ID and, when PDFSessionID is set, every page
// of that session.
type RemoveMaterials struct {
	IDs          []string
	PDFSessionID string
}

// SetCurrentMaterial selects a material by ID. An empty or unknown ID clears
// the selection.
type SetCurrentMaterial struct{ ID string }

// SetUploadStatus replaces the upload status wholesale.
type SetUploadStatus struct{ Status domain.UploadStatus }

// PatchUploadStatus derives the next upload status from the current one
// inside the store's critical section.
type PatchUploadStatus struct {
	Fn func(domain.UploadStatus) domain.UploadStatus
}

// ResetUpload closes the upload modal and returns it to idle.
type ResetUpload struct{}

// OpenConfirm shows a confirmation dialog, replacing any open one.
type OpenConfirm struct{ Request domain.ConfirmDialogRequest }

// CloseConfirm dismisses the open confirmation dialog.
type CloseConfirm struct{}

// SetModal opens or closes the named modal.
type SetModal struct {
	Name string
	Open bool
}

// SetLoading toggles the global loading flag.
type SetLoading struct{ Loading bool }

// SetTheme selects the UI theme name.
type SetTheme struct{ Theme string }

func (SetSession) Kind() string         { return "set_session" }
func (Logout) Kind() string             { return "logout" }
func (SetClients) Kind() string         { return "set_clients" }
func (AddClient) Kind() string          { return "add_client" }
func (UpdateClient) Kind() string       { return "update_client" }
func (RemoveClient) Kind() string       { return "remove_client" }
func (SetCurrentClient) Kind() string   { return "set_current_client" }
func (SetMaterials) Kind() string       { return "set_materials" }
func (AddMaterials) Kind() string       { return "add_materials" }
func (UpdateMaterial) Kind() string     { return "update_material" }
func (RemoveMaterials) Kind() string    { return "remove_materials" }
func (SetCurrentMaterial) Kind() string { return "set_current_material" }
func (SetUploadStatus) Kind() string    { return "set_upload_status" }
func (PatchUploadStatus) Kind() string  { return "patch_upload_status" }
func (ResetUpload) Kind() string        { return "reset_upload" }
func (OpenConfirm) Kind() string        { return "open_confirm" }
func (CloseConfirm) Kind() string       { return "close_confirm" }
func (SetModal) Kind() string           { return "set_modal" }
func (SetLoading) Kind() string         { return "set_loading" }
func (SetTheme) Kind() string           { return "set_theme" }
