package store

import "github.com/heartmarshall/translation-desk/internal/domain"

// State is an immutable snapshot of the desk. Slices and maps in a snapshot
// are shared with later snapshots and must be treated as read-only.
type State struct {
	Session       *domain.Session
	Clients       []domain.Client
	Materials     []domain.Material
	CurrentClient *domain.Client

	// CurrentMaterial is always a copy of the entry in Materials with the
	// same ID. The reducer re-derives it after every mutation.
	CurrentMaterial *domain.Material

	Upload  domain.UploadStatus
	Confirm domain.ConfirmDialogRequest
	Modals  map[string]bool
	Loading bool
	Theme   string

	// Notification is the visible toast, filled in when the snapshot is read.
	Notification *domain.Notification
	// NotificationSeq counts notifications shown since start.
	NotificationSeq uint64

	// Version increases on every effective mutation.
	Version uint64
}

// Authenticated reports whether somebody is signed in.
func (s State) Authenticated() bool {
	return s.Session != nil && s.Session.Authenticated
}

// CurrentClientID returns the ID of the selected client or "".
func (s State) CurrentClientID() string {
	if s.CurrentClient == nil {
		return ""
	}
	return s.CurrentClient.ID
}

// Material returns the material with the given ID.
func (s State) Material(id string) (domain.Material, bool) {
	for _, m := range s.Materials {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Material{}, false
}

// Client returns the client with the given ID.
func (s State) Client(id string) (domain.Client, bool) {
	for _, c := range s.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Client{}, false
}

// ModalOpen reports whether the named modal is visible.
func (s State) ModalOpen(name string) bool {
	return s.Modals[name]
}
