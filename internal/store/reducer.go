package store

import (
	"maps"
	"reflect"
	"slices"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

type outcome int

const (
	applied outcome = iota
	unchanged
	unknown
)

// reduce is the pure transition function of the store. It never mutates
// the slices or maps of s; every change builds new ones.
func reduce(s State, a Action) (State, outcome) {
	switch a := a.(type) {
	case SetSession:
		s.Session = a.Session
		return s, applied

	case Logout:
		s.Session = nil
		s.Clients = nil
		s.Materials = nil
		s.CurrentClient = nil
		s.CurrentMaterial = nil
		s.Upload = domain.ClosedUpload()
		s.Confirm = domain.ConfirmDialogRequest{}
		s.Modals = nil
		s.Loading = false
		return s, applied

	case SetClients:
		s.Clients = slices.Clone(a.Clients)
		if s.CurrentClient != nil {
			if c, ok := s.Client(s.CurrentClient.ID); ok {
				s.CurrentClient = &c
			}
		}
		return s, applied

	case AddClient:
		s.Clients = append(slices.Clip(s.Clients), a.Client)
		return s, applied

	case UpdateClient:
		i := slices.IndexFunc(s.Clients, func(c domain.Client) bool { return c.ID == a.Client.ID })
		if i < 0 {
			return s, unchanged
		}
		s.Clients = slices.Clone(s.Clients)
		s.Clients[i] = a.Client
		if s.CurrentClient != nil && s.CurrentClient.ID == a.Client.ID {
			c := a.Client
			s.CurrentClient = &c
		}
		return s, applied

	case RemoveClient:
		if !slices.ContainsFunc(s.Clients, func(c domain.Client) bool { return c.ID == a.ID }) {
			return s, unchanged
		}
		s.Clients = slices.DeleteFunc(slices.Clone(s.Clients), func(c domain.Client) bool { return c.ID == a.ID })
		if s.CurrentClient != nil && s.CurrentClient.ID == a.ID {
			s.CurrentClient = nil
			s.Materials = nil
			s.CurrentMaterial = nil
		}
		return s, applied

	case SetCurrentClient:
		prev := s.CurrentClientID()
		if a.Client == nil {
			s.CurrentClient = nil
		} else {
			c := *a.Client
			s.CurrentClient = &c
		}
		if s.CurrentClientID() != prev {
			s.Materials = nil
		}
		s.CurrentMaterial = nil
		return s, applied

	case SetMaterials:
		if a.ClientID != "" && s.CurrentClientID() != a.ClientID {
			return s, unchanged
		}
		s.Materials = slices.Clone(a.Materials)
		return syncCurrentMaterial(s), applied

	case AddMaterials:
		if len(a.Materials) == 0 && len(a.Replacing) == 0 {
			return s, unchanged
		}
		drop := make(map[string]struct{}, len(a.Materials)+len(a.Replacing))
		for _, id := range a.Replacing {
			drop[id] = struct{}{}
		}
		for _, m := range a.Materials {
			drop[m.ID] = struct{}{}
		}
		next := make([]domain.Material, 0, len(s.Materials)+len(a.Materials))
		for _, m := range s.Materials {
			if _, ok := drop[m.ID]; !ok {
				next = append(next, m)
			}
		}
		s.Materials = append(next, a.Materials...)
		return syncCurrentMaterial(s), applied

	case UpdateMaterial:
		i := slices.IndexFunc(s.Materials, func(m domain.Material) bool { return m.ID == a.ID })
		if i < 0 {
			return s, unchanged
		}
		merged := a.Patch.Apply(s.Materials[i])
		if reflect.DeepEqual(merged, s.Materials[i]) {
			return s, unchanged
		}
		s.Materials = slices.Clone(s.Materials)
		s.Materials[i] = merged
		return syncCurrentMaterial(s), applied

	case RemoveMaterials:
		ids := make(map[string]struct{}, len(a.IDs))
		for _, id := range a.IDs {
			ids[id] = struct{}{}
		}
		match := func(m domain.Material) bool {
			if _, ok := ids[m.ID]; ok {
				return true
			}
			return a.PDFSessionID != "" && m.PDFSessionID == a.PDFSessionID
		}
		if !slices.ContainsFunc(s.Materials, match) {
			return s, unchanged
		}
		s.Materials = slices.DeleteFunc(slices.Clone(s.Materials), match)
		return syncCurrentMaterial(s), applied

	case SetCurrentMaterial:
		s.CurrentMaterial = nil
		if m, ok := s.Material(a.ID); ok {
			s.CurrentMaterial = &m
		}
		return s, applied

	case SetUploadStatus:
		s.Upload = cloneUpload(a.Status)
		return s, applied

	case PatchUploadStatus:
		if a.Fn == nil {
			return s, unchanged
		}
		next := cloneUpload(a.Fn(cloneUpload(s.Upload)))
		if reflect.DeepEqual(next, s.Upload) {
			return s, unchanged
		}
		s.Upload = next
		return s, applied

	case ResetUpload:
		s.Upload = domain.ClosedUpload()
		return s, applied

	case OpenConfirm:
		req := a.Request
		req.IsOpen = true
		s.Confirm = req
		return s, applied

	case CloseConfirm:
		if !s.Confirm.IsOpen {
			return s, unchanged
		}
		s.Confirm = domain.ConfirmDialogRequest{}
		return s, applied

	case SetModal:
		if s.Modals[a.Name] == a.Open {
			return s, unchanged
		}
		modals := maps.Clone(s.Modals)
		if modals == nil {
			modals = make(map[string]bool)
		}
		if a.Open {
			modals[a.Name] = true
		} else {
			delete(modals, a.Name)
		}
		s.Modals = modals
		return s, applied

	case SetLoading:
		if s.Loading == a.Loading {
			return s, unchanged
		}
		s.Loading = a.Loading
		return s, applied

	case SetTheme:
		if s.Theme == a.Theme {
			return s, unchanged
		}
		s.Theme = a.Theme
		return s, applied
	}

	return s, unknown
}

// syncCurrentMaterial re-points CurrentMaterial at the list entry with the
// same ID, or clears it when that entry is gone.
func syncCurrentMaterial(s State) State {
	if s.CurrentMaterial == nil {
		return s
	}
	if m, ok := s.Material(s.CurrentMaterial.ID); ok {
		s.CurrentMaterial = &m
	} else {
		s.CurrentMaterial = nil
	}
	return s
}

func cloneUpload(u domain.UploadStatus) domain.UploadStatus {
	u.Files = slices.Clone(u.Files)
	u.UploadedMaterialIDs = slices.Clone(u.UploadedMaterialIDs)
	return u
}
