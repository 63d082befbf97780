package domain

// Client is a case owner whose materials are translated.
// Timestamps are kept as the opaque strings the backend sends.
type Client struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CaseType       string `json:"case_type,omitempty"`
	CaseDate       string `json:"case_date,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Address        string `json:"address,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Archived       bool   `json:"is_archived"`
	ArchivedAt     string `json:"archived_at,omitempty"`
	ArchivedReason string `json:"archived_reason,omitempty"`
}
