package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

// ClientInput holds the editable fields of a client.
type ClientInput struct {
	Name     string `json:"name"`
	CaseType string `json:"case_type,omitempty"`
	CaseDate string `json:"case_date,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type clientsResponse struct {
	Clients []domain.Client `json:"clients"`
}

// ListClients returns the clients of the signed-in user in server order.
// Archived clients are excluded unless includeArchived is set.
func (c *Client) ListClients(ctx context.Context, includeArchived bool) ([]domain.Client, error) {
	path := "/api/clients"
	if includeArchived {
		path += "?" + url.Values{"include_archived": {"true"}}.Encode()
	}

	var out clientsResponse
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Clients, nil
}

// CreateClient creates a client and returns the server record.
func (c *Client) CreateClient(ctx context.Context, in ClientInput) (*domain.Client, error) {
	var raw json.RawMessage
	if err := c.sendJSON(ctx, http.MethodPost, "/api/clients", in, &raw); err != nil {
		return nil, err
	}
	return decodeClient(raw)
}

// UpdateClient replaces the editable fields of a client.
func (c *Client) UpdateClient(ctx context.Context, id string, in ClientInput) (*domain.Client, error) {
	var raw json.RawMessage
	if err := c.sendJSON(ctx, http.MethodPut, "/api/clients/"+url.PathEscape(id), in, &raw); err != nil {
		return nil, err
	}
	return decodeClient(raw)
}

// DeleteClient removes a client and all of its materials.
func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/api/clients/"+url.PathEscape(id), nil, nil)
}

// ArchiveClient archives a client with an optional reason.
func (c *Client) ArchiveClient(ctx context.Context, id, reason string) error {
	body := struct {
		Reason string `json:"reason"`
	}{Reason: reason}
	return c.sendJSON(ctx, http.MethodPut, "/api/clients/"+url.PathEscape(id)+"/archive", body, nil)
}

func (c *Client) UnarchiveClient(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodPut, "/api/clients/"+url.PathEscape(id)+"/unarchive", nil, nil)
}

// decodeClient accepts both {"client": {...}} and a bare client object.
func decodeClient(raw json.RawMessage) (*domain.Client, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var env struct {
		Client *domain.Client `json:"client"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Client != nil {
		return env.Client, nil
	}

	var cl domain.Client
	if err := json.Unmarshal(raw, &cl); err != nil {
		return nil, fmt.Errorf("remote: decode client: %w", err)
	}
	if cl.ID == "" {
		return nil, nil
	}
	return &cl, nil
}
