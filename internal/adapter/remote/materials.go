package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

// UploadFile is one file of a multipart upload.
type UploadFile struct {
	Name    string
	Content io.Reader
}

// TranslateResult is the optional inline result of a translate call.
type TranslateResult struct {
	TranslatedMaterials []domain.Material `json:"translated_materials"`
	TranslatedCount     int               `json:"translated_count"`
	FailedCount         int               `json:"failed_count"`
}

// HasInline reports whether the server translated synchronously.
func (r TranslateResult) HasInline() bool { return len(r.TranslatedMaterials) > 0 }

type materialsResponse struct {
	Materials []domain.Material `json:"materials"`
}

// Material actions accepted by the /api/materials/:id/<action> endpoints.
const (
	ActionConfirm        = "confirm"
	ActionUnconfirm      = "unconfirm"
	ActionSelect         = "select"
	ActionSaveRegions    = "save-regions"
	ActionSaveFinalImage = "save-final-image"
	ActionRetranslate    = "retranslate"
	ActionRotate         = "rotate"
)

func clientPath(clientID, suffix string) string {
	return "/api/clients/" + url.PathEscape(clientID) + suffix
}

// GetMaterials returns all materials of a client in server order.
func (c *Client) GetMaterials(ctx context.Context, clientID string) ([]domain.Material, error) {
	var out materialsResponse
	if err := c.getJSON(ctx, clientPath(clientID, "/materials"), &out); err != nil {
		return nil, err
	}
	return out.Materials, nil
}

// UploadMaterials sends files as one multipart request (field "files").
// Parts are written into the request body as the transport reads it.
func (c *Client) UploadMaterials(ctx context.Context, clientID string, files []UploadFile) ([]domain.Material, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	written := make(chan error, 1)
	go func() {
		err := writeParts(mw, files)
		pw.CloseWithError(err)
		written <- err
	}()

	path := clientPath(clientID, "/materials/upload")
	resp, err := c.do(ctx, c.uploadClient, http.MethodPost, path, pr, mw.FormDataContentType())
	_ = pr.Close()
	if werr := <-written; werr != nil && !errors.Is(werr, io.ErrClosedPipe) {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, werr
	}
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out materialsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		return nil, fmt.Errorf("remote: decode upload response: %w", err)
	}
	return out.Materials, nil
}

func writeParts(mw *multipart.Writer, files []UploadFile) error {
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return fmt.Errorf("remote: create form file: %w", err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return fmt.Errorf("remote: read %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("remote: close multipart: %w", err)
	}
	return nil
}

// AddURLs registers webpages as materials.
func (c *Client) AddURLs(ctx context.Context, clientID string, urls []string) ([]domain.Material, error) {
	body := struct {
		URLs []string `json:"urls"`
	}{URLs: urls}

	var out materialsResponse
	if err := c.sendJSON(ctx, http.MethodPost, clientPath(clientID, "/materials/urls"), body, &out); err != nil {
		return nil, err
	}
	return out.Materials, nil
}

// TranslateMaterials starts translation of the given materials, or of all
// untranslated materials of the client when ids is empty.
func (c *Client) TranslateMaterials(ctx context.Context, clientID string, ids []string) (*TranslateResult, error) {
	var body any
	if len(ids) > 0 {
		body = struct {
			MaterialIDs []string `json:"material_ids"`
		}{MaterialIDs: ids}
	}

	var out TranslateResult
	if err := c.sendJSON(ctx, http.MethodPost, clientPath(clientID, "/materials/translate"), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MaterialAction posts one of the Action* operations and returns the
// updated material when the server includes it.
func (c *Client) MaterialAction(ctx context.Context, materialID, action string, body any) (*domain.Material, error) {
	var out struct {
		Material *domain.Material `json:"material"`
	}
	path := "/api/materials/" + url.PathEscape(materialID) + "/" + action
	if err := c.sendJSON(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return out.Material, nil
}

func (c *Client) ConfirmMaterial(ctx context.Context, id string) (*domain.Material, error) {
	return c.MaterialAction(ctx, id, ActionConfirm, nil)
}

func (c *Client) UnconfirmMaterial(ctx context.Context, id string) (*domain.Material, error) {
	return c.MaterialAction(ctx, id, ActionUnconfirm, nil)
}

// SelectResult chooses which engine output becomes the material's result.
func (c *Client) SelectResult(ctx context.Context, id, result string) (*domain.Material, error) {
	body := struct {
		TranslationType string `json:"translation_type"`
	}{TranslationType: result}
	return c.MaterialAction(ctx, id, ActionSelect, body)
}

func (c *Client) SaveRegions(ctx context.Context, id string, regions json.RawMessage) (*domain.Material, error) {
	body := struct {
		Regions json.RawMessage `json:"regions"`
	}{Regions: regions}
	return c.MaterialAction(ctx, id, ActionSaveRegions, body)
}

// SaveFinalImage uploads the edited image as a base64 data URL.
func (c *Client) SaveFinalImage(ctx context.Context, id, imageData string) (*domain.Material, error) {
	body := struct {
		ImageData string `json:"image_data"`
	}{ImageData: imageData}
	return c.MaterialAction(ctx, id, ActionSaveFinalImage, body)
}

func (c *Client) RetranslateMaterial(ctx context.Context, id string) (*domain.Material, error) {
	return c.MaterialAction(ctx, id, ActionRetranslate, nil)
}

// RotateMaterial rotates the source image; direction is "left" or "right".
func (c *Client) RotateMaterial(ctx context.Context, id, direction string) (*domain.Material, error) {
	body := struct {
		Direction string `json:"direction"`
	}{Direction: direction}
	return c.MaterialAction(ctx, id, ActionRotate, body)
}

func (c *Client) DeleteMaterial(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/api/materials/"+url.PathEscape(id), nil, nil)
}

// Export streams the client's zip package into w and returns the byte count.
func (c *Client) Export(ctx context.Context, clientID string, w io.Writer) (int64, error) {
	resp, err := c.do(ctx, c.uploadClient, http.MethodGet, clientPath(clientID, "/export"), nil, "")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("remote: write export: %w", err)
	}
	return n, nil
}
