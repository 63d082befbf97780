package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/heartmarshall/translation-desk/internal/config"
	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/pkg/ctxutil"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.APIConfig{
		BaseURL:       srv.URL,
		Timeout:       5 * time.Second,
		UploadTimeout: 5 * time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}
	return New(cfg, newTestLogger(), opts...)
}

func TestClient_GetMaterials_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/clients/c1/materials" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want Bearer tok", got)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("X-Request-Id header missing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"materials":[
			{"id":"m1","client_id":"c1","name":"a.pdf - 第1页","type":"pdf","status":"已翻译","pdf_session_id":"s1","pdf_page_number":1,"pdf_total_pages":2},
			{"id":"m2","client_id":"c1","name":"b.png","type":"image","status":"已上传"}
		]}`))
	}), WithTokenSource(staticToken("tok")))

	got, err := c.GetMaterials(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].PDFSessionID != "s1" || got[0].PDFTotalPages != 2 || got[0].Status != domain.StatusTranslated {
		t.Errorf("materials[0] = %+v", got[0])
	}
	if got[1].Type != domain.MaterialTypeImage {
		t.Errorf("materials[1].Type = %q, want image", got[1].Type)
	}
}

func TestClient_RequestIDFromContext(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Request-Id"); got != "req-7" {
			t.Errorf("X-Request-Id = %q, want req-7", got)
		}
		w.Write([]byte(`{"clients":[]}`))
	}))

	ctx := ctxutil.WithRequestID(context.Background(), "req-7")
	if _, err := c.ListClients(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_GetRetriesOn5xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"clients":[{"id":"c1","name":"张三"}]}`))
	}))

	got, err := c.ListClients(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "张三" {
		t.Errorf("clients = %+v", got)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestClient_GetGivesUpAfterRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"database down"}`))
	}))

	_, err := c.GetMaterials(context.Background(), "c1")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != 500 || apiErr.Message != "database down" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", calls.Load())
	}
}

func TestClient_MutationsAreNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	if err := c.DeleteMaterial(context.Background(), "m1"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestClient_NotFoundMapsToSentinel(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"客户不存在"}`))
	}))

	_, err := c.GetMaterials(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := domain.UserMessage(err); got != "客户不存在" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestClient_UnauthorizedHook(t *testing.T) {
	t.Parallel()

	var hooked []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), WithUnauthorizedHandler(func(path string) { hooked = append(hooked, path) }))

	_, err := c.ListClients(context.Background(), false)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	_, err = c.SignIn(context.Background(), "u", "wrong")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized from sign-in, got %v", err)
	}

	if len(hooked) != 1 || hooked[0] != "/api/clients" {
		t.Errorf("hook calls = %v, want only /api/clients", hooked)
	}
}

func TestClient_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(config.APIConfig{BaseURL: url, Timeout: time.Second, UploadTimeout: time.Second}, newTestLogger())

	_, err := c.UploadMaterials(context.Background(), "c1", []UploadFile{{Name: "a.pdf", Content: strings.NewReader("x")}})
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestClient_UploadMaterials_Multipart(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/clients/c1/materials/upload" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 2 {
			t.Fatalf("files = %d, want 2", len(files))
		}
		if files[0].Filename != "合同.pdf" || files[1].Filename != "scan.png" {
			t.Errorf("filenames = %q, %q", files[0].Filename, files[1].Filename)
		}
		w.Write([]byte(`{"materials":[{"id":"m1","client_id":"c1","name":"合同.pdf","type":"pdf","status":"已上传"},{"id":"m2","client_id":"c1","name":"scan.png","type":"image","status":"已上传"}]}`))
	}))

	got, err := c.UploadMaterials(context.Background(), "c1", []UploadFile{
		{Name: "合同.pdf", Content: strings.NewReader("%PDF-1.4")},
		{Name: "scan.png", Content: bytes.NewReader([]byte{0x89, 'P', 'N', 'G'})},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m2" {
		t.Errorf("materials = %+v", got)
	}
}

// gatedReader refuses to produce data until gate is closed.
type gatedReader struct {
	gate <-chan struct{}
	r    io.Reader
	open bool
}

func (g *gatedReader) Read(p []byte) (int, error) {
	if !g.open {
		select {
		case <-g.gate:
			g.open = true
		case <-time.After(2 * time.Second):
			return 0, errors.New("second file read before the first reached the server")
		}
	}
	return g.r.Read(p)
}

func TestClient_UploadMaterials_StreamsParts(t *testing.T) {
	t.Parallel()

	first := bytes.Repeat([]byte{'%'}, 64<<10)
	gate := make(chan struct{})

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if err != nil {
			t.Errorf("multipart reader: %v", err)
			return
		}
		part, err := mr.NextPart()
		if err != nil {
			t.Errorf("first part: %v", err)
			return
		}
		if _, err := io.ReadFull(part, make([]byte, 32<<10)); err != nil {
			t.Errorf("read first part: %v", err)
			return
		}
		close(gate)
		_, _ = io.Copy(io.Discard, part)

		next, err := mr.NextPart()
		if err != nil {
			t.Errorf("second part: %v", err)
			return
		}
		body, _ := io.ReadAll(next)
		if next.FileName() != "scan.png" || string(body) != "PNG" {
			t.Errorf("second part = %q %q", next.FileName(), body)
		}
		w.Write([]byte(`{"materials":[{"id":"m1"},{"id":"m2"}]}`))
	}))

	got, err := c.UploadMaterials(context.Background(), "c1", []UploadFile{
		{Name: "big.pdf", Content: bytes.NewReader(first)},
		{Name: "scan.png", Content: &gatedReader{gate: gate, r: strings.NewReader("PNG")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("materials = %+v", got)
	}
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestClient_UploadMaterials_ReadErrorAbortsRequest(t *testing.T) {
	t.Parallel()

	errDisk := errors.New("disk gone")
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{"materials":[]}`))
	}))

	_, err := c.UploadMaterials(context.Background(), "c1", []UploadFile{
		{Name: "a.pdf", Content: failingReader{err: errDisk}},
	})
	if !errors.Is(err, errDisk) {
		t.Fatalf("expected read error, got %v", err)
	}
	if !strings.Contains(err.Error(), "a.pdf") {
		t.Errorf("error does not name the file: %v", err)
	}
}

func TestClient_TranslateMaterials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ids        []string
		response   string
		wantBody   string
		wantInline bool
	}{
		{
			name:       "all with inline results",
			ids:        nil,
			response:   `{"translated_materials":[{"id":"m1","status":"已翻译"}],"translated_count":1,"failed_count":0}`,
			wantBody:   "",
			wantInline: true,
		},
		{
			name:       "selected without inline results",
			ids:        []string{"m1", "m2"},
			response:   `{"message":"started"}`,
			wantBody:   `{"material_ids":["m1","m2"]}`,
			wantInline: false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				if strings.TrimSpace(string(body)) != tt.wantBody {
					t.Errorf("body = %q, want %q", body, tt.wantBody)
				}
				w.Write([]byte(tt.response))
			}))

			res, err := c.TranslateMaterials(context.Background(), "c1", tt.ids)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.HasInline() != tt.wantInline {
				t.Errorf("HasInline = %v, want %v", res.HasInline(), tt.wantInline)
			}
		})
	}
}

func TestClient_MaterialActions(t *testing.T) {
	t.Parallel()

	var gotPaths []string
	var gotBodies []map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.Method+" "+r.URL.Path)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotBodies = append(gotBodies, body)
		w.Write([]byte(`{"material":{"id":"m1","status":"已确认","confirmed":true}}`))
	}))

	ctx := context.Background()
	m, err := c.ConfirmMaterial(ctx, "m1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if m == nil || !m.Confirmed {
		t.Errorf("confirm result = %+v", m)
	}
	if _, err := c.RotateMaterial(ctx, "m1", "left"); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, err := c.SelectResult(ctx, "m1", "llm"); err != nil {
		t.Fatalf("select: %v", err)
	}

	want := []string{
		"POST /api/materials/m1/confirm",
		"POST /api/materials/m1/rotate",
		"POST /api/materials/m1/select",
	}
	for i, w := range want {
		if gotPaths[i] != w {
			t.Errorf("call %d = %q, want %q", i, gotPaths[i], w)
		}
	}
	if gotBodies[1]["direction"] != "left" {
		t.Errorf("rotate body = %v", gotBodies[1])
	}
}

func TestClient_ClientCRUD(t *testing.T) {
	t.Parallel()

	var calls []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.RequestURI())
		switch r.Method {
		case http.MethodPost:
			w.Write([]byte(`{"client":{"id":"c9","name":"张三"}}`))
		case http.MethodPut:
			if strings.HasSuffix(r.URL.Path, "/archive") {
				var body map[string]string
				_ = json.NewDecoder(r.Body).Decode(&body)
				if body["reason"] != "结案" {
					t.Errorf("archive reason = %q", body["reason"])
				}
			}
			w.Write([]byte(`{"id":"c9","name":"张三丰"}`))
		case http.MethodGet:
			w.Write([]byte(`{"clients":[]}`))
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	ctx := context.Background()
	created, err := c.CreateClient(ctx, ClientInput{Name: "张三"})
	if err != nil || created == nil || created.ID != "c9" {
		t.Fatalf("create = %+v, %v", created, err)
	}
	updated, err := c.UpdateClient(ctx, "c9", ClientInput{Name: "张三丰"})
	if err != nil || updated == nil || updated.Name != "张三丰" {
		t.Fatalf("update = %+v, %v", updated, err)
	}
	if err := c.ArchiveClient(ctx, "c9", "结案"); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if err := c.UnarchiveClient(ctx, "c9"); err != nil {
		t.Fatalf("unarchive: %v", err)
	}
	if _, err := c.ListClients(ctx, true); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := c.DeleteClient(ctx, "c9"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{
		"POST /api/clients",
		"PUT /api/clients/c9",
		"PUT /api/clients/c9/archive",
		"PUT /api/clients/c9/unarchive",
		"GET /api/clients?include_archived=true",
		"DELETE /api/clients/c9",
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestClient_Export(t *testing.T) {
	t.Parallel()

	payload := []byte("PK\x03\x04fake-zip")
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/clients/c1/export" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Write(payload)
	}))

	var buf bytes.Buffer
	n, err := c.Export(context.Background(), "c1", &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != int64(len(payload)) || !bytes.Equal(buf.Bytes(), payload) {
		t.Errorf("export = %d bytes %q", n, buf.Bytes())
	}
}

func TestParseAPIError_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"bad file"}`, "bad file"},
		{"message wins", `{"error":"x","message":"文件类型不支持"}`, "文件类型不支持"},
		{"detail", `{"detail":"oops"}`, "oops"},
		{"plain text", `upstream timeout`, "upstream timeout"},
		{"html dropped", `<html>502</html>`, ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseAPIError("GET", "/x", 400, []byte(tt.body))
			if got.Message != tt.want {
				t.Errorf("Message = %q, want %q", got.Message, tt.want)
			}
			if !errors.Is(got, domain.ErrValidation) {
				t.Error("400 should unwrap to ErrValidation")
			}
		})
	}
}
