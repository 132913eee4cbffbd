// Package stubapp serves a small single-page outliner that follows the
// same DOM contract as the real app: search and page creation, block
// editing, code blocks, the left sidebar and graph folder loading.
// Browser tests and local CLI runs drive it when no real app is available.
package stubapp

import (
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"strings"

	"github.com/kuitang/outliner-e2e/internal/errs"
	"github.com/kuitang/outliner-e2e/internal/graphfs"
	"github.com/kuitang/outliner-e2e/internal/obs"
)

//go:embed static
var staticFiles embed.FS

// Handler serves the stub app page, its assets and the graph API.
type Handler struct {
	index  []byte
	assets http.Handler
}

// NewHandler creates a handler backed by the embedded assets.
func NewHandler() *Handler {
	index, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		panic("stubapp: missing embedded index.html: " + err.Error())
	}
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("stubapp: " + err.Error())
	}
	return &Handler{
		index:  index,
		assets: http.StripPrefix("/static/", http.FileServerFS(sub)),
	}
}

// New returns the stub app with request logging.
func New() http.Handler {
	mux := http.NewServeMux()
	NewHandler().RegisterRoutes(mux)
	return obs.AccessLogMiddleware("stubapp", mux)
}

// RegisterRoutes registers the stub app routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.Handle("GET /static/", h.assets)
	mux.HandleFunc("GET /api/graph", h.HandleGraph)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
}

// HandleIndex serves the app page.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(h.index)
}

// HandleHealth reports that the server is up.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GraphResponse is the JSON body of GET /api/graph.
type GraphResponse struct {
	Name  string         `json:"name"`
	Pages []PageResponse `json:"pages"`
}

// PageResponse is one page of a loaded graph.
type PageResponse struct {
	Title  string          `json:"title"`
	Blocks []BlockResponse `json:"blocks"`
}

// BlockResponse is one block with its content rendered to sanitized HTML.
type BlockResponse struct {
	UUID     string          `json:"uuid,omitempty"`
	Content  string          `json:"content"`
	HTML     string          `json:"html"`
	Children []BlockResponse `json:"children,omitempty"`
}

// ErrorResponse is the JSON body of a failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HandleGraph loads the graph folder named by the dir query parameter.
func (h *Handler) HandleGraph(w http.ResponseWriter, r *http.Request) {
	logger := obs.From(r.Context()).With("pkg", "stubapp")
	dir := strings.TrimSpace(r.URL.Query().Get("dir"))

	resp, err := LoadGraph(dir)
	if err != nil {
		code := errs.CodeOf(err)
		logger.Warn("graph load failed", "dir", dir, "code", string(code), "error", err)
		writeError(w, errs.HTTPStatus(code), code, errs.MessageOf(err))
		return
	}

	logger.Info("graph served", "dir", dir, "pages", len(resp.Pages))
	writeJSON(w, http.StatusOK, resp)
}

// LoadGraph reads the graph in dir into its API form.
func LoadGraph(dir string) (*GraphResponse, error) {
	if dir == "" {
		return nil, errs.New(errs.InvalidArgument, "dir is required")
	}
	g, err := graphfs.Open(dir)
	if err != nil {
		return nil, err
	}
	pages, err := g.Pages()
	if err != nil {
		return nil, err
	}

	resp := &GraphResponse{Name: g.Name(), Pages: make([]PageResponse, 0, len(pages))}
	for _, p := range pages {
		resp.Pages = append(resp.Pages, PageResponse{
			Title:  p.Title,
			Blocks: blockResponses(p.Blocks),
		})
	}
	return resp, nil
}

func blockResponses(blocks []graphfs.Block) []BlockResponse {
	out := make([]BlockResponse, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, BlockResponse{
			UUID:     b.UUID,
			Content:  b.Content,
			HTML:     graphfs.RenderHTML(b.Content),
			Children: blockResponses(b.Children),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code errs.Code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: string(code)})
}
