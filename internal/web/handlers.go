package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/joacominatel/salesdash/internal/app"
	"github.com/joacominatel/salesdash/internal/catalog"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type tabLink struct {
	Kind   catalog.Kind
	Title  string
	Active bool
}

type indexPage struct {
	Tabs      []tabLink
	Prompt    string
	Kind      catalog.Kind
	Questions []string
	Selected  string
	Report    app.RenderInstruction
	Cells     [][]string
}

// tab resolves the tab parameter against the served catalogs. Empty means the
// existing catalog.
func (s *Server) tab(raw string) (*catalog.Catalog, bool) {
	kind := catalog.KindExisting
	if raw != "" {
		k, ok := catalog.ParseKind(raw)
		if !ok {
			return nil, false
		}
		kind = k
	}
	return s.service.Catalogs().Catalog(kind)
}

// handleIndex renders the dashboard. Without a q parameter the first question of the
// tab is selected; an unknown q renders the selection prompt.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.tab(r.URL.Query().Get("tab"))
	if !ok {
		http.Error(w, "unknown tab", http.StatusBadRequest)
		return
	}
	kind := cat.Kind()

	selected := cat.First()
	if r.URL.Query().Has("q") {
		selected = r.URL.Query().Get("q")
	}

	report := s.service.Select(r.Context(), kind, selected)

	page := indexPage{
		Prompt:    cat.Prompt(),
		Kind:      kind,
		Questions: cat.Questions(),
		Selected:  selected,
		Report:    report,
		Cells:     report.Cells(),
	}
	for _, c := range s.service.Catalogs().All() {
		page.Tabs = append(page.Tabs, tabLink{Kind: c.Kind(), Title: c.Title(), Active: c.Kind() == kind})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if report.Kind == app.RenderError {
		w.WriteHeader(http.StatusBadGateway)
	}
	if err := indexTemplate.Execute(w, page); err != nil {
		s.log.Error().Err(err).Msg("render index")
	}
}

type questionsResponse struct {
	Catalogs []catalogResponse `json:"catalogs"`
}

type catalogResponse struct {
	Kind      catalog.Kind `json:"kind"`
	Title     string       `json:"title"`
	Prompt    string       `json:"prompt"`
	Questions []string     `json:"questions"`
}

func (s *Server) handleQuestions(w http.ResponseWriter, _ *http.Request) {
	var resp questionsResponse
	for _, c := range s.service.Catalogs().All() {
		resp.Catalogs = append(resp.Catalogs, catalogResponse{
			Kind:      c.Kind(),
			Title:     c.Title(),
			Prompt:    c.Prompt(),
			Questions: c.Questions(),
		})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleReport runs one selection. Prompts and empty results are successful
// responses; a failed statement is reported as 502.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	kind, ok := catalog.ParseKind(r.URL.Query().Get("catalog"))
	if !ok {
		s.respondError(w, http.StatusBadRequest, "catalog must be one of existing, new")
		return
	}

	report := s.service.Select(r.Context(), kind, r.URL.Query().Get("question"))

	status := http.StatusOK
	if report.Kind == app.RenderError {
		status = http.StatusBadGateway
	}
	s.respondJSON(w, status, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"database": s.service.DatabaseName(),
		"time":     time.Now().UTC(),
	}
	if err := s.service.Ping(r.Context()); err != nil {
		resp["status"] = "unavailable"
		resp["error"] = err.Error()
		s.respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp["status"] = "ok"
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.log.Debug().Err(err).Msg("write response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
