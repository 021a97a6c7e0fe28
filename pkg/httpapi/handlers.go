package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/icons"
	"github.com/gnana997/uishowcase/pkg/jsx"
)

type errorResponse struct {
	Error string `json:"error"`
}

type componentResponse struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	ImportPath    string         `json:"import_path"`
	ImportedNames []string       `json:"imported_names"`
	Props         []catalog.Prop `json:"props,omitempty"`
	Examples      []string       `json:"examples"`
	MatchReason   string         `json:"match_reason,omitempty"`
}

type exampleResponse struct {
	catalog.RenderedExample
	Sample string `json:"sample"`
}

type renderResponse struct {
	Code    string   `json:"code"`
	Imports []string `json:"imports"`
}

func summarize(comp *catalog.Component) componentResponse {
	titles := make([]string, len(comp.Examples))
	for i, ex := range comp.Examples {
		titles[i] = ex.Title
	}
	return componentResponse{
		Name:          comp.Name,
		Description:   comp.Description,
		Category:      comp.Category,
		ImportPath:    comp.ImportPath,
		ImportedNames: comp.ImportedNames,
		Props:         comp.Props,
		Examples:      titles,
	}
}

// GET /api/icons?page=&limit=&search=
func (s *Server) handleListIcons(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "httpapi.listIcons")
	defer span.End()

	params := r.URL.Query()
	q, err := icons.ParseQuery(params.Get("page"), params.Get("limit"), params.Get("search"))
	if err != nil {
		s.fail(w, span, http.StatusBadRequest, err)
		return
	}
	page := s.icons.List(q)
	span.SetAttributes(
		attribute.String("icons.search", q.Search),
		attribute.Int("icons.page", page.Page),
		attribute.Int("icons.total", page.TotalCount),
	)
	s.writeJSON(w, http.StatusOK, page)
}

// GET /api/categories
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "httpapi.listCategories")
	defer span.End()

	cats := s.currentCatalog().ListCategories()
	if cats == nil {
		cats = []catalog.Category{}
	}
	s.writeJSON(w, http.StatusOK, cats)
}

// GET /api/components?category=&q=
//
// With q alone the result is a ranked search including part, prop and
// example matches; with category it is a filtered listing.
func (s *Server) handleListComponents(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "httpapi.listComponents")
	defer span.End()

	qs := s.currentCatalog()
	category, keyword := r.URL.Query().Get("category"), r.URL.Query().Get("q")
	span.SetAttributes(attribute.String("catalog.category", category), attribute.String("catalog.query", keyword))

	if category != "" {
		if _, ok := qs.Index.CategoryByName[category]; !ok {
			s.fail(w, span, http.StatusNotFound, fmt.Errorf("category not found: %s", category))
			return
		}
	}

	out := make([]componentResponse, 0)
	if keyword != "" && category == "" {
		for _, res := range qs.SearchComponents(keyword) {
			summary := summarize(res.Component)
			summary.MatchReason = res.MatchReason
			out = append(out, summary)
		}
	} else {
		comps := qs.ListComponents(category, keyword)
		for i := range comps {
			out = append(out, summarize(&comps[i]))
		}
	}
	span.SetAttributes(attribute.Int("catalog.results", len(out)))
	s.writeJSON(w, http.StatusOK, out)
}

// GET /api/components/{name}
func (s *Server) handleGetComponent(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "httpapi.getComponent")
	defer span.End()

	name := chi.URLParam(r, "name")
	span.SetAttributes(attribute.String("catalog.component", name))

	comp, ok := s.currentCatalog().GetComponent(name)
	if !ok {
		s.fail(w, span, http.StatusNotFound, fmt.Errorf("%w: %s", catalog.ErrComponentNotFound, name))
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(comp))
}

// GET /api/components/{name}/examples?indent=&indentChar=
func (s *Server) handleComponentExamples(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "httpapi.componentExamples")
	defer span.End()

	name := chi.URLParam(r, "name")
	span.SetAttributes(attribute.String("catalog.component", name))

	opts, err := s.renderOptions(r)
	if err != nil {
		s.fail(w, span, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	rendered, err := s.currentCatalog().RenderExamples(name, opts)
	if err != nil {
		if errors.Is(err, catalog.ErrComponentNotFound) {
			s.fail(w, span, http.StatusNotFound, err)
			return
		}
		s.fail(w, span, http.StatusInternalServerError, err)
		return
	}
	s.metrics.observeRender(start)

	out := make([]exampleResponse, len(rendered))
	for i, ex := range rendered {
		out[i] = exampleResponse{RenderedExample: ex, Sample: ex.Sample()}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// POST /api/render?indent=&indentChar=
//
// The body is an element definition in JSON:
//
//	{"type": "Button", "props": {"variant": "outline"}, "children": "Save"}
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "httpapi.render")
	defer span.End()

	opts, err := s.renderOptions(r)
	if err != nil {
		s.metrics.renderFailures.WithLabelValues("options").Inc()
		s.fail(w, span, http.StatusBadRequest, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.metrics.renderFailures.WithLabelValues("body").Inc()
		s.fail(w, span, http.StatusRequestEntityTooLarge, fmt.Errorf("failed to read body: %w", err))
		return
	}
	el, err := jsx.DecodeElementJSON(body)
	if err != nil {
		s.metrics.renderFailures.WithLabelValues("decode").Inc()
		s.fail(w, span, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	code := jsx.SerializeElement(el, opts)
	s.metrics.observeRender(start)

	stmts := s.currentCatalog().Index.ImportsFor(el)
	imports := make([]string, len(stmts))
	for i, stmt := range stmts {
		imports[i] = stmt.String()
	}

	span.SetAttributes(attribute.String("jsx.tag", jsx.TagName(el.Type)), attribute.Int("jsx.bytes", len(code)))
	s.writeJSON(w, http.StatusOK, renderResponse{Code: code, Imports: imports})
}

// renderOptions overlays the indent and indentChar query parameters on the
// server's serializer options.
func (s *Server) renderOptions(r *http.Request) (jsx.Options, error) {
	opts := s.render
	params := r.URL.Query()
	if v := params.Get("indent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("indent must be a non-negative integer, got %q", v)
		}
		opts.Indent = n
	}
	if v := params.Get("indentChar"); v != "" {
		opts.IndentChar = v
	}
	return opts, nil
}

func (s *Server) fail(w http.ResponseWriter, span trace.Span, status int, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}
