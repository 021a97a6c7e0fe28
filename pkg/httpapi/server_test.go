package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/icons"
	"github.com/gnana997/uishowcase/pkg/util"
)

const testCatalogYAML = `
name: test
version: "1"
icon_import: lucide-react
categories:
  - name: actions
    components: [Button]
  - name: layout
    components: [Card]
components:
  - name: Button
    description: A clickable button
    category: actions
    import_path: "@/components/ui/button"
    imported_names: [Button]
    props:
      - name: variant
        type: string
    examples:
      - title: Outline
        element:
          type: Button
          props:
            variant: outline
          children: Save
  - name: Card
    description: A surface
    category: layout
    import_path: "@/components/ui/card"
    imported_names: [Card, CardTitle]
    examples:
      - title: With Title
        element:
          type: Card
          children:
            - type: CardTitle
              children: Hello
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	qs, err := catalog.LoadAndQueryBytes([]byte(testCatalogYAML))
	require.NoError(t, err)
	return NewServer(qs, icons.NewRegistry([]string{"chevron-right", "chevron-left", "star"}), WithLogger(util.NopLogger()))
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestListIcons(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/icons?search=chevron&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	page := decode[icons.Page](t, rec)
	assert.Equal(t, 2, page.TotalCount)
	assert.True(t, page.HasMore)
	assert.Equal(t, []icons.Icon{{Kebab: "chevron-right", Pascal: "ChevronRight"}}, page.Icons)
}

func TestListIcons_InvalidQuery(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/icons?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "invalid icon query")
}

func TestListCategories(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cats := decode[[]catalog.Category](t, rec)
	require.Len(t, cats, 2)
	assert.Equal(t, "actions", cats[0].Name)
}

func TestListComponents(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/components", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[[]componentResponse](t, rec)
	require.Len(t, all, 2)
	assert.Equal(t, []string{"Outline"}, all[0].Examples)

	rec = do(t, s, http.MethodGet, "/api/components?category=layout", "")
	layout := decode[[]componentResponse](t, rec)
	require.Len(t, layout, 1)
	assert.Equal(t, "Card", layout[0].Name)

	rec = do(t, s, http.MethodGet, "/api/components?q=CardTitle", "")
	found := decode[[]componentResponse](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, "Card", found[0].Name)
	assert.Equal(t, "part:CardTitle", found[0].MatchReason)

	rec = do(t, s, http.MethodGet, "/api/components?q=nothing-matches", "")
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/components?category=missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetComponent(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/components/CardTitle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Card", decode[componentResponse](t, rec).Name)

	rec = do(t, s, http.MethodGet, "/api/components/Nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComponentExamples(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/components/Card/examples", "")
	require.Equal(t, http.StatusOK, rec.Code)
	examples := decode[[]exampleResponse](t, rec)
	require.Len(t, examples, 1)
	assert.Equal(t, "with-title", examples[0].Slug)
	assert.Equal(t, "<Card><CardTitle>Hello</CardTitle></Card>", examples[0].Code)
	assert.Equal(t, []string{`import { Card, CardTitle } from "@/components/ui/card";`}, examples[0].Imports)
	assert.Equal(t, "import { Card, CardTitle } from \"@/components/ui/card\";\n\n<Card><CardTitle>Hello</CardTitle></Card>\n", examples[0].Sample)

	rec = do(t, s, http.MethodGet, "/api/components/Button/examples?indent=1&indentChar=%09", "")
	examples = decode[[]exampleResponse](t, rec)
	require.Len(t, examples, 1)
	assert.Equal(t, "\t<Button variant=\"outline\">Save</Button>", examples[0].Code)

	rec = do(t, s, http.MethodGet, "/api/components/Missing/examples", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/components/Card/examples?indent=-2", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRender(t *testing.T) {
	s := newTestServer(t)

	body := `{"type":"Card","props":{"className":"w-96","data-state":"open"},"children":[{"type":"CardTitle","children":"Hi"},{"type":"StarIcon"}]}`
	rec := do(t, s, http.MethodPost, "/api/render", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[renderResponse](t, rec)
	assert.Equal(t, "<Card className=\"w-96\" data-state=\"open\">\n  <CardTitle>Hi</CardTitle>\n  <StarIcon />\n</Card>", resp.Code)
	assert.Equal(t, []string{
		`import { Card, CardTitle } from "@/components/ui/card";`,
		`import { StarIcon } from "lucide-react";`,
	}, resp.Imports)
}

func TestRender_Errors(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/render", `{"props":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/render", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/render?indent=x", `{"type":"div"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/render", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSetCatalog(t *testing.T) {
	s := newTestServer(t)

	cat := &catalog.Catalog{Name: "empty", Version: "2"}
	s.SetCatalog(catalog.NewQueryService(cat, cat.BuildIndex()))

	rec := do(t, s, http.MethodGet, "/api/components", "")
	assert.Equal(t, "[]\n", rec.Body.String())
	rec = do(t, s, http.MethodGet, "/api/components/Button", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, "ok", rec.Body.String())

	do(t, s, http.MethodPost, "/api/render", `{"type":"div","children":"x"}`)
	do(t, s, http.MethodGet, "/api/components/Card", "")

	rec = do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	text := rec.Body.String()
	assert.Contains(t, text, `uishowcase_http_requests_total{method="POST",route="/api/render",status="200"} 1`)
	assert.Contains(t, text, `uishowcase_http_requests_total{method="GET",route="/api/components/{name}",status="200"} 1`)
	assert.Contains(t, text, "uishowcase_render_duration_seconds_count 1")
}

func TestRecoverer(t *testing.T) {
	s := newTestServer(t)
	s.catalog = nil

	rec := do(t, s, http.MethodGet, "/api/categories", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
