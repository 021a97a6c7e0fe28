// Package icons holds the icon name registry served to showcase clients:
// kebab-case names with their component (PascalCase) names, listed in
// searchable pages.
package icons

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed lucide.txt
var defaultList string

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ErrInvalidQuery is returned when page or limit cannot be parsed.
var ErrInvalidQuery = errors.New("invalid icon query")

// Icon is one registry entry.
type Icon struct {
	Kebab  string `json:"kebab"`
	Pascal string `json:"pascal"`
}

// Query selects a page of icons. Zero values take defaults.
type Query struct {
	Page   int
	Limit  int
	Search string
}

// Page is one slice of the filtered icon list.
type Page struct {
	Icons      []Icon `json:"icons"`
	TotalCount int    `json:"totalCount"`
	HasMore    bool   `json:"hasMore"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

// Registry is an immutable, ordered set of icons. Safe for concurrent use.
type Registry struct {
	icons    []Icon
	byKebab  map[string]int
	byPascal map[string]int
}

// NewRegistry builds a registry from kebab-case names. Names are trimmed and
// lowercased; blanks and duplicates are dropped; order is kept.
func NewRegistry(names []string) *Registry {
	caser := cases.Title(language.Und)
	r := &Registry{
		icons:    make([]Icon, 0, len(names)),
		byKebab:  make(map[string]int, len(names)),
		byPascal: make(map[string]int, len(names)),
	}
	for _, name := range names {
		kebab := strings.ToLower(strings.TrimSpace(name))
		if kebab == "" {
			continue
		}
		if _, dup := r.byKebab[kebab]; dup {
			continue
		}
		icon := Icon{Kebab: kebab, Pascal: pascal(caser, kebab)}
		r.byKebab[kebab] = len(r.icons)
		r.byPascal[icon.Pascal] = len(r.icons)
		r.icons = append(r.icons, icon)
	}
	return r
}

// Default returns the registry of the embedded icon set.
func Default() *Registry {
	r, err := Parse(strings.NewReader(defaultList))
	if err != nil {
		// embedded data is read from memory
		panic(fmt.Sprintf("failed to parse embedded icon list: %v", err))
	}
	return r
}

// Parse reads newline-delimited names. Lines starting with # are comments.
func Parse(rd io.Reader) (*Registry, error) {
	var names []string
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read icon list: %w", err)
	}
	return NewRegistry(names), nil
}

// LoadFile reads a newline-delimited icon list from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open icon list: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Len returns the number of icons.
func (r *Registry) Len() int { return len(r.icons) }

// Lookup finds an icon by kebab-case or PascalCase name.
func (r *Registry) Lookup(name string) (Icon, bool) {
	if i, ok := r.byKebab[strings.ToLower(name)]; ok {
		return r.icons[i], true
	}
	if i, ok := r.byPascal[name]; ok {
		return r.icons[i], true
	}
	return Icon{}, false
}

// List returns the requested page. Search matches case-insensitively against
// the kebab or Pascal name, with spaces read as dashes. Page defaults to 1,
// limit to DefaultLimit and is capped at MaxLimit.
func (r *Registry) List(q Query) Page {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	matches := r.icons
	if term := normalizeSearch(q.Search); term != "" {
		matches = make([]Icon, 0)
		for _, icon := range r.icons {
			if strings.Contains(icon.Kebab, term) || strings.Contains(strings.ToLower(icon.Pascal), term) {
				matches = append(matches, icon)
			}
		}
	}

	total := len(matches)
	start := (page - 1) * limit
	out := make([]Icon, 0, limit)
	if start < total {
		end := min(start+limit, total)
		out = append(out, matches[start:end]...)
	}
	return Page{
		Icons:      out,
		TotalCount: total,
		HasMore:    page*limit < total,
		Page:       page,
		Limit:      limit,
	}
}

// ParseQuery builds a Query from string parameters, as they arrive in a URL
// or on a command line. Empty strings take defaults.
func ParseQuery(page, limit, search string) (Query, error) {
	q := Query{Search: search}
	var err error
	if page != "" {
		if q.Page, err = strconv.Atoi(page); err != nil {
			return Query{}, fmt.Errorf("%w: page %q is not a number", ErrInvalidQuery, page)
		}
	}
	if limit != "" {
		if q.Limit, err = strconv.Atoi(limit); err != nil {
			return Query{}, fmt.Errorf("%w: limit %q is not a number", ErrInvalidQuery, limit)
		}
	}
	return q, nil
}

func normalizeSearch(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

// Pascal converts a kebab-case icon name to its component name:
// "arrow-up-right" -> "ArrowUpRight", "grid-2x2" -> "Grid2x2".
func Pascal(kebab string) string {
	return pascal(cases.Title(language.Und), kebab)
}

func pascal(caser cases.Caser, kebab string) string {
	var b strings.Builder
	for _, part := range strings.Split(kebab, "-") {
		if part == "" {
			continue
		}
		// Segments led by a digit stay as written; title-casing would
		// capitalize their first letter ("2x2" -> "2X2").
		if r, _ := utf8.DecodeRuneInString(part); !unicode.IsLetter(r) {
			b.WriteString(part)
			continue
		}
		b.WriteString(caser.String(part))
	}
	return b.String()
}
