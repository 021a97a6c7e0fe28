package jsx

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	fallbackComponentName = "Component"
	anonymousFunc         = "() => {}"
)

// sourceNamePattern pulls a capitalized identifier out of a stringified
// component. Only consulted when neither DisplayName nor Name is set.
var sourceNamePattern = regexp.MustCompile(`\b(?:function|class|const|let|var)\s+([A-Z][A-Za-z0-9_$]*)`)

// TagName resolves the name printed in the opening and closing tag.
func TagName(t Type) string {
	if t.Component == nil {
		return t.Tag
	}
	c := t.Component
	switch {
	case c.DisplayName != "":
		return c.DisplayName
	case c.Name != "":
		return c.Name
	}
	if m := sourceNamePattern.FindStringSubmatch(c.Source); m != nil {
		return m[1]
	}
	return fallbackComponentName
}

// FuncName resolves the identifier printed for a function-valued prop.
// Names ending in one of suffixes or starting with an uppercase letter are
// taken as-is; otherwise DisplayName, otherwise an anonymous arrow.
func FuncName(f *FuncRef, suffixes []string) string {
	if f == nil {
		return anonymousFunc
	}
	if f.Name != "" && (hasAnySuffix(f.Name, suffixes) || startsUpper(f.Name)) {
		return f.Name
	}
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return anonymousFunc
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
