package parser

import (
	"path/filepath"
	"strings"
)

// Language selects a tree-sitter grammar.
type Language int

const (
	// LanguageTSX is TypeScript with JSX, the grammar samples are parsed with.
	LanguageTSX Language = iota
	// LanguageTypeScript is plain TypeScript (.ts).
	LanguageTypeScript
	// LanguageJavaScript covers .js and .jsx; the grammar accepts JSX.
	LanguageJavaScript
	// LanguageUnknown is returned for unsupported files.
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTSX:
		return "tsx"
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectLanguage picks the grammar for a file path by extension.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".tsx":
		return LanguageTSX
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// ParseLanguageString converts a language name to a Language.
func ParseLanguageString(lang string) Language {
	switch strings.ToLower(lang) {
	case "tsx", "typescriptreact":
		return LanguageTSX
	case "typescript", "ts":
		return LanguageTypeScript
	case "javascript", "js", "jsx":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}
