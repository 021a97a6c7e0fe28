package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/uishowcase/pkg/util"
)

// ErrClosed is returned by Parse after Close.
var ErrClosed = errors.New("parser: manager closed")

// Manager owns pooled tree-sitter parsers, one pool per grammar, created on
// first use.
//
// Callers own the returned trees and must Close them. The manager itself
// must be closed to release the parsers.
//
//	pm := parser.NewManager(logger)
//	defer pm.Close()
//
//	tree, err := pm.Parse([]byte(`<Button disabled>Save</Button>`), parser.LanguageTSX)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type Manager struct {
	mu     sync.RWMutex
	pools  map[Language]*parserPool
	closed bool

	poolSize int
	logger   *slog.Logger

	parses int64
}

// NewManager creates a Manager sized by util.GetOptimalPoolSize.
func NewManager(logger *slog.Logger) *Manager {
	return NewManagerWithPoolSize(logger, 0)
}

// NewManagerWithPoolSize creates a Manager with at most poolSize parsers per
// grammar (the CPU-derived default when poolSize <= 0).
func NewManagerWithPoolSize(logger *slog.Logger, poolSize int) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		pools:    make(map[Language]*parserPool),
		poolSize: util.GetOptimalPoolSizeWithOverride(poolSize),
		logger:   logger,
	}
}

// Parse parses source with the grammar for lang. Trees containing syntax
// errors are still returned; check RootNode().HasError().
//
// Safe for concurrent use.
func (m *Manager) Parse(source []byte, lang Language) (*ts.Tree, error) {
	pool, err := m.pool(lang)
	if err != nil {
		return nil, err
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned no tree for %s source", lang)
	}

	m.mu.Lock()
	m.parses++
	m.mu.Unlock()

	if tree.RootNode().HasError() {
		m.logger.Debug("parse tree contains errors", "language", lang.String())
	}
	return tree, nil
}

// ParseFile parses source with the grammar detected from filePath.
func (m *Manager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	return m.Parse(source, lang)
}

// Close releases all pooled parsers. Parse fails with ErrClosed afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true

	closed := 0
	for _, pool := range m.pools {
		closed += pool.close()
	}
	m.logger.Debug("parser manager closed", "parsers_closed", closed, "parses", m.parses)
	m.pools = nil
	return nil
}

// Stats reports how many parsers exist and how many parses ran.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Stats{Parses: m.parses}
	for _, pool := range m.pools {
		s.Parsers += pool.createdCount()
	}
	return s
}

// Stats contains parser usage counters.
type Stats struct {
	Parsers int
	Parses  int64
}

func (m *Manager) pool(lang Language) (*parserPool, error) {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return nil, ErrClosed
	}
	pool, ok := m.pools[lang]
	m.mu.RUnlock()
	if ok {
		return pool, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if pool, ok = m.pools[lang]; ok {
		return pool, nil
	}
	language, err := grammar(lang)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(lang, language, m.poolSize, m.logger)
	m.pools[lang] = pool
	return pool, nil
}

func grammar(lang Language) (*ts.Language, error) {
	switch lang {
	case LanguageTSX:
		return ts.NewLanguage(ts_typescript.LanguageTSX()), nil
	case LanguageTypeScript:
		return ts.NewLanguage(ts_typescript.LanguageTypescript()), nil
	case LanguageJavaScript:
		return ts.NewLanguage(ts_javascript.Language()), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}
