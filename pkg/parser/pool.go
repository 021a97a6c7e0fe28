package parser

import (
	"fmt"
	"log/slog"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool hands out parsers for one grammar.
//
// Parsers are created lazily up to maxSize; once that many exist, acquire
// blocks until one is released. The buffered channel holds idle parsers.
type parserPool struct {
	idle     chan *ts.Parser
	language *ts.Language
	lang     Language
	maxSize  int

	mu      sync.Mutex
	created int

	logger *slog.Logger
}

func newParserPool(lang Language, language *ts.Language, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		idle:     make(chan *ts.Parser, maxSize),
		language: language,
		lang:     lang,
		maxSize:  maxSize,
		logger:   logger,
	}
}

func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.idle:
		return parser, nil
	default:
	}

	p.mu.Lock()
	if p.created >= p.maxSize {
		p.mu.Unlock()
		return <-p.idle, nil
	}
	parser := ts.NewParser()
	if err := parser.SetLanguage(p.language); err != nil {
		p.mu.Unlock()
		parser.Close()
		return nil, fmt.Errorf("failed to set %s grammar: %w", p.lang, err)
	}
	p.created++
	created := p.created
	p.mu.Unlock()

	p.logger.Debug("created parser", "language", p.lang.String(), "pool_size", created)
	return parser, nil
}

func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.idle <- parser:
	default:
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser", "language", p.lang.String())
	}
}

// close drains and closes idle parsers. The pool is unusable afterwards.
func (p *parserPool) close() int {
	close(p.idle)
	closed := 0
	for parser := range p.idle {
		parser.Close()
		closed++
	}
	return closed
}

func (p *parserPool) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}
