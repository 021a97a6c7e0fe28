// Package mcplog writes one JSONL line per MCP tool call: what was asked,
// how long it took and what came back (result counts, rendered code size,
// verification mismatches). Payloads themselves never reach the file.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// Outcomes recorded in LogEntry.Outcome.
const (
	OutcomeOK        = "ok"
	OutcomeToolError = "tool_error" // the tool answered with an error result
	OutcomeFailed    = "failed"     // the handler returned a Go error
)

// LogEntry is the schema for one JSONL line.
type LogEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	Outcome       string         `json:"outcome"`
	ResponseBytes int            `json:"response_bytes"`
	Result        ResultSummary  `json:"result"`
	Error         *string        `json:"error"`
}

// ResultSummary describes a JSON tool result by shape. Fields that do not
// apply to a result stay nil or zero and are omitted.
type ResultSummary struct {
	// Items is the length of a list result, or of the "icons" page.
	Items *int `json:"items,omitempty"`
	// CodeBytes and CodeLines measure a "code" field (rendered JSX).
	CodeBytes int `json:"code_bytes,omitempty"`
	CodeLines int `json:"code_lines,omitempty"`
	// Imports counts import statements returned with the code.
	Imports *int `json:"imports,omitempty"`
	// Mismatches counts round-trip differences from verify_element.
	Mismatches *int `json:"mismatches,omitempty"`
}

// Logger appends entries to a file. Safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewLogger opens path for appending, creating parent directories. An
// empty path returns nil, nil; callers treat a nil Logger as disabled.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends one entry.
func (l *Logger) Write(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// NewEntry builds the entry for a call that started at start and returned
// result and err.
func NewEntry(tool string, args map[string]any, start time.Time, result *mcp.CallToolResult, err error) LogEntry {
	entry := LogEntry{
		Ts:            start.UTC().Format(time.RFC3339),
		Tool:          tool,
		Params:        SanitizeParams(args),
		DurationMs:    Now().Sub(start).Milliseconds(),
		Outcome:       OutcomeOK,
		ResponseBytes: ResponseBytes(result),
	}
	switch {
	case err != nil:
		msg := err.Error()
		entry.Error = &msg
		entry.Outcome = OutcomeFailed
	case result != nil && result.IsError:
		entry.Outcome = OutcomeToolError
	default:
		entry.Result = Summarize(result)
	}
	return entry
}

// SanitizeParams returns a copy of args safe for logging. Strings longer
// than shortStringMax bytes (element documents, mostly) become a
// "{key}_len" entry and objects become a "{key}_keys" count.
func SanitizeParams(args map[string]any) map[string]any {
	const shortStringMax = 64
	out := make(map[string]any, len(args))
	for k, v := range args {
		switch val := v.(type) {
		case string:
			if len(val) > shortStringMax {
				out[k+"_len"] = len(val)
			} else {
				out[k] = val
			}
		case map[string]any:
			out[k+"_keys"] = len(val)
		default:
			out[k] = v
		}
	}
	return out
}

// Summarize inspects the first text content of result. Plain text and
// results that are not JSON summarize to the zero value.
func Summarize(result *mcp.CallToolResult) ResultSummary {
	var s ResultSummary
	if result == nil || len(result.Content) == 0 {
		return s
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return s
	}

	var list []json.RawMessage
	if err := json.Unmarshal([]byte(text.Text), &list); err == nil {
		s.Items = intPtr(len(list))
		return s
	}

	var obj struct {
		Code       *string           `json:"code"`
		Imports    []json.RawMessage `json:"imports"`
		Mismatches []json.RawMessage `json:"mismatches"`
		Icons      []json.RawMessage `json:"icons"`
	}
	if err := json.Unmarshal([]byte(text.Text), &obj); err != nil {
		return s
	}
	if obj.Code != nil {
		s.CodeBytes = len(*obj.Code)
		s.CodeLines = strings.Count(*obj.Code, "\n") + 1
	}
	if obj.Imports != nil {
		s.Imports = intPtr(len(obj.Imports))
	}
	if obj.Mismatches != nil {
		s.Mismatches = intPtr(len(obj.Mismatches))
	}
	if obj.Icons != nil {
		s.Items = intPtr(len(obj.Icons))
	}
	return s
}

func intPtr(n int) *int { return &n }

// ResponseBytes returns the serialized length of result's content, or 0.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// Now is a replaceable clock for testing.
var Now = func() time.Time { return time.Now() }
