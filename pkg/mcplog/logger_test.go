package mcplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestSanitizeParams(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		wantKeys map[string]any  // keys expected in output, with values
		wantSkip map[string]bool // keys that should NOT appear
	}{
		{
			name:     "nil map returns empty",
			input:    nil,
			wantKeys: map[string]any{},
		},
		{
			name:     "short string passes through",
			input:    map[string]any{"category": "forms"},
			wantKeys: map[string]any{"category": "forms"},
		},
		{
			name:     "element document replaced with _len key",
			input:    map[string]any{"element": strings.Repeat("x", 200)},
			wantKeys: map[string]any{"element_len": 200},
			wantSkip: map[string]bool{"element": true},
		},
		{
			name:     "object replaced with _keys count",
			input:    map[string]any{"element": map[string]any{"type": "Button", "children": "Save"}},
			wantKeys: map[string]any{"element_keys": 2},
			wantSkip: map[string]bool{"element": true},
		},
		{
			name:     "numbers and nil pass through",
			input:    map[string]any{"page": float64(2), "search": nil},
			wantKeys: map[string]any{"page": float64(2), "search": nil},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := SanitizeParams(tc.input)
			if len(out) != len(tc.wantKeys) {
				t.Errorf("got %d keys, want %d: %v", len(out), len(tc.wantKeys), out)
			}
			for k, want := range tc.wantKeys {
				got, ok := out[k]
				if !ok {
					t.Errorf("expected key %q in output", k)
					continue
				}
				if got != want {
					t.Errorf("key %q: got %v, want %v", k, got, want)
				}
			}
			for k := range tc.wantSkip {
				if _, ok := out[k]; ok {
					t.Errorf("unexpected key %q in output", k)
				}
			}
		})
	}
}

func TestResponseBytes(t *testing.T) {
	t.Run("nil returns zero", func(t *testing.T) {
		if got := ResponseBytes(nil); got != 0 {
			t.Errorf("got %d, want 0", got)
		}
	})

	t.Run("text content is measured", func(t *testing.T) {
		result := mcp.NewToolResultText(`{"code":"<Button />"}`)
		want, _ := json.Marshal(result.Content)
		if got := ResponseBytes(result); got != len(want) {
			t.Errorf("got %d, want %d", got, len(want))
		}
	})
}

func TestSummarize(t *testing.T) {
	intOf := func(p *int) int {
		if p == nil {
			return -1
		}
		return *p
	}

	t.Run("list result counts items", func(t *testing.T) {
		s := Summarize(mcp.NewToolResultText(`[{"name":"Button"},{"name":"Badge"}]`))
		if intOf(s.Items) != 2 {
			t.Errorf("items=%d, want 2", intOf(s.Items))
		}
	})

	t.Run("rendered code is measured", func(t *testing.T) {
		s := Summarize(mcp.NewToolResultText(`{"code":"<Card>\n  <CardTitle />\n</Card>","imports":["a","b"]}`))
		if s.CodeLines != 3 {
			t.Errorf("code_lines=%d, want 3", s.CodeLines)
		}
		if s.CodeBytes != len("<Card>\n  <CardTitle />\n</Card>") {
			t.Errorf("code_bytes=%d", s.CodeBytes)
		}
		if intOf(s.Imports) != 2 {
			t.Errorf("imports=%d, want 2", intOf(s.Imports))
		}
		if s.Mismatches != nil || s.Items != nil {
			t.Errorf("unexpected counts: %+v", s)
		}
	})

	t.Run("verification mismatches are counted", func(t *testing.T) {
		s := Summarize(mcp.NewToolResultText(`{"ok":false,"code":"<X />","mismatches":[{"field":"tag"}]}`))
		if intOf(s.Mismatches) != 1 {
			t.Errorf("mismatches=%d, want 1", intOf(s.Mismatches))
		}
	})

	t.Run("icon page counts icons", func(t *testing.T) {
		s := Summarize(mcp.NewToolResultText(`{"icons":[{"kebab":"x"}],"totalCount":9}`))
		if intOf(s.Items) != 1 {
			t.Errorf("items=%d, want 1", intOf(s.Items))
		}
	})

	t.Run("plain text and nil summarize to zero", func(t *testing.T) {
		if s := Summarize(mcp.NewToolResultText("no components found")); s != (ResultSummary{}) {
			t.Errorf("got %+v, want zero", s)
		}
		if s := Summarize(nil); s != (ResultSummary{}) {
			t.Errorf("got %+v, want zero", s)
		}
	})
}

func TestNewEntry(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	origNow := Now
	Now = func() time.Time { return start.Add(15 * time.Millisecond) }
	defer func() { Now = origNow }()

	e := NewEntry("render_element", map[string]any{"element": strings.Repeat("x", 100)}, start,
		mcp.NewToolResultText(`{"code":"<Button />","imports":[]}`), nil)
	if e.Outcome != OutcomeOK || e.DurationMs != 15 || e.Ts != "2026-01-02T03:04:05Z" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Params["element_len"] != 100 {
		t.Errorf("params=%v", e.Params)
	}
	if e.Result.CodeBytes != len("<Button />") {
		t.Errorf("code_bytes=%d", e.Result.CodeBytes)
	}

	e = NewEntry("list_components", nil, start, mcp.NewToolResultError("category not found: x"), nil)
	if e.Outcome != OutcomeToolError || e.Result != (ResultSummary{}) {
		t.Errorf("unexpected tool error entry: %+v", e)
	}

	e = NewEntry("verify_element", nil, start, nil, os.ErrClosed)
	if e.Outcome != OutcomeFailed || e.Error == nil || *e.Error != os.ErrClosed.Error() {
		t.Errorf("unexpected failed entry: %+v", e)
	}
}

func readEntries(t *testing.T, path string) []LogEntry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var got []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("torn or invalid line %d %q: %v", len(got)+1, line, err)
		}
		got = append(got, e)
	}
	return got
}

func TestLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	msg := "boom"
	entries := []LogEntry{
		{Ts: now, Tool: "list_categories", Params: map[string]any{}, DurationMs: 1, Outcome: OutcomeOK, ResponseBytes: 120},
		{Ts: now, Tool: "render_element", Params: map[string]any{"element_len": 410}, DurationMs: 2, Outcome: OutcomeOK, ResponseBytes: 260},
		{Ts: now, Tool: "get_component_examples", Params: map[string]any{"name": "Nope"}, Outcome: OutcomeToolError},
		{Ts: now, Tool: "verify_element", Outcome: OutcomeFailed, Error: &msg},
	}
	for _, e := range entries {
		if err := logger.Write(e); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := readEntries(t, path)
	if len(got) != len(entries) {
		t.Fatalf("got %d lines, want %d", len(got), len(entries))
	}
	for i, e := range entries {
		if got[i].Tool != e.Tool {
			t.Errorf("line %d: tool=%q, want %q", i, got[i].Tool, e.Tool)
		}
		if got[i].DurationMs != e.DurationMs {
			t.Errorf("line %d: duration_ms=%d, want %d", i, got[i].DurationMs, e.DurationMs)
		}
		if got[i].Outcome != e.Outcome {
			t.Errorf("line %d: outcome=%q, want %q", i, got[i].Outcome, e.Outcome)
		}
	}
	if got[3].Error == nil || *got[3].Error != "boom" {
		t.Errorf("line 3: error=%v, want boom", got[3].Error)
	}
	if got[0].Error != nil {
		t.Errorf("line 0: error=%v, want nil", *got[0].Error)
	}
}

func TestLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")

	for i := 0; i < 2; i++ {
		logger, err := NewLogger(path)
		if err != nil {
			t.Fatalf("NewLogger: %v", err)
		}
		if err := logger.Write(LogEntry{Tool: "list_icons"}); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := logger.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	if got := readEntries(t, path); len(got) != 2 {
		t.Errorf("got %d lines, want 2", len(got))
	}
}

func TestLoggerConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.jsonl")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	const goroutines = 50
	const writesEach = 10

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < writesEach; j++ {
				_ = logger.Write(LogEntry{
					Ts:   time.Now().UTC().Format(time.RFC3339),
					Tool: "search_components",
				})
			}
		}()
	}
	wg.Wait()

	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := readEntries(t, path); len(got) != goroutines*writesEach {
		t.Errorf("got %d lines, want %d", len(got), goroutines*writesEach)
	}
}

func TestNewLoggerCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "mcp.jsonl")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestNewLoggerEmptyPath(t *testing.T) {
	logger, err := NewLogger("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger != nil {
		t.Errorf("expected nil logger for empty path")
	}
}
