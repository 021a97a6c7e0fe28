package parser

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uishowcase/pkg/util"
)

func TestParseTSX(t *testing.T) {
	pm := NewManager(util.NopLogger())
	defer pm.Close()

	tree, err := pm.Parse([]byte(`<Button disabled>Save</Button>`), LanguageTSX)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "program", root.Kind())
	assert.False(t, root.HasError())
	assert.Contains(t, root.ToSexp(), "jsx_element")
}

func TestParseTypeScript(t *testing.T) {
	pm := NewManager(util.NopLogger())
	defer pm.Close()

	tree, err := pm.Parse([]byte(`const x: number = 1;`), LanguageTypeScript)
	require.NoError(t, err)
	defer tree.Close()
	assert.False(t, tree.RootNode().HasError())
}

func TestParseJavaScript(t *testing.T) {
	pm := NewManager(util.NopLogger())
	defer pm.Close()

	tree, err := pm.Parse([]byte(`const el = <Input placeholder="x" />;`), LanguageJavaScript)
	require.NoError(t, err)
	defer tree.Close()
	assert.Contains(t, tree.RootNode().ToSexp(), "jsx_self_closing_element")
}

func TestParseErrorsStillReturnTree(t *testing.T) {
	pm := NewManager(util.NopLogger())
	defer pm.Close()

	tree, err := pm.Parse([]byte(`<Button>`), LanguageTSX)
	require.NoError(t, err)
	defer tree.Close()
	assert.True(t, tree.RootNode().HasError())
}

func TestParseFile(t *testing.T) {
	pm := NewManager(util.NopLogger())
	defer pm.Close()

	tree, err := pm.ParseFile([]byte(`<a />`), "sample.tsx")
	require.NoError(t, err)
	tree.Close()

	_, err = pm.ParseFile([]byte(`x`), "notes.md")
	assert.ErrorContains(t, err, "unsupported file extension")
}

func TestParseUnknownLanguage(t *testing.T) {
	pm := NewManager(util.NopLogger())
	defer pm.Close()

	_, err := pm.Parse([]byte(`x`), LanguageUnknown)
	assert.ErrorContains(t, err, "unsupported language")
}

func TestParseAfterClose(t *testing.T) {
	pm := NewManager(util.NopLogger())
	require.NoError(t, pm.Close())
	require.NoError(t, pm.Close())

	_, err := pm.Parse([]byte(`<a />`), LanguageTSX)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestConcurrentParsingRespectsPoolSize(t *testing.T) {
	pm := NewManagerWithPoolSize(util.NopLogger(), 2)
	defer pm.Close()

	const goroutines = 50
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := pm.Parse([]byte(`<Card><CardTitle>T</CardTitle></Card>`), LanguageTSX)
			if err != nil {
				errs <- err
				return
			}
			tree.Close()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("parse failed: %v", err)
	}
	stats := pm.Stats()
	assert.LessOrEqual(t, stats.Parsers, 2)
	assert.Equal(t, int64(goroutines), stats.Parses)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LanguageTSX, DetectLanguage("Button.TSX"))
	assert.Equal(t, LanguageTypeScript, DetectLanguage("util.mts"))
	assert.Equal(t, LanguageJavaScript, DetectLanguage("app.jsx"))
	assert.Equal(t, LanguageUnknown, DetectLanguage("README"))
	assert.Equal(t, LanguageTSX, ParseLanguageString("TSX"))
	assert.Equal(t, LanguageUnknown, ParseLanguageString("go"))
	assert.Equal(t, "javascript", LanguageJavaScript.String())
}
