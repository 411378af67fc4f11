package search

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kamusis/blink/internal/plugins"
	"github.com/kamusis/blink/pkg/plugin"
)

type staticSource []plugin.Plugin

func (s staticSource) Plugins(context.Context) iter.Seq[plugin.Plugin] {
	return slices.Values(s)
}

type countingSource struct {
	staticSource
	calls int
}

func (c *countingSource) Plugins(ctx context.Context) iter.Seq[plugin.Plugin] {
	c.calls++
	return c.staticSource.Plugins(ctx)
}

func answer(res *plugin.Result) plugin.Plugin {
	return plugin.Func(func(context.Context, string) (*plugin.Result, error) { return res, nil })
}

func TestSearch_BlankQueryReturnsDefaults(t *testing.T) {
	src := &countingSource{staticSource: staticSource{answer(&plugin.Result{Title: "never"})}}
	d := NewDispatcher(src)

	for _, q := range []string{"", "   ", "\t\n"} {
		got := d.Search(context.Background(), q)
		assert.Equal(t, DefaultListing(), got, "query %q", q)
	}
	assert.Zero(t, src.calls, "plugins are not consulted for a blank query")
}

func TestDefaultListing(t *testing.T) {
	items := DefaultListing()
	require.Len(t, items, DefaultItemCount)
	assert.Equal(t, "Item 1", items[0].Title)
	assert.Equal(t, "Description for item 20", items[19].Description)
	for _, it := range items {
		assert.NotNil(t, it.Actions)
		assert.Empty(t, it.Actions)
	}
}

func TestSearch_CustomDefaultsAreCopied(t *testing.T) {
	custom := []ResultEntry{{Title: "Home", Actions: []Action{{Title: TitleRunAll, Command: "open ~"}}}}
	d := NewDispatcher(staticSource{}, WithDefaults(custom))

	got := d.Search(context.Background(), "")
	require.Equal(t, custom, got)
	got[0].Title = "changed"
	got[0].Actions[0].Command = "changed"
	assert.Equal(t, "Home", d.Search(context.Background(), "")[0].Title)
	assert.Equal(t, "open ~", custom[0].Actions[0].Command)
}

func TestSearch_NoPluginsFallsBackToQuery(t *testing.T) {
	root := filepath.Join(t.TempDir(), "plugins")
	d := NewDispatcher(plugins.NewLoader(root))

	got := d.Search(context.Background(), "xyz123")
	require.Len(t, got, 1)
	assert.Equal(t, "xyz123", got[0].Title)
	assert.Equal(t, "Description for xyz123", got[0].Description)
	assert.NotNil(t, got[0].Actions)
	assert.Empty(t, got[0].Actions)
}

func TestSearch_ActionsFollowCommands(t *testing.T) {
	tests := []struct {
		name string
		res  plugin.Result
		want []string
	}{
		{"WindowsOnly", plugin.Result{WindowsCommand: "calc.exe"}, []string{TitleRunWindows}},
		{"All", plugin.Result{UniversalCommand: "a", WindowsCommand: "w", MacCommand: "m"}, []string{TitleRunAll, TitleRunWindows, TitleRunMac}},
		{"MacAndUniversal", plugin.Result{MacCommand: "m", UniversalCommand: "a"}, []string{TitleRunAll, TitleRunMac}},
		{"BlankIgnored", plugin.Result{UniversalCommand: "  ", MacCommand: "m"}, []string{TitleRunMac}},
		{"None", plugin.Result{Title: "info"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.res
			got := NewDispatcher(staticSource{answer(&res)}).Search(context.Background(), "q")
			require.Len(t, got, 1)
			titles := []string{}
			for _, a := range got[0].Actions {
				titles = append(titles, a.Title)
				assert.Empty(t, a.Icon)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestSearch_AggregatesInOrderAndSwallowsFailures(t *testing.T) {
	failing := plugin.Func(func(context.Context, string) (*plugin.Result, error) { return nil, errors.New("boom") })
	panicking := plugin.Func(func(context.Context, string) (*plugin.Result, error) { panic("bad plugin") })
	src := staticSource{
		answer(&plugin.Result{Title: "first", UniversalCommand: "one"}),
		failing,
		answer(nil),
		panicking,
		answer(&plugin.Result{Title: "second"}),
	}

	got := NewDispatcher(src).Search(context.Background(), "q")
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, []Action{{Title: TitleRunAll, Command: "one"}}, got[0].Actions)
	assert.Equal(t, "second", got[1].Title)
}

func TestSearch_QueryPassedVerbatim(t *testing.T) {
	var seen string
	p := plugin.Func(func(_ context.Context, q string) (*plugin.Result, error) {
		seen = q
		return nil, nil
	})
	NewDispatcher(staticSource{p}).Search(context.Background(), "  Calc ")
	assert.Equal(t, "  Calc ", seen)
}

func TestSearch_DataPluginEndToEnd(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "calc")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"),
		[]byte(`{"id":"calc","name":"Calc","version":"1","entry":"data.json","type":"json"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"),
		[]byte(`[{"keyword":"Calc","title":"Calculator","windowsCommand":"calc.exe"}]`), 0o644))

	d := NewDispatcher(plugins.NewLoader(root))
	for _, q := range []string{"CALC", "calc"} {
		got := d.Search(context.Background(), q)
		require.Len(t, got, 1)
		assert.Equal(t, "Calculator", got[0].Title)
		assert.Equal(t, []Action{{Title: TitleRunWindows, Command: "calc.exe"}}, got[0].Actions)
	}
	assert.Equal(t, []ResultEntry{Fallback("calc2")}, d.Search(context.Background(), "calc2"))
}

type panicSymbols struct{}

func (panicSymbols) Lookup(name string) (any, error) {
	if name == plugins.SymbolConstructor {
		return func() plugin.Plugin { panic("ctor failed") }, nil
	}
	return nil, errors.New("not found")
}

func TestSearch_PanickingNativeConstructorDoesNotAbortDispatch(t *testing.T) {
	root := t.TempDir()
	for dir, files := range map[string]map[string]string{
		"a-bad":  {"manifest.json": `{"id":"bad","name":"Bad","version":"1","entry":"bad.so","kind":"native"}`},
		"b-good": {"manifest.json": `{"id":"good","name":"Good","version":"1","entry":"data.json","kind":"data"}`, "data.json": `[{"keyword":"calc","title":"Calculator","universalCommand":"bc"}]`},
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
		for name, body := range files {
			require.NoError(t, os.WriteFile(filepath.Join(root, dir, name), []byte(body), 0o644))
		}
	}
	open := func(string) (plugins.Symbols, error) { return panicSymbols{}, nil }
	d := NewDispatcher(plugins.NewLoader(root, plugins.WithNativeOpener(open)))

	var got []ResultEntry
	require.NotPanics(t, func() { got = d.Search(context.Background(), "calc") })
	require.Len(t, got, 1)
	assert.Equal(t, "Calculator", got[0].Title)
}

func TestSearch_FreshSliceEachCall(t *testing.T) {
	d := NewDispatcher(staticSource{answer(&plugin.Result{Title: "r", MacCommand: "m"})})
	a := d.Search(context.Background(), "q")
	a[0].Actions[0].Command = "mutated"
	b := d.Search(context.Background(), "q")
	assert.Equal(t, "m", b[0].Actions[0].Command)
}

func TestSearch_NeverEmptyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		q := rapid.String().Draw(t, "query")
		got := NewDispatcher(staticSource{}).Search(context.Background(), q)
		if len(got) == 0 {
			t.Fatalf("empty result for %q", q)
		}
		for _, e := range got {
			if e.Actions == nil {
				t.Fatalf("nil action list for %q", q)
			}
		}
	})
}
