package plugins

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/kamusis/blink/pkg/plugin"
)

// Entry is one row of a data plugin's keyword table.
type Entry struct {
	Keyword          string
	Title            string
	Description      string
	UniversalCommand string
	WindowsCommand   string
	MacCommand       string
}

// DataPlugin answers queries from a fixed keyword table.
type DataPlugin struct {
	manifest Manifest
	entries  []Entry
	folded   []string
}

// NewDataPlugin reads the entry file named by m.Entry, relative to dir.
func NewDataPlugin(m Manifest, dir string) (*DataPlugin, error) {
	path := m.Entry
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEntryUnreadable, path, err)
	}
	entries, err := ParseEntries(path, b)
	if err != nil {
		return nil, err
	}
	return NewDataPluginFromEntries(m, entries), nil
}

// NewDataPluginFromEntries builds a data plugin over an in-memory table.
func NewDataPluginFromEntries(m Manifest, entries []Entry) *DataPlugin {
	folded := make([]string, len(entries))
	for i, e := range entries {
		folded[i] = foldKeyword(e.Keyword)
	}
	return &DataPlugin{manifest: m, entries: entries, folded: folded}
}

// Manifest returns the descriptor the plugin was built from.
func (p *DataPlugin) Manifest() Manifest { return p.manifest }

// Entries returns the keyword table in file order.
func (p *DataPlugin) Entries() []Entry { return p.entries }

func (p *DataPlugin) Initialize() error { return nil }

// Execute returns the first entry whose keyword equals query, ignoring case.
func (p *DataPlugin) Execute(_ context.Context, query string) (*plugin.Result, error) {
	q := foldKeyword(query)
	for i, kw := range p.folded {
		if kw == "" || kw != q {
			continue
		}
		e := p.entries[i]
		return &plugin.Result{
			Title:            e.Title,
			Description:      e.Description,
			UniversalCommand: e.UniversalCommand,
			WindowsCommand:   e.WindowsCommand,
			MacCommand:       e.MacCommand,
		}, nil
	}
	return nil, nil
}

// folder is stateless and safe for concurrent use.
var folder = cases.Fold()

func foldKeyword(s string) string {
	return folder.String(s)
}

// ParseEntries decodes an entry file. Empty content, null and [] all yield an
// empty table. Record field names are matched case-insensitively.
func ParseEntries(name string, data []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Entry{}, nil
	}

	var records []map[string]any
	var err error
	if isYAML(name) {
		err = yaml.Unmarshal(data, &records)
	} else {
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidEntries, name, err)
	}

	out := make([]Entry, 0, len(records))
	for _, r := range records {
		f := recordFields(r)
		out = append(out, Entry{
			Keyword:          f["keyword"],
			Title:            f["title"],
			Description:      f["description"],
			UniversalCommand: f["universalcommand"],
			WindowsCommand:   f["windowscommand"],
			MacCommand:       f["maccommand"],
		})
	}
	return out, nil
}

func recordFields(r map[string]any) map[string]string {
	raw := make(map[string]string, len(r))
	for k, v := range r {
		switch tv := v.(type) {
		case nil:
			raw[k] = ""
		case string:
			raw[k] = tv
		default:
			raw[k] = fmt.Sprint(tv)
		}
	}
	return foldKeys(raw)
}
