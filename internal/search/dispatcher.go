package search

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/kamusis/blink/pkg/plugin"
)

// Source enumerates the plugins consulted for each query.
type Source interface {
	Plugins(ctx context.Context) iter.Seq[plugin.Plugin]
}

// Dispatcher turns a query into result entries by consulting every plugin.
type Dispatcher struct {
	source   Source
	defaults []ResultEntry
	logger   *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDefaults replaces the listing returned for an empty query.
func WithDefaults(entries []ResultEntry) Option {
	return func(d *Dispatcher) {
		if len(entries) > 0 {
			d.defaults = entries
		}
	}
}

// WithLogger sets the logger that receives swallowed plugin failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher returns a dispatcher over src.
func NewDispatcher(src Source, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		source:   src,
		defaults: DefaultListing(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// DefaultListing returns the built-in placeholder entries.
func DefaultListing() []ResultEntry {
	out := make([]ResultEntry, 0, DefaultItemCount)
	for i := 1; i <= DefaultItemCount; i++ {
		out = append(out, ResultEntry{
			Title:       fmt.Sprintf("Item %d", i),
			Description: fmt.Sprintf("Description for item %d", i),
			Actions:     []Action{},
		})
	}
	return out
}

// Search returns a fresh entry list for query.
//
// A blank query returns the default listing without consulting plugins.
// Otherwise every plugin is asked in enumeration order and each non-nil
// result becomes one entry. When no plugin answers, a single entry echoing
// the query is returned. Plugin errors and panics count as no result.
func (d *Dispatcher) Search(ctx context.Context, query string) []ResultEntry {
	if strings.TrimSpace(query) == "" {
		return cloneEntries(d.defaults)
	}

	var out []ResultEntry
	for p := range d.source.Plugins(ctx) {
		if ctx.Err() != nil {
			break
		}
		res := d.execute(ctx, p, query)
		if res == nil {
			continue
		}
		out = append(out, ResultEntry{
			Title:       res.Title,
			Description: res.Description,
			Actions:     ActionsFor(res),
		})
	}
	if len(out) == 0 {
		return []ResultEntry{Fallback(query)}
	}
	return out
}

func (d *Dispatcher) execute(ctx context.Context, p plugin.Plugin, query string) (res *plugin.Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Debug("plugin panicked", "plugin", fmt.Sprintf("%T", p), "panic", r)
			res = nil
		}
	}()
	res, err := p.Execute(ctx, query)
	if err != nil {
		d.logger.Debug("plugin failed", "plugin", fmt.Sprintf("%T", p), "error", err)
		return nil
	}
	return res
}

// Fallback is the entry shown when no plugin answers query.
func Fallback(query string) ResultEntry {
	return ResultEntry{
		Title:       query,
		Description: "Description for " + query,
		Actions:     []Action{},
	}
}

// ActionsFor derives the actions of a result: one per non-blank command,
// universal first, then Windows, then Mac. The list is never nil.
func ActionsFor(res *plugin.Result) []Action {
	actions := []Action{}
	add := func(title, command string) {
		if strings.TrimSpace(command) == "" {
			return
		}
		actions = append(actions, Action{Title: title, Command: command})
	}
	add(TitleRunAll, res.UniversalCommand)
	add(TitleRunWindows, res.WindowsCommand)
	add(TitleRunMac, res.MacCommand)
	return actions
}

func cloneEntries(in []ResultEntry) []ResultEntry {
	out := make([]ResultEntry, len(in))
	for i, e := range in {
		e.Actions = append([]Action{}, e.Actions...)
		out[i] = e
	}
	return out
}
