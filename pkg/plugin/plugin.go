// Package plugin defines the capability every blink search plugin implements.
//
// Native plugins are Go plugin modules (built with -buildmode=plugin) that
// export either
//
//	func NewPlugin() plugin.Plugin
//
// or a package-level value named Plugin that implements the interface.
package plugin

import "context"

// Plugin is a loaded search backend.
type Plugin interface {
	// Initialize is called once, before the first Execute.
	Initialize() error
	// Execute returns the plugin's answer for query, or nil when it has none.
	Execute(ctx context.Context, query string) (*Result, error)
}

// Result is what a plugin returns for a matching query.
// An empty command string means the command is absent.
type Result struct {
	Title            string
	Description      string
	UniversalCommand string
	WindowsCommand   string
	MacCommand       string
}

// Func adapts a plain function into a Plugin with a no-op Initialize.
type Func func(ctx context.Context, query string) (*Result, error)

func (f Func) Initialize() error { return nil }

func (f Func) Execute(ctx context.Context, query string) (*Result, error) {
	return f(ctx, query)
}
