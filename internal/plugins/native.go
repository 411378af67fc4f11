package plugins

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kamusis/blink/pkg/plugin"
)

// Entry symbols a native module may export. Exactly one must be present.
const (
	SymbolConstructor = "NewPlugin"
	SymbolInstance    = "Plugin"
)

// NativeExt is appended to an entry that has no extension and does not exist as given.
const NativeExt = ".so"

// Symbols is the lookup surface of an opened native module.
type Symbols interface {
	Lookup(name string) (any, error)
}

// NativeOpener opens the module at path.
type NativeOpener func(path string) (Symbols, error)

// NativePlugin wraps the instance exported by a native module. Panics raised
// by the instance are converted to errors.
type NativePlugin struct {
	manifest Manifest
	path     string
	impl     plugin.Plugin
}

// NewNativePlugin opens the module named by m.Entry (relative to dir) and
// resolves its entry symbol. A nil open uses the platform opener.
func NewNativePlugin(m Manifest, dir string, open NativeOpener) (*NativePlugin, error) {
	if open == nil {
		open = openNative
	}
	path := resolveNativeEntry(m.Entry, dir)
	syms, err := open(path)
	if err != nil {
		if errors.Is(err, ErrNativeUnsupported) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrModuleOpen, path, err)
	}
	impl, err := resolveEntrySymbol(syms)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &NativePlugin{manifest: m, path: path, impl: impl}, nil
}

func resolveNativeEntry(entry, dir string) string {
	path := entry
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	if filepath.Ext(path) == "" {
		if _, err := os.Stat(path); err != nil {
			path += NativeExt
		}
	}
	return path
}

// resolveEntrySymbol runs module code. A panic in Lookup or the constructor
// is returned as ErrBadEntrySymbol.
func resolveEntrySymbol(syms Symbols) (p plugin.Plugin, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("%w: panic: %v", ErrBadEntrySymbol, r)
		}
	}()
	ctor, ctorErr := syms.Lookup(SymbolConstructor)
	inst, instErr := syms.Lookup(SymbolInstance)
	hasCtor := ctorErr == nil && ctor != nil
	hasInst := instErr == nil && inst != nil

	switch {
	case hasCtor && hasInst:
		return nil, ErrAmbiguousEntry
	case hasCtor:
		fn, ok := ctor.(func() plugin.Plugin)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T", ErrBadEntrySymbol, SymbolConstructor, ctor)
		}
		if p = fn(); p == nil {
			return nil, fmt.Errorf("%w: %s returned nil", ErrBadEntrySymbol, SymbolConstructor)
		}
		return p, nil
	case hasInst:
		// Exported variables are looked up by address.
		if pp, ok := inst.(*plugin.Plugin); ok {
			if *pp == nil {
				return nil, fmt.Errorf("%w: %s is nil", ErrBadEntrySymbol, SymbolInstance)
			}
			return *pp, nil
		}
		if impl, ok := inst.(plugin.Plugin); ok {
			return impl, nil
		}
		return nil, fmt.Errorf("%w: %s is %T", ErrBadEntrySymbol, SymbolInstance, inst)
	default:
		return nil, ErrNoEntrySymbol
	}
}

// Manifest returns the descriptor the plugin was built from.
func (p *NativePlugin) Manifest() Manifest { return p.manifest }

// Path is the module file that was opened.
func (p *NativePlugin) Path() string { return p.path }

func (p *NativePlugin) Initialize() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrInitialize, r)
		}
	}()
	return p.impl.Initialize()
}

func (p *NativePlugin) Execute(ctx context.Context, query string) (res *plugin.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("plugin %s panicked: %v", p.manifest.ID, r)
		}
	}()
	return p.impl.Execute(ctx, query)
}
