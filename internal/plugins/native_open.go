//go:build (linux || darwin || freebsd) && cgo

package plugins

import goplugin "plugin"

type moduleSymbols struct {
	p *goplugin.Plugin
}

func (m moduleSymbols) Lookup(name string) (any, error) {
	sym, err := m.p.Lookup(name)
	if err != nil {
		return nil, err
	}
	return sym, nil
}

func openNative(path string) (Symbols, error) {
	p, err := goplugin.Open(path)
	if err != nil {
		return nil, err
	}
	return moduleSymbols{p: p}, nil
}

// NativeSupported reports whether this build can open native plugin modules.
func NativeSupported() bool { return true }
