package plugins

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/kamusis/blink/pkg/plugin"
)

// Source enumerates ready-to-use plugins.
type Source interface {
	Plugins(ctx context.Context) iter.Seq[plugin.Plugin]
}

// Loader discovers plugins under a root directory. Each immediate
// subdirectory holding a manifest is one plugin. Directories that cannot be
// turned into an initialized plugin are skipped.
type Loader struct {
	root   string
	logger *slog.Logger
	open   NativeOpener
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger that receives skip reasons.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithNativeOpener replaces the platform module opener.
func WithNativeOpener(open NativeOpener) Option {
	return func(ld *Loader) { ld.open = open }
}

// NewLoader returns a loader over root.
func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{
		root:   root,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Root is the directory the loader scans.
func (l *Loader) Root() string { return l.root }

// Plugins yields initialized plugins in directory-name order. The directory
// list is read when iteration starts; each plugin is built only when the
// consumer asks for it. A missing root yields nothing.
func (l *Loader) Plugins(ctx context.Context) iter.Seq[plugin.Plugin] {
	return func(yield func(plugin.Plugin) bool) {
		for _, dir := range l.scan() {
			if ctx.Err() != nil {
				return
			}
			p, _, err := l.load(dir)
			if err != nil {
				l.logger.Debug("skipping plugin", "dir", filepath.Base(dir), "error", err)
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Report is the load outcome for one plugin directory.
type Report struct {
	Dir      string
	Manifest *Manifest
	Err      error
}

// Name is the directory's base name.
func (r Report) Name() string { return filepath.Base(r.Dir) }

// Inspect runs the full load pipeline for every subdirectory and reports
// the outcome of each. Nil Err means the directory yields a plugin.
func (l *Loader) Inspect(ctx context.Context) []Report {
	dirs := l.scan()
	out := make([]Report, 0, len(dirs))
	for _, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		_, m, err := l.load(dir)
		out = append(out, Report{Dir: dir, Manifest: m, Err: err})
	}
	return out
}

func (l *Loader) scan() []string {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn("cannot read plugin root", "root", l.root, "error", err)
		}
		return nil
	}
	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dirs = append(dirs, filepath.Join(l.root, e.Name()))
	}
	return dirs
}

func (l *Loader) load(dir string) (plugin.Plugin, *Manifest, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, nil, err
	}
	p, err := l.build(m, dir)
	if err != nil {
		return nil, &m, err
	}
	if err := initialize(p); err != nil {
		return nil, &m, err
	}
	l.logger.Debug("loaded plugin", "id", m.ID, "name", m.Name, "version", m.Version, "kind", m.Kind)
	return p, &m, nil
}

func (l *Loader) build(m Manifest, dir string) (plugin.Plugin, error) {
	switch m.Kind {
	case KindData:
		return NewDataPlugin(m, dir)
	case KindNative:
		return NewNativePlugin(m, dir, l.open)
	case KindScript:
		return nil, ErrScriptUnsupported
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, m.Kind)
	}
}

func initialize(p plugin.Plugin) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrInitialize, r)
		}
	}()
	if err := p.Initialize(); err != nil {
		if errors.Is(err, ErrInitialize) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInitialize, err)
	}
	return nil
}

// ReadManifest parses the first descriptor found in dir, probing ManifestNames in order.
func ReadManifest(dir string) (Manifest, error) {
	for _, name := range ManifestNames {
		path := filepath.Join(dir, name)
		b, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Manifest{}, fmt.Errorf("%w: cannot read %s: %v", ErrInvalidManifest, path, err)
		}
		return ParseManifest(name, b)
	}
	return Manifest{}, ErrManifestNotFound
}

// Cache memoizes the first full enumeration of a source for the life of the value.
type Cache struct {
	src Source

	mu      sync.Mutex
	loaded  bool
	plugins []plugin.Plugin
}

// NewCache wraps src.
func NewCache(src Source) *Cache {
	return &Cache{src: src}
}

func (c *Cache) Plugins(ctx context.Context) iter.Seq[plugin.Plugin] {
	return func(yield func(plugin.Plugin) bool) {
		for _, p := range c.snapshot(ctx) {
			if !yield(p) {
				return
			}
		}
	}
}

func (c *Cache) snapshot(ctx context.Context) []plugin.Plugin {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.plugins
	}
	var ps []plugin.Plugin
	for p := range c.src.Plugins(ctx) {
		ps = append(ps, p)
	}
	if ctx.Err() != nil {
		return ps
	}
	c.plugins, c.loaded = ps, true
	return ps
}
