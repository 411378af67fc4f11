package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Overrides are the BLINK_* settings found in the process environment or in
// ~/.blink/.env. A nil field was not set by either source.
type Overrides struct {
	PluginRoot    *string
	QuietInterval *time.Duration
	Debug         *bool
}

type overrideKey struct {
	name  string
	usage string
	set   func(o *Overrides, v string) error
}

// overrideKeys is also the order of the generated .env template.
var overrideKeys = []overrideKey{
	{EnvPluginRoot, "directory scanned for plugins (~ is expanded)", func(o *Overrides, v string) error {
		o.PluginRoot = &v
		return nil
	}},
	{EnvQuietInterval, "pause after the last keystroke before searching, e.g. 300ms", func(o *Overrides, v string) error {
		d, err := parseQuietInterval(v)
		if err != nil {
			return err
		}
		o.QuietInterval = &d
		return nil
	}},
	{EnvDebug, "true enables debug logging of plugin loading", func(o *Overrides, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		o.Debug = &b
		return nil
	}},
}

func isOverrideKey(k string) bool {
	for _, key := range overrideKeys {
		if key.name == k {
			return true
		}
	}
	return false
}

// DotEnvPath returns the absolute path to ~/.blink/.env.
func DotEnvPath() (string, error) {
	dir, err := BlinkDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".env"), nil
}

// ReadDotEnv returns the BLINK_* assignments in the file at path. Other keys,
// comments and blank lines are ignored. An optional "export " prefix and a
// single pair of surrounding quotes are stripped. A missing file is empty.
func ReadDotEnv(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("cannot open overrides file %s: %w", path, err)
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		k, v, ok := strings.Cut(line, "=")
		k = strings.TrimSpace(k)
		if !ok || !isOverrideKey(k) {
			continue
		}
		out[k] = unquote(strings.TrimSpace(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read overrides file %s: %w", path, err)
	}
	return out, nil
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// LoadOverrides resolves every BLINK_* key, preferring a non-empty process
// environment value over ~/.blink/.env, and parses it into its typed field.
func LoadOverrides() (Overrides, error) {
	path, err := DotEnvPath()
	if err != nil {
		return Overrides{}, err
	}
	file, err := ReadDotEnv(path)
	if err != nil {
		return Overrides{}, err
	}

	var o Overrides
	for _, k := range overrideKeys {
		v, src := strings.TrimSpace(os.Getenv(k.name)), "environment"
		if v == "" {
			v, src = file[k.name], path
		}
		if v == "" {
			continue
		}
		if err := k.set(&o, v); err != nil {
			return Overrides{}, fmt.Errorf("invalid %s %q in %s: %w", k.name, v, src, err)
		}
	}
	return o, nil
}

// EnsureDotEnvTemplate writes ~/.blink/.env listing every override key with
// an empty value. An existing file is left untouched.
func EnsureDotEnvTemplate() error {
	p, err := DotEnvPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("cannot stat overrides file %s: %w", p, err)
	}

	var b strings.Builder
	b.WriteString("# blink overrides for blink.yaml. A non-empty process environment variable wins.\n")
	for _, k := range overrideKeys {
		fmt.Fprintf(&b, "\n# %s\n%s=\n", k.usage, k.name)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("cannot write overrides file %s: %w", p, err)
	}
	return nil
}
