package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeDotEnv(t *testing.T, home, body string) string {
	t.Helper()
	dir := filepath.Join(home, ".blink")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, ".env")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadOverrides_NothingSet(t *testing.T) {
	setHome(t)

	o, err := LoadOverrides()
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if o.PluginRoot != nil || o.QuietInterval != nil || o.Debug != nil {
		t.Fatalf("expected no overrides, got %+v", o)
	}
}

func TestReadDotEnv_KeepsOnlyBlinkKeys(t *testing.T) {
	home := setHome(t)
	p := writeDotEnv(t, home, "# plugin root\n"+
		"export BLINK_PLUGIN_ROOT=\"/opt/blink plugins\"\n"+
		"BLINK_QUIET_INTERVAL = '250ms'\n"+
		"EDITOR=vim\n"+
		"BLINK_UNKNOWN=1\n"+
		"not an assignment\n")

	got, err := ReadDotEnv(p)
	if err != nil {
		t.Fatalf("ReadDotEnv: %v", err)
	}
	want := map[string]string{EnvPluginRoot: "/opt/blink plugins", EnvQuietInterval: "250ms"}
	if len(got) != len(want) || got[EnvPluginRoot] != want[EnvPluginRoot] || got[EnvQuietInterval] != want[EnvQuietInterval] {
		t.Fatalf("ReadDotEnv = %v, want %v", got, want)
	}
}

func TestLoadOverrides_FromDotEnv(t *testing.T) {
	home := setHome(t)
	writeDotEnv(t, home, EnvPluginRoot+"=~/launcher/plugins\n"+EnvQuietInterval+"=250ms\n"+EnvDebug+"=1\n")

	o, err := LoadOverrides()
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if o.PluginRoot == nil || *o.PluginRoot != "~/launcher/plugins" {
		t.Fatalf("PluginRoot = %v", o.PluginRoot)
	}
	if o.QuietInterval == nil || *o.QuietInterval != 250*time.Millisecond {
		t.Fatalf("QuietInterval = %v", o.QuietInterval)
	}
	if o.Debug == nil || !*o.Debug {
		t.Fatalf("Debug = %v", o.Debug)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(home, "launcher", "plugins"); cfg.PluginRoot != want {
		t.Fatalf("PluginRoot = %q, want %q", cfg.PluginRoot, want)
	}
	if d, _ := cfg.Interval(); d != 250*time.Millisecond {
		t.Fatalf("Interval = %v, want 250ms", d)
	}
}

func TestLoadOverrides_EnvironmentWins(t *testing.T) {
	home := setHome(t)
	writeDotEnv(t, home, EnvQuietInterval+"=250ms\n"+EnvPluginRoot+"=/from/dotenv\n")
	t.Setenv(EnvQuietInterval, "2s")

	o, err := LoadOverrides()
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if *o.QuietInterval != 2*time.Second {
		t.Fatalf("QuietInterval = %v, want 2s from environment", *o.QuietInterval)
	}
	if *o.PluginRoot != "/from/dotenv" {
		t.Fatalf("PluginRoot = %q, want dotenv value", *o.PluginRoot)
	}
}

func TestLoadOverrides_InvalidValueNamesSource(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"NegativeInterval", EnvQuietInterval + "=-1s\n", EnvQuietInterval},
		{"WordInterval", EnvQuietInterval + "=soon\n", EnvQuietInterval},
		{"Debug", EnvDebug + "=maybe\n", EnvDebug},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := setHome(t)
			p := writeDotEnv(t, home, tt.body)

			_, err := LoadOverrides()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) || !strings.Contains(err.Error(), p) {
				t.Fatalf("error %q should name %s and %s", err, tt.want, p)
			}
		})
	}
}

func TestEnsureDotEnvTemplate_ListsEveryKey(t *testing.T) {
	home := setHome(t)

	if err := EnsureDotEnvTemplate(); err != nil {
		t.Fatalf("EnsureDotEnvTemplate: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(home, ".blink", ".env"))
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{EnvPluginRoot, EnvQuietInterval, EnvDebug} {
		if !strings.Contains(string(b), "\n"+k+"=\n") {
			t.Fatalf("template missing %s:\n%s", k, b)
		}
	}

	o, err := LoadOverrides()
	if err != nil {
		t.Fatalf("LoadOverrides on template: %v", err)
	}
	if o.PluginRoot != nil || o.QuietInterval != nil || o.Debug != nil {
		t.Fatalf("blank template should set nothing, got %+v", o)
	}
}

func TestEnsureDotEnvTemplate_KeepsExistingFile(t *testing.T) {
	home := setHome(t)
	p := writeDotEnv(t, home, EnvPluginRoot+"=/keep\n")

	if err := EnsureDotEnvTemplate(); err != nil {
		t.Fatalf("EnsureDotEnvTemplate: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != EnvPluginRoot+"=/keep\n" {
		t.Fatalf("template overwrote existing file: %q", b)
	}
}
