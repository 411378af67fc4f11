package plugins

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Kind selects the backend that serves a plugin directory.
type Kind string

const (
	KindNative Kind = "native"
	KindData   Kind = "data"
	KindScript Kind = "script"
)

// kindAliases maps legacy descriptor values onto kinds.
var kindAliases = map[string]Kind{
	"dll":  KindNative,
	"so":   KindNative,
	"json": KindData,
	"js":   KindScript,
}

// ManifestNames lists the descriptor file names probed in each plugin directory, in order.
var ManifestNames = []string{"manifest.json", "manifest.yaml", "manifest.yml"}

// Manifest describes one plugin directory.
type Manifest struct {
	ID      string `json:"id" yaml:"id" validate:"required"`
	Name    string `json:"name" yaml:"name" validate:"required"`
	Version string `json:"version" yaml:"version" validate:"required"`
	Entry   string `json:"entry" yaml:"entry" validate:"required"`
	Kind    Kind   `json:"kind" yaml:"kind" validate:"required"`
}

var validate = validator.New()

// ParseManifest parses a descriptor. name is the file name and selects the
// format: .yaml/.yml is YAML, anything else is JSON. Field names are matched
// case-insensitively and "type" is accepted in place of "kind".
func ParseManifest(name string, data []byte) (Manifest, error) {
	fields, err := decodeFields(name, data)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, name, err)
	}

	kind := fields["kind"]
	if kind == "" {
		kind = fields["type"]
	}
	m := Manifest{
		ID:      strings.TrimSpace(fields["id"]),
		Name:    strings.TrimSpace(fields["name"]),
		Version: strings.TrimSpace(fields["version"]),
		Entry:   strings.TrimSpace(fields["entry"]),
		Kind:    normalizeKind(kind),
	}
	if err := validate.Struct(m); err != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %s", ErrInvalidManifest, name, describeValidation(err))
	}
	return m, nil
}

func normalizeKind(s string) Kind {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, ok := kindAliases[s]; ok {
		return k
	}
	return Kind(s)
}

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// decodeFields decodes a top-level mapping into lowercased keys and scalar
// values. Non-scalar values are dropped.
func decodeFields(name string, data []byte) (map[string]string, error) {
	raw := map[string]string{}
	if isYAML(name) {
		var nodes map[string]yaml.Node
		if err := yaml.Unmarshal(data, &nodes); err != nil {
			return nil, err
		}
		if nodes == nil {
			return nil, fmt.Errorf("empty document")
		}
		for k, n := range nodes {
			if n.Kind == yaml.ScalarNode && n.Tag != "!!null" {
				raw[k] = n.Value
			}
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var values map[string]any
		if err := dec.Decode(&values); err != nil {
			return nil, err
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, fmt.Errorf("unexpected data after manifest object")
		}
		if values == nil {
			return nil, fmt.Errorf("empty document")
		}
		for k, v := range values {
			switch tv := v.(type) {
			case string:
				raw[k] = tv
			case json.Number:
				raw[k] = tv.String()
			case bool:
				raw[k] = fmt.Sprint(tv)
			}
		}
	}
	return foldKeys(raw), nil
}

// foldKeys lowercases keys. When several keys differ only in case, the one
// already in lowercase wins, otherwise the first in byte order.
func foldKeys(raw map[string]string) map[string]string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(map[string]string, len(raw))
	for _, k := range keys {
		lk := strings.ToLower(k)
		if _, dup := out[lk]; dup && k != lk {
			continue
		}
		out[lk] = raw[k]
	}
	return out
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	missing := make([]string, 0, len(verrs))
	for _, e := range verrs {
		missing = append(missing, strings.ToLower(e.Field()))
	}
	return "missing " + strings.Join(missing, ", ")
}
