package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

const nameKey = "name"

// ConfigError reports an unusable addon file. Entry is -1 for file-level problems.
type ConfigError struct {
	Path  string
	Entry int
	Msg   string
	Err   error
}

func (e *ConfigError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Entry >= 0 {
		return fmt.Sprintf("config %s: entry %d: %s", e.Path, e.Entry, msg)
	}
	return fmt.Sprintf("config %s: %s", e.Path, msg)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadAddons reads and validates the addon list at path. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON. Every source in
// sources must have a URL in every entry; keys other than "name" that are not
// in sources are rejected.
func LoadAddons(path string, sources []models.SourceID) ([]models.AddonSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Entry: -1, Msg: "read file", Err: err}
	}

	var raw []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = sonic.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, &ConfigError{Path: path, Entry: -1, Msg: "expected a list of addon entries", Err: err}
	}

	return ParseAddons(path, raw, sources)
}

// ParseAddons validates decoded entries; path is only used in error messages.
func ParseAddons(path string, raw []map[string]any, sources []models.SourceID) ([]models.AddonSpec, error) {
	if len(raw) == 0 {
		return nil, &ConfigError{Path: path, Entry: -1, Msg: "expected at least one addon entry"}
	}

	known := make(map[models.SourceID]bool, len(sources))
	for _, s := range sources {
		known[s] = true
	}

	specs := make([]models.AddonSpec, 0, len(raw))
	for i, entry := range raw {
		if entry == nil {
			return nil, &ConfigError{Path: path, Entry: i, Msg: "entry is not an object"}
		}

		name, err := stringField(entry, nameKey)
		if err != nil {
			return nil, &ConfigError{Path: path, Entry: i, Msg: err.Error()}
		}

		spec := models.AddonSpec{Name: name, Sources: make(map[models.SourceID]string, len(sources))}

		for key := range entry {
			if key == nameKey {
				continue
			}
			if !known[models.SourceID(key)] {
				return nil, &ConfigError{Path: path, Entry: i, Msg: fmt.Sprintf("%q: unknown source %q", name, key)}
			}
		}

		for _, src := range sources {
			rawURL, err := stringField(entry, string(src))
			if err != nil {
				return nil, &ConfigError{Path: path, Entry: i, Msg: fmt.Sprintf("%q: %v", name, err)}
			}
			u, err := url.Parse(rawURL)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return nil, &ConfigError{Path: path, Entry: i, Msg: fmt.Sprintf("%q: %q is not an http(s) URL", name, src), Err: err}
			}
			spec.Sources[src] = rawURL
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

func stringField(entry map[string]any, key string) (string, error) {
	v, ok := entry[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%q was missing", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q must be a string", key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%q must not be empty", key)
	}
	return s, nil
}
