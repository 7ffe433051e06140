package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

var builtinSources = []models.SourceID{models.SourceCurseForge, models.SourceWowInterface}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAddons_JSON(t *testing.T) {
	path := writeFile(t, "addons.json", `[
	  {
	    "name": "GoldCounter",
	    "curseforge": "http://wow.curseforge.com/addons/goldcounter/",
	    "wowinterface": "http://www.wowinterface.com/downloads/author-318870.html"
	  },
	  {
	    "name": "Bagger",
	    "curseforge": "https://wow.curseforge.com/addons/bagger/",
	    "wowinterface": "https://www.wowinterface.com/downloads/author-318870.html"
	  }
	]`)

	specs, err := LoadAddons(path, builtinSources)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, "GoldCounter", specs[0].Name)
	assert.Equal(t, "http://wow.curseforge.com/addons/goldcounter/", specs[0].Sources[models.SourceCurseForge])
	assert.Equal(t, "http://www.wowinterface.com/downloads/author-318870.html", specs[0].Sources[models.SourceWowInterface])
	assert.Equal(t, "Bagger", specs[1].Name)
	assert.Equal(t, builtinSources, specs[1].SourceIDs())
}

func TestLoadAddons_YAML(t *testing.T) {
	path := writeFile(t, "addons.yaml", `
- name: GoldCounter
  curseforge: http://wow.curseforge.com/addons/goldcounter/
  wowinterface: http://www.wowinterface.com/downloads/author-318870.html
`)

	specs, err := LoadAddons(path, builtinSources)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "GoldCounter", specs[0].Name)
	assert.Len(t, specs[0].Sources, 2)
}

func TestLoadAddons_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "empty list", content: `[]`, want: "at least one addon entry"},
		{name: "not a list", content: `{"name": "GoldCounter"}`, want: "list of addon entries"},
		{name: "malformed", content: `[{"name": `, want: "list of addon entries"},
		{
			name:    "missing name",
			content: `[{"curseforge": "http://a.example/", "wowinterface": "http://b.example/"}]`,
			want:    `"name" was missing`,
		},
		{
			name:    "empty name",
			content: `[{"name": " ", "curseforge": "http://a.example/", "wowinterface": "http://b.example/"}]`,
			want:    `"name" must not be empty`,
		},
		{
			name:    "missing curseforge",
			content: `[{"name": "GoldCounter", "wowinterface": "http://b.example/"}]`,
			want:    `"curseforge" was missing`,
		},
		{
			name: "missing wowinterface in second entry",
			content: `[
				{"name": "GoldCounter", "curseforge": "http://a.example/", "wowinterface": "http://b.example/"},
				{"name": "Bagger", "curseforge": "http://a.example/"}
			]`,
			want: `entry 1: "Bagger": "wowinterface" was missing`,
		},
		{
			name:    "non-string url",
			content: `[{"name": "GoldCounter", "curseforge": 5, "wowinterface": "http://b.example/"}]`,
			want:    `"curseforge" must be a string`,
		},
		{
			name:    "not http",
			content: `[{"name": "GoldCounter", "curseforge": "ftp://a.example/", "wowinterface": "http://b.example/"}]`,
			want:    "not an http(s) URL",
		},
		{
			name:    "unknown source",
			content: `[{"name": "GoldCounter", "curseforge": "http://a.example/", "wowinterface": "http://b.example/", "wowace": "http://c.example/"}]`,
			want:    `unknown source "wowace"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "addons.json", tt.content)

			specs, err := LoadAddons(path, builtinSources)
			assert.Nil(t, specs)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadAddons_MissingFile(t *testing.T) {
	_, err := LoadAddons(filepath.Join(t.TempDir(), "nope.json"), builtinSources)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FETCH_RATE_LIMIT", "2.5")
	t.Setenv("MONGO_DB", "stats")
	t.Setenv("STORE_TIMEOUT", "bogus")

	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2.5, cfg.FetchRateLimit)
	assert.Equal(t, "stats", cfg.MongoDB)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
}
