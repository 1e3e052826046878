package config

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		config      string
		expectError string
		validate    func(t *testing.T, cfg *Config)
	}{
		{
			name: "yaml",
			path: "/proj/.dyntag.yaml",
			config: `
catalog:
  - catalogs/**/*.yaml
  - /shared/extra.hcl
log_level: debug
hide_reserved: [legacy]
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, []string{"legacy"}, cfg.HideReserved)
				assert.Equal(t, []string{"/proj/catalogs/**/*.yaml", "/shared/extra.hcl"}, cfg.CatalogPatterns())
			},
		},
		{
			name: "hcl",
			path: "/proj/.dyntag.hcl",
			config: `
catalog   = ["catalogs/*.hcl"]
log_level = "warn"
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.LogLevel)
				assert.Empty(t, cfg.HideReserved)
				assert.Equal(t, []string{"/proj/catalogs/*.hcl"}, cfg.CatalogPatterns())
			},
		},
		{
			name:   "empty yaml",
			path:   "/proj/.dyntag.yml",
			config: ``,
			validate: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Catalog)
			},
		},
		{
			name:        "unknown yaml field",
			path:        "/proj/.dyntag.yaml",
			config:      "catalogs: [x]\n",
			expectError: "parsing YAML",
		},
		{
			name:        "every validation error is reported",
			path:        "/proj/.dyntag.yaml",
			config:      "log_level: loud\ncatalog: ['']\n",
			expectError: "2 errors occurred",
		},
		{
			name:        "unsupported extension",
			path:        "/proj/dyntag.toml",
			config:      "",
			expectError: "unsupported config format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, tt.path, []byte(tt.config), 0o644))

			cfg, err := Load(fs, tt.path)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestDiscover(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg, err := Discover(fs, "/proj")
	require.NoError(t, err)
	assert.Empty(t, cfg.Catalog)

	require.NoError(t, afero.WriteFile(fs, "/proj/.dyntag.hcl", []byte(`catalog = ["c.yaml"]`), 0o644))

	cfg, err = Discover(fs, "/proj")
	require.NoError(t, err)
	assert.Equal(t, []string{"/proj/c.yaml"}, cfg.CatalogPatterns())
}

func TestGlobalsOverrideConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/.dyntag.yaml", []byte("catalog: [a.yaml]\nlog_level: error\n"), 0o644))

	g := &Globals{Fs: fs, WorkDir: "/proj", Catalog: []string{"b/*.yaml"}, Debug: true}

	cfg, err := g.Config()
	require.NoError(t, err)
	assert.Equal(t, []string{"b/*.yaml"}, cfg.CatalogPatterns())
	assert.Equal(t, "debug", cfg.LogLevel)

	again, err := g.Config()
	require.NoError(t, err)
	assert.Same(t, cfg, again)
}

func TestCursor(t *testing.T) {
	text := "first line\n@post(title)."

	tests := []struct {
		name    string
		offset  int
		at      string
		want    int
		wantErr bool
	}{
		{name: "negative offset is the end", offset: -1, want: len(text)},
		{name: "offset is clamped", offset: 500, want: len(text)},
		{name: "plain offset", offset: 3, want: 3},
		{name: "line and column", at: "2:13", offset: -1, want: 23},
		{name: "first column", at: "1:1", want: 0},
		{name: "missing column", at: "2", wantErr: true},
		{name: "zero line", at: "0:1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cursor(text, tt.offset, tt.at)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInput(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in.txt", []byte("@post(title)"), 0o644))
	g := &Globals{Fs: fs}

	got, err := g.Input(nil, "inline", strings.NewReader("stdin"))
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	got, err = g.Input(nil, "", strings.NewReader("stdin"))
	require.NoError(t, err)
	assert.Equal(t, "stdin", got)

	got, err = g.Input([]string{"/in.txt"}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "@post(title)", got)

	_, err = g.Input([]string{"/missing.txt"}, "", nil)
	require.Error(t, err)
}
