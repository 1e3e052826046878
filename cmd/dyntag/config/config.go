package config

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/go-dyntag/pkg/catalog"
	"github.com/walteh/go-dyntag/pkg/completion"
	"github.com/walteh/go-dyntag/pkg/debug"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DefaultNames are looked up in the working directory when no --config is given.
var DefaultNames = []string{".dyntag.yaml", ".dyntag.yml", ".dyntag.hcl"}

// Config is the .dyntag file, written as YAML or HCL:
//
//	catalog       = ["catalogs/**/*.yaml"]
//	log_level     = "debug"
//	hide_reserved = ["legacy"]
type Config struct {
	Catalog      []string `json:"catalog,omitempty" yaml:"catalog,omitempty" hcl:"catalog,optional"`
	LogLevel     string   `json:"log_level,omitempty" yaml:"log_level,omitempty" hcl:"log_level,optional"`
	HideReserved []string `json:"hide_reserved,omitempty" yaml:"hide_reserved,omitempty" hcl:"hide_reserved,optional"`

	// dir is where the file was found; relative catalog patterns resolve against it
	dir string
}

// Load decodes the config at path. The format is chosen by extension.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	case ".hcl":
		parser := hclparse.NewParser()
		hclFile, diags := parser.ParseHCL(data, path)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL: %s", diags.Error())
		}

		ctx := &hcl.EvalContext{
			Variables: map[string]cty.Value{},
		}

		diags = gohcl.DecodeBody(hclFile.Body, ctx, &cfg)
		if diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
	default:
		return nil, errors.Errorf("unsupported config format: %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid config %s: %w", path, err)
	}

	cfg.dir = filepath.Dir(path)

	return &cfg, nil
}

// Discover loads the first default config file present in dir. It returns an
// empty config when there is none.
func Discover(fs afero.Fs, dir string) (*Config, error) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return nil, errors.Errorf("checking %s: %w", path, err)
		}
		if ok {
			return Load(fs, path)
		}
	}
	return &Config{dir: dir}, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, err := debug.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}

	for i, p := range c.Catalog {
		if strings.TrimSpace(p) == "" {
			result = multierror.Append(result, errors.Errorf("catalog %d: pattern is empty", i))
		}
	}

	for i, k := range c.HideReserved {
		if strings.TrimSpace(k) == "" {
			result = multierror.Append(result, errors.Errorf("hide_reserved %d: key is empty", i))
		}
	}

	return result.ErrorOrNil()
}

// CatalogPatterns returns the catalog patterns with relative ones resolved
// against the config's directory.
func (c *Config) CatalogPatterns() []string {
	out := make([]string, len(c.Catalog))
	for i, p := range c.Catalog {
		if c.dir != "" && !filepath.IsAbs(p) {
			p = filepath.Join(c.dir, p)
		}
		out[i] = filepath.ToSlash(p)
	}
	return out
}

// Globals are the persistent flags shared by every subcommand.
type Globals struct {
	Fs         afero.Fs
	ConfigPath string
	Catalog    []string
	Debug      bool
	JSON       bool
	WorkDir    string

	config *Config
}

func NewGlobals() *Globals {
	wd, _ := os.Getwd()
	return &Globals{Fs: afero.NewOsFs(), WorkDir: wd}
}

// Config loads the config once. Flags override the file.
func (g *Globals) Config() (*Config, error) {
	if g.config != nil {
		return g.config, nil
	}

	var (
		cfg *Config
		err error
	)
	if g.ConfigPath != "" {
		cfg, err = Load(g.Fs, g.ConfigPath)
	} else {
		cfg, err = Discover(g.Fs, g.WorkDir)
	}
	if err != nil {
		return nil, err
	}

	if len(g.Catalog) > 0 {
		cfg.Catalog = append([]string(nil), g.Catalog...)
		cfg.dir = ""
	}
	if g.Debug {
		cfg.LogLevel = zerolog.DebugLevel.String()
	}

	g.config = cfg
	return cfg, nil
}

// Context attaches the configured logger to ctx.
func (g *Globals) Context(ctx context.Context, stderr io.Writer) (context.Context, error) {
	cfg, err := g.Config()
	if err != nil {
		return nil, err
	}

	lvl, err := debug.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return debug.WithLogger(ctx, debug.Options{Out: stderr, Level: lvl, Color: isTerminal(stderr)}), nil
}

// Resolver loads the catalog and builds a completion resolver over it.
func (g *Globals) Resolver(ctx context.Context) (*completion.Resolver, error) {
	cfg, err := g.Config()
	if err != nil {
		return nil, err
	}

	memo := catalog.NewMemo(catalog.NewFSProvider(g.Fs, cfg.CatalogPatterns()...))
	snapshot := memo.Snapshot(ctx)
	if err := memo.Err(); err != nil && len(cfg.Catalog) > 0 {
		return nil, errors.Errorf("loading catalog: %w", err)
	}

	return completion.NewResolverFromSnapshot(snapshot, completion.WithHiddenModifiers(cfg.HideReserved...)), nil
}

// ReadInput reads a file through the configured filesystem, or stdin for "-".
func (g *Globals) ReadInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := afero.ReadFile(g.Fs, path)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
