package catalog

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog format, written as YAML, JSON or HCL:
//
//	tag "post" "title" {
//	  label      = "Title"
//	  breadcrumb = "Post / Title"
//	}
//
//	modifier "truncate" {
//	  category = "text"
//	  arg {
//	    label   = "length"
//	    type    = "number"
//	    default = "20"
//	  }
//	}
type File struct {
	Tags      []TagDescriptor      `json:"tags,omitempty" yaml:"tags,omitempty" hcl:"tag,block"`
	Modifiers []ModifierDescriptor `json:"modifiers,omitempty" yaml:"modifiers,omitempty" hcl:"modifier,block"`
}

// ParseFile decodes catalog data; the format is chosen by the file extension.
func ParseFile(path string, data []byte) (*File, error) {
	var cfg File

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
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
		return nil, errors.Errorf("unsupported catalog format: %s", path)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (f *File) validate() error {
	var err error
	for i, t := range f.Tags {
		if t.Group == "" {
			err = multierr.Append(err, errors.Errorf("tag %d: group is required", i))
		}
	}
	for i, m := range f.Modifiers {
		if m.Key == "" {
			err = multierr.Append(err, errors.Errorf("modifier %d: key is required", i))
		}
	}
	return err
}

// LoadFile reads and decodes a single catalog file.
func LoadFile(fs afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading catalog file: %w", err)
	}

	cfg, err := ParseFile(path, data)
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", path, err)
	}

	return cfg, nil
}

// FSProvider serves the merged contents of every catalog file matching a set
// of doublestar patterns, e.g. "catalogs/**/*.yaml".
type FSProvider struct {
	fs       afero.Fs
	patterns []string

	once   sync.Once
	merged *File
	err    error
}

var _ Provider = (*FSProvider)(nil)

func NewFSProvider(fs afero.Fs, patterns ...string) *FSProvider {
	return &FSProvider{fs: fs, patterns: patterns}
}

func (p *FSProvider) ListTags(ctx context.Context) ([]TagDescriptor, error) {
	merged, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	return merged.Tags, nil
}

func (p *FSProvider) ListModifiers(ctx context.Context) ([]ModifierDescriptor, error) {
	merged, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	return merged.Modifiers, nil
}

func (p *FSProvider) load(ctx context.Context) (*File, error) {
	p.once.Do(func() {
		p.merged, p.err = p.loadAll(ctx)
	})
	return p.merged, p.err
}

func (p *FSProvider) loadAll(ctx context.Context) (*File, error) {
	merged := &File{}
	var errs error

	for _, pattern := range p.patterns {
		paths, err := Glob(p.fs, pattern)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if len(paths) == 0 {
			zerolog.Ctx(ctx).Warn().Str("pattern", pattern).Msg("catalog pattern matched no files")
		}

		for _, path := range paths {
			f, err := LoadFile(p.fs, path)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			zerolog.Ctx(ctx).Debug().Str("path", path).Int("tags", len(f.Tags)).Int("modifiers", len(f.Modifiers)).Msg("loaded catalog file")
			merged.Tags = append(merged.Tags, f.Tags...)
			merged.Modifiers = append(merged.Modifiers, f.Modifiers...)
		}
	}

	if errs != nil {
		return nil, errors.Errorf("loading catalogs: %w", errs)
	}

	return merged, nil
}

// Glob lists files in fs matching a doublestar pattern, in lexical order.
// Patterns without meta characters name a single file.
func Glob(fs afero.Fs, pattern string) ([]string, error) {
	pattern = filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid catalog pattern: %s", pattern)
	}

	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}

	base, _ := doublestar.SplitPattern(pattern)

	var matches []string
	err := afero.Walk(fs, base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ok, err := doublestar.Match(pattern, filepath.ToSlash(path))
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", base, err)
	}

	return matches, nil
}
