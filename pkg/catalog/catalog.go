// Package catalog describes the tags and modifiers an editor can suggest.
package catalog

import (
	"context"
	"sort"
	"strings"
)

// TagDescriptor is one insertable tag, e.g. group "post", key "title".
type TagDescriptor struct {
	Group      string `json:"group" yaml:"group" hcl:"group,label"`
	Key        string `json:"key" yaml:"key" hcl:"key,label"`
	Label      string `json:"label,omitempty" yaml:"label,omitempty" hcl:"label,optional"`
	FullPath   string `json:"full_path,omitempty" yaml:"full_path,omitempty" hcl:"full_path,optional"`
	Breadcrumb string `json:"breadcrumb,omitempty" yaml:"breadcrumb,omitempty" hcl:"breadcrumb,optional"`
}

// Path returns the canonical expression inserted for this tag.
func (t TagDescriptor) Path() string {
	if t.FullPath != "" {
		return t.FullPath
	}
	return "@" + t.Group + "(" + t.Key + ")"
}

type ArgDescriptor struct {
	Label   string   `json:"label" yaml:"label" hcl:"label,attr"`
	Type    string   `json:"type,omitempty" yaml:"type,omitempty" hcl:"type,optional"`
	Default string   `json:"default,omitempty" yaml:"default,omitempty" hcl:"default,optional"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty" hcl:"options,optional"`
}

type ModifierDescriptor struct {
	Key         string          `json:"key" yaml:"key" hcl:"key,label"`
	Label       string          `json:"label,omitempty" yaml:"label,omitempty" hcl:"label,optional"`
	Category    string          `json:"category,omitempty" yaml:"category,omitempty" hcl:"category,optional"`
	Args        []ArgDescriptor `json:"args,omitempty" yaml:"args,omitempty" hcl:"arg,block"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty" hcl:"description,optional"`
}

// Code is the text inserted when the modifier is accepted from a suggestion list.
func (m ModifierDescriptor) Code() string {
	return "." + m.Key + "()"
}

// Signature renders key(label, label) for display.
func (m ModifierDescriptor) Signature() string {
	labels := make([]string, len(m.Args))
	for i, a := range m.Args {
		labels[i] = a.Label
	}
	return m.Key + "(" + strings.Join(labels, ", ") + ")"
}

// Provider is the capability the resolver needs from the outside world.
// Implementations may hit the network; callers memoize with NewMemo.
type Provider interface {
	ListTags(ctx context.Context) ([]TagDescriptor, error)
	ListModifiers(ctx context.Context) ([]ModifierDescriptor, error)
}

// Snapshot is a catalog fetched once and held for an edit session.
type Snapshot struct {
	ID        string
	Tags      []TagDescriptor
	Modifiers []ModifierDescriptor
}

// HasGroup reports whether any tag or group method is known for group.
func (s *Snapshot) HasGroup(group string) bool {
	if _, ok := groupMethods[group]; ok {
		return true
	}
	for _, t := range s.Tags {
		if t.Group == group {
			return true
		}
	}
	return false
}

// Groups lists every group name known to the snapshot, sorted.
func (s *Snapshot) Groups() []string {
	seen := map[string]bool{}
	for g := range groupMethods {
		seen[g] = true
	}
	for _, t := range s.Tags {
		seen[t.Group] = true
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// FindTag looks a tag up by group and key.
func (s *Snapshot) FindTag(group, key string) (TagDescriptor, bool) {
	for _, t := range s.Tags {
		if t.Group == group && t.Key == key {
			return t, true
		}
	}
	return TagDescriptor{}, false
}

// FindModifier looks a modifier up among the global catalog and the methods of group.
// Reserved modifiers are found too, even though they are never listed.
func (s *Snapshot) FindModifier(group, key string) (ModifierDescriptor, bool) {
	for _, m := range GroupMethods(group) {
		if m.Key == key {
			return m, true
		}
	}
	for _, m := range s.Modifiers {
		if m.Key == key {
			return m, true
		}
	}
	for _, m := range reservedModifiers {
		if m.Key == key {
			return m, true
		}
	}
	return ModifierDescriptor{}, false
}

// ModifiersFor unions the global modifiers with the methods contributed by
// group, dropping hidden keys. Group methods come first and shadow global
// modifiers of the same key.
func (s *Snapshot) ModifiersFor(group string, hidden ...string) []ModifierDescriptor {
	skip := map[string]bool{}
	for _, k := range ReservedKeys() {
		skip[k] = true
	}
	for _, k := range hidden {
		skip[k] = true
	}

	out := make([]ModifierDescriptor, 0, len(s.Modifiers)+2)
	for _, m := range GroupMethods(group) {
		if !skip[m.Key] {
			out = append(out, m)
			skip[m.Key] = true
		}
	}
	for _, m := range s.Modifiers {
		if !skip[m.Key] {
			out = append(out, m)
			skip[m.Key] = true
		}
	}
	return out
}

// Static serves a fixed catalog.
type Static struct {
	Tags      []TagDescriptor
	Modifiers []ModifierDescriptor
}

var _ Provider = (*Static)(nil)

func (s *Static) ListTags(ctx context.Context) ([]TagDescriptor, error) {
	return s.Tags, nil
}

func (s *Static) ListModifiers(ctx context.Context) ([]ModifierDescriptor, error) {
	return s.Modifiers, nil
}
