package diagnostic

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"
	"github.com/walteh/go-dyntag/pkg/catalog"
	"github.com/walteh/go-dyntag/pkg/parser"
	"github.com/walteh/go-dyntag/pkg/position"
	"gitlab.com/tozd/go/errors"
)

var (
	// a tag opener left in text, e.g. "@post(title" with no closing paren
	unclosedTagPattern = regexp.MustCompile(`@\w+\(`)

	// a modifier written without parens right after a tag is not part of the tag
	bareModifierPattern = regexp.MustCompile(`^\.\w+`)
)

// Generator is responsible for generating diagnostics for an expression
type Generator interface {
	Generate(ctx context.Context, text string, snapshot *catalog.Snapshot) (*Diagnostics, error)
}

// Diagnostics groups findings by severity. The expression is never rejected;
// these are advisory only.
type Diagnostics struct {
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
	Hints    []Diagnostic `json:"hints"`
}

// All returns every diagnostic ordered by offset.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Hints))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)
	all = append(all, d.Hints...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Location.Offset < all[j].Location.Offset
	})
	return all
}

func (d *Diagnostics) Empty() bool {
	return len(d.Errors) == 0 && len(d.Warnings) == 0 && len(d.Hints) == 0
}

// Diagnostic represents a single diagnostic message
type Diagnostic struct {
	Message  string               `json:"message"`
	Location position.RawPosition `json:"-"`
	Line     int                  `json:"line"`
	Column   int                  `json:"column"`
	EndLine  int                  `json:"end_line"`
	EndCol   int                  `json:"end_col"`
	Severity DiagnosticSeverity   `json:"severity"`
}

// DiagnosticSeverity represents the severity level of a diagnostic
type DiagnosticSeverity string

const (
	Error   DiagnosticSeverity = "error"
	Warning DiagnosticSeverity = "warning"
	Info    DiagnosticSeverity = "info"
	Hint    DiagnosticSeverity = "hint"
)

// DefaultGenerator checks tags against a catalog snapshot.
type DefaultGenerator struct{}

func NewDefaultGenerator() *DefaultGenerator {
	return &DefaultGenerator{}
}

var _ Generator = (*DefaultGenerator)(nil)

// Generate implements Generator
func (g *DefaultGenerator) Generate(ctx context.Context, text string, snapshot *catalog.Snapshot) (*Diagnostics, error) {
	if snapshot == nil {
		return nil, errors.Errorf("catalog snapshot is nil")
	}

	r := &run{
		text:     text,
		snapshot: snapshot,
		diags: &Diagnostics{
			Errors:   make([]Diagnostic, 0),
			Warnings: make([]Diagnostic, 0),
			Hints:    make([]Diagnostic, 0),
		},
	}

	var prev parser.Token
	for _, tok := range parser.Parse(text) {
		switch t := tok.(type) {
		case parser.TagToken:
			r.checkTag(t)
		case parser.TextToken:
			r.checkText(t, prev)
		}
		prev = tok
	}

	zerolog.Ctx(ctx).Debug().
		Int("errors", len(r.diags.Errors)).
		Int("warnings", len(r.diags.Warnings)).
		Int("hints", len(r.diags.Hints)).
		Msg("diagnostics generated")

	return r.diags, nil
}

type run struct {
	text     string
	snapshot *catalog.Snapshot
	diags    *Diagnostics
}

func (r *run) add(sev DiagnosticSeverity, loc position.RawPosition, msg string) {
	line, col := loc.GetLineAndColumn(r.text)
	endLine, endCol := loc.GetEndPosition().GetLineAndColumn(r.text)

	d := Diagnostic{
		Message:  msg,
		Location: loc,
		Line:     line,
		Column:   col,
		EndLine:  endLine,
		EndCol:   endCol,
		Severity: sev,
	}

	switch sev {
	case Error:
		r.diags.Errors = append(r.diags.Errors, d)
	case Warning:
		r.diags.Warnings = append(r.diags.Warnings, d)
	default:
		r.diags.Hints = append(r.diags.Hints, d)
	}
}

func (r *run) checkTag(tag parser.TagToken) {
	groupPos := position.NewBasicPosition(tag.Group, tag.Start+1)

	if !r.snapshot.HasGroup(tag.Group) {
		r.add(Error, groupPos, withSuggestion(fmt.Sprintf("unknown group %q", tag.Group), tag.Group, r.snapshot.Groups()))
	} else if keys := r.tagKeys(tag.Group); len(keys) > 0 {
		if _, ok := r.snapshot.FindTag(tag.Group, tag.Property); !ok {
			propPos := position.NewBasicPosition(tag.Property, tag.Start+1+len(tag.Group)+1)
			r.add(Warning, propPos, withSuggestion(fmt.Sprintf("%q has no property %q", tag.Group, tag.Property), tag.Property, keys))
		}
	}

	// modifier keys are located by walking the raw chain; the parser keeps no offsets for them
	offset := tag.Start + 1 + len(tag.Group) + 1 + len(tag.Property) + 1
	for _, mod := range tag.Modifiers {
		keyPos := position.NewBasicPosition(mod.Key, offset+1)
		r.checkModifier(tag.Group, mod, keyPos)
		offset = advancePastModifier(tag.Raw, tag.Start, offset)
	}
}

func (r *run) checkModifier(group string, mod parser.Modifier, keyPos position.RawPosition) {
	desc, ok := r.snapshot.FindModifier(group, mod.Key)
	if !ok {
		candidates := make([]string, 0)
		for _, m := range r.snapshot.ModifiersFor(group) {
			candidates = append(candidates, m.Key)
		}
		candidates = append(candidates, catalog.ReservedKeys()...)
		r.add(Error, keyPos, withSuggestion(fmt.Sprintf("unknown modifier %q", mod.Key), mod.Key, candidates))
		return
	}

	if catalog.IsReserved(mod.Key) {
		r.add(Hint, keyPos, fmt.Sprintf("%q is a control flow modifier", mod.Key))
	}

	if len(desc.Args) > 0 && len(mod.Args) > len(desc.Args) {
		r.add(Warning, keyPos, fmt.Sprintf("%s takes at most %d argument(s), got %d", desc.Signature(), len(desc.Args), len(mod.Args)))
	}

	for i, arg := range mod.Args {
		if i >= len(desc.Args) {
			break
		}
		ad := desc.Args[i]
		if ad.Type == "number" && !arg.IsNumber() {
			r.add(Warning, keyPos, fmt.Sprintf("argument %q of %s should be a number, got %s", ad.Label, mod.Key, arg.String()))
		}
		if len(ad.Options) == 0 {
			continue
		}
		// options are written as text; a number matches its shortest form
		value := arg.Text
		if arg.IsNumber() {
			value = parser.FormatNumber(arg.Number)
		}
		if !contains(ad.Options, value) {
			r.add(Warning, keyPos, withSuggestion(fmt.Sprintf("argument %q of %s does not accept %s", ad.Label, mod.Key, arg.String()), value, ad.Options))
		}
	}
}

func (r *run) checkText(text parser.TextToken, prev parser.Token) {
	if _, afterTag := prev.(parser.TagToken); afterTag {
		if loc := bareModifierPattern.FindStringIndex(text.Raw); loc != nil {
			pos := position.NewBasicPosition(text.Raw[loc[0]:loc[1]], text.Start+loc[0])
			r.add(Warning, pos, fmt.Sprintf("%s() needs parentheses to apply to the tag", text.Raw[loc[0]:loc[1]]))
		}
	}

	for _, loc := range unclosedTagPattern.FindAllStringIndex(text.Raw, -1) {
		pos := position.NewBasicPosition(text.Raw[loc[0]:loc[1]], text.Start+loc[0])
		r.add(Warning, pos, fmt.Sprintf("incomplete tag %q is left as text", text.Raw[loc[0]:loc[1]]))
	}
}

func (r *run) tagKeys(group string) []string {
	keys := make([]string, 0)
	for _, t := range r.snapshot.Tags {
		if t.Group == group {
			keys = append(keys, t.Key)
		}
	}
	return keys
}

// advancePastModifier moves from the '.' at offset to the start of the next modifier.
func advancePastModifier(raw string, tagStart, offset int) int {
	i := offset - tagStart + 1
	for i < len(raw) && raw[i] != '.' {
		if raw[i] == '(' {
			for i < len(raw) && raw[i] != ')' {
				i++
			}
		}
		i++
	}
	return tagStart + i
}

func withSuggestion(msg, target string, candidates []string) string {
	if s := closest(target, candidates); s != "" {
		return fmt.Sprintf("%s, did you mean %q?", msg, s)
	}
	return msg
}

// closest prefers a fuzzy subsequence match and falls back to edit distance
// so that transposed letters are still caught.
func closest(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", 3
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(target, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
