package semtok

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/walteh/go-dyntag/pkg/catalog"
	"github.com/walteh/go-dyntag/pkg/parser"
	"github.com/walteh/go-dyntag/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// tagLexer splits the raw text of one tag. Parens switch into the Args state
// so that anything but a comma or ')' reads as a single argument.
var tagLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "At", Pattern: `@`},
		{Name: "Dot", Pattern: `\.`},
		{Name: "Ident", Pattern: `\w+`},
		{Name: "Open", Pattern: `\(`, Action: lexer.Push("Args")},
	},
	"Args": {
		{Name: "Close", Pattern: `\)`, Action: lexer.Pop()},
		{Name: "Comma", Pattern: `,`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Arg", Pattern: `[^,)\s]+(?:\s+[^,)\s]+)*`},
	},
})

var symbols = tagLexer.Symbols()

// tagVisitor turns the lexemes of one tag into semantic tokens.
type tagVisitor struct {
	tag    parser.TagToken
	tokens []Token

	seenGroup    bool
	inProperty   bool
	propertyDone bool
	property     []lexer.Token
}

func visitTag(tag parser.TagToken) ([]Token, error) {
	lex, err := tagLexer.LexString("", tag.Raw)
	if err != nil {
		return nil, errors.Errorf("lexing tag %q: %w", tag.Raw, err)
	}

	v := &tagVisitor{tag: tag}
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, errors.Errorf("lexing tag %q: %w", tag.Raw, err)
		}
		if tok.EOF() {
			break
		}
		v.visit(tok)
	}

	return v.tokens, nil
}

func (v *tagVisitor) visit(tok lexer.Token) {
	switch tok.Type {
	case symbols["Whitespace"]:
		return
	case symbols["At"], symbols["Dot"]:
		v.emit(TokenOperator, FlagNone, tok)
	case symbols["Comma"]:
		if v.inProperty {
			v.property = append(v.property, tok)
			return
		}
		v.emit(TokenOperator, FlagNone, tok)
	case symbols["Ident"]:
		if !v.seenGroup {
			v.seenGroup = true
			v.emit(TokenGroup, FlagNone, tok)
			return
		}
		v.emit(TokenModifier, v.modifierFlags(tok.Value), tok)
	case symbols["Open"]:
		if !v.propertyDone {
			v.inProperty = true
		}
		v.emit(TokenOperator, FlagNone, tok)
	case symbols["Close"]:
		if v.inProperty {
			v.flushProperty()
			v.inProperty = false
			v.propertyDone = true
		}
		v.emit(TokenOperator, FlagNone, tok)
	case symbols["Arg"]:
		if v.inProperty {
			v.property = append(v.property, tok)
			return
		}
		if parser.ParseArgument(tok.Value).IsNumber() {
			v.emit(TokenNumber, FlagNone, tok)
		} else {
			v.emit(TokenString, FlagNone, tok)
		}
	}
}

// flushProperty emits the property as one token even when it contains commas.
func (v *tagVisitor) flushProperty() {
	if len(v.property) == 0 {
		return
	}
	first, last := v.property[0], v.property[len(v.property)-1]
	start := first.Pos.Offset
	end := last.Pos.Offset + len(last.Value)
	v.tokens = append(v.tokens, Token{
		Type:  TokenProperty,
		Range: position.NewBasicPosition(v.tag.Raw[start:end], v.tag.Start+start),
	})
	v.property = nil
}

func (v *tagVisitor) emit(typ TokenType, flags TokenFlag, tok lexer.Token) {
	v.tokens = append(v.tokens, Token{
		Type:  typ,
		Flags: flags,
		Range: position.NewBasicPosition(tok.Value, v.tag.Start+tok.Pos.Offset),
	})
}

func (v *tagVisitor) modifierFlags(key string) TokenFlag {
	flags := FlagNone
	if catalog.IsReserved(key) {
		flags |= FlagReserved
	}
	for _, m := range catalog.GroupMethods(v.tag.Group) {
		if m.Key == key {
			flags |= FlagGroupMethod
			break
		}
	}
	return flags
}
