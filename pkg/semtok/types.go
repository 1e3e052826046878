/*
Token Types and Modifiers:
------------------------

	@post( title ).truncate( 10 , 'x' )
	| |   | |    | | |     | |  | |   |
	| |   | |    | | |     | |  | |   +- operator
	| |   | |    | | |     | |  | +----- string
	| |   | |    | | |     | |  +------- operator
	| |   | |    | | |     | +---------- number
	| |   | |    | | +-------------------- modifier
	| |   | |    | +---------------------- operator
	| |   | +----------------------------- property
	| +----------------------------------- group
	+------------------------------------- operator

Everything outside a tag is a single text token per gap.
*/
package semtok

import (
	"github.com/walteh/go-dyntag/pkg/position"
)

// TokenType represents the semantic meaning of a token
type TokenType uint32

const (
	// TokenText is literal text between tags
	TokenText TokenType = iota + 1

	// TokenGroup is the namespace of a tag (e.g., post)
	TokenGroup

	// TokenProperty is the key inside the tag's parens (e.g., title)
	TokenProperty

	// TokenModifier is a modifier key (e.g., truncate)
	TokenModifier

	// TokenString is a string argument
	TokenString

	// TokenNumber is a numeric argument
	TokenNumber

	// TokenOperator covers @ . ( ) and ,
	TokenOperator
)

// TokenFlag marks extra characteristics of a token. Flags combine with |.
type TokenFlag uint32

const (
	FlagNone TokenFlag = 0

	// FlagReserved marks control flow modifiers like then and else
	FlagReserved TokenFlag = 1 << iota

	// FlagGroupMethod marks modifiers that only exist on the tag's group
	FlagGroupMethod
)

type Token struct {
	Type  TokenType
	Flags TokenFlag
	Range position.RawPosition
}

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "text"
	case TokenGroup:
		return "group"
	case TokenProperty:
		return "property"
	case TokenModifier:
		return "modifier"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenOperator:
		return "operator"
	default:
		return "unknown"
	}
}

func (f TokenFlag) String() string {
	switch f {
	case FlagNone:
		return "none"
	case FlagReserved:
		return "reserved"
	case FlagGroupMethod:
		return "group_method"
	case FlagReserved | FlagGroupMethod:
		return "reserved|group_method"
	default:
		return "unknown"
	}
}
