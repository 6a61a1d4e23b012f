// Package token defines the lexical tokens produced by the lexer and
// consumed by the grammar, parser table, and parser driver.
package token

import "fmt"

// Kind identifies the lexical class of a Token. Kind values are also used as
// the grammar's terminal names (see internal/grammar) and must therefore be
// stable, unique strings.
type Kind string

// Kind values for every terminal in the source language's grammar.
const (
	EOF Kind = "EOF"

	// keywords
	Func   Kind = "Func"
	Int    Kind = "Int"
	Float  Kind = "Float"
	Bool   Kind = "Bool"
	String Kind = "String"
	Array  Kind = "Array"
	If     Kind = "If"
	Else   Kind = "Else"
	While  Kind = "While"
	Var    Kind = "Var"
	Return Kind = "Return"
	True   Kind = "True"
	False  Kind = "False"
	Print  Kind = "Print"
	Scan   Kind = "Scan"

	// mutables (carry a lexeme)
	Identifier       Kind = "Identifier"
	IntegerConstant  Kind = "IntegerConstant"
	FloatConstant    Kind = "FloatConstant"
	StringConstant   Kind = "StringConstant"

	// punctuation
	Assign          Kind = "Assign"
	LeftParen       Kind = "LeftParen"
	RightParen      Kind = "RightParen"
	LeftBracket     Kind = "LeftBracket"
	RightBracket    Kind = "RightBracket"
	LeftBrace       Kind = "LeftBrace"
	RightBrace      Kind = "RightBrace"
	Arrow           Kind = "Arrow"
	Colon           Kind = "Colon"
	Comma           Kind = "Comma"
	Semicolon       Kind = "Semicolon"

	// operators
	Plus               Kind = "Plus"
	Minus              Kind = "Minus"
	Mul                Kind = "Mul"
	Div                Kind = "Div"
	Mod                Kind = "Mod"
	Or                 Kind = "Or"
	And                Kind = "And"
	Equals             Kind = "Equals"
	NotEquals          Kind = "NotEquals"
	LessOrEquals       Kind = "LessOrEquals"
	MoreOrEquals       Kind = "MoreOrEquals"
	LeftAngleBracket   Kind = "LeftAngleBracket"
	RightAngleBracket  Kind = "RightAngleBracket"
	Negation           Kind = "Negation"
)

// HasLexeme reports whether tokens of this kind carry a lexeme. Only the
// four mutable kinds do; every other kind is fully described by its Kind.
func (k Kind) HasLexeme() bool {
	switch k {
	case Identifier, IntegerConstant, FloatConstant, StringConstant:
		return true
	default:
		return false
	}
}

// Human returns a reader-facing name for the kind, used in diagnostics.
func (k Kind) Human() string {
	switch k {
	case EOF:
		return "end of input"
	case LeftAngleBracket:
		return "'<'"
	case RightAngleBracket:
		return "'>'"
	default:
		return string(k)
	}
}

// Position is a location in the original source text.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical token, as produced by the lexer.
//
// Lexeme is only meaningful when Kind.HasLexeme() is true; it is the empty
// string for every other kind (keywords and punctuation are fully identified
// by Kind alone).
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

func (t Token) String() string {
	if t.Kind.HasLexeme() {
		return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Lexeme, t.Pos)
	}
	return fmt.Sprintf("%s@%s", t.Kind, t.Pos)
}

// Keywords maps reserved-word lexemes to their Kind, used by the lexer to
// distinguish keywords from identifiers.
var Keywords = map[string]Kind{
	"func":   Func,
	"Int":    Int,
	"Float":  Float,
	"Bool":   Bool,
	"String": String,
	"Array":  Array,
	"if":     If,
	"else":   Else,
	"while":  While,
	"var":    Var,
	"return": Return,
	"True":   True,
	"False":  False,
	"print":  Print,
	"scan":   Scan,
}
