// Package lexer turns source text into a stream of tokens. It is a
// single-pass, one-character-lookahead scanner that tracks byte offset, line,
// and column as it goes; it has no knowledge of the grammar and is pure with
// respect to the string it was given (SetText restores it to its initial
// state over a new string).
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dekarrin/minic/internal/ferr"
	"github.com/dekarrin/minic/internal/token"
)

// Lexer scans a single source string into tokens on demand.
type Lexer struct {
	src    []rune
	offset int // rune index of next unread rune
	// byteOffset tracks the byte offset of src[offset] in the original UTF-8
	// text, since Position.Offset is a byte offset.
	byteOffset int
	line       int
	col        int
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	lx := &Lexer{}
	lx.SetText(src)
	return lx
}

// SetText resets the Lexer to scan src from the beginning, discarding any
// in-progress state.
func (lx *Lexer) SetText(src string) {
	lx.src = []rune(src)
	lx.offset = 0
	lx.byteOffset = 0
	lx.line = 1
	lx.col = 1
}

func (lx *Lexer) pos() token.Position {
	return token.Position{Offset: lx.byteOffset, Line: lx.line, Column: lx.col}
}

func (lx *Lexer) peekRune() (rune, bool) {
	if lx.offset >= len(lx.src) {
		return 0, false
	}
	return lx.src[lx.offset], true
}

func (lx *Lexer) peekRuneAt(ahead int) (rune, bool) {
	idx := lx.offset + ahead
	if idx >= len(lx.src) {
		return 0, false
	}
	return lx.src[idx], true
}

func (lx *Lexer) advance() rune {
	r := lx.src[lx.offset]
	lx.offset++
	lx.byteOffset += utf8.RuneLen(r)
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *Lexer) skipWhitespaceAndComments() {
	for {
		r, ok := lx.peekRune()
		if !ok {
			return
		}
		if unicode.IsSpace(r) {
			lx.advance()
			continue
		}
		if r == '/' {
			if r2, ok2 := lx.peekRuneAt(1); ok2 && r2 == '/' {
				for {
					r, ok := lx.peekRune()
					if !ok || r == '\n' {
						break
					}
					lx.advance()
				}
				continue
			}
		}
		return
	}
}

var twoCharPunct = map[string]token.Kind{
	"==": token.Equals,
	"!=": token.NotEquals,
	"<=": token.LessOrEquals,
	">=": token.MoreOrEquals,
	"->": token.Arrow,
	"||": token.Or,
	"&&": token.And,
}

var oneCharPunct = map[rune]token.Kind{
	'(': token.LeftParen,
	')': token.RightParen,
	'[': token.LeftBracket,
	']': token.RightBracket,
	'{': token.LeftBrace,
	'}': token.RightBrace,
	':': token.Colon,
	',': token.Comma,
	';': token.Semicolon,
	'=': token.Assign,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Mul,
	'/': token.Div,
	'%': token.Mod,
	'<': token.LeftAngleBracket,
	'>': token.RightAngleBracket,
	'!': token.Negation,
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Next scans and returns the next token, advancing past it. At end of input
// it returns a token.EOF token forever after.
func (lx *Lexer) Next() (token.Token, error) {
	lx.skipWhitespaceAndComments()

	start := lx.pos()

	r, ok := lx.peekRune()
	if !ok {
		return token.Token{Kind: token.EOF, Pos: start}, nil
	}

	switch {
	case unicode.IsDigit(r):
		return lx.lexNumber(start)
	case isIdentStart(r):
		return lx.lexIdentOrKeyword(start)
	case r == '"':
		return lx.lexString(start)
	}

	if r2, ok2 := lx.peekRuneAt(1); ok2 {
		two := string([]rune{r, r2})
		if kind, ok := twoCharPunct[two]; ok {
			lx.advance()
			lx.advance()
			return token.Token{Kind: kind, Pos: start}, nil
		}
	}

	if kind, ok := oneCharPunct[r]; ok {
		lx.advance()
		return token.Token{Kind: kind, Pos: start}, nil
	}

	return token.Token{}, ferr.NewAt(ferr.Lexical, start, "unexpected character %q", r)
}

func (lx *Lexer) lexNumber(start token.Position) (token.Token, error) {
	var sb strings.Builder
	for {
		r, ok := lx.peekRune()
		if !ok || !unicode.IsDigit(r) {
			break
		}
		sb.WriteRune(lx.advance())
	}

	isFloat := false
	if r, ok := lx.peekRune(); ok && r == '.' {
		if r2, ok2 := lx.peekRuneAt(1); ok2 && unicode.IsDigit(r2) {
			isFloat = true
			sb.WriteRune(lx.advance()) // '.'
			for {
				r, ok := lx.peekRune()
				if !ok || !unicode.IsDigit(r) {
					break
				}
				sb.WriteRune(lx.advance())
			}
		}
	}

	kind := token.IntegerConstant
	if isFloat {
		kind = token.FloatConstant
	}
	return token.Token{Kind: kind, Lexeme: sb.String(), Pos: start}, nil
}

func (lx *Lexer) lexIdentOrKeyword(start token.Position) (token.Token, error) {
	var sb strings.Builder
	for {
		r, ok := lx.peekRune()
		if !ok || !isIdentCont(r) {
			break
		}
		sb.WriteRune(lx.advance())
	}

	text := sb.String()
	if kind, ok := token.Keywords[text]; ok {
		return token.Token{Kind: kind, Pos: start}, nil
	}
	return token.Token{Kind: token.Identifier, Lexeme: text, Pos: start}, nil
}

func (lx *Lexer) lexString(start token.Position) (token.Token, error) {
	lx.advance() // opening quote

	var sb strings.Builder
	for {
		r, ok := lx.peekRune()
		if !ok || r == '\n' {
			return token.Token{}, ferr.NewAt(ferr.Lexical, start, "unterminated string literal")
		}
		if r == '"' {
			lx.advance()
			break
		}
		if r == '\\' {
			lx.advance()
			esc, ok := lx.peekRune()
			if !ok {
				return token.Token{}, ferr.NewAt(ferr.Lexical, start, "unterminated string literal")
			}
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				sb.WriteRune(esc)
			}
			lx.advance()
			continue
		}
		sb.WriteRune(lx.advance())
	}

	return token.Token{Kind: token.StringConstant, Lexeme: sb.String(), Pos: start}, nil
}

// All lexes the entire remaining input into a slice of tokens, including the
// trailing EOF token. Used by tooling (the CLI's --dump-tokens, the REPL's
// tokens command, tests) that
// wants the full stream at once rather than pulling one token at a time.
func (lx *Lexer) All() ([]token.Token, error) {
	var toks []token.Token
	for {
		t, err := lx.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks, nil
		}
	}
}
