// Package ferr defines the closed set of front-end error kinds the compiler
// can raise, per the error-handling taxonomy: lexical, syntax, internal
// grammar configuration errors, semantic errors, and backend-verifier
// errors. Every stage of the pipeline returns one of these instead of a bare
// error, so the driver (or the HTTP API) can render position info and a
// stable kind tag without type-switching over ad-hoc error values.
package ferr

import (
	"fmt"

	"github.com/dekarrin/minic/internal/token"
)

// Kind is the closed taxonomy of front-end errors.
type Kind string

const (
	Lexical        Kind = "LexicalError"
	Syntax         Kind = "SyntaxError"
	InternalGrammar Kind = "InternalGrammarError"
	Semantic       Kind = "SemanticError"
	Backend        Kind = "BackendError"
)

// Error is a structured front-end error: a Kind tag, a human message, and an
// optional source position (the zero Position when none applies, e.g. for
// InternalGrammar errors discovered before any source is read).
type Error struct {
	Kind    Kind
	Message string
	Pos     token.Position
	HasPos  bool
}

func (e *Error) Error() string {
	if e.HasPos {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewAt(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos, HasPos: true}
}

// NewAtToken builds an error positioned at t's location, the common case for
// lexical and syntax errors.
func NewAtToken(kind Kind, t token.Token, format string, args ...any) *Error {
	return NewAt(kind, t.Pos, format, args...)
}
