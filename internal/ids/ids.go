// Package ids mints short, collision-free names for backend IR entities
// (basic blocks, temporary registers) that only need a human-readable hint
// plus enough entropy to never collide within one module, grounded on the
// teacher's use of google/uuid for opaque identifiers.
package ids

import (
	"strconv"

	"github.com/google/uuid"
)

// Sequence mints unique names by suffixing a caller-supplied hint with a
// short tag. Two calls with the same hint (e.g. every if statement wanting
// a block named "continue") still never collide.
type Sequence struct {
	n int
}

// NewSequence returns an empty Sequence.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns hint suffixed with a monotonically increasing counter and a
// short random tag, e.g. "continue.3.a1b2c3d4".
func (s *Sequence) Next(hint string) string {
	s.n++
	return hint + "." + strconv.Itoa(s.n) + "." + shortTag()
}

func shortTag() string {
	u := uuid.New()
	return u.String()[:8]
}
