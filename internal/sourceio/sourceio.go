// Package sourceio reads compiler source files off disk, stripping a
// leading byte-order mark if present so internal/lexer never has to know
// about encoding. Grounded on golang.org/x/text, a dependency the teacher's
// go.mod already carries but no teacher package exercises directly.
package sourceio

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Read reads the file at path and returns its contents as a string, with
// any UTF-8/UTF-16 byte-order mark transparently stripped and the text
// re-encoded as plain UTF-8.
func Read(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	r := transform.NewReader(f, dec)

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read source file: %w", err)
	}
	return string(data), nil
}
