package sourceio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/encoding/unicode"
)

func Test_Read_PlainUTF8(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "plain.mc")
	assert.NoError(os.WriteFile(path, []byte("func main() -> Int: { return 0; }"), 0o644))

	got, err := Read(path)
	assert.NoError(err)
	assert.Equal("func main() -> Int: { return 0; }", got)
}

func Test_Read_StripsUTF8BOM(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "bom.mc")
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := append(bom, []byte("func main() -> Int: { return 0; }")...)
	assert.NoError(os.WriteFile(path, content, 0o644))

	got, err := Read(path)
	assert.NoError(err)
	assert.Equal("func main() -> Int: { return 0; }", got)
}

func Test_Read_StripsUTF16LEBOM(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "utf16.mc")

	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	encoded, err := enc.String("func main() -> Int: { return 0; }")
	assert.NoError(err)
	assert.NoError(os.WriteFile(path, []byte(encoded), 0o644))

	got, err := Read(path)
	assert.NoError(err)
	assert.Equal("func main() -> Int: { return 0; }", got)
}

func Test_Read_MissingFile(t *testing.T) {
	assert := assert.New(t)

	_, err := Read(filepath.Join(t.TempDir(), "missing.mc"))
	assert.Error(err)
}
