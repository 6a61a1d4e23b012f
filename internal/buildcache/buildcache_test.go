package buildcache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Key_DeterministicAndDistinguishesInputs(t *testing.T) {
	assert := assert.New(t)

	a := Key("func main() -> Int: { return 0; }", "textir|")
	b := Key("func main() -> Int: { return 0; }", "textir|")
	assert.Equal(a, b)

	c := Key("func main() -> Int: { return 1; }", "textir|")
	assert.NotEqual(a, c, "different source must hash differently")

	d := Key("func main() -> Int: { return 0; }", "textir|x86_64")
	assert.NotEqual(a, d, "different config must hash differently")
}

func Test_Cache_PutAndGet(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	c, err := Open(t.TempDir())
	assert.NoError(err)
	defer c.Close()

	key := Key("source", "cfg")
	_, err = c.Get(ctx, key)
	assert.True(errors.Is(err, ErrNotFound))

	assert.NoError(c.Put(ctx, key, "rendered output"))

	entry, err := c.Get(ctx, key)
	assert.NoError(err)
	assert.Equal("rendered output", entry.Output)
}

func Test_Cache_PutOverwrites(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	c, err := Open(t.TempDir())
	assert.NoError(err)
	defer c.Close()

	key := Key("source", "cfg")
	assert.NoError(c.Put(ctx, key, "first"))
	assert.NoError(c.Put(ctx, key, "second"))

	entry, err := c.Get(ctx, key)
	assert.NoError(err)
	assert.Equal("second", entry.Output)
}
