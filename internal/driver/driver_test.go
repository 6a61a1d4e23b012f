package driver

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minic/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Cache.Enabled = false
	return cfg
}

func Test_Driver_CompileText_ValidPrograms(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		want   []string // substrings expected in the rendered IR
	}{
		{
			name: "function with default Int return and forward call",
			source: `
				func main(): {
					return add(2, 3);
				}
				func add(a: Int, b: Int) -> Int: {
					return a + b;
				}
			`,
			want: []string{"define i32 @main(", "define i32 @add(", "call i32 @add("},
		},
		{
			name: "var decl, if/else, while, print, scan",
			source: `
				func main() -> Int: {
					var x: Int = 5;
					var y: Float = 1.5;
					if (x > 0) {
						print(x);
					} else {
						print(0);
					}
					while (x > 0) {
						x = x - 1;
					}
					scan(x);
					return x;
				}
			`,
			want: []string{"declare i32 @printf(", "declare i32 @scanf(", "br i1"},
		},
		{
			name: "array declaration and indexing lower to opaque-pointer ops",
			source: `
				func main() -> Int: {
					var xs: Array[Int];
					return xs[0];
				}
			`,
			want: []string{"getelementptr", "null"},
		},
		{
			name: "string and bool literals, equality",
			source: `
				func main() -> Bool: {
					var s: String = "hi";
					return s == "hi";
				}
			`,
			want: []string{"icmp eq ptr"},
		},
		{
			name: "if/else where both arms return leaves no live path after the if",
			source: `
				func main() -> Int: {
					if (0) {
						return 1;
					} else {
						return 2;
					}
				}
			`,
			want: []string{"br i1", "ret i32 1", "ret i32 2"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			d, err := New(testConfig(t))
			assert.NoError(err)
			defer d.Close()

			out, err := d.CompileText(context.Background(), tc.source, testConfig(t))
			assert.NoError(err)
			for _, w := range tc.want {
				assert.Contains(out, w)
			}
		})
	}
}

func Test_Driver_CompileText_SemanticErrors(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		errSub string
	}{
		{
			name: "undefined variable",
			source: `
				func main() -> Int: {
					return y;
				}
			`,
			errSub: "not defined",
		},
		{
			name: "redeclared variable in same scope",
			source: `
				func main() -> Int: {
					var x: Int;
					var x: Int;
					return x;
				}
			`,
			errSub: "redeclared",
		},
		{
			name: "missing return on some path",
			source: `
				func main() -> Int: {
					if (True) {
						return 1;
					}
				}
			`,
			errSub: "return",
		},
		{
			name: "call to undefined function",
			source: `
				func main() -> Int: {
					return missing();
				}
			`,
			errSub: "not defined",
		},
		{
			name: "wrong arg count",
			source: `
				func add(a: Int, b: Int) -> Int: {
					return a + b;
				}
				func main() -> Int: {
					return add(1);
				}
			`,
			errSub: "argument",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			d, err := New(testConfig(t))
			assert.NoError(err)
			defer d.Close()

			_, err = d.CompileText(context.Background(), tc.source, testConfig(t))
			assert.Error(err)
			assert.True(strings.Contains(err.Error(), tc.errSub), "error %q should mention %q", err.Error(), tc.errSub)
		})
	}
}

func Test_Driver_CompileText_BuildCacheHit(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()

	d, err := New(cfg)
	assert.NoError(err)
	defer d.Close()

	source := `
		func main() -> Int: {
			return 0;
		}
	`

	first, err := d.CompileText(context.Background(), source, cfg)
	assert.NoError(err)

	second, err := d.CompileText(context.Background(), source, cfg)
	assert.NoError(err)

	assert.Equal(first, second)
}
