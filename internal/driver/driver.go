// Package driver wires the front end's stages into the single pipeline the
// CLI, REPL, and HTTP service all drive: read source, parse it against the
// language's fixed grammar (optionally by way of a cached compiled table),
// build an AST, generate code against a configured Backend, and memoize the
// rendered output in a build cache keyed on source-plus-config.
package driver

import (
	"context"
	"fmt"

	"github.com/dekarrin/minic/internal/ast"
	"github.com/dekarrin/minic/internal/buildcache"
	"github.com/dekarrin/minic/internal/codegen"
	"github.com/dekarrin/minic/internal/codegen/textir"
	"github.com/dekarrin/minic/internal/config"
	"github.com/dekarrin/minic/internal/ferr"
	"github.com/dekarrin/minic/internal/grammar"
	"github.com/dekarrin/minic/internal/lexer"
	"github.com/dekarrin/minic/internal/lltable"
	"github.com/dekarrin/minic/internal/parse"
	"github.com/dekarrin/minic/internal/sourceio"
	"github.com/dekarrin/minic/internal/tablecache"
)

// ModuleName is the backend module name every compile is emitted under;
// this front end only ever produces one translation unit per run.
const ModuleName = "minic_module"

// Driver owns the long-lived state a compile run can reuse across repeated
// invocations: the parsed grammar and its compiled table (both fixed, since
// spec.md defines a single source language), and a build cache handle.
type Driver struct {
	grammar grammar.Grammar
	table   *lltable.Table
	cache   *buildcache.Cache
}

// New parses the language grammar, checks that every action tag it names has
// a builder handler, and compiles its table, consulting a table cache under
// cfg.Cache.Dir first. cfg.Cache.Enabled == false disables both caches.
func New(cfg config.Config) (*Driver, error) {
	g, err := grammar.Parse(grammar.SourceLanguage)
	if err != nil {
		return nil, fmt.Errorf("internal: default language grammar failed to parse: %w", err)
	}

	known := map[string]bool{}
	for _, name := range ast.KnownActionTags() {
		known[name] = true
	}
	for _, tag := range g.ActionTags() {
		if !known[tag] {
			return nil, ferr.New(ferr.InternalGrammar, "grammar action tag %q has no bound handler", tag)
		}
	}

	table, err := loadOrCompileTable(g, cfg)
	if err != nil {
		return nil, err
	}

	d := &Driver{grammar: g, table: table}

	if cfg.Cache.Enabled {
		c, err := buildcache.Open(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}
		d.cache = c
	}

	return d, nil
}

func loadOrCompileTable(g grammar.Grammar, cfg config.Config) (*lltable.Table, error) {
	hash := tablecache.Hash(grammar.SourceLanguage)

	if cfg.Cache.Enabled {
		path := tablecache.Path(cfg.Cache.Dir)
		if t, err := tablecache.Load(path, hash); err == nil {
			return t, nil
		}
	}

	// The grammar is not enforced to be strictly LL(1) here (the dangling-else
	// production is a known, deliberate exception; see langgrammar.go) so
	// Analysis.IsLL1 is a diagnostic the REPL/tooling can call, not a gate
	// on compiling the table.
	a := grammar.Analyze(g)
	table, err := lltable.Compile(g, a)
	if err != nil {
		return nil, fmt.Errorf("internal: compiling language grammar table: %w", err)
	}

	if cfg.Cache.Enabled {
		if err := tablecache.Store(tablecache.Path(cfg.Cache.Dir), hash, table); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// Close releases the driver's build cache handle, if any.
func (d *Driver) Close() error {
	if d.cache == nil {
		return nil
	}
	return d.cache.Close()
}

// Grammar and Table expose the grammar and its compiled table, e.g. for
// --dump-grammar and --dump-table or the REPL's introspection commands.
func (d *Driver) Grammar() grammar.Grammar { return d.grammar }
func (d *Driver) Table() *lltable.Table    { return d.table }

// CompileFile reads path off disk with sourceio and compiles it exactly as
// CompileText does.
func (d *Driver) CompileFile(ctx context.Context, path string, cfg config.Config) (string, error) {
	src, err := sourceio.Read(path)
	if err != nil {
		return "", err
	}
	return d.CompileText(ctx, src, cfg)
}

// CompileText runs source through the lexer, table-driven parser, AST
// builder, and code generator, returning the configured Backend's rendered
// textual IR. A cache hit (same source bytes and codegen-relevant config)
// skips lexing/parsing/codegen altogether and returns the stored output.
func (d *Driver) CompileText(ctx context.Context, source string, cfg config.Config) (string, error) {
	var cacheKey string
	if d.cache != nil {
		cacheKey = buildcache.Key(source, string(cfg.Backend)+"|"+cfg.TargetTriple)
		if entry, err := d.cache.Get(ctx, cacheKey); err == nil {
			return entry.Output, nil
		}
	}

	prog, err := d.parse(source)
	if err != nil {
		return "", err
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return "", err
	}

	gen := codegen.New(backend)
	if err := gen.Generate(prog, ModuleName); err != nil {
		return "", err
	}
	output := gen.EmitText()

	if d.cache != nil {
		if err := d.cache.Put(ctx, cacheKey, output); err != nil {
			return "", err
		}
	}

	return output, nil
}

// EmitObject compiles source and writes a host object file to path using
// the configured backend's target triple (or cfg.TargetTriple if set).
func (d *Driver) EmitObject(source, path string, cfg config.Config) error {
	prog, err := d.parse(source)
	if err != nil {
		return err
	}
	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	gen := codegen.New(backend)
	if err := gen.Generate(prog, ModuleName); err != nil {
		return err
	}
	return gen.EmitObject(path, cfg.TargetTriple)
}

func (d *Driver) parse(source string) (*ast.Program, error) {
	lx := lexer.New(source)
	builder := ast.NewBuilder()
	p := parse.New(d.table, lx, builder)
	if err := p.Run(); err != nil {
		return nil, err
	}
	prog, err := builder.Program()
	if err != nil {
		return nil, err
	}
	return prog, nil
}

func newBackend(cfg config.Config) (codegen.Backend, error) {
	switch cfg.Backend {
	case config.BackendTextIR, "":
		return textir.New(), nil
	default:
		return nil, ferr.New(ferr.InternalGrammar, "unknown backend %q", cfg.Backend)
	}
}
