/*
Minic compiles a single source file written in the small imperative language
described by the compiler's built-in grammar, emitting either the configured
Backend's textual IR or, with -emit-obj, a host object file.

Usage:

	minic [-i FILE] [-o FILE] [flags]
	minic repl
	minic serve [flags]

The flags are:

	-i, --in FILE
		Source file to compile. Defaults to "input.txt".

	-o, --out FILE
		Write the backend's rendered textual IR here. Defaults to
		"output.ll"; an empty value prints the IR to stdout instead.

	-c, --config FILE
		TOML configuration file (see internal/config). Defaults to
		"minic.toml" in the current directory if present.

	--dump-grammar
		Print the compiled grammar's productions and exit without compiling.

	--dump-table
		Print the compiled LL(1) parsing table and exit without compiling.

	--dump-tokens
		Print the lexer's token stream for -in and exit without compiling.

	--no-cache
		Disable both the build cache and the parser table cache for this run.

	--emit-obj PATH
		In addition to writing IR, write a host object file to PATH using
		the configured backend's target triple.

Two subcommands replace the usual flag-driven compile:

	repl
		Start an interactive shell for exploring the lexer and grammar.

	serve
		Start the bearer-token authenticated HTTP compile service.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/minic/internal/config"
	"github.com/dekarrin/minic/internal/driver"
	"github.com/dekarrin/minic/internal/ferr"
	"github.com/dekarrin/minic/internal/grammar"
	"github.com/dekarrin/minic/internal/httpapi"
	"github.com/dekarrin/minic/internal/lexer"
	"github.com/dekarrin/minic/internal/replshell"
	"github.com/dekarrin/minic/internal/sourceio"
	"github.com/dekarrin/minic/internal/tableprint"
)

const (
	ExitSuccess      = 0
	ExitUsageError   = 1
	ExitCompileError = 1
	ExitInitError    = 1
)

var (
	inFile      = pflag.StringP("in", "i", "input.txt", "Source file to compile")
	outFile     = pflag.StringP("out", "o", "output.ll", "Write rendered IR here (empty: stdout)")
	configFile  = pflag.StringP("config", "c", "minic.toml", "TOML configuration file")
	dumpGrammar = pflag.Bool("dump-grammar", false, "Print the grammar's productions and exit")
	dumpTable   = pflag.Bool("dump-table", false, "Print the compiled LL(1) table and exit")
	dumpTokens  = pflag.Bool("dump-tokens", false, "Print the lexer's token stream and exit")
	noCache     = pflag.Bool("no-cache", false, "Disable the build and table caches for this run")
	emitObj     = pflag.String("emit-obj", "", "Write a host object file to this path")
	listenAddr  = pflag.String("listen", ":8080", "Address for 'minic serve' to listen on")
)

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()

	args := pflag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "repl":
			return runRepl()
		case "serve":
			return runServe()
		default:
			fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", args[0])
			return ExitUsageError
		}
	}

	return runCompile()
}

func loadConfig() config.Config {
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(ExitInitError)
	}
	if *noCache {
		cfg.Cache.Enabled = false
	}
	return cfg
}

func runCompile() int {
	cfg := loadConfig()

	d, err := driver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitInitError
	}
	defer d.Close()

	if *dumpGrammar {
		fmt.Print(tableprint.Grammar(d.Grammar()))
		return ExitSuccess
	}
	if *dumpTable {
		fmt.Print(tableprint.Table(d.Table()))
		return ExitSuccess
	}

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "ERROR: --in is required")
		return ExitUsageError
	}

	src, err := sourceio.Read(*inFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitInitError
	}

	if *dumpTokens {
		return dumpTokensOf(src)
	}

	ctx := context.Background()

	if *emitObj != "" {
		if err := d.EmitObject(src, *emitObj, cfg); err != nil {
			return reportCompileError(err)
		}
	}

	output, err := d.CompileText(ctx, src, cfg)
	if err != nil {
		return reportCompileError(err)
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, []byte(output), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			return ExitInitError
		}
	} else {
		fmt.Print(output)
	}

	return ExitSuccess
}

func dumpTokensOf(src string) int {
	lx := lexer.New(src)
	toks, err := lx.All()
	if err != nil {
		return reportCompileError(err)
	}
	for _, t := range toks {
		fmt.Println(t.String())
	}
	return ExitSuccess
}

func reportCompileError(err error) int {
	if ferror, ok := err.(*ferr.Error); ok {
		fmt.Fprintf(os.Stderr, "%s\n", ferror.Error())
	} else {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
	}
	return ExitCompileError
}

func runRepl() int {
	cfg := loadConfig()
	d, err := driver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitInitError
	}
	defer d.Close()

	a := grammar.Analyze(d.Grammar())
	sh, err := replshell.New(d.Grammar(), a, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitInitError
	}
	defer sh.Close()

	if err := sh.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitCompileError
	}
	return ExitSuccess
}

func runServe() int {
	cfg := loadConfig()
	d, err := driver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitInitError
	}
	defer d.Close()

	api := &httpapi.API{
		Compiler: d,
		SignKey:  signKeyFromEnv(),
	}

	fmt.Fprintf(os.Stderr, "minic serve: listening on %s\n", *listenAddr)
	if err := http.ListenAndServe(*listenAddr, api.Router()); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitInitError
	}
	return ExitSuccess
}

func signKeyFromEnv() []byte {
	if key := os.Getenv("MINIC_SIGN_KEY"); key != "" {
		return []byte(key)
	}
	return []byte("minic-dev-key-change-me")
}
