package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasi-trampoline-bindgen/errors"
	"github.com/wippyai/wasi-trampoline-bindgen/hooks"
	"github.com/wippyai/wasi-trampoline-bindgen/idl"
	"github.com/wippyai/wasi-trampoline-bindgen/idl/witx"
	"github.com/wippyai/wasi-trampoline-bindgen/idl/wittext"
	"github.com/wippyai/wasi-trampoline-bindgen/trampoline"
)

type config struct {
	inputs      []string
	output      string
	format      string
	hooks       hooks.Set
	variant     trampoline.AbiVariant
	verbose     bool
	interactive bool
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*errors.Error)
			if !ok {
				panic(r)
			}
			fmt.Fprintf(stderr, "fatal: %v\n", e)
			code = 2
		}
	}()

	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer func() { _ = log.Sync() }()
		witx.SetLogger(log.Named("witx"))
		wittext.SetLogger(log.Named("wittext"))
		trampoline.SetLogger(log.Named("trampoline"))
	}

	if cfg.interactive {
		if !isTerminal(os.Stdout) {
			fmt.Fprintln(stderr, "Error: -i requires a terminal")
			return 1
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := run(cfg, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("wasi-trampoline-bindgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := &config{}
	fs.TextVar(&cfg.variant, "abi", trampoline.Latest, "ABI variant of the hook names (legacy or latest)")
	fs.StringVar(&cfg.output, "o", "", "Output C file (default stdout)")
	fs.StringVar(&cfg.format, "format", "auto", "Input format: auto, witx or wit")
	hookList := fs.String("hooks", "", "Comma-separated hook functions (default: the WASI filesystem set)")
	fs.BoolVar(&cfg.verbose, "v", false, "Verbose debug logging")
	fs.BoolVar(&cfg.interactive, "i", false, "Interactive preview with TUI")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: wasi-trampoline-bindgen [flags] <file.witx|file.wit>...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse flags")
	}

	cfg.inputs = fs.Args()
	if len(cfg.inputs) == 0 {
		fs.Usage()
		return nil, errors.InvalidInput(errors.PhaseConfig, "no input files")
	}

	switch cfg.format {
	case "auto":
		format, err := detectFormat(cfg.inputs)
		if err != nil {
			return nil, err
		}
		cfg.format = format
	case "witx", "wit":
	default:
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(cfg.format).
			Detail("unknown format %q", cfg.format).
			Build()
	}

	cfg.hooks = hooks.Default()
	if *hookList != "" {
		cfg.hooks = hooks.ParseList(*hookList)
		if len(cfg.hooks) == 0 {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Value(*hookList).
				Detail("no hook functions in -hooks %q", *hookList).
				Build()
		}
	}
	return cfg, nil
}

// detectFormat picks the loader from the input extensions, which must agree.
func detectFormat(paths []string) (string, error) {
	format := ""
	for _, p := range paths {
		var f string
		switch strings.ToLower(filepath.Ext(p)) {
		case ".witx":
			f = "witx"
		case ".wit":
			f = "wit"
		default:
			return "", errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Value(p).
				Detail("cannot infer format of %s, use -format", p).
				Build()
		}
		if format != "" && f != format {
			return "", errors.InvalidInput(errors.PhaseConfig, "inputs mix .witx and .wit files")
		}
		format = f
	}
	return format, nil
}

func loadDocument(cfg *config) (*idl.Document, error) {
	if cfg.format == "wit" {
		return wittext.Load(cfg.inputs...)
	}
	return witx.Load(cfg.inputs...)
}

func run(cfg *config, stdout, stderr io.Writer) error {
	doc, err := loadDocument(cfg)
	if err != nil {
		return err
	}

	src := trampoline.New(cfg.hooks.Contains).Generate(doc, cfg.variant)

	if cfg.output == "" {
		_, err := io.WriteString(stdout, src)
		return err
	}
	if err := os.WriteFile(cfg.output, []byte(src), 0o644); err != nil {
		return errors.Wrap(errors.PhaseWrite, errors.KindInvalidData, err, "write "+cfg.output)
	}
	if f, ok := stderr.(*os.File); ok && isTerminal(f) {
		fmt.Fprintf(stderr, "Wrote %s (%d bytes, abi %s)\n", cfg.output, len(src), cfg.variant)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
