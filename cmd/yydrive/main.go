/*
yydrive parses standard input with a configured grammar and reports syntax errors to standard error.
Usage is

	yydrive [args...]

Arguments are not interpreted, they are passed to the parse driver verbatim.

Settings are read from the file named by YYDRIVE_CONFIG (or ./yydrive.toml if it exists)
and from YYDRIVE_* environment variables: MODE (basic, status-only, located), GRAMMAR
(a bundled grammar name), GRAMMAR_FILE (a JSON or YAML grammar), VERBOSE, RECOVER,
MAX_ERRORS, COLOR (never, auto, always), LOG_LEVEL, and LOG_FILE.

Exit code is 0 unless reporting mode is status-only and input has errors,
or the driver cannot be set up (exit code 2).
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava12/yydrive/driver"
	"github.com/ava12/yydrive/grammar"
	"github.com/ava12/yydrive/grammars"
	"github.com/ava12/yydrive/internal/config"
	"github.com/ava12/yydrive/internal/logging"
	"github.com/ava12/yydrive/parser"
)

const setupFailed = 2

const sourceName = "stdin"

type app struct {
	fs         afero.Fs
	getenv     func(string) string
	stdin      io.Reader
	stderr     io.Writer
	isTerminal func() bool
}

func (a *app) command(code *int) *cobra.Command {
	return &cobra.Command{
		Use:                "yydrive [args...]",
		Short:              "Parse standard input and report syntax errors",
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(_ *cobra.Command, args []string) (e error) {
			*code, e = a.run(args)
			return e
		},
	}
}

// execute returns process exit code.
func (a *app) execute(args []string) int {
	code := 0
	cmd := a.command(&code)
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stderr)
	cmd.SetErr(a.stderr)
	if e := cmd.Execute(); e != nil {
		fmt.Fprintln(a.stderr, "yydrive: "+e.Error())
		return setupFailed
	}
	return code
}

func (a *app) run(args []string) (int, error) {
	cfg, e := config.Load(a.fs, a.getenv)
	if e != nil {
		return setupFailed, e
	}

	logger, closeLog, e := logging.New(a.fs, cfg.LogLevel, cfg.LogFile, a.stderr)
	if e != nil {
		return setupFailed, e
	}
	defer func() {
		_ = logger.Sync()
		_ = closeLog()
	}()
	if cfg.Source != "" {
		logger.Debug("configuration loaded", zap.String("file", cfg.Source))
	}

	d, e := a.driver(cfg, logger)
	if e != nil {
		logger.Error("setup failed", zap.Error(e))
		return setupFailed, e
	}

	code, e := d.Run(args)
	if e != nil {
		return setupFailed, e
	}
	return code, nil
}

func (a *app) driver(cfg *config.Config, logger *zap.Logger) (*driver.Driver, error) {
	mode, e := driver.ParseMode(cfg.Mode)
	if e != nil {
		return nil, e
	}

	g, e := a.grammar(cfg)
	if e != nil {
		return nil, e
	}
	p, e := parser.New(g)
	if e != nil {
		return nil, errors.Wrapf(e, "grammar %s", g.Name)
	}
	logger.Debug("grammar ready", zap.String("grammar", g.Name))

	opts := parser.Options{
		Verbose:   cfg.Verbose,
		Recover:   cfg.Recover,
		MaxErrors: cfg.MaxErrors,
	}
	return driver.New(
		driver.NewGrammarParser(p, a.stdin, sourceName, opts),
		driver.WithMode(mode),
		driver.WithStderr(a.stderr),
		driver.WithLogger(logger),
		driver.WithColor(a.useColor(cfg.Color)),
	), nil
}

func (a *app) grammar(cfg *config.Config) (*grammar.Grammar, error) {
	if cfg.GrammarFile != "" {
		data, e := afero.ReadFile(a.fs, cfg.GrammarFile)
		if e != nil {
			return nil, errors.Wrap(e, "cannot read grammar file")
		}
		return grammar.Load(cfg.GrammarFile, data)
	}

	g, f := grammars.Lookup(cfg.Grammar)
	if !f {
		return nil, errors.Errorf("unknown grammar %q, bundled grammars are: %s", cfg.Grammar, strings.Join(grammars.Names(), ", "))
	}
	return g, nil
}

func (a *app) useColor(setting string) bool {
	switch strings.ToLower(setting) {
	case config.ColorAlways:
		return true
	case config.ColorAuto:
		return a.isTerminal()
	default:
		return false
	}
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func main() {
	a := &app{
		fs:         afero.NewOsFs(),
		getenv:     os.Getenv,
		stdin:      os.Stdin,
		stderr:     os.Stderr,
		isTerminal: stderrIsTerminal,
	}
	os.Exit(a.execute(os.Args[1:]))
}
