/*
yygrammar is a console utility for grammars used by yydrive.
Usage is

	yygrammar list
	yygrammar dump [-o <file>] <name>
	yygrammar check <file>...

list prints names of bundled grammars;

dump writes bundled grammar as JSON or YAML (chosen by output file extension, JSON to stdout by default),
the result may be edited and used as YYDRIVE_GRAMMAR_FILE;

check loads grammar files and reports the first problem in each of them.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ava12/yydrive/grammar"
	"github.com/ava12/yydrive/grammars"
	"github.com/ava12/yydrive/parser"
)

type app struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "yygrammar",
		Short:         "Inspect and export yydrive grammars",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.AddCommand(a.listCommand(), a.dumpCommand(), a.checkCommand())
	return root
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print names of bundled grammars",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			for _, name := range grammars.Names() {
				fmt.Fprintln(a.stdout, name)
			}
		},
	}
}

func (a *app) dumpCommand() *cobra.Command {
	var outFileName string
	cmd := &cobra.Command{
		Use:   "dump <name>",
		Short: "Write bundled grammar as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			g, f := grammars.Lookup(args[0])
			if !f {
				return errors.Errorf("unknown grammar %q", args[0])
			}

			name := outFileName
			if name == "" {
				name = g.Name + ".json"
			}
			content, e := grammar.Dump(name, g)
			if e != nil {
				return errors.Wrapf(e, "cannot encode grammar %s", g.Name)
			}

			if outFileName == "" {
				_, e = a.stdout.Write(content)
				return e
			}
			return errors.Wrap(afero.WriteFile(a.fs, outFileName, content, 0o666), "cannot write grammar")
		},
	}
	cmd.Flags().StringVarP(&outFileName, "output", "o", "", "output file name, .yaml or .yml suffix selects YAML")
	return cmd
}

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Check that grammar files can be used by the parser",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			failed := 0
			for _, name := range args {
				if e := a.check(name); e != nil {
					fmt.Fprintf(a.stdout, "%s: %s\n", name, e)
					failed++
				} else {
					fmt.Fprintf(a.stdout, "%s: ok\n", name)
				}
			}
			if failed > 0 {
				return errors.Errorf("%d of %d grammars failed", failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) check(name string) error {
	data, e := afero.ReadFile(a.fs, name)
	if e != nil {
		return e
	}
	g, e := grammar.Load(name, data)
	if e == nil {
		_, e = parser.New(g)
	}
	return e
}

func (a *app) execute(args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)
	if e := root.Execute(); e != nil {
		fmt.Fprintln(a.stderr, "yygrammar: "+e.Error())
		return 1
	}
	return 0
}

func main() {
	a := &app{afero.NewOsFs(), os.Stdout, os.Stderr}
	os.Exit(a.execute(os.Args[1:]))
}
