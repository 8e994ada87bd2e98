package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"qcalc/app/lang"
)

const runLong = `Execute files of qcalc statements in one session.

Each line is a definition or an expression. Definitions made by one file
are visible to the files after it. One result line is printed per
statement. Execution stops at the first failing statement unless
--keep-going is set; the exit status reflects the first failure.

A FILE of "-" reads standard input.`

const runExample = `  # Evaluate a worksheet
  qcalc run physics.qcalc

  # Report every failing line
  qcalc run --keep-going units.qcalc worksheet.qcalc`

// RunOptions executes statement files.
type RunOptions struct {
	*globalOptions

	KeepGoing bool
}

func newRunCommand(g *globalOptions) *cobra.Command {
	o := &RunOptions{globalOptions: g}

	cmd := &cobra.Command{
		Use:     "run FILE...",
		Short:   "Execute files of statements",
		Long:    runLong,
		Example: runExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.in = cmd.InOrStdin()
			return o.Run(args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&o.KeepGoing, "keep-going", false, "Continue past failing statements")
	return cmd
}

// Run executes every statement of files against a private copy of the
// session registry.
func (o *RunOptions) Run(files []string) error {
	_, base, logger, err := o.session()
	if err != nil {
		return err
	}
	reg := base.Clone()

	var first error
	for _, name := range files {
		src, err := o.read(name)
		if err != nil {
			return err
		}
		for i, line := range strings.Split(src, "\n") {
			stmt, err := lang.ParseLine(strings.TrimSuffix(line, "\r"))
			if err == nil && stmt == nil {
				continue
			}
			var res lang.Result
			if err == nil {
				res, err = lang.Exec(reg, stmt)
			}
			if err != nil {
				fmt.Fprintln(o.errOut, located(name, i+1, err))
				logger.Debug().Err(err).Str("file", name).Int("line", i+1).Msg("statement failed")
				if first == nil {
					first = err
				}
				if !o.KeepGoing {
					return &exitError{code: exitStatus(first), err: first}
				}
				continue
			}
			fmt.Fprintln(o.out, res)
		}
	}
	if first != nil {
		return &exitError{code: exitStatus(first), err: first}
	}
	return nil
}

func (o *RunOptions) read(name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(o.in)
		if err != nil {
			return "", fmt.Errorf("reading standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
