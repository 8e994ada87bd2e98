package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"qcalc/app/lang"
)

const rootLong = `Evaluate an expression over physical quantities.

The arguments are joined with spaces and read as one expression. Numbers
may carry units ("3 km", "9.81 m/s^2"), units combine by juxtaposition,
and "a -> b" converts a into the unit expression b.`

const rootExample = `  # Convert between units
  qcalc 3 km -> mi

  # Quote expressions the shell would expand
  qcalc '(1 m)^2 -> ft^2'

  # Leading minus signs need a separator
  qcalc -- -3 ft -> m`

// globalOptions holds the flags shared by every qcalc command.
type globalOptions struct {
	configPath  string
	prelude     string
	definitions []string
	logLevel    string

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func (o *globalOptions) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.configPath, "config", "", "Path to the config file (default $XDG_CONFIG_HOME/qcalc/config.yaml)")
	flags.StringVar(&o.prelude, "prelude", "", "Replace the bundled prelude with the definitions in this file")
	flags.StringArrayVarP(&o.definitions, "define", "D", nil, "Extra definition statement applied after the prelude (repeatable)")
	flags.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the config file and applies flag overrides.
func (o *globalOptions) loadConfig() (*Config, error) {
	path, required := o.configPath, true
	if path == "" {
		path, required = DefaultConfigPath(), false
	}
	cfg, err := LoadConfig(path, required)
	if err != nil {
		return nil, err
	}
	if o.prelude != "" {
		cfg.Prelude = o.prelude
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	cfg.Definitions = append(cfg.Definitions, o.definitions...)
	return cfg, nil
}

// session loads the config and builds its registry.
func (o *globalOptions) session() (*Config, *lang.Registry, zerolog.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	logger := newLogger(cfg.LogLevel, o.errOut)
	reg, err := cfg.Registry()
	if err != nil {
		return nil, nil, logger, err
	}
	logger.Debug().
		Int("units", len(reg.Units())).
		Int("prefixes", len(reg.Prefixes())).
		Int("definitions", len(cfg.Definitions)).
		Msg("registry loaded")
	return cfg, reg, logger, nil
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	o := &globalOptions{out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:           "qcalc EXPR...",
		Short:         "Calculator for physical quantities",
		Long:          rootLong,
		Example:       rootExample,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return o.calc(strings.Join(args, " "))
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	o.addFlags(cmd.PersistentFlags())
	// Everything after the first word belongs to the expression, "->"
	// included.
	cmd.Flags().SetInterspersed(false)

	cmd.AddCommand(newRunCommand(o))
	cmd.AddCommand(newUnitsCommand(o))
	cmd.AddCommand(newServeCommand(o))
	return cmd
}

// calc evaluates a single expression and prints it the way it was read
// along with its value.
func (o *globalOptions) calc(src string) error {
	_, reg, logger, err := o.session()
	if err != nil {
		return err
	}
	node, err := lang.ParseExpr(src)
	if err != nil {
		return reportEngineError(o.errOut, err)
	}
	res, err := lang.Exec(reg, &lang.ExprStmt{Expr: node})
	if err != nil {
		logger.Debug().Err(err).Str("expr", src).Msg("evaluation failed")
		return reportEngineError(o.errOut, err)
	}
	fmt.Fprintf(o.out, "\n%s\n\n  = %s\n\n", lang.Format(node), res)
	return nil
}

// exitStatus maps engine failures to process exit codes: 1 for input that
// does not parse, 2 for everything that parses but cannot be computed.
func exitStatus(err error) int {
	kind, ok := lang.KindOf(err)
	if !ok || kind == lang.SyntaxError {
		return 1
	}
	return 2
}

func reportEngineError(w io.Writer, err error) error {
	if _, ok := lang.KindOf(err); !ok {
		return err
	}
	code := exitStatus(err)
	if code == 1 {
		fmt.Fprintf(w, "SYNTAX ERROR:\n%v\n", err)
	} else {
		fmt.Fprintf(w, "\nCALCULATION ERROR: %v\n\n", err)
	}
	return &exitError{code: code, err: err}
}

// located renders an engine error against a line of a named source.
func located(name string, line int, err error) string {
	var ee *lang.EvalError
	if !errors.As(err, &ee) {
		return fmt.Sprintf("%s:%d: %v", name, line, err)
	}
	col := 1
	if ee.Pos.IsValid() {
		col = ee.Pos.Col
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", name, line, col, ee.Kind, ee.Msg)
}
