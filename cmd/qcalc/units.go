package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"qcalc/app/lang"
)

const unitsExample = `  # Every unit and prefix
  qcalc units

  # Units whose names mention "meter"
  qcalc units meter`

// UnitsOptions lists the session's units and prefixes.
type UnitsOptions struct {
	*globalOptions

	Filter       string
	PrefixesOnly bool
	UnitsOnly    bool
}

func newUnitsCommand(g *globalOptions) *cobra.Command {
	o := &UnitsOptions{globalOptions: g}

	cmd := &cobra.Command{
		Use:     "units [FILTER]",
		Short:   "List known units and prefixes",
		Long:    "List the units and prefixes of a session, optionally only those with a name containing FILTER.",
		Example: unitsExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(args); err != nil {
				return err
			}
			return o.Run()
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&o.PrefixesOnly, "prefixes", false, "List prefixes only")
	flags.BoolVar(&o.UnitsOnly, "units", false, "List units only")
	cmd.MarkFlagsMutuallyExclusive("prefixes", "units")
	return cmd
}

func (o *UnitsOptions) Complete(args []string) error {
	if len(args) > 0 {
		o.Filter = args[0]
	}
	return nil
}

func (o *UnitsOptions) Run() error {
	_, reg, _, err := o.session()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
	if !o.PrefixesOnly {
		fmt.Fprintln(w, "UNIT\tSYMBOLS\tVALUE\tDIMENSION")
		for _, u := range reg.Units() {
			if !o.matches(u.Names) {
				continue
			}
			value := lang.FormatQuantity(u.Value, reg)
			if u.Kind == lang.RootUnit {
				value = "(root)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Names.Name, symbols(u.Names), value, u.Value.Dim)
		}
	}
	if !o.PrefixesOnly && !o.UnitsOnly {
		fmt.Fprintln(w, "\t\t\t")
	}
	if !o.UnitsOnly {
		fmt.Fprintln(w, "PREFIX\tSYMBOLS\tSCALE\t")
		for _, p := range reg.Prefixes() {
			if !o.matches(p.Names) {
				continue
			}
			fmt.Fprintf(w, "%s-\t%s\t%s\t\n", p.Names.Name, symbols(p.Names), lang.FormatNumber(p.Scale))
		}
	}
	return w.Flush()
}

func (o *UnitsOptions) matches(n lang.Names) bool {
	if o.Filter == "" {
		return true
	}
	for _, name := range n.All() {
		if strings.Contains(name, o.Filter) {
			return true
		}
	}
	return false
}

// symbols renders the symbol and aliases of a definition, e.g.
// "m, meters, metre".
func symbols(n lang.Names) string {
	all := n.All()[1:]
	if len(all) == 0 {
		return "-"
	}
	return strings.Join(all, ", ")
}
