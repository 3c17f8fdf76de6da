package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/nibzard/todo-go/internal/config"
)

// configCommand prints the effective configuration and where each value came from.
func (a *app) configCommand(args []string) error {
	fs := a.newFlagSet("config")
	example := fs.Bool("example", false, "Print an example config file")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return userError(fmt.Errorf("unexpected arguments: %v", rest))
	}

	if *example {
		fmt.Fprint(a.out, config.ExampleConfig())
		return nil
	}

	fmt.Fprintln(a.out, "Config files:")
	if len(a.cws.Files) == 0 {
		fmt.Fprintln(a.out, "  (none)")
	}
	for _, f := range a.cws.Files {
		fmt.Fprintf(a.out, "  %s\n", f)
	}
	fmt.Fprintln(a.out)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE\tSOURCE")
	for _, field := range a.cws.Fields() {
		source := a.cws.Sources[field]
		if source == "" {
			source = config.SourceDefault
		}
		fmt.Fprintf(tw, "%s\t%v\t%s\n", field, a.cws.Value(field), source)
	}
	return tw.Flush()
}
