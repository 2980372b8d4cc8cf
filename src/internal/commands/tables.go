package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zelus-routing/zelus/src/internal/networking"
)

// tables returns the tables cobra command.
func tables(ctx *AppContext) (cmd *cobra.Command) {
	return &cobra.Command{
		Use:   "tables",
		Short: "Lists routing table names and marks the monitored ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadAndValidateSettings(ctx, nil)
			if err != nil {
				return err
			}
			m, err := networking.LoadTableMap(settings.RtTables, ctx.Logger)
			if err != nil {
				return err
			}

			monitored := resolveAll(settings.Tables, m.NameToID)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tName\tMonitored")
			fmt.Fprintln(w, "--\t----\t---------")
			for _, t := range m.Tables() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Name, yesNo(monitored[t.ID]))
			}
			return w.Flush()
		},
	}
}
