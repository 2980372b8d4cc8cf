package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zelus-routing/zelus/src/internal/networking"
)

// interfaces returns the interfaces cobra command.
func interfaces(ctx *AppContext) (cmd *cobra.Command) {
	return &cobra.Command{
		Use:   "interfaces",
		Short: "Lists kernel interfaces and marks the monitored ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadAndValidateSettings(ctx, nil)
			if err != nil {
				return err
			}
			nl, err := ctx.NewNetlinker()
			if err != nil {
				return err
			}
			m, err := networking.NewInterfaceMap(nl, ctx.Logger)
			if err != nil {
				return err
			}

			monitored := resolveAll(settings.Interfaces, m.NameToID)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Index\tName\tMonitored\tAddresses")
			fmt.Fprintln(w, "-----\t----\t---------\t---------")
			for _, iface := range m.Interfaces() {
				addrs := make([]string, 0, len(iface.Addresses))
				for _, p := range iface.Addresses {
					addrs = append(addrs, p.String())
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", iface.ID, iface.Name, yesNo(monitored[iface.ID]), strings.Join(addrs, " "))
			}
			return w.Flush()
		},
	}
}

// resolveAll maps every resolvable name to its id, ignoring the rest.
func resolveAll(names []string, resolve func(string) (int, error)) map[int]bool {
	ids := make(map[int]bool, len(names))
	for _, n := range names {
		if id, err := resolve(n); err == nil {
			ids[id] = true
		}
	}
	return ids
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
