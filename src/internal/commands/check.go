package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zelus-routing/zelus/src/internal/engine"
)

// check returns the check cobra command.
func check(ctx *AppContext) (cmd *cobra.Command) {
	f := &settingsFlags{}
	cmd = &cobra.Command{
		Use:   "check",
		Short: "Validates the routes file without changing any route",
		Long: `Check renders the routes file, resolves every entry against the kernel
interfaces and the routing table names, and prints which routes would be
protected. It exits non-zero when an entry is rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadAndValidateSettings(ctx, f.apply(cmd))
			if err != nil {
				return err
			}
			opts, err := engineOptions(settings)
			if err != nil {
				return err
			}
			nl, err := ctx.NewNetlinker()
			if err != nil {
				return err
			}

			result, err := engine.Check(opts, engine.Dependencies{Netlinker: nl, Logger: ctx.Logger})
			if err != nil {
				return err
			}
			printCheckResult(cmd, result)

			if n := len(result.Rejected); n > 0 {
				return fmt.Errorf("%d of %d entries rejected", n, n+len(result.Accepted))
			}
			return nil
		},
	}
	f.register(cmd)
	return
}

func printCheckResult(cmd *cobra.Command, result *engine.CheckResult) {
	out := cmd.OutOrStdout()
	status := result.Status

	fmt.Fprintf(out, "Routes file: %s (md5 %s)\n", status.RoutesFile, result.Checksum)
	fmt.Fprintf(out, "Mode:        %s\n", status.Mode)
	fmt.Fprintf(out, "Interfaces:  %s\n", monitoredNames(status.Interfaces))
	fmt.Fprintf(out, "Tables:      %s\n", monitoredNames(status.Tables))

	fmt.Fprintf(out, "\nProtected routes (%d):\n", len(result.Accepted))
	for _, r := range result.Accepted {
		fmt.Fprintf(out, "  %s\n", r)
	}
	if len(result.Rejected) > 0 {
		fmt.Fprintf(out, "\nRejected entries (%d):\n", len(result.Rejected))
		for _, rej := range result.Rejected {
			fmt.Fprintf(out, "  %s: %v\n", rej.Entry, rej.Err)
		}
	}
}

func monitoredNames(list []engine.Monitored) string {
	if len(list) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(list))
	for _, m := range list {
		names = append(names, fmt.Sprintf("%s(%d)", m.Name, m.ID))
	}
	return strings.Join(names, ", ")
}
