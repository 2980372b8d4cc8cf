package commands

import (
	"github.com/spf13/cobra"

	"github.com/zelus-routing/zelus/src/internal/api"
	"github.com/zelus-routing/zelus/src/internal/config"
)

// Root returns the root cobra command.
func Root(ctx *AppContext) (cmd *cobra.Command) {
	cmd = &cobra.Command{
		Use:           "zelus",
		Short:         "Keeps protected kernel routes in place",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       api.Version + " (commit " + api.Commit + ", built " + api.Date + ")",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx.SettingsExplicit = cmd.Flags().Changed("settings")
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&ctx.SettingsPath, "settings", "c", config.DefaultSettingsPath, "path to the settings file")
	flags.BoolVarP(&ctx.Verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&ctx.LogFormat, "log-format", "", "log format: text or json")

	cmd.SetOut(ctx.Out)
	cmd.AddCommand(service(ctx))
	cmd.AddCommand(check(ctx))
	cmd.AddCommand(interfaces(ctx))
	cmd.AddCommand(tables(ctx))
	cmd.AddCommand(settings(ctx))
	return
}
