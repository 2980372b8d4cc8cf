package commands

import (
	"github.com/spf13/cobra"
)

// settings returns the settings cobra command.
func settings(ctx *AppContext) (cmd *cobra.Command) {
	f := &settingsFlags{}
	cmd = &cobra.Command{
		Use:   "settings",
		Short: "Prints the effective settings as TOML",
		Long: `Settings prints the settings after applying the settings file, the ZELUS_*
environment variables and the command line flags, in that order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadAndValidateSettings(ctx, f.apply(cmd))
			if err != nil {
				return err
			}
			buf, err := s.SerializeSettings()
			if err != nil {
				return err
			}
			_, err = buf.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	f.register(cmd)
	return
}
