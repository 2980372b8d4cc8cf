// Package commands implements the zelus command line.
//
// Each subcommand is built by a function returning a *cobra.Command that
// shares one *AppContext with the root command:
//
//   - service: runs the reconciliation daemon
//   - check: validates the routes file against the kernel interfaces
//   - interfaces: lists kernel interfaces
//   - tables: lists routing table names
//   - settings: prints the effective settings
//
// Settings are read from the settings file, then ZELUS_* environment
// variables, then command line flags.
package commands
