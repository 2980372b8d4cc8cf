// Package log provides leveled logging for zelus on top of logrus.
//
// The CLI uses the package-level helpers, which write to a process-wide
// logger. Long-lived components (the reconciliation engine, the route
// builder, the symbol resolvers) take a logrus.FieldLogger in their
// constructors instead, so tests can capture or discard their output.
//
// # Log Levels
//
//   - DEBUG: Detailed diagnostic information (only shown in verbose mode)
//   - INFO: General informational messages
//   - WARN: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures. Entries tagged with Critical carry
//     critical=true and report conditions that disable route protection.
//
// # Example Usage
//
//	logger := log.New(os.Stdout)
//	if err := log.Configure(logger, "debug", log.FormatJSON); err != nil {
//	    log.Fatalf("Invalid logging settings: %v", err)
//	}
//	log.Critical(logger).WithError(err).Error("Failed to load routes file")
package log
