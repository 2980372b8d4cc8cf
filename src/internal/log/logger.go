package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// CriticalField marks entries that report a condition the operator must act on,
// such as a routes file that could not be loaded.
const CriticalField = "critical"

var (
	std         = New(os.Stdout)
	logPrefixes = map[logrus.Level]string{
		logrus.TraceLevel: "[TRC]",
		logrus.DebugLevel: "[DBG]",
		logrus.InfoLevel:  "[INF]",
		logrus.WarnLevel:  "[WRN]",
		logrus.ErrorLevel: "[ERR]",
		logrus.FatalLevel: "[FTL]",
		logrus.PanicLevel: "[PNC]",
	}
	logColors = map[logrus.Level]string{
		logrus.TraceLevel: "\033[37m", // White
		logrus.DebugLevel: "\033[37m", // White
		logrus.InfoLevel:  "\033[36m", // Cyan
		logrus.WarnLevel:  "\033[33m", // Yellow
		logrus.ErrorLevel: "\033[31m", // Red
		logrus.FatalLevel: "\033[31m", // Red
		logrus.PanicLevel: "\033[31m", // Red
	}
)

// PrefixFormatter renders entries as "[INF] message key=value ...".
type PrefixFormatter struct {
	// DisableColors drops the ANSI escape codes around the level prefix.
	DisableColors bool
}

// Format implements logrus.Formatter.
func (f *PrefixFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	prefix := logPrefixes[entry.Level]
	if !f.DisableColors {
		prefix = logColors[entry.Level] + prefix + "\033[0m"
	}
	b.WriteString(prefix)
	b.WriteByte(' ')
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')

	return b.Bytes(), nil
}

// New creates a logger writing prefixed text to w at info level.
func New(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&PrefixFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Configure applies a level name and a format name to l.
func Configure(l *logrus.Logger, level, format string) error {
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		l.SetLevel(lvl)
	}

	switch format {
	case "", FormatText:
		l.SetFormatter(&PrefixFormatter{})
	case FormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

// Standard returns the process-wide logger used by the CLI.
func Standard() *logrus.Logger {
	return std
}

// Critical tags an entry as critical.
func Critical(l logrus.FieldLogger) *logrus.Entry {
	return l.WithField(CriticalField, true)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetVerbose sets the logging verbosity. If true, debug messages are displayed.
func SetVerbose(v bool) {
	if v {
		std.SetLevel(logrus.DebugLevel)
	} else {
		std.SetLevel(logrus.InfoLevel)
	}
}

// IsVerbose returns true if verbose logging is enabled.
func IsVerbose() bool {
	return std.IsLevelEnabled(logrus.DebugLevel)
}

// Debugf logs a debug message if verbose is true.
func Debugf(format string, args ...interface{}) {
	std.Debugf(format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...interface{}) {
	std.Infof(format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...interface{}) {
	std.Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	std.Errorf(format, args...)
}

// Fatalf logs an error message and exits the program.
func Fatalf(format string, args ...interface{}) {
	std.Fatalf(format, args...)
}
