package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/zelus-routing/zelus/src/internal/config"
	"github.com/zelus-routing/zelus/src/internal/engine"
	zerrors "github.com/zelus-routing/zelus/src/internal/errors"
	"github.com/zelus-routing/zelus/src/internal/log"
	"github.com/zelus-routing/zelus/src/internal/networking"
)

// AppContext carries global flags and process-wide handles to every command.
type AppContext struct {
	SettingsPath string
	// SettingsExplicit is set when --settings was given; a missing file is
	// then an error instead of falling back to defaults.
	SettingsExplicit bool
	Verbose          bool
	LogFormat        string

	Logger *logrus.Logger
	Out    io.Writer
	// Getenv looks up ZELUS_* overrides.
	Getenv func(string) (string, bool)
	// NewNetlinker opens the kernel handle.
	NewNetlinker func() (networking.Netlinker, error)
}

// NewAppContext returns a context bound to the real kernel, environment and stdout.
func NewAppContext() *AppContext {
	return &AppContext{
		SettingsPath: config.DefaultSettingsPath,
		Logger:       log.Standard(),
		Out:          os.Stdout,
		Getenv:       os.LookupEnv,
		NewNetlinker: func() (networking.Netlinker, error) {
			return networking.NewNetlinker()
		},
	}
}

// loadAndValidateSettings reads the settings file, applies environment and
// flag overrides, validates the result and configures the logger from it.
func loadAndValidateSettings(ctx *AppContext, overrides func(*config.Settings)) (*config.Settings, error) {
	settings, err := config.LoadSettings(ctx.SettingsPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || ctx.SettingsExplicit {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		ctx.Logger.WithField("path", ctx.SettingsPath).Debug("Settings file not found, using defaults")
		settings = config.DefaultSettings()
	}

	settings.ApplyEnv(ctx.Getenv)
	if overrides != nil {
		overrides(settings)
	}
	if ctx.Verbose {
		settings.LogLevel = "debug"
	}
	if ctx.LogFormat != "" {
		settings.LogFormat = ctx.LogFormat
	}
	settings.Normalize()

	if err := settings.ValidateSettings(); err != nil {
		return nil, zerrors.NewValidationError("settings validation failed", err)
	}
	if err := log.Configure(ctx.Logger, settings.LogLevel, settings.LogFormat); err != nil {
		return nil, err
	}
	return settings, nil
}

// engineOptions maps validated settings to engine options.
func engineOptions(settings *config.Settings) (engine.Options, error) {
	mode, err := engine.ParseMode(settings.Mode)
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		Mode:       mode,
		Interfaces: settings.Interfaces,
		Tables:     settings.Tables,
		RoutesFile: settings.GetAbsRoutesFile(),
		RtTables:   settings.RtTables,
		Hostname:   settings.Hostname,
	}, nil
}
