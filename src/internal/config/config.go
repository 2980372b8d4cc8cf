package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	zerrors "github.com/zelus-routing/zelus/src/internal/errors"
	"github.com/zelus-routing/zelus/src/internal/log"
	"github.com/zelus-routing/zelus/src/internal/utils"
)

// EnvPrefix prefixes the environment variables that override settings,
// e.g. ZELUS_MODE or ZELUS_INTERFACES=eth0,eth1.
const EnvPrefix = "ZELUS_"

// LoadSettings reads a TOML settings file on top of DefaultSettings.
// A missing file yields an error wrapping os.ErrNotExist.
func LoadSettings(settingsPath string) (*Settings, error) {
	settingsFile, err := utils.AbsPath(settingsPath)
	if err != nil {
		return nil, zerrors.NewConfigError("invalid settings path", err)
	}

	content, err := os.ReadFile(settingsFile)
	if err != nil {
		return nil, zerrors.NewConfigError(fmt.Sprintf("failed to read settings file %s", settingsFile), err)
	}

	settings := DefaultSettings()
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(settings); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			log.Errorf("%s", derr.String())
			return nil, zerrors.NewConfigError(fmt.Sprintf("failed to parse settings file at line %d, column %d", row, col), err)
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, zerrors.NewConfigError("unknown keys in settings file", errors.New(serr.String()))
		}
		return nil, zerrors.NewConfigError("failed to parse settings file", err)
	}

	settings._absSettingsPath = settingsFile
	log.Debugf("Settings file path: %s", settingsFile)

	return settings, nil
}

// ApplyEnv overrides settings from ZELUS_* variables found by lookup.
// List values are comma separated.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = SplitList(v)
		}
	}

	str("MODE", &s.Mode)
	list("INTERFACES", &s.Interfaces)
	list("TABLES", &s.Tables)
	str("ROUTES_FILE", &s.RoutesFile)
	str("HOSTNAME", &s.Hostname)
	str("RT_TABLES", &s.RtTables)
	str("METRICS_LISTEN", &s.MetricsListen)
	str("LOG_LEVEL", &s.LogLevel)
	str("LOG_FORMAT", &s.LogFormat)
}

// Normalize lower-cases enumerated values and fills in the hostname.
func (s *Settings) Normalize() {
	s.Mode = strings.ToLower(strings.TrimSpace(s.Mode))
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	s.LogFormat = strings.ToLower(strings.TrimSpace(s.LogFormat))
	if s.Hostname == "" {
		if h, err := os.Hostname(); err == nil {
			s.Hostname = h
		}
	}
}

// SerializeSettings renders the effective settings as TOML.
func (s *Settings) SerializeSettings() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return &buf, nil
}

// SplitList splits a comma separated list, dropping empty items.
func SplitList(v string) []string {
	var result []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
