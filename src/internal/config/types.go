package config

import (
	"path/filepath"

	"github.com/zelus-routing/zelus/src/internal/utils"
)

const (
	DefaultSettingsPath  = "/etc/zelus/zelus.toml"
	DefaultRoutesFile    = "/etc/zelus/routes.yaml"
	DefaultRtTablesPath  = "/etc/iproute2/rt_tables"
	DefaultMetricsListen = ":9123"
	DefaultMode          = "monitor"
	DefaultTable         = "main"
)

// Settings is the daemon configuration read from the TOML settings file.
type Settings struct {
	// Mode is the enforcement mode: monitor, enforce or strict (default: monitor).
	Mode string `toml:"mode" json:"mode" validate:"required,oneof=monitor enforce strict"`
	// Interfaces lists the monitored interfaces by name or index.
	Interfaces []string `toml:"interfaces" json:"interfaces" validate:"dive,required,ifname"`
	// Tables lists the monitored routing tables by name or id (default: ["main"]).
	Tables []string `toml:"tables" json:"tables" validate:"dive,required"`
	// RoutesFile is the protected routes template. Relative paths are resolved against the settings file directory.
	RoutesFile string `toml:"routes_file" json:"routes_file" validate:"required"`
	// Hostname labels exported metrics (default: the system hostname).
	Hostname string `toml:"hostname" json:"hostname"`
	// RtTables is the iproute2 routing table names file.
	RtTables string `toml:"rt_tables" json:"rt_tables" validate:"required"`
	// MetricsListen is the listen address of the metrics and status API; empty disables it.
	MetricsListen string `toml:"metrics_listen" json:"metrics_listen" validate:"hostport_or_empty"`
	// LogLevel is one of trace, debug, info, warn, error (default: info).
	LogLevel string `toml:"log_level" json:"log_level" validate:"oneof=trace debug info warn warning error"`
	// LogFormat is text or json (default: text).
	LogFormat string `toml:"log_format" json:"log_format" validate:"oneof=text json"`

	_absSettingsPath string
}

// RouteSpec is one entry of the protected_routes list. Every field except
// OInterface is optional.
type RouteSpec struct {
	Dst        string `yaml:"dst" json:"dst,omitempty" validate:"omitempty,ip"`
	DstLen     *int   `yaml:"dst_len" json:"dst_len,omitempty" validate:"omitempty,min=0,max=128"`
	SrcLen     int    `yaml:"src_len" json:"src_len,omitempty" validate:"eq=0"`
	Tos        int    `yaml:"tos" json:"tos,omitempty" validate:"min=0,max=255"`
	Table      string `yaml:"table" json:"table,omitempty"`
	Proto      string `yaml:"proto" json:"proto,omitempty"`
	Scope      string `yaml:"scope" json:"scope,omitempty"`
	Type       string `yaml:"type" json:"type,omitempty"`
	Gateway    string `yaml:"gateway" json:"gateway,omitempty" validate:"omitempty,ip"`
	PrefSrc    string `yaml:"prefsrc" json:"prefsrc,omitempty" validate:"omitempty,ip"`
	IInterface string `yaml:"iinterface" json:"iinterface,omitempty" validate:"omitempty,ifname"`
	OInterface string `yaml:"ointerface" json:"ointerface" validate:"required,ifname"`
}

// TableOrDefault returns the entry's table, or main when none is set.
func (s RouteSpec) TableOrDefault() string {
	if s.Table == "" {
		return DefaultTable
	}
	return s.Table
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() *Settings {
	return &Settings{
		Mode:          DefaultMode,
		Tables:        []string{DefaultTable},
		RoutesFile:    DefaultRoutesFile,
		RtTables:      DefaultRtTablesPath,
		MetricsListen: DefaultMetricsListen,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// GetSettingsDir returns the directory of the settings file, or "" when the
// settings were not loaded from a file.
func (s *Settings) GetSettingsDir() string {
	if s._absSettingsPath == "" {
		return ""
	}
	return filepath.Dir(s._absSettingsPath)
}

// GetAbsRoutesFile resolves RoutesFile against the settings directory.
func (s *Settings) GetAbsRoutesFile() string {
	if dir := s.GetSettingsDir(); dir != "" {
		return utils.GetAbsolutePath(s.RoutesFile, dir)
	}
	if abs, err := utils.AbsPath(s.RoutesFile); err == nil {
		return abs
	}
	return s.RoutesFile
}
