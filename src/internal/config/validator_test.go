package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(s *Settings)
		wantField string
	}{
		{name: "defaults are valid"},
		{name: "bad mode", modify: func(s *Settings) { s.Mode = "paranoid" }, wantField: "mode"},
		{name: "empty routes file", modify: func(s *Settings) { s.RoutesFile = "" }, wantField: "routes_file"},
		{name: "bad listen", modify: func(s *Settings) { s.MetricsListen = "9123" }, wantField: "metrics_listen"},
		{name: "empty listen disables api", modify: func(s *Settings) { s.MetricsListen = "" }},
		{name: "bad log format", modify: func(s *Settings) { s.LogFormat = "xml" }, wantField: "log_format"},
		{name: "empty interface", modify: func(s *Settings) { s.Interfaces = []string{"eth0", ""} }, wantField: "interfaces[1]"},
		{name: "duplicate table", modify: func(s *Settings) { s.Tables = []string{"main", "main"} }, wantField: "tables"},
		{name: "interface index", modify: func(s *Settings) { s.Interfaces = []string{"2", "wg0"} }},
		{name: "interface with space", modify: func(s *Settings) { s.Interfaces = []string{"eth 0"} }, wantField: "interfaces[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			if tt.modify != nil {
				tt.modify(s)
			}
			err := s.ValidateSettings()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantField, verrs[0].FieldPath)
		})
	}
}

func TestValidateRouteSpec(t *testing.T) {
	tests := []struct {
		name      string
		spec      RouteSpec
		wantField string
	}{
		{name: "minimal", spec: RouteSpec{OInterface: "eth0"}},
		{name: "full", spec: RouteSpec{
			Dst: "10.0.0.0", DstLen: intPtr(24), Tos: 16, Table: "vpn", Proto: "static",
			Gateway: "192.0.2.1", PrefSrc: "192.0.2.10", IInterface: "eth1", OInterface: "eth0",
		}},
		{name: "ipv6", spec: RouteSpec{Dst: "2001:db8::", DstLen: intPtr(64), Gateway: "fe80::1", OInterface: "eth0"}},
		{name: "missing ointerface", spec: RouteSpec{Dst: "10.0.0.0"}, wantField: "ointerface"},
		{name: "bad dst", spec: RouteSpec{Dst: "10.0.0", OInterface: "eth0"}, wantField: "dst"},
		{name: "dst_len too long", spec: RouteSpec{Dst: "10.0.0.0", DstLen: intPtr(33), OInterface: "eth0"}, wantField: "dst_len"},
		{name: "negative dst_len", spec: RouteSpec{DstLen: intPtr(-1), OInterface: "eth0"}, wantField: "dst_len"},
		{name: "src_len set", spec: RouteSpec{SrcLen: 8, OInterface: "eth0"}, wantField: "src_len"},
		{name: "tos out of range", spec: RouteSpec{Tos: 256, OInterface: "eth0"}, wantField: "tos"},
		{name: "gateway family", spec: RouteSpec{Dst: "10.0.0.0", Gateway: "2001:db8::1", OInterface: "eth0"}, wantField: "gateway"},
		{name: "bad prefsrc", spec: RouteSpec{PrefSrc: "eth0", OInterface: "eth0"}, wantField: "prefsrc"},
		{name: "ointerface too long", spec: RouteSpec{OInterface: "enp0s31f6-uplink0"}, wantField: "ointerface"},
		{name: "iinterface with slash", spec: RouteSpec{IInterface: "eth0/1", OInterface: "eth0"}, wantField: "iinterface"},
		{name: "ointerface alias label", spec: RouteSpec{OInterface: "eth0:1"}, wantField: "ointerface"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRouteSpec(tt.spec, "protected_routes.0")
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantField, verrs[0].FieldPath)
			assert.Equal(t, "protected_routes.0", verrs[0].ItemName)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{ItemName: "protected_routes.1", FieldPath: "dst", Message: "must be a valid IP address"},
		{FieldPath: "mode", Message: "field is required"},
	}

	assert.Equal(t, "validation failed with 2 error(s):\n"+
		"  1. [protected_routes.1] dst: must be a valid IP address\n"+
		"  2. mode: field is required\n", errs.Error())
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}

func TestRouteSpec_TableOrDefault(t *testing.T) {
	assert.Equal(t, "main", RouteSpec{}.TableOrDefault())
	assert.Equal(t, "vpn", RouteSpec{Table: "vpn"}.TableOrDefault())
}
