// Package config handles the settings file and the protected routes file.
//
// Settings are read from TOML, overridden by ZELUS_* environment variables
// and command line flags, and validated with go-playground/validator.
//
// The protected routes file is a template. Tags such as
// {{ interfaces.eth0.addresses.0 }} are replaced with values from the
// interface map before the result is parsed as YAML:
//
//	protected_routes:
//	  - dst: 10.0.0.0
//	    dst_len: 24
//	    ointerface: eth0
//	  - dst: 192.0.2.0
//	    dst_len: 24
//	    gateway: 198.51.100.1
//	    prefsrc: "{{ interfaces.eth1.addresses.0 }}"
//	    ointerface: eth1
//	    table: vpn
//
// # Example Usage
//
//	settings, err := config.LoadSettings("/etc/zelus/zelus.toml")
//	if err != nil {
//	    return err
//	}
//	specs, err := config.LoadProtectedRoutes(settings.GetAbsRoutesFile(), data)
//
// A file that cannot be read, rendered or parsed fails as a whole. Problems
// with a single entry are reported by ValidateRouteSpec so the caller can
// skip just that entry.
package config
