// Package utils holds small path and file helpers shared by the config and
// networking packages.
//
//	abs := utils.GetAbsolutePath("routes.yaml", "/etc/zelus")
//	// abs == "/etc/zelus/routes.yaml"
package utils
