package api

import (
	"github.com/zelus-routing/zelus/src/internal/engine"
	"github.com/zelus-routing/zelus/src/internal/networking"
	"github.com/zelus-routing/zelus/src/internal/route"
)

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// VersionInfo contains build version information.
type VersionInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// StatusResponse is the engine status plus build information.
type StatusResponse struct {
	Version VersionInfo `json:"version"`
	engine.Status
}

// RouteInfo is a protected route with its ip-route style summary.
type RouteInfo struct {
	route.Route
	Summary string `json:"summary"`
}

// RoutesResponse lists the protected routes.
type RoutesResponse struct {
	Routes []RouteInfo `json:"routes"`
}

// InterfaceInfo is a kernel interface and whether it is monitored.
type InterfaceInfo struct {
	networking.Interface
	Monitored bool `json:"monitored"`
}

// InterfacesResponse lists the interfaces known to the engine.
type InterfacesResponse struct {
	Interfaces []InterfaceInfo `json:"interfaces"`
}

// TableInfo is a routing table and whether it is monitored.
type TableInfo struct {
	networking.Table
	Monitored bool `json:"monitored"`
}

// TablesResponse lists the routing tables known to the engine.
type TablesResponse struct {
	Tables []TableInfo `json:"tables"`
}

// HealthCheckResponse contains the result of the health checks.
type HealthCheckResponse struct {
	Healthy bool                   `json:"healthy"`
	Checks  map[string]CheckResult `json:"checks"`
}

// CheckResult is the result of a single health check.
type CheckResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}
