// Package api serves the Prometheus exporter and a small read-only status API.
//
// Endpoints:
//
//	GET /metrics            Prometheus exposition
//	GET /api/v1/health      routes file and monitoring checks, 503 when unhealthy
//	GET /api/v1/status      mode, monitored interfaces and tables, reload state
//	GET /api/v1/routes      protected routes
//	GET /api/v1/interfaces  interfaces known at startup
//	GET /api/v1/tables      routing tables known at startup
//
// Successful responses wrap the payload in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Errors use:
//
//	{
//	  "error": {
//	    "code": "not_found",
//	    "message": "Human-readable error message"
//	  }
//	}
package api
