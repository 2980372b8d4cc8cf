package api

import (
	"fmt"
	"net/http"
)

// CheckHealth reports whether the last routes file load succeeded and
// whether anything is being monitored. Unhealthy responses use 503.
// GET /api/v1/health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := h.engine.Status()

	response := HealthCheckResponse{
		Healthy: true,
		Checks:  make(map[string]CheckResult),
	}

	if status.LastReloadError != "" {
		response.Healthy = false
		response.Checks["routes_file"] = CheckResult{
			Passed:  false,
			Message: "Routes file failed to load: " + status.LastReloadError,
		}
	} else {
		response.Checks["routes_file"] = CheckResult{
			Passed:  true,
			Message: fmt.Sprintf("%d protected routes loaded", status.ProtectedRoutes),
		}
	}

	if len(status.Interfaces) == 0 || len(status.Tables) == 0 {
		response.Healthy = false
		response.Checks["monitoring"] = CheckResult{
			Passed:  false,
			Message: "No interfaces or no tables are monitored",
		}
	} else {
		response.Checks["monitoring"] = CheckResult{
			Passed:  true,
			Message: fmt.Sprintf("Monitoring %d interfaces in %d tables", len(status.Interfaces), len(status.Tables)),
		}
	}

	code := http.StatusOK
	if !response.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}
