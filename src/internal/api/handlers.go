package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/zelus-routing/zelus/src/internal/engine"
	"github.com/zelus-routing/zelus/src/internal/networking"
	"github.com/zelus-routing/zelus/src/internal/route"
)

// Engine is the read-only view of the reconciliation engine served by the API.
// *engine.Engine implements it.
type Engine interface {
	Status() engine.Status
	ProtectedRoutes() []route.Route
	Interfaces() []networking.Interface
	Tables() []networking.Table
}

var _ Engine = (*engine.Engine)(nil)

// Handler serves the status endpoints.
type Handler struct {
	engine Engine
	logger logrus.FieldLogger
}

// NewHandler creates a handler backed by e.
func NewHandler(e Engine, logger logrus.FieldLogger) *Handler {
	return &Handler{engine: e, logger: logger}
}

// GetRoutes returns the protected routes.
// GET /api/v1/routes
func (h *Handler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	routes := h.engine.ProtectedRoutes()
	response := RoutesResponse{Routes: make([]RouteInfo, 0, len(routes))}
	for _, rt := range routes {
		response.Routes = append(response.Routes, RouteInfo{Route: rt, Summary: rt.String()})
	}
	writeJSONData(w, response)
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}
