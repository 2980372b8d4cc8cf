package api

import (
	"net/http"
)

// GetInterfaces returns the interfaces known at startup, flagging the
// monitored ones.
// GET /api/v1/interfaces
func (h *Handler) GetInterfaces(w http.ResponseWriter, r *http.Request) {
	monitored := make(map[int]bool)
	for _, m := range h.engine.Status().Interfaces {
		monitored[m.ID] = true
	}

	interfaces := h.engine.Interfaces()
	response := InterfacesResponse{Interfaces: make([]InterfaceInfo, 0, len(interfaces))}
	for _, iface := range interfaces {
		response.Interfaces = append(response.Interfaces, InterfaceInfo{Interface: iface, Monitored: monitored[iface.ID]})
	}
	writeJSONData(w, response)
}

// GetTables returns the routing tables known at startup.
// GET /api/v1/tables
func (h *Handler) GetTables(w http.ResponseWriter, r *http.Request) {
	monitored := make(map[int]bool)
	for _, m := range h.engine.Status().Tables {
		monitored[m.ID] = true
	}

	tables := h.engine.Tables()
	response := TablesResponse{Tables: make([]TableInfo, 0, len(tables))}
	for _, t := range tables {
		response.Tables = append(response.Tables, TableInfo{Table: t, Monitored: monitored[t.ID]})
	}
	writeJSONData(w, response)
}
