package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zelus-routing/zelus/src/internal/engine"
	"github.com/zelus-routing/zelus/src/internal/log"
	"github.com/zelus-routing/zelus/src/internal/metrics"
	"github.com/zelus-routing/zelus/src/internal/networking"
	"github.com/zelus-routing/zelus/src/internal/route"
)

type stubEngine struct {
	status     engine.Status
	routes     []route.Route
	interfaces []networking.Interface
	tables     []networking.Table
}

func (s *stubEngine) Status() engine.Status { return s.status }
func (s *stubEngine) ProtectedRoutes() []route.Route { return s.routes }
func (s *stubEngine) Interfaces() []networking.Interface { return s.interfaces }
func (s *stubEngine) Tables() []networking.Table { return s.tables }

func newStubEngine() *stubEngine {
	return &stubEngine{
		status: engine.Status{
			Mode:            engine.ModeEnforce,
			Hostname:        "edge-1",
			Interfaces:      []engine.Monitored{{ID: 2, Name: "eth0"}},
			Tables:          []engine.Monitored{{ID: 254, Name: "main"}},
			ProtectedRoutes: 1,
			RoutesFile:      "/etc/zelus/routes.yaml",
		},
		routes: []route.Route{{
			Family: 2,
			Dst:    netip.MustParseAddr("10.0.0.0"),
			DstLen: 24,
			Table:  254,
			Proto:  route.ProtoStatic,
			Scope:  route.ScopeUniverse,
			Type:   route.TypeUnicast,
			OIF:    2,
		}},
		interfaces: []networking.Interface{
			{ID: 1, Name: "lo", Addresses: []netip.Prefix{netip.MustParsePrefix("127.0.0.1/8")}},
			{ID: 2, Name: "eth0"},
		},
		tables: []networking.Table{{ID: 253, Name: "default"}, {ID: 254, Name: "main"}, {ID: 255, Name: "local"}},
	}
}

func newTestRouter(e Engine) (http.Handler, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, "edge-1")
	m.IncRoutesAdded()
	return NewRouter(e, reg, log.Discard()), reg
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := newTestRouter(newStubEngine())

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `routes_added_count{hostname="edge-1"} 1`)
	assert.Contains(t, body, `routes_protected{hostname="edge-1"} 0`)
}

func TestRouter_Status(t *testing.T) {
	h, _ := newTestRouter(newStubEngine())

	rec := get(t, h, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	data := decodeData(t, rec)
	assert.Equal(t, "enforce", data["mode"])
	assert.Equal(t, "edge-1", data["hostname"])
	assert.Equal(t, float64(1), data["protected_routes"])
	assert.Equal(t, "dev", data["version"].(map[string]interface{})["version"])
	assert.Equal(t, []interface{}{map[string]interface{}{"id": float64(2), "name": "eth0"}}, data["interfaces"])
}

func TestRouter_Routes(t *testing.T) {
	h, _ := newTestRouter(newStubEngine())

	rec := get(t, h, "/api/v1/routes")
	require.Equal(t, http.StatusOK, rec.Code)

	routes := decodeData(t, rec)["routes"].([]interface{})
	require.Len(t, routes, 1)
	r := routes[0].(map[string]interface{})
	assert.Equal(t, "10.0.0.0", r["dst"])
	assert.Equal(t, float64(24), r["dst_len"])
	assert.Equal(t, "static", r["proto"])
	assert.Equal(t, "", r["gateway"])
	assert.Equal(t, "10.0.0.0/24 dev 2 table 254 proto static scope universe", r["summary"])
}

func TestRouter_InterfacesAndTables(t *testing.T) {
	h, _ := newTestRouter(newStubEngine())

	rec := get(t, h, "/api/v1/interfaces")
	require.Equal(t, http.StatusOK, rec.Code)
	interfaces := decodeData(t, rec)["interfaces"].([]interface{})
	require.Len(t, interfaces, 2)
	lo := interfaces[0].(map[string]interface{})
	assert.Equal(t, "lo", lo["name"])
	assert.Equal(t, false, lo["monitored"])
	assert.Equal(t, []interface{}{"127.0.0.1/8"}, lo["addresses"])
	assert.Equal(t, true, interfaces[1].(map[string]interface{})["monitored"])

	rec = get(t, h, "/api/v1/tables")
	require.Equal(t, http.StatusOK, rec.Code)
	tables := decodeData(t, rec)["tables"].([]interface{})
	require.Len(t, tables, 3)
	assert.Equal(t, map[string]interface{}{"id": float64(254), "name": "main", "monitored": true}, tables[1])
}

func TestRouter_Health(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*engine.Status)
		code    int
		healthy bool
	}{
		{"healthy", func(*engine.Status) {}, http.StatusOK, true},
		{"reload failed", func(s *engine.Status) { s.LastReloadError = "[CONFIG_ERROR] bad yaml" }, http.StatusServiceUnavailable, false},
		{"nothing monitored", func(s *engine.Status) { s.Tables = nil }, http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStubEngine()
			tt.mutate(&stub.status)
			h, _ := newTestRouter(stub)

			rec := get(t, h, "/api/v1/health")
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.healthy, decodeData(t, rec)["healthy"])
		})
	}
}

func TestRouter_Errors(t *testing.T) {
	h, _ := newTestRouter(newStubEngine())

	rec := get(t, h, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body.Error.Code)
	assert.Equal(t, "/api/v1/nope not found", body.Error.Message)
	assert.NotEmpty(t, body.Error.RequestID)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/status", strings.NewReader("{}")))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), `"method_not_allowed"`)
}

type panickingEngine struct{ *stubEngine }

func (panickingEngine) Status() engine.Status { panic("boom") }

func TestRouter_Recovery(t *testing.T) {
	h, _ := newTestRouter(panickingEngine{newStubEngine()})

	rec := get(t, h, "/api/v1/status")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"internal_error"`)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics.New(reg, "edge-1")
	srv := NewServer(ln.Addr().String(), newStubEngine(), reg, log.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"healthy":true`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
