package engine

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/zelus-routing/zelus/src/internal/log"
	"github.com/zelus-routing/zelus/src/internal/mocks"
	"github.com/zelus-routing/zelus/src/internal/networking"
)

const (
	testHostname = "edge-1"
	eth0Index    = 2
	eth1Index    = 3

	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

const protectedRouteYAML = `protected_routes:
  - dst: 10.0.0.0
    dst_len: 24
    ointerface: eth0
    table: main
`

type testEnv struct {
	kernel     *mocks.FakeKernel
	registry   *prometheus.Registry
	routesFile string
	opts       Options
}

func newTestEnv(t *testing.T, mode Mode, routesYAML string) *testEnv {
	t.Helper()

	routesFile := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(routesFile, []byte(routesYAML), 0o644))

	return &testEnv{
		kernel: mocks.NewFakeKernel(
			mocks.Link{Name: "lo", Index: 1, Addrs: []string{"127.0.0.1/8"}},
			mocks.Link{Name: "eth0", Index: eth0Index, Addrs: []string{"192.0.2.10/24"}},
			mocks.Link{Name: "eth1", Index: eth1Index},
		),
		registry:   prometheus.NewRegistry(),
		routesFile: routesFile,
		opts: Options{
			Mode:       mode,
			Interfaces: []string{"eth0"},
			Tables:     []string{"main"},
			RoutesFile: routesFile,
			Hostname:   testHostname,
		},
	}
}

func (env *testEnv) start(t *testing.T) *Engine {
	t.Helper()
	e, err := env.newEngine()
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func (env *testEnv) newEngine() (*Engine, error) {
	return New(env.opts, Dependencies{
		Netlinker:  env.kernel,
		Logger:     log.Discard(),
		Registerer: env.registry,
		Tables:     networking.NewTableMap(),
	})
}

// writeRoutes replaces the routes file atomically.
func (env *testEnv) writeRoutes(t *testing.T, routesYAML string) {
	t.Helper()
	tmp := env.routesFile + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(routesYAML), 0o644))
	require.NoError(t, os.Rename(tmp, env.routesFile))
}

func kernelRoute(cidr string, linkIndex int) netlink.Route {
	_, dst, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(err)
	}
	return netlink.Route{
		Dst:       dst,
		LinkIndex: linkIndex,
		Table:     unix.RT_TABLE_MAIN,
		Protocol:  unix.RTPROT_STATIC,
		Type:      unix.RTN_UNICAST,
	}
}

func counter(vec *prometheus.CounterVec) float64 {
	return testutil.ToFloat64(vec.WithLabelValues(testHostname))
}

func gauge(vec *prometheus.GaugeVec) float64 {
	return testutil.ToFloat64(vec.WithLabelValues(testHostname))
}
