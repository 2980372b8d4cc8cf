package route

import (
	"bytes"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zelus-routing/zelus/src/internal/config"
	"github.com/zelus-routing/zelus/src/internal/errors"
	"github.com/zelus-routing/zelus/src/internal/log"
	"github.com/zelus-routing/zelus/src/internal/networking"
)

func intPtr(v int) *int { return &v }

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	interfaces := networking.NewInterfaceMapFromList([]networking.Interface{
		{ID: 1, Name: "lo"},
		{ID: 2, Name: "eth0"},
		{ID: 3, Name: "eth1"},
	})
	tables, err := networking.ParseTableMap(strings.NewReader("100 vpn\n"), log.Discard())
	require.NoError(t, err)
	return NewBuilder(interfaces, tables, log.Discard())
}

func TestBuilder_Defaults(t *testing.T) {
	b := newTestBuilder(t)

	r, err := b.Build(config.RouteSpec{Dst: "10.0.0.1", OInterface: "eth0"})
	require.NoError(t, err)

	assert.Equal(t, Route{
		Family: 2,
		Dst:    netip.MustParseAddr("10.0.0.1"),
		DstLen: 32,
		Table:  254,
		Proto:  ProtoStatic,
		Scope:  ScopeUniverse,
		Type:   TypeUnicast,
		OIF:    2,
	}, r)
}

func TestBuilder_IPv6Defaults(t *testing.T) {
	b := newTestBuilder(t)

	r, err := b.Build(config.RouteSpec{Dst: "2001:db8::1", OInterface: "eth0"})
	require.NoError(t, err)
	assert.Equal(t, 10, r.Family)
	assert.Equal(t, 128, r.DstLen)
}

func TestBuilder_DefaultRoute(t *testing.T) {
	b := newTestBuilder(t)

	r, err := b.Build(config.RouteSpec{Gateway: "192.0.2.1", OInterface: "eth0"})
	require.NoError(t, err)
	assert.Equal(t, netip.IPv4Unspecified(), r.Dst)
	assert.Equal(t, 0, r.DstLen)
	assert.Equal(t, "default via 192.0.2.1 dev 2 table 254 proto static scope universe", r.String())

	r6, err := b.Build(config.RouteSpec{Gateway: "fe80::1", OInterface: "eth0"})
	require.NoError(t, err)
	assert.Equal(t, netip.IPv6Unspecified(), r6.Dst)
	assert.Equal(t, 10, r6.Family)
}

func TestBuilder_AllFields(t *testing.T) {
	b := newTestBuilder(t)

	r, err := b.Build(config.RouteSpec{
		Dst:        "10.20.30.40",
		DstLen:     intPtr(16),
		Tos:        16,
		Table:      "vpn",
		Proto:      "boot",
		Scope:      "link",
		Type:       "unicast",
		Gateway:    "192.0.2.1",
		PrefSrc:    "192.0.2.10",
		IInterface: "eth1",
		OInterface: "3",
	})
	require.NoError(t, err)

	assert.Equal(t, Route{
		Family:  2,
		Dst:     netip.MustParseAddr("10.20.0.0"),
		DstLen:  16,
		Tos:     16,
		Table:   100,
		Proto:   ProtoBoot,
		Scope:   ScopeLink,
		Type:    TypeUnicast,
		Gateway: netip.MustParseAddr("192.0.2.1"),
		PrefSrc: netip.MustParseAddr("192.0.2.10"),
		IIF:     3,
		OIF:     3,
	}, r)
}

func TestBuilder_NumericTable(t *testing.T) {
	b := newTestBuilder(t)

	r, err := b.Build(config.RouteSpec{Dst: "10.0.0.0", DstLen: intPtr(8), Table: "4242", OInterface: "eth0"})
	require.NoError(t, err)
	assert.Equal(t, 4242, r.Table)
}

func TestBuilder_CoercesBadEnums(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetFormatter(&log.PrefixFormatter{DisableColors: true})

	interfaces := networking.NewInterfaceMapFromList([]networking.Interface{{ID: 2, Name: "eth0"}})
	b := NewBuilder(interfaces, networking.NewTableMap(), logger)

	r, err := b.Build(config.RouteSpec{
		Dst:        "10.0.0.0",
		DstLen:     intPtr(24),
		Proto:      "ospf3",
		Scope:      "planet",
		Type:       "teleport",
		OInterface: "eth0",
	})
	require.NoError(t, err)

	assert.Equal(t, ProtoStatic, r.Proto)
	assert.Equal(t, ScopeUniverse, r.Scope)
	assert.Equal(t, TypeUnicast, r.Type)

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "critical=true"))
	assert.Contains(t, out, "[ERR] Invalid route attribute, using default")
	assert.Contains(t, out, "value=ospf3")
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec config.RouteSpec
		code errors.ErrorCode
	}{
		{name: "unknown ointerface", spec: config.RouteSpec{Dst: "10.0.0.0", OInterface: "wg0"}, code: errors.ErrCodeResolution},
		{name: "unknown iinterface", spec: config.RouteSpec{Dst: "10.0.0.0", IInterface: "wg1", OInterface: "eth0"}, code: errors.ErrCodeResolution},
		{name: "unknown table", spec: config.RouteSpec{Dst: "10.0.0.0", Table: "isp9", OInterface: "eth0"}, code: errors.ErrCodeResolution},
		{name: "bad dst", spec: config.RouteSpec{Dst: "10.0.0.300", OInterface: "eth0"}, code: errors.ErrCodeValidation},
		{name: "dst_len too long", spec: config.RouteSpec{Dst: "10.0.0.0", DstLen: intPtr(40), OInterface: "eth0"}, code: errors.ErrCodeValidation},
		{name: "src_len", spec: config.RouteSpec{Dst: "10.0.0.0", SrcLen: 24, OInterface: "eth0"}, code: errors.ErrCodeValidation},
		{name: "tos", spec: config.RouteSpec{Dst: "10.0.0.0", Tos: 300, OInterface: "eth0"}, code: errors.ErrCodeValidation},
		{name: "mixed family", spec: config.RouteSpec{Dst: "10.0.0.0", Gateway: "2001:db8::1", OInterface: "eth0"}, code: errors.ErrCodeValidation},
		{name: "bad prefsrc", spec: config.RouteSpec{Dst: "10.0.0.0", PrefSrc: "nope", OInterface: "eth0"}, code: errors.ErrCodeValidation},
	}

	b := newTestBuilder(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.spec)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestBuilder_AbsentInterfacesAreZero(t *testing.T) {
	b := newTestBuilder(t)

	r, err := b.Build(config.RouteSpec{Dst: "10.0.0.0", Type: "blackhole"})
	require.NoError(t, err)
	assert.Equal(t, 0, r.OIF)
	assert.Equal(t, 0, r.IIF)
	assert.Equal(t, TypeBlackhole, r.Type)
}
