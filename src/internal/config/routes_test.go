package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zelus-routing/zelus/src/internal/errors"
)

const sampleRoutes = `# protected routes for {{ hostname }}
protected_routes:
  - dst: 10.0.0.0
    dst_len: 24
    ointerface: eth0
    table: main
  - dst: 192.0.2.0
    dst_len: 24
    gateway: 198.51.100.1
    prefsrc: "{{ interfaces.eth0.addresses.0 }}"
    ointerface: "{{ interfaces.eth0.id }}"
    table: 100
    proto: boot
  - ointerface: eth0
`

func TestLoadRoutesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routes.yaml", sampleRoutes)

	file, err := LoadRoutesFile(path, templateData())
	require.NoError(t, err)
	assert.Len(t, file.Checksum, 32)
	require.Len(t, file.Routes, 3)

	assert.Equal(t, RouteSpec{Dst: "10.0.0.0", DstLen: intPtr(24), OInterface: "eth0", Table: "main"}, file.Routes[0])
	assert.Equal(t, RouteSpec{
		Dst:        "192.0.2.0",
		DstLen:     intPtr(24),
		Gateway:    "198.51.100.1",
		PrefSrc:    "192.0.2.10",
		OInterface: "2",
		Table:      "100",
		Proto:      "boot",
	}, file.Routes[1])
	assert.Equal(t, RouteSpec{OInterface: "eth0"}, file.Routes[2])
	assert.Nil(t, file.Routes[2].DstLen)
}

func TestLoadProtectedRoutes_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{name: "invalid yaml", content: "protected_routes: [\n  - dst", code: errors.ErrCodeConfig},
		{name: "missing key", content: "routes:\n  - ointerface: eth0\n", code: errors.ErrCodeConfig},
		{name: "null list", content: "protected_routes:\n", code: errors.ErrCodeConfig},
		{name: "empty file", content: "", code: errors.ErrCodeConfig},
		{name: "wrong type", content: "protected_routes:\n  - dst_len: many\n", code: errors.ErrCodeConfig},
		{name: "undefined variable", content: "protected_routes:\n  - ointerface: {{ interfaces.wg0.id }}\n", code: errors.ErrCodeTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "routes.yaml", tt.content)
			_, err := LoadProtectedRoutes(path, templateData())
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestLoadProtectedRoutes_MissingFile(t *testing.T) {
	_, err := LoadProtectedRoutes(filepath.Join(t.TempDir(), "absent.yaml"), templateData())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfig))
}

func TestParseProtectedRoutes_EmptyList(t *testing.T) {
	routes, err := ParseProtectedRoutes([]byte("protected_routes: []\n"))
	require.NoError(t, err)
	assert.Empty(t, routes)
}
