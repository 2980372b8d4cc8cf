package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zelus-routing/zelus/src/internal/errors"
	"github.com/zelus-routing/zelus/src/internal/hashing"
	"github.com/zelus-routing/zelus/src/internal/utils"
)

// RoutesFile is a rendered and parsed protected routes file.
type RoutesFile struct {
	Path     string
	Checksum string // MD5 of the file as read, before rendering
	Routes   []RouteSpec
}

type routesDocument struct {
	ProtectedRoutes *[]RouteSpec `yaml:"protected_routes"`
}

// LoadProtectedRoutes reads the routes file at path, renders it with data and
// returns its protected_routes entries.
func LoadProtectedRoutes(path string, data map[string]interface{}) ([]RouteSpec, error) {
	file, err := LoadRoutesFile(path, data)
	if err != nil {
		return nil, err
	}
	return file.Routes, nil
}

// LoadRoutesFile is LoadProtectedRoutes keeping the file checksum.
func LoadRoutesFile(path string, data map[string]interface{}) (*RoutesFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to open routes file %s", path), err)
	}
	defer utils.CloseOrWarn(f)

	sum := hashing.NewReader(f)
	text, err := io.ReadAll(sum)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read routes file %s", path), err)
	}

	rendered, err := RenderTemplate(string(text), data)
	if err != nil {
		return nil, err
	}

	routes, err := ParseProtectedRoutes([]byte(rendered))
	if err != nil {
		return nil, err
	}

	return &RoutesFile{Path: path, Checksum: sum.Sum(), Routes: routes}, nil
}

// ParseProtectedRoutes parses a rendered routes document.
func ParseProtectedRoutes(text []byte) ([]RouteSpec, error) {
	var doc routesDocument
	dec := yaml.NewDecoder(bytes.NewReader(text))
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.NewConfigError("routes file is empty", nil)
		}
		return nil, errors.NewConfigError("failed to parse routes file", err)
	}
	if doc.ProtectedRoutes == nil {
		return nil, errors.NewConfigError("routes file has no protected_routes list", nil)
	}
	return *doc.ProtectedRoutes, nil
}
