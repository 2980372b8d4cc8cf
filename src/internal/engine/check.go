package engine

import (
	stderrors "errors"

	"github.com/zelus-routing/zelus/src/internal/config"
	"github.com/zelus-routing/zelus/src/internal/route"
)

var errDuplicate = stderrors.New("duplicate of an earlier entry")

// Rejection is a routes file entry that was not protected.
type Rejection struct {
	Entry string
	Spec  config.RouteSpec
	Err   error
}

// CheckResult is the outcome of loading a routes file without acting on it.
type CheckResult struct {
	Status   Status
	Checksum string
	Accepted []route.Route
	Rejected []Rejection
}

// Check resolves the monitored interfaces and tables and loads the routes
// file the way New does, but never reads or changes kernel routes and does
// not watch the file. File-level failures are returned.
func Check(opts Options, deps Dependencies) (*CheckResult, error) {
	e, err := newEngine(opts, deps)
	if err != nil {
		return nil, err
	}

	accepted, file, rejected, err := e.readRoutesFile()
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.protected = accepted
	e.routesChecksum = file.Checksum
	e.mu.Unlock()

	return &CheckResult{
		Status:   e.Status(),
		Checksum: file.Checksum,
		Accepted: accepted,
		Rejected: rejected,
	}, nil
}
