package engine

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	zerrors "github.com/zelus-routing/zelus/src/internal/errors"
	"github.com/zelus-routing/zelus/src/internal/route"
)

const updateBuffer = 256

// Monitor starts the monitor goroutine. The returned channel receives the
// error that stopped it, or nil once ctx is cancelled, and is then closed.
func (e *Engine) Monitor(ctx context.Context) <-chan error {
	result := make(chan error, 1)
	go func() {
		defer close(result)
		result <- e.monitor(ctx)
	}()
	return result
}

// monitor subscribes to kernel route notifications and processes them one by
// one in arrival order.
func (e *Engine) monitor(ctx context.Context) error {
	updates := make(chan netlink.RouteUpdate, updateBuffer)
	done := make(chan struct{})
	defer close(done)

	subErr := make(chan error, 1)
	onError := func(err error) {
		select {
		case subErr <- err:
		default:
		}
	}
	if err := e.nl.RouteSubscribe(updates, done, onError); err != nil {
		return zerrors.NewNetworkError("failed to subscribe to route updates", err)
	}
	e.logger.Info("Monitoring route updates")

	for {
		select {
		case <-ctx.Done():
			e.logger.Debug("Route monitor stopped")
			return nil
		case err := <-e.fatal:
			return err
		case err := <-subErr:
			return zerrors.NewNetworkError("route subscription failed", err)
		case u, ok := <-updates:
			if !ok {
				return zerrors.NewNetworkError("route subscription closed", nil)
			}
			if _, err := e.ProcessMessage(u); err != nil {
				return err
			}
		}
	}
}

// ProcessMessage handles one kernel notification. Updates other than route
// additions and deletions, or for a table or output interface that is not
// monitored, are ignored and return a nil route.
func (e *Engine) ProcessMessage(u netlink.RouteUpdate) (*route.Route, error) {
	if u.Type != unix.RTM_NEWROUTE && u.Type != unix.RTM_DELROUTE {
		return nil, nil
	}
	if _, ok := e.monitoredTables[u.Table]; !ok {
		return nil, nil
	}
	if _, ok := e.monitoredInterfaces[u.LinkIndex]; !ok {
		return nil, nil
	}

	r := route.FromNetlink(u.Route)
	e.metrics.IncRouteUpdates()

	var err error
	switch u.Type {
	case unix.RTM_DELROUTE:
		e.logger.WithField("route", r).Debug("Route deleted")
		if e.mode.readds() {
			err = e.enforceDeletedRoute(r)
		} else if e.RouteProtected(r) {
			e.logger.WithField("route", r).Warn("Protected route was deleted")
		}
	case unix.RTM_NEWROUTE:
		e.logger.WithField("route", r).Debug("Route added")
		if e.mode.removes() {
			err = e.enforceAddedRoute(r)
		}
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RouteProtected reports whether r is in the protected list.
func (e *Engine) RouteProtected(r route.Route) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, p := range e.protected {
		if p == r {
			return true
		}
	}
	return false
}

func (e *Engine) enforceDeletedRoute(r route.Route) error {
	if !e.RouteProtected(r) {
		e.logger.WithField("route", r).Debug("Deleted route is not protected")
		return nil
	}
	e.logger.WithFields(logrus.Fields{"route": r, "mode": e.mode}).Warn("Protected route was deleted, re-adding")
	return e.addRoute(r)
}

func (e *Engine) enforceAddedRoute(r route.Route) error {
	if e.RouteProtected(r) {
		e.logger.WithField("route", r).Debug("Added route is protected")
		return nil
	}
	e.logger.WithFields(logrus.Fields{"route": r, "mode": e.mode}).Warn("Unprotected route was added, removing")
	return e.deleteRoute(r)
}
