package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/zelus-routing/zelus/src/internal/config"
	zerrors "github.com/zelus-routing/zelus/src/internal/errors"
	"github.com/zelus-routing/zelus/src/internal/hashing"
	"github.com/zelus-routing/zelus/src/internal/log"
	"github.com/zelus-routing/zelus/src/internal/route"
)

// LoadConfiguration performs the first load of the routes file and starts
// watching its directory. Any later change in that directory calls Reload,
// which also covers a file reached through a swapped symlink. When the
// directory cannot be watched the daemon keeps running without reloads.
func (e *Engine) LoadConfiguration() error {
	if err := e.Reload(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerrors.NewInternalError("failed to create file watcher", err)
	}
	dir := filepath.Dir(e.routesFile)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		log.Critical(e.logger).WithError(err).WithField("dir", dir).
			Error("Failed to watch routes file directory, changes will not be reloaded")
		return nil
	}
	e.watcher = watcher

	go e.watch(watcher)
	e.logger.WithField("dir", dir).Debug("Watching routes file directory")
	return nil
}

func (e *Engine) watch(watcher *fsnotify.Watcher) {
	for {
		select {
		case <-e.watchDone:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)) {
				continue
			}
			e.logger.WithFields(logrus.Fields{"event": event.Op.String(), "name": event.Name}).
				Info("Routes directory changed, reloading")
			if err := e.Reload(); err != nil {
				select {
				case e.fatal <- err:
				default:
				}
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.WithError(err).Warn("File watcher error")
		}
	}
}

// Reload reads, renders and parses the routes file, replaces the protected
// list and runs InitialSync.
//
// Entries that fail validation, name an unmonitored interface or table, or
// cannot be resolved are logged and skipped. A file that cannot be read,
// rendered or parsed installs an empty list. Only kernel failures during the
// sync are returned.
func (e *Engine) Reload() error {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	routes, file, err := e.loadProtectedRoutes()
	if err != nil {
		log.Critical(e.logger).WithError(err).WithField("path", e.routesFile).
			Error("Failed to load routes file, no routes are protected")
		routes = nil
	}

	digest := hashing.NewSet()
	for _, r := range routes {
		digest.Add(r.Key())
	}

	e.mu.Lock()
	e.protected = routes
	e.lastReload = time.Now()
	e.lastReloadError = err
	e.routesDigest = digest.Digest()
	e.routesChecksum = ""
	if file != nil {
		e.routesChecksum = file.Checksum
	}
	e.mu.Unlock()

	e.metrics.SetRoutesProtected(len(routes))
	e.logger.WithField("routes", len(routes)).Info("Protected routes loaded")

	return e.InitialSync()
}

func (e *Engine) templateData() map[string]interface{} {
	return map[string]interface{}{
		"interfaces": e.interfaces.TemplateData(),
		"hostname":   e.hostname,
	}
}

func (e *Engine) loadProtectedRoutes() ([]route.Route, *config.RoutesFile, error) {
	routes, file, _, err := e.readRoutesFile()
	return routes, file, err
}

// readRoutesFile returns the accepted routes in file order along with the
// entries that were skipped.
func (e *Engine) readRoutesFile() ([]route.Route, *config.RoutesFile, []Rejection, error) {
	file, err := config.LoadRoutesFile(e.routesFile, e.templateData())
	if err != nil {
		return nil, nil, nil, err
	}

	seen := make(map[route.Route]struct{}, len(file.Routes))
	routes := make([]route.Route, 0, len(file.Routes))
	var rejected []Rejection
	for i, spec := range file.Routes {
		item := fmt.Sprintf("protected_routes.%d", i)
		r, err := e.acceptRoute(spec, item)
		if err != nil {
			e.logger.WithError(err).WithField("entry", item).Error("Rejecting protected route")
			rejected = append(rejected, Rejection{Entry: item, Spec: spec, Err: err})
			continue
		}
		if _, dup := seen[r]; dup {
			e.logger.WithFields(logrus.Fields{"entry": item, "route": r}).Warn("Duplicate protected route, skipping")
			rejected = append(rejected, Rejection{Entry: item, Spec: spec, Err: errDuplicate})
			continue
		}
		seen[r] = struct{}{}
		e.logger.WithField("route", r).Debug("Protecting route")
		routes = append(routes, r)
	}
	return routes, file, rejected, nil
}

func (e *Engine) acceptRoute(spec config.RouteSpec, item string) (route.Route, error) {
	if err := config.ValidateRouteSpec(spec, item); err != nil {
		return route.Route{}, err
	}
	r, err := e.builder.Build(spec)
	if err != nil {
		return route.Route{}, err
	}
	if _, ok := e.monitoredInterfaces[r.OIF]; !ok {
		return route.Route{}, zerrors.NewResolutionError(
			fmt.Sprintf("interface %q is not monitored", spec.OInterface), nil)
	}
	if _, ok := e.monitoredTables[r.Table]; !ok {
		return route.Route{}, zerrors.NewResolutionError(
			fmt.Sprintf("table %q is not monitored", spec.TableOrDefault()), nil)
	}
	return r, nil
}

// InitialSync adds every protected route missing from the kernel, or only
// logs it in monitor mode. Unprotected routes are left alone in every mode.
func (e *Engine) InitialSync() error {
	installed, err := e.installedRoutes()
	if err != nil {
		return err
	}

	for _, r := range e.ProtectedRoutes() {
		if _, ok := installed[r]; ok {
			continue
		}
		if !e.mode.readds() {
			e.logger.WithField("route", r).Warn("Protected route is missing")
			continue
		}
		if err := e.addRoute(r); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) installedRoutes() (map[route.Route]struct{}, error) {
	list, err := e.nl.RouteListFiltered(netlink.FAMILY_ALL,
		&netlink.Route{Table: unix.RT_TABLE_UNSPEC}, netlink.RT_FILTER_TABLE)
	if err != nil {
		return nil, zerrors.NewNetworkError("failed to list routes", err)
	}
	installed := make(map[route.Route]struct{}, len(list))
	for _, nr := range list {
		installed[route.FromNetlink(nr)] = struct{}{}
	}
	return installed, nil
}

// addRoute installs r. A route that is already present counts as success
// without touching the counter.
func (e *Engine) addRoute(r route.Route) error {
	if err := r.Add(e.nl); err != nil {
		if errors.Is(err, unix.EEXIST) {
			e.logger.WithField("route", r).Debug("Protected route already present")
			return nil
		}
		return err
	}
	e.metrics.IncRoutesAdded()
	e.logger.WithField("route", r).Info("Added protected route")
	return nil
}

// deleteRoute removes r. A route that is already gone counts as success
// without touching the counter.
func (e *Engine) deleteRoute(r route.Route) error {
	if err := r.Delete(e.nl); err != nil {
		if errors.Is(err, unix.ESRCH) {
			e.logger.WithField("route", r).Debug("Unprotected route already gone")
			return nil
		}
		return err
	}
	e.metrics.IncRoutesRemoved()
	e.logger.WithField("route", r).Info("Removed unprotected route")
	return nil
}
