package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/zelus-routing/zelus/src/internal/errors"
	"github.com/zelus-routing/zelus/src/internal/metrics"
	"github.com/zelus-routing/zelus/src/internal/networking"
	"github.com/zelus-routing/zelus/src/internal/route"
)

// Options is the process-wide configuration of an Engine.
type Options struct {
	Mode Mode
	// Interfaces and Tables name the monitored interfaces and routing tables,
	// by name or numeric id.
	Interfaces []string
	Tables     []string
	// RoutesFile is the protected routes template.
	RoutesFile string
	// RtTables is read when Dependencies.Tables is nil.
	RtTables string
	// Hostname labels metrics and is available to the routes template.
	Hostname string
}

// Dependencies are the collaborators of an Engine. Only Netlinker is required.
type Dependencies struct {
	Netlinker networking.Netlinker
	Logger    logrus.FieldLogger
	// Registerer receives the engine metrics; a private registry is used when nil.
	Registerer prometheus.Registerer
	// Interfaces and Tables are built from the kernel and RtTables when nil.
	Interfaces *networking.InterfaceMap
	Tables     *networking.TableMap
}

// Monitored is a resolved interface or routing table.
type Monitored struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Status is a point-in-time summary of the engine.
type Status struct {
	Mode            Mode        `json:"mode"`
	Hostname        string      `json:"hostname"`
	Interfaces      []Monitored `json:"interfaces"`
	Tables          []Monitored `json:"tables"`
	ProtectedRoutes int         `json:"protected_routes"`
	RoutesFile      string      `json:"routes_file"`
	RoutesChecksum  string      `json:"routes_checksum,omitempty"`
	RoutesDigest    string      `json:"routes_digest,omitempty"`
	LastReload      time.Time   `json:"last_reload"`
	LastReloadError string      `json:"last_reload_error,omitempty"`
	Started         time.Time   `json:"started"`
}

// Engine keeps the kernel routing tables in line with the protected routes.
type Engine struct {
	mode       Mode
	routesFile string
	hostname   string
	started    time.Time

	nl         networking.Netlinker
	logger     logrus.FieldLogger
	metrics    *metrics.Metrics
	interfaces *networking.InterfaceMap
	tables     *networking.TableMap
	builder    *route.Builder

	monitoredInterfaces map[int]string
	monitoredTables     map[int]string

	// reloadMu serializes Reload.
	reloadMu sync.Mutex

	// mu guards the protected list and the reload bookkeeping below it.
	mu              sync.RWMutex
	protected       []route.Route
	routesChecksum  string
	routesDigest    string
	lastReload      time.Time
	lastReloadError error

	watcher   *fsnotify.Watcher
	watchDone chan struct{}
	fatal     chan error
	closeOnce sync.Once
}

// New builds the symbol tables, resolves the monitored interfaces and tables,
// and loads the routes file, which performs the initial sync and starts
// watching the file for changes.
//
// Interfaces or tables that cannot be resolved are logged and not monitored.
func New(opts Options, deps Dependencies) (*Engine, error) {
	e, err := newEngine(opts, deps)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"mode":       e.mode,
		"interfaces": len(e.monitoredInterfaces),
		"tables":     len(e.monitoredTables),
	}).Info("Starting route reconciliation")

	if err := e.LoadConfiguration(); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func newEngine(opts Options, deps Dependencies) (*Engine, error) {
	if deps.Netlinker == nil {
		return nil, errors.NewInternalError("engine requires a netlinker", nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	interfaces := deps.Interfaces
	if interfaces == nil {
		var err error
		if interfaces, err = networking.NewInterfaceMap(deps.Netlinker, logger); err != nil {
			return nil, err
		}
	}
	tables := deps.Tables
	if tables == nil {
		var err error
		if tables, err = networking.LoadTableMap(opts.RtTables, logger); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		mode:       opts.Mode,
		routesFile: opts.RoutesFile,
		hostname:   opts.Hostname,
		started:    time.Now(),
		nl:         deps.Netlinker,
		logger:     logger.WithField("component", "engine"),
		metrics:    metrics.New(registerer, opts.Hostname),
		interfaces: interfaces,
		tables:     tables,
		builder:    route.NewBuilder(interfaces, tables, logger),
		watchDone:  make(chan struct{}),
		fatal:      make(chan error, 1),
	}

	e.monitoredInterfaces = e.resolveMonitored("interface", opts.Interfaces, interfaces.NameToID, interfaces.NameOrID)
	e.monitoredTables = e.resolveMonitored("table", opts.Tables, tables.NameToID, tables.NameOrID)
	e.metrics.SetInterfacesMonitored(len(e.monitoredInterfaces))
	e.metrics.SetTablesMonitored(len(e.monitoredTables))
	return e, nil
}

func (e *Engine) resolveMonitored(kind string, names []string, resolve func(string) (int, error), name func(int) string) map[int]string {
	resolved := make(map[int]string, len(names))
	for _, n := range names {
		id, err := resolve(n)
		if err != nil {
			e.logger.WithError(err).WithField(kind, n).Errorf("Cannot resolve monitored %s, ignoring it", kind)
			continue
		}
		resolved[id] = name(id)
		e.logger.WithFields(logrus.Fields{kind: resolved[id], "id": id}).Debugf("Monitoring %s", kind)
	}
	if len(resolved) == 0 {
		e.logger.Warnf("No %ss are monitored, no routes will be reconciled", kind)
	}
	return resolved
}

// Mode returns the enforcement mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Metrics returns the engine metrics.
func (e *Engine) Metrics() *metrics.Metrics {
	return e.metrics
}

// Interfaces lists every interface known to the engine, monitored or not.
func (e *Engine) Interfaces() []networking.Interface {
	return e.interfaces.Interfaces()
}

// Tables lists every routing table known to the engine.
func (e *Engine) Tables() []networking.Table {
	return e.tables.Tables()
}

// ProtectedRoutes returns a copy of the protected list.
func (e *Engine) ProtectedRoutes() []route.Route {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]route.Route(nil), e.protected...)
}

// Status returns a snapshot for the status API.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Status{
		Mode:            e.mode,
		Hostname:        e.hostname,
		Interfaces:      sortedMonitored(e.monitoredInterfaces),
		Tables:          sortedMonitored(e.monitoredTables),
		ProtectedRoutes: len(e.protected),
		RoutesFile:      e.routesFile,
		RoutesChecksum:  e.routesChecksum,
		RoutesDigest:    e.routesDigest,
		LastReload:      e.lastReload,
		Started:         e.started,
	}
	if e.lastReloadError != nil {
		s.LastReloadError = e.lastReloadError.Error()
	}
	return s
}

// Close stops watching the routes file. The monitor loop is stopped through
// the context passed to Monitor.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		close(e.watchDone)
		if e.watcher != nil {
			if err := e.watcher.Close(); err != nil {
				e.logger.WithError(err).Warn("Failed to close file watcher")
			}
		}
	})
}

func sortedMonitored(m map[int]string) []Monitored {
	result := make([]Monitored, 0, len(m))
	for id, name := range m {
		result = append(result, Monitored{ID: id, Name: name})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
