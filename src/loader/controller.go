package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"macro-observer/src/analysis"
	"macro-observer/src/helpers"
	"macro-observer/src/interfaces"
	"macro-observer/src/logger"
	"macro-observer/src/models"
)

var (
	// ErrNotLoaded is returned by Apply before the first successful load.
	ErrNotLoaded = errors.New("dashboard not loaded")
	// ErrStaleLoad is returned when a newer load started before this one finished.
	ErrStaleLoad = errors.New("load superseded by a newer load")
)

// -----------------------------------------------------------------------------

// Snapshot is a consistent read of the controller.
type Snapshot struct {
	Store  *analysis.RecordStore
	State  analysis.DashboardState
	Status models.MLoadStatus
}

// Loaded reports whether Store holds data from a successful load.
func (s Snapshot) Loaded() bool { return s.Store != nil }

// Listener is called after every applied load, failed load and state transition.
// It runs under the controller lock and must not call back into the controller.
type Listener func(Snapshot)

// -----------------------------------------------------------------------------

// LoadController owns the record store and the UI state. Loads are tagged with
// a monotonic id; only the result of the latest started load is applied.
type LoadController struct {
	source   interfaces.IDataSource
	db       interfaces.IDatabase
	log      *logger.Logger
	handler  *helpers.ErrorHandler
	defaults models.MFetchParams
	now      func() time.Time

	latest atomic.Uint64

	mu        sync.Mutex
	store     *analysis.RecordStore
	state     analysis.DashboardState
	status    models.MLoadStatus
	listeners []Listener
}

// -----------------------------------------------------------------------------

// NewLoadController wires a data source and an optional archive (db may be nil).
func NewLoadController(cfg *models.MConfig, source interfaces.IDataSource, db interfaces.IDatabase, log *logger.Logger) *LoadController {
	return &LoadController{
		source:   source,
		db:       db,
		log:      log,
		handler:  helpers.NewErrorHandler(log),
		defaults: cfg.DefaultFetchParams(),
		now:      time.Now,
	}
}

// -----------------------------------------------------------------------------

// Subscribe registers l for future notifications.
func (c *LoadController) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// LatestLoadID is the id of the most recently started load (0 before any).
func (c *LoadController) LatestLoadID() uint64 {
	return c.latest.Load()
}

// Snapshot returns the current store, state and status.
func (c *LoadController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *LoadController) snapshotLocked() Snapshot {
	return Snapshot{Store: c.store, State: c.state, Status: c.status}
}

func (c *LoadController) notifyLocked() {
	snap := c.snapshotLocked()
	for _, l := range c.listeners {
		l(snap)
	}
}

// -----------------------------------------------------------------------------

// Load fetches a new bundle and applies it if no newer load started meanwhile.
// Zero-valued params fall back to the configured defaults.
func (c *LoadController) Load(ctx context.Context, params models.MFetchParams) (uint64, error) {
	params = c.withDefaults(params)
	id := c.latest.Add(1)

	c.mu.Lock()
	c.status.LoadID = id
	c.status.Loading = true
	c.mu.Unlock()

	c.log.Info("Load %d started (start_year=%d end_year=%d top_n=%d)", id, params.StartYear, params.EndYear, params.TopN)
	started := c.now()
	bundle, err := c.source.FetchDashboard(ctx, params)

	c.mu.Lock()
	if id != c.latest.Load() {
		c.mu.Unlock()
		c.log.Warning("Load %d discarded: load %d is newer", id, c.latest.Load())
		return id, fmt.Errorf("load %d: %w", id, ErrStaleLoad)
	}

	c.status.Loading = false
	if err != nil {
		c.status.Error = err.Error()
		c.notifyLocked()
		c.mu.Unlock()
		c.log.Error("Load %d failed: %v", id, err)
		return id, fmt.Errorf("load %d: %w", id, err)
	}

	store := analysis.NewRecordStore(bundle)
	c.store = store
	c.state = analysis.DefaultState(store)
	c.status.Loaded = true
	c.status.Error = ""
	c.status.LoadedAt = c.now()
	c.notifyLocked()
	c.mu.Unlock()

	if store.Dropped() > 0 {
		c.log.Warning("Load %d: dropped %d duplicate country records", id, store.Dropped())
	}
	c.log.Info("Load %d applied: %d countries in %v", id, store.Len(), c.now().Sub(started))

	c.archive(id, bundle)
	return id, nil
}

// -----------------------------------------------------------------------------

func (c *LoadController) withDefaults(p models.MFetchParams) models.MFetchParams {
	if p.StartYear == 0 {
		p.StartYear = c.defaults.StartYear
	}
	if p.EndYear == 0 {
		p.EndYear = c.defaults.EndYear
	}
	if p.TopN == 0 {
		p.TopN = c.defaults.TopN
	}
	return p
}

// -----------------------------------------------------------------------------

// archive stores the applied bundle; failures never affect the dashboard.
func (c *LoadController) archive(id uint64, bundle *models.MDashboardBundle) {
	if c.db == nil {
		return
	}
	snapshotID, err := c.db.SaveSnapshot(id, bundle)
	if err != nil {
		c.handler.Handle(err, "archive snapshot")
		return
	}
	c.log.Debug("Load %d archived as %s", id, snapshotID)
	if err := c.db.CleanupOldData(); err != nil {
		c.handler.Handle(err, "archive cleanup")
	}
}

// -----------------------------------------------------------------------------

// Apply performs one state transition.
func (c *LoadController) Apply(action analysis.Action) (analysis.DashboardState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		return c.state, ErrNotLoaded
	}
	next, err := analysis.Reduce(c.state, c.store, action)
	if err != nil {
		return c.state, err
	}
	c.state = next
	c.notifyLocked()
	return next, nil
}
