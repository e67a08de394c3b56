package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"macro-observer/src/analysis"
	"macro-observer/src/logger"
	"macro-observer/src/models"
)

// fakeSource returns queued results; a result with a non-nil gate blocks until the gate closes.
type fakeSource struct {
	mu      sync.Mutex
	results []fakeResult
	params  []models.MFetchParams
}

type fakeResult struct {
	bundle *models.MDashboardBundle
	err    error
	gate   chan struct{}
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchDashboard(ctx context.Context, params models.MFetchParams) (*models.MDashboardBundle, error) {
	f.mu.Lock()
	r := f.results[0]
	f.results = f.results[1:]
	f.params = append(f.params, params)
	f.mu.Unlock()
	if r.gate != nil {
		<-r.gate
	}
	return r.bundle, r.err
}

type fakeDB struct {
	mu      sync.Mutex
	saved   []uint64
	failErr error
}

func (d *fakeDB) Initialize() error { return nil }
func (d *fakeDB) SaveSnapshot(loadID uint64, bundle *models.MDashboardBundle) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failErr != nil {
		return "", d.failErr
	}
	d.saved = append(d.saved, loadID)
	return fmt.Sprintf("snap-%d", loadID), nil
}
func (d *fakeDB) ListSnapshots(limit int) ([]models.MSnapshotInfo, error) { return nil, nil }
func (d *fakeDB) GetSnapshot(id string) (*models.MDashboardBundle, error)  { return nil, nil }
func (d *fakeDB) CleanupOldData() error                                  { return nil }
func (d *fakeDB) Close() error                                           { return nil }

func bundle(codes ...string) *models.MDashboardBundle {
	b := &models.MDashboardBundle{}
	for i, c := range codes {
		gdp := float64(100 - i)
		b.Countries = append(b.Countries, models.MCountryRecord{Code: c, Name: c, LatestGDP: &gdp})
	}
	return b
}

func newController(src *fakeSource, db *fakeDB) *LoadController {
	cfg := &models.MConfig{}
	cfg.DataSource.TopN = 20
	cfg.DataSource.StartYear = 2015
	log := logger.NewWriterLogger(&nopWriter{}, logger.LevelDebug, "loader-test")
	if db == nil {
		return NewLoadController(cfg, src, nil, log)
	}
	return NewLoadController(cfg, src, db, log)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestApplyBeforeLoad(t *testing.T) {
	c := newController(&fakeSource{}, nil)
	if _, err := c.Apply(analysis.GoToPage{Page: 1}); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("err = %v, want ErrNotLoaded", err)
	}
}

func TestLoadAppliesAndResetsState(t *testing.T) {
	src := &fakeSource{results: []fakeResult{
		{bundle: bundle("A", "B", "C", "D", "E", "F")},
		{bundle: bundle("X", "Y")},
	}}
	db := &fakeDB{}
	c := newController(src, db)

	var notified []uint64
	c.Subscribe(func(s Snapshot) { notified = append(notified, s.Status.LoadID) })

	id, err := c.Load(context.Background(), models.MFetchParams{EndYear: 2023})
	if err != nil || id != 1 {
		t.Fatalf("Load = %d, %v", id, err)
	}
	if got := src.params[0]; got.TopN != 20 || got.StartYear != 2015 || got.EndYear != 2023 {
		t.Fatalf("params not merged with defaults: %+v", got)
	}

	st, err := c.Apply(analysis.ToggleCountry{Code: "F"})
	if err != nil || st.Selection.Len() != 6 {
		t.Fatalf("toggle = %+v, %v", st, err)
	}

	if _, err := c.Load(context.Background(), models.MFetchParams{}); err != nil {
		t.Fatal(err)
	}
	snap := c.Snapshot()
	if !snap.Loaded() || snap.Store.Len() != 2 {
		t.Fatalf("store not replaced: %+v", snap.Status)
	}
	if got := snap.State.Selection.Codes(); len(got) != 2 || got[0] != "X" {
		t.Fatalf("selection not reset: %v", got)
	}
	if len(db.saved) != 2 {
		t.Fatalf("archived %v", db.saved)
	}
	if len(notified) != 3 {
		t.Fatalf("notifications = %v", notified)
	}
}

func TestFailedLoadKeepsPriorState(t *testing.T) {
	boom := errors.New("upstream down")
	src := &fakeSource{results: []fakeResult{
		{bundle: bundle("A", "B")},
		{err: boom},
		{bundle: bundle("C")},
	}}
	c := newController(src, nil)

	c.Load(context.Background(), models.MFetchParams{})
	c.Apply(analysis.SortBy{Field: analysis.FieldName})

	if _, err := c.Load(context.Background(), models.MFetchParams{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	snap := c.Snapshot()
	if snap.Store.Len() != 2 || snap.State.Sort.Field != analysis.FieldName {
		t.Fatal("failed load touched store or state")
	}
	if snap.Status.Error == "" || !snap.Status.Loaded || snap.Status.Loading {
		t.Fatalf("status = %+v", snap.Status)
	}

	if _, err := c.Load(context.Background(), models.MFetchParams{}); err != nil {
		t.Fatal(err)
	}
	if c.Snapshot().Status.Error != "" {
		t.Fatal("successful retry must clear the error flag")
	}
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	src := &fakeSource{results: []fakeResult{
		{bundle: bundle("OLD"), gate: gate},
		{bundle: bundle("NEW")},
	}}
	db := &fakeDB{}
	c := newController(src, db)

	done := make(chan error, 1)
	started := make(chan struct{})
	go func() {
		close(started)
		_, err := c.Load(context.Background(), models.MFetchParams{})
		done <- err
	}()
	<-started
	// wait until the slow load has taken its id and is blocked in the source
	for {
		src.mu.Lock()
		n := len(src.params)
		src.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := c.Load(context.Background(), models.MFetchParams{}); err != nil {
		t.Fatal(err)
	}
	close(gate)

	if err := <-done; !errors.Is(err, ErrStaleLoad) {
		t.Fatalf("slow load err = %v, want ErrStaleLoad", err)
	}
	snap := c.Snapshot()
	if _, ok := snap.Store.Country("NEW"); !ok {
		t.Fatal("stale response clobbered fresher data")
	}
	if snap.Status.LoadID != 2 || c.LatestLoadID() != 2 {
		t.Fatalf("load id = %d", snap.Status.LoadID)
	}
	if len(db.saved) != 1 || db.saved[0] != 2 {
		t.Fatalf("archived %v, want only load 2", db.saved)
	}
}

func TestArchiveFailureIsNotFatal(t *testing.T) {
	src := &fakeSource{results: []fakeResult{{bundle: bundle("A")}}}
	c := newController(src, &fakeDB{failErr: errors.New("disk full")})
	if _, err := c.Load(context.Background(), models.MFetchParams{}); err != nil {
		t.Fatalf("archive failure leaked: %v", err)
	}
	if !c.Snapshot().Loaded() {
		t.Fatal("load not applied")
	}
}

func TestRejectedActionKeepsState(t *testing.T) {
	src := &fakeSource{results: []fakeResult{{bundle: bundle("A", "B")}}}
	c := newController(src, nil)
	c.Load(context.Background(), models.MFetchParams{})

	before := c.Snapshot().State
	if _, err := c.Apply(analysis.ToggleCountry{Code: "ZZ"}); !errors.Is(err, analysis.ErrUnknownCountry) {
		t.Fatalf("err = %v", err)
	}
	after := c.Snapshot().State
	if after.Selection.Len() != before.Selection.Len() {
		t.Fatal("rejected action changed state")
	}
}
