package trajdb

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/trajectory.report/internal/timeutil"
	"github.com/banshee-data/trajectory.report/internal/traj"
)

func openTestStore(t *testing.T) (*Store, *timeutil.FakeClock) {
	t.Helper()
	clock := timeutil.NewFakeClock(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))
	store, err := OpenWithClock(filepath.Join(t.TempDir(), "test.db"), clock)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, clock
}

func testTrajectory(t *testing.T) *traj.Trajectory {
	t.Helper()
	trj, err := traj.New(
		[]float64{0, 1.5, 3, 2.25},
		[]float64{0, -1, 0.5, 4},
		[]float64{0, 0.04, 0.08, 0.12},
		25,
	)
	if err != nil {
		t.Fatalf("failed to build trajectory: %v", err)
	}
	return trj
}

func TestSaveGetRoundTrip(t *testing.T) {
	store, clock := openTestStore(t)
	want := testTrajectory(t)

	id, err := store.Save("ant 7", "csv", want)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}

	got, meta, err := store.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trajectory mismatch (-want +got):\n%s", diff)
	}
	if meta.Label != "ant 7" || meta.Source != "csv" {
		t.Errorf("meta = %+v", meta)
	}
	if meta.NFrames != 4 || meta.FPS != 25 {
		t.Errorf("meta frames/fps = %d/%v, want 4/25", meta.NFrames, meta.FPS)
	}
	if !meta.CreatedAt.Equal(clock.Now()) {
		t.Errorf("created at = %v, want %v", meta.CreatedAt, clock.Now())
	}
}

func TestSaveGetPreservesUnits(t *testing.T) {
	store, _ := openTestStore(t)
	trj := testTrajectory(t)
	scaled, err := traj.Scale(trj, 0.01, "m")
	if err != nil {
		t.Fatalf("scale: %v", err)
	}

	id, err := store.Save("scaled", "csv", scaled)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, meta, err := store.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Units != "m" || meta.Units != "m" {
		t.Errorf("units = %q / %q, want m", got.Units, meta.Units)
	}
}

func TestGetUnknownID(t *testing.T) {
	store, _ := openTestStore(t)
	_, _, err := store.Get("no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store, clock := openTestStore(t)
	trj := testTrajectory(t)

	first, err := store.Save("first", "csv", trj)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	clock.Advance(time.Minute)
	second, err := store.Save("second", "csv", trj)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len = %d, want 2", len(metas))
	}
	if metas[0].ID != second || metas[1].ID != first {
		t.Errorf("order = [%s %s], want newest first", metas[0].ID, metas[1].ID)
	}
}

func TestDelete(t *testing.T) {
	store, _ := openTestStore(t)
	id, err := store.Save("doomed", "csv", testTrajectory(t))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := store.Get(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("error after delete = %v, want ErrNotFound", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestMigrateVersion(t *testing.T) {
	store, _ := openTestStore(t)
	version, dirty, err := store.MigrateVersion()
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if dirty {
		t.Error("schema unexpectedly dirty")
	}
	if version == 0 {
		t.Error("expected migrations to have run")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	id, err := store.Save("keep", "csv", testTrajectory(t))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	// Reopening runs migrations again as a no-op and keeps existing data.
	store, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer store.Close()
	if _, _, err := store.Get(id); err != nil {
		t.Errorf("get after reopen: %v", err)
	}
}
