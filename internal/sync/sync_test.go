package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alfredjeanlab/contacts/internal/model"
	"github.com/alfredjeanlab/contacts/internal/store/jsonfile"
)

// mockDestination records calls to Write.
type mockDestination struct {
	writes atomic.Int64
	last   atomic.Value // []byte
	err    error
}

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes.Add(1)
	cp := make([]byte, len(data))
	copy(cp, data)
	d.last.Store(cp)
	return d.err
}

func (d *mockDestination) String() string { return "mock" }

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSchedulerStartStop(t *testing.T) {
	dest := &mockDestination{}
	sched := NewScheduler(newMockLister(sampleContacts()...), FormatJSONL, []Destination{dest}, 50*time.Millisecond, testLogger)
	sched.Start()

	// Wait for at least the initial backup + one tick.
	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}

	data, ok := dest.last.Load().([]byte)
	if !ok || len(data) == 0 {
		t.Fatal("expected non-empty data")
	}
	// 1 header + 2 contacts
	if lines := nonEmptyLines(string(data)); len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}

func TestSchedulerStop_NoStart(t *testing.T) {
	sched := NewScheduler(newMockLister(), FormatJSON, nil, time.Minute, testLogger)
	// Stop without Start should not panic.
	sched.Stop()
}

func TestSchedulerMultipleDestinations(t *testing.T) {
	dest1 := &mockDestination{}
	dest2 := &mockDestination{err: errors.New("unreachable")}
	dest3 := &mockDestination{}

	sched := NewScheduler(newMockLister(), FormatYAML, []Destination{dest1, dest2, dest3}, time.Second, testLogger)
	sched.Start()

	// Wait for the initial backup.
	time.Sleep(50 * time.Millisecond)
	sched.Stop()

	for i, d := range []*mockDestination{dest1, dest2, dest3} {
		if d.writes.Load() < 1 {
			t.Fatalf("dest%d expected at least 1 write", i+1)
		}
	}
}

func TestBackup(t *testing.T) {
	ok := &mockDestination{}
	bad := &mockDestination{err: errors.New("disk full")}

	n, err := Backup(context.Background(), newMockLister(sampleContacts()...), FormatJSON, []Destination{bad, ok})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Backup() error = %v, want disk full", err)
	}
	if ok.writes.Load() != 1 {
		t.Fatalf("healthy destination writes = %d, want 1", ok.writes.Load())
	}
	if data := ok.last.Load().([]byte); len(data) != n {
		t.Errorf("reported %d bytes, destination got %d", n, len(data))
	}
}

func TestBackup_ExportFailure(t *testing.T) {
	l := newMockLister()
	l.err = errListFailed
	dest := &mockDestination{}

	if _, err := Backup(context.Background(), l, FormatJSON, []Destination{dest}); !errors.Is(err, errListFailed) {
		t.Fatalf("Backup() error = %v, want %v", err, errListFailed)
	}
	if dest.writes.Load() != 0 {
		t.Error("destination written after failed export")
	}
}

func TestBackup_ReloadsFileBetweenRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "contacts.json")
	daemon, _ := jsonfile.Open(path, jsonfile.WithLogger(testLogger))
	cli, _ := jsonfile.Open(path, jsonfile.WithLogger(testLogger))
	dest := &mockDestination{}
	source := daemon.Reloader()

	if _, err := Backup(ctx, source, FormatJSON, []Destination{dest}); err != nil {
		t.Fatalf("first Backup: %v", err)
	}
	if got := strings.TrimSpace(string(dest.last.Load().([]byte))); got != "[]" {
		t.Fatalf("first backup = %q, want []", got)
	}

	if _, err := cli.Create(ctx, model.ContactInput{Name: "Alice", Phone: "555"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := Backup(ctx, source, FormatJSON, []Destination{dest}); err != nil {
		t.Fatalf("second Backup: %v", err)
	}
	if got := string(dest.last.Load().([]byte)); !strings.Contains(got, "Alice") {
		t.Fatalf("second backup = %q, want it to contain Alice", got)
	}
}
