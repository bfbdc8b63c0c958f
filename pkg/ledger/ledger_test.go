package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAssignsID(t *testing.T) {
	l := openTestLedger(t)

	run, err := l.Record(Run{StringVersion: "12.0", Cutoff: 0.7, Scanned: 6, Accepted: 3, Duplicates: 3, OutputPath: "out.tsv"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if run.ID == uuid.Nil {
		t.Error("run ID was not assigned")
	}
	if run.StartedAt.IsZero() {
		t.Error("run timestamp was not assigned")
	}
}

func TestRunsRoundTrip(t *testing.T) {
	l := openTestLedger(t)

	first, err := l.Record(Run{
		StartedAt:     time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		StringVersion: "12.0",
		Cutoff:        0.7,
		Scanned:       100,
		Accepted:      40,
		Duplicates:    2,
		NetworkID:     uuid.New().String(),
		OutputPath:    "links.tsv",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	second, err := l.Record(Run{
		StartedAt:     time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
		StringVersion: "12.0",
		Cutoff:        0.9,
		Scanned:       100,
		Accepted:      12,
		OutputPath:    "links.tsv.0.9",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := l.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}

	// Newest first
	if runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Errorf("runs out of order: %s, %s", runs[0].ID, runs[1].ID)
	}
	if runs[1].Cutoff != 0.7 || runs[1].Accepted != 40 || runs[1].NetworkID != first.NetworkID {
		t.Errorf("first run round-trip mismatch: %+v", runs[1])
	}
	if !runs[1].StartedAt.Equal(first.StartedAt) {
		t.Errorf("timestamp = %v, want %v", runs[1].StartedAt, first.StartedAt)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := l.Record(Run{StringVersion: "12.0", Cutoff: 0.7, OutputPath: "out.tsv"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	l.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, want 1", len(runs))
	}
}
