package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/mgomezch/netifmon/internal/repository"
)

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func testEntry(takenAt time.Time, changed int) repository.Entry {
	return repository.Entry{
		TakenAt:    takenAt,
		Interfaces: 3,
		Changed:    changed,
		Diff:       map[string]int{"ipv6_prefix_eth0_64": changed},
	}
}

func TestRecordAndListRefreshes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := testEntry(base.Add(time.Duration(i)*time.Minute), i%2)
		if err := repo.RecordRefresh(ctx, entry); err != nil {
			t.Fatalf("RecordRefresh(%d) error: %v", i, err)
		}
	}

	entries, err := repo.ListRefreshes(ctx, 10)
	if err != nil {
		t.Fatalf("ListRefreshes error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	// Newest first.
	if !entries[0].TakenAt.After(entries[2].TakenAt) {
		t.Errorf("entries not ordered newest first: %v then %v", entries[0].TakenAt, entries[2].TakenAt)
	}
	if entries[0].Interfaces != 3 {
		t.Errorf("Interfaces = %d, want 3", entries[0].Interfaces)
	}
	if got := entries[1].Diff["ipv6_prefix_eth0_64"]; got != 1 {
		t.Errorf("diff value = %d, want 1", got)
	}
}

func TestListRefreshesLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.RecordRefresh(ctx, testEntry(time.Now().UTC(), 0)); err != nil {
			t.Fatalf("RecordRefresh error: %v", err)
		}
	}

	entries, err := repo.ListRefreshes(ctx, 2)
	if err != nil {
		t.Fatalf("ListRefreshes error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}

	// Non-positive limit falls back to the default instead of erroring.
	entries, err = repo.ListRefreshes(ctx, 0)
	if err != nil {
		t.Fatalf("ListRefreshes(0) error: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("got %d entries with default limit, want 5", len(entries))
	}
}

func TestListRefreshesEmpty(t *testing.T) {
	repo := newTestRepo(t)

	entries, err := repo.ListRefreshes(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRefreshes error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries from empty table, want 0", len(entries))
	}
}
