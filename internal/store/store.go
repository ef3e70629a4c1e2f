// Package store owns the refresh cycle: capture a new snapshot, run
// every differ against the previous and new snapshots, persist the new
// snapshot, and publish the result as a single consistent value.
package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mgomezch/netifmon/internal/differ"
	"github.com/mgomezch/netifmon/internal/domain"
	"github.com/mgomezch/netifmon/internal/ifsource"
	"github.com/mgomezch/netifmon/internal/persist"
	"github.com/mgomezch/netifmon/internal/repository"
	"github.com/mgomezch/netifmon/internal/service"
)

// RefreshState is the triple exposed to readers. New is the most
// recently completed capture, Old is exactly the New of the prior cycle
// (or the loaded baseline, or nil before any data exists), and Diff maps
// differ name to its latest 0/1 result. A RefreshState is never mutated
// once installed; readers hold whichever instance was current when they
// read.
type RefreshState struct {
	Old  domain.Snapshot `json:"old"`
	New  domain.Snapshot `json:"new"`
	Diff map[string]int  `json:"diff"`
}

// Store holds the current RefreshState and orchestrates refresh cycles.
// Refresh is not reentrant: the scheduler is the sole caller and
// serializes cycles. State may be called from any goroutine.
type Store struct {
	source  ifsource.Source
	differs []differ.Differ
	file    *persist.File
	history repository.History
	bus     *service.EventBus

	mu    sync.RWMutex
	state *RefreshState
}

// Option configures optional collaborators.
type Option func(*Store)

// WithHistory records every completed cycle in the given repository.
func WithHistory(h repository.History) Option {
	return func(s *Store) { s.history = h }
}

// WithEvents publishes refresh and change events on the given bus.
func WithEvents(bus *service.EventBus) Option {
	return func(s *Store) { s.bus = bus }
}

// New builds a Store, seeding its state from the persistence layer: a
// loaded snapshot becomes both Old and New so the first cycle diffs
// against a real baseline instead of treating a restart as maximal
// change. A missing or corrupt state file starts from absent.
func New(source ifsource.Source, differs []differ.Differ, file *persist.File, opts ...Option) *Store {
	s := &Store{
		source:  source,
		differs: differs,
		file:    file,
		state:   &RefreshState{Diff: map[string]int{}},
	}
	for _, opt := range opts {
		opt(s)
	}

	if loaded := file.Load(); loaded != nil {
		s.state = &RefreshState{Old: loaded, New: loaded, Diff: map[string]int{}}
	}
	return s
}

// State returns the current RefreshState as a whole value. Callers get
// either a fully-old or fully-new state, never a mix of two cycles.
func (s *Store) State() *RefreshState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Refresh runs one cycle. A snapshot-source failure abandons the cycle
// with the prior state untouched; persistence and history failures are
// logged and do not block the in-memory update.
func (s *Store) Refresh(ctx context.Context) error {
	newSnap, err := s.source.Capture(ctx)
	if err != nil {
		return fmt.Errorf("capture snapshot: %w", err)
	}

	prev := s.State()

	diffs := make(map[string]int, len(s.differs))
	changed := 0
	for _, d := range s.differs {
		oldVal := d.Get(prev.New)
		newVal := d.Get(newSnap)
		result := d.Diff(oldVal, newVal)
		diffs[d.Name()] = result
		if result != 0 {
			changed++
		}
		log.Printf("Ran differ %s with old value %v new value %v and diff %d",
			d.Name(), oldVal, newVal, result)
	}

	if err := s.file.Save(newSnap); err != nil {
		log.Printf("Failed to persist snapshot: %v", err)
	}

	next := &RefreshState{Old: prev.New, New: newSnap, Diff: diffs}
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	if s.history != nil {
		entry := repository.Entry{
			TakenAt:    time.Now().UTC(),
			Interfaces: len(newSnap),
			Changed:    changed,
			Diff:       diffs,
		}
		if err := s.history.RecordRefresh(ctx, entry); err != nil {
			log.Printf("Failed to record refresh history: %v", err)
		}
	}

	if s.bus != nil {
		for name, result := range diffs {
			if result != 0 {
				s.bus.Publish(service.Event{Type: service.EventValueChanged, Payload: name})
			}
		}
		s.bus.Publish(service.Event{Type: service.EventRefreshCompleted, Payload: diffs})
	}
	return nil
}
