package repository

import (
	"context"
	"time"
)

// Entry is one recorded refresh cycle.
type Entry struct {
	ID         int64          `json:"id"`
	TakenAt    time.Time      `json:"taken_at"`
	Interfaces int            `json:"interfaces"`
	Changed    int            `json:"changed"`
	Diff       map[string]int `json:"diff"`
}

// History is the refresh-history data access interface. The refresh
// loop records entries; the read surface lists them newest first.
type History interface {
	RecordRefresh(ctx context.Context, entry Entry) error
	ListRefreshes(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}
