// Package codec serializes snapshots for the export endpoints.
package codec

import (
	"io"

	"github.com/mgomezch/netifmon/internal/domain"
)

// Exporter writes a snapshot in one serialization format.
type Exporter interface {
	Export(snap domain.Snapshot, w io.Writer) error
	Format() string
}
