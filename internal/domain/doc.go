// Package domain defines the core data model for netifmon: point-in-time
// interface snapshots and the per-family address records inside them.
package domain
