// Package repository defines the data access interface for refresh
// history. Implementations live in subpackages.
package repository
