// Package service carries the event types and bus that connect the
// refresh cycle to the SSE read surface.
package service
