package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mgomezch/netifmon/internal/domain"
)

// JSONCodec exports snapshots as indented JSON.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Export writes the snapshot as JSON. A nil snapshot exports as an
// empty object so consumers always get a well-formed document.
func (c *JSONCodec) Export(snap domain.Snapshot, w io.Writer) error {
	if snap == nil {
		snap = domain.Snapshot{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
