package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mgomezch/netifmon/internal/domain"
)

// YAMLCodec exports snapshots as YAML.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Export writes the snapshot as YAML. A nil snapshot exports as an
// empty mapping.
func (c *YAMLCodec) Export(snap domain.Snapshot, w io.Writer) error {
	if snap == nil {
		snap = domain.Snapshot{}
	}
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}
