// Package differ defines the change-detection units that run on every
// refresh cycle. A differ extracts one derived value from a snapshot and
// compares it across cycles, reporting the result on an exported gauge.
package differ

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mgomezch/netifmon/internal/domain"
)

// Extracted is a differ-specific derived value that may be absent.
// Absence is a normal outcome of extraction over partially-missing data,
// never an error. Two Extracted values compare equal only when both are
// present with the same value or both are absent.
type Extracted struct {
	Value   string
	Present bool
}

// Some wraps a present value.
func Some(v string) Extracted {
	return Extracted{Value: v, Present: true}
}

// None is the absent value.
var None = Extracted{}

// Differ is a named extraction+comparison unit.
//
// Get must tolerate any missing link in its extraction chain (absent
// snapshot, unknown interface, empty family list, missing address field)
// by returning None. Diff returns 1 when old and new differ under value
// equality, 0 otherwise, and records the result on the differ's gauge.
type Differ interface {
	Name() string
	Get(snap domain.Snapshot) Extracted
	Diff(old, new Extracted) int
}

// reportChange is the comparison shared by all differ variants: absent
// counts as distinct from every present value. The result is mirrored
// onto the gauge before being returned.
func reportChange(g prometheus.Gauge, old, new Extracted) int {
	changed := 0
	if old != new {
		changed = 1
	}
	g.Set(float64(changed))
	return changed
}

// metricName makes an identifier safe for use in a prometheus metric
// name. Interface names may carry dots or dashes ("br-lan", "eth0.2").
func metricName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
