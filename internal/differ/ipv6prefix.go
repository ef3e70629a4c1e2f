package differ

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mgomezch/netifmon/internal/domain"
	"github.com/mgomezch/netifmon/internal/metrics"
)

// IPv6Prefix extracts the network prefix of the first IPv6 address
// assigned to a configured interface by masking it with a configured
// prefix length.
//
// This approximates prefix delegation: the assigned address is not
// guaranteed to lie inside the delegated prefix, which would have to
// come from routes or DHCP logs to be authoritative. Only the first
// IPv6 entry for the interface is considered; later entries are
// ignored on purpose.
type IPv6Prefix struct {
	iface string
	plen  int
	gauge prometheus.Gauge
}

// NewIPv6Prefix builds the differ and registers its gauge.
func NewIPv6Prefix(m *metrics.Metrics, iface string, plen int) *IPv6Prefix {
	d := &IPv6Prefix{iface: iface, plen: plen}
	d.gauge = m.ChangeGauge(d.Name(),
		fmt.Sprintf("First IPv6 address of the %s network interface changed", iface))
	return d
}

// Name identifies this differ in the diff map and the gauge name.
func (d *IPv6Prefix) Name() string {
	return fmt.Sprintf("ipv6_prefix_%s_%d", metricName(d.iface), d.plen)
}

// Get walks the extraction chain in a fixed order, returning None at the
// first missing link: snapshot -> interface entry -> IPv6 list -> first
// entry's address -> parseable address -> masked network prefix.
func (d *IPv6Prefix) Get(snap domain.Snapshot) Extracted {
	if snap == nil {
		return None
	}
	rec, ok := snap[d.iface]
	if !ok {
		return None
	}
	if len(rec.IPv6) == 0 {
		return None
	}
	addr := rec.IPv6[0].Addr
	if addr == "" {
		return None
	}
	if i := strings.IndexByte(addr, '%'); i >= 0 {
		addr = addr[:i]
	}
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return None
	}
	pfx, err := ip.Prefix(d.plen)
	if err != nil {
		return None
	}
	return Some(pfx.Addr().String())
}

// Diff reports 1 when the extracted prefix changed, 0 otherwise, and
// sets the gauge accordingly.
func (d *IPv6Prefix) Diff(old, new Extracted) int {
	return reportChange(d.gauge, old, new)
}
