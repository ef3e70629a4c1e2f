package domain

// AddrEntry is a single address assigned to an interface. Netmask and
// Broadcast are optional metadata; Addr is the only field extraction
// relies on.
type AddrEntry struct {
	Addr      string `json:"addr" yaml:"addr"`
	Netmask   string `json:"netmask,omitempty" yaml:"netmask,omitempty"`
	Broadcast string `json:"broadcast,omitempty" yaml:"broadcast,omitempty"`
}

// InterfaceAddrs groups an interface's addresses by family. The slices
// preserve the order the OS reported them in; differs only look at the
// first entry of a family.
type InterfaceAddrs struct {
	IPv4 []AddrEntry `json:"ipv4,omitempty" yaml:"ipv4,omitempty"`
	IPv6 []AddrEntry `json:"ipv6,omitempty" yaml:"ipv6,omitempty"`
}

// Snapshot is a point-in-time capture of interface name -> address data.
// A nil Snapshot means "absent" (no capture yet). Snapshots are built
// fresh on every refresh and never mutated afterwards; the previous one
// is only kept as the diff baseline.
type Snapshot map[string]InterfaceAddrs

// Equal reports whether two snapshots carry the same interfaces and
// addresses. nil and empty compare equal.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for name, rec := range s {
		o, ok := other[name]
		if !ok || !entriesEqual(rec.IPv4, o.IPv4) || !entriesEqual(rec.IPv6, o.IPv6) {
			return false
		}
	}
	return true
}

func entriesEqual(a, b []AddrEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
