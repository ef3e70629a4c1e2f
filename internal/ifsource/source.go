// Package ifsource queries the operating system for the current set of
// network interfaces and their assigned addresses.
package ifsource

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	gnet "github.com/shirou/gopsutil/v3/net"

	"github.com/mgomezch/netifmon/internal/domain"
)

// Source produces a fresh snapshot of interface data. Implementations
// must return an error rather than a partial snapshot when the query
// cannot be completed.
type Source interface {
	Capture(ctx context.Context) (domain.Snapshot, error)
}

// SystemSource captures interface data from the local OS via gopsutil.
type SystemSource struct{}

// Capture enumerates all interfaces and classifies their addresses by
// family. Addresses that do not parse are skipped; an interface with no
// parseable addresses still appears in the snapshot with empty lists.
func (SystemSource) Capture(ctx context.Context) (domain.Snapshot, error) {
	ifaces, err := gnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}

	snap := make(domain.Snapshot, len(ifaces))
	for _, ifc := range ifaces {
		var rec domain.InterfaceAddrs
		hasBroadcast := hasFlag(ifc.Flags, "broadcast")
		for _, a := range ifc.Addrs {
			entry, v6, ok := parseAddr(a.Addr, hasBroadcast)
			if !ok {
				continue
			}
			if v6 {
				rec.IPv6 = append(rec.IPv6, entry)
			} else {
				rec.IPv4 = append(rec.IPv4, entry)
			}
		}
		snap[ifc.Name] = rec
	}
	return snap, nil
}

// parseAddr turns an OS-reported address string ("192.0.2.5/24",
// "fe80::1%eth0/64", or a bare address) into an AddrEntry. The zone
// suffix is dropped; netmask and IPv4 broadcast are derived from the
// prefix length when one is present.
func parseAddr(s string, wantBroadcast bool) (entry domain.AddrEntry, v6 bool, ok bool) {
	ipStr, plenStr, hasLen := strings.Cut(s, "/")
	if i := strings.IndexByte(ipStr, '%'); i >= 0 {
		ipStr = ipStr[:i]
	}

	ip, err := netip.ParseAddr(ipStr)
	if err != nil {
		return domain.AddrEntry{}, false, false
	}
	ip = ip.Unmap()

	entry = domain.AddrEntry{Addr: ip.String()}
	if hasLen {
		if plen, err := strconv.Atoi(plenStr); err == nil && plen >= 0 && plen <= ip.BitLen() {
			mask := net.CIDRMask(plen, ip.BitLen())
			entry.Netmask = net.IP(mask).String()
			if ip.Is4() && wantBroadcast {
				entry.Broadcast = broadcastAddr(ip, mask)
			}
		}
	}
	return entry, ip.Is6(), true
}

func broadcastAddr(ip netip.Addr, mask net.IPMask) string {
	a4 := ip.As4()
	for i := range a4 {
		a4[i] |= ^mask[i]
	}
	return netip.AddrFrom4(a4).String()
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}
