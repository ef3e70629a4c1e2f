package ifsource

import (
	"testing"

	"github.com/mgomezch/netifmon/internal/domain"
)

func TestParseAddr(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		broadcast bool
		want      domain.AddrEntry
		wantV6    bool
		wantOK    bool
	}{
		{
			name:      "ipv4 with prefix and broadcast",
			input:     "192.0.2.5/24",
			broadcast: true,
			want:      domain.AddrEntry{Addr: "192.0.2.5", Netmask: "255.255.255.0", Broadcast: "192.0.2.255"},
		},
		{
			name:  "ipv4 without broadcast flag",
			input: "192.0.2.5/24",
			want:  domain.AddrEntry{Addr: "192.0.2.5", Netmask: "255.255.255.0"},
		},
		{
			name:   "ipv6 global",
			input:  "2001:db8::1/64",
			want:   domain.AddrEntry{Addr: "2001:db8::1", Netmask: "ffff:ffff:ffff:ffff::"},
			wantV6: true,
		},
		{
			name:   "ipv6 link-local with zone",
			input:  "fe80::1%eth0/64",
			want:   domain.AddrEntry{Addr: "fe80::1", Netmask: "ffff:ffff:ffff:ffff::"},
			wantV6: true,
		},
		{
			name:  "bare address without prefix",
			input: "10.0.0.1",
			want:  domain.AddrEntry{Addr: "10.0.0.1"},
		},
		{
			name:  "garbage is skipped",
			input: "not-an-address",
		},
		{
			name:  "bad prefix length keeps the address",
			input: "10.0.0.1/99",
			want:  domain.AddrEntry{Addr: "10.0.0.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantOK := tt.want != (domain.AddrEntry{})
			entry, v6, ok := parseAddr(tt.input, tt.broadcast)
			if ok != wantOK {
				t.Fatalf("parseAddr(%q) ok = %v, want %v", tt.input, ok, wantOK)
			}
			if entry != tt.want {
				t.Errorf("parseAddr(%q) = %+v, want %+v", tt.input, entry, tt.want)
			}
			if v6 != tt.wantV6 {
				t.Errorf("parseAddr(%q) v6 = %v, want %v", tt.input, v6, tt.wantV6)
			}
		})
	}
}

func TestHasFlag(t *testing.T) {
	flags := []string{"up", "broadcast", "multicast"}
	if !hasFlag(flags, "broadcast") {
		t.Error("expected broadcast flag to be found")
	}
	if !hasFlag(flags, "UP") {
		t.Error("expected flag match to be case-insensitive")
	}
	if hasFlag(flags, "loopback") {
		t.Error("did not expect loopback flag")
	}
}
