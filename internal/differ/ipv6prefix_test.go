package differ

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mgomezch/netifmon/internal/domain"
	"github.com/mgomezch/netifmon/internal/metrics"
)

func newTestDiffer(t *testing.T) *IPv6Prefix {
	t.Helper()
	return NewIPv6Prefix(metrics.New(), "eth0", 64)
}

func snapWithIPv6(iface string, addrs ...string) domain.Snapshot {
	entries := make([]domain.AddrEntry, 0, len(addrs))
	for _, a := range addrs {
		entries = append(entries, domain.AddrEntry{Addr: a})
	}
	return domain.Snapshot{iface: domain.InterfaceAddrs{IPv6: entries}}
}

func TestIPv6PrefixGet(t *testing.T) {
	d := newTestDiffer(t)

	tests := []struct {
		name string
		snap domain.Snapshot
		want Extracted
	}{
		{name: "absent snapshot", snap: nil, want: None},
		{name: "interface missing", snap: domain.Snapshot{"wlan0": {}}, want: None},
		{name: "no ipv6 addresses", snap: domain.Snapshot{"eth0": {IPv4: []domain.AddrEntry{{Addr: "10.0.0.1"}}}}, want: None},
		{name: "empty ipv6 list", snap: domain.Snapshot{"eth0": {IPv6: []domain.AddrEntry{}}}, want: None},
		{name: "first entry has empty addr", snap: snapWithIPv6("eth0", ""), want: None},
		{name: "unparseable address", snap: snapWithIPv6("eth0", "nonsense"), want: None},
		{name: "masks to network prefix", snap: snapWithIPv6("eth0", "2001:db8::1"), want: Some("2001:db8::")},
		{name: "zone suffix stripped", snap: snapWithIPv6("eth0", "fe80::1%eth0"), want: Some("fe80::")},
		{name: "only first entry considered", snap: snapWithIPv6("eth0", "2001:db8:1::1", "2001:db8:2::1"), want: Some("2001:db8:1::")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Get(tt.snap); got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIPv6PrefixGetPrefixLength(t *testing.T) {
	d := NewIPv6Prefix(metrics.New(), "eth0", 48)
	got := d.Get(snapWithIPv6("eth0", "2001:db8:abcd:1234::1"))
	if want := Some("2001:db8:abcd::"); got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestIPv6PrefixDiff(t *testing.T) {
	d := newTestDiffer(t)

	tests := []struct {
		name     string
		old, new Extracted
		want     int
	}{
		{name: "both absent", old: None, new: None, want: 0},
		{name: "absent to present", old: None, new: Some("2001:db8::"), want: 1},
		{name: "present to absent", old: Some("2001:db8::"), new: None, want: 1},
		{name: "same value", old: Some("2001:db8::"), new: Some("2001:db8::"), want: 0},
		{name: "different values", old: Some("2001:db8::"), new: Some("2001:db9::"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Diff(tt.old, tt.new); got != tt.want {
				t.Errorf("Diff(%+v, %+v) = %d, want %d", tt.old, tt.new, got, tt.want)
			}
		})
	}
}

// Address changes within the same prefix must not report a change; the
// extracted value is the masked network, not the address.
func TestIPv6PrefixSamePrefixDifferentAddress(t *testing.T) {
	d := newTestDiffer(t)

	old := d.Get(snapWithIPv6("eth0", "2001:db8::1"))
	new := d.Get(snapWithIPv6("eth0", "2001:db8::2"))
	if got := d.Diff(old, new); got != 0 {
		t.Errorf("Diff() = %d, want 0 for same-prefix address change", got)
	}
}

func TestIPv6PrefixName(t *testing.T) {
	d := NewIPv6Prefix(metrics.New(), "br-lan.2", 56)
	if got, want := d.Name(), "ipv6_prefix_br_lan_2_56"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
}

// The diff result must be visible on the scrape surface as a
// "<name>_changed" gauge holding 0 or 1.
func TestIPv6PrefixDiffExportedGauge(t *testing.T) {
	m := metrics.New()
	d := NewIPv6Prefix(m, "eth0", 64)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	scrape := func(t *testing.T) string {
		t.Helper()
		resp, err := http.Get(srv.URL)
		if err != nil {
			t.Fatalf("scrape: %v", err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read scrape body: %v", err)
		}
		return string(body)
	}

	d.Diff(None, d.Get(snapWithIPv6("eth0", "2001:db8::1")))
	if body := scrape(t); !strings.Contains(body, "ipv6_prefix_eth0_64_changed 1") {
		t.Errorf("scrape after change missing gauge at 1:\n%s", body)
	}

	v := d.Get(snapWithIPv6("eth0", "2001:db8::1"))
	d.Diff(v, v)
	if body := scrape(t); !strings.Contains(body, "ipv6_prefix_eth0_64_changed 0") {
		t.Errorf("scrape after no-change missing gauge at 0:\n%s", body)
	}
}
