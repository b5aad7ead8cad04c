package present

import (
	"errors"
	"fmt"
	"github.com/ghjm/showip/pkg/resolve"
	"math/rand"
	"net/netip"
	"strings"
	"testing"
)

// bogus is a record whose variant the presenter does not know
type bogus struct {
	resolve.V4
}

func (bogus) Family() resolve.Family { return resolve.Family(99) }

func TestFormatIPv4(t *testing.T) {
	tests := []struct {
		addr resolve.V4
		want string
	}{
		{resolve.V4{93, 184, 216, 34}, "93.184.216.34"},
		{resolve.V4{0, 0, 0, 0}, "0.0.0.0"},
		{resolve.V4{255, 255, 255, 255}, "255.255.255.255"},
		{resolve.V4{10, 0, 1, 8}, "10.0.1.8"},
	}
	for _, tt := range tests {
		got, err := Format(tt.addr)
		if err != nil {
			t.Errorf("error formatting %v: %s", tt.addr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("formatted %v as %s, expected %s", tt.addr, got, tt.want)
		}
	}
}

func mustV6(s string) resolve.V6 {
	return resolve.V6(netip.MustParseAddr(s).As16())
}

func TestFormatIPv6(t *testing.T) {
	tests := []struct {
		addr resolve.V6
		want string
	}{
		{resolve.V6{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, "::1"},
		{resolve.V6{}, "::"},
		{mustV6("2001:0DB8:0000:0000:0000:0000:0000:0001"), "2001:db8::1"},
		{mustV6("2001:db8:0:0:1:0:0:1"), "2001:db8::1:0:0:1"},
		{mustV6("2001:0:0:1:0:0:0:1"), "2001:0:0:1::1"},
		{mustV6("2001:db8:0:1:1:1:1:1"), "2001:db8:0:1:1:1:1:1"},
		{mustV6("fe80::ABCD:EF01"), "fe80::abcd:ef01"},
		{mustV6("1:0:0:0:0:0:0:0"), "1::"},
		{mustV6("::ffff:192.0.2.1"), "::ffff:192.0.2.1"},
	}
	for _, tt := range tests {
		got, err := Format(tt.addr)
		if err != nil {
			t.Errorf("error formatting %v: %s", tt.addr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("formatted %v as %s, expected %s", tt.addr, got, tt.want)
		}
	}
}

func TestIPv4RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		var a resolve.V4
		rng.Read(a[:])
		s, err := Format(a)
		if err != nil {
			t.Fatalf("error formatting %v: %s", a, err)
		}
		p, err := netip.ParseAddr(s)
		if err != nil {
			t.Fatalf("error parsing %s: %s", s, err)
		}
		if !p.Is4() || p.As4() != a {
			t.Fatalf("%v formatted as %s, which parses back to %v", a, s, p)
		}
	}
}

// randomV6 returns an address where each group is zero half the time, so that runs of zeros are common
func randomV6(rng *rand.Rand) resolve.V6 {
	var a resolve.V6
	for g := 0; g < 8; g++ {
		if rng.Intn(2) == 0 {
			continue
		}
		a[2*g] = byte(rng.Intn(256))
		a[2*g+1] = byte(rng.Intn(256))
		if a[2*g] == 0 && a[2*g+1] == 0 {
			a[2*g+1] = 1
		}
	}
	return a
}

// zeroRun returns the start and length of the longest run of zero groups, leftmost on ties
func zeroRun(a resolve.V6) (int, int) {
	bestStart, bestLen := -1, 0
	for g := 0; g < 8; {
		if a[2*g] != 0 || a[2*g+1] != 0 {
			g++
			continue
		}
		start := g
		for g < 8 && a[2*g] == 0 && a[2*g+1] == 0 {
			g++
		}
		if g-start > bestLen {
			bestStart, bestLen = start, g-start
		}
	}
	return bestStart, bestLen
}

func TestIPv6RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		a := randomV6(rng)
		if i%10 == 0 {
			rng.Read(a[:])
		}
		s, err := Format(a)
		if err != nil {
			t.Fatalf("error formatting %v: %s", a, err)
		}
		p, err := netip.ParseAddr(s)
		if err != nil {
			t.Fatalf("error parsing %s: %s", s, err)
		}
		if p.As16() != a {
			t.Fatalf("%v formatted as %s, which parses back to %v", a, s, p)
		}
		if strings.Count(s, "::") > 1 {
			t.Fatalf("%s has more than one ::", s)
		}
		if s != strings.ToLower(s) {
			t.Fatalf("%s is not lower case", s)
		}
		if p.Is4In6() {
			continue
		}
		start, length := zeroRun(a)
		if length < 2 {
			if strings.Contains(s, "::") {
				t.Fatalf("%s compresses a run shorter than two groups", s)
			}
			continue
		}
		before := strings.SplitN(s, "::", 2)[0]
		groupsBefore := 0
		if before != "" {
			groupsBefore = strings.Count(before, ":") + 1
		}
		if groupsBefore != start {
			t.Fatalf("%s compresses at group %d, expected the run at group %d", s, groupsBefore, start)
		}
	}
}

func TestLine(t *testing.T) {
	line, err := Line(resolve.V4{93, 184, 216, 34})
	if err != nil {
		t.Fatalf("error: %s", err)
	}
	if line != "  IPv4: 93.184.216.34" {
		t.Errorf("unexpected line %q", line)
	}
	line, err = Line(mustV6("::1"))
	if err != nil {
		t.Fatalf("error: %s", err)
	}
	if line != "  IPv6: ::1" {
		t.Errorf("unexpected line %q", line)
	}
}

func TestPresentEmpty(t *testing.T) {
	lines, err := Present(nil)
	if err != nil {
		t.Fatalf("error presenting empty records: %s", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(lines))
	}
	lines, err = Present([]resolve.Address{})
	if err != nil || len(lines) != 0 {
		t.Fatalf("expected no lines and no error, got %v, %v", lines, err)
	}
}

func TestPresentOrder(t *testing.T) {
	records := []resolve.Address{
		mustV6("2606:2800:220:1:248:1893:25c8:1946"),
		resolve.V4{93, 184, 216, 34},
		resolve.V4{192, 0, 2, 1},
		mustV6("::1"),
	}
	want := []string{
		"  IPv6: 2606:2800:220:1:248:1893:25c8:1946",
		"  IPv4: 93.184.216.34",
		"  IPv4: 192.0.2.1",
		"  IPv6: ::1",
	}
	lines, err := Present(records)
	if err != nil {
		t.Fatalf("error presenting records: %s", err)
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, expected %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d is %q, expected %q", i, lines[i], want[i])
		}
	}
	again, _ := Present(records)
	if fmt.Sprint(again) != fmt.Sprint(lines) {
		t.Errorf("presenting the same records twice gave different results")
	}
}

func TestPresentUnsupportedFamily(t *testing.T) {
	for _, bad := range []resolve.Address{nil, bogus{}} {
		records := []resolve.Address{resolve.V4{192, 0, 2, 1}, bad, resolve.V4{192, 0, 2, 2}}
		lines, err := Present(records)
		var ufe *UnsupportedFamilyError
		if !errors.As(err, &ufe) {
			t.Errorf("expected UnsupportedFamilyError for %v, got %v", bad, err)
		}
		if len(lines) != 0 {
			t.Errorf("expected no lines, got %d", len(lines))
		}
	}
}
