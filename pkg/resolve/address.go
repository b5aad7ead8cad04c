package resolve

import (
	"fmt"
	"net"
	"net/netip"
)

// Family is the protocol version of a resolved address
type Family int

const (
	IPv4 Family = 4
	IPv6 Family = 6
)

func (f Family) String() string {
	switch f {
	case IPv4:
		return "IPv4"
	case IPv6:
		return "IPv6"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// Address is a single resolved address.  The only implementations are V4 and V6.
type Address interface {
	Family() Family
	Addr() netip.Addr
	isAddress()
}

// V4 is an IPv4 address in network byte order
type V4 [4]byte

// V6 is an IPv6 address in network byte order
type V6 [16]byte

func (V4) Family() Family { return IPv4 }
func (V6) Family() Family { return IPv6 }

func (a V4) Addr() netip.Addr { return netip.AddrFrom4(a) }
func (a V6) Addr() netip.Addr { return netip.AddrFrom16(a) }

func (V4) isAddress() {}
func (V6) isAddress() {}

// FromIP converts a net.IP as returned by the resolver.  IPv4 answers arrive in 16-byte form,
// so anything with a valid To4 is reported as IPv4.
func FromIP(ip net.IP) (Address, error) {
	if ip4 := ip.To4(); ip4 != nil {
		return V4(ip4), nil
	}
	if len(ip) == net.IPv6len {
		return V6(ip), nil
	}
	return nil, fmt.Errorf("invalid IP address length %d", len(ip))
}

// FromAddr converts a netip.Addr.  Unlike FromIP, a 4-in-6 address stays IPv6.
func FromAddr(addr netip.Addr) (Address, error) {
	switch {
	case addr.Is4():
		return V4(addr.As4()), nil
	case addr.Is6():
		return V6(addr.As16()), nil
	}
	return nil, fmt.Errorf("invalid address")
}
