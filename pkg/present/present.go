// Package present renders resolved addresses as text.
package present

import (
	"fmt"
	"github.com/ghjm/showip/pkg/resolve"
)

// UnsupportedFamilyError is returned for a record that is neither IPv4 nor IPv6
type UnsupportedFamilyError struct {
	Record resolve.Address
}

func (e *UnsupportedFamilyError) Error() string {
	if e.Record == nil {
		return "unsupported address family: nil record"
	}
	return fmt.Sprintf("unsupported address family: %s", e.Record.Family())
}

// Format returns the standard presentation form of an address: dotted decimal for IPv4,
// and RFC 5952 compressed form for IPv6.  IPv4-mapped IPv6 addresses are written as ::ffff:a.b.c.d.
func Format(addr resolve.Address) (string, error) {
	switch a := addr.(type) {
	case resolve.V4:
		return a.Addr().String(), nil
	case resolve.V6:
		return a.Addr().String(), nil
	}
	return "", &UnsupportedFamilyError{Record: addr}
}

// Tag returns the label printed in front of an address
func Tag(addr resolve.Address) (string, error) {
	switch addr.(type) {
	case resolve.V4:
		return resolve.IPv4.String(), nil
	case resolve.V6:
		return resolve.IPv6.String(), nil
	}
	return "", &UnsupportedFamilyError{Record: addr}
}

// Line formats one output line
func Line(addr resolve.Address) (string, error) {
	tag, err := Tag(addr)
	if err != nil {
		return "", err
	}
	text, err := Format(addr)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("  %s: %s", tag, text), nil
}

// Present formats one line per record, in order.  If any record cannot be presented, no lines
// are returned.
func Present(records []resolve.Address) ([]string, error) {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		line, err := Line(rec)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Header returns the text printed before the address lines
func Header(hostname string) string {
	return fmt.Sprintf("IP addresses for %s:\n\n", hostname)
}
