package resolve

import (
	"context"
	"errors"
	log "github.com/sirupsen/logrus"
	"net"
)

// SystemResolver uses the platform's name resolution facility.  When Go uses the C library resolver,
// this is getaddrinfo with AF_UNSPEC and SOCK_STREAM hints, so each address is reported once.
type SystemResolver struct {
	resolver *net.Resolver
}

// NewSystemResolver creates a SystemResolver.  If preferGo is set, Go's built-in DNS client is used
// even where the C library resolver is available.
func NewSystemResolver(preferGo bool) *SystemResolver {
	r := net.DefaultResolver
	if preferGo {
		r = &net.Resolver{PreferGo: true}
	}
	return &SystemResolver{resolver: r}
}

// Resolve implements Resolver
func (s *SystemResolver) Resolve(ctx context.Context, hostname string) (*Result, error) {
	log.Debugf("resolving %s with the system resolver", hostname)
	addrs, err := s.resolver.LookupIPAddr(ctx, hostname)
	if err != nil {
		return nil, systemError(hostname, err)
	}
	if len(addrs) == 0 {
		return nil, newResolutionError(hostname, CodeNoData, "", nil)
	}
	records := make([]Address, 0, len(addrs))
	for _, a := range addrs {
		rec, err := FromIP(a.IP)
		if err != nil {
			return nil, newResolutionError(hostname, CodeFamily, "", err)
		}
		records = append(records, rec)
	}
	log.Debugf("system resolver returned %d addresses for %s", len(records), hostname)
	return NewResult(records, nil), nil
}

func systemError(hostname string, err error) *ResolutionError {
	var dnsErr *net.DNSError
	if !errors.As(err, &dnsErr) {
		return newResolutionError(hostname, CodeSystem, err.Error(), err)
	}
	var code Code
	switch {
	case dnsErr.IsNotFound:
		code = CodeNoName
	case dnsErr.IsTimeout || dnsErr.IsTemporary:
		code = CodeAgain
	default:
		code = CodeFail
	}
	return newResolutionError(hostname, code, dnsErr.Err, err)
}
