// Package resolve looks up the addresses associated with a hostname.
package resolve

import (
	"context"
	"fmt"
)

// Resolver looks up all addresses of any family for a hostname.  The hostname is used verbatim.
type Resolver interface {
	Resolve(ctx context.Context, hostname string) (*Result, error)
}

const (
	KindSystem = "system"
	KindDNS    = "dns"
)

// Options selects and configures a Resolver
type Options struct {
	// Kind is KindSystem or KindDNS.  Empty means KindSystem.
	Kind string
	// PreferGo makes the system resolver use Go's built-in DNS client instead of the C library
	PreferGo bool
	// Server is the nameserver used by the dns resolver, as host or host:port.  If empty,
	// the servers from ResolvConf are used.
	Server string
	// Net is the dns resolver's transport: udp, tcp or tcp-tls
	Net string
	// ResolvConf is the path of the resolver configuration file for the dns resolver
	ResolvConf string
}

// New creates a Resolver from options
func New(opts Options) (Resolver, error) {
	switch opts.Kind {
	case "", KindSystem:
		return NewSystemResolver(opts.PreferGo), nil
	case KindDNS:
		return NewDNSResolver(opts.Server, opts.Net, opts.ResolvConf)
	}
	return nil, fmt.Errorf("unknown resolver type: %s", opts.Kind)
}
