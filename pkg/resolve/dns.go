package resolve

import (
	"context"
	"fmt"
	"github.com/miekg/dns"
	log "github.com/sirupsen/logrus"
	"net"
	"net/netip"
	"strconv"
)

// DefaultResolvConf is where nameservers and the search list are read from when no server is given
const DefaultResolvConf = "/etc/resolv.conf"

// DNSResolver queries nameservers directly, bypassing the platform facility.  For each candidate name
// from the search list it asks for A and then AAAA records, so IPv4 answers precede IPv6 answers.
type DNSResolver struct {
	servers []string
	config  *dns.ClientConfig
	client  *dns.Client
}

// NewDNSResolver creates a DNSResolver.  If server is empty, nameservers are taken from resolvConf.
// The search list and ndots setting come from resolvConf whenever it can be read.
func NewDNSResolver(server string, network string, resolvConf string) (*DNSResolver, error) {
	switch network {
	case "":
		network = "udp"
	case "udp", "tcp", "tcp-tls":
	default:
		return nil, fmt.Errorf("invalid dns transport: %s", network)
	}
	if resolvConf == "" {
		resolvConf = DefaultResolvConf
	}
	cc, err := dns.ClientConfigFromFile(resolvConf)
	if err != nil {
		if server == "" {
			return nil, fmt.Errorf("error reading %s: %w", resolvConf, err)
		}
		log.Debugf("could not read %s, using no search list: %s", resolvConf, err)
		cc = &dns.ClientConfig{Ndots: 1, Port: "53"}
	}
	var servers []string
	if server != "" {
		servers = []string{withDefaultPort(server, network)}
	} else {
		for _, s := range cc.Servers {
			servers = append(servers, net.JoinHostPort(s, cc.Port))
		}
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("no nameservers configured")
	}
	return &DNSResolver{
		servers: servers,
		config:  cc,
		client:  &dns.Client{Net: network},
	}, nil
}

func withDefaultPort(server string, network string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	port := 53
	if network == "tcp-tls" {
		port = 853
	}
	return net.JoinHostPort(server, strconv.Itoa(port))
}

// Servers returns the nameservers queried, in order
func (d *DNSResolver) Servers() []string {
	return append([]string(nil), d.servers...)
}

// Resolve implements Resolver
func (d *DNSResolver) Resolve(ctx context.Context, hostname string) (*Result, error) {
	if addr, err := netip.ParseAddr(hostname); err == nil {
		rec, err := FromAddr(addr)
		if err != nil {
			return nil, newResolutionError(hostname, CodeFamily, "", err)
		}
		return NewResult([]Address{rec}, nil), nil
	}
	var lastCode Code = CodeNoName
	var lastErr error
	for _, name := range d.config.NameList(hostname) {
		records, code, err := d.resolveName(ctx, name)
		if len(records) > 0 {
			log.Debugf("%s resolved as %s to %d addresses", hostname, name, len(records))
			return NewResult(records, nil), nil
		}
		if ctx.Err() != nil {
			return nil, newResolutionError(hostname, CodeAgain, "", ctx.Err())
		}
		// A transient failure or a name that exists outranks a plain NXDOMAIN from a later candidate
		if lastCode == CodeNoName || code == CodeAgain {
			lastCode = code
			lastErr = err
		}
	}
	return nil, newResolutionError(hostname, lastCode, "", lastErr)
}

// resolveName looks up A and AAAA records for a fully qualified name
func (d *DNSResolver) resolveName(ctx context.Context, name string) ([]Address, Code, error) {
	var records []Address
	code := CodeNoData
	var firstErr error
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		resp, err := d.exchange(ctx, name, qtype)
		if err != nil {
			log.Debugf("%s query for %s failed: %s", dns.TypeToString[qtype], name, err)
			code = CodeAgain
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		switch resp.Rcode {
		case dns.RcodeSuccess:
		case dns.RcodeNameError:
			return nil, CodeNoName, nil
		case dns.RcodeServerFailure, dns.RcodeRefused:
			code = CodeAgain
			continue
		default:
			if code != CodeAgain {
				code = CodeFail
			}
			continue
		}
		for _, rr := range resp.Answer {
			switch rr := rr.(type) {
			case *dns.A:
				if ip4 := rr.A.To4(); ip4 != nil {
					records = append(records, V4(ip4))
				}
			case *dns.AAAA:
				if ip6 := rr.AAAA.To16(); ip6 != nil {
					records = append(records, V6(ip6))
				}
			}
		}
	}
	return records, code, firstErr
}

// exchange sends one query, trying each server in turn until one answers
func (d *DNSResolver) exchange(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	m := new(dns.Msg)
	m.SetQuestion(name, qtype)
	m.RecursionDesired = true
	var lastErr error
	for _, server := range d.servers {
		resp, _, err := d.client.ExchangeContext(ctx, m, server)
		if err == nil && resp.Truncated && d.client.Net == "udp" {
			log.Debugf("truncated response from %s, retrying over tcp", server)
			tcpClient := &dns.Client{Net: "tcp", Timeout: d.client.Timeout}
			resp, _, err = tcpClient.ExchangeContext(ctx, m, server)
		}
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}
