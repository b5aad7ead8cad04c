// Package dnstest runs a small in-process authoritative DNS server for tests.
package dnstest

import (
	"fmt"
	"github.com/miekg/dns"
	"net"
	"sync"
	"testing"
)

// Zone maps fully qualified names to records in presentation format, e.g. "a.test. 60 IN A 192.0.2.1".
// Names not in the zone get NXDOMAIN.
type Zone map[string][]string

// Server is a running test DNS server
type Server struct {
	Addr      string
	servers   []*dns.Server
	rrs       map[string][]dns.RR
	rcodes    map[string]int
	truncated map[string]bool
	lock      sync.RWMutex
}

// Start starts a UDP server on a random localhost port.  Call Close when done.
func Start(t testing.TB, zone Zone) *Server {
	t.Helper()
	s, err := start(zone, false)
	if err != nil {
		t.Fatalf("error starting dns server: %s", err)
	}
	return s
}

// StartWithTCP is like Start, but also serves TCP on the same port
func StartWithTCP(t testing.TB, zone Zone) *Server {
	t.Helper()
	s, err := start(zone, true)
	if err != nil {
		t.Fatalf("error starting dns server: %s", err)
	}
	return s
}

func start(zone Zone, withTCP bool) (*Server, error) {
	s := &Server{
		rrs:       make(map[string][]dns.RR),
		rcodes:    make(map[string]int),
		truncated: make(map[string]bool),
	}
	for name, records := range zone {
		name = dns.CanonicalName(name)
		s.rrs[name] = []dns.RR{}
		for _, r := range records {
			rr, err := dns.NewRR(r)
			if err != nil {
				return nil, fmt.Errorf("invalid test record %q: %w", r, err)
			}
			s.rrs[name] = append(s.rrs[name], rr)
		}
	}
	pc, l, err := listen(withTCP)
	if err != nil {
		return nil, err
	}
	s.Addr = pc.LocalAddr().String()
	handler := dns.HandlerFunc(s.handle)
	s.servers = append(s.servers, &dns.Server{PacketConn: pc, Handler: handler})
	if l != nil {
		s.servers = append(s.servers, &dns.Server{Listener: l, Handler: handler})
	}
	err = activate(s.servers)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// listen opens a UDP socket on a random port and, if withTCP is set, a TCP listener on the same port
func listen(withTCP bool) (net.PacketConn, net.Listener, error) {
	var lastErr error
	for i := 0; i < 10; i++ {
		pc, err := net.ListenPacket("udp", "127.0.0.1:0")
		if err != nil {
			return nil, nil, err
		}
		if !withTCP {
			return pc, nil, nil
		}
		l, err := net.Listen("tcp", pc.LocalAddr().String())
		if err == nil {
			return pc, l, nil
		}
		lastErr = err
		_ = pc.Close()
	}
	return nil, nil, fmt.Errorf("no port free for both udp and tcp: %w", lastErr)
}

// activate starts each server and waits until all are serving or one has failed
func activate(servers []*dns.Server) error {
	errChan := make(chan error, len(servers))
	startChan := make(chan struct{}, len(servers))
	for _, srv := range servers {
		srv.NotifyStartedFunc = func() { startChan <- struct{}{} }
		go func(srv *dns.Server) {
			err := srv.ActivateAndServe()
			if err != nil {
				errChan <- err
			}
		}(srv)
	}
	for range servers {
		select {
		case err := <-errChan:
			return err
		case <-startChan:
		}
	}
	return nil
}

// SetRcode makes the server answer every query for name with rcode
func (s *Server) SetRcode(name string, rcode int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.rcodes[dns.CanonicalName(name)] = rcode
}

// SetTruncated makes UDP answers for name come back empty with the TC bit set.  TCP answers are unaffected.
func (s *Server) SetTruncated(name string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.truncated[dns.CanonicalName(name)] = true
}

// Close shuts the server down
func (s *Server) Close() {
	for _, srv := range s.servers {
		_ = srv.Shutdown()
	}
}

func (s *Server) handle(w dns.ResponseWriter, r *dns.Msg) {
	m := new(dns.Msg)
	m.SetReply(r)
	m.Authoritative = true
	_, overUDP := w.LocalAddr().(*net.UDPAddr)
	s.lock.RLock()
	defer s.lock.RUnlock()
	for _, q := range r.Question {
		name := dns.CanonicalName(q.Name)
		if rcode, ok := s.rcodes[name]; ok {
			m.Rcode = rcode
			continue
		}
		if overUDP && s.truncated[name] {
			m.Truncated = true
			continue
		}
		rrs, ok := s.rrs[name]
		if !ok {
			m.Rcode = dns.RcodeNameError
			continue
		}
		for _, rr := range rrs {
			if rr.Header().Rrtype == q.Qtype {
				m.Answer = append(m.Answer, rr)
			}
		}
	}
	_ = w.WriteMsg(m)
}
