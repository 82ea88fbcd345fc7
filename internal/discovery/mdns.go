package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/techguide/internal/logging"
)

const (
	// ServiceType is the mDNS service type of manual lookup services
	ServiceType = "_techguide._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is the default time spent listening for answers
	DefaultScanTimeout = 3 * time.Second

	// DefaultPort is used when an entry advertises no port
	DefaultPort = 5000
)

// ErrNoServers is returned by First when nothing answered in time.
var ErrNoServers = errors.New("no manual service found on the local network")

// Scanner handles mDNS service discovery
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan collects every service that answers before the timeout.
func (s *Scanner) Scan(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		servers []*Server
		seen    = make(map[string]bool)
	)
	err := s.browse(ctx, func(srv *Server) bool {
		mu.Lock()
		defer mu.Unlock()
		key := srv.Instance + "|" + srv.BaseURL()
		if !seen[key] {
			seen[key] = true
			servers = append(servers, srv)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	logging.Debug("mDNS scan finished", zap.Int("servers", len(servers)))
	return append([]*Server(nil), servers...), nil
}

// First returns the first service that answers, or ErrNoServers.
func (s *Scanner) First(ctx context.Context) (*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	found := make(chan *Server, 1)
	err := s.browse(ctx, func(srv *Server) bool {
		select {
		case found <- srv:
		default:
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	select {
	case srv := <-found:
		logging.Info("Discovered manual service", zap.String("instance", srv.Instance), zap.String("url", srv.BaseURL()))
		return srv, nil
	case <-ctx.Done():
		return nil, ErrNoServers
	}
}

// browse starts the resolver and calls visit for every parsed entry until
// visit returns false or ctx ends.
func (s *Scanner) browse(ctx context.Context, visit func(*Server) bool) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				srv := parseServiceEntry(entry)
				if srv == nil {
					continue
				}
				if !visit(srv) {
					return
				}
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}
	return nil
}

// parseServiceEntry converts a zeroconf service entry to a Server.
// Returns nil for entries without a usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	if entry == nil {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		k, v, _ := strings.Cut(txt, "=")
		if k != "" {
			metadata[k] = v
		}
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(entry.HostName, ".")
	}

	return &Server{
		Instance:     unescapeInstance(instance),
		Host:         entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// unescapeInstance removes DNS-SD escaping ("Workshop\ manuals").
func unescapeInstance(s string) string {
	return strings.ReplaceAll(s, `\`, "")
}
