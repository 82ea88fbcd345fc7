package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Server represents a discovered manual lookup service
type Server struct {
	// Instance is the advertised service instance name (e.g., "Workshop manuals")
	Instance string

	// Host is the mDNS hostname (e.g., "manuals.local.")
	Host string

	// IP is the preferred address, IPv4 when available
	IP string

	// Port is the HTTP port
	Port int

	// Metadata contains the TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the service answered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, strings.TrimSuffix(s.Host, "."), net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
}

// BaseURL returns the service root, honouring the scheme and path TXT keys.
func (s *Server) BaseURL() string {
	scheme := s.GetMetadata("scheme")
	if scheme != "https" {
		scheme = "http"
	}
	base := fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
	if path := strings.Trim(s.GetMetadata("path"), "/"); path != "" {
		base += "/" + path
	}
	return base
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
