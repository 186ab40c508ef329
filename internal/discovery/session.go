package discovery

import (
	"fmt"
	"time"
)

// Session represents a dev server session found on the network
type Session struct {
	// Instance is the mDNS instance name (e.g., "devterm-myapp")
	Instance string

	// Project is the project name from the TXT records
	Project string

	// Hostname is the mDNS hostname of the machine running the session
	Hostname string

	// IP is the address of the session, IPv4 preferred
	IP string

	// Port is the bundler port
	Port int

	// URL is the project URL a device should open
	URL string

	// Metadata contains all mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the session was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the session
func (s *Session) String() string {
	return fmt.Sprintf("%s (%s) at %s:%d", s.Project, s.Instance, s.IP, s.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Session) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
