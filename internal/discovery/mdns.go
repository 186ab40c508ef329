package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/muurk/devterm/internal/logging"
	"go.uber.org/zap"
)

const (
	// ServiceType is the mDNS service type dev server sessions advertise
	ServiceType = "_devterm._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for session discovery
	DefaultScanTimeout = 5 * time.Second

	// InstancePrefix prefixes every advertised instance name
	InstancePrefix = "devterm-"
)

var unsafeInstanceChars = regexp.MustCompile(`[^a-z0-9-]+`)

// InstanceName derives the mDNS instance name for a project directory
func InstanceName(projectDir string) string {
	base := strings.ToLower(filepath.Base(filepath.Clean(projectDir)))
	base = strings.Trim(unsafeInstanceChars.ReplaceAllString(base, "-"), "-")
	if base == "" || base == "." {
		base = "project"
	}
	return InstancePrefix + base
}

// Advertisement is a registered mDNS service
type Advertisement struct {
	Instance string
	server   *zeroconf.Server
}

// Advertise registers the session on the local network until Shutdown is
// called.
func Advertise(projectDir string, port int, projectURL, version string) (*Advertisement, error) {
	if port <= 0 {
		return nil, fmt.Errorf("invalid port %d", port)
	}

	instance := InstanceName(projectDir)
	txt := []string{
		"project=" + filepath.Base(filepath.Clean(projectDir)),
		"url=" + projectURL,
		"version=" + version,
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising session",
		zap.String("instance", instance),
		zap.Int("port", port),
		zap.String("url", projectURL),
	)
	return &Advertisement{Instance: instance, server: server}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	logging.Debug("Advertisement withdrawn", zap.String("instance", a.Instance))
}

// Scanner handles mDNS session discovery
type Scanner struct {
	// Timeout is the maximum time to wait for sessions
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers all sessions on the local network until the timeout or
// ctx ends.
func (s *Scanner) Scan(ctx context.Context) ([]*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu       sync.Mutex
		sessions []*Session
		seen     = make(map[string]bool)
	)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			session := parseServiceEntry(entry)
			if session == nil {
				continue
			}
			mu.Lock()
			if !seen[session.Instance] {
				seen[session.Instance] = true
				sessions = append(sessions, session)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]*Session(nil), sessions...), nil
}

// parseServiceEntry converts a zeroconf service entry to a Session.
// Returns nil if the entry is not a dev server session.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Session {
	if !strings.HasPrefix(entry.Instance, InstancePrefix) {
		return nil
	}
	if entry.Port <= 0 {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	project := metadata["project"]
	if project == "" {
		project = strings.TrimPrefix(entry.Instance, InstancePrefix)
	}

	return &Session{
		Instance:     entry.Instance,
		Project:      project,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		URL:          metadata["url"],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
