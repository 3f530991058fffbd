// Package mdns advertises the reading club server on the local network so
// group members can find it without typing an address.
package mdns

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/hashicorp/mdns"
)

const (
	// ServiceType is the mDNS service type for reading club servers.
	ServiceType = "_readingclub._tcp"

	// APIVersion is the current API version advertised in TXT records.
	APIVersion = "v1"

	// ServerVersion is the server version advertised in TXT records.
	ServerVersion = "1.0.0"

	defaultInstance = "readingclub-server"
)

// Advertisement describes what is published.
type Advertisement struct {
	Name string // human-readable name, defaults to the hostname
	Port int
}

// txtRecords builds the TXT records for ad.
func txtRecords(ad Advertisement) []string {
	return []string{
		fmt.Sprintf("name=%s", ad.Name),
		fmt.Sprintf("version=%s", ServerVersion),
		fmt.Sprintf("api=%s", APIVersion),
		"path=/api",
	}
}

// Service manages mDNS advertisement for the server.
type Service struct {
	server *mdns.Server
	logger *slog.Logger
	mu     sync.Mutex
}

// NewService creates a new mDNS service.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// Start begins advertising the server via mDNS.
// It should be called after the HTTP server is listening. Errors are
// usually non-fatal (multicast is often unavailable in containers).
func (s *Service) Start(ad Advertisement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Restart if already running.
	if s.server != nil {
		_ = s.server.Shutdown()
		s.server = nil
	}

	host, err := os.Hostname()
	if err != nil {
		host = defaultInstance
	}
	if ad.Name == "" {
		ad.Name = host
	}

	service, err := mdns.NewMDNSService(
		host,        // instance
		ServiceType, // service
		"",          // domain (.local)
		"",          // host (system hostname)
		ad.Port,
		nil, // IPs (all interfaces)
		txtRecords(ad),
	)
	if err != nil {
		return fmt.Errorf("create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("start mDNS server: %w", err)
	}
	s.server = server

	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"port", ad.Port,
		"name", ad.Name,
	)
	return nil
}

// Running reports whether an advertisement is active.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server != nil
}

// Stop stops mDNS advertising.
// Safe to call multiple times or if not started.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		_ = s.server.Shutdown()
		s.server = nil
		s.logger.Info("mDNS advertisement stopped")
	}
}
