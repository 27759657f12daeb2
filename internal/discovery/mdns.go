// ABOUTME: mDNS advertisement and lookup for voicepool event taps
// ABOUTME: Lets listeners find a running demo's event stream on the local network
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service type advertised for event taps
const ServiceType = "_voicepool-events._tcp"

// DefaultBrowseTimeout bounds a single mDNS query
const DefaultBrowseTimeout = 3 * time.Second

// Config holds discovery configuration
type Config struct {
	ServiceName string
	Port        int
	Logger      *slog.Logger
}

// Manager handles mDNS operations
type Manager struct {
	config Config
	logger *slog.Logger

	mu     sync.Mutex
	server *mdns.Server
}

// TapInfo describes a discovered event tap
type TapInfo struct {
	Name string
	Host string
	Port int
	Path string
}

// Addr returns host:port for dialing
func (t TapInfo) Addr() string {
	return net.JoinHostPort(t.Host, fmt.Sprint(t.Port))
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		config: config,
		logger: logger.With("component", "discovery"),
	}
}

// Advertise publishes the event tap until Stop is called
func (m *Manager) Advertise() error {
	if m.config.Port <= 0 {
		return fmt.Errorf("invalid advertise port %d", m.config.Port)
	}

	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		ServiceType,
		"",
		"",
		m.config.Port,
		ips,
		[]string{"path=/events"},
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	m.mu.Lock()
	if m.server != nil {
		m.server.Shutdown()
	}
	m.server = server
	m.mu.Unlock()

	m.logger.Info("advertising event tap", "name", m.config.ServiceName, "port", m.config.Port, "type", ServiceType)
	return nil
}

// Browse queries the network once and returns every tap that answered.
// It returns early with what it has when ctx is done.
func (m *Manager) Browse(ctx context.Context, timeout time.Duration) ([]TapInfo, error) {
	if timeout <= 0 {
		timeout = DefaultBrowseTimeout
	}

	entries := make(chan *mdns.ServiceEntry, 16)
	var (
		mu   sync.Mutex
		taps []TapInfo
	)
	collected := make(chan struct{})

	go func() {
		defer close(collected)
		for entry := range entries {
			tap, ok := tapFromEntry(entry)
			if !ok {
				continue
			}
			m.logger.Debug("discovered event tap", "name", tap.Name, "addr", tap.Addr())
			mu.Lock()
			taps = append(taps, tap)
			mu.Unlock()
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Timeout = timeout
	params.Entries = entries
	params.DisableIPv6 = true

	errCh := make(chan error, 1)
	go func() {
		// the query owns entries until it returns
		errCh <- mdns.Query(params)
		close(entries)
	}()

	select {
	case err := <-errCh:
		<-collected
		if err != nil {
			return nil, fmt.Errorf("mdns query failed: %w", err)
		}
		return taps, nil
	case <-ctx.Done():
		mu.Lock()
		defer mu.Unlock()
		return append([]TapInfo(nil), taps...), ctx.Err()
	}
}

// Stop withdraws any advertisement
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server != nil {
		m.server.Shutdown()
		m.server = nil
	}
}

func tapFromEntry(entry *mdns.ServiceEntry) (TapInfo, bool) {
	if entry == nil || entry.AddrV4 == nil || entry.Port <= 0 {
		return TapInfo{}, false
	}

	tap := TapInfo{
		Name: entry.Name,
		Host: entry.AddrV4.String(),
		Port: entry.Port,
		Path: "/events",
	}
	for _, field := range entry.InfoFields {
		if len(field) > 5 && field[:5] == "path=" {
			tap.Path = field[5:]
		}
	}
	return tap, true
}

// getLocalIPs returns non-loopback IPv4 addresses of interfaces that are up
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
