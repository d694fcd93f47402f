// ABOUTME: mDNS service discovery for Stillwater remote control
// ABOUTME: Advertises the control server and browses for running instances
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
)

const (
	// ServiceType is the DNS-SD type of the remote-control server
	ServiceType = "_stillwater._tcp"

	// Path is the WebSocket endpoint advertised in the TXT record
	Path = "/stillwater"

	queryTimeout = 3 * time.Second

	minRetryDelay = time.Second
	maxRetryDelay = 30 * time.Second
)

// Config holds discovery configuration
type Config struct {
	ServiceName string
	Port        int
}

// Manager handles mDNS operations
type Manager struct {
	config  Config
	ctx     context.Context
	cancel  context.CancelFunc
	servers chan *ServerInfo

	query      func(*mdns.QueryParam) error
	retryDelay time.Duration
	browseOnce sync.Once
}

// ServerInfo describes a discovered server
type ServerInfo struct {
	Name string
	Host string
	Port int
	Path string
}

// URL returns the WebSocket address of the server
func (s *ServerInfo) URL() string {
	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(s.Host, fmt.Sprint(s.Port)), s.Path)
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config:  config,
		ctx:     ctx,
		cancel:  cancel,
		servers: make(chan *ServerInfo, 10),

		query:      mdns.Query,
		retryDelay: minRetryDelay,
	}
}

// Advertise announces this server via mDNS until Stop is called
func (m *Manager) Advertise() error {
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
		[]string{"path=" + Path},
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d (type: %s)", m.config.ServiceName, m.config.Port, ServiceType)

	go func() {
		<-m.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Browse searches for Stillwater servers until Stop is called. Each server
// is reported on Servers once, the first time it answers.
func (m *Manager) Browse() error {
	m.browseOnce.Do(func() { go m.browseLoop() })
	return nil
}

// browseLoop repeats queries, backing off while they fail
func (m *Manager) browseLoop() {
	defer close(m.servers)

	seen := make(map[string]bool)
	delay := m.retryDelay

	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)
		done := make(chan struct{})

		go func() {
			defer close(done)
			for entry := range entries {
				server := entryToServer(entry)
				if seen[server.URL()] {
					continue
				}
				seen[server.URL()] = true
				log.Printf("Discovered server: %s at %s:%d", server.Name, server.Host, server.Port)

				select {
				case m.servers <- server:
				case <-m.ctx.Done():
				}
			}
		}()

		err := m.query(queryParams(entries, queryTimeout))
		close(entries)
		<-done

		if err == nil {
			delay = m.retryDelay
			continue
		}

		log.Printf("mDNS query failed, retrying in %v: %v", delay, err)
		select {
		case <-m.ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

// Lookup runs a single query and returns every server that answered
func Lookup(timeout time.Duration) ([]*ServerInfo, error) {
	if timeout <= 0 {
		timeout = queryTimeout
	}

	entries := make(chan *mdns.ServiceEntry, 16)
	found := make(chan []*ServerInfo, 1)

	go func() {
		var servers []*ServerInfo
		for entry := range entries {
			servers = append(servers, entryToServer(entry))
		}
		found <- servers
	}()

	err := mdns.Query(queryParams(entries, timeout))
	close(entries)
	servers := <-found

	if err != nil {
		return nil, fmt.Errorf("mdns query failed: %w", err)
	}
	return servers, nil
}

// Servers returns the channel of discovered servers. It is closed once
// browsing stops.
func (m *Manager) Servers() <-chan *ServerInfo {
	return m.servers
}

// Stop stops advertising and browsing
func (m *Manager) Stop() {
	m.cancel()
}

func queryParams(entries chan *mdns.ServiceEntry, timeout time.Duration) *mdns.QueryParam {
	return &mdns.QueryParam{
		Service:     ServiceType,
		Domain:      "local",
		Timeout:     timeout,
		Entries:     entries,
		DisableIPv6: true,
	}
}

func entryToServer(entry *mdns.ServiceEntry) *ServerInfo {
	server := &ServerInfo{
		Name: entry.Name,
		Port: entry.Port,
		Path: Path,
	}

	if entry.AddrV4 != nil {
		server.Host = entry.AddrV4.String()
	} else {
		server.Host = entry.Host
	}

	for _, field := range entry.InfoFields {
		if len(field) > len("path=") && field[:len("path=")] == "path=" {
			server.Path = field[len("path="):]
		}
	}

	return server
}

// getLocalIPs returns local IPv4 addresses
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
