// ABOUTME: Tests for mDNS discovery
// ABOUTME: Tests manager setup, browsing and service entry conversion
package discovery

import (
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/mdns"
)

func TestNewManager(t *testing.T) {
	config := Config{
		ServiceName: "Bedroom",
		Port:        8928,
	}

	mgr := NewManager(config)
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	if mgr.Servers() == nil {
		t.Error("expected servers channel")
	}

	mgr.Stop()
	select {
	case <-mgr.ctx.Done():
	default:
		t.Error("expected context to be cancelled after Stop")
	}
}

func TestEntryToServer(t *testing.T) {
	tests := []struct {
		name  string
		entry *mdns.ServiceEntry
		want  ServerInfo
	}{
		{
			name: "ipv4 with path",
			entry: &mdns.ServiceEntry{
				Name:       "Bedroom._stillwater._tcp.local.",
				Host:       "bedroom.local.",
				AddrV4:     net.ParseIP("192.168.1.20"),
				Port:       8928,
				InfoFields: []string{"path=/custom"},
			},
			want: ServerInfo{Name: "Bedroom._stillwater._tcp.local.", Host: "192.168.1.20", Port: 8928, Path: "/custom"},
		},
		{
			name: "host only",
			entry: &mdns.ServiceEntry{
				Name: "Study",
				Host: "study.local.",
				Port: 9000,
			},
			want: ServerInfo{Name: "Study", Host: "study.local.", Port: 9000, Path: Path},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entryToServer(tt.entry)
			if *got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, *got)
			}
		})
	}
}

func TestServerInfoURL(t *testing.T) {
	s := &ServerInfo{Host: "192.168.1.20", Port: 8928, Path: Path}

	if got := s.URL(); got != "ws://192.168.1.20:8928/stillwater" {
		t.Errorf("expected ws://192.168.1.20:8928/stillwater, got %s", got)
	}
}

// answering returns a query func that replies with the given entries, one
// slice per call, repeating the last slice once they run out
func answering(calls *atomic.Int32, replies ...[]*mdns.ServiceEntry) func(*mdns.QueryParam) error {
	return func(params *mdns.QueryParam) error {
		n := int(calls.Add(1)) - 1
		if n >= len(replies) {
			n = len(replies) - 1
		}
		for _, e := range replies[n] {
			params.Entries <- e
		}
		time.Sleep(5 * time.Millisecond)
		return nil
	}
}

func TestBrowseReportsEachServerOnce(t *testing.T) {
	bedroom := &mdns.ServiceEntry{Name: "Bedroom", AddrV4: net.ParseIP("192.168.1.20"), Port: 8928}
	study := &mdns.ServiceEntry{Name: "Study", AddrV4: net.ParseIP("192.168.1.21"), Port: 8928}

	var calls atomic.Int32
	mgr := NewManager(Config{})
	mgr.query = answering(&calls, []*mdns.ServiceEntry{bedroom}, []*mdns.ServiceEntry{bedroom, study})

	if err := mgr.Browse(); err != nil {
		t.Fatalf("Browse failed: %v", err)
	}
	defer mgr.Stop()

	var names []string
	timeout := time.After(2 * time.Second)
	for len(names) < 2 {
		select {
		case s := <-mgr.Servers():
			names = append(names, s.Name)
		case <-timeout:
			t.Fatalf("expected two servers, got %v", names)
		}
	}

	if names[0] != "Bedroom" || names[1] != "Study" {
		t.Errorf("expected [Bedroom Study], got %v", names)
	}

	// Later queries keep answering with the same servers
	select {
	case s := <-mgr.Servers():
		t.Errorf("expected no repeat announcement, got %s", s.Name)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrowseBacksOffAfterFailure(t *testing.T) {
	var calls atomic.Int32
	mgr := NewManager(Config{})
	mgr.retryDelay = time.Hour
	mgr.query = func(*mdns.QueryParam) error {
		calls.Add(1)
		return errors.New("no multicast interface")
	}

	mgr.Browse()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("expected one query before the retry delay, got %d", got)
	}

	mgr.Stop()

	select {
	case _, ok := <-mgr.Servers():
		if ok {
			t.Error("expected no servers")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected Servers to close after Stop")
	}
}
