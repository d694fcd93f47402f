// ABOUTME: Client side of the remote-control protocol
// ABOUTME: Dials a server, performs the handshake and routes state updates
package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/stillwater-audio/stillwater-go/internal/protocol"
)

// ErrNotConnected is returned when sending on a closed connection
var ErrNotConnected = errors.New("not connected")

// DialConfig holds remote connection configuration
type DialConfig struct {
	URL        string
	ClientID   string
	Name       string
	DeviceInfo *protocol.DeviceInfo
}

// Conn is a connection to a remote-control server
type Conn struct {
	conn   *websocket.Conn
	server protocol.ServerHello
	mu     sync.RWMutex

	// States receives every server/state broadcast
	States chan protocol.EngineState
	// Errors receives every server/error reply
	Errors chan protocol.Error

	connected bool
	done      chan struct{}
}

// Dial connects to url and completes the hello exchange
func Dial(config DialConfig) (*Conn, error) {
	if config.ClientID == "" {
		config.ClientID = uuid.New().String()
	}
	if config.Name == "" {
		config.Name = "Stillwater Remote"
	}

	ws, _, err := websocket.DefaultDialer.Dial(config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	c := &Conn{
		conn:      ws,
		States:    make(chan protocol.EngineState, 16),
		Errors:    make(chan protocol.Error, 16),
		connected: true,
		done:      make(chan struct{}),
	}

	if err := c.handshake(config); err != nil {
		c.Close()
		return nil, fmt.Errorf("handshake failed: %w", err)
	}

	go c.readMessages()

	return c, nil
}

func (c *Conn) handshake(config DialConfig) error {
	hello := protocol.ClientHello{
		ClientID:   config.ClientID,
		Name:       config.Name,
		Version:    protocol.Version,
		DeviceInfo: config.DeviceInfo,
	}
	if err := c.send(protocol.TypeClientHello, hello); err != nil {
		return fmt.Errorf("failed to send client/hello: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	var msg protocol.Message
	if err := c.conn.ReadJSON(&msg); err != nil {
		return fmt.Errorf("failed to read server/hello: %w", err)
	}
	c.conn.SetReadDeadline(time.Time{})

	switch msg.Type {
	case protocol.TypeServerHello:
		if err := protocol.DecodePayload(msg.Payload, &c.server); err != nil {
			return fmt.Errorf("failed to parse server/hello: %w", err)
		}
	case protocol.TypeServerError:
		var e protocol.Error
		if err := protocol.DecodePayload(msg.Payload, &e); err != nil {
			return fmt.Errorf("failed to parse server/error: %w", err)
		}
		return fmt.Errorf("server rejected hello: %s: %s", e.Error, e.Message)
	default:
		return fmt.Errorf("expected server/hello, got %s", msg.Type)
	}

	log.Printf("Connected to %s (%s)", c.server.Name, c.server.ServerID)
	return nil
}

// Server returns the server's hello
func (c *Conn) Server() protocol.ServerHello {
	return c.server
}

// Done is closed once the connection ends
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Play asks the server to play a preset
func (c *Conn) Play(preset string) error {
	return c.send(protocol.TypeEnginePlay, protocol.PlayCommand{Preset: preset})
}

// PlayNoise asks the server to play a bare noise bed
func (c *Conn) PlayNoise(kind string) error {
	return c.send(protocol.TypeEngineNoise, protocol.NoiseCommand{Kind: kind})
}

// PlayBinaural asks the server to play a binaural beat
func (c *Conn) PlayBinaural(baseHz, beatHz float64) error {
	return c.send(protocol.TypeEngineBinaural, protocol.BinauralCommand{BaseHz: baseHz, BeatHz: beatHz})
}

// SetVolume asks the server to change the master volume
func (c *Conn) SetVolume(level float64) error {
	return c.send(protocol.TypeEngineVolume, protocol.VolumeCommand{Level: level})
}

// Stop asks the server to silence playback
func (c *Conn) Stop() error {
	return c.send(protocol.TypeEngineStop, nil)
}

func (c *Conn) send(msgType string, payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return ErrNotConnected
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return c.conn.WriteJSON(protocol.Message{Type: msgType, Payload: payload})
}

func (c *Conn) readMessages() {
	defer close(c.done)
	defer close(c.States)
	defer close(c.Errors)
	defer c.Close()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.IsConnected() {
				log.Printf("Read error: %v", err)
			}
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Failed to parse message: %v", err)
			continue
		}

		switch msg.Type {
		case protocol.TypeServerState:
			var state protocol.EngineState
			if err := protocol.DecodePayload(msg.Payload, &state); err != nil {
				log.Printf("Invalid server/state: %v", err)
				continue
			}
			deliver(c.States, state)

		case protocol.TypeServerError:
			var e protocol.Error
			if err := protocol.DecodePayload(msg.Payload, &e); err != nil {
				log.Printf("Invalid server/error: %v", err)
				continue
			}
			deliver(c.Errors, e)

		default:
			log.Printf("Unknown message type: %s", msg.Type)
		}
	}
}

// deliver drops the oldest queued value when the reader falls behind
func deliver[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Close closes the connection
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		c.connected = false
		c.conn.Close()
	}
}

// IsConnected returns connection status
func (c *Conn) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}
