// ABOUTME: Remote-control server for the soundscape engine
// ABOUTME: Manages WebSocket clients, dispatches engine commands and broadcasts state
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/stillwater-audio/stillwater-go/internal/discovery"
	"github.com/stillwater-audio/stillwater-go/internal/protocol"
	"github.com/stillwater-audio/stillwater-go/pkg/audio/synth"
	"github.com/stillwater-audio/stillwater-go/pkg/soundscape"
)

const (
	// DefaultPort is the control server's listen port
	DefaultPort = 8928

	sendBuffer       = 32
	handshakeTimeout = 10 * time.Second
	writeDeadline    = 10 * time.Second
	pingInterval     = 30 * time.Second
)

// Controller is the engine surface exposed to remote clients
type Controller interface {
	Play(preset string)
	PlayNoiseBed(kind synth.NoiseKind)
	PlayBinauralBeat(baseHz, beatHz float64)
	SetVolume(level float64)
	Stop()
	Status() soundscape.Status
}

// Config holds server configuration
type Config struct {
	Port       int
	Name       string
	EnableMDNS bool
	Debug      bool
}

// Server accepts remote-control connections
type Server struct {
	config   Config
	serverID string
	ctrl     Controller

	upgrader   websocket.Upgrader
	httpServer *http.Server
	mux        *http.ServeMux

	// Client management
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// mDNS discovery
	mdnsManager *discovery.Manager

	// Control
	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// Client represents a connected remote
type Client struct {
	ID   string
	Name string
	Conn *websocket.Conn

	connected time.Time
	sendChan  chan protocol.Message
}

// ClientInfo describes a connected remote for display
type ClientInfo struct {
	ID        string
	Name      string
	Connected time.Time
}

// New creates a new server instance
func New(config Config, ctrl Controller) *Server {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Name == "" {
		config.Name = "Stillwater"
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		ctrl:     ctrl,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// Control traffic is LAN-only and carries no credentials
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:  make(map[string]*Client),
		stopChan: make(chan struct{}),
	}

	s.mux.HandleFunc(discovery.Path, s.handleWebSocket)

	return s
}

// ID returns the server's unique ID
func (s *Server) ID() string {
	return s.serverID
}

// Handler returns the HTTP handler serving the control endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on the configured port and blocks until Stop is called or the
// listener fails
func (s *Server) Start() error {
	log.Printf("Remote control starting: %s (ID: %s)", s.config.Name, s.serverID)

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	addr := fmt.Sprintf(":%d", s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if s.mdnsManager != nil {
			s.mdnsManager.Stop()
		}
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	log.Printf("WebSocket server listening on %s%s", addr, discovery.Path)

	s.httpServer = &http.Server{Handler: s.mux}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-s.stopChan:
		log.Printf("Remote control shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
	}

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	s.Close()
	log.Printf("Remote control stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop makes Start return
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// Close rejects new connections, disconnects every client and waits for
// their goroutines to finish
func (s *Server) Close() {
	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()

	s.clientsMu.RLock()
	for _, c := range s.clients {
		c.Conn.Close()
	}
	s.clientsMu.RUnlock()

	s.wg.Wait()
}

// Clients lists connected remotes ordered by connection time
func (s *Server) Clients() []ClientInfo {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	out := make([]ClientInfo, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, ClientInfo{ID: c.ID, Name: c.Name, Connected: c.connected})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Connected.Before(out[j].Connected) })
	return out
}

// BroadcastState sends the engine state to every connected client
func (s *Server) BroadcastState() {
	state := s.engineState()

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		if err := s.sendMessage(c, protocol.TypeServerState, state); err != nil {
			log.Printf("Error sending state to %s: %v", c.Name, err)
		}
	}
}

func (s *Server) engineState() protocol.EngineState {
	st := s.ctrl.Status()
	return protocol.EngineState{
		Mode:    st.Mode.String(),
		Preset:  st.Preset,
		Volume:  st.Volume,
		Enabled: st.Enabled,
	}
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.shutdownMu.RLock()
	if s.isShutdown {
		s.shutdownMu.RUnlock()
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	s.wg.Add(1)
	s.shutdownMu.RUnlock()
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New WebSocket connection from %s", r.RemoteAddr)

	s.handleConnection(conn)
}

// handleConnection manages a client connection
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	if s.config.Debug {
		log.Printf("[DEBUG] New connection, waiting for handshake")
	}

	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		log.Printf("Error reading hello: %v", err)
		return
	}
	conn.SetReadDeadline(time.Time{})

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}

	if msg.Type != protocol.TypeClientHello {
		log.Printf("Expected client/hello, got %s", msg.Type)
		writeError(conn, protocol.ErrHandshake, "first message must be client/hello")
		return
	}

	var hello protocol.ClientHello
	if err := protocol.DecodePayload(msg.Payload, &hello); err != nil {
		log.Printf("Error decoding client hello: %v", err)
		writeError(conn, protocol.ErrInvalidPayload, err.Error())
		return
	}

	if hello.ClientID == "" || hello.Name == "" {
		log.Printf("Client hello missing client_id or name")
		writeError(conn, protocol.ErrInvalidPayload, "client_id and name are required")
		return
	}

	log.Printf("Client hello: %s (ID: %s)", hello.Name, hello.ClientID)

	client := &Client{
		ID:        hello.ClientID,
		Name:      hello.Name,
		Conn:      conn,
		connected: time.Now(),
		sendChan:  make(chan protocol.Message, sendBuffer),
	}

	// Check for duplicate client ID and register atomically
	s.clientsMu.Lock()
	if existing, exists := s.clients[hello.ClientID]; exists {
		s.clientsMu.Unlock()
		log.Printf("Client ID %s already connected (name: %s), rejecting duplicate", hello.ClientID, existing.Name)
		writeError(conn, protocol.ErrDuplicateClientID, "Client ID already connected")
		return
	}
	s.clients[client.ID] = client
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, client.ID)
		close(client.sendChan)
		s.clientsMu.Unlock()
		log.Printf("Client disconnected: %s", client.Name)
	}()

	if err := s.sendMessage(client, protocol.TypeServerHello, protocol.ServerHello{
		ServerID: s.serverID,
		Name:     s.config.Name,
		Version:  protocol.Version,
	}); err != nil {
		log.Printf("Error sending server hello: %v", err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.clientWriter(client)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		s.handleClientMessage(client, data)
	}
}

// clientWriter sends queued messages to the client
func (s *Server) clientWriter(client *Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.sendChan:
			if !ok {
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Error marshaling message: %v", err)
				continue
			}
			client.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("Error writing message: %v", err)
				client.Conn.Close()
				return
			}

		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				client.Conn.Close()
				return
			}
		}
	}
}

// handleClientMessage dispatches one command to the engine
func (s *Server) handleClientMessage(client *Client, data []byte) {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		s.sendError(client, protocol.ErrInvalidPayload, "malformed JSON")
		return
	}

	if s.config.Debug {
		log.Printf("[DEBUG] %s -> %s", client.Name, msg.Type)
	}

	var err error
	switch msg.Type {
	case protocol.TypeEnginePlay:
		var cmd protocol.PlayCommand
		if err = protocol.DecodePayload(msg.Payload, &cmd); err == nil {
			s.ctrl.Play(cmd.Preset)
		}
	case protocol.TypeEngineNoise:
		var cmd protocol.NoiseCommand
		if err = protocol.DecodePayload(msg.Payload, &cmd); err == nil {
			var kind synth.NoiseKind
			if kind, err = synth.ParseNoiseKind(cmd.Kind); err == nil {
				s.ctrl.PlayNoiseBed(kind)
			}
		}
	case protocol.TypeEngineBinaural:
		var cmd protocol.BinauralCommand
		if err = protocol.DecodePayload(msg.Payload, &cmd); err == nil {
			s.ctrl.PlayBinauralBeat(cmd.BaseHz, cmd.BeatHz)
		}
	case protocol.TypeEngineVolume:
		var cmd protocol.VolumeCommand
		if err = protocol.DecodePayload(msg.Payload, &cmd); err == nil {
			s.ctrl.SetVolume(cmd.Level)
		}
	case protocol.TypeEngineStop:
		s.ctrl.Stop()
	default:
		log.Printf("Unknown message type: %s", msg.Type)
		s.sendError(client, protocol.ErrUnknownType, "unknown message type: "+msg.Type)
		return
	}

	if err != nil {
		log.Printf("Invalid %s from %s: %v", msg.Type, client.Name, err)
		s.sendError(client, protocol.ErrInvalidPayload, err.Error())
		return
	}

	log.Printf("Client %s: %s", client.Name, msg.Type)
	s.BroadcastState()
}

// sendMessage queues a JSON message for a client
func (s *Server) sendMessage(client *Client, msgType string, payload interface{}) error {
	msg := protocol.Message{
		Type:    msgType,
		Payload: payload,
	}

	select {
	case client.sendChan <- msg:
		return nil
	default:
		return fmt.Errorf("client send buffer full")
	}
}

func (s *Server) sendError(client *Client, code, message string) {
	if err := s.sendMessage(client, protocol.TypeServerError, protocol.Error{Error: code, Message: message}); err != nil {
		log.Printf("Error sending error to %s: %v", client.Name, err)
	}
}

// writeError answers a connection that never registered as a client
func writeError(conn *websocket.Conn, code, message string) {
	data, err := json.Marshal(protocol.Message{
		Type:    protocol.TypeServerError,
		Payload: protocol.Error{Error: code, Message: message},
	})
	if err != nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	conn.WriteMessage(websocket.TextMessage, data)
}
