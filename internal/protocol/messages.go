// ABOUTME: Stillwater remote-control message type definitions
// ABOUTME: Defines structs for the handshake, engine commands and state broadcasts
package protocol

import (
	"encoding/json"
	"fmt"
)

// Version is the remote-control protocol version
const Version = 1

// Message types
const (
	TypeClientHello = "client/hello"
	TypeServerHello = "server/hello"
	TypeServerState = "server/state"
	TypeServerError = "server/error"

	TypeEnginePlay     = "engine/play"
	TypeEngineNoise    = "engine/noise"
	TypeEngineBinaural = "engine/binaural"
	TypeEngineVolume   = "engine/volume"
	TypeEngineStop     = "engine/stop"
)

// Error codes carried by server/error
const (
	ErrDuplicateClientID = "duplicate_client_id"
	ErrUnknownType       = "unknown_type"
	ErrInvalidPayload    = "invalid_payload"
	ErrHandshake         = "handshake_required"
)

// Message is the top-level wrapper for all protocol messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ClientHello is sent by clients to initiate the handshake
type ClientHello struct {
	ClientID   string      `json:"client_id"`
	Name       string      `json:"name"`
	Version    int         `json:"version"`
	DeviceInfo *DeviceInfo `json:"device_info,omitempty"`
}

// DeviceInfo contains device identification
type DeviceInfo struct {
	ProductName     string `json:"product_name"`
	Manufacturer    string `json:"manufacturer"`
	SoftwareVersion string `json:"software_version"`
}

// ServerHello is the server's response to client/hello
type ServerHello struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// PlayCommand starts a named preset (engine/play)
type PlayCommand struct {
	Preset string `json:"preset"`
}

// NoiseCommand starts a bare noise bed (engine/noise)
type NoiseCommand struct {
	Kind string `json:"kind"` // "white", "pink" or "brown"
}

// BinauralCommand starts a binaural beat (engine/binaural).
// Zero fields take the engine defaults.
type BinauralCommand struct {
	BaseHz float64 `json:"base_hz,omitempty"`
	BeatHz float64 `json:"beat_hz,omitempty"`
}

// VolumeCommand sets the master volume (engine/volume)
type VolumeCommand struct {
	Level float64 `json:"level"` // 0.0-1.0
}

// EngineState is broadcast after every command (server/state)
type EngineState struct {
	Mode    string  `json:"mode"`
	Preset  string  `json:"preset"`
	Volume  float64 `json:"volume"`
	Enabled bool    `json:"enabled"`
}

// Error reports a rejected message (server/error)
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// DecodePayload converts a generic payload into the typed struct v
func DecodePayload(payload interface{}, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}
