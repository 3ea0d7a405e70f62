package session

import (
	"fmt"

	"github.com/ConnerAdamsMaine/RustCraft-Server/config"
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/protocol"
)

// runHandshake reads the single Handshake packet and validates the
// client's protocol version. A Status next-state is not implemented, so
// the connection is dropped rather than serviced.
func (s *Session) runHandshake() error {
	f, err := s.readFrame()
	if err != nil {
		return fmt.Errorf("read handshake frame: %w", err)
	}
	if f.ID != protocol.HandshakeServerboundHandshake {
		return fmt.Errorf("%w: id 0x%02X in handshake phase", protocol.ErrUnexpectedPacket, f.ID)
	}

	r := protocol.NewReader(f.Payload)
	protocolVersion, err := r.ReadVarInt()
	if err != nil {
		return fmt.Errorf("read protocol version: %w", err)
	}
	if _, err := r.ReadString(); err != nil { // server address, unused
		return fmt.Errorf("read server address: %w", err)
	}
	if _, err := r.ReadUint16(); err != nil { // server port, unused
		return fmt.Errorf("read server port: %w", err)
	}
	nextState, err := r.ReadVarInt()
	if err != nil {
		return fmt.Errorf("read next state: %w", err)
	}

	if protocolVersion != config.NetworkValidProtocolVersion {
		_ = s.disconnectLogin("Outdated server! Please use 1.21.7")
		return fmt.Errorf("%w: client sent %d, require %d",
			protocol.ErrProtocolMismatch, protocolVersion, config.NetworkValidProtocolVersion)
	}

	switch nextState {
	case protocol.HandshakeNextLogin:
		s.phase = PhaseLogin
		return nil
	default:
		return fmt.Errorf("%w: unsupported next state %d", protocol.ErrUnexpectedPacket, nextState)
	}
}
