package session

import (
	"fmt"

	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/protocol"
)

// runLogin services Login Start, derives the session's offline UUID, and
// waits for Login Acknowledged before transitioning to Configuration.
func (s *Session) runLogin() error {
	f, err := s.readFrame()
	if err != nil {
		return fmt.Errorf("read login start frame: %w", err)
	}
	if f.ID != protocol.LoginServerboundLoginStart {
		return fmt.Errorf("%w: id 0x%02X in login phase", protocol.ErrUnexpectedPacket, f.ID)
	}

	r := protocol.NewReader(f.Payload)
	username, err := r.ReadString()
	if err != nil {
		return fmt.Errorf("read username: %w", err)
	}
	if _, err := r.ReadUUID(); err != nil { // client-sent UUID, unused: we derive our own
		return fmt.Errorf("read login start uuid: %w", err)
	}

	if err := ValidateUsername(username); err != nil {
		_ = s.disconnectLogin("Invalid username")
		return fmt.Errorf("validate username %q: %w", username, err)
	}

	s.username = username
	s.uuid = OfflineUUID(username)

	w := protocol.NewWriter()
	w.WriteUUID(s.uuid)
	w.WriteString(s.username)
	w.WriteVarInt(0) // property count
	if err := s.writeFrame(protocol.LoginClientboundLoginSuccess, w.Bytes()); err != nil {
		return fmt.Errorf("write login success: %w", err)
	}

	ack, err := s.readFrame()
	if err != nil {
		return fmt.Errorf("read login acknowledged: %w", err)
	}
	if ack.ID != protocol.LoginServerboundLoginAcknowledged {
		return fmt.Errorf("%w: id 0x%02X waiting for login acknowledged", protocol.ErrUnexpectedPacket, ack.ID)
	}

	s.phase = PhaseConfiguration
	return nil
}
