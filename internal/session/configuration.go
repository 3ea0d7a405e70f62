package session

import (
	"fmt"

	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/protocol"
)

// runConfiguration sends the registry data the client needs before Play
// (dimension types, damage types) plus Finish Configuration, then
// tolerates ClientInformation/PluginMessage/KnownPacks packets until the
// client acknowledges finishing.
func (s *Session) runConfiguration() error {
	for _, reg := range []protocol.Registry{
		protocol.DimensionTypeRegistry(),
		protocol.DamageTypeRegistry(),
	} {
		payload := protocol.EncodeRegistryDataPacket(reg)
		if err := s.writeFrame(protocol.ConfigClientboundRegistryData, payload); err != nil {
			return fmt.Errorf("write registry data %s: %w", reg.ID, err)
		}
	}

	if err := s.writeFrame(protocol.ConfigClientboundFinish, nil); err != nil {
		return fmt.Errorf("write finish configuration: %w", err)
	}

	for {
		f, err := s.readFrame()
		if err != nil {
			return fmt.Errorf("read configuration frame: %w", err)
		}
		switch f.ID {
		case protocol.ConfigServerboundClientInformation,
			protocol.ConfigServerboundPluginMessage,
			protocol.ConfigServerboundKnownPacks:
			continue
		case protocol.ConfigServerboundAckFinish:
			s.phase = PhasePlay
			return nil
		default:
			return fmt.Errorf("%w: id 0x%02X in configuration phase", protocol.ErrUnexpectedPacket, f.ID)
		}
	}
}
