package protocol

// Packet IDs, grouped by the phase that defines them. A single numeric
// ID means different things in different phases, which is why dispatch
// always happens against a (phase, id) pair rather than a flat table.

// Handshake phase.
const (
	HandshakeServerboundHandshake int32 = 0x00
)

// HandshakeNextState values carried in the Handshake packet.
const (
	HandshakeNextStatus = 1
	HandshakeNextLogin  = 2
)

// Login phase.
const (
	LoginServerboundLoginStart       int32 = 0x00
	LoginClientboundDisconnect       int32 = 0x00
	LoginClientboundLoginSuccess     int32 = 0x02
	LoginServerboundLoginAcknowledged int32 = 0x03
)

// Configuration phase.
const (
	ConfigServerboundClientInformation int32 = 0x00
	ConfigServerboundPluginMessage     int32 = 0x01
	ConfigServerboundKnownPacks        int32 = 0x02
	ConfigServerboundAckFinish         int32 = 0x03
	ConfigClientboundFinish            int32 = 0x03
	ConfigClientboundRegistryData      int32 = 0x07
)

// Play phase.
const (
	PlayClientboundChunkData            int32 = 0x20
	PlayClientboundJoinGame             int32 = 0x29
	PlayClientboundSetDefaultSpawnPos   int32 = 0x4E
	PlayClientboundSynchronizePlayerPos int32 = 0x31
	PlayClientboundPlayerInfoAdd        int32 = 0x3F

	PlayServerboundPlayerPosition        int32 = 0x04
	PlayServerboundPlayerLook            int32 = 0x05
	PlayServerboundPlayerPositionAndLook int32 = 0x06
)
