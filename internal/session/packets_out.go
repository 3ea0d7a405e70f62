package session

import (
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/protocol"
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/world"
)

// buildJoinGame encodes the Play-phase Join Game packet (0x29): the
// entity id, game rules, and the single overworld dimension this server
// ever joins a player into.
func buildJoinGame(entityID int32) []byte {
	w := protocol.NewWriter()
	w.WriteInt32(entityID)
	w.WriteBool(false) // is hardcore
	w.WriteVarInt(1)   // dimension count
	w.WriteIdentifier("minecraft:overworld")
	w.WriteVarInt(20) // max players (informational)
	w.WriteVarInt(10) // view distance
	w.WriteVarInt(10) // simulation distance
	w.WriteBool(false) // reduced debug info
	w.WriteBool(true)  // enable respawn screen
	w.WriteBool(false) // do limited crafting
	w.WriteIdentifier("minecraft:overworld") // dimension type
	w.WriteIdentifier("minecraft:overworld") // dimension name
	w.WriteInt64(0)    // hashed seed
	w.WriteUByte(1)    // gamemode: survival
	w.WriteInt8(-1)    // previous gamemode: none
	w.WriteBool(false) // is debug
	w.WriteBool(false) // is flat
	w.WriteBool(false) // has death location
	w.WriteVarInt(0)   // portal cooldown
	w.WriteVarInt(63)  // sea level
	w.WriteBool(false) // enforces secure chat
	return w.Bytes()
}

// buildPlayerInfoAdd encodes a Player Info Update packet (0x3F) adding a
// single player entry to the tab list.
func buildPlayerInfoAdd(id [16]byte, username string) []byte {
	w := protocol.NewWriter()
	w.WriteUByte(0x01) // action bitmask: add player
	w.WriteVarInt(1)   // entry count
	w.WriteUUID(id)
	w.WriteString(username)
	w.WriteVarInt(0)   // property count
	w.WriteBool(true)  // listed
	return w.Bytes()
}

// buildSetDefaultSpawnPosition encodes the Set Default Spawn Position
// packet (0x4E): x, y, z as i32 each, then the angle as f32 — not the
// packed 26/26/12-bit position encoding other location fields use.
func buildSetDefaultSpawnPosition(pos Position) []byte {
	w := protocol.NewWriter()
	w.WriteInt32(int32(pos.X))
	w.WriteInt32(int32(pos.Y))
	w.WriteInt32(int32(pos.Z))
	w.WriteFloat32(0) // angle
	return w.Bytes()
}

// buildSynchronizePlayerPosition encodes the Synchronize Player Position
// packet (0x31), used both for the initial spawn teleport and any later
// forced correction.
func buildSynchronizePlayerPosition(teleportID int32, pos Position) []byte {
	w := protocol.NewWriter()
	w.WriteVarInt(teleportID)
	w.WriteFloat64(pos.X)
	w.WriteFloat64(pos.Y)
	w.WriteFloat64(pos.Z)
	w.WriteFloat64(0) // velocity x
	w.WriteFloat64(0) // velocity y
	w.WriteFloat64(0) // velocity z
	w.WriteFloat32(pos.Yaw)
	w.WriteFloat32(pos.Pitch)
	w.WriteInt32(0) // relative-flags bitmask: all absolute
	return w.Bytes()
}

// motionBlockingLongs is the length of the MOTION_BLOCKING heightmap
// array. The array is sent zero-filled, so no 9-bit heights are packed
// into it.
const motionBlockingLongs = 36

// buildChunkData encodes a Chunk Data packet (0x20) for one chunk: chunk
// coordinates, a heightmaps compound whose MOTION_BLOCKING array is
// zero-filled, and an empty compound where section data would go. This
// server never computes real heightmaps, lighting, or palettized
// sections; client-side recomputation covers the gap.
func buildChunkData(c *world.Chunk) []byte {
	w := protocol.NewWriter()
	w.WriteInt32(c.Pos.X)
	w.WriteInt32(c.Pos.Z)

	heightmaps := protocol.NewNBTCompound().
		LongArray("MOTION_BLOCKING", make([]int64, motionBlockingLongs)).
		Bytes()
	w.WriteRaw(heightmaps)

	w.WriteRaw(protocol.NewNBTCompound().Bytes()) // section data placeholder
	return w.Bytes()
}
