package protocol

// RegistryEntry is one entry within a Registry Data packet: an identifier
// and its prefixed-optional NBT compound.
type RegistryEntry struct {
	ID  string
	NBT []byte
}

// Registry is one Configuration-phase Registry Data packet's worth of
// entries under a single registry identifier.
type Registry struct {
	ID      string
	Entries []RegistryEntry
}

// DimensionCompound builds a dimension_type NBT compound: names, heights,
// flags, and coordinate scale.
func DimensionCompound(piglinSafe, natural bool, ambientLight float32, bedWorks, respawnAnchorWorks bool,
	hasSkylight, hasCeiling bool, minY, height, logicalHeight int32, coordinateScale float64,
	ultrawarm, hasRaids, respawnAnchorSafe bool, infiniburn string) []byte {

	b := NewNBTCompound()
	b.Byte("piglin_safe", boolByte(piglinSafe))
	b.Byte("natural", boolByte(natural))
	b.Float("ambient_light", ambientLight)
	b.Byte("bed_works", boolByte(bedWorks))
	b.Byte("respawn_anchor_works", boolByte(respawnAnchorWorks))
	b.Byte("has_skylight", boolByte(hasSkylight))
	b.Byte("has_ceiling", boolByte(hasCeiling))
	b.Byte("ultrawarm", boolByte(ultrawarm))
	b.Byte("has_raids", boolByte(hasRaids))
	b.Int("min_y", minY)
	b.Int("height", height)
	b.Int("logical_height", logicalHeight)
	b.String("infiniburn", infiniburn)
	b.String("effects", "minecraft:overworld")
	b.Float("coordinate_scale", float32(coordinateScale))
	return b.Bytes()
}

// DamageTypeCompound builds a damage_type NBT compound: message id,
// scaling, exhaustion.
func DamageTypeCompound(messageID string, scaling string, exhaustion float32) []byte {
	b := NewNBTCompound()
	b.String("message_id", messageID)
	b.String("scaling", scaling)
	b.Float("exhaustion", exhaustion)
	return b.Bytes()
}

func boolByte(v bool) int8 {
	if v {
		return 1
	}
	return 0
}

// DimensionTypeRegistry returns the three dimension_type registry entries
// a 1.21.7 client expects: overworld, the_nether, the_end.
func DimensionTypeRegistry() Registry {
	return Registry{
		ID: "minecraft:dimension_type",
		Entries: []RegistryEntry{
			{ID: "minecraft:overworld", NBT: DimensionCompound(
				false, true, 0, true, true, true, false,
				-64, 384, 384, 1.0, false, true, true, "minecraft:infiniburn_overworld")},
			{ID: "minecraft:the_nether", NBT: DimensionCompound(
				true, false, 0.1, false, false, false, true,
				0, 256, 128, 8.0, true, true, false, "minecraft:infiniburn_nether")},
			{ID: "minecraft:the_end", NBT: DimensionCompound(
				false, false, 0, false, false, false, false,
				0, 256, 256, 1.0, false, true, false, "minecraft:infiniburn_end")},
		},
	}
}

// DamageTypeRegistry returns the nine damage_type registry entries sent
// during configuration.
func DamageTypeRegistry() Registry {
	entries := []struct {
		id      string
		message string
		scaling string
		exh     float32
	}{
		{"minecraft:generic", "generic", "when_caused_by_living_non_player", 0},
		{"minecraft:player_attack", "player_attack", "when_caused_by_living_non_player", 0.1},
		{"minecraft:player_knockback", "player_knockback", "when_caused_by_living_non_player", 0},
		{"minecraft:world_border", "world_border", "always", 0},
		{"minecraft:falling", "falling", "never", 0},
		{"minecraft:suffocation", "suffocation", "never", 0},
		{"minecraft:drowning", "drowning", "never", 0},
		{"minecraft:starving", "starving", "never", 0},
		{"minecraft:falling_anvil", "falling_anvil", "never", 0.1},
	}
	reg := Registry{ID: "minecraft:damage_type"}
	for _, e := range entries {
		reg.Entries = append(reg.Entries, RegistryEntry{
			ID:  e.id,
			NBT: DamageTypeCompound(e.message, e.scaling, e.exh),
		})
	}
	return reg
}

// EncodeRegistryDataPacket builds the Configuration-phase Registry Data
// payload (0x07): an identifier for the registry, a VarInt count, and for
// each entry an identifier and a prefixed-optional NBT compound.
func EncodeRegistryDataPacket(reg Registry) []byte {
	w := NewWriter()
	w.WriteIdentifier(reg.ID)
	w.WriteVarInt(int32(len(reg.Entries)))
	for _, e := range reg.Entries {
		w.WriteIdentifier(e.ID)
		w.WritePrefixedOptional(e.NBT)
	}
	return w.Bytes()
}
