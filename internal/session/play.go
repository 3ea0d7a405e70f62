package session

import (
	"context"
	"fmt"
	"time"

	"github.com/ConnerAdamsMaine/RustCraft-Server/config"
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/protocol"
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/world"
)

// entityID is fixed: this server never tracks more than the single
// connecting player as an entity, so every session is "entity 1."
const entityID int32 = 1

// frameOrErr carries one decoded frame or the terminal read error off the
// dedicated reader goroutine in runPlay's tick loop.
type frameOrErr struct {
	frame *protocol.Frame
	err   error
}

// runPlay sends the fixed sequence of join packets, streams the initial
// chunk window, and then drives the 50ms tick loop for the rest of the
// connection's life.
func (s *Session) runPlay(ctx context.Context) error {
	if err := s.awaitWorldReady(ctx); err != nil {
		return fmt.Errorf("await world ready: %w", err)
	}

	if err := s.writeFrame(protocol.PlayClientboundJoinGame, buildJoinGame(entityID)); err != nil {
		return fmt.Errorf("write join game: %w", err)
	}
	if err := s.writeFrame(protocol.PlayClientboundPlayerInfoAdd, buildPlayerInfoAdd(s.uuid, s.username)); err != nil {
		return fmt.Errorf("write player info add: %w", err)
	}
	if err := s.writeFrame(protocol.PlayClientboundSetDefaultSpawnPos, buildSetDefaultSpawnPosition(s.position)); err != nil {
		return fmt.Errorf("write default spawn position: %w", err)
	}
	s.teleportID++
	if err := s.writeFrame(protocol.PlayClientboundSynchronizePlayerPos, buildSynchronizePlayerPosition(s.teleportID, s.position)); err != nil {
		return fmt.Errorf("write synchronize player position: %w", err)
	}

	if err := s.sendChunkWindow(ChunkPosFromPosition(s.position)); err != nil {
		return fmt.Errorf("send initial chunk window: %w", err)
	}
	s.lastChunk = ChunkPosFromPosition(s.position)
	s.haveLastPos = true

	return s.playLoop(ctx)
}

// awaitWorldReady blocks the session's own handling of the Play phase
// until world pregeneration has completed, without ever calling
// storage.WaitForInit in a way that would itself block the async
// dispatch path: the wait is offloaded to a dedicated goroutine and this
// call only selects on that goroutine's completion versus ctx. Calling
// WaitForInit directly from here would be the mistake this function
// exists to avoid.
func (s *Session) awaitWorldReady(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.storage.WaitForInit()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ChunkPosFromPosition derives the chunk coordinate containing a
// position by flooring to block coordinates first.
func ChunkPosFromPosition(p Position) world.ChunkPos {
	return world.ChunkPosFromBlock(int32(floorDiv(p.X)), int32(floorDiv(p.Z)))
}

func floorDiv(v float64) int64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}

// sendChunkWindow streams every chunk within InitialChunkWindowRadius of
// center that has not already been sent to this client.
func (s *Session) sendChunkWindow(center world.ChunkPos) error {
	r := int32(config.InitialChunkWindowRadius)
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			pos := world.ChunkPos{X: center.X + dx, Z: center.Z + dz}
			if err := s.sendChunkIfNeeded(pos); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) sendChunkIfNeeded(pos world.ChunkPos) error {
	if _, ok := s.loadedChunks[pos]; ok {
		return nil
	}
	chunk, err := s.storage.GetChunk(pos)
	if err != nil {
		return fmt.Errorf("get chunk %s: %w", pos, err)
	}
	if err := s.writeFrame(protocol.PlayClientboundChunkData, buildChunkData(chunk)); err != nil {
		return fmt.Errorf("write chunk data %s: %w", pos, err)
	}
	s.loadedChunks[pos] = struct{}{}
	return nil
}

// playLoop reads frames off a dedicated goroutine, feeding them into the
// session itself only on tick boundaries: each tick drains whatever
// serverbound traffic has arrived, non-blockingly, then checks whether
// the player's chunk coordinate has changed.
func (s *Session) playLoop(ctx context.Context) error {
	frames := make(chan frameOrErr, 16)
	go func() {
		for {
			f, err := s.readFrame()
			if err != nil {
				frames <- frameOrErr{err: err}
				close(frames)
				return
			}
			frames <- frameOrErr{frame: f}
		}
	}()

	ticker := time.NewTicker(config.GameLoopSleepTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
		drain:
			for {
				select {
				case fe, ok := <-frames:
					if !ok {
						return nil
					}
					if fe.err != nil {
						return fe.err
					}
					if err := s.handlePlayPacket(fe.frame); err != nil {
						return err
					}
				default:
					break drain
				}
			}
			if err := s.sendNewChunksIfMoved(); err != nil {
				return err
			}
		}
	}
}

// handlePlayPacket dispatches one serverbound Play packet. Only the
// player-position family is handled; everything else is ignored rather
// than treated as fatal, since a Play-phase client sends many packet
// kinds this server has no use for.
func (s *Session) handlePlayPacket(f *protocol.Frame) error {
	switch f.ID {
	case protocol.PlayServerboundPlayerPosition:
		return s.readPlayerPosition(f.Payload, false)
	case protocol.PlayServerboundPlayerPositionAndLook:
		return s.readPlayerPosition(f.Payload, true)
	case protocol.PlayServerboundPlayerLook:
		return s.readPlayerLook(f.Payload)
	default:
		return nil
	}
}

func (s *Session) readPlayerPosition(payload []byte, withLook bool) error {
	r := protocol.NewReader(payload)
	x, err := r.ReadFloat64()
	if err != nil {
		return fmt.Errorf("read position x: %w", err)
	}
	y, err := r.ReadFloat64()
	if err != nil {
		return fmt.Errorf("read position y: %w", err)
	}
	z, err := r.ReadFloat64()
	if err != nil {
		return fmt.Errorf("read position z: %w", err)
	}
	s.position.X, s.position.Y, s.position.Z = x, y, z

	if withLook {
		yaw, err := r.ReadFloat32()
		if err != nil {
			return fmt.Errorf("read look yaw: %w", err)
		}
		pitch, err := r.ReadFloat32()
		if err != nil {
			return fmt.Errorf("read look pitch: %w", err)
		}
		s.position.Yaw, s.position.Pitch = yaw, pitch
	}

	ground, err := r.ReadBool()
	if err != nil {
		return fmt.Errorf("read on-ground flag: %w", err)
	}
	s.onGround = ground
	return nil
}

func (s *Session) readPlayerLook(payload []byte) error {
	r := protocol.NewReader(payload)
	yaw, err := r.ReadFloat32()
	if err != nil {
		return fmt.Errorf("read look yaw: %w", err)
	}
	pitch, err := r.ReadFloat32()
	if err != nil {
		return fmt.Errorf("read look pitch: %w", err)
	}
	s.position.Yaw, s.position.Pitch = yaw, pitch

	ground, err := r.ReadBool()
	if err != nil {
		return fmt.Errorf("read on-ground flag: %w", err)
	}
	s.onGround = ground
	return nil
}

// sendNewChunksIfMoved streams the chunk window around the player's
// current chunk coordinate only when that coordinate has changed since
// the last tick it was checked.
func (s *Session) sendNewChunksIfMoved() error {
	current := ChunkPosFromPosition(s.position)
	if s.haveLastPos && current == s.lastChunk {
		return nil
	}
	if err := s.sendChunkWindow(current); err != nil {
		return err
	}
	s.lastChunk = current
	s.haveLastPos = true
	return nil
}
