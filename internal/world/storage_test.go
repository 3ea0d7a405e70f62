package world

import (
	"sync/atomic"
	"testing"
)

// countingGenerator generates a blank chunk at the requested position and
// counts how many times it was asked to.
type countingGenerator struct {
	calls atomic.Int64
}

func (g *countingGenerator) GenerateChunk(pos ChunkPos) *Chunk {
	g.calls.Add(1)
	c := NewChunk(pos)
	c.SetBlock(0, 0, 0, BlockStone)
	c.MarkClean()
	return c
}

func newTestStorage(t *testing.T) (*Storage, *countingGenerator) {
	t.Helper()
	gen := &countingGenerator{}
	s, err := NewStorage(Config{
		Dir:          t.TempDir(),
		WorkerCount:  2,
		PregenRadius: 1,
	}, gen)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	t.Cleanup(s.Close)
	return s, gen
}

func TestStoragePregeneratesSpawnArea(t *testing.T) {
	_, gen := newTestStorage(t)
	// radius 1 means x, z in [-1, 1) -> 2x2 = 4 chunks.
	if got := gen.calls.Load(); got != 4 {
		t.Errorf("pregeneration generated %d chunks, want 4", got)
	}
}

func TestStorageGetChunkCachesAfterFirstCall(t *testing.T) {
	s, gen := newTestStorage(t)
	before := gen.calls.Load()

	pos := ChunkPos{X: 50, Z: 50} // outside the pregenerated area
	c1, err := s.GetChunk(pos)
	if err != nil {
		t.Fatalf("GetChunk: %v", err)
	}
	afterFirst := gen.calls.Load()
	if afterFirst != before+1 {
		t.Fatalf("expected exactly one new generation, got %d new calls", afterFirst-before)
	}

	c2, err := s.GetChunk(pos)
	if err != nil {
		t.Fatalf("GetChunk (cached): %v", err)
	}
	if gen.calls.Load() != afterFirst {
		t.Error("second GetChunk for the same position should not regenerate")
	}
	if c1 != c2 {
		t.Error("second GetChunk should return the cached instance")
	}
}

func TestStorageFlushPersistsChunksAcrossRestart(t *testing.T) {
	gen := &countingGenerator{}
	dir := t.TempDir()

	s1, err := NewStorage(Config{Dir: dir, WorkerCount: 1, PregenRadius: 1}, gen)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	pos := ChunkPos{X: 100, Z: 100}
	original, err := s1.GetChunk(pos)
	if err != nil {
		t.Fatalf("GetChunk: %v", err)
	}
	if err := s1.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	s1.Close()

	gen2 := &countingGenerator{}
	s2, err := NewStorage(Config{Dir: dir, WorkerCount: 1, PregenRadius: 1}, gen2)
	if err != nil {
		t.Fatalf("NewStorage (restart): %v", err)
	}
	defer s2.Close()

	reloaded, err := s2.GetChunk(pos)
	if err != nil {
		t.Fatalf("GetChunk (restart): %v", err)
	}
	if !original.Equal(reloaded) {
		t.Error("reloaded chunk does not match the original flushed chunk")
	}
}

func TestStorageSaveChunkMakesChunkRetrievable(t *testing.T) {
	s, gen := newTestStorage(t)

	pos := ChunkPos{X: 30, Z: 30}
	c := NewChunk(pos)
	c.SetBlock(4, 4, 4, BlockLava)
	if err := s.SaveChunk(c); err != nil {
		t.Fatalf("SaveChunk: %v", err)
	}

	before := gen.calls.Load()
	got, err := s.GetChunk(pos)
	if err != nil {
		t.Fatalf("GetChunk: %v", err)
	}
	if gen.calls.Load() != before {
		t.Error("GetChunk after SaveChunk should hit the cache, not regenerate")
	}
	if got.BlockAt(4, 4, 4) != BlockLava {
		t.Error("GetChunk should return the saved chunk's blocks")
	}
}

func TestStorageStatsReflectsCacheState(t *testing.T) {
	s, _ := newTestStorage(t)
	stats := s.Stats()
	if stats.Len == 0 {
		t.Error("Stats().Len should reflect the pregenerated chunks")
	}
	if stats.MaxCapacity < stats.CurrentCapacity {
		t.Error("MaxCapacity should never be less than CurrentCapacity")
	}
}
