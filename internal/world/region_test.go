package world

import "testing"

func TestRegionInsertAndGet(t *testing.T) {
	pos := RegionPos{X: 0, Z: 0}
	r := NewRegion(pos)

	c := NewChunk(ChunkPos{X: 5, Z: 5})
	if err := r.Insert(c); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, ok := r.Get(ChunkPos{X: 5, Z: 5})
	if !ok || got != c {
		t.Fatalf("Get after Insert: %v, %v", got, ok)
	}

	if _, ok := r.Get(ChunkPos{X: 6, Z: 6}); ok {
		t.Error("Get should report false for an empty slot")
	}
}

func TestRegionInsertRejectsChunkOutsideRegion(t *testing.T) {
	r := NewRegion(RegionPos{X: 0, Z: 0})
	outside := NewChunk(ChunkPos{X: 32, Z: 0}) // region (1, 0)
	if err := r.Insert(outside); err == nil {
		t.Fatal("expected an error inserting a chunk outside the region")
	}
}

func TestRegionChunksReturnsOnlyResidentSlots(t *testing.T) {
	r := NewRegion(RegionPos{X: 0, Z: 0})
	r.Insert(NewChunk(ChunkPos{X: 0, Z: 0}))
	r.Insert(NewChunk(ChunkPos{X: 1, Z: 1}))

	chunks := r.Chunks()
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
}

func TestRegionPosFilenameDeterministic(t *testing.T) {
	pos := RegionPos{X: 0, Z: 0}
	if pos.Filename() != pos.Filename() {
		t.Error("Filename should be deterministic")
	}
	if pos.Filename() == (RegionPos{X: 1, Z: 0}).Filename() {
		t.Error("different regions should produce different filenames")
	}
}

func TestRegionPosIsValid(t *testing.T) {
	valid := RegionPos{X: 0, Z: 0}
	if !valid.IsValid() {
		t.Error("origin region should be valid")
	}

	farAway := RegionPos{X: 1 << 20, Z: 0}
	if farAway.IsValid() {
		t.Error("a region far outside WorldMaxChunks should be invalid")
	}
}
