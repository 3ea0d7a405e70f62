package world

import "testing"

func TestChunkPosFromBlock(t *testing.T) {
	cases := []struct {
		bx, bz   int32
		wantX, wantZ int32
	}{
		{0, 0, 0, 0},
		{15, 15, 0, 0},
		{16, 16, 1, 1},
		{-1, -1, -1, -1},
		{-16, -16, -1, -1},
		{-17, -17, -2, -2},
	}
	for _, c := range cases {
		got := ChunkPosFromBlock(c.bx, c.bz)
		if got.X != c.wantX || got.Z != c.wantZ {
			t.Errorf("ChunkPosFromBlock(%d, %d) = %v, want (%d, %d)", c.bx, c.bz, got, c.wantX, c.wantZ)
		}
	}
}

func TestChunkSetBlockAndBlockAt(t *testing.T) {
	c := NewChunk(ChunkPos{X: 1, Z: 2})
	c.MarkClean()

	if c.BlockAt(0, 0, 0) != BlockAir {
		t.Fatalf("new chunk should default to air")
	}

	c.SetBlock(3, 10, 7, BlockStone)
	if got := c.BlockAt(3, 10, 7); got != BlockStone {
		t.Errorf("BlockAt after SetBlock = %v, want stone", got)
	}
	if !c.Modified {
		t.Error("SetBlock should mark the chunk modified")
	}
}

func TestChunkSetBlockOutOfBoundsIsNoOp(t *testing.T) {
	c := NewChunk(ChunkPos{})
	c.MarkClean()
	c.SetBlock(-1, 0, 0, BlockStone)
	c.SetBlock(0, ChunkHeight, 0, BlockStone)
	if c.Modified {
		t.Error("out-of-bounds SetBlock should not mark the chunk modified")
	}
}

func TestChunkEqual(t *testing.T) {
	a := NewChunk(ChunkPos{X: 1, Z: 1})
	a.SetBlock(0, 0, 0, BlockStone)
	b := NewChunk(ChunkPos{X: 1, Z: 1})
	b.SetBlock(0, 0, 0, BlockStone)
	if !a.Equal(b) {
		t.Error("chunks with identical position and blocks should be equal")
	}

	b.SetBlock(1, 0, 0, BlockDirt)
	if a.Equal(b) {
		t.Error("chunks with different blocks should not be equal")
	}
}

func TestChunkPosRegion(t *testing.T) {
	pos := ChunkPos{X: 33, Z: -33}
	region := pos.Region()
	if region.X != 1 || region.Z != -2 {
		t.Errorf("Region() = %v, want (1, -2)", region)
	}
}
