package session

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/ConnerAdamsMaine/RustCraft-Server/config"
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/protocol"
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/world"
)

type blankGenerator struct{}

func (blankGenerator) GenerateChunk(pos world.ChunkPos) *world.Chunk {
	c := world.NewChunk(pos)
	c.MarkClean()
	return c
}

func newTestStorage(t *testing.T) *world.Storage {
	t.Helper()
	s, err := world.NewStorage(world.Config{
		Dir:          t.TempDir(),
		WorkerCount:  2,
		PregenRadius: 1,
	}, blankGenerator{})
	if err != nil {
		t.Fatalf("world.NewStorage: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// clientCodec wraps the test's end of the pipe with the same typed
// frame I/O the session itself uses, so the test can play a real client.
type clientCodec struct {
	r *bufio.Reader
	w *bufio.Writer
}

func newClientCodec(conn net.Conn) *clientCodec {
	return &clientCodec{r: bufio.NewReader(conn), w: bufio.NewWriter(conn)}
}

func (c *clientCodec) write(id int32, payload []byte) error {
	return protocol.WriteFrame(c.w, id, payload)
}

func (c *clientCodec) read(t *testing.T) *protocol.Frame {
	t.Helper()
	f, err := protocol.ReadFrame(c.r)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

// TestSessionFullHandshakeThroughInitialChunkWindow drives a Session
// through every phase over a net.Pipe connection and checks the exact
// clientbound packet sequence a joining client sees.
func TestSessionFullHandshakeThroughInitialChunkWindow(t *testing.T) {
	storage := newTestStorage(t)
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()

	sess := New(serverConn, storage, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run(ctx) }()

	client := newClientCodec(clientConn)

	// Handshake.
	hs := protocol.NewWriter()
	hs.WriteVarInt(config.NetworkValidProtocolVersion)
	hs.WriteString("localhost")
	hs.WriteUint16(25565)
	hs.WriteVarInt(protocol.HandshakeNextLogin)
	if err := client.write(protocol.HandshakeServerboundHandshake, hs.Bytes()); err != nil {
		t.Fatalf("write handshake: %v", err)
	}

	// Login Start.
	ls := protocol.NewWriter()
	ls.WriteString("Steve")
	ls.WriteUUID([16]byte{})
	if err := client.write(protocol.LoginServerboundLoginStart, ls.Bytes()); err != nil {
		t.Fatalf("write login start: %v", err)
	}

	loginSuccess := client.read(t)
	if loginSuccess.ID != protocol.LoginClientboundLoginSuccess {
		t.Fatalf("expected login success (0x%02X), got 0x%02X",
			protocol.LoginClientboundLoginSuccess, loginSuccess.ID)
	}
	r := protocol.NewReader(loginSuccess.Payload)
	gotUUID, err := r.ReadUUID()
	if err != nil {
		t.Fatalf("read login success uuid: %v", err)
	}
	if want := OfflineUUID("Steve"); gotUUID != want {
		t.Errorf("login success uuid = %v, want the derived offline uuid %v", gotUUID, want)
	}
	gotName, err := r.ReadString()
	if err != nil || gotName != "Steve" {
		t.Errorf("login success name = %q, %v", gotName, err)
	}

	if err := client.write(protocol.LoginServerboundLoginAcknowledged, nil); err != nil {
		t.Fatalf("write login acknowledged: %v", err)
	}

	// Configuration: two registry data packets, then finish.
	for i := 0; i < 2; i++ {
		f := client.read(t)
		if f.ID != protocol.ConfigClientboundRegistryData {
			t.Fatalf("expected registry data (0x%02X), got 0x%02X", protocol.ConfigClientboundRegistryData, f.ID)
		}
	}
	finish := client.read(t)
	if finish.ID != protocol.ConfigClientboundFinish {
		t.Fatalf("expected finish configuration (0x%02X), got 0x%02X", protocol.ConfigClientboundFinish, finish.ID)
	}

	if err := client.write(protocol.ConfigServerboundAckFinish, nil); err != nil {
		t.Fatalf("write ack finish configuration: %v", err)
	}

	// Play: join sequence.
	wantJoinSeq := []int32{
		protocol.PlayClientboundJoinGame,
		protocol.PlayClientboundPlayerInfoAdd,
		protocol.PlayClientboundSetDefaultSpawnPos,
		protocol.PlayClientboundSynchronizePlayerPos,
	}
	for _, wantID := range wantJoinSeq {
		f := client.read(t)
		if f.ID != wantID {
			t.Fatalf("expected join packet 0x%02X, got 0x%02X", wantID, f.ID)
		}
		if wantID == protocol.PlayClientboundSetDefaultSpawnPos {
			// x, y, z as i32 each plus the f32 angle.
			if len(f.Payload) != 16 {
				t.Fatalf("spawn position payload = %d bytes, want 16", len(f.Payload))
			}
			pr := protocol.NewReader(f.Payload)
			x, _ := pr.ReadInt32()
			y, _ := pr.ReadInt32()
			z, _ := pr.ReadInt32()
			angle, _ := pr.ReadFloat32()
			if x != 0 || y != 64 || z != 0 || angle != 0 {
				t.Errorf("spawn position = (%d, %d, %d) angle %v, want (0, 64, 0) angle 0", x, y, z, angle)
			}
		}
	}

	// Initial chunk window: (2*radius+1)^2 chunk data packets.
	side := 2*config.InitialChunkWindowRadius + 1
	wantChunks := side * side
	for i := 0; i < wantChunks; i++ {
		f := client.read(t)
		if f.ID != protocol.PlayClientboundChunkData {
			t.Fatalf("chunk %d: expected chunk data (0x%02X), got 0x%02X", i, protocol.PlayClientboundChunkData, f.ID)
		}
	}

	cancel()
	select {
	case <-runErr:
	case <-time.After(time.Second):
		t.Fatal("session.Run did not return after context cancellation")
	}
}

func TestProtocolMismatchDisconnectsWithOutdatedServerMessage(t *testing.T) {
	storage := newTestStorage(t)
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()

	sess := New(serverConn, storage, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run(ctx) }()

	client := newClientCodec(clientConn)

	hs := protocol.NewWriter()
	hs.WriteVarInt(config.NetworkValidProtocolVersion - 1)
	hs.WriteString("localhost")
	hs.WriteUint16(25565)
	hs.WriteVarInt(protocol.HandshakeNextLogin)
	if err := client.write(protocol.HandshakeServerboundHandshake, hs.Bytes()); err != nil {
		t.Fatalf("write handshake: %v", err)
	}

	disconnect := client.read(t)
	if disconnect.ID != protocol.LoginClientboundDisconnect {
		t.Fatalf("expected login disconnect (0x%02X), got 0x%02X", protocol.LoginClientboundDisconnect, disconnect.ID)
	}
	r := protocol.NewReader(disconnect.Payload)
	msg, err := r.ReadString()
	if err != nil {
		t.Fatalf("read disconnect reason: %v", err)
	}
	if want := `{"text":"Outdated server! Please use 1.21.7"}`; msg != want {
		t.Errorf("disconnect reason = %q, want %q", msg, want)
	}

	select {
	case err := <-runErr:
		if err == nil {
			t.Fatal("Run should report an error for a protocol mismatch")
		}
	case <-time.After(time.Second):
		t.Fatal("session.Run did not return after a protocol mismatch")
	}
}

func TestValidateUsernameRejectedDisconnectsDuringLogin(t *testing.T) {
	storage := newTestStorage(t)
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()

	sess := New(serverConn, storage, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run(ctx) }()

	client := newClientCodec(clientConn)

	hs := protocol.NewWriter()
	hs.WriteVarInt(config.NetworkValidProtocolVersion)
	hs.WriteString("localhost")
	hs.WriteUint16(25565)
	hs.WriteVarInt(protocol.HandshakeNextLogin)
	client.write(protocol.HandshakeServerboundHandshake, hs.Bytes())

	ls := protocol.NewWriter()
	ls.WriteString("not a valid name")
	ls.WriteUUID([16]byte{})
	client.write(protocol.LoginServerboundLoginStart, ls.Bytes())

	disconnect := client.read(t)
	if disconnect.ID != protocol.LoginClientboundDisconnect {
		t.Fatalf("expected login disconnect (0x%02X), got 0x%02X", protocol.LoginClientboundDisconnect, disconnect.ID)
	}

	select {
	case err := <-runErr:
		if err == nil {
			t.Fatal("Run should report an error for an invalid username")
		}
	case <-time.After(time.Second):
		t.Fatal("session.Run did not return after an invalid username")
	}
}
