package protocol

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Frame is one decoded packet: its ID plus the raw payload bytes that
// follow it (the payload does not include the ID's own VarInt encoding).
type Frame struct {
	ID      int32
	Payload []byte
}

// ReadFrame reads one `VarInt length · VarInt packet-id · payload` frame
// from r. length measures packet-id + payload together. An io.EOF on the
// very first byte of the length VarInt is returned unwrapped so callers
// can distinguish a clean disconnect from a mid-frame I/O failure.
func ReadFrame(r *bufio.Reader) (*Frame, error) {
	length, err := readFrameLength(r)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative frame length", ErrMalformedFrame)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("protocol: read frame body: %w", err)
	}

	br := bytes.NewReader(body)
	id, err := ReadVarInt(br)
	if err != nil {
		return nil, fmt.Errorf("protocol: read packet id: %w", err)
	}

	payload := make([]byte, br.Len())
	if _, err := io.ReadFull(br, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	return &Frame{ID: id, Payload: payload}, nil
}

// readFrameLength reads the outer length VarInt, preserving io.EOF when it
// occurs on the first byte (no partial frame has been started yet).
func readFrameLength(r *bufio.Reader) (int32, error) {
	if _, err := r.Peek(1); err != nil {
		return 0, err
	}
	return ReadVarInt(r)
}

// WriteFrame writes id and payload to w as a length-prefixed frame, then
// flushes. Every clientbound send must reach the socket immediately, so
// WriteFrame owns the flush rather than leaving it to the caller.
func WriteFrame(w *bufio.Writer, id int32, payload []byte) error {
	idSize := VarIntSize(id)
	length := int32(idSize + len(payload))

	if err := WriteVarInt(w, length); err != nil {
		return fmt.Errorf("protocol: write frame length: %w", err)
	}
	if err := WriteVarInt(w, id); err != nil {
		return fmt.Errorf("protocol: write packet id: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("protocol: write frame payload: %w", err)
	}
	return w.Flush()
}
