package protocol

import "errors"

// Protocol-level sentinel errors, kept close to the code that raises
// them so callers can errors.Is against a stable identity.
var (
	// ErrMalformedFrame is raised when the wire does not describe a
	// well-formed packet: a VarInt longer than five bytes, a negative frame
	// length, or a typed field read that runs past the end of a payload.
	ErrMalformedFrame = errors.New("protocol: malformed frame")

	// ErrProtocolMismatch is raised when a Handshake packet names a
	// protocol version other than config.NetworkValidProtocolVersion.
	ErrProtocolMismatch = errors.New("protocol: version mismatch")

	// ErrUnexpectedPacket is raised when a packet ID is not valid for the
	// connection's current phase.
	ErrUnexpectedPacket = errors.New("protocol: unexpected packet for phase")

	// ErrInvalidUsername is raised when a Login Start username is empty,
	// longer than 16 bytes, or contains a character outside [A-Za-z0-9_].
	ErrInvalidUsername = errors.New("protocol: invalid username")

	// ErrInvalidIdentifier is raised when an identifier string contains a
	// character outside [a-zA-Z0-9/._-:].
	ErrInvalidIdentifier = errors.New("protocol: invalid identifier")
)
