package session

import (
	"regexp"

	"github.com/google/uuid"

	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/protocol"
)

// usernamePattern matches the allowed Login Start username alphabet,
// [A-Za-z0-9_].
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateUsername rejects usernames that are empty, longer than 16
// bytes, or contain a character outside [A-Za-z0-9_].
func ValidateUsername(username string) error {
	if len(username) == 0 || len(username) > 16 {
		return protocol.ErrInvalidUsername
	}
	if !usernamePattern.MatchString(username) {
		return protocol.ErrInvalidUsername
	}
	return nil
}

// OfflineUUID derives the stable "offline" UUID vanilla servers use when
// online-mode authentication is disabled: a UUID v3 (MD5-based) over the
// DNS namespace and the byte string "OfflinePlayer:" + username. The
// derivation is a pure function of the username.
func OfflineUUID(username string) [16]byte {
	id := uuid.NewMD5(uuid.NameSpaceDNS, []byte("OfflinePlayer:"+username))
	var out [16]byte
	copy(out[:], id[:])
	return out
}
