package crypto

import (
	"crypto/md5" //nolint:gosec // The upstream protocol is built on MD5; this is not our choice.
	"encoding/hex"
	"fmt"
)

const (
	// trackKeySize is the length of a derived Blowfish track key in bytes.
	trackKeySize = 16

	// trackKeySecret is the fixed service secret mixed into every track key.
	trackKeySecret = "g4el58wc0zvf9na1"
)

// StreamIV is the initialization vector used for every protected stream segment.
// It is identical for all tracks; per-track uniqueness comes from the key alone.
//
//nolint:gochecknoglobals // Immutable protocol constant.
var StreamIV = [8]byte{0, 1, 2, 3, 4, 5, 6, 7}

// TrackKey derives the 16-byte Blowfish key for a track.
// The trackID must be the canonical decimal form of the track identifier;
// passing anything else is a programming error and panics.
// Derivation is deterministic: the two halves of the hex-encoded MD5 digest
// of the identifier are XORed together with the fixed service secret.
func TrackKey(trackID string) []byte {
	if !isDecimal(trackID) {
		panic(fmt.Sprintf("crypto: track ID %q is not a decimal identifier", trackID))
	}

	//nolint:gosec // Protocol-mandated MD5, not used for security.
	digest := md5.Sum([]byte(trackID))
	hexDigest := hex.EncodeToString(digest[:])

	key := make([]byte, trackKeySize)
	for i := range key {
		key[i] = hexDigest[i] ^ hexDigest[i+trackKeySize] ^ trackKeySecret[i]
	}

	return key
}

// isDecimal reports whether s is a non-empty string of ASCII digits,
// optionally preceded by a minus sign (user-uploaded tracks have negative IDs).
func isDecimal(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] == '-' && i == 0 && len(s) > 1 {
			continue
		}

		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
