package crypto

import (
	"crypto/aes"
	"crypto/md5" //nolint:gosec // The upstream protocol is built on MD5; this is not our choice.
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// legacyURLKey is the fixed AES-128 key scrambling legacy CDN stream paths.
	legacyURLKey = "jo6aey6haid2Teih"

	// legacyURLSeparator joins the fields of a legacy stream path (U+00A4).
	legacyURLSeparator = "¤"

	// legacyURLTemplate is the CDN proxy address; the single letter is the
	// first character of the track's MD5 origin.
	legacyURLTemplate = "https://e-cdns-proxy-%c.dzcdn.net/mobile/1/%s"
)

// LegacyStreamURL builds the pre-token CDN download URL for a track.
// It is the fallback path for tracks whose metadata carries no usable
// media token: the MD5 origin, format code, track ID and media version
// are scrambled with AES-ECB into the proxy path.
func LegacyStreamURL(trackID, md5Origin, mediaVersion string, formatCode int) string {
	proxyLetter := byte('0')
	if md5Origin != "" {
		proxyLetter = md5Origin[0]
	}

	return fmt.Sprintf(legacyURLTemplate, proxyLetter, legacyStreamPath(trackID, md5Origin, mediaVersion, formatCode))
}

// legacyStreamPath assembles and encrypts the path component of a legacy URL.
func legacyStreamPath(trackID, md5Origin, mediaVersion string, formatCode int) string {
	fields := strings.Join([]string{
		md5Origin,
		fmt.Sprintf("%d", formatCode),
		trackID,
		mediaVersion,
	}, legacyURLSeparator)

	payload := md5Hex([]byte(fields)) + legacyURLSeparator + fields + legacyURLSeparator

	// Dot-pad to the AES block size. An already aligned payload stays as is.
	if padding := aes.BlockSize - len(payload)%aes.BlockSize; padding < aes.BlockSize {
		payload += strings.Repeat(".", padding)
	}

	return aesECBEncryptHex([]byte(legacyURLKey), []byte(payload))
}

// md5Hex returns the lowercase hex MD5 digest of data.
func md5Hex(data []byte) string {
	//nolint:gosec // Protocol-mandated MD5, not used for security.
	digest := md5.Sum(data)

	return hex.EncodeToString(digest[:])
}

// aesECBEncryptHex encrypts data block by block in ECB mode and hex-encodes
// the result. The data length must be a multiple of the AES block size,
// which legacyStreamPath guarantees by padding.
func aesECBEncryptHex(key, data []byte) string {
	block, err := aes.NewCipher(key)
	if err != nil {
		// The key is a compiled-in 16-byte constant; this cannot fail at runtime.
		panic(fmt.Sprintf("crypto: invalid legacy URL key: %v", err))
	}

	encrypted := make([]byte, len(data))
	for offset := 0; offset < len(data); offset += aes.BlockSize {
		block.Encrypt(encrypted[offset:offset+aes.BlockSize], data[offset:offset+aes.BlockSize])
	}

	return hex.EncodeToString(encrypted)
}
