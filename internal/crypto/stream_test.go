package crypto

import (
	"bytes"
	"crypto/cipher"
	"fmt"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blowfish"
)

// encryptStream applies the service's partial-encryption layout to plaintext:
// the first ProtectedSegmentSize bytes of every complete window are CBC-encrypted
// with a fresh IV, the rest passes through. It is the test-side inverse of DecryptReader.
func encryptStream(t *testing.T, key, plaintext []byte) []byte {
	t.Helper()

	block, err := blowfish.NewCipher(key)
	require.NoError(t, err)

	encrypted := make([]byte, len(plaintext))
	copy(encrypted, plaintext)

	for offset := 0; offset < len(encrypted); offset += StreamWindowSize {
		window := encrypted[offset:min(offset+StreamWindowSize, len(encrypted))]
		if len(window) < ProtectedSegmentSize {
			break
		}

		iv := StreamIV
		cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(
			window[:ProtectedSegmentSize],
			window[:ProtectedSegmentSize],
		)
	}

	return encrypted
}

// patternedPlaintext builds deterministic, non-repeating test data.
func patternedPlaintext(length int) []byte {
	data := make([]byte, length)
	for i := range data {
		data[i] = byte(i*7 + i/251)
	}

	return data
}

// TestDecryptReader_RoundTrip tests that decrypting an encrypted stream
// reproduces the plaintext exactly, across all layout edge cases:
// empty, sub-protected, exactly protected, protected spilling into
// passthrough, full windows, and multi-window streams with odd tails.
func TestDecryptReader_RoundTrip(t *testing.T) {
	t.Parallel()

	key := TrackKey("3135556")

	lengths := []int{0, 1, 2047, 2048, 2049, 6143, 6144, 6145, 12288 + 100}

	for _, length := range lengths {
		t.Run(fmt.Sprintf("%d bytes", length), func(t *testing.T) {
			t.Parallel()

			plaintext := patternedPlaintext(length)
			encrypted := encryptStream(t, key, plaintext)

			reader, err := NewDecryptReader(bytes.NewReader(encrypted), key)
			require.NoError(t, err)

			decrypted, err := io.ReadAll(reader)
			require.NoError(t, err)

			assert.Equal(t, plaintext, decrypted)
		})
	}
}

// TestDecryptReader_ArbitraryChunkSizes tests that network-style fragmented
// reads produce the same plaintext as a single contiguous read.
func TestDecryptReader_ArbitraryChunkSizes(t *testing.T) {
	t.Parallel()

	key := TrackKey("42")
	plaintext := patternedPlaintext(2*StreamWindowSize + 517)
	encrypted := encryptStream(t, key, plaintext)

	// OneByteReader is the most hostile fragmentation possible.
	reader, err := NewDecryptReader(iotest.OneByteReader(bytes.NewReader(encrypted)), key)
	require.NoError(t, err)

	decrypted, err := io.ReadAll(reader)
	require.NoError(t, err)

	assert.Equal(t, plaintext, decrypted)
}

// TestDecryptReader_SmallDestinationBuffers tests reading through a tiny buffer.
func TestDecryptReader_SmallDestinationBuffers(t *testing.T) {
	t.Parallel()

	key := TrackKey("42")
	plaintext := patternedPlaintext(StreamWindowSize + 100)
	encrypted := encryptStream(t, key, plaintext)

	reader, err := NewDecryptReader(bytes.NewReader(encrypted), key)
	require.NoError(t, err)

	var decrypted bytes.Buffer

	buffer := make([]byte, 13)

	for {
		n, readErr := reader.Read(buffer)
		decrypted.Write(buffer[:n])

		if readErr == io.EOF {
			break
		}

		require.NoError(t, readErr)
	}

	assert.Equal(t, plaintext, decrypted.Bytes())
}

// TestDecryptReader_MisalignedSegment tests that a protected segment
// that is not block-aligned fails loudly instead of corrupting output.
func TestDecryptReader_MisalignedSegment(t *testing.T) {
	t.Parallel()

	block, err := blowfish.NewCipher(TrackKey("42"))
	require.NoError(t, err)

	// A deliberately broken layout: the protected segment is not a
	// multiple of the Blowfish block size.
	const (
		brokenProtectedSize = 2047
		brokenWindowSize    = 3 * 2048
	)

	source := bytes.NewReader(patternedPlaintext(brokenWindowSize))
	reader := newDecryptReader(source, block, brokenProtectedSize, brokenWindowSize)

	_, err = io.ReadAll(reader)
	require.ErrorIs(t, err, ErrMisalignedSegment)
}

// TestDecryptReader_ErrorIsSticky tests that a decode error persists across reads.
func TestDecryptReader_ErrorIsSticky(t *testing.T) {
	t.Parallel()

	block, err := blowfish.NewCipher(TrackKey("42"))
	require.NoError(t, err)

	reader := newDecryptReader(bytes.NewReader(patternedPlaintext(4096)), block, 1001, 4096)

	buffer := make([]byte, 64)

	_, err = reader.Read(buffer)
	require.ErrorIs(t, err, ErrMisalignedSegment)

	_, err = reader.Read(buffer)
	require.ErrorIs(t, err, ErrMisalignedSegment)
}

// TestNewDecryptReader_RejectsBadKey tests key length validation.
func TestNewDecryptReader_RejectsBadKey(t *testing.T) {
	t.Parallel()

	_, err := NewDecryptReader(bytes.NewReader(nil), []byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

// TestDecryptReader_PropagatesSourceError tests that transport failures surface unchanged.
func TestDecryptReader_PropagatesSourceError(t *testing.T) {
	t.Parallel()

	key := TrackKey("42")
	encrypted := encryptStream(t, key, patternedPlaintext(StreamWindowSize))

	failure := assert.AnError
	source := io.MultiReader(bytes.NewReader(encrypted), iotest.ErrReader(failure))

	reader, err := NewDecryptReader(source, key)
	require.NoError(t, err)

	_, err = io.ReadAll(reader)
	assert.ErrorIs(t, err, failure)
}
