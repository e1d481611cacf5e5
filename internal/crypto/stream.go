package crypto

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/blowfish"
)

const (
	// ProtectedSegmentSize is the number of cipher-protected bytes
	// at the start of each stream window.
	ProtectedSegmentSize = 2048

	// StreamWindowSize is the size of one logical stream window.
	// Only the first ProtectedSegmentSize bytes of a window are encrypted;
	// the remaining two thirds pass through untouched.
	StreamWindowSize = 3 * ProtectedSegmentSize
)

// Static error definitions for better error handling.
var (
	// ErrMisalignedSegment indicates that a protected segment's length
	// is not a multiple of the Blowfish block size. It means the stream
	// layout no longer matches the protocol and must not be decoded further.
	ErrMisalignedSegment = errors.New("protected segment is not aligned to the cipher block size")

	// ErrInvalidKeySize indicates that the provided track key has the wrong length.
	ErrInvalidKeySize = errors.New("invalid track key size")
)

// DecryptReader decrypts a Deezer track stream on the fly.
// It wraps the raw network body and yields plaintext as windows complete,
// buffering at most one window of undecrypted bytes.
// A DecryptReader is not safe for concurrent use and cannot be rewound;
// restarting a stream requires a fresh reader.
type DecryptReader struct {
	// src is the underlying encrypted byte stream.
	src io.Reader
	// block is the Blowfish cipher keyed for this track.
	block cipher.Block
	// window is the carry buffer holding one in-flight stream window.
	window []byte
	// out holds decrypted bytes not yet consumed by Read.
	out []byte
	// err is the terminal state of the reader, sticky once set.
	err error
	// protectedSize and windowSize describe the stream geometry.
	protectedSize int
	windowSize    int
}

// NewDecryptReader returns a reader that decrypts the striped CBC layout of src
// using the given 16-byte track key (see TrackKey).
func NewDecryptReader(src io.Reader, key []byte) (*DecryptReader, error) {
	if len(key) != trackKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), trackKeySize)
	}

	block, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	return newDecryptReader(src, block, ProtectedSegmentSize, StreamWindowSize), nil
}

// newDecryptReader builds a reader with explicit geometry.
// Production code always uses the protocol constants;
// tests use this to exercise degenerate layouts.
func newDecryptReader(src io.Reader, block cipher.Block, protectedSize, windowSize int) *DecryptReader {
	return &DecryptReader{
		src:           src,
		block:         block,
		window:        make([]byte, windowSize),
		protectedSize: protectedSize,
		windowSize:    windowSize,
	}
}

// Read implements io.Reader, returning plaintext bytes in stream order.
// It fails with ErrMisalignedSegment if a protected segment cannot be
// block-decrypted; plaintext is never silently corrupted.
func (r *DecryptReader) Read(p []byte) (int, error) {
	for len(r.out) == 0 {
		if r.err != nil {
			return 0, r.err
		}

		r.fillWindow()
	}

	n := copy(p, r.out)
	r.out = r.out[n:]

	return n, nil
}

// fillWindow reads the next window from the source and decrypts its
// protected segment. On a short final window the trailing remainder
// passes through unmodified, per the stream layout contract.
func (r *DecryptReader) fillWindow() {
	n, err := io.ReadFull(r.src, r.window)

	switch {
	case err == nil:
		// Complete window.
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// Final, possibly short, window. The stream ends after it is emitted.
		r.err = io.EOF

		if n == 0 {
			return
		}
	default:
		r.err = err

		return
	}

	chunk := r.window[:n]

	// A final window shorter than the protected segment is not encrypted at all.
	if len(chunk) >= r.protectedSize {
		if decryptErr := r.decryptSegment(chunk[:r.protectedSize]); decryptErr != nil {
			r.err = decryptErr

			return
		}
	}

	r.out = chunk
}

// decryptSegment decrypts one protected segment in place,
// re-initializing the CBC chain with the fixed IV.
// Chaining state never carries across window boundaries.
func (r *DecryptReader) decryptSegment(segment []byte) error {
	if len(segment)%r.block.BlockSize() != 0 {
		return fmt.Errorf("%w: %d bytes", ErrMisalignedSegment, len(segment))
	}

	iv := StreamIV
	cipher.NewCBCDecrypter(r.block, iv[:]).CryptBlocks(segment, segment)

	return nil
}
