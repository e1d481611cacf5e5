// Package crypto implements the cryptographic pieces of the Deezer stream protocol:
// per-track Blowfish key derivation, the striped CBC stream decryption layout,
// and legacy CDN URL generation for tracks without media tokens.
// All routines are deterministic and perform no I/O of their own.
package crypto
