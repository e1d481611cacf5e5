// Package deezer provides the core functionality for downloading audio content from Deezer.
// It handles URL processing, quality negotiation with tier fallback,
// streamed Blowfish decryption, metadata tagging, and organizing downloads
// into folders based on configuration templates.
package deezer
