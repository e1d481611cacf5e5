// Package deezer provides a Go client for Deezer's private and public HTTP APIs.
// It speaks the gw-light JSON-RPC endpoint used by the web player (session-
// authenticated via the arl cookie, CSRF-token aware), the public REST API
// for searches, and the media endpoint that mints short-lived stream URLs.
// The client caches track and album metadata, retries transient transport
// failures with exponential backoff, and implements structured error handling
// for API interactions.
package deezer
