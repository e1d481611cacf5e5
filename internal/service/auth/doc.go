// Package auth provides browser-based authentication services for Deezer.
//
// This package implements automated session cookie extraction using
// browser automation via go-rod. It opens the Deezer login page, waits
// for the user to sign in, and reads the ARL cookie from the browser
// profile. On machines without a browser it falls back to an
// interactive prompt where the cookie value can be pasted manually.
package auth
