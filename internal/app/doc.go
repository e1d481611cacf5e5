// Package app provides the main application logic for downloading audio from Deezer.
// It initializes the necessary components, such as the Deezer client, URL processor,
// template manager, tag processor and quality resolver, and orchestrates the
// download process.
package app
