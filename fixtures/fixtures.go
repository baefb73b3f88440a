// Package fixtures embeds the static JSON documents the book club
// scenarios load as API payloads and form input.
package fixtures

import "embed"

// Default paths within FS.
const (
	BookListPath = "book-club/book-list.json"
	PersonPath   = "book-club/donna-noble.json"
)

// FS holds the fixture documents shipped with the suite.
//
//go:embed book-club/*.json
var FS embed.FS
