// Package dashboard provides the embedded status page for labelbridge.
//
// This package uses Go's embed directive to include the page at compile
// time, enabling single-binary deployment without external asset files.
// The page is served by the server package at the root path ("/").
package dashboard

import "embed"

// Assets is an embedded filesystem containing the status page.
//
//go:embed assets/*
var Assets embed.FS
