// Package server exposes the printer snapshot and print actions over a
// local HTTP API, with SSE and WebSocket streams for push updates.
package server
