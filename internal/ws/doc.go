// Package ws streams the terminal over WebSocket.
//
// On connect a client receives the transcript replay, then live output
// chunks as they arrive. Client messages carry shell keystrokes and
// terminal resizes; both are silently dropped when no interactive shell is
// attached. Status events (phase changes, errors with transcript tails for
// the AI-fix flow) ride the same connection.
package ws
