// ABOUTME: Package documentation for the event tap
// ABOUTME: Streams pool audio events to WebSocket clients
// Package eventtap pushes audio events to WebSocket clients.
//
// A Tap subscribes to a voice.Notifier and forwards every play as a JSON
// message of type "audio/event" to each client connected on /events. Slow
// clients miss events rather than stall playback.
package eventtap
