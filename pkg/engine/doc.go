// ABOUTME: Composition root wiring the mixer, voice pool and audio backend
// ABOUTME: Runs the reclamation sweep and position tracking loops
// Package engine owns one mixer, one voice pool and one audio output.
//
// It replaces a process-wide audio singleton with an explicitly owned value:
// the host creates an Engine, plays voices through Pool(), and closes it on
// shutdown. While started the engine runs two loops: the sweep loop reclaims
// one slot per SweepInterval and the tick loop snaps followed voices to their
// targets every TickInterval.
//
// Example:
//
//	eng, err := engine.New(engine.Config{Pool: voice.DefaultConfig()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	h, err := eng.Pool().Play(voice.NewDescriptor("OrchHit", clip))
package engine
