// ABOUTME: Audio output package for mixing and playing pooled voices
// ABOUTME: Provides Mixer, Channel and the Oto, Malgo, Null and WAV backends
// Package output renders pooled voices to an audio device.
//
// A Mixer owns a set of Channels. Each Channel is the playback device behind
// one voice pool slot: it steps through its clip at the requested pitch,
// loops or stops at the end, pans and attenuates relative to the listener and
// feeds an optional reverb send. The Mixer is an io.Reader of signed 16-bit
// little-endian PCM that backends pull from.
//
// Example:
//
//	mixer, _ := output.NewMixer(48000, 2)
//	ch := mixer.NewChannel()
//	out, _ := output.New("oto")
//	err := out.Open(mixer, 48000, 2)
package output
