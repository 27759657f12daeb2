// ABOUTME: Audio decoder package for whole-clip loading
// ABOUTME: Provides Decoder interface and implementations for WAV, MP3, FLAC, Opus and PCM
// Package decode turns encoded audio files into in-memory clips.
//
// Supports: WAV (go-audio/wav), MP3 (go-mp3), FLAC (mewkiz/flac), Ogg Opus (hraban/opus)
// and headerless 16/24-bit PCM.
//
// All decoders output int32 samples in 24-bit range so clips mix uniformly.
//
// Example:
//
//	clip, err := decode.File("sounds/orch_hit.wav")
package decode
