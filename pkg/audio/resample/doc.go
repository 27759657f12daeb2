// ABOUTME: Sample rate conversion package
// ABOUTME: Linear interpolation resampler used when loading clips
// Package resample converts audio between sample rates.
//
// The loader uses Clip to bring every decoded asset to the mixer's output
// rate once, so the mixer only has to step by pitch at playback time.
//
// Example:
//
//	clip = resample.Clip(clip, 48000)
package resample
