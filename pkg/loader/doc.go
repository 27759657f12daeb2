// ABOUTME: Asynchronous clip loading and the gate that waits on it
// ABOUTME: Operations, the polling gate, a caching file loader and the asset manifest
// Package loader resolves asset identifiers to decoded clips asynchronously.
//
// A Loader turns an asset ID into an Operation that completes in the
// background. A Gate watches a set of operations: Poll never blocks and
// reports done once every operation has finished, surfacing the first
// failure as a *LoadError. AwaitAll polls a gate on a ticker until it is done
// or the context is cancelled.
//
// FileLoader is the disk-backed Loader. It decodes with pkg/audio/decode,
// resamples to the output rate, collapses concurrent requests for the same
// asset and caches decoded clips. A Manifest maps friendly clip names to
// asset IDs and can be generated from a directory of audio files.
//
//	ops := []loader.Operation{l.Request("OrchHit"), l.Request("sfx/laser.wav")}
//	clips, err := loader.AwaitAll(ctx, 0, ops...)
package loader
