// ABOUTME: Gate tracks a group of load operations
// ABOUTME: Poll reports readiness, AwaitAll blocks until done
package loader

import (
	"context"
	"time"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
)

// DefaultPollInterval is how often AwaitAll polls when no interval is given
const DefaultPollInterval = 10 * time.Millisecond

// Gate waits for a fixed set of operations
type Gate struct {
	ops []Operation
}

// NewGate watches ops
func NewGate(ops ...Operation) *Gate {
	return &Gate{ops: ops}
}

// Poll reports whether every operation has finished. Once they all have,
// the first failed operation in order is returned as a *LoadError.
func (g *Gate) Poll() (bool, error) {
	for _, op := range g.ops {
		if !op.Done() {
			return false, nil
		}
	}
	for _, op := range g.ops {
		if op.Status() != StatusFailed {
			continue
		}
		err := op.Err()
		if err == nil {
			err = ErrLoadFailed
		}
		return true, &LoadError{AssetID: op.AssetID(), Err: err}
	}
	return true, nil
}

// Progress returns how many operations have finished out of the total
func (g *Gate) Progress() (completed, total int) {
	for _, op := range g.ops {
		if op.Done() {
			completed++
		}
	}
	return completed, len(g.ops)
}

// Clips returns each operation's result in order; unfinished or failed entries are nil
func (g *Gate) Clips() []*audio.Clip {
	clips := make([]*audio.Clip, len(g.ops))
	for i, op := range g.ops {
		clips[i] = op.Result()
	}
	return clips
}

// AwaitAll polls a gate over ops every interval until all are done.
// Cancelling ctx abandons the wait; the operations themselves keep running.
func AwaitAll(ctx context.Context, interval time.Duration, ops ...Operation) ([]*audio.Clip, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	g := NewGate(ops...)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := g.Poll()
		if done {
			if err != nil {
				return nil, err
			}
			return g.Clips(), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
