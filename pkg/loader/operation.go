// ABOUTME: Asynchronous load operations
// ABOUTME: Pending operations complete exactly once
package loader

import (
	"sync"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
)

// Status is the state of an Operation
type Status int

const (
	StatusPending Status = iota
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Operation is an in-flight load of one asset.
// All methods are non-blocking.
type Operation interface {
	AssetID() string
	Done() bool
	Status() Status
	Result() *audio.Clip
	Err() error
}

// Loader starts loads
type Loader interface {
	Request(assetID string) Operation
}

// Pending is an Operation completed by calling Complete
type Pending struct {
	assetID string

	mu     sync.RWMutex
	status Status
	clip   *audio.Clip
	err    error
	done   chan struct{}
}

// NewPending creates an unfinished operation for assetID
func NewPending(assetID string) *Pending {
	return &Pending{
		assetID: assetID,
		done:    make(chan struct{}),
	}
}

// Complete finishes the operation. A nil clip with a nil error counts as a
// failure. Calls after the first are ignored.
func (p *Pending) Complete(clip *audio.Clip, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status != StatusPending {
		return
	}
	switch {
	case err != nil:
		p.status, p.err = StatusFailed, err
	case clip == nil:
		p.status, p.err = StatusFailed, ErrLoadFailed
	default:
		p.status, p.clip = StatusSucceeded, clip
	}
	close(p.done)
}

// Wait returns a channel closed on completion
func (p *Pending) Wait() <-chan struct{} { return p.done }

func (p *Pending) AssetID() string { return p.assetID }

func (p *Pending) Done() bool {
	return p.Status() != StatusPending
}

func (p *Pending) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *Pending) Result() *audio.Clip {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clip
}

func (p *Pending) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

// Completed returns an operation that has already finished
func Completed(assetID string, clip *audio.Clip, err error) *Pending {
	p := NewPending(assetID)
	p.Complete(clip, err)
	return p
}
