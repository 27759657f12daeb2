// ABOUTME: Fixed-capacity voice pool with handle-addressed playback control
// ABOUTME: Allocation, pause/resume/stop/gain and reporting over a slot array
package voice

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
)

// slot pairs one device with its lease bookkeeping
type slot struct {
	device     Device
	active     bool
	paused     bool
	follow     FollowTarget
	generation uint32
	name       string
}

// Pool owns a fixed array of voices. All methods are safe for concurrent use.
type Pool struct {
	mu       sync.Mutex
	slots    []slot
	cursor   int
	origin   audio.Vec3
	notifier *Notifier
	logger   *slog.Logger

	plays     uint64
	exhausted uint64
	reclaimed uint64
}

// Option configures a Pool
type Option func(*Pool)

// WithLogger sets the diagnostics logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithNotifier sets the notifier Play broadcasts to
func WithNotifier(n *Notifier) Option {
	return func(p *Pool) {
		if n != nil {
			p.notifier = n
		}
	}
}

// WithDefaultPosition sets where voices without a follow target are placed
func WithDefaultPosition(pos audio.Vec3) Option {
	return func(p *Pool) {
		p.origin = pos
	}
}

// NewPool creates cfg.SourcePoolSize devices with factory
func NewPool(cfg Config, factory DeviceFactory, opts ...Option) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: nil device factory", ErrInvalidConfig)
	}

	p := &Pool{
		slots:    make([]slot, cfg.SourcePoolSize),
		notifier: NewNotifier(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "voicepool")

	for i := range p.slots {
		d := factory(i)
		if d == nil {
			return nil, fmt.Errorf("%w: factory returned nil device for slot %d", ErrInvalidConfig, i)
		}
		d.Stop()
		d.SetClip(nil)
		p.slots[i].device = d
	}

	p.logger.Debug("voice pool created", "size", len(p.slots))
	return p, nil
}

// Size returns the fixed number of slots
func (p *Pool) Size() int {
	return len(p.slots)
}

// Notifier returns the notifier Play broadcasts to
func (p *Pool) Notifier() *Notifier {
	return p.notifier
}

// Play leases the lowest free slot and starts desc on it
func (p *Pool) Play(desc Descriptor) (Handle, error) {
	return p.play(desc, desc.Flat)
}

// Play2D is Play without spatialisation
func (p *Pool) Play2D(desc Descriptor) (Handle, error) {
	return p.play(desc, true)
}

func (p *Pool) play(desc Descriptor, flat bool) (Handle, error) {
	if desc.Clip == nil {
		p.logger.Error("trying to play an unloaded clip", "name", desc.Name)
		return Invalid, fmt.Errorf("%w: %q", ErrUnloadedAsset, desc.Name)
	}

	p.mu.Lock()
	idx := p.free()
	if idx < 0 {
		p.exhausted++
		p.mu.Unlock()
		p.logger.Error("no available sources in pool", "name", desc.Name, "size", len(p.slots))
		return Invalid, ErrPoolExhausted
	}

	s := &p.slots[idx]
	s.active = true
	s.paused = false
	s.name = desc.Name

	d := s.device
	d.SetClip(desc.Clip)
	d.SetLoop(desc.Loop)
	d.SetVolume(desc.Gain)
	d.SetPitch(desc.pitch())
	d.SetReverb(desc.Reverb)
	if flat {
		d.SetSpatialBlend(0)
	} else {
		d.SetSpatialBlend(1)
	}
	if desc.Follow != nil {
		s.follow = desc.Follow
		d.SetPosition(desc.Follow.Position())
	} else {
		d.SetPosition(p.origin)
	}
	d.Play()

	h := Handle{Index: idx, Generation: s.generation}
	event := Event{Name: desc.Name, Position: d.Position()}
	p.plays++
	p.mu.Unlock()

	p.logger.Debug("voice allocated", "handle", h, "name", desc.Name, "flat", flat)
	p.notifier.Broadcast(event)
	return h, nil
}

// free returns the lowest inactive slot or -1
func (p *Pool) free() int {
	for i := range p.slots {
		if !p.slots[i].active {
			return i
		}
	}
	return -1
}

// lookup returns the slot h addresses; callers hold p.mu
func (p *Pool) lookup(h Handle) (*slot, bool) {
	if h.Index == Invalid.Index || h.Index < 0 || h.Index >= len(p.slots) {
		return nil, false
	}
	s := &p.slots[h.Index]
	if s.device == nil || !s.active || s.generation != h.Generation {
		return nil, false
	}
	return s, true
}

func (p *Pool) invalid(op string, h Handle) error {
	p.logger.Error("play handle is invalid", "op", op, "handle", h)
	return fmt.Errorf("%s %v: %w", op, h, ErrInvalidHandle)
}

// release returns a slot to the free state; callers hold p.mu
func (p *Pool) release(s *slot) {
	s.device.Stop()
	s.device.SetClip(nil)
	s.active = false
	s.paused = false
	s.follow = nil
	s.name = ""
	s.generation++
}

// Valid reports whether h addresses a live voice
func (p *Pool) Valid(h Handle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.lookup(h)
	return ok
}

// Pause pauses the voice. Pausing a paused voice is a no-op.
func (p *Pool) Pause(h Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.lookup(h)
	if !ok {
		return p.invalid("pause", h)
	}
	s.device.Pause()
	s.paused = true
	return nil
}

// Resume resumes a paused voice. Resuming a running voice is a no-op.
func (p *Pool) Resume(h Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.lookup(h)
	if !ok {
		return p.invalid("resume", h)
	}
	s.device.Resume()
	s.paused = false
	return nil
}

// Stop ends the voice and frees its slot. *h is set to Invalid whether or
// not the handle was valid.
func (p *Pool) Stop(h *Handle) error {
	if h == nil {
		return p.invalid("stop", Invalid)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	target := *h
	*h = Invalid

	s, ok := p.lookup(target)
	if !ok {
		return p.invalid("stop", target)
	}
	p.release(s)
	p.logger.Debug("voice stopped", "handle", target)
	return nil
}

// SetGain sets the voice's linear volume
func (p *Pool) SetGain(h Handle, gain float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.lookup(h)
	if !ok {
		return p.invalid("set gain", h)
	}
	s.device.SetVolume(gain)
	return nil
}

// Paused reports whether the voice is paused; false for invalid handles
func (p *Pool) Paused(h Handle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.lookup(h)
	return ok && s.paused
}

// Stats is a point-in-time summary of pool usage
type Stats struct {
	Size      int
	Active    int
	Paused    int
	Plays     uint64
	Exhausted uint64
	Reclaimed uint64
}

// Stats returns current occupancy and lifetime counters
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := Stats{
		Size:      len(p.slots),
		Plays:     p.plays,
		Exhausted: p.exhausted,
		Reclaimed: p.reclaimed,
	}
	for i := range p.slots {
		if p.slots[i].active {
			st.Active++
		}
		if p.slots[i].paused {
			st.Paused++
		}
	}
	return st
}

// Usage returns a one-line occupancy report
func (p *Pool) Usage() string {
	st := p.Stats()
	return fmt.Sprintf("%d/%d sources in use", st.Active, st.Size)
}

// SlotInfo describes one slot for monitoring
type SlotInfo struct {
	Index     int
	Active    bool
	Paused    bool
	Playing   bool
	Following bool
	Name      string
	Volume    float64
	Position  audio.Vec3
}

// Snapshot returns the state of every slot in index order
func (p *Pool) Snapshot() []SlotInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]SlotInfo, len(p.slots))
	for i := range p.slots {
		s := &p.slots[i]
		out[i] = SlotInfo{
			Index:     i,
			Active:    s.active,
			Paused:    s.paused,
			Playing:   s.device.IsPlaying(),
			Following: s.follow != nil,
			Name:      s.name,
			Volume:    s.device.Volume(),
			Position:  s.device.Position(),
		}
	}
	return out
}
