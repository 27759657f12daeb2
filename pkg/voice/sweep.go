// ABOUTME: Incremental reclamation of finished voices
// ABOUTME: One slot per step, cursor wraps around the pool
package voice

// SweepStep inspects the slot under the cursor, reclaims it if its voice
// finished on its own, advances the cursor and returns the inspected index.
// Size() calls cover the whole pool.
func (p *Pool) SweepStep() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.cursor
	p.cursor = (p.cursor + 1) % len(p.slots)

	s := &p.slots[i]
	if s.active && !s.paused && !s.device.IsPlaying() {
		name := s.name
		p.release(s)
		p.reclaimed++
		p.logger.Debug("voice reclaimed", "index", i, "name", name)
	}
	return i
}

// SweepPass runs one full sweep over the pool
func (p *Pool) SweepPass() {
	for range len(p.slots) {
		p.SweepStep()
	}
}
