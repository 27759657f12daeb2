// ABOUTME: Moves playing voices to their follow targets
// ABOUTME: Called once per tick by the engine
package voice

// TrackPositions snaps every playing voice with a follow target to the
// target's current position. Call it once per simulation tick.
func (p *Pool) TrackPositions() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.slots {
		s := &p.slots[i]
		if s.follow == nil || !s.device.IsPlaying() {
			continue
		}
		s.device.SetPosition(s.follow.Position())
	}
}
