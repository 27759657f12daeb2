// ABOUTME: Per-channel reverb send
// ABOUTME: Feedback comb filter parameterised by reverb preset
package output

import "github.com/Resonate-Protocol/voicepool-go/pkg/audio"

type reverbParams struct {
	delayMs  float64
	feedback float64
	wet      float64
}

var reverbTable = map[audio.ReverbPreset]reverbParams{
	audio.ReverbGeneric:    {delayMs: 40, feedback: 0.45, wet: 0.30},
	audio.ReverbRoom:       {delayMs: 20, feedback: 0.35, wet: 0.25},
	audio.ReverbBathroom:   {delayMs: 15, feedback: 0.60, wet: 0.40},
	audio.ReverbHallway:    {delayMs: 55, feedback: 0.50, wet: 0.30},
	audio.ReverbCave:       {delayMs: 90, feedback: 0.65, wet: 0.45},
	audio.ReverbArena:      {delayMs: 120, feedback: 0.55, wet: 0.35},
	audio.ReverbHangar:     {delayMs: 150, feedback: 0.60, wet: 0.40},
	audio.ReverbAlley:      {delayMs: 35, feedback: 0.40, wet: 0.30},
	audio.ReverbForest:     {delayMs: 70, feedback: 0.25, wet: 0.20},
	audio.ReverbCity:       {delayMs: 60, feedback: 0.30, wet: 0.20},
	audio.ReverbMountains:  {delayMs: 250, feedback: 0.35, wet: 0.25},
	audio.ReverbUnderwater: {delayMs: 10, feedback: 0.75, wet: 0.60},
}

type comb struct {
	left, right []float64
	idx         int
	feedback    float64
	wet         float64
}

// newComb returns nil for ReverbOff and unknown presets
func newComb(preset audio.ReverbPreset, sampleRate int) *comb {
	p, ok := reverbTable[preset]
	if !ok {
		return nil
	}
	n := int(p.delayMs * float64(sampleRate) / 1000)
	if n < 1 {
		n = 1
	}
	return &comb{
		left:     make([]float64, n),
		right:    make([]float64, n),
		feedback: p.feedback,
		wet:      p.wet,
	}
}

func (c *comb) process(l, r float64) (float64, float64) {
	dl, dr := c.left[c.idx], c.right[c.idx]
	c.left[c.idx] = l + dl*c.feedback
	c.right[c.idx] = r + dr*c.feedback
	c.idx = (c.idx + 1) % len(c.left)
	return l + dl*c.wet, r + dr*c.wet
}

func (c *comb) reset() {
	for i := range c.left {
		c.left[i] = 0
		c.right[i] = 0
	}
	c.idx = 0
}
