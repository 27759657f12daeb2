// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Normalises decoded clips to the mixer's output rate
package resample

import "github.com/Resonate-Protocol/voicepool-go/pkg/audio"

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts input samples to output sample rate using linear interpolation
// input: interleaved samples at inputRate
// output: interleaved samples at outputRate
func (r *Resampler) Resample(input []int32, output []int32) int {
	if len(input) == 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	outIdx := 0
	for outIdx < outputFrames {
		inputIdx := int(r.position)

		// Need a following frame to interpolate against
		if inputIdx >= inputFrames-1 {
			break
		}

		frac := r.position - float64(inputIdx)
		for ch := 0; ch < r.channels; ch++ {
			sample1 := input[inputIdx*r.channels+ch]
			sample2 := input[(inputIdx+1)*r.channels+ch]
			output[outIdx*r.channels+ch] = int32(float64(sample1)*(1.0-frac) + float64(sample2)*frac)
		}

		outIdx++
		r.position += r.ratio
	}

	// Keep fractional part for the next chunk
	r.position -= float64(int(r.position))

	return outIdx * r.channels
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0.0
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(float64(inputFrames) / r.ratio)
	return outputFrames * r.channels
}

// Clip returns a copy of clip converted to sampleRate.
// Clips already at the target rate are returned unchanged.
func Clip(clip *audio.Clip, sampleRate int) *audio.Clip {
	if clip == nil || sampleRate <= 0 || clip.Format.SampleRate == sampleRate || clip.Format.SampleRate <= 0 {
		return clip
	}

	r := New(clip.Format.SampleRate, sampleRate, clip.Format.Channels)
	out := make([]int32, r.OutputSamplesNeeded(len(clip.Samples)))
	n := r.Resample(clip.Samples, out)

	format := clip.Format
	format.SampleRate = sampleRate
	return &audio.Clip{
		Name:    clip.Name,
		Format:  format,
		Samples: out[:n],
	}
}
