// Package config resolves command-line reverb presets into a
// comb.Reverber, the way the MOD player this is adapted from wires its
// -reverb flag.
package config

import (
	"fmt"

	"github.com/opl3-go/musdoom/internal/comb"
)

// ReverbPassThrough implements comb.Reverber but leaves the audio alone.
type ReverbPassThrough struct {
	audio             []int16
	bufSize           int
	readPos, writePos int
	n                 int
}

var _ comb.Reverber = &ReverbPassThrough{}

// NewPassThrough creates a ReverbPassThrough with the given ring buffer size.
func NewPassThrough(bufferSize int) *ReverbPassThrough {
	return &ReverbPassThrough{
		audio:   make([]int16, bufferSize),
		bufSize: bufferSize,
	}
}

func (r *ReverbPassThrough) InputSamples(in []int16) int {
	free := r.bufSize - r.n
	n := len(in)
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}

	if r.writePos+n >= r.bufSize {
		n1 := r.bufSize - r.writePos
		n2 := n - n1
		copy(r.audio[r.writePos:r.writePos+n1], in[:n1])
		copy(r.audio[:n2], in[n1:n1+n2])
		r.writePos = n2
	} else {
		copy(r.audio[r.writePos:r.writePos+n], in[:n])
		r.writePos += n
	}
	r.n += n

	return n
}

func (r *ReverbPassThrough) GetAudio(out []int16) int {
	n := len(out)
	if n > r.n {
		n = r.n
	}
	if n == 0 {
		return 0
	}

	if r.readPos+n > r.bufSize {
		n1 := r.bufSize - r.readPos
		n2 := n - n1
		copy(out[:n1], r.audio[r.readPos:r.readPos+n1])
		copy(out[n1:n], r.audio[:n2])
		r.readPos = n2
	} else {
		copy(out[:n], r.audio[r.readPos:r.readPos+n])
		r.readPos += n
	}
	r.n -= n

	return n
}

// ReverbFromFlag maps a preset name onto a comb.Reverber sized for
// sampleRate, following the MOD player's -reverb flag convention.
func ReverbFromFlag(reverb string, sampleRate int) (comb.Reverber, error) {
	decay := float32(0.5)
	damping := float32(0.5)
	mix := float32(0.2)

	switch reverb {
	case "none":
		return NewPassThrough(10 * 1024), nil
	case "light":
		mix = 0.15
	case "medium":
		mix = 0.3
		decay = 0.6
	case "hall":
		mix = 0.5
		decay = 0.8
		damping = 0.3
	default:
		return nil, fmt.Errorf("unrecognized reverb setting %q", reverb)
	}

	return comb.NewStereoReverb(10*1024, decay, damping, mix, sampleRate), nil
}
