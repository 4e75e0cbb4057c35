// Package analysis inspects recorded module signals: oscillation spectra and
// step response figures.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum is the one sided amplitude spectrum of a uniformly sampled signal.
type Spectrum struct {
	Freqs      []float64
	Amplitudes []float64
}

// NewSpectrum removes the mean of signal and transforms it. dt is the
// sample period in seconds.
func NewSpectrum(signal []float64, dt float64) Spectrum {
	n := len(signal)
	if n < 2 || dt <= 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range signal {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range signal {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	half := n / 2
	s := Spectrum{
		Freqs:      make([]float64, half),
		Amplitudes: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		s.Freqs[k] = float64(k) / (float64(n) * dt)
		s.Amplitudes[k] = 2 * cmplx.Abs(coeffs[k]) / float64(n)
	}
	return s
}

// Peak returns the strongest non-DC component.
func (s Spectrum) Peak() (freq, amplitude float64) {
	for k := 1; k < len(s.Amplitudes); k++ {
		if s.Amplitudes[k] > amplitude {
			freq, amplitude = s.Freqs[k], s.Amplitudes[k]
		}
	}
	return freq, amplitude
}

// SettlingTime is the first time after which values stay within tol of
// target. ok is false if the signal never settles.
func SettlingTime(times, values []float64, target, tol float64) (t float64, ok bool) {
	settled := -1
	for i := range values {
		if math.Abs(values[i]-target) > tol {
			settled = -1
			continue
		}
		if settled < 0 {
			settled = i
		}
	}
	if settled < 0 {
		return 0, false
	}
	return times[settled], true
}

// Overshoot is how far values passed target, as a fraction of the distance
// from the first sample to target. Zero when the signal never crosses.
func Overshoot(values []float64, target float64) float64 {
	if len(values) == 0 {
		return 0
	}
	span := target - values[0]
	if span == 0 {
		return 0
	}
	worst := 0.0
	for _, v := range values {
		if over := (v - target) / span; over > worst {
			worst = over
		}
	}
	return worst
}
