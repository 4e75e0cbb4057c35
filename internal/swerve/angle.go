package swerve

import "math"

const twoPi = 2 * math.Pi

// InputModulus wraps x into the half-open interval [min, max). Values already
// inside the interval are returned unchanged.
func InputModulus(x, min, max float64) float64 {
	modulus := max - min
	x -= math.Floor((x-min)/modulus) * modulus
	if x < min {
		x += modulus
	}
	if x >= max {
		x -= modulus
	}
	// Rounding can still leave x on the wrong side of a bound by an ulp.
	if x < min || x >= max {
		x = min
	}
	return x
}

// NormalizeZeroToTwoPi wraps an angle in radians into [0, 2π).
func NormalizeZeroToTwoPi(angle float64) float64 {
	return InputModulus(angle, 0, twoPi)
}

// NormalizeNegPiToPi wraps an angle in radians into [-π, π).
func NormalizeNegPiToPi(angle float64) float64 {
	return InputModulus(angle, -math.Pi, math.Pi)
}

// ShortestAngle returns the signed rotation in [-π, π) that takes from onto to.
func ShortestAngle(from, to float64) float64 {
	return NormalizeNegPiToPi(NormalizeZeroToTwoPi(to) - NormalizeZeroToTwoPi(from))
}

// Rotation is a planar angle in radians. It is not wrapped.
type Rotation float64

// FromDegrees builds a Rotation from degrees.
func FromDegrees(deg float64) Rotation {
	return Rotation(deg * math.Pi / 180)
}

func (r Rotation) Radians() float64 { return float64(r) }
func (r Rotation) Degrees() float64 { return float64(r) * 180 / math.Pi }
func (r Rotation) Cos() float64     { return math.Cos(float64(r)) }
func (r Rotation) Sin() float64     { return math.Sin(float64(r)) }
