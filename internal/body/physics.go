package body

import (
	"math"
	"math/big"
)

// NarrowMass converts an exact mass to float64. Masses beyond the float64
// range saturate to +Inf; the accuracy reports whether rounding occurred.
func NarrowMass(mass *big.Int) (float64, big.Accuracy) {
	if mass == nil {
		return 0, big.Exact
	}
	return new(big.Float).SetInt(mass).Float64()
}

// PrecisionLoss reports whether mass cannot be represented as a finite float64.
func PrecisionLoss(mass *big.Int) bool {
	f, _ := NarrowMass(mass)
	return math.IsInf(f, 0)
}

// SphereRadius is the radius of a uniform sphere of the given mass and density.
func SphereRadius(mass, density float64) float64 {
	return math.Cbrt(mass / density * 3 / (4 * math.Pi))
}

// SphereMass is the inverse of SphereRadius.
func SphereMass(radius, density float64) float64 {
	return 4.0 / 3.0 * math.Pi * density * radius * radius * radius
}

// EscapeVelocity is the two-body escape speed at the surface of a
// spherically symmetric mass, in m/s.
func EscapeVelocity(mass, radius float64) float64 {
	if mass == 0 {
		return 0
	}
	if math.IsInf(mass, 1) || radius <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(2 * GravitationalConstant * mass / radius)
}
