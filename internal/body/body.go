// Package body models stars, planets and automated assets behind a shared
// read-only contract. Units are SI: meters, seconds and kilograms.
package body

import (
	"fmt"
	"math"
	"math/big"

	"celestial-server/internal/entity"
)

const (
	// GravitationalConstant in m^3 kg^-1 s^-2.
	GravitationalConstant = 6.67430e-11

	// AutomataDensity is the assumed bulk density of automated assets, in kg/m^3.
	AutomataDensity = 10_000.0

	// AstronomicalUnit in meters; the default grid size of universe coordinates.
	AstronomicalUnit = 149_597_870_895.265
)

type Kind string

const (
	KindStar           Kind = "star"
	KindPlanet         Kind = "planet"
	KindAutomatedAsset Kind = "automated_asset"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindStar, KindPlanet, KindAutomatedAsset:
		return k, nil
	}
	return "", fmt.Errorf("unknown body kind %q", s)
}

// Body is implemented by Star, Planet and AutomatedAsset only.
// Every method is a read over immutable state.
type Body interface {
	Kind() Kind
	Parent() (entity.Handle, bool)
	Orbit() (Orbit, bool)
	Rotation() Rotation
	// ExactMass returns a copy of the authoritative mass in kilograms.
	ExactMass() *big.Int
	// ApproximateMass narrows ExactMass to float64, saturating to +Inf.
	ApproximateMass() float64
	Radius() float64
	EscapeVelocity() float64

	sealed()
}

// Orbit holds the classical orbital elements. Angles are radians.
type Orbit struct {
	Eccentricity             float64
	SemiMajorAxis            *big.Int // meters
	Inclination              float64
	LongitudeOfAscendingNode float64
	ArgumentOfPeriapsis      float64
	MeanAnomaly              float64
}

// Clone returns a deep copy so callers cannot alter the semi-major axis
// held by a body.
func (o Orbit) Clone() Orbit {
	c := o
	if o.SemiMajorAxis != nil {
		c.SemiMajorAxis = new(big.Int).Set(o.SemiMajorAxis)
	}
	return c
}

func (o Orbit) validate() error {
	if o.SemiMajorAxis == nil || o.SemiMajorAxis.Sign() < 0 {
		return fmt.Errorf("orbit semi-major axis must be a non-negative integer")
	}
	if o.Eccentricity < 0 || math.IsNaN(o.Eccentricity) {
		return fmt.Errorf("orbit eccentricity must be non-negative")
	}
	return nil
}

// Rotation parameters. The zero value is the default for bodies
// without a specified rotation.
type Rotation struct {
	Period               float64 `json:"period"`
	Obliquity            float64 `json:"obliquity"`
	EquatorAscendingNode float64 `json:"equator_ascending_node"`
}

// common carries the fields shared by every variant.
type common struct {
	parent    entity.Handle
	hasParent bool
	orbit     *Orbit
	rotation  Rotation
	mass      *big.Int
	approx    float64
}

func newCommon(mass *big.Int, parent *entity.Handle, orbit *Orbit, rotation Rotation) (common, error) {
	if mass == nil || mass.Sign() < 0 {
		return common{}, fmt.Errorf("mass must be a non-negative integer")
	}

	c := common{
		rotation: rotation,
		mass:     new(big.Int).Set(mass),
	}
	c.approx, _ = NarrowMass(c.mass)

	if parent != nil {
		if !parent.Valid() {
			return common{}, fmt.Errorf("parent: %w", entity.ErrMalformedHandle)
		}
		c.parent, c.hasParent = *parent, true
	}
	if orbit != nil {
		if err := orbit.validate(); err != nil {
			return common{}, err
		}
		o := orbit.Clone()
		c.orbit = &o
	}
	return c, nil
}

func (c *common) Parent() (entity.Handle, bool) {
	return c.parent, c.hasParent
}

func (c *common) Orbit() (Orbit, bool) {
	if c.orbit == nil {
		return Orbit{}, false
	}
	return c.orbit.Clone(), true
}

func (c *common) Rotation() Rotation {
	return c.rotation
}

func (c *common) ExactMass() *big.Int {
	return new(big.Int).Set(c.mass)
}

func (c *common) ApproximateMass() float64 {
	return c.approx
}

func (*common) sealed() {}
