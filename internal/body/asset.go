package body

import (
	"fmt"
	"math/big"

	"celestial-server/internal/entity"
)

type AutomatedAssetParams struct {
	Mass     *big.Int
	Parent   entity.Handle
	Orbit    Orbit
	Rotation Rotation
	Detail   AutomataDetail
}

// AutomatedAsset is an artificial installation in orbit. Its radius and
// escape velocity are derived from mass on every call, treating it as a
// uniform sphere of AutomataDensity.
type AutomatedAsset struct {
	common
	detail AutomataDetail
}

func NewAutomatedAsset(p AutomatedAssetParams) (*AutomatedAsset, error) {
	parent := p.Parent
	orbit := p.Orbit
	c, err := newCommon(p.Mass, &parent, &orbit, p.Rotation)
	if err != nil {
		return nil, fmt.Errorf("automated asset: %w", err)
	}
	return &AutomatedAsset{common: c, detail: p.Detail.clone()}, nil
}

func (*AutomatedAsset) Kind() Kind { return KindAutomatedAsset }

func (a *AutomatedAsset) Radius() float64 {
	return SphereRadius(a.ApproximateMass(), AutomataDensity)
}

func (a *AutomatedAsset) EscapeVelocity() float64 {
	return EscapeVelocity(a.ApproximateMass(), a.Radius())
}

func (a *AutomatedAsset) Detail() AutomataDetail {
	return a.detail.clone()
}
