package body

import (
	"fmt"
	"math/big"

	"celestial-server/internal/entity"
)

type StarParams struct {
	Mass     *big.Int
	Radius   float64
	Parent   *entity.Handle
	Orbit    *Orbit // set only for a member of a multiple system
	Rotation Rotation
	// EscapeVelocity is computed from Mass and Radius when zero.
	EscapeVelocity float64
	Attributes     StarAttributes
}

// Star keeps its radius and escape velocity as stored values.
type Star struct {
	common
	radius         float64
	escapeVelocity float64
	attributes     StarAttributes
}

func NewStar(p StarParams) (*Star, error) {
	c, err := newCommon(p.Mass, p.Parent, p.Orbit, p.Rotation)
	if err != nil {
		return nil, fmt.Errorf("star: %w", err)
	}
	if p.Radius <= 0 {
		return nil, fmt.Errorf("star: radius must be positive")
	}
	if p.EscapeVelocity < 0 {
		return nil, fmt.Errorf("star: escape velocity must not be negative")
	}
	if p.Orbit != nil && p.Parent == nil {
		return nil, fmt.Errorf("star: orbit requires a parent")
	}

	s := &Star{
		common:         c,
		radius:         p.Radius,
		escapeVelocity: p.EscapeVelocity,
		attributes:     p.Attributes.clone(),
	}
	if s.escapeVelocity == 0 {
		s.escapeVelocity = EscapeVelocity(c.approx, p.Radius)
	}
	return s, nil
}

func (*Star) Kind() Kind { return KindStar }

func (s *Star) Radius() float64 {
	return s.radius
}

func (s *Star) EscapeVelocity() float64 {
	return s.escapeVelocity
}

func (s *Star) Attributes() StarAttributes {
	return s.attributes.clone()
}
