package body

import (
	"fmt"
	"math/big"

	"celestial-server/internal/entity"
)

type PlanetType string

const (
	PlanetTypeBrownDwarf      PlanetType = "brown_dwarf"
	PlanetTypeGasGiant        PlanetType = "gas_giant"
	PlanetTypeIceGiant        PlanetType = "ice_giant"
	PlanetTypeLargeRocky      PlanetType = "large_rocky"
	PlanetTypeLargeIcey       PlanetType = "large_icey"
	PlanetTypeRockyAsteroid   PlanetType = "rocky_asteroid"
	PlanetTypeRockyDebrisDisk PlanetType = "rocky_debris_disk"
	PlanetTypeIceAsteroid     PlanetType = "ice_asteroid"
	PlanetTypeIceDebrisDisk   PlanetType = "ice_debris_disk"
)

var planetTypes = []PlanetType{
	PlanetTypeBrownDwarf,
	PlanetTypeGasGiant,
	PlanetTypeIceGiant,
	PlanetTypeLargeRocky,
	PlanetTypeLargeIcey,
	PlanetTypeRockyAsteroid,
	PlanetTypeRockyDebrisDisk,
	PlanetTypeIceAsteroid,
	PlanetTypeIceDebrisDisk,
}

func PlanetTypes() []PlanetType {
	return append([]PlanetType(nil), planetTypes...)
}

func ParsePlanetType(s string) (PlanetType, error) {
	for _, t := range planetTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown planet type %q", s)
}

// Category returns the handle category bodies of this type are filed under.
func (t PlanetType) Category() entity.Category {
	switch t {
	case PlanetTypeRockyAsteroid, PlanetTypeIceAsteroid, PlanetTypeRockyDebrisDisk, PlanetTypeIceDebrisDisk:
		return entity.CategoryAsteroid
	default:
		return entity.CategoryPlanet
	}
}

type PlanetParams struct {
	Type     PlanetType
	Mass     *big.Int
	Radius   float64
	Parent   entity.Handle
	Orbit    Orbit
	Rotation Rotation
	// EscapeVelocity is computed from Mass and Radius when zero.
	EscapeVelocity float64
	Mineable       MineableMass
	Automata       *AutomataDetail
}

// Planet covers every non-stellar natural body, from brown dwarfs to
// debris disks. Radius and escape velocity are stored.
type Planet struct {
	common
	planetType     PlanetType
	radius         float64
	escapeVelocity float64
	mineable       MineableMass
	automata       *AutomataDetail
}

func NewPlanet(p PlanetParams) (*Planet, error) {
	if _, err := ParsePlanetType(string(p.Type)); err != nil {
		return nil, fmt.Errorf("planet: %w", err)
	}
	parent := p.Parent
	orbit := p.Orbit
	c, err := newCommon(p.Mass, &parent, &orbit, p.Rotation)
	if err != nil {
		return nil, fmt.Errorf("planet: %w", err)
	}
	if p.Radius <= 0 {
		return nil, fmt.Errorf("planet: radius must be positive")
	}
	if p.EscapeVelocity < 0 {
		return nil, fmt.Errorf("planet: escape velocity must not be negative")
	}

	pl := &Planet{
		common:         c,
		planetType:     p.Type,
		radius:         p.Radius,
		escapeVelocity: p.EscapeVelocity,
		mineable:       p.Mineable.clone(),
	}
	if pl.escapeVelocity == 0 {
		pl.escapeVelocity = EscapeVelocity(c.approx, p.Radius)
	}
	if p.Automata != nil {
		detail := p.Automata.clone()
		pl.automata = &detail
	}
	return pl, nil
}

func (*Planet) Kind() Kind { return KindPlanet }

func (p *Planet) Type() PlanetType {
	return p.planetType
}

func (p *Planet) Radius() float64 {
	return p.radius
}

func (p *Planet) EscapeVelocity() float64 {
	return p.escapeVelocity
}

func (p *Planet) Mineable() MineableMass {
	return p.mineable.clone()
}

// Automata returns the installation present on the planet, if any.
func (p *Planet) Automata() (AutomataDetail, bool) {
	if p.automata == nil {
		return AutomataDetail{}, false
	}
	return p.automata.clone(), true
}
