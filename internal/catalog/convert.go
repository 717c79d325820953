package catalog

import (
	"fmt"
	"math/big"
	"strings"

	"celestial-server/internal/body"
	"celestial-server/internal/entity"
	"celestial-server/internal/shared/errors"
)

func parseInt(field, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, errors.Validationf("%s must be a decimal integer, got %q", field, s)
	}
	if v.Sign() < 0 {
		return nil, errors.Validationf("%s must not be negative", field)
	}
	return v, nil
}

func (o *OrbitSpec) toOrbit() (*body.Orbit, error) {
	if o == nil {
		return nil, nil
	}
	axis, err := parseInt("orbit.semi_major_axis", o.SemiMajorAxis)
	if err != nil {
		return nil, err
	}
	return &body.Orbit{
		Eccentricity:             o.Eccentricity,
		SemiMajorAxis:            axis,
		Inclination:              o.Inclination,
		LongitudeOfAscendingNode: o.LongitudeOfAscendingNode,
		ArgumentOfPeriapsis:      o.ArgumentOfPeriapsis,
		MeanAnomaly:              o.MeanAnomaly,
	}, nil
}

func orbitSpec(o body.Orbit) *OrbitSpec {
	return &OrbitSpec{
		Eccentricity:             o.Eccentricity,
		SemiMajorAxis:            o.SemiMajorAxis.String(),
		Inclination:              o.Inclination,
		LongitudeOfAscendingNode: o.LongitudeOfAscendingNode,
		ArgumentOfPeriapsis:      o.ArgumentOfPeriapsis,
		MeanAnomaly:              o.MeanAnomaly,
	}
}

// Build validates the request through the body constructors and returns
// the body together with the category its handle belongs to.
func (req CreateRequest) Build() (body.Body, entity.Category, error) {
	mass, err := parseInt("mass", req.Mass)
	if err != nil {
		return nil, 0, err
	}
	orbit, err := req.Orbit.toOrbit()
	if err != nil {
		return nil, 0, err
	}

	switch req.Kind {
	case body.KindStar:
		var attrs body.StarAttributes
		if req.Details.Star != nil {
			attrs = *req.Details.Star
		}
		s, err := body.NewStar(body.StarParams{
			Mass:           mass,
			Radius:         req.Radius,
			Parent:         req.Parent,
			Orbit:          orbit,
			Rotation:       req.Rotation,
			EscapeVelocity: req.EscapeVelocity,
			Attributes:     attrs,
		})
		if err != nil {
			return nil, 0, errors.WrapValidation("invalid star", err)
		}
		return s, entity.CategoryStar, nil

	case body.KindPlanet:
		if req.Parent == nil || orbit == nil {
			return nil, 0, errors.Validation("planet requires parent and orbit")
		}
		var mineable body.MineableMass
		if req.Details.Mineable != nil {
			mineable = *req.Details.Mineable
		}
		p, err := body.NewPlanet(body.PlanetParams{
			Type:           req.PlanetType,
			Mass:           mass,
			Radius:         req.Radius,
			Parent:         *req.Parent,
			Orbit:          *orbit,
			Rotation:       req.Rotation,
			EscapeVelocity: req.EscapeVelocity,
			Mineable:       mineable,
			Automata:       req.Details.Automata,
		})
		if err != nil {
			return nil, 0, errors.WrapValidation("invalid planet", err)
		}
		return p, req.PlanetType.Category(), nil

	case body.KindAutomatedAsset:
		if req.Parent == nil || orbit == nil {
			return nil, 0, errors.Validation("automated asset requires parent and orbit")
		}
		var detail body.AutomataDetail
		if req.Details.Automata != nil {
			detail = *req.Details.Automata
		}
		a, err := body.NewAutomatedAsset(body.AutomatedAssetParams{
			Mass:     mass,
			Parent:   *req.Parent,
			Orbit:    *orbit,
			Rotation: req.Rotation,
			Detail:   detail,
		})
		if err != nil {
			return nil, 0, errors.WrapValidation("invalid automated asset", err)
		}
		return a, entity.CategoryManmade, nil
	}

	return nil, 0, errors.Validationf("unknown body kind %q", req.Kind)
}

// NewRecord flattens a body into its persisted form. Stored radius and
// escape velocity are kept for stars and planets only; assets derive them.
func NewRecord(h entity.Handle, name string, b body.Body) (*Record, error) {
	category, err := h.Category()
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Handle:   h,
		Category: category,
		Kind:     b.Kind(),
		Name:     name,
		Mass:     b.ExactMass().String(),
		Rotation: b.Rotation(),
	}
	if parent, ok := b.Parent(); ok {
		rec.Parent = &parent
	}
	if orbit, ok := b.Orbit(); ok {
		rec.Orbit = orbitSpec(orbit)
	}

	switch v := b.(type) {
	case *body.Star:
		rec.Radius = v.Radius()
		rec.EscapeVelocity = storable(v.EscapeVelocity())
		attrs := v.Attributes()
		rec.Details.Star = &attrs
	case *body.Planet:
		rec.Radius = v.Radius()
		rec.EscapeVelocity = storable(v.EscapeVelocity())
		rec.PlanetType = v.Type()
		mineable := v.Mineable()
		rec.Details.Mineable = &mineable
		if automata, ok := v.Automata(); ok {
			rec.Details.Automata = &automata
		}
	case *body.AutomatedAsset:
		detail := v.Detail()
		rec.Details.Automata = &detail
	default:
		return nil, fmt.Errorf("unsupported body type %T", b)
	}
	return rec, nil
}

// storable maps non-finite values to zero, which the constructors
// recompute on load.
func storable(v float64) float64 {
	if finite(v) == nil {
		return 0
	}
	return v
}

// Body rebuilds the domain value from a stored record.
func (r *Record) Body() (body.Body, error) {
	req := CreateRequest{
		Kind:           r.Kind,
		Parent:         r.Parent,
		Mass:           r.Mass,
		Radius:         r.Radius,
		EscapeVelocity: r.EscapeVelocity,
		PlanetType:     r.PlanetType,
		Orbit:          r.Orbit,
		Rotation:       r.Rotation,
		Details:        r.Details,
	}
	b, _, err := req.Build()
	if err != nil {
		return nil, errors.WrapInternal(fmt.Sprintf("stored body %s is corrupt", r.Handle), err)
	}
	return b, nil
}

// NewView projects a record and its body, evaluating derived quantities.
func NewView(r *Record, b body.Body) *View {
	mass := b.ExactMass()
	return &View{
		Handle:          r.Handle,
		Category:        r.Category.String(),
		Kind:            r.Kind,
		Name:            r.Name,
		Parent:          r.Parent,
		Mass:            mass.String(),
		ApproximateMass: finite(b.ApproximateMass()),
		PrecisionLoss:   body.PrecisionLoss(mass),
		Radius:          finite(b.Radius()),
		EscapeVelocity:  finite(b.EscapeVelocity()),
		PlanetType:      r.PlanetType,
		Orbit:           r.Orbit,
		Rotation:        r.Rotation,
		Details:         r.Details,
	}
}
