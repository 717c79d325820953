package catalog

import (
	"math"

	"celestial-server/internal/body"
	"celestial-server/internal/entity"
)

// Details holds the category-specific records that carry no behavior.
type Details struct {
	Mineable *body.MineableMass   `json:"mineable,omitempty"`
	Automata *body.AutomataDetail `json:"automata,omitempty"`
	Star     *body.StarAttributes `json:"star,omitempty"`
}

// OrbitSpec is the transport form of body.Orbit. The semi-major axis is a
// decimal string in meters so that it survives JSON clients exactly.
type OrbitSpec struct {
	Eccentricity             float64 `json:"eccentricity"`
	SemiMajorAxis            string  `json:"semi_major_axis"`
	Inclination              float64 `json:"inclination"`
	LongitudeOfAscendingNode float64 `json:"longitude_of_ascending_node"`
	ArgumentOfPeriapsis      float64 `json:"argument_of_periapsis"`
	MeanAnomaly              float64 `json:"mean_anomaly"`
}

// Record is a persisted body row.
type Record struct {
	Handle         entity.Handle
	Category       entity.Category
	Kind           body.Kind
	Name           string
	Parent         *entity.Handle
	Mass           string
	Radius         float64
	EscapeVelocity float64
	PlanetType     body.PlanetType
	Orbit          *OrbitSpec
	Rotation       body.Rotation
	Details        Details
}

type CreateRequest struct {
	Kind           body.Kind       `json:"kind"`
	Name           string          `json:"name"`
	Parent         *entity.Handle  `json:"parent,omitempty"`
	Mass           string          `json:"mass"`
	Radius         float64         `json:"radius,omitempty"`
	EscapeVelocity float64         `json:"escape_velocity,omitempty"`
	PlanetType     body.PlanetType `json:"planet_type,omitempty"`
	Orbit          *OrbitSpec      `json:"orbit,omitempty"`
	Rotation       body.Rotation   `json:"rotation"`
	Details        Details         `json:"details"`
}

// View is the read projection of a body, including derived quantities.
// Quantities that do not fit a finite float64 are omitted and flagged.
type View struct {
	Handle          entity.Handle   `json:"handle"`
	Category        string          `json:"category"`
	Kind            body.Kind       `json:"kind"`
	Name            string          `json:"name"`
	Parent          *entity.Handle  `json:"parent,omitempty"`
	Mass            string          `json:"mass"`
	ApproximateMass *float64        `json:"approximate_mass,omitempty"`
	PrecisionLoss   bool            `json:"precision_loss"`
	Radius          *float64        `json:"radius,omitempty"`
	EscapeVelocity  *float64        `json:"escape_velocity,omitempty"`
	PlanetType      body.PlanetType `json:"planet_type,omitempty"`
	Orbit           *OrbitSpec      `json:"orbit,omitempty"`
	Rotation        body.Rotation   `json:"rotation"`
	Details         Details         `json:"details"`
}

type KindCount struct {
	Kind  body.Kind `json:"kind"`
	Count int       `json:"count"`
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
