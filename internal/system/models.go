package system

import (
	"time"

	"celestial-server/internal/catalog"
	"celestial-server/internal/entity"
)

// System is the summary row kept for every generated stellar system.
// A system is identified by the handle of its root star.
type System struct {
	StarHandle  entity.Handle `json:"star_handle"`
	Name        string        `json:"name"`
	Seed        int64         `json:"seed"`
	PlanetCount int           `json:"planet_count"`
	AssetCount  int           `json:"asset_count"`
	CreatedAt   time.Time     `json:"created_at"`
}

type GenerateRequest struct {
	Name string `json:"name,omitempty"`
	// Planets fixes the planet count; zero picks one from the configured range.
	Planets int `json:"planets,omitempty"`
	// Seed makes generation reproducible; zero draws a fresh seed.
	Seed int64 `json:"seed,omitempty"`
}

type GenerateResult struct {
	System  System         `json:"system"`
	Star    catalog.View   `json:"star"`
	Planets []catalog.View `json:"planets"`
	Assets  []catalog.View `json:"assets"`
}
