package body

import "math/big"

// MineableMass breaks down the extractable mass of a body, in kilograms.
type MineableMass struct {
	// everything except hydrogen, helium and rare gases
	HeavyMetals *big.Int `json:"heavy_metals,omitempty"`
	// hydrogen, helium and rare gases
	Volatiles *big.Int `json:"volatiles,omitempty"`
	// uranium, thorium, deuterium and similar
	Nuclide *big.Int `json:"nuclide,omitempty"`
}

type StorageResource struct {
	HeavyMetals *big.Int `json:"heavy_metals,omitempty"`
	Volatiles   *big.Int `json:"volatiles,omitempty"`
	Nuclide     *big.Int `json:"nuclide,omitempty"`
}

// AutomataDetail tallies the installed mass of a self-replicating installation.
type AutomataDetail struct {
	FactoryMass       *big.Int        `json:"factory_mass,omitempty"`   // low power factories
	HighTechMass      *big.Int        `json:"high_tech_mass,omitempty"` // high power factories
	PhotoelectricMass *big.Int        `json:"photoelectric_mass,omitempty"`
	Storage           StorageResource `json:"storage"`
}

type StarAttributes struct {
	SpectralClass           string   `json:"spectral_class"`
	Luminosity              float64  `json:"luminosity"`
	EffectiveTemperature    float64  `json:"effective_temperature"`
	Metallicity             float64  `json:"metallicity"` // [Fe/H]
	StellarWindVelocity     float64  `json:"stellar_wind_velocity"`
	StellarWindMassLossRate *big.Int `json:"stellar_wind_mass_loss_rate,omitempty"`
	CoronalExergy           *big.Int `json:"coronal_exergy,omitempty"`
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func (m MineableMass) clone() MineableMass {
	return MineableMass{
		HeavyMetals: cloneInt(m.HeavyMetals),
		Volatiles:   cloneInt(m.Volatiles),
		Nuclide:     cloneInt(m.Nuclide),
	}
}

func (d AutomataDetail) clone() AutomataDetail {
	return AutomataDetail{
		FactoryMass:       cloneInt(d.FactoryMass),
		HighTechMass:      cloneInt(d.HighTechMass),
		PhotoelectricMass: cloneInt(d.PhotoelectricMass),
		Storage: StorageResource{
			HeavyMetals: cloneInt(d.Storage.HeavyMetals),
			Volatiles:   cloneInt(d.Storage.Volatiles),
			Nuclide:     cloneInt(d.Storage.Nuclide),
		},
	}
}

func (a StarAttributes) clone() StarAttributes {
	c := a
	c.StellarWindMassLossRate = cloneInt(a.StellarWindMassLossRate)
	c.CoronalExergy = cloneInt(a.CoronalExergy)
	return c
}
