package system

import (
	"fmt"
	"math"
	"math/big"
	"math/rand"
	"strconv"

	"celestial-server/internal/body"
	"celestial-server/internal/catalog"
)

const (
	solarMass        = 1.98847e30
	solarRadius      = 6.957e8
	solarLuminosity  = 3.828e26
	solarTemperature = 5772.0
	solarRotation    = 2.192832e6
	solarWindLoss    = 1.5e9
	solarWindSpeed   = 4.0e5
)

type planetProfile struct {
	weight           int
	density          float64 // kg/m^3
	minMass, maxMass float64 // kg
	minAxis, maxAxis float64 // AU
	maxEccentricity  float64

	// mineable fractions of total mass
	metals, volatiles, nuclide float64
}

var planetProfiles = map[body.PlanetType]planetProfile{
	body.PlanetTypeBrownDwarf:      {weight: 1, density: 60000, minMass: 2.5e28, maxMass: 1.5e29, minAxis: 5, maxAxis: 60, maxEccentricity: 0.3, volatiles: 1e-6},
	body.PlanetTypeGasGiant:        {weight: 4, density: 1300, minMass: 1e26, maxMass: 4e27, minAxis: 3, maxAxis: 30, maxEccentricity: 0.1, volatiles: 1e-5, nuclide: 1e-9},
	body.PlanetTypeIceGiant:        {weight: 3, density: 1600, minMass: 5e25, maxMass: 1.5e26, minAxis: 10, maxAxis: 40, maxEccentricity: 0.1, volatiles: 1e-5, metals: 1e-7},
	body.PlanetTypeLargeRocky:      {weight: 6, density: 5500, minMass: 3e23, maxMass: 1e25, minAxis: 0.3, maxAxis: 3, maxEccentricity: 0.2, metals: 1e-6, volatiles: 1e-8, nuclide: 1e-10},
	body.PlanetTypeLargeIcey:       {weight: 3, density: 2000, minMass: 1e22, maxMass: 5e23, minAxis: 5, maxAxis: 50, maxEccentricity: 0.25, metals: 1e-7, volatiles: 1e-4},
	body.PlanetTypeRockyAsteroid:   {weight: 4, density: 2500, minMass: 1e15, maxMass: 1e21, minAxis: 2, maxAxis: 4, maxEccentricity: 0.3, metals: 0.05, nuclide: 1e-7},
	body.PlanetTypeRockyDebrisDisk: {weight: 1, density: 2000, minMass: 1e20, maxMass: 1e22, minAxis: 2, maxAxis: 5, maxEccentricity: 0.05, metals: 0.02},
	body.PlanetTypeIceAsteroid:     {weight: 2, density: 1000, minMass: 1e15, maxMass: 1e20, minAxis: 30, maxAxis: 50, maxEccentricity: 0.3, volatiles: 0.1},
	body.PlanetTypeIceDebrisDisk:   {weight: 1, density: 900, minMass: 1e21, maxMass: 1e23, minAxis: 30, maxAxis: 100, maxEccentricity: 0.05, volatiles: 0.05},
}

var starNames = []string{
	"Altair", "Vega", "Sirius", "Arcturus", "Capella", "Rigel", "Procyon",
	"Betelgeuse", "Aldebaran", "Spica", "Antares", "Pollux", "Fomalhaut",
	"Deneb", "Regulus", "Adhara", "Castor", "Gacrux", "Bellatrix", "Elnath",
	"Miaplacidus", "Alnilam", "Alnair", "Alioth", "Dubhe", "Mirfak", "Wezen",
	"Sargas", "Kaus", "Avior", "Menkalinan", "Atria", "Alhena", "Peacock",
	"Alsephina", "Mirzam", "Polaris", "Alphard", "Hamal", "Algieba", "Diphda",
	"Mizar", "Nunki", "Menkent", "Mirach", "Alpheratz", "Rasalhague", "Kochab",
	"Saiph", "Zubenelgenubi", "Enif", "Schedar", "Markab", "Unukalhai", "Tau",
}

// toInt rounds a non-negative finite float to an exact integer.
func toInt(v float64) *big.Int {
	i, _ := big.NewFloat(math.Round(v)).Int(nil)
	return i
}

func fraction(mass, f float64) *big.Int {
	if f == 0 {
		return nil
	}
	return toInt(mass * f)
}

// logUniform draws from [lo, hi) with uniform density in log space.
func logUniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo * math.Pow(hi/lo, rng.Float64())
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func pickPlanetType(rng *rand.Rand) body.PlanetType {
	total := 0
	for _, t := range body.PlanetTypes() {
		total += planetProfiles[t].weight
	}
	n := rng.Intn(total)
	for _, t := range body.PlanetTypes() {
		n -= planetProfiles[t].weight
		if n < 0 {
			return t
		}
	}
	return body.PlanetTypeLargeRocky
}

func spectralClass(temperature float64) string {
	switch {
	case temperature >= 30000:
		return "O"
	case temperature >= 10000:
		return "B"
	case temperature >= 7500:
		return "A"
	case temperature >= 6000:
		return "F"
	case temperature >= 5200:
		return "G"
	case temperature >= 3700:
		return "K"
	default:
		return "M"
	}
}

// planetName follows the exoplanet convention: Vega b, Vega c, ...
func planetName(star string, i int) string {
	if i < 25 {
		return fmt.Sprintf("%s %c", star, 'b'+i)
	}
	return fmt.Sprintf("%s %d", star, i+1)
}

func assetSuffix(j int) string {
	if j < 26 {
		return string(rune('A' + j))
	}
	return strconv.Itoa(j + 1)
}

func randomOrbit(rng *rand.Rand, axis, maxEccentricity float64) *catalog.OrbitSpec {
	return &catalog.OrbitSpec{
		Eccentricity:             rng.Float64() * maxEccentricity,
		SemiMajorAxis:            toInt(axis).String(),
		Inclination:              rng.Float64() * 0.1,
		LongitudeOfAscendingNode: rng.Float64() * 2 * math.Pi,
		ArgumentOfPeriapsis:      rng.Float64() * 2 * math.Pi,
		MeanAnomaly:              rng.Float64() * 2 * math.Pi,
	}
}

// starRequest draws a main-sequence star between 0.1 and 8 solar masses,
// skewed towards small stars.
func starRequest(rng *rand.Rand, name string) catalog.CreateRequest {
	m := 0.1 * math.Pow(80, rng.Float64()*rng.Float64())
	r := math.Pow(m, 0.8)
	l := math.Pow(m, 3.5)
	temperature := solarTemperature * math.Pow(l, 0.25) / math.Sqrt(r)

	return catalog.CreateRequest{
		Kind:   body.KindStar,
		Name:   name,
		Mass:   toInt(m * solarMass).String(),
		Radius: r * solarRadius,
		Rotation: body.Rotation{
			Period:    solarRotation * uniform(rng, 0.5, 1.5),
			Obliquity: rng.Float64() * 0.2,
		},
		Details: catalog.Details{Star: &body.StarAttributes{
			SpectralClass:           spectralClass(temperature) + "V",
			Luminosity:              l * solarLuminosity,
			EffectiveTemperature:    temperature,
			Metallicity:             rng.NormFloat64() * 0.2,
			StellarWindVelocity:     solarWindSpeed * math.Sqrt(m),
			StellarWindMassLossRate: toInt(solarWindLoss * m * m),
		}},
	}
}

type planetPlan struct {
	request catalog.CreateRequest
	axis    float64
	assets  []catalog.CreateRequest
}

func planPlanet(rng *rand.Rand, maxAssets int) planetPlan {
	planetType := pickPlanetType(rng)
	profile := planetProfiles[planetType]

	mass := logUniform(rng, profile.minMass, profile.maxMass)
	radius := body.SphereRadius(mass, profile.density)
	axis := uniform(rng, profile.minAxis, profile.maxAxis) * body.AstronomicalUnit

	plan := planetPlan{
		axis: axis,
		request: catalog.CreateRequest{
			Kind:       body.KindPlanet,
			Mass:       toInt(mass).String(),
			Radius:     radius,
			PlanetType: planetType,
			Orbit:      randomOrbit(rng, axis, profile.maxEccentricity),
			Rotation: body.Rotation{
				Period:               uniform(rng, 2e4, 2e6),
				Obliquity:            rng.Float64() * 0.5,
				EquatorAscendingNode: rng.Float64() * 2 * math.Pi,
			},
			Details: catalog.Details{Mineable: &body.MineableMass{
				HeavyMetals: fraction(mass, profile.metals),
				Volatiles:   fraction(mass, profile.volatiles),
				Nuclide:     fraction(mass, profile.nuclide),
			}},
		},
	}

	for range rng.Intn(maxAssets + 1) {
		plan.assets = append(plan.assets, assetRequest(rng, radius))
	}
	return plan
}

// assetRequest draws an installation orbiting between 2 and 10 planet radii.
func assetRequest(rng *rand.Rand, planetRadius float64) catalog.CreateRequest {
	mass := logUniform(rng, 1e6, 1e10)
	return catalog.CreateRequest{
		Kind:  body.KindAutomatedAsset,
		Mass:  toInt(mass).String(),
		Orbit: randomOrbit(rng, planetRadius*uniform(rng, 2, 10), 0.01),
		Details: catalog.Details{Automata: &body.AutomataDetail{
			FactoryMass:       fraction(mass, 0.4),
			HighTechMass:      fraction(mass, 0.1),
			PhotoelectricMass: fraction(mass, 0.3),
			Storage: body.StorageResource{
				HeavyMetals: fraction(mass, 0.15),
				Volatiles:   fraction(mass, 0.05),
			},
		}},
	}
}
