package body_test

import (
	"math"
	"math/big"
	"testing"

	"celestial-server/internal/body"
	"celestial-server/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kg(mantissa int64, exp int) *big.Int {
	return new(big.Int).Mul(big.NewInt(mantissa), new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil))
}

func testOrbit() body.Orbit {
	return body.Orbit{
		Eccentricity:  0.0167,
		SemiMajorAxis: big.NewInt(149_597_870_700),
		Inclination:   0.00005,
		MeanAnomaly:   6.24,
	}
}

var sun = entity.MustHandle(1, entity.CategoryStar)

func TestAutomatedAssetUnitSphere(t *testing.T) {
	// (4/3)π·10000·1³ ≈ 41,887.9 kg
	asset, err := body.NewAutomatedAsset(body.AutomatedAssetParams{
		Mass:   big.NewInt(41_888),
		Parent: sun,
		Orbit:  testOrbit(),
	})
	require.NoError(t, err)

	assert.InEpsilon(t, 1.0, asset.Radius(), 1e-6)
	assert.Equal(t, body.KindAutomatedAsset, asset.Kind())
}

func TestAutomatedAssetMonotonic(t *testing.T) {
	small, err := body.NewAutomatedAsset(body.AutomatedAssetParams{Mass: kg(1, 9), Parent: sun, Orbit: testOrbit()})
	require.NoError(t, err)
	large, err := body.NewAutomatedAsset(body.AutomatedAssetParams{Mass: kg(1, 12), Parent: sun, Orbit: testOrbit()})
	require.NoError(t, err)

	assert.Less(t, small.Radius(), large.Radius())
	assert.Less(t, small.EscapeVelocity(), large.EscapeVelocity())
}

func TestAutomatedAssetEscapeVelocityMatchesFormula(t *testing.T) {
	asset, err := body.NewAutomatedAsset(body.AutomatedAssetParams{Mass: kg(7, 15), Parent: sun, Orbit: testOrbit()})
	require.NoError(t, err)

	want := math.Sqrt(2 * body.GravitationalConstant * 7e15 / asset.Radius())
	assert.InEpsilon(t, want, asset.EscapeVelocity(), 1e-12)
}

func TestPlanetEarthEscapeVelocity(t *testing.T) {
	earth, err := body.NewPlanet(body.PlanetParams{
		Type:   body.PlanetTypeLargeRocky,
		Mass:   kg(5972, 21),
		Radius: 6.371e6,
		Parent: sun,
		Orbit:  testOrbit(),
		Rotation: body.Rotation{
			Period:    86_164.1,
			Obliquity: 0.4091,
		},
	})
	require.NoError(t, err)

	assert.InEpsilon(t, 11_186.0, earth.EscapeVelocity(), 0.01)
	assert.Equal(t, 6.371e6, earth.Radius())
	assert.Equal(t, body.PlanetTypeLargeRocky, earth.Type())
	assert.Equal(t, 86_164.1, earth.Rotation().Period)

	parent, ok := earth.Parent()
	require.True(t, ok)
	assert.Equal(t, sun, parent)
}

func TestPlanetStoredEscapeVelocity(t *testing.T) {
	p, err := body.NewPlanet(body.PlanetParams{
		Type:           body.PlanetTypeGasGiant,
		Mass:           kg(1898, 24),
		Radius:         6.9911e7,
		EscapeVelocity: 59_500,
		Parent:         sun,
		Orbit:          testOrbit(),
	})
	require.NoError(t, err)
	assert.Equal(t, 59_500.0, p.EscapeVelocity())
}

func TestStarRoot(t *testing.T) {
	star, err := body.NewStar(body.StarParams{
		Mass:   kg(1989, 27),
		Radius: 6.957e8,
		Attributes: body.StarAttributes{
			SpectralClass:        "G2V",
			Luminosity:           3.828e26,
			EffectiveTemperature: 5772,
		},
	})
	require.NoError(t, err)

	_, hasParent := star.Parent()
	assert.False(t, hasParent)
	_, hasOrbit := star.Orbit()
	assert.False(t, hasOrbit)
	assert.Equal(t, body.Rotation{}, star.Rotation())
	assert.InEpsilon(t, 617_700.0, star.EscapeVelocity(), 0.01)
	assert.Equal(t, "G2V", star.Attributes().SpectralClass)
	assert.Equal(t, body.KindStar, star.Kind())
}

func TestStarOrbitNeedsParent(t *testing.T) {
	orbit := testOrbit()
	_, err := body.NewStar(body.StarParams{Mass: kg(1, 30), Radius: 7e8, Orbit: &orbit})
	assert.Error(t, err)

	_, err = body.NewStar(body.StarParams{Mass: kg(1, 30), Radius: 7e8, Orbit: &orbit, Parent: &sun})
	assert.NoError(t, err)
}

func TestConstructorValidation(t *testing.T) {
	_, err := body.NewStar(body.StarParams{Radius: 1})
	assert.Error(t, err, "nil mass")

	_, err = body.NewStar(body.StarParams{Mass: big.NewInt(-1), Radius: 1})
	assert.Error(t, err, "negative mass")

	_, err = body.NewStar(body.StarParams{Mass: big.NewInt(1)})
	assert.Error(t, err, "zero radius")

	_, err = body.NewStar(body.StarParams{Mass: big.NewInt(1), Radius: 1, EscapeVelocity: -5})
	assert.Error(t, err, "negative star escape velocity")

	_, err = body.NewPlanet(body.PlanetParams{Type: body.PlanetTypeIceGiant, Mass: big.NewInt(1), Radius: 1, EscapeVelocity: -5, Parent: sun, Orbit: testOrbit()})
	assert.Error(t, err, "negative planet escape velocity")

	_, err = body.NewPlanet(body.PlanetParams{Type: "lava", Mass: big.NewInt(1), Radius: 1, Parent: sun, Orbit: testOrbit()})
	assert.Error(t, err, "unknown type")

	_, err = body.NewPlanet(body.PlanetParams{Type: body.PlanetTypeIceGiant, Mass: big.NewInt(1), Radius: 1, Parent: sun})
	assert.Error(t, err, "missing semi-major axis")

	_, err = body.NewAutomatedAsset(body.AutomatedAssetParams{Mass: big.NewInt(1), Parent: entity.Handle(0xFF00_0000_0000_0001), Orbit: testOrbit()})
	assert.ErrorIs(t, err, entity.ErrMalformedHandle)
}

func TestExactMassIsCopy(t *testing.T) {
	mass := kg(5972, 21)
	p, err := body.NewPlanet(body.PlanetParams{Type: body.PlanetTypeLargeRocky, Mass: mass, Radius: 6.371e6, Parent: sun, Orbit: testOrbit()})
	require.NoError(t, err)

	mass.SetInt64(1)
	got := p.ExactMass()
	assert.Equal(t, kg(5972, 21), got)

	got.SetInt64(2)
	assert.Equal(t, kg(5972, 21), p.ExactMass())
}

func TestOrbitIsSnapshot(t *testing.T) {
	p, err := body.NewPlanet(body.PlanetParams{Type: body.PlanetTypeIceGiant, Mass: kg(8681, 22), Radius: 2.5559e7, Parent: sun, Orbit: testOrbit()})
	require.NoError(t, err)

	orbit, ok := p.Orbit()
	require.True(t, ok)
	orbit.SemiMajorAxis.SetInt64(0)
	orbit.Eccentricity = 0.9

	again, _ := p.Orbit()
	assert.Equal(t, big.NewInt(149_597_870_700), again.SemiMajorAxis)
	assert.Equal(t, 0.0167, again.Eccentricity)
}

func TestApproximateMassSaturates(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 1100)
	star, err := body.NewStar(body.StarParams{Mass: huge, Radius: 1e9})
	require.NoError(t, err)

	assert.True(t, math.IsInf(star.ApproximateMass(), 1))
	assert.Equal(t, huge, star.ExactMass())
	assert.True(t, body.PrecisionLoss(huge))
	assert.False(t, body.PrecisionLoss(kg(1989, 27)))
}

func TestAutomatedAssetBeyondFloatRange(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 1100)
	asset, err := body.NewAutomatedAsset(body.AutomatedAssetParams{Mass: huge, Parent: sun, Orbit: testOrbit()})
	require.NoError(t, err)

	assert.True(t, math.IsInf(asset.Radius(), 1))
	assert.True(t, math.IsInf(asset.EscapeVelocity(), 1))
	assert.True(t, math.IsInf(body.EscapeVelocity(math.Inf(1), math.Inf(1)), 1))
}

func TestNarrowMass(t *testing.T) {
	f, acc := body.NarrowMass(big.NewInt(1 << 40))
	assert.Equal(t, float64(1<<40), f)
	assert.Equal(t, big.Exact, acc)

	f, _ = body.NarrowMass(nil)
	assert.Zero(t, f)
}

func TestAccessorsIdempotent(t *testing.T) {
	bodies := []body.Body{}

	star, err := body.NewStar(body.StarParams{Mass: kg(1989, 27), Radius: 6.957e8})
	require.NoError(t, err)
	planet, err := body.NewPlanet(body.PlanetParams{Type: body.PlanetTypeLargeRocky, Mass: kg(6417, 20), Radius: 3.3895e6, Parent: sun, Orbit: testOrbit()})
	require.NoError(t, err)
	asset, err := body.NewAutomatedAsset(body.AutomatedAssetParams{Mass: kg(3, 13), Parent: sun, Orbit: testOrbit()})
	require.NoError(t, err)
	bodies = append(bodies, star, planet, asset)

	for _, b := range bodies {
		t.Run(string(b.Kind()), func(t *testing.T) {
			assert.Equal(t, math.Float64bits(b.Radius()), math.Float64bits(b.Radius()))
			assert.Equal(t, math.Float64bits(b.EscapeVelocity()), math.Float64bits(b.EscapeVelocity()))
			assert.Equal(t, math.Float64bits(b.ApproximateMass()), math.Float64bits(b.ApproximateMass()))
			assert.Equal(t, 0, b.ExactMass().Cmp(b.ExactMass()))
		})
	}
}

func TestPlanetRecords(t *testing.T) {
	detail := body.AutomataDetail{FactoryMass: kg(2, 9)}
	p, err := body.NewPlanet(body.PlanetParams{
		Type:     body.PlanetTypeRockyAsteroid,
		Mass:     kg(9, 20),
		Radius:   4.7e5,
		Parent:   sun,
		Orbit:    testOrbit(),
		Mineable: body.MineableMass{HeavyMetals: kg(8, 20)},
		Automata: &detail,
	})
	require.NoError(t, err)

	got, ok := p.Automata()
	require.True(t, ok)
	assert.Equal(t, kg(2, 9), got.FactoryMass)
	got.FactoryMass.SetInt64(0)

	again, _ := p.Automata()
	assert.Equal(t, kg(2, 9), again.FactoryMass)
	assert.Equal(t, kg(8, 20), p.Mineable().HeavyMetals)
	assert.Nil(t, p.Mineable().Volatiles)
}

func TestPlanetTypeCategory(t *testing.T) {
	assert.Equal(t, entity.CategoryPlanet, body.PlanetTypeGasGiant.Category())
	assert.Equal(t, entity.CategoryAsteroid, body.PlanetTypeIceAsteroid.Category())
	assert.Len(t, body.PlanetTypes(), 9)

	for _, pt := range body.PlanetTypes() {
		parsed, err := body.ParsePlanetType(string(pt))
		require.NoError(t, err)
		assert.Equal(t, pt, parsed)
	}
}

func TestSphereHelpers(t *testing.T) {
	m := body.SphereMass(2, body.AutomataDensity)
	assert.InEpsilon(t, 2.0, body.SphereRadius(m, body.AutomataDensity), 1e-12)
	assert.Zero(t, body.EscapeVelocity(0, 0))
	assert.True(t, math.IsInf(body.EscapeVelocity(1, 0), 1))
}
