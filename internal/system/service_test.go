package system_test

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"celestial-server/internal/body"
	"celestial-server/internal/catalog"
	"celestial-server/internal/entity"
	"celestial-server/internal/shared/config"
	"celestial-server/internal/shared/database"
	"celestial-server/internal/shared/errors"
	"celestial-server/internal/system"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGenerator = config.GeneratorConfig{
	MinPlanetsPerSystem: 2,
	MaxPlanetsPerSystem: 6,
	MaxAssetsPerPlanet:  2,
}

func newTestService(t *testing.T) (*system.Service, *catalog.Service) {
	t.Helper()
	svc, bodies, _ := newTestServiceWithDB(t)
	return svc, bodies
}

func newTestServiceWithDB(t *testing.T) (*system.Service, *catalog.Service, *database.DB) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := catalog.NewRepository(db, logger)
	bodies := catalog.NewService(repo, catalog.NewSequenceAllocator(repo), nil, logger)
	svc := system.NewService(system.NewRepository(db, logger), bodies, testGenerator, rand.New(rand.NewSource(42)), logger)
	return svc, bodies, db
}

func TestGenerateSystem(t *testing.T) {
	ctx := context.Background()
	svc, bodies := newTestService(t)

	result, err := svc.GenerateSystem(ctx, system.GenerateRequest{Name: "Vega"})
	require.NoError(t, err)

	assert.Equal(t, body.KindStar, result.Star.Kind)
	assert.Equal(t, "Vega", result.Star.Name)
	assert.Nil(t, result.Star.Parent)
	require.NotNil(t, result.Star.Details.Star)
	assert.NotEmpty(t, result.Star.Details.Star.SpectralClass)

	assert.GreaterOrEqual(t, len(result.Planets), testGenerator.MinPlanetsPerSystem)
	assert.LessOrEqual(t, len(result.Planets), testGenerator.MaxPlanetsPerSystem)
	assert.LessOrEqual(t, len(result.Assets), len(result.Planets)*testGenerator.MaxAssetsPerPlanet)

	for _, p := range result.Planets {
		require.NotNil(t, p.Parent)
		assert.Equal(t, result.Star.Handle, *p.Parent)
		category, err := p.Handle.Category()
		require.NoError(t, err)
		assert.Equal(t, p.PlanetType.Category(), category)
		require.NotNil(t, p.EscapeVelocity)
		assert.Positive(t, *p.EscapeVelocity)
	}
	assert.Equal(t, "Vega b", result.Planets[0].Name)

	planets := make(map[entity.Handle]bool)
	for _, p := range result.Planets {
		planets[p.Handle] = true
	}
	for _, a := range result.Assets {
		require.NotNil(t, a.Parent)
		assert.True(t, planets[*a.Parent])
		category, err := a.Handle.Category()
		require.NoError(t, err)
		assert.Equal(t, entity.CategoryManmade, category)
	}

	children, err := bodies.Children(ctx, result.Star.Handle)
	require.NoError(t, err)
	assert.Len(t, children, len(result.Planets))

	assert.Equal(t, result.Star.Handle, result.System.StarHandle)
	assert.Equal(t, len(result.Planets), result.System.PlanetCount)
	assert.Equal(t, len(result.Assets), result.System.AssetCount)
	assert.NotZero(t, result.System.Seed)

	systems, err := svc.ListSystems(ctx)
	require.NoError(t, err)
	require.Len(t, systems, 1)
	assert.Equal(t, "Vega", systems[0].Name)
}

func TestGenerateSystemIsReproducible(t *testing.T) {
	ctx := context.Background()
	first, _ := newTestService(t)
	second, _ := newTestService(t)

	req := system.GenerateRequest{Planets: 4, Seed: 7}
	a, err := first.GenerateSystem(ctx, req)
	require.NoError(t, err)
	b, err := second.GenerateSystem(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, a.Star.Name, b.Star.Name)
	assert.Equal(t, a.Star.Mass, b.Star.Mass)
	require.Len(t, a.Planets, 4)
	require.Len(t, b.Planets, 4)
	for i := range a.Planets {
		assert.Equal(t, a.Planets[i].Mass, b.Planets[i].Mass)
		assert.Equal(t, a.Planets[i].PlanetType, b.Planets[i].PlanetType)
		assert.Equal(t, a.Planets[i].Orbit.SemiMajorAxis, b.Planets[i].Orbit.SemiMajorAxis)
	}
	assert.Equal(t, len(a.Assets), len(b.Assets))
}

func TestGenerateSystemOrdersPlanetsOutward(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.GenerateSystem(context.Background(), system.GenerateRequest{Planets: 6, Seed: 99})
	require.NoError(t, err)

	prev := ""
	for _, p := range result.Planets {
		axis := p.Orbit.SemiMajorAxis
		if prev != "" {
			assert.True(t, len(prev) < len(axis) || (len(prev) == len(axis) && prev <= axis),
				"%s orbits inside %s", axis, prev)
		}
		prev = axis
	}
}

func TestGenerateSystemValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GenerateSystem(context.Background(), system.GenerateRequest{Planets: 100})
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation))

	_, err = svc.GenerateSystem(context.Background(), system.GenerateRequest{Planets: -1})
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation))
}

func TestGenerateSystemRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	svc, bodies, db := newTestServiceWithDB(t)

	_, err := db.ExecContext(ctx, `
		CREATE TRIGGER reject_second_planet BEFORE INSERT ON bodies
		WHEN NEW.kind = 'planet' AND (SELECT COUNT(*) FROM bodies WHERE kind = 'planet') >= 1
		BEGIN
			SELECT RAISE(ABORT, 'disk full');
		END`)
	require.NoError(t, err)

	_, err = svc.GenerateSystem(ctx, system.GenerateRequest{Name: "Doomed", Planets: 3, Seed: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeInternal))

	counts, err := bodies.Counts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)
	assert.Zero(t, bodies.Indexed())

	systems, err := svc.ListSystems(ctx)
	require.NoError(t, err)
	assert.Empty(t, systems)

	_, err = db.ExecContext(ctx, `DROP TRIGGER reject_second_planet`)
	require.NoError(t, err)

	result, err := svc.GenerateSystem(ctx, system.GenerateRequest{Name: "Retry", Planets: 3, Seed: 5})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Star.Handle.Sequence())
	assert.Equal(t, 4+len(result.Assets), bodies.Indexed())
}
