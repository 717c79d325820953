package system

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"sync"

	"celestial-server/internal/catalog"
	"celestial-server/internal/entity"
	"celestial-server/internal/shared/config"
	"celestial-server/internal/shared/errors"
)

// BodyCatalog persists generated bodies. *catalog.Service implements it.
type BodyCatalog interface {
	Begin(ctx context.Context) (*catalog.Batch, error)
}

type Service struct {
	repo   *Repository
	bodies BodyCatalog
	cfg    config.GeneratorConfig
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewService(repo *Repository, bodies BodyCatalog, cfg config.GeneratorConfig, rng *rand.Rand, logger *slog.Logger) *Service {
	logger.Debug("Initializing system service")

	return &Service{
		repo:   repo,
		bodies: bodies,
		cfg:    cfg,
		rng:    rng,
		logger: logger,
	}
}

func (s *Service) ListSystems(ctx context.Context) ([]System, error) {
	systems, err := s.repo.ListSystems(ctx)
	if err != nil {
		return nil, errors.WrapInternal("failed to list systems", err)
	}
	return systems, nil
}

func (s *Service) nextSeed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var seed int64
	for seed == 0 {
		seed = s.rng.Int63()
	}
	return seed
}

// GenerateSystem creates a root star, its planets and the automated assets
// orbiting them in one catalog batch. All draws come from a generator
// seeded per system, so the same seed reproduces the same bodies.
func (s *Service) GenerateSystem(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if req.Planets < 0 || req.Planets > s.cfg.MaxPlanetsPerSystem {
		return nil, errors.Validationf("planets must be between 0 and %d", s.cfg.MaxPlanetsPerSystem)
	}

	seed := req.Seed
	if seed == 0 {
		seed = s.nextSeed()
	}
	rng := rand.New(rand.NewSource(seed))

	logger := s.logger.With("component", "system_service", "operation", "generate_system", "seed", seed)
	logger.Debug("Generating system")

	name := req.Name
	if name == "" {
		name = starNames[rng.Intn(len(starNames))]
	}

	planetCount := req.Planets
	if planetCount == 0 {
		planetCount = s.cfg.MinPlanetsPerSystem + rng.Intn(s.cfg.MaxPlanetsPerSystem-s.cfg.MinPlanetsPerSystem+1)
	}

	starReq := starRequest(rng, name)
	plans := make([]planetPlan, planetCount)
	for i := range plans {
		plans[i] = planPlanet(rng, s.cfg.MaxAssetsPerPlanet)
	}
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].axis < plans[j].axis })

	batch, err := s.bodies.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer batch.Rollback()

	star, err := batch.Create(ctx, starReq)
	if err != nil {
		logger.Error("Failed to create star", "error", err)
		return nil, err
	}

	result := &GenerateResult{
		Star:    *star,
		Planets: make([]catalog.View, 0, planetCount),
		Assets:  []catalog.View{},
	}

	for i, plan := range plans {
		planetReq := plan.request
		planetReq.Name = planetName(name, i)
		planetReq.Parent = &star.Handle

		planet, err := batch.Create(ctx, planetReq)
		if err != nil {
			logger.Error("Failed to create planet", "error", err, "index", i, "star", star.Handle.String())
			return nil, err
		}
		result.Planets = append(result.Planets, *planet)

		for j, assetReq := range plan.assets {
			assetReq.Name = planetReq.Name + " Foundry " + assetSuffix(j)
			assetReq.Parent = &planet.Handle

			asset, err := batch.Create(ctx, assetReq)
			if err != nil {
				logger.Error("Failed to create automated asset", "error", err, "planet", planet.Handle.String())
				return nil, err
			}
			result.Assets = append(result.Assets, *asset)
		}
	}

	sys, err := s.repo.CreateSystem(ctx, System{
		StarHandle:  star.Handle,
		Name:        name,
		Seed:        seed,
		PlanetCount: len(result.Planets),
		AssetCount:  len(result.Assets),
	}, batch.Tx())
	if err != nil {
		logger.Error("Failed to record system", "error", err, "star", star.Handle.String())
		return nil, errors.WrapInternal("failed to record system", err)
	}
	if err := batch.Commit(); err != nil {
		return nil, err
	}
	result.System = *sys

	logger.Info("System generated",
		"star", star.Handle.String(),
		"planets", len(result.Planets),
		"assets", len(result.Assets),
	)
	return result, nil
}

func (s *Service) GetSystem(ctx context.Context, star entity.Handle) (*System, error) {
	return s.repo.GetSystem(ctx, star, nil)
}
