package catalog

import (
	"context"
	"log/slog"

	"celestial-server/internal/body"
	"celestial-server/internal/entity"
	"celestial-server/internal/registry"
	"celestial-server/internal/shared/errors"
)

// Service owns the stored catalog and an in-memory index of its
// hierarchy. Load fills the index from storage before the service is used.
type Service struct {
	repo      *Repository
	allocator *SequenceAllocator
	cache     ViewCache
	index     *registry.Registry
	logger    *slog.Logger
}

func NewService(repo *Repository, allocator *SequenceAllocator, cache ViewCache, logger *slog.Logger) *Service {
	logger.Debug("Initializing catalog service")

	if cache == nil {
		cache = noCache{}
	}
	return &Service{
		repo:      repo,
		allocator: allocator,
		cache:     cache,
		index:     registry.New(),
		logger:    logger,
	}
}

// Create stores a single body in its own batch.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*View, error) {
	batch, err := s.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer batch.Rollback()

	view, err := batch.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := batch.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("Body created",
		"component", "catalog_service",
		"operation", "create_body",
		"handle", view.Handle.String(),
		"kind", view.Kind,
	)
	return view, nil
}

func (s *Service) Get(ctx context.Context, h entity.Handle) (*View, error) {
	if _, err := h.Category(); err != nil {
		return nil, errors.WrapValidation("invalid handle", err)
	}

	if view, ok := s.cache.Get(ctx, h); ok {
		return view, nil
	}

	rec, err := s.repo.GetBody(ctx, h)
	if err != nil {
		return nil, err
	}
	view, err := s.render(rec)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, view)
	return view, nil
}

// Children lists the bodies orbiting h, ordered by handle.
func (s *Service) Children(ctx context.Context, h entity.Handle) ([]View, error) {
	if _, err := h.Category(); err != nil {
		return nil, errors.WrapValidation("invalid handle", err)
	}

	handles, err := s.index.Children(h)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, handles)
}

// Ancestors returns the parent chain of h, nearest first.
func (s *Service) Ancestors(ctx context.Context, h entity.Handle) ([]View, error) {
	if _, err := h.Category(); err != nil {
		return nil, errors.WrapValidation("invalid handle", err)
	}

	handles, err := s.index.Ancestors(h)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, handles)
}

func (s *Service) views(ctx context.Context, handles []entity.Handle) ([]View, error) {
	views := make([]View, 0, len(handles))
	for _, h := range handles {
		view, err := s.Get(ctx, h)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *Service) Counts(ctx context.Context) ([]KindCount, error) {
	counts, err := s.repo.CountByKind(ctx)
	if err != nil {
		return nil, errors.WrapInternal("failed to count bodies", err)
	}
	return counts, nil
}

// Load indexes every stored body. A stored parent link that does not
// resolve fails the load.
func (s *Service) Load(ctx context.Context) (int, error) {
	logger := s.logger.With("component", "catalog_service", "operation", "load_index")

	records, err := s.repo.ListBodies(ctx)
	if err != nil {
		return 0, errors.WrapInternal("failed to list bodies", err)
	}

	for i := range records {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		b, err := records[i].Body()
		if err != nil {
			return i, err
		}
		if err := s.index.Add(records[i].Handle, b); err != nil {
			return i, err
		}
	}

	logger.Info("Catalog index loaded", "count", len(records))
	return len(records), nil
}

// Indexed reports how many bodies the hierarchy index holds.
func (s *Service) Indexed() int {
	return s.index.Len()
}

func (s *Service) render(rec *Record) (*View, error) {
	b, err := rec.Body()
	if err != nil {
		s.logger.Error("Stored body failed validation", "handle", rec.Handle.String(), "error", err)
		return nil, err
	}
	return NewView(rec, b), nil
}

// Resolve returns the committed domain body stored under h.
func (s *Service) Resolve(_ context.Context, h entity.Handle) (body.Body, error) {
	if _, err := h.Category(); err != nil {
		return nil, errors.WrapValidation("invalid handle", err)
	}
	b, ok := s.index.Get(h)
	if !ok {
		return nil, errors.NotFoundf("body %s not found", h)
	}
	return b, nil
}
