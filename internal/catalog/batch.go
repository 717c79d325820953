package catalog

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"

	"celestial-server/internal/body"
	"celestial-server/internal/entity"
	"celestial-server/internal/shared/database"
	"celestial-server/internal/shared/errors"
)

// Batch creates bodies inside one database transaction. Its bodies may
// orbit each other, and join the hierarchy index only on Commit.
type Batch struct {
	svc       *Service
	tx        *database.Tx
	allocator entity.Allocator
	pending   []pendingBody
	staged    map[entity.Handle]bool
	logger    *slog.Logger
}

type pendingBody struct {
	handle entity.Handle
	body   body.Body
}

// Begin opens a batch. Callers must Commit or Rollback it.
func (s *Service) Begin(ctx context.Context) (*Batch, error) {
	tx, err := s.repo.db.BeginTxContext(ctx)
	if err != nil {
		s.logger.Error("Failed to begin catalog batch", "error", err)
		return nil, errors.Unavailable("failed to begin transaction", err)
	}
	return &Batch{
		svc:       s,
		tx:        tx,
		allocator: s.allocator.WithTx(tx),
		staged:    make(map[entity.Handle]bool),
		logger:    s.logger.With("component", "catalog_batch"),
	}, nil
}

// Tx exposes the transaction so related rows commit with the bodies.
func (b *Batch) Tx() *database.Tx {
	return b.tx
}

// Create validates req, allocates a handle and stores the body in the
// batch transaction.
func (b *Batch) Create(ctx context.Context, req CreateRequest) (*View, error) {
	logger := b.logger.With("operation", "create_body", "kind", req.Kind, "name", req.Name)
	logger.Debug("Creating body")

	built, category, err := req.Build()
	if err != nil {
		return nil, err
	}

	if parent, ok := built.Parent(); ok && !b.staged[parent] {
		if _, err := b.svc.Resolve(ctx, parent); err != nil {
			if errors.Is(err, errors.ErrorTypeNotFound) {
				return nil, errors.Validationf("parent %s does not exist", parent)
			}
			return nil, err
		}
	}

	h, err := b.allocator.Next(ctx, category)
	if err != nil {
		return nil, errors.WrapInternal("failed to allocate handle", err)
	}

	rec, err := NewRecord(h, req.Name, built)
	if err != nil {
		return nil, errors.WrapInternal("failed to build record", err)
	}
	if err := b.svc.repo.CreateBody(ctx, rec, b.tx); err != nil {
		return nil, errors.WrapInternal("failed to store body", err)
	}

	b.pending = append(b.pending, pendingBody{handle: h, body: built})
	b.staged[h] = true

	logger.Debug("Body staged", "handle", h.String())
	return NewView(rec, built), nil
}

// Commit stores the batch and indexes its bodies, parents first.
func (b *Batch) Commit() error {
	if err := b.tx.Commit(); err != nil {
		b.logger.Error("Failed to commit catalog batch", "error", err)
		return errors.WrapInternal("failed to commit bodies", err)
	}

	for _, p := range b.pending {
		if err := b.svc.index.Add(p.handle, p.body); err != nil {
			b.logger.Error("Committed body rejected by index", "handle", p.handle.String(), "error", err)
		}
	}

	b.logger.Info("Bodies committed", "count", len(b.pending))
	return nil
}

// Rollback discards the batch. It is a no-op after Commit.
func (b *Batch) Rollback() {
	if err := b.tx.Rollback(); err != nil && !stderrors.Is(err, sql.ErrTxDone) {
		b.logger.Error("Failed to roll back catalog batch", "error", err)
	}
}
