package catalog

import (
	"context"

	"celestial-server/internal/entity"
	"celestial-server/internal/shared/database"
)

// SequenceAllocator issues handles from the entity_sequences table, so
// handles stay unique across restarts. Bound to a transaction, a rolled
// back batch also returns its sequences.
type SequenceAllocator struct {
	repo *Repository
	tx   *database.Tx
}

func NewSequenceAllocator(repo *Repository) *SequenceAllocator {
	return &SequenceAllocator{repo: repo}
}

// WithTx returns an allocator that reserves sequences inside tx.
func (a *SequenceAllocator) WithTx(tx *database.Tx) *SequenceAllocator {
	return &SequenceAllocator{repo: a.repo, tx: tx}
}

func (a *SequenceAllocator) Next(ctx context.Context, category entity.Category) (entity.Handle, error) {
	if !category.Valid() {
		return 0, &entity.MalformedHandleError{Tag: uint8(category)}
	}
	seq, err := a.repo.NextSequence(ctx, category, a.tx)
	if err != nil {
		return 0, err
	}
	return entity.NewHandle(seq, category)
}
