package system

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"

	"celestial-server/internal/entity"
	"celestial-server/internal/shared/database"
	"celestial-server/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing system repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *Repository) CreateSystem(ctx context.Context, sys System, tx *database.Tx) (*System, error) {
	exec := r.getExecutor(tx)
	logger := r.logger.With(
		"component", "system_repository",
		"operation", "create_system",
		"star_handle", sys.StarHandle.String(),
	)
	logger.Debug("Creating system")

	query := r.db.Rebind(`
		INSERT INTO star_systems (star_handle, name, seed, planet_count, asset_count)
		VALUES ($1, $2, $3, $4, $5)
	`)

	_, err := exec.ExecContext(ctx, query,
		int64(sys.StarHandle), sys.Name, sys.Seed, sys.PlanetCount, sys.AssetCount,
	)
	if err != nil {
		logger.Error("Failed to create system", "error", err)
		return nil, fmt.Errorf("failed to create system: %w", err)
	}

	logger.Debug("System created successfully")
	return r.GetSystem(ctx, sys.StarHandle, tx)
}

func (r *Repository) GetSystem(ctx context.Context, star entity.Handle, tx *database.Tx) (*System, error) {
	exec := r.getExecutor(tx)
	logger := r.logger.With("component", "system_repository", "operation", "get_system", "star_handle", star.String())

	query := r.db.Rebind(`
		SELECT star_handle, name, seed, planet_count, asset_count, created_at
		FROM star_systems
		WHERE star_handle = $1
	`)

	system, err := scanSystem(exec.QueryRowContext(ctx, query, int64(star)))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("system %s not found", star)
		}
		logger.Error("Failed to get system", "error", err)
		return nil, fmt.Errorf("failed to get system: %w", err)
	}
	return system, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSystem(row rowScanner) (*System, error) {
	var (
		system System
		handle int64
	)
	err := row.Scan(
		&handle,
		&system.Name,
		&system.Seed,
		&system.PlanetCount,
		&system.AssetCount,
		&system.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	system.StarHandle = entity.Handle(handle)
	return &system, nil
}

func (r *Repository) ListSystems(ctx context.Context) ([]System, error) {
	logger := r.logger.With("component", "system_repository", "operation", "list_systems")
	logger.Debug("Listing systems")

	query := `
		SELECT star_handle, name, seed, planet_count, asset_count, created_at
		FROM star_systems
		ORDER BY star_handle
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query systems", "error", err)
		return nil, fmt.Errorf("failed to query systems: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var systems []System
	for rows.Next() {
		system, err := scanSystem(rows)
		if err != nil {
			logger.Error("Failed to scan system row", "error", err)
			return nil, fmt.Errorf("failed to scan system: %w", err)
		}
		systems = append(systems, *system)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating systems: %w", err)
	}

	logger.Debug("Systems retrieved", "count", len(systems))
	return systems, nil
}
