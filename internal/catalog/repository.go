package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"

	"celestial-server/internal/body"
	"celestial-server/internal/entity"
	"celestial-server/internal/shared/database"
	"celestial-server/internal/shared/errors"
)

const bodyColumns = `handle, category, kind, name, parent_handle, mass, radius, escape_velocity, planet_type,
		eccentricity, semi_major_axis, inclination, longitude_of_ascending_node, argument_of_periapsis, mean_anomaly,
		rotation_period, rotation_obliquity, rotation_eq_ascending_node, details`

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing catalog repository")

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

func (r *Repository) CreateBody(ctx context.Context, rec *Record, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	logger := r.logger.With(
		"component", "catalog_repository",
		"operation", "create_body",
		"handle", rec.Handle.String(),
		"kind", rec.Kind,
	)
	logger.Debug("Creating body")

	details, err := json.Marshal(rec.Details)
	if err != nil {
		logger.Error("Failed to marshal body details", "error", err)
		return fmt.Errorf("failed to marshal body details: %w", err)
	}

	var parent sql.NullInt64
	if rec.Parent != nil {
		parent = sql.NullInt64{Int64: int64(*rec.Parent), Valid: true}
	}
	var planetType sql.NullString
	if rec.PlanetType != "" {
		planetType = sql.NullString{String: string(rec.PlanetType), Valid: true}
	}

	var (
		eccentricity, inclination, ascendingNode, periapsis, meanAnomaly sql.NullFloat64
		semiMajorAxis                                                    sql.NullString
	)
	if o := rec.Orbit; o != nil {
		eccentricity = sql.NullFloat64{Float64: o.Eccentricity, Valid: true}
		semiMajorAxis = sql.NullString{String: o.SemiMajorAxis, Valid: true}
		inclination = sql.NullFloat64{Float64: o.Inclination, Valid: true}
		ascendingNode = sql.NullFloat64{Float64: o.LongitudeOfAscendingNode, Valid: true}
		periapsis = sql.NullFloat64{Float64: o.ArgumentOfPeriapsis, Valid: true}
		meanAnomaly = sql.NullFloat64{Float64: o.MeanAnomaly, Valid: true}
	}

	query := r.db.Rebind(`
		INSERT INTO bodies (` + bodyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`)

	_, err = exec.ExecContext(ctx, query,
		int64(rec.Handle),
		int(rec.Category),
		string(rec.Kind),
		rec.Name,
		parent,
		rec.Mass,
		rec.Radius,
		rec.EscapeVelocity,
		planetType,
		eccentricity,
		semiMajorAxis,
		inclination,
		ascendingNode,
		periapsis,
		meanAnomaly,
		rec.Rotation.Period,
		rec.Rotation.Obliquity,
		rec.Rotation.EquatorAscendingNode,
		string(details),
	)
	if err != nil {
		logger.Error("Failed to create body", "error", err)
		return fmt.Errorf("failed to create body: %w", err)
	}

	logger.Debug("Body created successfully")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec                                                              Record
		handle                                                           int64
		category                                                         int
		kind                                                             string
		parent                                                           sql.NullInt64
		planetType, semiMajorAxis                                        sql.NullString
		eccentricity, inclination, ascendingNode, periapsis, meanAnomaly sql.NullFloat64
		details                                                          string
	)

	err := row.Scan(
		&handle,
		&category,
		&kind,
		&rec.Name,
		&parent,
		&rec.Mass,
		&rec.Radius,
		&rec.EscapeVelocity,
		&planetType,
		&eccentricity,
		&semiMajorAxis,
		&inclination,
		&ascendingNode,
		&periapsis,
		&meanAnomaly,
		&rec.Rotation.Period,
		&rec.Rotation.Obliquity,
		&rec.Rotation.EquatorAscendingNode,
		&details,
	)
	if err != nil {
		return nil, err
	}

	rec.Handle = entity.Handle(handle)
	rec.Category = entity.Category(category)
	rec.Kind = body.Kind(kind)
	if parent.Valid {
		p := entity.Handle(parent.Int64)
		rec.Parent = &p
	}
	if planetType.Valid {
		rec.PlanetType = body.PlanetType(planetType.String)
	}
	if semiMajorAxis.Valid {
		rec.Orbit = &OrbitSpec{
			Eccentricity:             eccentricity.Float64,
			SemiMajorAxis:            semiMajorAxis.String,
			Inclination:              inclination.Float64,
			LongitudeOfAscendingNode: ascendingNode.Float64,
			ArgumentOfPeriapsis:      periapsis.Float64,
			MeanAnomaly:              meanAnomaly.Float64,
		}
	}
	if err := json.Unmarshal([]byte(details), &rec.Details); err != nil {
		return nil, fmt.Errorf("failed to decode details of %s: %w", rec.Handle, err)
	}
	return &rec, nil
}

// GetBody returns a not-found error when no row exists.
func (r *Repository) GetBody(ctx context.Context, h entity.Handle) (*Record, error) {
	logger := r.logger.With("component", "catalog_repository", "operation", "get_body", "handle", h.String())
	logger.Debug("Getting body")

	query := r.db.Rebind(`SELECT ` + bodyColumns + ` FROM bodies WHERE handle = $1`)

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, int64(h)))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			logger.Debug("Body not found")
			return nil, errors.NotFoundf("body %s not found", h)
		}
		logger.Error("Database error getting body", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}
	return rec, nil
}

// ListBodies returns every body, parents before their children.
func (r *Repository) ListBodies(ctx context.Context) ([]Record, error) {
	logger := r.logger.With("component", "catalog_repository", "operation", "list_bodies")

	query := `SELECT ` + bodyColumns + ` FROM bodies ORDER BY created_at, handle`
	records, err := r.queryRecords(ctx, logger, query)
	if err != nil {
		return nil, err
	}
	return orderByParent(records), nil
}

func (r *Repository) queryRecords(ctx context.Context, logger *slog.Logger, query string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("Failed to query bodies", "error", err)
		return nil, fmt.Errorf("failed to query bodies: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			logger.Error("Failed to scan body row", "error", err)
			return nil, fmt.Errorf("failed to scan body: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating bodies: %w", err)
	}

	logger.Debug("Bodies retrieved", "count", len(records))
	return records, nil
}

func (r *Repository) CountByKind(ctx context.Context) ([]KindCount, error) {
	logger := r.logger.With("component", "catalog_repository", "operation", "count_by_kind")

	rows, err := r.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM bodies GROUP BY kind ORDER BY kind`)
	if err != nil {
		logger.Error("Failed to count bodies", "error", err)
		return nil, fmt.Errorf("failed to count bodies: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var counts []KindCount
	for rows.Next() {
		var c KindCount
		var kind string
		if err := rows.Scan(&kind, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		c.Kind = body.Kind(kind)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// NextSequence reserves the next sequence number of a category.
func (r *Repository) NextSequence(ctx context.Context, category entity.Category, tx *database.Tx) (uint64, error) {
	exec := r.getExecutor(tx)
	logger := r.logger.With("component", "catalog_repository", "operation", "next_sequence", "category", category.String())

	_, err := exec.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO entity_sequences (category, next_value) VALUES ($1, 1) ON CONFLICT (category) DO NOTHING`),
		int(category),
	)
	if err != nil {
		logger.Error("Failed to initialize sequence", "error", err)
		return 0, fmt.Errorf("failed to initialize sequence: %w", err)
	}

	var seq int64
	err = exec.QueryRowContext(ctx,
		r.db.Rebind(`UPDATE entity_sequences SET next_value = next_value + 1 WHERE category = $1 RETURNING next_value - 1`),
		int(category),
	).Scan(&seq)
	if err != nil {
		logger.Error("Failed to advance sequence", "error", err)
		return 0, fmt.Errorf("failed to advance sequence: %w", err)
	}

	logger.Debug("Sequence reserved", "sequence", seq)
	return uint64(seq), nil
}

func orderByParent(records []Record) []Record {
	placed := make(map[entity.Handle]bool, len(records))
	ordered := make([]Record, 0, len(records))

	pending := records
	for len(pending) > 0 {
		var next []Record
		for _, rec := range pending {
			if rec.Parent == nil || placed[*rec.Parent] {
				ordered = append(ordered, rec)
				placed[rec.Handle] = true
				continue
			}
			next = append(next, rec)
		}
		if len(next) == len(pending) {
			// parents missing from the result set; keep the rest in query order
			return append(ordered, next...)
		}
		pending = next
	}
	return ordered
}
