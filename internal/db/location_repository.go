package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/atlas/internal/data"
)

// Origin is stamped on records read back from Postgres.
const Origin = "postgres:locations"

// LocationRepository stores dataset records as JSONB, keeping dataset order in
// the position column. It implements data.Source.
type LocationRepository struct {
	pool *pgxpool.Pool
}

// NewLocationRepository creates a new location repository.
func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

var _ data.Source = (*LocationRepository)(nil)

// Records loads every stored record in dataset order.
func (r *LocationRepository) Records(ctx context.Context) ([]data.LocationRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, record FROM locations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	var out []data.LocationRecord
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		var rec data.LocationRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decoding location %q: %w", id, err)
		}
		rec.Origin = Origin
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locations: %w", err)
	}
	return out, nil
}

// Get loads one record by id.
// Returns nil, nil if the location does not exist.
func (r *LocationRepository) Get(ctx context.Context, id string) (*data.LocationRecord, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT record FROM locations WHERE id = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying location %q: %w", id, err)
	}
	var rec data.LocationRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decoding location %q: %w", id, err)
	}
	rec.Origin = Origin
	return &rec, nil
}

// Count returns the number of stored locations.
func (r *LocationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM locations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting locations: %w", err)
	}
	return n, nil
}

// Import replaces the stored dataset with recs in one transaction and records
// the import. Callers validate recs (world.FromRecords) before importing.
func (r *LocationRepository) Import(ctx context.Context, recs []data.LocationRecord, fingerprint, source string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `DELETE FROM locations`); err != nil {
		return fmt.Errorf("clearing locations: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range recs {
		rec := &recs[i]
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding location %q: %w", rec.ID, err)
		}
		batch.Queue(
			`INSERT INTO locations (id, position, name, scale, region, continent, type, record)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			rec.ID, i, rec.Name, rec.Scale, rec.Region, rec.Continent, rec.Type, raw,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for i := range recs {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("inserting location %q: %w", recs[i].ID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("closing insert batch: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO dataset_imports (fingerprint, location_count, source) VALUES ($1, $2, $3)`,
		fingerprint, len(recs), source,
	); err != nil {
		return fmt.Errorf("recording import: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	slog.Info("dataset imported", "locations", len(recs), "fingerprint", fingerprint, "source", source)
	return nil
}

// ImportInfo describes one completed import.
type ImportInfo struct {
	Fingerprint   string
	LocationCount int
	Source        string
	ImportedAt    time.Time
}

// LastImport returns the most recent import.
// Returns nil, nil if nothing was imported yet.
func (r *LocationRepository) LastImport(ctx context.Context) (*ImportInfo, error) {
	var info ImportInfo
	err := r.pool.QueryRow(ctx,
		`SELECT fingerprint, location_count, source, imported_at
		 FROM dataset_imports ORDER BY id DESC LIMIT 1`,
	).Scan(&info.Fingerprint, &info.LocationCount, &info.Source, &info.ImportedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying last import: %w", err)
	}
	return &info, nil
}
