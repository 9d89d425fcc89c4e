package repository

import (
	"context"
	"errors"
	"fmt"

	"datumtrans-api/internal/mesh"
	"datumtrans-api/internal/models"
	"datumtrans-api/internal/trans"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound reports that no parameter set with the requested name exists.
var ErrNotFound = errors.New("repository: parameter set not found")

// DB is the subset of pgx used by the repository. Both *pgx.Conn and
// *pgxpool.Pool satisfy it.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Repository stores parameter sets in PostgreSQL
type Repository struct {
	db DB
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// CreateSchema creates the parameter tables if they do not exist.
func (r *Repository) CreateSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS parameter_sets (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		format TEXT NOT NULL,
		unit INT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS parameters (
		set_id BIGINT NOT NULL REFERENCES parameter_sets(id) ON DELETE CASCADE,
		meshcode BIGINT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		altitude DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (set_id, meshcode)
	);
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// SaveParameterSet stores the transformer's parameter table under the name,
// replacing any previous table stored under it.
func (r *Repository) SaveParameterSet(ctx context.Context, name string, t *trans.Transformer) error {
	var setID int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO parameter_sets (name, format, unit, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET format = EXCLUDED.format, unit = EXCLUDED.unit, description = EXCLUDED.description
		RETURNING id
	`, name, string(t.Format), int(t.Unit), t.Description).Scan(&setID)
	if err != nil {
		return fmt.Errorf("repository: failed to upsert parameter set %q: %w", name, err)
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM parameters WHERE set_id = $1`, setID); err != nil {
		return fmt.Errorf("repository: failed to clear parameters of %q: %w", name, err)
	}

	meshcodes := make([]int, 0, len(t.Parameter))
	for code := range t.Parameter {
		meshcodes = append(meshcodes, code)
	}

	_, err = r.db.CopyFrom(
		ctx,
		pgx.Identifier{"parameters"},
		[]string{"set_id", "meshcode", "latitude", "longitude", "altitude"},
		pgx.CopyFromSlice(len(meshcodes), func(i int) ([]any, error) {
			code := meshcodes[i]
			p := t.Parameter[code]
			return []any{setID, code, p.Latitude, p.Longitude, p.Altitude}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("repository: failed to copy parameters of %q: %w", name, err)
	}
	return nil
}

// LoadParameterSet reads the named parameter table and rebuilds its
// transformer. It returns ErrNotFound when the name is unknown.
func (r *Repository) LoadParameterSet(ctx context.Context, name string) (*trans.Transformer, error) {
	var (
		setID       int64
		format      string
		unit        int
		description string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, format, unit, description FROM parameter_sets WHERE name = $1
	`, name).Scan(&setID, &format, &unit, &description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("repository: failed to load parameter set %q: %w", name, err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT meshcode, latitude, longitude, altitude FROM parameters WHERE set_id = $1
	`, setID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to load parameters of %q: %w", name, err)
	}
	defer rows.Close()

	parameter := make(map[int]trans.Parameter)
	for rows.Next() {
		var (
			meshcode int
			p        trans.Parameter
		)
		if err := rows.Scan(&meshcode, &p.Latitude, &p.Longitude, &p.Altitude); err != nil {
			return nil, fmt.Errorf("repository: failed to scan parameter: %w", err)
		}
		parameter[meshcode] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	t, err := trans.New(mesh.Unit(unit), parameter, description)
	if err != nil {
		return nil, fmt.Errorf("repository: stored parameter set %q is invalid: %w", name, err)
	}
	t.Format = trans.Format(format)
	return t, nil
}

// ListParameterSets returns the stored sets with their parameter counts,
// ordered by name.
func (r *Repository) ListParameterSets(ctx context.Context) ([]models.ParameterSetInfo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.name, s.format, s.unit, s.description, COUNT(p.meshcode)
		FROM parameter_sets s
		LEFT JOIN parameters p ON p.set_id = s.id
		GROUP BY s.id
		ORDER BY s.name
	`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list parameter sets: %w", err)
	}
	defer rows.Close()

	var infos []models.ParameterSetInfo
	for rows.Next() {
		var info models.ParameterSetInfo
		if err := rows.Scan(&info.Name, &info.Format, &info.Unit, &info.Description, &info.Count); err != nil {
			return nil, fmt.Errorf("repository: failed to scan parameter set: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return infos, nil
}
