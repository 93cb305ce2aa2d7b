package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/woozymasta/scs-route-tool/internal/route"
)

// StoredRoute is a saved route query and its result.
type StoredRoute struct {
	ID          uuid.UUID    `json:"id"`
	Fingerprint string       `json:"fingerprint"`
	Created     time.Time    `json:"created"`
	Result      route.Result `json:"result"`
}

const routeColumns = `id, fingerprint, result, created`

// SaveRoute stores a route result under a new id. fingerprint names the
// graph build the route was computed on.
func (s *Store) SaveRoute(ctx context.Context, res route.Result, fingerprint string) (StoredRoute, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return StoredRoute{}, fmt.Errorf("could not generate ID: %w", err)
	}

	data, err := json.Marshal(res)
	if err != nil {
		return StoredRoute{}, fmt.Errorf("encode route: %w", err)
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO routes (id, start_uid, end_uid, found, weight, fingerprint, result, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		newUUID.String(), dbUID(res.Start), dbUID(res.End), res.Found, res.Weight, fingerprint, string(data), now.Unix(),
	)
	if err != nil {
		return StoredRoute{}, wrapDBError(err)
	}

	return s.LoadRoute(ctx, newUUID)
}

// LoadRoute returns a stored route by id.
func (s *Store) LoadRoute(ctx context.Context, id uuid.UUID) (StoredRoute, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = ?`, id.String())

	return scanRoute(row)
}

// FindRoutes returns the stored routes between two prefabs, newest first.
func (s *Store) FindRoutes(ctx context.Context, start, end uint64) ([]StoredRoute, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+routeColumns+` FROM routes WHERE start_uid = ? AND end_uid = ? ORDER BY created DESC, id`,
		dbUID(start), dbUID(end))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var out []StoredRoute
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}

	return out, wrapRowsErr(rows.Err())
}

// DeleteRoute removes a stored route.
func (s *Store) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id.String())
	if err != nil {
		return wrapDBError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoute(row scanner) (StoredRoute, error) {
	var (
		r       StoredRoute
		id      string
		data    string
		created int64
	)
	if err := row.Scan(&id, &r.Fingerprint, &data, &created); err != nil {
		return StoredRoute{}, wrapDBError(err)
	}

	var err error
	r.ID, err = uuid.Parse(id)
	if err != nil {
		return StoredRoute{}, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	if err := json.Unmarshal([]byte(data), &r.Result); err != nil {
		return StoredRoute{}, fmt.Errorf("stored route %s is invalid: %w", id, err)
	}
	r.Created = time.Unix(created, 0)

	return r, nil
}
