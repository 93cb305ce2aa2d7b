package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/woozymasta/scs-route-tool/internal/mapgraph"
)

// Edge kinds stored in macro_edges.
const (
	EdgeRoad   = "road"
	EdgeDirect = "direct"
	EdgeFerry  = "ferry"
)

// Edge is a stored navigation edge.
type Edge struct {
	From   uint64   `json:"from"`
	To     uint64   `json:"to"`
	Weight float64  `json:"weight"`
	Kind   string   `json:"kind"`
	Items  []uint64 `json:"items"`
}

// GraphStats counts what SaveGraph wrote.
type GraphStats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// SaveGraph replaces the graph tables with the prefabs of reg and their
// navigation edges, in one transaction.
func (s *Store) SaveGraph(ctx context.Context, reg *mapgraph.Registry) (GraphStats, error) {
	var st GraphStats

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return st, wrapDBError(err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM macro_edges`, `DELETE FROM routing_nodes`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return st, wrapDBError(err)
		}
	}

	insNode, err := tx.PrepareContext(ctx, `INSERT INTO routing_nodes (uid, x, z, prefab, hidden) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return st, wrapDBError(err)
	}
	defer insNode.Close()

	insEdge, err := tx.PrepareContext(ctx, `INSERT INTO macro_edges (from_uid, to_uid, weight, kind, items) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return st, wrapDBError(err)
	}
	defer insEdge.Close()

	prefabs := reg.Prefabs()
	for _, p := range prefabs {
		if _, err := insNode.ExecContext(ctx, dbUID(p.UID), p.X, p.Z, p.Prefab.Def.String(), p.Hidden); err != nil {
			return st, wrapDBError(err)
		}
		st.Nodes++
	}

	for _, p := range prefabs {
		for _, e := range p.Prefab.Navigation.Edges {
			items, err := json.Marshal(nonNil(e.Payload))
			if err != nil {
				return st, fmt.Errorf("encode edge items: %w", err)
			}
			if _, err := insEdge.ExecContext(ctx, dbUID(p.UID), dbUID(e.To), e.Weight, edgeKind(reg, e.Payload), string(items)); err != nil {
				return st, wrapDBError(err)
			}
			st.Edges++
		}
	}

	if err := tx.Commit(); err != nil {
		return st, wrapDBError(err)
	}

	return st, nil
}

// Edges returns the stored edges leaving a prefab, in navigation order.
func (s *Store) Edges(ctx context.Context, from uint64) ([]Edge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT from_uid, to_uid, weight, kind, items FROM macro_edges WHERE from_uid = ? ORDER BY rowid`, dbUID(from))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var out []Edge
	for rows.Next() {
		var (
			e        Edge
			fromUID  int64
			toUID    int64
			rawItems string
		)
		if err := rows.Scan(&fromUID, &toUID, &e.Weight, &e.Kind, &rawItems); err != nil {
			return nil, wrapDBError(err)
		}
		if err := json.Unmarshal([]byte(rawItems), &e.Items); err != nil {
			return nil, fmt.Errorf("stored edge items %q are invalid: %w", rawItems, err)
		}
		e.From, e.To = fromDBUID(fromUID), fromDBUID(toUID)
		out = append(out, e)
	}

	return out, wrapRowsErr(rows.Err())
}

func edgeKind(reg *mapgraph.Registry, payload []uint64) string {
	switch {
	case len(payload) == 0:
		return EdgeDirect
	case len(payload) == 2 && reg.Item(payload[0]).IsFerryPort() && reg.Item(payload[1]).IsFerryPort():
		return EdgeFerry
	default:
		return EdgeRoad
	}
}

func nonNil(s []uint64) []uint64 {
	if s == nil {
		return []uint64{}
	}

	return s
}

func wrapRowsErr(err error) error {
	if err != nil {
		return wrapDBError(err)
	}

	return nil
}
