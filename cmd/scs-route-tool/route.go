package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/logger"
	"github.com/woozymasta/scs-route-tool/internal/mapgraph"
	"github.com/woozymasta/scs-route-tool/internal/route"
	"github.com/woozymasta/scs-route-tool/internal/store"
)

type routeCmd struct {
	Format    string  `short:"f" long:"format" choice:"yaml" choice:"json" default:"yaml" description:"Output format"`
	FromXZ    string  `long:"from-xz" value-name:"X,Z" description:"Start at the prefab nearest to these coordinates"`
	ToXZ      string  `long:"to-xz" value-name:"X,Z" description:"End at the prefab nearest to these coordinates"`
	Tolerance float64 `short:"t" long:"tolerance" description:"Coordinate search box (overrides route.tolerance)"`
	Store     bool    `short:"s" long:"store" description:"Save the route in the sqlite database"`
	Rebuild   bool    `short:"r" long:"rebuild" description:"Ignore the snapshot and rebuild"`

	Args struct {
		From string `positional-arg-name:"FROM" description:"Start prefab uid (decimal or 0x hex)"`
		To   string `positional-arg-name:"TO" description:"End prefab uid (decimal or 0x hex)"`
	} `positional-args:"true"`
}

type routeReport struct {
	route.Result
	ID string `json:"id,omitempty"`
}

// Execute finds the route between two prefabs and prints it.
func (c *routeCmd) Execute(_ []string) error {
	reg, st, err := loadGraph(cfg, c.Rebuild)
	if err != nil {
		return err
	}

	tolerance := cfg.Route.Tolerance
	if c.Tolerance > 0 {
		tolerance = c.Tolerance
	}

	fromUID, toUID := positionalUIDs(c.Args.From, c.Args.To, c.FromXZ)
	from, err := c.endpoint(reg, fromUID, c.FromXZ, tolerance)
	if err != nil {
		return err
	}
	to, err := c.endpoint(reg, toUID, c.ToXZ, tolerance)
	if err != nil {
		return err
	}

	res := route.NewFinder(reg, nil, logger.Log).FindPath(from.UID, to.UID)
	if !res.Found {
		logger.Warn("no route", zap.Uint64("from", from.UID), zap.Uint64("to", to.UID))
	}

	report := routeReport{Result: res}
	if c.Store || cfg.Route.Store {
		if cfg.Cache.Database == "" {
			return errors.New("storing routes needs cache.database")
		}
		db, err := store.Open(cfg.Cache.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		saved, err := db.SaveRoute(context.Background(), res, st.Fingerprint)
		if err != nil {
			return err
		}
		report.ID = saved.ID.String()
	}

	return writeOutput(report, c.Format, "")
}

// endpoint resolves a prefab by uid or, when xz is set, by coordinates.
func (c *routeCmd) endpoint(reg *mapgraph.Registry, uid, xz string, tolerance float64) (*mapgraph.Item, error) {
	if xz != "" {
		x, z, err := parseXZ(xz)
		if err != nil {
			return nil, err
		}
		return route.NearestPrefab(reg, x, z, tolerance)
	}
	if uid == "" {
		return nil, errors.New("route needs FROM and TO uids or --from-xz/--to-xz")
	}

	id, err := parseUID(uid)
	if err != nil {
		return nil, err
	}

	return route.Prefab(reg, id)
}

// positionalUIDs maps the positional arguments to the endpoints. With
// --from-xz set, a single positional argument is the end uid.
func positionalUIDs(first, second, fromXZ string) (string, string) {
	if fromXZ != "" && second == "" {
		return "", first
	}

	return first, second
}
