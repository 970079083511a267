// Package store provides the backend graph access layer. The traversal
// engine only sees the narrow GraphStore interface; concrete backends exist
// for in-memory graphs, PostgreSQL and Neo4j.
package store

import (
	"context"
	"fmt"

	"pathfinder/pkg/config"
	"pathfinder/pkg/database"
	"pathfinder/pkg/domain"
)

// Edge is a single edge returned by a backend store. Properties carries the
// edge's numeric properties; non-numeric properties are not exposed because
// the traversal only consumes numeric weights.
type Edge struct {
	Source     domain.Id
	Target     domain.Id
	Label      string
	Properties map[string]float64
}

// OtherVertex returns the endpoint opposite to of.
func (e Edge) OtherVertex(of domain.Id) domain.Id {
	if e.Source == of {
		return e.Target
	}
	return e.Source
}

// Property returns the numeric value of the named property, if present.
func (e Edge) Property(name string) (float64, bool) {
	v, ok := e.Properties[name]
	return v, ok
}

// GraphStore is the backend interface consumed by the traversal engine.
type GraphStore interface {
	// EdgesOfVertex returns up to limit edges incident to vertex in the
	// given direction, optionally filtered by label. limit = domain.NoLimit
	// fetches all edges. The returned order is backend-defined but stable
	// for a given backend state.
	EdgesOfVertex(ctx context.Context, vertex domain.Id, dir domain.Direction, label string, limit int64) ([]Edge, error)

	// ResolveLabel resolves an edge label name to its backend identifier.
	// An empty name means "no filter" and resolves to the empty string.
	// Unknown labels return an error.
	ResolveLabel(ctx context.Context, name string) (string, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close(ctx context.Context) error
}

// Driver names accepted in configuration.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverNeo4j    = "neo4j"
)

// New creates a graph store for the configured driver.
func New(ctx context.Context, cfg *config.StoreConfig) (GraphStore, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverPostgres:
		db, err := database.NewPostgresDB(ctx, &cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres store: %w", err)
		}
		if err := database.RunMigrations(ctx, db.Pool(), &cfg.Postgres, Migrations, "migrations"); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate postgres store: %w", err)
		}
		return NewPostgresStore(db), nil
	case DriverNeo4j:
		return NewNeo4jStore(ctx, &cfg.Neo4j)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
