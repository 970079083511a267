package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pathfinder/pkg/apperror"
	"pathfinder/pkg/database"
	"pathfinder/pkg/domain"
)

// PostgresStore reads the graph from the edges table. The degree cap is
// pushed down as a LIMIT so supernode fetches never pull the full adjacency
// list over the wire.
type PostgresStore struct {
	db database.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EdgesOfVertex(ctx context.Context, vertex domain.Id, dir domain.Direction, label string, limit int64) ([]Edge, error) {
	var predicate string
	switch dir {
	case domain.DirectionOut:
		predicate = "source_id = $1"
	case domain.DirectionIn:
		predicate = "target_id = $1"
	case domain.DirectionBoth:
		predicate = "(source_id = $1 OR target_id = $1)"
	default:
		return nil, apperror.New(apperror.CodeInvalidDirection, "unknown direction "+string(dir))
	}

	query := "SELECT source_id, target_id, label, properties FROM edges WHERE " + predicate
	args := []any{string(vertex)}

	if label != "" {
		args = append(args, label)
		query += fmt.Sprintf(" AND label = $%d", len(args))
	}

	query += " ORDER BY id"

	if limit != domain.NoLimit {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeStoreError, "query edges")
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var (
			source, target, edgeLabel string
			properties                map[string]float64
		)
		if err := rows.Scan(&source, &target, &edgeLabel, &properties); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeStoreError, "scan edge")
		}
		edges = append(edges, Edge{
			Source:     domain.Id(source),
			Target:     domain.Id(target),
			Label:      edgeLabel,
			Properties: properties,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeStoreError, "iterate edges")
	}

	return edges, nil
}

func (s *PostgresStore) ResolveLabel(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}

	var resolved string
	err := s.db.QueryRow(ctx, "SELECT name FROM edge_labels WHERE name = $1", name).Scan(&resolved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperror.NewWithField(apperror.CodeLabelNotFound, "unknown edge label", name)
		}
		return "", apperror.Wrap(err, apperror.CodeStoreError, "resolve label")
	}
	return resolved, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close(ctx context.Context) error {
	s.db.Close()
	return nil
}
