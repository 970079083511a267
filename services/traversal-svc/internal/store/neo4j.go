package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"pathfinder/pkg/apperror"
	"pathfinder/pkg/config"
	"pathfinder/pkg/domain"
)

// Neo4jStore reads the graph over Bolt. Vertices are matched on their `id`
// property; edge properties come back as the relationship's property map.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore establishes a Bolt connection and verifies it.
func NewNeo4jStore(ctx context.Context, cfg *config.Neo4jConfig) (*Neo4jStore, error) {
	if cfg.URI == "" {
		return nil, apperror.New(apperror.CodeInvalidArgument, "neo4j uri is required")
	}

	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		if cfg.MaxConnections > 0 {
			c.MaxConnectionPoolSize = cfg.MaxConnections
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	return &Neo4jStore{
		driver:   driver,
		database: cfg.Database,
	}, nil
}

func (s *Neo4jStore) EdgesOfVertex(ctx context.Context, vertex domain.Id, dir domain.Direction, label string, limit int64) ([]Edge, error) {
	var pattern string
	switch dir {
	case domain.DirectionOut:
		pattern = "(v {id: $id})-[e]->(n)"
	case domain.DirectionIn:
		pattern = "(v {id: $id})<-[e]-(n)"
	case domain.DirectionBoth:
		pattern = "(v {id: $id})-[e]-(n)"
	default:
		return nil, apperror.New(apperror.CodeInvalidDirection, "unknown direction "+string(dir))
	}

	cypher := "MATCH " + pattern
	params := map[string]any{"id": string(vertex)}

	if label != "" {
		cypher += " WHERE type(e) = $label"
		params["label"] = label
	}

	cypher += " RETURN startNode(e).id AS source, endNode(e).id AS target, type(e) AS label, properties(e) AS props"

	if limit != domain.NoLimit {
		cypher += " LIMIT $limit"
		params["limit"] = limit
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeStoreError, "query edges")
	}

	var edges []Edge
	for res.Next(ctx) {
		rec := res.Record()
		edges = append(edges, recordToEdge(rec))
	}
	if err := res.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeStoreError, "iterate edges")
	}

	return edges, nil
}

func recordToEdge(rec *neo4j.Record) Edge {
	edge := Edge{}

	if v, ok := rec.Get("source"); ok {
		if s, ok := v.(string); ok {
			edge.Source = domain.Id(s)
		}
	}
	if v, ok := rec.Get("target"); ok {
		if s, ok := v.(string); ok {
			edge.Target = domain.Id(s)
		}
	}
	if v, ok := rec.Get("label"); ok {
		if s, ok := v.(string); ok {
			edge.Label = s
		}
	}
	if v, ok := rec.Get("props"); ok {
		if props, ok := v.(map[string]any); ok {
			edge.Properties = numericProperties(props)
		}
	}

	return edge
}

// numericProperties keeps only the properties usable as edge weights.
func numericProperties(props map[string]any) map[string]float64 {
	out := make(map[string]float64, len(props))
	for name, value := range props {
		switch v := value.(type) {
		case float64:
			out[name] = v
		case int64:
			out[name] = float64(v)
		}
	}
	return out
}

func (s *Neo4jStore) ResolveLabel(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx,
		"CALL db.relationshipTypes() YIELD relationshipType WHERE relationshipType = $name RETURN relationshipType",
		map[string]any{"name": name})
	if err != nil {
		return "", apperror.Wrap(err, apperror.CodeStoreError, "resolve label")
	}

	if !res.Next(ctx) {
		if err := res.Err(); err != nil {
			return "", apperror.Wrap(err, apperror.CodeStoreError, "resolve label")
		}
		return "", apperror.NewWithField(apperror.CodeLabelNotFound, "unknown edge label", name)
	}
	return name, nil
}

func (s *Neo4jStore) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
