package store

import (
	"context"
	"sync"

	"pathfinder/pkg/apperror"
	"pathfinder/pkg/domain"
)

// MemoryStore is a map-backed graph store for tests and local development.
// Edges are returned in insertion order, which keeps sampling deterministic.
type MemoryStore struct {
	mu       sync.RWMutex
	outgoing map[domain.Id][]Edge
	incoming map[domain.Id][]Edge
	labels   map[string]struct{}
}

// NewMemoryStore creates an empty in-memory graph.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		outgoing: make(map[domain.Id][]Edge),
		incoming: make(map[domain.Id][]Edge),
		labels:   make(map[string]struct{}),
	}
}

// AddEdge inserts a directed edge. The label is registered implicitly.
func (s *MemoryStore) AddEdge(source, target domain.Id, label string, properties map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	edge := Edge{
		Source:     source,
		Target:     target,
		Label:      label,
		Properties: properties,
	}

	s.outgoing[source] = append(s.outgoing[source], edge)
	s.incoming[target] = append(s.incoming[target], edge)
	if label != "" {
		s.labels[label] = struct{}{}
	}
}

func (s *MemoryStore) EdgesOfVertex(ctx context.Context, vertex domain.Id, dir domain.Direction, label string, limit int64) ([]Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []Edge
	switch dir {
	case domain.DirectionOut:
		candidates = s.outgoing[vertex]
	case domain.DirectionIn:
		candidates = s.incoming[vertex]
	case domain.DirectionBoth:
		candidates = append(append([]Edge{}, s.outgoing[vertex]...), s.incoming[vertex]...)
	default:
		return nil, apperror.New(apperror.CodeInvalidDirection, "unknown direction "+string(dir))
	}

	edges := make([]Edge, 0, len(candidates))
	for _, e := range candidates {
		if limit != domain.NoLimit && int64(len(edges)) >= limit {
			break
		}
		if label != "" && e.Label != label {
			continue
		}
		edges = append(edges, e)
	}
	return edges, nil
}

func (s *MemoryStore) ResolveLabel(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.labels[name]; !ok {
		return "", apperror.NewWithField(apperror.CodeLabelNotFound, "unknown edge label", name)
	}
	return name, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}
