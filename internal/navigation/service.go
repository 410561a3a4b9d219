package navigation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/udisondev/atlas/internal/geo"
	"github.com/udisondev/atlas/internal/model"
	"github.com/udisondev/atlas/internal/world"
)

// ErrNotFound is returned (wrapped) for unknown location ids.
var ErrNotFound = errors.New("location not found")

// Service answers navigation and time queries over one graph.
// Pure functions of the immutable graph; safe for concurrent use.
type Service struct {
	graph *world.Graph
	nodes []*model.Location
	index map[string]int
	adj   [][]edge
}

// edge is one traversable hop. conn is the declared connection that produced it
// (owned by the other endpoint when reverse is set).
type edge struct {
	to      int
	conn    *model.Connection
	reverse bool
}

// NewService indexes g for pathfinding. g must be ready.
func NewService(g *world.Graph) *Service {
	nodes := g.All()
	s := &Service{
		graph: g,
		nodes: nodes,
		index: make(map[string]int, len(nodes)),
		adj:   make([][]edge, len(nodes)),
	}
	for i, loc := range nodes {
		s.index[loc.ID] = i
	}
	s.buildAdjacency()
	return s
}

// buildAdjacency treats every declared connection as mutual reachability.
// Per node: its own connections first in declared order, then reverse edges in
// dataset order of the declaring location. Parallel edges to one neighbour are
// all kept so a filter can reject one and still take another.
func (s *Service) buildAdjacency() {
	for i, loc := range s.nodes {
		for c := range loc.Connections {
			s.adj[i] = append(s.adj[i], edge{to: s.index[loc.Connections[c].To], conn: &loc.Connections[c]})
		}
	}
	for i, loc := range s.nodes {
		for c := range loc.Connections {
			to := s.index[loc.Connections[c].To]
			s.adj[to] = append(s.adj[to], edge{to: i, conn: &loc.Connections[c], reverse: true})
		}
	}
}

// Graph returns the underlying graph.
func (s *Service) Graph() *world.Graph { return s.graph }

func (s *Service) lookup(id string) (*model.Location, error) {
	loc, ok := s.graph.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return loc, nil
}

// GetLocation returns the location with id.
func (s *Service) GetLocation(id string) (*model.Location, error) {
	return s.lookup(id)
}

// GetConnections returns the declared connections of id, in declared order.
func (s *Service) GetConnections(id string) ([]model.Connection, error) {
	loc, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	out := make([]model.Connection, len(loc.Connections))
	copy(out, loc.Connections)
	return out, nil
}

// Neighbors returns every location reachable in one hop, in exploration order.
func (s *Service) Neighbors(id string) ([]string, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	seen := make(map[int]struct{}, len(s.adj[i]))
	out := make([]string, 0, len(s.adj[i]))
	for _, e := range s.adj[i] {
		if _, dup := seen[e.to]; dup {
			continue
		}
		seen[e.to] = struct{}{}
		out = append(out, s.nodes[e.to].ID)
	}
	return out, nil
}

// GetLocalTime converts nowUTC to the location's fixed offset.
func (s *Service) GetLocalTime(id string, nowUTC time.Time) (time.Time, error) {
	loc, err := s.lookup(id)
	if err != nil {
		return time.Time{}, err
	}
	return loc.Timezone.In(nowUTC), nil
}

// FormatLocalTime is GetLocalTime rendered as RFC 3339.
func (s *Service) FormatLocalTime(id string, nowUTC time.Time) (string, error) {
	t, err := s.GetLocalTime(id, nowUTC)
	if err != nil {
		return "", err
	}
	return t.Format(time.RFC3339), nil
}

// GetTimeDifference returns offset(b) - offset(a) in minutes.
func (s *Service) GetTimeDifference(a, b string) (int, error) {
	la, err := s.lookup(a)
	if err != nil {
		return 0, err
	}
	lb, err := s.lookup(b)
	if err != nil {
		return 0, err
	}
	return lb.Timezone.Minutes() - la.Timezone.Minutes(), nil
}

// Distance returns the great-circle distance between two locations in km.
func (s *Service) Distance(a, b string) (float64, error) {
	la, err := s.lookup(a)
	if err != nil {
		return 0, err
	}
	lb, err := s.lookup(b)
	if err != nil {
		return 0, err
	}
	return la.DistanceTo(lb), nil
}

// Find is a pass-through to the graph's regional query.
func (s *Service) Find(f world.Filter) []*model.Location {
	return s.graph.FindBy(f)
}

// Within lists locations matching f within radiusKm of c, nearest first.
func (s *Service) Within(c geo.Coordinate, radiusKm float64, f world.Filter) []world.Hit {
	return s.graph.Within(c, radiusKm, f)
}

// Nearest returns the location matching f closest to c. Ties keep dataset order.
func (s *Service) Nearest(c geo.Coordinate, f world.Filter) (*model.Location, float64, bool) {
	var (
		best     *model.Location
		bestDist = math.Inf(1)
	)
	for _, loc := range s.graph.FindBy(f) {
		if d := c.Distance(loc.Coordinate); d < bestDist {
			best, bestDist = loc, d
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestDist, true
}
