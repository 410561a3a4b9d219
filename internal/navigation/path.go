package navigation

import (
	"fmt"

	"github.com/udisondev/atlas/internal/metrics"
	"github.com/udisondev/atlas/internal/model"
)

// EdgeFilter decides whether a connection may be traversed.
// Used by callers that evaluate Requires gates.
type EdgeFilter func(c model.Connection) bool

// FindPath returns a minimum-hop path from -> to, inclusive of both ends.
// A nil path with a nil error means the endpoints are disconnected.
// Unknown ids return an error wrapping ErrNotFound.
func (s *Service) FindPath(from, to string) ([]string, error) {
	return s.FindPathWith(from, to, nil)
}

// FindPathWith is FindPath restricted to connections accepted by allow.
// A nil allow accepts every connection.
func (s *Service) FindPathWith(from, to string, allow EdgeFilter) ([]string, error) {
	src, ok := s.index[from]
	if !ok {
		metrics.PathQueriesTotal.WithLabelValues("unknown").Inc()
		return nil, fmt.Errorf("%w: %q", ErrNotFound, from)
	}
	dst, ok := s.index[to]
	if !ok {
		metrics.PathQueriesTotal.WithLabelValues("unknown").Inc()
		return nil, fmt.Errorf("%w: %q", ErrNotFound, to)
	}

	path := s.bfs(src, dst, allow)
	if path == nil {
		metrics.PathQueriesTotal.WithLabelValues("none").Inc()
		return nil, nil
	}
	metrics.PathQueriesTotal.WithLabelValues("found").Inc()
	metrics.PathHops.Observe(float64(len(path) - 1))
	return path, nil
}

// bfs explores neighbours in adjacency order, so the first time dst is reached
// the path is minimal and ties resolve by declared connection order.
func (s *Service) bfs(src, dst int, allow EdgeFilter) []string {
	if src == dst {
		return []string{s.nodes[src].ID}
	}

	parent := make([]int, len(s.nodes))
	for i := range parent {
		parent[i] = -1
	}
	parent[src] = src

	queue := make([]int, 0, 32)
	queue = append(queue, src)
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, e := range s.adj[cur] {
			if parent[e.to] != -1 {
				continue
			}
			if allow != nil && !allow(*e.conn) {
				continue
			}
			parent[e.to] = cur
			if e.to == dst {
				return s.unwind(parent, src, dst)
			}
			queue = append(queue, e.to)
		}
	}
	return nil
}

func (s *Service) unwind(parent []int, src, dst int) []string {
	path := make([]string, 0, 8)
	for n := dst; ; n = parent[n] {
		path = append(path, s.nodes[n].ID)
		if n == src {
			break
		}
	}
	// Reverse (built backward from dst)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Reachable lists every location within maxHops of id (excluding id), in BFS
// order. maxHops < 0 means unbounded.
func (s *Service) Reachable(id string, maxHops int) ([]string, error) {
	src, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	depth := make([]int, len(s.nodes))
	for i := range depth {
		depth[i] = -1
	}
	depth[src] = 0

	var out []string
	queue := []int{src}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		if maxHops >= 0 && depth[cur] >= maxHops {
			continue
		}
		for _, e := range s.adj[cur] {
			if depth[e.to] != -1 {
				continue
			}
			depth[e.to] = depth[cur] + 1
			out = append(out, s.nodes[e.to].ID)
			queue = append(queue, e.to)
		}
	}
	return out, nil
}

// PathDistance sums great-circle distances along path in km.
// Unknown ids contribute nothing.
func (s *Service) PathDistance(path []string) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		a, okA := s.graph.Get(path[i-1])
		b, okB := s.graph.Get(path[i])
		if okA && okB {
			total += a.DistanceTo(b)
		}
	}
	return total
}

// Hop describes one step of a path for display.
type Hop struct {
	From       string
	To         string
	Connection model.Connection
	Reverse    bool    // travelled against the declared direction
	BearingDeg float64 // initial great-circle bearing From -> To
}

// Describe expands a path into hops with the connection used for each step.
func (s *Service) Describe(path []string) ([]Hop, error) {
	return s.DescribeWith(path, nil)
}

// DescribeWith is Describe for a path found with allow. Each hop uses the
// first connection allow accepts, preferring an ungated one.
func (s *Service) DescribeWith(path []string, allow EdgeFilter) ([]Hop, error) {
	hops := make([]Hop, 0, max(len(path)-1, 0))
	for i := 1; i < len(path); i++ {
		from, ok := s.index[path[i-1]]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, path[i-1])
		}
		to, ok := s.index[path[i]]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, path[i])
		}
		e, ok := s.pickEdge(from, to, allow)
		if !ok {
			return nil, fmt.Errorf("no connection %q -> %q", path[i-1], path[i])
		}
		conn := *e.conn
		if e.reverse {
			conn.Direction = conn.Direction.Opposite()
		}
		hops = append(hops, Hop{
			From:       path[i-1],
			To:         path[i],
			Connection: conn,
			Reverse:    e.reverse,
			BearingDeg: s.nodes[from].Coordinate.Bearing(s.nodes[to].Coordinate),
		})
	}
	return hops, nil
}

func (s *Service) pickEdge(from, to int, allow EdgeFilter) (edge, bool) {
	var (
		first edge
		found bool
	)
	for _, e := range s.adj[from] {
		if e.to != to || (allow != nil && !allow(*e.conn)) {
			continue
		}
		if !e.conn.Gated() {
			return e, true
		}
		if !found {
			first, found = e, true
		}
	}
	return first, found
}
