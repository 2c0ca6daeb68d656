package causal

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/aalvaropc/inferix/internal/domain"
)

// dag wraps a gonum directed graph with name<->id bookkeeping. Variable
// names are the task's column names; gonum only knows int64 ids.
type dag struct {
	g     *simple.DirectedGraph
	ids   map[string]int64
	names map[int64]string
}

func buildDAG(spec domain.GraphSpec) (*dag, error) {
	if len(spec) == 0 {
		return nil, &domain.OpError{
			Op:   "causal.build",
			Kind: domain.KindInvalidGraph,
			Err:  fmt.Errorf("graph has no edges"),
		}
	}

	d := &dag{
		g:     simple.NewDirectedGraph(),
		ids:   map[string]int64{},
		names: map[int64]string{},
	}

	for _, e := range spec {
		if e.From == "" || e.To == "" {
			return nil, &domain.OpError{
				Op:   "causal.build",
				Kind: domain.KindInvalidGraph,
				Err:  fmt.Errorf("edge with empty endpoint: %q -> %q", e.From, e.To),
			}
		}
		if e.From == e.To {
			return nil, &domain.OpError{
				Op:   "causal.build",
				Kind: domain.KindInvalidGraph,
				Err:  fmt.Errorf("self-loop on %q", e.From),
			}
		}

		from := d.node(e.From)
		to := d.node(e.To)
		if d.g.HasEdgeFromTo(from.ID(), to.ID()) {
			continue
		}
		d.g.SetEdge(d.g.NewEdge(from, to))
	}

	if _, err := topo.Sort(d.g); err != nil {
		return nil, &domain.OpError{
			Op:   "causal.build",
			Kind: domain.KindInvalidGraph,
			Err:  fmt.Errorf("graph contains a cycle: %v", err),
		}
	}

	return d, nil
}

func (d *dag) node(name string) graph.Node {
	if id, ok := d.ids[name]; ok {
		return d.g.Node(id)
	}
	n := d.g.NewNode()
	d.g.AddNode(n)
	d.ids[name] = n.ID()
	d.names[n.ID()] = name
	return n
}

func (d *dag) has(name string) bool {
	_, ok := d.ids[name]
	return ok
}

// parents returns the names of the direct causes of name, sorted for
// stable estimand output.
func (d *dag) parents(name string) []string {
	id, ok := d.ids[name]
	if !ok {
		return nil
	}

	var out []string
	it := d.g.To(id)
	for it.Next() {
		out = append(out, d.names[it.Node().ID()])
	}
	sort.Strings(out)
	return out
}

// hasDirectedPath reports whether to is reachable from from.
func (d *dag) hasDirectedPath(from, to string) bool {
	fromID, ok := d.ids[from]
	if !ok {
		return false
	}
	toID, ok := d.ids[to]
	if !ok {
		return false
	}

	bf := traverse.BreadthFirst{}
	found := bf.Walk(d.g, d.g.Node(fromID), func(n graph.Node, _ int) bool {
		return n.ID() == toID
	})
	return found != nil
}
