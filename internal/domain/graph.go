package domain

// Edge is a directed causal edge between two named variables.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GraphSpec is a directed causal graph given as an edge list.
type GraphSpec []Edge

// Nodes returns the distinct variable names referenced by the edge list,
// in first-appearance order.
func (g GraphSpec) Nodes() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range g {
		if !seen[e.From] {
			seen[e.From] = true
			out = append(out, e.From)
		}
		if !seen[e.To] {
			seen[e.To] = true
			out = append(out, e.To)
		}
	}
	return out
}

// HasNode reports whether name appears as an endpoint of any edge.
func (g GraphSpec) HasNode(name string) bool {
	for _, e := range g {
		if e.From == name || e.To == name {
			return true
		}
	}
	return false
}

// Pairs returns the edge list as [from, to] string pairs, the wire shape
// used by task payloads and result documents.
func (g GraphSpec) Pairs() [][]string {
	out := make([][]string, 0, len(g))
	for _, e := range g {
		out = append(out, []string{e.From, e.To})
	}
	return out
}
