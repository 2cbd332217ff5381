package depgraph

// MaxCycles caps the witness paths kept in a Report. Cycles beyond it are
// only counted in Report.Omitted.
const MaxCycles = 10

type frame struct {
	node int
	next int
}

// DetectCycles runs an iterative three-colour depth-first search from every
// node in batch order. A back edge to an in-progress node closes a cycle;
// the path on the frame stack from that node is the witness. A witness is
// kept only when none of its nodes lies on an earlier witness, so a densely
// connected region yields one path rather than one per back edge.
func (g *Graph) DetectCycles() Report {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(g.keys))
	circular := make([]bool, len(g.keys))
	onCycle := make([]bool, len(g.keys))
	var r Report

	for root := range g.keys {
		if color[root] != white {
			continue
		}
		color[root] = gray
		stack := []frame{{node: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			u := top.node
			if top.next == len(g.edges[u]) {
				color[u] = black
				stack = stack[:len(stack)-1]
				if len(stack) > 0 {
					p := stack[len(stack)-1].node
					circular[p] = circular[p] || circular[u]
				}
				continue
			}
			v := g.edges[u][top.next]
			top.next++

			switch color[v] {
			case white:
				color[v] = gray
				stack = append(stack, frame{node: v})
			case gray:
				circular[u] = true
				g.record(&r, stack, v, onCycle)
			case black:
				circular[u] = circular[u] || circular[v]
			}
		}
	}
	r.Circular = circular
	return r
}

// record adds the cycle closed by a back edge to start, unless it touches a
// node already on a kept witness.
func (g *Graph) record(r *Report, stack []frame, start int, onCycle []bool) {
	if onCycle[start] {
		return
	}
	from := len(stack) - 1
	for from > 0 && stack[from].node != start {
		from--
	}
	for _, f := range stack[from:] {
		if onCycle[f.node] {
			return
		}
	}
	for _, f := range stack[from:] {
		onCycle[f.node] = true
	}
	if len(r.Cycles) >= MaxCycles {
		r.Omitted++
		return
	}
	path := make([]string, 0, len(stack)-from+1)
	for _, f := range stack[from:] {
		path = append(path, g.keys[f.node])
	}
	r.Cycles = append(r.Cycles, append(path, g.keys[start]))
}
