// Package linebreak turns a horizontal list into a sequence of
// fixed-width line boxes, choosing breakpoints that minimize total
// demerits the way the classical paragraph breaker does.
//
// Grounded on original_source/src/line_breaking.rs: the breakpoint DAG
// and topological relaxation are reshaped onto gonum's graph/simple and
// graph/topo packages instead of the hand-rolled adjacency maps the
// original builds, since the node ordering the original already
// maintains (Start, breaks in list order, End) is exactly a topological
// order and gonum's Sort gives that for free over an explicit graph.
package linebreak

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/go-typeset/typeset/box"
	"github.com/go-typeset/typeset/dimen"
)

// ErrNoFeasibleBreak is returned when no path from Start to End exists,
// e.g. an empty list.
var ErrNoFeasibleBreak = errors.New("linebreak: no feasible breakpoint sequence")

// Params configures the breaker.
type Params struct {
	HSize dimen.Dimen
}

// breakPoint is one DAG node: the paragraph start, the paragraph end, or
// a break at a particular HSkip index in the source list.
type breakPoint struct {
	isStart bool
	isEnd   bool
	index   int
}

func startPoint() breakPoint        { return breakPoint{isStart: true} }
func endPoint() breakPoint          { return breakPoint{isEnd: true} }
func atIndex(i int) breakPoint      { return breakPoint{index: i} }
func (b breakPoint) String() string {
	switch {
	case b.isStart:
		return "Start"
	case b.isEnd:
		return "End"
	default:
		return fmt.Sprintf("Break(%d)", b.index)
	}
}

// listIndicesForBreak computes the half-open [start, end) slice of list
// a line runs over between two break points, skipping leading
// discardable (glue) elements the way the classical breaker does.
func listIndicesForBreak(list []box.HElem, from, to breakPoint) (int, int, bool) {
	var start int
	switch {
	case from.isStart:
		start = 0
	case from.isEnd:
		return 0, 0, false
	default:
		start = from.index
		for start < len(list) && list[start].IsDiscardable() {
			start++
		}
	}

	var end int
	switch {
	case to.isEnd:
		end = len(list)
	case to.isStart:
		return 0, 0, false
	default:
		end = to.index
	}

	return start, end, true
}

// availableBreakIndices returns the index of every HSkip element, the
// only legal breakpoint kind in this engine.
func availableBreakIndices(list []box.HElem) []int {
	var indices []int
	for i, elem := range list {
		if elem.Kind == box.HSkip {
			indices = append(indices, i)
		}
	}
	return indices
}

func demeritsForLine(list []box.HElem, hsize dimen.Dimen, from, to breakPoint) (uint64, bool, error) {
	start, end, ok := listIndicesForBreak(list, from, to)
	if !ok || start > end {
		return 0, false, nil
	}

	var width dimen.Glue
	for _, elem := range list[start:end] {
		_, _, w := elem.Size()
		width = width.Add(w)
	}

	result := dimen.SetGlueForDimen(hsize, width)
	badness := result.Badness()

	const linePenalty = 10
	total := uint64(linePenalty+badness) * uint64(linePenalty+badness)
	return total, true, nil
}

// buildGraph constructs the breakpoint DAG: Start, one node per
// available break index (in list order), and End, with an edge from
// every node to every node reachable by a later or terminal position.
// Because break indices are already in increasing list order, node IDs
// assigned in this construction order are already a topological order.
func buildGraph(breakIndices []int) (*simple.DirectedGraph, []breakPoint) {
	g := simple.NewDirectedGraph()

	nodes := make([]breakPoint, 0, len(breakIndices)+2)
	nodes = append(nodes, startPoint())
	for _, idx := range breakIndices {
		nodes = append(nodes, atIndex(idx))
	}
	nodes = append(nodes, endPoint())

	for id := range nodes {
		g.AddNode(simple.Node(int64(id)))
	}

	endID := int64(len(nodes) - 1)
	g.SetEdge(simple.Edge{F: simple.Node(0), T: simple.Node(endID)})

	for ii, startIdx := range breakIndices {
		i := int64(ii + 1)
		g.SetEdge(simple.Edge{F: simple.Node(0), T: simple.Node(i)})
		g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(endID)})

		for jj, endIdx := range breakIndices {
			j := int64(jj + 1)
			if startIdx < endIdx {
				g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			}
		}
	}

	return g, nodes
}

type backtrace struct {
	hasPrev bool
	prev    int64
	total   uint64
}

// Break runs the breaker over list, returning a line box per chosen
// break segment, each packed with Fixed(params.HSize) layout.
func Break(list []box.HElem, params Params) ([]*box.HBox, error) {
	breakIndices := availableBreakIndices(list)
	g, nodes := buildGraph(breakIndices)

	order, err := topo.Sort(g)
	if err != nil {
		return nil, fmt.Errorf("linebreak: breakpoint graph is not a DAG: %w", err)
	}

	best := make(map[int64]*backtrace, len(nodes))
	best[0] = &backtrace{total: 0}

	for _, n := range order {
		id := n.ID()
		fromTrace, ok := best[id]
		if !ok {
			continue
		}

		to := g.From(id)
		for to.Next() {
			toID := to.Node().ID()
			demerits, feasible, err := demeritsForLine(list, params.HSize, nodes[id], nodes[toID])
			if err != nil {
				return nil, err
			}
			if !feasible {
				continue
			}
			total := fromTrace.total + demerits
			if existing, ok := best[toID]; !ok || total < existing.total {
				best[toID] = &backtrace{hasPrev: true, prev: id, total: total}
			}
		}
	}

	endID := int64(len(nodes) - 1)
	endTrace, ok := best[endID]
	if !ok {
		return nil, ErrNoFeasibleBreak
	}

	var chain []int64
	cur := endID
	curTrace := endTrace
	for {
		chain = append(chain, cur)
		if !curTrace.hasPrev {
			break
		}
		cur = curTrace.prev
		curTrace = best[cur]
	}
	slices.Reverse(chain)

	lines := make([]*box.HBox, 0, len(chain)-1)
	for i := 0; i+1 < len(chain); i++ {
		start, end, ok := listIndicesForBreak(list, nodes[chain[i]], nodes[chain[i+1]])
		if !ok {
			return nil, fmt.Errorf("linebreak: internal inconsistency reconstructing line %d", i)
		}
		hbox, err := box.NewHBox(slices.Clone(list[start:end]), box.FixedLayout(params.HSize))
		if err != nil {
			return nil, fmt.Errorf("packing line %d: %w", i, err)
		}
		lines = append(lines, hbox)
	}
	return lines, nil
}
