package asmgraph

import (
	"fmt"
	"sort"
)

// compose places e, whose parent is the sequence outer describes, directly
// into outer.Parent. parentLen is the length of e's current parent.
func compose(e, outer Embedding, parentLen, seqLen int) Embedding {
	ne := e
	ne.Parent = outer.Parent
	if outer.Reversed {
		ne.Pos = outer.Pos + parentLen - e.Pos - seqLen
		ne.Reversed = !e.Reversed
	} else {
		ne.Pos = outer.Pos + e.Pos
	}
	return ne
}

// resolveEmbeddings keeps the first embedding given for every sequence and
// moves children of embedded parents onto the surviving container. The
// returned slice is ordered by SeqID; embedded marks every sequence that
// must not own vertices, orphans included.
func resolveEmbeddings(reads [][]byte, embs []Embedding, report *BuildReport) (resolved []Embedding, embedded []bool, err error) {
	n := len(reads)
	byChild := make([]int, n)
	for i := range byChild {
		byChild[i] = -1
	}
	embedded = make([]bool, n)
	for i, e := range embs {
		if e.SeqID < 0 || e.SeqID >= n || e.Parent < 0 || e.Parent >= n {
			return nil, nil, fmt.Errorf("[resolveEmbeddings] embedding %d in %d: %w", e.SeqID, e.Parent, ErrSeqID)
		}
		if e.SeqID == e.Parent {
			return nil, nil, fmt.Errorf("[resolveEmbeddings] sequence %d embedded in itself: %w", e.SeqID, ErrSelfEdge)
		}
		if byChild[e.SeqID] >= 0 {
			report.DupEmbeddings++
			continue
		}
		byChild[e.SeqID] = i
		embedded[e.SeqID] = true
	}

	for child := 0; child < n; child++ {
		if byChild[child] < 0 {
			continue
		}
		e := embs[byChild[child]]
		moved := false
		for steps := 0; embedded[e.Parent]; steps++ {
			if steps >= n {
				// the parents form a cycle, no container survives
				e.Parent = -1
				break
			}
			outer := embs[byChild[e.Parent]]
			e = compose(e, outer, len(reads[e.Parent]), len(reads[child]))
			moved = true
		}
		if e.Parent < 0 {
			report.Orphaned++
			continue
		}
		if moved {
			report.Reparented++
		}
		resolved = append(resolved, e)
	}
	return resolved, embedded, nil
}

// attachEmbeddings adds the resolved embeddings to g under their compacted parents.
func (g *AssemblyGraph) attachEmbeddings(resolved []Embedding, idMap []int, report *BuildReport) {
	for _, e := range resolved {
		if g.addEmbedding(idMap[e.Parent], e) {
			report.OutOfBounds++
		}
	}
}

// Build compacts reads around the embedded ones and turns every overlap
// between two surviving reads into an edge. Overlaps touching an embedded
// read are dropped. Repeated overlaps between the same ends become parallel
// edges.
func Build(reads [][]byte, embs []Embedding, overlaps []Overlap) (*AssemblyGraph, BuildReport, error) {
	var report BuildReport
	resolved, embedded, err := resolveEmbeddings(reads, embs, &report)
	if err != nil {
		return nil, report, err
	}
	g, idMap := newAssemblyGraph(reads, embedded)
	g.attachEmbeddings(resolved, idMap, &report)

	n := len(reads)
	for _, o := range overlaps {
		if o.From < 0 || o.From >= n || o.To < 0 || o.To >= n {
			return nil, report, fmt.Errorf("[Build] overlap %d -> %d: %w", o.From, o.To, ErrSeqID)
		}
		if embedded[o.From] || embedded[o.To] {
			report.DroppedOverlaps++
			continue
		}
		if o.From == o.To || o.Length <= 0 || o.Length > len(reads[o.From]) || o.Length > len(reads[o.To]) {
			report.InvalidOverlaps++
			continue
		}
		from, to := o.Vertices()
		g.addEdge(remapVertex(from, idMap), remapVertex(to, idMap), o.Length, o.Rate)
	}
	fillReport(g, &report)
	return g, report, nil
}

// remapVertex moves a doubled vertex id into the compacted id space.
func remapVertex(v int, idMap []int) int {
	if IsStart(v) {
		return StartVertex(idMap[VertexSeq(v)])
	}
	return EndVertex(idMap[VertexSeq(v)])
}

func fillReport(g *AssemblyGraph, report *BuildReport) {
	report.Seqs = len(g.Seqs)
	report.Embedded = len(g.Reads) - len(g.Seqs)
	report.Edges = len(g.Edges)
}

// SortEmbeddings orders every per-sequence embedding list by position.
func (g *AssemblyGraph) SortEmbeddings() {
	for _, l := range g.Embedded {
		sort.SliceStable(l, func(i, j int) bool { return l[i].Pos < l[j].Pos })
	}
}
