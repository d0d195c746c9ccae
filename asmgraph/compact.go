package asmgraph

import (
	"fmt"
)

// Arc is one direction of a CompactGraph edge.
type Arc struct {
	To      int // doubled vertex id
	Overlap int
	Rate    float64
}

// CompactGraph accumulates edges and embeddings keyed by doubled vertex ids,
// possibly from several independent overlap passes over the same reads, and
// is built once into an AssemblyGraph.
type CompactGraph struct {
	seqs       [][]byte
	names      []string
	arcs       [][]Arc       // by doubled vertex id
	embeds     [][]Embedding // by parent sequence id, insertion order
	embeddedIn []int         // first parent seen for every sequence, -1 if none
	numEmb     int
}

// NewCompactGraph starts an empty graph over seqs. The sequences are
// referenced, not copied.
func NewCompactGraph(seqs [][]byte) *CompactGraph {
	cg := &CompactGraph{
		seqs:       seqs,
		arcs:       make([][]Arc, len(seqs)*2),
		embeds:     make([][]Embedding, len(seqs)),
		embeddedIn: make([]int, len(seqs)),
	}
	for i := range cg.embeddedIn {
		cg.embeddedIn[i] = -1
	}
	return cg
}

// SetNames attaches read names, kept in snapshots for the exporters.
func (cg *CompactGraph) SetNames(names []string) error {
	if names != nil && len(names) != len(cg.seqs) {
		return fmt.Errorf("[SetNames] %d names for %d sequences: %w", len(names), len(cg.seqs), ErrSequenceMismatch)
	}
	cg.names = names
	return nil
}

func (cg *CompactGraph) Names() []string { return cg.names }

func (cg *CompactGraph) Seqs() [][]byte { return cg.seqs }

func (cg *CompactGraph) NumSeqs() int { return len(cg.seqs) }

func (cg *CompactGraph) IsEmbedded(id int) bool {
	return cg.embeddedIn[id] >= 0
}

// NumEmbedded returns the number of sequences known to be embedded.
func (cg *CompactGraph) NumEmbedded() int { return cg.numEmb }

// NumEdges counts undirected edges.
func (cg *CompactGraph) NumEdges() (n int) {
	for v, l := range cg.arcs {
		for _, a := range l {
			if v < a.To {
				n++
			}
		}
	}
	return
}

func (cg *CompactGraph) checkVertex(v int) error {
	if v < 0 || v >= len(cg.arcs) {
		return fmt.Errorf("vertex %d: %w", v, ErrSeqID)
	}
	return nil
}

func setArc(l []Arc, a Arc) []Arc {
	for i := range l {
		if l[i].To == a.To {
			l[i] = a
			return l
		}
	}
	return append(l, a)
}

// AddEdge stores an edge between doubled vertex ids v1 and v2 in both
// directions. A later edge between the same vertices replaces the earlier one.
func (cg *CompactGraph) AddEdge(v1, v2, overlap int, rate float64) error {
	if err := cg.checkVertex(v1); err != nil {
		return fmt.Errorf("[AddEdge] %w", err)
	}
	if err := cg.checkVertex(v2); err != nil {
		return fmt.Errorf("[AddEdge] %w", err)
	}
	if VertexSeq(v1) == VertexSeq(v2) {
		return fmt.Errorf("[AddEdge] %d - %d: %w", v1, v2, ErrSelfEdge)
	}
	if overlap <= 0 {
		return fmt.Errorf("[AddEdge] %d - %d overlap %d: %w", v1, v2, overlap, ErrOverlapLength)
	}
	cg.arcs[v1] = setArc(cg.arcs[v1], Arc{To: v2, Overlap: overlap, Rate: rate})
	cg.arcs[v2] = setArc(cg.arcs[v2], Arc{To: v1, Overlap: overlap, Rate: rate})
	return nil
}

// AddOverlap stores o as an edge between the vertices it joins.
func (cg *CompactGraph) AddOverlap(o Overlap) error {
	from, to := o.Vertices()
	return cg.AddEdge(from, to, o.Length, o.Rate)
}

// Edge returns the edge stored between v1 and v2.
func (cg *CompactGraph) Edge(v1, v2 int) (Arc, bool) {
	if cg.checkVertex(v1) != nil {
		return Arc{}, false
	}
	for _, a := range cg.arcs[v1] {
		if a.To == v2 {
			return a, true
		}
	}
	return Arc{}, false
}

// Arcs returns the arcs leaving doubled vertex v.
func (cg *CompactGraph) Arcs(v int) []Arc { return cg.arcs[v] }

// AddEmbedding stores e under its parent and marks e.SeqID embedded. The
// first parent seen for a sequence is the one kept at build time.
func (cg *CompactGraph) AddEmbedding(e Embedding) error {
	n := len(cg.seqs)
	if e.SeqID < 0 || e.SeqID >= n || e.Parent < 0 || e.Parent >= n {
		return fmt.Errorf("[AddEmbedding] %d in %d: %w", e.SeqID, e.Parent, ErrSeqID)
	}
	if e.SeqID == e.Parent {
		return fmt.Errorf("[AddEmbedding] %d in itself: %w", e.SeqID, ErrSelfEdge)
	}
	e.OutOfBounds = false
	cg.embeds[e.Parent] = putEmbedding(cg.embeds[e.Parent], e)
	if cg.embeddedIn[e.SeqID] < 0 {
		cg.embeddedIn[e.SeqID] = e.Parent
		cg.numEmb++
	}
	return nil
}

func putEmbedding(l []Embedding, e Embedding) []Embedding {
	for i := range l {
		if l[i].SeqID == e.SeqID {
			l[i] = e
			return l
		}
	}
	return append(l, e)
}

// Embeddings returns the embeddings stored under parent.
func (cg *CompactGraph) Embeddings(parent int) []Embedding { return cg.embeds[parent] }

// firstEmbedding returns the embedding of id under its first-seen parent.
func (cg *CompactGraph) firstEmbedding(id int) (Embedding, bool) {
	p := cg.embeddedIn[id]
	if p < 0 {
		return Embedding{}, false
	}
	for _, e := range cg.embeds[p] {
		if e.SeqID == id {
			return e, true
		}
	}
	return Embedding{}, false
}

// firstEmbeddings lists one embedding per embedded sequence, by SeqID.
func (cg *CompactGraph) firstEmbeddings() []Embedding {
	var embs []Embedding
	for id := range cg.seqs {
		if e, ok := cg.firstEmbedding(id); ok {
			embs = append(embs, e)
		}
	}
	return embs
}

// RemoveEmbedded drops every arc touching an embedded sequence. Embeddings
// stored under an embedded parent move to the parent's surviving container;
// those that cannot be placed are dropped, their sequences stay embedded.
func (cg *CompactGraph) RemoveEmbedded() error {
	for v := range cg.arcs {
		if cg.IsEmbedded(VertexSeq(v)) {
			cg.arcs[v] = nil
			continue
		}
		l := cg.arcs[v][:0]
		for _, a := range cg.arcs[v] {
			if !cg.IsEmbedded(VertexSeq(a.To)) {
				l = append(l, a)
			}
		}
		if len(l) == 0 {
			l = nil
		}
		cg.arcs[v] = l
	}

	var report BuildReport
	resolved, _, err := resolveEmbeddings(cg.seqs, cg.firstEmbeddings(), &report)
	if err != nil {
		return fmt.Errorf("[RemoveEmbedded] %w", err)
	}
	moved := make(map[int]Embedding, report.Reparented)
	for _, e := range resolved {
		if e.Parent != cg.embeddedIn[e.SeqID] {
			moved[e.SeqID] = e
		}
	}
	for p := range cg.embeds {
		if cg.IsEmbedded(p) {
			cg.embeds[p] = nil
		}
	}
	for id := range cg.seqs {
		if e, ok := moved[id]; ok {
			cg.embeds[e.Parent] = putEmbedding(cg.embeds[e.Parent], e)
			cg.embeddedIn[id] = e.Parent
		}
	}
	return nil
}

// RemoveDuplicateEmbeddings keeps, for every embedded sequence, only the
// embedding under its first-seen parent.
func (cg *CompactGraph) RemoveDuplicateEmbeddings() {
	for p, l := range cg.embeds {
		nl := l[:0]
		for _, e := range l {
			if cg.embeddedIn[e.SeqID] == p {
				nl = append(nl, e)
			}
		}
		if len(nl) == 0 {
			nl = nil
		}
		cg.embeds[p] = nl
	}
}

// Merge adds the edges and embeddings of other, which must be built over the
// same sequences. Edges of other replace edges of cg between the same
// vertices; embeddings already known to cg keep their first parent.
func (cg *CompactGraph) Merge(other *CompactGraph) error {
	if len(other.seqs) != len(cg.seqs) {
		return fmt.Errorf("[Merge] %d vs %d sequences: %w", len(cg.seqs), len(other.seqs), ErrSequenceMismatch)
	}
	for i := range cg.seqs {
		if len(cg.seqs[i]) != len(other.seqs[i]) {
			return fmt.Errorf("[Merge] sequence %d length %d vs %d: %w", i, len(cg.seqs[i]), len(other.seqs[i]), ErrSequenceMismatch)
		}
	}
	if cg.names == nil {
		cg.names = other.names
	}
	for v, l := range other.arcs {
		for _, a := range l {
			if v < a.To {
				if err := cg.AddEdge(v, a.To, a.Overlap, a.Rate); err != nil {
					return fmt.Errorf("[Merge] %w", err)
				}
			}
		}
	}
	// first-seen parents of other go in before its remaining embeddings
	for _, e := range other.firstEmbeddings() {
		if err := cg.AddEmbedding(e); err != nil {
			return fmt.Errorf("[Merge] %w", err)
		}
	}
	for _, l := range other.embeds {
		for _, e := range l {
			if err := cg.AddEmbedding(e); err != nil {
				return fmt.Errorf("[Merge] %w", err)
			}
		}
	}
	return nil
}

// Build compacts the graph into an AssemblyGraph. Build does not modify cg
// and gives the same graph every time it is called on the same content.
func (cg *CompactGraph) Build() (*AssemblyGraph, BuildReport, error) {
	var report BuildReport
	resolved, embedded, err := resolveEmbeddings(cg.seqs, cg.firstEmbeddings(), &report)
	if err != nil {
		return nil, report, err
	}
	for id := range embedded {
		if cg.IsEmbedded(id) && !embedded[id] {
			// its embedding was dropped by RemoveEmbedded
			embedded[id] = true
			report.Orphaned++
		}
	}
	g, idMap := newAssemblyGraph(cg.seqs, embedded)
	g.attachEmbeddings(resolved, idMap, &report)
	for v, l := range cg.arcs {
		for _, a := range l {
			if v > a.To {
				continue
			}
			if embedded[VertexSeq(v)] || embedded[VertexSeq(a.To)] {
				report.DroppedOverlaps++
				continue
			}
			g.addEdge(remapVertex(v, idMap), remapVertex(a.To, idMap), a.Overlap, a.Rate)
		}
	}
	fillReport(g, &report)
	return g, report, nil
}
