package asmgraph

// Vertex is one end of a surviving sequence.
type Vertex struct {
	ID    int // 2*Seq for the start, 2*Seq+1 for the end
	Seq   int // compacted sequence index
	Start bool
	Edges []int // indexes into AssemblyGraph.Edges
}

// Edge is an overlap between ends of two different sequences.
type Edge struct {
	V1, V2  int
	Overlap int
	Rate    float64
}

// Other returns the vertex at the opposite end of e from v.
func (e Edge) Other(v int) int {
	if e.V1 == v {
		return e.V2
	}
	return e.V1
}

// AssemblyGraph is the compacted graph consumed by layout. Sequence i of the
// graph is Seqs[i], read SeqIDs[i] of the input; embedded reads own no
// vertices and are listed under their container in Embedded.
type AssemblyGraph struct {
	Reads    [][]byte // every input sequence, indexed by original id
	Seqs     [][]byte
	SeqIDs   []int
	Vertices []Vertex
	Edges    []Edge
	Embedded [][]Embedding
}

// CompactIDs maps every original id to its index once the embedded ids are
// removed. An embedded id gets the index of the next surviving id.
func CompactIDs(embedded []bool) []int {
	idMap := make([]int, len(embedded))
	var sum int
	for i, emb := range embedded {
		idMap[i] = sum
		if !emb {
			sum++
		}
	}
	return idMap
}

func newAssemblyGraph(reads [][]byte, embedded []bool) (*AssemblyGraph, []int) {
	idMap := CompactIDs(embedded)
	g := &AssemblyGraph{Reads: reads}
	for i, s := range reads {
		if embedded[i] {
			continue
		}
		c := len(g.Seqs)
		g.Seqs = append(g.Seqs, s)
		g.SeqIDs = append(g.SeqIDs, i)
		g.Vertices = append(g.Vertices,
			Vertex{ID: StartVertex(c), Seq: c, Start: true},
			Vertex{ID: EndVertex(c), Seq: c})
	}
	g.Embedded = make([][]Embedding, len(g.Seqs))
	return g, idMap
}

func (g *AssemblyGraph) NumSeqs() int { return len(g.Seqs) }

// Vertex returns the start or end vertex of compacted sequence seq.
func (g *AssemblyGraph) Vertex(seq int, start bool) *Vertex {
	if start {
		return &g.Vertices[StartVertex(seq)]
	}
	return &g.Vertices[EndVertex(seq)]
}

func (g *AssemblyGraph) addEdge(v1, v2, overlap int, rate float64) {
	idx := len(g.Edges)
	g.Edges = append(g.Edges, Edge{V1: v1, V2: v2, Overlap: overlap, Rate: rate})
	g.Vertices[v1].Edges = append(g.Vertices[v1].Edges, idx)
	g.Vertices[v2].Edges = append(g.Vertices[v2].Edges, idx)
}

// addEmbedding attaches e to compacted sequence parent and flags it when it
// does not fit inside the parent.
func (g *AssemblyGraph) addEmbedding(parent int, e Embedding) bool {
	e.OutOfBounds = e.Pos < 0 || e.Pos+len(g.Reads[e.SeqID]) > len(g.Seqs[parent])
	g.Embedded[parent] = append(g.Embedded[parent], e)
	return e.OutOfBounds
}

// EmbeddedSeq returns the bases of an embedded read, as stored in the input.
func (g *AssemblyGraph) EmbeddedSeq(e Embedding) []byte {
	return g.Reads[e.SeqID]
}

// NumEmbedded counts the embeddings attached to surviving sequences.
func (g *AssemblyGraph) NumEmbedded() (n int) {
	for _, l := range g.Embedded {
		n += len(l)
	}
	return
}
