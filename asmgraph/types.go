// Package asmgraph holds the assembly graph handed to the layout step and the
// compact, mergeable form used to checkpoint overlap finding.
//
// Every sequence owns two vertices. With the doubled id convention vertex
// 2*i is the start of sequence i and 2*i+1 its end.
package asmgraph

import "errors"

var (
	ErrSeqID            = errors.New("sequence id out of range")
	ErrSelfEdge         = errors.New("edge joins two ends of the same sequence")
	ErrOverlapLength    = errors.New("overlap length out of range")
	ErrSnapshotVersion  = errors.New("incompatible snapshot version")
	ErrSnapshotCorrupt  = errors.New("corrupt snapshot")
	ErrSequenceMismatch = errors.New("graphs are built over different sequences")
)

// Embedding records that sequence SeqID lies inside sequence Parent, starting
// at Pos on the parent's forward strand, reverse complemented when Reversed.
type Embedding struct {
	SeqID    int
	Parent   int
	Pos      int
	Reversed bool
	Rate     float64
	// OutOfBounds is set at build time when Pos+len(SeqID) exceeds the parent.
	OutOfBounds bool
}

// Overlap is a directed overlap found by a reference scan: the end of From
// (or its start when FromReversed) abuts To.
type Overlap struct {
	From         int
	FromReversed bool
	To           int
	ToReversed   bool
	Length       int
	Rate         float64
}

// Vertices returns the doubled vertex ids joined by the overlap.
func (o Overlap) Vertices() (from, to int) {
	from = EndVertex(o.From)
	if o.FromReversed {
		from = StartVertex(o.From)
	}
	to = StartVertex(o.To)
	if o.ToReversed {
		to = EndVertex(o.To)
	}
	return
}

func StartVertex(seqID int) int { return seqID << 1 }

func EndVertex(seqID int) int { return seqID<<1 | 1 }

// VertexSeq returns the sequence owning the doubled vertex id v.
func VertexSeq(v int) int { return v >> 1 }

func IsStart(v int) bool { return v&1 == 0 }

// BuildReport summarises a build. Nothing in it aborts the build.
type BuildReport struct {
	Seqs            int // surviving sequences
	Embedded        int
	Edges           int
	DroppedOverlaps int // an end was embedded
	InvalidOverlaps int // self overlaps and lengths outside (0, min length]
	DupEmbeddings   int // later embeddings of an already embedded sequence
	Reparented      int // embeddings moved from an embedded parent to its container
	Orphaned        int // embedded sequences left without a surviving container
	OutOfBounds     int
}
