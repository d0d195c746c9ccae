package overlap

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/mudesheng/oga/asmgraph"
	"github.com/mudesheng/oga/bnt"
	"github.com/mudesheng/oga/seedindex"
	"github.com/mudesheng/oga/utils"
)

func toSeqs(l ...string) [][]byte {
	seqs := make([][]byte, len(l))
	for i, s := range l {
		seqs[i] = []byte(s)
	}
	return seqs
}

func find(t *testing.T, seqs [][]byte, opt Options) *Result {
	t.Helper()
	idx, err := seedindex.NewKmerIndex(seqs, opt.SeedLen, 0)
	require.NoError(t, err)
	f, err := NewFinder(seqs, idx, opt)
	require.NoError(t, err)
	return f.FindOverlaps()
}

func TestFindOverlapsExample(t *testing.T) {
	res := find(t, toSeqs("AAAACCCC", "CCCCGTGA", "AACC"), testOptions())
	require.Equal(t, []asmgraph.Embedding{{SeqID: 2, Parent: 0, Pos: 2, Rate: 1}}, res.Embeddings)
	require.Equal(t, []asmgraph.Overlap{{From: 0, To: 1, Length: 4, Rate: 1}}, res.Overlaps)
	require.Equal(t, 3, res.Stats.Seqs)
	require.Equal(t, 2, res.Stats.Scanned)
	require.Equal(t, 1, res.Stats.SkippedEmbedded)
	require.Zero(t, res.Stats.InvalidHits)
	require.Equal(t, 1, res.Stats.Embeddings)
	require.Equal(t, 1, res.Stats.Overlaps)

	g, report, err := res.Build()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, g.SeqIDs)
	require.Equal(t, []asmgraph.Edge{{V1: 1, V2: 2, Overlap: 4, Rate: 1}}, g.Edges)
	require.Equal(t, [][]asmgraph.Embedding{{{SeqID: 2, Parent: 0, Pos: 2, Rate: 1}}, nil}, g.Embedded)
	require.Equal(t, 1, report.Edges)
	require.Equal(t, 1, report.Embedded)
}

// CCCCGGGG is its own reverse complement, so the reverse strand of the
// first read overlaps the end of the second one as well.
func TestFindOverlapsPalindromicPartner(t *testing.T) {
	res := find(t, toSeqs("AAAACCCC", "CCCCGGGG", "AACC"), testOptions())
	require.Equal(t, []asmgraph.Embedding{{SeqID: 2, Parent: 0, Pos: 2, Rate: 1}}, res.Embeddings)
	require.Equal(t, []asmgraph.Overlap{
		{From: 0, To: 1, Length: 4, Rate: 1},
		{From: 1, To: 0, ToReversed: true, Length: 4, Rate: 1},
	}, res.Overlaps)

	g, _, err := res.Build()
	require.NoError(t, err)
	require.Equal(t, 2, g.NumSeqs())
	require.Len(t, g.Edges, 2)
	require.Equal(t, asmgraph.Edge{V1: 1, V2: 2, Overlap: 4, Rate: 1}, g.Edges[0])
	require.Equal(t, asmgraph.Edge{V1: 3, V2: 1, Overlap: 4, Rate: 1}, g.Edges[1])
	require.Equal(t, 1, g.NumEmbedded())
	require.Equal(t, 2, g.Embedded[0][0].Pos)
}

func TestFindOverlapsIdentical(t *testing.T) {
	res := find(t, toSeqs("ACGTTGCAAC", "ACGTTGCAAC"), testOptions())
	require.Len(t, res.Embeddings, 1)
	e := res.Embeddings[0]
	require.Equal(t, 1, e.SeqID)
	require.Equal(t, 0, e.Parent)
	require.Equal(t, 0, e.Pos)
	require.False(t, e.Reversed)
	require.InDelta(t, 2.8, e.Rate, 1e-9)
	require.Empty(t, res.Overlaps)
	require.Equal(t, 1, res.Stats.SkippedEmbedded)
}

func TestFindOverlapsReferenceInPartner(t *testing.T) {
	res := find(t, toSeqs("TTGCAT", "GGGTTGCATCCC"), testOptions())
	require.Equal(t, []asmgraph.Embedding{{SeqID: 0, Parent: 1, Pos: 3, Rate: 2}}, res.Embeddings)
	require.Empty(t, res.Overlaps)

	g, report, err := res.Build()
	require.NoError(t, err)
	require.Equal(t, []int{1}, g.SeqIDs)
	require.Equal(t, 3, g.Embedded[0][0].Pos)
	require.Zero(t, report.OutOfBounds)
}

func TestFindOverlapsDisjoint(t *testing.T) {
	res := find(t, toSeqs("AAAAAAAA", "CCCCCCCC"), testOptions())
	require.Empty(t, res.Embeddings)
	require.Empty(t, res.Overlaps)
	require.Equal(t, 2, res.Stats.Scanned)
	require.NotZero(t, res.Stats.Hits)

	g, _, err := res.Build()
	require.NoError(t, err)
	require.Equal(t, 2, g.NumSeqs())
	require.Empty(t, g.Edges)
}

func TestFindOverlapsEmpty(t *testing.T) {
	res := find(t, nil, testOptions())
	require.Empty(t, res.Embeddings)
	require.Empty(t, res.Overlaps)
	g, _, err := res.Build()
	require.NoError(t, err)
	require.Zero(t, g.NumSeqs())

	res = find(t, toSeqs("ACGTACGT"), testOptions())
	require.Empty(t, res.Overlaps)
	require.Equal(t, 1, res.Stats.Scanned)
}

type badIndex struct{}

func (badIndex) Search(kmer []byte) []seedindex.Hit {
	return []seedindex.Hit{{SeqID: 99}, {SeqID: -1}, {SeqID: 1, Pos: 100}}
}

func TestFindOverlapsInvalidHits(t *testing.T) {
	opt := testOptions()
	opt.SeedStep = 4
	f, err := NewFinder(toSeqs("ACGTACGT", "TTTTGGGG"), badIndex{}, opt)
	require.NoError(t, err)
	res := f.FindOverlaps()
	// two seeds per strand, two strands per read
	require.Equal(t, int64(8), res.Stats.Seeds)
	require.Equal(t, int64(24), res.Stats.InvalidHits)
	require.Zero(t, res.Stats.Hits)
	require.Empty(t, res.Overlaps)
}

func TestNewFinderErrors(t *testing.T) {
	_, err := NewFinder(nil, badIndex{}, Options{})
	require.Error(t, err)
	_, err = NewFinder(nil, nil, testOptions())
	require.Error(t, err)

	seqs := toSeqs("AAAACCCC", "CCCCGTGA")
	idx, err := seedindex.NewKmerIndex(seqs, 4, 0)
	require.NoError(t, err)
	_, err = NewFinder(append(seqs, []byte("AACC")), idx, testOptions())
	require.Error(t, err)
	_, err = NewFinder(seqs, idx, testOptions())
	require.NoError(t, err)
}

type recorder struct{ calls [][2]int }

func (r *recorder) Scanned(done, total int) { r.calls = append(r.calls, [2]int{done, total}) }

func TestScannerReusesReverseBuffer(t *testing.T) {
	seqs := toSeqs("AAAACCCC", "CCCCGGGG", "AACC")
	idx, err := seedindex.NewKmerIndex(seqs, 4, 0)
	require.NoError(t, err)
	f, err := NewFinder(seqs, idx, testOptions())
	require.NoError(t, err)
	s := f.newScanner(NewRegistry(len(seqs)))

	r := s.scan(1)
	require.Empty(t, r.overlaps)
	buf := s.rc
	require.Equal(t, "CCCCGGGG", string(buf))

	r = s.scan(0)
	require.Same(t, &buf[0], &s.rc[0])
	require.Equal(t, "GGGGTTTT", string(s.rc))
	require.Equal(t, []asmgraph.Overlap{
		{From: 0, To: 1, Length: 4, Rate: 1},
		{From: 1, To: 0, ToReversed: true, Length: 4, Rate: 1},
	}, r.overlaps)
	require.True(t, s.reg.IsEmbedded(2))
	require.Equal(t, "AAAACCCC", string(seqs[0]))
}

func TestFinderObserver(t *testing.T) {
	seqs := toSeqs("AAAACCCC", "CCCCGTGA", "AACC")
	idx, err := seedindex.NewKmerIndex(seqs, 4, 0)
	require.NoError(t, err)
	f, err := NewFinder(seqs, idx, testOptions())
	require.NoError(t, err)
	rec := &recorder{}
	f.Observer = rec
	f.FindOverlaps()
	require.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, rec.calls)
}

// tiledReads cuts 60 base reads every 25 bases of a random genome, reverse
// complements every third one and appends a read contained in the second.
func tiledReads() [][]byte {
	r := rand.New(rand.NewSource(7))
	genome := make([]byte, 400)
	for i := range genome {
		genome[i] = "ACGT"[r.Intn(4)]
	}
	var seqs [][]byte
	for s := 0; s+60 <= 385; s += 25 {
		rd := append([]byte(nil), genome[s:s+60]...)
		if len(seqs)%3 == 2 {
			rd = bnt.GetReverseCompByteArr(rd)
		}
		seqs = append(seqs, rd)
	}
	return append(seqs, append([]byte(nil), genome[30:70]...))
}

func tiledOptions(numCPU int) Options {
	return Options{SeedLen: 15, SeedStep: 3, MaxDiagDiff: 10, MinCoverRate: 0.25, BorderRate: 0.15, MinHits: 2, NumCPU: numCPU}
}

func TestFindOverlapsTiled(t *testing.T) {
	seqs := tiledReads()
	require.Len(t, seqs, 15)
	res := find(t, seqs, tiledOptions(1))
	require.Len(t, res.Embeddings, 1)
	e := res.Embeddings[0]
	require.Equal(t, asmgraph.Embedding{SeqID: 14, Parent: 1, Pos: 5, Rate: e.Rate}, e)

	g, report, err := res.Build()
	require.NoError(t, err)
	require.Equal(t, 14, g.NumSeqs())
	require.Len(t, g.Edges, 13)
	for _, e := range g.Edges {
		a, b := asmgraph.VertexSeq(e.V1), asmgraph.VertexSeq(e.V2)
		require.Equal(t, 1, utils.AbsInt(a-b), "edge %+v", e)
		require.Equal(t, 35, e.Overlap)
	}
	require.Equal(t, 1, report.DroppedOverlaps)
}

func TestFindOverlapsParallel(t *testing.T) {
	seqs := tiledReads()
	seq := find(t, seqs, tiledOptions(1))
	par := find(t, seqs, tiledOptions(4))
	require.Equal(t, seq.Embeddings, par.Embeddings)
	require.Equal(t, seq.Stats.Seqs, par.Stats.Seqs)

	g1, _, err := seq.Build()
	require.NoError(t, err)
	g2, _, err := par.Build()
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(g1, g2, cmpopts.EquateEmpty()))
}

func TestResultCompactGraph(t *testing.T) {
	res := find(t, toSeqs("AAAACCCC", "CCCCGTGA", "AACC"), testOptions())
	cg, err := res.CompactGraph()
	require.NoError(t, err)
	require.Equal(t, 1, cg.NumEdges())
	require.Equal(t, 1, cg.NumEmbedded())

	g1, r1, err := res.Build()
	require.NoError(t, err)
	g2, r2, err := cg.Build()
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(g1, g2, cmpopts.EquateEmpty()))
	require.Equal(t, r1, r2)
}
