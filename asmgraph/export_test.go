package asmgraph

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/require"
)

func TestReadName(t *testing.T) {
	names := []string{"r0 some description", "", "r2"}
	require.Equal(t, "r0", ReadName(names, 0))
	require.Equal(t, "read1", ReadName(names, 1))
	require.Equal(t, "r2", ReadName(names, 2))
	require.Equal(t, "read7", ReadName(nil, 7))
}

func TestWriteDot(t *testing.T) {
	g, _, err := Build(exampleReads(), []Embedding{{SeqID: 2, Parent: 0, Pos: 2}}, []Overlap{{From: 0, To: 1, Length: 4}})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, g.WriteDot(&buf, []string{"a", "b", "c"}))
	out := buf.String()
	require.True(t, strings.HasPrefix(strings.TrimSpace(out), "graph G"), out)
	for _, s := range []string{"v0", "v1", "v2", "v3", `"a:S"`, `"b:E"`, `"len:8 emb:1"`, `"4"`} {
		require.Contains(t, out, s)
	}
	require.NotContains(t, out, `"c:S"`)
}

func TestWriteSAM(t *testing.T) {
	a := []byte("GGGGGCCCCCAAAAATTTTT")
	reads := [][]byte{a, []byte("CCAAA"), []byte("TTTGG"), []byte("AAAA")}
	embs := []Embedding{
		{SeqID: 1, Parent: 0, Pos: 8, Rate: 1},
		{SeqID: 2, Parent: 0, Pos: 8, Reversed: true, Rate: 0.5},
		{SeqID: 3, Parent: 0, Pos: 18},
	}
	g, report, err := Build(reads, embs, nil)
	require.NoError(t, err)
	require.Equal(t, 1, report.OutOfBounds)

	var buf bytes.Buffer
	n, err := g.WriteSAM(&buf, []string{"ref", "fwd", "rev", "bad"})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	sr, err := sam.NewReader(&buf)
	require.NoError(t, err)
	require.Len(t, sr.Header().Refs(), 1)
	require.Equal(t, "ref", sr.Header().Refs()[0].Name())
	require.Equal(t, len(a), sr.Header().Refs()[0].Len())

	var recs []*sam.Record
	for {
		r, err := sr.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		recs = append(recs, r)
	}
	require.Len(t, recs, 2)
	require.Equal(t, "fwd", recs[0].Name)
	require.Equal(t, 8, recs[0].Pos)
	require.Equal(t, "CCAAA", string(recs[0].Seq.Expand()))
	require.Zero(t, recs[0].Flags&sam.Reverse)
	require.Equal(t, "rev", recs[1].Name)
	require.NotZero(t, recs[1].Flags&sam.Reverse)
	require.Equal(t, "CCAAA", string(recs[1].Seq.Expand()))
}
