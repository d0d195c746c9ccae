package constructog

import (
	"log"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jwaldrip/odin/cli"

	"github.com/mudesheng/oga/asmgraph"
)

type GraphStat struct {
	Seqs        int
	Embedded    int
	Edges       int
	Bases       int64 // in surviving sequences
	N50         int
	MaxDegree   int
	Isolated    int // sequences without edges
	MeanOverlap float64
}

// Stat summarises a built graph.
func Stat(g *asmgraph.AssemblyGraph) (st GraphStat) {
	st.Seqs = g.NumSeqs()
	st.Embedded = g.NumEmbedded()
	st.Edges = len(g.Edges)
	lens := make([]int, len(g.Seqs))
	for i, s := range g.Seqs {
		lens[i] = len(s)
		st.Bases += int64(len(s))
		d := len(g.Vertex(i, true).Edges) + len(g.Vertex(i, false).Edges)
		if d > st.MaxDegree {
			st.MaxDegree = d
		}
		if d == 0 {
			st.Isolated++
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lens)))
	var sum int64
	for _, l := range lens {
		sum += int64(l)
		if sum*2 >= st.Bases {
			st.N50 = l
			break
		}
	}
	if st.Edges > 0 {
		var ol int64
		for _, e := range g.Edges {
			ol += int64(e.Overlap)
		}
		st.MeanOverlap = float64(ol) / float64(st.Edges)
	}
	return st
}

// StatOG prints the statistics of an overlap graph snapshot.
func StatOG(c cli.Command) {
	fn := c.Flag("Snapshot").String()
	if fn == "" {
		log.Fatalf("[StatOG] argument 'Snapshot' not set\n")
	}
	cg, err := asmgraph.LoadFile(fn)
	if err != nil {
		log.Fatalf("[StatOG] %v\n", err)
	}
	g, report, err := cg.Build()
	if err != nil {
		log.Fatalf("[StatOG] %v\n", err)
	}
	logReport("StatOG", report)
	st := Stat(g)
	log.Printf("[StatOG] sequences: %s, bases: %s, N50: %s\n", humanize.Comma(int64(st.Seqs)), humanize.Comma(st.Bases), humanize.Comma(int64(st.N50)))
	log.Printf("[StatOG] embedded: %s, edges: %s, mean overlap: %.1f, max degree: %d, isolated: %d\n",
		humanize.Comma(int64(st.Embedded)), humanize.Comma(int64(st.Edges)), st.MeanOverlap, st.MaxDegree, st.Isolated)
}
