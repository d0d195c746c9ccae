package asmgraph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/biogo/hts/sam"

	"github.com/mudesheng/oga/bnt"
)

// ReadName returns the name of original read id, or its number when names
// are not known.
func ReadName(names []string, id int) string {
	if id < len(names) && names[id] != "" {
		if f := strings.Fields(names[id]); len(f) > 0 {
			return f[0]
		}
	}
	return "read" + strconv.Itoa(id)
}

// WriteDot renders g in graphviz dot format. Each sequence is drawn as its
// start and end vertices joined by a bold line; overlap edges carry their length.
func (g *AssemblyGraph) WriteDot(w io.Writer, names []string) error {
	dg := gographviz.NewGraph()
	if err := dg.SetName("G"); err != nil {
		return err
	}
	if err := dg.SetDir(false); err != nil {
		return err
	}
	dg.SetStrict(false)
	for _, v := range g.Vertices {
		attr := make(map[string]string)
		end := "E"
		attr["color"] = "Blue"
		if v.Start {
			end = "S"
			attr["color"] = "Green"
		}
		attr["label"] = "\"" + ReadName(names, g.SeqIDs[v.Seq]) + ":" + end + "\""
		if err := dg.AddNode("G", "v"+strconv.Itoa(v.ID), attr); err != nil {
			return err
		}
	}
	for i := range g.Seqs {
		attr := make(map[string]string)
		attr["style"] = "bold"
		attr["label"] = "\"len:" + strconv.Itoa(len(g.Seqs[i])) + " emb:" + strconv.Itoa(len(g.Embedded[i])) + "\""
		if err := dg.AddEdge("v"+strconv.Itoa(StartVertex(i)), "v"+strconv.Itoa(EndVertex(i)), false, attr); err != nil {
			return err
		}
	}
	for _, e := range g.Edges {
		attr := make(map[string]string)
		attr["color"] = "Red"
		attr["label"] = "\"" + strconv.Itoa(e.Overlap) + "\""
		if err := dg.AddEdge("v"+strconv.Itoa(e.V1), "v"+strconv.Itoa(e.V2), false, attr); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, dg.String())
	return err
}

// WriteSAM writes every embedded read as a SAM record placed on its
// surviving container, which become the SAM references. Embeddings flagged
// OutOfBounds are left out; their placement is not trustworthy.
func (g *AssemblyGraph) WriteSAM(w io.Writer, names []string) (written int, err error) {
	refs := make([]*sam.Reference, len(g.Seqs))
	for i, s := range g.Seqs {
		refs[i], err = sam.NewReference(ReadName(names, g.SeqIDs[i]), "", "", len(s), nil, nil)
		if err != nil {
			return 0, fmt.Errorf("[WriteSAM] reference %d: %w", g.SeqIDs[i], err)
		}
	}
	h, err := sam.NewHeader(nil, refs)
	if err != nil {
		return 0, fmt.Errorf("[WriteSAM] header: %w", err)
	}
	sw, err := sam.NewWriter(w, h, sam.FlagDecimal)
	if err != nil {
		return 0, fmt.Errorf("[WriteSAM] %w", err)
	}
	for i, l := range g.Embedded {
		for _, e := range l {
			if e.OutOfBounds {
				continue
			}
			s := g.EmbeddedSeq(e)
			if e.Reversed {
				s = bnt.GetReverseCompByteArr(s)
			}
			rate, err := sam.NewAux(sam.NewTag("XR"), float32(e.Rate))
			if err != nil {
				return written, err
			}
			co := []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, len(s))}
			r, err := sam.NewRecord(ReadName(names, e.SeqID), refs[i], nil, e.Pos, -1, 0, 255, co, s, nil, []sam.Aux{rate})
			if err != nil {
				return written, fmt.Errorf("[WriteSAM] record %d: %w", e.SeqID, err)
			}
			if e.Reversed {
				r.Flags |= sam.Reverse
			}
			if err = sw.Write(r); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}
