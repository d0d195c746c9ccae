package asmgraph

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// SnapshotVersion is written in every snapshot header; Load refuses others.
const SnapshotVersion = 1

const snapshotMagic = "OGSNAP"

// PersistenceError reports a failed snapshot save or load.
type PersistenceError struct {
	Op   string // "save" or "load"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("snapshot %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("snapshot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type snapshotHeader struct {
	Magic   string
	Version int
}

// SnapArc is one directed arc, stored in adjacency order.
type SnapArc struct {
	From, To int
	Overlap  int
	Rate     float64
}

// SnapEmbedded pairs an embedded sequence with its first-seen parent.
type SnapEmbedded struct {
	SeqID, Parent int
}

// snapshotBody is the versioned schema of a CompactGraph.
type snapshotBody struct {
	Names      []string
	Seqs       [][]byte
	Arcs       []SnapArc
	Embeddings []Embedding // by parent, insertion order
	Embedded   []SnapEmbedded
}

func (cg *CompactGraph) body() snapshotBody {
	b := snapshotBody{Names: cg.names, Seqs: cg.seqs}
	for v, l := range cg.arcs {
		for _, a := range l {
			b.Arcs = append(b.Arcs, SnapArc{From: v, To: a.To, Overlap: a.Overlap, Rate: a.Rate})
		}
	}
	for _, l := range cg.embeds {
		b.Embeddings = append(b.Embeddings, l...)
	}
	for id, p := range cg.embeddedIn {
		if p >= 0 {
			b.Embedded = append(b.Embedded, SnapEmbedded{SeqID: id, Parent: p})
		}
	}
	return b
}

// Save writes a zstd compressed, gob encoded snapshot of cg to w.
func (cg *CompactGraph) Save(w io.Writer) error {
	if err := cg.save(w); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (cg *CompactGraph) save(w io.Writer) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderCRC(true), zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	buffp := bufio.NewWriterSize(zw, 1<<20)
	enc := gob.NewEncoder(buffp)
	if err = enc.Encode(snapshotHeader{Magic: snapshotMagic, Version: SnapshotVersion}); err != nil {
		zw.Close()
		return err
	}
	if err = enc.Encode(cg.body()); err != nil {
		zw.Close()
		return err
	}
	if err = buffp.Flush(); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// SaveFile writes the snapshot to fn, replacing it.
func (cg *CompactGraph) SaveFile(fn string) error {
	fp, err := os.Create(fn)
	if err != nil {
		return &PersistenceError{Op: "save", Path: fn, Err: err}
	}
	if err = cg.save(fp); err != nil {
		fp.Close()
		return &PersistenceError{Op: "save", Path: fn, Err: err}
	}
	if err = fp.Close(); err != nil {
		return &PersistenceError{Op: "save", Path: fn, Err: err}
	}
	return nil
}

// Load reads a snapshot written by Save.
func Load(r io.Reader) (*CompactGraph, error) {
	cg, err := load(r)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	return cg, nil
}

// LoadFile reads the snapshot stored in fn.
func LoadFile(fn string) (*CompactGraph, error) {
	fp, err := os.Open(fn)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: fn, Err: err}
	}
	defer fp.Close()
	cg, err := load(fp)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: fn, Err: err}
	}
	return cg, nil
}

func load(r io.Reader) (*CompactGraph, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	dec := gob.NewDecoder(bufio.NewReaderSize(zr, 1<<20))
	var h snapshotHeader
	if err = dec.Decode(&h); err != nil {
		return nil, err
	}
	if h.Magic != snapshotMagic {
		return nil, fmt.Errorf("bad magic %q: %w", h.Magic, ErrSnapshotCorrupt)
	}
	if h.Version != SnapshotVersion {
		return nil, fmt.Errorf("version %d, want %d: %w", h.Version, SnapshotVersion, ErrSnapshotVersion)
	}
	var b snapshotBody
	if err = dec.Decode(&b); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return fromBody(b)
}

func fromBody(b snapshotBody) (*CompactGraph, error) {
	cg := NewCompactGraph(b.Seqs)
	if err := cg.SetNames(b.Names); err != nil {
		return nil, err
	}
	for _, a := range b.Arcs {
		if cg.checkVertex(a.From) != nil || cg.checkVertex(a.To) != nil || VertexSeq(a.From) == VertexSeq(a.To) || a.Overlap <= 0 {
			return nil, fmt.Errorf("arc %d -> %d overlap %d: %w", a.From, a.To, a.Overlap, ErrSnapshotCorrupt)
		}
		cg.arcs[a.From] = append(cg.arcs[a.From], Arc{To: a.To, Overlap: a.Overlap, Rate: a.Rate})
	}
	// every arc must be stored from both of its vertices
	for v, l := range cg.arcs {
		for _, a := range l {
			if b, ok := cg.Edge(a.To, v); !ok || b.Overlap != a.Overlap {
				return nil, fmt.Errorf("arc %d -> %d has no mirror: %w", v, a.To, ErrSnapshotCorrupt)
			}
		}
	}
	n := len(cg.seqs)
	for _, e := range b.Embeddings {
		if e.SeqID < 0 || e.SeqID >= n || e.Parent < 0 || e.Parent >= n || e.SeqID == e.Parent {
			return nil, fmt.Errorf("embedding %d in %d: %w", e.SeqID, e.Parent, ErrSnapshotCorrupt)
		}
		cg.embeds[e.Parent] = append(cg.embeds[e.Parent], e)
	}
	for _, se := range b.Embedded {
		if se.SeqID < 0 || se.SeqID >= n || se.Parent < 0 || se.Parent >= n || cg.embeddedIn[se.SeqID] >= 0 {
			return nil, fmt.Errorf("embedded %d in %d: %w", se.SeqID, se.Parent, ErrSnapshotCorrupt)
		}
		cg.embeddedIn[se.SeqID] = se.Parent
		cg.numEmb++
	}
	return cg, nil
}
