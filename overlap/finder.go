package overlap

import (
	"fmt"

	"github.com/mudesheng/oga/asmgraph"
	"github.com/mudesheng/oga/bnt"
	"github.com/mudesheng/oga/seedindex"
)

// Observer is told about progress after every reference sequence is done.
// Calls come from a single goroutine.
type Observer interface {
	Scanned(done, total int)
}

// Stats counts the work of a FindOverlaps run.
type Stats struct {
	Seqs            int
	Scanned         int // reference sequences scanned
	SkippedEmbedded int // references already embedded when their turn came
	Seeds           int64
	Hits            int64
	InvalidHits     int64 // hits with an unknown sequence id or position
	Alignments      int64 // diagonal clusters classified
	Embeddings      int
	Overlaps        int
}

func (st *Stats) add(o Stats) {
	st.Scanned += o.Scanned
	st.SkippedEmbedded += o.SkippedEmbedded
	st.Seeds += o.Seeds
	st.Hits += o.Hits
	st.InvalidHits += o.InvalidHits
	st.Alignments += o.Alignments
}

// Finder drives seed lookup, diagonal accumulation and classification over
// every sequence and both of its strands.
type Finder struct {
	Opt      Options
	Seqs     [][]byte
	Index    seedindex.Searcher
	Observer Observer
}

func NewFinder(seqs [][]byte, index seedindex.Searcher, opt Options) (*Finder, error) {
	if err := opt.Check(); err != nil {
		return nil, fmt.Errorf("[NewFinder] %w", err)
	}
	if index == nil {
		return nil, fmt.Errorf("[NewFinder] nil seed index")
	}
	if si, ok := index.(interface{ NumSeqs() int }); ok && si.NumSeqs() != len(seqs) {
		return nil, fmt.Errorf("[NewFinder] seed index built over %d sequences, finder given %d", si.NumSeqs(), len(seqs))
	}
	return &Finder{Opt: opt, Seqs: seqs, Index: index}, nil
}

// Result is what a FindOverlaps run decided.
type Result struct {
	Seqs       [][]byte
	Embeddings []asmgraph.Embedding // ordered by embedded id
	Overlaps   []asmgraph.Overlap   // in reference scan order
	Stats      Stats
}

// Build compacts the result into the final assembly graph.
func (r *Result) Build() (*asmgraph.AssemblyGraph, asmgraph.BuildReport, error) {
	return asmgraph.Build(r.Seqs, r.Embeddings, r.Overlaps)
}

// CompactGraph loads the result into a mergeable CompactGraph.
func (r *Result) CompactGraph() (*asmgraph.CompactGraph, error) {
	cg := asmgraph.NewCompactGraph(r.Seqs)
	for _, e := range r.Embeddings {
		if err := cg.AddEmbedding(e); err != nil {
			return nil, err
		}
	}
	for _, o := range r.Overlaps {
		if err := cg.AddOverlap(o); err != nil {
			return nil, err
		}
	}
	return cg, nil
}

type scanResult struct {
	ref      int
	overlaps []asmgraph.Overlap
	stats    Stats
}

type scanner struct {
	f   *Finder
	reg *Registry
	acc *Accumulator
	cls *Classifier
	rc  []byte // reverse complement of the current reference, reused
}

func (f *Finder) newScanner(reg *Registry) *scanner {
	return &scanner{
		f:   f,
		reg: reg,
		acc: NewAccumulator(f.Opt.SeedLen, f.Opt.MaxDiagDiff, reg.IsEmbedded),
		cls: NewClassifier(f.Opt),
	}
}

// collect feeds the hits of every seed of one strand of ref to the accumulator.
// Only partners with a higher id are kept, each pair is seen from its lower id.
func (s *scanner) collect(ref int, it *SeedIter, st *Stats) {
	s.acc.Reset(ref)
	n := len(s.f.Seqs)
	for {
		seed, ok := it.Next()
		if !ok {
			break
		}
		st.Seeds++
		for _, h := range s.f.Index.Search(seed.Kmer) {
			if h.SeqID < 0 || h.SeqID >= n || h.Pos < 0 || h.Pos+s.f.Opt.SeedLen > len(s.f.Seqs[h.SeqID]) {
				st.InvalidHits++
				continue
			}
			st.Hits++
			if h.SeqID > ref {
				s.acc.AddHit(seed.Pos, h.SeqID, h.Pos)
			}
		}
	}
}

// scan runs both strands of ref. It stops as soon as ref itself is found
// embedded.
func (s *scanner) scan(ref int) (r scanResult) {
	r.ref = ref
	if s.reg.IsEmbedded(ref) {
		r.stats.SkippedEmbedded++
		return
	}
	r.stats.Scanned++
	refLen := len(s.f.Seqs[ref])
	s.rc = bnt.GetReverseCompByteArr2(s.f.Seqs[ref], s.rc)
	fwd := NewSeedIter(s.f.Seqs[ref], s.f.Opt.SeedLen, s.f.Opt.SeedStep)
	rev := NewSeedIter(s.rc, s.f.Opt.SeedLen, s.f.Opt.SeedStep)
	for _, it := range []*SeedIter{fwd, rev} {
		reversed := it == rev
		s.collect(ref, it, &r.stats)
		for _, p := range s.acc.Partners() {
			// may have been embedded by another worker meanwhile
			if s.reg.IsEmbedded(p) {
				continue
			}
			alns := s.acc.Alignments(p)
			r.stats.Alignments += int64(len(alns))
			out := s.cls.Classify(ref, refLen, reversed, p, len(s.f.Seqs[p]), alns)
			if out.Embedding != nil {
				s.reg.Add(*out.Embedding)
				if s.reg.IsEmbedded(ref) {
					return
				}
				continue
			}
			r.overlaps = append(r.overlaps, out.Overlaps...)
		}
	}
	return
}

// FindOverlaps scans every sequence. With Opt.NumCPU > 1 the references are
// spread over a pool of workers. A parallel run may then disagree with a
// sequential one: when two workers decide embeddings touching the same
// sequences at the same time, the registry keeps whichever comes first, so the
// embedding set can differ and an overlap with a sequence embedded meanwhile
// can be kept. Build drops such overlaps.
func (f *Finder) FindOverlaps() *Result {
	n := len(f.Seqs)
	reg := NewRegistry(n)
	res := &Result{Seqs: f.Seqs}
	res.Stats.Seqs = n
	perRef := make([][]asmgraph.Overlap, n)

	numCPU := f.Opt.NumCPU
	if numCPU < 1 {
		numCPU = 1
	}
	if numCPU > n {
		numCPU = n
	}
	done := 0
	gather := func(r scanResult) {
		perRef[r.ref] = r.overlaps
		res.Stats.add(r.stats)
		done++
		if f.Observer != nil {
			f.Observer.Scanned(done, n)
		}
	}
	if numCPU <= 1 {
		s := f.newScanner(reg)
		for ref := 0; ref < n; ref++ {
			gather(s.scan(ref))
		}
	} else {
		refs := make(chan int, numCPU*4)
		rc := make(chan scanResult, numCPU*4)
		go func() {
			for ref := 0; ref < n; ref++ {
				refs <- ref
			}
			close(refs)
		}()
		for i := 0; i < numCPU; i++ {
			go f.paraScan(reg, refs, rc)
		}
		// every worker ends with a result of ref -1
		for finished := 0; finished < numCPU; {
			r := <-rc
			if r.ref < 0 {
				finished++
				continue
			}
			gather(r)
		}
	}

	for _, l := range perRef {
		res.Overlaps = append(res.Overlaps, l...)
	}
	res.Embeddings = reg.Embeddings()
	res.Stats.Embeddings = reg.Len()
	res.Stats.Overlaps = len(res.Overlaps)
	return res
}

func (f *Finder) paraScan(reg *Registry, refs <-chan int, rc chan<- scanResult) {
	s := f.newScanner(reg)
	for ref := range refs {
		rc <- s.scan(ref)
	}
	rc <- scanResult{ref: -1}
}
