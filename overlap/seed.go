package overlap

// Seed is a k-mer sampled at Pos of one strand. Kmer aliases the strand
// bytes and must not be modified.
type Seed struct {
	Pos  int
	Kmer []byte
}

// SeedIter walks a strand at a fixed step. The last seed is always anchored
// on the strand end so the tail is covered even when the step does not divide
// the length. Strands shorter than the seed length yield nothing.
type SeedIter struct {
	seq     []byte
	seedLen int
	step    int
	next    int
	last    int // position of the last emitted seed, -1 before the first
}

func NewSeedIter(seq []byte, seedLen, step int) *SeedIter {
	if step < 1 {
		step = 1
	}
	return &SeedIter{seq: seq, seedLen: seedLen, step: step, last: -1}
}

// Next returns the following seed, ok is false once the strand is exhausted.
func (it *SeedIter) Next() (s Seed, ok bool) {
	end := len(it.seq) - it.seedLen
	if it.seedLen < 1 || end < 0 || it.last >= end {
		return s, false
	}
	pos := it.next
	if pos > end {
		pos = end
	}
	it.last = pos
	it.next = pos + it.step
	return Seed{Pos: pos, Kmer: it.seq[pos : pos+it.seedLen]}, true
}

// Reset restarts the walk from the strand start.
func (it *SeedIter) Reset() {
	it.next = 0
	it.last = -1
}

// Seq returns the strand the iterator walks.
func (it *SeedIter) Seq() []byte { return it.seq }
