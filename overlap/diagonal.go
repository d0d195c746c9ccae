package overlap

import "sort"

// Alignment is a cluster of seed hits between a reference strand and a
// partner sequence. PosRef and PosPartner are the positions of the first hit,
// LenRef and LenPartner the span covered since then. Diag is the diagonal of
// the latest merged hit and keys the cluster.
type Alignment struct {
	PosRef     int
	PosPartner int
	LenRef     int
	LenPartner int
	Hits       int
	Diag       int
}

// Offset is the diagonal of the first hit: the partner position aligned with
// reference position 0.
func (a *Alignment) Offset() int { return a.PosPartner - a.PosRef }

// Accumulator collects the seed hits of one reference strand. Clusters of
// every partner are kept sorted by Diag; diagonals are unique per partner.
type Accumulator struct {
	seedLen  int
	maxDiff  int
	skip     func(id int) bool
	ref      int
	diags    map[int][]Alignment
	partners []int
}

// NewAccumulator returns an accumulator merging hits whose diagonals differ
// by at most maxDiagDiff. Hits on partners for which skip reports true are
// dropped; skip may be nil.
func NewAccumulator(seedLen, maxDiagDiff int, skip func(id int) bool) *Accumulator {
	return &Accumulator{seedLen: seedLen, maxDiff: maxDiagDiff, skip: skip, ref: -1, diags: make(map[int][]Alignment)}
}

// Reset discards every cluster and starts collecting for ref.
func (acc *Accumulator) Reset(ref int) {
	acc.ref = ref
	for k := range acc.diags {
		delete(acc.diags, k)
	}
	acc.partners = acc.partners[:0]
}

func (acc *Accumulator) Ref() int { return acc.ref }

// AddHit adds a seed found at posRef on the reference strand and at
// posPartner on partner. It returns false when the partner is skipped.
func (acc *Accumulator) AddHit(posRef, partner, posPartner int) bool {
	if acc.skip != nil && acc.skip(partner) {
		return false
	}
	l, ok := acc.diags[partner]
	if !ok {
		acc.partners = append(acc.partners, partner)
	}
	diag := posPartner - posRef
	i := sort.Search(len(l), func(j int) bool { return l[j].Diag >= diag })
	// l[i] is the ceiling, l[i-1] the floor; the ceiling wins ties
	best, dist := -1, acc.maxDiff+1
	if i < len(l) && l[i].Diag-diag < dist {
		best, dist = i, l[i].Diag-diag
	}
	if i > 0 && diag-l[i-1].Diag < dist {
		best = i - 1
	}
	if best < 0 {
		l = append(l, Alignment{})
		copy(l[i+1:], l[i:])
		l[i] = Alignment{PosRef: posRef, PosPartner: posPartner, LenRef: acc.seedLen, LenPartner: acc.seedLen, Hits: 1, Diag: diag}
		acc.diags[partner] = l
		return true
	}
	a := l[best]
	if n := acc.seedLen + posRef - a.PosRef; n > a.LenRef {
		a.LenRef = n
	}
	if n := acc.seedLen + posPartner - a.PosPartner; n > a.LenPartner {
		a.LenPartner = n
	}
	a.Hits++
	a.Diag = diag
	// re-key: the merged record moves at most past its neighbours within maxDiff
	l = append(l[:best], l[best+1:]...)
	i = sort.Search(len(l), func(j int) bool { return l[j].Diag >= diag })
	l = append(l, Alignment{})
	copy(l[i+1:], l[i:])
	l[i] = a
	acc.diags[partner] = l
	return true
}

// Partners returns the partners with at least one cluster, in increasing id order.
func (acc *Accumulator) Partners() []int {
	sort.Ints(acc.partners)
	return acc.partners
}

// Alignments returns the clusters of partner sorted by Diag. The slice is
// owned by the accumulator and valid until the next AddHit or Reset.
func (acc *Accumulator) Alignments(partner int) []Alignment {
	return acc.diags[partner]
}

// NumAlignments counts the clusters over all partners.
func (acc *Accumulator) NumAlignments() (n int) {
	for _, l := range acc.diags {
		n += len(l)
	}
	return
}
