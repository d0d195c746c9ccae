package overlap

import (
	"github.com/mudesheng/oga/asmgraph"
	"github.com/mudesheng/oga/utils"
)

// Outcome is the relation decided between a reference strand and one partner.
type Outcome struct {
	Embedding *asmgraph.Embedding // either sequence inside the other
	Overlaps  []asmgraph.Overlap  // at most one per direction, empty with an embedding
}

// Classifier decides, from the diagonal clusters of a pair, whether one
// sequence is embedded in the other or how they overlap.
type Classifier struct {
	seedLen    int
	maxDiff    int
	minRate    float64
	borderRate float64
	minHits    int
}

func NewClassifier(opt Options) *Classifier {
	return &Classifier{
		seedLen:    opt.SeedLen,
		maxDiff:    opt.MaxDiagDiff,
		minRate:    opt.MinCoverRate,
		borderRate: opt.BorderRate,
		minHits:    opt.MinHits,
	}
}

func (c *Classifier) supported(hits, span int) (float64, bool) {
	if span <= 0 {
		return 0, false
	}
	rate := float64(c.seedLen*hits) / float64(span)
	return rate, hits >= c.minHits || rate >= c.minRate
}

// nearStart reports whether pos lies in the first border of a read of length n.
func (c *Classifier) nearStart(pos, n int) bool {
	return float64(pos) <= float64(n)*c.borderRate
}

// nearEnd reports whether end reaches the last border of a read of length n.
func (c *Classifier) nearEnd(end, n int) bool {
	return float64(end) >= float64(n)*(1-c.borderRate)
}

// Classify examines the clusters alns, sorted by Diag, of partner against
// ref. reversed tells that the reference positions are on the reverse
// complement of ref. An embedding found first excludes any overlap.
func (c *Classifier) Classify(ref, refLen int, reversed bool, partner, partnerLen int, alns []Alignment) (out Outcome) {
	limit := partnerLen - refLen
	if limit > 0 {
		out.Embedding = c.refInPartner(ref, refLen, reversed, partner, limit, alns)
	} else {
		out.Embedding = c.partnerInRef(ref, refLen, reversed, partner, partnerLen, limit, alns)
	}
	if out.Embedding != nil {
		return out
	}
	minLen := utils.MinInt(refLen, partnerLen)

	// partner -> ref: the partner tail covers the reference head
	for i := lowerBound(alns, -c.maxDiff); i < len(alns); i++ {
		a := &alns[i]
		d := a.Offset()
		rate, ok := c.supported(a.Hits, partnerLen-d)
		if !ok || d < 0 {
			continue
		}
		if !c.nearStart(a.PosRef, refLen) || !c.nearEnd(a.PosPartner+a.LenPartner, partnerLen) {
			continue
		}
		if l := partnerLen - d; l > 0 && l <= minLen {
			out.Overlaps = append(out.Overlaps, asmgraph.Overlap{From: partner, To: ref, ToReversed: reversed, Length: l, Rate: rate})
			break
		}
	}

	// ref -> partner: the reference tail covers the partner head
	for i := lowerBound(alns, limit+c.maxDiff+1) - 1; i >= 0; i-- {
		a := &alns[i]
		d := a.Offset()
		rate, ok := c.supported(a.Hits, refLen+d)
		if !ok || d > limit {
			continue
		}
		if !c.nearStart(a.PosPartner, partnerLen) || !c.nearEnd(a.PosRef+a.LenRef, refLen) {
			continue
		}
		if l := refLen + d; l > 0 && l <= minLen {
			out.Overlaps = append(out.Overlaps, asmgraph.Overlap{From: ref, FromReversed: reversed, To: partner, Length: l, Rate: rate})
			break
		}
	}
	return out
}

// partnerInRef looks for the partner inside the reference, limit is
// partnerLen - refLen <= 0. The position is reported on the forward strand of ref.
func (c *Classifier) partnerInRef(ref, refLen int, reversed bool, partner, partnerLen, limit int, alns []Alignment) *asmgraph.Embedding {
	for i := lowerBound(alns, limit-c.maxDiff); i < len(alns) && alns[i].Diag <= c.maxDiff; i++ {
		a := &alns[i]
		rate, ok := c.supported(a.Hits, partnerLen)
		if !ok {
			continue
		}
		d := a.Offset()
		if d > 0 || d < limit {
			continue
		}
		if !c.nearStart(a.PosPartner, partnerLen) || !c.nearEnd(a.PosPartner+a.LenPartner, partnerLen) {
			continue
		}
		pos := -d
		if reversed {
			pos = refLen + d - partnerLen
		}
		return &asmgraph.Embedding{SeqID: partner, Parent: ref, Pos: pos, Reversed: reversed, Rate: rate}
	}
	return nil
}

// refInPartner looks for the reference inside a longer partner, limit is
// partnerLen - refLen > 0.
func (c *Classifier) refInPartner(ref, refLen int, reversed bool, partner, limit int, alns []Alignment) *asmgraph.Embedding {
	for i := lowerBound(alns, -c.maxDiff); i < len(alns) && alns[i].Diag <= limit+c.maxDiff; i++ {
		a := &alns[i]
		rate, ok := c.supported(a.Hits, refLen)
		if !ok {
			continue
		}
		d := a.Offset()
		if d < 0 || d > limit {
			continue
		}
		if !c.nearStart(a.PosRef, refLen) || !c.nearEnd(a.PosRef+a.LenRef, refLen) {
			continue
		}
		return &asmgraph.Embedding{SeqID: ref, Parent: partner, Pos: d, Reversed: reversed, Rate: rate}
	}
	return nil
}

// lowerBound returns the index of the first cluster with Diag >= diag.
func lowerBound(alns []Alignment, diag int) int {
	lo, hi := 0, len(alns)
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		if alns[m].Diag < diag {
			lo = m + 1
		} else {
			hi = m
		}
	}
	return lo
}
