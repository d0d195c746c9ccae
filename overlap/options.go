// Package overlap finds embedded and overlapping sequence pairs by sampling
// seeds on both strands of every read, clustering the seed hits on diagonals
// and classifying each candidate pair.
package overlap

import (
	"fmt"
	"math"
)

const (
	DefaultSubstitutionRate = 0.07
	DefaultIndelRate        = 0.03
	DefaultKmerCover        = 1.0
	DefaultMinCoverRate     = 0.25
	DefaultBorderRate       = 0.15
	DefaultMinHits          = 2
)

const ln1000000 = 13.815510557964274

// Options configures a Finder.
type Options struct {
	SeedLen      int     // L
	SeedStep     int     // D, distance between sampled seeds
	MaxDiagDiff  int     // Δ, hits closer than this on the diagonal are merged
	MinCoverRate float64 // seed coverage accepted when hits are few
	BorderRate   float64 // fraction of a read tolerated between an alignment and the read end
	MinHits      int
	NumCPU       int
}

// DeriveOptions sizes the seeds from the expected per base substitution and
// indel rates. cover is the mean number of seeds covering a base.
func DeriveOptions(sub, indel, cover float64) (opt Options, err error) {
	if sub < 0 || sub >= 1 || indel < 0 || indel >= 1 {
		return opt, fmt.Errorf("[DeriveOptions] error rates must in [0,1), substitution: %v indel: %v", sub, indel)
	}
	if cover <= 0 {
		return opt, fmt.Errorf("[DeriveOptions] kmer cover %v must > 0", cover)
	}
	// independent errors
	rate := sub + indel - sub*indel
	if rate <= 0 {
		return opt, fmt.Errorf("[DeriveOptions] total error rate must > 0")
	}
	opt.SeedLen = int(math.Ln10 / (2 * rate))
	opt.MaxDiagDiff = 20 * int(indel*ln1000000/rate)
	opt.SeedStep = int(float64(opt.SeedLen) / cover)
	if opt.SeedStep < 1 {
		opt.SeedStep = 1
	}
	opt.MinCoverRate = DefaultMinCoverRate
	opt.BorderRate = DefaultBorderRate
	opt.MinHits = DefaultMinHits
	opt.NumCPU = 1
	if opt.SeedLen < 1 {
		return opt, fmt.Errorf("[DeriveOptions] error rate %v too high, seed length: %d", rate, opt.SeedLen)
	}
	return opt, nil
}

// DefaultOptions returns the options derived from the default error rates.
func DefaultOptions() Options {
	opt, err := DeriveOptions(DefaultSubstitutionRate, DefaultIndelRate, DefaultKmerCover)
	if err != nil {
		panic(err)
	}
	return opt
}

// Check reports the first invalid field of opt.
func (opt Options) Check() error {
	switch {
	case opt.SeedLen < 1:
		return fmt.Errorf("seed length %d must > 0", opt.SeedLen)
	case opt.SeedStep < 1:
		return fmt.Errorf("seed step %d must > 0", opt.SeedStep)
	case opt.MaxDiagDiff < 0:
		return fmt.Errorf("max diagonal difference %d must >= 0", opt.MaxDiagDiff)
	case opt.MinCoverRate < 0:
		return fmt.Errorf("min cover rate %v must >= 0", opt.MinCoverRate)
	case opt.BorderRate < 0 || opt.BorderRate > 0.5:
		return fmt.Errorf("border rate %v must in [0,0.5]", opt.BorderRate)
	case opt.MinHits < 1:
		return fmt.Errorf("min hits %d must > 0", opt.MinHits)
	case opt.NumCPU < 0:
		return fmt.Errorf("numCPU %d must >= 0", opt.NumCPU)
	}
	return nil
}
