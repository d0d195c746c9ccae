package constructog

import (
	"fmt"
	"log"

	"github.com/jwaldrip/odin/cli"

	"github.com/mudesheng/oga/overlap"
	"github.com/mudesheng/oga/reads"
	"github.com/mudesheng/oga/utils"
)

type Options struct {
	utils.ArgsOpt
	SeqProfile uint8
	Graph      bool // write the dot graph
	SAM        bool // write the embedded reads as SAM
	Progress   bool
}

// checkArgs reads the output flags shared by cog and mog.
func checkArgs(c cli.Command) (opt Options, suc bool) {
	var ok bool
	if opt.Graph, ok = c.Flag("Graph").Get().(bool); !ok {
		log.Fatalf("[checkArgs] argument 'Graph': %v set error, must set true|false\n", c.Flag("Graph"))
	}
	if opt.SAM, ok = c.Flag("SAM").Get().(bool); !ok {
		log.Fatalf("[checkArgs] argument 'SAM': %v set error, must set true|false\n", c.Flag("SAM"))
	}
	suc = true
	return opt, suc
}

func checkScanArgs(c cli.Command, opt *Options) (suc bool) {
	p, ok := c.Flag("SeqProfile").Get().(int)
	if !ok {
		log.Fatalf("[checkScanArgs] argument 'SeqProfile': %v set error\n", c.Flag("SeqProfile"))
	}
	if p < reads.AnyProfile || p > reads.Nanopore {
		log.Fatalf("[checkScanArgs] argument 'SeqProfile': %v must in [0, %d]\n", p, reads.Nanopore)
	}
	opt.SeqProfile = uint8(p)
	if opt.Progress, ok = c.Flag("Progress").Get().(bool); !ok {
		log.Fatalf("[checkScanArgs] argument 'Progress': %v set error, must set true|false\n", c.Flag("Progress"))
	}
	return true
}

// OverlapOptions merges the [overlap] table with the command line. kmer,
// when not zero, overrides the seed length of the configuration.
func OverlapOptions(cfg reads.OverlapCfg, kmer, numCPU int) (overlap.Options, error) {
	sub, indel, cover := cfg.SubstitutionRate, cfg.IndelRate, cfg.CoverRate
	if sub == 0 && indel == 0 {
		sub, indel = overlap.DefaultSubstitutionRate, overlap.DefaultIndelRate
	}
	if cover == 0 {
		cover = overlap.DefaultKmerCover
	}
	opt, err := overlap.DeriveOptions(sub, indel, cover)
	if err != nil {
		return opt, err
	}
	if cfg.SeedLen > 0 {
		opt.SeedLen = cfg.SeedLen
		opt.SeedStep = utils.MaxInt(1, int(float64(opt.SeedLen)/cover))
	}
	if kmer > 0 {
		opt.SeedLen = kmer
		opt.SeedStep = utils.MaxInt(1, int(float64(opt.SeedLen)/cover))
	}
	if cfg.SeedStep > 0 {
		opt.SeedStep = cfg.SeedStep
	}
	if cfg.MaxDiagDiff > 0 {
		opt.MaxDiagDiff = cfg.MaxDiagDiff
	}
	if cfg.MinCoverRate > 0 {
		opt.MinCoverRate = cfg.MinCoverRate
	}
	if cfg.BorderRate > 0 {
		opt.BorderRate = cfg.BorderRate
	}
	if cfg.MinHits > 0 {
		opt.MinHits = cfg.MinHits
	}
	opt.NumCPU = numCPU
	if err = opt.Check(); err != nil {
		return opt, fmt.Errorf("[OverlapOptions] %w", err)
	}
	return opt, nil
}
