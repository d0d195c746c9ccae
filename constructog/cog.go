// Package constructog holds the commands building, merging and inspecting
// overlap graphs.
package constructog

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jwaldrip/odin/cli"

	"github.com/mudesheng/oga/asmgraph"
	"github.com/mudesheng/oga/overlap"
	"github.com/mudesheng/oga/reads"
	"github.com/mudesheng/oga/seedindex"
	"github.com/mudesheng/oga/utils"
)

const (
	SnapshotSuffix = ".og.zst"
	DotSuffix      = ".og.dot"
	SAMSuffix      = ".embedded.sam"
)

// FindOverlaps indexes rs and runs the overlap finder over it.
func FindOverlaps(rs *reads.ReadSet, opt overlap.Options, maxOcc int, obs overlap.Observer) (*overlap.Result, error) {
	idx, err := seedindex.NewKmerIndex(rs.Seqs, opt.SeedLen, maxOcc)
	if err != nil {
		return nil, err
	}
	f, err := overlap.NewFinder(rs.Seqs, idx, opt)
	if err != nil {
		return nil, err
	}
	f.Observer = obs
	return f.FindOverlaps(), nil
}

// WriteGraph writes the requested exports of g next to prefix. The SAM
// export sorts the embeddings of every container by position first.
func WriteGraph(g *asmgraph.AssemblyGraph, names []string, prefix string, dot, sam bool) error {
	if dot {
		fn := prefix + DotSuffix
		fp, err := os.Create(fn)
		if err != nil {
			return err
		}
		buffp := bufio.NewWriterSize(fp, 1<<20)
		if err = g.WriteDot(buffp, names); err == nil {
			err = buffp.Flush()
		}
		if e := fp.Close(); err == nil {
			err = e
		}
		if err != nil {
			return fmt.Errorf("[WriteGraph] %s: %w", fn, err)
		}
	}
	if sam {
		g.SortEmbeddings()
		fn := prefix + SAMSuffix
		fp, err := os.Create(fn)
		if err != nil {
			return err
		}
		buffp := bufio.NewWriterSize(fp, 1<<20)
		if _, err = g.WriteSAM(buffp, names); err == nil {
			err = buffp.Flush()
		}
		if e := fp.Close(); err == nil {
			err = e
		}
		if err != nil {
			return fmt.Errorf("[WriteGraph] %s: %w", fn, err)
		}
	}
	return nil
}

func logReport(fn string, report asmgraph.BuildReport) {
	log.Printf("[%s] graph sequences: %s, embedded: %s, edges: %s\n", fn,
		humanize.Comma(int64(report.Seqs)), humanize.Comma(int64(report.Embedded)), humanize.Comma(int64(report.Edges)))
	if report.DroppedOverlaps > 0 || report.InvalidOverlaps > 0 {
		log.Printf("[%s] overlaps dropped on embedded reads: %d, invalid: %d\n", fn, report.DroppedOverlaps, report.InvalidOverlaps)
	}
	if report.Reparented > 0 || report.Orphaned > 0 || report.DupEmbeddings > 0 {
		log.Printf("[%s] embeddings re-parented: %d, orphaned: %d, duplicated: %d\n", fn, report.Reparented, report.Orphaned, report.DupEmbeddings)
	}
	if report.OutOfBounds > 0 {
		log.Printf("[%s] warning: %d embeddings reach past their container\n", fn, report.OutOfBounds)
	}
}

func startProfile(fn, cpuprofile string) func() {
	if cpuprofile == "" {
		return func() {}
	}
	fp, err := os.Create(cpuprofile)
	if err != nil {
		log.Fatalf("[%s] open cpuprofile file: %v failed\n", fn, cpuprofile)
	}
	pprof.StartCPUProfile(fp)
	return func() {
		pprof.StopCPUProfile()
		fp.Close()
	}
}

// COG constructs the overlap graph of the reads listed in the configuration file.
func COG(c cli.Command) {
	gOpt, suc := utils.CheckGlobalArgs(c.Parent())
	if !suc {
		log.Fatalf("[COG] check global Arguments error, opt: %v\n", gOpt)
	}
	opt, suc := checkArgs(c)
	if suc {
		suc = checkScanArgs(c, &opt)
	}
	if !suc {
		log.Fatalf("[COG] check Arguments error, opt: %v\n", opt)
	}
	opt.ArgsOpt = gOpt
	defer startProfile("COG", opt.Cpuprofile)()
	runtime.GOMAXPROCS(opt.NumCPU + 1)

	cfgInfo, err := reads.ParseCfg(opt.CfgFn)
	if err != nil {
		log.Fatalf("[COG] ParseCfg 'C': %v err: %v\n", opt.CfgFn, err)
	}
	t0 := time.Now()
	rs, err := reads.LoadReads(cfgInfo, opt.SeqProfile)
	if err != nil {
		log.Fatalf("[COG] %v\n", err)
	}
	log.Printf("[COG] loaded %s reads, %s bases, skipped %d short reads, took %v\n",
		humanize.Comma(int64(len(rs.Seqs))), humanize.Comma(rs.Bases), rs.Skipped, time.Since(t0))

	ovOpt, err := OverlapOptions(cfgInfo.Overlap, opt.Kmer, opt.NumCPU)
	if err != nil {
		log.Fatalf("[COG] %v\n", err)
	}
	log.Printf("[COG] seed length: %d, seed step: %d, max diagonal diff: %d\n", ovOpt.SeedLen, ovOpt.SeedStep, ovOpt.MaxDiagDiff)

	t1 := time.Now()
	var pb *progressBar
	var obs overlap.Observer
	if opt.Progress {
		pb = newProgressBar(len(rs.Seqs))
		obs = pb
	}
	res, err := FindOverlaps(rs, ovOpt, cfgInfo.Overlap.MaxOcc, obs)
	if pb != nil {
		pb.Wait()
	}
	if err != nil {
		log.Fatalf("[COG] %v\n", err)
	}
	st := res.Stats
	log.Printf("[COG] scanned %s reads (%d already embedded), %s seeds, %s hits, took %v\n",
		humanize.Comma(int64(st.Scanned)), st.SkippedEmbedded, humanize.Comma(st.Seeds), humanize.Comma(st.Hits), time.Since(t1))
	log.Printf("[COG] found %s embeddings, %s overlaps\n", humanize.Comma(int64(st.Embeddings)), humanize.Comma(int64(st.Overlaps)))
	if st.InvalidHits > 0 {
		log.Printf("[COG] warning: %d seed hits out of range skipped\n", st.InvalidHits)
	}

	cg, err := res.CompactGraph()
	if err != nil {
		log.Fatalf("[COG] %v\n", err)
	}
	if err = cg.SetNames(rs.Names); err != nil {
		log.Fatalf("[COG] %v\n", err)
	}
	snapfn := opt.Prefix + SnapshotSuffix
	if err = cg.SaveFile(snapfn); err != nil {
		log.Fatalf("[COG] %v\n", err)
	}
	g, report, err := res.Build()
	if err != nil {
		log.Fatalf("[COG] %v\n", err)
	}
	logReport("COG", report)
	if err = WriteGraph(g, rs.Names, opt.Prefix, opt.Graph, opt.SAM); err != nil {
		log.Fatalf("[COG] %v\n", err)
	}
	log.Printf("[COG] snapshot written to %s, total took %v\n", snapfn, time.Since(t0))
}
