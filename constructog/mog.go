package constructog

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jwaldrip/odin/cli"

	"github.com/mudesheng/oga/asmgraph"
	"github.com/mudesheng/oga/utils"
)

// MergeSnapshots merges the snapshots fns, built over the same reads, into
// the first one and cleans the result.
func MergeSnapshots(fns []string) (*asmgraph.CompactGraph, error) {
	if len(fns) == 0 {
		return nil, fmt.Errorf("[MergeSnapshots] no snapshot to merge")
	}
	cg, err := asmgraph.LoadFile(fns[0])
	if err != nil {
		return nil, err
	}
	for _, fn := range fns[1:] {
		other, err := asmgraph.LoadFile(fn)
		if err != nil {
			return nil, err
		}
		if err = cg.Merge(other); err != nil {
			return nil, fmt.Errorf("[MergeSnapshots] %s: %w", fn, err)
		}
	}
	if err = cg.RemoveEmbedded(); err != nil {
		return nil, err
	}
	cg.RemoveDuplicateEmbeddings()
	return cg, nil
}

func splitList(s string) (l []string) {
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			l = append(l, f)
		}
	}
	return
}

// MergeOG merges overlap graph snapshots of partial runs.
func MergeOG(c cli.Command) {
	gOpt, suc := utils.CheckGlobalArgs(c.Parent())
	if !suc {
		log.Fatalf("[MergeOG] check global Arguments error, opt: %v\n", gOpt)
	}
	opt, suc := checkArgs(c)
	if !suc {
		log.Fatalf("[MergeOG] check Arguments error, opt: %v\n", opt)
	}
	opt.ArgsOpt = gOpt
	fns := splitList(c.Flag("Snapshots").String())
	if len(fns) == 0 {
		log.Fatalf("[MergeOG] argument 'Snapshots' not set\n")
	}
	t0 := time.Now()
	cg, err := MergeSnapshots(fns)
	if err != nil {
		log.Fatalf("[MergeOG] %v\n", err)
	}
	log.Printf("[MergeOG] merged %d snapshots: %s reads, %s edges, %s embedded\n", len(fns),
		humanize.Comma(int64(cg.NumSeqs())), humanize.Comma(int64(cg.NumEdges())), humanize.Comma(int64(cg.NumEmbedded())))
	snapfn := opt.Prefix + ".merged" + SnapshotSuffix
	if err = cg.SaveFile(snapfn); err != nil {
		log.Fatalf("[MergeOG] %v\n", err)
	}
	g, report, err := cg.Build()
	if err != nil {
		log.Fatalf("[MergeOG] %v\n", err)
	}
	logReport("MergeOG", report)
	if err = WriteGraph(g, cg.Names(), opt.Prefix+".merged", opt.Graph, opt.SAM); err != nil {
		log.Fatalf("[MergeOG] %v\n", err)
	}
	log.Printf("[MergeOG] snapshot written to %s, took %v\n", snapfn, time.Since(t0))
}
