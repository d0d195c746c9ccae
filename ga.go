package main

import (
	"github.com/jwaldrip/odin/cli"

	"github.com/mudesheng/oga/constructog"
)

var app = cli.New("1.0.0", "Overlap Graph Assembler: overlap and containment graph of long reads", func(c cli.Command) {})

func init() {
	app.DefineStringFlag("C", "ga.cfg", "configure file")
	app.DefineStringFlag("cpuprofile", "", "write cpu profile to file")
	app.DefineIntFlag("K", 0, "seed length, 0 derive from the error rates of the configure file")
	app.DefineStringFlag("p", "./og", "prefix of the output file")
	app.DefineIntFlag("t", 1, "number of CPU used")
	cog := app.DefineSubCommand("cog", "construct overlap graph", constructog.COG)
	{
		cog.DefineIntFlag("SeqProfile", 0, "only use libraries of this seq_profile, 0 for all[0|1|2|3]")
		cog.DefineBoolFlag("Graph", false, "output dot graph file")
		cog.DefineBoolFlag("SAM", false, "output embedded reads as SAM")
		cog.DefineBoolFlag("Progress", true, "show scan progress bar")
	}
	mog := app.DefineSubCommand("mog", "merge overlap graph snapshots built over the same reads", constructog.MergeOG)
	{
		mog.DefineStringFlag("Snapshots", "", "comma separated *.og.zst snapshot files")
		mog.DefineBoolFlag("Graph", false, "output dot graph file")
		mog.DefineBoolFlag("SAM", false, "output embedded reads as SAM")
	}
	stat := app.DefineSubCommand("stat", "statistics of an overlap graph snapshot", constructog.StatOG)
	{
		stat.DefineStringFlag("Snapshot", "", "*.og.zst snapshot file")
	}
}

func main() {
	app.Start()
}
