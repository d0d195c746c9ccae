package constructog

import (
	"os"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progressBar reports the scanned reference sequences on stderr.
type progressBar struct {
	pbs *mpb.Progress
	bar *mpb.Bar
}

func newProgressBar(total int) *progressBar {
	pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := pbs.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("scanned reads: ", decor.WC{W: len("scanned reads: "), C: decor.DindentRight}),
			decor.Name("", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.AverageETA(decor.ET_STYLE_GO),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	return &progressBar{pbs: pbs, bar: bar}
}

func (p *progressBar) Scanned(done, total int) {
	p.bar.SetCurrent(int64(done))
}

// Wait finishes the bar, also when nothing was scanned.
func (p *progressBar) Wait() {
	p.bar.SetTotal(-1, true)
	p.pbs.Wait()
}
