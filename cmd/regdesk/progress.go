package main

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// reporter gives feedback while batches of detail records are fetched.
type reporter interface {
	Start(total int, what string)
	Add(n int)
	Finish()
}

// newReporter returns a progress bar on interactive terminals and line
// output under CI.
func newReporter(w io.Writer) reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &lineReporter{w: w}
	}
	return &barReporter{w: w}
}

type barReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *barReporter) Start(total int, what string) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(what),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *barReporter) Add(n int) {
	if r.bar != nil {
		_ = r.bar.Add(n)
	}
}

func (r *barReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

type lineReporter struct {
	w     io.Writer
	what  string
	done  int
	total int
}

func (r *lineReporter) Start(total int, what string) {
	r.what, r.total, r.done = what, total, 0
	fmt.Fprintf(r.w, "%s: %d to fetch\n", what, total)
}

func (r *lineReporter) Add(n int) {
	r.done += n
	fmt.Fprintf(r.w, "[%d/%d] %s\n", r.done, r.total, r.what)
}

func (r *lineReporter) Finish() {
	fmt.Fprintf(r.w, "%s: done\n", r.what)
}
