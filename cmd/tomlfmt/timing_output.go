package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"tomlfmt/internal/observ"
)

var timingHeader = color.New(color.Faint)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	report := timer.Report()
	if len(report.Phases) == 0 {
		return
	}
	fmt.Fprint(out, timingHeader.Sprint(timer.Summary()))
}
