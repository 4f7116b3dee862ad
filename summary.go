package main

import (
	"fmt"
	"math"
	"strings"
)

// RunSummary describes a completed level for the completion panel and the
// clipboard.
type RunSummary struct {
	Level   string
	Elapsed float64
	Deaths  int
	Jumps   int
	Best    float64 // zero when unknown
}

func (s RunSummary) Details() string {
	lines := []string{
		fmt.Sprintf("Time   %s", formatSeconds(s.Elapsed)),
		fmt.Sprintf("Deaths %d", s.Deaths),
		fmt.Sprintf("Jumps  %d", s.Jumps),
	}
	if s.Best > 0 {
		lines = append(lines, fmt.Sprintf("Best   %s", formatSeconds(s.Best)))
	}
	return strings.Join(lines, "\n")
}

func (s RunSummary) String() string {
	return fmt.Sprintf("dashrunner %s: %s, %d deaths, %d jumps", s.Level, formatSeconds(s.Elapsed), s.Deaths, s.Jumps)
}

// formatSeconds renders seconds as m:ss.cc.
func formatSeconds(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	centis := int(math.Round(sec * 100))
	return fmt.Sprintf("%d:%02d.%02d", centis/6000, centis/100%60, centis%100)
}
