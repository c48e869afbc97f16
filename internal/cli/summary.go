package cli

import (
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/olehluchkiv/classdiag/internal/analyzer"
)

var (
	headColor  = color.New(color.FgGreen, color.Bold)
	countColor = color.New(color.FgCyan)
	dimColor   = color.New(color.Faint)
)

// printSummary writes a one-line statistics report for res.
func printSummary(w io.Writer, res *analyzer.Result, output string) {
	size := "?"
	if n, err := safecast.Conv[uint64](res.Bytes); err == nil {
		size = humanize.Bytes(n)
	}

	s := res.Stats
	headColor.Fprintf(w, "%s ", res.Language)
	fmt.Fprintf(w, "%s classes, %s interfaces, %s records, %s structs, %s members",
		countColor.Sprint(s.Classes),
		countColor.Sprint(s.Interfaces),
		countColor.Sprint(s.Records),
		countColor.Sprint(s.Structs),
		countColor.Sprint(s.Members))
	dimColor.Fprintf(w, " from %s (%s)", pluralFiles(res.Units), size)
	fmt.Fprintln(w)

	if output != "" {
		fmt.Fprintf(w, "Wrote diagram to %s\n", output)
	}
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return humanize.Comma(int64(n)) + " files"
}
