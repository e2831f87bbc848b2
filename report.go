package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	autoversion "github.com/bcomnes/autoversion/pkg"
)

const maxMessageWidth = 50

// printSummary writes a human readable report of a run to w.
func printSummary(w io.Writer, res autoversion.Result, versionFile string) {
	switch {
	case res.Status == autoversion.Failed:
		fmt.Fprintln(w, text.FgRed.Sprintf("Version update failed: %v", res.Err))
	case res.Skipped:
		fmt.Fprintln(w, text.FgYellow.Sprint("Skipping version update - commit appears to be an auto-version update"))
	case res.DryRun:
		fmt.Fprintln(w, text.FgCyan.Sprint("Dry run complete, no files were modified."))
	default:
		fmt.Fprintln(w, text.FgGreen.Sprint("Version bump successful!"))
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRow(table.Row{"Old Version", res.Old})
	if !res.Skipped {
		t.AppendRow(table.Row{"New Version", res.New})
		t.AppendRow(table.Row{"Bump Type", res.Class})
	}
	t.AppendRow(table.Row{"Version File", versionFile})
	t.AppendRow(table.Row{"Commit", truncate(firstLine(res.Message), maxMessageWidth)})
	t.AppendRow(table.Row{"Result", res.Status})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			return s[:i]
		}
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
