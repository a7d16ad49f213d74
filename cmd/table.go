package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/ruvdl/ruvdl/color"
	"github.com/ruvdl/ruvdl/icon"
	"github.com/ruvdl/ruvdl/series"
	"github.com/ruvdl/ruvdl/style"
	"github.com/ruvdl/ruvdl/util"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func outcomeIcon(outcome series.Outcome) string {
	switch outcome {
	case series.Downloaded:
		return icon.Get(icon.Download)
	case series.Recorded:
		return icon.Get(icon.Success)
	case series.Skipped:
		return icon.Get(icon.Skip)
	case series.DownloadFailed:
		return icon.Get(icon.Warn)
	default:
		return icon.Get(icon.Fail)
	}
}

func size(n int64) string {
	if n <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(n))
}

// printReport writes the per-episode summary of a run.
func printReport(w io.Writer, report *series.Report) {
	rows := make([][]string, 0, len(report.Episodes))
	for _, e := range report.Episodes {
		detail := e.Path
		if e.Err != nil {
			detail = util.Ellipsize(e.Err.Error(), 60, 60)
		}

		rows = append(rows, []string{
			strconv.Itoa(e.Index + 1),
			e.Candidate.Title,
			outcomeIcon(e.Outcome) + " " + string(e.Outcome),
			e.Method,
			size(e.Size),
			detail,
		})
	}

	fmt.Fprintf(w, "%s %s\n", icon.Get(icon.Series), style.Tag(report.Series.Title))
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Episode", "Outcome", "Method", "Size", "Path"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))

	fmt.Fprintf(w, "%s %s, %s, %s in %s\n",
		style.Faint(report.RunID),
		style.Fg(color.Green)(util.Quantify(report.Count(series.Downloaded), "download", "downloads")),
		style.Fg(color.Yellow)(fmt.Sprintf("%d skipped", report.Count(series.Skipped))),
		style.Fg(color.Red)(util.Quantify(len(report.Failures()), "failure", "failures")),
		report.Duration().Round(time.Millisecond),
	)

	for _, path := range report.Manifests {
		fmt.Fprintf(w, "%s wrote %s\n", icon.Get(icon.Success), path)
	}
}
