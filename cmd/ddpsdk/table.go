package main

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ddpsdk/internal/metadata"
	"ddpsdk/internal/services/ddp"
	"ddpsdk/internal/staging"
)

const trackDetailWidth = 72

type column struct {
	header string
	align  text.Align
}

func left(header string) column  { return column{header: header, align: text.AlignLeft} }
func right(header string) column { return column{header: header, align: text.AlignRight} }

// renderTable draws rows under columns in the rounded style. A non-nil footer
// is rendered as a totals line.
func renderTable(columns []column, rows []table.Row, footer table.Row) string {
	if len(columns) == 0 {
		return ""
	}

	style := table.StyleRounded
	style.Format.Footer = text.FormatDefault
	tw := table.NewWriter()
	tw.SetStyle(style)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.header
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       col.align,
			AlignFooter: col.align,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	if footer != nil {
		tw.AppendFooter(footer)
	}
	tw.SetColumnConfigs(configs)

	return tw.Render() + "\n"
}

// trackTable lists the `tracks` entries of a document beside the WAV file
// name the engine writes for each.
func trackTable(meta metadata.Metadata) string {
	tracks := meta.Tracks()
	rows := make([]table.Row, 0, len(tracks))
	for i, track := range tracks {
		rows = append(rows, table.Row{i + 1, metadata.TrackFileName(i + 1), compactJSON(track, trackDetailWidth)})
	}
	return renderTable(
		[]column{right("#"), left("File"), left("Details")},
		rows,
		table.Row{"", "Total", strconv.Itoa(len(tracks)) + " tracks"},
	)
}

// trackFileTable lists verified WAV outputs with their sizes.
func trackFileTable(files []metadata.TrackFile) string {
	var total int64
	rows := make([]table.Row, 0, len(files))
	for _, f := range files {
		total += f.Size
		rows = append(rows, table.Row{f.Index, f.Name, humanize.IBytes(uint64(f.Size))})
	}
	return renderTable(
		[]column{right("#"), left("File"), right("Size")},
		rows,
		table.Row{"", "Total", humanize.IBytes(uint64(total))},
	)
}

// stagingTable lists staging directories with age relative to now.
func stagingTable(dirs []staging.DirInfo, now time.Time) string {
	var total int64
	rows := make([]table.Row, 0, len(dirs))
	for _, dir := range dirs {
		total += dir.Size
		rows = append(rows, table.Row{
			dir.Name,
			formatAge(now.Sub(dir.ModTime)),
			humanize.IBytes(uint64(dir.Size)),
			yesNo(dir.InUse),
		})
	}
	return renderTable(
		[]column{left("Directory"), right("Age"), right("Size"), left("In use")},
		rows,
		table.Row{strconv.Itoa(len(dirs)) + " directories", "", humanize.IBytes(uint64(total)), ""},
	)
}

// historyTable lists journal records newest first, as stored.
func historyTable(records []ddp.Record) string {
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, table.Row{
			rec.StartedAt.Local().Format(time.DateTime),
			rec.Operation,
			string(rec.Outcome),
			rec.ExitCode,
			rec.TrackCount,
			rec.Duration.Round(time.Millisecond).String(),
			rec.Input,
		})
	}
	return renderTable(
		[]column{left("Started"), left("Operation"), left("Outcome"), right("Exit"), right("Tracks"), right("Duration"), left("Input")},
		rows,
		nil,
	)
}

// formatAge renders a coarse age: minutes, then hours, then days.
func formatAge(d time.Duration) string {
	d = d.Truncate(time.Minute)
	switch {
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + "m"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d.Hours())) + "h"
	default:
		return strconv.Itoa(int(d.Hours()/24)) + "d"
	}
}
