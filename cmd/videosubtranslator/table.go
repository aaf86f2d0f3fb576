package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"videosubtranslator/internal/app"
	"videosubtranslator/internal/language"
)

// renderStatsTable formats the pipeline statistics block shown after a run
func renderStatsTable(stats *app.Stats) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Processing Statistics")

	tw.AppendRows([]table.Row{
		{"Segments detected", strconv.Itoa(stats.Segments)},
		{"Frames processed", strconv.Itoa(stats.FramesProcessed)},
		{"Source language", language.Name(stats.SourceLanguage)},
		{"Target language", language.Name(stats.TargetLanguage)},
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})

	return tw.Render()
}
