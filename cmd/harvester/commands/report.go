package commands

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/usecase"
)

func renderBatches(w io.Writer, results []entity.BatchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Seed", "Stop", "Pages", "Records"})

	records := 0
	for _, r := range results {
		t.AppendRow(table.Row{formatSeed(r.Seed), r.Stop, r.Pages, len(r.Records)})
		records += len(r.Records)
	}
	t.AppendFooter(table.Row{"", "", "Total", records})

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderConsolidation(w io.Writer, report *usecase.ConsolidationReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Source", "Status", "Items"})

	for _, s := range report.Sources {
		t.AppendRow(table.Row{s.Path, s.Status, s.Items})
	}
	t.AppendFooter(table.Row{"Unique", report.Unique, ""})
	t.AppendFooter(table.Row{"Written", report.Written, report.Output})

	t.SetStyle(table.StyleRounded)
	t.Render()
}
