// Package export renders dashboard data as spreadsheet workbooks.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/ticket-dashboard/internal/analytics"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

const (
	ReportSheet  = "Report"
	MonthlySheet = "Monthly"
	BacklogSheet = "Backlog"
)

// ReportInput bundles what the report workbook shows.
type ReportInput struct {
	Title       string
	GeneratedAt time.Time
	Filter      domain.Filter
	Report      analytics.Report
	ByMonth     []analytics.Count
}

// WriteReport renders the executive report and the monthly series to w as .xlsx.
func WriteReport(w io.Writer, in ReportInput) error {
	f, err := ReportWorkbook(in)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReportWorkbook builds the workbook in memory.
func ReportWorkbook(in ReportInput) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{BacklogSheet, MonthlySheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	b := &sheetWriter{f: f, bold: bold}
	writeReportSheet(b, in)
	writeBacklogSheet(b, in.Report.Backlog)
	writeMonthlySheet(b, in.ByMonth)
	if b.err != nil {
		f.Close()
		return nil, b.err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeReportSheet(b *sheetWriter, in ReportInput) {
	s := ReportSheet
	title := in.Title
	if title == "" {
		title = "Support executive report"
	}
	b.row(s, 1, true, title)
	b.row(s, 2, false, "Generated", in.GeneratedAt.Format(time.RFC3339))
	b.row(s, 3, false, "Filter", in.Filter.Key())

	r := in.Report
	current, previous := "n/a", "n/a"
	if r.CurrentMonth != nil {
		current = r.CurrentMonth.Label
	}
	if r.PreviousMonth != nil {
		previous = r.PreviousMonth.Label
	}
	b.row(s, 4, false, "Current month", current)
	b.row(s, 5, false, "Previous month", previous)

	b.row(s, 7, true, "Metric", "Value", "Change vs previous (%)", "Health")
	line := 8
	for _, m := range r.Metrics {
		var delta any = ""
		if m.Delta != nil {
			delta = math.Round(*m.Delta*10) / 10
		}
		b.row(s, line, false, m.Label, m.Value, delta, string(m.Health))
		line++
	}

	line++
	b.row(s, line, true, "Insights")
	for _, insight := range r.Insights {
		line++
		b.row(s, line, false, insight)
	}
	b.width(s, "A", 40)
	b.width(s, "B", 18)
	b.width(s, "C", 24)
}

func writeBacklogSheet(b *sheetWriter, backlog []analytics.BacklogStatus) {
	s := BacklogSheet
	b.row(s, 1, true, "Status", "Tickets", "Keys")
	for i, item := range backlog {
		b.row(s, i+2, false, item.Status, item.Count, strings.Join(item.Keys, ", "))
	}
	b.width(s, "A", 24)
	b.width(s, "C", 60)
}

func writeMonthlySheet(b *sheetWriter, months []analytics.Count) {
	s := MonthlySheet
	b.row(s, 1, true, "Month", "Label", "Tickets")
	for i, m := range months {
		b.row(s, i+2, false, m.Label, domain.MonthLabel(m.Label), m.Count)
	}
	b.width(s, "B", 20)
}

// sheetWriter keeps the first error so the layout code stays linear.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (b *sheetWriter) row(sheet string, row int, header bool, values ...any) {
	if b.err != nil || len(values) == 0 {
		return
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			b.err = err
			return
		}
		if err := b.f.SetCellValue(sheet, cell, v); err != nil {
			b.err = err
			return
		}
	}
	if header {
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(values), row)
		b.err = b.f.SetCellStyle(sheet, first, last, b.bold)
	}
}

func (b *sheetWriter) width(sheet, col string, w float64) {
	if b.err != nil {
		return
	}
	b.err = b.f.SetColWidth(sheet, col, col, w)
}
