package services

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"
)

// ActivityReport counts what happened on the site during one day
type ActivityReport struct {
	Date         time.Time `json:"date"`
	NewUsers     int64     `json:"new_users"`
	BooksCreated int64     `json:"books_created"`
	OrdersPlaced int64     `json:"orders_placed"`
	ReviewsAdded int64     `json:"reviews_added"`
	Logs         *LogStats `json:"logs"`
}

type reportLine struct {
	label string
	value string
}

func (r *ActivityReport) lines() []reportLine {
	lines := []reportLine{
		{"New users", fmt.Sprintf("%d", r.NewUsers)},
		{"New books", fmt.Sprintf("%d", r.BooksCreated)},
		{"New orders", fmt.Sprintf("%d", r.OrdersPlaced)},
		{"New reviews", fmt.Sprintf("%d", r.ReviewsAdded)},
	}
	if r.Logs != nil {
		lines = append(lines,
			reportLine{"Errors logged", fmt.Sprintf("%d", r.Logs.TotalErrors)},
			reportLine{"Warnings logged", fmt.Sprintf("%d", r.Logs.TotalWarnings)},
			reportLine{"Successful logins", fmt.Sprintf("%d", r.Logs.LoginSuccess)},
			reportLine{"Failed logins", fmt.Sprintf("%d", r.Logs.LoginFailures)},
			reportLine{"Error log", r.Logs.ErrorLog},
			reportLine{"Warning log", r.Logs.WarningLog},
		)
	}
	return lines
}

func (r *ActivityReport) title() string {
	return "Activity report for " + r.Date.Format("2006-01-02")
}

// WriteText writes the report as plain text
func (r *ActivityReport) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", r.title()); err != nil {
		return err
	}
	for _, l := range r.lines() {
		if _, err := fmt.Fprintf(w, "%s: %s\n", l.label, l.value); err != nil {
			return err
		}
	}
	return nil
}

// WriteXLSX writes the report as an Excel workbook
func (r *ActivityReport) WriteXLSX(w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Activity Report")
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	titleCell := sheet.AddRow().AddCell()
	titleCell.SetString(r.title())
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	titleCell.SetStyle(style)
	sheet.AddRow()

	for _, l := range r.lines() {
		row := sheet.AddRow()
		row.AddCell().SetString(l.label)
		row.AddCell().SetString(l.value)
	}

	if r.Logs != nil && len(r.Logs.ErrorPatterns) > 0 {
		sheet.AddRow()
		sheet.AddRow().AddCell().SetString("Most common errors")
		for _, e := range r.Logs.TopErrors(5) {
			row := sheet.AddRow()
			row.AddCell().SetString(e.Key)
			row.AddCell().SetInt(e.Count)
		}
	}

	return file.Write(w)
}

// WritePDF writes the report as a PDF document
func (r *ActivityReport) WritePDF(w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "BOOKSTORE - "+r.title())
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	for i, l := range r.lines() {
		fill := i%2 == 0
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(50, 8, l.label, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(130, 8, l.value, "1", 0, "L", fill, 0, "")
		pdf.Ln(-1)
	}

	if r.Logs != nil && len(r.Logs.ErrorPatterns) > 0 {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 10, "Most common errors")
		pdf.Ln(10)
		pdf.SetFont("Arial", "", 10)
		for _, e := range r.Logs.TopErrors(5) {
			pdf.CellFormat(160, 8, e.Key, "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, 8, fmt.Sprintf("%d", e.Count), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	return pdf.Output(w)
}
