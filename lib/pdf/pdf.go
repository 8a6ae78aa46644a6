package pdf

import (
	"bytes"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

type Column struct {
	Header string
	Width  float64
	// Align is L, C or R
	Align string
}

type Table struct {
	Title   string
	Columns []Column
	Rows    [][]string
	Footer  []string
}

type Document struct {
	Organisation string
	Address      string
	Title        string
	Subtitle     string
	Tables       []Table
	Notes        []string
	GeneratedAt  time.Time
}

const (
	rowHeight  = 7.0
	pageBottom = 270.0
)

// Render lays the document out on A4 portrait pages.
func Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(false, 14)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(strings.ToUpper(doc.Organisation)), "", 1, "C", false, 0, "")
	if doc.Address != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, tr(doc.Address), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, tr(doc.Title), "", 1, "C", false, 0, "")
	if doc.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(80, 80, 80)
		pdf.CellFormat(0, 6, tr(doc.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetDrawColor(200, 200, 200)
	for _, t := range doc.Tables {
		if t.Title != "" {
			if pdf.GetY() > pageBottom-2*rowHeight {
				pdf.AddPage()
			}
			pdf.SetTextColor(20, 20, 20)
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(0, rowHeight, tr(t.Title), "", 1, "L", false, 0, "")
		}
		header := func() {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.SetTextColor(20, 20, 20)
			for i, c := range t.Columns {
				ln := 0
				if i == len(t.Columns)-1 {
					ln = 1
				}
				pdf.CellFormat(c.Width, rowHeight+1, tr(c.Header), "1", ln, "C", true, 0, "")
			}
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(30, 30, 30)
		}
		header()
		for _, row := range t.Rows {
			if pdf.GetY() > pageBottom {
				pdf.AddPage()
				header()
			}
			writeRow(pdf, tr, t.Columns, row, false)
		}
		if len(t.Footer) > 0 {
			pdf.SetFont("Helvetica", "B", 9)
			writeRow(pdf, tr, t.Columns, t.Footer, true)
		}
		pdf.Ln(5)
	}

	if len(doc.Notes) > 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(160, 40, 40)
		for _, n := range doc.Notes {
			pdf.MultiCell(0, 5, tr(n), "", "L", false)
		}
	}

	generated := doc.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Dijana pada "+generated.Format("02/01/2006 15:04"), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(pdf *gofpdf.Fpdf, tr func(string) string, columns []Column, row []string, fill bool) {
	if fill {
		pdf.SetFillColor(235, 235, 235)
	}
	for i, c := range columns {
		value := ""
		if i < len(row) {
			value = row[i]
		}
		ln := 0
		if i == len(columns)-1 {
			ln = 1
		}
		align := c.Align
		if align == "" {
			align = "L"
		}
		pdf.CellFormat(c.Width, rowHeight, tr(fit(pdf, value, c.Width-2)), "1", ln, align, fill, 0, "")
	}
}

// fit shortens s until it fits in width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	s = strings.TrimSpace(s)
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// Money formats an amount with thousands separators and two decimals.
// Negative amounts are shown in brackets.
func Money(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if neg {
		return "(" + out + ")"
	}
	return out
}

// MoneyOrBlank leaves zero amounts empty, the way cash book columns are printed.
func MoneyOrBlank(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return Money(d)
}
