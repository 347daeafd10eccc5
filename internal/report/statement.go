// Package report renders a ledger as a printable PDF statement.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/categories"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/model"
)

const (
	pageBreakY = 270.0
	barWidth   = 80.0
	rowHeight  = 7.0
	maxDescLen = 60
)

var (
	expenseColor = [3]int{214, 69, 65}
	incomeColor  = [3]int{46, 139, 87}
)

// Statement is a point-in-time snapshot of a ledger ready to render.
type Statement struct {
	Title        string
	Generated    time.Time
	Summary      ledger.Summary
	Expense      []ledger.CategoryShare
	Income       []ledger.CategoryShare
	Transactions []*model.Transaction
}

// NewStatement captures the aggregates and rows of l.
func NewStatement(l *ledger.Ledger, title string, now time.Time) *Statement {
	return &Statement{
		Title:        title,
		Generated:    now,
		Summary:      l.Summary(),
		Expense:      l.Breakdown(model.KindExpense),
		Income:       l.Breakdown(model.KindIncome),
		Transactions: l.List(),
	}
}

// WritePDF renders the statement and writes the PDF to w.
func (s *Statement) WritePDF(w io.Writer) error {
	pdf := s.render()
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func (s *Statement) render() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetTitle(s.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(s.Title))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, fmt.Sprintf("%d transactions, generated %s", s.Summary.Count, s.Generated.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	s.renderSummary(pdf)
	s.renderBreakdown(pdf, tr, "Expenses by category", s.Expense, expenseColor)
	s.renderBreakdown(pdf, tr, "Income by category", s.Income, incomeColor)
	s.renderTransactions(pdf, tr)

	return pdf
}

func (s *Statement) renderSummary(pdf *gofpdf.Fpdf) {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{60, 60, 60}
	pdf.CellFormat(sumW[0], 10, "Total income", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Total expense", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Balance", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, s.Summary.Income.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, s.Summary.Expense.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, s.Summary.Balance.StringFixed(2), "1", 1, "C", false, 0, "")
	pdf.Ln(6)
}

// renderBreakdown draws one horizontal bar per category, scaled to its
// share of the kind's total.
func (s *Statement) renderBreakdown(pdf *gofpdf.Fpdf, tr func(string) string, heading string, shares []ledger.CategoryShare, color [3]int) {
	if len(shares) == 0 {
		return
	}
	ensureSpace(pdf, rowHeight*2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(20, 20, 20)
	pdf.Cell(0, 8, heading)
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 9)
	for _, sh := range shares {
		ensureSpace(pdf, rowHeight)
		x, y := pdf.GetX(), pdf.GetY()

		pdf.CellFormat(45, rowHeight, tr(trimTo(categories.Label(sh.Category), 28)), "", 0, "L", false, 0, "")
		w := barWidth * sh.Share.Div(decimal.NewFromInt(100)).InexactFloat64()
		if w > 0 {
			pdf.SetFillColor(color[0], color[1], color[2])
			pdf.Rect(x+45, y+1.5, w, rowHeight-3, "F")
		}
		pdf.SetX(x + 45 + barWidth + 4)
		pdf.CellFormat(28, rowHeight, sh.Total.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(20, rowHeight, sh.Share.StringFixed(2)+"%", "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func (s *Statement) renderTransactions(pdf *gofpdf.Fpdf, tr func(string) string) {
	if len(s.Transactions) == 0 {
		return
	}
	ensureSpace(pdf, rowHeight*3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(20, 20, 20)
	pdf.Cell(0, 8, "Transactions")
	pdf.Ln(9)

	colW := []float64{12, 24, 90, 30, 26}
	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(colW[0], rowHeight, "#", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], rowHeight, "DATE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[2], rowHeight, "DESCRIPTION", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[3], rowHeight, "CATEGORY", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[4], rowHeight, "AMOUNT", "1", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	for i, t := range s.Transactions {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
			header()
		}
		pdf.CellFormat(colW[0], rowHeight, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], rowHeight, t.Date.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], rowHeight, tr(trimTo(model.SingleLine(t.Description), maxDescLen)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], rowHeight, tr(trimTo(categories.Label(t.Category), 18)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[4], rowHeight, t.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}
}

func ensureSpace(pdf *gofpdf.Fpdf, h float64) {
	if pdf.GetY()+h > pageBreakY {
		pdf.AddPage()
	}
}

func trimTo(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "..."
}
