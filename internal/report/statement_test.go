package report

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sample() *ledger.Ledger {
	l := ledger.New()
	l.Add(model.NewTransaction(date(2024, 1, 15), "Groceries", dec("-75"), "Food"))
	l.Add(model.NewTransaction(date(2024, 1, 16), "Cinema", dec("-25"), "Entertainment"))
	l.Add(model.NewTransaction(date(2024, 1, 20), "Paycheck", dec("2500"), "Salary"))
	l.Add(model.NewTransaction(date(2024, 1, 21), "Café\nlunch, \"fancy\"", dec("-12.40"), ""))
	return l
}

func TestNewStatement(t *testing.T) {
	now := date(2024, 2, 1)
	s := NewStatement(sample(), "January", now)

	assert.Equal(t, "January", s.Title)
	assert.Equal(t, now, s.Generated)
	assert.Equal(t, 4, s.Summary.Count)
	assert.True(t, s.Summary.Balance.Equal(dec("2387.60")))
	require.Len(t, s.Expense, 3)
	assert.Equal(t, "Food", s.Expense[0].Category)
	require.Len(t, s.Income, 1)
	assert.Len(t, s.Transactions, 4)
}

func TestWritePDF(t *testing.T) {
	s := NewStatement(sample(), "January", date(2024, 2, 1))

	var buf bytes.Buffer
	require.NoError(t, s.WritePDF(&buf))
	out := buf.String()
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "pdf header")
	assert.Contains(t, out, "%%EOF")
}

func TestWritePDF_EmptyLedger(t *testing.T) {
	s := NewStatement(ledger.New(), "Empty", date(2024, 2, 1))

	pdf := s.render()
	require.NoError(t, pdf.Error())
	assert.Equal(t, 1, pdf.PageNo())

	var buf bytes.Buffer
	require.NoError(t, s.WritePDF(&buf))
	assert.NotZero(t, buf.Len())
}

func TestRender_PaginatesLongLedgers(t *testing.T) {
	l := ledger.New()
	for i := 0; i < 120; i++ {
		l.Add(model.NewTransaction(date(2024, 1, 1+i%28), fmt.Sprintf("row %d", i), dec("-1"), "Food"))
	}

	pdf := NewStatement(l, "Long", date(2024, 2, 1)).render()
	require.NoError(t, pdf.Error())
	assert.Greater(t, pdf.PageNo(), 1)
}

func TestTrimTo(t *testing.T) {
	assert.Equal(t, "short", trimTo("short", 10))
	assert.Equal(t, "abcd...", trimTo("abcdefghij", 5))
	assert.Equal(t, "éé...", trimTo("ééééé", 3))
}
