package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Ledger is an ordered, in-memory collection of transactions. Insertion
// order is preserved and every aggregate is recomputed from the current
// contents on each call.
type Ledger struct {
	txns []*model.Transaction
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Add appends a transaction. Input is not validated here.
func (l *Ledger) Add(t *model.Transaction) {
	if t == nil {
		return
	}
	l.txns = append(l.txns, t)
}

// Remove drops the first slot holding exactly t (pointer identity, not
// field equality). It reports whether a slot was removed; a miss leaves
// the ledger unchanged.
func (l *Ledger) Remove(t *model.Transaction) bool {
	for i, cur := range l.txns {
		if cur == t {
			l.txns = append(l.txns[:i:i], l.txns[i+1:]...)
			return true
		}
	}
	return false
}

// List returns a snapshot of the transactions in insertion order.
func (l *Ledger) List() []*model.Transaction {
	out := make([]*model.Transaction, len(l.txns))
	copy(out, l.txns)
	return out
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.txns)
}

// Replace clears the ledger and appends every transaction in txns.
func (l *Ledger) Replace(txns []*model.Transaction) {
	l.txns = l.txns[:0:0]
	for _, t := range txns {
		l.Add(t)
	}
}

// Balance is the sum of all amounts.
func (l *Ledger) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, t := range l.txns {
		total = total.Add(t.Amount)
	}
	return total
}

// TotalIncome sums the strictly positive amounts.
func (l *Ledger) TotalIncome() decimal.Decimal {
	total := decimal.Zero
	for _, t := range l.txns {
		if t.IsIncome() {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TotalExpense sums the strictly negative amounts. The result keeps the
// sign convention and is therefore zero or negative.
func (l *Ledger) TotalExpense() decimal.Decimal {
	total := decimal.Zero
	for _, t := range l.txns {
		if t.IsExpense() {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// IncomeByCategory sums income amounts per category. Categories without
// income are absent.
func (l *Ledger) IncomeByCategory() map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, t := range l.txns {
		if t.IsIncome() {
			sums[t.Category] = sums[t.Category].Add(t.Amount)
		}
	}
	return sums
}

// ExpenseByCategory sums expense magnitudes (absolute values) per
// category. Categories without expenses are absent.
func (l *Ledger) ExpenseByCategory() map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, t := range l.txns {
		if t.IsExpense() {
			sums[t.Category] = sums[t.Category].Add(t.Amount.Abs())
		}
	}
	return sums
}

// Summary holds the headline totals of a ledger.
type Summary struct {
	Count   int
	Income  decimal.Decimal
	Expense decimal.Decimal // zero or negative
	Balance decimal.Decimal
}

// Summary computes count, income, expense and balance in one pass.
func (l *Ledger) Summary() Summary {
	s := Summary{
		Count:   len(l.txns),
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		Balance: decimal.Zero,
	}
	for _, t := range l.txns {
		s.Balance = s.Balance.Add(t.Amount)
		switch t.Kind() {
		case model.KindIncome:
			s.Income = s.Income.Add(t.Amount)
		case model.KindExpense:
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	return s
}

// CategoryShare is one slice of a per-category breakdown.
type CategoryShare struct {
	Category string
	Total    decimal.Decimal // magnitude, always positive
	Share    decimal.Decimal // percent of the kind's total, 2 places
}

var hundred = decimal.NewFromInt(100)

// Breakdown returns the per-category totals for kind, largest first,
// with each category's percentage of the whole.
func (l *Ledger) Breakdown(kind model.Kind) []CategoryShare {
	var sums map[string]decimal.Decimal
	switch kind {
	case model.KindIncome:
		sums = l.IncomeByCategory()
	case model.KindExpense:
		sums = l.ExpenseByCategory()
	default:
		return nil
	}

	grand := decimal.Zero
	for _, v := range sums {
		grand = grand.Add(v)
	}

	shares := make([]CategoryShare, 0, len(sums))
	for cat, v := range sums {
		share := decimal.Zero
		if !grand.IsZero() {
			share = v.Mul(hundred).Div(grand).Round(2)
		}
		shares = append(shares, CategoryShare{Category: cat, Total: v, Share: share})
	}
	sort.Slice(shares, func(i, j int) bool {
		if c := shares[i].Total.Cmp(shares[j].Total); c != 0 {
			return c > 0
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}
