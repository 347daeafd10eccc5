package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction by the sign of its amount.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// ParseKind accepts "income" or "expense" in any case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	}
	return "", fmt.Errorf("unknown transaction type %q (want income or expense)", s)
}

// Transaction is one row of the ledger. Values are never mutated after
// construction; an edit is a remove followed by an add.
type Transaction struct {
	Date        time.Time       // midnight UTC, only Y-M-D is meaningful
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Category    string          // empty when the ledger has no categories
}

// NewTransaction builds a Transaction with the date truncated to a calendar day.
func NewTransaction(date time.Time, description string, amount decimal.Decimal, category string) *Transaction {
	return &Transaction{
		Date:        CalendarDate(date),
		Description: description,
		Amount:      amount,
		Category:    category,
	}
}

// IsIncome reports whether the amount is strictly positive.
func (t *Transaction) IsIncome() bool { return t.Amount.IsPositive() }

// IsExpense reports whether the amount is strictly negative.
func (t *Transaction) IsExpense() bool { return t.Amount.IsNegative() }

// Kind returns the transaction's kind, or "" for a zero amount.
func (t *Transaction) Kind() Kind { return KindOf(t.Amount) }

// KindOf classifies a signed amount, returning "" for zero.
func KindOf(amount decimal.Decimal) Kind {
	switch {
	case amount.IsPositive():
		return KindIncome
	case amount.IsNegative():
		return KindExpense
	}
	return ""
}

// CalendarDate drops the time of day and location, keeping the wall-clock Y-M-D.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SignedAmount applies the ledger sign convention to a magnitude entered
// alongside a kind: expenses become negative, income positive.
func SignedAmount(kind Kind, magnitude decimal.Decimal) decimal.Decimal {
	abs := magnitude.Abs()
	if kind == KindExpense {
		return abs.Neg()
	}
	return abs
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// HasLineBreak reports whether s contains a carriage return or newline.
func HasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}

// SingleLine replaces every line break in s with a space. Ledger records
// are one line each, so free text is flattened before it is stored.
func SingleLine(s string) string {
	return lineBreaks.Replace(s)
}
