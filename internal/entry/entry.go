// Package entry turns raw user input into transactions, rejecting input the
// ledger must never see.
package entry

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/categories"
	"github.com/tally-dev/tally/internal/model"
)

const dateFormat = "2006-01-02"

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one Params.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Params holds raw, unparsed input for one transaction.
type Params struct {
	Date        string // YYYY-MM-DD; empty means today
	Description string
	Amount      string
	Kind        string // "income", "expense" or empty to keep the amount's sign
	Category    string
}

// Rules configures how Params are checked.
type Rules struct {
	Catalog     *categories.Catalog
	Categorized bool             // false for the 3-field layout, which stores no category
	Now         func() time.Time // defaults to time.Now
}

// Parse validates p and builds a Transaction.
func (r Rules) Parse(p Params) (*model.Transaction, error) {
	var errs ValidationErrors

	date, err := r.parseDate(p.Date)
	if err != nil {
		errs = append(errs, ValidationError{Field: "date", Message: err.Error()})
	}

	var kind model.Kind
	if strings.TrimSpace(p.Kind) != "" {
		kind, err = model.ParseKind(p.Kind)
		if err != nil {
			errs = append(errs, ValidationError{Field: "type", Message: err.Error()})
		}
	}

	amount, err := parseAmount(p.Amount)
	if err != nil {
		errs = append(errs, ValidationError{Field: "amount", Message: err.Error()})
	} else if kind != "" {
		amount = model.SignedAmount(kind, amount)
	}
	if kind == "" && err == nil {
		kind = model.KindOf(amount)
	}

	if model.HasLineBreak(p.Description) {
		errs = append(errs, ValidationError{Field: "description", Message: "must be a single line"})
	}

	category, verr := r.category(kind, p.Category)
	if verr != nil {
		errs = append(errs, *verr)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return model.NewTransaction(date, p.Description, amount, category), nil
}

// ResolveCategory checks a category given without a transaction, such as one
// applied to every imported row. The name is matched against both kinds and
// returned in its canonical spelling.
func (r Rules) ResolveCategory(name string) (string, error) {
	category, verr := r.category("", name)
	if verr != nil {
		return "", ValidationErrors{*verr}
	}
	return category, nil
}

func (r Rules) parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		return model.CalendarDate(now()), nil
	}
	d, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q, please enter a valid number", s)
	}
	return d, nil
}

func (r Rules) category(kind model.Kind, raw string) (string, *ValidationError) {
	name := strings.TrimSpace(raw)
	if model.HasLineBreak(name) {
		return "", &ValidationError{Field: "category", Message: "must be a single line"}
	}

	if !r.Categorized {
		if name != "" {
			return "", &ValidationError{Field: "category", Message: "the basic ledger layout does not store categories"}
		}
		return "", nil
	}
	if r.Catalog == nil {
		return name, nil
	}

	if name == "" {
		if kind == "" {
			return "", nil
		}
		return r.Catalog.Default(kind), nil
	}

	if kind != "" {
		if canonical, ok := r.Catalog.Lookup(kind, name); ok {
			return canonical, nil
		}
	} else {
		for _, k := range []model.Kind{model.KindExpense, model.KindIncome} {
			if canonical, ok := r.Catalog.Lookup(k, name); ok {
				return canonical, nil
			}
		}
	}

	if r.Catalog.Strict {
		msg := fmt.Sprintf("unknown category %q", name)
		if kind != "" {
			msg = fmt.Sprintf("unknown %s category %q (choose one of: %s)", kind, name, strings.Join(r.Catalog.ByKind(kind), ", "))
		}
		return "", &ValidationError{Field: "category", Message: msg}
	}
	return name, nil
}
