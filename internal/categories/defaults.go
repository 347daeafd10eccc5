package categories

import "github.com/tally-dev/tally/internal/model"

// Uncategorized is the display label for transactions with no category.
const Uncategorized = "(uncategorized)"

// DefaultExpense returns the built-in expense categories.
func DefaultExpense() []string {
	return []string{"Food", "Clothing", "Entertainment", "Bills", "Travel", "Shopping"}
}

// DefaultIncome returns the built-in income categories.
func DefaultIncome() []string {
	return []string{"Salary", "Freelance", "Investment", "Other Income"}
}

// Defaults returns a non-strict catalog of the built-in categories.
func Defaults() *Catalog {
	return New(map[model.Kind][]string{
		model.KindExpense: DefaultExpense(),
		model.KindIncome:  DefaultIncome(),
	}, false)
}

// Label returns name, or Uncategorized when name is empty.
func Label(name string) string {
	if name == "" {
		return Uncategorized
	}
	return name
}
