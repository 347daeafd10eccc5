package categories

import (
	"strings"

	"github.com/tally-dev/tally/internal/model"
)

// Catalog provides lookup over the configured income and expense
// categories. When Strict is set, input validation only accepts names
// from the catalog.
type Catalog struct {
	Strict bool
	byKind map[model.Kind][]string
	index  map[model.Kind]map[string]string // lower-cased name -> canonical
}

// New creates a Catalog. Names are kept in the given order; blank and
// duplicate (case-insensitive) names are dropped.
func New(byKind map[model.Kind][]string, strict bool) *Catalog {
	c := &Catalog{
		Strict: strict,
		byKind: make(map[model.Kind][]string, len(byKind)),
		index:  make(map[model.Kind]map[string]string, len(byKind)),
	}
	for kind, names := range byKind {
		idx := make(map[string]string, len(names))
		var kept []string
		for _, n := range names {
			n = strings.TrimSpace(n)
			key := strings.ToLower(n)
			if n == "" {
				continue
			}
			if _, dup := idx[key]; dup {
				continue
			}
			idx[key] = n
			kept = append(kept, n)
		}
		c.byKind[kind] = kept
		c.index[kind] = idx
	}
	return c
}

// ByKind returns the categories for kind, in configured order.
func (c *Catalog) ByKind(kind model.Kind) []string {
	return c.byKind[kind]
}

// Lookup returns the canonical spelling of name for kind.
func (c *Catalog) Lookup(kind model.Kind, name string) (string, bool) {
	canonical, ok := c.index[kind][strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// Default returns the first category of kind, or "" if there is none.
func (c *Catalog) Default(kind model.Kind) string {
	names := c.byKind[kind]
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
