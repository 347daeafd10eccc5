package ledgerfile

import (
	"fmt"
	"strings"
)

// Schema selects which of the two on-disk layouts a Codec reads and
// writes. The layouts differ only in field count; files carry no marker,
// so a reader must be configured for the layout the file was written in.
type Schema int

const (
	// Categorized rows are date,description,amount,category.
	Categorized Schema = iota
	// Basic rows are date,description,amount.
	Basic
)

const (
	// HeaderBasic is the header line of a 3-field ledger file.
	HeaderBasic = "date,description,amount"
	// HeaderCategorized is the header line of a 4-field ledger file.
	HeaderCategorized = "date,description,amount,category"
)

const (
	colDate     = 0
	colDesc     = 1
	colAmount   = 2
	colCategory = 3
)

// Fields returns the number of fields per row.
func (s Schema) Fields() int {
	if s == Basic {
		return 3
	}
	return 4
}

// Header returns the header line, without a terminator.
func (s Schema) Header() string {
	if s == Basic {
		return HeaderBasic
	}
	return HeaderCategorized
}

func (s Schema) String() string {
	if s == Basic {
		return "basic"
	}
	return "categorized"
}

// ParseSchema parses "basic" or "categorized". An empty string selects
// Categorized.
func ParseSchema(s string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "categorized":
		return Categorized, nil
	case "basic":
		return Basic, nil
	}
	return Categorized, fmt.Errorf("unknown ledger schema %q (want basic or categorized)", s)
}
