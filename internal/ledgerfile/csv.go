package ledgerfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tally-dev/tally/internal/logging"
	"github.com/tally-dev/tally/internal/model"
)

const (
	dateFormat = "2006-01-02"
	delimiter  = ','
	quote      = '"'
)

// Codec converts transactions to and from the delimited ledger format.
type Codec struct {
	Schema Schema
	Log    logrus.FieldLogger
}

// NewCodec returns a Codec for schema. A nil logger discards output.
func NewCodec(schema Schema, log logrus.FieldLogger) *Codec {
	return &Codec{Schema: schema, Log: log}
}

func (c *Codec) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logging.Discard()
	}
	return c.Log
}

// Write emits the header followed by one line per transaction.
func (c *Codec) Write(w io.Writer, txns []*model.Transaction) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(c.Schema.Header() + "\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if _, err := bw.WriteString(c.MarshalRow(t) + "\n"); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing ledger: %w", err)
	}
	return nil
}

// MarshalRow renders one transaction as a single ledger line (no terminator).
// Line breaks in free text become spaces.
func (c *Codec) MarshalRow(t *model.Transaction) string {
	fields := make([]string, c.Schema.Fields())
	fields[colDate] = t.Date.Format(dateFormat)
	fields[colDesc] = escapeField(model.SingleLine(t.Description))
	fields[colAmount] = t.Amount.String()
	if c.Schema == Categorized {
		fields[colCategory] = escapeField(model.SingleLine(t.Category))
	}
	return strings.Join(fields, string(delimiter))
}

// escapeField quotes a field containing the delimiter or a quote, doubling
// any internal quotes. Other fields pass through.
func escapeField(s string) string {
	if !strings.ContainsAny(s, `,"`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Read decodes a ledger stream. The first record is treated as the header
// and ignored. Records with the wrong number of fields are skipped; a bad
// date or amount in any other record fails the whole read with a
// *FormatError.
func (c *Codec) Read(r io.Reader) ([]*model.Transaction, error) {
	rr := newRecordReader(r)

	if _, _, err := rr.next(); err != nil {
		if errors.Is(err, io.EOF) {
			return []*model.Transaction{}, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	want := c.Schema.Fields()
	txns := []*model.Transaction{}
	for {
		fields, line, err := rr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}

		if len(fields) != want {
			c.logger().WithFields(logrus.Fields{
				"line":   line,
				"fields": len(fields),
				"want":   want,
			}).Warn("skipping ledger row with wrong field count")
			continue
		}

		t, err := c.UnmarshalRow(fields, line)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// UnmarshalRow converts the fields of one record into a Transaction. line
// is only used for error reporting.
func (c *Codec) UnmarshalRow(fields []string, line int) (*model.Transaction, error) {
	if len(fields) != c.Schema.Fields() {
		return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, c.Schema.Fields(), len(fields))
	}

	date, err := time.Parse(dateFormat, fields[colDate])
	if err != nil {
		return nil, &FormatError{Line: line, Field: "date", Value: fields[colDate], Err: err}
	}

	amount, err := decimal.NewFromString(fields[colAmount])
	if err != nil {
		return nil, &FormatError{Line: line, Field: "amount", Value: fields[colAmount], Err: err}
	}

	var category string
	if c.Schema == Categorized {
		category = fields[colCategory]
	}

	return model.NewTransaction(date, fields[colDesc], amount, category), nil
}

// recordReader splits a stream into one record per line. A delimiter
// inside a quoted span belongs to the field and "" inside a span is a
// literal quote. A span never crosses a line break: an unterminated quote
// ends with its line.
type recordReader struct {
	r     *bufio.Reader
	lines int // lines consumed so far
}

func newRecordReader(r io.Reader) *recordReader {
	return &recordReader{r: bufio.NewReader(r)}
}

// next returns the fields of the next record and its 1-based line number.
// It returns io.EOF once the stream is exhausted.
func (rr *recordReader) next() ([]string, int, error) {
	var (
		fields  []string
		field   strings.Builder
		quoted  bool
		started bool
	)
	line := rr.lines + 1

	for {
		ch, _, err := rr.r.ReadRune()
		if errors.Is(err, io.EOF) {
			if !started {
				return nil, line, io.EOF
			}
			rr.lines++
			return append(fields, field.String()), line, nil
		}
		if err != nil {
			return nil, line, err
		}
		started = true

		switch {
		case ch == '\n':
			rr.lines++
			return append(fields, field.String()), line, nil
		case ch == '\r':
			if next, _ := rr.r.Peek(1); len(next) == 1 && next[0] == '\n' {
				continue
			}
			field.WriteRune(ch)
		case quoted && ch == quote:
			if next, _ := rr.r.Peek(1); len(next) == 1 && next[0] == quote {
				_, _ = rr.r.ReadByte()
				field.WriteRune(quote)
			} else {
				quoted = false
			}
		case quoted:
			field.WriteRune(ch)
		case ch == quote:
			quoted = true
		case ch == delimiter:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(ch)
		}
	}
}
