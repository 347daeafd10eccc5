package ledgerfile

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func txn(y, m, d int, desc, amount, category string) *model.Transaction {
	return model.NewTransaction(date(y, m, d), desc, dec(amount), category)
}

func assertSameTransactions(t *testing.T, want, got []*model.Transaction) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Date.Equal(got[i].Date), "date mismatch row %d", i)
		assert.Equal(t, want[i].Description, got[i].Description, "description mismatch row %d", i)
		assert.True(t, want[i].Amount.Equal(got[i].Amount), "amount mismatch row %d: want %s, got %s", i, want[i].Amount, got[i].Amount)
		assert.Equal(t, want[i].Category, got[i].Category, "category mismatch row %d", i)
	}
}

func TestRoundTrip(t *testing.T) {
	txns := []*model.Transaction{
		txn(2024, 1, 15, "Groceries", "-42.50", "Food"),
		txn(2024, 1, 20, "Paycheck", "2500.00", "Salary"),
		txn(2024, 1, 21, `Lunch, "fancy" place`, "-18.75", "Food"),
		txn(2024, 1, 22, "", "0", ""),
		txn(2024, 1, 23, `"`, "-1", `Bills, utilities`),
		txn(2024, 1, 24, "Refund", "0.123456789", "Other Income"),
	}

	codec := NewCodec(Categorized, nil)
	var buf bytes.Buffer
	require.NoError(t, codec.Write(&buf, txns))

	assert.True(t, strings.HasPrefix(buf.String(), HeaderCategorized+"\n"))

	got, err := codec.Read(&buf)
	require.NoError(t, err)
	assertSameTransactions(t, txns, got)
}

func TestRoundTripBasicSchema(t *testing.T) {
	txns := []*model.Transaction{
		txn(2024, 2, 1, "Rent, February", "-1200", ""),
		txn(2024, 2, 2, "Salary", "3000.01", ""),
	}

	codec := NewCodec(Basic, nil)
	var buf bytes.Buffer
	require.NoError(t, codec.Write(&buf, txns))
	assert.True(t, strings.HasPrefix(buf.String(), HeaderBasic+"\n"))

	got, err := codec.Read(&buf)
	require.NoError(t, err)
	assertSameTransactions(t, txns, got)
}

func TestWriteFlattensLineBreaks(t *testing.T) {
	txns := []*model.Transaction{
		txn(2024, 3, 1, "first line\nsecond line", "-5", "Food"),
		txn(2024, 3, 2, "carriage\r\nreturn", "5", "Sal\nary"),
		txn(2024, 3, 3, "after", "1", "Salary"),
	}

	codec := NewCodec(Categorized, nil)
	var buf bytes.Buffer
	require.NoError(t, codec.Write(&buf, txns))
	assert.Equal(t, HeaderCategorized+"\n"+
		"2024-03-01,first line second line,-5,Food\n"+
		"2024-03-02,carriage return,5,Sal ary\n"+
		"2024-03-03,after,1,Salary\n", buf.String())

	got, err := codec.Read(&buf)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first line second line", got[0].Description)
	assert.Equal(t, "carriage return", got[1].Description)
	assert.Equal(t, "Sal ary", got[1].Category)
	assert.Equal(t, "after", got[2].Description)
}

func TestMarshalRow(t *testing.T) {
	codec := NewCodec(Categorized, nil)
	tests := []struct {
		txn  *model.Transaction
		want string
	}{
		{txn(2024, 1, 15, "Groceries", "-42.50", "Food"), "2024-01-15,Groceries,-42.5,Food"},
		{txn(2024, 1, 20, "Paycheck", "2500", "Salary"), "2024-01-20,Paycheck,2500,Salary"},
		{txn(2024, 1, 21, `Lunch, "fancy" place`, "-18.75", "Food"), `2024-01-21,"Lunch, ""fancy"" place",-18.75,Food`},
		{txn(2024, 1, 22, `say "hi"`, "1", "Other Income"), `2024-01-22,"say ""hi""",1,Other Income`},
		{txn(2024, 1, 23, " padded ", "1", ""), "2024-01-23, padded ,1,"},
		{txn(2024, 1, 24, "x", "0.000001", "a,b"), `2024-01-24,x,0.000001,"a,b"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, codec.MarshalRow(tt.txn))
	}
}

func TestMarshalRowBasicDropsCategory(t *testing.T) {
	codec := NewCodec(Basic, nil)
	assert.Equal(t, "2024-01-15,Groceries,-42.5", codec.MarshalRow(txn(2024, 1, 15, "Groceries", "-42.50", "Food")))
}

func TestReadQuotedSpans(t *testing.T) {
	input := HeaderCategorized + "\n" +
		`2024-01-01,"a,b",1,"c""d"` + "\n" +
		`2024-01-02,ab"c,d"e,2,x` + "\n" +
		`2024-01-03,"""quoted""",3,""` + "\n"

	got, err := NewCodec(Categorized, nil).Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "a,b", got[0].Description)
	assert.Equal(t, `c"d`, got[0].Category)
	assert.Equal(t, "abc,de", got[1].Description)
	assert.Equal(t, `"quoted"`, got[2].Description)
	assert.Equal(t, "", got[2].Category)
}

func TestReadSkipsWrongFieldCount(t *testing.T) {
	logger, hook := test.NewNullLogger()
	input := HeaderCategorized + "\n" +
		"2024-01-15,Groceries,-42.50,Food\n" +
		"2024-01-16,Stray,comma,-3,Food\n" +
		"2024-01-17,Too few\n" +
		"\n" +
		"2024-01-20,Paycheck,2500.00,Salary\n"

	got, err := NewCodec(Categorized, logger).Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Groceries", got[0].Description)
	assert.Equal(t, "Paycheck", got[1].Description)

	require.Len(t, hook.AllEntries(), 3)
	for _, e := range hook.AllEntries() {
		assert.Equal(t, logrus.WarnLevel, e.Level)
	}
	assert.Equal(t, 3, hook.AllEntries()[0].Data["line"])
	assert.Equal(t, 5, hook.AllEntries()[0].Data["fields"])
	assert.Equal(t, 5, hook.AllEntries()[2].Data["line"])
}

func TestReadCategorizedFileWithBasicSchema(t *testing.T) {
	input := HeaderCategorized + "\n" +
		"2024-01-15,Groceries,-42.50,Food\n" +
		"2024-01-20,Paycheck,2500.00,Salary\n"

	got, err := NewCodec(Basic, nil).Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, got, "every 4-field row is skipped by a 3-field reader")
}

func TestReadMalformedAmount(t *testing.T) {
	input := HeaderBasic + "\n" +
		"2024-01-31,Paycheck,2500\n" +
		"2024-02-01,Rent,abc\n" +
		"2024-02-02,Coffee,-3\n"

	got, err := NewCodec(Basic, nil).Read(strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrFormat))

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.Line)
	assert.Equal(t, "amount", fe.Field)
	assert.Equal(t, "abc", fe.Value)
}

func TestReadMalformedDate(t *testing.T) {
	input := HeaderCategorized + "\n" + "2024-13-45,Oops,-1,Food\n"

	_, err := NewCodec(Categorized, nil).Read(strings.NewReader(input))
	require.Error(t, err)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "date", fe.Field)
	assert.Equal(t, 2, fe.Line)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestReadUnterminatedQuoteEndsAtLineBreak(t *testing.T) {
	input := HeaderCategorized + "\n" +
		"2024-01-01,\"open,1,x\n" +
		"2024-01-02,bad,NaN-ish,x\n"

	_, err := NewCodec(Categorized, nil).Read(strings.NewReader(input))
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.Line)
	assert.Equal(t, "amount", fe.Field)
}

func TestReadMalformedQuotes(t *testing.T) {
	tests := []struct {
		name     string
		row      string
		want     []string
		warnings int
	}{
		{
			name:     "unbalanced opening quote",
			row:      `2024-01-02,"Broken,-5,Food`,
			want:     []string{"Groceries", "Coffee", "Paycheck"},
			warnings: 1,
		},
		{
			name:     "quote inside a field",
			row:      `2024-01-02,27" monitor,-300,Shopping`,
			want:     []string{"Groceries", "Coffee", "Paycheck"},
			warnings: 1,
		},
		{
			name:     "quote at the end of a field",
			row:      `2024-01-02,5 screen",-2,Home`,
			want:     []string{"Groceries", "Coffee", "Paycheck"},
			warnings: 1,
		},
		{
			name:     "balanced quotes inside a field",
			row:      `2024-01-02,5" screen "cleaner,-2,Home`,
			want:     []string{"Groceries", "5 screen cleaner", "Coffee", "Paycheck"},
			warnings: 0,
		},
		{
			name:     "quoted span closed on the same line",
			row:      `2024-01-02,"Tools, hand",-2,Home`,
			want:     []string{"Groceries", "Tools, hand", "Coffee", "Paycheck"},
			warnings: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			input := HeaderCategorized + "\n" +
				"2024-01-01,Groceries,-42.50,Food\n" +
				tt.row + "\n" +
				"2024-01-03,Coffee,-3.20,Food\n" +
				"2024-01-04,Paycheck,2500,Salary\n"

			got, err := NewCodec(Categorized, logger).Read(strings.NewReader(input))
			require.NoError(t, err)

			descs := make([]string, len(got))
			for i, g := range got {
				descs[i] = g.Description
			}
			assert.Equal(t, tt.want, descs)

			require.Len(t, hook.AllEntries(), tt.warnings)
			if tt.warnings > 0 {
				assert.Equal(t, 3, hook.LastEntry().Data["line"])
				assert.Equal(t, 2, hook.LastEntry().Data["fields"])
			}
		})
	}
}

func TestReadCRLF(t *testing.T) {
	input := "date,description,amount,category\r\n" +
		"2024-01-15,Groceries,-42.50,Food\r\n" +
		"2024-01-20,\"Pay, check\",2500.00,Salary\r\n"

	got, err := NewCodec(Categorized, nil).Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Food", got[0].Category)
	assert.Equal(t, "Pay, check", got[1].Description)
	assert.Equal(t, "Salary", got[1].Category)
}

func TestReadNoTrailingNewline(t *testing.T) {
	input := HeaderBasic + "\n" + "2024-01-15,Groceries,-42.50"

	got, err := NewCodec(Basic, nil).Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(dec("-42.5")))
}

func TestReadEmpty(t *testing.T) {
	got, err := NewCodec(Categorized, nil).Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReadHeaderOnly(t *testing.T) {
	got, err := NewCodec(Categorized, nil).Read(strings.NewReader(HeaderCategorized + "\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadHeaderNotValidated(t *testing.T) {
	input := "whatever,goes,here\n2024-01-15,Groceries,-42.50,Food\n"

	got, err := NewCodec(Categorized, nil).Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestDecimalPrecision(t *testing.T) {
	// Full precision survives; no display rounding on disk.
	txns := []*model.Transaction{
		txn(2024, 1, 10, "a", "33.333333", "x"),
		txn(2024, 1, 10, "b", "-33.333333", "x"),
	}
	codec := NewCodec(Categorized, nil)
	var buf bytes.Buffer
	require.NoError(t, codec.Write(&buf, txns))

	got, err := codec.Read(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Amount.Add(got[1].Amount).IsZero())
	assert.Equal(t, "33.333333", got[0].Amount.String())
}

func TestReadTestdata(t *testing.T) {
	f, err := os.Open("../../testdata/transactions.csv")
	require.NoError(t, err)
	defer f.Close()

	got, err := NewCodec(Categorized, nil).Read(f)
	require.NoError(t, err)
	require.Len(t, got, 6, "testdata has 7 data rows, one with a stray comma")

	assert.Equal(t, `Lunch, "fancy" place`, got[2].Description)
	for i, txn := range got {
		assert.False(t, txn.Date.IsZero(), "row %d missing date", i)
		assert.NotEmpty(t, txn.Category, "row %d missing category", i)
	}
}

func TestParseSchema(t *testing.T) {
	tests := []struct {
		in   string
		want Schema
	}{
		{"", Categorized},
		{"categorized", Categorized},
		{"Basic", Basic},
		{" basic ", Basic},
	}
	for _, tt := range tests {
		got, err := ParseSchema(tt.in)
		require.NoError(t, err, "ParseSchema(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseSchema("v2")
	assert.Error(t, err)

	assert.Equal(t, 3, Basic.Fields())
	assert.Equal(t, 4, Categorized.Fields())
	assert.Equal(t, "basic", Basic.String())
}
