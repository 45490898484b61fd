package importer

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountTyped means an unsigned amount column plus an explicit type column.
	amountTyped amountMode = iota
	// amountSigned means one signed column, negative for expenses.
	amountSigned
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of a supported CSV export.
type Profile struct {
	Name       string
	Comma      rune
	DateLayout string
	European   bool // "1.234,56" instead of "1234.56"
	DateCol    string
	DescCol    string
	AmountMode amountMode
	TypeCol    string
	AmountCol  string
	DebitCol   string
	CreditCol  string
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountTyped:
		cols = append(cols, p.TypeCol, p.AmountCol)
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is tried in order; more specific layouts come first.
var profiles = []Profile{
	{
		Name:       "ledger",
		Comma:      ',',
		DateLayout: "2006-01-02",
		DateCol:    "date",
		DescCol:    "description",
		AmountMode: amountTyped,
		TypeCol:    "type",
		AmountCol:  "amount",
	},
	{
		Name:       "card",
		Comma:      ';',
		DateLayout: "02-01-2006",
		European:   true,
		DateCol:    "Date",
		DescCol:    "Description",
		AmountMode: amountSplit,
		DebitCol:   "Debit",
		CreditCol:  "Credit",
	},
	{
		Name:       "statement",
		Comma:      ';',
		DateLayout: "02-01-2006",
		European:   true,
		DateCol:    "Date",
		DescCol:    "Description",
		AmountMode: amountSigned,
		AmountCol:  "Amount",
	},
}
