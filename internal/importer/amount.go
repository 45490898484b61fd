package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads "1.234,56" style amounts when european is set and
// "1234.56" otherwise.
func parseAmount(s string, european bool) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, " ", "")
	if european {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
