// Package importer turns CSV exports into transaction drafts.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tracker/internal/encoding"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

var ErrUnknownFormat = errors.New("no matching CSV format found")

// Result holds the drafts parsed from one file.
type Result struct {
	Profile string
	Charset string
	Drafts  []transaction.Draft
	// Lines holds the 1-based file line each draft was read from.
	Lines   []int
	Skipped int
}

// LineErrors re-keys the failures of a rejected batch of r.Drafts by the
// file line of the offending row.
func (r *Result) LineErrors(err *transaction.BatchError) map[int]*transaction.ValidationError {
	out := make(map[int]*transaction.ValidationError, len(err.Errors))
	for i, verr := range err.Errors {
		line := i + 1
		if i >= 0 && i < len(r.Lines) {
			line = r.Lines[i]
		}

		out[line] = verr
	}

	return out
}

// Explain renders the failures of a rejected batch one file line at a time.
func (r *Result) Explain(err *transaction.BatchError) string {
	lines := r.LineErrors(err)

	parts := make([]string, 0, len(lines))
	for _, line := range slices.Sorted(maps.Keys(lines)) {
		parts = append(parts, fmt.Sprintf("line %d: %v", line, lines[line]))
	}

	return strings.Join(parts, "; ")
}

// Parse detects the file's encoding and layout and returns one draft per data
// row. Rows without a parsable date or a non-zero amount (totals, footers,
// page markers) are skipped and counted. Drafts are not validated here; the
// ledger does that when they are added.
func Parse(r io.Reader) (*Result, error) {
	utf8r, charset, err := encoding.ToUTF8(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for i := range profiles {
		p := &profiles[i]

		rows, err := readRows(data, p.Comma)
		if err != nil {
			continue
		}

		cols, headerIdx, ok := findHeader(p, rows)
		if !ok {
			continue
		}

		res := &Result{Profile: p.Name, Charset: charset}
		parseRows(p, cols, rows[headerIdx+1:], res)

		slog.Debug("parsed csv",
			"profile", res.Profile,
			"charset", res.Charset,
			"drafts", len(res.Drafts),
			"skipped", res.Skipped)

		return res, nil
	}

	return nil, ErrUnknownFormat
}

// record is one CSV row and the file line it starts on.
type record struct {
	line   int
	fields []string
}

func readRows(data []byte, comma rune) ([]record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []record

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		if err != nil {
			return nil, err
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, record{line: line, fields: fields})
	}
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func findHeader(p *Profile, rows []record) (colIndex, int, bool) {
	for rowIdx, r := range rows {
		cols := make(colIndex)

		for i, cell := range r.fields {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		if matches(p, cols) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func matches(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func parseRows(p *Profile, cols colIndex, rows []record, res *Result) {
	for _, r := range rows {
		row := r.fields
		if isBlank(row) {
			continue
		}

		date, err := time.Parse(p.DateLayout, cell(row, cols[p.DateCol]))
		if err != nil {
			res.Skipped++
			continue
		}

		typ, amount, ok := rowAmount(p, cols, row)
		if !ok {
			res.Skipped++
			continue
		}

		res.Drafts = append(res.Drafts, transaction.Draft{
			Type:        typ,
			Amount:      amount,
			Description: cell(row, cols[p.DescCol]),
			Date:        date.Format(time.DateOnly),
		})
		res.Lines = append(res.Lines, r.line)
	}
}

// rowAmount returns the row's type and unsigned amount text.
func rowAmount(p *Profile, cols colIndex, row []string) (transaction.Type, string, bool) {
	switch p.AmountMode {
	case amountTyped:
		// Type and sign are left for the ledger to validate so bad rows
		// surface as errors instead of being skipped.
		typ := transaction.Type(strings.ToLower(cell(row, cols[p.TypeCol])))

		raw := cell(row, cols[p.AmountCol])
		if d, err := parseAmount(raw, p.European); err == nil {
			return typ, d.String(), true
		}

		return typ, raw, true

	case amountSigned:
		d, err := parseAmount(cell(row, cols[p.AmountCol]), p.European)
		if err != nil || d.IsZero() {
			return "", "", false
		}

		if d.IsNegative() {
			return transaction.TypeExpense, d.Abs().String(), true
		}

		return transaction.TypeIncome, d.String(), true

	case amountSplit:
		if d, err := parseAmount(cell(row, cols[p.DebitCol]), p.European); err == nil && !d.IsZero() {
			return transaction.TypeExpense, d.Abs().String(), true
		}

		if d, err := parseAmount(cell(row, cols[p.CreditCol]), p.European); err == nil && !d.IsZero() {
			return transaction.TypeIncome, d.Abs().String(), true
		}
	}

	return "", "", false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
