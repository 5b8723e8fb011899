// Package bankcsv parses loosely structured delimited-text bank exports
// into normalized transaction records. Column names vary by source bank and
// are matched heuristically by header substring; rows that fail to parse
// are skipped, never failing the whole file.
package bankcsv

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/planday-app/organizer_backend/internal/apperrors"
	"github.com/planday-app/organizer_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// dateLayout is the fixed timestamp format used by the supported exports.
const dateLayout = "02.01.2006 15:04:05"

// Positional defaults when a header fragment does not match any column.
const (
	defaultDateColumn     = 0
	defaultMerchantColumn = 1
	defaultAmountColumn   = 2
)

// Header fragments, matched by substring against lower-cased header cells.
var (
	dateFragments     = []string{"дата", "date"}
	merchantFragments = []string{"опис", "призначення", "деталі", "description", "merchant", "details"}
	amountFragments   = []string{"сума", "сумма", "amount"}
	currencyFragments = []string{"валюта", "currency", "ccy"}
)

// Result is the outcome of parsing one statement file.
type Result struct {
	Transactions []domain.TransactionRecord
	SkippedRows  int
}

// Parse turns raw export content into transaction records. The content must
// decode as UTF-8; anything else fails the whole import with
// apperrors.ErrInvalidEncoding. Row-level failures (bad date, empty
// merchant, unparsable or zero amount) skip the row only. Output order
// matches input row order.
func Parse(content []byte, defaultCurrency string) (*Result, error) {
	if !utf8.Valid(content) {
		return nil, apperrors.ErrInvalidEncoding
	}

	lines := splitLines(string(content))

	header, dataStart := firstNonEmptyLine(lines)
	if dataStart < 0 {
		return nil, apperrors.ErrUnparsableFile
	}

	headerCells := splitFields(header)
	dateCol := findColumn(headerCells, dateFragments, defaultDateColumn)
	merchantCol := findColumn(headerCells, merchantFragments, defaultMerchantColumn)
	amountCol := findColumn(headerCells, amountFragments, defaultAmountColumn)
	currencyCol := findColumn(headerCells, currencyFragments, -1)

	res := &Result{}
	for _, line := range lines[dataStart+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := splitFields(line)

		txn, ok := parseRow(cells, headerCells, dateCol, merchantCol, amountCol, currencyCol, defaultCurrency)
		if !ok {
			res.SkippedRows++
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	return res, nil
}

func parseRow(cells, headerCells []string, dateCol, merchantCol, amountCol, currencyCol int, defaultCurrency string) (domain.TransactionRecord, bool) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(cellAt(cells, dateCol)))
	if err != nil {
		return domain.TransactionRecord{}, false
	}

	merchantText := strings.TrimSpace(cellAt(cells, merchantCol))
	if merchantText == "" {
		return domain.TransactionRecord{}, false
	}

	amount, err := parseAmount(cellAt(cells, amountCol))
	if err != nil || amount.IsZero() {
		return domain.TransactionRecord{}, false
	}

	currency := defaultCurrency
	if currencyCol >= 0 {
		if c := strings.TrimSpace(cellAt(cells, currencyCol)); c != "" {
			currency = c
		}
	}

	raw := make(map[string]string, len(cells))
	for i, cell := range cells {
		raw[cellAt(headerCells, i)] = cell
	}

	return domain.TransactionRecord{
		Date:         date,
		Merchant:     merchantText,
		Amount:       amount,
		CurrencyCode: currency,
		RawColumns:   raw,
	}, true
}

// splitLines splits on universal newlines: \r\n, \r and \n.
func splitLines(content string) []string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

func firstNonEmptyLine(lines []string) (string, int) {
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			return line, i
		}
	}
	return "", -1
}

// splitFields splits a line on commas with quote-aware escaping: a comma
// inside a matched pair of double quotes does not split. Surrounding quotes
// are removed and doubled quotes unescaped.
func splitFields(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// findColumn locates the index of the first header cell containing any of
// the fragments, falling back to the positional default.
func findColumn(headerCells []string, fragments []string, fallback int) int {
	for i, cell := range headerCells {
		lower := strings.ToLower(cell)
		for _, frag := range fragments {
			if strings.Contains(lower, frag) {
				return i
			}
		}
	}
	return fallback
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

var currencyMarkers = []string{"₴", "$", "€", "£", "uah", "usd", "eur", "грн"}

// parseAmount normalizes a localized amount string: currency symbols and
// thousands separators are stripped and a decimal comma becomes a decimal
// point before parsing.
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	for _, marker := range currencyMarkers {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "'", "")

	if strings.Contains(cleaned, ",") && strings.Contains(cleaned, ".") {
		// Whichever separator comes last is the decimal one; the other is
		// a thousands separator.
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	return decimal.NewFromString(cleaned)
}
