// File: internal/services/csvsum/summary.go
//
// Package csvsum turns raw CSV bytes into a compact textual summary used as
// prompt context for the language model. It is deterministic and synchronous;
// nothing here talks to the network.
package csvsum

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	// maxRows caps how much of the dataset feeds the summary.
	maxRows = 1000
	// sampleRows is how many leading rows are echoed verbatim.
	sampleRows = 5
	// topValues is how many distinct values are reported per text column.
	topValues = 5
)

var (
	ErrEmptyInput  = errors.New("csv data is empty")
	ErrUndecodable = errors.New("unable to decode CSV file with common encodings")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// fallbackEncodings are tried in order once the bytes fail UTF-8 validation.
var fallbackEncodings = []encoding.Encoding{
	charmap.ISO8859_1,
	charmap.Windows1252,
}

// Summarize decodes, cleans and profiles the dataset and renders the
// overview text embedded into the analysis prompt.
func Summarize(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyInput
	}

	text, err := decode(data)
	if err != nil {
		return "", err
	}

	header, rows, err := parse(text)
	if err != nil {
		return "", err
	}

	missing := missingCounts(header, rows)
	numericCols, textCols := classifyColumns(header, rows)

	var b strings.Builder
	fmt.Fprintf(&b, "Dataset Overview:\n")
	fmt.Fprintf(&b, "- Rows: %d, Columns: %d\n", len(rows), len(header))
	fmt.Fprintf(&b, "- Columns: %s\n", strings.Join(header, ", "))
	b.WriteString("- Missing values per column: ")
	for i, name := range header {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%d", name, missing[i])
	}
	b.WriteString("\n\nNumeric summary:\n")
	if len(numericCols) == 0 {
		b.WriteString("- (no numeric columns)\n")
	}
	for _, col := range numericCols {
		st := describe(columnValues(rows, col.index))
		fmt.Fprintf(&b, "- %s: count=%d, mean=%.2f, std=%.2f, min=%.2f, max=%.2f\n",
			col.name, st.count, st.mean, st.std, st.min, st.max)
	}
	fmt.Fprintf(&b, "\nCategorical summary (top %d values per column):\n", topValues)
	if len(textCols) == 0 {
		b.WriteString("- (no text columns)\n")
	}
	for _, col := range textCols {
		b.WriteString("- " + col.name + ": " + topValueCounts(rows, col.index) + "\n")
	}
	b.WriteString("\nSample rows:\n")
	for i, row := range rows {
		if i >= sampleRows {
			break
		}
		fmt.Fprintf(&b, "- row %d: ", i+1)
		for j, name := range header {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", name, row[j])
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

// Metadata reports row/column counts and column names, used for upload logging.
func Metadata(data []byte) (rows int, columns int, names []string, err error) {
	if len(data) == 0 {
		return 0, 0, nil, ErrEmptyInput
	}
	text, err := decode(data)
	if err != nil {
		return 0, 0, nil, err
	}
	header, records, err := parse(text)
	if err != nil {
		return 0, 0, nil, err
	}
	return len(records), len(header), header, nil
}

// decode tries UTF-8 first (with or without BOM), then the fallback chain.
func decode(data []byte) (string, error) {
	if rest, ok := bytes.CutPrefix(data, utf8BOM); ok {
		data = rest
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	for _, enc := range fallbackEncodings {
		out, err := enc.NewDecoder().Bytes(data)
		if err == nil {
			return string(out), nil
		}
	}
	return "", ErrUndecodable
}

// parse reads the CSV, treats the first record as the header, drops fully
// empty rows, pads ragged rows to the header width and caps at maxRows.
func parse(text string) ([]string, [][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyInput
	}

	header := records[0]
	var rows [][]string
	for _, rec := range records[1:] {
		if isEmptyRow(rec) {
			continue
		}
		row := make([]string, len(header))
		for i := range header {
			if i < len(rec) {
				row[i] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
		if len(rows) == maxRows {
			break
		}
	}
	return header, rows, nil
}

func isEmptyRow(rec []string) bool {
	for _, field := range rec {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func missingCounts(header []string, rows [][]string) []int {
	counts := make([]int, len(header))
	for _, row := range rows {
		for i := range header {
			if row[i] == "" {
				counts[i]++
			}
		}
	}
	return counts
}

type column struct {
	name  string
	index int
}

// classifyColumns splits columns into numeric and text. A column is numeric
// when it has at least one value and every non-missing value parses as a float.
func classifyColumns(header []string, rows [][]string) (numeric, text []column) {
	for i, name := range header {
		values := columnStrings(rows, i)
		if len(values) > 0 && allNumeric(values) {
			numeric = append(numeric, column{name: name, index: i})
		} else {
			text = append(text, column{name: name, index: i})
		}
	}
	return numeric, text
}

func allNumeric(values []string) bool {
	for _, v := range values {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
	}
	return true
}

// columnStrings returns the non-missing raw values of one column.
func columnStrings(rows [][]string, index int) []string {
	var values []string
	for _, row := range rows {
		if row[index] != "" {
			values = append(values, row[index])
		}
	}
	return values
}

func columnValues(rows [][]string, index int) []float64 {
	var values []float64
	for _, raw := range columnStrings(rows, index) {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			values = append(values, v)
		}
	}
	return values
}

type stats struct {
	count    int
	mean     float64
	std      float64
	min, max float64
}

// describe computes count/mean/std/min/max. Std is the sample standard
// deviation (n-1 denominator), zero for a single value.
func describe(values []float64) stats {
	st := stats{count: len(values)}
	if st.count == 0 {
		return st
	}

	st.min, st.max = values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		st.min = math.Min(st.min, v)
		st.max = math.Max(st.max, v)
	}
	st.mean = sum / float64(st.count)

	if st.count > 1 {
		var sq float64
		for _, v := range values {
			d := v - st.mean
			sq += d * d
		}
		st.std = math.Sqrt(sq / float64(st.count-1))
	}
	return st
}

// topValueCounts renders the most frequent values of a text column. Ties
// break on first appearance so the output is stable.
func topValueCounts(rows [][]string, index int) string {
	counts := map[string]int{}
	var order []string
	for _, v := range columnStrings(rows, index) {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topValues {
		order = order[:topValues]
	}

	parts := make([]string, 0, len(order))
	for _, v := range order {
		parts = append(parts, fmt.Sprintf("%q (%d)", v, counts[v]))
	}
	if len(parts) == 0 {
		return "(no values)"
	}
	return strings.Join(parts, ", ")
}
