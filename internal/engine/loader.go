package engine

import (
	"bytes"
	stdcsv "encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"databrowser/internal/models"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// --- 1. HEADER + SCHEMA ---

func readHeader(content []byte) ([]string, error) {
	header, err := stdcsv.NewReader(bytes.NewReader(content)).Read()
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	return header, nil
}

// buildSchema reads every column as a string. Cells are trimmed before the
// year is parsed and before payload kinds are inferred over the whole column.
func buildSchema(header []string) *arrow.Schema {
	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func parseYear(cell *string) (*int64, error) {
	if cell == nil {
		return nil, nil
	}
	y, err := strconv.ParseInt(*cell, 10, 64)
	if err != nil {
		return nil, err
	}
	return &y, nil
}

// --- 2. PAYLOAD TYPE INFERENCE ---

type cellKind int

const (
	kindInt cellKind = iota
	kindFloat
	kindBool
	kindString
)

// inferKind picks the narrowest kind every non-null value fits.
func inferKind(values []*string) cellKind {
	kind := kindInt
	for _, v := range values {
		if v == nil {
			continue
		}
		for kind < kindString && !fits(kind, *v) {
			kind++
		}
		if kind == kindString {
			break
		}
	}
	return kind
}

func fits(kind cellKind, s string) bool {
	switch kind {
	case kindInt:
		_, err := strconv.ParseInt(s, 10, 64)
		return err == nil
	case kindFloat:
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	case kindBool:
		_, err := strconv.ParseBool(s)
		return err == nil
	}
	return true
}

func convert(kind cellKind, v *string) any {
	if v == nil {
		return nil
	}
	switch kind {
	case kindInt:
		n, _ := strconv.ParseInt(*v, 10, 64)
		return n
	case kindFloat:
		f, _ := strconv.ParseFloat(*v, 64)
		return f
	case kindBool:
		b, _ := strconv.ParseBool(*v)
		return b
	}
	return *v
}

// --- 3. MAIN LOADER ---

// LoadTable reads the CSV at path. It never panics: on any failure it
// returns an empty table together with a *DataUnavailableError.
func LoadTable(path string, schema models.Schema, logger *slog.Logger) (*models.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	logger.Info("loading data", "path", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return models.EmptyTable(), unavailable(path, "cannot read file", err)
	}

	header, err := readHeader(content)
	if err == io.EOF {
		return models.EmptyTable(), unavailable(path, "file is empty", nil)
	}
	if err != nil {
		return models.EmptyTable(), unavailable(path, "cannot read header", err)
	}

	yearCol := indexOf(header, schema.YearColumn)
	codeCol := indexOf(header, schema.CodeColumn)
	if yearCol < 0 {
		return models.EmptyTable(), unavailable(path, "missing column "+strconv.Quote(schema.YearColumn), nil)
	}
	if codeCol < 0 {
		return models.EmptyTable(), unavailable(path, "missing column "+strconv.Quote(schema.CodeColumn), nil)
	}
	if yearCol == codeCol {
		return models.EmptyTable(), unavailable(path, "year and country code must be different columns", nil)
	}

	r := csv.NewReader(bytes.NewReader(content), buildSchema(header),
		csv.WithHeader(true),
		csv.WithChunk(-1),
		csv.WithNullReader(true, ""),
		csv.WithAllocator(memory.DefaultAllocator),
	)
	defer r.Release()

	var (
		years   []*int64
		codes   []*string
		payload = make([][]*string, len(header))
	)
	for r.Next() {
		rec := r.Record()
		for col := range header {
			sArr, ok := rec.Column(col).(*array.String)
			if !ok {
				return models.EmptyTable(), unavailable(path, "unexpected column type for "+header[col], nil)
			}
			for i := 0; i < sArr.Len(); i++ {
				var cell *string
				if !sArr.IsNull(i) {
					if s := strings.TrimSpace(sArr.Value(i)); s != "" {
						cell = &s
					}
				}
				switch col {
				case yearCol:
					y, err := parseYear(cell)
					if err != nil {
						return models.EmptyTable(), unavailable(path, "year column is not integer", err)
					}
					years = append(years, y)
				case codeCol:
					codes = append(codes, cell)
				default:
					payload[col] = append(payload[col], cell)
				}
			}
		}
	}
	if err := r.Err(); err != nil && err != io.EOF {
		return models.EmptyTable(), unavailable(path, "cannot parse csv", err)
	}

	kinds := make([]cellKind, len(header))
	for col := range header {
		if col != yearCol && col != codeCol {
			kinds[col] = inferKind(payload[col])
		}
	}

	table := &models.Table{
		Header:  header,
		YearCol: yearCol,
		CodeCol: codeCol,
		Rows:    make([]models.Row, 0, len(years)),
	}
	skipped := 0
	for i := range years {
		if years[i] == nil || codes[i] == nil {
			skipped++
			continue
		}
		row := models.Row{
			Year:        int(*years[i]),
			CountryCode: *codes[i],
			Payload:     make([]any, 0, len(header)-2),
		}
		for col := range header {
			if col == yearCol || col == codeCol {
				continue
			}
			row.Payload = append(row.Payload, convert(kinds[col], payload[col][i]))
		}
		table.Rows = append(table.Rows, row)
	}
	if skipped > 0 {
		logger.Debug("skipped rows with null year or country code", "count", skipped)
	}

	logger.Info("load complete", "rows", table.Len(), "columns", len(header), "took", time.Since(start))
	return table, nil
}
