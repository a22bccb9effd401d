package models

// Schema names the two columns the filter depends on.
type Schema struct {
	YearColumn string
	CodeColumn string
}

// Row is one record of the dataset.
// Payload holds every other column in source order.
type Row struct {
	Year        int
	CountryCode string
	Payload     []any
}

// Table holds the loaded dataset. It is never mutated after load.
type Table struct {
	Header  []string // all columns, source order
	YearCol int
	CodeCol int
	Rows    []Row
}

// EmptyTable is what the loader hands back when there is nothing to show.
func EmptyTable() *Table {
	return &Table{YearCol: -1, CodeCol: -1, Rows: []Row{}}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) Empty() bool { return t.Len() == 0 }

// YearBounds returns the observed min and max year.
func (t *Table) YearBounds() (int, int, bool) {
	if t.Empty() {
		return 0, 0, false
	}
	lo, hi := t.Rows[0].Year, t.Rows[0].Year
	for _, r := range t.Rows[1:] {
		if r.Year < lo {
			lo = r.Year
		}
		if r.Year > hi {
			hi = r.Year
		}
	}
	return lo, hi, true
}

// CountryCodes returns the distinct codes in first-seen order.
func (t *Table) CountryCodes() []string {
	codes := make([]string, 0)
	if t.Empty() {
		return codes
	}
	seen := make(map[string]struct{})
	for _, r := range t.Rows {
		if _, ok := seen[r.CountryCode]; ok {
			continue
		}
		seen[r.CountryCode] = struct{}{}
		codes = append(codes, r.CountryCode)
	}
	return codes
}

// Cells rebuilds row i in header order.
func (t *Table) Cells(i int) []any {
	r := t.Rows[i]
	out := make([]any, 0, len(t.Header))
	p := 0
	for col := range t.Header {
		switch col {
		case t.YearCol:
			out = append(out, r.Year)
		case t.CodeCol:
			out = append(out, r.CountryCode)
		default:
			if p < len(r.Payload) {
				out = append(out, r.Payload[p])
			} else {
				out = append(out, nil)
			}
			p++
		}
	}
	return out
}

// FilterParams is the user's current selection. Rebuilt on every request.
type FilterParams struct {
	YearMin int
	YearMax int
	Codes   map[string]struct{}
}

func NewFilterParams(yearMin, yearMax int, codes ...string) FilterParams {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return FilterParams{YearMin: yearMin, YearMax: yearMax, Codes: set}
}

func (p FilterParams) Has(code string) bool {
	_, ok := p.Codes[code]
	return ok
}

// WarnEmptySelection is surfaced when no country is selected.
const WarnEmptySelection = "Select at least one country"

// Summary describes a (filtered) table.
type Summary struct {
	Rows      int         `json:"rows"`
	YearMin   int         `json:"year_min"`
	YearMax   int         `json:"year_max"`
	Countries []CodeCount `json:"countries"`
}

type CodeCount struct {
	Code string `json:"code"`
	Rows int    `json:"rows"`
}

// --- API payloads ---

type Meta struct {
	YearMin          int      `json:"year_min"`
	YearMax          int      `json:"year_max"`
	Countries        []string `json:"countries"`
	DefaultCountries []string `json:"default_countries"`
	Columns          []string `json:"columns"`
}

type AppliedParams struct {
	From      int      `json:"from"`
	To        int      `json:"to"`
	Countries []string `json:"countries"`
}

type RowsResponse struct {
	Columns  []string      `json:"columns"`
	Rows     [][]any       `json:"rows"`
	Total    int           `json:"total"`
	Limit    int           `json:"limit"`
	Offset   int           `json:"offset"`
	Params   AppliedParams `json:"params"`
	Warnings []string      `json:"warnings"`
	Summary  Summary       `json:"summary"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
