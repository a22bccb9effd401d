package engine

import "databrowser/internal/models"

// Filter returns the rows of t with YearMin <= Year <= YearMax and a
// country code in p.Codes, in their original order. t is not modified.
func Filter(t *models.Table, p models.FilterParams) *models.Table {
	out := &models.Table{YearCol: -1, CodeCol: -1, Rows: make([]models.Row, 0)}
	if t == nil {
		return out
	}
	out.Header, out.YearCol, out.CodeCol = t.Header, t.YearCol, t.CodeCol
	if len(p.Codes) == 0 {
		return out
	}

	for _, r := range t.Rows {
		if r.Year >= p.YearMin && r.Year <= p.YearMax && p.Has(r.CountryCode) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
