package engine

import (
	"sort"

	"databrowser/internal/models"
)

// Summarize counts rows per country code and reports the year span.
// Codes are ordered by row count (desc), ties by code.
func Summarize(t *models.Table) models.Summary {
	s := models.Summary{Countries: make([]models.CodeCount, 0)}
	if t.Empty() {
		return s
	}
	s.Rows = t.Len()
	s.YearMin, s.YearMax, _ = t.YearBounds()

	// Dictionary encode codes, then count by ID
	ids := make(map[string]int)
	for _, r := range t.Rows {
		id, ok := ids[r.CountryCode]
		if !ok {
			id = len(s.Countries)
			ids[r.CountryCode] = id
			s.Countries = append(s.Countries, models.CodeCount{Code: r.CountryCode})
		}
		s.Countries[id].Rows++
	}

	sort.Slice(s.Countries, func(i, j int) bool {
		if s.Countries[i].Rows != s.Countries[j].Rows {
			return s.Countries[i].Rows > s.Countries[j].Rows
		}
		return s.Countries[i].Code < s.Countries[j].Code
	})
	return s
}
