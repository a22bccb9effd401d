package engine

import (
	"testing"

	"databrowser/internal/models"
)

func TestSummarize(t *testing.T) {
	// Scenario:
	// DEU: 2020, 2021, 2022
	// FRA: 2021
	// BRA: 2019
	table := &models.Table{
		Rows: []models.Row{
			{Year: 2020, CountryCode: "DEU"},
			{Year: 2021, CountryCode: "FRA"},
			{Year: 2021, CountryCode: "DEU"},
			{Year: 2019, CountryCode: "BRA"},
			{Year: 2022, CountryCode: "DEU"},
		},
	}

	s := Summarize(table)

	if s.Rows != 5 {
		t.Errorf("Expected 5 rows, got %d", s.Rows)
	}
	if s.YearMin != 2019 || s.YearMax != 2022 {
		t.Errorf("Expected span 2019-2022, got %d-%d", s.YearMin, s.YearMax)
	}
	if len(s.Countries) != 3 {
		t.Fatalf("Expected 3 countries, got %d", len(s.Countries))
	}

	// DEU first (most rows), then BRA before FRA on the tie
	want := []models.CodeCount{{Code: "DEU", Rows: 3}, {Code: "BRA", Rows: 1}, {Code: "FRA", Rows: 1}}
	for i, w := range want {
		if s.Countries[i] != w {
			t.Errorf("Countries[%d]: expected %+v, got %+v", i, w, s.Countries[i])
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(models.EmptyTable())
	if s.Rows != 0 || len(s.Countries) != 0 {
		t.Errorf("Expected zero summary, got %+v", s)
	}
	if s.Countries == nil {
		t.Error("Expected non-nil countries")
	}
}
