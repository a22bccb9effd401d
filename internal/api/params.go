package api

import (
	"net/http"
	"strconv"

	"databrowser/internal/models"

	"github.com/labstack/echo/v4"
)

// selection is the bound, clamped user input for one request.
type selection struct {
	From, To  int
	Countries []string
	Warnings  []string
}

func (s selection) Params() models.FilterParams {
	return models.NewFilterParams(s.From, s.To, s.Countries...)
}

func (s selection) Applied() models.AppliedParams {
	return models.AppliedParams{From: s.From, To: s.To, Countries: s.Countries}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func yearParam(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" year: "+strconv.Quote(raw))
	}
	return v, nil
}

// defaultCountries keeps the configured codes that exist in the data,
// in configured order.
func defaultCountries(defaults, available []string) []string {
	present := make(map[string]struct{}, len(available))
	for _, c := range available {
		present[c] = struct{}{}
	}
	out := make([]string, 0, len(defaults))
	for _, c := range defaults {
		if _, ok := present[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// bindSelection reads from/to/country from the query string.
// Years default to the table's bounds and are clamped into them.
// An absent country key means the default selection; a present key with
// no non-empty values is an explicit empty selection.
// When lenient, a bad year falls back to its bound and a reversed range is
// swapped; both become warnings instead of a 400.
func bindSelection(c echo.Context, t *models.Table, defaults []string, lenient bool) (selection, error) {
	lo, hi, _ := t.YearBounds()
	var warnings []string

	from, err := yearParam(c, "from", lo)
	if err != nil {
		if !lenient {
			return selection{}, err
		}
		from = lo
		warnings = append(warnings, "Invalid start year, showing from "+strconv.Itoa(lo))
	}
	to, err := yearParam(c, "to", hi)
	if err != nil {
		if !lenient {
			return selection{}, err
		}
		to = hi
		warnings = append(warnings, "Invalid end year, showing up to "+strconv.Itoa(hi))
	}
	from, to = clamp(from, lo, hi), clamp(to, lo, hi)
	if from > to {
		if !lenient {
			return selection{}, echo.NewHTTPError(http.StatusBadRequest, "from must not be after to")
		}
		from, to = to, from
		warnings = append(warnings, "Start year was after end year, range swapped")
	}

	sel := selection{From: from, To: to, Countries: make([]string, 0), Warnings: warnings}
	values, present := c.QueryParams()["country"]
	if !present {
		sel.Countries = defaultCountries(defaults, t.CountryCodes())
	} else {
		seen := make(map[string]struct{})
		for _, v := range values {
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			sel.Countries = append(sel.Countries, v)
		}
	}

	if len(sel.Countries) == 0 {
		sel.Warnings = append(sel.Warnings, models.WarnEmptySelection)
	}
	return sel, nil
}

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
