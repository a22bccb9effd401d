package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"databrowser/internal/engine"
	"databrowser/internal/metrics"
	"databrowser/internal/models"

	"github.com/labstack/echo/v4"
)

// Options carries the page defaults into the handler.
type Options struct {
	DefaultCountries []string
	Title            string
	Intro            string
	Logger           *slog.Logger
}

type Handler struct {
	dataset *engine.Dataset
	opts    Options
	logger  *slog.Logger
}

func NewHandler(dataset *engine.Dataset, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{dataset: dataset, opts: opts, logger: logger}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.GetPage)
	e.GET("/healthz", h.GetHealth)

	api := e.Group("/api")
	api.GET("/meta", h.GetMeta)
	api.GET("/rows", h.GetRows)
}

// --- DATA ACCESS ---

// unavailableMessage is the user-visible text for a halted page.
func unavailableMessage(err error) string {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "Data file not found."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Data is still loading. Try again shortly."
	case err != nil:
		return "Data is unavailable."
	default:
		return "Data file has no rows."
	}
}

// recordUnavailable counts a halt. A client that gave up waiting is not one.
func recordUnavailable(err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	metrics.Warnings.WithLabelValues("data_unavailable").Inc()
}

// table fetches the dataset. ok is false when rendering must halt.
func (h *Handler) table(c echo.Context) (*models.Table, string, bool) {
	t, err := h.dataset.Get(c.Request().Context())
	if err != nil || t.Empty() {
		recordUnavailable(err)
		return nil, unavailableMessage(err), false
	}
	metrics.DatasetRows.Set(float64(t.Len()))
	return t, "", true
}

func (h *Handler) filter(c echo.Context, t *models.Table, lenient bool) (selection, *models.Table, error) {
	sel, err := bindSelection(c, t, h.opts.DefaultCountries, lenient)
	if err != nil {
		return sel, nil, err
	}
	if len(sel.Countries) == 0 {
		metrics.Warnings.WithLabelValues("empty_selection").Inc()
	}
	view := engine.Filter(t, sel.Params())
	metrics.FilterResultRows.Observe(float64(view.Len()))
	h.logger.Debug("filter applied",
		"from", sel.From, "to", sel.To, "countries", sel.Countries, "rows", view.Len())
	return sel, view, nil
}

// --- HANDLERS ---

type option struct {
	Code     string
	Selected bool
}

type pageView struct {
	Title    string
	Intro    string
	Error    string
	YearMin  int
	YearMax  int
	From     int
	To       int
	Options  []option
	Warnings []string
	Summary  models.Summary
	Columns  []string
	Rows     [][]string
}

func (h *Handler) GetPage(c echo.Context) error {
	view := pageView{Title: h.opts.Title, Intro: h.opts.Intro}

	t, msg, ok := h.table(c)
	if !ok {
		view.Error = msg
		return c.Render(http.StatusServiceUnavailable, "page.html", view)
	}

	sel, filtered, err := h.filter(c, t, true)
	if err != nil {
		return err
	}

	view.YearMin, view.YearMax, _ = t.YearBounds()
	view.From, view.To = sel.From, sel.To
	view.Warnings = sel.Warnings
	params := sel.Params()
	for _, code := range t.CountryCodes() {
		view.Options = append(view.Options, option{Code: code, Selected: params.Has(code)})
	}
	view.Summary = engine.Summarize(filtered)
	view.Columns = filtered.Header
	view.Rows = make([][]string, filtered.Len())
	for i := range filtered.Rows {
		cells := filtered.Cells(i)
		row := make([]string, len(cells))
		for j, v := range cells {
			row[j] = formatCell(v)
		}
		view.Rows[i] = row
	}
	return c.Render(http.StatusOK, "page.html", view)
}

func (h *Handler) GetMeta(c echo.Context) error {
	t, msg, ok := h.table(c)
	if !ok {
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Message: msg})
	}
	lo, hi, _ := t.YearBounds()
	codes := t.CountryCodes()
	return c.JSON(http.StatusOK, models.Meta{
		YearMin:          lo,
		YearMax:          hi,
		Countries:        codes,
		DefaultCountries: defaultCountries(h.opts.DefaultCountries, codes),
		Columns:          t.Header,
	})
}

func (h *Handler) GetRows(c echo.Context) error {
	t, msg, ok := h.table(c)
	if !ok {
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Message: msg})
	}

	sel, filtered, err := h.filter(c, t, false)
	if err != nil {
		return err
	}

	total := filtered.Len()
	limit, offset := getPaginationParams(c, total)
	resp := models.RowsResponse{
		Columns:  filtered.Header,
		Rows:     make([][]any, 0),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
		Params:   sel.Applied(),
		Warnings: make([]string, 0),
		Summary:  engine.Summarize(filtered),
	}
	resp.Warnings = append(resp.Warnings, sel.Warnings...)

	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		for i := offset; i < end; i++ {
			resp.Rows = append(resp.Rows, filtered.Cells(i))
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"loaded": h.dataset.Loaded(),
	})
}
