package analytics

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/floraos/retail-insights/pkg/models/api"
	"github.com/floraos/retail-insights/pkg/models/domain"
	"github.com/floraos/retail-insights/pkg/services/compare"
	"github.com/floraos/retail-insights/pkg/services/format"
	"github.com/floraos/retail-insights/pkg/services/reports"
	"github.com/floraos/retail-insights/pkg/store/selections"
)

type Handler struct {
	dispatcher reports.Dispatcher
	engine     *compare.Engine
	store      selections.Store
}

func NewHandler(dispatcher reports.Dispatcher, engine *compare.Engine, store selections.Store) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		engine:     engine,
		store:      store,
	}
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	var response []api.ReportKind
	for _, def := range h.dispatcher.Reports() {
		response = append(response, api.ReportKind{
			Key:   def.Key,
			Title: def.Title,
			Dated: def.Dated(),
		})
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "report")

	dateRange, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	def, err := h.dispatcher.Get(key)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.dispatcher.Run(ctx, key, dateRange)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := buildView(def, result)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *Handler) ListSelections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	type response struct {
		Selections []api.Selection `json:"selections"`
		Warning    string          `json:"warning,omitempty"`
	}

	sels, err := h.store.Load(ctx)
	if err != nil {
		// Unreadable store degrades to an empty sequence with a warning;
		// the comparison page must still render.
		logger.Warn().Err(err).Msg("selection store unreadable, serving empty list")
		writeJSON(w, r, http.StatusOK, response{
			Selections: []api.Selection{},
			Warning:    "saved selections could not be read",
		})
		return
	}

	resp := response{Selections: make([]api.Selection, 0, len(sels))}
	for _, sel := range sels {
		resp.Selections = append(resp.Selections, api.SelectionFromDomain(sel))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) SaveSelection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.Selection
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &domain.ValidationError{Msg: "request body is not valid JSON"})
		return
	}

	dateRange, err := domain.ParseDateRange(req.Start, req.End)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sel := domain.SavedSelection{Start: dateRange.Start, End: dateRange.End}
	if err := h.store.Save(ctx, sel); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, api.SelectionFromDomain(sel))
}

func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &domain.ValidationError{Msg: "request body is not valid JSON"})
		return
	}

	def, err := h.dispatcher.Get(req.Report)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sels := make([]domain.SavedSelection, 0, len(req.Selections))
	for _, s := range req.Selections {
		dateRange, err := domain.ParseDateRange(s.Start, s.End)
		if err != nil {
			writeError(w, r, err)
			return
		}
		sels = append(sels, domain.SavedSelection{Start: dateRange.Start, End: dateRange.End})
	}

	cmp, err := h.engine.Compare(ctx, req.Report, sels, req.Summarize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := api.Comparison{
		Report:   cmp.Report,
		Summary:  cmp.Summary,
		Warnings: cmp.Warnings,
	}
	resp.First, err = sideToAPI(def, cmp.First)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp.Second, err = sideToAPI(def, cmp.Second)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// rangeFromQuery reads start/end query parameters, defaulting to the
// previous calendar month when both are absent. Supplying only one bound
// is operator error.
func rangeFromQuery(r *http.Request) (domain.DateRange, error) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	if start == "" && end == "" {
		return domain.PreviousMonth(time.Now()), nil
	}
	if start == "" || end == "" {
		return domain.DateRange{}, &domain.ValidationError{
			Msg: "provide both start and end dates, or neither for the previous month",
		}
	}
	return domain.ParseDateRange(start, end)
}

func buildView(def reports.ReportDef, res domain.ReportResult) (api.ReportView, error) {
	view := api.ReportView{
		Report:  res.Report,
		Title:   def.Title,
		Columns: res.Columns,
		Rows:    make([]map[string]any, 0, len(res.Rows)),
		NoData:  res.Empty(),
	}
	if def.Dated() {
		dr := api.DateRangeFromDomain(res.Range)
		view.Range = &dr
	}
	for _, row := range res.Rows {
		view.Rows = append(view.Rows, map[string]any(row))
	}

	if res.Empty() {
		view.Markdown = format.NoData
		return view, nil
	}

	for _, ranking := range def.Rankings {
		list, err := format.TopN(res, ranking, def.LabelColumns, format.MaxEntries)
		if err != nil {
			return api.ReportView{}, err
		}
		view.Ranked = append(view.Ranked, api.RankedListFromDomain(list))
		view.Markdown += format.Markdown(list, ranking)
	}

	if def.Chart != nil {
		spec, err := format.Chart(res, def.Chart.Title, def.Chart.Category,
			def.Chart.Value, def.Chart.SeriesLabel, def.Chart.CategoryOrder)
		if err != nil {
			return api.ReportView{}, err
		}
		apiSpec := api.ChartSpecFromDomain(spec)
		view.Chart = &apiSpec
	}
	return view, nil
}

func sideToAPI(def reports.ReportDef, side domain.ComparisonSide) (api.ComparisonSide, error) {
	out := api.ComparisonSide{
		Range:   api.DateRangeFromDomain(side.Range),
		Summary: side.Summary,
		Failure: side.Failure,
	}
	if side.Failure != "" {
		return out, nil
	}

	view, err := buildView(def, side.Result)
	if err != nil {
		return api.ComparisonSide{}, err
	}
	out.View = view
	for _, list := range side.Ranked {
		out.Ranked = append(out.Ranked, api.RankedListFromDomain(list))
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps the error taxonomy onto HTTP statuses. The operator sees
// a stable code and message; the raw error goes to the log and, as an
// optional diagnostic, the detail field.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	var (
		verr *domain.ValidationError
		cnf  *domain.ColumnNotFoundError
		qf   *domain.QueryFailure
		perr *domain.PersistenceError
	)

	status := http.StatusInternalServerError
	apiErr := api.Error{Code: "internal", Message: "internal error"}

	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		apiErr = api.Error{Code: "validation", Message: verr.Msg}
	case errors.As(err, &cnf):
		apiErr = api.Error{
			Code:    "column_not_found",
			Message: "report definition does not match the warehouse schema",
			Detail:  cnf.Error(),
		}
	case errors.As(err, &qf):
		switch qf.Kind {
		case domain.FailureTimeout:
			status = http.StatusGatewayTimeout
			apiErr = api.Error{Code: "timeout", Message: "warehouse query timed out"}
		case domain.FailureConnection:
			status = http.StatusBadGateway
			apiErr = api.Error{Code: "connection", Message: "warehouse is unreachable"}
		default:
			status = http.StatusBadGateway
			apiErr = api.Error{Code: "query", Message: "warehouse query failed"}
		}
		apiErr.Detail = qf.Error()
	case errors.As(err, &perr):
		apiErr = api.Error{Code: "persistence", Message: "selection store failure", Detail: perr.Error()}
	}

	logger.Error().Err(err).Str("code", apiErr.Code).Msg("request failed")
	writeJSON(w, r, status, apiErr)
}
