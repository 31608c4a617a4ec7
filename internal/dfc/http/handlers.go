package dfchttp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/govflux/govflux/internal/dfc"
	"github.com/govflux/govflux/internal/observability"
	"github.com/govflux/govflux/internal/qualifier"
)

// StatementService defines the statement computation contract used by the
// handler.
type StatementService interface {
	BuildReport(ctx context.Context, req dfc.ReportRequest) (*dfc.Report, error)
	DrillDown(ctx context.Context, req dfc.DrillDownRequest) (*dfc.DrillDown, error)
}

// Handler coordinates HTTP requests for cash-flow statements.
type Handler struct {
	logger   *slog.Logger
	service  StatementService
	metrics  *observability.Metrics
	validate *validator.Validate
}

// NewHandler constructs the statement HTTP handler.
func NewHandler(logger *slog.Logger, service StatementService, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		metrics:  metrics,
		validate: validator.New(),
	}
}

type reportQuery struct {
	Mode     string `validate:"required,oneof=day month"`
	Year     int    `validate:"required,min=1,max=9999"`
	Month    int    `validate:"omitempty,min=1,max=12"`
	Months   []int  `validate:"omitempty,dive,min=1,max=12"`
	Strategy string `validate:"required,oneof=realized projected"`
	Scenario int64  `validate:"min=0"`
}

type drillDownQuery struct {
	Qualifier int64  `validate:"required,min=1"`
	Column    int    `validate:"required,min=1,max=31"`
	Mode      string `validate:"required,oneof=day month"`
	Year      int    `validate:"required,min=1,max=9999"`
	Month     int    `validate:"omitempty,min=1,max=12"`
	Strategy  string `validate:"required,oneof=realized projected"`
	Scenario  int64  `validate:"min=0"`
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	form := reportQuery{
		Mode:     strings.TrimSpace(q.Get("mode")),
		Year:     atoiOr(q.Get("year"), 0),
		Month:    atoiOr(q.Get("month"), 0),
		Months:   parseMonths(q.Get("months")),
		Strategy: strategyOrDefault(q.Get("strategy")),
		Scenario: atoi64Or(q.Get("scenario"), 0),
	}
	if err := h.validate.Struct(form); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid report request")
		return
	}

	// Statement ids tie a served response to its log line when a figure is
	// questioned after the fact.
	statementID := uuid.NewString()
	start := time.Now()
	report, err := h.service.BuildReport(r.Context(), dfc.ReportRequest{
		Mode:       dfc.PeriodMode(form.Mode),
		Year:       form.Year,
		Month:      form.Month,
		Months:     form.Months,
		Strategy:   dfc.Strategy(form.Strategy),
		ScenarioID: form.Scenario,
	})
	if err != nil {
		h.replyServiceError(w, r, err)
		return
	}
	elapsed := time.Since(start)
	h.metrics.ObserveReportBuild(form.Mode, form.Strategy, elapsed)
	h.logger.Info("statement built",
		slog.String("statement_id", statementID),
		slog.String("mode", form.Mode),
		slog.Int("year", form.Year),
		slog.String("strategy", form.Strategy),
		slog.Duration("elapsed", elapsed),
	)
	w.Header().Set("X-Statement-ID", statementID)
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleDrillDown(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	form := drillDownQuery{
		Qualifier: atoi64Or(q.Get("qualifier"), 0),
		Column:    atoiOr(q.Get("column"), 0),
		Mode:      strings.TrimSpace(q.Get("mode")),
		Year:      atoiOr(q.Get("year"), 0),
		Month:     atoiOr(q.Get("month"), 0),
		Strategy:  strategyOrDefault(q.Get("strategy")),
		Scenario:  atoi64Or(q.Get("scenario"), 0),
	}
	if err := h.validate.Struct(form); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid drill-down request")
		return
	}

	events, err := h.service.DrillDown(r.Context(), dfc.DrillDownRequest{
		QualifierID: form.Qualifier,
		Column:      form.Column,
		Mode:        dfc.PeriodMode(form.Mode),
		Year:        form.Year,
		Month:       form.Month,
		Strategy:    dfc.Strategy(form.Strategy),
		ScenarioID:  form.Scenario,
	})
	if err != nil {
		h.replyServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, events)
}

func (h *Handler) replyServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dfc.ErrInvalidPeriod):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, dfc.ErrUnknownQualifier):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, qualifier.ErrCyclicHierarchy):
		h.logger.Error("qualifier hierarchy is cyclic", slog.String("path", r.URL.Path), slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, "qualifier hierarchy is inconsistent")
	default:
		h.logger.Error("statement computation failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response", slog.Any("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func strategyOrDefault(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return string(dfc.StrategyRealized)
	}
	return raw
}

func parseMonths(raw string) []int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	months := make([]int, 0, len(parts))
	for _, p := range parts {
		m, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return []int{-1} // force validation failure
		}
		months = append(months, m)
	}
	return months
}

func atoiOr(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

func atoi64Or(raw string, fallback int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
