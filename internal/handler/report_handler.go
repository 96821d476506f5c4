package handler

import (
	"net/http"
	"time"

	"github.com/Sima922/clouds-pos/internal/service"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

const reportDateLayout = "2006-01-02"

// ReportHandler exposes sales report generation and history over HTTP.
type ReportHandler struct {
	reportService service.ReportServiceInterface
	logger        *logger.Logger
}

func NewReportHandler(reportService service.ReportServiceInterface, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        log.WithComponent("report_handler"),
	}
}

// GenerateDaily handles POST /api/v1/reports/daily
func (h *ReportHandler) GenerateDaily(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.GenerateDaily(r.Context(), actorID(r))
	if err != nil {
		h.logger.Warn("Failed to generate daily report", "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, report)
}

// GenerateRange handles POST /api/v1/reports/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) GenerateRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := time.Parse(reportDateLayout, query.Get("start"))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "start must be a date in YYYY-MM-DD format")
		return
	}
	end, err := time.Parse(reportDateLayout, query.Get("end"))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "end must be a date in YYYY-MM-DD format")
		return
	}

	report, err := h.reportService.GenerateRange(r.Context(), actorID(r), start, end)
	if err != nil {
		h.logger.Warn("Failed to generate range report", "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, report)
}

// ListReports handles GET /api/v1/reports
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportService.ListReports(r.Context(), actorID(r))
	if err != nil {
		h.logger.Error("Failed to list reports", "error", err)
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, reports)
}
