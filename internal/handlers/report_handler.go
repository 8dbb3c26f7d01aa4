package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"solecare-backend/internal/services"
	"solecare-backend/internal/timeutil"
	"solecare-backend/pkg/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// parseRange reads ?from= and ?to= dates, defaulting to the last 30 days
func parseRange(r *http.Request) (time.Time, time.Time, error) {
	now := timeutil.Now()
	from := timeutil.StartOfDay(now.AddDate(0, 0, -30))
	to := timeutil.EndOfDay(now)

	if s := r.URL.Query().Get("from"); s != "" {
		parsed, err := timeutil.ParseInPHT(timeutil.DateLayout, s)
		if err != nil {
			return from, to, fmt.Errorf("invalid from date")
		}
		from = timeutil.StartOfDay(parsed)
	}
	if s := r.URL.Query().Get("to"); s != "" {
		parsed, err := timeutil.ParseInPHT(timeutil.DateLayout, s)
		if err != nil {
			return from, to, fmt.Errorf("invalid to date")
		}
		to = timeutil.EndOfDay(parsed)
	}
	return from, to, nil
}

func (h *ReportHandler) DailyRevenue(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	points, branches, err := h.reportService.DailyRevenueSeries(r.Context(), from, to)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to build revenue series")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"points":   points,
		"branches": branches,
	})
}

func (h *ReportHandler) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	points, branches, err := h.reportService.MonthlyRevenueSeries(r.Context(), from, to)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to build revenue series")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"points":   points,
		"branches": branches,
	})
}

func (h *ReportHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	days := 7
	if s := r.URL.Query().Get("days"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 1 || parsed > 90 {
			utils.Error(w, http.StatusBadRequest, "days must be between 1 and 90")
			return
		}
		days = parsed
	}

	points, err := h.reportService.ForecastSeries(r.Context(), days)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to build forecast")
		return
	}
	utils.JSON(w, http.StatusOK, points)
}

func (h *ReportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.reportService.GenerateRevenueExcel(r.Context(), from, to)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate Excel export")
		return
	}

	filename := fmt.Sprintf("revenue_%s.xlsx", timeutil.Now().Format("20060102"))
	h.reportService.Archive(r.Context(), filename, data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(data)
}

func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.reportService.GenerateRevenueCSV(r.Context(), from, to)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate CSV export")
		return
	}

	filename := fmt.Sprintf("revenue_%s.csv", timeutil.Now().Format("20060102"))
	h.reportService.Archive(r.Context(), filename, data, "text/csv")

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(data)
}

// ExportPDFZip bundles per-branch revenue PDFs into one ZIP download
func (h *ReportHandler) ExportPDFZip(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	pdfs, err := h.reportService.GenerateBranchPDFs(r.Context(), from, to)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate branch PDFs")
		return
	}
	zipData, err := h.reportService.CreateBranchPDFZip(pdfs)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to bundle PDFs")
		return
	}

	filename := fmt.Sprintf("branch_reports_%s.zip", timeutil.Now().Format("20060102"))
	h.reportService.Archive(r.Context(), filename, zipData, "application/zip")

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(zipData)
}
