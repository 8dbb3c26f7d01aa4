package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"sync"
	"time"

	"solecare-backend/internal/metrics"
	"solecare-backend/internal/models"
	"solecare-backend/internal/repositories"
	"solecare-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"
)

// forecastWindow is the trailing-average window used for revenue projection
const forecastWindow = 7

// RevenuePoint is one period of the revenue chart: branch data keys map to
// collected amounts, forecast keys to projected amounts.
type RevenuePoint struct {
	Period string             `json:"period"`
	Values map[string]float64 `json:"values"`
}

// BranchReportData is the per-branch slice of a revenue report
type BranchReportData struct {
	Branch *models.Branch
	Points []RevenuePoint
	Total  float64
}

type archiveUploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

// ReportService builds the revenue series behind the dashboard charts and
// renders them as Excel, CSV and PDF exports.
type ReportService struct {
	txnRepo    *repositories.TransactionRepository
	branchRepo *repositories.BranchRepository
	uploader   archiveUploader
}

func NewReportService(txnRepo *repositories.TransactionRepository, branchRepo *repositories.BranchRepository, uploader archiveUploader) *ReportService {
	return &ReportService{
		txnRepo:    txnRepo,
		branchRepo: branchRepo,
		uploader:   uploader,
	}
}

// DailyRevenueSeries returns one point per day in [from, to], with a value
// for every branch on every day so chart series never have holes.
func (s *ReportService) DailyRevenueSeries(ctx context.Context, from, to time.Time) ([]RevenuePoint, []*models.Branch, error) {
	branches, err := s.branchRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.txnRepo.DailyRevenue(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}
	return s.buildSeries(rows, branches, from, to, 24*time.Hour, "2006-01-02"), branches, nil
}

// MonthlyRevenueSeries returns one point per calendar month in [from, to]
func (s *ReportService) MonthlyRevenueSeries(ctx context.Context, from, to time.Time) ([]RevenuePoint, []*models.Branch, error) {
	branches, err := s.branchRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.txnRepo.MonthlyRevenue(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}

	byKey := indexRows(rows, "2006-01")
	var points []RevenuePoint
	for cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, timeutil.PHT); !cursor.After(to); cursor = cursor.AddDate(0, 1, 0) {
		period := cursor.Format("2006-01")
		values := make(map[string]float64, len(branches))
		for _, branch := range branches {
			values[branch.DataKey] = byKey[period][branch.ID]
		}
		points = append(points, RevenuePoint{Period: period, Values: values})
	}
	return points, branches, nil
}

// ForecastSeries projects the next `days` days per branch as the trailing
// average of the last forecastWindow days. Values land under each branch's
// forecast key so charts can draw actuals and projections as separate
// series.
func (s *ReportService) ForecastSeries(ctx context.Context, days int) ([]RevenuePoint, error) {
	now := timeutil.Now()
	from := timeutil.StartOfDay(now.AddDate(0, 0, -forecastWindow))
	actuals, branches, err := s.DailyRevenueSeries(ctx, from, now)
	if err != nil {
		return nil, err
	}

	averages := make(map[string]float64, len(branches))
	for _, branch := range branches {
		sum := 0.0
		for _, point := range actuals {
			sum += point.Values[branch.DataKey]
		}
		if len(actuals) > 0 {
			averages[branch.ID] = sum / float64(len(actuals))
		}
	}

	var points []RevenuePoint
	for i := 1; i <= days; i++ {
		day := now.AddDate(0, 0, i)
		values := make(map[string]float64, len(branches))
		for _, branch := range branches {
			values[branch.ForecastKey] = averages[branch.ID]
		}
		points = append(points, RevenuePoint{Period: day.Format("2006-01-02"), Values: values})
	}
	return points, nil
}

func (s *ReportService) buildSeries(rows []repositories.BranchRevenueRow, branches []*models.Branch, from, to time.Time, step time.Duration, layout string) []RevenuePoint {
	byKey := indexRows(rows, layout)
	var points []RevenuePoint
	for cursor := timeutil.StartOfDay(from); !cursor.After(to); cursor = cursor.Add(step) {
		period := cursor.Format(layout)
		values := make(map[string]float64, len(branches))
		for _, branch := range branches {
			values[branch.DataKey] = byKey[period][branch.ID]
		}
		points = append(points, RevenuePoint{Period: period, Values: values})
	}
	return points
}

func indexRows(rows []repositories.BranchRevenueRow, layout string) map[string]map[string]float64 {
	byKey := make(map[string]map[string]float64)
	for _, row := range rows {
		period := row.Day.Format(layout)
		if byKey[period] == nil {
			byKey[period] = make(map[string]float64)
		}
		byKey[period][row.BranchID] += row.Total
	}
	return byKey
}

// GenerateRevenueExcel renders the daily and monthly series plus the
// forecast into a workbook, one sheet each. Amount cells carry a peso
// currency format and rows are tinted by revenue tier so heavy days stand
// out when scanning.
func (s *ReportService) GenerateRevenueExcel(ctx context.Context, from, to time.Time) ([]byte, error) {
	daily, branches, err := s.DailyRevenueSeries(ctx, from, to)
	if err != nil {
		return nil, err
	}
	monthly, _, err := s.MonthlyRevenueSeries(ctx, from, to)
	if err != nil {
		return nil, err
	}
	forecast, err := s.ForecastSeries(ctx, forecastWindow)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	currencyStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: strPtr(`"PHP" #,##0.00`),
	})
	if err != nil {
		return nil, err
	}
	highTier, _ := f.NewStyle(&excelize.Style{
		CustomNumFmt: strPtr(`"PHP" #,##0.00`),
		Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C6EFCE"}},
	})
	zeroTier, _ := f.NewStyle(&excelize.Style{
		CustomNumFmt: strPtr(`"PHP" #,##0.00`),
		Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
	})

	writeSheet := func(sheet string, points []RevenuePoint, keyOf func(*models.Branch) string) error {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		f.SetCellValue(sheet, "A1", "Period")
		for col, branch := range branches {
			cell, _ := excelize.CoordinatesToCellName(col+2, 1)
			f.SetCellValue(sheet, cell, branch.DisplayName)
		}
		for rowIdx, point := range points {
			cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
			f.SetCellValue(sheet, cell, point.Period)
			for col, branch := range branches {
				amount := point.Values[keyOf(branch)]
				cell, _ := excelize.CoordinatesToCellName(col+2, rowIdx+2)
				f.SetCellValue(sheet, cell, amount)
				style := currencyStyle
				switch {
				case amount == 0:
					style = zeroTier
				case amount >= 5000:
					style = highTier
				}
				f.SetCellStyle(sheet, cell, cell, style)
			}
		}
		return nil
	}

	if err := writeSheet("Daily Revenue", daily, func(b *models.Branch) string { return b.DataKey }); err != nil {
		return nil, err
	}
	if err := writeSheet("Monthly Revenue", monthly, func(b *models.Branch) string { return b.DataKey }); err != nil {
		return nil, err
	}
	if err := writeSheet("Forecast", forecast, func(b *models.Branch) string { return b.ForecastKey }); err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	metrics.ExportsGeneratedTotal.WithLabelValues("xlsx").Inc()
	return buf.Bytes(), nil
}

func strPtr(s string) *string { return &s }

// GenerateRevenueCSV renders the daily series as CSV
func (s *ReportService) GenerateRevenueCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	daily, branches, err := s.DailyRevenueSeries(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Date"}
	for _, branch := range branches {
		header = append(header, branch.DisplayName)
	}
	w.Write(header)

	for _, point := range daily {
		row := []string{point.Period}
		for _, branch := range branches {
			row = append(row, fmt.Sprintf("%.2f", point.Values[branch.DataKey]))
		}
		w.Write(row)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	metrics.ExportsGeneratedTotal.WithLabelValues("csv").Inc()
	return buf.Bytes(), nil
}

// GenerateBranchPDF renders one branch's revenue breakdown
func (s *ReportService) GenerateBranchPDF(data *BranchReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, fmt.Sprintf("SoleCare - %s Revenue Report", data.Branch.DisplayName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.FormatPHT(timeutil.Now(), timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(95, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 7, "Collected", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, point := range data.Points {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(245, 245, 245)
		}
		pdf.CellFormat(95, 6, point.Period, "1", 0, "C", true, 0, "")
		pdf.CellFormat(95, 6, fmt.Sprintf("PHP %.2f", point.Values[data.Branch.DataKey]), "1", 1, "R", true, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(220, 230, 241)
	pdf.CellFormat(190, 9, fmt.Sprintf("Total: PHP %.2f", data.Total), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateBranchPDFs renders every branch's PDF in parallel
func (s *ReportService) GenerateBranchPDFs(ctx context.Context, from, to time.Time) (map[string][]byte, error) {
	daily, branches, err := s.DailyRevenueSeries(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type pdfResult struct {
		code string
		data []byte
		err  error
	}

	jobs := make(chan *BranchReportData, len(branches))
	results := make(chan pdfResult, len(branches))

	var wg sync.WaitGroup
	numWorkers := 5
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for data := range jobs {
				pdfData, err := s.GenerateBranchPDF(data)
				results <- pdfResult{code: data.Branch.Code, data: pdfData, err: err}
			}
		}()
	}

	for _, branch := range branches {
		total := 0.0
		for _, point := range daily {
			total += point.Values[branch.DataKey]
		}
		jobs <- &BranchReportData{Branch: branch, Points: daily, Total: total}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	pdfs := make(map[string][]byte)
	for r := range results {
		if r.err != nil {
			log.Printf("[Report] branch PDF failed for %s: %v", r.code, r.err)
			continue
		}
		pdfs[r.code] = r.data
	}
	metrics.ExportsGeneratedTotal.WithLabelValues("pdf").Inc()
	return pdfs, nil
}

// CreateBranchPDFZip bundles per-branch PDFs into one download
func (s *ReportService) CreateBranchPDFZip(pdfs map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for code, pdfData := range pdfs {
		fw, err := zw.Create(fmt.Sprintf("revenue_%s.pdf", code))
		if err != nil {
			continue
		}
		fw.Write(pdfData)
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Archive pushes an export to the retention bucket when one is configured.
// Failures are logged, not surfaced; the download the user asked for has
// already been served.
func (s *ReportService) Archive(ctx context.Context, name string, body []byte, contentType string) {
	if s.uploader == nil {
		return
	}
	key := fmt.Sprintf("exports/%s/%s", timeutil.Now().Format("2006-01"), name)
	if err := s.uploader.Upload(ctx, key, body, contentType); err != nil {
		log.Printf("[Report] archive failed for %s: %v", name, err)
	}
}
