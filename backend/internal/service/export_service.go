package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/model"
	"seguimientos/backend/internal/repository"
	"seguimientos/backend/pkg/academicyear"
)

// ── Export errors ──

var (
	ErrExportNoReports    = errors.New("no progress reports match the filters")
	ErrExportGenerateFail = errors.New("failed to generate export file")
)

// Export formats.
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

// ExportFile is a generated download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        *bytes.Buffer
}

// ExportService flattens progress reports into a spreadsheet.
//
// The output has one row per report with teacher, cycle, module, group,
// month, status, compliance and the justification texts. Year defaults to
// the current academic year; month 0 exports every month.
type ExportService interface {
	ExportReports(ctx context.Context, q *dto.ExportQuery) (*ExportFile, error)
}

type exportService struct {
	repo   *repository.Repository
	years  AcademicYearService
	logger *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, years AcademicYearService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, years: years, logger: logger}
}

var exportHeader = []string{
	"Teacher", "Cycle", "Module", "Group", "Month", "Status", "Compliance",
	"Current unit", "Last content taught", "Status justification",
	"Noncompliance justification", "Noncompliance reason", "Evaluation",
}

func (s *exportService) ExportReports(ctx context.Context, q *dto.ExportQuery) (*ExportFile, error) {
	year := q.Year
	if year == "" {
		current, err := s.years.CurrentYear(ctx)
		if err != nil {
			return nil, err
		}
		year = current
	}

	reports, err := s.repo.ProgressReport.List(ctx, repository.ReportFilter{Year: year, Month: q.Month})
	if err != nil {
		s.logger.Error("list progress reports failed", zap.Error(err))
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrExportNoReports
	}

	rows := make([][]string, 0, len(reports))
	for i := range reports {
		rows = append(rows, exportRow(&reports[i]))
	}

	base := "progress_reports_" + year
	if q.Month != 0 {
		base += fmt.Sprintf("_%02d", q.Month)
	}

	if q.Format == ExportFormatCSV {
		buf, err := writeCSV(rows)
		if err != nil {
			s.logger.Error("write csv failed", zap.Error(err))
			return nil, ErrExportGenerateFail
		}
		return &ExportFile{Filename: base + ".csv", ContentType: "text/csv; charset=utf-8", Data: buf}, nil
	}

	buf, err := writeXLSX(year, rows)
	if err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return &ExportFile{
		Filename:    base + ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf,
	}, nil
}

func exportRow(r *model.ProgressReport) []string {
	var teacher, cycle, module, group string
	if a := r.Assignment; a != nil {
		teacher = teacherName(*a)
		module = moduleName(*a)
		group = groupName(*a)
		if a.Module != nil && a.Module.Cycle != nil {
			cycle = a.Module.Cycle.Name
		}
	}

	unit := strconv.FormatUint(uint64(r.CurrentUnitID), 10)
	if r.CurrentUnit != nil {
		unit = fmt.Sprintf("%d. %s", r.CurrentUnit.UnitNumber, r.CurrentUnit.Title)
	}

	compliance := "no"
	if r.Compliance {
		compliance = "yes"
	}

	return []string{
		teacher, cycle, module, group,
		academicyear.MonthName(r.Month), r.Status, compliance, unit,
		r.LastContentTaught, r.StatusJustification,
		r.NoncomplianceJustification, r.NoncomplianceReason, r.Evaluation,
	}
}

func writeCSV(rows [][]string) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeXLSX(year string, rows [][]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := year
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range exportHeader {
		_ = f.SetCellValue(sheet, cellName(i, 1), h)
	}
	_ = f.SetCellStyle(sheet, cellName(0, 1), cellName(len(exportHeader)-1, 1), headerStyle)

	for r, row := range rows {
		for c, v := range row {
			_ = f.SetCellValue(sheet, cellName(c, r+2), v)
		}
	}

	_ = f.SetColWidth(sheet, "A", colName(len(exportHeader)-1), 20)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
