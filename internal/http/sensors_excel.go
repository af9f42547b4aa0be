package httpapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/models"
)

// readingExportHeader 导出表头
var readingExportHeader = []string{
	"Timestamp",
	"Device ID",
	"Temperature (°C)",
	"Humidity (%)",
	"Soil Moisture (%)",
	"Light Level (lux)",
	"pH",
	"CO2 (ppm)",
}

// ExportHistory 把历史读数导出为 xlsx，?hours=24&limit=1000
func (h *SensorsHandler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	hours := parseInt(r.URL.Query().Get("hours"), defaultHistoryHours)
	limit := parseInt(r.URL.Query().Get("limit"), defaultHistoryLimit)
	if hours <= 0 || limit <= 0 {
		writeError(w, http.StatusBadRequest, "hours and limit must be positive")
		return
	}

	readings, err := h.readings.GetHistory(r.Context(), hours, limit)
	if err != nil {
		h.logger.Error("Failed to get readings for export", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get readings")
		return
	}

	buf, err := buildReadingsWorkbook(readings)
	if err != nil {
		h.logger.Error("Failed to build export workbook", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=sensor-readings.xlsx")
	_, _ = w.Write(buf.Bytes())
}

// buildReadingsWorkbook 生成读数导出工作簿
func buildReadingsWorkbook(readings []models.SensorReading) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	sheetName := "Sensor Readings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range readingExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, reading := range readings {
		row := i + 2
		values := []any{
			reading.Timestamp.Format("2006-01-02 15:04:05"),
			reading.DeviceID,
			floatCell(reading.Temperature),
			floatCell(reading.Humidity),
			floatCell(reading.SoilMoisture),
			floatCell(reading.LightLevel),
			floatCell(reading.PHLevel),
			floatCell(reading.CO2Level),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return &buf, nil
}

// floatCell 缺失值导出为空单元格
func floatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
