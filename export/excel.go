package export

import (
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"retinascope/models"
)

const logsSheet = "Logs"

// LogsWorkbook Render audit entries into a spreadsheet, one row per entry in
// the order they are given (the caller passes them newest first).
func LogsWorkbook(entries []models.LogEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", logsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	header := []interface{}{"Action", "Entity", "Entity ID", "User", "Details", "Created At"}
	if err := f.SetSheetRow(logsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, e := range entries {
		user := ""
		if e.User != nil {
			user = *e.User
		}
		details := "{}"
		if e.Details != nil {
			if b, err := json.Marshal(e.Details); err == nil {
				details = string(b)
			}
		}
		row := []interface{}{
			e.Action,
			e.Entity,
			e.EntityID,
			user,
			details,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(logsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
