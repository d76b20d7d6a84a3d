package answer

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Answers"

// BuildWorkbook renders questionnaire answers into a spreadsheet, one row per
// answer, grouped by user in query order.
func BuildWorkbook(rows []ListByQuestionnaireIDRow) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create export sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	headers := []string{"User", "Question", "Answer", "Submitted At"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("build header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, row := range rows {
		values := []any{
			row.UserName,
			row.QuestionTitle,
			row.Value,
			row.CreatedAt.Time.Format(time.RFC3339),
		}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("build data cell: %w", err)
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	return f, nil
}
