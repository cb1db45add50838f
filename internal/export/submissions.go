// Package export renders submission history as a spreadsheet.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"hdp-service/internal/models"
)

const (
	SheetName   = "Submissions"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Header is the first row of the workbook, one column per audit field.
var Header = []string{
	"Record ID",
	"Submitted At (UTC)",
	"Patient",
	"Age",
	"Sex",
	"Chest Pain",
	"Resting BP",
	"Cholesterol",
	"Fasting BS > 120",
	"Resting ECG",
	"Max Heart Rate",
	"Exercise Angina",
	"ST Depression",
	"ST Slope",
	"Major Vessels",
	"Thalassemia",
	"Disease Probability (%)",
}

var columnWidths = []float64{38, 20, 24, 6, 10, 18, 11, 12, 16, 28, 15, 16, 13, 12, 13, 18, 22}

func row(s models.HeartSubmission) []interface{} {
	return []interface{}{
		s.ID,
		s.SubmissionDatetime.UTC().Format("2006-01-02 15:04:05"),
		s.PatientName,
		s.Age,
		s.Sex,
		s.CP,
		s.Trestbps,
		s.Chol,
		yesNo(s.FBS),
		s.RestECG,
		s.Thalach,
		yesNo(s.Exang),
		s.Oldpeak,
		s.Slope,
		s.CA,
		s.Thal,
		s.DiseaseProba,
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Workbook builds an .xlsx file with a frozen header row and one row per
// submission, in the given order.
func Workbook(items []models.HeartSubmission) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#65AABB"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	for i, s := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := row(s)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
