package export

import (
	"github.com/johnstarich/expenses/expense"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet expenses are written to
const SheetName = "Expenses"

// ExpensesXLSX returns a workbook with a header row and one row per expense. Amounts are numeric cells.
func ExpensesXLSX(expenses []expense.Expense) ([]byte, error) {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	_ = xlsx.SetAppProps(&excelize.AppProperties{
		Application: "github.com/johnstarich/expenses",
	})

	sheet := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	if err := xlsx.SetSheetName(sheet, SheetName); err != nil {
		return nil, errors.Wrap(err, "Failed to name worksheet")
	}
	sheet = SheetName

	_ = xlsx.SetColWidth(sheet, "A", "A", 6)
	_ = xlsx.SetColWidth(sheet, "B", "B", 12)
	_ = xlsx.SetColWidth(sheet, "C", "C", 40)
	_ = xlsx.SetColWidth(sheet, "D", "E", 15)

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := xlsx.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, errors.Wrap(err, "Failed to write header")
	}
	bold, err := xlsx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = xlsx.SetCellStyle(sheet, "A1", "E1", bold)
	}

	for i, exp := range expenses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{exp.ID, string(exp.Date), exp.Description, nil, exp.Category}
		if exp.Amount != nil {
			row[3] = exp.Amount.InexactFloat64()
		}
		if err := xlsx.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, errors.Wrapf(err, "Failed to write expense %d", exp.ID)
		}
	}

	if len(expenses) > 0 {
		twoPlaces := "0.00"
		amountStyle, err := xlsx.NewStyle(&excelize.Style{CustomNumFmt: &twoPlaces})
		if err == nil {
			lastCell, _ := excelize.CoordinatesToCellName(4, len(expenses)+1)
			_ = xlsx.SetCellStyle(sheet, "D2", lastCell, amountStyle)
		}
	}

	buf, err := xlsx.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to encode workbook")
	}
	return buf.Bytes(), nil
}
