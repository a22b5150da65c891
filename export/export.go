// Package export writes expenses to spreadsheet-friendly files
package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sErrors "github.com/johnstarich/expenses/errors"
	"github.com/johnstarich/expenses/expense"
	"github.com/pkg/errors"
)

// Header is the first row of every export
var Header = []string{"ID", "Date", "Description", "Amount", "Category"}

// Format is an export file format
type Format int

const (
	// CSV is comma-separated text
	CSV Format = iota
	// XLSX is an Excel workbook
	XLSX
)

// FormatFor picks the export format from a file's extension. Anything but .xlsx is CSV.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return XLSX
	}
	return CSV
}

func record(exp expense.Expense) []string {
	amount := ""
	if exp.Amount != nil {
		amount = exp.Amount.Fixed()
	}
	return []string{
		strconv.Itoa(exp.ID),
		string(exp.Date),
		exp.Description,
		amount,
		exp.Category,
	}
}

// WriteCSV writes a header row, then one row per expense
func WriteCSV(w io.Writer, expenses []expense.Expense) error {
	records := make([][]string, 0, len(expenses)+1)
	records = append(records, Header)
	for _, exp := range expenses {
		records = append(records, record(exp))
	}
	cw := csv.NewWriter(w)
	return errors.Wrap(cw.WriteAll(records), "Failed to write CSV records")
}

// ToFile writes expenses to 'path' in the format chosen by FormatFor, replacing any existing file
func ToFile(path string, expenses []expense.Expense) error {
	var buf bytes.Buffer
	switch FormatFor(path) {
	case XLSX:
		data, err := ExpensesXLSX(expenses)
		if err != nil {
			return err
		}
		buf.Write(data)
	default:
		if err := WriteCSV(&buf, expenses); err != nil {
			return err
		}
	}
	return sErrors.Storage(path, errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0644), "Failed to write export %q", path))
}
