// Package expense records expenses in a JSON file keyed by expense ID
package expense

import (
	"strings"
	"time"

	sErrors "github.com/johnstarich/expenses/errors"
	"github.com/johnstarich/expenses/money"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

const (
	// DateFormat is the day-month-year layout expense dates are stored in
	DateFormat = "02-01-2006"
	// parseDateFormat also accepts days and months without a leading zero
	parseDateFormat = "2-1-2006"
	// Uncategorized is the category of expenses added without one
	Uncategorized = "Uncategorized"
)

// Expense is a single recorded monetary outflow
type Expense struct {
	ID          int           `json:"-"`
	Date        Date          `json:"date"`
	Description string        `json:"description"`
	Amount      *money.Amount `json:"amount,omitempty"`
	Category    string        `json:"category"`
}

// Date is a calendar date stored as DD-MM-YYYY text
type Date string

// NewDate formats t's calendar date
func NewDate(t time.Time) Date {
	return Date(t.Format(DateFormat))
}

// Time parses d. Fails if d is missing or not in day-month-year form, i.e. 03-08-2026 or 3-8-2026.
func (d Date) Time() (time.Time, error) {
	if d == "" {
		return time.Time{}, errors.New("Missing date")
	}
	t, err := time.Parse(parseDateFormat, string(d))
	return t, errors.Wrapf(err, "Invalid date %q", string(d))
}

// Month returns the calendar month of d
func (d Date) Month() (time.Month, error) {
	t, err := d.Time()
	if err != nil {
		return 0, err
	}
	return t.Month(), nil
}

// complete returns an error describing the first required field missing from e
func (e Expense) complete() error {
	if e.Amount == nil {
		return errors.New("Missing amount")
	}
	_, err := e.Date.Time()
	return err
}

func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ParseDescription trims and normalizes a description. Fails if nothing is left.
func ParseDescription(description string) (string, error) {
	description = cleanText(description)
	if description == "" {
		return "", sErrors.Validation("Description cannot be empty")
	}
	return description, nil
}

// ParseCategory trims and normalizes a category. Blank categories become Uncategorized.
func ParseCategory(category string) string {
	category = cleanText(category)
	if category == "" {
		return Uncategorized
	}
	return category
}
