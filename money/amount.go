// Package money holds the non-negative dollar amounts used by expenses and budgets
package money

import (
	"strings"

	sErrors "github.com/johnstarich/expenses/errors"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Places is the number of decimal places amounts are displayed and totalled with
const Places = 2

// Amount is a non-negative decimal value. Encodes to JSON as a plain number.
type Amount struct {
	decimal.Decimal
}

// New returns an Amount for d
func New(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// NewFromFloat returns an Amount for f
func NewFromFloat(f float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(f)}
}

// Parse parses an expense amount from user input
func Parse(s string) (Amount, error) {
	return parse(s, "amount", "Amount")
}

// ParseBudget parses a budget ceiling from user input
func ParseBudget(s string) (Amount, error) {
	return parse(s, "budget", "Budget")
}

func parse(s, lowerName, upperName string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, sErrors.Validation("Invalid %s: %q", lowerName, s)
	}
	if d.IsNegative() {
		return Amount{}, sErrors.Validation("%s cannot be negative", upperName)
	}
	return Amount{Decimal: d}, nil
}

// String formats a as dollars with two decimal places, i.e. $25.90
func (a Amount) String() string {
	return "$" + a.Fixed()
}

// Fixed formats a with two decimal places and no currency symbol
func (a Amount) Fixed() string {
	return a.Decimal.StringFixed(Places)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return errors.New("amount must not be null")
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	if d.IsNegative() {
		return errors.Errorf("amount must not be negative: %s", d)
	}
	a.Decimal = d
	return nil
}
