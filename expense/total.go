package expense

import (
	"time"

	sErrors "github.com/johnstarich/expenses/errors"
	"github.com/johnstarich/expenses/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Filter narrows the expenses included in a total. Zero values match everything.
type Filter struct {
	Month    time.Month
	Category string
}

// Validate returns an error if Month is set but outside January through December
func (f Filter) Validate() error {
	return ValidateMonth(f.Month, true)
}

// ValidateMonth returns an error if month is not a calendar month. A zero month is valid if optional is set.
func ValidateMonth(month time.Month, optional bool) error {
	if optional && month == 0 {
		return nil
	}
	if month < time.January || month > time.December {
		return sErrors.Validation("Invalid month: %d", month)
	}
	return nil
}

// Total sums the amounts of expenses matching filter, rounded to cents.
// Expenses without a valid date or amount are skipped and logged.
func Total(expenses []Expense, filter Filter, logger *zap.Logger) decimal.Decimal {
	category := cleanText(filter.Category)
	var total decimal.Decimal
	for _, exp := range expenses {
		if err := exp.complete(); err != nil {
			logger.Warn("Skipping malformed expense", zap.Int("id", exp.ID), zap.Error(err))
			continue
		}
		if filter.Month != 0 {
			month, _ := exp.Date.Month() // already validated by complete()
			if month != filter.Month {
				continue
			}
		}
		if category != "" && exp.Category != category {
			continue
		}
		total = total.Add(exp.Amount.Decimal)
	}
	return total.Round(money.Places)
}
