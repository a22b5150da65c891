// Package budget tracks a spending ceiling for each calendar month
package budget

import (
	"time"

	"github.com/johnstarich/expenses/money"
)

// Check is the result of comparing a month's expenses against its budget
type Check struct {
	Month      time.Month
	Configured bool
	Budget     money.Amount
	Total      money.Amount
}

// Exceeded returns true if a budget is configured and the month's total is strictly greater than it
func (c Check) Exceeded() bool {
	return c.Configured && c.Total.GreaterThan(c.Budget.Decimal)
}

// Remaining returns how much is left to spend this month. Negative if exceeded.
func (c Check) Remaining() money.Amount {
	return money.New(c.Budget.Sub(c.Total.Decimal))
}
