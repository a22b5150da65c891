// Package report formats expenses, totals, and budgets for display
package report

import (
	"fmt"
	"strings"

	"github.com/johnstarich/expenses/budget"
	"github.com/johnstarich/expenses/expense"
	"github.com/johnstarich/expenses/money"
	"github.com/shopspring/decimal"
)

const (
	// NoExpenses is shown in place of an empty table
	NoExpenses = "No expenses found"

	headerFormat = "%-4s %-12s %-15s %-7s %s"
	rowFormat    = "%-4d %-12s %-15s $%-7s %s"
)

// Table renders expenses as fixed-width columns, one row per expense
func Table(expenses []expense.Expense) string {
	if len(expenses) == 0 {
		return NoExpenses
	}
	lines := make([]string, 0, len(expenses)+1)
	lines = append(lines, fmt.Sprintf(headerFormat, "ID", "Date", "Description", "Amount", "Category"))
	for _, exp := range expenses {
		amount := "n/a"
		if exp.Amount != nil {
			amount = exp.Amount.Fixed()
		}
		lines = append(lines, fmt.Sprintf(rowFormat, exp.ID, exp.Date, exp.Description, amount, exp.Category))
	}
	return strings.Join(lines, "\n")
}

// Summary describes a total, naming the category then the month when the filter sets them.
// i.e. Total expenses with Food for August: $100.00
func Summary(total decimal.Decimal, filter expense.Filter) string {
	var buf strings.Builder
	buf.WriteString("Total expenses")
	if filter.Category != "" {
		buf.WriteString(" with ")
		buf.WriteString(filter.Category)
	}
	if filter.Month != 0 {
		buf.WriteString(" for ")
		buf.WriteString(filter.Month.String())
	}
	buf.WriteString(": ")
	buf.WriteString(money.New(total).String())
	return buf.String()
}

// BudgetCheck describes a budget check. Notice is set when no budget is configured, warning when it is exceeded.
func BudgetCheck(check budget.Check) (notice, warning string) {
	switch {
	case !check.Configured:
		return fmt.Sprintf("No budget configured for %s", check.Month), ""
	case check.Exceeded():
		return "", fmt.Sprintf("Warning: You have exceeded your budget for %s! Budget: %s, Total: %s", check.Month, check.Budget, check.Total)
	default:
		return "", ""
	}
}

// BudgetStatus describes a budget check in full, including the remaining amount when within budget
func BudgetStatus(check budget.Check) string {
	notice, warning := BudgetCheck(check)
	switch {
	case notice != "":
		return notice
	case warning != "":
		return warning
	default:
		return fmt.Sprintf("Total expenses for %s: %s of %s budget (%s remaining)", check.Month, check.Total, check.Budget, check.Remaining())
	}
}
