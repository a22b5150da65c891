// Package tracker runs expense and budget operations against the configured store files
package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnstarich/expenses/budget"
	"github.com/johnstarich/expenses/config"
	"github.com/johnstarich/expenses/expense"
	"github.com/johnstarich/expenses/export"
	"github.com/johnstarich/expenses/plaindb"
	"github.com/johnstarich/expenses/report"
	"go.uber.org/zap"
)

// Tracker loads store files on demand. Each command should use a new Tracker.
type Tracker struct {
	db      plaindb.DB
	config  config.Config
	logger  *zap.Logger
	getTime func() time.Time
}

// New returns a Tracker for the files named in cfg
func New(cfg config.Config, logger *zap.Logger) *Tracker {
	return &Tracker{
		db:      plaindb.Open(),
		config:  cfg,
		logger:  logger,
		getTime: time.Now,
	}
}

// Close releases the underlying stores
func (t *Tracker) Close() error {
	return t.db.Close()
}

func (t *Tracker) expenses() (*expense.Store, error) {
	return expense.NewStore(t.db, t.config.ExpensesPath)
}

func (t *Tracker) budgets() (*budget.Store, error) {
	return budget.NewStore(t.db, t.config.BudgetPath)
}

// Add records a new expense, then checks the current month's budget
func (t *Tracker) Add(description, amount, category string) (Result, error) {
	store, err := t.expenses()
	if err != nil {
		return Result{}, err
	}
	exp, err := store.Add(description, amount, category)
	if err != nil {
		return Result{}, err
	}
	t.logger.Debug("Expense added", zap.Int("id", exp.ID), zap.String("path", store.Path()))

	result := ok(fmt.Sprintf("Expense added successfully (ID: %d)", exp.ID))
	return t.withBudgetCheck(result, store, exp)
}

// Update changes the supplied fields of an expense, then checks the budget for the expense's month
func (t *Tracker) Update(id int, patch expense.Patch) (Result, error) {
	store, err := t.expenses()
	if err != nil {
		return Result{}, err
	}
	exp, err := store.Update(id, patch)
	if err != nil {
		return Result{}, err
	}
	t.logger.Debug("Expense updated", zap.Int("id", exp.ID), zap.String("path", store.Path()))

	result := ok(fmt.Sprintf("Expense updated successfully (ID: %d)", exp.ID))
	return t.withBudgetCheck(result, store, exp)
}

// withBudgetCheck adds the budget check for exp's month to result
func (t *Tracker) withBudgetCheck(result Result, store *expense.Store, exp expense.Expense) (Result, error) {
	month, err := exp.Date.Month()
	if err != nil {
		t.logger.Warn("Skipping budget check for expense without a valid date", zap.Int("id", exp.ID), zap.Error(err))
		return result, nil
	}
	check, err := t.check(store, month)
	if err != nil {
		return Result{}, err
	}
	result.Notice, result.Warning = report.BudgetCheck(check)
	return result, nil
}

func (t *Tracker) check(store *expense.Store, month time.Month) (budget.Check, error) {
	budgets, err := t.budgets()
	if err != nil {
		return budget.Check{}, err
	}
	expenses, err := store.All()
	if err != nil {
		return budget.Check{}, err
	}
	return budgets.Check(month, expenses, t.logger)
}

// Delete removes an expense. A missing expense is reported with StatusNotFound.
func (t *Tracker) Delete(id int) (Result, error) {
	store, err := t.expenses()
	if err != nil {
		return Result{}, err
	}
	found, err := store.Delete(id)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{
			Status:  StatusNotFound,
			Message: fmt.Sprintf("Could not find an expense with id %d", id),
		}, nil
	}
	t.logger.Debug("Expense deleted", zap.Int("id", id), zap.String("path", store.Path()))
	return ok(fmt.Sprintf("Expense deleted successfully (ID: %d)", id)), nil
}

// List renders a table of expenses, optionally only those in 'category'
func (t *Tracker) List(category string) (Result, error) {
	store, err := t.expenses()
	if err != nil {
		return Result{}, err
	}
	if store.Len() == 0 {
		return Result{Status: StatusEmpty, Message: report.NoExpenses}, nil
	}
	expenses, err := store.List(category)
	if err != nil {
		return Result{}, err
	}
	if len(expenses) == 0 {
		return Result{Status: StatusEmpty, Message: report.NoExpenses}, nil
	}
	return ok(report.Table(expenses)), nil
}

// Summary totals expenses, optionally filtered by month (1-12, 0 for all) and category
func (t *Tracker) Summary(month time.Month, category string) (Result, error) {
	filter := expense.Filter{Month: month, Category: strings.TrimSpace(category)}
	if err := filter.Validate(); err != nil {
		return Result{}, err
	}
	store, err := t.expenses()
	if err != nil {
		return Result{}, err
	}
	expenses, err := store.All()
	if err != nil {
		return Result{}, err
	}
	total := expense.Total(expenses, filter, t.logger)
	return ok(report.Summary(total, filter)), nil
}

// SetBudget sets the budget for 'month', replacing any previous budget
func (t *Tracker) SetBudget(month time.Month, value string) (Result, error) {
	budgets, err := t.budgets()
	if err != nil {
		return Result{}, err
	}
	amount, err := budgets.Set(month, value)
	if err != nil {
		return Result{}, err
	}
	t.logger.Debug("Budget set", zap.Stringer("month", month), zap.String("budget", amount.Fixed()))
	return ok(fmt.Sprintf("Budget for %s set to %s", month, amount)), nil
}

// CheckBudget compares a month's expenses to its budget. A zero month checks the current month.
func (t *Tracker) CheckBudget(month time.Month) (Result, error) {
	if month == 0 {
		month = t.getTime().Month()
	}
	if err := expense.ValidateMonth(month, false); err != nil {
		return Result{}, err
	}
	store, err := t.expenses()
	if err != nil {
		return Result{}, err
	}
	check, err := t.check(store, month)
	if err != nil {
		return Result{}, err
	}
	return ok(report.BudgetStatus(check)), nil
}

// Export writes all expenses to 'output'. Nothing is written when there are no expenses.
func (t *Tracker) Export(output string) (Result, error) {
	store, err := t.expenses()
	if err != nil {
		return Result{}, err
	}
	if store.Len() == 0 {
		return Result{Status: StatusEmpty, Message: "No expenses to export"}, nil
	}
	expenses, err := store.All()
	if err != nil {
		return Result{}, err
	}
	if err := export.ToFile(output, expenses); err != nil {
		return Result{}, err
	}
	t.logger.Debug("Expenses exported", zap.Int("count", len(expenses)), zap.String("output", output))
	return ok(fmt.Sprintf("Expenses exported successfully to %s", output)), nil
}
