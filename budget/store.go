package budget

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/johnstarich/expenses/expense"
	"github.com/johnstarich/expenses/money"
	"github.com/johnstarich/expenses/plaindb"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Store manages budgets
type Store struct {
	bucket plaindb.Bucket
}

// NewStore loads the budgets file at 'path'. A missing file has no budgets.
func NewStore(db plaindb.DB, path string) (*Store, error) {
	bucket, err := db.Bucket(path, plaindb.ParserFunc(parseBudget))
	if err != nil {
		return nil, err
	}
	return &Store{
		bucket: bucket,
	}, nil
}

func formatMonth(month time.Month) string {
	return strconv.Itoa(int(month))
}

func parseBudget(id string, data json.RawMessage) (interface{}, error) {
	month, err := strconv.Atoi(id)
	if err != nil || month < int(time.January) || month > int(time.December) {
		return nil, errors.Errorf("Budget month must be 1 through 12: %q", id)
	}
	var value money.Amount
	err = json.Unmarshal(data, &value)
	return value, err
}

// Set saves the budget for 'month', replacing any previous one
func (s *Store) Set(month time.Month, value string) (money.Amount, error) {
	if err := expense.ValidateMonth(month, false); err != nil {
		return money.Amount{}, err
	}
	budget, err := money.ParseBudget(value)
	if err != nil {
		return money.Amount{}, err
	}
	return budget, s.bucket.Put(formatMonth(month), budget)
}

// Get returns the budget for 'month', if one is set
func (s *Store) Get(month time.Month) (money.Amount, bool, error) {
	var budget money.Amount
	if err := expense.ValidateMonth(month, false); err != nil {
		return budget, false, err
	}
	found, err := s.bucket.Get(formatMonth(month), &budget)
	return budget, found, err
}

// Check compares the total of 'expenses' in 'month' to that month's budget. A zero month checks the current month.
func (s *Store) Check(month time.Month, expenses []expense.Expense, logger *zap.Logger) (Check, error) {
	return s.check(time.Now, month, expenses, logger)
}

func (s *Store) check(getTime func() time.Time, month time.Month, expenses []expense.Expense, logger *zap.Logger) (Check, error) {
	if month == 0 {
		month = getTime().Month()
	}
	budget, found, err := s.Get(month)
	if err != nil || !found {
		return Check{Month: month}, err
	}
	total := expense.Total(expenses, expense.Filter{Month: month}, logger)
	return Check{
		Month:      month,
		Configured: true,
		Budget:     budget,
		Total:      money.New(total),
	}, nil
}
