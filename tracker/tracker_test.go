package tracker

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/johnstarich/expenses/config"
	sErrors "github.com/johnstarich/expenses/errors"
	"github.com/johnstarich/expenses/expense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func strPtr(s string) *string {
	return &s
}

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	return config.Config{
		ExpensesPath: filepath.Join(dir, "expenses.json"),
		BudgetPath:   filepath.Join(dir, "budget.json"),
	}
}

// run executes fn against a fresh Tracker, like a single command invocation
func run(t *testing.T, cfg config.Config, fn func(*Tracker) (Result, error)) (Result, error) {
	t.Helper()
	tracker := New(cfg, zaptest.NewLogger(t))
	defer func() {
		assert.NoError(t, tracker.Close())
	}()
	return fn(tracker)
}

func mustRun(t *testing.T, cfg config.Config, fn func(*Tracker) (Result, error)) Result {
	t.Helper()
	result, err := run(t, cfg, fn)
	require.NoError(t, err)
	return result
}

func writeExpenses(t *testing.T, cfg config.Config, contents string) {
	require.NoError(t, ioutil.WriteFile(cfg.ExpensesPath, []byte(contents), 0600))
}

func TestAddAndList(t *testing.T) {
	cfg := testConfig(t)
	result := mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Add("Test Lunch", "25.90", "Food")
	})
	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "Expense added successfully (ID: 1)", result.Message)
	assert.Equal(t, fmt.Sprintf("No budget configured for %s", time.Now().Month()), result.Notice)
	assert.Empty(t, result.Warning)

	result = mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.List("")
	})
	assert.Contains(t, result.Message, "Test Lunch")
	assert.Contains(t, result.Message, "$25.90")
	assert.Contains(t, result.Message, "Food")
	assert.True(t, strings.HasPrefix(result.Message, "ID   Date"))
}

func TestListEmpty(t *testing.T) {
	cfg := testConfig(t)
	result := mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.List("")
	})
	assert.Equal(t, StatusEmpty, result.Status)
	assert.Equal(t, "No expenses found", result.Message)
}

func TestListByCategory(t *testing.T) {
	cfg := testConfig(t)
	writeExpenses(t, cfg, `{
		"1": {"date": "19-10-2026", "description": "Groceries", "amount": 100, "category": "Food"},
		"3": {"date": "19-10-2026", "description": "Gas", "amount": 200, "category": "Transport"}
	}`)
	result := mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.List("Food")
	})
	assert.Contains(t, result.Message, "Category")
	assert.Contains(t, result.Message, "Groceries")
	assert.NotContains(t, result.Message, "Transport")

	result = mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.List("Rent")
	})
	assert.Equal(t, "No expenses found", result.Message)
}

func TestAddBudgetWarning(t *testing.T) {
	cfg := testConfig(t)
	month := time.Now().Month()
	mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.SetBudget(month, "30")
	})

	result := mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Add("Lunch", "30", "Food")
	})
	assert.Empty(t, result.Notice)
	assert.Empty(t, result.Warning, "Spending exactly the budget is not exceeding it")

	result = mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Add("Coffee", "0.01", "Food")
	})
	assert.Equal(t, "Expense added successfully (ID: 2)", result.Message, "Warnings don't replace the success message")
	assert.Equal(t, fmt.Sprintf("Warning: You have exceeded your budget for %s! Budget: $30.00, Total: $30.01", month), result.Warning)
}

func TestUpdate(t *testing.T) {
	cfg := testConfig(t)
	writeExpenses(t, cfg, `{"1": {"date": "19-08-2026", "description": "Groceries", "amount": 100, "category": "Food"}}`)
	require.NoError(t, ioutil.WriteFile(cfg.BudgetPath, []byte(`{"8": 50}`), 0600))

	result := mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Update(1, expense.Patch{Description: strPtr("Dinner")})
	})
	assert.Equal(t, "Expense updated successfully (ID: 1)", result.Message)
	assert.Equal(t, "Warning: You have exceeded your budget for August! Budget: $50.00, Total: $100.00", result.Warning)

	result = mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Update(1, expense.Patch{Amount: strPtr("20")})
	})
	assert.Empty(t, result.Warning)

	contents, err := ioutil.ReadFile(cfg.ExpensesPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1": {"date": "19-08-2026", "description": "Dinner", "amount": 20, "category": "Food"}}`, string(contents))

	_, err = run(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Update(1, expense.Patch{})
	})
	require.Error(t, err)
	assert.True(t, sErrors.IsValidation(err))
	assert.Contains(t, err.Error(), "must be provided")
}

func TestDelete(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Add("ToDelete", "1", "")
	})

	result := mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Delete(1)
	})
	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "Expense deleted successfully (ID: 1)", result.Message)

	result = mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Delete(1)
	})
	assert.Equal(t, StatusNotFound, result.Status)
	assert.Equal(t, "Could not find an expense with id 1", result.Message)
}

func TestSummary(t *testing.T) {
	cfg := testConfig(t)
	writeExpenses(t, cfg, `{
		"1": {"date": "19-08-2026", "description": "Groceries", "amount": 100, "category": "Food"},
		"2": {"date": "19-01-2026", "description": "Fruits", "amount": 50, "category": "Food"},
		"3": {"date": "19-08-2026", "description": "Gas", "amount": 200, "category": "Transport"},
		"4": {"date": "not a date", "description": "Broken", "amount": 1000, "category": "Food"}
	}`)

	for _, tc := range []struct {
		description string
		month       time.Month
		category    string
		expected    string
	}{
		{description: "all", expected: "Total expenses: $350.00"},
		{description: "month", month: time.August, expected: "Total expenses for August: $300.00"},
		{description: "category", category: "Food", expected: "Total expenses with Food: $150.00"},
		{description: "category and month", month: time.August, category: "Food", expected: "Total expenses with Food for August: $100.00"},
	} {
		t.Run(tc.description, func(t *testing.T) {
			result := mustRun(t, cfg, func(tr *Tracker) (Result, error) {
				return tr.Summary(tc.month, tc.category)
			})
			assert.Equal(t, tc.expected, result.Message)
		})
	}

	t.Run("invalid month", func(t *testing.T) {
		_, err := run(t, cfg, func(tr *Tracker) (Result, error) {
			return tr.Summary(13, "")
		})
		require.Error(t, err)
		assert.True(t, sErrors.IsValidation(err))
		assert.Equal(t, "Invalid month: 13", err.Error())
	})
}

func TestSummaryScenario(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Add("Food", "25.90", "Food")
	})
	mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Add("Transport", "10", "Transport")
	})
	result := mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Summary(0, "Food")
	})
	assert.Equal(t, "Total expenses with Food: $25.90", result.Message)

	result = mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Summary(0, "")
	})
	assert.Equal(t, "Total expenses: $35.90", result.Message)
}

func TestSetAndCheckBudget(t *testing.T) {
	cfg := testConfig(t)
	writeExpenses(t, cfg, `{"1": {"date": "19-05-2026", "description": "Rent", "amount": 120, "category": "Home"}}`)

	result := mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.CheckBudget(time.May)
	})
	assert.Equal(t, "No budget configured for May", result.Message)

	result = mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.SetBudget(time.May, "500")
	})
	assert.Equal(t, "Budget for May set to $500.00", result.Message)

	result = mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.CheckBudget(time.May)
	})
	assert.Equal(t, "Total expenses for May: $120.00 of $500.00 budget ($380.00 remaining)", result.Message)

	result = mustRun(t, cfg, func(tr *Tracker) (Result, error) {
		tr.getTime = func() time.Time {
			return time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC)
		}
		return tr.CheckBudget(0)
	})
	assert.Contains(t, result.Message, "for May")

	_, err := run(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.SetBudget(0, "10")
	})
	assert.EqualError(t, err, "Invalid month: 0")
}

func TestExport(t *testing.T) {
	t.Run("nothing to export", func(t *testing.T) {
		cfg := testConfig(t)
		output := filepath.Join(t.TempDir(), "expenses.csv")
		result := mustRun(t, cfg, func(tr *Tracker) (Result, error) {
			return tr.Export(output)
		})
		assert.Equal(t, StatusEmpty, result.Status)
		assert.Equal(t, "No expenses to export", result.Message)
		_, err := os.Stat(output)
		assert.True(t, os.IsNotExist(err), "No file should be created")
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t)
		writeExpenses(t, cfg, `{"1": {"date": "19-05-2026", "description": "Rent", "amount": 120, "category": "Home"}}`)
		output := filepath.Join(t.TempDir(), "expenses.csv")
		result := mustRun(t, cfg, func(tr *Tracker) (Result, error) {
			return tr.Export(output)
		})
		assert.Equal(t, "Expenses exported successfully to "+output, result.Message)
		contents, err := ioutil.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, "ID,Date,Description,Amount,Category\n1,19-05-2026,Rent,120.00,Home\n", string(contents))
	})

	t.Run("write failure", func(t *testing.T) {
		cfg := testConfig(t)
		writeExpenses(t, cfg, `{"1": {"date": "19-05-2026", "description": "Rent", "amount": 120, "category": "Home"}}`)
		output := filepath.Join(t.TempDir(), "no-such-dir", "expenses.csv")
		_, err := run(t, cfg, func(tr *Tracker) (Result, error) {
			return tr.Export(output)
		})
		require.Error(t, err)
		assert.True(t, sErrors.IsStorage(err))
	})
}

func TestCorruptStore(t *testing.T) {
	cfg := testConfig(t)
	writeExpenses(t, cfg, `{"1": `)
	_, err := run(t, cfg, func(tr *Tracker) (Result, error) {
		return tr.Add("Lunch", "10", "")
	})
	require.Error(t, err)
	assert.True(t, sErrors.IsStorage(err))
	assert.Contains(t, err.Error(), "Corrupt file")
	assert.Contains(t, err.Error(), cfg.ExpensesPath)

	contents, err := ioutil.ReadFile(cfg.ExpensesPath)
	require.NoError(t, err)
	assert.Equal(t, `{"1": `, string(contents))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "not found", StatusNotFound.String())
	assert.Equal(t, "empty", StatusEmpty.String())
}
