package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/johnstarich/expenses/config"
	"github.com/johnstarich/expenses/expense"
	"github.com/johnstarich/expenses/tracker"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// optionalString is a string flag that remembers whether it was set, even to ""
type optionalString struct {
	value *string
}

func (o *optionalString) Set(s string) error {
	o.value = &s
	return nil
}

func (o *optionalString) String() string {
	if o.value == nil {
		return ""
	}
	return *o.value
}

// optionalMonth is a month number flag. Zero when not set.
type optionalMonth struct {
	set   bool
	month time.Month
}

func (o *optionalMonth) Set(s string) error {
	month, err := strconv.Atoi(s)
	if err != nil {
		return errors.Errorf("Invalid month: %q", s)
	}
	if err := expense.ValidateMonth(time.Month(month), false); err != nil {
		return err
	}
	o.set = true
	o.month = time.Month(month)
	return nil
}

func (o *optionalMonth) String() string {
	if !o.set {
		return ""
	}
	return strconv.Itoa(int(o.month))
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func printResult(w io.Writer, result tracker.Result) {
	for _, line := range []string{result.Message, result.Notice, result.Warning} {
		if line != "" {
			fmt.Fprintln(w, line)
		}
	}
}

// helpRequested returns true if args ask for help instead of a command
func helpRequested(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--help" {
			return true
		}
	}
	return false
}

func handleErrors(args []string, stdout, stderr io.Writer) (usageErr bool, err error) {
	app := kingpin.New("expense-tracker", "A simple expense tracker to manage your finances")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	exited := false
	app.Terminate(func(int) { exited = true })

	var flags config.Config
	app.Flag("expenses_path", "Path to the expenses JSON file").StringVar(&flags.ExpensesPath)
	app.Flag("budget_path", "Path to the budget JSON file").StringVar(&flags.BudgetPath)

	addCmd := app.Command("add", "Add a new expense")
	addDescription := addCmd.Flag("description", "Description for the expense").Required().String()
	addAmount := addCmd.Flag("amount", "Amount spent").Required().String()
	addCategory := addCmd.Flag("category", "Category for the expense. Defaults to "+expense.Uncategorized).String()

	updateCmd := app.Command("update", "Update an expense")
	updateID := updateCmd.Flag("id", "ID of the expense to update").Required().Int()
	var updateDescription, updateAmount, updateCategory optionalString
	updateCmd.Flag("description", "New description").SetValue(&updateDescription)
	updateCmd.Flag("amount", "New amount").SetValue(&updateAmount)
	updateCmd.Flag("category", "New category").SetValue(&updateCategory)

	deleteCmd := app.Command("delete", "Delete an expense")
	deleteID := deleteCmd.Flag("id", "ID of the expense to delete").Required().Int()

	listCmd := app.Command("list", "List all expenses")
	listCategory := listCmd.Flag("category", "Only list expenses in this category").String()

	summaryCmd := app.Command("summary", "Show summary of expenses")
	var summaryMonth optionalMonth
	summaryCmd.Flag("month", "Only total expenses in this month (1-12)").SetValue(&summaryMonth)
	summaryCategory := summaryCmd.Flag("category", "Only total expenses in this category").String()

	setBudgetCmd := app.Command("set-budget", "Set the budget for a month")
	var setBudgetMonth optionalMonth
	setBudgetCmd.Flag("month", "Month of the budget (1-12)").Required().SetValue(&setBudgetMonth)
	setBudgetAmount := setBudgetCmd.Flag("amount", "Budget for the month").Required().String()

	checkBudgetCmd := app.Command("check-budget", "Compare a month's expenses to its budget")
	var checkBudgetMonth optionalMonth
	checkBudgetCmd.Flag("month", "Month to check (1-12). Defaults to the current month").SetValue(&checkBudgetMonth)

	exportCmd := app.Command("export", "Export expenses to a CSV or XLSX file")
	exportOutput := exportCmd.Flag("output", "Output file. Paths ending in .xlsx are written as Excel workbooks").Default("expenses.csv").String()

	command, err := app.Parse(args)
	if command == "" && !helpRequested(args) {
		if !exited {
			app.Usage(args)
		}
		if err == nil {
			err = errors.New("Command not specified")
		}
		return true, err
	}
	if exited {
		// --help printed its output
		return false, nil
	}
	if err != nil {
		app.Usage(args)
		return true, err
	}

	if err := config.LoadEnvFile(); err != nil {
		return false, err
	}
	cfg, err := config.Resolve(flags)
	if err != nil {
		return true, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return false, err
	}
	defer func() { _ = logger.Sync() }()

	t := tracker.New(cfg, logger)
	defer t.Close()

	var result tracker.Result
	switch command {
	case addCmd.FullCommand():
		result, err = t.Add(*addDescription, *addAmount, *addCategory)
	case updateCmd.FullCommand():
		result, err = t.Update(*updateID, expense.Patch{
			Description: updateDescription.value,
			Amount:      updateAmount.value,
			Category:    updateCategory.value,
		})
	case deleteCmd.FullCommand():
		result, err = t.Delete(*deleteID)
	case listCmd.FullCommand():
		result, err = t.List(*listCategory)
	case summaryCmd.FullCommand():
		result, err = t.Summary(summaryMonth.month, *summaryCategory)
	case setBudgetCmd.FullCommand():
		result, err = t.SetBudget(setBudgetMonth.month, *setBudgetAmount)
	case checkBudgetCmd.FullCommand():
		result, err = t.CheckBudget(checkBudgetMonth.month)
	case exportCmd.FullCommand():
		result, err = t.Export(*exportOutput)
	default:
		app.Usage(args)
		return true, errors.Errorf("Unknown command: %q", command)
	}
	if err != nil {
		logger.Debug("Command failed", zap.String("command", command), zap.Error(err))
		return false, err
	}
	printResult(stdout, result)
	return false, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	usageErr, err := handleErrors(args, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "[ERROR]", err)
		if usageErr {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
