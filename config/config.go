// Package config resolves where expenses and budgets are stored
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"dario.cat/mergo"
	sErrors "github.com/johnstarich/expenses/errors"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	// DefaultExpensesPath is used when no expenses path is configured
	DefaultExpensesPath = "data/expenses.json"
	// DefaultBudgetPath is used when no budget path is configured
	DefaultBudgetPath = "data/budget.json"

	envExpensesPath = "EXPENSES_PATH"
	envBudgetPath   = "BUDGET_PATH"
	envDevelopment  = "DEVELOPMENT"
)

// Config holds the file locations used by a single command
type Config struct {
	ExpensesPath string
	BudgetPath   string
	Development  bool
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ExpensesPath: DefaultExpensesPath,
		BudgetPath:   DefaultBudgetPath,
	}
}

// FromEnv reads configuration from the environment
func FromEnv() Config {
	return fromEnv(os.Getenv)
}

func fromEnv(getEnv func(string) string) Config {
	development, _ := strconv.ParseBool(getEnv(envDevelopment))
	return Config{
		ExpensesPath: getEnv(envExpensesPath),
		BudgetPath:   getEnv(envBudgetPath),
		Development:  development,
	}
}

// LoadEnvFile loads a .env file into the environment if present. Existing variables win.
func LoadEnvFile(fileNames ...string) error {
	if len(fileNames) == 0 {
		fileNames = []string{".env"}
	}
	var present []string
	for _, name := range fileNames {
		if _, err := os.Stat(name); err == nil {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return errors.Wrap(godotenv.Load(present...), "Failed to load env file")
}

// Resolve fills unset fields of 'flags' from the environment, then from defaults
func Resolve(flags Config) (Config, error) {
	return resolve(flags, FromEnv())
}

func resolve(layers ...Config) (Config, error) {
	var cfg Config
	for _, layer := range append(layers, Default()) {
		if err := mergo.Merge(&cfg, layer); err != nil {
			return cfg, errors.Wrap(err, "Failed to merge configuration")
		}
	}
	cfg.ExpensesPath = filepath.Clean(cfg.ExpensesPath)
	cfg.BudgetPath = filepath.Clean(cfg.BudgetPath)
	return cfg, cfg.Validate()
}

// Validate returns every problem found in c
func (c Config) Validate() error {
	var errs sErrors.Errors
	errs.ErrIf(c.ExpensesPath == "" || c.ExpensesPath == ".", "Expenses path must not be empty")
	errs.ErrIf(c.BudgetPath == "" || c.BudgetPath == ".", "Budget path must not be empty")
	errs.ErrIf(c.ExpensesPath != "" && c.ExpensesPath == c.BudgetPath, "Expenses and budget must be stored in different files: %q", c.ExpensesPath)
	if err := errs.ErrOrNil(); err != nil {
		return sErrors.Validation("Invalid configuration: %s", err)
	}
	return nil
}
