package expense

import (
	"sort"
	"time"

	sErrors "github.com/johnstarich/expenses/errors"
	"github.com/johnstarich/expenses/money"
	"github.com/johnstarich/expenses/plaindb"
)

// Store manages the expenses saved in a single file
type Store struct {
	bucket plaindb.Bucket
}

// NewStore loads the expenses file at 'path'. A missing file is an empty store.
func NewStore(db plaindb.DB, path string) (*Store, error) {
	bucket, err := db.Bucket(path, &storeParser{})
	if err != nil {
		return nil, err
	}
	return &Store{
		bucket: bucket,
	}, nil
}

// Path returns the expenses file path
func (s *Store) Path() string {
	return s.bucket.Path()
}

// Len returns the number of stored expenses
func (s *Store) Len() int {
	return s.bucket.Len()
}

// Add validates and saves a new expense dated today
func (s *Store) Add(description, amount, category string) (Expense, error) {
	return s.add(time.Now, description, amount, category)
}

func (s *Store) add(getTime func() time.Time, description, amount, category string) (Expense, error) {
	description, err := ParseDescription(description)
	if err != nil {
		return Expense{}, err
	}
	value, err := money.Parse(amount)
	if err != nil {
		return Expense{}, err
	}
	id, err := s.nextID()
	if err != nil {
		return Expense{}, err
	}

	exp := Expense{
		ID:          id,
		Date:        NewDate(getTime()),
		Description: description,
		Amount:      &value,
		Category:    ParseCategory(category),
	}
	return exp, s.bucket.Put(formatID(id), exp)
}

// nextID returns one more than the largest ID in the store, or 1 if empty
func (s *Store) nextID() (int, error) {
	maxID := 0
	for _, key := range s.bucket.Keys() {
		id, err := parseID(key)
		if err != nil {
			return 0, sErrors.Corrupt(s.Path(), err)
		}
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1, nil
}

// Patch holds the fields to change on an expense. Nil fields are left as-is.
type Patch struct {
	Description *string
	Amount      *string
	Category    *string
}

// Empty returns true if no fields are set
func (p Patch) Empty() bool {
	return p.Description == nil && p.Amount == nil && p.Category == nil
}

// Update overwrites the supplied fields of expense 'id'. The expense's date is never changed.
func (s *Store) Update(id int, patch Patch) (Expense, error) {
	if patch.Empty() {
		return Expense{}, sErrors.Validation("At least one field (description, amount, category) must be provided")
	}
	exp, found, err := s.Get(id)
	if err != nil {
		return Expense{}, err
	}
	if !found {
		return Expense{}, sErrors.Validation("Expense with ID %d not found", id)
	}

	if patch.Description != nil {
		exp.Description, err = ParseDescription(*patch.Description)
		if err != nil {
			return Expense{}, err
		}
	}
	if patch.Amount != nil {
		value, err := money.Parse(*patch.Amount)
		if err != nil {
			return Expense{}, err
		}
		exp.Amount = &value
	}
	if patch.Category != nil {
		exp.Category = ParseCategory(*patch.Category)
	}
	return exp, s.bucket.Put(formatID(id), exp)
}

// Delete removes expense 'id'. Returns false if it didn't exist.
func (s *Store) Delete(id int) (found bool, err error) {
	return s.bucket.Remove(formatID(id))
}

// Get returns expense 'id'
func (s *Store) Get(id int) (Expense, bool, error) {
	var exp Expense
	found, err := s.bucket.Get(formatID(id), &exp)
	return exp, found, err
}

// All returns every expense ordered by ID
func (s *Store) All() ([]Expense, error) {
	return s.List("")
}

// List returns expenses ordered by ID. If category is not empty, only expenses in that exact category are returned.
func (s *Store) List(category string) ([]Expense, error) {
	category = cleanText(category)
	expenses := make([]Expense, 0, s.bucket.Len())
	var exp Expense
	err := s.bucket.Iter(&exp, func(string) bool {
		if category == "" || exp.Category == category {
			expenses = append(expenses, exp)
		}
		return true
	})
	sort.Slice(expenses, func(a, b int) bool {
		return expenses[a].ID < expenses[b].ID
	})
	return expenses, err
}
