package expense

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/johnstarich/expenses/plaindb"
	"github.com/pkg/errors"
)

func formatID(id int) string {
	return strconv.Itoa(id)
}

func parseID(id string) (int, error) {
	i, err := strconv.Atoi(id)
	if err != nil || i < 1 {
		return 0, errors.Errorf("Expense ID must be a positive integer: %q", id)
	}
	return i, nil
}

type storeParser struct{}

var _ plaindb.Parser = &storeParser{}

// Parse decodes one expense record. Records missing a date or amount are kept as-is so they are never lost on save.
func (p *storeParser) Parse(id string, data json.RawMessage) (interface{}, error) {
	expenseID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("Expense must be a JSON object")
	}
	if err := checkNullFields(fields); err != nil {
		return nil, err
	}

	var exp Expense
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, err
	}
	exp.ID = expenseID
	return exp, nil
}

// checkNullFields rejects explicit nulls, which would otherwise load as missing fields
func checkNullFields(fields map[string]json.RawMessage) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if string(fields[name]) == "null" {
			return errors.Errorf("Field %q must not be null", name)
		}
	}
	return nil
}
