package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ExpenseSource tells how an expense was recorded
type ExpenseSource string

const (
	ExpenseSourceManual      ExpenseSource = "manual"
	ExpenseSourceSalary      ExpenseSource = "salary"
	ExpenseSourceExpenseNote ExpenseSource = "expense_note"
)

func (s ExpenseSource) String() string {
	return string(s)
}

func (s ExpenseSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *ExpenseSource) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ExpenseSource(str)
	return nil
}

func (s ExpenseSource) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *ExpenseSource) Scan(value interface{}) error {
	if value == nil {
		*s = ExpenseSourceManual
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = ExpenseSource(v)
	case []byte:
		*s = ExpenseSource(string(v))
	}
	return nil
}
