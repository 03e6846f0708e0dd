package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ExpenseNoteStatus represents where an expense note is in review
type ExpenseNoteStatus int

const (
	ExpenseNoteStatusPending  ExpenseNoteStatus = 0
	ExpenseNoteStatusApproved ExpenseNoteStatus = 1
	ExpenseNoteStatusRejected ExpenseNoteStatus = 2
)

func (s ExpenseNoteStatus) String() string {
	if s < ExpenseNoteStatusPending || s > ExpenseNoteStatusRejected {
		return fmt.Sprintf("ExpenseNoteStatus(%d)", int(s))
	}
	return [...]string{"pending", "approved", "rejected"}[s]
}

// ParseExpenseNoteStatus maps a query value to a status
func ParseExpenseNoteStatus(str string) (ExpenseNoteStatus, bool) {
	switch str {
	case "pending":
		return ExpenseNoteStatusPending, true
	case "approved":
		return ExpenseNoteStatusApproved, true
	case "rejected":
		return ExpenseNoteStatusRejected, true
	}
	return ExpenseNoteStatusPending, false
}

func (s ExpenseNoteStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ExpenseNoteStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ExpenseNoteStatus(i)
		return nil
	}
	*s, _ = ParseExpenseNoteStatus(str)
	return nil
}

func (s ExpenseNoteStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ExpenseNoteStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ExpenseNoteStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ExpenseNoteStatus(v)
	case int32:
		*s = ExpenseNoteStatus(v)
	case int:
		*s = ExpenseNoteStatus(v)
	}
	return nil
}
