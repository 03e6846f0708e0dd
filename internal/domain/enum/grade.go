package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// Grade is the seniority of an employee, used for salaries
type Grade string

const (
	GradeTrainee  Grade = "trainee"
	GradeStaff    Grade = "staff"
	GradeSenior   Grade = "senior"
	GradeManager  Grade = "manager"
	GradeDirector Grade = "director"
)

func (g Grade) String() string {
	return string(g)
}

func (g Grade) IsValid() bool {
	switch g {
	case GradeTrainee, GradeStaff, GradeSenior, GradeManager, GradeDirector:
		return true
	}
	return false
}

func (g Grade) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(g))
}

func (g *Grade) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*g = Grade(str)
	return nil
}

func (g Grade) Value() (driver.Value, error) {
	return string(g), nil
}

func (g *Grade) Scan(value interface{}) error {
	if value == nil {
		*g = GradeTrainee
		return nil
	}
	switch v := value.(type) {
	case string:
		*g = Grade(v)
	case []byte:
		*g = Grade(string(v))
	}
	return nil
}
