package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PrizeTier represents the rank a tombola ticket won
type PrizeTier int

const (
	PrizeTierNone   PrizeTier = 0
	PrizeTierFirst  PrizeTier = 1
	PrizeTierSecond PrizeTier = 2
	PrizeTierThird  PrizeTier = 3
)

// WinningTiers are assigned in this order to the shuffled draw
var WinningTiers = []PrizeTier{PrizeTierFirst, PrizeTierSecond, PrizeTierThird}

func (t PrizeTier) String() string {
	if t < PrizeTierNone || t > PrizeTierThird {
		return fmt.Sprintf("PrizeTier(%d)", int(t))
	}
	return [...]string{"none", "first", "second", "third"}[t]
}

func (t PrizeTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *PrizeTier) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = PrizeTier(i)
		return nil
	}
	switch str {
	case "first":
		*t = PrizeTierFirst
	case "second":
		*t = PrizeTierSecond
	case "third":
		*t = PrizeTierThird
	default:
		*t = PrizeTierNone
	}
	return nil
}

func (t PrizeTier) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *PrizeTier) Scan(value interface{}) error {
	if value == nil {
		*t = PrizeTierNone
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = PrizeTier(v)
	case int32:
		*t = PrizeTier(v)
	case int:
		*t = PrizeTier(v)
	}
	return nil
}
