package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON stores free-form transaction metadata as a jsonb column.
type JSON map[string]interface{}

// NewJSON wraps a plain map, returning nil for empty input so the
// column stays NULL instead of storing "{}".
func NewJSON(m map[string]interface{}) JSON {
	if len(m) == 0 {
		return nil
	}
	return JSON(m)
}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("models: JSON scan source is not []byte")
	}
	return json.Unmarshal(bytes, j)
}
