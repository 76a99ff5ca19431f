package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice maps a []string onto a jsonb column. Used for tags, hosts
// and guests, which the CMS stores as JSON arrays.
type StringSlice []string

// Scan implements sql.Scanner.
func (s *StringSlice) Scan(src any) error {
	if s == nil {
		return fmt.Errorf("db: Scan on nil *StringSlice")
	}
	if src == nil {
		*s = StringSlice{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("db: cannot scan %T into StringSlice", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*s = out
	return nil
}

// Value implements driver.Valuer. A nil slice marshals to an empty JSON
// array so the column never holds SQL NULL.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
