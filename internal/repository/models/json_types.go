package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"lecture-qa/internal/domain"
)

// StringSlice stores a string list as a JSON array in a CLOB column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	data, err := scanBytes("StringSlice", value)
	if err != nil {
		return err
	}
	if data == nil {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(data, s)
}

// NullableStringSlice is a StringSlice where NULL and an empty list differ.
// Choices of non-choice questions are stored as NULL.
type NullableStringSlice []string

func (s NullableStringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return StringSlice(s).Value()
}

func (s *NullableStringSlice) Scan(value interface{}) error {
	data, err := scanBytes("NullableStringSlice", value)
	if err != nil {
		return err
	}
	if data == nil {
		*s = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*s = out
	return nil
}

// SlideList stores extracted slide records as JSON.
type SlideList []domain.SlideRecord

func (l SlideList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	jsonData, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

func (l *SlideList) Scan(value interface{}) error {
	data, err := scanBytes("SlideList", value)
	if err != nil {
		return err
	}
	if data == nil {
		*l = nil
		return nil
	}
	var out []domain.SlideRecord
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// scanBytes normalizes a column value. NULL, empty and "null" come back as nil.
func scanBytes(typeName string, value interface{}) ([]byte, error) {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil, errors.New(typeName + " Scan: unsupported type " + fmt.Sprintf("%T", value))
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	return data, nil
}
