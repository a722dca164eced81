// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/guregu/null.v4"
)

// nullBytes is a JSON null literal
var nullBytes = []byte("null")

// NullString wraps gopkg.in/guregu/null.String
type NullString null.String

// NullInt wraps gopkg.in/guregu/null.Int
type NullInt null.Int

// NewNullString creates a new NullString.
func NewNullString(s string, valid bool) NullString {
	return NullString(null.NewString(s, valid))
}

// NewNullInt creates a new NullInt.
func NewNullInt(i int64, valid bool) NullInt {
	return NullInt(null.NewInt(i, valid))
}

// Scan implements the sql.Scanner interface.
func (s *NullString) Scan(value interface{}) error {
	return (*null.String)(s).Scan(value)
}

// Value implements the driver.Valuer interface.
func (s NullString) Value() (driver.Value, error) {
	return null.String(s).Value()
}

// Ptr returns nil if the string is null.
func (s NullString) Ptr() *string {
	return null.String(s).Ptr()
}

// UnmarshalJSON implements json.Unmarshaler.
// It supports string and null input. Blank string input does not produce a null String.
func (s *NullString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, nullBytes) {
		s.Valid = false
		return nil
	}

	if err := json.Unmarshal(data, &s.String); err != nil {
		return fmt.Errorf("null: couldn't unmarshal JSON: %w", err)
	}

	s.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
// It will encode null if this String is null.
func (s NullString) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return nullBytes, nil
	}
	return json.Marshal(s.String)
}

// Scan implements the sql.Scanner interface.
func (i *NullInt) Scan(value interface{}) error {
	return (*null.Int)(i).Scan(value)
}

// Value implements the driver.Valuer interface.
func (i NullInt) Value() (driver.Value, error) {
	return null.Int(i).Value()
}

// UnmarshalJSON implements json.Unmarshaler.
// It supports number and null input.
// 0 will not be considered a null Int.
func (i *NullInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, nullBytes) {
		i.Valid = false
		return nil
	}

	if err := json.Unmarshal(data, &i.Int64); err != nil {
		return fmt.Errorf("null: couldn't unmarshal JSON: %w", err)
	}

	i.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
// It will encode null if this Int is null.
func (i NullInt) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return nullBytes, nil
	}
	return []byte(strconv.FormatInt(i.Int64, 10)), nil
}
