// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/patrickascher/dynapi/query/types"
)

// Type is the semantic data type of a declared column.
type Type string

// Semantic types.
const (
	ShortText Type = "short_text"
	LongText  Type = "long_text"
	Integer   Type = "integer"
	Float     Type = "float"
	Boolean   Type = "boolean"
	Date      Type = "date"
	Timestamp Type = "timestamp"
)

// Canonical encodings of dates and timestamps.
// The timestamp layout has a fixed width, so the lexical order is the chronological order.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05.000000Z"
)

// Client messages.
var (
	MsgType    = "unknown data type %q"
	MsgDefault = "default value %q is not a valid %s"
)

// Error messages.
var (
	ErrType    = "schema: " + MsgType
	ErrDefault = "schema: " + MsgDefault
)

// Types returns all semantic types.
func Types() []Type {
	return []Type{ShortText, LongText, Integer, Float, Boolean, Date, Timestamp}
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	return t.Kind() != ""
}

// Text reports whether values of the type are free text.
func (t Type) Text() bool {
	return t == ShortText || t == LongText
}

// Kind returns the sanitized query kind.
func (t Type) Kind() string {
	switch t {
	case ShortText:
		return types.TEXT
	case LongText:
		return types.TEXTAREA
	case Integer:
		return types.INTEGER
	case Float:
		return types.FLOAT
	case Boolean:
		return types.BOOL
	case Date:
		return types.DATE
	case Timestamp:
		return types.DATETIME
	}
	return ""
}

// Interface returns the query type, which is mapped by the provider to the physical type.
func (t Type) Interface() types.Interface {
	switch t {
	case ShortText:
		return types.NewText("", 0)
	case LongText:
		return types.NewTextArea("")
	case Integer:
		return types.NewInt("")
	case Float:
		return types.NewFloat("")
	case Boolean:
		return types.NewBool("")
	case Date:
		return types.NewDate("")
	case Timestamp:
		return types.NewDateTime("")
	}
	return nil
}

// Now returns the current time in the canonical timestamp encoding.
func Now() string {
	return FormatTimestamp(time.Now())
}

// FormatTimestamp encodes t canonically in UTC with microsecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Microsecond).Format(TimestampLayout)
}

// ParseTimestamp accepts any RFC 3339 timestamp and returns its canonical encoding.
func ParseTimestamp(s string) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return "", err
	}
	return FormatTimestamp(t), nil
}

// ParseDate accepts a calendar date YYYY-MM-DD.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// ParseDefault converts the textual default value into the storage value of the type.
// Booleans are stored as integer 1 or 0.
func ParseDefault(t Type, raw string) (interface{}, error) {
	var v interface{}
	var err error

	switch t {
	case ShortText, LongText:
		return raw, nil
	case Integer:
		v, err = strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	case Float:
		var f float64
		f, err = strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
			err = strconv.ErrRange
		}
		v = f
	case Boolean:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1":
			return int64(1), nil
		case "false", "0":
			return int64(0), nil
		}
		return nil, fmt.Errorf(ErrDefault, raw, t)
	case Date:
		v, err = ParseDate(raw)
	case Timestamp:
		v, err = ParseTimestamp(raw)
	default:
		return nil, fmt.Errorf(ErrType, t)
	}

	if err != nil {
		return nil, fmt.Errorf(ErrDefault, raw, t)
	}
	return v, nil
}
