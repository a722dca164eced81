// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package validation

import (
	"strconv"

	"github.com/patrickascher/dynapi/schema"
)

// Response converts a stored row into its JSON representation.
// The system columns are always present, every declared column is present and null if it has no value.
func (d *Descriptor) Response(row map[string]interface{}) map[string]interface{} {
	rv := make(map[string]interface{}, len(d.fields)+3)
	rv[schema.ColumnID] = toInt(row[schema.ColumnID])
	rv[schema.ColumnCreatedAt] = toString(row[schema.ColumnCreatedAt])
	rv[schema.ColumnUpdatedAt] = toString(row[schema.ColumnUpdatedAt])

	for _, f := range d.fields {
		v := row[f.Name]
		if v == nil {
			rv[f.Name] = nil
			continue
		}
		switch f.Type {
		case schema.Integer:
			rv[f.Name] = toInt(v)
		case schema.Float:
			rv[f.Name] = toFloat(v)
		case schema.Boolean:
			rv[f.Name] = toBool(v)
		default:
			rv[f.Name] = toString(v)
		}
	}
	return rv
}

func toString(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return v
}

func toInt(v interface{}) interface{} {
	switch val := v.(type) {
	case int64:
		return val
	case float64:
		return int64(val)
	case []byte:
		if i, err := strconv.ParseInt(string(val), 10, 64); err == nil {
			return i
		}
	case string:
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return v
}

func toFloat(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case []byte:
		if f, err := strconv.ParseFloat(string(val), 64); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return v
}

func toBool(v interface{}) interface{} {
	switch val := v.(type) {
	case bool:
		return val
	case int64:
		return val != 0
	case []byte:
		return string(val) != "0" && string(val) != ""
	case string:
		return val != "0" && val != ""
	}
	return v
}
