// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package validation synthesizes the request and response descriptors of a declared table.
//
// A Descriptor is built from the current columns of a table and is immutable. It is rebuilt on every column change.
// Constraint checks are expressed as go-playground/validator tags, which are synthesized per column.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	valid "github.com/go-playground/validator/v10"
	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/schema"
)

// validate is a global instance.
var validate = valid.New()

// internal constants.
const (
	validatorSeparator = ","
	validatorValue     = "="
)

// Messages of the validation details.
var (
	MsgFailed    = "validation failed"
	MsgUnknown   = "unknown field"
	MsgReadOnly  = "field is read-only"
	MsgRequired  = "field is required"
	MsgNull      = "field can not be null"
	MsgText      = "must be a string"
	MsgInteger   = "must be an integer"
	MsgFloat     = "must be a number"
	MsgBoolean   = "must be a boolean"
	MsgDate      = "must be a date (YYYY-MM-DD)"
	MsgTimestamp = "must be an RFC 3339 timestamp"
	MsgMax       = "must be at most %d characters"
)

// system columns which are set by the application.
var system = map[string]bool{schema.ColumnID: true, schema.ColumnCreatedAt: true, schema.ColumnUpdatedAt: true}

// Field describes a declared column.
type Field struct {
	Name      string
	Type      schema.Type
	Required  bool
	MaxLength int
}

// field is a Field with its synthesized validator tag.
type field struct {
	Field
	tag string
}

// Descriptor of a declared table.
type Descriptor struct {
	table  string
	fields []field
	index  map[string]int
}

// New creates the descriptor of the table.
func New(table string, fields []Field) *Descriptor {
	d := &Descriptor{table: table, index: make(map[string]int, len(fields))}
	for _, f := range fields {
		d.index[f.Name] = len(d.fields)
		d.fields = append(d.fields, field{Field: f, tag: tag(f)})
	}
	return d
}

// tag synthesizes the validator tag of the field.
func tag(f Field) string {
	var config []string
	switch f.Type {
	case schema.ShortText, schema.LongText:
		if f.MaxLength > 0 {
			config = append(config, "max"+validatorValue+strconv.Itoa(f.MaxLength))
		}
	case schema.Date:
		config = append(config, "datetime"+validatorValue+schema.DateLayout)
	case schema.Timestamp:
		config = append(config, "datetime"+validatorValue+time.RFC3339)
	}
	return strings.Join(config, validatorSeparator)
}

// Table name.
func (d *Descriptor) Table() string {
	return d.table
}

// Fields returns the declared fields in declaration order.
func (d *Descriptor) Fields() []Field {
	rv := make([]Field, len(d.fields))
	for i, f := range d.fields {
		rv[i] = f.Field
	}
	return rv
}

// Tag returns the synthesized validator tag of the field.
func (d *Descriptor) Tag(name string) string {
	if i, ok := d.index[name]; ok {
		return d.fields[i].tag
	}
	return ""
}

// Columns returns the system columns followed by the declared columns.
// Only these columns are ever selected.
func (d *Descriptor) Columns() []string {
	rv := []string{schema.ColumnID, schema.ColumnCreatedAt, schema.ColumnUpdatedAt}
	for _, f := range d.fields {
		rv = append(rv, f.Name)
	}
	return rv
}

// Create validates the payload of a new record and returns the storage values.
// Required fields must be present and not null.
func (d *Descriptor) Create(payload map[string]interface{}) (map[string]interface{}, error) {
	details := d.unknown(payload)
	for _, f := range d.fields {
		if _, ok := payload[f.Name]; !ok && f.Required {
			details = append(details, apperror.Detail{Field: f.Name, Message: MsgRequired})
		}
	}
	return d.values(payload, details)
}

// Update validates a partial payload and returns the storage values.
// Required fields can not be set to null.
func (d *Descriptor) Update(payload map[string]interface{}) (map[string]interface{}, error) {
	return d.values(payload, d.unknown(payload))
}

// unknown returns a detail for every field which is not declared.
func (d *Descriptor) unknown(payload map[string]interface{}) []apperror.Detail {
	var details []apperror.Detail
	for name := range payload {
		if _, ok := d.index[name]; ok {
			continue
		}
		msg := MsgUnknown
		if system[name] {
			msg = MsgReadOnly
		}
		details = append(details, apperror.Detail{Field: name, Message: msg})
	}
	return details
}

// values converts all declared fields of the payload.
func (d *Descriptor) values(payload map[string]interface{}, details []apperror.Detail) (map[string]interface{}, error) {
	rv := make(map[string]interface{}, len(payload))
	for _, f := range d.fields {
		raw, ok := payload[f.Name]
		if !ok {
			continue
		}
		if raw == nil {
			if f.Required {
				details = append(details, apperror.Detail{Field: f.Name, Message: MsgNull})
				continue
			}
			rv[f.Name] = nil
			continue
		}
		v, msg := f.convert(raw)
		if msg != "" {
			details = append(details, apperror.Detail{Field: f.Name, Message: msg})
			continue
		}
		rv[f.Name] = v
	}

	if len(details) > 0 {
		sort.SliceStable(details, func(i, j int) bool { return details[i].Field < details[j].Field })
		return nil, apperror.Validation(MsgFailed, details...)
	}
	return rv, nil
}

// convert checks the type and the tag of the value and returns the storage value or an error message.
func (f field) convert(raw interface{}) (interface{}, string) {
	switch f.Type {
	case schema.ShortText, schema.LongText:
		s, ok := raw.(string)
		if !ok {
			return nil, MsgText
		}
		if f.tag != "" && validate.Var(s, f.tag) != nil {
			return nil, fmt.Sprintf(MsgMax, f.MaxLength)
		}
		return s, ""
	case schema.Integer:
		i, ok := integer(raw)
		if !ok {
			return nil, MsgInteger
		}
		return i, ""
	case schema.Float:
		n, ok := number(raw)
		if !ok {
			return nil, MsgFloat
		}
		return n, ""
	case schema.Boolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, MsgBoolean
		}
		if b {
			return int64(1), ""
		}
		return int64(0), ""
	case schema.Date:
		s, ok := raw.(string)
		if !ok || validate.Var(s, f.tag) != nil {
			return nil, MsgDate
		}
		v, err := schema.ParseDate(s)
		if err != nil {
			return nil, MsgDate
		}
		return v, ""
	case schema.Timestamp:
		s, ok := raw.(string)
		if !ok || validate.Var(s, f.tag) != nil {
			return nil, MsgTimestamp
		}
		v, err := schema.ParseTimestamp(s)
		if err != nil {
			return nil, MsgTimestamp
		}
		return v, ""
	}
	return nil, fmt.Sprintf(schema.ErrType, f.Type)
}

// integer accepts whole numbers only.
func integer(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		i, err := v.Int64()
		return i, err == nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// number accepts any finite number.
func number(raw interface{}) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case json.Number:
		var err error
		if f, err = v.Float64(); err != nil {
			return 0, false
		}
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0, false
	}
	return f, !math.IsNaN(f) && !math.IsInf(f, 0)
}
