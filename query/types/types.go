// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package types provides sanitized column kinds over multiple database providers.
// A provider maps a kind to its raw sql type for DDL statements and back when describing a table.
package types

// sanitized types over multiple databases.
const (
	BOOL     = "Bool"
	INTEGER  = "Integer"
	FLOAT    = "Float"
	TEXT     = "Text"
	TEXTAREA = "TextArea"
	DATE     = "Date"
	DATETIME = "DateTime"
)

// Interface of the types to access the sanitized kind and the raw sql data.
type Interface interface {
	Kind() string
	Raw() string
}

// NewBool returns a ptr to a Bool.
func NewBool(raw string) *Bool {
	return &Bool{common: common{name: BOOL, raw: raw}}
}

// NewInt returns a ptr to a Int.
func NewInt(raw string) *Int {
	return &Int{common: common{name: INTEGER, raw: raw}}
}

// NewFloat returns a ptr to a Float.
func NewFloat(raw string) *Float {
	return &Float{common: common{name: FLOAT, raw: raw}}
}

// NewText returns a ptr to a Text.
// Size 0 means the provider default.
func NewText(raw string, size int) *Text {
	return &Text{Size: size, common: common{name: TEXT, raw: raw}}
}

// NewTextArea returns a ptr to a TextArea.
func NewTextArea(raw string) *TextArea {
	return &TextArea{common: common{name: TEXTAREA, raw: raw}}
}

// NewDate returns a ptr to a Date.
func NewDate(raw string) *Date {
	return &Date{common: common{name: DATE, raw: raw}}
}

// NewDateTime returns a ptr to a DateTime.
func NewDateTime(raw string) *DateTime {
	return &DateTime{common: common{name: DATETIME, raw: raw}}
}

type common struct {
	raw  string
	name string
}

// Raw sql type. Empty if the type was not read from the database.
func (c *common) Raw() string {
	return c.raw
}

// Kind returns the sanitized kind.
func (c *common) Kind() string {
	return c.name
}

// Int represents all kind of sql integers.
type Int struct {
	common
}

// Bool represents all kind of sql booleans.
type Bool struct {
	common
}

// Text represents all kind of sql character types with a length.
type Text struct {
	Size int
	common
}

// TextArea represents all kind of sql text.
type TextArea struct {
	common
}

// Date represents all kind of sql dates.
type Date struct {
	common
}

// DateTime represents all kind of sql dateTimes.
type DateTime struct {
	common
}

// Float represents all kind of sql floats.
type Float struct {
	common
}
