// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/patrickascher/dynapi/query/condition"
)

// Error messages.
var (
	ErrValueMissing = "query: no %s value is set (%s)"
	ErrColumn       = "query: column (%s) does not exist in (%s)"
	ErrLastID       = errors.New("query: last id must be a ptr")
)

// InsertBase can be embedded and changed for different providers.
// All functions and variables are therefore exported.
type InsertBase struct {
	Provider Provider

	ITable   string
	IValues  []map[string]interface{}
	IColumns []string
	ILastID  interface{}
}

// Columns define a fixed column order for the insert.
// If the columns are not set manually, all keys of the first value set will be added in alphabetical order.
// Only values will be inserted which are defined here. This means, you can use Columns as a whitelist.
func (i *InsertBase) Columns(c ...string) Insert {
	i.IColumns = c
	return i
}

// Values sets the insert data.
// Every value set is rendered in one multi row statement.
func (i *InsertBase) Values(values []map[string]interface{}) Insert {
	i.IValues = values
	return i
}

// LastInsertedID gets the last id over different drivers.
// The first argument must be a ptr to an int64.
func (i *InsertBase) LastInsertedID(id ...interface{}) Insert {
	i.ILastID = id[0]
	return i
}

// String returns the rendered statement and arguments.
func (i *InsertBase) String() ([]string, [][]interface{}, error) {
	return i.Render()
}

// Exec the statement.
// If a last id ptr is set, it will be filled with the generated id.
func (i *InsertBase) Exec() ([]sql.Result, error) {
	stmt, args, err := i.Render()
	if err != nil {
		return nil, err
	}

	// check if lastID is a ptr value
	var id reflect.Value
	if i.ILastID != nil {
		id = reflect.ValueOf(i.ILastID)
		if id.Kind() != reflect.Ptr || id.Elem().Kind() != reflect.Int64 {
			return nil, ErrLastID
		}
	}

	res, err := i.Provider.Exec(stmt, args)
	if err == nil && i.ILastID != nil && len(res) == 1 {
		var lastID int64
		lastID, err = res[0].LastInsertId()
		id.Elem().SetInt(lastID)
	}

	return res, err
}

// Render the sql query.
func (i *InsertBase) Render() ([]string, [][]interface{}, error) {
	if len(i.IValues) == 0 {
		return nil, nil, fmt.Errorf(ErrValueMissing, "insert", i.ITable)
	}

	columns := addColumns(i.IColumns, i.IValues[0])
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf(ErrValueMissing, "column", i.ITable)
	}

	var arguments []interface{}
	for _, valueSet := range i.IValues {
		for _, column := range columns {
			val, ok := valueSet[column]
			if !ok {
				return nil, nil, fmt.Errorf(ErrColumn, column, i.ITable)
			}
			arguments = append(arguments, val)
		}
	}

	values := "(" + condition.PLACEHOLDER + strings.Repeat(", "+condition.PLACEHOLDER, len(columns)-1) + ")"
	stmt := "INSERT INTO " + i.Provider.QuoteIdentifier(i.ITable) + " (" + i.Provider.QuoteIdentifier(columns...) + ") VALUES " +
		values + strings.Repeat(", "+values, len(i.IValues)-1)

	return []string{condition.ReplacePlaceholders(stmt, i.Provider.Placeholder())}, [][]interface{}{arguments}, nil
}
