// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

import (
	"regexp"
	"strings"

	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/schema"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxNameLength of table and column names.
const MaxNameLength = 63

// Name rule messages.
var (
	MsgNameGrammar  = "must start with a lowercase letter and contain only lowercase letters, digits and underscores"
	MsgNameLength   = "must be at most 63 characters"
	MsgNameReserved = "is a reserved name"
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// reserved names.
var (
	reservedTables      = map[string]bool{"tables": true, "columns": true, "data": true}
	reservedTablePrefix = "sqlite_"
	reservedColumns     = map[string]bool{schema.ColumnID: true, schema.ColumnCreatedAt: true, schema.ColumnUpdatedAt: true}
)

// ValidateTableName checks the grammar and the reserved table names.
func ValidateTableName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if reservedTables[name] || strings.HasPrefix(name, reservedTablePrefix) {
		return apperror.Validation("invalid table name", apperror.Detail{Field: "name", Message: MsgNameReserved})
	}
	return nil
}

// ValidateColumnName checks the grammar and the reserved column names.
func ValidateColumnName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if reservedColumns[name] {
		return apperror.Validation("invalid column name", apperror.Detail{Field: "name", Message: MsgNameReserved})
	}
	return nil
}

func validateName(name string) error {
	if len(name) > MaxNameLength {
		return apperror.Validation("invalid name", apperror.Detail{Field: "name", Message: MsgNameLength})
	}
	if !namePattern.MatchString(name) {
		return apperror.Validation("invalid name", apperror.Detail{Field: "name", Message: MsgNameGrammar})
	}
	return nil
}

// DisplayName derives a label from the name, order_items becomes Order Items.
func DisplayName(name string) string {
	// a caser is stateful and can not be shared.
	return cases.Title(language.English).String(strings.Replace(name, "_", " ", -1))
}
