// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/patrickascher/dynapi/query/types"
)

// Error messages.
var (
	ErrNoColumns   = "query: table %s has no column definition"
	ErrColumnName  = errors.New("query: column name is empty")
	ErrColumnType  = "query: column %s has no type"
	ErrUnknownKind = "query: provider has no raw type for kind %s"
)

// ColumnDefinition describes a column for a CREATE TABLE or ALTER TABLE ADD COLUMN statement.
// Default must be a value which QuoteLiteral can render, nil means no default.
type ColumnDefinition struct {
	Name          string
	Type          types.Interface
	NotNull       bool
	Default       interface{}
	PrimaryKey    bool
	Autoincrement bool
	Unique        bool
}

// TableBase can be embedded and changed for different providers.
// All functions and variables are therefore exported.
type TableBase struct {
	Provider Provider

	TName   string
	TUnique [][]string
}

// ddl is a rendered statement.
type ddl struct {
	provider Provider
	stmt     string
	err      error
}

// String returns the statement.
func (d *ddl) String() (string, error) {
	return d.stmt, d.err
}

// Exec the statement.
func (d *ddl) Exec() error {
	if d.err != nil {
		return d.err
	}
	_, err := d.provider.Exec([]string{d.stmt}, nil)
	return err
}

// Unique adds a table constraint over the given columns to the CREATE statement.
func (t *TableBase) Unique(columns ...string) Table {
	t.TUnique = append(t.TUnique, columns)
	return t
}

// Create renders a CREATE TABLE statement.
func (t *TableBase) Create(columns ...ColumnDefinition) DDL {
	return t.create("CREATE TABLE ", columns)
}

// CreateIfNotExists renders a CREATE TABLE IF NOT EXISTS statement.
func (t *TableBase) CreateIfNotExists(columns ...ColumnDefinition) DDL {
	return t.create("CREATE TABLE IF NOT EXISTS ", columns)
}

// Drop renders a DROP TABLE statement.
func (t *TableBase) Drop() DDL {
	return &ddl{provider: t.Provider, stmt: "DROP TABLE " + t.Provider.QuoteIdentifier(t.TName)}
}

// DropIfExists renders a DROP TABLE IF EXISTS statement.
func (t *TableBase) DropIfExists() DDL {
	return &ddl{provider: t.Provider, stmt: "DROP TABLE IF EXISTS " + t.Provider.QuoteIdentifier(t.TName)}
}

// AddColumn renders an ALTER TABLE ADD COLUMN statement.
func (t *TableBase) AddColumn(column ColumnDefinition) DDL {
	def, err := t.Render(column)
	if err != nil {
		return &ddl{err: err}
	}
	return &ddl{provider: t.Provider, stmt: "ALTER TABLE " + t.Provider.QuoteIdentifier(t.TName) + " ADD COLUMN " + def}
}

// DropColumn renders an ALTER TABLE DROP COLUMN statement.
func (t *TableBase) DropColumn(name string) DDL {
	return &ddl{provider: t.Provider, stmt: "ALTER TABLE " + t.Provider.QuoteIdentifier(t.TName) + " DROP COLUMN " + t.Provider.QuoteIdentifier(name)}
}

// Render a single column definition.
// Order: name type [NOT NULL] [DEFAULT literal] [PRIMARY KEY [autoincrement]] [UNIQUE].
func (t *TableBase) Render(c ColumnDefinition) (string, error) {
	if c.Name == "" {
		return "", ErrColumnName
	}
	if c.Type == nil {
		return "", fmt.Errorf(ErrColumnType, c.Name)
	}
	raw := t.Provider.RawType(c.Type)
	if raw == "" {
		return "", fmt.Errorf(ErrUnknownKind, c.Type.Kind())
	}

	def := []string{t.Provider.QuoteIdentifier(c.Name), raw}
	if c.NotNull {
		def = append(def, "NOT NULL")
	}
	if c.Default != nil {
		lit, err := t.Provider.QuoteLiteral(c.Default)
		if err != nil {
			return "", err
		}
		def = append(def, "DEFAULT "+lit)
	}
	if c.PrimaryKey {
		def = append(def, "PRIMARY KEY")
		if c.Autoincrement {
			def = append(def, t.Provider.Autoincrement())
		}
	}
	if c.Unique {
		def = append(def, "UNIQUE")
	}

	return strings.Join(def, " "), nil
}

func (t *TableBase) create(prefix string, columns []ColumnDefinition) DDL {
	if len(columns) == 0 {
		return &ddl{err: fmt.Errorf(ErrNoColumns, t.TName)}
	}

	defs := make([]string, 0, len(columns)+len(t.TUnique))
	for _, c := range columns {
		def, err := t.Render(c)
		if err != nil {
			return &ddl{err: err}
		}
		defs = append(defs, def)
	}
	for _, u := range t.TUnique {
		defs = append(defs, "UNIQUE ("+t.Provider.QuoteIdentifier(u...)+")")
	}

	return &ddl{provider: t.Provider, stmt: prefix + t.Provider.QuoteIdentifier(t.TName) + " (" + strings.Join(defs, ", ") + ")"}
}
