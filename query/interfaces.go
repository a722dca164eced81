// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"database/sql"

	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/query/condition"
	"github.com/patrickascher/dynapi/query/types"
)

// Builder is the entry point of a configured database connection.
type Builder interface {
	SetLogger(logger.Manager)
	Query(...QueryTx) Query
	Config() Config
	QuoteIdentifier(string) string
	QuoteLiteral(interface{}) (string, error)
	RawType(types.Interface) string
	Flush() error
	Close() error
}

// Provider must be implemented by every database driver.
// The provider itself is a Query, a new instance must be created by Query() for every unit of work.
type Provider interface {
	Query

	Open() error
	Close() error
	Config() Config
	Placeholder() condition.Placeholder
	QuoteIdentifier(...string) string
	QuoteIdentifierChar() string
	QuoteLiteral(interface{}) (string, error)
	RawType(types.Interface) string
	Autoincrement() string
	Flush() error
	SetLogger(logger.Manager)
	Query() Query
	Exec([]string, [][]interface{}) ([]sql.Result, error)
	First(string, []interface{}) (*sql.Row, error)
	All(string, []interface{}) (*sql.Rows, error)
}

// QueryTx is a unit of work which may run inside a transaction.
type QueryTx interface {
	HasTx() bool
	Commit() error
	Rollback() error

	DB() *sql.DB

	Select(string) Select
	Insert(string) Insert
	Update(string) Update
	Delete(string) Delete
	Table(string) Table
	Information(string) Information
}

// Query is a unit of work which can start a transaction.
type Query interface {
	QueryTx
	Tx() (QueryTx, error)
}

// Insert statement.
type Insert interface {
	Columns(...string) Insert
	Values([]map[string]interface{}) Insert
	LastInsertedID(...interface{}) Insert

	String() ([]string, [][]interface{}, error)
	Exec() ([]sql.Result, error)
}

// Update statement.
type Update interface {
	Set(map[string]interface{}) Update
	Columns(...string) Update
	Condition(condition.Condition) Update
	Where(string, ...interface{}) Update

	String() (string, []interface{}, error)
	Exec() (sql.Result, error)
}

// Delete statement.
type Delete interface {
	Condition(c condition.Condition) Delete
	Where(string, ...interface{}) Delete

	String() (string, []interface{}, error)
	Exec() (sql.Result, error)
}

// Select statement.
type Select interface {
	Columns(...string) Select
	First() (*sql.Row, error)
	All() (*sql.Rows, error)
	String() (string, []interface{}, error)

	Condition(c condition.Condition) Select
	Where(condition string, args ...interface{}) Select
	Order(order ...string) Select
	Limit(limit int) Select
	Offset(offset int) Select
}

// Table provides the data definition statements of a table.
type Table interface {
	Unique(columns ...string) Table
	Create(columns ...ColumnDefinition) DDL
	CreateIfNotExists(columns ...ColumnDefinition) DDL
	Drop() DDL
	DropIfExists() DDL
	AddColumn(column ColumnDefinition) DDL
	DropColumn(name string) DDL
}

// DDL is a rendered data definition statement.
type DDL interface {
	String() (string, error)
	Exec() error
}

// Information about the physical structure of a table.
type Information interface {
	Describe(columns ...string) ([]Column, error)
}
