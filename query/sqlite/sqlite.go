// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sqlite provides a query provider for sqlite on top of the pure go driver modernc.org/sqlite.
// File databases are opened in WAL mode, Flush checkpoints the write ahead log into the database file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/patrickascher/dynapi/query"
	"github.com/patrickascher/dynapi/query/condition"
	"github.com/patrickascher/dynapi/query/types"
	_ "modernc.org/sqlite" // sqlite driver
)

// Memory is the database name of an in-memory database.
const Memory = ":memory:"

// Error messages.
var (
	ErrDatabase          = errors.New("sqlite: database path is empty")
	ErrTableDoesNotExist = "sqlite: table %s or columns %v: %w"
)

// pragmas of every connection.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
}

type sqlite struct {
	query.Base
}

// init registers the provider under sqlite.
func init() {
	err := query.Register("sqlite", newSqlite)
	if err != nil {
		panic(err)
	}
}

// newSqlite creates a new query.Provider.
func newSqlite(config interface{}) (query.Provider, error) {
	cfg, ok := config.(query.Config)
	if !ok {
		return nil, fmt.Errorf("sqlite: config must be a query.Config, %T given", config)
	}
	if cfg.Database == "" {
		return nil, ErrDatabase
	}

	sqliteBuilder := &sqlite{}
	sqliteBuilder.Base.Provider = sqliteBuilder
	sqliteBuilder.Base.Config = cfg

	return sqliteBuilder, nil
}

// Placeholder returns the ? placeholder for the sqlite driver.
func (s *sqlite) Placeholder() condition.Placeholder {
	return condition.Placeholder{Char: "?"}
}

// Config returns the query.Config.
func (s *sqlite) Config() query.Config {
	return s.Base.Config
}

// QuoteIdentifierChar for sqlite.
func (s *sqlite) QuoteIdentifierChar() string {
	return `"`
}

// Autoincrement keyword of an integer primary key.
func (s *sqlite) Autoincrement() string {
	return "AUTOINCREMENT"
}

// RawType maps the kind to a sqlite storage class.
// Dates and timestamps are stored as canonical TEXT, the driver would convert DATE columns to time.Time otherwise.
func (s *sqlite) RawType(t types.Interface) string {
	switch t.Kind() {
	case types.TEXT, types.TEXTAREA, types.DATE, types.DATETIME:
		return "TEXT"
	case types.INTEGER, types.BOOL:
		return "INTEGER"
	case types.FLOAT:
		return "REAL"
	}
	return ""
}

// Open creates a new *sql.DB.
// An in-memory database is limited to one connection, because every connection would open its own database.
func (s *sqlite) Open() error {
	dsn := "file:" + s.Base.Config.Database
	if s.Base.Config.Database == Memory {
		s.Base.Config.MaxOpenConnections = 1
		s.Base.Config.MaxIdleConnections = 1
		s.Base.Config.MaxConnLifetime = 0
	}
	dsn += "?_pragma=" + strings.Join(pragmas, "&_pragma=")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	s.SetDB(db)

	// call base Open function.
	return s.Base.Open()
}

// Flush checkpoints the write ahead log.
func (s *sqlite) Flush() error {
	if s.Base.Config.Database == Memory {
		return nil
	}
	if s.Base.Logger != nil {
		log := s.Base.Logger.WithTimer()
		defer log.Trace("PRAGMA wal_checkpoint(PASSIVE)")
	}
	_, err := s.DB().Exec("PRAGMA wal_checkpoint(PASSIVE)")
	return err
}

// Query creates a new sqlite instance.
func (s *sqlite) Query() query.Query {
	// create a new instance with a new *sql.Tx.
	// Everything else will be copied from the parent.
	instance := sqlite{}
	instance.Base = query.Base{Config: s.Base.Config, Logger: s.Base.Logger, TransactionBase: query.TransactionBase{}}
	instance.Base.Provider = &instance // self ref for TX
	instance.SetDB(s.DB())

	return &instance
}

// Select will return a query.Select.
func (s *sqlite) Select(table string) query.Select {
	return &query.SelectBase{STable: table, Provider: s}
}

// Insert will return a query.Insert.
func (s *sqlite) Insert(table string) query.Insert {
	return &query.InsertBase{ITable: table, Provider: s}
}

// Update will return a query.Update.
func (s *sqlite) Update(table string) query.Update {
	return &query.UpdateBase{UTable: table, Provider: s}
}

// Delete will return a query.Delete.
func (s *sqlite) Delete(table string) query.Delete {
	return &query.DeleteBase{DTable: table, Provider: s}
}

// Table will return a query.Table.
func (s *sqlite) Table(table string) query.Table {
	return &query.TableBase{TName: table, Provider: s}
}

// Information will return a query.Information.
func (s *sqlite) Information(table string) query.Information {
	return &information{table: table, sqlite: s}
}

// information helper struct.
type information struct {
	table  string
	sqlite *sqlite
}

// Describe the defined table.
func (i *information) Describe(columns ...string) ([]query.Column, error) {
	stmt := `SELECT "cid", "name", "type", "notnull", "dflt_value", "pk" FROM pragma_table_info(?)`
	args := []interface{}{i.table}
	if len(columns) > 0 {
		c := condition.New().SetWhere(`"name" IN (?)`, columns)
		where, cArgs, err := c.Render(i.sqlite.Placeholder())
		if err != nil {
			return nil, err
		}
		stmt += " " + where
		args = append(args, cArgs...)
	}
	stmt += ` ORDER BY "cid"`

	rows, err := i.sqlite.All(stmt, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []query.Column
	for rows.Next() {
		c := query.Column{Table: i.table}

		var t string
		var notNull, pk int
		if err := rows.Scan(&c.Position, &c.Name, &t, &notNull, &c.DefaultValue, &pk); err != nil {
			return nil, err
		}
		c.Position++
		c.NullAble = notNull == 0 && pk == 0
		c.PrimaryKey = pk > 0
		c.Autoincrement = c.PrimaryKey && strings.EqualFold(t, "INTEGER")
		c.Type = i.TypeMapping(t)
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf(ErrTableDoesNotExist, i.table, columns, query.ErrNotExist)
	}

	return cols, nil
}

// TypeMapping converts the declared sqlite type to an unique types.Interface over different database drives.
// The mapping follows the sqlite type affinity rules.
func (i *information) TypeMapping(raw string) types.Interface {
	t := strings.ToUpper(raw)
	switch {
	case strings.Contains(t, "INT"):
		return types.NewInt(raw)
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return types.NewText(raw, 0)
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return types.NewFloat(raw)
	}
	return nil
}
