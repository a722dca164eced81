// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/patrickascher/dynapi/logger"
)

// Error messages.
var (
	ErrDbNotSet = errors.New("query: DB is not set")
	ErrLiteral  = "query: can not render %v (%T) as literal"
)

// Base struct includes the configuration, logger and transaction logic.
type Base struct {
	db       *sql.DB
	Config   Config
	Logger   logger.Manager
	Provider Provider

	TransactionBase
}

// SetDB sets the *sql.DB.
func (b *Base) SetDB(db *sql.DB) {
	b.db = db
}

// DB returns the *sql.DB.
func (b *Base) DB() *sql.DB {
	return b.db
}

// QuoteIdentifier quotes every string with the providers quote-identifier-character.
// A quote character inside the name is doubled, so every name is rendered as one identifier.
// If query.DbExpr was used, the string will not be quoted.
func (b *Base) QuoteIdentifier(columns ...string) string {
	q := b.Provider.QuoteIdentifierChar()

	rv := make([]string, 0, len(columns))
	for _, c := range columns {
		// don't escape query.DbExpr()
		if strings.HasPrefix(c, dbExpr) {
			rv = append(rv, c[1:])
			continue
		}
		rv = append(rv, q+strings.Replace(c, q, q+q, -1)+q)
	}

	return strings.Join(rv, ", ")
}

// QuoteLiteral renders the value as sql literal.
// Strings are enclosed in single quotes, every single quote is doubled.
// Booleans are rendered as 1 or 0.
func (b *Base) QuoteLiteral(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + strings.Replace(val, "'", "''", -1) + "'", nil
	case bool:
		if val {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return "", fmt.Errorf(ErrLiteral, v, v)
		}
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	}
	return "", fmt.Errorf(ErrLiteral, v, v)
}

// Tx will create a sql.Tx.
// Error will return if a tx was already set or the provider returns an error.
func (b *Base) Tx() (QueryTx, error) {
	if b.HasTx() {
		return nil, ErrTxExists
	}

	var err error
	b.TransactionBase.Tx, err = b.db.Begin()
	if err != nil {
		return nil, err
	}

	return b.Provider, nil
}

// First will return a sql.Row.
// If a logger is defined, the query will be logged on `DEBUG` lvl with a timer.
// If a transaction is set, it will run in the transaction.
func (b *Base) First(stmt string, args []interface{}) (*sql.Row, error) {
	if b.Logger != nil {
		log := b.Logger.WithTimer()
		defer log.Debug(stmt)
	}

	if b.HasTx() {
		return b.TransactionBase.Tx.QueryRow(stmt, args...), nil
	}

	return b.db.QueryRow(stmt, args...), nil
}

// All will return the sql.Rows.
// If a logger is defined, the query will be logged on `DEBUG` lvl with a timer.
// If a transaction is set, it will run in the transaction.
func (b *Base) All(stmt string, args []interface{}) (*sql.Rows, error) {
	if b.Logger != nil {
		log := b.Logger.WithTimer()
		defer log.Debug(stmt)
	}

	if b.HasTx() {
		return b.TransactionBase.Tx.Query(stmt, args...)
	}
	return b.db.Query(stmt, args...)
}

// Exec will execute the statements with the argument of the same index.
// If a transaction is set, it will run in the transaction.
// If multiple statements are given and no transaction is set, it will automatically create one and commits it.
func (b *Base) Exec(stmt []string, args [][]interface{}) ([]sql.Result, error) {
	if b.Logger != nil {
		log := b.Logger.WithTimer()
		defer log.Debug(strings.Join(stmt, "; "))
	}

	// set a transaction if there are more statements.
	var autoCommit bool
	if !b.HasTx() && len(stmt) > 1 {
		if _, err := b.Tx(); err != nil {
			return nil, err
		}
		autoCommit = true
	}

	var results []sql.Result
	for i, s := range stmt {
		var arg []interface{}
		if i < len(args) {
			arg = args[i]
		}

		var res sql.Result
		var err error
		if b.HasTx() {
			res, err = b.TransactionBase.Tx.Exec(s, arg...)
		} else {
			res, err = b.db.Exec(s, arg...)
		}

		if err != nil {
			if autoCommit {
				if rErr := b.Rollback(); rErr != nil {
					return nil, fmt.Errorf("%w (rollback: %s)", err, rErr)
				}
			}
			return nil, err
		}
		results = append(results, res)
	}

	if autoCommit {
		return results, b.Commit()
	}

	return results, nil
}

// Open will set some basic sql Settings and check the connection.
// all defined config.PreQuery will run here.
func (b *Base) Open() error {
	if b.db == nil {
		return ErrDbNotSet
	}

	// settings, zero values keep the go defaults.
	if b.Config.MaxIdleConnections > 0 {
		b.db.SetMaxIdleConns(b.Config.MaxIdleConnections) // go default 2
	}
	if b.Config.MaxOpenConnections > 0 {
		b.db.SetMaxOpenConns(b.Config.MaxOpenConnections) // go default 0
	}
	if b.Config.MaxConnLifetime > 0 {
		b.db.SetConnMaxLifetime(b.Config.MaxConnLifetime) // go default 0
	}

	// check connection
	err := b.db.Ping()
	if err != nil {
		return err
	}

	for _, v := range b.Config.PreQuery {
		_, err = b.db.Exec(v)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
	}

	return nil
}

// Close the *sql.DB.
func (b *Base) Close() error {
	if b.db == nil {
		return ErrDbNotSet
	}
	return b.db.Close()
}

// Flush is a no-op for providers which are durable on commit.
func (b *Base) Flush() error {
	return nil
}

// SetLogger sets the logger for all statements.
func (b *Base) SetLogger(logger logger.Manager) {
	b.Logger = logger
}

// addColumns is a helper to create a sorted column slice out of the value map.
func addColumns(columns []string, values map[string]interface{}) []string {
	if len(columns) == 0 {
		for column := range values {
			columns = append(columns, column)
		}
		sort.Strings(columns)
	}
	return columns
}
