// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mysql

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	"github.com/patrickascher/dynapi/query"
	"github.com/patrickascher/dynapi/query/condition"
	"github.com/patrickascher/dynapi/query/types"
	"github.com/xo/dburl"
)

// defaultTextSize is used for TEXT kinds without a size.
const defaultTextSize = 255

// Error messages.
var (
	ErrTableDoesNotExist = "mysql: table %s or columns %v: %w"
	ErrDriver            = "mysql: url %s is not a mysql url"
)

type mysql struct {
	query.Base
}

// init registers the provider under mysql.
func init() {
	err := query.Register("mysql", newMysql)
	if err != nil {
		panic(err)
	}
}

// newMysql creates a new query.Provider.
func newMysql(config interface{}) (query.Provider, error) {
	cfg, ok := config.(query.Config)
	if !ok {
		return nil, fmt.Errorf("mysql: config must be a query.Config, %T given", config)
	}

	mysqlBuilder := &mysql{}
	mysqlBuilder.Base.Provider = mysqlBuilder
	mysqlBuilder.Base.Config = cfg

	return mysqlBuilder, nil
}

// Placeholder returns the ? placeholder for the mysql driver.
func (m *mysql) Placeholder() condition.Placeholder {
	return condition.Placeholder{Char: "?"}
}

// Config returns the query.Config.
func (m *mysql) Config() query.Config {
	return m.Base.Config
}

// QuoteIdentifierChar for mysql.
func (m *mysql) QuoteIdentifierChar() string {
	return "`"
}

// QuoteLiteral additionally escapes the backslash, which is an escape character in mysql string literals.
func (m *mysql) QuoteLiteral(v interface{}) (string, error) {
	if s, ok := v.(string); ok {
		v = strings.Replace(s, `\`, `\\`, -1)
	}
	return m.Base.QuoteLiteral(v)
}

// Autoincrement keyword of an integer primary key.
func (m *mysql) Autoincrement() string {
	return "AUTO_INCREMENT"
}

// RawType maps the kind to a mysql column type.
// Dates and timestamps are stored as canonical strings.
func (m *mysql) RawType(t types.Interface) string {
	switch t.Kind() {
	case types.TEXT:
		size := defaultTextSize
		if text, ok := t.(*types.Text); ok && text.Size > 0 {
			size = text.Size
		}
		return "VARCHAR(" + strconv.Itoa(size) + ")"
	case types.TEXTAREA:
		return "TEXT"
	case types.INTEGER:
		return "BIGINT"
	case types.FLOAT:
		return "DOUBLE"
	case types.BOOL:
		return "TINYINT(1)"
	case types.DATE:
		return "VARCHAR(10)"
	case types.DATETIME:
		return "VARCHAR(27)"
	}
	return ""
}

// Open creates a new *sql.DB.
func (m *mysql) Open() error {
	dsn, err := m.dsn()
	if err != nil {
		return err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}

	m.SetDB(db)

	// call base Open function.
	return m.Base.Open()
}

// dsn of the configuration.
// If an URL is configured, it is parsed by dburl and the database name is taken from its path.
func (m *mysql) dsn() (string, error) {
	if m.Base.Config.Timeout == "" {
		m.Base.Config.Timeout = "30s"
	}

	if m.Base.Config.URL != "" {
		u, err := dburl.Parse(m.Base.Config.URL)
		if err != nil {
			return "", fmt.Errorf("mysql: %w", err)
		}
		if u.Driver != "mysql" {
			return "", fmt.Errorf(ErrDriver, u.Redacted())
		}
		m.Base.Config.Database = strings.TrimPrefix(u.Path, "/")
		return u.DSN, nil
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&timeout=%s", m.Base.Config.Username, m.Base.Config.Password, m.Base.Config.Host, m.Base.Config.Port, m.Base.Config.Database, m.Base.Config.Timeout), nil
}

// Query creates a new mysql instance.
func (m *mysql) Query() query.Query {
	// create a new instance with a new *sql.Tx.
	// Everything else will be copied from the parent.
	instance := mysql{}
	instance.Base = query.Base{Config: m.Base.Config, Logger: m.Base.Logger, TransactionBase: query.TransactionBase{}}
	instance.Base.Provider = &instance // self ref for TX
	instance.SetDB(m.DB())

	return &instance
}

// Select will return a query.Select.
func (m *mysql) Select(table string) query.Select {
	return &query.SelectBase{STable: table, Provider: m}
}

// Insert will return a query.Insert.
func (m *mysql) Insert(table string) query.Insert {
	return &query.InsertBase{ITable: table, Provider: m}
}

// Update will return a query.Update.
func (m *mysql) Update(table string) query.Update {
	return &query.UpdateBase{UTable: table, Provider: m}
}

// Delete will return a query.Delete.
func (m *mysql) Delete(table string) query.Delete {
	return &query.DeleteBase{DTable: table, Provider: m}
}

// Table will return a query.Table.
func (m *mysql) Table(table string) query.Table {
	return &query.TableBase{TName: table, Provider: m}
}

// Information will return a query.Information.
func (m *mysql) Information(table string) query.Information {
	return &information{table: table, mysql: m}
}

// information helper struct.
type information struct {
	table string
	mysql *mysql
}

// Describe the defined table.
func (i *information) Describe(columns ...string) ([]query.Column, error) {
	sel := i.mysql.Select(query.DbExpr("information_schema.COLUMNS c"))
	sel.Columns(
		query.DbExpr("c.COLUMN_NAME"),
		query.DbExpr("c.ORDINAL_POSITION"),
		query.DbExpr("IF(c.IS_NULLABLE='YES',TRUE,FALSE) AS N"),
		query.DbExpr("IF(c.COLUMN_KEY='PRI',TRUE,FALSE) AS K"),
		query.DbExpr("IF(c.COLUMN_KEY='UNI',TRUE,FALSE) AS U"),
		query.DbExpr("c.COLUMN_TYPE"),
		query.DbExpr("c.COLUMN_DEFAULT"),
		query.DbExpr("c.CHARACTER_MAXIMUM_LENGTH"),
		query.DbExpr("IF(c.EXTRA='auto_increment',TRUE,FALSE) AS A"),
	).
		Where("c.TABLE_SCHEMA = ?", i.mysql.Config().Database).
		Where("c.TABLE_NAME = ?", i.table).
		Order("c.ORDINAL_POSITION")

	if len(columns) > 0 {
		sel.Where("c.COLUMN_NAME IN (?)", columns)
	}

	rows, err := sel.All()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []query.Column
	for rows.Next() {
		c := query.Column{Table: i.table}

		var t string
		if err := rows.Scan(&c.Name, &c.Position, &c.NullAble, &c.PrimaryKey, &c.Unique, &t, &c.DefaultValue, &c.Length, &c.Autoincrement); err != nil {
			return nil, err
		}
		c.Type = i.TypeMapping(t, c)
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf(ErrTableDoesNotExist, i.mysql.Config().Database+"."+i.table, columns, query.ErrNotExist)
	}

	return cols, nil
}

// TypeMapping converts the database type to an unique types.Interface over different database drives.
func (i *information) TypeMapping(raw string, col query.Column) types.Interface {
	switch {
	case strings.HasPrefix(raw, "tinyint(1)"):
		return types.NewBool(raw)
	case strings.HasPrefix(raw, "bigint"),
		strings.HasPrefix(raw, "int"),
		strings.HasPrefix(raw, "mediumint"),
		strings.HasPrefix(raw, "smallint"),
		strings.HasPrefix(raw, "tinyint"):
		return types.NewInt(raw)
	case strings.HasPrefix(raw, "decimal"),
		strings.HasPrefix(raw, "float"),
		strings.HasPrefix(raw, "double"):
		return types.NewFloat(raw)
	case strings.HasPrefix(raw, "varchar"),
		strings.HasPrefix(raw, "char"):
		size := 0
		if col.Length.Valid {
			size = int(col.Length.Int64)
		}
		return types.NewText(raw, size)
	case strings.HasPrefix(raw, "tinytext"),
		strings.HasPrefix(raw, "text"),
		strings.HasPrefix(raw, "mediumtext"),
		strings.HasPrefix(raw, "longtext"):
		return types.NewTextArea(raw)
	case raw == "date":
		return types.NewDate(raw)
	case raw == "datetime" || raw == "timestamp":
		return types.NewDateTime(raw)
	}
	return nil
}
