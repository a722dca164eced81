// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/patrickascher/dynapi/query"
	"github.com/patrickascher/dynapi/query/sqlite"
	"github.com/patrickascher/dynapi/query/types"
	"github.com/stretchr/testify/assert"
)

// TestNew tests:
// - error if no database path is configured.
// - file databases run in WAL mode.
// - in-memory databases.
func TestNew(t *testing.T) {
	asserts := assert.New(t)

	_, err := query.New("sqlite", query.Config{})
	asserts.True(errors.Is(err, sqlite.ErrDatabase))

	b, err := query.New("sqlite", query.Config{Database: filepath.Join(t.TempDir(), "wal.db")})
	if asserts.NoError(err) {
		var mode string
		asserts.NoError(b.Query().DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
		asserts.Equal("wal", mode)
		asserts.NoError(b.Close())
	}

	b, err = query.New("sqlite", query.Config{Database: sqlite.Memory})
	if asserts.NoError(err) {
		asserts.Equal(1, b.Query().DB().Stats().MaxOpenConnections)
		asserts.NoError(b.Flush())
		asserts.NoError(b.Close())
	}
}

// TestSqlite_RawType tests the storage class of every kind.
func TestSqlite_RawType(t *testing.T) {
	asserts := assert.New(t)
	b, err := query.New("sqlite", query.Config{Database: sqlite.Memory})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	asserts.Equal("TEXT", b.RawType(types.NewText("", 20)))
	asserts.Equal("TEXT", b.RawType(types.NewTextArea("")))
	asserts.Equal("TEXT", b.RawType(types.NewDate("")))
	asserts.Equal("TEXT", b.RawType(types.NewDateTime("")))
	asserts.Equal("INTEGER", b.RawType(types.NewInt("")))
	asserts.Equal("INTEGER", b.RawType(types.NewBool("")))
	asserts.Equal("REAL", b.RawType(types.NewFloat("")))
	asserts.Equal(`"a""b"`, b.QuoteIdentifier(`a"b`))
}

// TestSqlite_Describe tests:
// - position, primary key, nullable and kind mapping.
// - column filter.
// - missing tables and columns wrap query.ErrNotExist.
// - flush after a write.
func TestSqlite_Describe(t *testing.T) {
	asserts := assert.New(t)
	b, err := query.New("sqlite", query.Config{Database: filepath.Join(t.TempDir(), "describe.db")})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	err = b.Query().Table("items").Create(
		query.ColumnDefinition{Name: "id", Type: types.NewInt(""), PrimaryKey: true, Autoincrement: true},
		query.ColumnDefinition{Name: "name", Type: types.NewText("", 0), NotNull: true},
		query.ColumnDefinition{Name: "price", Type: types.NewFloat("")},
		query.ColumnDefinition{Name: "active", Type: types.NewBool(""), NotNull: true, Default: true},
	).Exec()
	asserts.NoError(err)

	cols, err := b.Query().Information("items").Describe()
	asserts.NoError(err)
	if asserts.Equal(4, len(cols)) {
		asserts.Equal("id", cols[0].Name)
		asserts.Equal(1, cols[0].Position)
		asserts.True(cols[0].PrimaryKey)
		asserts.True(cols[0].Autoincrement)
		asserts.False(cols[0].NullAble)
		asserts.Equal(types.INTEGER, cols[0].Type.Kind())

		asserts.Equal(types.TEXT, cols[1].Type.Kind())
		asserts.False(cols[1].NullAble)
		asserts.Equal(types.FLOAT, cols[2].Type.Kind())
		asserts.True(cols[2].NullAble)
		asserts.Equal(types.INTEGER, cols[3].Type.Kind())
		asserts.Equal("1", cols[3].DefaultValue.String)
		asserts.Equal("items", cols[3].Table)
	}

	cols, err = b.Query().Information("items").Describe("price", "name")
	asserts.NoError(err)
	if asserts.Equal(2, len(cols)) {
		asserts.Equal("name", cols[0].Name)
		asserts.Equal("price", cols[1].Name)
	}

	_, err = b.Query().Information("items").Describe("unknown")
	asserts.True(errors.Is(err, query.ErrNotExist))
	_, err = b.Query().Information("unknown").Describe()
	asserts.True(errors.Is(err, query.ErrNotExist))

	_, err = b.Query().Insert("items").Values([]map[string]interface{}{{"name": "a"}}).Exec()
	asserts.NoError(err)
	asserts.NoError(b.Flush())
}
