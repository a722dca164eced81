// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package persistence_test

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/patrickascher/dynapi/persistence"
	"github.com/patrickascher/dynapi/query"
	_ "github.com/patrickascher/dynapi/query/sqlite"
	"github.com/patrickascher/dynapi/query/types"
	"github.com/stretchr/testify/assert"
)

func newEngine(t *testing.T) *persistence.Engine {
	b, err := query.New("sqlite", query.Config{Database: filepath.Join(t.TempDir(), "engine.db")})
	if err != nil {
		t.Fatal(err)
	}
	e, err := persistence.New(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = e.Close() })

	err = e.Write(func(tx query.QueryTx) error {
		return tx.Table("counter").Create(
			query.ColumnDefinition{Name: "id", Type: types.NewInt(""), PrimaryKey: true, Autoincrement: true},
			query.ColumnDefinition{Name: "n", Type: types.NewInt(""), NotNull: true},
		).Exec()
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func count(t *testing.T, e *persistence.Engine) int {
	var c int
	err := e.Read(func(q query.QueryTx) error {
		row, err := q.Select("counter").Columns(query.DbExpr("COUNT(*)")).First()
		if err != nil {
			return err
		}
		return row.Scan(&c)
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// TestNew tests the nil builder error.
func TestNew(t *testing.T) {
	e, err := persistence.New(nil, nil)
	assert.Nil(t, e)
	assert.Equal(t, persistence.ErrBuilder, err)
}

// TestEngine_Write tests:
// - commit and committed callbacks.
// - rollback of all statements if fn returns an error, error is returned unchanged.
// - DDL is rolled back as well.
func TestEngine_Write(t *testing.T) {
	asserts := assert.New(t)
	e := newEngine(t)

	called := false
	err := e.Write(func(tx query.QueryTx) error {
		_, err := tx.Insert("counter").Values([]map[string]interface{}{{"n": 1}}).Exec()
		return err
	}, func() { called = true })
	asserts.NoError(err)
	asserts.True(called)
	asserts.Equal(1, count(t, e))

	fail := errors.New("fail")
	called = false
	err = e.Write(func(tx query.QueryTx) error {
		if _, err := tx.Insert("counter").Values([]map[string]interface{}{{"n": 2}}).Exec(); err != nil {
			return err
		}
		if err := tx.Table("ghost").Create(query.ColumnDefinition{Name: "id", Type: types.NewInt("")}).Exec(); err != nil {
			return err
		}
		return fail
	}, func() { called = true })
	asserts.Equal(fail, err)
	asserts.False(called)
	asserts.Equal(1, count(t, e))

	err = e.Read(func(q query.QueryTx) error {
		_, err := q.Information("ghost").Describe()
		return err
	})
	asserts.Error(err)
	asserts.NoError(e.Flush())
}

// TestEngine_Concurrency tests that concurrent writers are serialized.
func TestEngine_Concurrency(t *testing.T) {
	asserts := assert.New(t)
	e := newEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := e.Write(func(tx query.QueryTx) error {
				_, err := tx.Insert("counter").Values([]map[string]interface{}{{"n": i}}).Exec()
				return err
			})
			asserts.NoError(err)
		}(i)
	}
	wg.Wait()
	asserts.Equal(20, count(t, e))
}
