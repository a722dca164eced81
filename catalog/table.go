// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

import (
	"strings"

	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/query"
	"github.com/patrickascher/dynapi/schema"
)

// Table declaration.
type Table struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Columns     []Column `json:"columns"`
}

// CreateTable is the input of Store.CreateTable.
type CreateTable struct {
	Name        string `mapstructure:"name"`
	DisplayName string `mapstructure:"display_name"`
}

// Tables returns all declared tables with their columns, ordered by id.
func (s *Store) Tables() ([]Table, error) {
	var rv []Table
	err := s.engine.Read(func(q query.QueryTx) error {
		var err error
		rv, err = s.selectTables(q, "")
		return err
	})
	return rv, err
}

// Table returns the declared table with its columns.
func (s *Store) Table(id int64) (Table, error) {
	var t Table
	err := s.engine.Read(func(q query.QueryTx) error {
		var err error
		t, err = s.tableBy(q, "id = ?", id)
		if apperror.Is(err, apperror.KindNotFound) {
			return apperror.NotFound("table", id)
		}
		return err
	})
	return t, err
}

// TableByName returns the declared table with its columns.
func (s *Store) TableByName(name string) (Table, error) {
	var t Table
	err := s.engine.Read(func(q query.QueryTx) error {
		var err error
		t, err = s.tableBy(q, "name = ?", name)
		if apperror.Is(err, apperror.KindNotFound) {
			return apperror.NotFound("table", name)
		}
		return err
	})
	return t, err
}

// CreateTable declares a new table and creates the physical table.
// If the display name is empty, it is derived from the name.
func (s *Store) CreateTable(in CreateTable) (Table, error) {
	if err := ValidateTableName(in.Name); err != nil {
		return Table{}, err
	}

	now := schema.Now()
	t := Table{Name: in.Name, DisplayName: strings.TrimSpace(in.DisplayName), CreatedAt: now, UpdatedAt: now, Columns: []Column{}}
	if t.DisplayName == "" {
		t.DisplayName = DisplayName(t.Name)
	}

	err := s.engine.Write(func(tx query.QueryTx) error {
		_, err := s.tableBy(tx, "name = ?", t.Name)
		if err == nil {
			return apperror.Duplicate("table", t.Name)
		}
		if !apperror.Is(err, apperror.KindNotFound) {
			return err
		}

		return newSaga("create table "+t.Name, s.logger).
			Step("insert catalog row", func() error {
				_, err := tx.Insert(TableTables).Values([]map[string]interface{}{{
					"name":         t.Name,
					"display_name": t.DisplayName,
					"created_at":   t.CreatedAt,
					"updated_at":   t.UpdatedAt,
				}}).LastInsertedID(&t.ID).Exec()
				if err != nil {
					return internalErr("insert table", err)
				}
				return nil
			}, func() error {
				_, err := tx.Delete(TableTables).Where("id = ?", t.ID).Exec()
				return err
			}).
			Step("create physical table", func() error {
				return s.mutator.CreateTable(tx, t.Name)
			}, nil).
			Run()
	}, func() {
		s.refresh(t)
	})
	if err != nil {
		return Table{}, err
	}

	s.logger.WithFields(logger.Fields{"table": t.Name, "id": t.ID}).Info("catalog: table created")
	return t, nil
}

// DeleteTable drops the physical table and removes the declaration with all its columns.
func (s *Store) DeleteTable(id int64) error {
	var t Table
	err := s.engine.Write(func(tx query.QueryTx) error {
		var err error
		t, err = s.tableBy(tx, "id = ?", id)
		if apperror.Is(err, apperror.KindNotFound) {
			return apperror.NotFound("table", id)
		}
		if err != nil {
			return err
		}

		return newSaga("delete table "+t.Name, s.logger).
			Step("drop physical table", func() error {
				return s.mutator.DropTable(tx, t.Name)
			}, nil).
			Step("delete column rows", func() error {
				_, err := tx.Delete(TableColumns).Where("table_id = ?", t.ID).Exec()
				if err != nil {
					return internalErr("delete columns", err)
				}
				return nil
			}, func() error {
				for _, c := range t.Columns {
					if err := insertColumn(tx, &c, true); err != nil {
						return err
					}
				}
				return nil
			}).
			Step("delete catalog row", func() error {
				_, err := tx.Delete(TableTables).Where("id = ?", t.ID).Exec()
				if err != nil {
					return internalErr("delete table", err)
				}
				return nil
			}, nil).
			Run()
	}, func() {
		s.remove(t.Name)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logger.Fields{"table": t.Name, "id": t.ID}).Info("catalog: table deleted")
	return nil
}

// tableBy returns the first table of the condition with its columns.
func (s *Store) tableBy(q query.QueryTx, where string, arg interface{}) (Table, error) {
	tables, err := s.selectTables(q, where, arg)
	if err != nil {
		return Table{}, err
	}
	if len(tables) == 0 {
		return Table{}, apperror.NotFound("table", arg)
	}
	return tables[0], nil
}

// selectTables returns the tables of the condition with their columns.
func (s *Store) selectTables(q query.QueryTx, where string, args ...interface{}) ([]Table, error) {
	sel := q.Select(TableTables).Columns(tableFields...).Order("id")
	if where != "" {
		sel.Where(where, args...)
	}
	rows, err := sel.All()
	if err != nil {
		return nil, internalErr("select tables", err)
	}
	defer rows.Close()

	tables := []Table{}
	index := map[int64]int{}
	for rows.Next() {
		t := Table{Columns: []Column{}}
		if err = rows.Scan(&t.ID, &t.Name, &t.DisplayName, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, internalErr("scan table", err)
		}
		index[t.ID] = len(tables)
		tables = append(tables, t)
	}
	if err = rows.Err(); err != nil {
		return nil, internalErr("select tables", err)
	}
	if len(tables) == 0 {
		return tables, nil
	}

	ids := make([]interface{}, 0, len(tables))
	for _, t := range tables {
		ids = append(ids, t.ID)
	}
	cols, err := selectColumns(q, "table_id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		i := index[c.TableID]
		tables[i].Columns = append(tables[i].Columns, c)
	}

	return tables, nil
}
