// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package catalog is the authoritative registry of the declared tables and columns.
//
// Every mutation is a saga of catalog row changes and physical schema changes which runs inside one write session
// of the persistence engine. If a step fails, the completed steps are compensated and the session is rolled back,
// so the catalog, the physical schema and the registered endpoints never diverge.
//
// After a successful commit the Observer is notified, still under the write lock.
// An Observer must not call back into the store.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/persistence"
	"github.com/patrickascher/dynapi/query"
	"github.com/patrickascher/dynapi/query/types"
	"github.com/patrickascher/dynapi/schema"
)

// System tables.
const (
	TableTables  = "_tables"
	TableColumns = "_columns"
)

// Error messages.
var (
	ErrEngine = errors.New("catalog: persistence engine is nil")
)

// selected columns of the system tables.
var (
	tableFields  = []string{"id", "name", "display_name", "created_at", "updated_at"}
	columnFields = []string{"id", "table_id", "name", "display_name", "data_type", "is_required", "is_unique", "default_value", "max_length", "position", "created_at"}
)

// Observer is notified after a committed mutation.
type Observer interface {
	// Refresh is called with the current declaration of a created or changed table.
	Refresh(t Table)
	// Remove is called with the name of a deleted table.
	Remove(name string)
}

// Store of the declarations.
type Store struct {
	engine   *persistence.Engine
	mutator  *schema.Mutator
	logger   logger.Manager
	observer Observer
}

// New creates a store.
func New(engine *persistence.Engine, mutator *schema.Mutator, l logger.Manager) (*Store, error) {
	if engine == nil {
		return nil, ErrEngine
	}
	if mutator == nil {
		mutator = schema.New(l)
	}
	if l == nil {
		l = logger.New(discard{})
	}
	return &Store{engine: engine, mutator: mutator, logger: l}, nil
}

// SetObserver sets the observer of committed mutations.
func (s *Store) SetObserver(o Observer) {
	s.observer = o
}

// Migrate creates the system tables if they do not exist yet.
func (s *Store) Migrate() error {
	return s.engine.Write(func(tx query.QueryTx) error {
		err := tx.Table(TableTables).CreateIfNotExists(
			query.ColumnDefinition{Name: "id", Type: types.NewInt(""), PrimaryKey: true, Autoincrement: true},
			query.ColumnDefinition{Name: "name", Type: types.NewText("", MaxNameLength), NotNull: true, Unique: true},
			query.ColumnDefinition{Name: "display_name", Type: types.NewText("", 0), NotNull: true},
			query.ColumnDefinition{Name: "created_at", Type: types.NewDateTime(""), NotNull: true},
			query.ColumnDefinition{Name: "updated_at", Type: types.NewDateTime(""), NotNull: true},
		).Exec()
		if err != nil {
			return fmt.Errorf("catalog: migrate %s: %w", TableTables, err)
		}

		err = tx.Table(TableColumns).Unique("table_id", "name").CreateIfNotExists(
			query.ColumnDefinition{Name: "id", Type: types.NewInt(""), PrimaryKey: true, Autoincrement: true},
			query.ColumnDefinition{Name: "table_id", Type: types.NewInt(""), NotNull: true},
			query.ColumnDefinition{Name: "name", Type: types.NewText("", MaxNameLength), NotNull: true},
			query.ColumnDefinition{Name: "display_name", Type: types.NewText("", 0), NotNull: true},
			query.ColumnDefinition{Name: "data_type", Type: types.NewText("", 16), NotNull: true},
			query.ColumnDefinition{Name: "is_required", Type: types.NewBool(""), NotNull: true, Default: false},
			query.ColumnDefinition{Name: "is_unique", Type: types.NewBool(""), NotNull: true, Default: false},
			query.ColumnDefinition{Name: "default_value", Type: types.NewTextArea("")},
			query.ColumnDefinition{Name: "max_length", Type: types.NewInt("")},
			query.ColumnDefinition{Name: "position", Type: types.NewInt(""), NotNull: true, Default: int64(0)},
			query.ColumnDefinition{Name: "created_at", Type: types.NewDateTime(""), NotNull: true},
		).Exec()
		if err != nil {
			return fmt.Errorf("catalog: migrate %s: %w", TableColumns, err)
		}

		s.logger.Debug("catalog: system tables migrated")
		return nil
	})
}

// refresh notifies the observer.
func (s *Store) refresh(t Table) {
	if s.observer != nil {
		s.observer.Refresh(t)
	}
}

// remove notifies the observer.
func (s *Store) remove(name string) {
	if s.observer != nil {
		s.observer.Remove(name)
	}
}

// internalErr wraps unexpected database errors.
func internalErr(op string, err error) error {
	return fmt.Errorf("catalog: %s: %w", op, err)
}

// noRows reports whether err is a sql.ErrNoRows.
func noRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// discard provider is used if no logger is set.
type discard struct{}

func (discard) Log(logger.Entry) {}
