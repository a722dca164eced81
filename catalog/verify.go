// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

import (
	"fmt"

	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/query"
	"github.com/patrickascher/dynapi/schema"
	"github.com/patrickascher/dynapi/slicer"
)

// Divergence between a declaration and the physical schema.
type Divergence struct {
	Table   string
	Column  string
	Message string
}

// String implements the fmt.Stringer interface.
func (d Divergence) String() string {
	if d.Column == "" {
		return d.Table + ": " + d.Message
	}
	return d.Table + "." + d.Column + ": " + d.Message
}

// Divergence messages.
var (
	MsgMissingTable  = "physical table is missing"
	MsgMissingColumn = "physical column is missing"
	MsgOrphanColumn  = "physical column is not declared"
	MsgTypeMismatch  = "physical column has kind %s, declared %s"
)

// Verify compares every declaration with the physical schema.
// Every divergence is logged as warning and returned.
func (s *Store) Verify() ([]Divergence, error) {
	var rv []Divergence
	err := s.engine.Read(func(q query.QueryTx) error {
		tables, err := s.selectTables(q, "")
		if err != nil {
			return err
		}
		for _, t := range tables {
			rv = append(rv, s.verifyTable(q, t)...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, d := range rv {
		s.logger.WithFields(logger.Fields{"table": d.Table, "column": d.Column}).Warning("catalog: " + d.Message)
	}
	return rv, nil
}

func (s *Store) verifyTable(q query.QueryTx, t Table) []Divergence {
	physical, err := s.mutator.Describe(q, t.Name)
	if err != nil {
		return []Divergence{{Table: t.Name, Message: MsgMissingTable}}
	}

	var rv []Divergence
	cols := make(map[string]query.Column, len(physical))
	for _, c := range physical {
		cols[c.Name] = c
	}
	declared := map[string]bool{schema.ColumnID: true, schema.ColumnCreatedAt: true, schema.ColumnUpdatedAt: true}
	for _, c := range t.Columns {
		declared[c.Name] = true
		p, ok := cols[c.Name]
		if !ok {
			rv = append(rv, Divergence{Table: t.Name, Column: c.Name, Message: MsgMissingColumn})
			continue
		}
		if p.Type != nil && !sameKind(p.Type.Kind(), c.DataType) {
			rv = append(rv, Divergence{Table: t.Name, Column: c.Name, Message: fmt.Sprintf(MsgTypeMismatch, p.Type.Kind(), c.DataType)})
		}
	}
	for _, c := range physical {
		if !declared[c.Name] {
			rv = append(rv, Divergence{Table: t.Name, Column: c.Name, Message: MsgOrphanColumn})
		}
	}
	return rv
}

// sameKind reports whether the physical kind can hold the declared type.
// Providers without date types report dates and timestamps as text.
func sameKind(kind string, t schema.Type) bool {
	if kind == t.Kind() {
		return true
	}
	var compatible []string
	switch t {
	case schema.ShortText, schema.LongText, schema.Date, schema.Timestamp:
		compatible = []string{schema.ShortText.Kind(), schema.LongText.Kind()}
	case schema.Boolean:
		compatible = []string{schema.Integer.Kind()}
	}
	_, ok := slicer.StringExists(compatible, kind)
	return ok
}
