// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package query provides a simple programmatically sql query builder.
// The idea was to create a unique query builder which can be used with any database driver in go.
//
// Features: Unique Placeholder for all database drivers, quoted identifiers and literals, data definition statements,
// table descriptions, SQL queries and durations log debugging.
package query

import (
	"fmt"

	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/registry"
	"github.com/patrickascher/dynapi/query/types"
)

// internals
const (
	registryPrefix = "query_"
	dbExpr         = "!"
)

type providerFn func(interface{}) (Provider, error)

type builder struct {
	provider Provider
}

// Register the query provider.
func Register(name string, p func(interface{}) (Provider, error)) error {
	return registry.Set(registryPrefix+name, providerFn(p))
}

// New creates a new builder instance with the given query provider and configuration.
// Error will return if the query provider was not registered, query provider factory or the query provider Open function will return one.
func New(name string, config interface{}) (Builder, error) {

	// check if the query provider is registered.
	r, err := registry.Get(registryPrefix + name)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	// get the provider instance.
	p, err := r.(providerFn)(config)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	// open the connection.
	err = p.Open()
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return &builder{provider: p}, nil
}

// SetLogger to the query provider.
func (b *builder) SetLogger(l logger.Manager) {
	b.provider.SetLogger(l)
}

// Query will return a new query interface.
// If a running unit of work is passed, it will be reused.
func (b *builder) Query(tx ...QueryTx) Query {
	if len(tx) == 1 && tx[0] != nil {
		if q, ok := tx[0].(Query); ok {
			return q
		}
	}
	return b.provider.Query()
}

// Config will return the builder config.
func (b *builder) Config() Config {
	return b.provider.Config()
}

// QuoteIdentifier quotes the name with the provider quote character.
func (b *builder) QuoteIdentifier(name string) string {
	return b.provider.QuoteIdentifier(name)
}

// QuoteLiteral renders a value as sql literal.
func (b *builder) QuoteLiteral(v interface{}) (string, error) {
	return b.provider.QuoteLiteral(v)
}

// RawType returns the provider sql type of the kind.
func (b *builder) RawType(t types.Interface) string {
	return b.provider.RawType(t)
}

// Flush makes all committed data durable on the storage medium.
func (b *builder) Flush() error {
	return b.provider.Flush()
}

// Close the database connection.
func (b *builder) Close() error {
	return b.provider.Close()
}

// DbExpr expressions will not get quoted.
func DbExpr(s string) string {
	return dbExpr + s
}
