// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package persistence provides the single writer access to the database.
//
// All schema and data mutations run through Write, which serializes them, wraps them in one transaction and
// flushes the committed state to the storage medium. Reads share a read lock and never observe a write in progress.
package persistence

import (
	"errors"
	"fmt"
	"sync"

	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/query"
)

// Error messages.
var (
	ErrBuilder = errors.New("persistence: query builder is nil")
)

// Engine serializes all writes of the application.
type Engine struct {
	mutex   sync.RWMutex
	builder query.Builder
	logger  logger.Manager
}

// New creates an engine on top of the query builder.
func New(b query.Builder, l logger.Manager) (*Engine, error) {
	if b == nil {
		return nil, ErrBuilder
	}
	return &Engine{builder: b, logger: l}, nil
}

// Builder returns the underlying query builder.
func (e *Engine) Builder() query.Builder {
	return e.builder
}

// Write runs fn inside a transaction while holding the write lock.
// If fn returns an error, the transaction is rolled back and the error is returned unchanged.
// The committed callbacks run after the commit, still under the write lock, so no reader can observe
// the new state before they have finished.
// A flush follows every successful commit. A failing flush is only logged.
func (e *Engine) Write(fn func(tx query.QueryTx) error, committed ...func()) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	tx, err := e.builder.Query().Tx()
	if err != nil {
		return fmt.Errorf("persistence: %w", err)
	}

	if err = fn(tx); err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			e.log().WithFields(logger.Fields{"error": rErr.Error()}).Error("persistence: rollback failed")
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("persistence: %w", err)
	}

	for _, fn := range committed {
		fn()
	}

	if err = e.builder.Flush(); err != nil {
		e.log().WithFields(logger.Fields{"error": err.Error()}).Warning("persistence: flush failed")
	}

	return nil
}

// Read runs fn while holding the read lock.
func (e *Engine) Read(fn func(q query.QueryTx) error) error {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return fn(e.builder.Query())
}

// Flush makes all committed data durable.
// It is called by the scheduler on an interval.
func (e *Engine) Flush() error {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	if err := e.builder.Flush(); err != nil {
		return fmt.Errorf("persistence: %w", err)
	}
	return nil
}

// Close flushes and closes the database connection.
func (e *Engine) Close() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if err := e.builder.Flush(); err != nil {
		e.log().WithFields(logger.Fields{"error": err.Error()}).Warning("persistence: flush failed")
	}
	return e.builder.Close()
}

func (e *Engine) log() logger.Manager {
	if e.logger == nil {
		return logger.New(discard{})
	}
	return e.logger
}

// discard provider is used if no logger is set.
type discard struct{}

func (discard) Log(logger.Entry) {}
