// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package logrus is the logrus provider for the logger package. Its a wrapper for https://github.com/sirupsen/logrus.
// The logrus instance can be configured by the exported Instance field.
package logrus

import (
	"io"

	"github.com/patrickascher/dynapi/logger"
	"github.com/sirupsen/logrus"
)

// Formats of the provider.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a new logrus provider.
// The level filter happens in the logger.Manager, therefore logrus logs everything it receives.
func New(out io.Writer, format string) *provider {
	log := logrus.New()
	log.SetLevel(logrus.TraceLevel)
	if out != nil {
		log.SetOutput(out)
	}
	if format == FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return &provider{Instance: log}
}

type provider struct {
	Instance *logrus.Logger
}

// Log satisfies the logger.Provider interface.
func (p *provider) Log(entry logger.Entry) {
	e := p.Instance.WithFields(entry.Fields.Map()).WithTime(entry.Timestamp)
	switch entry.Level {
	case logger.TRACE:
		e.Trace(entry.Message)
	case logger.DEBUG:
		e.Debug(entry.Message)
	case logger.INFO:
		e.Info(entry.Message)
	case logger.WARNING:
		e.Warning(entry.Message)
	case logger.ERROR:
		e.Error(entry.Message)
	case logger.PANIC:
		e.Panic(entry.Message)
	}
}
