// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/imdario/mergo"
	"github.com/patrickascher/dynapi/query"
	"github.com/peterhellberg/duration"
)

// Error messages.
var (
	ErrDuration = "server: %s %q is not a valid duration"
)

// Configuration for the Webserver.
// This configuration can be simple embedded in your application config.
// Durations are go durations (5s) or ISO 8601 durations (PT5S).
type Configuration struct {
	Server      serverConfiguration
	Database    query.Config
	Persistence persistenceConfiguration
	Cache       cacheConfiguration
	Log         logConfiguration
}

type serverConfiguration struct {
	HTTPPort        int
	AllowedOrigins  []string
	ShutdownTimeout string
}

type persistenceConfiguration struct {
	FlushInterval string
}

type cacheConfiguration struct {
	GCInterval string
}

type logConfiguration struct {
	Level  string
	Format string
	Caller bool
}

// defaults of the configuration.
func defaults() Configuration {
	return Configuration{
		Server:      serverConfiguration{HTTPPort: 8080, AllowedOrigins: []string{"*"}, ShutdownTimeout: "10s"},
		Database:    query.Config{Provider: "sqlite", Database: "dynapi.db"},
		Persistence: persistenceConfiguration{FlushInterval: "5s"},
		Cache:       cacheConfiguration{GCInterval: "5m"},
		Log:         logConfiguration{Level: "INFO", Format: "text"},
	}
}

// withDefaults fills all zero values of the configuration.
func withDefaults(cfg Configuration) (Configuration, error) {
	if err := mergo.Merge(&cfg, defaults()); err != nil {
		return Configuration{}, fmt.Errorf("server: %w", err)
	}
	return cfg, nil
}

// parseDuration accepts go and ISO 8601 durations.
func parseDuration(name string, s string) (time.Duration, error) {
	var d time.Duration
	var err error
	if strings.HasPrefix(strings.ToUpper(s), "P") {
		d, err = duration.Parse(strings.ToUpper(s))
	} else {
		d, err = time.ParseDuration(s)
	}
	if err != nil || d <= 0 {
		return 0, fmt.Errorf(ErrDuration, name, s)
	}
	return d, nil
}
