// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestWithDefaults tests that only zero values are replaced.
func TestWithDefaults(t *testing.T) {
	asserts := assert.New(t)

	cfg, err := withDefaults(Configuration{Server: serverConfiguration{HTTPPort: 9000}})
	asserts.NoError(err)
	asserts.Equal(9000, cfg.Server.HTTPPort)
	asserts.Equal([]string{"*"}, cfg.Server.AllowedOrigins)
	asserts.Equal("sqlite", cfg.Database.Provider)
	asserts.Equal("dynapi.db", cfg.Database.Database)
	asserts.Equal("5s", cfg.Persistence.FlushInterval)
	asserts.Equal("INFO", cfg.Log.Level)
}

// TestParseDuration tests go and ISO 8601 durations.
func TestParseDuration(t *testing.T) {
	asserts := assert.New(t)

	d, err := parseDuration("flush", "5s")
	asserts.NoError(err)
	asserts.Equal(5*time.Second, d)

	d, err = parseDuration("flush", "PT1M30S")
	asserts.NoError(err)
	asserts.Equal(90*time.Second, d)

	d, err = parseDuration("flush", "pt2h")
	asserts.NoError(err)
	asserts.Equal(2*time.Hour, d)

	for _, s := range []string{"", "often", "0s", "-1s", "P"} {
		_, err = parseDuration("flush", s)
		asserts.Error(err, s)
	}
}
