// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command dynapi serves the catalog and data surface.
//
// The configuration is loaded from config.yaml in the working directory or the directory given by the first
// argument. Every key can be overwritten by an environment variable with the DYNAPI_ prefix.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/patrickascher/dynapi/config"
	"github.com/patrickascher/dynapi/config/viper"
	"github.com/patrickascher/dynapi/server"
	"golang.org/x/sync/errgroup"
)

// appConfig of the command.
type appConfig struct {
	server.Configuration
}

func main() {
	path := flag.String("config", ".", "directory of the config.yaml")
	file := flag.String("file", "config.yaml", "name of the config file")
	flag.Parse()

	cfg := appConfig{}
	err := config.Load(config.VIPER, &cfg, viper.Options{
		FileName:     *file,
		FileType:     "yaml",
		FilePath:     *path,
		EnvPrefix:    "dynapi",
		EnvAutomatic: true,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err = run(cfg); err != nil {
		log.Fatal(err)
	}
}

// run starts the server and stops it on SIGINT or SIGTERM.
func run(cfg appConfig) error {
	if err := server.New(cfg, nil); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		err := server.Stop(context.Background())
		if errors.Is(err, server.ErrInit) {
			return nil
		}
		return err
	})
	return g.Wait()
}
