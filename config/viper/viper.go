// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package viper provides a wrapper for the https://github.com/spf13/viper package.
// It offers a different callback function, to get access to the viper instance.
// By default, the watcher will automatically unmarshal the data of the defined configuration struct.
package viper

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/patrickascher/dynapi/config"
	"github.com/patrickascher/dynapi/registry"
	"github.com/spf13/viper"
)

// init registers the viper provider.
func init() {
	err := registry.Set(config.VIPER, new(viperProvider))
	if err != nil {
		log.Fatal(err)
	}
}

// Error messages
var (
	ErrOptions   = errors.New("viper-provider: options must be of type viper.Options")
	ErrMandatory = errors.New("viper-provider: viper.Options file-name, path and type are mandatory")
)

// Options for the viper provider.
type Options struct {
	// FileName of the configuration.
	FileName string
	// FileType optional if the filename has no extension.
	FileType string
	// FilePath to look into.
	FilePath string
	// Watch for file changes.
	Watch bool
	// WatchCallback can be defined.
	// By default, the config struct gets updated on changes.
	WatchCallback func(cfg interface{}, viper *viper.Viper, e fsnotify.Event)
	// EnvPrefix
	EnvPrefix string
	// EnvAutomatic check if environment variables match any of the existing keys.
	EnvAutomatic bool
	// EnvBind binds a Viper key to a ENV variable.
	EnvBind []string
}

// instances of vipers.
// Mapping key is the absolute filepath, because this is the only argument of the viper watch-callback function.
var (
	mutex     sync.RWMutex
	instances = map[string]*vInstance{}
)

// vInstance with the configuration and options.
type vInstance struct {
	viper   *viper.Viper
	cfg     interface{}
	options Options
}

// viperProvider satisfies the config.Interface.
type viperProvider struct{}

// Parse will configure viper and unmarshal the config into the config struct.
// If Options.Watch is activated, the configuration will automatically be updated on file changes.
// An additional callback can be added.
// Filename, path and type are mandatory.
func (vp *viperProvider) Parse(cfg interface{}, opt interface{}) error {
	options, ok := opt.(Options)
	if !ok {
		return ErrOptions
	}
	if options.FileName == "" || options.FilePath == "" || options.FileType == "" {
		return ErrMandatory
	}

	i, err := instance(cfg, options)
	if err != nil {
		return fmt.Errorf("viper-provider: %w", err)
	}

	i.viper.SetConfigName(options.FileName)
	i.viper.AddConfigPath(options.FilePath)
	i.viper.SetConfigType(options.FileType)

	i.viper.OnConfigChange(func(e fsnotify.Event) {
		mutex.RLock()
		changed, ok := instances[e.Name]
		mutex.RUnlock()
		if !ok {
			return
		}
		_ = changed.viper.Unmarshal(changed.cfg)
		if changed.options.WatchCallback != nil {
			changed.options.WatchCallback(changed.cfg, changed.viper, e)
		}
	})

	if options.EnvPrefix != "" {
		i.viper.SetEnvPrefix(options.EnvPrefix)
	}
	if len(options.EnvBind) != 0 {
		// no error can happen because the length is checked.
		_ = i.viper.BindEnv(options.EnvBind...)
	}
	if options.EnvAutomatic {
		i.viper.AutomaticEnv()
	}

	if err = i.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("viper-provider: %w", err)
	}

	// watcher goroutine is spawned after the first read.
	if options.Watch {
		i.viper.WatchConfig()
	}

	return i.viper.Unmarshal(cfg)
}

// instance will check if there is already a viper instance for the given filepath.
// If so, the instance cfg and options will be updated. Otherwise a new instance will be created.
func instance(cfg interface{}, opt Options) (*vInstance, error) {
	name, err := filepath.Abs(filepath.Join(opt.FilePath, opt.FileName))
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(name); err != nil {
		return nil, err
	}

	mutex.Lock()
	defer mutex.Unlock()
	i, ok := instances[name]
	if !ok {
		i = &vInstance{viper: viper.New()}
		instances[name] = i
	}
	i.cfg = cfg
	i.options = opt
	return i, nil
}
