// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
)

// Error messages.
var (
	ErrOptions = "scheduler: options must be of type scheduler.Options, %T given"
)

// init registers the "gocron" provider.
// Please check out the github repo: (github.com/go-co-op/gocron).
func init() {
	err := Register(GoCron, newGoCron)
	if err != nil {
		panic(err)
	}
}

// Options of the gocron provider.
type Options struct {
	// Location of the scheduler, default UTC.
	Location *time.Location
}

// newGoCron creates a new Provider.
func newGoCron(opt interface{}) (Provider, error) {
	options := Options{}
	if opt != nil {
		o, ok := opt.(Options)
		if !ok {
			return nil, fmt.Errorf(ErrOptions, opt)
		}
		options = o
	}
	if options.Location == nil {
		options.Location = time.UTC
	}
	return &cron{scheduler: gocron.NewScheduler(options.Location), names: map[*gocron.Job]string{}}, nil
}

// cron wraps the gocron scheduler.
type cron struct {
	scheduler   *gocron.Scheduler
	currentName string
	names       map[*gocron.Job]string
}

type job struct {
	job  *gocron.Job
	name string
}

// Start satisfy the Provider interface.
func (c *cron) Start() {
	c.scheduler.StartAsync()
}

// Stop satisfy the Provider interface.
func (c *cron) Stop() {
	c.scheduler.Stop()
}

// Status satisfy the Provider interface.
func (c *cron) Status() string {
	if c.scheduler.IsRunning() {
		return StatusRunning
	}
	return StatusNotRunning
}

// Jobs satisfy the Provider interface.
func (c *cron) Jobs() []ProviderJobDetail {
	scheduled := c.scheduler.Jobs()
	jobs := make([]ProviderJobDetail, len(scheduled))
	for i, j := range scheduled {
		jobs[i] = &job{job: j, name: c.names[j]}
	}
	return jobs
}

// Every satisfy the Provider interface.
func (c *cron) Every(interval interface{}) ProviderJob {
	c.scheduler.Every(interval)
	c.currentName = ""
	return c
}

// Second satisfy the ProviderJob interface.
func (c *cron) Second() ProviderJob {
	c.scheduler.Second()
	return c
}

// Minute satisfy the ProviderJob interface.
func (c *cron) Minute() ProviderJob {
	c.scheduler.Minute()
	return c
}

// Name satisfy the ProviderJob interface.
func (c *cron) Name(name string) ProviderJob {
	c.currentName = name
	return c
}

// Tag satisfy the ProviderJob interface.
func (c *cron) Tag(t ...string) ProviderJob {
	c.scheduler.Tag(t...)
	return c
}

// Singleton satisfy the ProviderJob interface.
func (c *cron) Singleton() ProviderJob {
	c.scheduler.SingletonMode()
	return c
}

// Do satisfy the ProviderJob interface.
func (c *cron) Do(jobFun interface{}, params ...interface{}) error {
	j, err := c.scheduler.Do(jobFun, params...)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	c.names[j] = c.currentName
	return nil
}

// Name satisfy the ProviderJobDetail interface.
func (j *job) Name() string {
	return j.name
}

// Counter satisfy the ProviderJobDetail interface.
func (j *job) Counter() int {
	return j.job.RunCount()
}

// Tags satisfy the ProviderJobDetail interface.
func (j *job) Tags() []string {
	return j.job.Tags()
}

// LastRun satisfy the ProviderJobDetail interface.
func (j *job) LastRun() time.Time {
	return j.job.LastRun()
}

// NextRun satisfy the ProviderJobDetail interface.
func (j *job) NextRun() time.Time {
	return j.job.NextRun()
}
