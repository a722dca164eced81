// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

import (
	"github.com/patrickascher/dynapi/logger"
)

// step of a saga. undo can be nil if the step has no compensation.
type step struct {
	name string
	do   func() error
	undo func() error
}

// saga runs ordered steps. If a step fails, all completed steps are undone in reverse order.
// The saga runs inside a write session, which is rolled back by the caller afterwards.
type saga struct {
	name   string
	logger logger.Manager
	steps  []step
}

func newSaga(name string, l logger.Manager) *saga {
	return &saga{name: name, logger: l}
}

// Step adds a step.
func (s *saga) Step(name string, do func() error, undo func() error) *saga {
	s.steps = append(s.steps, step{name: name, do: do, undo: undo})
	return s
}

// Run the steps.
// The error of the failed step is returned. Errors of the compensation are only logged.
func (s *saga) Run() error {
	for i, st := range s.steps {
		s.log(st.name).Debug("catalog: saga step")
		err := st.do()
		if err == nil {
			continue
		}

		s.log(st.name).WithFields(logger.Fields{"error": err.Error()}).Warning("catalog: saga step failed, compensating")
		for j := i - 1; j >= 0; j-- {
			if s.steps[j].undo == nil {
				continue
			}
			if uErr := s.steps[j].undo(); uErr != nil {
				s.log(s.steps[j].name).WithFields(logger.Fields{"error": uErr.Error()}).Error("catalog: compensation failed")
				continue
			}
			s.log(s.steps[j].name).Debug("catalog: saga step compensated")
		}
		return err
	}
	return nil
}

func (s *saga) log(step string) logger.Manager {
	return s.logger.WithFields(logger.Fields{"saga": s.name, "step": step})
}
