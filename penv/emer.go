// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penv

import (
	"github.com/emer/emergent/env"
	"github.com/emer/etable/etensor"
)

// States describes the canonical observation segments plus the global state
// as emergent env elements, for hooking the environment up to emer models.
func (ev *Env) States() env.Elements {
	ly := ev.ObsLayout()
	els := env.Elements{}
	for i, nm := range ly.Names {
		els = append(els, env.Element{Name: nm, Shape: []int{ly.Widths[i]}})
	}
	els = append(els, env.Element{Name: "Global", Shape: []int{ev.GetStateSize()}})
	return els
}

// State returns the named canonical tensor: "Global" for the world state,
// or an observation segment name for the first policy agent's segment.
func (ev *Env) State(element string) etensor.Tensor {
	if element == "Global" {
		return vecTensor(ev.GetState())
	}
	ly := ev.ObsLayout()
	bd := ly.Boundaries()
	obs := ev.obsAgentRaw(0)
	for i, nm := range ly.Names {
		if nm == element {
			return vecTensor(obs[bd[i]:bd[i+1]])
		}
	}
	return nil
}

// Counter reports the episode step clock.
func (ev *Env) Counter(scale env.TimeScales) (cur, prv int, chg bool) {
	switch scale {
	case env.Event:
		return ev.Time.Query()
	case env.Epoch:
		return ev.Episode.Query()
	}
	return -1, -1, false
}

func vecTensor(vals []float32) *etensor.Float32 {
	tsr := &etensor.Float32{}
	tsr.SetShape([]int{len(vals)}, nil, nil)
	copy(tsr.Values, vals)
	return tsr
}
