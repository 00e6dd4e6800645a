// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penv

import "github.com/ccnlab/particles/world"

// ObsLayout returns the canonical per-agent observation layout: own
// position and velocity, then the relative position of every other agent
// (self minus other), then the relative position of every landmark
// (landmark minus self), all in fixed enumeration order.
func (ev *Env) ObsLayout() Layout {
	ly := Layout{}
	ly.Add("SelfPoseVel", 2*world.DimP)
	ly.Add("OtherAgents", world.DimP*(len(ev.World.Agents)-1))
	ly.Add("Landmarks", world.DimP*len(ev.World.Landmarks))
	return ly
}

// StateLayout returns the global state layout: position and velocity of
// every agent, then the position of every landmark.  The landmark segment
// width is landmark-count-driven, which only coincides with the agent count
// when the two happen to be equal.
func (ev *Env) StateLayout() Layout {
	ly := Layout{}
	ly.Add("Agents", 2*world.DimP*len(ev.World.Agents))
	ly.Add("Landmarks", world.DimP*len(ev.World.Landmarks))
	return ly
}

// GetObsAgent returns the canonical flat observation vector for the agent
// at the given index in world enumeration order.  When a translation map is
// configured the vector is projected into the shared destination layout,
// zero-padded.
func (ev *Env) GetObsAgent(agIdx int) []float32 {
	obs := ev.obsAgentRaw(agIdx)
	if ev.TranslateObs != nil {
		return Translate(obs, ev.ObsLayout().Boundaries(), ev.TranslateObs)
	}
	return obs
}

// obsAgentRaw assembles the untranslated canonical observation.
func (ev *Env) obsAgentRaw(agIdx int) []float32 {
	ag := ev.World.Agents[agIdx]
	ly := ev.ObsLayout()
	obs := make([]float32, 0, ly.TotalWidth())
	obs = append(obs, ag.State.PPos.X, ag.State.PPos.Y, ag.State.PVel.X, ag.State.PVel.Y)
	for i, oth := range ev.World.Agents {
		if i == agIdx {
			continue
		}
		rel := ag.State.PPos.Sub(oth.State.PPos)
		obs = append(obs, rel.X, rel.Y)
	}
	for _, lm := range ev.World.Landmarks {
		rel := lm.State.PPos.Sub(ag.State.PPos)
		obs = append(obs, rel.X, rel.Y)
	}
	return obs
}

// GetObsStructure returns the cumulative segment boundaries of the
// canonical observation -- the structure descriptor used to line layouts up
// across heterogeneous environments.
func (ev *Env) GetObsStructure() []int {
	ly := ev.ObsLayout()
	return ly.Boundaries()
}

// GetObs returns the canonical observation of every agent.
func (ev *Env) GetObs() [][]float32 {
	obs := make([][]float32, len(ev.World.Agents))
	for i := range obs {
		obs[i] = ev.GetObsAgent(i)
	}
	return obs
}

// GetObsSize returns the observation vector length by encoding one vector
// and reading its length, so it stays consistent with the assembly logic by
// construction.
func (ev *Env) GetObsSize() int {
	return len(ev.GetObsAgent(0))
}

// GetState returns the global state vector, translated into the shared
// layout when a state translation map is configured.
func (ev *Env) GetState() []float32 {
	ly := ev.StateLayout()
	st := make([]float32, 0, ly.TotalWidth())
	for _, ag := range ev.World.Agents {
		st = append(st, ag.State.PPos.X, ag.State.PPos.Y, ag.State.PVel.X, ag.State.PVel.Y)
	}
	for _, lm := range ev.World.Landmarks {
		st = append(st, lm.State.PPos.X, lm.State.PPos.Y)
	}
	if ev.TranslateState != nil {
		return Translate(st, ly.Boundaries(), ev.TranslateState)
	}
	return st
}

// GetStateStructure returns the cumulative segment boundaries of the global
// state vector.
func (ev *Env) GetStateStructure() []int {
	ly := ev.StateLayout()
	return ly.Boundaries()
}

// GetStateSize returns the global state vector length by encoding one.
func (ev *Env) GetStateSize() int {
	return len(ev.GetState())
}
