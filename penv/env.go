// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package penv exposes a multi-agent particle world as a step-able
// environment for reinforcement-learning training loops: it decodes
// per-agent policy actions into forces and communication signals, advances
// the world, and serializes world state into fixed-layout observation and
// global-state vectors.
package penv

import (
	"fmt"
	"math/rand"

	"github.com/ccnlab/particles/space"
	"github.com/ccnlab/particles/world"
	"github.com/emer/emergent/env"
)

// Callbacks are the scenario-supplied functions that define a concrete task
// on top of the generic world.  All are optional: a nil Reset is a no-op, a
// nil Reward returns 0, a nil Observation returns an empty vector, a nil
// Done returns false, and a nil Info returns an empty map.
type Callbacks struct {
	Reset       func(wd *world.World)
	Reward      func(ag *world.Agent, wd *world.World) float32
	Observation func(ag *world.Agent, wd *world.World) []float32
	Done        func(ag *world.Agent, wd *world.World) bool
	Info        func(ag *world.Agent, wd *world.World) map[string]float64
}

// StepInfo carries the per-agent info maps returned from one step, in
// policy-agent order.
type StepInfo struct {
	N []map[string]float64 `desc:"per-agent info maps"`
}

// EnvInfo is the fixed environment descriptor consumed by training-loop
// setup -- computed once, not per step.
type EnvInfo struct {
	StateShape   int `desc:"length of the global state vector"`
	ObsShape     int `desc:"length of each agent observation vector"`
	NActions     int `desc:"total number of discrete actions per agent"`
	NAgents      int `desc:"number of policy agents"`
	EpisodeLimit int `desc:"steps per episode"`
}

// Env steps a particle world for an external multi-agent policy.
// One Env instance is owned by one caller: stepping is synchronous and
// single-threaded.
type Env struct {
	Nm    string       `desc:"name of this environment"`
	Dsc   string       `desc:"description of this environment"`
	World *world.World `desc:"the particle world being stepped"`
	Cb    Callbacks    `view:"-" desc:"scenario callbacks"`

	DiscreteActionSpace bool `desc:"movement and communication use discrete choice spaces rather than continuous boxes"`
	DiscreteActionInput bool `desc:"discrete actions arrive index-encoded rather than one-hot"`
	ForceDiscrete       bool `desc:"continuous action vectors are snapped to one-hot at their argmax before decoding -- from World.DiscreteAction"`
	SharedReward        bool `desc:"every agent receives the summed reward -- from World.Collaborative"`
	TimeLimit           int  `desc:"episode length -- episode terminates when the step clock reaches exactly this"`

	Agents    []*world.Agent `view:"-" desc:"policy agents, refreshed from the world each step"`
	ActSpaces []space.Space  `desc:"composite action space per policy agent"`

	TranslateObs   []int `desc:"optional translation map projecting observations into a larger shared layout"`
	TranslateState []int `desc:"optional translation map projecting the global state into a larger shared layout"`

	Time    env.Ctr `view:"inline" desc:"step clock within the current episode"`
	Episode env.Ctr `view:"inline" desc:"episode counter, incremented on non-evaluate resets"`

	ObsN [][]float32 `view:"-" desc:"callback observations recorded on the last step"`
	RewN []float32   `view:"-" desc:"per-agent rewards from the last step, after any shared-reward broadcast"`

	RenderSize int          `desc:"pixel size of the square rendered frame"`
	geoms      []renderGeom `view:"-"`
	frame      *frameCache  `view:"-"`
}

func (ev *Env) Name() string { return ev.Nm }
func (ev *Env) Desc() string { return ev.Dsc }

// Defaults sets default environment parameters.
func (ev *Env) Defaults() {
	ev.DiscreteActionSpace = true
	ev.DiscreteActionInput = true
	ev.TimeLimit = 25
	ev.RenderSize = 64
}

// Config binds the environment to a world and scenario callbacks and builds
// the per-agent composite action spaces.  The space contract fixed here is
// what the action decoder relies on every subsequent step.
func (ev *Env) Config(wd *world.World, cb Callbacks) {
	ev.World = wd
	ev.Cb = cb
	ev.ForceDiscrete = wd.DiscreteAction
	ev.SharedReward = wd.Collaborative
	ev.Agents = wd.PolicyAgents()
	ev.ActSpaces = make([]space.Space, len(ev.Agents))
	for i, ag := range ev.Agents {
		ev.ActSpaces[i] = space.Compose(wd.DimC, ag, ev.DiscreteActionSpace)
		if len(ag.Action.C) != wd.DimC {
			ag.Action.C = make([]float32, wd.DimC)
		}
	}
	ev.Time.Max = ev.TimeLimit
	ev.Time.Init()
	ev.Episode.Init()
	ev.ObsN = make([][]float32, len(ev.Agents))
	ev.RewN = make([]float32, len(ev.Agents))
}

// Reset starts a new episode: the scenario reset callback reinitializes the
// world, rendering caches are invalidated, the step clock returns to zero,
// and the initial per-agent observations are returned.  The evaluate flag
// suppresses the episode counter increment.
func (ev *Env) Reset(evaluate bool) [][]float32 {
	if ev.Cb.Reset != nil {
		ev.Cb.Reset(ev.World)
	}
	ev.resetRender()
	ev.Agents = ev.World.PolicyAgents()
	ev.Time.Cur = 0
	if !evaluate {
		ev.Episode.Cur++
	}
	return ev.GetObs()
}

// Step decodes one action buffer per policy agent, advances the world, and
// returns the summed scalar reward, a termination flag in {0, 1}, and the
// per-agent info maps.  Observations are assembled only after the world has
// advanced, so they are consistent with the actions just taken.
func (ev *Env) Step(acts [][]float32) (float32, float32, StepInfo) {
	ev.Agents = ev.World.PolicyAgents()
	if len(acts) != len(ev.Agents) {
		panic(fmt.Sprintf("penv: %d actions for %d policy agents", len(acts), len(ev.Agents)))
	}
	ctls := make([]world.Action, len(ev.Agents))
	for i, ag := range ev.Agents {
		ctls[i] = ev.DecodeAction(acts[i], ag, ev.ActSpaces[i])
	}
	for i, ag := range ev.Agents {
		ag.Action = ctls[i]
	}
	ev.World.Step()

	info := StepInfo{N: make([]map[string]float64, len(ev.Agents))}
	reward := float32(0)
	for i, ag := range ev.Agents {
		ev.ObsN[i] = ev.getObsCb(ag)
		ev.RewN[i] = ev.getReward(ag)
		info.N[i] = ev.getInfo(ag)
		reward += ev.RewN[i]
	}
	if ev.SharedReward {
		for i := range ev.RewN {
			ev.RewN[i] = reward
		}
	}
	ev.Time.Cur++
	done := float32(0)
	if ev.Time.Cur == ev.TimeLimit {
		done = 1
	}
	return reward, done, info
}

// DoneAgents returns the per-agent termination flags from the scenario.
func (ev *Env) DoneAgents() []bool {
	dn := make([]bool, len(ev.Agents))
	for i, ag := range ev.Agents {
		dn[i] = ev.getDone(ag)
	}
	return dn
}

func (ev *Env) getObsCb(ag *world.Agent) []float32 {
	if ev.Cb.Observation == nil {
		return nil
	}
	return ev.Cb.Observation(ag, ev.World)
}

func (ev *Env) getReward(ag *world.Agent) float32 {
	if ev.Cb.Reward == nil {
		return 0
	}
	return ev.Cb.Reward(ag, ev.World)
}

func (ev *Env) getDone(ag *world.Agent) bool {
	if ev.Cb.Done == nil {
		return false
	}
	return ev.Cb.Done(ag, ev.World)
}

func (ev *Env) getInfo(ag *world.Agent) map[string]float64 {
	if ev.Cb.Info == nil {
		return map[string]float64{}
	}
	return ev.Cb.Info(ag, ev.World)
}

// AvailActions returns the available discrete action indexes for every
// policy agent -- all movement choices are always available.
func (ev *Env) AvailActions() [][]int {
	av := make([][]int, len(ev.Agents))
	for i := range av {
		av[i] = ev.AvailAgentActions(i)
	}
	return av
}

// AvailAgentActions returns the available discrete action indexes for one
// policy agent.
func (ev *Env) AvailAgentActions(agIdx int) []int {
	na := 2*world.DimP + 1
	av := make([]int, na)
	for i := range av {
		av[i] = i
	}
	return av
}

// TotalActions returns the total number of discrete actions an agent could
// take.  Continuous action spaces have no such count: that configuration is
// an error, not a fallback.
func (ev *Env) TotalActions() (int, error) {
	if !ev.DiscreteActionSpace {
		return 0, fmt.Errorf("penv: total action count is undefined for continuous action spaces")
	}
	return 2*world.DimP + 1, nil
}

// Info returns the fixed environment descriptor for training-loop setup.
// A continuous action space has no discrete action total, so the descriptor
// cannot be built for one.
func (ev *Env) Info() (EnvInfo, error) {
	na, err := ev.TotalActions()
	if err != nil {
		return EnvInfo{}, err
	}
	return EnvInfo{
		StateShape:   ev.GetStateSize(),
		ObsShape:     ev.GetObsSize(),
		NActions:     na,
		NAgents:      len(ev.Agents),
		EpisodeLimit: ev.TimeLimit,
	}, nil
}

// Seed seeds the shared random source used by scenario resets and action
// noise.
func (ev *Env) Seed(seed int64) {
	rand.Seed(seed)
}

// Close releases environment resources.  Nothing is held open.
func (ev *Env) Close() {}

// SaveReplay is a no-op -- replays are recorded by the caller if needed.
func (ev *Env) SaveReplay() {}
