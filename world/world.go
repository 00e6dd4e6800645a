// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package world implements a continuous 2D particle world of agents and
// landmarks, with simple force-based physics: agents push themselves around
// with action forces, collide softly with other entities, and broadcast a
// communication utterance that other agents can observe.
package world

import (
	"math/rand"

	"github.com/goki/mat32"
)

// DimP is the dimensionality of physical space -- positions, velocities and
// forces are all mat32.Vec2 so this is fixed at 2.
const DimP = 2

// EntityState is the physical state of one entity.
type EntityState struct {
	PPos mat32.Vec2 `desc:"position in world coordinates"`
	PVel mat32.Vec2 `desc:"velocity"`
}

// Action is the per-step control input for one agent, written by the
// environment's action decoder and consumed by World.Step.
type Action struct {
	U mat32.Vec2 `desc:"physical force applied to the agent"`
	C []float32  `desc:"communication signal, length = World.DimC"`
}

// Entity is the common state for agents and landmarks.
type Entity struct {
	Nm       string      `desc:"name of this entity"`
	Size     float32     `desc:"radius for collision and rendering"`
	Movable  bool        `desc:"can this entity be pushed around"`
	Collide  bool        `desc:"does this entity collide with others"`
	Color    mat32.Vec3  `desc:"display color, RGB in 0..1"`
	MaxSpeed float32     `desc:"speed limit -- 0 = unlimited"`
	Mass     float32     `desc:"mass for force integration"`
	State    EntityState `view:"inline" desc:"current physical state"`
}

// Landmark is a non-agent entity -- typically a fixed target or obstacle.
type Landmark struct {
	Entity
}

// Agent is an entity driven by an action, either from an external policy or
// from a scripted ActionFn.
type Agent struct {
	Entity
	Silent bool      `desc:"agent cannot communicate -- comm state forced to zero"`
	Blind  bool      `desc:"agent cannot observe the world"`
	URange float32   `desc:"bound on continuous movement actions"`
	Accel  float32   `desc:"acceleration sensitivity multiplier on action forces -- 0 = use DefaultAccel"`
	UNoise float32   `desc:"std dev of gaussian noise added to action forces -- 0 = none"`
	CNoise float32   `desc:"std dev of gaussian noise added to communication -- 0 = none"`
	C      []float32 `desc:"current communication utterance state, length = World.DimC"`
	Action Action    `view:"inline" desc:"control input for the current step"`

	// ActionFn is a scripted policy -- agents with a nil ActionFn are policy
	// agents whose actions come from the environment caller.
	ActionFn func(ag *Agent, wd *World) Action `view:"-"`
}

// DefaultAccel is the acceleration sensitivity used for agents that do not
// set their own Accel.
const DefaultAccel = 5.0

// World holds all entities and steps the force-based physics.
type World struct {
	Agents         []*Agent    `desc:"all agents, in fixed enumeration order"`
	Landmarks      []*Landmark `desc:"all landmarks, in fixed enumeration order"`
	DimC           int         `desc:"dimensionality of the communication channel"`
	DT             float32     `desc:"integration timestep"`
	Damping        float32     `desc:"velocity damping applied each step"`
	ContactForce   float32     `desc:"scale of soft collision response force"`
	ContactMargin  float32     `desc:"softness margin of collision response"`
	Collaborative  bool        `desc:"all agents share the summed reward"`
	DiscreteAction bool        `desc:"continuous actions are snapped to one-hot at their argmax before decoding"`
}

// Defaults sets default physics parameters.
func (wd *World) Defaults() {
	wd.DT = 0.1
	wd.Damping = 0.25
	wd.ContactForce = 100
	wd.ContactMargin = 0.001
}

// NewAgent returns an agent with default parameters, sized for this world's
// communication channel.
func (wd *World) NewAgent(name string) *Agent {
	ag := &Agent{}
	ag.Nm = name
	ag.Size = 0.05
	ag.Movable = true
	ag.Collide = true
	ag.Mass = 1
	ag.URange = 1
	ag.C = make([]float32, wd.DimC)
	ag.Action.C = make([]float32, wd.DimC)
	return ag
}

// NewLandmark returns a landmark with default parameters.
func (wd *World) NewLandmark(name string) *Landmark {
	lm := &Landmark{}
	lm.Nm = name
	lm.Size = 0.05
	lm.Mass = 1
	return lm
}

// Entities returns all entities, agents first then landmarks, in fixed order.
func (wd *World) Entities() []*Entity {
	ets := make([]*Entity, 0, len(wd.Agents)+len(wd.Landmarks))
	for _, ag := range wd.Agents {
		ets = append(ets, &ag.Entity)
	}
	for _, lm := range wd.Landmarks {
		ets = append(ets, &lm.Entity)
	}
	return ets
}

// PolicyAgents returns the agents whose actions are supplied externally
// (nil ActionFn), in fixed enumeration order.
func (wd *World) PolicyAgents() []*Agent {
	ags := make([]*Agent, 0, len(wd.Agents))
	for _, ag := range wd.Agents {
		if ag.ActionFn == nil {
			ags = append(ags, ag)
		}
	}
	return ags
}

// ScriptedAgents returns the agents driven by an ActionFn.
func (wd *World) ScriptedAgents() []*Agent {
	ags := make([]*Agent, 0, len(wd.Agents))
	for _, ag := range wd.Agents {
		if ag.ActionFn != nil {
			ags = append(ags, ag)
		}
	}
	return ags
}

// Step advances the world by one timestep: scripted agents choose actions,
// action and collision forces are gathered for all entities, physical state
// is integrated, and agent communication state is updated.
func (wd *World) Step() {
	for _, ag := range wd.ScriptedAgents() {
		ag.Action = ag.ActionFn(ag, wd)
	}
	ets := wd.Entities()
	pf := make([]mat32.Vec2, len(ets))
	wd.applyActionForce(pf)
	wd.applyEnvironmentForce(ets, pf)
	wd.integrateState(ets, pf)
	for _, ag := range wd.Agents {
		wd.updateAgentState(ag)
	}
}

// applyActionForce writes each movable agent's action force, with optional
// exploration noise.  Agents come first in the entity ordering.
func (wd *World) applyActionForce(pf []mat32.Vec2) {
	for i, ag := range wd.Agents {
		if !ag.Movable {
			continue
		}
		f := ag.Action.U
		if ag.UNoise > 0 {
			f.X += float32(rand.NormFloat64()) * ag.UNoise
			f.Y += float32(rand.NormFloat64()) * ag.UNoise
		}
		pf[i] = pf[i].Add(f)
	}
}

// applyEnvironmentForce adds soft collision forces between all pairs of
// colliding entities.
func (wd *World) applyEnvironmentForce(ets []*Entity, pf []mat32.Vec2) {
	for a, ea := range ets {
		for b := a + 1; b < len(ets); b++ {
			eb := ets[b]
			fa, fb := wd.collisionForce(ea, eb)
			pf[a] = pf[a].Add(fa)
			pf[b] = pf[b].Add(fb)
		}
	}
}

// collisionForce returns the equal-and-opposite penetration response forces
// between two entities, zero if either does not collide.
func (wd *World) collisionForce(ea, eb *Entity) (fa, fb mat32.Vec2) {
	if !ea.Collide || !eb.Collide || ea == eb {
		return
	}
	delta := ea.State.PPos.Sub(eb.State.PPos)
	dist := delta.Length()
	distMin := ea.Size + eb.Size
	// softened penetration depth -- smooth log-sum-exp of (distMin - dist)
	k := wd.ContactMargin
	pen := mat32.Log(1+mat32.Exp(-(dist-distMin)/k)) * k
	if dist > 0 {
		delta = delta.DivScalar(dist)
	}
	f := delta.MulScalar(wd.ContactForce * pen)
	if ea.Movable {
		fa = f
	}
	if eb.Movable {
		fb = f.Negate()
	}
	return
}

// integrateState advances positions and velocities with damping and
// per-entity speed limits.
func (wd *World) integrateState(ets []*Entity, pf []mat32.Vec2) {
	for i, et := range ets {
		if !et.Movable {
			continue
		}
		et.State.PVel = et.State.PVel.MulScalar(1 - wd.Damping)
		mass := et.Mass
		if mass == 0 {
			mass = 1
		}
		et.State.PVel = et.State.PVel.Add(pf[i].MulScalar(wd.DT / mass))
		if et.MaxSpeed > 0 {
			spd := et.State.PVel.Length()
			if spd > et.MaxSpeed {
				et.State.PVel = et.State.PVel.MulScalar(et.MaxSpeed / spd)
			}
		}
		et.State.PPos = et.State.PPos.Add(et.State.PVel.MulScalar(wd.DT))
	}
}

// updateAgentState updates the communication state from the current action,
// forcing it to zero for silent agents.
func (wd *World) updateAgentState(ag *Agent) {
	if len(ag.C) != wd.DimC {
		ag.C = make([]float32, wd.DimC)
	}
	if ag.Silent {
		for i := range ag.C {
			ag.C[i] = 0
		}
		return
	}
	for i := range ag.C {
		ag.C[i] = 0
		if i < len(ag.Action.C) {
			ag.C[i] = ag.Action.C[i]
		}
		if ag.CNoise > 0 {
			ag.C[i] += float32(rand.NormFloat64()) * ag.CNoise
		}
	}
}
