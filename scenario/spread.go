// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scenario provides concrete tasks on top of the particle world,
// expressed as the callback set the environment consumes.
package scenario

import (
	"math/rand"

	"github.com/ccnlab/particles/penv"
	"github.com/ccnlab/particles/world"
	"github.com/goki/mat32"
)

// Spread is a cooperative coverage task: N agents must spread out to cover
// N landmarks while avoiding collisions with each other.  Agents are mute
// and share the summed reward.
type Spread struct {
	NAgents    int     `desc:"number of agents"`
	NLandmarks int     `desc:"number of landmarks"`
	PlaceRange float32 `desc:"half-width of the uniform placement area on reset"`
	CollidePen float32 `desc:"reward penalty per colliding agent pair"`
}

// Defaults sets the standard 3-agent, 3-landmark configuration.
func (sc *Spread) Defaults() {
	sc.NAgents = 3
	sc.NLandmarks = 3
	sc.PlaceRange = 1
	sc.CollidePen = 1
}

// MakeWorld builds the world for this task.
func (sc *Spread) MakeWorld() *world.World {
	wd := &world.World{}
	wd.Defaults()
	wd.DimC = 2
	wd.Collaborative = true
	for i := 0; i < sc.NAgents; i++ {
		ag := wd.NewAgent("agent " + string(rune('0'+i)))
		ag.Silent = true
		ag.Size = 0.15
		ag.Color = mat32.Vec3{X: 0.35, Y: 0.35, Z: 0.85}
		wd.Agents = append(wd.Agents, ag)
	}
	for i := 0; i < sc.NLandmarks; i++ {
		lm := wd.NewLandmark("landmark " + string(rune('0'+i)))
		lm.Collide = false
		lm.Movable = false
		lm.Size = 0.05
		lm.Color = mat32.Vec3{X: 0.25, Y: 0.25, Z: 0.25}
		wd.Landmarks = append(wd.Landmarks, lm)
	}
	return wd
}

// Callbacks returns the callback set for this task.
func (sc *Spread) Callbacks() penv.Callbacks {
	return penv.Callbacks{
		Reset:       sc.Reset,
		Reward:      sc.Reward,
		Observation: sc.Observation,
		Info:        sc.Info,
	}
}

// Reset places all entities uniformly at random in the placement area and
// zeroes velocities and communication state.
func (sc *Spread) Reset(wd *world.World) {
	for _, ag := range wd.Agents {
		ag.State.PPos = sc.randPos()
		ag.State.PVel = mat32.Vec2{}
		for i := range ag.C {
			ag.C[i] = 0
		}
	}
	for _, lm := range wd.Landmarks {
		lm.State.PPos = sc.randPos()
		lm.State.PVel = mat32.Vec2{}
	}
}

func (sc *Spread) randPos() mat32.Vec2 {
	return mat32.Vec2{
		X: sc.PlaceRange * (2*rand.Float32() - 1),
		Y: sc.PlaceRange * (2*rand.Float32() - 1),
	}
}

// Reward is the negative sum over landmarks of the distance to the nearest
// agent, minus a penalty for each pair of colliding agents.  It is the same
// for every agent; the environment broadcasts the shared sum.
func (sc *Spread) Reward(ag *world.Agent, wd *world.World) float32 {
	rew := float32(0)
	for _, lm := range wd.Landmarks {
		mind := float32(-1)
		for _, a := range wd.Agents {
			d := a.State.PPos.DistTo(lm.State.PPos)
			if mind < 0 || d < mind {
				mind = d
			}
		}
		rew -= mind
	}
	if ag.Collide {
		for _, oth := range wd.Agents {
			if oth == ag {
				continue
			}
			if IsCollision(ag, oth) {
				rew -= sc.CollidePen
			}
		}
	}
	return rew
}

// Observation is own velocity and position, then relative landmark
// positions, then relative positions and communication of the other agents.
func (sc *Spread) Observation(ag *world.Agent, wd *world.World) []float32 {
	obs := []float32{ag.State.PVel.X, ag.State.PVel.Y, ag.State.PPos.X, ag.State.PPos.Y}
	for _, lm := range wd.Landmarks {
		rel := lm.State.PPos.Sub(ag.State.PPos)
		obs = append(obs, rel.X, rel.Y)
	}
	for _, oth := range wd.Agents {
		if oth == ag {
			continue
		}
		rel := oth.State.PPos.Sub(ag.State.PPos)
		obs = append(obs, rel.X, rel.Y)
	}
	for _, oth := range wd.Agents {
		if oth == ag {
			continue
		}
		obs = append(obs, oth.C...)
	}
	return obs
}

// Info reports the distance from this agent to its nearest landmark.
func (sc *Spread) Info(ag *world.Agent, wd *world.World) map[string]float64 {
	mind := float32(-1)
	for _, lm := range wd.Landmarks {
		d := ag.State.PPos.DistTo(lm.State.PPos)
		if mind < 0 || d < mind {
			mind = d
		}
	}
	return map[string]float64{"min_landmark_dist": float64(mind)}
}

// IsCollision reports whether two agents overlap.
func IsCollision(a, b *world.Agent) bool {
	return a.State.PPos.DistTo(b.State.PPos) < a.Size+b.Size
}
