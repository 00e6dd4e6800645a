// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenario

import (
	"math/rand"

	"github.com/ccnlab/particles/penv"
	"github.com/ccnlab/particles/world"
	"github.com/goki/mat32"
)

// Reference is a cooperative communication task: each agent must reach a
// goal landmark that only its partner knows, so agents have to name goals
// over the communication channel while moving.
type Reference struct {
	NLandmarks int     `desc:"number of candidate goal landmarks"`
	PlaceRange float32 `desc:"half-width of the uniform placement area on reset"`
	Goals      []int   `desc:"per-agent goal landmark index, known to the partner"`
}

// Defaults sets the standard 2-agent, 3-landmark configuration.
func (sc *Reference) Defaults() {
	sc.NLandmarks = 3
	sc.PlaceRange = 1
}

// MakeWorld builds a 2-agent world with a communication channel wide enough
// to name any landmark.
func (sc *Reference) MakeWorld() *world.World {
	wd := &world.World{}
	wd.Defaults()
	wd.DimC = sc.NLandmarks
	wd.Collaborative = true
	for i := 0; i < 2; i++ {
		ag := wd.NewAgent("agent " + string(rune('0'+i)))
		ag.Size = 0.1
		ag.Collide = false
		ag.Color = mat32.Vec3{X: 0.35, Y: 0.85, Z: 0.35}
		wd.Agents = append(wd.Agents, ag)
	}
	for i := 0; i < sc.NLandmarks; i++ {
		lm := wd.NewLandmark("landmark " + string(rune('0'+i)))
		lm.Collide = false
		lm.Movable = false
		lm.Size = 0.04
		lm.Color = mat32.Vec3{X: 0.25 + 0.5*float32(i)/float32(sc.NLandmarks), Y: 0.25, Z: 0.25}
		wd.Landmarks = append(wd.Landmarks, lm)
	}
	sc.Goals = make([]int, 2)
	return wd
}

// Callbacks returns the callback set for this task.
func (sc *Reference) Callbacks() penv.Callbacks {
	return penv.Callbacks{
		Reset:       sc.Reset,
		Reward:      sc.Reward,
		Observation: sc.Observation,
	}
}

// Reset rerandomizes entity placement and assigns each agent a new goal
// landmark.
func (sc *Reference) Reset(wd *world.World) {
	for i := range sc.Goals {
		sc.Goals[i] = rand.Intn(len(wd.Landmarks))
	}
	for _, ag := range wd.Agents {
		ag.State.PPos = randPos(sc.PlaceRange)
		ag.State.PVel = mat32.Vec2{}
		for i := range ag.C {
			ag.C[i] = 0
		}
	}
	for _, lm := range wd.Landmarks {
		lm.State.PPos = randPos(sc.PlaceRange)
	}
}

func randPos(rng float32) mat32.Vec2 {
	return mat32.Vec2{
		X: rng * (2*rand.Float32() - 1),
		Y: rng * (2*rand.Float32() - 1),
	}
}

// Reward is the shared negative sum of each agent's distance to its own
// goal landmark.
func (sc *Reference) Reward(ag *world.Agent, wd *world.World) float32 {
	rew := float32(0)
	for i, a := range wd.Agents {
		gl := wd.Landmarks[sc.Goals[i]]
		rew -= a.State.PPos.DistTo(gl.State.PPos)
	}
	return rew
}

// Observation is own velocity, relative landmark positions, a one-hot of
// the partner's goal (the thing to communicate), and the partner's current
// utterance.
func (sc *Reference) Observation(ag *world.Agent, wd *world.World) []float32 {
	obs := []float32{ag.State.PVel.X, ag.State.PVel.Y}
	for _, lm := range wd.Landmarks {
		rel := lm.State.PPos.Sub(ag.State.PPos)
		obs = append(obs, rel.X, rel.Y)
	}
	goal := make([]float32, len(wd.Landmarks))
	for i, oth := range wd.Agents {
		if oth == ag {
			continue
		}
		goal[sc.Goals[i]] = 1
	}
	obs = append(obs, goal...)
	for _, oth := range wd.Agents {
		if oth == ag {
			continue
		}
		obs = append(obs, oth.C...)
	}
	return obs
}
