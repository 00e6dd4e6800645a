// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenario

import (
	"testing"

	"github.com/ccnlab/particles/penv"
	"github.com/goki/mat32"
)

func TestSpreadWorld(t *testing.T) {
	sc := &Spread{}
	sc.Defaults()
	wd := sc.MakeWorld()
	if len(wd.Agents) != 3 || len(wd.Landmarks) != 3 {
		t.Fatalf("world has %d agents, %d landmarks; want 3, 3", len(wd.Agents), len(wd.Landmarks))
	}
	if !wd.Collaborative {
		t.Errorf("spread world must be collaborative")
	}
	for _, ag := range wd.Agents {
		if !ag.Silent || !ag.Collide {
			t.Errorf("spread agents are mute colliders, got silent=%v collide=%v", ag.Silent, ag.Collide)
		}
	}
	for _, lm := range wd.Landmarks {
		if lm.Collide || lm.Movable {
			t.Errorf("spread landmarks are fixed non-colliders")
		}
	}
}

func TestSpreadReset(t *testing.T) {
	sc := &Spread{}
	sc.Defaults()
	wd := sc.MakeWorld()
	wd.Agents[0].State.PVel = mat32.Vec2{X: 1, Y: 1}
	sc.Reset(wd)
	for _, ag := range wd.Agents {
		p := ag.State.PPos
		if p.X < -sc.PlaceRange || p.X > sc.PlaceRange || p.Y < -sc.PlaceRange || p.Y > sc.PlaceRange {
			t.Errorf("agent placed outside range: %v", p)
		}
		if ag.State.PVel.X != 0 || ag.State.PVel.Y != 0 {
			t.Errorf("reset left velocity %v", ag.State.PVel)
		}
	}
}

func TestSpreadReward(t *testing.T) {
	sc := &Spread{}
	sc.Defaults()
	wd := sc.MakeWorld()
	// every agent exactly on a landmark, no overlaps: reward 0
	for i, ag := range wd.Agents {
		ag.State.PPos = mat32.Vec2{X: float32(i), Y: 0}
		wd.Landmarks[i].State.PPos = ag.State.PPos
	}
	if rew := sc.Reward(wd.Agents[0], wd); rew != 0 {
		t.Errorf("covered layout reward = %g, want 0", rew)
	}
	// stack two agents: each colliding agent pays the pair penalty, and the
	// landmark at x=1 is now distance 1 from its nearest agent
	wd.Agents[1].State.PPos = wd.Agents[0].State.PPos
	rew := sc.Reward(wd.Agents[0], wd)
	if rew != -1-sc.CollidePen {
		t.Errorf("stacked layout reward = %g, want %g", rew, -1-sc.CollidePen)
	}
}

func TestSpreadObsWidth(t *testing.T) {
	sc := &Spread{}
	sc.Defaults()
	wd := sc.MakeWorld()
	obs := sc.Observation(wd.Agents[0], wd)
	// vel+pos, 3 rel landmarks, 2 rel agents, 2 partner comm vectors of DimC=2
	want := 4 + 3*2 + 2*2 + 2*2
	if len(obs) != want {
		t.Errorf("obs width = %d, want %d", len(obs), want)
	}
}

func TestSpreadEnv(t *testing.T) {
	sc := &Spread{}
	sc.Defaults()
	wd := sc.MakeWorld()
	ev := &penv.Env{}
	ev.Defaults()
	ev.Config(wd, sc.Callbacks())
	obs := ev.Reset(false)
	if len(obs) != 3 {
		t.Fatalf("reset returned %d observations, want 3", len(obs))
	}
	if !ev.SharedReward {
		t.Errorf("collaborative world must set shared reward")
	}
	acts := [][]float32{{2}, {0}, {0}}
	rew, _, info := ev.Step(acts)
	if len(info.N) != 3 {
		t.Errorf("info for %d agents, want 3", len(info.N))
	}
	if _, ok := info.N[0]["min_landmark_dist"]; !ok {
		t.Errorf("info missing min_landmark_dist")
	}
	for _, r := range ev.RewN {
		if r != rew {
			t.Errorf("shared reward not broadcast: %v, sum %g", ev.RewN, rew)
		}
	}
}

func TestReferenceGoals(t *testing.T) {
	sc := &Reference{}
	sc.Defaults()
	wd := sc.MakeWorld()
	sc.Reset(wd)
	for i, g := range sc.Goals {
		if g < 0 || g >= sc.NLandmarks {
			t.Errorf("agent %d goal %d out of range", i, g)
		}
	}
	if wd.DimC != sc.NLandmarks {
		t.Errorf("comm channel width = %d, want %d", wd.DimC, sc.NLandmarks)
	}
}

func TestReferenceReward(t *testing.T) {
	sc := &Reference{}
	sc.Defaults()
	wd := sc.MakeWorld()
	sc.Reset(wd)
	sc.Goals = []int{0, 1}
	for i, ag := range wd.Agents {
		ag.State.PPos = wd.Landmarks[sc.Goals[i]].State.PPos
	}
	if rew := sc.Reward(wd.Agents[0], wd); rew != 0 {
		t.Errorf("both agents on goal: reward = %g, want 0", rew)
	}
	wd.Agents[0].State.PPos = wd.Landmarks[0].State.PPos.Add(mat32.Vec2{X: 3, Y: 4})
	if rew := sc.Reward(wd.Agents[1], wd); rew != -5 {
		t.Errorf("displaced agent: reward = %g, want -5", rew)
	}
}

func TestReferenceObservation(t *testing.T) {
	sc := &Reference{}
	sc.Defaults()
	wd := sc.MakeWorld()
	sc.Reset(wd)
	sc.Goals = []int{2, 1}
	obs := sc.Observation(wd.Agents[0], wd)
	// vel, 3 rel landmarks, partner-goal one-hot, partner utterance
	want := 2 + 3*2 + 3 + 3
	if len(obs) != want {
		t.Fatalf("obs width = %d, want %d", len(obs), want)
	}
	goal := obs[8:11]
	if goal[0] != 0 || goal[1] != 1 || goal[2] != 0 {
		t.Errorf("partner goal one-hot = %v, want [0 1 0]", goal)
	}
}
