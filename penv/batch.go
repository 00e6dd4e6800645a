// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penv

import (
	"fmt"

	"github.com/ccnlab/particles/space"
	"github.com/emer/etable/etensor"
)

// BatchEnv fans step, reset and render calls out across multiple
// environment instances sharing one space definition.  Instances are
// stepped strictly sequentially and share no mutable state; a caller
// running them from parallel workers must give each instance to exactly
// one worker.
type BatchEnv struct {
	Envs []*Env `desc:"the batched environment instances"`
}

// N returns the total number of policy agents across all instances.
func (bt *BatchEnv) N() int {
	n := 0
	for _, ev := range bt.Envs {
		n += len(ev.Agents)
	}
	return n
}

// ActionSpaces returns the shared per-agent action spaces, from the first
// instance.
func (bt *BatchEnv) ActionSpaces() []space.Space {
	return bt.Envs[0].ActSpaces
}

// Step slices the flat per-agent action list across instances in order and
// steps each one, returning per-instance rewards and termination flags and
// the concatenated per-agent info maps.
func (bt *BatchEnv) Step(acts [][]float32) (rews []float32, dones []float32, info StepInfo) {
	if len(acts) != bt.N() {
		panic(fmt.Sprintf("penv: batch of %d actions for %d policy agents", len(acts), bt.N()))
	}
	rews = make([]float32, len(bt.Envs))
	dones = make([]float32, len(bt.Envs))
	idx := 0
	for i, ev := range bt.Envs {
		n := len(ev.Agents)
		rew, dn, inf := ev.Step(acts[idx : idx+n])
		idx += n
		rews[i] = rew
		dones[i] = dn
		info.N = append(info.N, inf.N...)
	}
	return
}

// Reset resets every instance and returns the concatenated per-agent
// observations.
func (bt *BatchEnv) Reset(evaluate bool) [][]float32 {
	var obs [][]float32
	for _, ev := range bt.Envs {
		obs = append(obs, ev.Reset(evaluate)...)
	}
	return obs
}

// Render renders every instance in order.
func (bt *BatchEnv) Render(mode string) []*etensor.Float32 {
	frames := make([]*etensor.Float32, len(bt.Envs))
	for i, ev := range bt.Envs {
		frames[i] = ev.Render(mode)
	}
	return frames
}
