// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penv

import (
	"fmt"

	"github.com/ccnlab/particles/space"
	"github.com/ccnlab/particles/world"
	"github.com/goki/mat32"
)

// DecodeAction converts one flat action buffer into the agent's step
// controls: a physical force and a communication signal.  The buffer length
// must equal the composite space width exactly -- a mismatch or leftover
// segment is a programming error and panics rather than truncating.
//
// The decoded action is returned, not written onto the agent, so decoding
// has no side effects on shared world state.
func (ev *Env) DecodeAction(act []float32, ag *world.Agent, sp space.Space) world.Action {
	onehot := !ev.DiscreteActionInput
	if len(act) != sp.Width(onehot) {
		panic(fmt.Sprintf("penv: agent %s action buffer has %d elements, space %v needs %d", ag.Nm, len(act), sp, sp.Width(onehot)))
	}
	ctl := world.Action{C: make([]float32, ev.World.DimC)}

	segs := splitSegments(act, sp, onehot)
	si := 0
	if ag.Movable {
		ctl.U = ev.decodeMove(segs[si], ag)
		si++
	}
	if !ag.Silent {
		ev.decodeComm(segs[si], ctl.C)
		si++
	}
	if si != len(segs) {
		panic(fmt.Sprintf("penv: agent %s decode left %d unconsumed segments", ag.Nm, len(segs)-si))
	}
	return ctl
}

// splitSegments slices the buffer into one sub-buffer per sub-space:
// per-choice one-hot blocks for MultiDiscrete, per-part widths for Tuple,
// and the whole buffer as a single segment otherwise.  The empty Tuple
// yields no segments.
func splitSegments(act []float32, sp space.Space, onehot bool) [][]float32 {
	switch st := sp.(type) {
	case space.MultiDiscrete:
		segs := make([][]float32, 0, len(st.Low))
		idx := 0
		for _, bs := range st.BlockSizes() {
			segs = append(segs, act[idx:idx+bs])
			idx += bs
		}
		return segs
	case space.Tuple:
		segs := make([][]float32, 0, len(st.Spaces))
		idx := 0
		for _, sub := range st.Spaces {
			wd := sub.Width(onehot)
			segs = append(segs, act[idx:idx+wd])
			idx += wd
		}
		return segs
	default:
		return [][]float32{act}
	}
}

// decodeMove converts one movement segment into a force vector, scaled by
// the agent's acceleration sensitivity.
func (ev *Env) decodeMove(seg []float32, ag *world.Agent) mat32.Vec2 {
	u := mat32.Vec2{}
	if ev.DiscreteActionInput && len(seg) == 1 {
		// value-encoded: 0 = no-op, then -x, +x, -y, +y
		switch int(seg[0]) {
		case 1:
			u.X = -1
		case 2:
			u.X = +1
		case 3:
			u.Y = -1
		case 4:
			u.Y = +1
		}
	} else {
		if ev.ForceDiscrete {
			snapArgmax(seg)
		}
		if ev.DiscreteActionSpace {
			// one-hot blocks: paired slots are symmetric push/pull per axis
			u.X += seg[1] - seg[2]
			u.Y += seg[3] - seg[4]
		} else {
			u.X = seg[0]
			u.Y = seg[1]
		}
	}
	sens := float32(world.DefaultAccel)
	if ag.Accel > 0 {
		sens = ag.Accel
	}
	return u.MulScalar(sens)
}

// decodeComm converts one communication segment into the signal vector.
// Only a single-element segment is index-encoded; collapsed composites carry
// one-hot blocks in either input mode, which copy through directly.
func (ev *Env) decodeComm(seg []float32, c []float32) {
	if ev.DiscreteActionInput && len(seg) == 1 {
		c[int(seg[0])] = 1
		return
	}
	copy(c, seg)
}

// snapArgmax replaces the vector with a one-hot at its argmax, ties broken
// by first occurrence.
func snapArgmax(seg []float32) {
	mi := 0
	for i := 1; i < len(seg); i++ {
		if seg[i] > seg[mi] {
			mi = i
		}
	}
	for i := range seg {
		seg[i] = 0
	}
	seg[mi] = 1
}
