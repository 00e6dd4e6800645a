// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penv

import (
	"testing"

	"github.com/ccnlab/particles/space"
	"github.com/ccnlab/particles/world"
)

func decodeEnv(discrete, index bool) (*Env, *world.Agent) {
	wd := &world.World{DimC: 2}
	wd.Defaults()
	ag := wd.NewAgent("a0")
	ag.Silent = true
	wd.Agents = append(wd.Agents, ag)
	ev := &Env{}
	ev.Defaults()
	ev.DiscreteActionSpace = discrete
	ev.DiscreteActionInput = index
	ev.World = wd
	return ev, ag
}

func TestDecodeIndexValues(t *testing.T) {
	ev, ag := decodeEnv(true, true)
	sp := space.Compose(2, ag, true)
	wants := []struct {
		val  float32
		x, y float32
	}{
		{0, 0, 0},
		{1, -5, 0},
		{2, +5, 0},
		{3, 0, -5},
		{4, 0, +5},
	}
	for _, w := range wants {
		ctl := ev.DecodeAction([]float32{w.val}, ag, sp)
		if ctl.U.X != w.x || ctl.U.Y != w.y {
			t.Errorf("value %g decoded to (%g,%g), want (%g,%g)", w.val, ctl.U.X, ctl.U.Y, w.x, w.y)
		}
	}
}

func TestDecodeSensitivity(t *testing.T) {
	ev, ag := decodeEnv(true, true)
	sp := space.Compose(2, ag, true)
	ag.Accel = 3
	ctl := ev.DecodeAction([]float32{2}, ag, sp)
	if ctl.U.X != 3 || ctl.U.Y != 0 {
		t.Errorf("accel 3 decoded to (%g,%g), want (3,0)", ctl.U.X, ctl.U.Y)
	}
	ag.Accel = 0
	ctl = ev.DecodeAction([]float32{4}, ag, sp)
	if ctl.U.Y != 5 {
		t.Errorf("default sensitivity: got %g, want 5", ctl.U.Y)
	}
}

func TestDecodeOneHotPairs(t *testing.T) {
	ev, ag := decodeEnv(true, false)
	sp := space.Compose(2, ag, true)
	// slot 1 is +x and slot 2 is -x in the one-hot layout
	ctl := ev.DecodeAction([]float32{0, 0, 1, 0, 0}, ag, sp)
	if ctl.U.X != -5 || ctl.U.Y != 0 {
		t.Errorf("one-hot -x decoded to (%g,%g), want (-5,0)", ctl.U.X, ctl.U.Y)
	}
	// soft probabilities combine within the axis pair
	ctl = ev.DecodeAction([]float32{0, 0.75, 0.25, 0, 0}, ag, sp)
	if ctl.U.X != 2.5 || ctl.U.Y != 0 {
		t.Errorf("soft pair decoded to (%g,%g), want (2.5,0)", ctl.U.X, ctl.U.Y)
	}
}

func TestDecodeForceDiscrete(t *testing.T) {
	ev, ag := decodeEnv(true, false)
	ev.ForceDiscrete = true
	sp := space.Compose(2, ag, true)
	ctl := ev.DecodeAction([]float32{0.1, 0.2, 0.9, 0.3, 0.1}, ag, sp)
	if ctl.U.X != -5 || ctl.U.Y != 0 {
		t.Errorf("snapped argmax decoded to (%g,%g), want (-5,0)", ctl.U.X, ctl.U.Y)
	}
	// ties snap to the first occurrence
	ctl = ev.DecodeAction([]float32{0.5, 0.5, 0.5, 0.5, 0.5}, ag, sp)
	if ctl.U.X != 0 || ctl.U.Y != 0 {
		t.Errorf("tied argmax decoded to (%g,%g), want no-op", ctl.U.X, ctl.U.Y)
	}
}

func TestDecodeMultiDiscrete(t *testing.T) {
	ev, ag := decodeEnv(true, false)
	ag.Silent = false
	sp := space.Compose(2, ag, true)
	if _, ok := sp.(space.MultiDiscrete); !ok {
		t.Fatalf("expected MultiDiscrete composite, got %v", sp)
	}
	ctl := ev.DecodeAction([]float32{0, 0, 0, 1, 0, 0, 1}, ag, sp)
	if ctl.U.X != 0 || ctl.U.Y != 5 {
		t.Errorf("movement block decoded to (%g,%g), want (0,5)", ctl.U.X, ctl.U.Y)
	}
	if ctl.C[0] != 0 || ctl.C[1] != 1 {
		t.Errorf("comm block decoded to %v, want [0 1]", ctl.C)
	}
}

func TestDecodeMultiDiscreteIndexInput(t *testing.T) {
	// collapsed composites carry one-hot blocks even in index-input mode,
	// so the comm block must copy through rather than be read as an index
	ev, ag := decodeEnv(true, true)
	ag.Silent = false
	sp := space.Compose(2, ag, true)
	if _, ok := sp.(space.MultiDiscrete); !ok {
		t.Fatalf("expected MultiDiscrete composite, got %v", sp)
	}
	ctl := ev.DecodeAction([]float32{0, 1, 0, 0, 0, 0, 1}, ag, sp)
	if ctl.U.X != 5 || ctl.U.Y != 0 {
		t.Errorf("movement block decoded to (%g,%g), want (5,0)", ctl.U.X, ctl.U.Y)
	}
	if ctl.C[0] != 0 || ctl.C[1] != 1 {
		t.Errorf("comm block decoded to %v, want [0 1]", ctl.C)
	}
}

func TestDecodeContinuousTuple(t *testing.T) {
	ev, ag := decodeEnv(false, false)
	ag.Silent = false
	sp := space.Compose(2, ag, false)
	if _, ok := sp.(space.Tuple); !ok {
		t.Fatalf("expected Tuple composite, got %v", sp)
	}
	ctl := ev.DecodeAction([]float32{0.5, -0.25, 0.7, 0.3}, ag, sp)
	if ctl.U.X != 2.5 || ctl.U.Y != -1.25 {
		t.Errorf("continuous movement decoded to (%g,%g), want (2.5,-1.25)", ctl.U.X, ctl.U.Y)
	}
	if ctl.C[0] != 0.7 || ctl.C[1] != 0.3 {
		t.Errorf("continuous comm decoded to %v, want [0.7 0.3]", ctl.C)
	}
}

func TestDecodeCommIndex(t *testing.T) {
	ev, ag := decodeEnv(true, true)
	ag.Movable = false
	ag.Silent = false
	sp := space.Compose(2, ag, true)
	ctl := ev.DecodeAction([]float32{1}, ag, sp)
	if ctl.U.X != 0 || ctl.U.Y != 0 {
		t.Errorf("immobile agent decoded movement (%g,%g), want zero", ctl.U.X, ctl.U.Y)
	}
	if ctl.C[0] != 0 || ctl.C[1] != 1 {
		t.Errorf("comm index decoded to %v, want [0 1]", ctl.C)
	}
}

func TestDecodeEmptySpace(t *testing.T) {
	ev, ag := decodeEnv(true, true)
	ag.Movable = false
	ag.Silent = true
	sp := space.Compose(2, ag, true)
	ctl := ev.DecodeAction([]float32{}, ag, sp)
	if ctl.U.X != 0 || ctl.U.Y != 0 {
		t.Errorf("empty space decoded movement (%g,%g), want zero", ctl.U.X, ctl.U.Y)
	}
	if len(ctl.C) != 2 || ctl.C[0] != 0 || ctl.C[1] != 0 {
		t.Errorf("empty space decoded comm %v, want zeros of world width", ctl.C)
	}
}

func TestDecodeWidthMismatchPanics(t *testing.T) {
	ev, ag := decodeEnv(true, true)
	sp := space.Compose(2, ag, true)
	defer func() {
		if recover() == nil {
			t.Errorf("wrong-width action buffer must panic")
		}
	}()
	ev.DecodeAction([]float32{1, 0}, ag, sp)
}
