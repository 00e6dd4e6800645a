// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penv

import (
	"strings"
	"testing"

	"github.com/ccnlab/particles/world"
)

func TestCommTranscript(t *testing.T) {
	wd := &world.World{DimC: 2}
	wd.Defaults()
	a := wd.NewAgent("a")
	b := wd.NewAgent("b")
	wd.Agents = append(wd.Agents, a, b)
	ev := &Env{}
	ev.Defaults()
	ev.World = wd

	// argmax runs over all elements: zeros can win against negatives
	a.C = []float32{0, -1}
	b.C = []float32{0, 0}
	ts := ev.CommTranscript()
	if !strings.Contains(ts, "a to b: A") {
		t.Errorf("transcript %q missing 'a to b: A'", ts)
	}
	if !strings.Contains(ts, "b to a: _") {
		t.Errorf("transcript %q missing silent 'b to a: _'", ts)
	}

	b.C = []float32{0.2, 0.9}
	ts = ev.CommTranscript()
	if !strings.Contains(ts, "b to a: B") {
		t.Errorf("transcript %q missing 'b to a: B'", ts)
	}
}

func TestRenderFrame(t *testing.T) {
	ev := encodeEnv(2, 1)
	rgb := ev.Render(RenderRGBArray)
	if rgb.Shape.Dim(0) != ev.RenderSize || rgb.Shape.Dim(1) != ev.RenderSize || rgb.Shape.Dim(2) != 3 {
		t.Fatalf("frame shape = %v, want %d x %d x 3", rgb.Shape.Shp, ev.RenderSize, ev.RenderSize)
	}
	grid := ev.RenderGrid()
	if grid.Shape.Dim(0) != ev.RenderSize {
		t.Fatalf("grid shape = %v, want %d x %d", grid.Shape.Shp, ev.RenderSize, ev.RenderSize)
	}
	// an entity sits at the origin, which maps to the frame center
	c := ev.RenderSize / 2
	if grid.Value([]int{c, c}) == 0 {
		t.Errorf("entity at origin not rasterized")
	}
	if rgb.Value([]int{0, 0, 0}) != 1 {
		t.Errorf("empty corner = %g, want white background", rgb.Value([]int{0, 0, 0}))
	}
}
