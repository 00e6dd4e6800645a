// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penv

import (
	"fmt"

	"github.com/ccnlab/particles/world"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// Render modes.
const (
	RenderHuman    = "human"
	RenderRGBArray = "rgb_array"
)

// CamRange is the half-width of the rendered view, centered on the origin.
const CamRange = 1

const commAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// renderGeom is one cached display disc for an entity.  Geometry is built
// lazily on first render and invalidated (not destroyed) on reset.
type renderGeom struct {
	ent   *world.Entity
	color mat32.Vec3
	alpha float32
}

// frameCache holds the rendered frame tensors, allocated on first render.
type frameCache struct {
	RGB  *etensor.Float32 `desc:"H x W x 3 rendered frame in 0..1"`
	Grid *etensor.Float32 `desc:"H x W luminance view for tensor-grid display"`
}

// resetRender invalidates the cached rendering geometry so it is rebuilt on
// the next render call.
func (ev *Env) resetRender() {
	ev.geoms = nil
}

// CommTranscript returns the human-readable communication transcript: for
// every ordered pair of distinct agents, the letter at the argmax of the
// sender's current communication state, or _ when the signal is all zero.
func (ev *Env) CommTranscript() string {
	msg := ""
	for _, ag := range ev.World.Agents {
		for _, oth := range ev.World.Agents {
			if oth == ag {
				continue
			}
			word := "_"
			allZero := true
			mi := 0
			for i, cv := range oth.C {
				if cv != 0 {
					allZero = false
				}
				if cv > oth.C[mi] {
					mi = i
				}
			}
			if !allZero && mi < len(commAlphabet) {
				word = string(commAlphabet[mi])
			}
			msg += oth.Nm + " to " + ag.Nm + ": " + word + "   "
		}
	}
	return msg
}

// Render draws the current world into the cached frame and returns the RGB
// tensor.  Human mode additionally prints the communication transcript.
func (ev *Env) Render(mode string) *etensor.Float32 {
	if mode == RenderHuman {
		fmt.Println(ev.CommTranscript())
	}
	if ev.geoms == nil {
		ev.makeGeoms()
	}
	ev.drawFrame()
	return ev.frame.RGB
}

// RenderGrid returns the single-channel luminance raster of the last
// rendered frame, suitable for tensor-grid display.
func (ev *Env) RenderGrid() *etensor.Float32 {
	if ev.frame == nil {
		ev.Render(RenderRGBArray)
	}
	return ev.frame.Grid
}

// makeGeoms builds the display geometry for all current entities.
func (ev *Env) makeGeoms() {
	ev.geoms = make([]renderGeom, 0, len(ev.World.Agents)+len(ev.World.Landmarks))
	for _, ag := range ev.World.Agents {
		ev.geoms = append(ev.geoms, renderGeom{ent: &ag.Entity, color: ag.Color, alpha: 0.5})
	}
	for _, lm := range ev.World.Landmarks {
		ev.geoms = append(ev.geoms, renderGeom{ent: &lm.Entity, color: lm.Color, alpha: 1})
	}
}

// drawFrame rasterizes the cached geometry into the frame tensors.
func (ev *Env) drawFrame() {
	sz := ev.RenderSize
	if sz <= 0 {
		sz = 64
	}
	if ev.frame == nil || ev.frame.RGB.Shape.Dim(0) != sz {
		ev.frame = &frameCache{RGB: &etensor.Float32{}, Grid: &etensor.Float32{}}
		ev.frame.RGB.SetShape([]int{sz, sz, 3}, nil, []string{"Y", "X", "RGB"})
		ev.frame.Grid.SetShape([]int{sz, sz}, nil, []string{"Y", "X"})
	}
	rgb := ev.frame.RGB
	grid := ev.frame.Grid
	for i := range rgb.Values {
		rgb.Values[i] = 1 // white background
	}
	grid.SetZeros()
	scale := float32(sz) / (2 * CamRange)
	for _, gm := range ev.geoms {
		pos := gm.ent.State.PPos
		r := gm.ent.Size * scale
		cx := (pos.X + CamRange) * scale
		cy := (pos.Y + CamRange) * scale
		ev.drawDisc(cx, cy, r, gm)
	}
}

// drawDisc alpha-blends one entity disc into the frame.
func (ev *Env) drawDisc(cx, cy, r float32, gm renderGeom) {
	sz := ev.frame.Grid.Shape.Dim(0)
	x0 := int(mat32.Floor(cx - r))
	x1 := int(mat32.Ceil(cx + r))
	y0 := int(mat32.Floor(cy - r))
	y1 := int(mat32.Ceil(cy + r))
	lum := (gm.color.X + gm.color.Y + gm.color.Z) / 3
	for y := y0; y <= y1; y++ {
		if y < 0 || y >= sz {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= sz {
				continue
			}
			dx := float32(x) + 0.5 - cx
			dy := float32(y) + 0.5 - cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			cl := []float32{gm.color.X, gm.color.Y, gm.color.Z}
			for c := 0; c < 3; c++ {
				old := ev.frame.RGB.Value([]int{y, x, c})
				ev.frame.RGB.Set([]int{y, x, c}, old*(1-gm.alpha)+cl[c]*gm.alpha)
			}
			ev.frame.Grid.Set([]int{y, x}, 0.25+0.75*lum)
		}
	}
}
