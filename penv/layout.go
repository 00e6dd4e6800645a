// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penv

import "fmt"

// Layout describes the ordered, named segments of a flat observation or
// state vector.  It is computed once per environment configuration and
// reused every step, separate from the encoding itself.
type Layout struct {
	Names  []string `desc:"name of each segment"`
	Widths []int    `desc:"width of each segment"`
}

// Add appends a named segment of given width.
func (ly *Layout) Add(name string, width int) {
	ly.Names = append(ly.Names, name)
	ly.Widths = append(ly.Widths, width)
}

// TotalWidth returns the summed width of all segments.
func (ly Layout) TotalWidth() int {
	tot := 0
	for _, wd := range ly.Widths {
		tot += wd
	}
	return tot
}

// Boundaries returns the cumulative segment boundaries, starting at 0 --
// len(Boundaries()) == len(Widths)+1 and the last entry is the total width.
func (ly Layout) Boundaries() []int {
	bd := make([]int, len(ly.Widths)+1)
	for i, wd := range ly.Widths {
		bd[i+1] = bd[i] + wd
	}
	return bd
}

// Translate copies each source segment, delimited by the bounds boundary
// list, into a zero-initialized destination buffer at the offsets given by
// tmap.  tmap has one offset per segment plus a final entry holding the
// total destination width.  Gaps between segments stay zero, so smaller
// layouts can be projected into one shared fixed-size layout.
//
// A segment that does not fit in its destination slot is a fatal layout
// error: Translate panics rather than clipping.
func Translate(src []float32, bounds, tmap []int) []float32 {
	nseg := len(bounds) - 1
	if len(tmap) != nseg+1 {
		panic(fmt.Sprintf("penv.Translate: map has %d entries for %d segments -- need segments+1", len(tmap), nseg))
	}
	dst := make([]float32, tmap[nseg])
	for i := 0; i < nseg; i++ {
		wd := bounds[i+1] - bounds[i]
		end := tmap[i] + wd
		if end > len(dst) {
			panic(fmt.Sprintf("penv.Translate: segment %d of width %d at offset %d overruns destination of width %d", i, wd, tmap[i], len(dst)))
		}
		if i+1 < nseg && end > tmap[i+1] {
			panic(fmt.Sprintf("penv.Translate: segment %d of width %d at offset %d overlaps next segment at offset %d", i, wd, tmap[i], tmap[i+1]))
		}
		copy(dst[tmap[i]:end], src[bounds[i]:bounds[i+1]])
	}
	return dst
}
