// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package space defines the action space variants for particle-world agents:
// a single discrete choice, a multi-discrete concatenation of choices, a
// bounded continuous box, and an ordered tuple for mixed cases.  The action
// decoder dispatches on these variants rather than inspecting buffers.
package space

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Space is one action space variant.  Width gives the length of the flat
// action buffer a policy must supply: discrete choices occupy one slot per
// choice group when onehot is false (index-encoded), or one slot per
// alternative when onehot is true.
type Space interface {
	Width(onehot bool) int

	// Sample draws a random valid action buffer in the given encoding.
	Sample(rng *rand.Rand, onehot bool) []float32

	String() string
}

// Discrete selects one of N mutually exclusive choices.
type Discrete struct {
	N int `desc:"number of choices"`
}

func (sp Discrete) Width(onehot bool) int {
	if onehot {
		return sp.N
	}
	return 1
}

func (sp Discrete) Sample(rng *rand.Rand, onehot bool) []float32 {
	ci := rng.Intn(sp.N)
	if !onehot {
		return []float32{float32(ci)}
	}
	buf := make([]float32, sp.N)
	buf[ci] = 1
	return buf
}

func (sp Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", sp.N)
}

// MultiDiscrete concatenates several independent discrete choices, each with
// inclusive [Low, High] bounds.  Buffers are always one-hot blocks of
// High-Low+1 slots per choice, in order.
type MultiDiscrete struct {
	Low  []int `desc:"inclusive lower bound per choice"`
	High []int `desc:"inclusive upper bound per choice"`
}

// BlockSizes returns the one-hot block width of each choice.
func (sp MultiDiscrete) BlockSizes() []int {
	bs := make([]int, len(sp.Low))
	for i := range bs {
		bs[i] = sp.High[i] - sp.Low[i] + 1
	}
	return bs
}

func (sp MultiDiscrete) Width(onehot bool) int {
	tot := 0
	for _, bs := range sp.BlockSizes() {
		tot += bs
	}
	return tot
}

func (sp MultiDiscrete) Sample(rng *rand.Rand, onehot bool) []float32 {
	buf := make([]float32, 0, sp.Width(onehot))
	for _, bs := range sp.BlockSizes() {
		blk := make([]float32, bs)
		blk[rng.Intn(bs)] = 1
		buf = append(buf, blk...)
	}
	return buf
}

func (sp MultiDiscrete) String() string {
	return fmt.Sprintf("MultiDiscrete(%v..%v)", sp.Low, sp.High)
}

// Box is a continuous space with per-dimension [Low, High] bounds.
type Box struct {
	Low  *mat.VecDense `desc:"lower bound per dimension"`
	High *mat.VecDense `desc:"upper bound per dimension"`
}

// NewBox returns a Box of n dimensions all bounded by [low, high].
func NewBox(low, high float64, n int) Box {
	lo := make([]float64, n)
	hi := make([]float64, n)
	for i := 0; i < n; i++ {
		lo[i] = low
		hi[i] = high
	}
	return Box{Low: mat.NewVecDense(n, lo), High: mat.NewVecDense(n, hi)}
}

func (sp Box) Width(onehot bool) int {
	return sp.Low.Len()
}

func (sp Box) Sample(rng *rand.Rand, onehot bool) []float32 {
	buf := make([]float32, sp.Low.Len())
	for i := range buf {
		lo := sp.Low.AtVec(i)
		hi := sp.High.AtVec(i)
		buf[i] = float32(lo + rng.Float64()*(hi-lo))
	}
	return buf
}

func (sp Box) String() string {
	n := sp.Low.Len()
	return fmt.Sprintf("Box(%d)[%g,%g]", n, sp.Low.AtVec(0), sp.High.AtVec(0))
}

// Tuple is an ordered sequence of sub-spaces.  It is used for mixed
// discrete / continuous composites, which are never collapsed, and for the
// empty composite of an agent that can neither move nor communicate.
type Tuple struct {
	Spaces []Space `desc:"ordered sub-spaces"`
}

func (sp Tuple) Width(onehot bool) int {
	tot := 0
	for _, sub := range sp.Spaces {
		tot += sub.Width(onehot)
	}
	return tot
}

func (sp Tuple) Sample(rng *rand.Rand, onehot bool) []float32 {
	buf := make([]float32, 0, sp.Width(onehot))
	for _, sub := range sp.Spaces {
		buf = append(buf, sub.Sample(rng, onehot)...)
	}
	return buf
}

func (sp Tuple) String() string {
	return fmt.Sprintf("Tuple(%v)", sp.Spaces)
}
