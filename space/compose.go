// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package space

import (
	"github.com/ccnlab/particles/world"
)

// Compose builds the composite action space for one agent: an optional
// movement sub-space (if the agent is movable) followed by an optional
// communication sub-space (if the agent is not silent).
//
// In discrete mode the movement space has 2*DimP+1 choices (no-op plus +/-
// along each axis) and the communication space has dimC choices.  In
// continuous mode movement is a Box bounded by the agent's URange and
// communication a [0,1] Box of dimC dimensions.
//
// When both sub-spaces are present and discrete, they collapse into a single
// MultiDiscrete with [0, n-1] bounds per choice.  Mixed discrete/continuous
// pairs stay an ordered Tuple.  An agent with neither sub-space gets an
// empty Tuple, whose zero-width buffer decodes to a zero action.
func Compose(dimC int, ag *world.Agent, discrete bool) Space {
	var parts []Space
	if ag.Movable {
		if discrete {
			parts = append(parts, Discrete{N: 2*world.DimP + 1})
		} else {
			parts = append(parts, NewBox(float64(-ag.URange), float64(ag.URange), world.DimP))
		}
	}
	if !ag.Silent {
		if discrete {
			parts = append(parts, Discrete{N: dimC})
		} else {
			parts = append(parts, NewBox(0, 1, dimC))
		}
	}
	switch len(parts) {
	case 0:
		return Tuple{}
	case 1:
		return parts[0]
	}
	alldisc := true
	for _, sub := range parts {
		if _, ok := sub.(Discrete); !ok {
			alldisc = false
			break
		}
	}
	if alldisc {
		md := MultiDiscrete{Low: make([]int, len(parts)), High: make([]int, len(parts))}
		for i, sub := range parts {
			md.High[i] = sub.(Discrete).N - 1
		}
		return md
	}
	return Tuple{Spaces: parts}
}
