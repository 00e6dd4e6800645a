// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// spread runs the cooperative coverage task with a random policy, logging
// per-episode reward.  With no args it opens a GUI showing the world; with
// args it runs headless (use -nogui to force that explicitly).
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"

	"github.com/ccnlab/particles/penv"
	"github.com/ccnlab/particles/scenario"
	"github.com/emer/emergent/erand"
	"github.com/emer/empi/mpi"
	"github.com/emer/etable/agg"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/goki/gi/gimain"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 4

// Sim holds the environment batch and logging state.
type Sim struct {
	Scene     *scenario.Spread `desc:"the coverage task"`
	Batch     *penv.BatchEnv   `desc:"batched environment instances"`
	NEnvs     int              `desc:"number of parallel environment instances"`
	Episodes  int              `desc:"number of episodes to run"`
	Discrete  bool             `desc:"use discrete action spaces"`
	EpcLog    *etable.Table    `view:"no-inline" desc:"per-episode reward log"`
	EpcFile   *os.File         `view:"-" desc:"log output file"`
	RndSeeds  erand.Seeds      `view:"-" desc:"a list of random seeds to use for each run"`
	Rnd       *rand.Rand       `view:"-" desc:"random source for action sampling"`
	Episode   int              `inactive:"+" desc:"current episode"`
	LastRew   float64          `inactive:"+" desc:"mean per-step reward of last episode"`
	NoGui     bool             `view:"-" desc:"running without the gui"`
	IsRunning bool             `view:"-" desc:"episode loop is running"`
}

// TheSim is the overall state for this simulation
var TheSim Sim

// New creates new blank elements and initializes defaults
func (ss *Sim) New() {
	ss.Scene = &scenario.Spread{}
	ss.Scene.Defaults()
	ss.NEnvs = 1
	ss.Episodes = 100
	ss.Discrete = true
	ss.EpcLog = &etable.Table{}
	ss.RndSeeds.Init(100)
}

// Config builds the environment instances and the log table.
func (ss *Sim) Config() {
	ss.Batch = &penv.BatchEnv{}
	for i := 0; i < ss.NEnvs; i++ {
		ev := &penv.Env{}
		ev.Defaults()
		ev.Nm = "spread" + strconv.Itoa(i)
		ev.Dsc = "cooperative coverage of landmarks"
		ev.DiscreteActionSpace = ss.Discrete
		ev.DiscreteActionInput = ss.Discrete
		ev.Config(ss.Scene.MakeWorld(), ss.Scene.Callbacks())
		ss.Batch.Envs = append(ss.Batch.Envs, ev)
	}
	ss.ConfigEpcLog(ss.EpcLog)
}

// Init restarts the run and seeds the random sources.
func (ss *Sim) Init() {
	ss.RndSeeds.Set(mpi.WorldRank())
	ss.Rnd = rand.New(rand.NewSource(int64(mpi.WorldRank()*1000 + 7)))
	ss.Episode = 0
	ss.EpcLog.SetNumRows(0)
	ss.Batch.Reset(false)
}

// SampleActions draws one random action buffer per policy agent across the
// whole batch.
func (ss *Sim) SampleActions() [][]float32 {
	acts := make([][]float32, 0, ss.Batch.N())
	for _, ev := range ss.Batch.Envs {
		onehot := !ev.DiscreteActionInput
		for i := range ev.Agents {
			acts = append(acts, ev.ActSpaces[i].Sample(ss.Rnd, onehot))
		}
	}
	return acts
}

// RunEpisode runs one full episode across the batch and returns the mean
// per-step reward.
func (ss *Sim) RunEpisode() float64 {
	ss.Batch.Reset(false)
	sum := 0.0
	steps := 0
	for {
		rews, dones, _ := ss.Batch.Step(ss.SampleActions())
		steps++
		for _, rw := range rews {
			sum += float64(rw)
		}
		done := true
		for _, dn := range dones {
			if dn == 0 {
				done = false
			}
		}
		if done {
			break
		}
	}
	return sum / float64(steps*len(ss.Batch.Envs))
}

// Run runs all episodes, logging each.
func (ss *Sim) Run() {
	for ep := 0; ep < ss.Episodes; ep++ {
		ss.Episode = ep
		ss.LastRew = ss.RunEpisode()
		ss.LogEpc(ss.EpcLog)
	}
	ix := etable.NewIdxView(ss.EpcLog)
	mean := agg.Mean(ix, "Reward")
	mpi.Printf("ran %d episodes x %d envs: mean step reward %.4g\n", ss.Episodes, ss.NEnvs, mean[0])
}

//////////////////////////////////////////////
//  Logging

// LogEpc adds a row with the current episode stats.
func (ss *Sim) LogEpc(dt *etable.Table) {
	row := dt.Rows
	dt.SetNumRows(row + 1)
	dt.SetCellFloat("Episode", row, float64(ss.Episode))
	dt.SetCellFloat("Reward", row, ss.LastRew)
	if ss.EpcFile != nil {
		if row == 0 {
			dt.WriteCSVHeaders(ss.EpcFile, etable.Tab)
		}
		dt.WriteCSVRow(ss.EpcFile, row, etable.Tab)
	}
}

func (ss *Sim) ConfigEpcLog(dt *etable.Table) {
	dt.SetMetaData("name", "EpcLog")
	dt.SetMetaData("desc", "Record of reward over episodes")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))
	sch := etable.Schema{
		{"Episode", etensor.INT64, nil, nil},
		{"Reward", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, 0)
}

//////////////////////////////////////////////
//  Cmdline

// CmdArgs runs headless from command-line args.
func (ss *Sim) CmdArgs() {
	ss.NoGui = true
	var nogui bool
	var saveEpcLog bool
	flag.IntVar(&ss.Episodes, "episodes", 100, "number of episodes to run")
	flag.IntVar(&ss.NEnvs, "nenvs", 1, "number of parallel environment instances")
	flag.BoolVar(&ss.Discrete, "discrete", true, "use discrete action spaces")
	flag.BoolVar(&saveEpcLog, "epclog", true, "if true, save episode log to file")
	flag.BoolVar(&nogui, "nogui", true, "if not passing any other args and want to run nogui, use nogui")
	flag.Parse()
	ss.Config()
	ss.Init()

	if saveEpcLog {
		var err error
		fnm := fmt.Sprintf("spread_epc_%d.tsv", mpi.WorldRank())
		ss.EpcFile, err = os.Create(fnm)
		if err != nil {
			log.Println(err)
			ss.EpcFile = nil
		} else {
			mpi.Printf("Saving episode log to: %v\n", fnm)
			defer ss.EpcFile.Close()
		}
	}
	ss.Run()
}

// this is the stub main for gogi that calls our actual mainrun function, at end of file
func main() {
	TheSim.New()
	if len(os.Args) > 1 {
		TheSim.CmdArgs() // simple assumption is that any args = no gui
	} else {
		gimain.Main(func() {
			mainrun()
		})
	}
}

func mainrun() {
	TheSim.Config()
	TheSim.Init()
	win := TheSim.ConfigGui()
	win.StartEventLoop()
}
