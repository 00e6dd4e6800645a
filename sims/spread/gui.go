// Copyright (c) 2022, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/emer/etable/etview"
	"github.com/goki/gi/gi"
	"github.com/goki/gi/giv"
	"github.com/goki/ki/ki"
	"github.com/goki/mat32"
)

// WorldView is the tensor grid showing the rendered world of the first
// environment instance.
var WorldView *etview.TensorGrid

// ConfigGui configures the GUI window showing the world and controls.
func (ss *Sim) ConfigGui() *gi.Window {
	width := 1200
	height := 900

	win := gi.NewMainWindow("spread", "Particle Coverage", width, height)

	vp := win.WinViewport2D()
	updt := vp.UpdateStart()

	mfr := win.SetMainFrame()

	tbar := gi.AddNewToolBar(mfr, "tbar")
	tbar.SetStretchMaxWidth()

	split := gi.AddNewSplitView(mfr, "split")
	split.Dim = mat32.X
	split.SetStretchMax()

	sv := giv.AddNewStructView(split, "sv")
	sv.SetStruct(ss)

	tv := gi.AddNewTabView(split, "tv")

	ev := ss.Batch.Envs[0]
	tg := tv.AddNewTab(etview.KiT_TensorGrid, "World").(*etview.TensorGrid)
	WorldView = tg
	tg.SetTensor(ev.RenderGrid())
	ss.ConfigWorldView(tg)

	split.SetSplits(.3, .7)

	tbar.AddAction(gi.ActOpts{Label: "Init", Icon: "reset", Tooltip: "Reset all episodes.", UpdateFunc: func(act *gi.Action) {
		act.SetActiveStateUpdt(!ss.IsRunning)
	}}, win.This(), func(recv, send ki.Ki, sig int64, data interface{}) {
		ss.Init()
		ss.UpdateWorldGui()
		vp.SetFullReRender()
	})

	tbar.AddAction(gi.ActOpts{Label: "Step", Icon: "step-fwd", Tooltip: "Take one random-action step.", UpdateFunc: func(act *gi.Action) {
		act.SetActiveStateUpdt(!ss.IsRunning)
	}}, win.This(), func(recv, send ki.Ki, sig int64, data interface{}) {
		ss.Batch.Step(ss.SampleActions())
		ss.UpdateWorldGui()
		vp.SetFullReRender()
	})

	tbar.AddAction(gi.ActOpts{Label: "Episode", Icon: "play", Tooltip: "Run one full episode.", UpdateFunc: func(act *gi.Action) {
		act.SetActiveStateUpdt(!ss.IsRunning)
	}}, win.This(), func(recv, send ki.Ki, sig int64, data interface{}) {
		if !ss.IsRunning {
			ss.IsRunning = true
			ss.LastRew = ss.RunEpisode()
			ss.LogEpc(ss.EpcLog)
			ss.Episode++
			ss.IsRunning = false
			ss.UpdateWorldGui()
			vp.SetFullReRender()
		}
	})

	appnm := gi.AppName()
	mmen := win.MainMenu
	mmen.ConfigMenus([]string{appnm, "File", "Edit", "Window"})

	amen := win.MainMenu.ChildByName(appnm, 0).(*gi.Action)
	amen.Menu.AddAppMenu(win)

	win.MainMenuUpdated()
	vp.UpdateEndNoSig(updt)
	return win
}

func (ss *Sim) ConfigWorldView(tg *etview.TensorGrid) {
	tg.Disp.Defaults()
	tg.Disp.ColorMap = giv.ColorMapName("ColdHot")
	tg.Disp.GridFill = 1
	tg.SetStretchMax()
}

// UpdateWorldGui refreshes the world view from the current render.
func (ss *Sim) UpdateWorldGui() {
	if WorldView == nil {
		return
	}
	ev := ss.Batch.Envs[0]
	WorldView.SetTensor(ev.RenderGrid())
	WorldView.UpdateSig()
}
