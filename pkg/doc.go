// Package pkg provides the libraries behind nodecanvas, a zoomable node-graph
// canvas that can run its frame loop without a GUI.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Geometry and frame state: [canvas], [memory], [anim], [theme]
//  2. Documents and output: [graph], [preview]
//  3. Infrastructure: [cache], [snapshot], [errors], [observability], [buildinfo]
//
// # Frame Flow
//
// Every frame runs one layout pass per canvas:
//
//	canvas.Begin (load viewport, derive the animated zoom, zoom the style)
//	         ↓
//	Pass.Node for every node (rects from last frame's sizes)
//	         ↓
//	Pass.ZoomAt / Pass.Pan (gestures)
//	         ↓
//	Pass.End (store the viewport)
//	         ↓
//	Memory.EndFrame (evict state of nodes no longer drawn)
//
// A [preview.Scene] turns the resulting frame into SVG, PNG or Graphviz
// output, and a [snapshot.Snapshot] carries the frame state from one session
// to the next through a [cache.Cache].
//
// # Quick Start
//
//	mem := memory.New()
//	clock := &anim.FrameClock{}
//	a := anim.NewAnimator(mem, clock, anim.Linear{})
//
//	p := canvas.Begin(canvas.PassConfig{
//	    Canvas:   "main",
//	    Memory:   mem,
//	    Animator: a,
//	    Viewport: gg.Rect{Max: gg.Pt(1280, 720)},
//	})
//	layout := p.Node("a", gg.Pt(0, 0), 1, nil)
//	p.ZoomAt(1.25, gg.Pt(640, 360))
//	frame := p.End()
//	mem.EndFrame()
//	clock.Advance(time.Second / 60)
//
// [canvas]: github.com/matzehuels/nodecanvas/pkg/canvas
// [memory]: github.com/matzehuels/nodecanvas/pkg/memory
// [anim]: github.com/matzehuels/nodecanvas/pkg/anim
// [theme]: github.com/matzehuels/nodecanvas/pkg/theme
// [graph]: github.com/matzehuels/nodecanvas/pkg/graph
// [preview]: github.com/matzehuels/nodecanvas/pkg/preview
// [cache]: github.com/matzehuels/nodecanvas/pkg/cache
// [snapshot]: github.com/matzehuels/nodecanvas/pkg/snapshot
// [errors]: github.com/matzehuels/nodecanvas/pkg/errors
// [observability]: github.com/matzehuels/nodecanvas/pkg/observability
// [buildinfo]: github.com/matzehuels/nodecanvas/pkg/buildinfo
// [preview.Scene]: github.com/matzehuels/nodecanvas/pkg/preview.Scene
// [snapshot.Snapshot]: github.com/matzehuels/nodecanvas/pkg/snapshot.Snapshot
// [cache.Cache]: github.com/matzehuels/nodecanvas/pkg/cache.Cache
package pkg
