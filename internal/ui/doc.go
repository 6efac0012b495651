// Package ui implements the terminal now-playing widget using bubbletea's Elm architecture.
//
// The widget is a single-panel display driven by two inputs:
//  1. [engine.Store] snapshots published by the background poller
//  2. A frame tick that advances progress extrapolation and typing animation
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern. It never
// talks to the gateway itself; all network traffic stays in the poller, and the render
// loop only reads the latest snapshot each frame. Progress between polls comes from
// [engine.Snapshot.ProgressMs], so the bar advances smoothly without extra requests.
//
// Status lines are revealed through a typewriter decorator ([Typist]) when enabled,
// matching the scripted-terminal feel of the original widget.
package ui
