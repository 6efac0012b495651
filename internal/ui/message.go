package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the widget.
type MsgKind int

// Msg represents all possible messages in the widget (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	// MsgFrame advances the render clock: progress extrapolation and the
	// typewriter both move on frames, not on polls.
	MsgFrame MsgKind = iota
)

// frameInterval is the render cadence. Polling stays on its own adaptive
// schedule; frames only redraw from the latest snapshot.
const frameInterval = 100 * time.Millisecond

// frameMsg is the constructor for [MsgFrame]
func frameMsg(now time.Time) Msg {
	return Msg{kind: MsgFrame, data: now}
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(now time.Time) tea.Msg { return frameMsg(now) })
}
