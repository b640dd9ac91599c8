package ui

import "errors"

var (
	// ErrUnknownPanel is returned when drawing to a panel the backend does not have.
	ErrUnknownPanel = errors.New("unknown panel")
	// ErrTooSmall is returned when the terminal cannot fit the layout.
	ErrTooSmall = errors.New("terminal too small")
	// ErrFrameSkipped wraps any failure that aborted a frame.
	ErrFrameSkipped = errors.New("frame skipped")
)

// Panel identifies a region of the dashboard.
type Panel int

const (
	PanelHeader Panel = iota
	PanelDownload
	PanelUpload
	PanelInterfaces
)

var panelNames = map[Panel]string{
	PanelHeader:     "header",
	PanelDownload:   "download",
	PanelUpload:     "upload",
	PanelInterfaces: "interfaces",
}

func (p Panel) String() string {
	if name, ok := panelNames[p]; ok {
		return name
	}
	return "unknown"
}

// Panels lists every panel in draw order.
var Panels = []Panel{PanelHeader, PanelDownload, PanelUpload, PanelInterfaces}

// Backend is the drawing surface the Display renders onto. Content uses
// tview color tags such as "[green]".
type Backend interface {
	// Clear starts a new frame and lays panels out for the current size.
	Clear() error
	// PanelSize returns the inner width and height of a panel.
	PanelSize(p Panel) (width, height int)
	Draw(p Panel, content string) error
	// Show flushes the frame to the terminal.
	Show() error
	// Restore gives the terminal back in its original mode.
	Restore() error
}

// Command is a user or terminal event the render loop reacts to.
type Command int

const (
	CommandQuit Command = iota + 1
	CommandRedraw
)
