package ui

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	minWidth  = 40
	minHeight = 12

	pumpStopTimeout = 200 * time.Millisecond
)

// Terminal is a Backend drawing tview panels straight onto a tcell screen.
// There is no tview.Application: the render loop owns the cadence and calls
// Clear/Draw/Show itself, while a small pump turns terminal events into
// Commands.
type Terminal struct {
	screen tcell.Screen
	root   *tview.Flex
	views  map[Panel]*tview.TextView

	events   chan tcell.Event
	commands chan Command
	quit     chan struct{}
	done     chan struct{}
	resized  atomic.Bool

	restoreOnce sync.Once
	restoreErr  error
}

// NewTerminal acquires the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return OpenTerminal(screen)
}

// OpenTerminal initialises screen and starts the event pump.
func OpenTerminal(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise terminal: %w", err)
	}
	screen.HideCursor()

	t := &Terminal{
		screen:   screen,
		views:    make(map[Panel]*tview.TextView),
		events:   make(chan tcell.Event, 16),
		commands: make(chan Command, 4),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	t.setupUI()

	go screen.ChannelEvents(t.events, t.quit)
	go t.pump()

	return t, nil
}

func (t *Terminal) setupUI() {
	titles := map[Panel]string{
		PanelHeader:     " netrate ",
		PanelDownload:   " Download ",
		PanelUpload:     " Upload ",
		PanelInterfaces: " Interfaces ",
	}
	for _, p := range Panels {
		view := tview.NewTextView().
			SetDynamicColors(true).
			SetWrap(false)
		view.SetBorder(true).
			SetTitle(titles[p])
		t.views[p] = view
	}

	graphs := tview.NewFlex().
		AddItem(t.views[PanelDownload], 0, 1, false).
		AddItem(t.views[PanelUpload], 0, 1, false)

	t.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.views[PanelHeader], 4, 0, false).
		AddItem(graphs, 0, 2, false).
		AddItem(t.views[PanelInterfaces], 0, 1, false)
}

func (t *Terminal) pump() {
	defer close(t.done)

	for {
		var ev tcell.Event
		select {
		case <-t.quit:
			return
		case e, ok := <-t.events:
			if !ok {
				return
			}
			ev = e
		}

		if cmd := translate(ev); cmd != 0 {
			t.send(cmd)
		}
	}
}

func translate(ev tcell.Event) Command {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return CommandRedraw
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEsc, tcell.KeyCtrlC:
			return CommandQuit
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return CommandQuit
			case 'r':
				return CommandRedraw
			}
		}
	}
	return 0
}

func (t *Terminal) send(cmd Command) {
	if cmd == CommandRedraw {
		t.resized.Store(true)
	}
	select {
	case t.commands <- cmd:
		return
	default:
	}
	if cmd != CommandQuit {
		return
	}
	// a quit must never be lost behind queued redraws
	select {
	case <-t.commands:
	default:
	}
	select {
	case t.commands <- cmd:
	default:
	}
}

// Commands delivers quit and redraw requests.
func (t *Terminal) Commands() <-chan Command {
	return t.commands
}

func (t *Terminal) Clear() error {
	if t.resized.CompareAndSwap(true, false) {
		t.screen.Sync()
	}
	t.screen.Clear()

	w, h := t.screen.Size()
	if w < minWidth || h < minHeight {
		return fmt.Errorf("%w: %dx%d, need %dx%d", ErrTooSmall, w, h, minWidth, minHeight)
	}

	// Flex assigns child rectangles while drawing.
	t.root.SetRect(0, 0, w, h)
	t.root.Draw(t.screen)
	return nil
}

func (t *Terminal) PanelSize(p Panel) (width, height int) {
	view, ok := t.views[p]
	if !ok {
		return 0, 0
	}
	_, _, width, height = view.GetInnerRect()
	return width, height
}

func (t *Terminal) Draw(p Panel, content string) error {
	view, ok := t.views[p]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPanel, p)
	}
	view.SetText(content)
	return nil
}

func (t *Terminal) Show() error {
	t.root.Draw(t.screen)
	t.screen.Show()
	return nil
}

// Restore stops the event pump and returns the terminal to its original
// mode. Calling it more than once is safe.
func (t *Terminal) Restore() error {
	t.restoreOnce.Do(func() {
		close(t.quit)
		select {
		case <-t.done:
		case <-time.After(pumpStopTimeout):
			t.restoreErr = fmt.Errorf("terminal event pump did not stop within %s", pumpStopTimeout)
		}
		t.screen.Fini()
	})
	return t.restoreErr
}
