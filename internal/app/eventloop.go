package app

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mdpane/internal/scrollsync"
)

// Run initializes the terminal and drives the main event loop until quit or
// Shutdown. Terminal events, frame ticks, preview reports, and file-change
// notifications all funnel into this loop; no engine state is touched from
// anywhere else.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	if app.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return &InitError{Component: "screen", Err: err}
		}
		if err := s.Init(); err != nil {
			return &InitError{Component: "screen", Err: err}
		}
		app.screen = s
	}
	app.screen.EnableMouse()

	w, h := app.screen.Size()
	app.resize(w, h)

	events := app.startEventPolling()
	var watchC <-chan struct{}
	if app.watcher != nil {
		watchC = app.watcher.C()
	}

	app.draw()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
			app.draw()

		case <-app.frameTicks:
			app.coord.OnFrameTick()
			app.draw()

		case line := <-app.queue.C():
			app.previewAdapter.HandleReport(line)

		case <-watchC:
			if err := app.ReloadDocument(); err != nil {
				app.logger.Error("reload failed: %v", err)
			}
			app.draw()

		case <-app.done:
			return nil
		}
	}
}

// startEventPolling polls the terminal from its own goroutine. PollEvent
// returns nil once the screen is finalized, which closes the channel and
// lets Run exit.
func (app *Application) startEventPolling() <-chan tcell.Event {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()
	return events
}

// handleEvent routes a terminal event. Returns ErrQuit to exit.
func (app *Application) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		app.resize(w, h)
		app.screen.Sync()
		return nil
	case *tcell.EventKey:
		return app.handleKey(ev)
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	default:
		return nil
	}
}

// handleKey routes keyboard input. With the editor pane focused, printable
// runes edit the source; preview-pane focus gets vi-style navigation runes.
// Control keys work in both panes.
func (app *Application) handleKey(ev *tcell.EventKey) error {
	editing := app.focus == scrollsync.PaneEditor

	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ, tcell.KeyEscape:
		return ErrQuit
	case tcell.KeyTab:
		app.focus = app.focus.Other()
		return nil
	case tcell.KeyCtrlS:
		if err := app.SaveDocument(); err != nil && !errors.Is(err, ErrNoDocument) {
			app.logger.Error("save failed: %v", err)
		}
		return nil
	case tcell.KeyUp:
		app.scrollFocused(-1)
		return nil
	case tcell.KeyDown:
		app.scrollFocused(1)
		return nil
	case tcell.KeyPgUp:
		app.scrollFocused(-app.pageSize())
		return nil
	case tcell.KeyPgDn:
		app.scrollFocused(app.pageSize())
		return nil
	case tcell.KeyHome:
		app.scrollFocused(-1 << 30)
		return nil
	case tcell.KeyEnd:
		app.scrollFocused(1 << 30)
		return nil
	case tcell.KeyLeft:
		if editing {
			app.moveCursor(-1)
		}
		return nil
	case tcell.KeyRight:
		if editing {
			app.moveCursor(1)
		}
		return nil
	case tcell.KeyEnter:
		if editing {
			app.insertText("\n")
		}
		return nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if editing {
			app.deleteBack()
		}
		return nil
	case tcell.KeyDelete:
		if editing {
			app.deleteForward()
		}
		return nil
	case tcell.KeyRune:
		if editing {
			app.insertText(string(ev.Rune()))
			return nil
		}
		return app.handleNavRune(ev.Rune())
	default:
		return nil
	}
}

func (app *Application) handleNavRune(r rune) error {
	switch r {
	case 'q':
		return ErrQuit
	case 'j':
		app.scrollFocused(1)
	case 'k':
		app.scrollFocused(-1)
	case 'g':
		app.scrollFocused(-1 << 30)
	case 'G':
		app.scrollFocused(1 << 30)
	case 'r':
		if err := app.ReloadDocument(); err != nil && !errors.Is(err, ErrNoDocument) {
			app.logger.Error("reload failed: %v", err)
		}
	case 'w':
		app.cfg.Editor.Wrap = !app.cfg.Editor.Wrap
		app.editorView.SetWrap(app.cfg.Editor.Wrap)
	}
	return nil
}

func (app *Application) handleMouse(ev *tcell.EventMouse) error {
	var delta int
	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		delta = -3
	case ev.Buttons()&tcell.WheelDown != 0:
		delta = 3
	default:
		return nil
	}

	// The wheel scrolls the pane under the pointer, not the focused one.
	x, _ := ev.Position()
	if x < app.splitColumn() {
		app.editorView.ScrollBy(delta)
	} else {
		app.previewView.ScrollBy(float64(delta))
	}
	return nil
}

// scrollFocused scrolls the focused pane by a row delta. The resulting
// scroll notification feeds the sync engine exactly as a toolkit scrollbar
// event would.
func (app *Application) scrollFocused(rows int) {
	if app.focus == scrollsync.PaneEditor {
		app.editorView.ScrollBy(rows)
	} else {
		app.previewView.ScrollBy(float64(rows))
	}
}

func (app *Application) pageSize() int {
	h := app.editorView.Height() - 1
	if h < 1 {
		h = 1
	}
	return h
}
