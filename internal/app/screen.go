package app

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/mdpane/internal/scrollsync"
)

// splitColumn returns the divider column between the panes.
func (app *Application) splitColumn() int {
	w, _ := app.screen.Size()
	return w / 2
}

// resize relayouts both panes and re-renders the preview for its new
// width. A reflow invalidates every cached visual offset, so the cache is
// rebuilt immediately after.
func (app *Application) resize(w, h int) {
	contentH := h - 1 // status bar
	if contentH < 1 {
		contentH = 1
	}
	split := w / 2

	app.editorView.SetSize(split, contentH)
	app.previewView.SetHeight(contentH)

	pw := w - split - 1
	if pw < 1 {
		pw = 1
	}
	if pw != app.previewWidth {
		app.previewWidth = pw
		app.previewView.SetBlocks(app.renderer.Render(app.buffer.Text(), pw))
		app.previewAdapter.RebuildCache()
	}
}

// draw repaints both panes and the status bar.
func (app *Application) draw() {
	if app.screen == nil {
		return
	}
	w, h := app.screen.Size()
	contentH := h - 1
	split := w / 2

	app.screen.Clear()
	app.drawEditor(split, contentH)
	app.drawDivider(split, contentH)
	app.drawPreview(split+1, w-split-1, contentH)
	app.drawStatus(w, h-1)
	app.drawCursor(split, contentH)
	app.screen.Show()
}

func (app *Application) drawEditor(width, height int) {
	style := tcell.StyleDefault
	top := app.editorView.TopRow()
	for i := 0; i < height; i++ {
		app.drawText(0, i, width, app.editorView.RowContent(top+i), style)
	}
}

func (app *Application) drawDivider(x, height int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for y := 0; y < height; y++ {
		app.screen.SetContent(x, y, '│', nil, style)
	}
}

func (app *Application) drawPreview(x, width, height int) {
	rows := app.previewView.VisibleRows()
	for i := 0; i < height && i < len(rows); i++ {
		col := x
		for _, span := range rows[i] {
			col = app.drawText(col, i, x+width-col, span.Text, span.Style)
			if col >= x+width {
				break
			}
		}
	}
}

// drawCursor shows the terminal cursor at the edit point when the editor
// pane has focus and the point is on screen.
func (app *Application) drawCursor(split, height int) {
	if app.focus != scrollsync.PaneEditor {
		app.screen.HideCursor()
		return
	}
	row, col := app.editorView.OffsetPosition(app.cursor)
	top := app.editorView.TopRow()
	if row < top || row >= top+height || col >= split {
		app.screen.HideCursor()
		return
	}
	app.screen.ShowCursor(col, row-top)
}

func (app *Application) drawStatus(width, y int) {
	style := tcell.StyleDefault.Reverse(true)

	name := "[no document]"
	if app.docPath != "" {
		name = filepath.Base(app.docPath)
	}
	if app.modified {
		name += " *"
	}
	focus := "editor"
	if app.focus == scrollsync.PanePreview {
		focus = "preview"
	}
	left := fmt.Sprintf(" %s  line %d  focus:%s", name, app.editorAdapter.TopLine(), focus)

	stats := app.coord.Stats()
	right := fmt.Sprintf("sync %d  echo %d ", stats.ScrollsApplied, stats.EchoesDropped)

	for x := 0; x < width; x++ {
		app.screen.SetContent(x, y, ' ', nil, style)
	}
	app.drawText(0, y, width, left, style)
	rw := displayWidth(right)
	if rw < width {
		app.drawText(width-rw, y, rw, right, style)
	}
}

// drawText draws s at (x, y) clipped to max columns, returning the column
// after the last cell written.
func (app *Application) drawText(x, y, max int, s string, style tcell.Style) int {
	limit := x + max
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		if x+w > limit {
			break
		}
		app.screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}
