package app

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// Text editing in the source pane. Every mutation goes through the buffer,
// whose change callback rebuilds the line index, re-renders the preview,
// and rebuilds the position cache; the sync engine then keeps the preview
// following the edit point like any other scroll.

func (app *Application) insertText(s string) {
	if s == "" {
		return
	}
	app.buffer.Insert(app.cursor, s)
	app.cursor += len(s)
	app.modified = true
	app.editorView.MakeOffsetVisible(app.cursor)
}

func (app *Application) deleteBack() {
	if app.cursor <= 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(app.buffer.Text()[:app.cursor])
	app.buffer.Delete(app.cursor-size, app.cursor)
	app.cursor -= size
	app.modified = true
	app.editorView.MakeOffsetVisible(app.cursor)
}

func (app *Application) deleteForward() {
	text := app.buffer.Text()
	if app.cursor >= len(text) {
		return
	}
	_, size := utf8.DecodeRuneInString(text[app.cursor:])
	app.buffer.Delete(app.cursor, app.cursor+size)
	app.modified = true
}

// moveCursor moves the cursor by a rune delta, clamped to the buffer, and
// scrolls the minimum needed to keep it visible.
func (app *Application) moveCursor(delta int) {
	text := app.buffer.Text()
	for delta > 0 && app.cursor < len(text) {
		_, size := utf8.DecodeRuneInString(text[app.cursor:])
		app.cursor += size
		delta--
	}
	for delta < 0 && app.cursor > 0 {
		_, size := utf8.DecodeLastRuneInString(text[:app.cursor])
		app.cursor -= size
		delta++
	}
	app.editorView.MakeOffsetVisible(app.cursor)
}

// SaveDocument writes the buffer back to the document path.
func (app *Application) SaveDocument() error {
	if app.docPath == "" {
		return ErrNoDocument
	}
	if err := os.WriteFile(app.docPath, []byte(app.buffer.Text()), 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", app.docPath, err)
	}
	app.modified = false
	app.logger.Info("saved %s (%d bytes)", app.docPath, app.buffer.Len())
	return nil
}
