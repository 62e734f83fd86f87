package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// OpenDocument loads a markdown file into both panes and resets all sync
// state. Any stale reports from the previous document are discarded.
func (app *Application) OpenDocument(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	app.docPath = abs
	app.cursor = 0
	app.modified = false
	app.buffer.SetText(string(data))
	app.resetSync()

	if app.watcher != nil {
		if err := app.watcher.Watch(abs); err != nil {
			app.logger.Warn("watching %s: %v", abs, err)
		}
	}

	app.logger.Info("opened %s (%d bytes)", abs, len(data))
	return nil
}

// ReloadDocument re-reads the current document from disk, typically after
// the file watcher noticed an external change. The viewport resets along
// with the sync state; content may have moved arbitrarily.
func (app *Application) ReloadDocument() error {
	if app.docPath == "" {
		return ErrNoDocument
	}
	data, err := os.ReadFile(app.docPath)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", app.docPath, err)
	}

	// Saving from this process also trips the watcher; an identical file is
	// not a reload and must not reset the viewport.
	if string(data) == app.buffer.Text() {
		return nil
	}

	app.cursor = 0
	app.modified = false
	app.buffer.SetText(string(data))
	app.resetSync()

	app.logger.Info("reloaded %s (%d bytes)", app.docPath, len(data))
	return nil
}

// resetSync clears coordinator state and drains queued reports so positions
// from the old content cannot scroll the new one.
func (app *Application) resetSync() {
	app.coord.Reset()
	app.queue.Drain()
	app.editorView.ScrollTo(0)
	app.previewView.SetScrollOffset(0)
	// Those viewport resets may have fired scroll notifications; clear
	// again so the document opens with no pending sync.
	app.coord.Reset()
	app.queue.Drain()
}

// DocPath returns the absolute path of the open document, or "".
func (app *Application) DocPath() string {
	return app.docPath
}
