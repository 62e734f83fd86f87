// Package app wires the mdpane components together and runs the main event
// loop. Everything the sync engine touches is mutated from that single
// loop; goroutines (the frame clock, the terminal poller, the file watcher)
// only post into its channels.
package app

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mdpane/internal/config"
	"github.com/dshills/mdpane/internal/editor"
	"github.com/dshills/mdpane/internal/preview"
	"github.com/dshills/mdpane/internal/scrollsync"
)

// Application is the central coordinator for all mdpane components.
type Application struct {
	cfg    config.Config
	logger *Logger
	opts   Options

	screen tcell.Screen

	// Editor pane
	buffer        *editor.Buffer
	editorView    *editor.View
	editorAdapter *editor.Adapter

	// Preview pane
	renderer       *preview.Renderer
	previewView    *preview.View
	previewAdapter *preview.Adapter
	previewWidth   int

	// Sync engine
	coord      *scrollsync.Coordinator
	clock      *scrollsync.TickerClock
	queue      *scrollsync.ReportQueue
	frameTicks chan struct{}

	// Document
	docPath  string
	modified bool
	watcher  *fileWatcher

	// cursor is a byte offset into the buffer; only meaningful while the
	// editor pane has focus.
	cursor int

	focus scrollsync.Pane

	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
	logFile  *os.File
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty means the
	// default location.
	ConfigPath string

	// File is the markdown document to open on startup.
	File string

	// LogLevel overrides the configured logging verbosity when non-empty.
	LogLevel string
}

// New creates an Application with the given options. The terminal screen is
// not touched until Run.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:       opts,
		done:       make(chan struct{}),
		frameTicks: make(chan struct{}, 1),
		focus:      scrollsync.PaneEditor,
	}

	if err := app.bootstrap(); err != nil {
		return nil, err
	}

	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	path := app.opts.ConfigPath
	if path == "" {
		path = os.Getenv("MDPANE_CONFIG")
	}
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if app.opts.LogLevel != "" {
		cfg.Log.Level = app.opts.LogLevel
	}
	app.cfg = cfg

	if err := app.initLogger(); err != nil {
		return &InitError{Component: "logger", Err: err}
	}

	// Sync engine. The clock's goroutine posts ticks into frameTicks; the
	// event loop calls OnFrameTick so the coordinator stays single-threaded.
	interval := time.Second / time.Duration(cfg.Sync.FrameRate)
	app.clock = scrollsync.NewTickerClock(interval, app.postFrameTick)
	app.coord = scrollsync.NewCoordinator(app.clock,
		scrollsync.WithSuppressionWindow(time.Duration(cfg.Sync.SuppressWindowMS)*time.Millisecond))
	app.queue = scrollsync.NewReportQueue(cfg.Sync.ReportQueueSize)

	// Editor pane. Sized properly on the first resize event.
	app.buffer = editor.NewBuffer()
	app.editorView = editor.NewView(80, 24)
	app.editorView.SetWrap(cfg.Editor.Wrap)
	app.editorView.SetTabWidth(cfg.Editor.TabWidth)
	app.editorAdapter = editor.NewAdapter(app.editorView, app.coord.Report)

	// Preview pane. Its scroll reports arrive through the queue, the
	// editor's are delivered synchronously from the loop itself.
	theme := preview.DefaultTheme()
	theme.CodeStyle = cfg.Preview.CodeTheme
	app.renderer = preview.NewRenderer(theme)
	app.previewView = preview.NewView(24)
	app.previewWidth = 80
	app.previewAdapter = preview.NewAdapter(app.previewView, app.queue, app.coord.Report)

	app.coord.Attach(app.editorAdapter, app.previewAdapter)
	app.buffer.OnChange(app.onBufferChange)

	app.watcher, err = newFileWatcher(app.logger.WithComponent("watcher"))
	if err != nil {
		// A previewer without live reload still works; degrade and log.
		app.logger.Warn("file watching unavailable: %v", err)
		app.watcher = nil
	}

	if app.opts.File != "" {
		if err := app.OpenDocument(app.opts.File); err != nil {
			return &InitError{Component: "document", Err: err}
		}
	}

	return nil
}

func (app *Application) initLogger() error {
	var w io.Writer = io.Discard
	if app.cfg.Log.File != "" {
		f, err := os.OpenFile(app.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		app.logFile = f
		w = f
	}
	app.logger = NewLogger(w, ParseLogLevel(app.cfg.Log.Level))
	return nil
}

// postFrameTick delivers a clock tick to the event loop. Called from the
// clock goroutine; drops the tick if one is already queued, the next flush
// covers both.
func (app *Application) postFrameTick() {
	select {
	case app.frameTicks <- struct{}{}:
	default:
	}
}

// onBufferChange re-derives everything downstream of the source text: the
// editor's line index and layout, the rendered blocks, and the position
// cache.
func (app *Application) onBufferChange() {
	text := app.buffer.Text()
	app.editorView.SetText(text)
	app.editorAdapter.OnContentChanged(text)

	blocks := app.renderer.Render(text, app.previewWidth)
	app.previewView.SetBlocks(blocks)
	app.previewAdapter.RebuildCache()
}

// Coordinator exposes the sync coordinator, primarily for the status bar.
func (app *Application) Coordinator() *scrollsync.Coordinator {
	return app.coord
}

// Shutdown stops background goroutines and releases the terminal. Safe to
// call multiple times and from any goroutine.
func (app *Application) Shutdown() {
	app.doneOnce.Do(func() {
		app.running.Store(false)
		close(app.done)
		app.clock.Stop()
		if app.watcher != nil {
			app.watcher.Close()
		}
		if app.screen != nil {
			app.screen.Fini()
		}
		if app.logFile != nil {
			app.logFile.Close()
		}
	})
}
