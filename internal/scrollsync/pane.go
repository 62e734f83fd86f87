package scrollsync

// Pane identifies one of the two participating views.
type Pane uint8

const (
	// PaneNone means no pane; the zero value.
	PaneNone Pane = iota
	// PaneEditor is the plain-text source pane.
	PaneEditor
	// PanePreview is the rendered markdown pane.
	PanePreview
)

// String returns the pane name for logs.
func (p Pane) String() string {
	switch p {
	case PaneEditor:
		return "editor"
	case PanePreview:
		return "preview"
	default:
		return "none"
	}
}

// Other returns the opposite pane. PaneNone has no opposite.
func (p Pane) Other() Pane {
	switch p {
	case PaneEditor:
		return PanePreview
	case PanePreview:
		return PaneEditor
	default:
		return PaneNone
	}
}

// Adapter is the coordinator's view of a pane. ApplyScroll resolves the
// target source line into the pane's own coordinate space and scrolls the
// underlying view there. Implementations must arm their one-shot
// self-report suppression before touching the view, and must degrade to a
// no-op when their cache cannot resolve the line.
type Adapter interface {
	ApplyScroll(line int)
}
