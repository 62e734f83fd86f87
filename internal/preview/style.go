// Package preview implements the rendered pane: a markdown block renderer,
// a scrollable block view, and the pane adapter that keeps the view in sync
// with the plain-text source.
package preview

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the styles used by the block renderer.
type Theme struct {
	Text      tcell.Style
	Heading   tcell.Style
	Emphasis  tcell.Style
	Strong    tcell.Style
	CodeSpan  tcell.Style
	CodeBlock tcell.Style
	Link      tcell.Style
	Quote     tcell.Style
	Bullet    tcell.Style
	Rule      tcell.Style

	// CodeStyle names the chroma style used for fenced code highlighting.
	CodeStyle string
}

// DefaultTheme returns the built-in theme. Quote and rule shades are
// derived by blending the foreground toward the background so they read as
// de-emphasized on both dark and light terminals.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	fg, _ := colorful.Hex("#c8c8c8")
	bg, _ := colorful.Hex("#1c1c1c")
	dim := fg.BlendLab(bg, 0.45)
	faint := fg.BlendLab(bg, 0.7)

	return Theme{
		Text:      base,
		Heading:   base.Bold(true).Foreground(tcell.ColorAqua),
		Emphasis:  base.Italic(true),
		Strong:    base.Bold(true),
		CodeSpan:  base.Foreground(tcell.ColorYellow),
		CodeBlock: base.Foreground(tcell.ColorSilver),
		Link:      base.Underline(true).Foreground(tcell.ColorBlue),
		Quote:     base.Foreground(tcell.GetColor(dim.Hex())),
		Bullet:    base.Foreground(tcell.ColorFuchsia),
		Rule:      base.Foreground(tcell.GetColor(faint.Hex())),
		CodeStyle: "monokai",
	}
}
