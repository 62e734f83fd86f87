package preview

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dshills/mdpane/internal/scrollsync/lineindex"
	"github.com/dshills/mdpane/internal/scrollsync/poscache"
)

// BlockKind classifies a rendered block.
type BlockKind uint8

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindCode
	KindListItem
	KindQuote
	KindRule
	KindHTML
)

// Span is a run of text in one style.
type Span struct {
	Text  string
	Style tcell.Style
}

// Row is one visual row of a rendered block.
type Row []Span

// Block is one rendered markdown construct: its wrapped styled rows plus
// the source-position annotation identifying the source lines that produced
// it. The annotation has the form "startLine:startCol-endLine:endCol"; only
// the start line is consumed by the sync engine.
type Block struct {
	Kind      BlockKind
	SourcePos string
	Rows      []Row
}

// Renderer turns markdown source into a flat block list. Blocks are emitted
// in document order, so their visual offsets are non-decreasing by
// construction.
type Renderer struct {
	md    goldmark.Markdown
	theme Theme
	index *lineindex.Index
}

// NewRenderer creates a renderer with the given theme.
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		theme: theme,
		index: lineindex.New(),
	}
}

// Render parses src and produces blocks wrapped to the given width.
func (r *Renderer) Render(src string, width int) []Block {
	if width < 1 {
		width = 1
	}
	source := []byte(src)
	r.index.Rebuild(src)

	doc := r.md.Parser().Parse(text.NewReader(source))

	st := &renderState{
		Renderer: r,
		src:      source,
		width:    width,
	}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		st.renderNode(n, 0)
	}
	return st.blocks
}

// renderState accumulates blocks during one Render pass.
type renderState struct {
	*Renderer
	src      []byte
	width    int
	blocks   []Block
	lastLine int
}

func (st *renderState) emit(b Block) {
	if line, ok := poscache.ParseSourcePos(b.SourcePos); ok {
		st.lastLine = line
	}
	// One blank row of bottom margin per block.
	b.Rows = append(b.Rows, Row{})
	st.blocks = append(st.blocks, b)
}

func (st *renderState) renderNode(n ast.Node, depth int) {
	switch node := n.(type) {
	case *ast.Heading:
		spans := st.inlineSpans(node, st.theme.Heading)
		st.emit(Block{
			Kind:      KindHeading,
			SourcePos: st.sourcePos(node),
			Rows:      wrapSpans(spans, st.width),
		})

	case *ast.Paragraph:
		spans := st.inlineSpans(node, st.theme.Text)
		st.emit(Block{
			Kind:      KindParagraph,
			SourcePos: st.sourcePos(node),
			Rows:      wrapSpans(spans, st.width),
		})

	case *ast.FencedCodeBlock:
		lang := string(node.Language(st.src))
		st.emit(Block{
			Kind:      KindCode,
			SourcePos: st.sourcePos(node),
			Rows:      highlightCode(st.blockText(node), lang, st.theme),
		})

	case *ast.CodeBlock:
		st.emit(Block{
			Kind:      KindCode,
			SourcePos: st.sourcePos(node),
			Rows:      plainRows(st.blockText(node), st.theme.CodeBlock),
		})

	case *ast.List:
		st.renderList(node, depth)

	case *ast.Blockquote:
		st.renderQuote(node)

	case *ast.ThematicBreak:
		st.emit(Block{
			Kind:      KindRule,
			SourcePos: poscache.FormatSourcePos(st.lastLine+1, 1, st.lastLine+1, 1),
			Rows:      []Row{{{Text: strings.Repeat("─", st.width), Style: st.theme.Rule}}},
		})

	case *ast.HTMLBlock:
		st.emit(Block{
			Kind:      KindHTML,
			SourcePos: st.sourcePos(node),
			Rows:      plainRows(st.blockText(node), st.theme.CodeBlock),
		})

	default:
		// Unhandled constructs (tables, definition lists) render as their
		// raw source text rather than disappearing.
		if node.Lines() != nil && node.Lines().Len() > 0 {
			st.emit(Block{
				Kind:      KindParagraph,
				SourcePos: st.sourcePos(node),
				Rows:      plainRows(st.blockText(node), st.theme.Text),
			})
		}
	}
}

// renderList emits one block per list item so the position cache gets an
// entry per item rather than one per list.
func (st *renderState) renderList(list *ast.List, depth int) {
	num := list.Start
	if num == 0 {
		num = 1
	}
	indent := strings.Repeat("  ", depth)

	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := indent + "• "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%s%d. ", indent, num)
			num++
		}

		var spans []Span
		var nested []*ast.List
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.List:
				nested = append(nested, c)
			default:
				if len(spans) > 0 {
					spans = append(spans, Span{Text: " ", Style: st.theme.Text})
				}
				spans = append(spans, st.inlineSpans(child, st.theme.Text)...)
			}
		}

		rows := wrapSpans(spans, st.width-displayWidth(marker))
		rows = prefixRows(rows, marker, strings.Repeat(" ", displayWidth(marker)), st.theme.Bullet)
		st.emit(Block{
			Kind:      KindListItem,
			SourcePos: st.nodePos(item),
			Rows:      rows,
		})

		for _, sub := range nested {
			st.renderList(sub, depth+1)
		}
	}
}

// renderQuote emits a blockquote as a single block with a gutter bar.
func (st *renderState) renderQuote(quote *ast.Blockquote) {
	var rows []Row
	for child := quote.FirstChild(); child != nil; child = child.NextSibling() {
		spans := st.inlineSpans(child, st.theme.Quote)
		if len(rows) > 0 {
			rows = append(rows, Row{})
		}
		rows = append(rows, wrapSpans(spans, st.width-2)...)
	}
	rows = prefixRows(rows, "│ ", "│ ", st.theme.Quote)
	st.emit(Block{
		Kind:      KindQuote,
		SourcePos: st.nodePos(quote),
		Rows:      rows,
	})
}

// inlineSpans renders a node's inline children as styled spans. Soft and
// hard line breaks become spaces; the wrapper re-flows to the pane width.
func (st *renderState) inlineSpans(n ast.Node, base tcell.Style) []Span {
	var spans []Span
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		spans = append(spans, st.inlineNode(child, base)...)
	}
	return spans
}

func (st *renderState) inlineNode(n ast.Node, base tcell.Style) []Span {
	switch node := n.(type) {
	case *ast.Text:
		s := string(node.Segment.Value(st.src))
		if node.SoftLineBreak() || node.HardLineBreak() {
			s += " "
		}
		return []Span{{Text: s, Style: base}}

	case *ast.String:
		return []Span{{Text: string(node.Value), Style: base}}

	case *ast.CodeSpan:
		var b strings.Builder
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(st.src))
			}
		}
		return []Span{{Text: b.String(), Style: st.theme.CodeSpan}}

	case *ast.Emphasis:
		style := st.theme.Emphasis
		if node.Level >= 2 {
			style = st.theme.Strong
		}
		return st.inlineChildren(node, style)

	case *ast.Link:
		return st.inlineChildren(node, st.theme.Link)

	case *ast.AutoLink:
		return []Span{{Text: string(node.URL(st.src)), Style: st.theme.Link}}

	case *ast.Image:
		spans := st.inlineChildren(node, st.theme.Link)
		return append([]Span{{Text: "[", Style: st.theme.Link}}, append(spans, Span{Text: "]", Style: st.theme.Link})...)

	case *east.Strikethrough:
		spans := st.inlineChildren(node, base.StrikeThrough(true))
		return spans

	case *ast.RawHTML:
		return nil

	default:
		return st.inlineChildren(n, base)
	}
}

func (st *renderState) inlineChildren(n ast.Node, style tcell.Style) []Span {
	var spans []Span
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		spans = append(spans, st.inlineNode(c, style)...)
	}
	return spans
}

// blockText concatenates a block node's source lines.
func (st *renderState) blockText(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(st.src))
	}
	return b.String()
}

// sourcePos builds the annotation for a node with its own source lines.
func (st *renderState) sourcePos(n ast.Node) string {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return st.nodePos(n)
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)

	startLine := st.index.LineForOffset(first.Start)
	startCol := first.Start - st.index.OffsetForLine(startLine) + 1

	stop := last.Stop
	if stop > 0 {
		stop--
	}
	endLine := st.index.LineForOffset(stop)
	endCol := stop - st.index.OffsetForLine(endLine) + 1

	return poscache.FormatSourcePos(startLine, startCol, endLine, endCol)
}

// nodePos builds the annotation for a container node by searching its
// descendants for the first and last nodes carrying source lines.
func (st *renderState) nodePos(n ast.Node) string {
	firstSeg, lastSeg := containerSegments(n)
	if firstSeg == nil {
		return poscache.FormatSourcePos(st.lastLine+1, 1, st.lastLine+1, 1)
	}

	startLine := st.index.LineForOffset(firstSeg.Start)
	startCol := firstSeg.Start - st.index.OffsetForLine(startLine) + 1

	stop := lastSeg.Stop
	if stop > 0 {
		stop--
	}
	endLine := st.index.LineForOffset(stop)
	endCol := stop - st.index.OffsetForLine(endLine) + 1

	return poscache.FormatSourcePos(startLine, startCol, endLine, endCol)
}

// containerSegments finds the first and last source segments under a node.
func containerSegments(n ast.Node) (first, last *text.Segment) {
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		f := lines.At(0)
		l := lines.At(lines.Len() - 1)
		return &f, &l
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		f, l := containerSegments(child)
		if f != nil {
			if first == nil {
				first = f
			}
			last = l
		}
	}
	return first, last
}

// wrapSpans breaks styled spans into rows no wider than width. Wrapping is
// by character; wide runes count their display width.
func wrapSpans(spans []Span, width int) []Row {
	if width < 1 {
		width = 1
	}

	var rows []Row
	cur := Row{}
	col := 0
	var seg strings.Builder

	for _, sp := range spans {
		for _, r := range sp.Text {
			w := runewidth.RuneWidth(r)
			if col+w > width && col > 0 {
				if seg.Len() > 0 {
					cur = append(cur, Span{Text: seg.String(), Style: sp.Style})
					seg.Reset()
				}
				rows = append(rows, cur)
				cur = Row{}
				col = 0
				if r == ' ' {
					continue // swallow the break-point space
				}
			}
			seg.WriteRune(r)
			col += w
		}
		if seg.Len() > 0 {
			cur = append(cur, Span{Text: seg.String(), Style: sp.Style})
			seg.Reset()
		}
	}
	rows = append(rows, cur)
	return rows
}

// prefixRows prepends a marker to the first row and a continuation prefix
// to the rest.
func prefixRows(rows []Row, first, rest string, style tcell.Style) []Row {
	if len(rows) == 0 {
		rows = []Row{{}}
	}
	out := make([]Row, len(rows))
	for i, row := range rows {
		p := rest
		if i == 0 {
			p = first
		}
		out[i] = append(Row{{Text: p, Style: style}}, row...)
	}
	return out
}

func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}
