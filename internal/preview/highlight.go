package preview

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

// highlightCode tokenizes a fenced code block and returns one styled row
// per source line. Unknown languages and tokenizer failures fall back to
// the theme's plain code style; highlighting is cosmetic and must never
// fail a render.
func highlightCode(code, lang string, theme Theme) []Row {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(theme.CodeStyle)
	if style == nil {
		style = styles.Fallback
	}

	iter, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainRows(code, theme.CodeBlock)
	}

	var rows []Row
	current := Row{}
	for tok := iter(); tok != chroma.EOF; tok = iter() {
		st := tokenStyle(style, tok.Type, theme.CodeBlock)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				rows = append(rows, current)
				current = Row{}
			}
			if part != "" {
				current = append(current, Span{Text: part, Style: st})
			}
		}
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}
	return rows
}

// tokenStyle maps a chroma token type to a tcell style, keeping the theme's
// code-block style for tokens the chroma style says nothing about.
func tokenStyle(style *chroma.Style, t chroma.TokenType, fallback tcell.Style) tcell.Style {
	entry := style.Get(t)
	st := fallback
	if entry.Colour.IsSet() {
		st = st.Foreground(tcell.NewRGBColor(
			int32(entry.Colour.Red()),
			int32(entry.Colour.Green()),
			int32(entry.Colour.Blue()),
		))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	return st
}

// plainRows splits code into unstyled rows.
func plainRows(code string, st tcell.Style) []Row {
	lines := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			rows = append(rows, Row{})
			continue
		}
		rows = append(rows, Row{{Text: line, Style: st}})
	}
	return rows
}
