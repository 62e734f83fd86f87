// Package editor implements the source pane: a plain-text buffer, a
// soft-wrapping text view, and the pane adapter that keeps the view in sync
// with the rendered preview.
package editor

// Buffer holds the document text. Mutations are whole-range splices over a
// byte slice; after every mutation the change callback fires so the owning
// adapter can rebuild its line index and the application can re-render the
// preview. Offsets are byte offsets into UTF-8 text.
type Buffer struct {
	text     []byte
	onChange func()
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// OnChange registers the content-change callback. Only one callback is
// supported; later registrations replace earlier ones.
func (b *Buffer) OnChange(fn func()) {
	b.onChange = fn
}

// SetText replaces the entire content. Used for initial load and external
// reload.
func (b *Buffer) SetText(s string) {
	b.text = append(b.text[:0], s...)
	b.notify()
}

// Insert splices s in at the given byte offset. Out-of-range offsets are
// clamped to the buffer bounds.
func (b *Buffer) Insert(off int, s string) {
	if s == "" {
		return
	}
	off = b.clamp(off)
	b.text = append(b.text[:off], append([]byte(s), b.text[off:]...)...)
	b.notify()
}

// Delete removes the bytes in [start, end). Bounds are clamped; an empty or
// inverted range is a no-op.
func (b *Buffer) Delete(start, end int) {
	start = b.clamp(start)
	end = b.clamp(end)
	if start >= end {
		return
	}
	b.text = append(b.text[:start], b.text[end:]...)
	b.notify()
}

// Text returns the full content as a string.
func (b *Buffer) Text() string {
	return string(b.text)
}

// Len returns the content length in bytes.
func (b *Buffer) Len() int {
	return len(b.text)
}

func (b *Buffer) clamp(off int) int {
	if off < 0 {
		return 0
	}
	if off > len(b.text) {
		return len(b.text)
	}
	return off
}

func (b *Buffer) notify() {
	if b.onChange != nil {
		b.onChange()
	}
}
