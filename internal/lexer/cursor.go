package lexer

import (
	"fmt"

	"snep/internal/source"

	"fortio.org/safecast"
)

// Cursor is a byte offset into the input together with its row/column location.
type Cursor struct {
	src   []byte
	Off   uint32
	Loc   source.Loc
	limit uint32
}

// NewCursor creates a cursor at the first byte of src, located at start.
func NewCursor(src []byte, start source.Loc) Cursor {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		panic(fmt.Errorf("len content overflow: %w", err))
	}
	return Cursor{src: src, Loc: start, limit: limit}
}

// EOF проверяет, достигнут ли конец входа
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.src[c.Off]
	c.Off++
	c.Loc = c.Loc.Advance(b)
	return b
}

// Skip consumes n bytes, stopping early at the end of input.
func (c *Cursor) Skip(n int) {
	for ; n > 0 && !c.EOF(); n-- {
		c.Bump()
	}
}

// Rest returns the unread part of the input.
func (c *Cursor) Rest() []byte {
	return c.src[c.Off:c.limit]
}
