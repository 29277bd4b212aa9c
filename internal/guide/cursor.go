package guide

// Cursor walks a guide's steps. Moving past either end stays put.
type Cursor struct {
	index int
	total int
}

func NewCursor(total, index int) Cursor {
	c := Cursor{total: total}
	c.index = c.clamp(index)
	return c
}

func (c Cursor) clamp(i int) int {
	if c.total == 0 || i < 0 {
		return 0
	}
	if i >= c.total {
		return c.total - 1
	}
	return i
}

func (c Cursor) Index() int    { return c.index }
func (c Cursor) IsFirst() bool { return c.index == 0 }
func (c Cursor) IsLast() bool  { return c.total == 0 || c.index == c.total-1 }

func (c Cursor) Next() Cursor { return Cursor{index: c.clamp(c.index + 1), total: c.total} }
func (c Cursor) Prev() Cursor { return Cursor{index: c.clamp(c.index - 1), total: c.total} }
