package guide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor_ClampsAtBothEnds(t *testing.T) {
	c := NewCursor(4, 0)
	assert.True(t, c.IsFirst())
	assert.Equal(t, 0, c.Prev().Index())

	c = c.Next().Next().Next()
	assert.Equal(t, 3, c.Index())
	assert.True(t, c.IsLast())
	assert.Equal(t, 3, c.Next().Index())
	assert.Equal(t, 2, c.Prev().Index())
}

func TestNewCursor_ClampsStart(t *testing.T) {
	assert.Equal(t, 0, NewCursor(4, -3).Index())
	assert.Equal(t, 3, NewCursor(4, 10).Index())
	assert.Equal(t, 0, NewCursor(0, 2).Index())
	assert.True(t, NewCursor(1, 0).IsLast())
}
