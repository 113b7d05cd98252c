package widgets

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

var plain = map[Ink]rune{
	InkCorner: '.',
	InkTrail:  '*',
	InkPoint:  'o',
	InkPlayed: '@',
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(5, 3)
	c.Line(0, 0, 4, 2, InkTrail)

	assert.Equal(t, "*    \n **  \n   **", c.String(plain))
}

func TestCanvasLineIsSymmetric(t *testing.T) {
	a := NewCanvas(9, 9)
	a.Line(1, 7, 6, 2, InkTrail)
	b := NewCanvas(9, 9)
	b.Line(6, 2, 1, 7, InkTrail)
	assert.Equal(t, a.String(plain), b.String(plain))

	// a 45 degree diagonal touches exactly one cell per row
	for y := 2; y <= 7; y++ {
		assert.Equal(t, InkTrail, a.At(8-y, y))
	}
}

func TestCanvasInkPriority(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Set(1, 0, InkPoint)
	c.Line(0, 0, 2, 0, InkTrail)
	c.Set(2, 0, InkCorner)

	assert.Equal(t, "*o*", c.String(plain))
	assert.Equal(t, InkPoint, c.At(1, 0))
}

func TestCanvasIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0, InkPoint)
	c.Set(2, 1, InkPoint)
	c.Line(-3, -3, 5, 5, InkTrail)

	assert.Equal(t, "* \n *", c.String(plain))
	assert.Equal(t, InkNone, c.At(9, 9))
}

func TestRenderBar(t *testing.T) {
	s := lipgloss.NewStyle()
	assert.Equal(t, "##---", RenderBar(2, 5, '#', '-', s, s))
	assert.Equal(t, "-----", RenderBar(-1, 5, '#', '-', s, s))
	assert.Equal(t, "#####", RenderBar(9, 5, '#', '-', s, s))
}

func TestPadLine(t *testing.T) {
	assert.Equal(t, "ab   ", PadLine("ab", 5))
	assert.Equal(t, "abcdef", PadLine("abcdef", 3))
}
