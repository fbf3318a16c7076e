package sink

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/noisering/pkg/errors"
	"github.com/matzehuels/noisering/pkg/hsb"
	"github.com/matzehuels/noisering/pkg/render"
)

var _ render.Canvas = (*Terminal)(nil)

// halfBlock shows the top pixel as foreground and the bottom one as
// background.
const halfBlock = "▀"

// TerminalOption configures a [Terminal].
type TerminalOption func(*Terminal)

// WithRenderer sets the lipgloss renderer used to style cells, which
// decides the color profile of the output. The default renderer follows
// stdout.
func WithRenderer(re *lipgloss.Renderer) TerminalOption {
	return func(t *Terminal) { t.renderer = re }
}

// Terminal rasterizes the sketch into a cols × rows character grid of
// half-block cells.
type Terminal struct {
	cols, rows int
	sx, sy     float64
	mode       hsb.Mode
	renderer   *lipgloss.Renderer

	pixels []lipgloss.Color // cols × 2·rows, row-major
	stroke lipgloss.Color

	first, last cell
	open        bool

	styles map[[2]lipgloss.Color]lipgloss.Style
}

type cell struct{ x, y int }

// NewTerminal returns a terminal canvas of cols × rows character cells.
func NewTerminal(cols, rows int, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		cols:     cols,
		rows:     rows,
		mode:     hsb.DefaultMode,
		renderer: lipgloss.DefaultRenderer(),
		stroke:   lipgloss.Color("#000000"),
		styles:   make(map[[2]lipgloss.Color]lipgloss.Style),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CreateCanvas scales a w × h sketch onto the character grid.
func (t *Terminal) CreateCanvas(w, h int) error {
	if w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas must be at least 1x1 pixels, got %dx%d", w, h)
	}
	if t.cols <= 0 || t.rows <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "terminal must be at least 1x1 cells, got %dx%d", t.cols, t.rows)
	}
	t.sx = float64(t.cols) / float64(w)
	t.sy = float64(2*t.rows) / float64(h)
	t.pixels = make([]lipgloss.Color, t.cols*2*t.rows)
	return nil
}

// ColorMode sets the ranges used to read later colors.
func (t *Terminal) ColorMode(m hsb.Mode) { t.mode = m }

// Background paints every cell pixel with c.
func (t *Terminal) Background(c hsb.Color) {
	bg := t.mode.Lipgloss(c)
	for i := range t.pixels {
		t.pixels[i] = bg
	}
}

// NoFill is a no-op: the terminal only draws outlines.
func (t *Terminal) NoFill() {}

// Stroke sets the color of plotted lines.
func (t *Terminal) Stroke(c hsb.Color) { t.stroke = t.mode.Lipgloss(c) }

// StrokeWeight is ignored: lines are always one cell pixel wide.
func (t *Terminal) StrokeWeight(float64) {}

// MoveTo starts a new polyline at the cell under (x, y).
func (t *Terminal) MoveTo(x, y float64) {
	t.first = t.toCell(x, y)
	t.last = t.first
	t.open = true
	t.plot(t.first.x, t.first.y)
}

// LineTo plots a line from the last cell to the cell under (x, y).
func (t *Terminal) LineTo(x, y float64) {
	next := t.toCell(x, y)
	if !t.open {
		t.first, t.last, t.open = next, next, true
	}
	t.line(t.last, next)
	t.last = next
}

// ClosePath joins the polyline back to its first cell.
func (t *Terminal) ClosePath() {
	if t.open {
		t.line(t.last, t.first)
	}
	t.open = false
}

// Size returns the grid extent in cell pixels: cols wide and 2·rows high.
func (t *Terminal) Size() (w, h int) { return t.cols, 2 * t.rows }

// Pixel returns the color of cell pixel (x, y), or "" outside the grid or
// before CreateCanvas.
func (t *Terminal) Pixel(x, y int) lipgloss.Color {
	if t.pixels == nil || x < 0 || y < 0 || x >= t.cols || y >= 2*t.rows {
		return ""
	}
	return t.pixels[y*t.cols+x]
}

// String renders the grid, one text line per character row. Horizontal runs
// of identical cells share one styled span.
func (t *Terminal) String() string {
	if t.pixels == nil {
		return ""
	}
	var sb strings.Builder
	for row := 0; row < t.rows; row++ {
		top := t.pixels[2*row*t.cols : (2*row+1)*t.cols]
		bottom := t.pixels[(2*row+1)*t.cols : (2*row+2)*t.cols]
		for x := 0; x < t.cols; {
			start := x
			fg, bg := top[x], bottom[x]
			for x < t.cols && top[x] == fg && bottom[x] == bg {
				x++
			}
			sb.WriteString(t.style(fg, bg).Render(strings.Repeat(halfBlock, x-start)))
		}
		if row < t.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (t *Terminal) style(fg, bg lipgloss.Color) lipgloss.Style {
	key := [2]lipgloss.Color{fg, bg}
	if s, ok := t.styles[key]; ok {
		return s
	}
	s := t.renderer.NewStyle().Foreground(fg).Background(bg)
	t.styles[key] = s
	return s
}

func (t *Terminal) toCell(x, y float64) cell {
	return cell{x: int(x * t.sx), y: int(y * t.sy)}
}

func (t *Terminal) plot(x, y int) {
	if t.pixels == nil || x < 0 || y < 0 || x >= t.cols || y >= 2*t.rows {
		return
	}
	t.pixels[y*t.cols+x] = t.stroke
}

// line plots the cells between a and b with Bresenham's algorithm.
func (t *Terminal) line(a, b cell) {
	dx, dy := abs(b.x-a.x), -abs(b.y-a.y)
	sx, sy := sign(b.x-a.x), sign(b.y-a.y)
	e := dx + dy
	x, y := a.x, a.y
	for {
		t.plot(x, y)
		if x == b.x && y == b.y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
