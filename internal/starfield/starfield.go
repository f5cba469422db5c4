// Package starfield draws a twinkling star background for the terminal UI.
//
// A Field owns a set of stars sized to the terminal grid. Each frame advances
// every star's twinkle phase; Row renders one line of the grid so callers can
// fill whatever space their own content leaves free.
package starfield

import (
	"math"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultDensity is the number of grid cells per star.
const DefaultDensity = 40

// DefaultInterval is the default frame interval.
const DefaultInterval = 80 * time.Millisecond

// Star is one point of light.
type Star struct {
	X, Y    int
	Radius  float64 // [0, 1.2)
	Base    float64 // base opacity, [0.2, 0.7)
	Speed   float64 // phase advance per frame, [0.005, 0.025)
	Phase   float64 // [0, 2π)
	Opacity float64 // current opacity, [0, Base]
}

// advance moves the star one frame forward.
func (s *Star) advance() {
	s.Phase += s.Speed
	if s.Phase >= 2*math.Pi {
		s.Phase -= 2 * math.Pi
	}
	s.Opacity = s.Base * (0.5 + 0.5*math.Sin(s.Phase))
}

// FrameMsg advances the field that scheduled it.
type FrameMsg struct {
	id  int
	tag int
}

var lastID atomic.Int64

// Field is the star layer. The zero value is not usable; call New.
type Field struct {
	id       int
	tag      int
	interval time.Duration
	density  int
	rng      *rand.Rand
	stopped  bool

	width, height int
	stars         []Star
	grid          map[int]int // y*width+x -> index into stars
}

// Option configures a Field.
type Option func(*Field)

// WithDensity sets the number of cells per star.
func WithDensity(cells int) Option {
	return func(f *Field) {
		if cells > 0 {
			f.density = cells
		}
	}
}

// WithInterval sets the frame interval.
func WithInterval(d time.Duration) Option {
	return func(f *Field) {
		if d > 0 {
			f.interval = d
		}
	}
}

// WithSeed makes star placement deterministic.
func WithSeed(seed uint64) Option {
	return func(f *Field) {
		f.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// New creates an empty field. Call Resize before rendering.
func New(opts ...Option) *Field {
	f := &Field{
		id:       int(lastID.Add(1)),
		interval: DefaultInterval,
		density:  DefaultDensity,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return f
}

// Resize regenerates the stars for a width x height grid.
func (f *Field) Resize(width, height int) {
	f.width, f.height = max(width, 0), max(height, 0)
	n := f.width * f.height / f.density
	f.stars = make([]Star, 0, n)
	f.grid = make(map[int]int, n)
	for range n {
		s := Star{
			X:      f.rng.IntN(f.width),
			Y:      f.rng.IntN(f.height),
			Radius: f.rng.Float64() * 1.2,
			Base:   0.2 + f.rng.Float64()*0.5,
			Speed:  0.005 + f.rng.Float64()*0.02,
			Phase:  f.rng.Float64() * 2 * math.Pi,
		}
		s.Opacity = s.Base * (0.5 + 0.5*math.Sin(s.Phase))
		f.grid[s.Y*f.width+s.X] = len(f.stars)
		f.stars = append(f.stars, s)
	}
}

// Size returns the current grid dimensions.
func (f *Field) Size() (width, height int) { return f.width, f.height }

// Stars returns the current stars. The slice must not be modified.
func (f *Field) Stars() []Star { return f.stars }

// Advance moves every star one frame forward.
func (f *Field) Advance() {
	for i := range f.stars {
		f.stars[i].advance()
	}
}

// Init starts the frame loop.
func (f *Field) Init() tea.Cmd {
	return f.tick()
}

// Update handles a frame message addressed to this field and schedules the
// next one. Messages from other fields, or from a superseded loop, are
// ignored.
func (f *Field) Update(msg tea.Msg) tea.Cmd {
	fm, ok := msg.(FrameMsg)
	if !ok || fm.id != f.id || fm.tag != f.tag || f.stopped {
		return nil
	}
	f.Advance()
	f.tag++
	return f.tick()
}

// Stop ends the frame loop. Frames already in flight are dropped.
func (f *Field) Stop() {
	f.stopped = true
	f.tag++
}

// Stopped reports whether Stop was called.
func (f *Field) Stopped() bool { return f.stopped }

func (f *Field) tick() tea.Cmd {
	id, tag := f.id, f.tag
	return tea.Tick(f.interval, func(time.Time) tea.Msg {
		return FrameMsg{id: id, tag: tag}
	})
}

// Row renders columns [from, width) of grid row y. Cells without a star are
// spaces.
func (f *Field) Row(y, from int) string {
	if y < 0 || y >= f.height || from >= f.width {
		return ""
	}
	from = max(from, 0)
	var b strings.Builder
	blank := 0
	for x := from; x < f.width; x++ {
		i, ok := f.grid[y*f.width+x]
		if !ok {
			blank++
			continue
		}
		if blank > 0 {
			b.WriteString(strings.Repeat(" ", blank))
			blank = 0
		}
		b.WriteString(renderStar(f.stars[i]))
	}
	if blank > 0 {
		b.WriteString(strings.Repeat(" ", blank))
	}
	return b.String()
}

// Glyph returns the character used for a star of the given radius.
func Glyph(radius float64) string {
	switch {
	case radius >= 1.0:
		return "✦"
	case radius >= 0.5:
		return "•"
	default:
		return "·"
	}
}

// Shade maps an opacity in [0, 1] to a gray color.
func Shade(opacity float64) lipgloss.Color {
	opacity = math.Max(0, math.Min(1, opacity))
	v := int(math.Round(opacity * 255))
	return lipgloss.Color(hexGray(v))
}

func hexGray(v int) string {
	const digits = "0123456789abcdef"
	hi, lo := digits[v>>4], digits[v&0x0f]
	return string([]byte{'#', hi, lo, hi, lo, hi, lo})
}

func renderStar(s Star) string {
	return lipgloss.NewStyle().Foreground(Shade(s.Opacity)).Render(Glyph(s.Radius))
}
