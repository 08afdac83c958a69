package view

import (
	"strings"
	"sync"

	"github.com/tvmdash/chartsync/internal/app"
	"github.com/tvmdash/chartsync/internal/chart"
	"github.com/tvmdash/chartsync/internal/dataset"
)

// DefaultWidth is the sparkline width used before the terminal size is known
const DefaultWidth = 60

var blocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders the visible window of a series as a row of block
// characters. It is the renderer of one chart adapter.
type Sparkline struct {
	series dataset.Series

	mu      sync.Mutex
	width   int
	visible chart.Range
	line    string
}

// NewSparkline creates a sparkline over s
func NewSparkline(s dataset.Series, width int) *Sparkline {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Sparkline{series: s, width: width}
}

// Apply implements chart.Renderer
func (s *Sparkline) Apply(r chart.Range) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visible = r
	s.line = draw(s.series.Window(r), r, s.width)
	return nil
}

// SetWidth redraws the last applied window with a new width
func (s *Sparkline) SetWidth(width int) {
	if width <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.width = width
	s.line = draw(s.series.Window(s.visible), s.visible, width)
}

// String returns the last drawn line
func (s *Sparkline) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line
}

// draw buckets points by X into width columns and scales the per-column
// maximum against the window's Y extent. Empty columns are blank.
func draw(points []dataset.Point, r chart.Range, width int) string {
	if len(points) == 0 || width <= 0 {
		return strings.Repeat(" ", max(width, 0))
	}

	cols := make([]float64, width)
	filled := make([]bool, width)
	for _, p := range points {
		col := 0
		if r.Width() > 0 {
			col = int((p.X - r.Min) / r.Width() * float64(width-1))
		}
		col = min(max(col, 0), width-1)
		if !filled[col] || p.Y > cols[col] {
			cols[col] = p.Y
			filled[col] = true
		}
	}

	lo, hi := points[0].Y, points[0].Y
	for _, p := range points {
		lo = min(lo, p.Y)
		hi = max(hi, p.Y)
	}

	var b strings.Builder
	for i, v := range cols {
		if !filled[i] {
			b.WriteRune(' ')
			continue
		}
		level := len(blocks) - 1
		if hi > lo {
			level = int((v - lo) / (hi - lo) * float64(len(blocks)-1))
		}
		b.WriteRune(blocks[level])
	}
	return b.String()
}

// Sparklines collects the sparkline of every chart built through its
// renderer factory
type Sparklines struct {
	width int

	mu    sync.Mutex
	lines map[string]*Sparkline
}

// NewSparklines creates an empty collection drawing at the given width
func NewSparklines(width int) *Sparklines {
	return &Sparklines{width: width, lines: make(map[string]*Sparkline)}
}

// Factory returns a renderer factory for app.WithRendererFactory
func (s *Sparklines) Factory() app.RendererFactory {
	return func(groupKey, chartID string, series dataset.Series) chart.Renderer {
		line := NewSparkline(series, s.width)

		s.mu.Lock()
		s.lines[key(groupKey, chartID)] = line
		s.mu.Unlock()
		return line
	}
}

// Get returns the sparkline of a chart
func (s *Sparklines) Get(groupKey, chartID string) (*Sparkline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.lines[key(groupKey, chartID)]
	return line, ok
}

// SetWidth resizes every sparkline
func (s *Sparklines) SetWidth(width int) {
	s.mu.Lock()
	s.width = width
	lines := make([]*Sparkline, 0, len(s.lines))
	for _, l := range s.lines {
		lines = append(lines, l)
	}
	s.mu.Unlock()

	for _, l := range lines {
		l.SetWidth(width)
	}
}

func key(groupKey, chartID string) string {
	return groupKey + "/" + chartID
}
