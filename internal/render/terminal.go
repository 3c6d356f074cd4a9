package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/moznion/go-optional"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

const (
	emptyCell = -1
	guideCell = -2
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	guideStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// TerminalOptions configures the terminal renderer
type TerminalOptions struct {
	Out    io.Writer
	Width  int // plotted points per panel
	Height int // rows per panel
}

// TerminalRenderer draws three stacked character charts per instrument:
// close with Bollinger bands, RSI with 30/70 guides and MACD with its signal.
type TerminalRenderer struct {
	mu     sync.Mutex
	out    io.Writer
	width  int
	height int
}

// NewTerminalRenderer creates a terminal renderer. Zero options use stdout, 60 points and 8 rows.
func NewTerminalRenderer(opts TerminalOptions) *TerminalRenderer {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Width < 2 {
		opts.Width = 60
	}
	if opts.Height < 3 {
		opts.Height = 8
	}
	return &TerminalRenderer{out: opts.Out, width: opts.Width, height: opts.Height}
}

type line struct {
	label  string
	values models.Column
	glyph  rune
	style  lipgloss.Style
}

type panel struct {
	title  string
	lines  []line
	guides []float64
}

// Render implements Renderer
func (r *TerminalRenderer) Render(ctx context.Context, a models.AnnotatedSeries) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}

	closes := make(models.Column, a.Len())
	for i, c := range a.Closes() {
		if !math.IsNaN(c) && !math.IsInf(c, 0) {
			closes[i] = optional.Some(c)
		}
	}

	panels := []panel{
		{
			title: "Close & Bollinger Bands",
			lines: []line{
				{"Upper", a.BollingerUpper, '·', lipgloss.NewStyle().Foreground(lipgloss.Color("71"))},
				{"Lower", a.BollingerLower, '·', lipgloss.NewStyle().Foreground(lipgloss.Color("167"))},
				{"Close", closes, '•', lipgloss.NewStyle().Foreground(lipgloss.Color("75"))},
			},
		},
		{
			title:  "RSI",
			lines:  []line{{"RSI", a.RSI, '•', lipgloss.NewStyle().Foreground(lipgloss.Color("177"))}},
			guides: []float64{30, 70},
		},
		{
			title: "MACD",
			lines: []line{
				{"Signal", a.MACDSignal, '·', lipgloss.NewStyle().Foreground(lipgloss.Color("214"))},
				{"MACD", a.MACD, '•', lipgloss.NewStyle().Foreground(lipgloss.Color("75"))},
			},
			guides: []float64{0},
		},
	}

	blocks := []string{titleStyle.Render(fmt.Sprintf("%s Stock Analysis", a.Symbol))}
	for _, p := range panels {
		blocks = append(blocks, panelStyle.Render(r.plot(p, a.Len())))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := fmt.Fprintln(r.out, lipgloss.JoinVertical(lipgloss.Left, blocks...))
	return err
}

// plot draws the last r.width points of every line of p onto a character grid
func (r *TerminalRenderer) plot(p panel, n int) string {
	start := 0
	if n > r.width {
		start = n - r.width
	}
	cols := n - start

	lo, hi, ok := bounds(p, start, n)
	if !ok {
		return p.title + "\n" + axisStyle.Render("(no data)")
	}

	grid := make([][]int, r.height)
	for y := range grid {
		grid[y] = make([]int, cols)
		for x := range grid[y] {
			grid[y][x] = emptyCell
		}
	}

	rowOf := func(v float64) int {
		return int(math.Round((hi - v) / (hi - lo) * float64(r.height-1)))
	}

	for _, g := range p.guides {
		if g < lo || g > hi {
			continue
		}
		y := rowOf(g)
		for x := 0; x < cols; x++ {
			grid[y][x] = guideCell
		}
	}
	// later lines are drawn on top
	for li, l := range p.lines {
		for x := 0; x < cols; x++ {
			v := l.values.At(start + x)
			if v.IsNone() {
				continue
			}
			grid[rowOf(v.Unwrap())][x] = li
		}
	}

	var b strings.Builder
	b.WriteString(p.title)
	b.WriteString("  ")
	for i, l := range p.lines {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(l.style.Render(string(l.glyph) + " " + l.label))
	}
	b.WriteString("\n")

	for y := 0; y < r.height; y++ {
		label := strings.Repeat(" ", 10)
		if y == 0 || y == r.height-1 || y == r.height/2 {
			label = fmt.Sprintf("%10.2f", hi-(hi-lo)*float64(y)/float64(r.height-1))
		}
		b.WriteString(axisStyle.Render(label + " │"))
		for x := 0; x < cols; x++ {
			switch cell := grid[y][x]; cell {
			case emptyCell:
				b.WriteByte(' ')
			case guideCell:
				b.WriteString(guideStyle.Render("-"))
			default:
				l := p.lines[cell]
				b.WriteString(l.style.Render(string(l.glyph)))
			}
		}
		if y < r.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// bounds returns the value range of the visible points and guides
func bounds(p panel, start, end int) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, l := range p.lines {
		for i := start; i < end; i++ {
			v := l.values.At(i)
			if v.IsNone() {
				continue
			}
			lo = math.Min(lo, v.Unwrap())
			hi = math.Max(hi, v.Unwrap())
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	for _, g := range p.guides {
		lo = math.Min(lo, g)
		hi = math.Max(hi, g)
	}
	if hi == lo {
		pad := math.Max(math.Abs(hi)*0.01, 1)
		lo, hi = lo-pad, hi+pad
	}
	return lo, hi, true
}
