package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/preview"
)

// Terminal cells are drawn as cellWidth x cellHeight pixel blocks.
const (
	cellWidth  = 8
	cellHeight = 16

	panStep    = 4 * cellWidth
	zoomStep   = 1.25
	statusRows = 2
)

var (
	viewBoxStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	viewWireStyle  = lipgloss.NewStyle().Foreground(colorDim)
	viewTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	viewPinStyle   = lipgloss.NewStyle().Foreground(colorBlue)
)

func (c *CLI) viewCommand() *cobra.Command {
	var opts frameOpts

	cmd := &cobra.Command{
		Use:   "view <graph>",
		Short: "Pan, zoom and collapse the canvas in the terminal",
		Long: `Open the canvas in an interactive terminal view. The snapshot of the
canvas is restored on start and saved on quit.

Keys:
  arrows / hjkl  pan
  + / -          zoom about the centre
  space          collapse or expand every node
  s              save a snapshot
  q              save and quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			// Frames run once the terminal size is known.
			opts.frames = 1
			h, err := c.run(ctx, st, args[0], opts)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(newViewModel(ctx, st, h), tea.WithAltScreen()).Run()
			if err != nil {
				return fmt.Errorf("run view: %w", err)
			}
			if vm, ok := final.(viewModel); ok && vm.err != nil {
				return vm.err
			}
			return saveSnapshot(ctx, st, h)
		},
	}
	opts.register(cmd)
	cmd.Flags().Lookup("frames").Hidden = true
	return cmd
}

// tickMsg advances an animation by one frame.
type tickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(frameTime, func(time.Time) tea.Msg { return tickMsg{} })
}

// savedMsg reports the result of a snapshot save.
type savedMsg struct{ err error }

// =============================================================================
// viewModel - interactive canvas
// =============================================================================

// viewModel is the bubbletea model of the view command. Every key queues a
// gesture and steps one frame; ticks keep stepping while anything animates.
type viewModel struct {
	ctx     context.Context
	st      *store
	h       *host
	cols    int
	rows    int
	status  string
	ticking bool
	err     error
}

func newViewModel(ctx context.Context, st *store, h *host) viewModel {
	return viewModel{ctx: ctx, st: st, h: h, cols: 80, rows: 24}
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, max(msg.Height-statusRows, 1)
		m.h.resize(float64(m.cols*cellWidth), float64(m.rows*cellHeight))
		return m.frame()

	case tickMsg:
		m.ticking = false
		return m.frame()

	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + errors.UserMessage(msg.err)
		} else {
			m.status = "saved"
		}
		return m, nil

	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m viewModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	centre := gg.Pt(float64(m.cols*cellWidth)/2, float64(m.rows*cellHeight)/2)
	m.status = ""

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.h.queue(panGesture(gg.Pt(panStep, 0)))
	case "right", "l":
		m.h.queue(panGesture(gg.Pt(-panStep, 0)))
	case "up", "k":
		m.h.queue(panGesture(gg.Pt(0, panStep)))
	case "down", "j":
		m.h.queue(panGesture(gg.Pt(0, -panStep)))
	case "+", "=":
		m.h.queue(zoomGesture(zoomStep, centre))
	case "-", "_":
		m.h.queue(zoomGesture(1/zoomStep, centre))
	case " ":
		m.h.toggleCollapsed()
	case "s":
		ctx, st, h := m.ctx, m.st, m.h
		return m, func() tea.Msg { return savedMsg{err: saveSnapshot(ctx, st, h)} }
	default:
		return m, nil
	}
	return m.frame()
}

// frame steps the host and keeps ticking while the frame animates.
func (m viewModel) frame() (tea.Model, tea.Cmd) {
	f := m.h.step()
	if f.Animating && !m.ticking {
		m.ticking = true
		return m, tick()
	}
	return m, nil
}

func (m viewModel) View() string {
	g := newGrid(m.cols, m.rows)
	g.drawScene(m.h.scene())

	f := m.h.last
	status := fmt.Sprintf("%s  scale %.2f  offset %s  frame %d",
		StyleHighlight.Render(f.Canvas), f.Zoom.Scale, fmtPoint(f.Zoom.Offset), m.h.frames)
	if m.status != "" {
		status += "  " + StyleSuccess.Render(m.status)
	}
	help := StyleDim.Render("arrows pan · +/- zoom · space collapse · s save · q quit")
	return g.String() + "\n" + status + "\n" + help
}

// =============================================================================
// grid - character canvas
// =============================================================================

type cell struct {
	r     rune
	style *lipgloss.Style
}

// grid is a character canvas addressed in pixels.
type grid struct {
	cols, rows int
	cells      []cell
}

func newGrid(cols, rows int) *grid {
	cols, rows = max(cols, 0), max(rows, 0)
	g := &grid{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range g.cells {
		g.cells[i].r = ' '
	}
	return g
}

func toCell(p gg.Point) (int, int) {
	return int(math.Floor(p.X / cellWidth)), int(math.Floor(p.Y / cellHeight))
}

func (g *grid) set(x, y int, r rune, style *lipgloss.Style) {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return
	}
	g.cells[y*g.cols+x] = cell{r: r, style: style}
}

func (g *grid) text(x, y, maxWidth int, s string, style *lipgloss.Style) {
	for i, r := range []rune(s) {
		if i >= maxWidth {
			return
		}
		g.set(x+i, y, r, style)
	}
}

func (g *grid) drawScene(s *preview.Scene) {
	for _, w := range s.Wires {
		g.line(w.From, w.To)
	}
	for _, b := range s.Boxes {
		g.box(b)
	}
}

// line draws a straight wire between two pixel points.
func (g *grid) line(a, b gg.Point) {
	x0, y0 := toCell(a)
	x1, y1 := toCell(b)
	steps := max(abs(x1-x0), abs(y1-y0))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		x := x0 + int(math.Round(t*float64(x1-x0)))
		y := y0 + int(math.Round(t*float64(y1-y0)))
		g.set(x, y, '·', &viewWireStyle)
	}
}

func (g *grid) box(b preview.Box) {
	x0, y0 := toCell(b.Frame.Min)
	x1, y1 := toCell(b.Frame.Max)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			var r rune
			switch {
			case (x == x0 || x == x1) && (y == y0 || y == y1):
				r = corner(x == x0, y == y0)
			case y == y0 || y == y1:
				r = '─'
			case x == x0 || x == x1:
				r = '│'
			default:
				r = ' '
			}
			g.set(x, y, r, &viewBoxStyle)
		}
	}

	tx, ty := toCell(b.Header.Min)
	g.text(max(tx, x0+1), max(ty, y0+1), x1-max(tx, x0+1), b.Title, &viewTitleStyle)

	if b.Openness <= 0.5 {
		return
	}
	for _, p := range b.Inputs {
		_, y := toCell(p.At)
		g.set(x0, y, '●', &viewPinStyle)
		g.text(x0+1, y, x1-x0-1, p.Name, nil)
	}
	for _, p := range b.Outputs {
		_, y := toCell(p.At)
		g.set(x1, y, '●', &viewPinStyle)
		name := []rune(p.Name)
		g.text(x1-len(name), y, len(name), p.Name, nil)
	}
}

func corner(left, top bool) rune {
	switch {
	case left && top:
		return '╭'
	case top:
		return '╮'
	case left:
		return '╰'
	default:
		return '╯'
	}
}

func (g *grid) String() string {
	var sb strings.Builder
	for y := range g.rows {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := range g.cols {
			c := g.cells[y*g.cols+x]
			if c.style == nil {
				sb.WriteRune(c.r)
				continue
			}
			sb.WriteString(c.style.Render(string(c.r)))
		}
	}
	return sb.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
