package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/canvas"
	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/graph"
	"github.com/matzehuels/nodecanvas/pkg/snapshot"
)

// frameOpts are the flags shared by every command that runs frames.
type frameOpts struct {
	width   float64
	height  float64
	frames  int
	zooms   []string
	pans    []string
	spring  bool
	restore bool
	save    bool
}

func (o *frameOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&o.width, "width", 1280, "canvas width in pixels")
	f.Float64Var(&o.height, "height", 720, "canvas height in pixels")
	f.IntVar(&o.frames, "frames", 0, "frames to run (0: until animations settle)")
	f.StringArrayVar(&o.zooms, "zoom", nil, "zoom gesture FACTOR@X,Y applied on the first frame (repeatable)")
	f.StringArrayVar(&o.pans, "pan", nil, "pan gesture DX,DY applied on the first frame (repeatable)")
	f.BoolVar(&o.spring, "spring", false, "ease with a spring instead of a linear tween")
	f.BoolVar(&o.restore, "restore", true, "start from the stored snapshot of the canvas")
	f.BoolVar(&o.save, "save", false, "store a snapshot of the canvas afterwards")
}

// gestures parses the --zoom and --pan flags.
func (o *frameOpts) gestures() ([]gesture, error) {
	var out []gesture
	for _, z := range o.zooms {
		g, err := parseZoom(z)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	for _, p := range o.pans {
		d, err := parsePoint(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "--pan %q", p)
		}
		out = append(out, panGesture(d))
	}
	return out, nil
}

// parseZoom parses FACTOR@X,Y.
func parseZoom(s string) (gesture, error) {
	factor, at, ok := strings.Cut(s, "@")
	if !ok {
		return gesture{}, errors.New(errors.ErrCodeInvalidInput, "--zoom %q: want FACTOR@X,Y", s)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(factor), 64)
	if err != nil {
		return gesture{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "--zoom %q: factor", s)
	}
	if err := errors.ValidateScale(f); err != nil {
		return gesture{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "--zoom %q", s)
	}
	pivot, err := parsePoint(at)
	if err != nil {
		return gesture{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "--zoom %q: pivot", s)
	}
	return zoomGesture(f, pivot), nil
}

// parsePoint parses X,Y.
func parsePoint(s string) (gg.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return gg.Point{}, fmt.Errorf("want X,Y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return gg.Point{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return gg.Point{}, err
	}
	if err := errors.ValidatePoint(x, y); err != nil {
		return gg.Point{}, err
	}
	return gg.Pt(x, y), nil
}

// run loads the document, replays the gestures and runs frames. The
// returned host holds the last frame.
func (c *CLI) run(ctx context.Context, st *store, path string, opts frameOpts) (*host, error) {
	logger := loggerFromContext(ctx)
	if opts.width <= 0 || opts.height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas size must be positive, got %vx%v", opts.width, opts.height)
	}

	doc, err := graph.ReadFile(path)
	if err != nil {
		return nil, err
	}
	style, err := c.loadStyle()
	if err != nil {
		return nil, err
	}
	gestures, err := opts.gestures()
	if err != nil {
		return nil, err
	}

	h := newHost(doc, hostOptions{
		Style:  style,
		Width:  opts.width,
		Height: opts.height,
		Spring: opts.spring,
		Logger: logger,
	})
	if opts.restore {
		restoreSnapshot(ctx, st, h)
	}

	prog := newProgress(logger)
	h.queue(gestures...)
	if opts.frames > 0 {
		for range opts.frames {
			h.step()
		}
		prog.done(fmt.Sprintf("Ran %d frames", opts.frames))
	} else {
		n := h.settle()
		prog.done(fmt.Sprintf("Settled after %d frames", n))
	}

	if opts.save {
		if err := saveSnapshot(ctx, st, h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// restoreSnapshot loads the stored state of the host's canvas. A missing or
// unreadable snapshot leaves the host as it is.
func restoreSnapshot(ctx context.Context, st *store, h *host) {
	logger := loggerFromContext(ctx)
	snap, err := snapshot.Load(ctx, st.snapshots, st.keyer, h.canvasName())
	switch {
	case err == nil:
		h.restore(snap)
		logger.Debug("restored snapshot", "canvas", snap.Canvas, "revision", snap.Revision)
	case errors.Is(err, errors.ErrCodeSnapshotNotFound):
	default:
		logger.Warn("ignoring stored snapshot", "err", errors.UserMessage(err))
	}
}

func saveSnapshot(ctx context.Context, st *store, h *host) error {
	snap := h.capture()
	if err := snapshot.Save(ctx, st.snapshots, st.keyer, snap, 0); err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("saved snapshot", "canvas", snap.Canvas, "revision", snap.Revision)
	return nil
}

// =============================================================================
// layout command
// =============================================================================

func (c *CLI) layoutCommand() *cobra.Command {
	var opts frameOpts
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "layout <graph>",
		Short: "Run the frame loop and print where every node lands on screen",
		Long: `Run layout passes over a graph document and print the screen-space rects
of every node. Gestures given with --zoom and --pan are applied on the first
frame; frames then run until the animations settle.`,
		Example: `  nodecanvas layout shader.json
  nodecanvas layout shader.json --zoom 2@640,360 --pan -100,0 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			h, err := c.run(cmd.Context(), st, args[0], opts)
			if err != nil {
				return err
			}
			if asJSON {
				return writeLayoutJSON(h)
			}
			printLayout(h)
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

type layoutJSON struct {
	Canvas    string              `json:"canvas"`
	Frames    int                 `json:"frames"`
	Zoom      canvas.Zoom         `json:"zoom"`
	Viewport  canvas.Viewport     `json:"viewport"`
	Animating bool                `json:"animating"`
	Nodes     []canvas.NodeLayout `json:"nodes"`
}

func writeLayoutJSON(h *host) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(layoutJSON{
		Canvas:    h.last.Canvas,
		Frames:    h.frames,
		Zoom:      h.last.Zoom,
		Viewport:  h.last.Target,
		Animating: h.last.Animating,
		Nodes:     h.last.Nodes,
	})
}

func printLayout(h *host) {
	f := h.last
	printSuccess("Canvas %s", StyleHighlight.Render(f.Canvas))
	printKeyValue("Frames", strconv.Itoa(h.frames))
	printKeyValue("Scale", fmt.Sprintf("%.3f", f.Zoom.Scale))
	printKeyValue("Offset", fmtPoint(f.Zoom.Offset))
	if f.Animating {
		printWarning("still animating")
	}
	printNewline()

	rows := make([][]string, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		rows = append(rows, []string{n.ID, fmtRect(n.Body), fmtRect(n.Title), fmtRect(n.Pins), fmt.Sprintf("%.2f", n.Openness)})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Body", "Title", "Pins", "Open").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Println(t.Render())
}

func fmtPoint(p gg.Point) string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

func fmtRect(r gg.Rect) string {
	return fmt.Sprintf("%s-%s", fmtPoint(r.Min), fmtPoint(r.Max))
}
