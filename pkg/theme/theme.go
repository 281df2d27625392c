// Package theme holds the read-only per-frame configuration of a canvas:
// spacing, margins, font sizes, stroke widths and the animation time.
//
// A [Style] is loaded once (see [Load]) and cloned per frame. The canvas zooms
// its clone with [Style.Zoom] so widget chrome stays proportionate to the
// zoomed graph content.
package theme

import (
	"math"
	"time"

	"github.com/gogpu/gg"
)

// Margin is a per-side inset.
type Margin struct {
	Left   float64 `toml:"left" yaml:"left"`
	Right  float64 `toml:"right" yaml:"right"`
	Top    float64 `toml:"top" yaml:"top"`
	Bottom float64 `toml:"bottom" yaml:"bottom"`
}

// Same returns a margin of v on every side.
func Same(v float64) Margin {
	return Margin{Left: v, Right: v, Top: v, Bottom: v}
}

// Add returns the per-side sum of two margins.
func (m Margin) Add(o Margin) Margin {
	return Margin{
		Left:   m.Left + o.Left,
		Right:  m.Right + o.Right,
		Top:    m.Top + o.Top,
		Bottom: m.Bottom + o.Bottom,
	}
}

// Scaled returns the margin multiplied by f.
func (m Margin) Scaled(f float64) Margin {
	return Margin{Left: m.Left * f, Right: m.Right * f, Top: m.Top * f, Bottom: m.Bottom * f}
}

// Sum returns the horizontal and vertical totals.
func (m Margin) Sum() gg.Point {
	return gg.Pt(m.Left+m.Right, m.Top+m.Bottom)
}

// Frame describes the decoration drawn around a node.
type Frame struct {
	InnerMargin Margin  `toml:"inner_margin" yaml:"inner_margin"`
	OuterMargin Margin  `toml:"outer_margin" yaml:"outer_margin"`
	StrokeWidth float64 `toml:"stroke_width" yaml:"stroke_width"`
	Rounding    float64 `toml:"rounding" yaml:"rounding"`
}

// TotalMargin is the space the frame takes on each side: inner margin,
// stroke and outer margin together.
func (f Frame) TotalMargin() Margin {
	return f.InnerMargin.Add(Same(f.StrokeWidth)).Add(f.OuterMargin)
}

// Spacing controls the size and distance of widgets.
type Spacing struct {
	// ItemSpacing is the gap between neighbouring widgets.
	ItemSpacing gg.Point `toml:"item_spacing" yaml:"item_spacing"`
	// ButtonPadding is the padding inside buttons and pins.
	ButtonPadding gg.Point `toml:"button_padding" yaml:"button_padding"`
	// InteractSize is the standard size of an interactive control.
	InteractSize gg.Point `toml:"interact_size" yaml:"interact_size"`

	Indent         float64 `toml:"indent" yaml:"indent"`
	IconWidth      float64 `toml:"icon_width" yaml:"icon_width"`
	IconSpacing    float64 `toml:"icon_spacing" yaml:"icon_spacing"`
	ScrollBarWidth float64 `toml:"scroll_bar_width" yaml:"scroll_bar_width"`
	WindowMargin   Margin  `toml:"window_margin" yaml:"window_margin"`
}

// Text holds font sizes in points.
type Text struct {
	Small     float64 `toml:"small" yaml:"small"`
	Body      float64 `toml:"body" yaml:"body"`
	Monospace float64 `toml:"monospace" yaml:"monospace"`
	Button    float64 `toml:"button" yaml:"button"`
	Heading   float64 `toml:"heading" yaml:"heading"`
}

// Visuals holds stroke widths, radii and colours.
type Visuals struct {
	WidgetStroke    float64 `toml:"widget_stroke" yaml:"widget_stroke"`
	SelectionStroke float64 `toml:"selection_stroke" yaml:"selection_stroke"`
	NoodleWidth     float64 `toml:"noodle_width" yaml:"noodle_width"`
	PinRadius       float64 `toml:"pin_radius" yaml:"pin_radius"`

	// Colours are hex strings ("#rrggbb"); they do not scale.
	Background string `toml:"background" yaml:"background"`
	NodeFill   string `toml:"node_fill" yaml:"node_fill"`
	TitleFill  string `toml:"title_fill" yaml:"title_fill"`
	Stroke     string `toml:"stroke" yaml:"stroke"`
	Pin        string `toml:"pin" yaml:"pin"`
	Noodle     string `toml:"noodle" yaml:"noodle"`
	Text       string `toml:"text" yaml:"text"`
}

// Style is the complete theme of a canvas.
type Style struct {
	Spacing   Spacing `toml:"spacing" yaml:"spacing"`
	Text      Text    `toml:"text" yaml:"text"`
	Visuals   Visuals `toml:"visuals" yaml:"visuals"`
	NodeFrame Frame   `toml:"node_frame" yaml:"node_frame"`

	// AnimationTime is how long pan/zoom and collapse animations take.
	AnimationTime time.Duration `toml:"animation_time" yaml:"animation_time"`
}

// Default returns the built-in theme.
func Default() *Style {
	return &Style{
		Spacing: Spacing{
			ItemSpacing:    gg.Pt(8, 3),
			ButtonPadding:  gg.Pt(4, 1),
			InteractSize:   gg.Pt(40, 18),
			Indent:         18,
			IconWidth:      14,
			IconSpacing:    4,
			ScrollBarWidth: 8,
			WindowMargin:   Same(6),
		},
		Text: Text{
			Small:     9,
			Body:      12.5,
			Monospace: 12,
			Button:    12.5,
			Heading:   18,
		},
		Visuals: Visuals{
			WidgetStroke:    1,
			SelectionStroke: 1,
			NoodleWidth:     2,
			PinRadius:       4,
			Background:      "#1b1b1b",
			NodeFill:        "#2a2a2a",
			TitleFill:       "#3a3a3a",
			Stroke:          "#606060",
			Pin:             "#8ab4f8",
			Noodle:          "#c0c0c0",
			Text:            "#e0e0e0",
		},
		NodeFrame: Frame{
			InnerMargin: Same(6),
			StrokeWidth: 1,
			Rounding:    6,
		},
		AnimationTime: time.Second / 12,
	}
}

// Clone returns an independent copy of s.
func (s *Style) Clone() *Style {
	c := *s
	return &c
}

// Zoom scales every size-dependent parameter by scale.
// Colours and the animation time are unchanged. A scale that is not a
// positive finite number leaves the style untouched.
func (s *Style) Zoom(scale float64) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return
	}

	sp := &s.Spacing
	sp.ItemSpacing = sp.ItemSpacing.Mul(scale)
	sp.ButtonPadding = sp.ButtonPadding.Mul(scale)
	sp.InteractSize = sp.InteractSize.Mul(scale)
	sp.Indent *= scale
	sp.IconWidth *= scale
	sp.IconSpacing *= scale
	sp.ScrollBarWidth *= scale
	sp.WindowMargin = sp.WindowMargin.Scaled(scale)

	s.Text.Small *= scale
	s.Text.Body *= scale
	s.Text.Monospace *= scale
	s.Text.Button *= scale
	s.Text.Heading *= scale

	s.Visuals.WidgetStroke *= scale
	s.Visuals.SelectionStroke *= scale
	s.Visuals.NoodleWidth *= scale
	s.Visuals.PinRadius *= scale

	s.NodeFrame.InnerMargin = s.NodeFrame.InnerMargin.Scaled(scale)
	s.NodeFrame.OuterMargin = s.NodeFrame.OuterMargin.Scaled(scale)
	s.NodeFrame.StrokeWidth *= scale
	s.NodeFrame.Rounding *= scale
}
