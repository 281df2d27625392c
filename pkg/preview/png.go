package preview

import (
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"
)

// RenderPNG rasterises the scene's shapes and writes a PNG to w. Labels are
// left out; use the SVG output when text matters.
func RenderPNG(s *Scene, w io.Writer) error {
	width, height := int(math.Ceil(s.Width)), int(math.Ceil(s.Height))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("png: empty scene (%dx%d)", width, height)
	}

	dc := gg.NewContext(width, height)
	defer dc.Close()

	p := &painter{dc: dc}
	v := s.Style.Visuals
	dc.ClearWithColor(gg.Hex(v.Background))

	dc.SetHexColor(v.Noodle)
	dc.SetLineWidth(v.NoodleWidth)
	for _, wire := range s.Wires {
		a, b, c, d := noodle(wire)
		dc.MoveTo(a.X, a.Y)
		dc.CubicTo(b.X, b.Y, c.X, c.Y, d.X, d.Y)
		p.stroke()
	}

	for _, b := range s.Boxes {
		p.box(s, b)
	}
	if p.err != nil {
		return fmt.Errorf("png: %w", p.err)
	}
	return dc.EncodePNG(w)
}

// painter keeps the first drawing error so the drawing code reads straight.
type painter struct {
	dc  *gg.Context
	err error
}

func (p *painter) fill() {
	if err := p.dc.Fill(); err != nil && p.err == nil {
		p.err = err
	}
}

func (p *painter) stroke() {
	if err := p.dc.Stroke(); err != nil && p.err == nil {
		p.err = err
	}
}

func (p *painter) box(s *Scene, b Box) {
	st := s.Style
	v, f := st.Visuals, st.NodeFrame
	dc := p.dc

	r := b.Frame
	dc.DrawRoundedRectangle(r.Min.X, r.Min.Y, width(r), height(r), f.Rounding)
	dc.SetHexColor(v.NodeFill)
	p.fill()

	dc.DrawRectangle(b.Header.Min.X, b.Header.Min.Y, width(b.Body), height(b.Header))
	dc.SetHexColor(v.TitleFill)
	p.fill()

	if f.StrokeWidth > 0 {
		dc.DrawRoundedRectangle(r.Min.X, r.Min.Y, width(r), height(r), f.Rounding)
		dc.SetHexColor(v.Stroke)
		dc.SetLineWidth(f.StrokeWidth)
		p.stroke()
	}

	if b.Openness <= 0 {
		return
	}
	dc.SetHexColor(v.Pin)
	for _, pins := range [][]Pin{b.Inputs, b.Outputs} {
		for _, pin := range pins {
			dc.DrawCircle(pin.At.X, pin.At.Y, v.PinRadius)
			p.fill()
		}
	}
}
