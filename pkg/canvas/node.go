package canvas

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/matzehuels/nodecanvas/pkg/memory"
	"github.com/matzehuels/nodecanvas/pkg/theme"
)

// NodeState is the per-node layout state kept across frames.
// All components are non-negative.
type NodeState struct {
	// TitleSize is the size occupied by the title.
	TitleSize gg.Point `json:"title_size"`
	// InputsSize is the size occupied by the input pin column.
	InputsSize gg.Point `json:"inputs_size"`
	// OutputsSize is the size occupied by the output pin column.
	OutputsSize gg.Point `json:"outputs_size"`
}

// InitialNodeState is used the first frame a node is drawn, before anything
// has been measured.
func InitialNodeState(spacing theme.Spacing) NodeState {
	return NodeState{
		TitleSize:   spacing.InteractSize,
		InputsSize:  spacing.InteractSize,
		OutputsSize: spacing.InteractSize,
	}
}

// LoadNodeState returns the state stored under id, if any.
func LoadNodeState(m *memory.Memory, id memory.ID) (NodeState, bool) {
	return memory.Get[NodeState](m, id)
}

// Store overwrites the state stored under id.
func (s NodeState) Store(m *memory.Memory, id memory.ID) {
	memory.Insert(m, id, s)
}

// Width is the node width: the title spans the full width, the pin columns
// sit side by side separated by the item spacing.
func (s NodeState) Width(spacing theme.Spacing) float64 {
	return math.Max(s.TitleSize.X, s.InputsSize.X+spacing.ItemSpacing.X+s.OutputsSize.X)
}

func (s NodeState) pinsHeight() float64 {
	return math.Max(s.InputsSize.Y, s.OutputsSize.Y)
}

// NodeRect is the node rect at pos, excluding the frame margin.
// The bottom margin is counted twice: once below the title and once above
// the node's bottom edge.
func (s NodeState) NodeRect(frame theme.Frame, spacing theme.Spacing, pos gg.Point) gg.Rect {
	bottom := frame.TotalMargin().Bottom
	height := s.TitleSize.Y + bottom + bottom + s.pinsHeight()
	return fromMinSize(pos, gg.Pt(s.Width(spacing), height))
}

// TitleRect is the title rect at pos, excluding the frame margin.
func (s NodeState) TitleRect(spacing theme.Spacing, pos gg.Point) gg.Rect {
	return fromMinSize(pos, gg.Pt(s.Width(spacing), s.TitleSize.Y))
}

// PinsRect is the pins rect at pos, excluding the frame margin.
//
// openness in [0,1] drives the collapse: at 1 the pins sit right below the
// title, at 0 they are moved up by their own height plus both margins so
// they end up hidden behind the title.
func (s NodeState) PinsRect(frame theme.Frame, spacing theme.Spacing, openness float64, pos gg.Point) gg.Rect {
	bottom := frame.TotalMargin().Bottom
	height := s.pinsHeight()
	moved := (height + bottom + bottom) * (openness - 1)

	top := pos.Add(gg.Pt(0, s.TitleSize.Y+bottom+bottom+moved))
	return fromMinSize(top, gg.Pt(s.Width(spacing), height))
}

// InputsRect is the input column inside PinsRect, aligned left.
func (s NodeState) InputsRect(frame theme.Frame, spacing theme.Spacing, openness float64, pos gg.Point) gg.Rect {
	pins := s.PinsRect(frame, spacing, openness, pos)
	return fromMinSize(pins.Min, s.InputsSize)
}

// OutputsRect is the output column inside PinsRect, aligned right.
func (s NodeState) OutputsRect(frame theme.Frame, spacing theme.Spacing, openness float64, pos gg.Point) gg.Rect {
	pins := s.PinsRect(frame, spacing, openness, pos)
	topLeft := gg.Pt(pins.Max.X-s.OutputsSize.X, pins.Min.Y)
	return fromMinSize(topLeft, s.OutputsSize)
}

func fromMinSize(topLeft, size gg.Point) gg.Rect {
	return gg.Rect{Min: topLeft, Max: topLeft.Add(size)}
}
