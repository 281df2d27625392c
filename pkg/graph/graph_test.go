package graph

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

func sampleDocument() *Document {
	return &Document{
		Name: "shader",
		Nodes: []Node{
			{ID: "tex", Title: "Texture", X: 0, Y: 0, Outputs: []string{"rgb", "alpha"}},
			{ID: "mix", X: 180, Y: 20, Inputs: []string{"a", "b"}, Outputs: []string{"out"}},
			{ID: "out", Title: "Output", X: 360, Y: 40, Inputs: []string{"color"}, Collapsed: true},
		},
		Edges: []Edge{
			{From: "tex", FromPin: "rgb", To: "mix", ToPin: "a"},
			{From: "tex", FromPin: "alpha", To: "mix", ToPin: "b"},
			{From: "mix", To: "out"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(d *Document)
		wantCode errors.Code
	}{
		{name: "Valid", mutate: func(*Document) {}},
		{name: "EmptyID", mutate: func(d *Document) { d.Nodes[0].ID = "" }, wantCode: errors.ErrCodeInvalidGraph},
		{name: "DuplicateID", mutate: func(d *Document) { d.Nodes[1].ID = "tex" }, wantCode: errors.ErrCodeInvalidGraph},
		{name: "NaNPosition", mutate: func(d *Document) { d.Nodes[0].X = math.NaN() }, wantCode: errors.ErrCodeInvalidGraph},
		{name: "UnknownFrom", mutate: func(d *Document) { d.Edges[0].From = "nope" }, wantCode: errors.ErrCodeInvalidGraph},
		{name: "UnknownTo", mutate: func(d *Document) { d.Edges[0].To = "nope" }, wantCode: errors.ErrCodeInvalidGraph},
		{name: "UnknownOutput", mutate: func(d *Document) { d.Edges[0].FromPin = "depth" }, wantCode: errors.ErrCodeInvalidGraph},
		{name: "UnknownInput", mutate: func(d *Document) { d.Edges[0].ToPin = "c" }, wantCode: errors.ErrCodeInvalidGraph},
		{name: "NoInputs", mutate: func(d *Document) { d.Edges[0].To = "tex"; d.Edges[0].ToPin = "" }, wantCode: errors.ErrCodeInvalidGraph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sampleDocument()
			tt.mutate(d)
			err := d.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate() = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	d := sampleDocument()
	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"from_pin": "rgb"`) {
		t.Errorf("unexpected JSON:\n%s", data)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got.Nodes) != 3 || len(got.Edges) != 3 {
		t.Fatalf("got %d nodes, %d edges", len(got.Nodes), len(got.Edges))
	}
	if !got.Nodes[2].Collapsed || got.Nodes[1].X != 180 {
		t.Errorf("fields lost: %+v", got.Nodes)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantCode errors.Code
	}{
		{"Malformed", `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"DanglingEdge", `{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "b"}]}`, errors.ErrCodeInvalidGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Unmarshal() = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"graph.json", "graph.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(sampleDocument(), path); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if got.Name != "shader" || len(got.Nodes) != 3 {
				t.Errorf("ReadFile() = %+v", got)
			}
			if got.Edges[1].FromPin != "alpha" {
				t.Errorf("edge pin = %q, want alpha", got.Edges[1].FromPin)
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile() = %v, want FILE_NOT_FOUND", err)
	}
}

func TestReadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.yml")
	src := `
name: tiny
nodes:
  - id: a
    outputs: [x]
  - id: b
    x: 100
    inputs: [y]
edges:
  - {from: a, to: b}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	b, ok := d.Node("b")
	if !ok || b.X != 100 {
		t.Errorf("Node(b) = %+v, %v", b, ok)
	}
}

func TestPinIndex(t *testing.T) {
	d := sampleDocument()
	tex, _ := d.Node("tex")
	mix, _ := d.Node("mix")

	if got := d.Edges[1].OutputIndex(tex); got != 1 {
		t.Errorf("OutputIndex = %d, want 1", got)
	}
	if got := d.Edges[1].InputIndex(mix); got != 1 {
		t.Errorf("InputIndex = %d, want 1", got)
	}
	if got := d.Edges[2].OutputIndex(mix); got != 0 {
		t.Errorf("empty pin name should select the first pin, got %d", got)
	}
}

func TestDisplayTitleAndIDs(t *testing.T) {
	d := sampleDocument()
	if got := d.Nodes[1].DisplayTitle(); got != "mix" {
		t.Errorf("DisplayTitle() = %q, want mix", got)
	}
	if got := strings.Join(d.IDs(), ","); got != "tex,mix,out" {
		t.Errorf("IDs() = %s", got)
	}
	if _, ok := d.Node("nope"); ok {
		t.Error("Node(nope) should not be found")
	}
}
