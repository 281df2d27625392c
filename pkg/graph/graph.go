package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

// Document is a graph laid out on one canvas.
type Document struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// Node is a node of the graph. X and Y are its graph-space top-left corner.
type Node struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title,omitempty" yaml:"title,omitempty"` // defaults to ID
	X         float64  `json:"x" yaml:"x"`
	Y         float64  `json:"y" yaml:"y"`
	Inputs    []string `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs   []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Collapsed bool     `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
}

// DisplayTitle returns the title if set, otherwise the ID.
func (n *Node) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	return n.ID
}

// Edge connects output pin FromPin of node From to input pin ToPin of node
// To. Empty pin names connect to the first pin.
type Edge struct {
	From    string `json:"from" yaml:"from"`
	FromPin string `json:"from_pin,omitempty" yaml:"from_pin,omitempty"`
	To      string `json:"to" yaml:"to"`
	ToPin   string `json:"to_pin,omitempty" yaml:"to_pin,omitempty"`
}

// Node returns the node with the given ID.
func (d *Document) Node(id string) (*Node, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// IDs returns the node IDs in document order.
func (d *Document) IDs() []string {
	ids := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Validate checks that node IDs are valid and unique, positions are finite
// and every edge connects existing pins.
func (d *Document) Validate() error {
	nodes := make(map[string]*Node, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d", i)
		}
		if _, dup := nodes[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		if math.IsNaN(n.X) || math.IsInf(n.X, 0) || math.IsNaN(n.Y) || math.IsInf(n.Y, 0) {
			return errors.New(errors.ErrCodeInvalidGraph, "node %q has a non-finite position", n.ID)
		}
		nodes[n.ID] = n
	}

	for _, e := range d.Edges {
		from, ok := nodes[e.From]
		if !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %s->%s: unknown node %q", e.From, e.To, e.From)
		}
		to, ok := nodes[e.To]
		if !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %s->%s: unknown node %q", e.From, e.To, e.To)
		}
		if pinIndex(from.Outputs, e.FromPin) < 0 {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %s->%s: node %q has no output %q", e.From, e.To, e.From, e.FromPin)
		}
		if pinIndex(to.Inputs, e.ToPin) < 0 {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %s->%s: node %q has no input %q", e.From, e.To, e.To, e.ToPin)
		}
	}
	return nil
}

// OutputIndex returns the row of the output pin an edge leaves from.
func (e Edge) OutputIndex(from *Node) int { return pinIndex(from.Outputs, e.FromPin) }

// InputIndex returns the row of the input pin an edge arrives at.
func (e Edge) InputIndex(to *Node) int { return pinIndex(to.Inputs, e.ToPin) }

func pinIndex(pins []string, name string) int {
	if len(pins) == 0 {
		return -1
	}
	if name == "" {
		return 0
	}
	for i, p := range pins {
		if p == name {
			return i
		}
	}
	return -1
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal encodes d as indented JSON.
func Marshal(d *Document) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "encode document")
	}
	return data, nil
}

// Unmarshal decodes and validates a JSON document.
func Unmarshal(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// UnmarshalYAML decodes and validates a YAML document. The YAML form has the
// same fields as the JSON one.
func UnmarshalYAML(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// IsYAML reports whether path has a YAML extension.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Write encodes d as indented JSON to w.
func Write(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes and validates a JSON document from r.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// WriteFile writes d to path, as YAML if the extension says so and as
// indented JSON otherwise.
func WriteFile(d *Document, path string) error {
	if IsYAML(path) {
		data, err := yaml.Marshal(d)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "encode document")
		}
		return os.WriteFile(path, data, 0o644)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(d, f)
}

// ReadFile reads and validates the document at path. Files ending in .yaml
// or .yml are decoded as YAML.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if IsYAML(path) {
		return UnmarshalYAML(data)
	}
	return Unmarshal(data)
}
