// Package graph provides the document format for graphs drawn on a canvas.
//
// A [Document] is what the host loop draws: nodes with a graph-space position,
// a title and named input/output pins, plus edges that connect an output pin
// of one node to an input pin of another. The canvas itself knows nothing
// about this format; it only sees node IDs, positions and measured sizes.
//
// # Serialization
//
// Documents use a small JSON format:
//
//	{
//	  "name": "shader",
//	  "nodes": [
//	    {"id": "tex", "title": "Texture", "x": 0, "y": 0, "outputs": ["rgb"]},
//	    {"id": "out", "title": "Output", "x": 220, "y": 40, "inputs": ["color"]}
//	  ],
//	  "edges": [{"from": "tex", "from_pin": "rgb", "to": "out", "to_pin": "color"}]
//	}
//
// Common operations:
//
//	doc, _ := graph.ReadFile("shader.json")  // File → Document
//	graph.WriteFile(doc, "copy.json")        // Document → File
//	data, _ := graph.Marshal(doc)            // Document → []byte
//	parsed, _ := graph.Unmarshal(data)       // []byte → Document
//
// [Unmarshal] and [ReadFile] validate the result (see [Document.Validate]).
//
// # Measuring
//
// [Node.Measure] produces the sizes a real text shaper would report after
// drawing the node, using fixed glyph metrics. Hosts without a text renderer
// (the CLI, tests) feed these to canvas.Pass.Node as the measured state.
package graph
