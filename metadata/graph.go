package metadata

import (
	"github.com/tidwall/gjson"
)

// DefaultTextEncoderClass is the class_type of the node that encodes prompt text
const DefaultTextEncoderClass = "CLIPTextEncode"

// NodeInput is a single named input of a ComfyGraphNode.
// Raw holds the JSON text of the value.
type NodeInput struct {
	Name string
	Raw  string
	// Value is the stringified form used when the input is flattened into a Map
	Value string
}

// ComfyGraphNode is one node of the "prompt" graph saved by ComfyUI.
// Inputs can be one of:
//
//	a number
//	a string
//	a link: [0] is the string id of the source node, [1] is the output slot index
type ComfyGraphNode struct {
	ID        string
	ClassType string
	Inputs    []NodeInput
}

// Input returns the input with the given name, or nil
func (n *ComfyGraphNode) Input(name string) *NodeInput {
	for i := range n.Inputs {
		if n.Inputs[i].Name == name {
			return &n.Inputs[i]
		}
	}
	return nil
}

// GraphParser flattens the graph format into a Map
type GraphParser struct {
	// TextEncoderClass is the class_type whose "text" inputs fill Prompt and Negative prompt
	TextEncoderClass string
}

// NewGraphParser returns a GraphParser for the given text encoder class, or the default one
// when textEncoderClass is empty
func NewGraphParser(textEncoderClass string) *GraphParser {
	if textEncoderClass == "" {
		textEncoderClass = DefaultTextEncoderClass
	}
	return &GraphParser{TextEncoderClass: textEncoderClass}
}

// ParseGraphJSON flattens graph metadata using the default text encoder class
func ParseGraphJSON(data string) (*Map, error) {
	return NewGraphParser(DefaultTextEncoderClass).Parse(data)
}

// DecodeGraph returns the nodes of the graph in their serialized order
func DecodeGraph(data string) ([]ComfyGraphNode, error) {
	if !gjson.Valid(data) {
		return nil, ErrInvalidGraph
	}
	root := gjson.Parse(data)
	if !root.IsObject() {
		return nil, ErrInvalidGraph
	}

	retv := make([]ComfyGraphNode, 0)
	root.ForEach(func(key, value gjson.Result) bool {
		node := ComfyGraphNode{
			ID:        key.String(),
			ClassType: value.Get("class_type").String(),
			Inputs:    make([]NodeInput, 0),
		}
		value.Get("inputs").ForEach(func(name, input gjson.Result) bool {
			node.Inputs = append(node.Inputs, NodeInput{
				Name:  name.String(),
				Raw:   input.Raw,
				Value: stringifyInput(input),
			})
			return true
		})
		retv = append(retv, node)
		return true
	})
	return retv, nil
}

// Parse walks the nodes in serialized order. The first text encoder node fills Prompt, the
// second fills Negative prompt and any later one is dropped. Inputs of every other node are
// recorded by input name, a later node overwriting an earlier one. Prompt and Negative prompt only
// ever come from text encoder nodes; other inputs with those names are ignored.
func (p *GraphParser) Parse(data string) (*Map, error) {
	nodes, err := DecodeGraph(data)
	if err != nil {
		return nil, err
	}

	prompts := NewMap()
	others := NewMap()
	for i := range nodes {
		n := &nodes[i]
		if n.ClassType == p.TextEncoderClass {
			text := n.Input("text")
			if text == nil {
				continue
			}
			if !prompts.Has(FieldPrompt) {
				prompts.set(FieldPrompt, text.Value)
			} else if !prompts.Has(FieldNegativePrompt) {
				prompts.set(FieldNegativePrompt, text.Value)
			}
			continue
		}
		for _, in := range n.Inputs {
			if in.Name == FieldPrompt || in.Name == FieldNegativePrompt {
				continue
			}
			others.set(in.Name, in.Value)
		}
	}

	retv := NewMap()
	for _, f := range prompts.Entries() {
		retv.set(f.Name, f.Value)
	}
	for _, f := range others.Entries() {
		retv.set(f.Name, f.Value)
	}
	return retv, nil
}

// strings are used as is, everything else keeps its JSON text
func stringifyInput(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	return v.Raw
}
