// Package api defines the record schema for extracted authoring content.
// Every value that leaves the extraction engine (cache stores, the final
// document, the sqlite export) is built from these types.
package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PathSep joins ancestor display names into a node path.
// The path is the sole cache key; see JoinPath.
const PathSep = "/"

// JoinPath appends a node's display name to its parent path.
// The root node has no parent segment, so its path is its own name.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + PathSep + name
}

// VariableType is the declared type of an authored variable.
type VariableType string

const (
	VarInteger   VariableType = "Integer"
	VarCharacter VariableType = "Character"
	VarBoolean   VariableType = "Boolean"
	VarString    VariableType = "String"
)

// Operator is a condition or assignment operator in trigger expressions.
type Operator string

// Variable is one authored variable as shown in the Edit Variable form.
// InitialValue's dynamic type is fixed by Type: bool for Boolean, int for
// Integer, string otherwise. An Integer whose on-screen text does not parse
// keeps the raw text inside a placeholder string instead of being dropped.
type Variable struct {
	Name         string       `json:"name"`
	Type         VariableType `json:"type"`
	IsConstant   bool         `json:"is_constant"`
	InitialValue any          `json:"initial_value"`
}

// UnmarshalJSON normalizes InitialValue to the representation implied by Type.
// encoding/json decodes numbers into float64; Integer variables want int.
func (v *Variable) UnmarshalJSON(data []byte) error {
	type alias Variable
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*v = Variable(a)
	if v.Type == VarInteger {
		if f, ok := v.InitialValue.(float64); ok {
			v.InitialValue = int(f)
		}
	}
	return nil
}

// Trigger is a named, ordered list of condition/effect pairs.
type Trigger struct {
	Name    string          `json:"name"`
	Actions []TriggerAction `json:"actions"`
}

// AssetName is the reference by which a node lists an asset it uses.
// It exists as a record type so the asset-name store has a concrete shape.
type AssetName struct {
	Name string `json:"name"`
}

// Node is one item of the content tree. A Node owns its subtree exclusively:
// no sharing, no cycles. It is immutable once its subtree finishes.
type Node struct {
	Name       string          `json:"name"`
	Path       string          `json:"path"`
	Children   []*Node         `json:"childrens"`
	Variables  []Variable      `json:"variables"`
	Triggers   []Trigger       `json:"triggers"`
	AssetNames []string        `json:"asset_names"`
	Navigation *ViewNavigation `json:"view_navigation,omitempty"`
}

// FindNode resolves a "/"-joined path below root. The first segment is
// assumed to be root itself, matching how paths are produced by the walker.
// Segment matching trims surrounding whitespace because the authoring tool
// pads some display labels.
func FindNode(root *Node, path string) (*Node, error) {
	n := root
	segs := strings.Split(path, PathSep)
	for _, seg := range segs[1:] {
		seg = strings.TrimSpace(seg)
		var found []*Node
		for _, c := range n.Children {
			if strings.TrimSpace(c.Name) == seg {
				found = append(found, c)
			}
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("path %q: segment %q not found", path, seg)
		}
		if len(found) > 1 {
			return nil, fmt.Errorf("path %q: segment %q is ambiguous", path, seg)
		}
		n = found[0]
	}
	return n, nil
}

// WriteTree prints the node hierarchy one name per line, indented by depth.
func (n *Node) WriteTree(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat(" ", depth))
	sb.WriteString("> ")
	sb.WriteString(n.Name)
	sb.WriteString("\n")
	for _, c := range n.Children {
		c.WriteTree(sb, depth+1)
	}
}
