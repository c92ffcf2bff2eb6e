package model

import (
	"encoding/json"
	"strings"
)

// NodeKind tags the variant held by a LogicNode
type NodeKind int

const (
	KindNone        NodeKind = iota // Zero value: absent node
	KindLeaf                        // Single course
	KindAnd                         // All children required
	KindOr                          // Any one child suffices
	KindUnparseable                 // Raw input that could not be interpreted
)

func (k NodeKind) String() string {
	switch k {
	case KindLeaf:
		return "LEAF"
	case KindAnd:
		return "AND"
	case KindOr:
		return "OR"
	case KindUnparseable:
		return "UNPARSEABLE"
	default:
		return "NONE"
	}
}

// LogicNode is an immutable requirement tree: either a course leaf or an
// AND/OR group of child nodes. Fields are unexported so a tree cannot be
// changed once built; accessors hand out copies.
type LogicNode struct {
	kind     NodeKind
	course   CourseOption
	children []LogicNode
	reason   string
}

// Leaf wraps a course option
func Leaf(c CourseOption) LogicNode {
	c.Code = NormalizeCode(c.Code)
	return LogicNode{kind: KindLeaf, course: c}
}

// Course is shorthand for a leaf with the given code
func Course(code string, honors bool) LogicNode {
	return Leaf(NewCourse(code, honors))
}

// NoArticulation returns the sentinel leaf that no course can satisfy
func NoArticulation() LogicNode {
	return LogicNode{kind: KindLeaf, course: CourseOption{Code: NoArticulationCode, Title: "No Course Articulated"}}
}

// And builds a conjunction
func And(children ...LogicNode) LogicNode {
	return LogicNode{kind: KindAnd, children: append([]LogicNode(nil), children...)}
}

// Or builds a disjunction
func Or(children ...LogicNode) LogicNode {
	return LogicNode{kind: KindOr, children: append([]LogicNode(nil), children...)}
}

// Unparseable marks raw input that could not be interpreted
func Unparseable(reason string) LogicNode {
	return LogicNode{kind: KindUnparseable, reason: reason}
}

// Kind returns the node variant
func (n LogicNode) Kind() NodeKind { return n.kind }

// IsLeaf reports whether the node is a course leaf
func (n LogicNode) IsLeaf() bool { return n.kind == KindLeaf }

// IsGroup reports whether the node is an AND or OR group
func (n LogicNode) IsGroup() bool { return n.kind == KindAnd || n.kind == KindOr }

// IsNoArticulation reports whether the node is the "N/A" sentinel
func (n LogicNode) IsNoArticulation() bool {
	return n.kind == KindLeaf && n.course.IsNoArticulation()
}

// Course returns the leaf's course option
func (n LogicNode) Course() (CourseOption, bool) {
	if n.kind != KindLeaf {
		return CourseOption{}, false
	}
	return n.course, true
}

// Len returns the number of children of a group node
func (n LogicNode) Len() int { return len(n.children) }

// Child returns the i-th child of a group node
func (n LogicNode) Child(i int) LogicNode { return n.children[i] }

// Children returns a copy of the children of a group node
func (n LogicNode) Children() []LogicNode {
	return append([]LogicNode(nil), n.children...)
}

// Reason explains why an Unparseable node was produced
func (n LogicNode) Reason() string { return n.reason }

// Leaves returns every course leaf in depth-first order
func (n LogicNode) Leaves() []CourseOption {
	var out []CourseOption
	n.Walk(func(node LogicNode) bool {
		if c, ok := node.Course(); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Walk visits the node and its descendants depth-first. Returning false from
// visit skips the node's children.
func (n LogicNode) Walk(visit func(LogicNode) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(visit)
	}
}

// Depth returns the height of the tree (a leaf has depth 1)
func (n LogicNode) Depth() int {
	deepest := 0
	for _, child := range n.children {
		if d := child.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// SoleLeaf returns the course when the node is a leaf or an AND group with
// exactly one leaf child
func (n LogicNode) SoleLeaf() (CourseOption, bool) {
	switch n.kind {
	case KindLeaf:
		return n.course, true
	case KindAnd:
		if len(n.children) == 1 {
			return n.children[0].Course()
		}
	}
	return CourseOption{}, false
}

// String renders the tree compactly, e.g. OR(AND(MATH 1A, PHYS 1A), CHEM 1A)
func (n LogicNode) String() string {
	switch n.kind {
	case KindLeaf:
		return n.course.Display()
	case KindAnd, KindOr:
		parts := make([]string, len(n.children))
		for i, child := range n.children {
			parts[i] = child.String()
		}
		return n.kind.String() + "(" + strings.Join(parts, ", ") + ")"
	case KindUnparseable:
		return "UNPARSEABLE(" + n.reason + ")"
	default:
		return "NONE"
	}
}

// MarshalJSON emits the upstream articulation shape
func (n LogicNode) MarshalJSON() ([]byte, error) {
	switch n.kind {
	case KindLeaf:
		if n.IsNoArticulation() {
			return json.Marshal(map[string]any{
				"type":            "OR",
				"courses":         []CourseOption{n.course},
				"no_articulation": true,
			})
		}
		return json.Marshal(n.course)
	case KindAnd, KindOr:
		children := n.children
		if children == nil {
			children = []LogicNode{}
		}
		return json.Marshal(map[string]any{
			"type":    n.kind.String(),
			"courses": children,
		})
	case KindUnparseable:
		return json.Marshal(map[string]any{"unparseable": n.reason})
	default:
		return []byte("null"), nil
	}
}

// Describe renders the tree for people: "MATH 1A and PHYS 1A",
// "MATH 1A or MATH 1AH (Honors)". Nested groups are parenthesized.
func (n LogicNode) Describe() string {
	return n.describe(false)
}

func (n LogicNode) describe(nested bool) string {
	switch n.kind {
	case KindLeaf:
		if n.IsNoArticulation() {
			return "no course articulated"
		}
		return n.course.Display()
	case KindAnd, KindOr:
		if len(n.children) == 0 {
			return "no courses listed"
		}
		if len(n.children) == 1 {
			return n.children[0].describe(nested)
		}
		sep := " and "
		if n.kind == KindOr {
			sep = " or "
		}
		parts := make([]string, len(n.children))
		for i, child := range n.children {
			parts[i] = child.describe(true)
		}
		text := strings.Join(parts, sep)
		if nested {
			return "(" + text + ")"
		}
		return text
	case KindUnparseable:
		return "unreadable requirement"
	default:
		return "no requirement"
	}
}
