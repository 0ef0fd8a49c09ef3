// File path: internal/ir/ir.go

// Package ir defines the intermediate representation produced by the
// pattern extractor and consumed by the construct translator. Every node
// carries the exact byte span of the source it was recognized from; a
// well-formed document tiles the whole input with no gaps and no
// overlaps, which is what makes the no-silent-loss guarantee checkable.
package ir

import (
	"fmt"
	"sort"
)

// Kind identifies what a node represents.
type Kind string

const (
	// KindState is a useState destructuring declaration.
	KindState Kind = "state"
	// KindFunction is an arrow-function declaration captured as a method.
	KindFunction Kind = "function"
	// KindEvent is an onX={...} attribute with a known DOM event.
	KindEvent Kind = "event"
	// KindList is an iterable.map(item => <markup>) template expression.
	KindList Kind = "list"
	// KindConditional is a {cond && <markup>} template expression.
	KindConditional Kind = "conditional"
	// KindClassName is a className attribute rewrite.
	KindClassName Kind = "classname"
	// KindControlledInput is an <input> tag bound via value + onChange.
	KindControlledInput Kind = "controlled-input"
	// KindMarkup is template text passed through character-for-character.
	KindMarkup Kind = "markup"
	// KindStructure is consumed scaffolding (imports, declaration header,
	// return wrapper, export statement, inter-construct whitespace).
	KindStructure Kind = "structure"
	// KindUnsupported is a construct that matched no recognition rule and
	// is preserved verbatim behind the fallback marker.
	KindUnsupported Kind = "unsupported"
)

// StructureRole records which piece of scaffolding a structure node
// consumed, so the generator knows what stands in for it in the output.
type StructureRole string

const (
	RoleReactImport   StructureRole = "react-import"
	RoleComponentDecl StructureRole = "component-decl"
	RoleReturnOpen    StructureRole = "return-open"
	RoleReturnClose   StructureRole = "return-close"
	RoleExport        StructureRole = "export-stmt"
	RoleWhitespace    StructureRole = "whitespace"
)

// Reason tags explain why a span fell back. Tags are stable strings so
// downstream tooling (catalog stats, the advisor) can group on them.
type Reason string

const (
	ReasonUnsupportedChain      Reason = "unsupported-chain"
	ReasonTernary               Reason = "ternary-conditional"
	ReasonCompoundCondition     Reason = "compound-condition"
	ReasonMultiRootFragment     Reason = "multi-root-fragment"
	ReasonNonMarkupBody         Reason = "non-markup-body"
	ReasonFunctionKeyword       Reason = "function-keyword"
	ReasonAsyncFunction         Reason = "async-function"
	ReasonUnknownEvent          Reason = "unknown-event"
	ReasonSetterMismatch        Reason = "setter-mismatch"
	ReasonUnresolvedExpression  Reason = "unresolved-expression"
	ReasonUnrecognizedStatement Reason = "unrecognized-statement"
	ReasonUnmatchedBracket      Reason = "unmatched-bracket"
	ReasonUnresolvedImport      Reason = "unresolved-import"
)

// Span is a half-open byte range [Start, End) over the source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// StateDecl is the payload of a KindState node.
type StateDecl struct {
	Name    string `json:"name"`
	Setter  string `json:"setter"`
	Initial string `json:"initial"`
}

// FunctionDecl is the payload of a KindFunction node. Params is the raw
// parameter list text between the parentheses; Body is the raw text
// between the braces.
type FunctionDecl struct {
	Name   string `json:"name"`
	Params string `json:"params"`
	Body   string `json:"body"`
}

// EventBinding is the payload of a KindEvent node. Handler keeps the
// braced expression text exactly as written; Params carries an inline
// arrow's parameter list when one was present.
type EventBinding struct {
	Attr    string `json:"attr"`
	Event   string `json:"event"`
	Handler string `json:"handler"`
	Params  string `json:"params,omitempty"`
	Arrow   bool   `json:"arrow,omitempty"`
}

// ListBinding is the payload of a KindList node. Index is empty unless
// the map callback declared a second parameter.
type ListBinding struct {
	Iterable string `json:"iterable"`
	Item     string `json:"item"`
	Index    string `json:"index,omitempty"`
	Fragment string `json:"fragment"`
}

// ConditionalBinding is the payload of a KindConditional node.
type ConditionalBinding struct {
	Condition string `json:"condition"`
	Fragment  string `json:"fragment"`
}

// ControlledInput is the payload of a KindControlledInput node.
type ControlledInput struct {
	State  string `json:"state"`
	Setter string `json:"setter"`
}

// ClassAttr is the payload of a KindClassName node. Value keeps the
// attribute value exactly as written, quotes or braces included.
type ClassAttr struct {
	Value string `json:"value"`
}

// Node is one recognized span of the source. Exactly one payload field
// is set, matching Kind; Text always holds the verbatim source slice.
type Node struct {
	Kind Kind   `json:"kind"`
	Span Span   `json:"span"`
	Text string `json:"text"`

	State       *StateDecl          `json:"state,omitempty"`
	Function    *FunctionDecl       `json:"function,omitempty"`
	Event       *EventBinding       `json:"event,omitempty"`
	List        *ListBinding        `json:"list,omitempty"`
	Conditional *ConditionalBinding `json:"conditional,omitempty"`
	Input       *ControlledInput    `json:"input,omitempty"`
	Class       *ClassAttr          `json:"class,omitempty"`
	Role        StructureRole       `json:"role,omitempty"`
	Reason      Reason              `json:"reason,omitempty"`
}

// Document is the ordered IR for one source component. Script nodes and
// template nodes are kept in separate sequences because they feed
// different artifacts; each sequence tiles its region of the source.
type Document struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Script   []Node `json:"script"`
	Template []Node `json:"template"`
}

// Nodes returns the full IR in source order: every script node, then
// every template node. The template region is embedded between the
// return-open and return-close structure nodes, so the concatenation of
// spans from both sequences tiles the entire source.
func (d *Document) Nodes() []Node {
	merged := make([]Node, 0, len(d.Script)+len(d.Template))
	merged = append(merged, d.Script...)
	merged = append(merged, d.Template...)
	sortBySpan(merged)
	return merged
}

func sortBySpan(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Span.Start < nodes[j].Span.Start
	})
}

// States returns the state declarations in source order.
func (d *Document) States() []StateDecl {
	var states []StateDecl
	for _, node := range d.Script {
		if node.Kind == KindState && node.State != nil {
			states = append(states, *node.State)
		}
	}
	return states
}

// StateNames returns the set of declared state identifiers.
func (d *Document) StateNames() map[string]bool {
	names := make(map[string]bool)
	for _, state := range d.States() {
		names[state.Name] = true
	}
	return names
}

// CheckCoverage verifies the tiling invariant: the ordered spans of the
// document cover [0, len(source)) with no gaps and no overlaps.
func (d *Document) CheckCoverage() error {
	nodes := d.Nodes()
	if len(nodes) == 0 {
		if len(d.Source) == 0 {
			return nil
		}
		return fmt.Errorf("ir: empty document over %d bytes of source", len(d.Source))
	}
	if nodes[0].Span.Start != 0 {
		return fmt.Errorf("ir: coverage starts at %d, want 0", nodes[0].Span.Start)
	}
	for i := 1; i < len(nodes); i++ {
		prev, cur := nodes[i-1].Span, nodes[i].Span
		if cur.Start != prev.End {
			return fmt.Errorf("ir: span %d..%d does not abut previous end %d", cur.Start, cur.End, prev.End)
		}
	}
	if last := nodes[len(nodes)-1].Span.End; last != len(d.Source) {
		return fmt.Errorf("ir: coverage ends at %d, want %d", last, len(d.Source))
	}
	return nil
}
