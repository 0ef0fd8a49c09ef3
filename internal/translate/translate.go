// File path: internal/translate/translate.go

// Package translate implements the construct translator: pure per-node
// rewriting of extracted IR into Angular-ready fragments. Script nodes
// become class properties, methods, and fallback comments; template
// nodes become directive-bearing markup, rewritten attributes, and
// fallback comments. Translation never consults the clock, the
// filesystem, or the network.
package translate

import (
	"strings"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/ir"
)

// Kind labels what a fragment contributes to its artifact.
type Kind string

const (
	KindProperty         Kind = "property"
	KindMethod           Kind = "method"
	KindScriptFallback   Kind = "script-fallback"
	KindTemplate         Kind = "template"
	KindTemplateFallback Kind = "template-fallback"
)

// Fragment is one translated piece of an artifact. Source keeps the
// original node text for reporting; Reason is set on fallbacks and on
// fragments carrying an unresolved-expression annotation.
type Fragment struct {
	Kind   Kind
	Text   string
	Source string
	Reason ir.Reason
}

// Output holds the translated fragment streams for one component, in
// source order.
type Output struct {
	Component string
	Script    []Fragment
	Template  []Fragment
}

// Translator rewrites IR documents into artifact fragments.
type Translator struct{}

// New returns a ready translator.
func New() *Translator {
	return &Translator{}
}

// Translate rewrites every script and template node of doc. Structure
// nodes are consumed here: the generator regenerates their roles as the
// class header and artifact boundaries.
func (t *Translator) Translate(doc *ir.Document) *Output {
	p := &pass{states: doc.StateNames()}
	out := &Output{Component: doc.Name}
	for _, node := range doc.Script {
		switch node.Kind {
		case ir.KindState:
			out.Script = append(out.Script, p.property(node))
		case ir.KindFunction:
			out.Script = append(out.Script, p.method(node))
		case ir.KindUnsupported:
			out.Script = append(out.Script, scriptFallback(node))
		}
	}
	for _, node := range doc.Template {
		out.Template = append(out.Template, p.templateFragment(node))
	}
	return out
}

type pass struct {
	states map[string]bool
}

// property renders one state declaration as a typed class property.
// Initializers that resolve to no literal type keep their text under an
// any placeholder with an inline annotation.
func (p *pass) property(node ir.Node) Fragment {
	st := node.State
	typ, resolved := inferType(st.Initial)
	var b strings.Builder
	b.WriteString(st.Name)
	b.WriteString(": ")
	b.WriteString(typ)
	if strings.TrimSpace(st.Initial) != "" {
		b.WriteString(" = ")
		b.WriteString(strings.TrimSpace(st.Initial))
	}
	b.WriteString(";")
	frag := Fragment{Kind: KindProperty, Text: b.String(), Source: node.Text}
	if !resolved {
		frag.Text += " " + annotation(ir.ReasonUnresolvedExpression)
		frag.Reason = ir.ReasonUnresolvedExpression
	}
	return frag
}

// method renders one captured arrow function as a class method. Setter
// calls become assignments, state references gain this., and the body
// is re-indented to method depth. A setter call naming no declared
// state leaves the call text in place and annotates the method.
func (p *pass) method(node ir.Node) Fragment {
	fn := node.Function
	body, unresolved := p.rewriteSetters(fn.Body, false)
	for name := range p.states {
		body = replaceIdent(body, name, "this."+name)
	}
	body = reindent(body)

	var b strings.Builder
	b.WriteString(fn.Name)
	b.WriteString("(")
	b.WriteString(strings.TrimSpace(fn.Params))
	b.WriteString(") {")
	if unresolved {
		b.WriteString("\n  ")
		b.WriteString(annotation(ir.ReasonUnresolvedExpression))
	}
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	if unresolved || body != "" {
		b.WriteString("\n}")
	} else {
		b.WriteString("}")
	}
	frag := Fragment{Kind: KindMethod, Text: b.String(), Source: node.Text}
	if unresolved {
		frag.Reason = ir.ReasonUnresolvedExpression
	}
	return frag
}

func (p *pass) templateFragment(node ir.Node) Fragment {
	switch node.Kind {
	case ir.KindMarkup:
		return Fragment{Kind: KindTemplate, Text: node.Text, Source: node.Text}
	case ir.KindEvent:
		return p.eventFragment(node)
	case ir.KindList:
		return p.listFragment(node)
	case ir.KindConditional:
		return p.conditionalFragment(node)
	case ir.KindControlledInput:
		text := `<input [(ngModel)]="` + node.Input.State + `" type="text" />`
		return Fragment{Kind: KindTemplate, Text: text, Source: node.Text}
	case ir.KindClassName:
		return Fragment{Kind: KindTemplate, Text: "class=" + node.Class.Value, Source: node.Text}
	default:
		return templateFallback(node)
	}
}

// eventFragment renders one event attribute as (event)="expr". Bare
// handler references keep their text; inline arrows are rewritten to
// template statement form.
func (p *pass) eventFragment(node ir.Node) Fragment {
	ev := node.Event
	expr := ev.Handler
	if ev.Arrow {
		expr = p.templateExpr(ev.Handler, ev.Params)
	}
	text := "(" + ev.Event + `)="` + escapeAttr(expr) + `"`
	return Fragment{Kind: KindTemplate, Text: text, Source: node.Text}
}

func (p *pass) listFragment(node ir.Node) Fragment {
	l := node.List
	frag := p.rewriteFragment(l.Fragment, true)
	directive := `*ngFor="let ` + l.Item + " of " + l.Iterable
	if l.Index != "" {
		directive += "; let " + l.Index + " = index"
	}
	directive += `"`
	text, ok := insertDirective(frag, directive)
	if !ok {
		return templateFallback(fallbackNode(node, ir.ReasonUnresolvedExpression))
	}
	return Fragment{Kind: KindTemplate, Text: text, Source: node.Text}
}

func (p *pass) conditionalFragment(node ir.Node) Fragment {
	c := node.Conditional
	frag := p.rewriteFragment(c.Fragment, false)
	text, ok := insertDirective(frag, `*ngIf="`+c.Condition+`"`)
	if !ok {
		return templateFallback(fallbackNode(node, ir.ReasonUnresolvedExpression))
	}
	return Fragment{Kind: KindTemplate, Text: text, Source: node.Text}
}

func fallbackNode(node ir.Node, reason ir.Reason) ir.Node {
	node.Reason = reason
	return node
}

// scriptFallback wraps an unsupported script span in the class-comment
// fallback form, text verbatim.
func scriptFallback(node ir.Node) Fragment {
	text := "/* " + ir.FallbackMarker + " (" + string(node.Reason) + ")\n" + node.Text + "\n*/"
	return Fragment{Kind: KindScriptFallback, Text: text, Source: node.Text, Reason: node.Reason}
}

// templateFallback wraps an unsupported template span in the
// HTML-comment fallback form, text verbatim.
func templateFallback(node ir.Node) Fragment {
	text := "<!-- " + ir.FallbackMarker + " (" + string(node.Reason) + ")\n" + node.Text + "\n-->"
	return Fragment{Kind: KindTemplateFallback, Text: text, Source: node.Text, Reason: node.Reason}
}

func annotation(reason ir.Reason) string {
	return "/* " + ir.FallbackMarker + " (" + string(reason) + ") */"
}

// inferType maps a state initializer literal to its TypeScript type.
// The second result is false when no literal form matched and the
// property needs an annotation.
func inferType(init string) (string, bool) {
	init = strings.TrimSpace(init)
	switch {
	case init == "":
		return "any", false
	case init == "true" || init == "false":
		return "boolean", true
	case numberLit(init):
		return "number", true
	case stringLit(init):
		return "string", true
	case strings.HasPrefix(init, "["):
		return arrayType(init)
	}
	return "any", false
}

func arrayType(init string) (string, bool) {
	if matchDelim(init, 0, '[', ']') != len(init)-1 {
		return "any", false
	}
	inner := strings.TrimSpace(init[1 : len(init)-1])
	if inner == "" {
		return "any[]", true
	}
	elem := ""
	for _, part := range splitTopLevel(inner, ',') {
		t, ok := scalarType(strings.TrimSpace(part))
		if !ok {
			return "any[]", true
		}
		if elem == "" {
			elem = t
		} else if elem != t {
			return "any[]", true
		}
	}
	return elem + "[]", true
}

func scalarType(lit string) (string, bool) {
	switch {
	case lit == "true" || lit == "false":
		return "boolean", true
	case numberLit(lit):
		return "number", true
	case stringLit(lit):
		return "string", true
	}
	return "", false
}

func numberLit(lit string) bool {
	if strings.HasPrefix(lit, "-") {
		lit = lit[1:]
	}
	if lit == "" {
		return false
	}
	digits, dots := 0, 0
	for i := 0; i < len(lit); i++ {
		switch {
		case lit[i] >= '0' && lit[i] <= '9':
			digits++
		case lit[i] == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

func stringLit(lit string) bool {
	if len(lit) < 2 {
		return false
	}
	c := lit[0]
	if c != '\'' && c != '"' && c != '`' {
		return false
	}
	return skipString(lit, 0) == len(lit)
}

func escapeAttr(expr string) string {
	return strings.ReplaceAll(expr, `"`, "&quot;")
}
