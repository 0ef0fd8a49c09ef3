// File path: internal/extract/extract_test.go
package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/ir"
)

const counterSource = `import React, { useState } from 'react';

function Counter() {
  const [count, setCount] = useState(0);
  const increment = () => {
    setCount(count + 1);
  };

  return (
    <div className="counter">
      <p>{count}</p>
      <button onClick={increment}>+1</button>
      <ul>
        {items.map((item, i) => (
          <li key={i}>{item}</li>
        ))}
      </ul>
    </div>
  );
}

export default Counter;
`

func mustExtract(t *testing.T, source string) *ir.Document {
	t.Helper()
	doc, err := New().Extract(context.Background(), "", source)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if err := doc.CheckCoverage(); err != nil {
		t.Fatalf("coverage broken: %v", err)
	}
	return doc
}

func nodesOfKind(doc *ir.Document, kind ir.Kind) []ir.Node {
	var out []ir.Node
	for _, node := range doc.Nodes() {
		if node.Kind == kind {
			out = append(out, node)
		}
	}
	return out
}

func TestExtractCounterComponent(t *testing.T) {
	doc := mustExtract(t, counterSource)
	if doc.Name != "Counter" {
		t.Fatalf("expected component Counter, got %q", doc.Name)
	}

	states := doc.States()
	if len(states) != 1 {
		t.Fatalf("expected one state, got %d", len(states))
	}
	if states[0].Name != "count" || states[0].Setter != "setCount" || states[0].Initial != "0" {
		t.Fatalf("unexpected state: %+v", states[0])
	}

	funcs := nodesOfKind(doc, ir.KindFunction)
	if len(funcs) != 1 {
		t.Fatalf("expected one function, got %d", len(funcs))
	}
	fn := funcs[0].Function
	if fn.Name != "increment" || fn.Params != "" {
		t.Fatalf("unexpected function: %+v", fn)
	}
	if !strings.Contains(fn.Body, "setCount(count + 1);") {
		t.Fatalf("function body lost the setter call: %q", fn.Body)
	}

	events := nodesOfKind(doc, ir.KindEvent)
	if len(events) != 1 {
		t.Fatalf("expected one event binding, got %d", len(events))
	}
	ev := events[0].Event
	if ev.Event != "click" || ev.Handler != "increment" || ev.Arrow {
		t.Fatalf("unexpected event binding: %+v", ev)
	}

	lists := nodesOfKind(doc, ir.KindList)
	if len(lists) != 1 {
		t.Fatalf("expected one list binding, got %d", len(lists))
	}
	list := lists[0].List
	if list.Iterable != "items" || list.Item != "item" || list.Index != "i" {
		t.Fatalf("unexpected list binding: %+v", list)
	}
	if list.Fragment != "<li key={i}>{item}</li>" {
		t.Fatalf("unexpected list fragment: %q", list.Fragment)
	}

	classes := nodesOfKind(doc, ir.KindClassName)
	if len(classes) != 1 {
		t.Fatalf("expected one className attribute, got %d", len(classes))
	}
	if classes[0].Class.Value != `"counter"` {
		t.Fatalf("unexpected className value: %q", classes[0].Class.Value)
	}

	if unsupported := nodesOfKind(doc, ir.KindUnsupported); len(unsupported) != 0 {
		t.Fatalf("expected no fallbacks, got %+v", unsupported)
	}

	interpolated := false
	for _, node := range nodesOfKind(doc, ir.KindMarkup) {
		if strings.Contains(node.Text, "{count}") {
			interpolated = true
		}
	}
	if !interpolated {
		t.Fatalf("expected {count} interpolation to stay inside a markup run")
	}
}

func TestExtractFallbackReasons(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		reason ir.Reason
	}{
		{"ternary", `{flag ? <a>yes</a> : <b>no</b>}`, ir.ReasonTernary},
		{"chained call before map", `{items.filter(Boolean).map(i => <li>{i}</li>)}`, ir.ReasonUnsupportedChain},
		{"chained call after map", `{items.map(i => <li>{i}</li>).reverse()}`, ir.ReasonUnsupportedChain},
		{"compound condition", `{a && b && <p>x</p>}`, ir.ReasonCompoundCondition},
		{"multi root fragment", `{items.map(i => (<li>{i}</li><li>pad</li>))}`, ir.ReasonMultiRootFragment},
		{"non markup body", `{items.map(i => i * 2)}`, ir.ReasonNonMarkupBody},
		{"unknown event", `<div onSwipe={handleSwipe}>x</div>`, ir.ReasonUnknownEvent},
		{"multi param handler", `<button onClick={(a, b) => fire(a, b)}>x</button>`, ir.ReasonUnresolvedExpression},
	}
	for _, tc := range cases {
		src := "function Demo() {\n  return (\n    <div>" + tc.body + "</div>\n  );\n}\n"
		doc := mustExtract(t, src)
		found := false
		for _, node := range nodesOfKind(doc, ir.KindUnsupported) {
			if node.Reason == tc.reason {
				found = true
				if !strings.Contains(src, node.Text) {
					t.Fatalf("%s: fallback text %q is not verbatim source", tc.name, node.Text)
				}
			}
		}
		if !found {
			t.Fatalf("%s: expected fallback reason %s, nodes: %+v", tc.name, tc.reason, doc.Nodes())
		}
	}
}

func TestExtractScriptFallbacks(t *testing.T) {
	src := `function Demo() {
  const [value, setVal] = useState('');
  const load = async () => {
    await fetch('/data');
  };
  function helper() {
    return 1;
  }
  return (
    <p>static</p>
  );
}
`
	doc := mustExtract(t, src)
	want := map[ir.Reason]bool{
		ir.ReasonSetterMismatch:  false,
		ir.ReasonAsyncFunction:   false,
		ir.ReasonFunctionKeyword: false,
	}
	for _, node := range nodesOfKind(doc, ir.KindUnsupported) {
		if _, ok := want[node.Reason]; ok {
			want[node.Reason] = true
		}
	}
	for reason, found := range want {
		if !found {
			t.Fatalf("expected %s fallback", reason)
		}
	}
	if len(doc.States()) != 0 {
		t.Fatalf("mismatched setter must not register a state")
	}
}

func TestExtractDuplicateStateFatal(t *testing.T) {
	src := `function Dup() {
  const [count, setCount] = useState(0);
  const [count, setCount] = useState(1);
  return (
    <p>{count}</p>
  );
}
`
	doc, err := New().Extract(context.Background(), "", src)
	if doc != nil {
		t.Fatalf("expected no document on fatal error")
	}
	var dup *ir.DuplicateStateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateStateError, got %v", err)
	}
	if dup.Name != "count" {
		t.Fatalf("unexpected duplicate name: %q", dup.Name)
	}
	if !ir.Fatal(err) {
		t.Fatalf("duplicate state must be fatal")
	}
}

func TestExtractNoComponent(t *testing.T) {
	if _, err := New().Extract(context.Background(), "", "const x = 5;\n"); !errors.Is(err, ir.ErrNoComponent) {
		t.Fatalf("expected ErrNoComponent, got %v", err)
	}
	src := "function Empty() {\n  const [a, setA] = useState(0);\n}\n"
	if _, err := New().Extract(context.Background(), "", src); !errors.Is(err, ir.ErrNoComponent) {
		t.Fatalf("expected ErrNoComponent for missing return, got %v", err)
	}
	if !ir.Fatal(ir.ErrNoComponent) {
		t.Fatalf("missing component must be fatal")
	}
}

func TestExtractControlledInput(t *testing.T) {
	src := `function NameForm() {
  const [name, setName] = useState('');
  return (
    <input value={name} onChange={e => setName(e.target.value)} type="text" />
  );
}
`
	doc := mustExtract(t, src)
	inputs := nodesOfKind(doc, ir.KindControlledInput)
	if len(inputs) != 1 {
		t.Fatalf("expected one controlled input, got %d", len(inputs))
	}
	if inputs[0].Input.State != "name" || inputs[0].Input.Setter != "setName" {
		t.Fatalf("unexpected controlled input: %+v", inputs[0].Input)
	}
	if !strings.HasPrefix(inputs[0].Text, "<input") {
		t.Fatalf("controlled input node must span the whole tag: %q", inputs[0].Text)
	}
}

func TestExtractControlledInputNearMiss(t *testing.T) {
	src := `function NameForm() {
  const [name, setName] = useState('');
  const [title, setTitle] = useState('');
  return (
    <input value={name} onChange={e => setTitle(e.target.value)} />
  );
}
`
	doc := mustExtract(t, src)
	if inputs := nodesOfKind(doc, ir.KindControlledInput); len(inputs) != 0 {
		t.Fatalf("mismatched setter must not form a controlled input: %+v", inputs)
	}
	events := nodesOfKind(doc, ir.KindEvent)
	if len(events) != 1 {
		t.Fatalf("expected the onChange attribute as a plain event, got %d", len(events))
	}
	ev := events[0].Event
	if ev.Event != "change" || !ev.Arrow || ev.Params != "e" {
		t.Fatalf("unexpected event binding: %+v", ev)
	}
}

func TestExtractConditionals(t *testing.T) {
	src := `function Toggle() {
  return (
    <div>
      {visible && <p>Shown</p>}
      {!hidden && (<div>Also</div>)}
    </div>
  );
}
`
	doc := mustExtract(t, src)
	conds := nodesOfKind(doc, ir.KindConditional)
	if len(conds) != 2 {
		t.Fatalf("expected two conditionals, got %d", len(conds))
	}
	if conds[0].Conditional.Condition != "visible" || conds[0].Conditional.Fragment != "<p>Shown</p>" {
		t.Fatalf("unexpected first conditional: %+v", conds[0].Conditional)
	}
	if conds[1].Conditional.Condition != "!hidden" || conds[1].Conditional.Fragment != "<div>Also</div>" {
		t.Fatalf("unexpected second conditional: %+v", conds[1].Conditional)
	}
}

func TestExtractUnmatchedReturnBracket(t *testing.T) {
	src := "function Broken() {\n  return (\n    <div>\n}\n"
	doc := mustExtract(t, src)
	fallbacks := nodesOfKind(doc, ir.KindUnsupported)
	if len(fallbacks) != 1 {
		t.Fatalf("expected a single fallback, got %d", len(fallbacks))
	}
	if fallbacks[0].Reason != ir.ReasonUnmatchedBracket {
		t.Fatalf("unexpected reason: %s", fallbacks[0].Reason)
	}
	if !strings.HasPrefix(fallbacks[0].Text, "return (") {
		t.Fatalf("fallback must start at the return keyword: %q", fallbacks[0].Text)
	}
}

func TestExtractNameOverride(t *testing.T) {
	doc := mustExtract(t, counterSource)
	if doc.Name != "Counter" {
		t.Fatalf("expected resolved name Counter, got %q", doc.Name)
	}
	renamed, err := New().Extract(context.Background(), "Widget", counterSource)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if renamed.Name != "Widget" {
		t.Fatalf("expected override Widget, got %q", renamed.Name)
	}
}

func TestExtractCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Extract(ctx, "", counterSource); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractArrowComponent(t *testing.T) {
	src := `const Badge = () => {
  return (
    <span className="badge">new</span>
  );
};
`
	doc := mustExtract(t, src)
	if doc.Name != "Badge" {
		t.Fatalf("expected component Badge, got %q", doc.Name)
	}
}
