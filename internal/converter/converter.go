// File path: internal/converter/converter.go

// Package converter is the pipeline facade: extract, translate,
// generate, one call. It stays pure like the stages it drives; logging,
// persistence, and telemetry belong to the callers.
package converter

import (
	"context"
	"fmt"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/extract"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/generate"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/ir"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/translate"
)

// Options adjusts one conversion. A zero value resolves the component
// name from the source and derives conventional naming from it.
type Options struct {
	Name   string
	Naming *generate.Naming
}

// Fallback is one degraded construct in the conversion report.
type Fallback struct {
	Reason  ir.Reason `json:"reason"`
	Snippet string    `json:"snippet"`
}

// Report summarizes what a conversion recognized and what fell back.
type Report struct {
	Component    string     `json:"component"`
	States       int        `json:"states"`
	Methods      int        `json:"methods"`
	Events       int        `json:"events"`
	Lists        int        `json:"lists"`
	Conditionals int        `json:"conditionals"`
	Inputs       int        `json:"inputs"`
	Fallbacks    []Fallback `json:"fallbacks,omitempty"`
}

// Result is one finished conversion: both artifacts plus the report.
type Result struct {
	Component string `json:"component"`
	ClassBody string `json:"class_body"`
	Template  string `json:"template"`
	Report    Report `json:"report"`
}

const snippetLimit = 240

// Convert runs the full pipeline over source. Fatal taxonomy errors
// (ir.ErrNoComponent, ir.DuplicateStateError) return no result;
// everything else degrades into fallback blocks inside the artifacts.
func Convert(ctx context.Context, source string, opts Options) (*Result, error) {
	doc, err := extract.New().Extract(ctx, opts.Name, source)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	if err := doc.CheckCoverage(); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	out := translate.New().Translate(doc)
	naming := generate.DefaultNaming(doc.Name)
	if opts.Naming != nil {
		naming = *opts.Naming
	}
	return &Result{
		Component: doc.Name,
		ClassBody: generate.ClassArtifact(out, naming),
		Template:  generate.TemplateArtifact(out),
		Report:    buildReport(doc, out),
	}, nil
}

func buildReport(doc *ir.Document, out *translate.Output) Report {
	rep := Report{Component: doc.Name}
	for _, node := range doc.Nodes() {
		switch node.Kind {
		case ir.KindState:
			rep.States++
		case ir.KindFunction:
			rep.Methods++
		case ir.KindEvent:
			rep.Events++
		case ir.KindList:
			rep.Lists++
		case ir.KindConditional:
			rep.Conditionals++
		case ir.KindControlledInput:
			rep.Inputs++
		}
	}
	collect := func(frags []translate.Fragment) {
		for _, frag := range frags {
			if frag.Reason != "" {
				rep.Fallbacks = append(rep.Fallbacks, Fallback{
					Reason:  frag.Reason,
					Snippet: trimSnippet(frag.Source),
				})
			}
		}
	}
	collect(out.Script)
	collect(out.Template)
	return rep
}

func trimSnippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLimit {
		return text
	}
	return string(runes[:snippetLimit]) + "..."
}
