// File path: internal/extract/extract.go

// Package extract implements the pattern extractor: anchored patterns and
// bracket-matching scanners that turn raw component text into the ordered
// IR. The extractor never drops text: every byte of the input lands in
// exactly one node, so the document tiles the whole source.
package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/ir"
)

var (
	funcComponentRe  = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+(?:default\s+)?)?function\s+([A-Z][\w$]*)\s*\(([^)]*)\)\s*\{`)
	arrowComponentRe = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+(?:default\s+)?)?const\s+([A-Z][\w$]*)\s*=\s*\(([^)]*)\)\s*=>\s*\{`)

	reactImportRe = regexp.MustCompile(`from\s+['"]react['"]`)
	stateOpenRe   = regexp.MustCompile(`^const\s*\[\s*([A-Za-z_$][\w$]*)\s*,\s*([A-Za-z_$][\w$]*)\s*\]\s*=\s*useState\s*\(`)
	asyncArrowRe  = regexp.MustCompile(`^const\s+[A-Za-z_$][\w$]*\s*=\s*async\b`)
	arrowFuncRe   = regexp.MustCompile(`^const\s+([A-Za-z_$][\w$]*)\s*=\s*\(([^)]*)\)\s*=>\s*\{`)
	returnOpenRe  = regexp.MustCompile(`^return\b\s*\(`)
	returnCloseRe = regexp.MustCompile(`^\)(?:\s*;)?`)
	stmtSemiRe    = regexp.MustCompile(`^\s*;`)
	exportStmtRe  = regexp.MustCompile(`^export\s+(?:default\s+[A-Za-z_$][\w$]*|\{[^}]*\})\s*;?`)
)

// Extractor scans one React component source into an ir.Document.
type Extractor struct{}

// New returns a ready extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract scans source into an ordered IR document. A non-empty name
// overrides the resolved component name; recognition still requires a
// component declaration in the text. Fatal taxonomy errors
// (ir.ErrNoComponent, ir.DuplicateStateError) return no document.
func (e *Extractor) Extract(ctx context.Context, name, source string) (*ir.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	p := &pass{src: source, states: make(map[string]bool)}
	doc, err := p.run()
	if err != nil {
		return nil, err
	}
	if name != "" {
		doc.Name = name
	}
	return doc, nil
}

// pass accumulates the script and template node sequences for one scan.
type pass struct {
	src      string
	states   map[string]bool
	script   []ir.Node
	template []ir.Node
}

func (p *pass) run() (*ir.Document, error) {
	declStart, headerEnd, name := p.findComponent()
	if declStart < 0 {
		return nil, ir.ErrNoComponent
	}
	p.scanOuter(0, declStart)
	p.addStructure(ir.RoleComponentDecl, declStart, headerEnd)

	returnStart, err := p.scanBody(headerEnd)
	if err != nil {
		return nil, err
	}
	if returnStart < 0 {
		return nil, fmt.Errorf("component %s has no template return block: %w", name, ir.ErrNoComponent)
	}

	open := returnOpenRe.FindStringIndex(p.src[returnStart:])
	openEnd := returnStart + open[1]
	closeIdx := matchDelim(p.src, openEnd-1, '(', ')')
	if closeIdx < 0 {
		// The return wrapper never closes: everything from the return
		// keyword onward is preserved as one block.
		p.addFallback(returnStart, len(p.src), ir.ReasonUnmatchedBracket)
		return p.document(name), nil
	}
	p.addStructure(ir.RoleReturnOpen, returnStart, openEnd)
	p.scanTemplate(openEnd, closeIdx)
	closeEnd := closeIdx + len(returnCloseRe.FindString(p.src[closeIdx:]))
	p.addStructure(ir.RoleReturnClose, closeIdx, closeEnd)
	p.scanTail(closeEnd)
	return p.document(name), nil
}

func (p *pass) document(name string) *ir.Document {
	return &ir.Document{Name: name, Source: p.src, Script: p.script, Template: p.template}
}

// findComponent resolves the first capitalized function or arrow
// component declaration, returning its start, the offset just past the
// body's opening brace, and the component name.
func (p *pass) findComponent() (int, int, string) {
	pick := funcComponentRe.FindStringSubmatchIndex(p.src)
	if am := arrowComponentRe.FindStringSubmatchIndex(p.src); am != nil && (pick == nil || am[0] < pick[0]) {
		pick = am
	}
	if pick == nil {
		return -1, -1, ""
	}
	return pick[0], pick[1], p.src[pick[2]:pick[3]]
}

// scanOuter walks the module-scope region before the component
// declaration: imports, whitespace, and anything else preserved verbatim.
func (p *pass) scanOuter(from, to int) {
	i := from
	for i < to {
		start := skipSpace(p.src, i, to)
		p.addWhitespace(i, start)
		if start >= to {
			return
		}
		rest := p.src[start:to]
		if strings.HasPrefix(rest, "import") && boundaryAt(rest, len("import")) {
			end := start + statementEnd(rest)
			if reactImportRe.MatchString(p.src[start:end]) {
				p.addStructure(ir.RoleReactImport, start, end)
			} else {
				p.addFallback(start, end, ir.ReasonUnresolvedImport)
			}
			i = end
			continue
		}
		end := start + statementEnd(rest)
		p.addFallback(start, end, ir.ReasonUnrecognizedStatement)
		i = end
	}
}

// scanBody walks component-body statements until the JSX return
// statement, appending script nodes along the way. Returns the return
// statement's offset, or -1 when the body holds none.
func (p *pass) scanBody(from int) (int, error) {
	i := from
	for i < len(p.src) {
		start := skipSpace(p.src, i, len(p.src))
		p.addWhitespace(i, start)
		if start >= len(p.src) {
			return -1, nil
		}
		if returnOpenRe.MatchString(p.src[start:]) {
			return start, nil
		}
		next, err := p.bodyStatement(start)
		if err != nil {
			return -1, err
		}
		i = next
	}
	return -1, nil
}

func (p *pass) bodyStatement(start int) (int, error) {
	rest := p.src[start:]
	if m := stateOpenRe.FindStringSubmatchIndex(rest); m != nil {
		return p.stateStatement(start, rest, m)
	}
	if asyncArrowRe.MatchString(rest) {
		end := start + blockEnd(rest)
		p.addFallback(start, end, ir.ReasonAsyncFunction)
		return end, nil
	}
	if m := arrowFuncRe.FindStringSubmatchIndex(rest); m != nil {
		return p.arrowStatement(start, rest, m), nil
	}
	if strings.HasPrefix(rest, "function") && boundaryAt(rest, len("function")) {
		end := start + blockEnd(rest)
		p.addFallback(start, end, ir.ReasonFunctionKeyword)
		return end, nil
	}
	end := start + statementEnd(rest)
	p.addFallback(start, end, ir.ReasonUnrecognizedStatement)
	return end, nil
}

// stateStatement captures one useState destructuring. The setter must
// follow the set<Name> convention; duplicate names are fatal.
func (p *pass) stateStatement(start int, rest string, m []int) (int, error) {
	name := rest[m[2]:m[3]]
	setter := rest[m[4]:m[5]]
	open := m[1] - 1
	close := matchDelim(rest, open, '(', ')')
	if close < 0 {
		end := start + statementEnd(rest)
		p.addFallback(start, end, ir.ReasonUnmatchedBracket)
		return end, nil
	}
	end := close + 1
	if sm := stmtSemiRe.FindString(rest[end:]); sm != "" {
		end += len(sm)
	}
	if setter != expectedSetter(name) {
		p.addFallback(start, start+end, ir.ReasonSetterMismatch)
		return start + end, nil
	}
	if p.states[name] {
		return 0, &ir.DuplicateStateError{Name: name}
	}
	p.states[name] = true
	span := ir.Span{Start: start, End: start + end}
	p.script = append(p.script, ir.Node{
		Kind:  ir.KindState,
		Span:  span,
		Text:  p.src[span.Start:span.End],
		State: &ir.StateDecl{Name: name, Setter: setter, Initial: strings.TrimSpace(rest[open+1 : close])},
	})
	return start + end, nil
}

func expectedSetter(name string) string {
	return "set" + strings.ToUpper(name[:1]) + name[1:]
}

// arrowStatement captures one arrow-function declaration as a method
// entry: name, raw parameter text, raw body text.
func (p *pass) arrowStatement(start int, rest string, m []int) int {
	brace := m[1] - 1
	close := matchDelim(rest, brace, '{', '}')
	if close < 0 {
		end := start + statementEnd(rest)
		p.addFallback(start, end, ir.ReasonUnmatchedBracket)
		return end
	}
	end := close + 1
	if end < len(rest) && rest[end] == ';' {
		end++
	}
	span := ir.Span{Start: start, End: start + end}
	p.script = append(p.script, ir.Node{
		Kind: ir.KindFunction,
		Span: span,
		Text: p.src[span.Start:span.End],
		Function: &ir.FunctionDecl{
			Name:   rest[m[2]:m[3]],
			Params: rest[m[4]:m[5]],
			Body:   rest[brace+1 : close],
		},
	})
	return start + end
}

// scanTail walks the region after the return statement: the component's
// closing brace, the export statement, and anything else preserved.
func (p *pass) scanTail(from int) {
	i := from
	for i < len(p.src) {
		start := skipSpace(p.src, i, len(p.src))
		p.addWhitespace(i, start)
		if start >= len(p.src) {
			return
		}
		rest := p.src[start:]
		switch {
		case rest[0] == '}':
			end := start + 1
			if end < len(p.src) && p.src[end] == ';' {
				end++
			}
			p.addStructure(ir.RoleComponentDecl, start, end)
			i = end
		case exportStmtRe.MatchString(rest):
			loc := exportStmtRe.FindStringIndex(rest)
			p.addStructure(ir.RoleExport, start, start+loc[1])
			i = start + loc[1]
		default:
			end := start + statementEnd(rest)
			p.addFallback(start, end, ir.ReasonUnrecognizedStatement)
			i = end
		}
	}
}

func (p *pass) addWhitespace(from, to int) {
	if to <= from {
		return
	}
	p.addStructure(ir.RoleWhitespace, from, to)
}

func (p *pass) addStructure(role ir.StructureRole, from, to int) {
	p.script = append(p.script, ir.Node{
		Kind: ir.KindStructure,
		Role: role,
		Span: ir.Span{Start: from, End: to},
		Text: p.src[from:to],
	})
}

func (p *pass) addFallback(from, to int, reason ir.Reason) {
	p.script = append(p.script, p.fallback(from, to, reason))
}

func (p *pass) fallback(from, to int, reason ir.Reason) ir.Node {
	return ir.Node{
		Kind:   ir.KindUnsupported,
		Span:   ir.Span{Start: from, End: to},
		Text:   p.src[from:to],
		Reason: reason,
	}
}
