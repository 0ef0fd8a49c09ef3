// File path: internal/extract/template.go
package extract

import (
	"regexp"
	"strings"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/ir"
)

var (
	mapDetectRe = regexp.MustCompile(`\.map\s*\(`)
	mapOpenRe   = regexp.MustCompile(`^([A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*)\.map\s*\(`)
	condExprRe  = regexp.MustCompile(`^(!?)\s*([A-Za-z_$][\w$]*)\s*&&\s*([\s\S]+)$`)

	parenCallbackRe = regexp.MustCompile(`^\(\s*([A-Za-z_$][\w$]*)\s*(?:,\s*([A-Za-z_$][\w$]*)\s*)?\)\s*=>\s*([\s\S]+)$`)

	tagOpenRe  = regexp.MustCompile(`^</?\s*([A-Za-z][\w.-]*)`)
	attrNameRe = regexp.MustCompile(`^[A-Za-z_][\w-]*`)
	identRe    = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

	zeroArrowRe = regexp.MustCompile(`^\(\s*\)\s*=>\s*([\s\S]+)$`)
	oneArrowRe  = regexp.MustCompile(`^\(\s*([A-Za-z_$][\w$]*)\s*\)\s*=>\s*([\s\S]+)$`)
	bareArrowRe = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\s*=>\s*([\s\S]+)$`)

	controlledChangeRe = regexp.MustCompile(`^\(?\s*([A-Za-z_$][\w$]*)\s*\)?\s*=>\s*set([A-Z][\w$]*)\s*\(\s*([A-Za-z_$][\w$]*)\.target\.value\s*\)$`)
)

// scanTemplate walks the JSX region between the return wrapper's parens,
// emitting template nodes that tile [start, end).
func (p *pass) scanTemplate(start, end int) {
	runStart := start
	i := start
	for i < end {
		switch p.src[i] {
		case '{':
			close := matchDelim(p.src[:end], i, '{', '}')
			if close < 0 {
				// the braced expression never closes inside the region
				p.flushMarkup(&runStart, i)
				p.template = append(p.template, p.fallback(i, end, ir.ReasonUnmatchedBracket))
				runStart = end
				i = end
				continue
			}
			node, construct := p.classifyBraced(i, close+1)
			if !construct {
				// plain interpolation stays in the markup run
				i = close + 1
				continue
			}
			p.flushMarkup(&runStart, i)
			p.template = append(p.template, node)
			i = close + 1
			runStart = i
		case '<':
			i = p.scanTag(i, end, &runStart)
		default:
			i++
		}
	}
	p.flushMarkup(&runStart, end)
}

func (p *pass) flushMarkup(runStart *int, to int) {
	if to > *runStart {
		p.template = append(p.template, ir.Node{
			Kind: ir.KindMarkup,
			Span: ir.Span{Start: *runStart, End: to},
			Text: p.src[*runStart:to],
		})
	}
	*runStart = to
}

// classifyBraced decides what a braced template expression is. Braced
// text without markup or a .map call is value interpolation and remains
// in the surrounding markup run (construct == false).
func (p *pass) classifyBraced(bs, be int) (ir.Node, bool) {
	expr := strings.TrimSpace(p.src[bs+1 : be-1])
	scrubbed := scrubStrings(expr)

	hasMarkup := strings.Contains(scrubbed, "<")
	hasMap := mapDetectRe.MatchString(scrubbed)
	if !hasMarkup && !hasMap {
		return ir.Node{}, false
	}

	if m := mapOpenRe.FindStringSubmatchIndex(expr); m != nil {
		return p.classifyMap(bs, be, expr, m), true
	}
	if hasMap {
		// a call chain precedes .map: the whole chain falls back
		return p.fallback(bs, be, ir.ReasonUnsupportedChain), true
	}
	if topLevelTernary(expr) {
		return p.fallback(bs, be, ir.ReasonTernary), true
	}
	if m := condExprRe.FindStringSubmatch(expr); m != nil {
		return p.classifyConditional(bs, be, m), true
	}
	if strings.Contains(scrubbed, "&&") {
		return p.fallback(bs, be, ir.ReasonCompoundCondition), true
	}
	return p.fallback(bs, be, ir.ReasonUnresolvedExpression), true
}

func (p *pass) classifyMap(bs, be int, expr string, m []int) ir.Node {
	iterable := expr[m[2]:m[3]]
	open := m[1] - 1
	close := matchDelim(expr, open, '(', ')')
	if close < 0 {
		return p.fallback(bs, be, ir.ReasonUnmatchedBracket)
	}
	if strings.TrimSpace(expr[close+1:]) != "" {
		// .map(...).<anything> is a chain; the whole span falls back
		return p.fallback(bs, be, ir.ReasonUnsupportedChain)
	}
	item, index, body, ok := splitCallback(strings.TrimSpace(expr[open+1 : close]))
	if !ok {
		return p.fallback(bs, be, ir.ReasonUnresolvedExpression)
	}
	body = unwrapParens(body)
	if !strings.HasPrefix(body, "<") {
		return p.fallback(bs, be, ir.ReasonNonMarkupBody)
	}
	if !singleRooted(body) {
		return p.fallback(bs, be, ir.ReasonMultiRootFragment)
	}
	return ir.Node{
		Kind: ir.KindList,
		Span: ir.Span{Start: bs, End: be},
		Text: p.src[bs:be],
		List: &ir.ListBinding{Iterable: iterable, Item: item, Index: index, Fragment: body},
	}
}

func splitCallback(callback string) (item, index, body string, ok bool) {
	if m := parenCallbackRe.FindStringSubmatch(callback); m != nil {
		return m[1], m[2], strings.TrimSpace(m[3]), true
	}
	if m := bareArrowRe.FindStringSubmatch(callback); m != nil {
		return m[1], "", strings.TrimSpace(m[2]), true
	}
	return "", "", "", false
}

func (p *pass) classifyConditional(bs, be int, m []string) ir.Node {
	frag := unwrapParens(m[3])
	if !strings.HasPrefix(frag, "<") {
		// ident && <non-markup tail>: the condition is not simple
		return p.fallback(bs, be, ir.ReasonCompoundCondition)
	}
	if !singleRooted(frag) {
		return p.fallback(bs, be, ir.ReasonMultiRootFragment)
	}
	return ir.Node{
		Kind:        ir.KindConditional,
		Span:        ir.Span{Start: bs, End: be},
		Text:        p.src[bs:be],
		Conditional: &ir.ConditionalBinding{Condition: m[1] + m[2], Fragment: frag},
	}
}

// tagAttr is one scanned attribute inside an opening tag. Value bounds
// are -1 for boolean attributes.
type tagAttr struct {
	name      string
	nameStart int
	valStart  int
	valEnd    int
	end       int
}

// scanTag walks one tag starting at '<'. Opening tags are checked for
// the controlled-input shape and for event/className attributes, which
// become their own nodes; everything else stays in the markup run.
func (p *pass) scanTag(i, end int, runStart *int) int {
	rest := p.src[i:end]
	m := tagOpenRe.FindStringSubmatch(rest)
	if m == nil {
		return i + 1
	}
	if strings.HasPrefix(rest, "</") {
		gt := strings.IndexByte(rest, '>')
		if gt < 0 {
			return end
		}
		return i + gt + 1
	}

	j := i + len(m[0])
	var attrs []tagAttr
	tagEnd := -1
	for j < end {
		c := p.src[j]
		if c == '>' {
			tagEnd = j + 1
			break
		}
		if c == '/' && j+1 < end && p.src[j+1] == '>' {
			tagEnd = j + 2
			break
		}
		if isSpaceByte(c) {
			j++
			continue
		}
		if c == '{' {
			// spread or stray expression inside the tag
			close := matchDelim(p.src[:end], j, '{', '}')
			if close < 0 {
				j = end
				break
			}
			j = close + 1
			continue
		}
		if c == '"' || c == '\'' {
			j = skipString(p.src[:end], j)
			continue
		}
		a, next, ok := p.scanAttr(j, end)
		if !ok {
			j++
			continue
		}
		attrs = append(attrs, a)
		j = next
	}
	if tagEnd < 0 {
		// the tag never closes inside the region
		p.flushMarkup(runStart, i)
		p.template = append(p.template, p.fallback(i, end, ir.ReasonUnmatchedBracket))
		*runStart = end
		return end
	}

	if strings.EqualFold(m[1], "input") {
		if input := p.controlledInput(attrs); input != nil {
			p.flushMarkup(runStart, i)
			p.template = append(p.template, ir.Node{
				Kind:  ir.KindControlledInput,
				Span:  ir.Span{Start: i, End: tagEnd},
				Text:  p.src[i:tagEnd],
				Input: input,
			})
			*runStart = tagEnd
			return tagEnd
		}
	}

	for _, a := range attrs {
		switch {
		case isEventAttr(a.name):
			p.flushMarkup(runStart, a.nameStart)
			p.template = append(p.template, p.eventNode(a))
			*runStart = a.end
		case a.name == "className" && a.valStart >= 0:
			p.flushMarkup(runStart, a.nameStart)
			p.template = append(p.template, ir.Node{
				Kind:  ir.KindClassName,
				Span:  ir.Span{Start: a.nameStart, End: a.end},
				Text:  p.src[a.nameStart:a.end],
				Class: &ir.ClassAttr{Value: p.src[a.valStart:a.valEnd]},
			})
			*runStart = a.end
		}
	}
	return tagEnd
}

func isEventAttr(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "on") && name[2] >= 'A' && name[2] <= 'Z'
}

// scanAttr reads one attribute at j: a name, optionally followed by
// =value where value is quoted, braced, or bare.
func (p *pass) scanAttr(j, end int) (tagAttr, int, bool) {
	name := attrNameRe.FindString(p.src[j:end])
	if name == "" {
		return tagAttr{}, 0, false
	}
	a := tagAttr{name: name, nameStart: j, valStart: -1, valEnd: -1}
	k := j + len(name)
	if k < end && p.src[k] == '=' {
		k++
		if k < end {
			switch p.src[k] {
			case '"', '\'':
				idx := skipString(p.src[:end], k)
				a.valStart, a.valEnd = k, idx
				k = idx
			case '{':
				close := matchDelim(p.src[:end], k, '{', '}')
				if close < 0 {
					a.valStart, a.valEnd = k, end
					k = end
				} else {
					a.valStart, a.valEnd = k, close+1
					k = close + 1
				}
			default:
				s := k
				for k < end && !isSpaceByte(p.src[k]) && p.src[k] != '>' && p.src[k] != '/' {
					k++
				}
				a.valStart, a.valEnd = s, k
			}
		}
	}
	a.end = k
	return a, k, true
}

// controlledInput matches the two-way binding shape: value={state} plus
// onChange={e => setState(e.target.value)} on a declared state, with no
// other attributes beyond an optional type. Anything looser degrades to
// ordinary attribute handling so no attribute text is lost.
func (p *pass) controlledInput(attrs []tagAttr) *ir.ControlledInput {
	var state, setter string
	for _, a := range attrs {
		switch a.name {
		case "type":
		case "value":
			if a.valStart < 0 || p.src[a.valStart] != '{' {
				return nil
			}
			v := strings.TrimSpace(p.src[a.valStart+1 : a.valEnd-1])
			if !identRe.MatchString(v) {
				return nil
			}
			state = v
		case "onChange":
			if a.valStart < 0 || p.src[a.valStart] != '{' {
				return nil
			}
			m := controlledChangeRe.FindStringSubmatch(strings.TrimSpace(p.src[a.valStart+1 : a.valEnd-1]))
			if m == nil || m[1] != m[3] {
				return nil
			}
			setter = "set" + m[2]
		default:
			return nil
		}
	}
	if state == "" || setter == "" {
		return nil
	}
	if setter != expectedSetter(state) || !p.states[state] {
		return nil
	}
	return &ir.ControlledInput{State: state, Setter: setter}
}

// eventNode turns one on<Event> attribute into an event binding or a
// fallback when the event or handler shape is outside the table.
func (p *pass) eventNode(a tagAttr) ir.Node {
	event, known := ir.DOMEvent(a.name)
	if !known {
		return p.fallback(a.nameStart, a.end, ir.ReasonUnknownEvent)
	}
	if a.valStart < 0 || p.src[a.valStart] != '{' {
		return p.fallback(a.nameStart, a.end, ir.ReasonUnresolvedExpression)
	}
	handler := strings.TrimSpace(p.src[a.valStart+1 : a.valEnd-1])
	binding := &ir.EventBinding{Attr: a.name, Event: event}
	switch {
	case identRe.MatchString(handler):
		binding.Handler = handler
	default:
		param, body, ok := splitArrow(handler)
		if !ok {
			return p.fallback(a.nameStart, a.end, ir.ReasonUnresolvedExpression)
		}
		binding.Arrow = true
		binding.Params = param
		binding.Handler = body
	}
	return ir.Node{
		Kind:  ir.KindEvent,
		Span:  ir.Span{Start: a.nameStart, End: a.end},
		Text:  p.src[a.nameStart:a.end],
		Event: binding,
	}
}

// splitArrow splits a zero- or one-parameter inline arrow handler into
// its parameter and body. Multi-parameter arrows are not translatable.
func splitArrow(handler string) (param, body string, ok bool) {
	if m := zeroArrowRe.FindStringSubmatch(handler); m != nil {
		return "", strings.TrimSpace(m[1]), true
	}
	if m := oneArrowRe.FindStringSubmatch(handler); m != nil {
		return m[1], strings.TrimSpace(m[2]), true
	}
	if m := bareArrowRe.FindStringSubmatch(handler); m != nil {
		return m[1], strings.TrimSpace(m[2]), true
	}
	return "", "", false
}
