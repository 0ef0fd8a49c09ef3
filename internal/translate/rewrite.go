// File path: internal/translate/rewrite.go
package translate

import (
	"regexp"
	"strings"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/ir"
)

var (
	setterCallRe = regexp.MustCompile(`\bset([A-Z][\w$]*)\s*\(`)
	tagNameRe    = regexp.MustCompile(`^<\s*[A-Za-z][\w.-]*`)
	identRe      = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

	fragKeyRe       = regexp.MustCompile(`\s+key=(?:\{[^{}]*\}|"[^"]*"|'[^']*')`)
	fragClassRe     = regexp.MustCompile(`\bclassName=`)
	fragEventOpenRe = regexp.MustCompile(`\bon([A-Z][\w$]*)\s*=\s*\{`)

	zeroArrowRe = regexp.MustCompile(`^\(\s*\)\s*=>\s*([\s\S]+)$`)
	oneArrowRe  = regexp.MustCompile(`^\(\s*([A-Za-z_$][\w$]*)\s*\)\s*=>\s*([\s\S]+)$`)
	bareArrowRe = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\s*=>\s*([\s\S]+)$`)
)

// timerGlobals are set-prefixed standard functions, never state setters.
var timerGlobals = map[string]bool{
	"setTimeout":  true,
	"setInterval": true,
}

// rewriteSetters converts declared-setter calls into assignments: class
// form `this.name = args`, template form `name = args`. A call shaped
// like a setter that names no declared state stays verbatim and is
// reported so the caller can annotate.
func (p *pass) rewriteSetters(text string, template bool) (string, bool) {
	var b strings.Builder
	unresolved := false
	i := 0
	for i < len(text) {
		m := setterCallRe.FindStringSubmatchIndex(text[i:])
		if m == nil {
			b.WriteString(text[i:])
			break
		}
		start, openEnd := i+m[0], i+m[1]
		if start > 0 && text[start-1] == '.' {
			b.WriteString(text[i:openEnd])
			i = openEnd
			continue
		}
		name := text[i+m[2] : i+m[3]]
		if timerGlobals["set"+name] {
			b.WriteString(text[i:openEnd])
			i = openEnd
			continue
		}
		state := decapitalize(name)
		close := matchDelim(text, openEnd-1, '(', ')')
		if close < 0 {
			b.WriteString(text[i:])
			return b.String(), true
		}
		if !p.states[state] {
			unresolved = true
			b.WriteString(text[i : close+1])
			i = close + 1
			continue
		}
		args, nested := p.rewriteSetters(text[openEnd:close], template)
		unresolved = unresolved || nested
		b.WriteString(text[i:start])
		if !template {
			b.WriteString("this.")
		}
		b.WriteString(state)
		b.WriteString(" = ")
		b.WriteString(strings.TrimSpace(args))
		i = close + 1
	}
	return b.String(), unresolved
}

// replaceIdent substitutes whole-identifier occurrences of ident,
// skipping string literals, property accesses (.ident), and positions
// inside longer names. Spread references (...ident) still count.
func replaceIdent(text, ident, with string) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '\'' || c == '"' || c == '`' {
			end := skipString(text, i)
			b.WriteString(text[i:end])
			i = end
			continue
		}
		if c == ident[0] && strings.HasPrefix(text[i:], ident) {
			end := i + len(ident)
			prevOK := i == 0 || !isWordByte(text[i-1])
			if prevOK && i > 0 && text[i-1] == '.' {
				prevOK = i >= 3 && text[i-3:i] == "..."
			}
			nextOK := end >= len(text) || !isWordByte(text[end])
			if prevOK && nextOK {
				b.WriteString(with)
				i = end
				continue
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// templateExpr rewrites an inline arrow body into an Angular template
// statement: setter calls in assignment form without this., the single
// parameter mapped to $event, lines collapsed, the trailing semicolon
// dropped.
func (p *pass) templateExpr(body, param string) string {
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, "{") && matchDelim(body, 0, '{', '}') == len(body)-1 {
		body = strings.TrimSpace(body[1 : len(body)-1])
	}
	body, _ = p.rewriteSetters(body, true)
	if param != "" {
		body = replaceIdent(body, param, "$event")
	}
	var parts []string
	for _, line := range strings.Split(body, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.TrimSuffix(strings.Join(parts, " "), ";")
}

// rewriteFragment applies the attribute passes to a recognized list or
// conditional fragment: key attributes dropped (lists only), known
// event attributes rewritten, className renamed.
func (p *pass) rewriteFragment(frag string, dropKeys bool) string {
	if dropKeys {
		frag = fragKeyRe.ReplaceAllString(frag, "")
	}
	frag = p.rewriteFragmentEvents(frag)
	return fragClassRe.ReplaceAllString(frag, "class=")
}

// rewriteFragmentEvents rewrites on<Event>={...} attributes inside a
// fragment. Unknown events and untranslatable handlers stay verbatim.
func (p *pass) rewriteFragmentEvents(frag string) string {
	var b strings.Builder
	i := 0
	for i < len(frag) {
		m := fragEventOpenRe.FindStringSubmatchIndex(frag[i:])
		if m == nil {
			b.WriteString(frag[i:])
			break
		}
		start, braceEnd := i+m[0], i+m[1]
		close := matchDelim(frag, braceEnd-1, '{', '}')
		if close < 0 {
			b.WriteString(frag[i:])
			break
		}
		b.WriteString(frag[i:start])
		attr := frag[start : close+1]
		event, known := ir.DOMEvent("on" + frag[i+m[2]:i+m[3]])
		if !known {
			b.WriteString(attr)
			i = close + 1
			continue
		}
		handler := strings.TrimSpace(frag[braceEnd:close])
		expr, ok := p.handlerExpr(handler)
		if !ok {
			b.WriteString(attr)
			i = close + 1
			continue
		}
		b.WriteString("(" + event + `)="` + escapeAttr(expr) + `"`)
		i = close + 1
	}
	return b.String()
}

// handlerExpr renders a handler expression for an event attribute: a
// bare reference stays as written, a zero- or one-parameter arrow is
// rewritten to statement form.
func (p *pass) handlerExpr(handler string) (string, bool) {
	if identRe.MatchString(handler) {
		return handler, true
	}
	if m := zeroArrowRe.FindStringSubmatch(handler); m != nil {
		return p.templateExpr(m[1], ""), true
	}
	if m := oneArrowRe.FindStringSubmatch(handler); m != nil {
		return p.templateExpr(m[2], m[1]), true
	}
	if m := bareArrowRe.FindStringSubmatch(handler); m != nil {
		return p.templateExpr(m[2], m[1]), true
	}
	return "", false
}

// insertDirective places a structural directive right after the root
// tag name of frag.
func insertDirective(frag, directive string) (string, bool) {
	m := tagNameRe.FindString(frag)
	if m == "" {
		return "", false
	}
	return frag[:len(m)] + " " + directive + frag[len(m):], true
}

// reindent normalizes a captured body to class-method depth: two spaces
// per brace level under the method line, blank lines dropped.
func reindent(body string) string {
	var lines []string
	depth := 0
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "}") && depth > 0 {
			depth--
		}
		lines = append(lines, strings.Repeat("  ", depth+1)+line)
		if strings.HasSuffix(line, "{") {
			depth++
		}
	}
	return strings.Join(lines, "\n")
}

func decapitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

// skipString returns the index just past the string literal opening at
// i. Unterminated literals run to the end of s.
func skipString(s string, i int) int {
	quote := s[i]
	i++
	for i < len(s) {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
		i++
	}
	return len(s)
}

// matchDelim returns the index of the delimiter closing the one at
// open, or -1 when s ends first. String literals are skipped.
func matchDelim(s string, open int, openByte, closeByte byte) int {
	depth := 0
	i := open
	for i < len(s) {
		switch s[i] {
		case '\'', '"', '`':
			i = skipString(s, i)
			continue
		case openByte:
			depth++
		case closeByte:
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// splitTopLevel splits s on sep at bracket depth zero, strings skipped.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	i := 0
	for i < len(s) {
		switch c := s[i]; c {
		case '\'', '"', '`':
			i = skipString(s, i)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
		i++
	}
	return append(parts, s[last:])
}
