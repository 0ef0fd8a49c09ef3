// File path: internal/extract/scan.go
package extract

import (
	"regexp"
	"strings"
)

// statementStartRe marks line starts that can terminate a semicolon-less
// statement at depth zero.
var statementStartRe = regexp.MustCompile(`^[ \t]*(?:import\b|export\b|const\b|let\b|var\b|function\b|return\b|if\b|for\b|while\b)`)

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

// skipSpace returns the first non-whitespace index in [i, to).
func skipSpace(src string, i, to int) int {
	for i < to && isSpaceByte(src[i]) {
		i++
	}
	return i
}

// boundaryAt reports whether position i in s ends an identifier, so a
// keyword match at the start of s is not a prefix of a longer name.
func boundaryAt(s string, i int) bool {
	return i >= len(s) || !isWordByte(s[i])
}

// isExprPosition reports whether a quote at index i opens a string
// literal rather than sitting inside markup text. JSX mixes code and
// prose; a quote is treated as a literal only in expression position.
func isExprPosition(s string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		c := s[j]
		if isSpaceByte(c) {
			continue
		}
		switch c {
		case '=', '(', '{', '[', ',', ':', ';', '?', '&', '|', '!', '+', '-', '*', '/', '%':
			return true
		}
		return false
	}
	return true
}

// skipString returns the index just past the string literal opening at i.
// Unterminated literals run to the end of s.
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

// matchDelim returns the index of the delimiter closing the one at open,
// or -1 when s ends first. String literals are skipped.
func matchDelim(s string, open int, openByte, closeByte byte) int {
	depth := 0
	i := open
	for i < len(s) {
		c := s[i]
		switch c {
		case '\'', '"', '`':
			if isExprPosition(s, i) {
				i = skipString(s, i)
				continue
			}
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

// statementEnd returns the offset just past the statement starting at the
// beginning of s: past the first semicolon at bracket depth zero, or at a
// depth-zero newline when the line is complete and the next line opens a
// new statement. Runs to len(s) when no terminator exists.
func statementEnd(s string) int {
	depth := 0
	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '\'', '"', '`':
			if isExprPosition(s, i) {
				i = skipString(s, i)
				continue
			}
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				return i + 1
			}
		case '\n':
			if depth == 0 && !danglingOperator(s[:i]) && statementStartRe.MatchString(s[i+1:]) {
				return i
			}
		}
		i++
	}
	return len(s)
}

// blockEnd returns the offset just past a statement carrying a braced
// block at paren depth zero (function declarations, braced arrow bodies),
// including an adjacent trailing semicolon. Falls back to statementEnd
// when no block opens or the block never closes.
func blockEnd(s string) int {
	parens := 0
	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '\'', '"', '`':
			if isExprPosition(s, i) {
				i = skipString(s, i)
				continue
			}
		case '(':
			parens++
		case ')':
			if parens > 0 {
				parens--
			}
		case '{':
			close := matchDelim(s, i, '{', '}')
			if close < 0 {
				return statementEnd(s)
			}
			if parens == 0 {
				end := close + 1
				if end < len(s) && s[end] == ';' {
					end++
				}
				return end
			}
			i = close + 1
			continue
		case ';':
			if parens == 0 {
				return i + 1
			}
		}
		i++
	}
	return len(s)
}

// danglingOperator reports whether the statement text so far ends in an
// operator, so the following newline cannot terminate it.
func danglingOperator(stmt string) bool {
	t := strings.TrimRight(stmt, " \t\r\n")
	if t == "" {
		return true
	}
	switch t[len(t)-1] {
	case '=', '+', '-', '*', '/', '%', '&', '|', ',', '.', '(', '[', '{', ':', '?', '<', '>':
		return true
	}
	return false
}

// scrubStrings blanks string-literal bytes so construct detection does
// not trip on quoted text.
func scrubStrings(s string) string {
	b := []byte(s)
	i := 0
	for i < len(b) {
		c := b[i]
		if (c == '\'' || c == '"' || c == '`') && isExprPosition(s, i) {
			end := skipString(s, i)
			for j := i; j < end; j++ {
				b[j] = ' '
			}
			i = end
			continue
		}
		i++
	}
	return string(b)
}

// unwrapParens strips one paren pair wrapping the entire expression.
func unwrapParens(expr string) string {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "(") {
		if close := matchDelim(expr, 0, '(', ')'); close == len(expr)-1 {
			return strings.TrimSpace(expr[1 : len(expr)-1])
		}
	}
	return expr
}

// topLevelTernary reports whether expr carries a ternary operator at
// bracket depth zero before its first markup fragment. Optional chaining
// (?.) and nullish coalescing (??) do not count.
func topLevelTernary(expr string) bool {
	head := expr
	if idx := strings.Index(scrubStrings(expr), "<"); idx >= 0 {
		head = expr[:idx]
	}
	depth := 0
	i := 0
	for i < len(head) {
		c := head[i]
		switch c {
		case '\'', '"', '`':
			if isExprPosition(head, i) {
				i = skipString(head, i)
				continue
			}
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			if depth > 0 {
				depth--
			}
		case '?':
			if depth == 0 {
				if i+1 < len(head) && (head[i+1] == '.' || head[i+1] == '?') {
					i += 2
					continue
				}
				return true
			}
		}
		i++
	}
	return false
}

// singleRooted reports whether frag is exactly one rooted element,
// optionally followed by whitespace.
func singleRooted(frag string) bool {
	frag = strings.TrimSpace(frag)
	if !strings.HasPrefix(frag, "<") {
		return false
	}
	end := rootEnd(frag)
	if end < 0 {
		return false
	}
	return strings.TrimSpace(frag[end:]) == ""
}

// rootEnd returns the offset just past the root element's closing tag,
// or -1 when the fragment does not form one balanced element.
func rootEnd(frag string) int {
	depth := 0
	i := 0
	for i < len(frag) {
		switch frag[i] {
		case '{':
			close := matchDelim(frag, i, '{', '}')
			if close < 0 {
				return -1
			}
			i = close + 1
		case '<':
			if i+1 < len(frag) && frag[i+1] == '/' {
				gt := strings.IndexByte(frag[i:], '>')
				if gt < 0 {
					return -1
				}
				depth--
				i += gt + 1
				if depth == 0 {
					return i
				}
				if depth < 0 {
					return -1
				}
				continue
			}
			tagEnd, selfClosing := shallowTagEnd(frag, i)
			if tagEnd < 0 {
				return -1
			}
			if selfClosing && depth == 0 {
				return tagEnd
			}
			if !selfClosing {
				depth++
			}
			i = tagEnd
		default:
			i++
		}
	}
	return -1
}

// shallowTagEnd walks one opening tag from '<' to past its '>', skipping
// quoted and braced attribute values. Reports whether it self-closes.
func shallowTagEnd(s string, i int) (int, bool) {
	j := i + 1
	for j < len(s) {
		switch s[j] {
		case '"', '\'':
			j = skipString(s, j)
			continue
		case '{':
			close := matchDelim(s, j, '{', '}')
			if close < 0 {
				return -1, false
			}
			j = close + 1
			continue
		case '>':
			return j + 1, s[j-1] == '/'
		}
		j++
	}
	return -1, false
}
