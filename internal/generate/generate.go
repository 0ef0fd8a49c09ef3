// File path: internal/generate/generate.go

// Package generate assembles the translated fragments into the two
// output artifacts: the Angular class body and the template body.
package generate

import (
	"fmt"
	"strings"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/translate"
)

// Naming carries the collaborator-supplied identity of one component's
// artifacts. The core never invents names on its own; DefaultNaming is
// the conventional derivation.
type Naming struct {
	ClassName   string
	Selector    string
	TemplateURL string
	StyleURLs   []string
}

// DefaultNaming derives the conventional Angular naming from the
// component name.
func DefaultNaming(component string) Naming {
	return Naming{
		ClassName:   component + "Component",
		Selector:    "app-" + Kebab(component),
		TemplateURL: "./" + component + ".component.html",
		StyleURLs:   []string{"./" + component + ".component.css"},
	}
}

// Kebab lowercases a CamelCase name with dash separators.
func Kebab(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ClassArtifact renders the class-body artifact: import header,
// decorator, then properties first, script fallbacks and methods after,
// each region in source order.
func ClassArtifact(out *translate.Output, naming Naming) string {
	var props, pre, members []string
	sawMethod := false
	for _, frag := range out.Script {
		switch frag.Kind {
		case translate.KindProperty:
			props = append(props, indentLines(frag.Text))
		case translate.KindMethod:
			sawMethod = true
			members = append(members, indentLines(frag.Text))
		case translate.KindScriptFallback:
			if sawMethod {
				members = append(members, indentFallback(frag.Text))
			} else {
				pre = append(pre, indentFallback(frag.Text))
			}
		}
	}

	var b strings.Builder
	b.WriteString("import { Component } from '@angular/core';\n\n")
	b.WriteString("@Component({\n")
	fmt.Fprintf(&b, "  selector: '%s',\n", naming.Selector)
	fmt.Fprintf(&b, "  templateUrl: '%s',\n", naming.TemplateURL)
	fmt.Fprintf(&b, "  styleUrls: [%s]\n", styleList(naming.StyleURLs))
	b.WriteString("})\n")
	fmt.Fprintf(&b, "export class %s {\n", naming.ClassName)

	var sections []string
	if len(props) > 0 {
		sections = append(sections, strings.Join(props, "\n"))
	}
	sections = append(sections, pre...)
	sections = append(sections, members...)
	if len(sections) > 0 {
		b.WriteString(strings.Join(sections, "\n\n"))
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// TemplateArtifact renders the template-body artifact: the fragment
// texts concatenated in source order.
func TemplateArtifact(out *translate.Output) string {
	var b strings.Builder
	for _, frag := range out.Template {
		b.WriteString(frag.Text)
	}
	return strings.TrimSpace(b.String()) + "\n"
}

func styleList(urls []string) string {
	quoted := make([]string, len(urls))
	for i, u := range urls {
		quoted[i] = "'" + u + "'"
	}
	return strings.Join(quoted, ", ")
}

// indentLines shifts every non-empty line to class-member depth.
func indentLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "  " + line
		}
	}
	return strings.Join(lines, "\n")
}

// indentFallback shifts only the comment delimiters; the preserved
// source lines between them stay verbatim.
func indentFallback(text string) string {
	lines := strings.Split(text, "\n")
	lines[0] = "  " + lines[0]
	if len(lines) > 1 {
		lines[len(lines)-1] = "  " + lines[len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
