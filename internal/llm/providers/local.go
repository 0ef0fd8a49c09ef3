// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

// Chat roles shared by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Name() string
}

// reasonOrder fixes the scan order; map iteration is not deterministic.
var reasonOrder = []string{
	"unsupported-chain",
	"ternary-conditional",
	"compound-condition",
	"multi-root-fragment",
	"non-markup-body",
	"function-keyword",
	"async-function",
	"unknown-event",
	"setter-mismatch",
	"unresolved-expression",
	"unrecognized-statement",
	"unmatched-bracket",
	"unresolved-import",
}

var guidanceNotes = map[string]string{
	"unsupported-chain":      "Move the method chain into a component getter so the template iterates a prepared array with *ngFor.",
	"ternary-conditional":    "Rewrite the ternary as two sibling elements with complementary *ngIf conditions, or compute the branch in a class getter.",
	"compound-condition":     "Extract the compound condition into a boolean getter on the class and bind *ngIf to the getter.",
	"multi-root-fragment":    "Wrap the fragment in a single container element or <ng-container> so the structural directive has one root.",
	"non-markup-body":        "The map callback returns a non-element value; build the value in a class method and interpolate the result instead.",
	"function-keyword":       "Convert the nested function declaration into a class method; Angular components declare behavior as methods.",
	"async-function":         "Move the async work into a class method returning a Promise or Observable and trigger it from a lifecycle hook or event binding.",
	"unknown-event":          "Map the prop to a native DOM event or an Angular @Output; only the standard event table translates automatically.",
	"setter-mismatch":        "The handler does more than assign state; port its body into a class method and bind the event to that method.",
	"unresolved-expression":  "The expression references values outside the recognized component state; review and port it by hand.",
	"unrecognized-statement": "Port the statement into the class body manually; only state declarations, handlers, and the return block are recognized.",
	"unmatched-bracket":      "The source has an unbalanced bracket; fix the original file and convert again, or port the preserved region by hand.",
	"unresolved-import":      "Re-create the import with its Angular equivalent; non-React imports are not carried over automatically.",
}

const defaultGuidance = "Review the preserved block and port it to the Angular component manually."

// Guidance returns the canned migration note for a fallback reason tag.
func Guidance(reason string) string {
	if note, ok := guidanceNotes[strings.TrimSpace(strings.ToLower(reason))]; ok {
		return note
	}
	return defaultGuidance
}

// LocalProvider answers deterministically from the canned guidance table. It
// keeps the advisor usable without network access or credentials.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	for _, msg := range messages {
		lower := strings.ToLower(msg.Content)
		for _, reason := range reasonOrder {
			if strings.Contains(lower, reason) {
				return guidanceNotes[reason], nil
			}
		}
	}
	return defaultGuidance, nil
}

func (l *LocalProvider) Name() string {
	return "local"
}
