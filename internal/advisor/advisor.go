// File path: internal/advisor/advisor.go
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langgraphgo/graph"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/converter"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/llm"
)

// Note is one human-readable migration hint for a preserved fallback block.
type Note struct {
	Reason   string `json:"reason"`
	Snippet  string `json:"snippet,omitempty"`
	Guidance string `json:"guidance"`
}

const systemPrompt = "You are a React to Angular migration assistant. Each request " +
	"describes a source fragment the automated converter preserved verbatim because " +
	"it could not translate it. Reply with one short, actionable note telling the " +
	"developer how to port the fragment to the Angular component. Reply with the note only."

// Advisor produces migration notes for fallback blocks. Failures degrade to
// canned guidance; advising never blocks a conversion.
type Advisor struct {
	provider llm.Provider
}

func New(provider llm.Provider) *Advisor {
	return &Advisor{provider: provider}
}

// Advise returns one note per fallback block, in block order.
func (a *Advisor) Advise(ctx context.Context, component string, blocks []converter.Fallback) []Note {
	if len(blocks) == 0 {
		return nil
	}
	logger := common.Logger()
	notes := make([]Note, 0, len(blocks))
	for _, block := range blocks {
		reason := string(block.Reason)
		guidance, err := a.suggest(ctx, component, reason, block.Snippet)
		if err != nil || strings.TrimSpace(guidance) == "" {
			if err != nil {
				logger.Warn("advisor: suggestion failed; using canned guidance",
					"component", component, "reason", reason, "error", err)
			}
			guidance = llm.Guidance(reason)
		}
		notes = append(notes, Note{
			Reason:   reason,
			Snippet:  block.Snippet,
			Guidance: strings.TrimSpace(guidance),
		})
	}
	return notes
}

// suggest runs the two-node compose -> suggest message graph for one block.
func (a *Advisor) suggest(ctx context.Context, component, reason, snippet string) (string, error) {
	if a == nil || a.provider == nil {
		return "", fmt.Errorf("no provider configured")
	}
	g := graph.NewMessageGraph()
	g.AddNode("compose", func(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
		return append(state, llms.TextParts(schema.ChatMessageTypeHuman, requestText(component, reason, snippet))), nil
	})
	g.AddNode("suggest", func(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
		messages, err := llm.NormalizeMessages(toProviderMessages(state))
		if err != nil {
			return nil, err
		}
		reply, err := a.provider.Chat(ctx, messages)
		if err != nil {
			return nil, err
		}
		return append(state, llms.TextParts(llms.ChatMessageTypeAI, reply)), nil
	})
	g.AddEdge("compose", "suggest")
	g.AddEdge("suggest", graph.END)
	g.SetEntryPoint("compose")

	runnable, err := g.Compile()
	if err != nil {
		return "", fmt.Errorf("compile advisor graph: %w", err)
	}
	state, err := runnable.Invoke(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
	})
	if err != nil {
		return "", fmt.Errorf("run advisor graph: %w", err)
	}
	if len(state) == 0 {
		return "", fmt.Errorf("advisor graph returned no messages")
	}
	last := state[len(state)-1]
	if last.Role != llms.ChatMessageTypeAI {
		return "", fmt.Errorf("advisor graph ended without a reply")
	}
	return contentText(last), nil
}

func requestText(component, reason, snippet string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Component: %s\n", component)
	fmt.Fprintf(&b, "Fallback reason: %s\n", reason)
	if strings.TrimSpace(snippet) != "" {
		fmt.Fprintf(&b, "Preserved fragment:\n%s\n", snippet)
	}
	b.WriteString("Explain how to port this fragment to the Angular component.")
	return b.String()
}

func toProviderMessages(state []llms.MessageContent) []llm.Message {
	messages := make([]llm.Message, 0, len(state))
	for _, msg := range state {
		text := contentText(msg)
		if text == "" {
			continue
		}
		role := llm.RoleUser
		switch msg.Role {
		case llms.ChatMessageTypeSystem:
			role = llm.RoleSystem
		case llms.ChatMessageTypeAI:
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: text})
	}
	return messages
}

func contentText(msg llms.MessageContent) string {
	var parts []string
	for _, part := range msg.Parts {
		if text, ok := part.(llms.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
