// File path: internal/llm/llm.go
package llm

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

const (
	RoleSystem    = providers.RoleSystem
	RoleUser      = providers.RoleUser
	RoleAssistant = providers.RoleAssistant
)

// Guidance exposes the canned migration note for a fallback reason tag.
func Guidance(reason string) string {
	return providers.Guidance(reason)
}

// NewProvider selects the chat backend from the environment.
// R2NG_LLM_PROVIDER forces "openai" or "local"; when unset the OpenAI
// provider is used whenever OPENAI_API_KEY is present. Misconfiguration
// degrades to the local provider so advisory calls never block.
func NewProvider() Provider {
	logger := common.Logger()
	choice := strings.ToLower(strings.TrimSpace(os.Getenv("R2NG_LLM_PROVIDER")))
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	switch choice {
	case "", "openai":
		if apiKey == "" {
			if choice == "openai" {
				logger.Warn("llm: R2NG_LLM_PROVIDER=openai but OPENAI_API_KEY not set; falling back to local provider")
			} else {
				logger.Warn("llm: OPENAI_API_KEY not set; falling back to local provider")
			}
			return providers.NewLocalProvider()
		}
		return newOpenAIProvider(apiKey, logger)
	case "local":
		logger.Info("llm: local provider selected")
		return providers.NewLocalProvider()
	default:
		logger.Warn("llm: unknown R2NG_LLM_PROVIDER; falling back to local provider", "value", choice)
		return providers.NewLocalProvider()
	}
}

func newOpenAIProvider(apiKey string, logger *slog.Logger) Provider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if timeoutStr := strings.TrimSpace(os.Getenv("OPENAI_HTTP_TIMEOUT")); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			logger.Warn("llm: invalid OPENAI_HTTP_TIMEOUT, using default", "value", timeoutStr, "error", err)
		} else {
			logger.Info("llm: configuring OpenAI client with custom HTTP timeout", "timeout", timeout)
			opts = append(opts, option.WithRequestTimeout(timeout))
		}
	}
	if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
		logger.Info("llm: configuring OpenAI client with custom endpoint", "endpoint", endpoint)
		opts = append(opts, option.WithBaseURL(endpoint))
	} else {
		logger.Debug("llm: using default OpenAI endpoint")
	}
	client := openai.NewClient(opts...)
	logger.Info("llm: OpenAI provider selected")
	return providers.NewOpenAIProvider(client)
}

func NormalizeMessages(messages []Message) ([]Message, error) {
	if len(messages) == 0 {
		return nil, errors.New("no messages provided")
	}
	for i := range messages {
		messages[i].Role = strings.ToLower(messages[i].Role)
	}
	return messages, nil
}
