package utils

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIChatClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIChatClient builds a chat-completions client. baseURL is only set for
// OpenAI-compatible gateways and tests.
func NewOpenAIChatClient(apiKey, baseURL, model string) *OpenAIChatClient {
	if model == "" {
		model = "gpt-4.1-mini"
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIChatClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: 0.7,
	}
}

func (c *OpenAIChatClient) Provider() string { return "openai" }

func (c *OpenAIChatClient) Model() string { return c.model }

func (c *OpenAIChatClient) Complete(ctx context.Context, system string, turns []ChatTurn, tool ToolSpec) (*ChatCompletion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, turn := range turns {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		Tools: []openai.Tool{
			{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        tool.Name,
					Description: tool.Description,
					Parameters:  tool.Parameters.toOpenAI(),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices: %w", ErrUnexpectedBehaviorOfAI)
	}

	msg := resp.Choices[0].Message
	out := &ChatCompletion{
		Text:  strings.TrimSpace(msg.Content),
		Model: resp.Model,
	}
	for _, call := range msg.ToolCalls {
		if call.Function.Name == tool.Name {
			out.ToolName = call.Function.Name
			out.ToolArguments = call.Function.Arguments
			break
		}
	}
	return out, nil
}
