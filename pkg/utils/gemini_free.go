package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiChatClient implements ChatClientInterface using Google's Gemini models
type GeminiChatClient struct {
	client *genai.Client
	model  string
}

func NewGeminiChatClient(ctx context.Context, apiKey, model string) (*GeminiChatClient, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiChatClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiChatClient) Provider() string { return "gemini" }

func (c *GeminiChatClient) Model() string { return c.model }

func (c *GeminiChatClient) Complete(ctx context.Context, system string, turns []ChatTurn, tool ToolSpec) (*ChatCompletion, error) {
	if len(turns) == 0 {
		return nil, fmt.Errorf("no conversation turns: %w", ErrInvalidInput)
	}

	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(0.7)
	m.SystemInstruction = genai.NewUserContent(genai.Text(system))
	m.Tools = []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters.toGemini(),
		}},
	}}

	cs := m.StartChat()
	for _, turn := range turns[:len(turns)-1] {
		role := "user"
		if turn.Role == "assistant" {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}

	last := turns[len(turns)-1]
	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return completionFromGemini(resp, tool.Name, c.model)
}

// completionFromGemini keeps the text parts and the first call to toolName.
func completionFromGemini(resp *genai.GenerateContentResponse, toolName, model string) (*ChatCompletion, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates: %w", ErrUnexpectedBehaviorOfAI)
	}

	out := &ChatCompletion{Model: model}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			if p.Name != toolName || out.CalledTool() {
				continue
			}
			args, err := json.Marshal(p.Args)
			if err != nil {
				return nil, fmt.Errorf("encode gemini function args: %w", err)
			}
			out.ToolName = p.Name
			out.ToolArguments = string(args)
		}
	}
	out.Text = strings.TrimSpace(text.String())
	return out, nil
}

// Close closes the Gemini client
func (c *GeminiChatClient) Close() error {
	return c.client.Close()
}

// NewChatClient Factory function to create either OpenAI or Gemini client based on config
func NewChatClient(ctx context.Context, provider, apiKey, baseURL, model string) (ChatClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai", "":
		return NewOpenAIChatClient(apiKey, baseURL, model), nil
	case "gemini":
		return NewGeminiChatClient(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
