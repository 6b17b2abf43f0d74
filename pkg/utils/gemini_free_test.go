package utils

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiReply(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: parts}}},
	}
}

func TestCompletionFromGeminiFunctionCall(t *testing.T) {
	resp := geminiReply(
		genai.Text("Enjoy "),
		genai.FunctionCall{Name: "lookup_weather", Args: map[string]any{"city": "Keelung"}},
		genai.FunctionCall{Name: "create_itinerary", Args: map[string]any{
			"city": "Keelung",
			"days": []any{map[string]any{"day": 1, "items": []any{}}},
		}},
		genai.Text("the harbour."),
	)

	out, err := completionFromGemini(resp, "create_itinerary", "gemini-1.5-flash")

	require.NoError(t, err)
	assert.True(t, out.CalledTool())
	assert.Equal(t, "create_itinerary", out.ToolName)
	assert.JSONEq(t, `{"city":"Keelung","days":[{"day":1,"items":[]}]}`, out.ToolArguments)
	assert.Equal(t, "Enjoy the harbour.", out.Text)
	assert.Equal(t, "gemini-1.5-flash", out.Model)
}

func TestCompletionFromGeminiKeepsFirstCall(t *testing.T) {
	resp := geminiReply(
		genai.FunctionCall{Name: "create_itinerary", Args: map[string]any{"city": "Tainan"}},
		genai.FunctionCall{Name: "create_itinerary", Args: map[string]any{"city": "Kaohsiung"}},
	)

	out, err := completionFromGemini(resp, "create_itinerary", "m")

	require.NoError(t, err)
	assert.JSONEq(t, `{"city":"Tainan"}`, out.ToolArguments)
	assert.Empty(t, out.Text)
}

func TestCompletionFromGeminiTextOnly(t *testing.T) {
	out, err := completionFromGemini(geminiReply(genai.Text("  How long is the trip?\n")), "create_itinerary", "m")

	require.NoError(t, err)
	assert.False(t, out.CalledTool())
	assert.Equal(t, "How long is the trip?", out.Text)
}

func TestCompletionFromGeminiNoCandidates(t *testing.T) {
	for name, resp := range map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"no content":    {Candidates: []*genai.Candidate{{}}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := completionFromGemini(resp, "create_itinerary", "m")
			assert.ErrorIs(t, err, ErrUnexpectedBehaviorOfAI)
		})
	}
}
