package utils

import (
	"context"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// ChatTurn is one message of the dialogue, role is "user" or "assistant".
type ChatTurn struct {
	Role    string
	Content string
}

// ChatCompletion is what came back from the model: free text, a call to the
// offered tool, or both.
type ChatCompletion struct {
	Text          string
	ToolName      string
	ToolArguments string
	Model         string
}

func (c *ChatCompletion) CalledTool() bool {
	return c.ToolName != ""
}

// ToolSpec describes the single function the model may call.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  SchemaNode
}

// SchemaNode is a provider-neutral JSON schema subset, converted per provider.
type SchemaNode struct {
	Type        string
	Description string
	Enum        []string
	Properties  map[string]SchemaNode
	Required    []string
	Items       *SchemaNode
}

const (
	SchemaObject  = "object"
	SchemaArray   = "array"
	SchemaString  = "string"
	SchemaInteger = "integer"
	SchemaNumber  = "number"
)

type ChatClientInterface interface {
	Complete(ctx context.Context, system string, turns []ChatTurn, tool ToolSpec) (*ChatCompletion, error)
	Provider() string
	Model() string
}

func (n SchemaNode) toOpenAI() jsonschema.Definition {
	def := jsonschema.Definition{
		Type:        jsonschema.DataType(n.Type),
		Description: n.Description,
		Enum:        n.Enum,
		Required:    n.Required,
	}
	if len(n.Properties) > 0 {
		def.Properties = make(map[string]jsonschema.Definition, len(n.Properties))
		for name, prop := range n.Properties {
			def.Properties[name] = prop.toOpenAI()
		}
	}
	if n.Items != nil {
		items := n.Items.toOpenAI()
		def.Items = &items
	}
	return def
}

func (n SchemaNode) toGemini() *genai.Schema {
	schema := &genai.Schema{
		Type:        geminiType(n.Type),
		Description: n.Description,
		Enum:        n.Enum,
		Required:    n.Required,
	}
	if len(n.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(n.Properties))
		for name, prop := range n.Properties {
			schema.Properties[name] = prop.toGemini()
		}
	}
	if n.Items != nil {
		schema.Items = n.Items.toGemini()
	}
	return schema
}

func geminiType(t string) genai.Type {
	switch t {
	case SchemaObject:
		return genai.TypeObject
	case SchemaArray:
		return genai.TypeArray
	case SchemaInteger:
		return genai.TypeInteger
	case SchemaNumber:
		return genai.TypeNumber
	default:
		return genai.TypeString
	}
}
