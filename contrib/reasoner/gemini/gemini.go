// Package gemini implements reasoner.Client on top of the official Google
// generative AI SDK.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/sweetpotato0/sleuth/message"
	"google.golang.org/api/option"
)

// Config holds Gemini provider configuration
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32
}

// DefaultConfig returns default Gemini configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       "gemini-1.5-flash",
		MaxTokens:   2048,
		Temperature: 0.2,
	}
}

// Provider implements the reasoner.Client interface for Google Gemini
type Provider struct {
	config *Config
	client *genai.Client
}

// New creates a new Gemini provider. The caller owns the client lifetime and
// should Close the provider when done.
func New(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig("")
	}
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Provider{
		config: config,
		client: client,
	}, nil
}

// Close releases the underlying API client.
func (p *Provider) Close() error {
	return p.client.Close()
}

// Generate implements reasoner.Client
func (p *Provider) Generate(ctx context.Context, messages []*message.Message, tools []map[string]any) (*message.Message, error) {
	model := p.client.GenerativeModel(p.config.Model)
	model.SetTemperature(p.config.Temperature)
	if p.config.MaxTokens > 0 {
		model.SetMaxOutputTokens(p.config.MaxTokens)
	}

	var systemParts []genai.Part
	var userParts []genai.Part
	for _, msg := range messages {
		switch msg.Role {
		case message.RoleSystem:
			systemParts = append(systemParts, genai.Text(msg.Content))
		case message.RoleUser, message.RoleAssistant:
			userParts = append(userParts, genai.Text(msg.Content))
		}
	}
	if len(systemParts) > 0 {
		model.SystemInstruction = &genai.Content{Parts: systemParts}
	}

	if len(tools) > 0 {
		decls, err := convertTools(tools)
		if err != nil {
			return nil, err
		}
		model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	resp, err := model.GenerateContent(ctx, userParts...)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no candidates returned from Gemini")
	}

	var responseText string
	toolCalls := make([]message.ToolCall, 0)
	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			responseText += string(v)
		case genai.FunctionCall:
			toolCalls = append(toolCalls, message.ToolCall{
				ID:   v.Name,
				Name: v.Name,
				Args: v.Args,
			})
		}
	}

	responseMsg := message.NewMessage(message.RoleAssistant, responseText)
	responseMsg.ToolCalls = toolCalls
	return responseMsg, nil
}

func convertTools(tools []map[string]any) ([]*genai.FunctionDeclaration, error) {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		name, _ := tool["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("tool schema has no name")
		}
		desc, _ := tool["description"].(string)

		decl := &genai.FunctionDeclaration{
			Name:        name,
			Description: desc,
		}
		if params, ok := tool["parameters"].(map[string]any); ok {
			schema, err := convertSchema(params)
			if err != nil {
				return nil, fmt.Errorf("tool %s: %w", name, err)
			}
			decl.Parameters = schema
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// convertSchema maps the provider-agnostic JSON schema subset used by the
// reasoner (object, string, array-of-string, enum) onto genai.Schema.
func convertSchema(raw map[string]any) (*genai.Schema, error) {
	schema := &genai.Schema{}
	if desc, ok := raw["description"].(string); ok {
		schema.Description = desc
	}

	switch raw["type"] {
	case "object":
		schema.Type = genai.TypeObject
		if props, ok := raw["properties"].(map[string]any); ok {
			schema.Properties = make(map[string]*genai.Schema, len(props))
			for key, value := range props {
				sub, ok := value.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("property %q is not a schema object", key)
				}
				converted, err := convertSchema(sub)
				if err != nil {
					return nil, err
				}
				schema.Properties[key] = converted
			}
		}
		if required, ok := raw["required"].([]string); ok {
			schema.Required = required
		}
	case "string":
		schema.Type = genai.TypeString
		if enum, ok := raw["enum"].([]string); ok {
			schema.Enum = enum
		}
	case "array":
		schema.Type = genai.TypeArray
		if items, ok := raw["items"].(map[string]any); ok {
			sub, err := convertSchema(items)
			if err != nil {
				return nil, err
			}
			schema.Items = sub
		}
	default:
		return nil, fmt.Errorf("unsupported schema type %v", raw["type"])
	}
	return schema, nil
}
