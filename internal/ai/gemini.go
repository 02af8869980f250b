package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lorve_back_end/internal/models"

	"google.golang.org/genai"
)

// Gemini generates text with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.JSONField != "" {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				req.JSONField: {Type: genai.TypeString},
			},
			Required: []string{req.JSONField},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, toContents(req.History, req.Prompt), cfg)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty response")
	}
	if req.JSONField == "" {
		return text, nil
	}
	return field(text, req.JSONField)
}

// toContents converts the conversation. Gemini only knows the user and
// model roles, so every non-model turn is sent as the user.
func toContents(history []models.Message, prompt string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := string(genai.RoleUser)
		if m.Role == models.RoleModel {
			role = string(genai.RoleModel)
		}
		parts := make([]*genai.Part, 0, len(m.Content))
		for _, p := range m.Content {
			parts = append(parts, &genai.Part{Text: p.Text})
		}
		if len(parts) > 0 {
			contents = append(contents, &genai.Content{Role: role, Parts: parts})
		}
	}
	return append(contents, &genai.Content{
		Role:  string(genai.RoleUser),
		Parts: []*genai.Part{{Text: prompt}},
	})
}

func field(text, name string) (string, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return "", fmt.Errorf("decode structured response: %w", err)
	}
	v, ok := obj[name].(string)
	if !ok {
		return "", fmt.Errorf("structured response misses %q", name)
	}
	return v, nil
}
