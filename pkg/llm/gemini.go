// Package llm wraps the generative model used by the shift planner.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("llm: model returned no text")

type GeminiConfig struct {
	APIKey            string
	Model             string
	Temperature       float32
	SystemInstruction string
}

// contentGenerator is the slice of *genai.Models the client relies on.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini sends single-turn text prompts to a Gemini model.
type Gemini struct {
	models contentGenerator
	cfg    GeminiConfig
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: Gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: creating GenAI client: %w", err)
	}

	return &Gemini{models: client.Models, cfg: cfg}, nil
}

// Generate returns the concatenated text parts of the first candidate.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.cfg.Temperature),
	}
	if g.cfg.SystemInstruction != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(g.cfg.SystemInstruction, genai.RoleUser)
	}

	resp, err := g.models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("llm: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *Gemini) Name() string {
	return "gemini:" + g.cfg.Model
}
