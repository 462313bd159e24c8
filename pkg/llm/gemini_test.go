package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	return f.resp, f.err
}

func replyWith(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGenerate(t *testing.T) {
	models := &fakeModels{resp: replyWith("```json\n[]", "\n```\n")}
	g := &Gemini{models: models, cfg: GeminiConfig{
		Model:             "gemini-2.0-flash",
		Temperature:       0.2,
		SystemInstruction: "You are a rostering assistant.",
	}}

	out, err := g.Generate(context.Background(), "plan the week")
	require.NoError(t, err)
	assert.Equal(t, "```json\n[]\n```", out)

	assert.Equal(t, "gemini-2.0-flash", models.model)
	require.Len(t, models.contents, 1)
	require.Len(t, models.contents[0].Parts, 1)
	assert.Equal(t, "plan the week", models.contents[0].Parts[0].Text)
	require.NotNil(t, models.config.Temperature)
	assert.InDelta(t, 0.2, *models.config.Temperature, 1e-6)
	require.NotNil(t, models.config.SystemInstruction)
	assert.Equal(t, "You are a rostering assistant.", models.config.SystemInstruction.Parts[0].Text)
}

func TestGenerate_NoSystemInstruction(t *testing.T) {
	models := &fakeModels{resp: replyWith("ok")}
	g := &Gemini{models: models, cfg: GeminiConfig{Model: "m"}}

	_, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Nil(t, models.config.SystemInstruction)
}

func TestGenerate_Errors(t *testing.T) {
	boom := errors.New("quota exceeded")
	g := &Gemini{models: &fakeModels{err: boom}, cfg: GeminiConfig{Model: "m"}}
	_, err := g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, boom)

	g = &Gemini{models: &fakeModels{resp: replyWith("  \n ")}, cfg: GeminiConfig{Model: "m"}}
	_, err = g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	g = &Gemini{models: &fakeModels{resp: &genai.GenerateContentResponse{}}, cfg: GeminiConfig{Model: "m"}}
	_, err = g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	g := &Gemini{cfg: GeminiConfig{Model: "gemini-2.0-flash"}}
	assert.Equal(t, "gemini:gemini-2.0-flash", g.Name())
}
