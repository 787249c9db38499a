package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"moyenne-bot/api/internal/util"
)

// generator is the part of *genai.GenerativeModel the engine uses.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type GeminiEngine struct {
	APIKey string
	Model  string

	// newModel opens a client per call; replaced in tests.
	newModel func(ctx context.Context) (generator, io.Closer, error)
}

func NewGemini(apiKey, model string) *GeminiEngine {
	e := &GeminiEngine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
	e.newModel = e.openModel
	return e
}

func (e *GeminiEngine) Name() string     { return "gemini" }
func (e *GeminiEngine) GetModel() string { return e.Model }

var adviceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"analysis":      {Type: genai.TypeString},
		"tips":          {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"encouragement": {Type: genai.TypeString},
	},
	Required: []string{"analysis", "tips", "encouragement"},
}

func (e *GeminiEngine) openModel(ctx context.Context) (generator, io.Closer, error) {
	if e.APIKey == "" {
		return nil, nil, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return nil, nil, err
	}
	m := cl.GenerativeModel(e.Model)
	if m == nil {
		_ = cl.Close()
		return nil, nil, fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   adviceSchema,
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	return m, cl, nil
}

// Advise makes a single GenerateContent call; there is no retry.
func (e *GeminiEngine) Advise(ctx context.Context, req Request) (Advice, error) {
	m, closer, err := e.newModel(ctx)
	if err != nil {
		return Advice{}, err
	}
	if closer != nil {
		defer closer.Close()
	}

	resp, err := m.GenerateContent(ctx, genai.Text(BuildPrompt(req)))
	if err != nil {
		return Advice{}, fmt.Errorf("gemini advice: %w", err)
	}
	txt := strings.TrimSpace(firstText(resp))
	if txt == "" {
		return Advice{}, fmt.Errorf("gemini advice: empty response")
	}

	var out Advice
	if err := json.Unmarshal([]byte(util.ExtractJSONObject(txt)), &out); err != nil {
		return Advice{}, fmt.Errorf("gemini advice: bad JSON: %w", err)
	}
	if strings.TrimSpace(out.Analysis) == "" {
		return Advice{}, fmt.Errorf("gemini advice: empty analysis")
	}
	return normalize(out), nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
