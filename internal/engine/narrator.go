package engine

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

//go:embed prompts/narrate.txt
var narratePrompt string

var narrateTemplate = template.Must(template.New("narrate").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(narratePrompt))

// Scene is what the narrator knows about the current turn.
type Scene struct {
	World           string
	Room            string
	RoomDescription string
	Visible         []string
	Inventory       []string
	History         []string
	Input           string
	Verb            string
	Direct          string
	Preposition     string
	Indirect        string
}

// Narrator describes the outcome of commands that have no built-in body.
// It must not change the world.
type Narrator interface {
	Narrate(ctx context.Context, scene Scene) (string, error)
}

// GeminiNarrator asks a Gemini model to narrate.
type GeminiNarrator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiNarrator(ctx context.Context, apiKey, model string) (*GeminiNarrator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("engine: gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0.7)
	return &GeminiNarrator{client: client, model: m}, nil
}

func (n *GeminiNarrator) Close() {
	n.client.Close()
}

func (n *GeminiNarrator) Narrate(ctx context.Context, scene Scene) (string, error) {
	prompt, err := renderScene(scene)
	if err != nil {
		return "", err
	}

	resp, err := n.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return strings.TrimSpace(string(text)), nil
}

func renderScene(scene Scene) (string, error) {
	var buf bytes.Buffer
	if err := narrateTemplate.Execute(&buf, scene); err != nil {
		return "", fmt.Errorf("engine: render prompt: %w", err)
	}
	return buf.String(), nil
}
