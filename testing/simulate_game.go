package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/zork-parser/internal/config"
	"github.com/tatianab/zork-parser/internal/engine"
	"github.com/tatianab/zork-parser/internal/models"
	"google.golang.org/api/option"
)

const maxTurns = 15

// script is played when no Gemini key is configured. It walks through the
// parser's repairs: orphans, pronouns, ALL, disambiguation, AGAIN and OOPS.
var script = []string{
	"open mailbox",
	"take",
	"leaflet",
	"read it",
	"north",
	"go east",
	"w",
	"up",
	"take knife",
	"again",
	"take rpoe",
	"oops rope",
	"down",
	"w",
	"take all",
	"turn on lamp",
	"inventory",
}

// simConsole prints everything and answers disambiguation questions with
// the first choice.
type simConsole struct {
	transcript []string
}

func (c *simConsole) Println(s string) {
	fmt.Println(s)
	c.transcript = append(c.transcript, s)
}

func (c *simConsole) ReadLine(prompt string) (string, error) {
	fmt.Printf("%s1\n", prompt)
	return "1", nil
}

func (c *simConsole) recent(n int) string {
	if len(c.transcript) > n {
		return strings.Join(c.transcript[len(c.transcript)-n:], "\n")
	}
	return strings.Join(c.transcript, "\n")
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	def, err := models.LoadWorld(cfg.WorldFile)
	if err != nil {
		log.Fatalf("Failed to load world: %v", err)
	}

	con := &simConsole{}
	eng, err := engine.New(def, nil, con)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	fmt.Printf("--- %s ---\n", def.Title)
	eng.Start()

	if !cfg.NarratorEnabled() {
		for turn, action := range script {
			fmt.Printf("\n--- Turn %d ---\n> %s\n", turn+1, action)
			eng.Step(ctx, action)
		}
		fmt.Printf("\nMoves: %d\n", eng.Moves())
		return
	}

	// Let a Player LLM choose the commands.
	playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create player client: %v", err)
	}
	defer playerClient.Close()
	playerModel := playerClient.GenerativeModel(cfg.GeminiModel)

	for turn := 1; turn <= maxTurns && !eng.Done(); turn++ {
		fmt.Printf("\n--- Turn %d ---\n", turn)
		action := getPlayerAction(ctx, playerModel, eng.Status(), con.recent(12))
		fmt.Printf("> %s\n", action)
		eng.Step(ctx, action)
	}
	fmt.Printf("\nMoves: %d\n", eng.Moves())
}

func getPlayerAction(ctx context.Context, model *genai.GenerativeModel, status engine.Status, recent string) string {
	prompt := fmt.Sprintf(`You are playing a classic Zork-style text adventure.
The parser understands short imperative commands such as "open mailbox",
"take all", "put leaflet in mailbox", "go north" or "read it".
Current Location: %s
Inventory: %v

Recent output:
%s

What is your next command? Return ONLY the command, no extra commentary.`,
		status.Room,
		status.Inventory,
		recent,
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "look"
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "look"
	}
	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
}
