package trends

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/reelrank/reelrank/internal/model"
)

// SummarizeWithLLM asks an OpenAI-compatible model for a short prose
// read of the dataset statistics. Purely presentational: it runs after
// everything else and never touches the data.
func SummarizeWithLLM(ctx context.Context, cfg model.LLMConfig, s *Summary) (string, error) {
	var client *openai.Client
	if cfg.BaseURL != "" {
		c := openai.DefaultConfig(cfg.APIKey)
		c.BaseURL = cfg.BaseURL
		client = openai.NewClientWithConfig(c)
	} else {
		client = openai.NewClient(cfg.APIKey)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You summarize film popularity trend statistics in one short paragraph. " +
					"Only describe what the numbers show; do not speculate beyond them.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(s),
			},
		},
		MaxTokens: 400,
	})
	if err != nil {
		return "", fmt.Errorf("llm summary: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm summary: empty response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(s *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Snapshots: %d (%s to %s)\n", s.Snapshots,
		s.FirstDate.Format("2006-01-02"), s.LastDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Unique films: %d, total records: %d\n", s.UniqueFilms, s.TotalRows)

	b.WriteString("Most consistent films (appearances):\n")
	for _, st := range s.MostConsistent {
		fmt.Fprintf(&b, "- %s: %d\n", st.Title, st.Appearances)
	}
	b.WriteString("Best average rank:\n")
	for _, st := range s.BestAverage {
		fmt.Fprintf(&b, "- %s: %.1f\n", st.Title, st.AvgRank)
	}
	if len(s.LatestTop) > 0 {
		fmt.Fprintf(&b, "Latest top films: %s\n", strings.Join(s.LatestTop, ", "))
	}
	return b.String()
}
