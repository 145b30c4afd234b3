package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// MessageGenerator writes a short companion message for a user.
type MessageGenerator interface {
	GenerateMessage(ctx context.Context, input CompanionPrompt) (string, error)
}

// CompanionPrompt is what the model sees about a user.
type CompanionPrompt struct {
	Username     string
	Level        int
	Points       int
	PendingTasks []string
	Now          time.Time
}

type AIService struct {
	client *openai.Client
	model  string
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}
}

// GenerateMessage asks the chat model for one short, encouraging recommendation
func (s *AIService) GenerateMessage(ctx context.Context, input CompanionPrompt) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	tasks := "(none)"
	if len(input.PendingTasks) > 0 {
		tasks = "- " + strings.Join(input.PendingTasks, "\n- ")
	}

	prompt := fmt.Sprintf(`You are a friendly planning companion inside a daily schedule app.

Current time: %s
User: %s (level %d, %d points)

Unfinished tasks:
%s

Write one short recommendation (at most two sentences) that suggests what to do next.
Reply with the message only, no quotes or lists.`,
		input.Now.Format("2006-01-02 15:04"), input.Username, input.Level, input.Points, tasks)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.7,
			MaxTokens:   120,
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	message := strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"`)
	if message == "" {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	return message, nil
}
