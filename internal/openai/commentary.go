package openai

import (
	"context"
	"errors"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const commentarySystemPrompt = `You are a neutral financial writer. You receive after-fee historical results for a group of index funds and a group of actively managed funds.
Write at most 5 short sentences comparing the groups: which did better over the window, how large the expense ratio gap is, and how much of the return gap fees alone explain.
Use only the numbers given. Do not give investment advice or predictions.`

// Commentator produces a short narrative of a comparison.
type Commentator struct {
	cli   oa.Client
	model string
}

func NewCommentator(apiKey, model string, opts ...option.RequestOption) *Commentator {
	client := oa.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &Commentator{cli: client, model: model}
}

func (c *Commentator) Comment(ctx context.Context, summary string) (string, error) {
	resp, err := c.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: c.model,
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(commentarySystemPrompt),
			oa.UserMessage(summary),
		},
		MaxTokens: oa.Int(400),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
