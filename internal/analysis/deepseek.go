package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-deepseek/deepseek"
	"github.com/go-deepseek/deepseek/request"
)

// DeepSeekProvider handles the text-only follow-up summaries. Image analysis
// stays with Gemini; DeepSeek has no vision endpoint here.
type DeepSeekProvider struct {
	client deepseek.Client
	model  string
}

func NewDeepSeekProvider(apiKey string, model string) (*DeepSeekProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("deepseek api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = deepseek.DEEPSEEK_CHAT_MODEL
	}

	client, err := deepseek.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create deepseek client: %w", err)
	}
	return &DeepSeekProvider{client: client, model: model}, nil
}

func (provider *DeepSeekProvider) Summarize(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, errors.New("nothing to summarize")
	}

	chatReq := &request.ChatCompletionsRequest{
		Model: provider.model,
		Messages: []*request.Message{
			{Role: "system", Content: summaryPrompt},
			{Role: "user", Content: text},
		},
		Stream: false,
	}

	resp, err := provider.client.CallChatCompletionsChat(ctx, chatReq)
	if err != nil {
		return Result{}, fmt.Errorf("deepseek request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("no answer generated")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return Result{}, errors.New("no answer generated")
	}
	return Result{Text: content, Model: provider.model}, nil
}
