package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/yanqian/faq-admin/internal/infra/llm"
	"github.com/yanqian/faq-admin/pkg/metrics"
)

const defaultMaxTokens = 1024

// Client adapts the Anthropic Messages API to llm.Completer.
type Client struct {
	client *anthropic.Client
}

// NewClient constructs a Claude client. baseURL may be empty.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("claude api key cannot be empty")
	}
	var opts []anthropic.ClientOption
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	return &Client{client: anthropic.NewClient(apiKey, opts...)}, nil
}

// Complete sends one user message and joins the text blocks of the reply.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (llm.Completion, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	prompt := req.Prompt
	temperature := req.Temperature
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   maxTokens,
		System:      req.System,
		Temperature: &temperature,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		return llm.Completion{}, fmt.Errorf("claude completion: %w", err)
	}
	text := extractText(resp)
	if text == "" {
		return llm.Completion{}, errors.New("claude completion returned no text")
	}
	return llm.Completion{
		Text: text,
		Usage: metrics.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

func extractText(resp anthropic.MessagesResponse) string {
	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			parts = append(parts, *block.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

var _ llm.Completer = (*Client)(nil)
