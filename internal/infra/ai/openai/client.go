package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/passintel/internal/domain/analysis"
	"github.com/bryanwahyu/passintel/internal/heuristic"
	"github.com/bryanwahyu/passintel/internal/infra/ai/prompt"
)

const (
	maxTokens      = 1024
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 15 * time.Second

	// One bounded retry on transport errors, never more.
	maxAttempts = 2
)

type Client struct {
	*openai.Client
	Model   string
	Timeout time.Duration
}

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{Client: openai.NewClient(apiKey), Model: model, Timeout: timeout}
}

// Analyze delegates to the chat-completion API and coerces the response into
// the canonical result shape. It fails with analysis.ErrExternalService on
// timeout, unparseable output, or provider auth/quota errors; the caller is
// expected to fall back to the heuristic scorer.
func (c *Client) Analyze(ctx context.Context, password string) (*analysis.AnalysisResult, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(password)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		cctx, cancel := context.WithTimeout(ctx, c.Timeout)
		resp, err := c.CreateChatCompletion(cctx, req)
		cancel()
		if err != nil {
			if isFatalAPIError(err) {
				return nil, fmt.Errorf("%w: %v", analysis.ErrExternalService, err)
			}
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = errors.New("empty completion response")
			continue
		}

		res, perr := prompt.ParseResult(resp.Choices[0].Message.Content)
		if perr != nil {
			return nil, fmt.Errorf("%w: %v", analysis.ErrExternalService, perr)
		}
		res.Normalize(heuristic.CrackTimes(password))
		return res, nil
	}
	return nil, fmt.Errorf("%w: %v", analysis.ErrExternalService, lastErr)
}

// isFatalAPIError reports provider responses that a retry cannot fix:
// authentication failures and exhausted quota.
func isFatalAPIError(err error) bool {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.HTTPStatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return true
	}
	return false
}
