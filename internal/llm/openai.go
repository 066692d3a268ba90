package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

type implOpenAI struct {
	client openai.Client
	logger logger.Logger
}

func newOpenAI(apiKey string, log logger.Logger, opts ...option.RequestOption) *implOpenAI {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &implOpenAI{
		client: openai.NewClient(opts...),
		logger: log,
	}
}

// Complete sends req through the Responses API.
func (c *implOpenAI) Complete(ctx context.Context, req Request) (string, error) {
	if req.Model == "" {
		return "", errors.New("openai: model is empty")
	}

	params := responses.ResponseNewParams{
		Model: req.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.Prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if req.Instructions != "" {
		params.Instructions = openai.String(req.Instructions)
	}
	if req.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.Format != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        req.Format.Name,
					Schema:      req.Format.Schema,
					Strict:      openai.Bool(true),
					Description: openai.String(req.Format.Description),
					Type:        "json_schema",
				},
			},
		}
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		if isRateLimitError(err) {
			c.logger.Warn(ctx, "OpenAI rate limited on model %s", req.Model)
		}
		return "", fmt.Errorf("openai responses: %w", err)
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", errors.New("empty response from OpenAI")
	}
	return text, nil
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}
