package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"iter"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config
	completions openai.ChatCompletionService
}

func NewCompleter(url, model string, options ...Option) (*Completer, error) {
	cfg := &Config{
		url:   url,
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Completer{
		Config:      cfg,
		completions: openai.NewChatCompletionService(cfg.Options()...),
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) iter.Seq2[*provider.Completion, error] {
	return func(yield func(*provider.Completion, error) bool) {
		if options == nil {
			options = new(provider.CompleteOptions)
		}

		req, err := c.convertCompletionRequest(messages, options)

		if err != nil {
			yield(nil, err)
			return
		}

		completion, err := c.completions.New(ctx, *req)

		if err != nil {
			yield(nil, convertError(err))
			return
		}

		if len(completion.Choices) == 0 {
			yield(nil, errors.New("no choices returned"))
			return
		}

		choice := completion.Choices[0]

		result := &provider.Completion{
			ID:    completion.ID,
			Model: completion.Model,

			Message: &provider.Message{
				Role: provider.MessageRoleAssistant,
			},

			Usage: &provider.Usage{
				InputTokens:  int(completion.Usage.PromptTokens),
				OutputTokens: int(completion.Usage.CompletionTokens),
			},
		}

		if choice.Message.Content != "" {
			result.Message.Content = append(result.Message.Content, provider.TextContent(choice.Message.Content))
		}

		yield(result, nil)
	}
}

func (c *Completer) convertCompletionRequest(messages []provider.Message, options *provider.CompleteOptions) (*openai.ChatCompletionNewParams, error) {
	req := &openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
	}

	if options.MaxTokens != nil {
		req.MaxCompletionTokens = openai.Int(int64(*options.MaxTokens))
	}

	if options.Temperature != nil {
		req.Temperature = openai.Float(float64(*options.Temperature))
	}

	if options.TopP != nil {
		req.TopP = openai.Float(float64(*options.TopP))
	}

	// top-k has no equivalent in the chat completions API

	for _, m := range messages {
		switch m.Role {
		case provider.MessageRoleSystem:
			req.Messages = append(req.Messages, openai.SystemMessage(m.Text()))

		case provider.MessageRoleUser:
			parts := []openai.ChatCompletionContentPartUnionParam{}

			for _, c := range m.Content {
				if c.Text != "" {
					parts = append(parts, openai.TextContentPart(c.Text))
				}

				if c.File != nil {
					switch c.File.ContentType {
					case "image/png", "image/jpeg", "image/webp", "image/gif":
						imageURL := openai.ChatCompletionContentPartImageImageURLParam{
							URL: "data:" + c.File.ContentType + ";base64," + base64.StdEncoding.EncodeToString(c.File.Content),
						}

						parts = append(parts, openai.ImageContentPart(imageURL))

					default:
						return nil, errors.New("unsupported content type")
					}
				}
			}

			req.Messages = append(req.Messages, openai.UserMessage(parts))

		case provider.MessageRoleAssistant:
			req.Messages = append(req.Messages, openai.AssistantMessage(m.Text()))
		}
	}

	return req, nil
}
