package anthropic

import (
	"context"
	"encoding/base64"
	"errors"
	"iter"
	"strings"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/anthropics/anthropic-sdk-go"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config
	messages anthropic.MessageService
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
		Config:   cfg,
		messages: anthropic.NewMessageService(cfg.Options()...),
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) iter.Seq2[*provider.Completion, error] {
	return func(yield func(*provider.Completion, error) bool) {
		if options == nil {
			options = new(provider.CompleteOptions)
		}

		req, err := c.convertMessageRequest(messages, options)

		if err != nil {
			yield(nil, err)
			return
		}

		message, err := c.messages.New(ctx, *req)

		if err != nil {
			yield(nil, provider.ClassifyError(err))
			return
		}

		result := &provider.Completion{
			ID:    message.ID,
			Model: string(message.Model),

			Message: &provider.Message{
				Role: provider.MessageRoleAssistant,
			},

			Usage: &provider.Usage{
				InputTokens:  int(message.Usage.InputTokens),
				OutputTokens: int(message.Usage.OutputTokens),
			},
		}

		for _, block := range message.Content {
			if block.Type == "text" && block.Text != "" {
				result.Message.Content = append(result.Message.Content, provider.TextContent(block.Text))
			}
		}

		yield(result, nil)
	}
}

func (c *Completer) convertMessageRequest(input []provider.Message, options *provider.CompleteOptions) (*anthropic.MessageNewParams, error) {
	req := &anthropic.MessageNewParams{
		Model: anthropic.Model(c.model),

		MaxTokens: 1024,
	}

	if options.MaxTokens != nil {
		req.MaxTokens = int64(*options.MaxTokens)
	}

	if options.Temperature != nil {
		req.Temperature = anthropic.Float(float64(*options.Temperature))
	}

	if options.TopP != nil {
		req.TopP = anthropic.Float(float64(*options.TopP))
	}

	if options.TopK != nil {
		req.TopK = anthropic.Int(int64(*options.TopK))
	}

	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam

	for _, m := range input {
		switch m.Role {
		case provider.MessageRoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Text()})

		case provider.MessageRoleUser:
			var blocks []anthropic.ContentBlockParamUnion

			for _, c := range m.Content {
				if text := strings.TrimRight(c.Text, " \t\n\r"); text != "" {
					blocks = append(blocks, anthropic.NewTextBlock(text))
				}

				if c.File != nil {
					mime := c.File.ContentType
					content := base64.StdEncoding.EncodeToString(c.File.Content)

					switch mime {
					case "image/jpeg", "image/png", "image/gif", "image/webp":
						blocks = append(blocks, anthropic.NewImageBlock(anthropic.Base64ImageSourceParam{
							Data:      content,
							MediaType: anthropic.Base64ImageSourceMediaType(mime),
						}))

					default:
						return nil, errors.New("unsupported content type")
					}
				}
			}

			messages = append(messages, anthropic.NewUserMessage(blocks...))

		case provider.MessageRoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text())))
		}
	}

	if len(system) > 0 {
		req.System = system
	}

	req.Messages = messages

	return req, nil
}
