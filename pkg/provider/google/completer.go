package google

import (
	"context"
	"errors"
	"iter"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config
}

func NewCompleter(model string, options ...Option) (*Completer, error) {
	cfg := &Config{
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Completer{
		Config: cfg,
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) iter.Seq2[*provider.Completion, error] {
	return func(yield func(*provider.Completion, error) bool) {
		if options == nil {
			options = new(provider.CompleteOptions)
		}

		client, err := c.newClient(ctx)

		if err != nil {
			yield(nil, err)
			return
		}

		contents, system, err := convertMessages(messages)

		if err != nil {
			yield(nil, err)
			return
		}

		config := convertConfig(options)
		config.SystemInstruction = system

		resp, err := client.Models.GenerateContent(ctx, c.model, contents, config)

		if err != nil {
			yield(nil, convertError(err))
			return
		}

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			yield(nil, errors.New("no candidates returned"))
			return
		}

		candidate := resp.Candidates[0]

		model := c.model

		if resp.ModelVersion != "" {
			model = resp.ModelVersion
		}

		yield(&provider.Completion{
			ID:    uuid.NewString(),
			Model: model,

			Message: &provider.Message{
				Role:    provider.MessageRoleAssistant,
				Content: toContent(candidate.Content),
			},

			Usage: toUsage(resp.UsageMetadata),
		}, nil)
	}
}

func convertConfig(options *provider.CompleteOptions) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "text/plain",
	}

	if options.MaxTokens != nil {
		config.MaxOutputTokens = int32(*options.MaxTokens)
	}

	if options.Temperature != nil {
		config.Temperature = genai.Ptr(*options.Temperature)
	}

	if options.TopP != nil {
		config.TopP = genai.Ptr(*options.TopP)
	}

	if options.TopK != nil {
		config.TopK = genai.Ptr(*options.TopK)
	}

	return config
}

func convertMessages(messages []provider.Message) ([]*genai.Content, *genai.Content, error) {
	var system []*genai.Part
	var contents []*genai.Content

	for _, m := range messages {
		parts, err := convertParts(m.Content)

		if err != nil {
			return nil, nil, err
		}

		switch m.Role {
		case provider.MessageRoleSystem:
			system = append(system, parts...)

		case provider.MessageRoleUser:
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))

		case provider.MessageRoleAssistant:
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))
		}
	}

	if len(system) == 0 {
		return contents, nil, nil
	}

	return contents, &genai.Content{Parts: system}, nil
}

func convertParts(content []provider.Content) ([]*genai.Part, error) {
	var parts []*genai.Part

	for _, c := range content {
		if c.Text != "" {
			parts = append(parts, genai.NewPartFromText(c.Text))
		}

		if c.File != nil {
			switch c.File.ContentType {
			case "image/png", "image/jpeg", "image/webp", "image/heic", "image/heif":
				parts = append(parts, genai.NewPartFromBytes(c.File.Content, c.File.ContentType))

			default:
				return nil, errors.New("unsupported content type")
			}
		}
	}

	return parts, nil
}

func toContent(content *genai.Content) []provider.Content {
	var parts []provider.Content

	for _, p := range content.Parts {
		if p.Thought {
			continue
		}

		if p.Text != "" {
			parts = append(parts, provider.TextContent(p.Text))
		}
	}

	return parts
}

func toUsage(metadata *genai.GenerateContentResponseUsageMetadata) *provider.Usage {
	if metadata == nil {
		return nil
	}

	return &provider.Usage{
		InputTokens:  int(metadata.PromptTokenCount),
		OutputTokens: int(metadata.CandidatesTokenCount),
	}
}
