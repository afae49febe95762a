package describer

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"

	"github.com/adrianliechti/sketchify/pkg/imaging"
	"github.com/adrianliechti/sketchify/pkg/provider"
	"github.com/adrianliechti/sketchify/pkg/text"
)

// Fallback is returned by Describe when no description could be produced.
const Fallback = "Unable to generate description."

var ErrUnavailable = errors.New("description unavailable")

const promptTemplate = `Analyze this drawn sketch as a future realistic image. Describe it concisely:
1. Overall scene and setting
2. Main elements and their interactions
3. Implied actions or activities with emotions
4. Mood and atmosphere
5. Symbolic or standout elements
6. Suggested colors and lighting
7. Perspective and point of view
Provide a concise and short description in maximum 10000 characters.`

type Client struct {
	completer provider.Completer
	options   *provider.CompleteOptions
}

type Option func(*Client)

func WithOptions(options *provider.CompleteOptions) Option {
	return func(c *Client) {
		c.options = options
	}
}

func New(completer provider.Completer, options ...Option) *Client {
	c := &Client{
		completer: completer,
		options:   DefaultOptions(),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

func DefaultOptions() *provider.CompleteOptions {
	maxTokens := 300

	temperature := float32(0.8)
	topP := float32(0.9)
	topK := float32(85)

	return &provider.CompleteOptions{
		MaxTokens: &maxTokens,

		Temperature: &temperature,
		TopP:        &topP,
		TopK:        &topK,
	}
}

// Describe never fails: errors are logged and replaced with Fallback.
// The style is accepted for future prompt composition and not sent.
func (c *Client) Describe(ctx context.Context, img image.Image, hint, style string) string {
	result, err := c.TryDescribe(ctx, img, hint, style)

	if err != nil {
		slog.ErrorContext(ctx, "description failed", "operation", "describe", "error", err)
		return Fallback
	}

	return result
}

// TryDescribe is Describe with explicit error propagation.
func (c *Client) TryDescribe(ctx context.Context, img image.Image, hint, style string) (string, error) {
	data, err := imaging.EncodePNG(img)

	if err != nil {
		return "", errors.Join(ErrUnavailable, err)
	}

	messages := []provider.Message{
		provider.UserMessage(
			provider.FileContent(&provider.File{
				Name: "sketch.png",

				Content:     data,
				ContentType: "image/png",
			}),
			provider.TextContent(Prompt(hint)),
		),
	}

	completion, err := provider.Complete(ctx, c.completer, messages, c.options)

	if err != nil {
		return "", errors.Join(ErrUnavailable, err)
	}

	result := Sanitize(completion.Message.Text())

	if result == "" {
		return "", errors.Join(ErrUnavailable, errors.New("empty description"))
	}

	return result, nil
}

// Prompt builds the instruction sent along with the sketch. A non-empty hint
// comes first as a directive.
func Prompt(hint string) string {
	hint = strings.TrimSpace(hint)

	if hint == "" {
		return promptTemplate
	}

	return "The overall main key features are: " + hint + ". These must come first in the description.\n\n" + promptTemplate
}

// Sanitize removes markup emphasis characters from a model response.
func Sanitize(s string) string {
	return text.Normalize(text.Strip(s, "*#"))
}
