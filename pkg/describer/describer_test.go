package describer

import (
	"context"
	"errors"
	"image"
	"iter"
	"strings"
	"testing"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/stretchr/testify/require"
)

type mockCompleter struct {
	response string
	err      error

	messages []provider.Message
	options  *provider.CompleteOptions
}

func (m *mockCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) iter.Seq2[*provider.Completion, error] {
	return func(yield func(*provider.Completion, error) bool) {
		m.messages = messages
		m.options = options

		if m.err != nil {
			yield(nil, m.err)
			return
		}

		yield(&provider.Completion{
			Message: &provider.Message{
				Role:    provider.MessageRoleAssistant,
				Content: []provider.Content{provider.TextContent(m.response)},
			},
		}, nil)
	}
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8, 8))
}

func TestDescribeSanitizes(t *testing.T) {
	completer := &mockCompleter{
		response: "## Scene\n**A dog** running in a *park*",
	}

	c := New(completer)

	result := c.Describe(context.Background(), testImage(), "", "Anime")

	require.NotContains(t, result, "*")
	require.NotContains(t, result, "#")
	require.Equal(t, "Scene\nA dog running in a park", result)
}

func TestDescribeSendsImageAndPrompt(t *testing.T) {
	completer := &mockCompleter{
		response: "a dog",
	}

	c := New(completer)
	c.Describe(context.Background(), testImage(), "a dog running", "Anime")

	require.Len(t, completer.messages, 1)

	message := completer.messages[0]
	require.Equal(t, provider.MessageRoleUser, message.Role)
	require.Len(t, message.Content, 2)

	file := message.Content[0].File
	require.NotNil(t, file)
	require.Equal(t, "image/png", file.ContentType)
	require.NotEmpty(t, file.Content)

	prompt := message.Content[1].Text
	require.True(t, strings.HasPrefix(prompt, "The overall main key features are: a dog running"))
	require.Contains(t, prompt, "maximum 10000 characters")
	require.NotContains(t, prompt, "Anime")
}

func TestDescribeDecodingOptions(t *testing.T) {
	completer := &mockCompleter{
		response: "a dog",
	}

	New(completer).Describe(context.Background(), testImage(), "", "")

	options := completer.options
	require.NotNil(t, options)

	require.Equal(t, 300, *options.MaxTokens)
	require.InDelta(t, 0.8, *options.Temperature, 1e-6)
	require.InDelta(t, 0.9, *options.TopP, 1e-6)
	require.InDelta(t, 85, *options.TopK, 1e-6)
}

func TestDescribeFallback(t *testing.T) {
	t.Run("service error", func(t *testing.T) {
		completer := &mockCompleter{
			err: errors.New("quota exceeded"),
		}

		result := New(completer).Describe(context.Background(), testImage(), "hint", "Anime")
		require.Equal(t, Fallback, result)
	})

	t.Run("empty response", func(t *testing.T) {
		completer := &mockCompleter{
			response: " ** ## ",
		}

		result := New(completer).Describe(context.Background(), testImage(), "", "Anime")
		require.Equal(t, Fallback, result)
	})
}

func TestTryDescribeReturnsError(t *testing.T) {
	cause := errors.New("connection reset")

	completer := &mockCompleter{
		err: cause,
	}

	result, err := New(completer).TryDescribe(context.Background(), testImage(), "", "")

	require.Empty(t, result)
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, cause)
}

func TestPrompt(t *testing.T) {
	require.Equal(t, promptTemplate, Prompt(""))
	require.Equal(t, promptTemplate, Prompt("   "))

	prompt := Prompt("red car")
	require.True(t, strings.HasPrefix(prompt, "The overall main key features are: red car."))
	require.True(t, strings.HasSuffix(prompt, promptTemplate))
}
