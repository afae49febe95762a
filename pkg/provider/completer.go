package provider

import (
	"context"
	"iter"
	"strings"
)

type Completer interface {
	Complete(ctx context.Context, messages []Message, options *CompleteOptions) iter.Seq2[*Completion, error]
}

type Message struct {
	Role MessageRole

	Content []Content
}

func SystemMessage(content string) Message {
	return Message{
		Role: MessageRoleSystem,

		Content: []Content{
			{
				Text: content,
			},
		},
	}
}

func UserMessage(content ...Content) Message {
	return Message{
		Role: MessageRoleUser,

		Content: content,
	}
}

func (m Message) Text() string {
	var parts []string

	for _, c := range m.Content {
		if c.Text != "" {
			parts = append(parts, c.Text)
		}
	}

	return strings.Join(parts, "\n\n")
}

type CompletionAccumulator struct {
	id    string
	model string

	role MessageRole

	content strings.Builder

	usage *Usage
}

func (a *CompletionAccumulator) Add(c Completion) {
	if c.ID != "" {
		a.id = c.ID
	}

	if c.Model != "" {
		a.model = c.Model
	}

	if c.Message != nil {
		if c.Message.Role != "" {
			a.role = c.Message.Role
		}

		for _, c := range c.Message.Content {
			if c.Text != "" {
				a.content.WriteString(c.Text)
			}
		}
	}

	if c.Usage != nil {
		if a.usage == nil {
			a.usage = &Usage{}
		}

		a.usage.InputTokens += c.Usage.InputTokens
		a.usage.OutputTokens += c.Usage.OutputTokens
	}
}

func (a *CompletionAccumulator) Result() *Completion {
	var content []Content

	if a.content.Len() > 0 {
		content = append(content, TextContent(a.content.String()))
	}

	return &Completion{
		ID:    a.id,
		Model: a.model,

		Message: &Message{
			Role:    a.role,
			Content: content,
		},

		Usage: a.usage,
	}
}

func TextContent(val string) Content {
	return Content{
		Text: val,
	}
}

func FileContent(val *File) Content {
	return Content{
		File: val,
	}
}

type Content struct {
	Text string

	File *File
}

type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type CompleteOptions struct {
	MaxTokens *int

	Temperature *float32
	TopP        *float32
	TopK        *float32
}

type Completion struct {
	ID    string
	Model string

	Message *Message

	Usage *Usage
}

// Complete drains a completion stream into a single result.
func Complete(ctx context.Context, c Completer, messages []Message, options *CompleteOptions) (*Completion, error) {
	var acc CompletionAccumulator

	for completion, err := range c.Complete(ctx, messages, options) {
		if err != nil {
			return nil, err
		}

		acc.Add(*completion)
	}

	return acc.Result(), nil
}
