package openai

import (
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3/option"
)

type Config struct {
	url string

	token string
	model string

	client *http.Client
}

type Option func(*Config)

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.client = client
	}
}

func WithToken(token string) Option {
	return func(c *Config) {
		c.token = token
	}
}

func (c *Config) Options() []option.RequestOption {
	url := c.url

	if url == "" {
		url = "https://api.openai.com/v1/"
	}

	url = strings.TrimRight(url, "/") + "/"

	client := c.client

	if client == nil {
		client = http.DefaultClient
	}

	if strings.Contains(url, "openai.azure.com") || strings.Contains(url, "cognitiveservices.azure.com") {
		options := []option.RequestOption{
			option.WithBaseURL(url),
			option.WithHTTPClient(client),

			option.WithQueryAdd("api-version", "preview"),
			option.WithMaxRetries(0),
		}

		if c.token != "" {
			options = append(options, option.WithHeader("Api-Key", c.token))
		}

		return options
	}

	options := []option.RequestOption{
		option.WithBaseURL(url),
		option.WithHTTPClient(client),

		option.WithMaxRetries(0),
	}

	if c.token != "" {
		options = append(options, option.WithAPIKey(c.token))
	}

	return options
}
