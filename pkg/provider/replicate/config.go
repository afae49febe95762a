package replicate

import (
	"net/http"

	"github.com/replicate/replicate-go"
)

type Config struct {
	url string

	token string
	model string

	client *http.Client
}

type Option func(*Config)

func WithURL(url string) Option {
	return func(c *Config) {
		c.url = url
	}
}

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

func (cfg *Config) Options() []replicate.ClientOption {
	var options []replicate.ClientOption

	if cfg.url != "" {
		options = append(options, replicate.WithBaseURL(cfg.url))
	}

	if cfg.client != nil {
		options = append(options, replicate.WithHTTPClient(cfg.client))
	}

	if cfg.token != "" {
		options = append(options, replicate.WithToken(cfg.token))
	}

	return options
}
