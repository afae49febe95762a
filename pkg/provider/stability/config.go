package stability

import (
	"net/http"
	"strings"
)

type Config struct {
	url string

	token string
	model string

	strength *float64

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

func WithStrength(strength float64) Option {
	return func(c *Config) {
		c.strength = &strength
	}
}

func (c *Config) endpoint() string {
	url := c.url

	if url == "" {
		url = "https://api.stability.ai/v2beta/stable-image/generate/"
	}

	model := c.model

	if model == "" {
		model = "ultra"
	}

	return strings.TrimRight(url, "/") + "/" + model
}
