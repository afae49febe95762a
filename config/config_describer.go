package config

import (
	"errors"
	"net/http"
	"strings"

	"github.com/adrianliechti/sketchify/pkg/describer"
	"github.com/adrianliechti/sketchify/pkg/limiter"
	"github.com/adrianliechti/sketchify/pkg/otel"
	"github.com/adrianliechti/sketchify/pkg/provider"
	"github.com/adrianliechti/sketchify/pkg/provider/anthropic"
	"github.com/adrianliechti/sketchify/pkg/provider/google"
	"github.com/adrianliechti/sketchify/pkg/provider/openai"
)

type describerConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Model string `yaml:"model"`

	Limit *int `yaml:"limit"`
}

func (c *Config) registerDescriber(f *configFile, client *http.Client) error {
	cfg := f.Describer

	if cfg.Type == "" {
		cfg.Type = "google"
	}

	if cfg.Model == "" {
		cfg.Model = defaultDescriberModel(cfg.Type)
	}

	completer, err := createCompleter(cfg, client)

	if err != nil {
		return err
	}

	if l := createLimiter(cfg.Limit); l != nil {
		completer = limiter.NewCompleter(l, completer)
	}

	completer = otel.NewCompleter(strings.ToLower(cfg.Type), cfg.Model, completer)

	c.Describer = describer.New(completer)

	return nil
}

func defaultDescriberModel(typ string) string {
	switch strings.ToLower(typ) {
	case "google", "gemini":
		return "gemini-1.5-flash"

	case "openai":
		return "gpt-4o-mini"

	case "anthropic":
		return "claude-3-5-haiku-latest"
	}

	return ""
}

func createCompleter(cfg describerConfig, client *http.Client) (provider.Completer, error) {
	switch strings.ToLower(cfg.Type) {
	case "google", "gemini":
		return googleCompleter(cfg, client)

	case "openai":
		return openaiCompleter(cfg, client)

	case "anthropic":
		return anthropicCompleter(cfg, client)

	default:
		return nil, errors.New("invalid describer type: " + cfg.Type)
	}
}

func googleCompleter(cfg describerConfig, client *http.Client) (provider.Completer, error) {
	options := []google.Option{
		google.WithClient(client),
	}

	if cfg.URL != "" {
		options = append(options, google.WithURL(cfg.URL))
	}

	if cfg.Token != "" {
		options = append(options, google.WithToken(cfg.Token))
	}

	return google.NewCompleter(cfg.Model, options...)
}

func openaiCompleter(cfg describerConfig, client *http.Client) (provider.Completer, error) {
	options := []openai.Option{
		openai.WithClient(client),
	}

	if cfg.Token != "" {
		options = append(options, openai.WithToken(cfg.Token))
	}

	return openai.NewCompleter(cfg.URL, cfg.Model, options...)
}

func anthropicCompleter(cfg describerConfig, client *http.Client) (provider.Completer, error) {
	options := []anthropic.Option{
		anthropic.WithClient(client),
	}

	if cfg.Token != "" {
		options = append(options, anthropic.WithToken(cfg.Token))
	}

	return anthropic.NewCompleter(cfg.URL, cfg.Model, options...)
}
