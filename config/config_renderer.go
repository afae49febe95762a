package config

import (
	"errors"
	"net/http"
	"strings"

	"github.com/adrianliechti/sketchify/pkg/generator"
	"github.com/adrianliechti/sketchify/pkg/limiter"
	"github.com/adrianliechti/sketchify/pkg/otel"
	"github.com/adrianliechti/sketchify/pkg/provider"
	"github.com/adrianliechti/sketchify/pkg/provider/google"
	"github.com/adrianliechti/sketchify/pkg/provider/openai"
	"github.com/adrianliechti/sketchify/pkg/provider/replicate"
	"github.com/adrianliechti/sketchify/pkg/provider/replicate/flux"
	"github.com/adrianliechti/sketchify/pkg/provider/stability"
)

type rendererConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Model string `yaml:"model"`

	Limit *int `yaml:"limit"`

	Strength *float64 `yaml:"strength"`
}

func (c *Config) registerRenderer(f *configFile, client *http.Client) error {
	cfg := f.Renderer

	if cfg.Type == "" {
		cfg.Type = "stability"
	}

	if cfg.Model == "" {
		cfg.Model = defaultRendererModel(cfg.Type)
	}

	renderer, err := createRenderer(cfg, client)

	if err != nil {
		return err
	}

	if l := createLimiter(cfg.Limit); l != nil {
		renderer = limiter.NewRenderer(l, renderer)
	}

	renderer = otel.NewRenderer(strings.ToLower(cfg.Type), cfg.Model, renderer)

	c.Generator = generator.New(renderer)

	return nil
}

func defaultRendererModel(typ string) string {
	switch strings.ToLower(typ) {
	case "stability":
		return "ultra"

	case "replicate":
		return flux.FluxKontextPro

	case "openai":
		return "gpt-image-1"

	case "google", "gemini":
		return "gemini-2.5-flash-image"
	}

	return ""
}

func createRenderer(cfg rendererConfig, client *http.Client) (provider.Renderer, error) {
	switch strings.ToLower(cfg.Type) {
	case "stability":
		return stabilityRenderer(cfg, client)

	case "replicate":
		return replicateRenderer(cfg, client)

	case "openai":
		return openaiRenderer(cfg, client)

	case "google", "gemini":
		return googleRenderer(cfg, client)

	default:
		return nil, errors.New("invalid renderer type: " + cfg.Type)
	}
}

func stabilityRenderer(cfg rendererConfig, client *http.Client) (provider.Renderer, error) {
	options := []stability.Option{
		stability.WithClient(client),
	}

	if cfg.Token != "" {
		options = append(options, stability.WithToken(cfg.Token))
	}

	if cfg.Strength != nil {
		options = append(options, stability.WithStrength(*cfg.Strength))
	}

	return stability.NewRenderer(cfg.URL, cfg.Model, options...)
}

func replicateRenderer(cfg rendererConfig, client *http.Client) (provider.Renderer, error) {
	options := []replicate.Option{
		replicate.WithClient(client),
	}

	if cfg.URL != "" {
		options = append(options, replicate.WithURL(cfg.URL))
	}

	if cfg.Token != "" {
		options = append(options, replicate.WithToken(cfg.Token))
	}

	return flux.NewRenderer(cfg.Model, options...)
}

func openaiRenderer(cfg rendererConfig, client *http.Client) (provider.Renderer, error) {
	options := []openai.Option{
		openai.WithClient(client),
	}

	if cfg.Token != "" {
		options = append(options, openai.WithToken(cfg.Token))
	}

	return openai.NewRenderer(cfg.URL, cfg.Model, options...)
}

func googleRenderer(cfg rendererConfig, client *http.Client) (provider.Renderer, error) {
	options := []google.Option{
		google.WithClient(client),
	}

	if cfg.URL != "" {
		options = append(options, google.WithURL(cfg.URL))
	}

	if cfg.Token != "" {
		options = append(options, google.WithToken(cfg.Token))
	}

	return google.NewRenderer(cfg.Model, options...)
}
