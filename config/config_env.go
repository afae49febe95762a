package config

import (
	"context"
	"os"
)

// FromEnvironment configures the default services from API keys in the
// process environment: GOOGLE_API_KEY for descriptions and STABILITY_API_KEY
// for generation. OPENAI_API_KEY, ANTHROPIC_API_KEY and REPLICATE_API_TOKEN
// are used as fallbacks when the default keys are absent.
func FromEnvironment(ctx context.Context) (*Config, error) {
	file := &configFile{
		Address: os.Getenv("ADDRESS"),
	}

	switch {
	case os.Getenv("GOOGLE_API_KEY") != "":
		file.Describer = describerConfig{Type: "google", Token: os.Getenv("GOOGLE_API_KEY")}

	case os.Getenv("OPENAI_API_KEY") != "":
		file.Describer = describerConfig{Type: "openai", Token: os.Getenv("OPENAI_API_KEY")}

	case os.Getenv("ANTHROPIC_API_KEY") != "":
		file.Describer = describerConfig{Type: "anthropic", Token: os.Getenv("ANTHROPIC_API_KEY")}

	default:
		file.Describer = describerConfig{Type: "google"}
	}

	switch {
	case os.Getenv("STABILITY_API_KEY") != "":
		file.Renderer = rendererConfig{Type: "stability", Token: os.Getenv("STABILITY_API_KEY")}

	case os.Getenv("REPLICATE_API_TOKEN") != "":
		file.Renderer = rendererConfig{Type: "replicate", Token: os.Getenv("REPLICATE_API_TOKEN")}

	case os.Getenv("OPENAI_API_KEY") != "":
		file.Renderer = rendererConfig{Type: "openai", Token: os.Getenv("OPENAI_API_KEY")}

	default:
		file.Renderer = rendererConfig{Type: "stability"}
	}

	return build(ctx, file)
}
