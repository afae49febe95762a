package config

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"time"

	"github.com/adrianliechti/sketchify/pkg/auth"
	"github.com/adrianliechti/sketchify/pkg/describer"
	"github.com/adrianliechti/sketchify/pkg/generator"
	"github.com/adrianliechti/sketchify/pkg/imaging"
	"github.com/adrianliechti/sketchify/pkg/sketch"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	Authorizers []auth.Provider

	Styles     []string
	SessionTTL time.Duration

	Normalizer *imaging.Normalizer

	Describer *describer.Client
	Generator *generator.Client
}

// SessionOptions returns the options every new session is created with.
func (c *Config) SessionOptions() []sketch.Option {
	return []sketch.Option{
		sketch.WithNormalizer(c.Normalizer),
		sketch.WithStyles(c.Styles),
	}
}

// NewStore creates a session store backed by the configured clients.
func (c *Config) NewStore() *sketch.Store {
	return sketch.NewStore(c.Describer, c.Generator, c.SessionTTL, c.SessionOptions()...)
}

// NewSession creates a standalone session backed by the configured clients.
func (c *Config) NewSession() *sketch.Session {
	return sketch.New(c.Describer, c.Generator, c.SessionOptions()...)
}

// Load reads the config file at path. An empty path or "env" configures
// the clients from environment variables only.
func Load(ctx context.Context, path string) (*Config, error) {
	if path == "" || path == "env" {
		return FromEnvironment(ctx)
	}

	return Parse(ctx, path)
}

func Parse(ctx context.Context, path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	return build(ctx, file)
}

func build(ctx context.Context, file *configFile) (*Config, error) {
	c := &Config{
		Address: ":8080",

		Styles:     sketch.Styles,
		SessionTTL: sketch.DefaultTTL,
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if len(file.Styles) > 0 {
		c.Styles = file.Styles
	}

	if file.Session.TTL > 0 {
		c.SessionTTL = file.Session.TTL
	}

	c.Normalizer = imaging.NewNormalizer(file.Normalizer.MaxSize)

	client, err := file.httpClient()

	if err != nil {
		return nil, err
	}

	if err := c.registerAuthorizer(ctx, file); err != nil {
		return nil, err
	}

	if err := c.registerDescriber(file, client); err != nil {
		return nil, err
	}

	if err := c.registerRenderer(file, client); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	Timeout time.Duration `yaml:"timeout"`
	Proxy   *proxyConfig  `yaml:"proxy"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Describer describerConfig `yaml:"describer"`
	Renderer  rendererConfig  `yaml:"renderer"`

	Normalizer normalizerConfig `yaml:"normalizer"`

	Styles []string `yaml:"styles"`

	Session sessionConfig `yaml:"session"`
}

type normalizerConfig struct {
	MaxSize int `yaml:"max_size"`
}

type sessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	return parseData(data)
}

func parseData(data []byte) (*configFile, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func (f *configFile) httpClient() (*http.Client, error) {
	client, err := f.Proxy.proxyClient()

	if err != nil {
		return nil, err
	}

	client.Timeout = f.Timeout

	return client, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}
