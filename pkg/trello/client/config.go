package client

import (
	"context"
	"io"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/trello-client/pkg/trello/types"
	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	BaseURL string `yaml:"baseUrl"`
	Key     string `yaml:"key"`
	Token   string `yaml:"token"`
	Debug   bool   `yaml:"debug"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)
	if err != nil {
		return nil, err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return cfg, nil
}

// ConfigFromEnvironment reads TRELLO_BASE_URL, TRELLO_KEY, TRELLO_TOKEN and
// TRELLO_DEBUG.
func ConfigFromEnvironment(ctx context.Context) *Config {
	return &Config{
		BaseURL: env.GetVariableOrDefault(ctx, "TRELLO_BASE_URL", DefaultBaseURL),
		Key:     env.GetVariableOrDefault(ctx, "TRELLO_KEY", ""),
		Token:   env.GetVariableOrDefault(ctx, "TRELLO_TOKEN", ""),
		Debug:   env.GetVariableOrDefault(ctx, "TRELLO_DEBUG", "false") == "true",
	}
}

func NewClientFromConfig(cfg *Config) types.Transport {
	debug := "false"
	if cfg.Debug {
		debug = "true"
	}

	return NewClient(cfg.BaseURL, Credentials(cfg.Key, cfg.Token), Debug(debug))
}
