package config

import (
	"fmt"
	"os"
	"time"

	"FluxFeed/pkg/util"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	CryptoNews struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"cryptonews"`
	OpenAI struct {
		APIKey  string        `yaml:"api_key"`
		Model   string        `yaml:"model"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"openai"`
	Binance struct {
		BaseURL     string        `yaml:"base_url"`
		CandleLimit int           `yaml:"candle_limit"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"binance"`
	Coingecko struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"coingecko"`
	Cache struct {
		SignalTTL time.Duration `yaml:"signal_ttl"`
		NewsTTL   time.Duration `yaml:"news_ttl"`
		Redis     struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// Provider credentials are optional: a missing key routes the engine to its
// fallback path instead of failing startup.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CRYPTONEWS_API_KEY"); v != "" {
		c.CryptoNews.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Enabled = true
		host, port := splitHostPort(v, c.Cache.Redis.Port)
		c.Cache.Redis.Host = host
		c.Cache.Redis.Port = port
	}
	if v := os.Getenv("PORT"); v != "" {
		if p := util.ParseIntDefault(v, 0); p > 0 {
			c.Server.Port = p
		}
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8787
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.CryptoNews.BaseURL == "" {
		c.CryptoNews.BaseURL = "https://cryptonews-api.com/api/v1"
	}
	if c.CryptoNews.Timeout == 0 {
		c.CryptoNews.Timeout = 8 * time.Second
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-5-mini"
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 12 * time.Second
	}
	if c.Binance.BaseURL == "" {
		c.Binance.BaseURL = "https://api.binance.com"
	}
	if c.Binance.CandleLimit == 0 {
		c.Binance.CandleLimit = 200
	}
	if c.Binance.Timeout == 0 {
		c.Binance.Timeout = 6 * time.Second
	}
	if c.Coingecko.BaseURL == "" {
		c.Coingecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.Coingecko.Timeout == 0 {
		c.Coingecko.Timeout = 6 * time.Second
	}
	if c.Cache.SignalTTL == 0 {
		c.Cache.SignalTTL = 30 * time.Second
	}
	if c.Cache.NewsTTL == 0 {
		c.Cache.NewsTTL = 60 * time.Second
	}
	if c.Cache.Redis.Port == 0 {
		c.Cache.Redis.Port = 6379
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

func splitHostPort(addr string, defPort int) (string, int) {
	host := addr
	port := defPort
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			if p := util.ParseIntDefault(addr[i+1:], 0); p > 0 {
				host = addr[:i]
				port = p
			}
			break
		}
	}
	return host, port
}
