package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// AccessTokenEnv names the environment variable holding the collector token.
const AccessTokenEnv = "ACCESS_TOKEN"

type Config struct {
	Env         string `yaml:"env"`
	BaseURL     string `yaml:"base_url"`
	SwaggerFile string `yaml:"swagger_file"`
	ShortCode   `yaml:"short_code"`
	Link        `yaml:"link"`
	HTTPServer  `yaml:"http_server"`
	RateLimit   `yaml:"rate_limit"`
	Collector   `yaml:"collector"`
	Sweeper     `yaml:"sweeper"`
}

type ShortCode struct {
	Length     int `yaml:"length"`
	MaxRetries int `yaml:"max_retries"`
}

var defaultShortCode = ShortCode{
	Length:     6,
	MaxRetries: 5,
}

type Link struct {
	DefaultValidity time.Duration `yaml:"default_validity"`
}

var defaultLink = Link{
	DefaultValidity: 30 * time.Minute,
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           3000,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type RateLimit struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

var defaultRateLimit = RateLimit{
	Requests: 100,
	Window:   15 * time.Minute,
}

type Collector struct {
	Enabled     bool          `yaml:"enabled"`
	URL         string        `yaml:"url"`
	Stack       string        `yaml:"stack"`
	Timeout     time.Duration `yaml:"timeout"`
	QueueSize   int           `yaml:"queue_size"`
	AccessToken string        `yaml:"-"`
}

var defaultCollector = Collector{
	Stack:     "backend",
	Timeout:   5 * time.Second,
	QueueSize: 256,
}

type Sweeper struct {
	Interval  time.Duration `yaml:"interval"`
	Retention time.Duration `yaml:"retention"`
}

var defaultSweeper = Sweeper{
	Interval:  time.Minute,
	Retention: 24 * time.Hour,
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	cfg.Collector.AccessToken = os.Getenv(AccessTokenEnv)

	if cfg.Collector.Enabled && cfg.Collector.URL == "" {
		return nil, fmt.Errorf("%s: collector is enabled but collector.url is empty", op)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.ShortCode = defaultShortCode
	cfg.Link = defaultLink
	cfg.HTTPServer = defaultHTTPServer
	cfg.RateLimit = defaultRateLimit
	cfg.Collector = defaultCollector
	cfg.Sweeper = defaultSweeper
}
