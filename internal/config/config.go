package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Server struct {
		Port           int               `yaml:"port" validate:"gt=0,lte=65535"`
		MaxUploadMB    int64             `yaml:"maxUploadMB" validate:"gt=0"`
		AllowedOrigins []string          `yaml:"allowedOrigins"`
		APIKeys        map[string]string `yaml:"apiKeys"`
		RateLimit      struct {
			// nil means default; an explicit 0 disables rate limiting
			RPS   *float64 `yaml:"rps" validate:"omitempty,gte=0"`
			Burst int      `yaml:"burst" validate:"gte=0"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	} `yaml:"log"`

	AI struct {
		Provider  string        `yaml:"provider" validate:"oneof=openai gemini"`
		Model     string        `yaml:"model"`
		APIKey    string        `yaml:"apiKey" validate:"required"`
		BaseURL   string        `yaml:"baseURL" validate:"omitempty,url"`
		Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
		MaxTokens int           `yaml:"maxTokens" validate:"gt=0"`
	} `yaml:"ai"`

	Database struct {
		Driver string `yaml:"driver" validate:"omitempty,oneof=mysql postgres"`
		DSN    string `yaml:"dsn" validate:"required_with=Driver"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey" validate:"required_with=Endpoint"`
		SecretKey  string `yaml:"secretKey" validate:"required_with=Endpoint"`
		BucketName string `yaml:"bucketName" validate:"required_with=Endpoint"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`
}

// Load baca file config.yaml (optional), isi default, lalu override dari env.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Validate rejects a config the service cannot start with, most importantly
// a missing model API key.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// RateLimitRPS returns the per-IP rate, or 0 when rate limiting is off.
func (c *Config) RateLimitRPS() float64 {
	if c.Server.RateLimit.RPS == nil {
		return 0
	}
	return *c.Server.RateLimit.RPS
}

// MaxUploadBytes is the request body cap for /verify-front.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8001
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 10
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Server.RateLimit.RPS == nil {
		rps := 2.0
		c.Server.RateLimit.RPS = &rps
	}
	if c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderOpenAI
	}
	if c.AI.Model == "" {
		switch c.AI.Provider {
		case ProviderGemini:
			c.AI.Model = "gemini-2.5-flash"
		default:
			c.AI.Model = "gpt-4o-mini"
		}
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 120 * time.Second
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = 1800
	}
}

func applyEnv(c *Config) {
	setString(&c.AI.Provider, "AI_PROVIDER")
	setString(&c.AI.Model, "AI_MODEL")
	setString(&c.AI.BaseURL, "AI_BASE_URL")
	if v := os.Getenv("AI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.AI.Timeout = d
		}
	}

	provider := strings.ToLower(strings.TrimSpace(c.AI.Provider))
	c.AI.Provider = provider
	switch provider {
	case ProviderGemini:
		setString(&c.AI.APIKey, "GEMINI_API_KEY")
	default:
		setString(&c.AI.APIKey, "OPENAI_API_KEY")
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.Server.RateLimit.RPS = &rps
		}
	}
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.DSN, "DATABASE_DSN")
	setString(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Minio.BucketName, "MINIO_BUCKET")
	setString(&c.Minio.Region, "MINIO_REGION")
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		c.Minio.UseSSL, _ = strconv.ParseBool(v)
	}

	// API_KEYS=frontend:abc,backoffice:def
	if v := os.Getenv("API_KEYS"); v != "" {
		keys := map[string]string{}
		for _, pair := range strings.Split(v, ",") {
			name, key, ok := strings.Cut(strings.TrimSpace(pair), ":")
			if ok && name != "" && key != "" {
				keys[name] = key
			}
		}
		c.Server.APIKeys = keys
	}
}

func setString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}
