package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Loxo struct {
		BaseURL     string        `yaml:"base_url" default:"https://app.loxo.co/api"`
		AgencySlug  string        `yaml:"agency_slug"`
		BearerToken string        `yaml:"bearer_token"`
		Timeout     time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"loxo"`

	CORS struct {
		AllowedOrigin string `yaml:"allowed_origin" default:"*"`
		MaxAge        int    `yaml:"max_age" default:"86400"`
	} `yaml:"cors"`

	RateLimit struct {
		RequestsPerMinute int  `yaml:"requests_per_minute" default:"120"`
		Burst             int  `yaml:"burst" default:"10"`
		Enabled           bool `yaml:"enabled" default:"true"`
	} `yaml:"rate_limit"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Loxo.BaseURL = "https://app.loxo.co/api"
	config.Loxo.Timeout = 15 * time.Second

	config.CORS.AllowedOrigin = "*"
	config.CORS.MaxAge = 86400

	config.RateLimit.RequestsPerMinute = 120
	config.RateLimit.Burst = 10
	config.RateLimit.Enabled = true

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if baseURL := os.Getenv("LOXO_BASE_URL"); baseURL != "" {
		c.Loxo.BaseURL = baseURL
	}

	if slug := os.Getenv("AGENCY_SLUG"); slug != "" {
		c.Loxo.AgencySlug = slug
	}

	if token := os.Getenv("LOXO_BEARER_TOKEN"); token != "" {
		c.Loxo.BearerToken = token
	}

	if timeout := os.Getenv("LOXO_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Loxo.Timeout = d
		}
	}

	if origin := os.Getenv("ALLOWED_ORIGIN"); origin != "" {
		c.CORS.AllowedOrigin = origin
	}

	if rpm := os.Getenv("RATE_LIMIT_RPM"); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil {
			c.RateLimit.RequestsPerMinute = n
		}
	}

	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if n, err := strconv.Atoi(burst); err == nil {
			c.RateLimit.Burst = n
		}
	}

	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		c.RateLimit.Enabled = enabled == "true" || enabled == "1"
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
}
