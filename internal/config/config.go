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

	Fetcher struct {
		UserAgent      string        `yaml:"user_agent"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"20s"`
		MinContentLen  int           `yaml:"min_content_len" default:"50"`
		MinMainLen     int           `yaml:"min_main_len" default:"200"`
		MaxContentLen  int           `yaml:"max_content_len" default:"15000"`
	} `yaml:"fetcher"`

	LLM struct {
		Provider        string        `yaml:"provider" default:"claude"`
		APIKey          string        `yaml:"api_key"`
		Model           string        `yaml:"model" default:"claude-3-7-sonnet-latest"`
		ClassifierModel string        `yaml:"classifier_model" default:"claude-3-5-haiku-latest"`
		MaxTokens       int           `yaml:"max_tokens" default:"8192"`
		Temperature     float32       `yaml:"temperature" default:"0.1"`
		Timeout         time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"llm"`

	Firecrawl struct {
		APIKey     string        `yaml:"api_key"`
		APIURL     string        `yaml:"api_url" default:"https://api.firecrawl.dev"`
		Timeout    time.Duration `yaml:"timeout" default:"60s"`
		MaxRetries int           `yaml:"max_retries" default:"3"`
		Formats    []string      `yaml:"formats" default:"markdown"`
	} `yaml:"firecrawl"`

	Classifier struct {
		BatchDelay   time.Duration `yaml:"batch_delay" default:"500ms"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		RetryBackoff time.Duration `yaml:"retry_backoff" default:"1s"`
		MinRationale int           `yaml:"min_rationale" default:"20"`
		MaxRationale int           `yaml:"max_rationale" default:"120"`
	} `yaml:"classifier"`

	Database struct {
		Driver   string `yaml:"driver" default:"postgres"`
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"5432"`
		User     string `yaml:"user" default:"postgres"`
		Password string `yaml:"password"`
		Name     string `yaml:"name" default:"aijobs"`
		SSLMode  string `yaml:"ssl_mode" default:"disable"`
	} `yaml:"database"`

	Redis struct {
		URL        string        `yaml:"url" default:"redis://localhost:6379"`
		Password   string        `yaml:"password"`
		DB         int           `yaml:"db" default:"0"`
		Timeout    time.Duration `yaml:"timeout" default:"5s"`
		PendingTTL time.Duration `yaml:"pending_ttl" default:"24h"`
	} `yaml:"redis"`

	Notify struct {
		Endpoint   string        `yaml:"endpoint"`
		Timeout    time.Duration `yaml:"timeout" default:"10s"`
		MaxRetries int           `yaml:"max_retries" default:"3"`
		Enabled    bool          `yaml:"enabled" default:"true"`
	} `yaml:"notify"`

	BackgroundTasks struct {
		MaxConcurrentTasks int           `yaml:"max_concurrent_tasks" default:"10"`
		TaskTimeout        time.Duration `yaml:"task_timeout" default:"120s"`
	} `yaml:"background_tasks"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

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

// DefaultConfig returns a configuration populated with every default value
func DefaultConfig() *Config {
	config := &Config{}

	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Fetcher.RequestTimeout = 20 * time.Second
	config.Fetcher.MinContentLen = 50
	config.Fetcher.MinMainLen = 200
	config.Fetcher.MaxContentLen = 15000
	config.Fetcher.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	config.LLM.Provider = "claude"
	config.LLM.Model = "claude-3-7-sonnet-latest"
	config.LLM.ClassifierModel = "claude-3-5-haiku-latest"
	config.LLM.MaxTokens = 8192
	config.LLM.Temperature = 0.1
	config.LLM.Timeout = 120 * time.Second

	config.Firecrawl.APIURL = "https://api.firecrawl.dev"
	config.Firecrawl.MaxRetries = 3
	config.Firecrawl.Timeout = 60 * time.Second
	config.Firecrawl.Formats = []string{"markdown"}

	config.Classifier.BatchDelay = 500 * time.Millisecond
	config.Classifier.MaxAttempts = 3
	config.Classifier.RetryBackoff = 1 * time.Second
	config.Classifier.MinRationale = 20
	config.Classifier.MaxRationale = 120

	config.Database.Driver = "postgres"
	config.Database.Host = "localhost"
	config.Database.Port = 5432
	config.Database.User = "postgres"
	config.Database.Name = "aijobs"
	config.Database.SSLMode = "disable"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second
	config.Redis.PendingTTL = 24 * time.Hour

	config.Notify.Timeout = 10 * time.Second
	config.Notify.MaxRetries = 3
	config.Notify.Enabled = true

	config.BackgroundTasks.MaxConcurrentTasks = 10
	config.BackgroundTasks.TaskTimeout = 120 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := DefaultConfig()

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

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if model := os.Getenv("LLM_CLASSIFIER_MODEL"); model != "" {
		c.LLM.ClassifierModel = model
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if userAgent := os.Getenv("FETCHER_USER_AGENT"); userAgent != "" {
		c.Fetcher.UserAgent = userAgent
	}

	if timeout := os.Getenv("FETCHER_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Fetcher.RequestTimeout = d
		}
	}

	if firecrawlAPIKey := os.Getenv("FIRECRAWL_API_KEY"); firecrawlAPIKey != "" {
		c.Firecrawl.APIKey = firecrawlAPIKey
	}

	if firecrawlAPIURL := os.Getenv("FIRECRAWL_API_URL"); firecrawlAPIURL != "" {
		c.Firecrawl.APIURL = firecrawlAPIURL
	}

	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}

	if host := os.Getenv("DATABASE_HOST"); host != "" {
		c.Database.Host = host
	}

	if port := os.Getenv("DATABASE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Database.Port = p
		}
	}

	if user := os.Getenv("DATABASE_USER"); user != "" {
		c.Database.User = user
	}

	if password := os.Getenv("DATABASE_PASSWORD"); password != "" {
		c.Database.Password = password
	}

	if name := os.Getenv("DATABASE_NAME"); name != "" {
		c.Database.Name = name
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if endpoint := os.Getenv("NOTIFY_ENDPOINT"); endpoint != "" {
		c.Notify.Endpoint = endpoint
	}

	if enabled := os.Getenv("NOTIFY_ENABLED"); enabled != "" {
		c.Notify.Enabled = enabled == "true" || enabled == "1"
	}

	if maxRetries := os.Getenv("NOTIFY_MAX_RETRIES"); maxRetries != "" {
		if retries, err := strconv.Atoi(maxRetries); err == nil {
			c.Notify.MaxRetries = retries
		}
	}

	if delay := os.Getenv("CLASSIFIER_BATCH_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			c.Classifier.BatchDelay = d
		}
	}
}

// DatabaseDSN renders the connection string for the configured driver.
func (c *Config) DatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		// Name holds the file path, or ":memory:"
		return c.Database.Name
	}
	dsn := "host=" + c.Database.Host +
		" user=" + c.Database.User +
		" dbname=" + c.Database.Name +
		" port=" + strconv.Itoa(c.Database.Port) +
		" sslmode=" + c.Database.SSLMode
	if c.Database.Password != "" {
		dsn += " password=" + c.Database.Password
	}
	return dsn
}
