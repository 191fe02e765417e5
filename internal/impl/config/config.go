package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "gpt-4o"
	defaultMaxFileSize = 1048576
	defaultMaxTokens   = 128000
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Workspace   string
	MaxFileSize int64
	MaxTokens   int
	logger      *zap.Logger
}

var (
	configInstance *Config
	once           sync.Once
)

func InitConfig() (*Config, error) {
	var initErr error

	once.Do(func() {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err := config.Build()
		if err != nil {
			logger = zap.NewNop()
			initErr = fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()

		// Load .env file
		if err := godotenv.Load(); err != nil {
			if os.IsNotExist(err) {
				logger.Warn("No .env file found; falling back to system environment variables")
			} else {
				initErr = fmt.Errorf("failed to load .env file: %w", err)
				logger.Error("Config file load error", zap.Error(err))
				return
			}
		} else {
			logger.Debug("Successfully loaded .env file")
		}

		apiKey := os.Getenv("ENGINEER_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			logger.Warn("ENGINEER_API_KEY not set in environment variables")
		}

		baseURL := strings.TrimSuffix(os.Getenv("ENGINEER_BASE_URL"), "/")
		if baseURL == "" {
			baseURL = defaultBaseURL
		}

		model := os.Getenv("ENGINEER_MODEL")
		if model == "" {
			model = defaultModel
		}

		workspace := os.Getenv("ENGINEER_WORKSPACE")
		if workspace == "" {
			workspace, err = os.Getwd()
			if err != nil {
				initErr = fmt.Errorf("failed to resolve working directory: %w", err)
				return
			}
		}

		maxFileSize := int64(defaultMaxFileSize)
		if raw := os.Getenv("ENGINEER_MAX_FILE_SIZE"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed <= 0 {
				initErr = fmt.Errorf("invalid ENGINEER_MAX_FILE_SIZE: %q", raw)
				return
			}
			maxFileSize = parsed
		}

		maxTokens := defaultMaxTokens
		if raw := os.Getenv("ENGINEER_MAX_TOKENS"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				initErr = fmt.Errorf("invalid ENGINEER_MAX_TOKENS: %q", raw)
				return
			}
			maxTokens = parsed
		}

		configInstance = &Config{
			APIKey:      apiKey,
			BaseURL:     baseURL,
			Model:       model,
			Workspace:   workspace,
			MaxFileSize: maxFileSize,
			MaxTokens:   maxTokens,
			logger:      logger,
		}
	})

	if initErr != nil {
		return nil, initErr
	}
	if configInstance == nil {
		return nil, fmt.Errorf("configuration initialization failed unexpectedly")
	}

	return configInstance, nil
}

func (c *Config) ResolveEnvironmentVariable(value string) (string, error) {
	const prefix, suffix = "#{", "}#"
	if strings.HasPrefix(value, prefix) && strings.HasSuffix(value, suffix) {
		varName := strings.TrimSuffix(strings.TrimPrefix(value, prefix), suffix)
		if varName == "" {
			return "", fmt.Errorf("empty variable name in reference: %s", value)
		}

		resolved := os.Getenv(varName)
		if resolved == "" {
			c.logger.Warn("Environment variable not found for reference",
				zap.String("reference", value),
				zap.String("var_name", varName))
			return "", fmt.Errorf("environment variable '%s' not found", varName)
		}

		c.logger.Debug("Resolved environment variable",
			zap.String("var_name", varName),
			zap.String("resolved", maskKey(resolved)))
		return resolved, nil
	}

	c.logger.Debug("Using raw value", zap.String("value", maskKey(value)))
	return value, nil
}

func (c *Config) ResolveConfiguration(config map[string]string) (map[string]string, error) {
	resolvedConfig := make(map[string]string)
	for key, value := range config {
		resolvedValue, err := c.ResolveEnvironmentVariable(value)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve configuration for key '%s': %w", key, err)
		}
		resolvedConfig[key] = resolvedValue
	}
	return resolvedConfig, nil
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
