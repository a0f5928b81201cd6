package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModelProviderGemini   = "gemini"
	ModelProviderGigaChat = "gigachat"
	ModelProviderNone     = "none"
)

type Config struct {
	Server    ServerConfig
	Knowledge KnowledgeConfig
	Model     ModelConfig
	Gemini    GeminiConfig
	GigaChat  GigaChatConfig
	GitHub    GitHubConfig
	Locale    string
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type KnowledgeConfig struct {
	Path       string
	BackupDir  string
	Watch      bool
	MaxResults int
}

// ModelConfig holds generation parameters shared by every model provider.
type ModelConfig struct {
	Provider    string
	Temperature float32
	TopK        float32
	TopP        float32
	MaxTokens   int32
	Timeout     time.Duration

	// ExtractTimeout bounds document extraction calls, which send much larger prompts.
	ExtractTimeout time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
}

type GitHubConfig struct {
	Token         string
	Repo          string // owner/repo
	KnowledgePath string
}

// Enabled reports whether knowledge publishing to GitHub is configured.
func (c GitHubConfig) Enabled() bool {
	return c.Token != "" && c.Repo != ""
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work the same (Docker/K8s)
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	bodyLimitMB, _ := strconv.Atoi(getEnv("SERVER_BODY_LIMIT_MB", "10"))
	maxResults, _ := strconv.Atoi(getEnv("KNOWLEDGE_MAX_RESULTS", "0"))
	modelTimeout, _ := strconv.Atoi(getEnv("MODEL_TIMEOUT_SECONDS", "20"))
	extractTimeout, _ := strconv.Atoi(getEnv("MODEL_EXTRACT_TIMEOUT_SECONDS", "60"))
	maxTokens, _ := strconv.Atoi(getEnv("MODEL_MAX_TOKENS", "1024"))

	geminiKey := getEnv("GEMINI_API_KEY", getEnv("VITE_GEMINI_API_KEY", ""))
	defaultProvider := ModelProviderNone
	if geminiKey != "" {
		defaultProvider = ModelProviderGemini
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", getEnv("PORT", "3001")),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			BodyLimit:    bodyLimitMB * 1024 * 1024,
		},
		Knowledge: KnowledgeConfig{
			Path:       getEnv("KNOWLEDGE_PATH", "public/knowledge.json"),
			BackupDir:  getEnv("KNOWLEDGE_BACKUP_DIR", "public/backups"),
			Watch:      getEnv("KNOWLEDGE_WATCH", "true") == "true",
			MaxResults: maxResults,
		},
		Model: ModelConfig{
			Provider:    strings.ToLower(getEnv("MODEL_PROVIDER", defaultProvider)),
			Temperature: getEnvFloat32("MODEL_TEMPERATURE", 0.3),
			TopK:        getEnvFloat32("MODEL_TOP_K", 40),
			TopP:        getEnvFloat32("MODEL_TOP_P", 0.95),
			MaxTokens:   int32(maxTokens),
			Timeout:     time.Duration(modelTimeout) * time.Second,

			ExtractTimeout: time.Duration(extractTimeout) * time.Second,
		},
		Gemini: GeminiConfig{
			APIKey: geminiKey,
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			InsecureSkipVerify: getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "false") == "true",
		},
		GitHub: GitHubConfig{
			Token:         getEnv("GITHUB_TOKEN", ""),
			Repo:          getEnv("GITHUB_REPO", ""),
			KnowledgePath: getEnv("GITHUB_KNOWLEDGE_PATH", "public/knowledge.json"),
		},
		Locale: getEnv("LOCALE", "zh-TW"),
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Model.Provider {
	case ModelProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("MODEL_PROVIDER=gemini requires GEMINI_API_KEY")
		}
	case ModelProviderGigaChat:
		if c.GigaChat.APIKey == "" {
			return fmt.Errorf("MODEL_PROVIDER=gigachat requires GIGACHAT_API_KEY")
		}
	case ModelProviderNone:
	default:
		return fmt.Errorf("unknown MODEL_PROVIDER %q (expected gemini, gigachat or none)", c.Model.Provider)
	}

	switch c.Locale {
	case "zh-TW", "en":
	default:
		return fmt.Errorf("unknown LOCALE %q (expected zh-TW or en)", c.Locale)
	}

	if c.GitHub.Repo != "" && !strings.Contains(c.GitHub.Repo, "/") {
		return fmt.Errorf("GITHUB_REPO must look like owner/repo, got %q", c.GitHub.Repo)
	}

	if c.Model.Timeout <= 0 {
		c.Model.Timeout = 20 * time.Second
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat32(key string, defaultValue float32) float32 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 32)
	if err != nil {
		return defaultValue
	}
	return float32(v)
}
