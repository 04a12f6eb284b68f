package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"chatbot/internal/engine"
)

// KnowledgeConfig locates the knowledge document.
type KnowledgeConfig struct {
	Path string `yaml:"path"`
}

// VectorizerConfig sets the n-gram span of the TF-IDF model.
type VectorizerConfig struct {
	NgramMin int `yaml:"ngram_min"`
	NgramMax int `yaml:"ngram_max"`
}

// EngineConfig holds the response policy constants.
type EngineConfig struct {
	Threshold         float64  `yaml:"threshold"`
	MaxResponseLength int      `yaml:"max_response_length"`
	EmptyPrompt       string   `yaml:"empty_prompt"`
	Fallbacks         []string `yaml:"fallbacks"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	AllowOrigin  string `yaml:"allow_origin"`
	ReadTimeout  int    `yaml:"read_timeout_secs"`
	WriteTimeout int    `yaml:"write_timeout_secs"`
}

// SummarizerConfig configures the knowledge summary.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Knowledge  KnowledgeConfig  `yaml:"knowledge"`
	Vectorizer VectorizerConfig `yaml:"vectorizer"`
	Engine     EngineConfig     `yaml:"engine"`
	Server     ServerConfig     `yaml:"server"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// EngineSettings converts the engine section into an engine.Config.
func (c *AppConfig) EngineSettings() engine.Config {
	return engine.Config{
		Threshold:         c.Engine.Threshold,
		MaxResponseLength: c.Engine.MaxResponseLength,
		EmptyPrompt:       c.Engine.EmptyPrompt,
		Fallbacks:         append([]string(nil), c.Engine.Fallbacks...),
	}
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/chatbot/config.yaml.
// If neither exists, it writes defaults to ~/.config/chatbot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings no component can work with.
func (c *AppConfig) Validate() error {
	if c.Vectorizer.NgramMin <= 0 || c.Vectorizer.NgramMax < c.Vectorizer.NgramMin {
		return fmt.Errorf("vectorizer: invalid n-gram span [%d,%d]", c.Vectorizer.NgramMin, c.Vectorizer.NgramMax)
	}
	if c.Engine.Threshold < 0 || c.Engine.Threshold >= 1 {
		return fmt.Errorf("engine: threshold %v outside [0,1)", c.Engine.Threshold)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chatbot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	def := engine.DefaultConfig()
	return &AppConfig{
		Knowledge:  KnowledgeConfig{Path: "personal_data.txt"},
		Vectorizer: VectorizerConfig{NgramMin: 1, NgramMax: 2},
		Engine: EngineConfig{
			Threshold:         def.Threshold,
			MaxResponseLength: def.MaxResponseLength,
			EmptyPrompt:       def.EmptyPrompt,
			Fallbacks:         def.Fallbacks,
		},
		Server:     ServerConfig{Addr: ":5000", AllowOrigin: "*", ReadTimeout: 15, WriteTimeout: 15},
		Summarizer: SummarizerConfig{MaxSentences: 3},
	}
}

// applyConfigDefaults fills zero values; a zero threshold means the default.
func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Knowledge.Path == "" {
		cfg.Knowledge.Path = def.Knowledge.Path
	}
	if cfg.Vectorizer.NgramMin == 0 && cfg.Vectorizer.NgramMax == 0 {
		cfg.Vectorizer = def.Vectorizer
	}
	if cfg.Engine.Threshold == 0 {
		cfg.Engine.Threshold = def.Engine.Threshold
	}
	if cfg.Engine.MaxResponseLength == 0 {
		cfg.Engine.MaxResponseLength = def.Engine.MaxResponseLength
	}
	if cfg.Engine.EmptyPrompt == "" {
		cfg.Engine.EmptyPrompt = def.Engine.EmptyPrompt
	}
	if len(cfg.Engine.Fallbacks) == 0 {
		cfg.Engine.Fallbacks = def.Engine.Fallbacks
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.AllowOrigin == "" {
		cfg.Server.AllowOrigin = def.Server.AllowOrigin
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = def.Summarizer.MaxSentences
	}
}

// applyEnv lets the environment (or a .env file loaded by main) override
// the knowledge path and listen address.
func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("CHATBOT_KNOWLEDGE_PATH"); v != "" {
		cfg.Knowledge.Path = v
	}
	if v := os.Getenv("CHATBOT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}
