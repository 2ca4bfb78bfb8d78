package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// OllamaEmbedderConfig holds configuration for a local Ollama embedder.
type OllamaEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// QdrantConfig contains connection details for a Qdrant collection holding entity vectors.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TagField    string `yaml:"tag_field"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbeddingsConfig selects where entity vectors come from.
type EmbeddingsConfig struct {
	// Type is one of file, qdrant, tfidf, openai, ollama.
	Type   string                `yaml:"type" env:"CLUSTERVIZ_EMBEDDINGS_TYPE"`
	File   string                `yaml:"file,omitempty" env:"CLUSTERVIZ_EMBEDDINGS_FILE"`
	Qdrant *QdrantConfig         `yaml:"qdrant,omitempty"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
	Ollama *OllamaEmbedderConfig `yaml:"ollama,omitempty"`
}

// ReducerConfig selects and configures the dimensionality reduction.
type ReducerConfig struct {
	Type         string  `yaml:"type" env:"CLUSTERVIZ_REDUCER"`
	Components   int     `yaml:"components" env:"CLUSTERVIZ_COMPONENTS"`
	Perplexity   float64 `yaml:"perplexity"`
	LearningRate float64 `yaml:"learning_rate"`
	Iterations   int     `yaml:"iterations"`
}

// ParserConfig configures the cluster file parser.
type ParserConfig struct {
	StrictRelationValues bool `yaml:"strict_relation_values" env:"CLUSTERVIZ_STRICT_RELATION_VALUES"`
	Workers              int  `yaml:"workers"`
}

// PlotConfig configures the rendered HTML page.
type PlotConfig struct {
	Title           string  `yaml:"title"`
	Filename        string  `yaml:"filename"`
	MarkerSize      int     `yaml:"marker_size"`
	Opacity         float64 `yaml:"opacity"`
	ShowUnclustered bool    `yaml:"show_unclustered"`
	PlotlyURL       string  `yaml:"plotly_url"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Debug bool `yaml:"debug" env:"CLUSTERVIZ_DEBUG"`
	JSON  bool `yaml:"json" env:"CLUSTERVIZ_LOG_JSON"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Reducer    ReducerConfig    `yaml:"reducer"`
	Parser     ParserConfig     `yaml:"parser"`
	Plot       PlotConfig       `yaml:"plot"`
	Log        LogConfig        `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// CLUSTERVIZ_* environment variables override values from the file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, applyEnv(cfg)
		}
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/clusterviz/config.yaml.
// If neither exists, it writes defaults to ~/.config/clusterviz/config.yaml and returns them.
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
	return cfg, userPath, applyEnv(cfg)
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

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "clusterviz", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Embeddings: EmbeddingsConfig{Type: "file"},
		Reducer: ReducerConfig{
			Type:         "pca",
			Components:   3,
			Perplexity:   30,
			LearningRate: 200,
			Iterations:   1000,
		},
		Plot: PlotConfig{
			Title:      "Doc2Vec embeddings",
			Filename:   "clusterviz.html",
			MarkerSize: 6,
			Opacity:    0.75,
			PlotlyURL:  "https://cdn.plot.ly/plotly-2.35.2.min.js",
		},
	}
}

func applyEnv(cfg *AppConfig) error {
	return env.Parse(cfg)
}

func applyConfigDefaults(cfg *AppConfig) {
	d := defaultConfig()
	if cfg.Embeddings.Type == "" {
		cfg.Embeddings.Type = d.Embeddings.Type
	}
	if cfg.Reducer.Type == "" {
		cfg.Reducer.Type = d.Reducer.Type
	}
	if cfg.Reducer.Components == 0 {
		cfg.Reducer.Components = d.Reducer.Components
	}
	if cfg.Reducer.Perplexity == 0 {
		cfg.Reducer.Perplexity = d.Reducer.Perplexity
	}
	if cfg.Reducer.LearningRate == 0 {
		cfg.Reducer.LearningRate = d.Reducer.LearningRate
	}
	if cfg.Reducer.Iterations == 0 {
		cfg.Reducer.Iterations = d.Reducer.Iterations
	}
	if cfg.Plot.Title == "" {
		cfg.Plot.Title = d.Plot.Title
	}
	if cfg.Plot.Filename == "" {
		cfg.Plot.Filename = d.Plot.Filename
	}
	if cfg.Plot.MarkerSize == 0 {
		cfg.Plot.MarkerSize = d.Plot.MarkerSize
	}
	if cfg.Plot.Opacity == 0 {
		cfg.Plot.Opacity = d.Plot.Opacity
	}
	if cfg.Plot.PlotlyURL == "" {
		cfg.Plot.PlotlyURL = d.Plot.PlotlyURL
	}
	if cfg.Embeddings.Type == "openai" && cfg.Embeddings.OpenAI != nil {
		if cfg.Embeddings.OpenAI.BaseURL == "" {
			cfg.Embeddings.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embeddings.OpenAI.APIKeyEnv == "" {
			cfg.Embeddings.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embeddings.OpenAI.Model == "" {
			cfg.Embeddings.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embeddings.OpenAI.TimeoutSecs == 0 {
			cfg.Embeddings.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Embeddings.Type == "qdrant" && cfg.Embeddings.Qdrant != nil {
		if cfg.Embeddings.Qdrant.TagField == "" {
			cfg.Embeddings.Qdrant.TagField = "tag"
		}
		if cfg.Embeddings.Qdrant.TimeoutSecs == 0 {
			cfg.Embeddings.Qdrant.TimeoutSecs = 15
		}
	}
}
