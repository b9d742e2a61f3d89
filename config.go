package docflow

import (
	"os"
	"path/filepath"
)

// Config holds all configuration for the docFlow pipeline.
type Config struct {
	// DBPath is the full path to the SQLite database file.
	// If empty, defaults to ~/.docflow/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	// Defaults to "docflow_memory".
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the database is created when DBPath is
	// not explicitly set. "home" (default) uses ~/.docflow/, "local"
	// uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// Chat configures the classification and extraction oracles.
	Chat LLMConfig `json:"chat" yaml:"chat"`

	// Embedding optionally configures the provider backing semantic
	// search over stored records. Leave the provider empty to disable
	// the search index; the intake pipeline does not need it.
	Embedding LLMConfig `json:"embedding" yaml:"embedding"`

	// EmbeddingDim must match the embedding model's output dimension.
	EmbeddingDim int `json:"embedding_dim" yaml:"embedding_dim"`
}

// LLMConfig configures a single LLM provider endpoint.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider"` // groq, openai, openrouter, ollama, custom
	Model    string `json:"model" yaml:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key"`
}

// DefaultConfig returns a Config matching the stock deployment: Groq for
// the oracles, no search index, database in ~/.docflow/.
func DefaultConfig() Config {
	return Config{
		DBName:     "docflow_memory",
		StorageDir: "home",
		Chat: LLMConfig{
			Provider: "groq",
			Model:    "llama-3.3-70b-versatile",
		},
		EmbeddingDim: 768,
	}
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "docflow_memory"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db" // fallback to cwd
		}
		return filepath.Join(home, ".docflow", name+".db")
	}
}
